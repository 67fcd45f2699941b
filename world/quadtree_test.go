package world

import (
	"slices"
	"testing"
)

func insertAll(t *quadTree, pts ...[2]float32) {
	for i, p := range pts {
		t.insert(occupant{idx: i, pos: p})
	}
}

func TestQuadTreeSplitsOnFifthOccupant(t *testing.T) {
	tree := newQuadTree(100, newNameGen(1))
	insertAll(tree, [2]float32{10, 10}, [2]float32{20, 20}, [2]float32{30, 30}, [2]float32{70, 70})

	if nodes := tree.flatten(); len(nodes) != 1 {
		t.Fatalf("expected a single root before the split, got %d nodes", len(nodes))
	}

	tree.insert(occupant{idx: 4, pos: [2]float32{80, 20}})
	nodes := tree.flatten()
	if len(nodes) != 5 {
		t.Fatalf("expected root and 4 children, got %d nodes", len(nodes))
	}
	root := nodes[0]
	if root.Name != rootName || root.Leaf || len(root.ChildNames) != 4 || root.Occupants != 0 {
		t.Errorf("unexpected root after split: %+v", root)
	}

	total := 0
	for _, n := range nodes[1:] {
		if n.Level != 1 || n.Size != 50 || !n.Leaf {
			t.Errorf("unexpected child %+v", n)
		}
		total += n.Occupants
	}
	if total != 5 {
		t.Errorf("expected 5 occupants in children, got %d", total)
	}
}

func TestQuadTreeStopsAtMaxLevel(t *testing.T) {
	tree := newQuadTree(64, newNameGen(1))
	for i := range 20 {
		tree.insert(occupant{idx: i, pos: [2]float32{1, 1}})
	}

	deepest := 0
	for _, n := range tree.flatten() {
		deepest = max(deepest, n.Level)
	}
	if deepest != maxLevel {
		t.Errorf("expected depth %d, got %d", maxLevel, deepest)
	}

	leaf, ok := tree.leafAt([2]float32{1, 1})
	if !ok {
		t.Fatal("expected a leaf at (1, 1)")
	}
	if len(leaf.occupants) != 20 {
		t.Errorf("expected all 20 occupants in the deepest leaf, got %d", len(leaf.occupants))
	}
}

func TestQuadTreeRejectsOutsidePoints(t *testing.T) {
	tree := newQuadTree(10, newNameGen(1))
	if tree.insert(occupant{pos: [2]float32{11, 5}}) {
		t.Error("expected insert outside bounds to fail")
	}
	if _, ok := tree.leafAt([2]float32{-1, 5}); ok {
		t.Error("expected no leaf outside bounds")
	}
}

func TestQuadTreeInRadiusIsStrict(t *testing.T) {
	tree := newQuadTree(100, newNameGen(1))
	insertAll(tree,
		[2]float32{50, 50},
		[2]float32{53, 50}, // exactly on the radius
		[2]float32{51, 51},
		[2]float32{90, 90},
		[2]float32{10, 90},
		[2]float32{49, 52},
	)

	var got []int
	tree.inRadius([2]float32{50, 50}, 3, func(o occupant) { got = append(got, o.idx) })
	slices.Sort(got)
	if !slices.Equal(got, []int{0, 2, 5}) {
		t.Errorf("expected occupants [0 2 5], got %v", got)
	}
}

func TestQuadTreeChildNamesMatchChildren(t *testing.T) {
	tree := newQuadTree(100, newNameGen(7))
	for i := range 40 {
		tree.insert(occupant{idx: i, pos: [2]float32{float32(i*37%100) + 0.5, float32(i*53%100) + 0.5}})
	}

	nodes := tree.flatten()
	for i, n := range nodes {
		for _, name := range n.ChildNames {
			found := slices.ContainsFunc(nodes, func(c Node) bool { return c.Level == n.Level+1 && c.Name == name })
			if !found {
				t.Errorf("node %d (%s): child %q not listed one level down", i, n.Name, name)
			}
		}
	}
}
