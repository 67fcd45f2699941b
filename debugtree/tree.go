// Package debugtree rebuilds the spatial index hierarchy from the world's
// flat node list and turns it into overlay geometry.
package debugtree

import (
	"slices"
	"sort"

	"github.com/pthm-cable/pasture/world"
)

// Tree is the parent/child structure recovered from a flat node list.
// Node indices refer to the input slice order.
type Tree struct {
	nodes    []world.Node
	parent   []int
	children [][]int
	levels   map[int][]int
}

// Reconstruct derives parent links by name. A node's parent is searched for
// only among nodes one level up, since names may repeat on other levels.
// When two candidates list the same child the last one in discovery order
// wins. Malformed input never fails; unmatched nodes become roots.
func Reconstruct(nodes []world.Node) *Tree {
	t := &Tree{
		nodes:    nodes,
		parent:   make([]int, len(nodes)),
		children: make([][]int, len(nodes)),
		levels:   make(map[int][]int),
	}

	for i, n := range nodes {
		t.parent[i] = -1
		t.levels[n.Level] = append(t.levels[n.Level], i)
	}

	for i, n := range nodes {
		for _, j := range t.levels[n.Level-1] {
			if slices.Contains(nodes[j].ChildNames, n.Name) {
				t.parent[i] = j
			}
		}
		if p := t.parent[i]; p >= 0 {
			t.children[p] = append(t.children[p], i)
		}
	}
	return t
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i.
func (t *Tree) Node(i int) world.Node { return t.nodes[i] }

// Parent returns the parent index of node i, or false for a root.
func (t *Tree) Parent(i int) (int, bool) {
	p := t.parent[i]
	return p, p >= 0
}

// Children returns the child indices of node i in input order.
func (t *Tree) Children(i int) []int { return t.children[i] }

// Roots returns every node without a parent.
func (t *Tree) Roots() []int {
	var out []int
	for i, p := range t.parent {
		if p < 0 {
			out = append(out, i)
		}
	}
	return out
}

// Level returns the node indices at one level in discovery order.
func (t *Tree) Level(l int) []int { return t.levels[l] }

// Depth returns the sorted list of levels present.
func (t *Tree) Depth() []int {
	out := make([]int, 0, len(t.levels))
	for l := range t.levels {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// Leaf reports whether node i has no subdivisions.
func (t *Tree) Leaf(i int) bool {
	return t.nodes[i].Leaf || len(t.nodes[i].ChildNames) == 0
}

// Find returns the index of the node matching n by level, name and bounds.
func (t *Tree) Find(n world.Node) (int, bool) {
	for _, i := range t.levels[n.Level] {
		m := t.nodes[i]
		if m.Name == n.Name && m.Position == n.Position && m.Size == n.Size {
			return i, true
		}
	}
	return -1, false
}

// Ancestors returns the chain from node i up to its root, i first.
func (t *Tree) Ancestors(i int) []int {
	chain := []int{i}
	for {
		p, ok := t.Parent(i)
		if !ok {
			return chain
		}
		chain = append(chain, p)
		i = p
	}
}
