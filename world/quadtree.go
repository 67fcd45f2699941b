package world

// Spatial index limits.
const (
	maxOccupants = 4
	maxLevel     = 6
	rootName     = "root"
)

// occupant is an agent placed in the index. idx refers to the Sim's
// per-step agent table.
type occupant struct {
	idx int
	pos [2]float32
}

type quadNode struct {
	name      string
	pos       [2]float32
	size      float32
	level     int
	occupants []occupant
	children  []*quadNode
}

func (q *quadNode) leaf() bool { return len(q.children) == 0 }

func (q *quadNode) contains(p [2]float32) bool {
	return p[0] >= q.pos[0] && p[0] <= q.pos[0]+q.size &&
		p[1] >= q.pos[1] && p[1] <= q.pos[1]+q.size
}

// quadrant offsets in clockwise winding.
var quadOrder = [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

func (q *quadNode) subdivide(names *nameGen) {
	half := q.size / 2
	q.children = make([]*quadNode, 4)
	for i, o := range quadOrder {
		q.children[i] = &quadNode{
			name:  names.next(),
			pos:   [2]float32{q.pos[0] + half*o[0], q.pos[1] + half*o[1]},
			size:  half,
			level: q.level + 1,
		}
	}

	held := q.occupants
	q.occupants = nil
	for _, o := range held {
		q.place(o, names)
	}
}

// place inserts into the first child containing the point, falling back to
// this node for points that no child accepts.
func (q *quadNode) place(o occupant, names *nameGen) {
	for _, c := range q.children {
		if c.insert(o, names) {
			return
		}
	}
	q.occupants = append(q.occupants, o)
}

func (q *quadNode) insert(o occupant, names *nameGen) bool {
	if !q.contains(o.pos) {
		return false
	}
	if !q.leaf() {
		q.place(o, names)
		return true
	}
	if len(q.occupants) < maxOccupants || q.level >= maxLevel {
		q.occupants = append(q.occupants, o)
		return true
	}
	q.subdivide(names)
	q.place(o, names)
	return true
}

func (q *quadNode) node() Node {
	n := Node{
		Name:      q.name,
		Position:  q.pos,
		Size:      q.size,
		Level:     q.level,
		Leaf:      q.leaf(),
		Occupants: len(q.occupants),
	}
	for _, c := range q.children {
		n.ChildNames = append(n.ChildNames, c.name)
	}
	return n
}

func (q *quadNode) intersectsCircle(p [2]float32, r float32) bool {
	cx := clampf(p[0], q.pos[0], q.pos[0]+q.size)
	cy := clampf(p[1], q.pos[1], q.pos[1]+q.size)
	dx, dy := p[0]-cx, p[1]-cy
	return dx*dx+dy*dy < r*r
}

// quadTree is a point quadtree over the world square.
type quadTree struct {
	root  *quadNode
	names *nameGen
}

func newQuadTree(size float32, names *nameGen) *quadTree {
	return &quadTree{
		root:  &quadNode{name: rootName, size: size},
		names: names,
	}
}

func (t *quadTree) insert(o occupant) bool {
	return t.root.insert(o, t.names)
}

// flatten lists every region in depth-first order.
func (t *quadTree) flatten() []Node {
	var out []Node
	var walk func(*quadNode)
	walk = func(q *quadNode) {
		out = append(out, q.node())
		for _, c := range q.children {
			walk(c)
		}
	}
	walk(t.root)
	return out
}

// leafAt returns the first leaf containing p.
func (t *quadTree) leafAt(p [2]float32) (*quadNode, bool) {
	var find func(*quadNode) *quadNode
	find = func(q *quadNode) *quadNode {
		if !q.contains(p) {
			return nil
		}
		if q.leaf() {
			return q
		}
		for _, c := range q.children {
			if hit := find(c); hit != nil {
				return hit
			}
		}
		return nil
	}
	hit := find(t.root)
	return hit, hit != nil
}

// inRadius calls fn for every occupant strictly within r of p, in
// depth-first region order.
func (t *quadTree) inRadius(p [2]float32, r float32, fn func(occupant)) {
	var walk func(*quadNode)
	walk = func(q *quadNode) {
		if !q.intersectsCircle(p, r) {
			return
		}
		for _, o := range q.occupants {
			dx, dy := o.pos[0]-p[0], o.pos[1]-p[1]
			if dx*dx+dy*dy < r*r {
				fn(o)
			}
		}
		for _, c := range q.children {
			walk(c)
		}
	}
	walk(t.root)
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
