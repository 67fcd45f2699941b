// Package world defines the contract of the simulation world consumed by the
// viewer, and a reference implementation of it.
//
// The viewer only ever talks to a World through this interface. Sim is one
// implementation (an ark ECS population on a bounded square); anything that
// produces the same parallel-array snapshots can be substituted.
package world

// Wire codes for agent kinds, as reported in RawAgents.Kinds.
const (
	CodePredator uint8 = 0
	CodePrey     uint8 = 1
	CodeForage   uint8 = 2
)

// Wire codes for agent states, as reported in RawAgents.States.
const (
	CodeIdle        uint8 = 0
	CodeHunting     uint8 = 1
	CodeFleeing     uint8 = 2
	CodeReproducing uint8 = 3
	CodeDead        uint8 = 4
)

// Genotype trait keys used in RawAgents.Genotypes.
const (
	TraitSize        = "size"
	TraitSightRange  = "sight_range"
	TraitMuscleMass  = "muscle_mass"
	TraitHungerRate  = "hunger_rate"
	TraitHealthScale = "health_scale"
	TraitSpeed       = "speed"
	TraitGestation   = "gestation"
)

// RawAgents is one population query result in parallel-array form.
// Index i of every column describes the same agent. Headings, Genotypes and
// States may be empty (not reported) but when present must match IDs in length.
type RawAgents struct {
	IDs       []string
	Positions [][2]float32
	Headings  [][2]float32
	Kinds     []uint8
	Genotypes []map[string]float32
	States    []uint8
	Vitals    [][2]float32 // health, hunger
}

// Len returns the number of agents according to the id column.
func (r RawAgents) Len() int {
	return len(r.IDs)
}

// Node is one region record of the world's spatial index.
type Node struct {
	Name       string
	Position   [2]float32 // minimum corner
	Size       float32
	Level      int
	ChildNames []string
	Leaf       bool
	Occupants  int
}

// Contains reports whether the point lies inside the node bounds (inclusive).
func (n Node) Contains(x, y float32) bool {
	return x >= n.Position[0] && x <= n.Position[0]+n.Size &&
		y >= n.Position[1] && y <= n.Position[1]+n.Size
}

// Center returns the center of the node bounds.
func (n Node) Center() [2]float32 {
	h := n.Size / 2
	return [2]float32{n.Position[0] + h, n.Position[1] + h}
}

// World is the simulation engine as seen by the viewer.
type World interface {
	// Step advances the simulation. Errors are not recoverable by the caller.
	Step(highPrecision bool, elapsed float64) error
	// Agents returns the full current population.
	Agents() (RawAgents, error)
	// AgentsInRadius returns agents within radius of (x, y), in the world's own order.
	AgentsInRadius(x, y, radius float32) (RawAgents, error)
	// SpatialIndex returns the spatial index as a flat, unordered node list.
	SpatialIndex() []Node
	// ActivateNode returns the leaf region containing (x, y), if any.
	ActivateNode(x, y float32) (Node, bool)
	// Noise samples a deterministic scalar field in [0, 1].
	Noise(x, y float32) float32
	// Size returns the side length of the world square.
	Size() float32
}
