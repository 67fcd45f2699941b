// Package pool maps each step's live agents onto fixed-capacity render
// instance buffers, one per agent kind.
package pool

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/snapshot"
)

// Parked is the transform held by every unused slot. It sits far below the
// ground plane and is scaled to nothing so it can never be seen.
var Parked = mgl32.Translate3D(0, -1e6, 0).Mul4(mgl32.Scale3D(0, 0, 0))

// Pool is a fixed-capacity transform buffer for one agent kind.
// Slots [Active(), Capacity()) always hold Parked.
//
// Slot indices are not identities: the slot of an agent can change from one
// sync to the next. Use SlotOf and IDAt, which are rebuilt on every sync.
type Pool struct {
	kind       snapshot.Kind
	transforms []mgl32.Mat4
	ids        []string
	slots      map[string]int
	active     int
	dirty      bool
}

// New creates a pool with every slot parked.
func New(kind snapshot.Kind, capacity int) *Pool {
	p := &Pool{
		kind:       kind,
		transforms: make([]mgl32.Mat4, capacity),
		ids:        make([]string, capacity),
		slots:      make(map[string]int, capacity),
		dirty:      true,
	}
	for i := range p.transforms {
		p.transforms[i] = Parked
	}
	return p
}

// Kind returns the agent kind this pool renders.
func (p *Pool) Kind() snapshot.Kind { return p.kind }

// Capacity returns the fixed number of slots.
func (p *Pool) Capacity() int { return len(p.transforms) }

// Active returns the number of slots holding live agents.
func (p *Pool) Active() int { return p.active }

// Transforms returns the whole slot buffer, parked slots included.
// The slice is owned by the pool and must not be modified.
func (p *Pool) Transforms() []mgl32.Mat4 { return p.transforms }

// IDAt returns the id of the agent occupying slot i, or "" for a parked slot.
func (p *Pool) IDAt(i int) string {
	if i < 0 || i >= p.active {
		return ""
	}
	return p.ids[i]
}

// SlotOf returns the slot currently occupied by id.
func (p *Pool) SlotOf(id string) (int, bool) {
	i, ok := p.slots[id]
	return i, ok
}

// Dirty reports whether the buffer changed since the last upload.
func (p *Pool) Dirty() bool { return p.dirty }

// ClearDirty is called by the renderer after it uploads the buffer.
func (p *Pool) ClearDirty() { p.dirty = false }

// write overwrites [0, len(agents)) and parks [len(agents), previous active).
// Slots beyond the previous active count are already parked and left alone.
func (p *Pool) write(agents []snapshot.Agent, style Style) {
	prev := p.active
	next := len(agents)

	clear(p.slots)
	for i, a := range agents {
		p.transforms[i] = style.Transform(a)
		p.ids[i] = a.ID
		p.slots[a.ID] = i
	}
	for i := next; i < prev; i++ {
		p.transforms[i] = Parked
		p.ids[i] = ""
	}

	p.active = next
	p.dirty = true
}
