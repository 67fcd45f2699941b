package pool

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
)

// ErrCapacityExceeded is returned when a kind has more live agents than its
// pool has slots. Pools are never grown or truncated to fit.
var ErrCapacityExceeded = errors.New("pool capacity exceeded")

// Style controls how an agent becomes a transform.
type Style struct {
	Layout scene.Layout
	// DeadTilt is the rotation about the local X axis, in radians, applied
	// to agents reported dead.
	DeadTilt float32
	// AgentScale multiplies the size trait of predators and prey.
	AgentScale float32
	// ForageScale is the scale of forage at full health.
	ForageScale float32
}

// Transform composes translate * yaw * tilt * scale for one agent.
func (s Style) Transform(a snapshot.Agent) mgl32.Mat4 {
	p := s.Layout.ToScene(a.Position)
	yaw := float32(math.Atan2(float64(a.Heading.X()), float64(a.Heading.Y())))

	m := mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.HomogRotate3DY(yaw))
	if a.Dead() {
		m = m.Mul4(mgl32.HomogRotate3DX(s.DeadTilt))
	}
	k := s.scale(a)
	return m.Mul4(mgl32.Scale3D(k, k, k))
}

func (s Style) scale(a snapshot.Agent) float32 {
	if a.Kind == snapshot.KindForage {
		frac := mgl32.Clamp(a.Vitals.Health/snapshot.MaxVital, 0, 1)
		return s.ForageScale * frac
	}
	size := a.Genotype.Size
	if size <= 0 {
		size = 1
	}
	return s.AgentScale * size
}

// Synchronizer owns one pool per kind and keeps them in step with snapshots.
type Synchronizer struct {
	pools [snapshot.NumKinds]*Pool
	style Style
}

// NewSynchronizer creates parked pools with the given per-kind capacities.
func NewSynchronizer(capacities [snapshot.NumKinds]int, style Style) *Synchronizer {
	s := &Synchronizer{style: style}
	for _, k := range snapshot.Kinds {
		s.pools[k] = New(k, capacities[k])
	}
	return s
}

// Pool returns the pool for one kind.
func (s *Synchronizer) Pool(k snapshot.Kind) *Pool {
	return s.pools[k]
}

// Pools returns every pool in kind order.
func (s *Synchronizer) Pools() [snapshot.NumKinds]*Pool {
	return s.pools
}

// Sync writes the snapshot into the pools. Every kind is checked against its
// capacity before any pool is touched, so on error the pools still hold the
// previous frame.
func (s *Synchronizer) Sync(snap *snapshot.Snapshot) error {
	for _, k := range snapshot.Kinds {
		if n, c := snap.Count(k), s.pools[k].Capacity(); n > c {
			return fmt.Errorf("%w: %d live %s, capacity %d", ErrCapacityExceeded, n, k, c)
		}
	}
	for _, k := range snapshot.Kinds {
		s.pools[k].write(snap.OfKind(k), s.style)
	}
	return nil
}
