package picker

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/world"
)

// RadiusQuerier is the part of the world the picker needs.
type RadiusQuerier interface {
	AgentsInRadius(x, y, radius float32) (world.RawAgents, error)
}

// Picker turns pointer positions into hover candidates.
type Picker struct {
	world  RadiusQuerier
	layout scene.Layout
	radius float32
}

// New creates a picker querying agents within radius world units of the
// pointer's ground point.
func New(w RadiusQuerier, layout scene.Layout, radius float32) *Picker {
	return &Picker{world: w, layout: layout, radius: radius}
}

// Ground returns the world position under the pointer. It reports false when
// the pointer ray misses the ground or lands outside the world square.
func (p *Picker) Ground(pointer mgl32.Vec2, view, proj mgl32.Mat4, vp Viewport) (mgl32.Vec2, bool) {
	ray, err := ScreenRay(pointer.X(), pointer.Y(), view, proj, vp)
	if err != nil {
		return mgl32.Vec2{}, false
	}
	hit, ok := ray.IntersectGround(p.layout.GroundY)
	if !ok {
		return mgl32.Vec2{}, false
	}
	pos := p.layout.ToWorld(hit)
	if !p.layout.Contains(pos) {
		return mgl32.Vec2{}, false
	}
	return pos, true
}

// Pick returns the id of the first agent the world reports near the pointer.
// The world's result order is taken as-is; equidistant agents are not
// re-ranked. A malformed radius result is returned as an error.
func (p *Picker) Pick(pointer mgl32.Vec2, view, proj mgl32.Mat4, vp Viewport) (string, bool, error) {
	pos, ok := p.Ground(pointer, view, proj, vp)
	if !ok {
		return "", false, nil
	}

	raw, err := p.world.AgentsInRadius(pos.X(), pos.Y(), p.radius)
	if err != nil {
		return "", false, fmt.Errorf("radius query: %w", err)
	}
	near, err := snapshot.Read(0, raw)
	if err != nil {
		return "", false, fmt.Errorf("radius query: %w", err)
	}
	if near.Len() == 0 {
		return "", false, nil
	}
	return near.All()[0].ID, true, nil
}
