package camera

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
)

// Mode selects what drives the presented camera.
type Mode uint8

const (
	// ModeFree presents the orbit camera unchanged.
	ModeFree Mode = iota
	// ModeTracking follows one agent by id.
	ModeTracking
)

func (m Mode) String() string {
	if m == ModeTracking {
		return "tracking"
	}
	return "free"
}

// TrackingParams configures the follow camera.
type TrackingParams struct {
	// Offset from the agent to the eye at zoom 1, in scene units.
	Offset mgl32.Vec3
	// Zoom is the initial offset multiplier, kept in [MinZoom, MaxZoom].
	Zoom, MinZoom, MaxZoom float32
	// ZoomStep is the zoom change per unit of wheel delta.
	ZoomStep float32
	// SubstituteHover hands tracking to the hover candidate when the
	// tracked agent disappears.
	SubstituteHover bool
}

// Controller is the Free/Tracking state machine. The orbit it wraps is never
// written here, so leaving Tracking restores the free view exactly.
type Controller struct {
	orbit  *Orbit
	layout scene.Layout
	params TrackingParams

	mode    Mode
	tracked string
	zoom    float32
	pose    Pose
}

// NewController starts in ModeFree presenting the orbit's pose.
func NewController(orbit *Orbit, layout scene.Layout, p TrackingParams) *Controller {
	return &Controller{
		orbit:  orbit,
		layout: layout,
		params: p,
		zoom:   clamp(p.Zoom, p.MinZoom, p.MaxZoom),
		pose:   orbit.Pose(),
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Tracked returns the tracked id, or "" when free.
func (c *Controller) Tracked() string { return c.tracked }

// Zoom returns the accumulated tracking zoom.
func (c *Controller) Zoom() float32 { return c.zoom }

// Pose returns the pose produced by the last Update.
func (c *Controller) Pose() Pose { return c.pose }

// Track starts following id, replacing any current target.
func (c *Controller) Track(id string) {
	if id == "" || (c.mode == ModeTracking && c.tracked == id) {
		return
	}
	slog.Debug("camera tracking", "id", id, "previous", c.tracked)
	c.mode = ModeTracking
	c.tracked = id
}

// Release returns to the free camera.
func (c *Controller) Release() {
	if c.mode == ModeFree {
		return
	}
	slog.Debug("camera released", "id", c.tracked)
	c.mode = ModeFree
	c.tracked = ""
}

// Scroll adjusts the tracking zoom. Positive delta moves closer. Input is
// rejected, and false returned, while free.
func (c *Controller) Scroll(delta float32) bool {
	if c.mode != ModeTracking {
		return false
	}
	c.zoom = clamp(c.zoom-delta*c.params.ZoomStep, c.params.MinZoom, c.params.MaxZoom)
	return true
}

// Update reconciles the tracked id against the snapshot and computes the
// presented pose. hover is the current hover candidate, or "".
func (c *Controller) Update(snap *snapshot.Snapshot, hover string) Pose {
	if c.mode == ModeTracking && !snap.Has(c.tracked) {
		if c.params.SubstituteHover && hover != "" && snap.Has(hover) {
			slog.Debug("tracked agent gone, following hover", "id", c.tracked, "hover", hover)
			c.tracked = hover
		} else {
			slog.Debug("tracked agent gone", "id", c.tracked)
			c.mode = ModeFree
			c.tracked = ""
		}
	}

	if c.mode == ModeTracking {
		a, _ := snap.Lookup(c.tracked)
		target := c.layout.ToScene(a.Position)
		c.pose = Pose{
			Eye:    target.Add(c.params.Offset.Mul(c.zoom)),
			Target: target,
			Up:     mgl32.Vec3{0, 1, 0},
		}
		return c.pose
	}

	c.pose = c.orbit.Pose()
	return c.pose
}
