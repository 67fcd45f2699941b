// Package camera provides the free orbit camera and the controller that
// decides whether it or a tracked agent drives the presented view.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitParams configures the free camera. Angles are in degrees.
type OrbitParams struct {
	Yaw, Pitch               float32
	Distance                 float32
	MinDistance, MaxDistance float32
	MinPitch, MaxPitch       float32

	// RotateSpeed is degrees of rotation per dragged pixel.
	RotateSpeed float32
	// PanSpeed is scene units moved per dragged pixel at distance 1.
	PanSpeed float32
}

// Orbit is the input-driven camera. It orbits a target on the ground plane
// and is changed only by user input, never by tracking.
type Orbit struct {
	// Target is the orbit center in scene coordinates
	Target mgl32.Vec3

	// Yaw and Pitch in radians. Pitch 0 is level, positive looks down.
	Yaw, Pitch float32

	// Distance from the target
	Distance float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Bound is the half-extent of the ground square the target stays inside
	Bound float32

	params OrbitParams
}

// New creates an orbit camera centered on the scene origin.
func New(viewportW, viewportH, bound float32, p OrbitParams) *Orbit {
	o := &Orbit{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Bound:     bound,
		params:    p,
	}
	o.Reset()
	return o
}

// Resize updates viewport dimensions.
func (o *Orbit) Resize(viewportW, viewportH float32) {
	o.ViewportW = viewportW
	o.ViewportH = viewportH
}

// Aspect returns the viewport aspect ratio.
func (o *Orbit) Aspect() float32 {
	if o.ViewportH <= 0 {
		return 1
	}
	return o.ViewportW / o.ViewportH
}

// Rotate turns the camera by a drag delta in screen pixels.
func (o *Orbit) Rotate(dx, dy float32) {
	step := mgl32.DegToRad(o.params.RotateSpeed)
	o.Yaw = wrapAngle(o.Yaw - dx*step)
	o.Pitch = clamp(o.Pitch+dy*step, mgl32.DegToRad(o.params.MinPitch), mgl32.DegToRad(o.params.MaxPitch))
}

// Pan slides the target across the ground by a drag delta in screen pixels.
// Movement scales with distance so the ground tracks the pointer.
func (o *Orbit) Pan(dx, dy float32) {
	s := o.Distance * o.params.PanSpeed
	sin, cos := sincos(o.Yaw)
	right := mgl32.Vec3{cos, 0, -sin}
	forward := mgl32.Vec3{-sin, 0, -cos}

	t := o.Target.Sub(right.Mul(dx * s)).Add(forward.Mul(dy * s))
	o.Target = mgl32.Vec3{
		clamp(t.X(), -o.Bound, o.Bound),
		o.Target.Y(),
		clamp(t.Z(), -o.Bound, o.Bound),
	}
}

// SetDistance sets the orbit distance, clamped to min/max.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = clamp(d, o.params.MinDistance, o.params.MaxDistance)
}

// ZoomBy divides the distance by factor; factors above 1 move closer.
func (o *Orbit) ZoomBy(factor float32) {
	if factor <= 0 {
		return
	}
	o.SetDistance(o.Distance / factor)
}

// Reset returns the camera to its configured home.
func (o *Orbit) Reset() {
	o.Target = mgl32.Vec3{}
	o.Yaw = mgl32.DegToRad(o.params.Yaw)
	o.Pitch = clamp(mgl32.DegToRad(o.params.Pitch), mgl32.DegToRad(o.params.MinPitch), mgl32.DegToRad(o.params.MaxPitch))
	o.SetDistance(o.params.Distance)
}

// Pose returns the view the orbit currently describes.
func (o *Orbit) Pose() Pose {
	sy, cy := sincos(o.Yaw)
	sp, cp := sincos(o.Pitch)
	offset := mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(o.Distance)
	return Pose{
		Eye:    o.Target.Add(offset),
		Target: o.Target,
		Up:     mgl32.Vec3{0, 1, 0},
	}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

// wrapAngle keeps an angle in [0, 2pi).
func wrapAngle(a float32) float32 {
	const tau = 2 * math.Pi
	r := float32(math.Mod(float64(a), tau))
	if r < 0 {
		r += tau
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
