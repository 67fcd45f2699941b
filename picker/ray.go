// Package picker resolves a screen pointer to the agent beneath it.
package picker

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the size of the drawable area in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width over height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Ray is a half-line in scene space. Dir is unit length.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// ScreenRay unprojects a pointer position (origin top-left, y down) into a
// ray from the near plane through the far plane.
func ScreenRay(x, y float32, view, proj mgl32.Mat4, vp Viewport) (Ray, error) {
	winY := float32(vp.Height) - y
	near, err := mgl32.UnProject(mgl32.Vec3{x, winY, 0}, view, proj, 0, 0, vp.Width, vp.Height)
	if err != nil {
		return Ray{}, err
	}
	far, err := mgl32.UnProject(mgl32.Vec3{x, winY, 1}, view, proj, 0, 0, vp.Width, vp.Height)
	if err != nil {
		return Ray{}, err
	}
	return Ray{Origin: near, Dir: far.Sub(near).Normalize()}, nil
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectGround intersects the ray with the horizontal plane y = height.
// Rays parallel to the plane or pointing away from it miss.
func (r Ray) IntersectGround(height float32) (mgl32.Vec3, bool) {
	dy := r.Dir.Y()
	if mgl32.Abs(dy) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := (height - r.Origin.Y()) / dy
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}
