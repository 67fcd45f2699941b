// Package scene maps world-plane coordinates onto the 3D render scene.
package scene

import "github.com/go-gl/mathgl/mgl32"

// Layout places the world square in the scene: centered on the origin,
// scaled, lying on the horizontal plane y = GroundY.
// World X maps to scene X and world Y maps to scene Z.
type Layout struct {
	WorldSize float32
	Scale     float32
	GroundY   float32
}

// ToScene converts a world position to a point on the ground plane.
func (l Layout) ToScene(p mgl32.Vec2) mgl32.Vec3 {
	half := l.WorldSize / 2
	return mgl32.Vec3{
		(p.X() - half) * l.Scale,
		l.GroundY,
		(p.Y() - half) * l.Scale,
	}
}

// ToWorld converts a scene point back to world coordinates, ignoring height.
func (l Layout) ToWorld(v mgl32.Vec3) mgl32.Vec2 {
	half := l.WorldSize / 2
	return mgl32.Vec2{
		v.X()/l.Scale + half,
		v.Z()/l.Scale + half,
	}
}

// Contains reports whether a world position lies inside the world square.
func (l Layout) Contains(p mgl32.Vec2) bool {
	return p.X() >= 0 && p.X() <= l.WorldSize && p.Y() >= 0 && p.Y() <= l.WorldSize
}

// Extent returns the side length of the world square in scene units.
func (l Layout) Extent() float32 {
	return l.WorldSize * l.Scale
}
