package camera

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Pose is a presented camera position and orientation in scene space.
type Pose struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

// View returns the view matrix for the pose.
func (p Pose) View() mgl32.Mat4 {
	return mgl32.LookAtV(p.Eye, p.Target, p.Up)
}

// ApproxEqual compares two poses component-wise.
func (p Pose) ApproxEqual(q Pose) bool {
	return p.Eye.ApproxEqual(q.Eye) && p.Target.ApproxEqual(q.Target) && p.Up.ApproxEqual(q.Up)
}

// LogValue implements slog.LogValuer.
func (p Pose) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("eye", [3]float32(p.Eye)),
		slog.Any("target", [3]float32(p.Target)),
	)
}

// Lens holds the projection parameters. FovY is in degrees.
type Lens struct {
	FovY float32
	Near float32
	Far  float32
}

// Projection returns the perspective matrix for a viewport aspect ratio.
func (l Lens) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(l.FovY), aspect, l.Near, l.Far)
}
