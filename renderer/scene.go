package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/app"
	"github.com/pthm-cable/pasture/debugtree"
	"github.com/pthm-cable/pasture/snapshot"
)

// overlayLift keeps overlay lines above the ground plane.
const overlayLift = 0.05

var (
	hoverColor   = rl.Color{R: 255, G: 240, B: 120, A: 255}
	trackedColor = rl.Color{R: 120, G: 220, B: 255, A: 255}
	highlight    = rl.Color{R: 255, G: 255, B: 255, A: 255}
)

// Scene draws the 3D view of an App: terrain, agents, debug overlay and
// selection markers.
type Scene struct {
	instances *Instances
	terrain   *TerrainRenderer
}

// NewScene creates a scene renderer. terrain may be nil.
func NewScene(terrain *TerrainRenderer) *Scene {
	return &Scene{
		instances: NewInstances(),
		terrain:   terrain,
	}
}

// Init loads GPU resources. Must run after the window exists.
func (s *Scene) Init(a *app.App) {
	s.instances.Init()
	if s.terrain != nil {
		s.terrain.Init(a.World(), a.Layout())
	}
}

// Draw renders the 3D scene. Must run between BeginDrawing and EndDrawing.
func (s *Scene) Draw(a *app.App) {
	s.instances.Upload(a.Pools())

	rl.BeginMode3D(Camera(a))
	if s.terrain != nil {
		s.terrain.Draw()
	} else {
		extent := a.Layout().Extent()
		rl.DrawPlane(rl.Vector3{Y: a.Layout().GroundY}, rl.Vector2{X: extent, Y: extent}, GroundColor(0.4))
	}
	s.instances.Draw()
	s.drawOverlay(a)
	s.drawSelection(a)
	rl.EndMode3D()
}

// Unload frees GPU resources.
func (s *Scene) Unload() {
	s.instances.Unload()
	if s.terrain != nil {
		s.terrain.Unload()
	}
}

// Camera builds the raylib camera for the presented pose.
func Camera(a *app.App) rl.Camera3D {
	pose := a.Pose()
	return rl.Camera3D{
		Position:   vec3(pose.Eye),
		Target:     vec3(pose.Target),
		Up:         vec3(pose.Up),
		Fovy:       a.Lens().FovY,
		Projection: rl.CameraPerspective,
	}
}

func (s *Scene) drawOverlay(a *app.App) {
	o := a.Overlay()
	if o.Empty() {
		return
	}
	layout := a.Layout()
	lift := mgl32.Vec3{0, overlayLift, 0}
	ground := func(p mgl32.Vec2) rl.Vector3 {
		return vec3(layout.ToScene(p).Add(lift))
	}

	for _, r := range o.Rects {
		c := r.Color
		if r.Highlight {
			c = highlight
		}
		corners := [4]rl.Vector3{
			ground(r.Min),
			ground(mgl32.Vec2{r.Max.X(), r.Min.Y()}),
			ground(r.Max),
			ground(mgl32.Vec2{r.Min.X(), r.Max.Y()}),
		}
		for i := range corners {
			rl.DrawLine3D(corners[i], corners[(i+1)%4], c)
		}
	}

	for _, l := range o.Links {
		rl.DrawLine3D(ground(l.From), ground(l.To), linkColor(l))
	}
}

func linkColor(l debugtree.Link) color.RGBA {
	c := debugtree.LevelColor(l.Level)
	c.A = 160
	return c
}

func (s *Scene) drawSelection(a *app.App) {
	sel := a.Selection()
	snap := a.Snapshot()
	marker := func(id string, c rl.Color, radius float32) {
		if id == "" {
			return
		}
		agent, ok := snap.Lookup(id)
		if !ok {
			return
		}
		p := a.Layout().ToScene(agent.Position)
		p[1] += radius / 2
		rl.DrawSphereWires(vec3(p), radius, 6, 8, c)
	}

	marker(sel.Tracked, trackedColor, markerRadius(snap, sel.Tracked)*1.3)
	if sel.Hovered != sel.Tracked {
		marker(sel.Hovered, hoverColor, markerRadius(snap, sel.Hovered))
	}
}

// markerRadius scales the selection marker with the agent's size trait.
func markerRadius(snap *snapshot.Snapshot, id string) float32 {
	agent, ok := snap.Lookup(id)
	if !ok || agent.Genotype.Size <= 0 {
		return 1
	}
	return agent.Genotype.Size
}
