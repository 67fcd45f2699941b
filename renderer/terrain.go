package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/scene"
)

// NoiseSampler is the world's deterministic scalar field.
type NoiseSampler interface {
	Noise(x, y float32) float32
	Size() float32
}

// TerrainRenderer draws the ground as a heightmap displaced by the world
// noise field. Heights are sampled once, since the field does not change.
type TerrainRenderer struct {
	resolution int
	height     float32

	model       rl.Model
	texture     rl.Texture2D
	origin      rl.Vector3
	initialized bool
}

// NewTerrainRenderer creates a terrain with resolution samples per side,
// raised up to height scene units at noise 1.
func NewTerrainRenderer(resolution int, height float32) *TerrainRenderer {
	return &TerrainRenderer{
		resolution: max(resolution, 2),
		height:     height,
	}
}

// Init samples the field and builds the mesh. Must run after the window
// exists.
func (t *TerrainRenderer) Init(field NoiseSampler, layout scene.Layout) {
	if t.initialized {
		return
	}

	n := t.resolution
	heights := rl.GenImageColor(n, n, rl.Black)
	colors := rl.GenImageColor(n, n, rl.Black)
	step := field.Size() / float32(n-1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := field.Noise(float32(x)*step, float32(y)*step)
			g := uint8(v * 255)
			rl.ImageDrawPixel(heights, int32(x), int32(y), color.RGBA{R: g, G: g, B: g, A: 255})
			rl.ImageDrawPixel(colors, int32(x), int32(y), GroundColor(v))
		}
	}

	extent := layout.Extent()
	mesh := rl.GenMeshHeightmap(*heights, rl.Vector3{X: extent, Y: t.height, Z: extent})
	t.model = rl.LoadModelFromMesh(mesh)
	t.texture = rl.LoadTextureFromImage(colors)
	rl.SetMaterialTexture(t.model.Materials, rl.MapDiffuse, t.texture)
	rl.UnloadImage(heights)
	rl.UnloadImage(colors)

	// Sink the surface so agents stand on its mean height
	t.origin = rl.Vector3{X: -extent / 2, Y: layout.GroundY - t.height/2, Z: -extent / 2}
	t.initialized = true
}

// Draw renders the terrain. Must run inside BeginMode3D.
func (t *TerrainRenderer) Draw() {
	if !t.initialized {
		return
	}
	rl.DrawModel(t.model, t.origin, 1, rl.White)
}

// Unload frees GPU resources.
func (t *TerrainRenderer) Unload() {
	if t.initialized {
		rl.UnloadModel(t.model)
		rl.UnloadTexture(t.texture)
		t.initialized = false
	}
}

// GroundColor maps a noise value in [0, 1] to a pasture gradient:
// wet lowland -> grass -> dry upland -> bare rock.
func GroundColor(v float32) color.RGBA {
	var r, g, b float32
	switch {
	case v < 0.25:
		s := v / 0.25
		r, g, b = 40+s*20, 70+s*40, 50+s*10
	case v < 0.5:
		s := (v - 0.25) / 0.25
		r, g, b = 60+s*40, 110+s*50, 60-s*10
	case v < 0.75:
		s := (v - 0.5) / 0.25
		r, g, b = 100+s*80, 160-s*20, 50+s*20
	default:
		s := min((v-0.75)/0.25, 1)
		r, g, b = 180+s*40, 140+s*60, 70+s*120
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}
