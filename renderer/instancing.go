package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/pool"
	"github.com/pthm-cable/pasture/snapshot"
)

const instancingVS = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;
in mat4 instanceTransform;

uniform mat4 mvp;

out vec3 fragNormal;

void main() {
    fragNormal = normalize(mat3(instanceTransform) * vertexNormal);
    gl_Position = mvp * instanceTransform * vec4(vertexPosition, 1.0);
}
`

const instancingFS = `#version 330
in vec3 fragNormal;

uniform vec4 colDiffuse;
uniform vec3 lightDir;

out vec4 finalColor;

void main() {
    float diffuse = max(dot(normalize(fragNormal), -lightDir), 0.0);
    finalColor = vec4(colDiffuse.rgb * (0.35 + 0.65 * diffuse), colDiffuse.a);
}
`

// KindColors are the base colours per agent kind.
var KindColors = [snapshot.NumKinds]color.RGBA{
	snapshot.KindPredator: {R: 170, G: 60, B: 50, A: 255},
	snapshot.KindPrey:     {R: 235, G: 230, B: 215, A: 255},
	snapshot.KindForage:   {R: 70, G: 150, B: 60, A: 255},
}

// Instances draws every pool with one instanced draw call per kind.
type Instances struct {
	shader    rl.Shader
	lightLoc  int32
	meshes    [snapshot.NumKinds]rl.Mesh
	materials [snapshot.NumKinds]rl.Material

	// Per-kind upload buffers, sized to pool capacity
	buffers [snapshot.NumKinds][]rl.Matrix
	counts  [snapshot.NumKinds]int

	initialized bool
}

// NewInstances creates an instance renderer. Init must run after the
// window exists.
func NewInstances() *Instances {
	return &Instances{}
}

// Init loads the shader, meshes and materials.
func (r *Instances) Init() {
	if r.initialized {
		return
	}

	r.shader = rl.LoadShaderFromMemory(instancingVS, instancingFS)
	r.shader.UpdateLocation(rl.ShaderLocMatrixMvp, rl.GetShaderLocation(r.shader, "mvp"))
	r.shader.UpdateLocation(rl.ShaderLocMatrixModel, rl.GetShaderLocationAttrib(r.shader, "instanceTransform"))
	r.lightLoc = rl.GetShaderLocation(r.shader, "lightDir")
	light := mgl32.Vec3{-0.4, -1, -0.3}.Normalize()
	rl.SetShaderValue(r.shader, r.lightLoc, light[:], rl.ShaderUniformVec3)

	r.meshes[snapshot.KindPredator] = rl.GenMeshCone(0.6, 1.6, 8)
	r.meshes[snapshot.KindPrey] = rl.GenMeshCube(0.9, 0.8, 1.4)
	r.meshes[snapshot.KindForage] = rl.GenMeshSphere(0.5, 6, 8)

	for k := range r.materials {
		m := rl.LoadMaterialDefault()
		m.Shader = r.shader
		m.GetMap(rl.MapDiffuse).Color = KindColors[k]
		r.materials[k] = m
	}

	r.initialized = true
}

// Upload copies dirty pools into the draw buffers and clears their flags.
func (r *Instances) Upload(pools [snapshot.NumKinds]*pool.Pool) {
	for k, p := range pools {
		if !p.Dirty() {
			continue
		}
		if len(r.buffers[k]) != p.Capacity() {
			r.buffers[k] = make([]rl.Matrix, p.Capacity())
		}
		ts := p.Transforms()
		for i := 0; i < p.Active(); i++ {
			r.buffers[k][i] = toMatrix(ts[i])
		}
		r.counts[k] = p.Active()
		p.ClearDirty()
	}
}

// Draw issues the instanced draw calls. Must run inside BeginMode3D.
func (r *Instances) Draw() {
	if !r.initialized {
		r.Init()
	}
	for k := range r.meshes {
		if r.counts[k] == 0 {
			continue
		}
		rl.DrawMeshInstanced(r.meshes[k], r.materials[k], r.buffers[k][:r.counts[k]], r.counts[k])
	}
}

// Unload frees GPU resources.
func (r *Instances) Unload() {
	if !r.initialized {
		return
	}
	for k := range r.meshes {
		rl.UnloadMesh(&r.meshes[k])
	}
	rl.UnloadShader(r.shader)
	r.initialized = false
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout, which
// names elements in the same column-major order.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
