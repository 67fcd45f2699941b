package world

import "github.com/ojrac/opensimplex-go"

// Field is the static scalar terrain field over the world square.
type Field struct {
	noise opensimplex.Noise
	scale float32
	size  float32
}

// NewField creates a field for a world of the given size. scale is the
// noise frequency per world unit.
func NewField(seed int64, scale, size float32) Field {
	return Field{
		noise: opensimplex.NewNormalized(seed),
		scale: scale,
		size:  size,
	}
}

// Noise samples the field at a world position. Values lie in [0, 1].
func (f Field) Noise(x, y float32) float32 {
	v := f.noise.Eval2(float64(x*f.scale), float64(y*f.scale))
	return clampf(float32(v), 0, 1)
}

// Size returns the side length of the world square.
func (f Field) Size() float32 { return f.size }
