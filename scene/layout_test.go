package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLayoutCentersWorld(t *testing.T) {
	l := Layout{WorldSize: 1024, Scale: 0.1}

	c := l.ToScene(mgl32.Vec2{512, 512})
	if !c.ApproxEqual(mgl32.Vec3{0, 0, 0}) {
		t.Errorf("world center should map to scene origin, got %v", c)
	}

	corner := l.ToScene(mgl32.Vec2{0, 1024})
	if !corner.ApproxEqualThreshold(mgl32.Vec3{-51.2, 0, 51.2}, 1e-4) {
		t.Errorf("corner = %v, want (-51.2, 0, 51.2)", corner)
	}
}

func TestLayoutRoundtrip(t *testing.T) {
	l := Layout{WorldSize: 1024, Scale: 0.25, GroundY: 3}
	points := []mgl32.Vec2{{0, 0}, {100, 200}, {1023, 5}}
	for _, p := range points {
		back := l.ToWorld(l.ToScene(p))
		if !back.ApproxEqualThreshold(p, 1e-3) {
			t.Errorf("roundtrip %v -> %v", p, back)
		}
	}
}

func TestLayoutContains(t *testing.T) {
	l := Layout{WorldSize: 100, Scale: 1}
	if !l.Contains(mgl32.Vec2{0, 100}) {
		t.Error("edges are inside")
	}
	if l.Contains(mgl32.Vec2{-1, 50}) || l.Contains(mgl32.Vec2{50, 100.5}) {
		t.Error("outside points reported inside")
	}
	if l.Extent() != 100 {
		t.Errorf("extent = %v, want 100", l.Extent())
	}
}
