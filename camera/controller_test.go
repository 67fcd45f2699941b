package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/world"
)

var (
	testLayout   = scene.Layout{WorldSize: 1024, Scale: 0.1}
	testTracking = TrackingParams{
		Offset:          mgl32.Vec3{0, 10, 10},
		Zoom:            1,
		MinZoom:         0.5,
		MaxZoom:         3,
		ZoomStep:        0.25,
		SubstituteHover: true,
	}
)

type placed struct {
	id   string
	x, y float32
}

func snap(t *testing.T, step uint64, agents ...placed) *snapshot.Snapshot {
	t.Helper()
	var raw world.RawAgents
	for _, a := range agents {
		raw.IDs = append(raw.IDs, a.id)
		raw.Positions = append(raw.Positions, [2]float32{a.x, a.y})
		raw.Kinds = append(raw.Kinds, world.CodePrey)
		raw.Vitals = append(raw.Vitals, [2]float32{100, 0})
	}
	s, err := snapshot.Read(step, raw)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return s
}

func newController(p TrackingParams) (*Orbit, *Controller) {
	o := New(1280, 720, testLayout.Extent()/2, testOrbit)
	return o, NewController(o, testLayout, p)
}

func TestControllerStartsFree(t *testing.T) {
	o, c := newController(testTracking)
	if c.Mode() != ModeFree {
		t.Errorf("expected free mode, got %v", c.Mode())
	}
	if !c.Pose().ApproxEqual(o.Pose()) {
		t.Error("initial pose should be the orbit pose")
	}
}

func TestTrackedAgentDisappears(t *testing.T) {
	o, c := newController(TrackingParams{
		Offset: testTracking.Offset, Zoom: 1, MinZoom: 0.5, MaxZoom: 3, ZoomStep: 0.25,
	})

	// Free-camera input before tracking.
	o.Rotate(30, 10)
	o.Pan(15, -5)
	before := c.Update(snap(t, 9, placed{"7f2a", 90, 190}), "")

	c.Track("7f2a")
	got := c.Update(snap(t, 10, placed{"7f2a", 100, 200}), "")
	if c.Mode() != ModeTracking || c.Tracked() != "7f2a" {
		t.Fatalf("expected Tracking(7f2a), got %v(%s)", c.Mode(), c.Tracked())
	}
	target := testLayout.ToScene(mgl32.Vec2{100, 200})
	if !got.Target.ApproxEqual(target) {
		t.Errorf("tracking target = %v, want %v", got.Target, target)
	}
	if !got.Eye.ApproxEqual(target.Add(testTracking.Offset)) {
		t.Errorf("tracking eye = %v, want target + offset", got.Eye)
	}

	after := c.Update(snap(t, 11, placed{"other", 5, 5}), "")
	if c.Mode() != ModeFree {
		t.Fatalf("expected free mode after agent vanished, got %v", c.Mode())
	}
	if c.Tracked() != "" {
		t.Errorf("tracked id should be cleared, got %q", c.Tracked())
	}
	if !after.ApproxEqual(before) {
		t.Errorf("free pose %v does not match pre-tracking pose %v", after, before)
	}
}

func TestTrackedAgentSubstitutedByHover(t *testing.T) {
	_, c := newController(testTracking)

	c.Track("a")
	c.Update(snap(t, 1, placed{"a", 10, 10}, placed{"b", 20, 20}), "")

	got := c.Update(snap(t, 2, placed{"b", 20, 20}), "b")
	if c.Mode() != ModeTracking || c.Tracked() != "b" {
		t.Fatalf("expected Tracking(b), got %v(%s)", c.Mode(), c.Tracked())
	}
	if !got.Target.ApproxEqual(testLayout.ToScene(mgl32.Vec2{20, 20})) {
		t.Errorf("pose should follow b, target %v", got.Target)
	}

	// A hover id that is itself absent cannot substitute.
	c.Update(snap(t, 3, placed{"c", 1, 1}), "b")
	if c.Mode() != ModeFree {
		t.Errorf("expected free mode, got %v", c.Mode())
	}
}

func TestScrollOnlyWhileTracking(t *testing.T) {
	_, c := newController(testTracking)

	if c.Scroll(1) {
		t.Error("scroll should be rejected while free")
	}
	if c.Zoom() != 1 {
		t.Errorf("zoom changed while free: %f", c.Zoom())
	}

	c.Track("a")
	if !c.Scroll(1) {
		t.Error("scroll should be accepted while tracking")
	}
	if c.Zoom() != 0.75 {
		t.Errorf("expected zoom 0.75, got %f", c.Zoom())
	}

	for i := 0; i < 20; i++ {
		c.Scroll(1)
	}
	if c.Zoom() != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", c.Zoom())
	}
	for i := 0; i < 40; i++ {
		c.Scroll(-1)
	}
	if c.Zoom() != 3 {
		t.Errorf("expected zoom clamped to 3, got %f", c.Zoom())
	}

	pose := c.Update(snap(t, 1, placed{"a", 512, 512}), "")
	if !pose.Eye.ApproxEqual(testTracking.Offset.Mul(3)) {
		t.Errorf("eye = %v, want offset scaled by zoom", pose.Eye)
	}
}

func TestReleaseAndRetarget(t *testing.T) {
	_, c := newController(testTracking)

	c.Track("a")
	c.Track("b")
	if c.Tracked() != "b" {
		t.Errorf("expected retarget to b, got %q", c.Tracked())
	}

	c.Release()
	if c.Mode() != ModeFree || c.Tracked() != "" {
		t.Errorf("expected free after release, got %v(%s)", c.Mode(), c.Tracked())
	}

	c.Track("")
	if c.Mode() != ModeFree {
		t.Error("empty id must not start tracking")
	}
}
