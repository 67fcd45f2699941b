package pool

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/scene"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/world"
)

var testStyle = Style{
	Layout:      scene.Layout{WorldSize: 100, Scale: 1},
	DeadTilt:    math.Pi / 2,
	AgentScale:  1,
	ForageScale: 2,
}

// population builds a snapshot with n prey placed along the x axis.
func population(t *testing.T, n int) *snapshot.Snapshot {
	t.Helper()
	var raw world.RawAgents
	for i := 0; i < n; i++ {
		raw.IDs = append(raw.IDs, fmt.Sprintf("prey-%d", i))
		raw.Positions = append(raw.Positions, [2]float32{float32(10 + i), 50})
		raw.Kinds = append(raw.Kinds, world.CodePrey)
		raw.Vitals = append(raw.Vitals, [2]float32{100, 0})
	}
	s, err := snapshot.Read(0, raw)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return s
}

func readOne(t *testing.T, kind uint8, state uint8, pos, heading [2]float32, size, health float32) snapshot.Agent {
	t.Helper()
	s, err := snapshot.Read(0, world.RawAgents{
		IDs:       []string{"x"},
		Positions: [][2]float32{pos},
		Headings:  [][2]float32{heading},
		Kinds:     []uint8{kind},
		Genotypes: []map[string]float32{{world.TraitSize: size}},
		States:    []uint8{state},
		Vitals:    [][2]float32{{health, 0}},
	})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	a, _ := s.Lookup("x")
	return a
}

func TestNewPoolIsParked(t *testing.T) {
	p := New(snapshot.KindPrey, 4)
	if p.Capacity() != 4 || p.Active() != 0 {
		t.Fatalf("capacity=%d active=%d, want 4 and 0", p.Capacity(), p.Active())
	}
	for i, m := range p.Transforms() {
		if m != Parked {
			t.Errorf("slot %d not parked", i)
		}
	}
}

func TestSyncCapacityExceeded(t *testing.T) {
	s := NewSynchronizer([snapshot.NumKinds]int{5, 10, 5}, testStyle)

	if err := s.Sync(population(t, 4)); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	before := append([]mgl32.Mat4(nil), s.Pool(snapshot.KindPrey).Transforms()...)

	err := s.Sync(population(t, 12))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	p := s.Pool(snapshot.KindPrey)
	if p.Active() != 4 {
		t.Errorf("active = %d after failed sync, want 4", p.Active())
	}
	for i, m := range p.Transforms() {
		if m != before[i] {
			t.Errorf("slot %d changed by a failed sync", i)
		}
	}
}

func TestSyncIdempotent(t *testing.T) {
	s := NewSynchronizer([snapshot.NumKinds]int{2, 8, 2}, testStyle)
	snap := population(t, 6)

	if err := s.Sync(snap); err != nil {
		t.Fatal(err)
	}
	first := append([]mgl32.Mat4(nil), s.Pool(snapshot.KindPrey).Transforms()...)

	if err := s.Sync(snap); err != nil {
		t.Fatal(err)
	}
	for i, m := range s.Pool(snapshot.KindPrey).Transforms() {
		if m != first[i] {
			t.Errorf("slot %d differs between identical syncs", i)
		}
	}
}

func TestSyncParksOnlyVacatedSlots(t *testing.T) {
	s := NewSynchronizer([snapshot.NumKinds]int{1, 10, 1}, testStyle)
	p := s.Pool(snapshot.KindPrey)

	if err := s.Sync(population(t, 5)); err != nil {
		t.Fatal(err)
	}

	// A slot beyond the previous active count is never rewritten. Mark one
	// so a full-capacity reset would be visible.
	marker := mgl32.Translate3D(7, 7, 7)
	p.transforms[7] = marker

	next := population(t, 3)
	if err := s.Sync(next); err != nil {
		t.Fatal(err)
	}

	if p.Active() != 3 {
		t.Fatalf("active = %d, want 3", p.Active())
	}
	for i, a := range next.OfKind(snapshot.KindPrey) {
		if p.Transforms()[i] != testStyle.Transform(a) {
			t.Errorf("slot %d does not hold agent %s", i, a.ID)
		}
	}
	for _, i := range []int{3, 4} {
		if p.Transforms()[i] != Parked {
			t.Errorf("slot %d should be parked", i)
		}
		if p.IDAt(i) != "" {
			t.Errorf("slot %d still reports id %q", i, p.IDAt(i))
		}
	}
	if p.Transforms()[7] != marker {
		t.Error("slot 7 was rewritten although it was already parked")
	}
}

func TestSyncRebuildsSlotMap(t *testing.T) {
	s := NewSynchronizer([snapshot.NumKinds]int{1, 10, 1}, testStyle)
	p := s.Pool(snapshot.KindPrey)

	if err := s.Sync(population(t, 5)); err != nil {
		t.Fatal(err)
	}
	if i, ok := p.SlotOf("prey-4"); !ok || i != 4 {
		t.Errorf("SlotOf(prey-4) = %d, %v", i, ok)
	}

	if err := s.Sync(population(t, 2)); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.SlotOf("prey-4"); ok {
		t.Error("departed agent still mapped to a slot")
	}
	if p.IDAt(1) != "prey-1" {
		t.Errorf("IDAt(1) = %q, want prey-1", p.IDAt(1))
	}
}

func TestSyncMarksDirty(t *testing.T) {
	s := NewSynchronizer([snapshot.NumKinds]int{1, 4, 1}, testStyle)
	for _, p := range s.Pools() {
		p.ClearDirty()
	}
	if err := s.Sync(population(t, 1)); err != nil {
		t.Fatal(err)
	}
	for _, p := range s.Pools() {
		if !p.Dirty() {
			t.Errorf("%s pool not marked dirty", p.Kind())
		}
	}
}

// near compares component-wise with an absolute tolerance, so an expected
// zero still accepts float rounding from the rotations.
func near(got, want mgl32.Vec3) bool {
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-4 {
			return false
		}
	}
	return true
}

func TestTransformPlacement(t *testing.T) {
	a := readOne(t, world.CodePrey, world.CodeIdle, [2]float32{60, 40}, [2]float32{1, 0}, 2, 100)
	m := testStyle.Transform(a)

	origin := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !near(origin, mgl32.Vec3{10, 0, -10}) {
		t.Errorf("origin mapped to %v, want (10, 0, -10)", origin)
	}

	// Models face +Z; a heading along world +X turns them to face scene +X.
	forward := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	if !near(forward, mgl32.Vec3{2, 0, 0}) {
		t.Errorf("forward = %v, want (2, 0, 0)", forward)
	}
}

func TestTransformDeadTilt(t *testing.T) {
	alive := readOne(t, world.CodePredator, world.CodeIdle, [2]float32{50, 50}, [2]float32{0, 1}, 1, 50)
	dead := readOne(t, world.CodePredator, world.CodeDead, [2]float32{50, 50}, [2]float32{0, 1}, 1, 0)

	up := mgl32.Vec4{0, 1, 0, 0}
	if got := testStyle.Transform(alive).Mul4x1(up).Vec3(); !near(got, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("living agent up = %v", got)
	}
	if got := testStyle.Transform(dead).Mul4x1(up).Vec3(); math.Abs(float64(got.Y())) > 1e-4 {
		t.Errorf("dead agent should lie flat, up = %v", got)
	}
}

func TestTransformForageShrinks(t *testing.T) {
	full := readOne(t, world.CodeForage, world.CodeIdle, [2]float32{50, 50}, [2]float32{}, 0, 100)
	half := readOne(t, world.CodeForage, world.CodeIdle, [2]float32{50, 50}, [2]float32{}, 0, 50)

	if got := testStyle.Transform(full).Diag().X(); math.Abs(float64(got-2)) > 1e-5 {
		t.Errorf("full forage scale = %v, want 2", got)
	}
	if got := testStyle.Transform(half).Diag().X(); math.Abs(float64(got-1)) > 1e-5 {
		t.Errorf("half forage scale = %v, want 1", got)
	}
}
