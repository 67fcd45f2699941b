package world

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testParams() Params {
	return Params{
		Size:          200,
		Predators:     2,
		Prey:          10,
		Forage:        20,
		MaxForage:     40,
		MaxPredators:  4,
		MaxPrey:       16,
		ForageSpawn:   2,
		ForageRegrow:  1,
		DT:            0.05,
		Substeps:      4,
		NoiseScale:    0.01,
		WanderNoise:   1,
		EatRange:      4,
		GrazeRate:     25,
		StarveDamage:  6,
		MutationRate:  0.2,
		MutationScale: 0.1,
	}
}

func TestNewSimSpawnsPopulation(t *testing.T) {
	s := NewSim(testParams(), 42)

	if got := s.Counts(); got != [3]int{2, 10, 20} {
		t.Errorf("expected counts [2 10 20], got %v", got)
	}

	raw, err := s.Agents()
	if err != nil {
		t.Fatal(err)
	}
	if raw.Len() != 32 {
		t.Fatalf("expected 32 agents, got %d", raw.Len())
	}
	for i, g := range raw.Genotypes {
		if len(g) != numTraits {
			t.Errorf("agent %d: expected %d traits, got %d", i, numTraits, len(g))
		}
	}
	for i, p := range raw.Positions {
		if p[0] < 0 || p[0] > 200 || p[1] < 0 || p[1] > 200 {
			t.Errorf("agent %d outside world: %v", i, p)
		}
	}
}

func TestSimIsDeterministic(t *testing.T) {
	a := NewSim(testParams(), 7)
	b := NewSim(testParams(), 7)
	for range 20 {
		if err := a.Step(false, 0); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(false, 0); err != nil {
			t.Fatal(err)
		}
	}

	ra, _ := a.Agents()
	rb, _ := b.Agents()
	if diff := cmp.Diff(ra, rb); diff != "" {
		t.Errorf("same seed produced different worlds (-a +b):\n%s", diff)
	}
}

func TestStepRejectsInvalidElapsed(t *testing.T) {
	s := NewSim(testParams(), 1)
	if err := s.Step(false, math.NaN()); err == nil {
		t.Error("expected error for NaN elapsed")
	}
	if s.Steps() != 0 {
		t.Errorf("expected no completed steps, got %d", s.Steps())
	}
}

func TestDeadAgentsReportedOnceThenRemoved(t *testing.T) {
	p := testParams()
	p.Predators, p.Prey, p.Forage, p.ForageSpawn = 0, 1, 0, 0
	p.StarveDamage = 1e6
	s := NewSim(p, 3)

	query := s.filter.Query()
	var id string
	for query.Next() {
		_, _, org, _, vit := query.Get()
		vit.Hunger = maxVital
		id = org.ID
	}

	if err := s.Step(false, 0); err != nil {
		t.Fatal(err)
	}
	raw, _ := s.Agents()
	if raw.Len() != 1 || raw.IDs[0] != id {
		t.Fatalf("expected the starved agent to be reported, got %v", raw.IDs)
	}
	if raw.States[0] != CodeDead || raw.Vitals[0][0] != 0 {
		t.Errorf("expected dead state with zero health, got state %d vitals %v", raw.States[0], raw.Vitals[0])
	}

	if err := s.Step(false, 0); err != nil {
		t.Fatal(err)
	}
	raw, _ = s.Agents()
	if raw.Len() != 0 {
		t.Errorf("expected dead agent removed, got %v", raw.IDs)
	}
}

func TestPopulationCapsHold(t *testing.T) {
	p := testParams()
	p.Forage, p.MaxForage, p.ForageSpawn = 30, 30, 50
	s := NewSim(p, 11)

	for i := range 400 {
		if err := s.Step(true, 0.1); err != nil {
			t.Fatal(err)
		}
		c := s.Counts()
		if c[CodePredator] > p.MaxPredators || c[CodePrey] > p.MaxPrey || c[CodeForage] > p.MaxForage {
			t.Fatalf("step %d: counts %v exceed caps", i, c)
		}
	}
}

func TestAgentsStayInBounds(t *testing.T) {
	s := NewSim(testParams(), 5)
	for range 200 {
		if err := s.Step(false, 0.2); err != nil {
			t.Fatal(err)
		}
	}
	raw, _ := s.Agents()
	for i, p := range raw.Positions {
		if p[0] < 0 || p[0] > 200 || p[1] < 0 || p[1] > 200 {
			t.Errorf("agent %s left the world: %v", raw.IDs[i], p)
		}
	}
}

func TestAgentsInRadius(t *testing.T) {
	s := NewSim(testParams(), 9)

	all, err := s.AgentsInRadius(100, 100, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if all.Len() != 32 {
		t.Errorf("expected every agent within a huge radius, got %d", all.Len())
	}
	if len(all.Headings) != 0 || len(all.Genotypes) != 0 || len(all.States) != 0 {
		t.Error("expected radius query to omit headings, genotypes and states")
	}
	if len(all.Positions) != all.Len() || len(all.Kinds) != all.Len() || len(all.Vitals) != all.Len() {
		t.Error("expected positions, kinds and vitals for every agent")
	}

	// Kinds come out grouped in predator, prey, forage order.
	for i := 1; i < len(all.Kinds); i++ {
		if all.Kinds[i] < all.Kinds[i-1] {
			t.Fatalf("kinds out of order at %d: %v", i, all.Kinds)
		}
	}

	none, _ := s.AgentsInRadius(100, 100, 0)
	if none.Len() != 0 {
		t.Errorf("expected no agents for zero radius, got %d", none.Len())
	}
}

func TestSpatialIndexAndActivateNode(t *testing.T) {
	s := NewSim(testParams(), 13)

	nodes := s.SpatialIndex()
	if len(nodes) == 0 || nodes[0].Name != rootName || nodes[0].Size != 200 {
		t.Fatalf("unexpected index root: %+v", nodes)
	}

	leaf, ok := s.ActivateNode(150, 40)
	if !ok {
		t.Fatal("expected a leaf inside the world")
	}
	if !leaf.Leaf || !leaf.Contains(150, 40) {
		t.Errorf("expected a leaf containing (150, 40), got %+v", leaf)
	}
	if _, ok := s.ActivateNode(-5, 40); ok {
		t.Error("expected no leaf outside the world")
	}
}

func TestNoiseRangeAndDeterminism(t *testing.T) {
	a := NewSim(testParams(), 21)
	b := NewSim(testParams(), 21)
	for x := float32(0); x <= 200; x += 25 {
		for y := float32(0); y <= 200; y += 25 {
			v := a.Noise(x, y)
			if v < 0 || v > 1 {
				t.Errorf("noise at (%v, %v) out of range: %v", x, y, v)
			}
			if w := b.Noise(x, y); w != v {
				t.Errorf("noise at (%v, %v) differs between equal seeds: %v vs %v", x, y, v, w)
			}
		}
	}
}

func TestFieldMatchesSimNoise(t *testing.T) {
	p := testParams()
	s := NewSim(p, 8)
	f := NewField(8, p.NoiseScale, p.Size)
	if f.Size() != s.Size() {
		t.Fatalf("field size %v, want %v", f.Size(), s.Size())
	}
	for _, pt := range [][2]float32{{0, 0}, {13, 170}, {99.5, 42}, {200, 200}} {
		if got, want := f.Noise(pt[0], pt[1]), s.Noise(pt[0], pt[1]); got != want {
			t.Errorf("Noise(%v) = %v, want %v", pt, got, want)
		}
	}
}

var _ World = (*Sim)(nil)
