package telemetry

import (
	"testing"

	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/world"
)

func herd(ids []string, kinds []uint8, states []uint8) world.RawAgents {
	r := world.RawAgents{IDs: ids, Kinds: kinds, States: states}
	for range ids {
		r.Positions = append(r.Positions, [2]float32{5, 5})
		r.Vitals = append(r.Vitals, [2]float32{100, 0})
	}
	return r
}

func TestCollectorBirthsAndDeaths(t *testing.T) {
	c := NewCollector()
	sh, wo := world.CodePrey, world.CodePredator
	idle, dead := world.CodeIdle, world.CodeDead

	// Founders are not births
	c.Observe(population(t, 0, herd([]string{"a", "b", "w"}, []uint8{sh, sh, wo}, []uint8{idle, idle, idle})))
	// "c" is born, "a" dies
	c.Observe(population(t, 1, herd([]string{"a", "b", "c", "w"}, []uint8{sh, sh, sh, wo}, []uint8{dead, idle, idle, idle})))
	// "a" is gone, wolf pup "x" is born
	c.Observe(population(t, 2, herd([]string{"b", "c", "w", "x"}, []uint8{sh, sh, wo, wo}, []uint8{idle, idle, idle, idle})))

	got := c.Flush(2)
	if got.StartStep != 0 || got.EndStep != 2 {
		t.Errorf("window = [%d, %d], want [0, 2]", got.StartStep, got.EndStep)
	}
	if got.Births[snapshot.KindPrey] != 1 || got.Births[snapshot.KindPredator] != 1 {
		t.Errorf("births = %v, want one prey and one predator", got.Births)
	}
	if got.Deaths[snapshot.KindPrey] != 1 || got.Deaths[snapshot.KindPredator] != 0 {
		t.Errorf("deaths = %v, want one prey", got.Deaths)
	}

	next := c.Flush(5)
	if next.StartStep != 2 || next.Births != ([snapshot.NumKinds]int{}) || next.Deaths != ([snapshot.NumKinds]int{}) {
		t.Errorf("expected an empty window starting at step 2, got %+v", next)
	}
}
