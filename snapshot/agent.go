// Package snapshot turns one step's raw population query into a typed,
// read-only view grouped by agent kind.
package snapshot

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/world"
)

// Kind identifies the agent type. Fixed at creation.
type Kind uint8

const (
	KindPredator Kind = iota
	KindPrey
	KindForage

	NumKinds = 3
)

// Kinds lists every kind in code order.
var Kinds = [NumKinds]Kind{KindPredator, KindPrey, KindForage}

func (k Kind) String() string {
	switch k {
	case KindPredator:
		return "predator"
	case KindPrey:
		return "prey"
	case KindForage:
		return "forage"
	}
	return "unknown"
}

// State is the behavioural state reported by the world.
type State uint8

const (
	StateIdle State = iota
	StateHunting
	StateFleeing
	StateReproducing
	StateDead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHunting:
		return "hunting"
	case StateFleeing:
		return "fleeing"
	case StateReproducing:
		return "reproducing"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// MaxVital is the upper bound of health and hunger.
const MaxVital = 100

// NumTraits is the number of genotype traits.
const NumTraits = 7

// TraitNames lists the genotype traits in their canonical order.
var TraitNames = [NumTraits]string{
	world.TraitSize,
	world.TraitSightRange,
	world.TraitMuscleMass,
	world.TraitHungerRate,
	world.TraitHealthScale,
	world.TraitSpeed,
	world.TraitGestation,
}

// Genotype holds the heritable traits of an agent. Forage carries zeros.
type Genotype struct {
	Size        float32
	SightRange  float32
	MuscleMass  float32
	HungerRate  float32
	HealthScale float32
	Speed       float32
	Gestation   float32
}

// Values returns the traits in TraitNames order.
func (g Genotype) Values() [NumTraits]float32 {
	return [NumTraits]float32{g.Size, g.SightRange, g.MuscleMass, g.HungerRate, g.HealthScale, g.Speed, g.Gestation}
}

func genotypeFromMap(m map[string]float32) Genotype {
	return Genotype{
		Size:        m[world.TraitSize],
		SightRange:  m[world.TraitSightRange],
		MuscleMass:  m[world.TraitMuscleMass],
		HungerRate:  m[world.TraitHungerRate],
		HealthScale: m[world.TraitHealthScale],
		Speed:       m[world.TraitSpeed],
		Gestation:   m[world.TraitGestation],
	}
}

// Vitals are the bounded per-agent condition values.
type Vitals struct {
	Health float32
	Hunger float32
}

// Agent is one live (or just-died) member of the population.
type Agent struct {
	ID       string
	Kind     Kind
	Position mgl32.Vec2
	Heading  mgl32.Vec2
	Genotype Genotype
	Vitals   Vitals
	State    State
}

// Dead reports whether the world flagged the agent as dead this step.
// Consumers should treat disappearance from the next snapshot as the actual
// death signal; this flag only affects presentation.
func (a Agent) Dead() bool {
	return a.State == StateDead
}
