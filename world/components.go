package world

// ECS components of the reference simulation.

// Position is the agent location in world units.
type Position struct {
	X, Y float32
}

// Motion is a unit heading and the current ground speed.
type Motion struct {
	HX, HY float32
	Speed  float32
}

// Organism holds identity and lifecycle state.
type Organism struct {
	ID        string
	Kind      uint8
	State     uint8
	Gestation float32 // seconds accumulated toward the next offspring
	Dead      bool
}

// Genome holds trait values in traitKeys order.
type Genome struct {
	Traits [numTraits]float32
}

// Vitals holds health and hunger, both in [0, maxVital].
type Vitals struct {
	Health float32
	Hunger float32
}

const (
	numTraits = 7
	maxVital  = 100
)

const (
	geneSize = iota
	geneSight
	geneMuscle
	geneHunger
	geneHealth
	geneSpeed
	geneGestation
)

var traitKeys = [numTraits]string{
	TraitSize,
	TraitSightRange,
	TraitMuscleMass,
	TraitHungerRate,
	TraitHealthScale,
	TraitSpeed,
	TraitGestation,
}

// baseGenomes are the founder trait values per kind code.
var baseGenomes = [3]Genome{
	CodePredator: {Traits: [numTraits]float32{1.4, 120, 0.8, 3, 1.2, 34, 30}},
	CodePrey:     {Traits: [numTraits]float32{1.0, 90, 0.5, 2.5, 1.0, 28, 18}},
	CodeForage:   {Traits: [numTraits]float32{1.0, 0, 0, 0, 1.0, 0, 0}},
}

func (g Genome) toMap() map[string]float32 {
	m := make(map[string]float32, numTraits)
	for i, k := range traitKeys {
		m[k] = g.Traits[i]
	}
	return m
}
