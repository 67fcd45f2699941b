package snapshot

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/world"
)

// ErrMalformedSnapshot is returned when the world's query result violates its
// structural contract. It indicates a version mismatch and is never retried.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is an immutable, kind-grouped view of one step's population.
// Slices returned by its accessors must not be modified.
type Snapshot struct {
	step   uint64
	all    []Agent
	byKind [NumKinds][]Agent
	byID   map[string]int
}

// Read validates a raw query result and builds a Snapshot from it.
// No ordering between steps is assumed.
func Read(step uint64, raw world.RawAgents) (*Snapshot, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	n := raw.Len()
	s := &Snapshot{
		step: step,
		all:  make([]Agent, 0, n),
		byID: make(map[string]int, n),
	}

	for i := 0; i < n; i++ {
		id := raw.IDs[i]
		if id == "" {
			return nil, fmt.Errorf("%w: empty id at index %d", ErrMalformedSnapshot, i)
		}
		if _, dup := s.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedSnapshot, id)
		}

		kind, err := kindFromCode(raw.Kinds[i])
		if err != nil {
			return nil, fmt.Errorf("%w: agent %q: %v", ErrMalformedSnapshot, id, err)
		}

		a := Agent{
			ID:       id,
			Kind:     kind,
			Position: mgl32.Vec2{raw.Positions[i][0], raw.Positions[i][1]},
			Vitals:   Vitals{Health: raw.Vitals[i][0], Hunger: raw.Vitals[i][1]},
		}
		if len(raw.Headings) > 0 {
			a.Heading = mgl32.Vec2{raw.Headings[i][0], raw.Headings[i][1]}
		}
		if len(raw.Genotypes) > 0 {
			a.Genotype = genotypeFromMap(raw.Genotypes[i])
		}
		if len(raw.States) > 0 {
			state, err := stateFromCode(raw.States[i])
			if err != nil {
				return nil, fmt.Errorf("%w: agent %q: %v", ErrMalformedSnapshot, id, err)
			}
			a.State = state
		}

		s.byID[id] = len(s.all)
		s.all = append(s.all, a)
		s.byKind[kind] = append(s.byKind[kind], a)
	}

	return s, nil
}

// validate checks that every reported column lines up with the id column.
func validate(raw world.RawAgents) error {
	n := raw.Len()
	required := []struct {
		name string
		len  int
	}{
		{"positions", len(raw.Positions)},
		{"kinds", len(raw.Kinds)},
		{"vitals", len(raw.Vitals)},
	}
	for _, col := range required {
		if col.len != n {
			return fmt.Errorf("%w: %s has %d entries, ids has %d", ErrMalformedSnapshot, col.name, col.len, n)
		}
	}

	optional := []struct {
		name string
		len  int
	}{
		{"headings", len(raw.Headings)},
		{"genotypes", len(raw.Genotypes)},
		{"states", len(raw.States)},
	}
	for _, col := range optional {
		if col.len != 0 && col.len != n {
			return fmt.Errorf("%w: %s has %d entries, ids has %d", ErrMalformedSnapshot, col.name, col.len, n)
		}
	}
	return nil
}

func kindFromCode(c uint8) (Kind, error) {
	switch c {
	case world.CodePredator:
		return KindPredator, nil
	case world.CodePrey:
		return KindPrey, nil
	case world.CodeForage:
		return KindForage, nil
	}
	return 0, fmt.Errorf("unknown kind code %d", c)
}

func stateFromCode(c uint8) (State, error) {
	switch c {
	case world.CodeIdle:
		return StateIdle, nil
	case world.CodeHunting:
		return StateHunting, nil
	case world.CodeFleeing:
		return StateFleeing, nil
	case world.CodeReproducing:
		return StateReproducing, nil
	case world.CodeDead:
		return StateDead, nil
	}
	return 0, fmt.Errorf("unknown state code %d", c)
}

// Step returns the simulation step the snapshot was taken at.
func (s *Snapshot) Step() uint64 {
	if s == nil {
		return 0
	}
	return s.step
}

// Len returns the total number of agents.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.all)
}

// All returns every agent in the order the world reported them.
func (s *Snapshot) All() []Agent {
	if s == nil {
		return nil
	}
	return s.all
}

// OfKind returns the agents of one kind in reported order.
func (s *Snapshot) OfKind(k Kind) []Agent {
	if s == nil || int(k) >= NumKinds {
		return nil
	}
	return s.byKind[k]
}

// Count returns the number of agents of one kind.
func (s *Snapshot) Count(k Kind) int {
	return len(s.OfKind(k))
}

// Lookup finds an agent by id.
func (s *Snapshot) Lookup(id string) (Agent, bool) {
	if s == nil || id == "" {
		return Agent{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Agent{}, false
	}
	return s.all[i], true
}

// Has reports whether an agent with the given id is present.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.Lookup(id)
	return ok
}
