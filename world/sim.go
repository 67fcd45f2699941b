package world

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"
)

// Params configures the reference simulation.
type Params struct {
	Size          float32
	Predators     int
	Prey          int
	Forage        int
	MaxForage     int
	MaxPredators  int
	MaxPrey       int
	ForageSpawn   float32 // new forage per second
	ForageRegrow  float32 // forage health per second
	DT            float64 // step length when the caller passes no elapsed time
	Substeps      int
	NoiseScale    float32
	WanderNoise   float32 // radians per second
	EatRange      float32
	GrazeRate     float32
	StarveDamage  float32
	MutationRate  float32
	MutationScale float32
}

// Behaviour thresholds.
const (
	maxElapsed      = 0.25 // seconds; longer frames are clamped
	forageHunger    = 30   // prey look for forage above this hunger
	breedMaxHunger  = 50
	breedMinHealth  = 50
	birthCost       = 20
	killNourishment = 60
	killHeal        = 20
	fleeBoost       = 1.25
)

// row is one agent as seen at the last reindex.
type row struct {
	entity  ecs.Entity
	id      string
	pos     [2]float32
	heading [2]float32
	kind    uint8
	state   uint8
	genome  Genome
	vitals  Vitals
}

type birth struct {
	kind   uint8
	pos    Position
	genome Genome
}

// Sim is an ark ECS population of predators, prey and forage on a bounded
// square. It implements World.
type Sim struct {
	p Params

	ecsWorld *ecs.World
	mapper   *ecs.Map5[Position, Motion, Organism, Genome, Vitals]
	filter   *ecs.Filter5[Position, Motion, Organism, Genome, Vitals]

	rng    *rand.Rand
	field  Field
	wander opensimplex.Noise // signed, drifts with time
	names  *nameGen

	rows   []row
	trees  [3]*quadTree
	counts [3]int

	time        float64
	steps       uint64
	forageAccum float32
}

// NewSim creates a simulation and spawns the initial population.
func NewSim(p Params, seed int64) *Sim {
	if p.Substeps < 1 {
		p.Substeps = 1
	}
	w := ecs.NewWorld()
	s := &Sim{
		p:        p,
		ecsWorld: w,
		mapper:   ecs.NewMap5[Position, Motion, Organism, Genome, Vitals](w),
		filter:   ecs.NewFilter5[Position, Motion, Organism, Genome, Vitals](w),
		rng:      rand.New(rand.NewSource(seed)),
		field:    NewField(seed, p.NoiseScale, p.Size),
		wander:   opensimplex.New(seed + 1),
		names:    newNameGen(seed),
	}

	for range p.Predators {
		s.spawn(CodePredator, s.randomPosition(), s.founderGenome(CodePredator))
	}
	for range p.Prey {
		s.spawn(CodePrey, s.randomPosition(), s.founderGenome(CodePrey))
	}
	for range p.Forage {
		s.spawn(CodeForage, s.randomPosition(), s.founderGenome(CodeForage))
	}
	s.reindex()

	slog.Debug("world created",
		"seed", seed,
		"size", p.Size,
		"predators", s.counts[CodePredator],
		"prey", s.counts[CodePrey],
		"forage", s.counts[CodeForage],
	)
	return s
}

// Step advances the simulation by elapsed seconds, or by Params.DT when
// elapsed is not positive. High precision splits the step into substeps.
// Agents that died during the previous step are removed first.
func (s *Sim) Step(highPrecision bool, elapsed float64) error {
	if math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		return fmt.Errorf("world: invalid elapsed time %v", elapsed)
	}
	if elapsed <= 0 {
		elapsed = s.p.DT
	}
	elapsed = min(elapsed, maxElapsed)

	s.removeDead()
	s.reindex()

	n := 1
	if highPrecision {
		n = s.p.Substeps
	}
	dt := float32(elapsed / float64(n))
	for range n {
		s.tick(dt)
		s.time += float64(dt)
		s.reindex()
	}
	s.steps++
	return nil
}

// Steps returns the number of completed steps.
func (s *Sim) Steps() uint64 {
	return s.steps
}

// Counts returns the live and freshly dead population per kind code.
func (s *Sim) Counts() [3]int {
	return s.counts
}

// Size returns the side length of the world square.
func (s *Sim) Size() float32 {
	return s.p.Size
}

// Noise samples the terrain field at a world position.
func (s *Sim) Noise(x, y float32) float32 {
	return s.field.Noise(x, y)
}

// Agents returns every agent, including those that died during the last step.
func (s *Sim) Agents() (RawAgents, error) {
	n := len(s.rows)
	raw := RawAgents{
		IDs:       make([]string, n),
		Positions: make([][2]float32, n),
		Headings:  make([][2]float32, n),
		Kinds:     make([]uint8, n),
		Genotypes: make([]map[string]float32, n),
		States:    make([]uint8, n),
		Vitals:    make([][2]float32, n),
	}
	for i, r := range s.rows {
		raw.IDs[i] = r.id
		raw.Positions[i] = r.pos
		raw.Headings[i] = r.heading
		raw.Kinds[i] = r.kind
		raw.Genotypes[i] = r.genome.toMap()
		raw.States[i] = r.state
		raw.Vitals[i] = [2]float32{r.vitals.Health, r.vitals.Hunger}
	}
	return raw, nil
}

// AgentsInRadius returns agents strictly within radius of (x, y), walking the
// predator, prey and forage indexes in turn. Only ids, positions, kinds and
// vitals are reported.
func (s *Sim) AgentsInRadius(x, y, radius float32) (RawAgents, error) {
	var raw RawAgents
	if radius <= 0 {
		return raw, nil
	}
	p := [2]float32{x, y}
	for _, t := range s.trees {
		t.inRadius(p, radius, func(o occupant) {
			r := s.rows[o.idx]
			raw.IDs = append(raw.IDs, r.id)
			raw.Positions = append(raw.Positions, r.pos)
			raw.Kinds = append(raw.Kinds, r.kind)
			raw.Vitals = append(raw.Vitals, [2]float32{r.vitals.Health, r.vitals.Hunger})
		})
	}
	return raw, nil
}

// SpatialIndex returns the prey index regions.
func (s *Sim) SpatialIndex() []Node {
	return s.trees[CodePrey].flatten()
}

// ActivateNode returns the prey index leaf containing (x, y).
func (s *Sim) ActivateNode(x, y float32) (Node, bool) {
	leaf, ok := s.trees[CodePrey].leafAt([2]float32{x, y})
	if !ok {
		return Node{}, false
	}
	return leaf.node(), true
}

func (s *Sim) randomPosition() Position {
	return Position{X: s.rng.Float32() * s.p.Size, Y: s.rng.Float32() * s.p.Size}
}

// founderGenome jitters the base genome by up to ten percent per trait.
func (s *Sim) founderGenome(kind uint8) Genome {
	g := baseGenomes[kind]
	for i := range g.Traits {
		g.Traits[i] *= 0.9 + 0.2*s.rng.Float32()
	}
	return g
}

func (s *Sim) mutate(g Genome) Genome {
	for i, v := range g.Traits {
		if v == 0 || s.rng.Float32() >= s.p.MutationRate {
			continue
		}
		v *= 1 + float32(s.rng.NormFloat64())*s.p.MutationScale
		g.Traits[i] = max(v, 0.01)
	}
	return g
}

func (s *Sim) newID() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// math/rand never fails to read
		panic(err)
	}
	return id.String()
}

// spawn creates an agent. Must not be called while a query is open.
func (s *Sim) spawn(kind uint8, pos Position, g Genome) ecs.Entity {
	angle := s.rng.Float32() * 2 * math.Pi
	sin, cos := math.Sincos(float64(angle))
	mot := Motion{HX: float32(sin), HY: float32(cos)}
	org := Organism{ID: s.newID(), Kind: kind, State: CodeIdle}
	vit := Vitals{Health: maxVital}
	if kind == CodeForage {
		vit.Health = maxVital * (0.5 + 0.5*s.rng.Float32())
	} else {
		org.Gestation = s.rng.Float32() * g.Traits[geneGestation] * 0.5
	}
	return s.mapper.NewEntity(&pos, &mot, &org, &g, &vit)
}

// removeDead deletes agents flagged dead during the previous step.
func (s *Sim) removeDead() {
	// First pass: collect (no structural changes while the query is open)
	var toRemove []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		_, _, org, _, _ := query.Get()
		if org.Dead {
			toRemove = append(toRemove, query.Entity())
		}
	}

	for _, e := range toRemove {
		s.ecsWorld.RemoveEntity(e)
	}
	if len(toRemove) > 0 {
		slog.Debug("removed dead agents", "count", len(toRemove), "step", s.steps)
	}
}

// reindex refreshes the row table and rebuilds the per-kind indexes.
func (s *Sim) reindex() {
	s.rows = s.rows[:0]
	s.counts = [3]int{}
	for k := range s.trees {
		s.trees[k] = newQuadTree(s.p.Size, s.names)
	}

	query := s.filter.Query()
	for query.Next() {
		pos, mot, org, gen, vit := query.Get()
		r := row{
			entity:  query.Entity(),
			id:      org.ID,
			pos:     [2]float32{pos.X, pos.Y},
			heading: [2]float32{mot.HX, mot.HY},
			kind:    org.Kind,
			state:   org.State,
			genome:  *gen,
			vitals:  *vit,
		}
		s.rows = append(s.rows, r)
		s.counts[org.Kind]++
		s.trees[org.Kind].insert(occupant{idx: len(s.rows) - 1, pos: r.pos})
	}
}

// nearest finds the closest live agent of a kind strictly within r of p.
func (s *Sim) nearest(kind uint8, p [2]float32, r float32) (row, float32, bool) {
	var (
		best  row
		bestD = r * r
		found bool
	)
	s.trees[kind].inRadius(p, r, func(o occupant) {
		cand := s.rows[o.idx]
		_, _, org, _, _ := s.mapper.Get(cand.entity)
		if org.Dead {
			return
		}
		dx, dy := cand.pos[0]-p[0], cand.pos[1]-p[1]
		if d := dx*dx + dy*dy; d < bestD {
			best, bestD, found = cand, d, true
		}
	})
	return best, float32(math.Sqrt(float64(bestD))), found
}

// tick runs one integration step. The row table and indexes describe the
// state at the start of the tick.
func (s *Sim) tick(dt float32) {
	var births []birth
	pending := [3]int{}
	caps := [3]int{s.p.MaxPredators, s.p.MaxPrey, s.p.MaxForage}

	query := s.filter.Query()
	for query.Next() {
		pos, mot, org, gen, vit := query.Get()
		if org.Dead {
			continue
		}

		if org.Kind == CodeForage {
			vit.Health = min(vit.Health+s.p.ForageRegrow*dt, maxVital)
			continue
		}

		s.metabolise(org, gen, vit, dt)
		if org.Dead {
			mot.Speed = 0
			continue
		}

		here := [2]float32{pos.X, pos.Y}
		sight := gen.Traits[geneSight]
		speed := gen.Traits[geneSpeed] * (0.75 + 0.5*gen.Traits[geneMuscle])

		switch org.Kind {
		case CodePrey:
			speed = s.steerPrey(here, mot, org, vit, sight, speed, dt)
		case CodePredator:
			s.steerPredator(here, mot, org, vit, sight, dt)
		}

		if s.ready(org, gen, vit, dt) {
			if s.counts[org.Kind]+pending[org.Kind] < caps[org.Kind] {
				org.State = CodeReproducing
				org.Gestation = 0
				vit.Health -= birthCost
				pending[org.Kind]++
				births = append(births, birth{kind: org.Kind, pos: *pos, genome: s.mutate(*gen)})
			}
		}

		mot.Speed = speed
		s.move(pos, mot, dt)
	}

	for _, b := range births {
		s.spawn(b.kind, b.pos, b.genome)
	}

	s.forageAccum += s.p.ForageSpawn * dt
	for s.forageAccum >= 1 {
		s.forageAccum--
		if s.counts[CodeForage]+pending[CodeForage] >= s.p.MaxForage {
			continue
		}
		pending[CodeForage]++
		s.spawn(CodeForage, s.randomPosition(), s.founderGenome(CodeForage))
	}
}

// metabolise raises hunger and applies starvation damage at full hunger.
func (s *Sim) metabolise(org *Organism, gen *Genome, vit *Vitals, dt float32) {
	vit.Hunger = min(vit.Hunger+gen.Traits[geneHunger]*dt, maxVital)
	if vit.Hunger >= maxVital {
		vit.Health -= s.p.StarveDamage * dt / max(gen.Traits[geneHealth], 0.01)
	}
	if vit.Health <= 0 {
		s.kill(org, vit)
	}
}

func (s *Sim) kill(org *Organism, vit *Vitals) {
	vit.Health = 0
	org.Dead = true
	org.State = CodeDead
}

func (s *Sim) steerPrey(here [2]float32, mot *Motion, org *Organism, vit *Vitals, sight, speed, dt float32) float32 {
	if threat, _, ok := s.nearest(CodePredator, here, sight); ok {
		org.State = CodeFleeing
		face(mot, here[0]-threat.pos[0], here[1]-threat.pos[1])
		return speed * fleeBoost
	}

	if vit.Hunger > forageHunger {
		if food, d, ok := s.nearest(CodeForage, here, sight); ok {
			org.State = CodeHunting
			face(mot, food.pos[0]-here[0], food.pos[1]-here[1])
			if d < s.p.EatRange {
				s.graze(food, vit, dt)
				return 0
			}
			return speed
		}
	}

	org.State = CodeIdle
	s.wanderTurn(here, mot, dt)
	return speed * 0.5
}

func (s *Sim) steerPredator(here [2]float32, mot *Motion, org *Organism, vit *Vitals, sight, dt float32) {
	target, d, ok := s.nearest(CodePrey, here, sight)
	if !ok {
		org.State = CodeIdle
		s.wanderTurn(here, mot, dt)
		return
	}
	org.State = CodeHunting
	face(mot, target.pos[0]-here[0], target.pos[1]-here[1])
	if d < s.p.EatRange {
		_, _, vOrg, _, vVit := s.mapper.Get(target.entity)
		s.kill(vOrg, vVit)
		vit.Hunger = max(vit.Hunger-killNourishment, 0)
		vit.Health = min(vit.Health+killHeal, maxVital)
	}
}

func (s *Sim) graze(food row, vit *Vitals, dt float32) {
	_, _, fOrg, _, fVit := s.mapper.Get(food.entity)
	bite := min(s.p.GrazeRate*dt, fVit.Health)
	fVit.Health -= bite
	vit.Hunger = max(vit.Hunger-bite, 0)
	if fVit.Health <= 0 {
		s.kill(fOrg, fVit)
	}
}

// ready advances gestation and reports whether an offspring is due.
func (s *Sim) ready(org *Organism, gen *Genome, vit *Vitals, dt float32) bool {
	if vit.Hunger > breedMaxHunger || vit.Health < breedMinHealth {
		return false
	}
	org.Gestation += dt
	return org.Gestation >= gen.Traits[geneGestation]
}

// wanderTurn drifts the heading along a time-varying noise field.
func (s *Sim) wanderTurn(here [2]float32, mot *Motion, dt float32) {
	ns := float64(s.p.NoiseScale)
	n := s.wander.Eval3(float64(here[0])*ns, float64(here[1])*ns, s.time*0.5)
	turn := float64(float32(n) * s.p.WanderNoise * dt)
	sin, cos := math.Sincos(turn)
	hx, hy := float64(mot.HX), float64(mot.HY)
	mot.HX = float32(hx*cos - hy*sin)
	mot.HY = float32(hx*sin + hy*cos)
}

// move integrates position and reflects off the world edges.
func (s *Sim) move(pos *Position, mot *Motion, dt float32) {
	pos.X += mot.HX * mot.Speed * dt
	pos.Y += mot.HY * mot.Speed * dt

	size := s.p.Size
	if pos.X < 0 {
		pos.X, mot.HX = -pos.X, -mot.HX
	} else if pos.X > size {
		pos.X, mot.HX = 2*size-pos.X, -mot.HX
	}
	if pos.Y < 0 {
		pos.Y, mot.HY = -pos.Y, -mot.HY
	} else if pos.Y > size {
		pos.Y, mot.HY = 2*size-pos.Y, -mot.HY
	}
	pos.X = clampf(pos.X, 0, size)
	pos.Y = clampf(pos.Y, 0, size)
}

// face points the heading along (dx, dy), keeping it when the vector is zero.
func face(mot *Motion, dx, dy float32) {
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l < 1e-6 {
		return
	}
	mot.HX, mot.HY = dx/l, dy/l
}
