package world

import "math/rand"

var (
	nameAdjectives = []string{
		"amber", "brisk", "calm", "dusky", "eager", "fuzzy", "gentle", "hazel",
		"idle", "jolly", "keen", "lofty", "mossy", "nimble", "olive", "plucky",
	}
	nameNouns = []string{
		"badger", "crane", "dingo", "egret", "ferret", "gecko", "heron", "ibis",
		"jackal", "kestrel", "lemur", "marten", "newt", "otter", "plover", "quail",
	}
)

// nameGen hands out short readable names for index regions. Names are not
// unique: the same name can label several regions, even on different levels.
type nameGen struct {
	rng *rand.Rand
}

func newNameGen(seed int64) *nameGen {
	return &nameGen{rng: rand.New(rand.NewSource(seed))}
}

func (g *nameGen) next() string {
	return nameAdjectives[g.rng.Intn(len(nameAdjectives))] + "-" + nameNouns[g.rng.Intn(len(nameNouns))]
}
