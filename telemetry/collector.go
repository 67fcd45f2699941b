package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/pasture/snapshot"
)

// Turnover holds births and deaths per kind over a window of steps.
type Turnover struct {
	StartStep uint64
	EndStep   uint64
	Births    [snapshot.NumKinds]int
	Deaths    [snapshot.NumKinds]int
}

// LogValue implements slog.LogValuer for structured logging.
func (t Turnover) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("start_step", t.StartStep),
		slog.Uint64("end_step", t.EndStep),
	}
	for _, k := range snapshot.Kinds {
		attrs = append(attrs,
			slog.Int(k.String()+"_births", t.Births[k]),
			slog.Int(k.String()+"_deaths", t.Deaths[k]),
		)
	}
	return slog.GroupValue(attrs...)
}

// LogTurnover outputs the window using slog.
func (t Turnover) LogTurnover() {
	slog.Info("turnover", "window", t)
}

// Collector derives births and deaths from consecutive snapshots and
// accumulates them until flushed. An id absent from the previous snapshot is
// a birth; an agent flagged dead is a death.
type Collector struct {
	windowStart uint64
	seen        map[string]struct{}
	next        map[string]struct{}
	primed      bool

	births [snapshot.NumKinds]int
	deaths [snapshot.NumKinds]int
}

// NewCollector creates a collector whose first window starts at step 0.
func NewCollector() *Collector {
	return &Collector{
		seen: make(map[string]struct{}),
		next: make(map[string]struct{}),
	}
}

// Observe records one snapshot. The first snapshot only seeds the known
// population.
func (c *Collector) Observe(snap *snapshot.Snapshot) {
	clear(c.next)
	for _, a := range snap.All() {
		c.next[a.ID] = struct{}{}
		if !c.primed {
			continue
		}
		if _, ok := c.seen[a.ID]; !ok {
			c.births[a.Kind]++
		}
		if a.Dead() {
			c.deaths[a.Kind]++
		}
	}
	c.seen, c.next = c.next, c.seen
	c.primed = true
}

// Flush returns the window ending at step and starts the next one.
func (c *Collector) Flush(step uint64) Turnover {
	t := Turnover{
		StartStep: c.windowStart,
		EndStep:   step,
		Births:    c.births,
		Deaths:    c.deaths,
	}
	c.windowStart = step
	c.births = [snapshot.NumKinds]int{}
	c.deaths = [snapshot.NumKinds]int{}
	return t
}
