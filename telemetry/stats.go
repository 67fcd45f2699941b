package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pasture/snapshot"
)

// Sample holds the aggregates of one kind at one step.
// Means are NaN when Count is zero.
type Sample struct {
	Step       uint64
	Kind       snapshot.Kind
	Count      int
	TraitMeans [snapshot.NumTraits]float64
	HealthMean float64
	HungerMean float64
}

// Degenerate reports whether the kind was extinct, making every mean NaN.
// Plots leave a gap for such samples.
func (s Sample) Degenerate() bool {
	return s.Count == 0
}

// LogValue implements slog.LogValuer for structured logging.
func (s Sample) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Uint64("step", s.Step),
		slog.String("kind", s.Kind.String()),
		slog.Int("count", s.Count),
	}
	if s.Degenerate() {
		return slog.GroupValue(attrs...)
	}
	for i, name := range snapshot.TraitNames {
		attrs = append(attrs, slog.Float64(name, s.TraitMeans[i]))
	}
	attrs = append(attrs,
		slog.Float64("health", s.HealthMean),
		slog.Float64("hunger", s.HungerMean),
	)
	return slog.GroupValue(attrs...)
}

// LogStats logs the sample using slog.
func (s Sample) LogStats() {
	slog.Info("stats", "sample", s)
}

// SampleCSV is a flat struct for CSV export of a sample.
type SampleCSV struct {
	Step        uint64  `csv:"step"`
	Kind        string  `csv:"kind"`
	Count       int     `csv:"count"`
	Size        float64 `csv:"size"`
	SightRange  float64 `csv:"sight_range"`
	MuscleMass  float64 `csv:"muscle_mass"`
	HungerRate  float64 `csv:"hunger_rate"`
	HealthScale float64 `csv:"health_scale"`
	Speed       float64 `csv:"speed"`
	Gestation   float64 `csv:"gestation"`
	Health      float64 `csv:"health"`
	Hunger      float64 `csv:"hunger"`
}

// ToCSV converts a Sample to a flat CSV-friendly struct.
func (s Sample) ToCSV() SampleCSV {
	return SampleCSV{
		Step:        s.Step,
		Kind:        s.Kind.String(),
		Count:       s.Count,
		Size:        s.TraitMeans[0],
		SightRange:  s.TraitMeans[1],
		MuscleMass:  s.TraitMeans[2],
		HungerRate:  s.TraitMeans[3],
		HealthScale: s.TraitMeans[4],
		Speed:       s.TraitMeans[5],
		Gestation:   s.TraitMeans[6],
		Health:      s.HealthMean,
		Hunger:      s.HungerMean,
	}
}

// Series is a fixed-length FIFO of samples. Once full, each push evicts the
// oldest sample, so the length stays at the window size.
type Series struct {
	buf   []Sample
	start int
	n     int
}

// NewSeries creates an empty series holding at most window samples.
func NewSeries(window int) *Series {
	if window < 1 {
		window = 1
	}
	return &Series{buf: make([]Sample, window)}
}

// Window returns the maximum length.
func (s *Series) Window() int { return len(s.buf) }

// Len returns the number of samples held.
func (s *Series) Len() int { return s.n }

// Push appends a sample, evicting the oldest when full.
func (s *Series) Push(x Sample) {
	if s.n == len(s.buf) {
		s.buf[s.start] = x
		s.start = (s.start + 1) % len(s.buf)
		return
	}
	s.buf[(s.start+s.n)%len(s.buf)] = x
	s.n++
}

// At returns sample i, where 0 is the oldest.
func (s *Series) At(i int) Sample {
	return s.buf[(s.start+i)%len(s.buf)]
}

// Latest returns the newest sample.
func (s *Series) Latest() (Sample, bool) {
	if s.n == 0 {
		return Sample{}, false
	}
	return s.At(s.n - 1), true
}

// Values extracts one value per sample, oldest first, into dst.
func (s *Series) Values(dst []float64, f func(Sample) float64) []float64 {
	dst = dst[:0]
	for i := 0; i < s.n; i++ {
		dst = append(dst, f(s.At(i)))
	}
	return dst
}

// Bounds returns the min and max of the finite values, skipping NaN gaps.
// ok is false when no finite value exists.
func Bounds(values []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}

// Logger keeps one rolling series per kind.
type Logger struct {
	series  [snapshot.NumKinds]*Series
	scratch []float64
}

// NewLogger creates a logger with the given window length per kind.
func NewLogger(window int) *Logger {
	l := &Logger{}
	for _, k := range snapshot.Kinds {
		l.series[k] = NewSeries(window)
	}
	return l
}

// Series returns the series of one kind.
func (l *Logger) Series(k snapshot.Kind) *Series {
	return l.series[k]
}

// Append recomputes every aggregate from the snapshot and pushes one sample
// per kind. Nothing is carried over from earlier samples.
func (l *Logger) Append(snap *snapshot.Snapshot) [snapshot.NumKinds]Sample {
	var out [snapshot.NumKinds]Sample
	for _, k := range snapshot.Kinds {
		s := l.aggregate(snap.Step(), k, snap.OfKind(k))
		l.series[k].Push(s)
		out[k] = s
	}
	return out
}

func (l *Logger) aggregate(step uint64, k snapshot.Kind, agents []snapshot.Agent) Sample {
	s := Sample{Step: step, Kind: k, Count: len(agents)}
	if len(agents) == 0 {
		nan := math.NaN()
		for i := range s.TraitMeans {
			s.TraitMeans[i] = nan
		}
		s.HealthMean = nan
		s.HungerMean = nan
		return s
	}

	mean := func(f func(snapshot.Agent) float32) float64 {
		l.scratch = l.scratch[:0]
		for _, a := range agents {
			l.scratch = append(l.scratch, float64(f(a)))
		}
		return stat.Mean(l.scratch, nil)
	}

	for i := range s.TraitMeans {
		s.TraitMeans[i] = mean(func(a snapshot.Agent) float32 { return a.Genotype.Values()[i] })
	}
	s.HealthMean = mean(func(a snapshot.Agent) float32 { return a.Vitals.Health })
	s.HungerMean = mean(func(a snapshot.Agent) float32 { return a.Vitals.Hunger })
	return s
}
