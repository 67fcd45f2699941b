package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/renderer"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/telemetry"
)

// PlotMetric selects the value a StatsPlot draws.
type PlotMetric struct {
	Name  string
	Value func(telemetry.Sample) float64
}

// PlotMetrics are the selectable plot values. Trait means follow
// snapshot.TraitNames.
var PlotMetrics = func() []PlotMetric {
	ms := []PlotMetric{
		{Name: "count", Value: func(s telemetry.Sample) float64 { return float64(s.Count) }},
		{Name: "health", Value: func(s telemetry.Sample) float64 { return s.HealthMean }},
		{Name: "hunger", Value: func(s telemetry.Sample) float64 { return s.HungerMean }},
	}
	for i, name := range snapshot.TraitNames {
		ms = append(ms, PlotMetric{Name: name, Value: func(s telemetry.Sample) float64 { return s.TraitMeans[i] }})
	}
	return ms
}()

// StatsPlot draws one rolling metric for the predator and prey series.
// Extinct steps are NaN and leave gaps in the lines.
type StatsPlot struct {
	renderer *Renderer
	bounds   rl.Rectangle
	metric   int

	buf    [snapshot.NumKinds][]float64
	scaled []float64
}

// NewStatsPlot creates a plot inside bounds.
func NewStatsPlot(bounds rl.Rectangle) *StatsPlot {
	return &StatsPlot{
		renderer: NewRenderer(),
		bounds:   bounds,
	}
}

// SetBounds moves or resizes the plot.
func (p *StatsPlot) SetBounds(b rl.Rectangle) { p.bounds = b }

// Bounds returns the plot rectangle.
func (p *StatsPlot) Bounds() rl.Rectangle { return p.bounds }

// NextMetric advances to the next plot metric.
func (p *StatsPlot) NextMetric() {
	p.metric = (p.metric + 1) % len(PlotMetrics)
}

// HandleClick cycles the metric when the plot is clicked.
func (p *StatsPlot) HandleClick() {
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && rl.CheckCollisionPointRec(rl.GetMousePosition(), p.bounds) {
		p.NextMetric()
	}
}

// Draw renders the series of the animal kinds.
func (p *StatsPlot) Draw(series [snapshot.NumKinds]*telemetry.Series) {
	r := p.renderer
	b := p.bounds
	r.DrawPanel(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))

	metric := PlotMetrics[p.metric]
	kinds := []snapshot.Kind{snapshot.KindPredator, snapshot.KindPrey}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, k := range kinds {
		if series[k] == nil {
			continue
		}
		p.buf[k] = series[k].Values(p.buf[k], metric.Value)
		if l, h, ok := telemetry.Bounds(p.buf[k]); ok {
			lo, hi = math.Min(lo, l), math.Max(hi, h)
		}
	}

	pad := float32(r.Theme.Padding)
	rl.DrawText(metric.Name+" (click to cycle)", int32(b.X+pad), int32(b.Y+4), r.Theme.FontSize, r.Theme.LabelColor)
	if math.IsInf(lo, 1) {
		return
	}
	if hi == lo {
		hi = lo + 1
	}
	rl.DrawText(fmt.Sprintf("%.1f", hi), int32(b.X+b.Width-50), int32(b.Y+4), r.Theme.FontSize, r.Theme.ValueColor)
	rl.DrawText(fmt.Sprintf("%.1f", lo), int32(b.X+b.Width-50), int32(b.Y+b.Height-16), r.Theme.FontSize, r.Theme.ValueColor)

	area := rl.Rectangle{X: b.X + pad, Y: b.Y + 20, Width: b.Width - pad*2 - 50, Height: b.Height - 28}
	for _, k := range kinds {
		if series[k] != nil {
			p.drawLine(area, p.buf[k], series[k].Window(), lo, hi, renderer.KindColors[k])
		}
	}
}

func (p *StatsPlot) drawLine(area rl.Rectangle, values []float64, window int, lo, hi float64, c rl.Color) {
	if window < 2 {
		return
	}
	dx := area.Width / float32(window-1)
	point := func(i int, v float64) rl.Vector2 {
		t := float32((v - lo) / (hi - lo))
		return rl.Vector2{X: area.X + float32(i)*dx, Y: area.Y + area.Height*(1-t)}
	}
	for i := 1; i < len(values); i++ {
		a, b := values[i-1], values[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		rl.DrawLineV(point(i-1, a), point(i, b), c)
	}
}
