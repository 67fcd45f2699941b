package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/camera"
	"github.com/pthm-cable/pasture/renderer"
	"github.com/pthm-cable/pasture/snapshot"
	"github.com/pthm-cable/pasture/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Counts  [snapshot.NumKinds]int
	Step    uint64
	FPS     int32
	Mode    camera.Mode
	Zoom    float32
	Hovered string
	Tracked string
	Paused  bool
	Halted  error
	Latest  *telemetry.Bookmark // most recent population bookmark, if any
	Index   string             // spatial index shape while an overlay is shown
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	x := int32(10)
	for _, k := range snapshot.Kinds {
		text := fmt.Sprintf("%s: %d", k, data.Counts[k])
		rl.DrawRectangle(x, 38, 10, 10, renderer.KindColors[k])
		rl.DrawText(text, x+14, 35, 16, rl.LightGray)
		x += 14 + rl.MeasureText(text, 16) + 16
	}

	status := fmt.Sprintf("Step: %d | FPS: %d", data.Step, data.FPS)
	if data.Index != "" {
		status += " | Index: " + data.Index
	}
	rl.DrawText(status, 10, 55, 16, rl.LightGray)

	view := "Free camera"
	if data.Mode == camera.ModeTracking {
		view = fmt.Sprintf("Tracking %s (zoom %.1f)", data.Tracked, data.Zoom)
	}
	rl.DrawText(view, 10, 75, 16, rl.LightGray)
	if data.Hovered != "" && data.Hovered != data.Tracked {
		rl.DrawText("Hover: "+data.Hovered, 10, 95, 16, rl.Gray)
	}

	if data.Latest != nil {
		rl.DrawText(fmt.Sprintf("[step %d] %s", data.Latest.Step, data.Latest.Description), 10, 135, 14, rl.SkyBlue)
	}

	switch {
	case data.Halted != nil:
		rl.DrawText("HALTED: "+data.Halted.Error(), 10, 115, 16, h.renderer.Theme.Warning)
	case data.Paused:
		rl.DrawText("PAUSED", 10, 115, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the frame phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Frame", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s", stats.AvgFrameDuration.Round(time.Microsecond), stats.MaxFrameDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.FramePhases() {
		pct := stats.PhasePct[name]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-8s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
