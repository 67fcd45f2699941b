package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/camera"
	"github.com/pthm-cable/pasture/debugtree"
	"github.com/pthm-cable/pasture/input"
)

// ControlsData is the viewer state the buttons reflect.
type ControlsData struct {
	Paused  bool
	Halted  bool
	Mode    camera.Mode
	Overlay debugtree.Mode
}

// ControlsPanel renders the button strip and overlay selector. Widget
// presses become input events, so the app sees them exactly like keys.
type ControlsPanel struct {
	renderer *Renderer
	overlays *OverlayRegistry
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, overlays *OverlayRegistry) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		overlays: overlays,
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Bounds returns the panel rectangle.
func (c *ControlsPanel) Bounds() rl.Rectangle {
	r := c.renderer
	h := r.Theme.Padding*3 + 24*2 + r.Theme.LineHeight
	return rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.width), Height: float32(h)}
}

// Draw renders the panel and pushes events for pressed widgets.
func (c *ControlsPanel) Draw(data ControlsData, q *input.Queue) {
	r := c.renderer
	padding := float32(r.Theme.Padding)
	b := c.Bounds()
	r.DrawPanel(c.x, c.y, c.width, int32(b.Height))

	x := b.X + padding
	y := b.Y + padding
	inner := b.Width - padding*2
	bw := (inner - 2*4) / 3

	pauseText := "Pause"
	if data.Paused {
		pauseText = "Resume"
	}
	if data.Halted {
		gui.Disable()
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 24}, pauseText) {
		q.Push(input.Press(input.ActionPause))
	}
	gui.Enable()

	if data.Mode != camera.ModeTracking {
		gui.Disable()
	}
	if gui.Button(rl.Rectangle{X: x + bw + 4, Y: y, Width: bw, Height: 24}, "Release") {
		q.Push(input.Press(input.ActionRelease))
	}
	gui.Enable()

	if gui.Button(rl.Rectangle{X: x + 2*(bw+4), Y: y, Width: bw, Height: 24}, "Reset view") {
		q.Push(input.Press(input.ActionResetCamera))
	}
	y += 24 + padding

	rl.DrawText("Index overlay", int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += float32(r.Theme.LineHeight)

	n := float32(len(c.overlays.All()))
	tw := (inner - (n-1)*2) / n
	active := gui.ToggleGroup(rl.Rectangle{X: x, Y: y, Width: tw, Height: 24}, c.overlays.ToggleText(), int32(data.Overlay))
	if active != int32(data.Overlay) {
		q.Push(input.SetOverlay(int(active)))
	}
}
