package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/input"
)

// Poller turns raylib window input into viewer events. Gestures that start
// over a panel belong to the panel and are not forwarded.
type Poller struct {
	overlays *OverlayRegistry
	last     rl.Vector2
	onPanel  bool
}

// NewPoller creates a poller using the registry's key bindings.
func NewPoller(overlays *OverlayRegistry) *Poller {
	return &Poller{overlays: overlays}
}

// Poll pushes this frame's events onto q. panels are the screen rectangles
// owned by widgets.
func (p *Poller) Poll(q *input.Queue, panels ...rl.Rectangle) {
	if rl.IsWindowResized() {
		q.Push(input.ResizeTo(int(rl.GetScreenWidth()), int(rl.GetScreenHeight())))
	}

	p.overlays.HandleKeys(q)

	pos := rl.GetMousePosition()
	delta := rl.Vector2Subtract(pos, p.last)
	p.last = pos

	over := false
	for _, r := range panels {
		if rl.CheckCollisionPointRec(pos, r) {
			over = true
			break
		}
	}

	anyPressed := rl.IsMouseButtonPressed(rl.MouseButtonLeft) || rl.IsMouseButtonPressed(rl.MouseButtonRight)
	anyDown := rl.IsMouseButtonDown(rl.MouseButtonLeft) || rl.IsMouseButtonDown(rl.MouseButtonRight)
	if anyPressed {
		p.onPanel = over
	}
	if p.onPanel {
		if !anyDown {
			p.onPanel = false
		}
		return
	}

	if !over && (delta.X != 0 || delta.Y != 0) {
		q.Push(input.Move(pos.X, pos.Y))
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		q.Push(input.Down(pos.X, pos.Y))
	} else if rl.IsMouseButtonDown(rl.MouseButtonLeft) && (delta.X != 0 || delta.Y != 0) {
		q.Push(input.RotateBy(delta.X, delta.Y))
	}
	if rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		q.Push(input.Up(pos.X, pos.Y))
	}

	if rl.IsMouseButtonDown(rl.MouseButtonRight) && (delta.X != 0 || delta.Y != 0) {
		q.Push(input.PanBy(delta.X, delta.Y))
	}

	if over {
		return
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		q.Push(input.Scroll(wheel))
	}
}
