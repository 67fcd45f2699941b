package picker

import "github.com/go-gl/mathgl/mgl32"

// ClickTracker tells clicks from drags. A press counts as a click only if the
// pointer never strays further than the threshold from where it went down.
type ClickTracker struct {
	threshold float32
	pressed   bool
	origin    mgl32.Vec2
	dragged   bool
}

// NewClickTracker creates a tracker with a drag threshold in pixels.
func NewClickTracker(threshold float32) *ClickTracker {
	return &ClickTracker{threshold: threshold}
}

// Down starts a press.
func (c *ClickTracker) Down(p mgl32.Vec2) {
	c.pressed = true
	c.origin = p
	c.dragged = false
}

// Move records pointer movement during a press.
func (c *ClickTracker) Move(p mgl32.Vec2) {
	if c.pressed && p.Sub(c.origin).Len() > c.threshold {
		c.dragged = true
	}
}

// Up ends a press and reports whether it was a click.
func (c *ClickTracker) Up(p mgl32.Vec2) bool {
	if !c.pressed {
		return false
	}
	c.Move(p)
	c.pressed = false
	return !c.dragged
}

// Pressed reports whether a press is in progress.
func (c *ClickTracker) Pressed() bool { return c.pressed }
