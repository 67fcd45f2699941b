// Package input carries host input to the frame loop as an explicit queue.
// The host pushes events as they arrive; the frame drains them once, at a
// fixed point, so no state is mutated mid-frame.
package input

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies an event type.
type Kind uint8

const (
	PointerMove Kind = iota
	PointerDown
	PointerUp
	Wheel
	Key
	Resize
	// Rotate and Pan carry orbit camera drags in screen pixels.
	Rotate
	Pan
)

func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointer_move"
	case PointerDown:
		return "pointer_down"
	case PointerUp:
		return "pointer_up"
	case Wheel:
		return "wheel"
	case Key:
		return "key"
	case Resize:
		return "resize"
	case Rotate:
		return "rotate"
	case Pan:
		return "pan"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Action is a bound key command.
type Action uint8

const (
	ActionNone Action = iota
	ActionPause
	ActionRelease
	ActionCycleOverlay
	ActionResetCamera
	ActionSetOverlay
)

// Event is one input occurrence.
//
// Pos is the pointer position for pointer events. Delta is the drag delta
// for Rotate and Pan, and Delta.Y() the wheel delta for Wheel. Size is the
// new viewport for Resize. Value is the argument of ActionSetOverlay.
type Event struct {
	Kind   Kind
	Pos    mgl32.Vec2
	Delta  mgl32.Vec2
	Size   [2]int
	Action Action
	Value  int
}

// Queue buffers events between frames. The host goroutine and the frame
// loop are the same, so Queue is not safe for concurrent use.
type Queue struct {
	pending []Event
	drained []Event
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.pending = append(q.pending, e)
}

// Len returns the number of pending events.
func (q *Queue) Len() int { return len(q.pending) }

// Drain returns all pending events in arrival order and empties the queue.
// The returned slice is valid until the next Drain.
func (q *Queue) Drain() []Event {
	q.pending, q.drained = q.drained[:0], q.pending
	return q.drained
}

// Convenience constructors used by hosts.

func Move(x, y float32) Event { return Event{Kind: PointerMove, Pos: mgl32.Vec2{x, y}} }
func Down(x, y float32) Event { return Event{Kind: PointerDown, Pos: mgl32.Vec2{x, y}} }
func Up(x, y float32) Event   { return Event{Kind: PointerUp, Pos: mgl32.Vec2{x, y}} }

func Scroll(delta float32) Event { return Event{Kind: Wheel, Delta: mgl32.Vec2{0, delta}} }

func Press(a Action) Event { return Event{Kind: Key, Action: a} }

func SetOverlay(mode int) Event { return Event{Kind: Key, Action: ActionSetOverlay, Value: mode} }

func ResizeTo(w, h int) Event { return Event{Kind: Resize, Size: [2]int{w, h}} }

func RotateBy(dx, dy float32) Event { return Event{Kind: Rotate, Delta: mgl32.Vec2{dx, dy}} }

func PanBy(dx, dy float32) Event { return Event{Kind: Pan, Delta: mgl32.Vec2{dx, dy}} }
