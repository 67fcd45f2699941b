package ui

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/debugtree"
	"github.com/pthm-cable/pasture/input"
)

// OverlayDescriptor describes one debug overlay mode.
type OverlayDescriptor struct {
	Mode        debugtree.Mode
	Name        string
	Description string
	Key         int32  // Keyboard key selecting this mode (0 = no key)
	KeyLabel    string // Key label for display
}

// Binding maps a key to a viewer action.
type Binding struct {
	Key      int32
	KeyLabel string
	Name     string
	Action   input.Action
}

// OverlayRegistry holds overlay metadata and the keyboard bindings.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	bindings    []Binding
}

// NewOverlayRegistry creates a registry with the default overlays and keys.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		Mode:        debugtree.ModeOff,
		Name:        "Off",
		Description: "No spatial index overlay",
		Key:         rl.KeyZero,
		KeyLabel:    "0",
	})
	r.Register(OverlayDescriptor{
		Mode:        debugtree.ModeLeaves,
		Name:        "Leaves",
		Description: "Outline the leaf regions of the index",
		Key:         rl.KeyOne,
		KeyLabel:    "1",
	})
	r.Register(OverlayDescriptor{
		Mode:        debugtree.ModeTree,
		Name:        "Tree",
		Description: "Outline every region and link parents to children",
		Key:         rl.KeyTwo,
		KeyLabel:    "2",
	})
	r.Register(OverlayDescriptor{
		Mode:        debugtree.ModeActive,
		Name:        "Active",
		Description: "Highlight the region under the pointer and its ancestors",
		Key:         rl.KeyThree,
		KeyLabel:    "3",
	})

	r.Bind(Binding{Key: rl.KeySpace, KeyLabel: "Space", Name: "Pause", Action: input.ActionPause})
	r.Bind(Binding{Key: rl.KeyEscape, KeyLabel: "Esc", Name: "Release", Action: input.ActionRelease})
	r.Bind(Binding{Key: rl.KeyO, KeyLabel: "O", Name: "Cycle overlay", Action: input.ActionCycleOverlay})
	r.Bind(Binding{Key: rl.KeyR, KeyLabel: "R", Name: "Reset camera", Action: input.ActionResetCamera})
}

// Register adds an overlay descriptor.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
}

// Bind adds a key binding.
func (r *OverlayRegistry) Bind(b Binding) {
	r.bindings = append(r.bindings, b)
}

// All returns the overlay descriptors in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// Bindings returns the action bindings in registration order.
func (r *OverlayRegistry) Bindings() []Binding {
	return r.bindings
}

// Get returns the descriptor for a mode.
func (r *OverlayRegistry) Get(m debugtree.Mode) (OverlayDescriptor, bool) {
	for _, d := range r.descriptors {
		if d.Mode == m {
			return d, true
		}
	}
	return OverlayDescriptor{}, false
}

// ToggleText returns the ToggleGroup label string for every mode.
func (r *OverlayRegistry) ToggleText() string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return strings.Join(names, ";")
}

// HandleKeys pushes events for keys pressed this frame.
func (r *OverlayRegistry) HandleKeys(q *input.Queue) {
	for _, d := range r.descriptors {
		if d.Key != 0 && rl.IsKeyPressed(d.Key) {
			q.Push(input.SetOverlay(int(d.Mode)))
		}
	}
	for _, b := range r.bindings {
		if rl.IsKeyPressed(b.Key) {
			q.Push(input.Press(b.Action))
		}
	}
}

// Legend returns the key legend for the controls line.
func (r *OverlayRegistry) Legend() string {
	parts := make([]string, 0, len(r.bindings)+1)
	parts = append(parts, "[0-3] Overlay")
	for _, b := range r.bindings {
		parts = append(parts, "["+b.KeyLabel+"] "+b.Name)
	}
	parts = append(parts, "Drag: rotate  Right drag: pan  Wheel: zoom  Click: track")
	return strings.Join(parts, "  ")
}
