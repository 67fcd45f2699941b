package debugtree

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/world"
)

func quadTree() []world.Node {
	return []world.Node{
		{Name: "root", Level: 0, Size: 100, ChildNames: []string{"a", "b", "c", "d"}},
		{Name: "a", Level: 1, Position: [2]float32{0, 0}, Size: 50, Leaf: true},
		{Name: "b", Level: 1, Position: [2]float32{50, 0}, Size: 50, Leaf: true},
		{Name: "c", Level: 1, Position: [2]float32{50, 50}, Size: 50, Leaf: true},
		{Name: "d", Level: 1, Position: [2]float32{0, 50}, Size: 50, Leaf: true},
	}
}

func TestParseMode(t *testing.T) {
	for m := ModeOff; m < numModes; m++ {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("sparkles"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestModeNextCycles(t *testing.T) {
	m := ModeOff
	seen := map[Mode]bool{}
	for i := 0; i < int(numModes); i++ {
		seen[m] = true
		m = m.Next()
	}
	if m != ModeOff || len(seen) != int(numModes) {
		t.Errorf("cycle ended at %v after visiting %d modes", m, len(seen))
	}
}

func TestOverlayOff(t *testing.T) {
	o := BuildOverlay(ModeOff, Reconstruct(quadTree()), nil)
	if !o.Empty() {
		t.Errorf("off mode should draw nothing, got %+v", o)
	}
}

func TestOverlayLeaves(t *testing.T) {
	o := BuildOverlay(ModeLeaves, Reconstruct(quadTree()), nil)
	if len(o.Rects) != 4 || len(o.Links) != 0 {
		t.Fatalf("expected 4 leaf rects and no links, got %d rects %d links", len(o.Rects), len(o.Links))
	}
	// Colour follows the node's index in the flat list.
	if o.Rects[0].Color != Palette[1] {
		t.Errorf("first leaf colour = %v, want %v", o.Rects[0].Color, Palette[1])
	}
	if o.Rects[2].Max != (mgl32.Vec2{100, 100}) {
		t.Errorf("leaf c max = %v, want (100, 100)", o.Rects[2].Max)
	}
}

func TestOverlayTree(t *testing.T) {
	o := BuildOverlay(ModeTree, Reconstruct(quadTree()), nil)
	if len(o.Rects) != 5 || len(o.Links) != 4 {
		t.Fatalf("expected 5 rects and 4 links, got %d and %d", len(o.Rects), len(o.Links))
	}
	for _, l := range o.Links {
		if l.From != (mgl32.Vec2{50, 50}) {
			t.Errorf("link should start at root center, got %v", l.From)
		}
	}
}

func TestOverlayActive(t *testing.T) {
	tr := Reconstruct(quadTree())

	active := quadTree()[3]
	o := BuildOverlay(ModeActive, tr, &active)
	if len(o.Rects) != 2 || len(o.Links) != 1 {
		t.Fatalf("expected leaf and root, got %d rects %d links", len(o.Rects), len(o.Links))
	}
	if !o.Rects[0].Highlight || o.Rects[1].Highlight {
		t.Error("only the active leaf should be highlighted")
	}
	if o.Links[0].To != (mgl32.Vec2{75, 75}) {
		t.Errorf("link should end at leaf center, got %v", o.Links[0].To)
	}

	if !BuildOverlay(ModeActive, tr, nil).Empty() {
		t.Error("no active node should draw nothing")
	}
}

func TestOverlaySummary(t *testing.T) {
	o := BuildOverlay(ModeLeaves, Reconstruct(quadTree()), nil)
	if got, want := o.Summary(), "1/4 regions, 1 root"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
	if s := BuildOverlay(ModeOff, Reconstruct(quadTree()), nil).Summary(); s != "" {
		t.Errorf("off mode summary = %q, want empty", s)
	}
}

func TestOverlayNegativeLevel(t *testing.T) {
	nodes := []world.Node{
		{Name: "root", Level: -1, Size: 10, ChildNames: []string{"a"}},
		{Name: "a", Level: -9, Size: 5},
	}
	for m := ModeLeaves; m < numModes; m++ {
		active := nodes[1]
		o := BuildOverlay(m, Reconstruct(nodes), &active)
		for _, r := range o.Rects {
			if r.Color != LevelColor(r.Level) && m != ModeLeaves {
				t.Errorf("%v: rect at level %d coloured %v", m, r.Level, r.Color)
			}
		}
	}
	if LevelColor(-1) != Palette[len(Palette)-1] {
		t.Errorf("LevelColor(-1) = %v, want the last palette entry", LevelColor(-1))
	}
	if LevelColor(len(Palette)) != Palette[0] {
		t.Error("LevelColor should wrap past the palette end")
	}
}
