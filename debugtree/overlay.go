package debugtree

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pasture/world"
)

// Mode selects the overlay drawn over the ground.
type Mode uint8

const (
	ModeOff Mode = iota
	// ModeLeaves outlines every leaf region in palette order.
	ModeLeaves
	// ModeTree outlines every region by level and links parents to children.
	ModeTree
	// ModeActive outlines the leaf under the pointer and its ancestors.
	ModeActive

	numModes
)

var modeNames = [numModes]string{"off", "leaves", "tree", "active"}

func (m Mode) String() string {
	if m < numModes {
		return modeNames[m]
	}
	return "unknown"
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < numModes }

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeOff, fmt.Errorf("unknown overlay mode %q", s)
}

// Next cycles to the following mode, wrapping to ModeOff.
func (m Mode) Next() Mode {
	return (m + 1) % numModes
}

// Palette colours regions by index.
var Palette = [...]color.RGBA{
	{0x00, 0x3f, 0x5c, 0xff},
	{0x2f, 0x4b, 0x7c, 0xff},
	{0x66, 0x51, 0x91, 0xff},
	{0xa0, 0x51, 0x95, 0xff},
	{0xd4, 0x50, 0x87, 0xff},
	{0xf9, 0x5d, 0x6a, 0xff},
	{0xff, 0x7c, 0x43, 0xff},
	{0xff, 0xa6, 0x00, 0xff},
}

// LevelColor returns the palette entry for a tree level. Negative levels
// from a malformed index wrap instead of panicking.
func LevelColor(level int) color.RGBA {
	n := len(Palette)
	return Palette[(level%n+n)%n]
}

// Rect is a region outline in world coordinates.
type Rect struct {
	Min, Max  mgl32.Vec2
	Color     color.RGBA
	Level     int
	Highlight bool
}

// Link joins a parent region center to a child region center.
type Link struct {
	From, To mgl32.Vec2
	Level    int
}

// Overlay is the geometry for one frame.
type Overlay struct {
	Mode  Mode
	Rects []Rect
	Links []Link

	// Levels holds the region count per level, shallowest first.
	Levels []int
	Roots  int
}

// Summary describes the index shape, e.g. "1/4/16 regions, 1 root".
func (o Overlay) Summary() string {
	if len(o.Levels) == 0 {
		return ""
	}
	counts := make([]string, len(o.Levels))
	for i, n := range o.Levels {
		counts[i] = strconv.Itoa(n)
	}
	roots := "roots"
	if o.Roots == 1 {
		roots = "root"
	}
	return fmt.Sprintf("%s regions, %d %s", strings.Join(counts, "/"), o.Roots, roots)
}

// Empty reports whether there is nothing to draw.
func (o Overlay) Empty() bool {
	return len(o.Rects) == 0 && len(o.Links) == 0
}

func rectOf(n world.Node, c color.RGBA) Rect {
	lo := mgl32.Vec2{n.Position[0], n.Position[1]}
	return Rect{
		Min:   lo,
		Max:   lo.Add(mgl32.Vec2{n.Size, n.Size}),
		Color: c,
		Level: n.Level,
	}
}

func centerOf(n world.Node) mgl32.Vec2 {
	c := n.Center()
	return mgl32.Vec2{c[0], c[1]}
}

// BuildOverlay produces the geometry for mode. active is the node under the
// pointer, used only by ModeActive.
func BuildOverlay(mode Mode, t *Tree, active *world.Node) Overlay {
	o := Overlay{Mode: mode}
	if t == nil || mode == ModeOff {
		return o
	}
	o.Roots = len(t.Roots())
	for _, l := range t.Depth() {
		o.Levels = append(o.Levels, len(t.Level(l)))
	}

	switch mode {
	case ModeLeaves:
		for i := 0; i < t.Len(); i++ {
			if t.Leaf(i) {
				o.Rects = append(o.Rects, rectOf(t.Node(i), Palette[i%len(Palette)]))
			}
		}

	case ModeTree:
		for i := 0; i < t.Len(); i++ {
			n := t.Node(i)
			o.Rects = append(o.Rects, rectOf(n, LevelColor(n.Level)))
			if p, ok := t.Parent(i); ok {
				o.Links = append(o.Links, Link{From: centerOf(t.Node(p)), To: centerOf(n), Level: n.Level})
			}
		}

	case ModeActive:
		if active == nil {
			return o
		}
		i, ok := t.Find(*active)
		if !ok {
			r := rectOf(*active, Palette[len(Palette)-1])
			r.Highlight = true
			o.Rects = append(o.Rects, r)
			return o
		}
		chain := t.Ancestors(i)
		for k, j := range chain {
			n := t.Node(j)
			r := rectOf(n, LevelColor(n.Level))
			r.Highlight = k == 0
			o.Rects = append(o.Rects, r)
			if k+1 < len(chain) {
				o.Links = append(o.Links, Link{From: centerOf(t.Node(chain[k+1])), To: centerOf(n), Level: n.Level})
			}
		}
	}
	return o
}
