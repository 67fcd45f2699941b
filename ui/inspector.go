package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pasture/renderer"
	"github.com/pthm-cable/pasture/snapshot"
)

// InspectorData is the agent shown by the inspector and how it was chosen.
type InspectorData struct {
	Agent   snapshot.Agent
	Tracked bool
}

func agentOf(data any) snapshot.Agent { return data.(InspectorData).Agent }

func vital(label string, get func(snapshot.Vitals) float32) FieldDescriptor {
	return FieldDescriptor{
		Label:  label,
		Widget: WidgetVital,
		Range:  FieldRange{Min: 0, Max: snapshot.MaxVital},
		Getter: func(d any) float32 { return get(agentOf(d).Vitals) },
	}
}

func trait(i int) FieldDescriptor {
	return FieldDescriptor{
		Label:  snapshot.TraitNames[i],
		Widget: WidgetText,
		Format: "%.2f",
		Getter: func(d any) float32 { return agentOf(d).Genotype.Values()[i] },
	}
}

// inspectorSections lays out the inspector. Forage has no genotype worth
// showing, so its trait section is hidden.
var inspectorSections = func() []SectionDescriptor {
	identity := SectionDescriptor{
		Fields: []FieldDescriptor{
			{Label: "Kind", Widget: WidgetText, TextGetter: func(d any) string { return agentOf(d).Kind.String() }},
			{Label: "State", Widget: WidgetText, TextGetter: func(d any) string { return agentOf(d).State.String() }},
			{Label: "Colour", Widget: WidgetSwatch, ColorGetter: func(d any) rl.Color { return renderer.KindColors[agentOf(d).Kind] }},
			{Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				p := agentOf(d).Position
				return fmt.Sprintf("%.1f, %.1f", p.X(), p.Y())
			}},
		},
	}

	vitals := SectionDescriptor{
		Title: "Vitals",
		Fields: []FieldDescriptor{
			vital("Health", func(v snapshot.Vitals) float32 { return v.Health }),
			vital("Satiety", func(v snapshot.Vitals) float32 { return snapshot.MaxVital - v.Hunger }),
		},
	}

	traits := SectionDescriptor{
		Title:   "Genotype",
		Visible: func(d any) bool { return agentOf(d).Kind != snapshot.KindForage },
	}
	for i := range snapshot.TraitNames {
		traits.Fields = append(traits.Fields, trait(i))
	}

	return []SectionDescriptor{identity, vitals, traits}
}()

// Inspector renders the selected agent panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Width returns the panel width.
func (ins *Inspector) Width() int32 { return ins.width }

// Bounds returns the panel rectangle for data.
func (ins *Inspector) Bounds(data InspectorData) rl.Rectangle {
	r := ins.renderer
	h := r.Theme.Padding*2 + r.Theme.LineHeight + 4
	for _, sd := range inspectorSections {
		h += r.SectionHeight(sd, data)
	}
	return rl.Rectangle{X: float32(ins.x), Y: float32(ins.y), Width: float32(ins.width), Height: float32(h)}
}

// Draw renders the inspector panel and returns its bottom edge.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	b := ins.Bounds(data)
	r.DrawPanel(ins.x, ins.y, ins.width, int32(b.Height))

	x := ins.x + padding
	y := ins.y + padding
	content := ins.width - padding*2

	title := "Hovered"
	if data.Tracked {
		title = "Tracking"
	}
	rl.DrawText(fmt.Sprintf("%s  %s", title, data.Agent.ID), x, y, r.Theme.HeaderSize, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range inspectorSections {
		y = r.DrawSection(x, y, sd, data, content)
	}
	return ins.y + int32(b.Height)
}
