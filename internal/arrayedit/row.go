package arrayedit

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ClassSelected marks the row under the keyboard cursor.
const ClassSelected = "selected"

// Control is a per-row interactive element: a button reacting to a key, or
// an input whose value is submitted under a key.
type Control struct {
	Key      string
	Label    string
	Value    string
	Disabled bool

	input    bool
	onPress  Callback
	onSubmit func(ctx context.Context, value string) error
}

func (c *Control) IsInput() bool { return c.input }

type part struct {
	text    string
	control *Control
}

// Row is the container for one displayed item. Renderers fill it with text
// and controls; the editor owns its style classes.
type Row struct {
	Vertical bool

	classes  map[string]struct{}
	parts    []part
	controls []*Control
}

func NewRow(vertical bool, classes ...string) *Row {
	r := &Row{Vertical: vertical, classes: map[string]struct{}{}}
	r.AddClass(classes...)
	return r
}

func (r *Row) AddClass(names ...string) {
	for _, n := range names {
		if n != "" {
			r.classes[n] = struct{}{}
		}
	}
}

func (r *Row) RemoveClass(names ...string) {
	for _, n := range names {
		delete(r.classes, n)
	}
}

func (r *Row) HasClass(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// Classes returns the row's classes in sorted order.
func (r *Row) Classes() []string {
	out := make([]string, 0, len(r.classes))
	for c := range r.classes {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

func (r *Row) Text(s string) {
	r.parts = append(r.parts, part{text: s})
}

// Button attaches a control triggered by key. A later control with the same
// key replaces the earlier one.
func (r *Row) Button(key, label string, fn Callback) *Control {
	c := &Control{Key: key, Label: label, onPress: fn}
	r.attach(c)
	return c
}

// Input attaches an editable value committed through fn.
func (r *Row) Input(key, value string, fn func(ctx context.Context, value string) error) *Control {
	c := &Control{Key: key, Value: value, input: true, onSubmit: fn}
	r.attach(c)
	return c
}

func (r *Row) attach(c *Control) {
	r.controls = slices.DeleteFunc(r.controls, func(o *Control) bool { return o.Key == c.Key })
	r.controls = append(r.controls, c)
	r.parts = append(r.parts, part{control: c})
}

func (r *Row) Control(key string) (*Control, bool) {
	for _, c := range r.controls {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

func (r *Row) Controls() []*Control {
	return slices.Clone(r.controls)
}

// Render draws the row no wider than width; zero means unbounded.
func (r *Row) Render(width int, st Styles) string {
	pieces := make([]string, 0, len(r.parts))
	for _, p := range r.parts {
		switch {
		case p.control == nil:
			pieces = append(pieces, st.Text.Render(p.text))
		case p.control.input:
			pieces = append(pieces, st.Input.Render(p.control.Value))
		case p.control.Disabled:
			pieces = append(pieces, st.Disabled.Render(p.control.Label))
		default:
			pieces = append(pieces, st.Button.Render(p.control.Label))
		}
	}

	sep := " "
	if r.Vertical {
		sep = "\n"
	}
	body := strings.Join(pieces, sep)

	style := st.Row
	for _, c := range r.Classes() {
		if cs, ok := st.Classes[c]; ok {
			style = cs.Inherit(style)
		}
	}

	if width > 0 {
		inner := width - style.GetHorizontalFrameSize()
		if inner < 1 {
			inner = 1
		}
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			lines[i] = ansi.Truncate(l, inner, "…")
		}
		body = strings.Join(lines, "\n")
	}
	return style.Render(body)
}

// Styles maps row parts and row classes to lipgloss styles.
type Styles struct {
	Row       lipgloss.Style
	Text      lipgloss.Style
	Button    lipgloss.Style
	Disabled  lipgloss.Style
	Input     lipgloss.Style
	AddButton lipgloss.Style
	Classes   map[string]lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Row:       lipgloss.NewStyle().PaddingLeft(2),
		Text:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Button:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Disabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Input:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		AddButton: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).PaddingLeft(2),
		Classes: map[string]lipgloss.Style{
			ClassSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		},
	}
}
