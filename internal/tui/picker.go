package tui

import (
	"context"

	"github.com/aschmelyun/vnote/internal/arrayedit"
	"github.com/aschmelyun/vnote/internal/media"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type pathRenderer struct{}

func (pathRenderer) Vertical() bool { return false }

func (pathRenderer) Render(_ context.Context, row *arrayedit.Row, items *[]string, access arrayedit.Access[string], _, _ arrayedit.Callback) error {
	p, ok := access.Resolve(*items)
	if !ok {
		return nil
	}
	row.Text(p)
	return nil
}

// picker chooses a media file. The list is ranked by fuzzy match against
// the query as it is typed.
type picker struct {
	files  []string
	query  textinput.Model
	editor *arrayedit.Editor[string]
}

func newPicker() *picker {
	p := &picker{query: textinput.New()}
	p.query.Prompt = "media › "
	p.query.Placeholder = "type to filter"
	st := arrayedit.DefaultStyles()
	st.Text = lipgloss.NewStyle()
	p.editor = arrayedit.New(&p.files, pathRenderer{},
		arrayedit.WithDisplay[string](arrayedit.CustomDisplay[string]{Handler: p.rank}),
		arrayedit.WithStyles[string](st),
	)
	return p
}

func (p *picker) rank(_ context.Context, entries []arrayedit.Entry[string]) ([]arrayedit.Entry[string], error) {
	paths := make([]string, len(entries))
	for i, en := range entries {
		paths[i] = en.Item
	}
	idx := media.Rank(p.query.Value(), paths)
	out := make([]arrayedit.Entry[string], len(idx))
	for i, j := range idx {
		out[i] = entries[j]
	}
	return out, nil
}

func (p *picker) open(ctx context.Context, files []string) error {
	p.files = files
	p.query.SetValue("")
	p.query.Focus()
	return p.editor.Render(ctx)
}

func (p *picker) close() {
	p.query.Blur()
	p.files = nil
}

// refilter re-ranks after the query changed and puts the cursor on the
// best match.
func (p *picker) refilter(ctx context.Context) error {
	if err := p.editor.RefreshList(ctx); err != nil {
		return err
	}
	p.editor.SetCursor(0)
	return nil
}

func (p *picker) selected() (string, bool) {
	displayed := p.editor.Displayed()
	c := p.editor.Cursor()
	if c < 0 || c >= len(displayed) {
		return "", false
	}
	return displayed[c].Item, true
}

func (p *picker) setSize(width, height int) {
	p.query.Width = max(width-len(p.query.Prompt)-1, 1)
	p.editor.SetSize(width, height-1)
}

func (p *picker) view() string {
	list := p.editor.View()
	if len(p.editor.Rows()) == 0 {
		list = DimTextStyle.Render("  no matching media files")
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.query.View(), list)
}
