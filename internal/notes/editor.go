package notes

import (
	"context"
	"log/slog"

	"github.com/aschmelyun/vnote/internal/arrayedit"
	"github.com/aschmelyun/vnote/internal/media"
	"github.com/charmbracelet/lipgloss"
)

// NoteEditor is the note list: an arrayedit.Editor fixed to vertical, one
// note per line, sorted by time, plus a highlight on the note that is
// currently playing.
type NoteEditor struct {
	doc    *Document
	clock  media.Clock
	editor *arrayedit.Editor[*Note]
	logger *slog.Logger

	current     int
	marked      bool
	forceScroll bool
}

type Option func(*NoteEditor, *[]arrayedit.Option[*Note])

func WithLogger(l *slog.Logger) Option {
	return func(e *NoteEditor, _ *[]arrayedit.Option[*Note]) { e.logger = l }
}

// WithStyles replaces the row styles. The active class style is added when
// st does not define one.
func WithStyles(st arrayedit.Styles) Option {
	return func(_ *NoteEditor, opts *[]arrayedit.Option[*Note]) {
		*opts = append(*opts, arrayedit.WithStyles[*Note](withActive(st)))
	}
}

// DefaultStyles are arrayedit's defaults plus a thick left border marking
// the active note.
func DefaultStyles() arrayedit.Styles {
	return withActive(arrayedit.DefaultStyles())
}

func withActive(st arrayedit.Styles) arrayedit.Styles {
	classes := make(map[string]lipgloss.Style, len(st.Classes)+1)
	for k, v := range st.Classes {
		classes[k] = v
	}
	if _, ok := classes[ClassActive]; !ok {
		classes[ClassActive] = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("6")).
			PaddingLeft(1)
	}
	st.Classes = classes
	return st
}

// NewEditor builds the editor over doc.Notes. save runs after every edit;
// new notes are stamped with clock's current time.
func NewEditor(doc *Document, clock media.Clock, save arrayedit.Callback, opts ...Option) *NoteEditor {
	e := &NoteEditor{doc: doc, clock: clock}
	editorOpts := []arrayedit.Option[*Note]{
		arrayedit.WithAccess[*Note](arrayedit.AccessByItem),
		arrayedit.WithLayout[*Note](arrayedit.Layout{
			Vertical:     true,
			ItemsPerLine: 1,
			AddButton:    true,
			AddLabel:     "+ add note",
		}),
		arrayedit.WithStyles[*Note](DefaultStyles()),
		arrayedit.WithInsertion[*Note](arrayedit.DefaultInsertion[*Note]{Order: ByTime}),
		arrayedit.WithFactory[*Note](e.newNote),
		arrayedit.WithSave[*Note](save),
		arrayedit.WithRenderHook[*Note](e.afterRender),
	}
	for _, opt := range opts {
		opt(e, &editorOpts)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if doc.Notes == nil {
		doc.Notes = []*Note{}
	}
	e.editor = arrayedit.New(&doc.Notes, &NoteRenderer{Clock: clock}, editorOpts...)
	return e
}

func (e *NoteEditor) newNote(context.Context) (*Note, error) {
	var t float64
	if e.clock != nil {
		t = e.clock.CurrentTime()
	}
	return &Note{Time: t}, nil
}

// afterRender runs on every rebuild. The previous marker went away with the
// old rows, so the active row is marked again unconditionally.
func (e *NoteEditor) afterRender(context.Context) error {
	e.marked = false
	e.highlight(e.forceScroll)
	return nil
}

func (e *NoteEditor) now() float64 {
	if e.clock == nil {
		return 0
	}
	return e.clock.CurrentTime()
}

func (e *NoteEditor) highlight(scroll bool) {
	rows := e.editor.Rows()
	if len(rows) == 0 {
		e.current = 0
		e.marked = false
		return
	}
	next := ActiveIndex(entryNotes(e.editor.Displayed()), e.now())
	if e.marked && next == e.current {
		return
	}
	if e.current < len(rows) {
		rows[e.current].RemoveClass(ClassActive)
	}
	rows[next].AddClass(ClassActive)
	e.current = next
	e.marked = true
	if scroll {
		e.editor.ScrollIntoView(next)
	}
}

// Render builds the list from scratch.
func (e *NoteEditor) Render(ctx context.Context) error {
	return e.editor.Render(ctx)
}

// Sync moves the highlight to the note at the clock's current time. It
// never scrolls; playback must not drag the list around.
func (e *NoteEditor) Sync() {
	e.highlight(false)
}

// AddNote adds a note at the current time and scrolls it into view.
func (e *NoteEditor) AddNote(ctx context.Context) (bool, error) {
	e.forceScroll = true
	defer func() { e.forceScroll = false }()
	added, err := e.editor.Add(ctx)
	if err != nil {
		return added, err
	}
	if added {
		e.logger.Debug("notes: added", slog.Float64("time", e.now()), slog.Int("count", len(e.doc.Notes)))
	}
	return added, nil
}

// Current returns the displayed position of the active note.
func (e *NoteEditor) Current() int { return e.current }

// Active returns the active note, if any.
func (e *NoteEditor) Active() (*Note, bool) {
	displayed := e.editor.Displayed()
	if !e.marked || e.current >= len(displayed) {
		return nil, false
	}
	return displayed[e.current].Item, true
}

// Selected returns the note under the keyboard cursor.
func (e *NoteEditor) Selected() (*Note, bool) {
	displayed := e.editor.Displayed()
	c := e.editor.Cursor()
	if c < 0 || c >= len(displayed) {
		return nil, false
	}
	return displayed[c].Item, true
}

// Replace swaps the notes for fresh ones, keeping the document's slice as
// the editor's backing store, and rebuilds the list.
func (e *NoteEditor) Replace(ctx context.Context, notes []*Note) error {
	Sort(notes)
	e.doc.Notes = append(e.doc.Notes[:0], notes...)
	return e.editor.RefreshList(ctx)
}

func (e *NoteEditor) Document() *Document { return e.doc }

func (e *NoteEditor) Editor() *arrayedit.Editor[*Note] { return e.editor }
