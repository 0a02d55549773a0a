package notes

import (
	"context"

	"github.com/aschmelyun/vnote/internal/arrayedit"
	"github.com/aschmelyun/vnote/internal/media"
)

// Row control keys.
const (
	KeyJump    = "enter"
	KeyEdit    = "e"
	KeySetTime = "t"
	KeyDelete  = "x"
)

// NoteRenderer draws one note per row: its time, its text and the controls
// acting on it. Clock is fixed at construction; without one the jump and
// set-time controls are disabled.
type NoteRenderer struct {
	Clock media.Clock

	duration float64
}

// Prepare reads the media duration once for the rebuild that follows.
func (r *NoteRenderer) Prepare(context.Context) error {
	r.duration = 0
	if r.Clock != nil {
		r.duration = r.Clock.Duration()
	}
	return nil
}

func (r *NoteRenderer) Vertical() bool { return false }

func (r *NoteRenderer) Render(ctx context.Context, row *arrayedit.Row, items *[]*Note, access arrayedit.Access[*Note], refresh, save arrayedit.Callback) error {
	note, ok := access.Resolve(*items)
	if !ok || note == nil {
		return nil
	}

	row.Text(media.FormatClock(note.Time, r.duration))

	row.Input(KeyEdit, note.Text, func(ctx context.Context, value string) error {
		note.Text = value
		return save(ctx)
	})

	jump := row.Button(KeyJump, "▶", func(context.Context) error {
		return r.Clock.Seek(note.Time)
	})
	stamp := row.Button(KeySetTime, "⏱", func(ctx context.Context) error {
		note.Time = r.Clock.CurrentTime()
		Sort(*items)
		return refresh(ctx)
	})
	jump.Disabled = r.Clock == nil
	stamp.Disabled = r.Clock == nil

	arrayedit.DeleteButton(row, items, access, refresh)
	return nil
}
