package arrayedit

import (
	"context"
	"slices"
)

// Callback is handed to renderers. Refresh callbacks persist and rebuild the
// whole list; save callbacks persist only.
type Callback func(ctx context.Context) error

// ItemRenderer draws one item into a row and wires that item's controls.
//
// Render must call refresh after any structural change to items (delete,
// reorder) and save after an in-place field edit that leaves the shape of
// items alone.
type ItemRenderer[T any] interface {
	Render(ctx context.Context, row *Row, items *[]T, access Access[T], refresh, save Callback) error
	Vertical() bool
}

// Preparer is implemented by renderers that read shared state once per
// rebuild instead of once per row. RefreshList calls Prepare before the
// first row.
type Preparer interface {
	Prepare(ctx context.Context) error
}

// Direction for ShiftButton.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) toPrev() bool { return d == Up || d == Left }

func (d Direction) key() string {
	switch d {
	case Up:
		return "K"
	case Down:
		return "J"
	case Left:
		return "H"
	default:
		return "L"
	}
}

func (d Direction) label() string {
	switch d {
	case Up:
		return "↑"
	case Down:
		return "↓"
	case Left:
		return "←"
	default:
		return "→"
	}
}

// DeleteButton removes the addressed item. Index access splices by position;
// item access removes the first element equal to the item.
func DeleteButton[T comparable](row *Row, items *[]T, access Access[T], refresh Callback) *Control {
	return row.Button("x", "✕", func(ctx context.Context) error {
		if idx, ok := access.Index(); ok {
			if idx < 0 || idx >= len(*items) {
				return nil
			}
			*items = slices.Delete(*items, idx, idx+1)
		} else {
			item, _ := access.Item()
			i := slices.Index(*items, item)
			if i < 0 {
				return nil
			}
			*items = slices.Delete(*items, i, i+1)
		}
		return refresh(ctx)
	})
}

// ShiftButton moves the item at index one step in dir. The control is
// disabled when the step would leave the slice.
func ShiftButton[T any](row *Row, items *[]T, index int, dir Direction, refresh Callback) *Control {
	target := index + 1
	if dir.toPrev() {
		target = index - 1
	}
	c := row.Button(dir.key(), dir.label(), func(ctx context.Context) error {
		if !move(*items, index, target) {
			return nil
		}
		return refresh(ctx)
	})
	c.Disabled = target < 0 || target >= len(*items)
	return c
}

func move[T any](items []T, from, to int) bool {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return false
	}
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
	return true
}
