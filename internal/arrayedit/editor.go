// Package arrayedit renders a caller-owned slice as an editable list.
//
// An Editor keeps two orders apart: the storage order of the underlying
// slice, shaped by its InsertionPolicy, and the displayed order, shaped by
// its DisplayPolicy. Rows are rebuilt from scratch on every refresh; each
// row's controls live exactly as long as the row.
package arrayedit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var (
	ErrBusy        = errors.New("arrayedit: mutation already in progress")
	ErrNoFactory   = errors.New("arrayedit: no item factory configured")
	ErrAddDisabled = errors.New("arrayedit: add is disabled")
	ErrNoRow       = errors.New("arrayedit: row out of range")
	ErrNoControl   = errors.New("arrayedit: no such control")
)

// Factory makes a candidate item for the add flow. It may block; the add
// flow waits for it before touching the slice.
type Factory[T any] func(ctx context.Context) (T, error)

// Layout describes the list chrome.
type Layout struct {
	Vertical     bool
	ItemsPerLine int
	AddButton    bool
	AddLabel     string
	ExtraClasses []string
}

func (l Layout) IsGrid() bool { return l.ItemsPerLine > 1 }

func (l Layout) perLine() int {
	if l.ItemsPerLine < 1 {
		return 1
	}
	return l.ItemsPerLine
}

func orientation(vertical bool) string {
	if vertical {
		return "vbox"
	}
	return "hbox"
}

// Frame is the container chrome built by Render.
type Frame struct {
	Classes     []string
	ListClasses []string
	GridColumns int
	GridRows    int
	AddButton   bool
	AddFloating bool
}

type span struct{ start, end int }

type Editor[T comparable] struct {
	items     *[]T
	renderer  ItemRenderer[T]
	access    AccessMode
	display   DisplayPolicy[T]
	insertion InsertionPolicy[T]
	factory   Factory[T]
	save      Callback
	layout    Layout
	styles    Styles
	hooks     []Callback

	frame     Frame
	rendered  bool
	rows      []*Row
	displayed []Entry[T]
	cursor    int
	width     int
	busy      bool
	vp        viewport.Model
}

type Option[T comparable] func(*Editor[T])

func WithDisplay[T comparable](p DisplayPolicy[T]) Option[T] {
	return func(e *Editor[T]) { e.display = p }
}

func WithInsertion[T comparable](p InsertionPolicy[T]) Option[T] {
	return func(e *Editor[T]) { e.insertion = p }
}

func WithFactory[T comparable](f Factory[T]) Option[T] {
	return func(e *Editor[T]) { e.factory = f }
}

func WithSave[T comparable](fn Callback) Option[T] {
	return func(e *Editor[T]) { e.save = fn }
}

func WithLayout[T comparable](l Layout) Option[T] {
	return func(e *Editor[T]) { e.layout = l }
}

func WithAccess[T comparable](m AccessMode) Option[T] {
	return func(e *Editor[T]) { e.access = m }
}

func WithStyles[T comparable](st Styles) Option[T] {
	return func(e *Editor[T]) { e.styles = st }
}

// WithRenderHook registers fn to run after every list rebuild, once the new
// rows are in place.
func WithRenderHook[T comparable](fn Callback) Option[T] {
	return func(e *Editor[T]) { e.hooks = append(e.hooks, fn) }
}

// New builds an editor over items. The editor mutates *items in place, so
// the caller keeps seeing every edit through its own reference.
func New[T comparable](items *[]T, renderer ItemRenderer[T], opts ...Option[T]) *Editor[T] {
	e := &Editor[T]{
		items:     items,
		renderer:  renderer,
		access:    AccessByIndex,
		display:   DefaultDisplay[T]{},
		insertion: DefaultInsertion[T]{},
		layout:    Layout{Vertical: true, ItemsPerLine: 1},
		styles:    DefaultStyles(),
		vp:        viewport.New(0, 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.layout.AddLabel == "" {
		e.layout.AddLabel = "+ add"
	}
	return e
}

// Render rebuilds the chrome and populates the list. Calling it again
// discards all previous rows, scroll offset and cursor.
func (e *Editor[T]) Render(ctx context.Context) error {
	classes := append([]string{orientation(e.layout.Vertical), "fill", "scroll", "outer-div"}, e.layout.ExtraClasses...)
	list := append([]string(nil), classes...)
	if e.layout.IsGrid() {
		list = append(list, "grid")
	}

	e.frame = Frame{
		Classes:     classes,
		ListClasses: list,
		AddButton:   e.layout.AddButton,
		AddFloating: e.layout.AddButton && e.layout.IsGrid(),
	}
	if e.layout.IsGrid() {
		if e.layout.Vertical {
			e.frame.GridColumns = e.layout.ItemsPerLine
		} else {
			e.frame.GridRows = e.layout.ItemsPerLine
		}
	}

	e.rows = nil
	e.displayed = nil
	e.cursor = 0
	e.vp.SetContent("")
	e.vp.SetYOffset(0)
	e.rendered = true
	return e.RefreshList(ctx)
}

// RefreshList recomputes the displayed order and redraws one row per
// displayed entry. The scroll offset survives the rebuild.
func (e *Editor[T]) RefreshList(ctx context.Context) error {
	scrollTop := e.vp.YOffset
	e.rows = nil
	e.displayed = nil

	entries := make([]Entry[T], len(*e.items))
	for i, item := range *e.items {
		entries[i] = Entry[T]{Index: i, Item: item}
	}
	displayed, err := e.display.display(ctx, entries)
	if err != nil {
		return fmt.Errorf("arrayedit: display: %w", err)
	}
	e.displayed = displayed

	if p, ok := e.renderer.(Preparer); ok {
		if err := p.Prepare(ctx); err != nil {
			return fmt.Errorf("arrayedit: prepare: %w", err)
		}
	}

	for _, en := range displayed {
		row := NewRow(e.renderer.Vertical(), "outer-div", orientation(e.renderer.Vertical()))
		e.rows = append(e.rows, row)

		access := ByIndex[T](en.Index)
		if e.access == AccessByItem {
			access = ByItem((*e.items)[en.Index])
		}
		if err := e.renderer.Render(ctx, row, e.items, access, e.refresh, e.persist); err != nil {
			return fmt.Errorf("arrayedit: render row %d: %w", len(e.rows)-1, err)
		}
	}

	e.setCursor(e.cursor)
	e.sync()
	e.vp.SetYOffset(scrollTop)

	for _, hook := range e.hooks {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	return nil
}

// refresh rebuilds even when the save fails; items already changed and the
// rows must match them.
func (e *Editor[T]) refresh(ctx context.Context) error {
	saveErr := e.persist(ctx)
	if err := e.RefreshList(ctx); err != nil {
		return err
	}
	return saveErr
}

func (e *Editor[T]) persist(ctx context.Context) error {
	if e.save == nil {
		return nil
	}
	return e.save(ctx)
}

// Add runs the add flow: make an item, commit it through the insertion
// policy, persist, refresh. A candidate rejected by the insertion filter is
// not an error; Add reports added=false.
func (e *Editor[T]) Add(ctx context.Context) (added bool, err error) {
	if !e.layout.AddButton {
		return false, ErrAddDisabled
	}
	if e.factory == nil {
		return false, ErrNoFactory
	}
	if e.busy {
		return false, ErrBusy
	}
	e.busy = true
	defer func() { e.busy = false }()

	item, err := e.factory(ctx)
	if err != nil {
		return false, fmt.Errorf("arrayedit: make item: %w", err)
	}
	ok, err := e.insertion.insert(ctx, e.items, item)
	if err != nil {
		return false, fmt.Errorf("arrayedit: insert: %w", err)
	}
	if !ok {
		return false, nil
	}
	return true, e.refresh(ctx)
}

// Press triggers the button bound to key on the given displayed row.
// Pressing a disabled control is a no-op.
func (e *Editor[T]) Press(ctx context.Context, row int, key string) error {
	c, err := e.control(row, key)
	if err != nil {
		return err
	}
	if c.input || c.onPress == nil {
		return ErrNoControl
	}
	if c.Disabled {
		return nil
	}
	e.busy = true
	defer func() { e.busy = false }()
	return c.onPress(ctx)
}

// Submit commits value to the input bound to key on the given displayed row.
func (e *Editor[T]) Submit(ctx context.Context, row int, key, value string) error {
	c, err := e.control(row, key)
	if err != nil {
		return err
	}
	if !c.input || c.onSubmit == nil {
		return ErrNoControl
	}
	e.busy = true
	defer func() { e.busy = false }()
	c.Value = value
	return c.onSubmit(ctx, value)
}

func (e *Editor[T]) control(row int, key string) (*Control, error) {
	if e.busy {
		return nil, ErrBusy
	}
	if row < 0 || row >= len(e.rows) {
		return nil, ErrNoRow
	}
	c, ok := e.rows[row].Control(key)
	if !ok {
		return nil, ErrNoControl
	}
	return c, nil
}

// Rows returns the rows in displayed order.
func (e *Editor[T]) Rows() []*Row { return e.rows }

// Displayed returns the entries behind Rows, position for position.
func (e *Editor[T]) Displayed() []Entry[T] { return e.displayed }

// Items returns the underlying slice.
func (e *Editor[T]) Items() []T { return *e.items }

func (e *Editor[T]) Frame() Frame { return e.frame }

func (e *Editor[T]) Layout() Layout { return e.layout }

func (e *Editor[T]) Styles() Styles { return e.styles }

func (e *Editor[T]) Cursor() int { return e.cursor }

// SetCursor moves the keyboard cursor, clamped to the rows, and keeps it in
// view.
func (e *Editor[T]) SetCursor(i int) {
	e.setCursor(i)
	e.ScrollIntoView(e.cursor)
}

func (e *Editor[T]) MoveCursor(delta int) {
	e.SetCursor(e.cursor + delta)
}

func (e *Editor[T]) setCursor(i int) {
	if i >= len(e.rows) {
		i = len(e.rows) - 1
	}
	if i < 0 {
		i = 0
	}
	for _, r := range e.rows {
		r.RemoveClass(ClassSelected)
	}
	e.cursor = i
	if i < len(e.rows) {
		e.rows[i].AddClass(ClassSelected)
	}
}

func (e *Editor[T]) SetSize(width, height int) {
	e.width = width
	if e.layout.AddButton {
		height--
	}
	if height < 0 {
		height = 0
	}
	e.vp.Width = width
	e.vp.Height = height
	e.sync()
}

func (e *Editor[T]) ScrollTop() int { return e.vp.YOffset }

func (e *Editor[T]) SetScrollTop(n int) {
	e.sync()
	e.vp.SetYOffset(n)
}

// ScrollIntoView scrolls the least distance that makes row i fully visible.
func (e *Editor[T]) ScrollIntoView(i int) {
	spans := e.sync()
	if i < 0 || i >= len(spans) || e.vp.Height <= 0 {
		return
	}
	sp := spans[i]
	switch {
	case sp.start < e.vp.YOffset:
		e.vp.SetYOffset(sp.start)
	case sp.end > e.vp.YOffset+e.vp.Height:
		e.vp.SetYOffset(sp.end - e.vp.Height)
	}
}

// sync pushes the current rows into the viewport and returns each row's
// line span.
func (e *Editor[T]) sync() []span {
	content, spans := e.content()
	e.vp.SetContent(content)
	return spans
}

func (e *Editor[T]) content() (string, []span) {
	spans := make([]span, len(e.rows))
	if len(e.rows) == 0 {
		return "", spans
	}
	n := e.layout.perLine()

	if !e.layout.Vertical {
		var columns []string
		for c := 0; c*n < len(e.rows); c++ {
			line := 0
			var cells []string
			for i := c * n; i < min((c+1)*n, len(e.rows)); i++ {
				cell := e.rows[i].Render(0, e.styles)
				h := lipgloss.Height(cell)
				spans[i] = span{line, line + h}
				line += h
				cells = append(cells, cell)
			}
			columns = append(columns, lipgloss.JoinVertical(lipgloss.Left, cells...))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, columns...), spans
	}

	cellWidth := 0
	if e.width > 0 {
		cellWidth = e.width / n
	}
	var blocks []string
	line := 0
	for start := 0; start < len(e.rows); start += n {
		var cells []string
		for i := start; i < min(start+n, len(e.rows)); i++ {
			cell := e.rows[i].Render(cellWidth, e.styles)
			if n > 1 && cellWidth > 0 {
				cell = lipgloss.NewStyle().Width(cellWidth).Render(cell)
			}
			cells = append(cells, cell)
		}
		block := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		h := lipgloss.Height(block)
		for i := start; i < min(start+n, len(e.rows)); i++ {
			spans[i] = span{line, line + h}
		}
		line += h
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n"), spans
}

// View renders the visible part of the list plus the add affordance.
func (e *Editor[T]) View() string {
	if !e.rendered {
		return ""
	}
	e.sync()
	out := e.vp.View()
	if e.frame.AddButton {
		out = lipgloss.JoinVertical(lipgloss.Left, out, e.styles.AddButton.Render(e.layout.AddLabel))
	}
	return out
}
