package arrayedit

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

type wordRenderer struct {
	calls    int
	accesses []Access[string]
}

func (r *wordRenderer) Vertical() bool { return false }

func (r *wordRenderer) Render(_ context.Context, row *Row, items *[]string, access Access[string], refresh, save Callback) error {
	r.calls++
	r.accesses = append(r.accesses, access)
	word, _ := access.Resolve(*items)
	row.Text(word)
	DeleteButton(row, items, access, refresh)
	if idx, ok := access.Index(); ok {
		ShiftButton(row, items, idx, Up, refresh)
		ShiftButton(row, items, idx, Down, refresh)
		row.Input("e", word, func(ctx context.Context, v string) error {
			(*items)[idx] = v
			return save(ctx)
		})
	}
	return nil
}

func rowTexts(e *Editor[string]) []string {
	var out []string
	for _, en := range e.Displayed() {
		out = append(out, en.Item)
	}
	return out
}

func TestRender_EmptySliceShowsNoRowsButKeepsAddButton(t *testing.T) {
	var words []string
	e := New(&words, &wordRenderer{}, WithLayout[string](Layout{Vertical: true, ItemsPerLine: 1, AddButton: true}))

	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(e.Rows()) != 0 {
		t.Fatalf("expected no rows; got %d", len(e.Rows()))
	}
	if !e.Frame().AddButton {
		t.Fatalf("expected add button in frame")
	}
	if !strings.Contains(e.View(), "+ add") {
		t.Fatalf("expected add label in view; got %q", e.View())
	}
}

func TestRender_IsIdempotent(t *testing.T) {
	words := []string{"a", "b", "c"}
	r := &wordRenderer{}
	e := New(&words, r)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := e.Render(ctx); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}
	if len(e.Rows()) != 3 {
		t.Fatalf("expected 3 rows after repeated renders; got %d", len(e.Rows()))
	}
	if r.calls != 9 {
		t.Fatalf("expected renderer to run once per row per render (9); got %d", r.calls)
	}
}

func TestRender_FrameChrome(t *testing.T) {
	tests := []struct {
		name      string
		layout    Layout
		wantCols  int
		wantRows  int
		wantGrid  bool
		wantOuter string
	}{
		{"vertical list", Layout{Vertical: true, ItemsPerLine: 1}, 0, 0, false, "vbox"},
		{"vertical grid", Layout{Vertical: true, ItemsPerLine: 3}, 3, 0, true, "vbox"},
		{"horizontal grid", Layout{Vertical: false, ItemsPerLine: 2}, 0, 2, true, "hbox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := []string{"a"}
			e := New(&words, &wordRenderer{}, WithLayout[string](tt.layout))
			if err := e.Render(context.Background()); err != nil {
				t.Fatalf("render: %v", err)
			}
			f := e.Frame()
			if f.GridColumns != tt.wantCols || f.GridRows != tt.wantRows {
				t.Fatalf("expected cols=%d rows=%d; got cols=%d rows=%d", tt.wantCols, tt.wantRows, f.GridColumns, f.GridRows)
			}
			if slices.Contains(f.ListClasses, "grid") != tt.wantGrid {
				t.Fatalf("expected grid=%v; got classes %v", tt.wantGrid, f.ListClasses)
			}
			if f.Classes[0] != tt.wantOuter {
				t.Fatalf("expected orientation %q; got %v", tt.wantOuter, f.Classes)
			}
		})
	}
}

func TestRefreshList_DefaultDisplayFiltersThenSorts(t *testing.T) {
	words := []string{"pear", "fig", "apple", "kiwi", "banana"}
	e := New(&words, &wordRenderer{}, WithDisplay[string](DefaultDisplay[string]{
		Filter: func(s string) bool { return len(s) > 3 },
		Order:  cmp.Compare[string],
	}))
	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{"apple", "banana", "kiwi", "pear"}
	if got := rowTexts(e); !slices.Equal(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
	// Storage order is untouched by display policy.
	if words[0] != "pear" || words[2] != "apple" {
		t.Fatalf("expected underlying order preserved; got %v", words)
	}
	// Entries keep their storage index.
	if idx := e.Displayed()[0].Index; idx != 2 {
		t.Fatalf("expected apple at storage index 2; got %d", idx)
	}
}

func TestRefreshList_FilterRejectingEverythingIsNotAnError(t *testing.T) {
	words := []string{"a", "b"}
	e := New(&words, &wordRenderer{}, WithDisplay[string](DefaultDisplay[string]{
		Filter: func(string) bool { return false },
	}))
	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(e.Rows()) != 0 {
		t.Fatalf("expected no rows; got %d", len(e.Rows()))
	}
}

func TestRefreshList_CustomDisplayOverridesDefaults(t *testing.T) {
	words := []string{"c", "a", "b"}
	e := New(&words, &wordRenderer{}, WithDisplay[string](CustomDisplay[string]{
		Handler: func(_ context.Context, entries []Entry[string]) ([]Entry[string], error) {
			// Reverse storage order, drop the first stored element.
			var out []Entry[string]
			for i := len(entries) - 1; i >= 1; i-- {
				out = append(out, entries[i])
			}
			return out, nil
		},
	}))
	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []string{"b", "a"}
	if got := rowTexts(e); !slices.Equal(got, want) {
		t.Fatalf("expected %v; got %v", want, got)
	}
}

func TestRefreshList_CustomDisplayError(t *testing.T) {
	words := []string{"a"}
	boom := errors.New("boom")
	e := New(&words, &wordRenderer{}, WithDisplay[string](CustomDisplay[string]{
		Handler: func(context.Context, []Entry[string]) ([]Entry[string], error) { return nil, boom },
	}))
	if err := e.Render(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom; got %v", err)
	}
}

func TestRefreshList_PreservesScrollOffset(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f"}
	e := New(&words, &wordRenderer{})
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	e.SetSize(20, 2)
	e.SetScrollTop(3)
	if e.ScrollTop() != 3 {
		t.Fatalf("expected scroll 3; got %d", e.ScrollTop())
	}
	if err := e.RefreshList(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if e.ScrollTop() != 3 {
		t.Fatalf("expected scroll offset to survive refresh; got %d", e.ScrollTop())
	}
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if e.ScrollTop() != 0 {
		t.Fatalf("expected render to reset scroll; got %d", e.ScrollTop())
	}
}

func TestScrollIntoView_MovesLeastDistance(t *testing.T) {
	words := []string{"a", "b", "c", "d", "e", "f"}
	e := New(&words, &wordRenderer{})
	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	e.SetSize(20, 2)

	e.ScrollIntoView(4)
	if e.ScrollTop() != 3 {
		t.Fatalf("expected row 4 at bottom edge (offset 3); got %d", e.ScrollTop())
	}
	e.ScrollIntoView(3)
	if e.ScrollTop() != 3 {
		t.Fatalf("expected no scroll for visible row; got %d", e.ScrollTop())
	}
	e.ScrollIntoView(0)
	if e.ScrollTop() != 0 {
		t.Fatalf("expected scroll to top; got %d", e.ScrollTop())
	}
}

func TestAdd_SimpleInsertionAppendsAndResorts(t *testing.T) {
	words := []string{"b", "d"}
	next := "c"
	saves := 0
	e := New(&words, &wordRenderer{},
		WithLayout[string](Layout{Vertical: true, ItemsPerLine: 1, AddButton: true}),
		WithFactory[string](func(context.Context) (string, error) { return next, nil }),
		WithInsertion[string](DefaultInsertion[string]{Order: cmp.Compare[string]}),
		WithSave[string](func(context.Context) error { saves++; return nil }),
	)
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}

	added, err := e.Add(ctx)
	if err != nil || !added {
		t.Fatalf("expected add; got added=%v err=%v", added, err)
	}
	if want := []string{"b", "c", "d"}; !slices.Equal(words, want) {
		t.Fatalf("expected caller slice %v; got %v", want, words)
	}
	if saves != 1 {
		t.Fatalf("expected one save; got %d", saves)
	}
	if len(e.Rows()) != 3 {
		t.Fatalf("expected refreshed rows; got %d", len(e.Rows()))
	}
}

func TestAdd_InsertionFilterRejectsSilently(t *testing.T) {
	words := []string{"a"}
	saves := 0
	e := New(&words, &wordRenderer{},
		WithLayout[string](Layout{Vertical: true, AddButton: true}),
		WithFactory[string](func(context.Context) (string, error) { return "a", nil }),
		WithInsertion[string](DefaultInsertion[string]{
			Filter: func(s string) bool { return !slices.Contains(words, s) },
		}),
		WithSave[string](func(context.Context) error { saves++; return nil }),
	)
	added, err := e.Add(context.Background())
	if err != nil {
		t.Fatalf("expected no error; got %v", err)
	}
	if added {
		t.Fatalf("expected candidate rejected")
	}
	if len(words) != 1 || saves != 0 {
		t.Fatalf("expected untouched slice and no save; got %v saves=%d", words, saves)
	}
}

func TestAdd_CustomInsertionSkipsDefaults(t *testing.T) {
	words := []string{"x", "y"}
	e := New(&words, &wordRenderer{},
		WithLayout[string](Layout{Vertical: true, AddButton: true}),
		WithFactory[string](func(context.Context) (string, error) { return "new", nil }),
		WithInsertion[string](CustomInsertion[string]{
			Handler: func(_ context.Context, items *[]string, c string) error {
				*items = slices.Insert(*items, 0, c)
				return nil
			},
		}),
	)
	if _, err := e.Add(context.Background()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if want := []string{"new", "x", "y"}; !slices.Equal(words, want) {
		t.Fatalf("expected %v; got %v", want, words)
	}
}

func TestAdd_Errors(t *testing.T) {
	var words []string
	ctx := context.Background()

	e := New(&words, &wordRenderer{})
	if _, err := e.Add(ctx); !errors.Is(err, ErrAddDisabled) {
		t.Fatalf("expected ErrAddDisabled; got %v", err)
	}

	e = New(&words, &wordRenderer{}, WithLayout[string](Layout{AddButton: true}))
	if _, err := e.Add(ctx); !errors.Is(err, ErrNoFactory) {
		t.Fatalf("expected ErrNoFactory; got %v", err)
	}

	boom := errors.New("boom")
	e = New(&words, &wordRenderer{},
		WithLayout[string](Layout{AddButton: true}),
		WithFactory[string](func(context.Context) (string, error) { return "", boom }),
	)
	if _, err := e.Add(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected factory error; got %v", err)
	}
	if len(words) != 0 {
		t.Fatalf("expected no insert after factory error; got %v", words)
	}
}

func TestAdd_ReentrantCallIsRejected(t *testing.T) {
	var words []string
	var e *Editor[string]
	var inner error
	e = New(&words, &wordRenderer{},
		WithLayout[string](Layout{AddButton: true}),
		WithFactory[string](func(ctx context.Context) (string, error) {
			_, inner = e.Add(ctx)
			return "a", nil
		}),
	)
	if _, err := e.Add(context.Background()); err != nil {
		t.Fatalf("outer add: %v", err)
	}
	if !errors.Is(inner, ErrBusy) {
		t.Fatalf("expected nested add to be rejected with ErrBusy; got %v", inner)
	}
	if len(words) != 1 {
		t.Fatalf("expected exactly one insert; got %v", words)
	}
}

func TestPress_RenderHookRunsAfterEveryRebuild(t *testing.T) {
	words := []string{"a", "b"}
	hooks := 0
	var rowsSeen []int
	var e *Editor[string]
	e = New(&words, &wordRenderer{}, WithRenderHook[string](func(context.Context) error {
		hooks++
		rowsSeen = append(rowsSeen, len(e.Rows()))
		return nil
	}))
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.Press(ctx, 0, "x"); err != nil {
		t.Fatalf("press: %v", err)
	}
	if hooks != 2 {
		t.Fatalf("expected hook after render and after delete; got %d", hooks)
	}
	if !slices.Equal(rowsSeen, []int{2, 1}) {
		t.Fatalf("expected hook to observe rebuilt rows; got %v", rowsSeen)
	}
}

func TestPress_Errors(t *testing.T) {
	words := []string{"a"}
	e := New(&words, &wordRenderer{})
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.Press(ctx, 5, "x"); !errors.Is(err, ErrNoRow) {
		t.Fatalf("expected ErrNoRow; got %v", err)
	}
	if err := e.Press(ctx, 0, "?"); !errors.Is(err, ErrNoControl) {
		t.Fatalf("expected ErrNoControl; got %v", err)
	}
	if err := e.Press(ctx, 0, "e"); !errors.Is(err, ErrNoControl) {
		t.Fatalf("expected pressing an input to fail; got %v", err)
	}
	if err := e.Submit(ctx, 0, "x", "v"); !errors.Is(err, ErrNoControl) {
		t.Fatalf("expected submitting a button to fail; got %v", err)
	}
}

func TestSubmit_SavesWithoutRebuild(t *testing.T) {
	words := []string{"a", "b"}
	saves := 0
	hooks := 0
	e := New(&words, &wordRenderer{},
		WithSave[string](func(context.Context) error { saves++; return nil }),
		WithRenderHook[string](func(context.Context) error { hooks++; return nil }),
	)
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.Submit(ctx, 1, "e", "z"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if words[1] != "z" || saves != 1 || hooks != 1 {
		t.Fatalf("expected in-place edit with one save and no rebuild; got %v saves=%d hooks=%d", words, saves, hooks)
	}
}

func TestCursor_ClampsAndMarksSelectedRow(t *testing.T) {
	words := []string{"a", "b", "c"}
	e := New(&words, &wordRenderer{})
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	e.MoveCursor(10)
	if e.Cursor() != 2 || !e.Rows()[2].HasClass(ClassSelected) {
		t.Fatalf("expected cursor clamped to last row; got %d", e.Cursor())
	}
	if err := e.Press(ctx, 2, "x"); err != nil {
		t.Fatalf("press: %v", err)
	}
	if e.Cursor() != 1 || !e.Rows()[1].HasClass(ClassSelected) {
		t.Fatalf("expected cursor to follow shrinking list; got %d", e.Cursor())
	}
	if e.Rows()[0].HasClass(ClassSelected) {
		t.Fatalf("expected only one selected row")
	}
}

func TestAccessMode_ItemModePassesValues(t *testing.T) {
	words := []string{"a", "b"}
	r := &wordRenderer{}
	e := New(&words, r, WithAccess[string](AccessByItem))
	if err := e.Render(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, a := range r.accesses {
		if a.Mode() != AccessByItem {
			t.Fatalf("expected item access; got %v", a.Mode())
		}
	}
	if item, _ := r.accesses[1].Item(); item != "b" {
		t.Fatalf("expected second access to carry b; got %q", item)
	}
}

func TestPress_FailedSaveStillRebuilds(t *testing.T) {
	words := []string{"a", "b", "c"}
	boom := errors.New("disk full")
	e := New(&words, &wordRenderer{},
		WithSave[string](func(context.Context) error { return boom }),
	)
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.Press(ctx, 1, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected save error; got %v", err)
	}
	if got := rowTexts(e); !slices.Equal(got, []string{"a", "c"}) {
		t.Fatalf("expected rows to match items after failed save; got %v", got)
	}
	if len(e.Rows()) != 2 {
		t.Fatalf("expected 2 rows; got %d", len(e.Rows()))
	}
}

func TestAdd_FailedSaveStillRebuilds(t *testing.T) {
	var words []string
	boom := errors.New("disk full")
	e := New(&words, &wordRenderer{},
		WithLayout[string](Layout{AddButton: true}),
		WithFactory[string](func(context.Context) (string, error) { return "new", nil }),
		WithSave[string](func(context.Context) error { return boom }),
	)
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	added, err := e.Add(ctx)
	if !added || !errors.Is(err, boom) {
		t.Fatalf("expected added=true with save error; got %v, %v", added, err)
	}
	if got := rowTexts(e); !slices.Equal(got, []string{"new"}) {
		t.Fatalf("expected new item displayed after failed save; got %v", got)
	}
}

type preparedRenderer struct {
	wordRenderer
	prepares int
	seen     []int
}

func (r *preparedRenderer) Prepare(context.Context) error {
	r.prepares++
	return nil
}

func (r *preparedRenderer) Render(ctx context.Context, row *Row, items *[]string, access Access[string], refresh, save Callback) error {
	r.seen = append(r.seen, r.prepares)
	return r.wordRenderer.Render(ctx, row, items, access, refresh, save)
}

func TestRefreshList_PreparesOncePerRebuild(t *testing.T) {
	words := make([]string, 50)
	for i := range words {
		words[i] = strings.Repeat("w", i+1)
	}
	r := &preparedRenderer{}
	e := New(&words, r)
	ctx := context.Background()
	if err := e.Render(ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.RefreshList(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if r.prepares != 2 {
		t.Fatalf("expected one prepare per rebuild; got %d", r.prepares)
	}
	if r.seen[0] != 1 || r.seen[len(r.seen)-1] != 2 {
		t.Fatalf("expected prepare before the first row of each rebuild; got %v", r.seen)
	}
}

type failingPrepare struct{ wordRenderer }

func (failingPrepare) Prepare(context.Context) error { return errors.New("no clock") }

func TestRefreshList_PrepareError(t *testing.T) {
	words := []string{"a"}
	r := &failingPrepare{}
	e := New(&words, r)
	if err := e.Render(context.Background()); err == nil || !strings.Contains(err.Error(), "prepare") {
		t.Fatalf("expected prepare error; got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("expected no rows rendered after prepare failure; got %d", r.calls)
	}
}
