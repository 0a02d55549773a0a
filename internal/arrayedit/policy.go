package arrayedit

import (
	"context"
	"slices"
)

// Entry pairs an item with its position in the underlying slice.
type Entry[T any] struct {
	Index int
	Item  T
}

// DisplayPolicy turns the underlying slice into the displayed sequence.
// It is either DefaultDisplay or CustomDisplay.
type DisplayPolicy[T any] interface {
	display(ctx context.Context, entries []Entry[T]) ([]Entry[T], error)
}

// DefaultDisplay filters, then sorts. Both steps are optional and applied
// independently.
type DefaultDisplay[T any] struct {
	Filter func(item T) bool
	Order  func(a, b T) int
}

func (p DefaultDisplay[T]) display(_ context.Context, entries []Entry[T]) ([]Entry[T], error) {
	out := entries
	if p.Filter != nil {
		out = make([]Entry[T], 0, len(entries))
		for _, en := range entries {
			if p.Filter(en.Item) {
				out = append(out, en)
			}
		}
	}
	if p.Order != nil {
		slices.SortStableFunc(out, func(a, b Entry[T]) int { return p.Order(a.Item, b.Item) })
	}
	return out, nil
}

// CustomDisplay hands the whole sequence to Handler. Its result is displayed
// as is; no filter or order is applied on top.
type CustomDisplay[T any] struct {
	Handler func(ctx context.Context, entries []Entry[T]) ([]Entry[T], error)
}

func (p CustomDisplay[T]) display(ctx context.Context, entries []Entry[T]) ([]Entry[T], error) {
	return p.Handler(ctx, entries)
}

// InsertionPolicy commits a freshly made item into the underlying slice.
// It is either DefaultInsertion or CustomInsertion.
type InsertionPolicy[T any] interface {
	insert(ctx context.Context, items *[]T, candidate T) (bool, error)
}

// DefaultInsertion appends candidates that pass Filter. With Order set the
// whole slice is re-sorted in place afterwards, so index-based consumers see
// storage order equal to sorted order.
type DefaultInsertion[T any] struct {
	Filter func(item T) bool
	Order  func(a, b T) int
}

func (p DefaultInsertion[T]) insert(_ context.Context, items *[]T, candidate T) (bool, error) {
	if p.Filter != nil && !p.Filter(candidate) {
		return false, nil
	}
	*items = append(*items, candidate)
	if p.Order != nil {
		slices.SortStableFunc(*items, p.Order)
	}
	return true, nil
}

// CustomInsertion gives Handler full control of the underlying slice.
type CustomInsertion[T any] struct {
	Handler func(ctx context.Context, items *[]T, candidate T) error
}

func (p CustomInsertion[T]) insert(ctx context.Context, items *[]T, candidate T) (bool, error) {
	if err := p.Handler(ctx, items, candidate); err != nil {
		return false, err
	}
	return true, nil
}
