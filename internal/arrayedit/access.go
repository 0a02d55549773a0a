package arrayedit

// AccessMode selects how a renderer addresses the item it draws.
type AccessMode int

const (
	// AccessByIndex hands renderers the item's position in the underlying
	// slice. Required for primitive item types, where removing by value is
	// ambiguous once duplicates exist.
	AccessByIndex AccessMode = iota
	// AccessByItem hands renderers the item value itself.
	AccessByItem
)

func (m AccessMode) String() string {
	if m == AccessByItem {
		return "item"
	}
	return "index"
}

// Access is either an index into the underlying slice or the item itself,
// never both. Which variant an editor produces is fixed at construction.
type Access[T any] struct {
	mode  AccessMode
	index int
	item  T
}

func ByIndex[T any](i int) Access[T] {
	return Access[T]{mode: AccessByIndex, index: i}
}

func ByItem[T any](item T) Access[T] {
	return Access[T]{mode: AccessByItem, item: item}
}

func (a Access[T]) Mode() AccessMode { return a.mode }

// Index reports the slice position when a is index based.
func (a Access[T]) Index() (int, bool) {
	return a.index, a.mode == AccessByIndex
}

// Item reports the item when a is item based.
func (a Access[T]) Item() (T, bool) {
	return a.item, a.mode == AccessByItem
}

// Resolve returns the addressed item. Index access fails when the index is
// no longer inside items.
func (a Access[T]) Resolve(items []T) (T, bool) {
	if a.mode == AccessByItem {
		return a.item, true
	}
	var zero T
	if a.index < 0 || a.index >= len(items) {
		return zero, false
	}
	return items[a.index], true
}
