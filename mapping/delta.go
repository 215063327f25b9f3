package mapping

import (
	"github.com/swind/go-jdeobf/entry"
)

// MappingDelta is what changed in a tree since the previous delta: Base is
// the tree as it was then, Changes marks every entry written since.
type MappingDelta[T any] struct {
	Base    EntryTree[T]
	Changes EntryTree[struct{}]
}

// ChangedEntries lists the entries that were inserted or removed.
func (d MappingDelta[T]) ChangedEntries() []entry.Entry {
	return d.Changes.AllEntries()
}

// DeltaTrackingTree records the entries written through it so a writer can
// persist only what changed.
type DeltaTrackingTree[T any] struct {
	EntryTree[T]

	base    *HashEntryTree[T]
	changes *HashEntryTree[struct{}]
}

func NewDeltaTrackingTree[T any](delegate EntryTree[T]) *DeltaTrackingTree[T] {
	if delegate == nil {
		delegate = NewHashEntryTree[T]()
	}
	return &DeltaTrackingTree[T]{
		EntryTree: delegate,
		base:      CopyTree(delegate),
		changes:   NewHashEntryTree[struct{}](),
	}
}

func (t *DeltaTrackingTree[T]) Insert(e entry.Entry, value T) {
	t.TrackChange(e)
	t.EntryTree.Insert(e, value)
}

func (t *DeltaTrackingTree[T]) Remove(e entry.Entry) (T, bool) {
	t.TrackChange(e)
	return t.EntryTree.Remove(e)
}

func (t *DeltaTrackingTree[T]) TrackChange(e entry.Entry) {
	t.changes.Insert(e, struct{}{})
}

// TakeDelta returns the changes since the last call and starts a new delta.
func (t *DeltaTrackingTree[T]) TakeDelta() MappingDelta[T] {
	delta := MappingDelta[T]{Base: t.base, Changes: t.changes}
	t.base = CopyTree(t.EntryTree)
	t.changes = NewHashEntryTree[struct{}]()
	return delta
}

func (t *DeltaTrackingTree[T]) IsDirty() bool {
	return !t.changes.IsEmpty()
}
