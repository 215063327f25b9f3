package mapping

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/swind/go-jdeobf/entry"
)

// EntryTree stores a value per entry, arranged along the entries' ancestry:
// members hang below their class, parameters below their method.
type EntryTree[T any] interface {
	Insert(e entry.Entry, value T)
	Remove(e entry.Entry) (T, bool)
	Get(e entry.Entry) (T, bool)
	Contains(e entry.Entry) bool
	// Children lists the entries directly below e that have a node.
	Children(e entry.Entry) []entry.Entry
	Siblings(e entry.Entry) []entry.Entry
	FindNode(e entry.Entry) (*Node[T], bool)
	RootNodes() []*Node[T]
	// AllEntries lists the entries holding a value, parents first.
	AllEntries() []entry.Entry
	Walk(fn func(node *Node[T]))
	IsEmpty() bool
	Len() int
}

// Node is one entry of a HashEntryTree. A node without a value exists only
// to hold children.
type Node[T any] struct {
	entry    entry.Entry
	value    T
	hasValue bool
	children *linkedhashmap.Map
}

func newNode[T any](e entry.Entry) *Node[T] {
	return &Node[T]{entry: e, children: linkedhashmap.New()}
}

func (n *Node[T]) Entry() entry.Entry { return n.entry }
func (n *Node[T]) HasValue() bool     { return n.hasValue }

func (n *Node[T]) Value() (T, bool) {
	return n.value, n.hasValue
}

func (n *Node[T]) Children() []entry.Entry {
	keys := n.children.Keys()
	out := make([]entry.Entry, len(keys))
	for i, k := range keys {
		out[i] = k.(entry.Entry)
	}
	return out
}

func (n *Node[T]) ChildNodes() []*Node[T] {
	return nodesOf[T](n.children)
}

func (n *Node[T]) child(e entry.Entry, create bool) *Node[T] {
	if found, ok := n.children.Get(e); ok {
		return found.(*Node[T])
	}
	if !create {
		return nil
	}
	c := newNode[T](e)
	n.children.Put(e, c)
	return c
}

func (n *Node[T]) isEmpty() bool {
	return !n.hasValue && n.children.Empty()
}

func (n *Node[T]) walk(fn func(node *Node[T])) {
	fn(n)
	for _, c := range n.ChildNodes() {
		c.walk(fn)
	}
}

func nodesOf[T any](m *linkedhashmap.Map) []*Node[T] {
	values := m.Values()
	out := make([]*Node[T], len(values))
	for i, v := range values {
		out[i] = v.(*Node[T])
	}
	return out
}

// HashEntryTree is the in-memory EntryTree. Nodes keep insertion order and
// empty nodes are pruned as soon as their last value goes away.
type HashEntryTree[T any] struct {
	roots *linkedhashmap.Map
}

func NewHashEntryTree[T any]() *HashEntryTree[T] {
	return &HashEntryTree[T]{roots: linkedhashmap.New()}
}

// CopyTree returns a HashEntryTree holding the same values as tree.
func CopyTree[T any](tree EntryTree[T]) *HashEntryTree[T] {
	out := NewHashEntryTree[T]()
	tree.Walk(func(node *Node[T]) {
		if value, ok := node.Value(); ok {
			out.Insert(node.Entry(), value)
		}
	})
	return out
}

func (t *HashEntryTree[T]) path(e entry.Entry, create bool) []*Node[T] {
	ancestry := entry.Ancestry(e)
	if len(ancestry) == 0 {
		return nil
	}
	var node *Node[T]
	if found, ok := t.roots.Get(ancestry[0]); ok {
		node = found.(*Node[T])
	} else if create {
		node = newNode[T](ancestry[0])
		t.roots.Put(ancestry[0], node)
	} else {
		return nil
	}

	path := make([]*Node[T], 0, len(ancestry))
	path = append(path, node)
	for _, ancestor := range ancestry[1:] {
		node = node.child(ancestor, create)
		if node == nil {
			return nil
		}
		path = append(path, node)
	}
	return path
}

func (t *HashEntryTree[T]) pruneAlong(path []*Node[T]) {
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		if !node.isEmpty() {
			return
		}
		if i > 0 {
			path[i-1].children.Remove(node.entry)
		} else {
			t.roots.Remove(node.entry)
		}
	}
}

func (t *HashEntryTree[T]) Insert(e entry.Entry, value T) {
	path := t.path(e, true)
	leaf := path[len(path)-1]
	leaf.value = value
	leaf.hasValue = true
}

func (t *HashEntryTree[T]) Remove(e entry.Entry) (T, bool) {
	var zero T
	path := t.path(e, false)
	if len(path) == 0 {
		return zero, false
	}
	leaf := path[len(path)-1]
	value, had := leaf.value, leaf.hasValue
	leaf.value, leaf.hasValue = zero, false
	t.pruneAlong(path)
	return value, had
}

func (t *HashEntryTree[T]) FindNode(e entry.Entry) (*Node[T], bool) {
	path := t.path(e, false)
	if len(path) == 0 {
		return nil, false
	}
	return path[len(path)-1], true
}

func (t *HashEntryTree[T]) Get(e entry.Entry) (T, bool) {
	node, ok := t.FindNode(e)
	if !ok {
		var zero T
		return zero, false
	}
	return node.Value()
}

func (t *HashEntryTree[T]) Contains(e entry.Entry) bool {
	_, ok := t.Get(e)
	return ok
}

func (t *HashEntryTree[T]) Children(e entry.Entry) []entry.Entry {
	node, ok := t.FindNode(e)
	if !ok {
		return nil
	}
	return node.Children()
}

func (t *HashEntryTree[T]) Siblings(e entry.Entry) []entry.Entry {
	var generation []entry.Entry
	if parent := e.Parent(); parent != nil {
		generation = t.Children(parent)
	} else {
		for _, root := range t.RootNodes() {
			generation = append(generation, root.Entry())
		}
	}
	siblings := make([]entry.Entry, 0, len(generation))
	for _, s := range generation {
		if s != e {
			siblings = append(siblings, s)
		}
	}
	return siblings
}

func (t *HashEntryTree[T]) RootNodes() []*Node[T] {
	return nodesOf[T](t.roots)
}

func (t *HashEntryTree[T]) Walk(fn func(node *Node[T])) {
	for _, root := range t.RootNodes() {
		root.walk(fn)
	}
}

func (t *HashEntryTree[T]) AllEntries() []entry.Entry {
	var out []entry.Entry
	t.Walk(func(node *Node[T]) {
		if node.HasValue() {
			out = append(out, node.Entry())
		}
	})
	return out
}

func (t *HashEntryTree[T]) IsEmpty() bool { return t.roots.Empty() }

func (t *HashEntryTree[T]) Len() int {
	n := 0
	t.Walk(func(node *Node[T]) {
		if node.HasValue() {
			n++
		}
	})
	return n
}
