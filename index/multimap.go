package index

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// setMultimap maps a key to a set of values; adding a value twice keeps one.
type setMultimap[K comparable, V comparable] struct {
	m map[K]*hashset.Set
}

func newSetMultimap[K comparable, V comparable]() *setMultimap[K, V] {
	return &setMultimap[K, V]{m: make(map[K]*hashset.Set)}
}

func (mm *setMultimap[K, V]) Put(key K, value V) {
	set, ok := mm.m[key]
	if !ok {
		set = hashset.New()
		mm.m[key] = set
	}
	set.Add(value)
}

func (mm *setMultimap[K, V]) Get(key K) []V {
	set, ok := mm.m[key]
	if !ok {
		return nil
	}
	return valuesOf[V](set.Values())
}

func (mm *setMultimap[K, V]) Contains(key K, value V) bool {
	set, ok := mm.m[key]
	return ok && set.Contains(value)
}

func (mm *setMultimap[K, V]) ContainsKey(key K) bool {
	set, ok := mm.m[key]
	return ok && !set.Empty()
}

func (mm *setMultimap[K, V]) Count(key K) int {
	if set, ok := mm.m[key]; ok {
		return set.Size()
	}
	return 0
}

func (mm *setMultimap[K, V]) Keys() []K {
	keys := make([]K, 0, len(mm.m))
	for k := range mm.m {
		keys = append(keys, k)
	}
	return keys
}

func (mm *setMultimap[K, V]) Each(fn func(key K, value V)) {
	for k, set := range mm.m {
		for _, v := range set.Values() {
			fn(k, v.(V))
		}
	}
}

func (mm *setMultimap[K, V]) Len() int {
	n := 0
	for _, set := range mm.m {
		n += set.Size()
	}
	return n
}

// listMultimap maps a key to an insertion ordered list of values and keeps
// duplicates.
type listMultimap[K comparable, V any] struct {
	m map[K]*arraylist.List
}

func newListMultimap[K comparable, V any]() *listMultimap[K, V] {
	return &listMultimap[K, V]{m: make(map[K]*arraylist.List)}
}

func (mm *listMultimap[K, V]) Put(key K, value V) {
	list, ok := mm.m[key]
	if !ok {
		list = arraylist.New()
		mm.m[key] = list
	}
	list.Add(value)
}

func (mm *listMultimap[K, V]) Get(key K) []V {
	list, ok := mm.m[key]
	if !ok {
		return nil
	}
	return valuesOf[V](list.Values())
}

func (mm *listMultimap[K, V]) Len() int {
	n := 0
	for _, list := range mm.m {
		n += list.Size()
	}
	return n
}

// orderedSet keeps the first-seen order of its members.
type orderedSet[V comparable] struct {
	set *linkedhashset.Set
}

func newOrderedSet[V comparable](values ...V) *orderedSet[V] {
	s := &orderedSet[V]{set: linkedhashset.New()}
	for _, v := range values {
		s.set.Add(v)
	}
	return s
}

func (s *orderedSet[V]) Add(values ...V) {
	for _, v := range values {
		s.set.Add(v)
	}
}

func (s *orderedSet[V]) Contains(v V) bool { return s.set.Contains(v) }
func (s *orderedSet[V]) Len() int          { return s.set.Size() }
func (s *orderedSet[V]) Values() []V       { return valuesOf[V](s.set.Values()) }

func valuesOf[V any](items []interface{}) []V {
	values := make([]V, len(items))
	for i, item := range items {
		values[i] = item.(V)
	}
	return values
}
