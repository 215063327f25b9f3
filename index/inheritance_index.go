package index

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/swind/go-jdeobf/entry"
)

type Relation int

const (
	Unrelated Relation = iota
	Related
	// Unknown means the hierarchy above some ancestor is not indexed, so
	// the absence of a relation cannot be proven.
	Unknown
)

func (r Relation) String() string {
	switch r {
	case Related:
		return "related"
	case Unknown:
		return "unknown"
	}
	return "unrelated"
}

// InheritanceIndex records superclass and interface edges between indexed
// classes. Edges to java/lang/Object are not recorded.
type InheritanceIndex struct {
	BaseIndexer

	entryIndex *EntryIndex
	parents    *setMultimap[entry.ClassEntry, entry.ClassEntry]
	children   *setMultimap[entry.ClassEntry, entry.ClassEntry]
}

func NewInheritanceIndex(entryIndex *EntryIndex) *InheritanceIndex {
	return &InheritanceIndex{
		entryIndex: entryIndex,
		parents:    newSetMultimap[entry.ClassEntry, entry.ClassEntry](),
		children:   newSetMultimap[entry.ClassEntry, entry.ClassEntry](),
	}
}

func (i *InheritanceIndex) IndexClass(def entry.ClassDef) error {
	for _, iface := range def.Interfaces {
		if iface == def.Entry {
			return fmt.Errorf("%w: %s", ErrSelfInterface, def.Entry)
		}
	}
	if def.HasSuperClass() {
		i.indexParent(def.Entry, def.SuperClass)
	}
	for _, iface := range def.Interfaces {
		i.indexParent(def.Entry, iface)
	}
	return nil
}

func (i *InheritanceIndex) indexParent(child, parent entry.ClassEntry) {
	if parent == entry.Object {
		return
	}
	i.parents.Put(child, parent)
	i.children.Put(parent, child)
}

// Parents returns the direct superclass and interfaces of c, sorted by name.
func (i *InheritanceIndex) Parents(c entry.ClassEntry) []entry.ClassEntry {
	return sortClasses(i.parents.Get(c))
}

func (i *InheritanceIndex) Children(c entry.ClassEntry) []entry.ClassEntry {
	return sortClasses(i.children.Get(c))
}

func sortClasses(classes []entry.ClassEntry) []entry.ClassEntry {
	sort.Slice(classes, func(a, b int) bool {
		return classes[a].FullName() < classes[b].FullName()
	})
	return classes
}

func (i *InheritanceIndex) IsParent(c entry.ClassEntry) bool {
	return i.children.ContainsKey(c)
}

func (i *InheritanceIndex) HasParents(c entry.ClassEntry) bool {
	return i.parents.ContainsKey(c)
}

// Descendants returns every class below c. The order is unspecified.
func (i *InheritanceIndex) Descendants(c entry.ClassEntry) []entry.ClassEntry {
	return i.closure(c, i.children)
}

// Ancestors returns every class above c that appears in the graph. The
// order is unspecified.
func (i *InheritanceIndex) Ancestors(c entry.ClassEntry) []entry.ClassEntry {
	return i.closure(c, i.parents)
}

func (i *InheritanceIndex) closure(start entry.ClassEntry, edges *setMultimap[entry.ClassEntry, entry.ClassEntry]) []entry.ClassEntry {
	seen := newOrderedSet[entry.ClassEntry]()
	stack := arraystack.New()
	stack.Push(start)
	for !stack.Empty() {
		top, _ := stack.Pop()
		for _, next := range sortClasses(edges.Get(top.(entry.ClassEntry))) {
			if next == start || seen.Contains(next) {
				continue
			}
			seen.Add(next)
			stack.Push(next)
		}
	}
	return seen.Values()
}

// ComputeClassRelation tells whether candidate is provably an ancestor of c.
func (i *InheritanceIndex) ComputeClassRelation(c, candidate entry.ClassEntry) Relation {
	if candidate == entry.Object {
		return Related
	}
	if !i.entryIndex.HasClass(c) {
		return Unknown
	}
	ancestors := i.Ancestors(c)
	for _, ancestor := range ancestors {
		if ancestor == candidate {
			return Related
		}
	}
	for _, ancestor := range ancestors {
		if !i.entryIndex.HasClass(ancestor) {
			return Unknown
		}
	}
	return Unrelated
}
