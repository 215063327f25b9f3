package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// PackageVisibilityIndex groups classes that have to stay in one package:
// package-private and protected accesses only link when both sides share a
// package, so moving one class of a partition alone breaks the program.
type PackageVisibilityIndex struct {
	BaseIndexer

	connections *setMultimap[entry.ClassEntry, entry.ClassEntry]
	partitions  [][]entry.ClassEntry
	partitionOf map[entry.ClassEntry]int
}

func NewPackageVisibilityIndex() *PackageVisibilityIndex {
	return &PackageVisibilityIndex{
		connections: newSetMultimap[entry.ClassEntry, entry.ClassEntry](),
		partitionOf: make(map[entry.ClassEntry]int),
	}
}

func requiresSamePackage(access entry.AccessFlags, ref EntryReference, inheritance *InheritanceIndex) bool {
	if access.IsPublic() {
		return false
	}
	if !access.IsProtected() {
		return true
	}

	context := ref.Context.ContainingClass()
	referenced := ref.Entry.ContainingClass()
	if !containsClass(inheritance.Ancestors(context), referenced) {
		return true
	}
	switch ref.TargetType.Kind {
	case TargetUninitialized:
		return true
	case TargetClassType:
		target := ref.TargetType.Class
		return target != context && !containsClass(inheritance.Ancestors(target), context)
	}
	return false
}

func containsClass(classes []entry.ClassEntry, c entry.ClassEntry) bool {
	for _, other := range classes {
		if other == c {
			return true
		}
	}
	return false
}

func (i *PackageVisibilityIndex) addConnection(a, b entry.ClassEntry) {
	if a == b {
		return
	}
	i.connections.Put(a, b)
	i.connections.Put(b, a)
}

func (i *PackageVisibilityIndex) ProcessIndex(index *JarIndex) {
	entries := index.EntryIndex()
	references := index.ReferenceIndex()
	inheritance := index.InheritanceIndex()

	for _, f := range entries.Fields() {
		access, _ := entries.FieldAccess(f)
		if access.IsPublic() || access.IsPrivate() {
			continue
		}
		for _, ref := range references.ReferencesToField(f) {
			if requiresSamePackage(access, ref, inheritance) {
				i.addConnection(ref.Entry.ContainingClass(), ref.Context.ContainingClass())
			}
		}
	}

	for _, m := range entries.Methods() {
		access, _ := entries.MethodAccess(m)
		if access.IsPublic() || access.IsPrivate() {
			continue
		}
		for _, ref := range references.ReferencesToMethod(m) {
			if requiresSamePackage(access, ref, inheritance) {
				i.addConnection(ref.Entry.ContainingClass(), ref.Context.ContainingClass())
			}
		}
	}

	for _, c := range entries.Classes() {
		access, _ := entries.ClassAccess(c)
		if !access.IsPublic() && !access.IsPrivate() {
			refs := append(references.FieldTypeReferencesToClass(c), references.MethodTypeReferencesToClass(c)...)
			for _, ref := range refs {
				if requiresSamePackage(access, ref, inheritance) {
					i.addConnection(ref.Entry.ContainingClass(), ref.Context.ContainingClass())
				}
			}
		}

		for _, parent := range inheritance.Parents(c) {
			parentAccess, ok := entries.ClassAccess(parent)
			if ok && !parentAccess.IsPublic() && !parentAccess.IsPrivate() {
				i.addConnection(c, parent)
			}
		}

		if outer, ok := c.OuterClass(); ok {
			i.addConnection(c, outer)
		}
	}

	i.addPartitions(entries)
}

func (i *PackageVisibilityIndex) addPartitions(entries *EntryIndex) {
	for _, c := range entries.Classes() {
		if _, done := i.partitionOf[c]; done {
			continue
		}
		id := len(i.partitions)
		partition := []entry.ClassEntry{c}
		i.partitionOf[c] = id
		for n := 0; n < len(partition); n++ {
			for _, next := range i.connections.Get(partition[n]) {
				if _, done := i.partitionOf[next]; done {
					continue
				}
				i.partitionOf[next] = id
				partition = append(partition, next)
			}
		}
		i.partitions = append(i.partitions, partition)
	}
}

// Partition returns the classes that must share c's package, c included.
func (i *PackageVisibilityIndex) Partition(c entry.ClassEntry) []entry.ClassEntry {
	id, ok := i.partitionOf[c]
	if !ok {
		return nil
	}
	return append([]entry.ClassEntry(nil), i.partitions[id]...)
}

func (i *PackageVisibilityIndex) Partitions() [][]entry.ClassEntry {
	out := make([][]entry.ClassEntry, len(i.partitions))
	for n, p := range i.partitions {
		out[n] = append([]entry.ClassEntry(nil), p...)
	}
	return out
}
