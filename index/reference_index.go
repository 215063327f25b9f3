package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// ReferenceIndex records the references made by method bodies and by
// descriptors. After ProcessIndex every key and reference is expressed in
// terms of the entry CLOSEST resolution picks for it.
type ReferenceIndex struct {
	BaseIndexer

	methodReferences *setMultimap[entry.MethodEntry, entry.MethodEntry]

	referencesToMethods *setMultimap[entry.MethodEntry, EntryReference]
	referencesToClasses *setMultimap[entry.ClassEntry, EntryReference]
	referencesToFields  *setMultimap[entry.FieldEntry, EntryReference]

	fieldTypeReferences  *setMultimap[entry.ClassEntry, EntryReference]
	methodTypeReferences *setMultimap[entry.ClassEntry, EntryReference]
}

func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{
		methodReferences:     newSetMultimap[entry.MethodEntry, entry.MethodEntry](),
		referencesToMethods:  newSetMultimap[entry.MethodEntry, EntryReference](),
		referencesToClasses:  newSetMultimap[entry.ClassEntry, EntryReference](),
		referencesToFields:   newSetMultimap[entry.FieldEntry, EntryReference](),
		fieldTypeReferences:  newSetMultimap[entry.ClassEntry, EntryReference](),
		methodTypeReferences: newSetMultimap[entry.ClassEntry, EntryReference](),
	}
}

func (i *ReferenceIndex) IndexField(def entry.FieldDef) {
	i.indexTypeDescriptor(i.fieldTypeReferences, def.Entry, def.Entry.Desc())
}

func (i *ReferenceIndex) IndexMethod(def entry.MethodDef) {
	i.indexMethodDescriptor(def.Entry, def.Entry.Desc())
}

func (i *ReferenceIndex) indexMethodDescriptor(method entry.MethodEntry, desc entry.MethodDescriptor) {
	for _, arg := range desc.Args() {
		i.indexTypeDescriptor(i.methodTypeReferences, method, arg)
	}
	i.indexTypeDescriptor(i.methodTypeReferences, method, desc.Return())
}

func (i *ReferenceIndex) indexTypeDescriptor(refs *setMultimap[entry.ClassEntry, EntryReference], context entry.Entry, desc entry.TypeDescriptor) {
	class, ok := desc.ClassType()
	if !ok {
		return
	}
	refs.Put(class, EntryReference{Entry: class, Context: context})
}

func (i *ReferenceIndex) IndexMethodReference(caller entry.MethodDef, ref entry.MethodEntry, target ReferenceTargetType) {
	i.referencesToMethods.Put(ref, EntryReference{Entry: ref, Context: caller.Entry, TargetType: target})
	i.methodReferences.Put(caller.Entry, ref)

	if ref.IsConstructor() {
		class := ref.Owner()
		i.referencesToClasses.Put(class, EntryReference{Entry: class, Context: caller.Entry, TargetType: target})
	}
}

func (i *ReferenceIndex) IndexFieldReference(caller entry.MethodDef, ref entry.FieldEntry, target ReferenceTargetType) {
	i.referencesToFields.Put(ref, EntryReference{Entry: ref, Context: caller.Entry, TargetType: target})
}

func (i *ReferenceIndex) IndexClassReference(caller entry.MethodDef, ref entry.ClassEntry, target ReferenceTargetType) {
	i.referencesToClasses.Put(ref, EntryReference{Entry: ref, Context: caller.Entry, TargetType: target})
}

// IndexLambda records the implementation handle as a plain reference and the
// functional descriptors as type references of the caller.
func (i *ReferenceIndex) IndexLambda(caller entry.MethodDef, lambda Lambda, target ReferenceTargetType) {
	switch impl := lambda.Impl.(type) {
	case entry.MethodEntry:
		i.IndexMethodReference(caller, impl, target)
	case entry.FieldEntry:
		i.IndexFieldReference(caller, impl, target)
	}
	i.indexMethodDescriptor(caller.Entry, lambda.InvokedType)
	i.indexMethodDescriptor(caller.Entry, lambda.SamMethodType)
	i.indexMethodDescriptor(caller.Entry, lambda.InstantiatedMethodType)
}

func (i *ReferenceIndex) ProcessIndex(index *JarIndex) {
	resolver := index.Resolver()

	methodReferences := newSetMultimap[entry.MethodEntry, entry.MethodEntry]()
	i.methodReferences.Each(func(caller, ref entry.MethodEntry) {
		methodReferences.Put(resolveFirst(resolver, caller), resolveFirst(resolver, ref))
	})
	i.methodReferences = methodReferences

	i.referencesToMethods = remapReferencesTo(resolver, i.referencesToMethods)
	i.referencesToClasses = remapReferencesTo(resolver, i.referencesToClasses)
	i.referencesToFields = remapReferencesTo(resolver, i.referencesToFields)
	i.fieldTypeReferences = remapReferencesTo(resolver, i.fieldTypeReferences)
	i.methodTypeReferences = remapReferencesTo(resolver, i.methodTypeReferences)
}

// keyEntry is an entry type usable as a map key.
type keyEntry interface {
	comparable
	entry.Entry
}

func remapReferencesTo[K keyEntry](resolver *EntryResolver, refs *setMultimap[K, EntryReference]) *setMultimap[K, EntryReference] {
	remapped := newSetMultimap[K, EntryReference]()
	refs.Each(func(key K, ref EntryReference) {
		remapped.Put(resolveFirst(resolver, key), resolver.ResolveFirstReference(ref, ResolveClosest))
	})
	return remapped
}

// resolveFirst resolves with CLOSEST and keeps the static type of e.
func resolveFirst[E entry.Entry](resolver *EntryResolver, e E) E {
	if resolved, ok := resolver.ResolveFirstEntry(e, ResolveClosest).(E); ok {
		return resolved
	}
	return e
}

// MethodsReferencedBy lists the methods called from caller's body.
func (i *ReferenceIndex) MethodsReferencedBy(caller entry.MethodEntry) []entry.MethodEntry {
	return i.methodReferences.Get(caller)
}

func (i *ReferenceIndex) ReferencesToMethod(m entry.MethodEntry) []EntryReference {
	return i.referencesToMethods.Get(m)
}

func (i *ReferenceIndex) ReferencesToClass(c entry.ClassEntry) []EntryReference {
	return i.referencesToClasses.Get(c)
}

func (i *ReferenceIndex) ReferencesToField(f entry.FieldEntry) []EntryReference {
	return i.referencesToFields.Get(f)
}

// FieldTypeReferencesToClass lists fields whose type mentions c.
func (i *ReferenceIndex) FieldTypeReferencesToClass(c entry.ClassEntry) []EntryReference {
	return i.fieldTypeReferences.Get(c)
}

// MethodTypeReferencesToClass lists methods whose descriptor mentions c.
func (i *ReferenceIndex) MethodTypeReferencesToClass(c entry.ClassEntry) []EntryReference {
	return i.methodTypeReferences.Get(c)
}

func (i *ReferenceIndex) Len() int {
	return i.referencesToMethods.Len() + i.referencesToClasses.Len() + i.referencesToFields.Len()
}
