package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// EntryIndex stores the definition and access flags of every indexed class
// and member. Indexing an entry twice replaces the earlier definition.
type EntryIndex struct {
	BaseIndexer

	classes map[entry.ClassEntry]entry.ClassDef
	fields  map[entry.FieldEntry]entry.FieldDef
	methods map[entry.MethodEntry]entry.MethodDef

	classOrder  []entry.ClassEntry
	fieldOrder  []entry.FieldEntry
	methodOrder []entry.MethodEntry
}

func NewEntryIndex() *EntryIndex {
	return &EntryIndex{
		classes: make(map[entry.ClassEntry]entry.ClassDef),
		fields:  make(map[entry.FieldEntry]entry.FieldDef),
		methods: make(map[entry.MethodEntry]entry.MethodDef),
	}
}

func (i *EntryIndex) IndexClass(def entry.ClassDef) error {
	if _, ok := i.classes[def.Entry]; !ok {
		i.classOrder = append(i.classOrder, def.Entry)
	}
	i.classes[def.Entry] = def
	return nil
}

func (i *EntryIndex) IndexField(def entry.FieldDef) {
	if _, ok := i.fields[def.Entry]; !ok {
		i.fieldOrder = append(i.fieldOrder, def.Entry)
	}
	i.fields[def.Entry] = def
}

func (i *EntryIndex) IndexMethod(def entry.MethodDef) {
	if _, ok := i.methods[def.Entry]; !ok {
		i.methodOrder = append(i.methodOrder, def.Entry)
	}
	i.methods[def.Entry] = def
}

func (i *EntryIndex) HasClass(c entry.ClassEntry) bool {
	_, ok := i.classes[c]
	return ok
}

func (i *EntryIndex) HasField(f entry.FieldEntry) bool {
	_, ok := i.fields[f]
	return ok
}

func (i *EntryIndex) HasMethod(m entry.MethodEntry) bool {
	_, ok := i.methods[m]
	return ok
}

// HasParameter reports whether local names an argument slot of an indexed
// method.
func (i *EntryIndex) HasParameter(local entry.LocalVariableEntry) bool {
	def, ok := i.methods[local.Method()]
	if !ok {
		return false
	}
	for _, p := range def.Parameters() {
		if p == local {
			return true
		}
	}
	return false
}

func (i *EntryIndex) HasEntry(e entry.Entry) bool {
	_, ok := i.EntryAccess(e)
	return ok
}

func (i *EntryIndex) ClassAccess(c entry.ClassEntry) (entry.AccessFlags, bool) {
	def, ok := i.classes[c]
	return def.Access, ok
}

func (i *EntryIndex) FieldAccess(f entry.FieldEntry) (entry.AccessFlags, bool) {
	def, ok := i.fields[f]
	return def.Access, ok
}

func (i *EntryIndex) MethodAccess(m entry.MethodEntry) (entry.AccessFlags, bool) {
	def, ok := i.methods[m]
	return def.Access, ok
}

// ParameterAccess reports the access of the method owning the parameter.
func (i *EntryIndex) ParameterAccess(local entry.LocalVariableEntry) (entry.AccessFlags, bool) {
	if !i.HasParameter(local) {
		return 0, false
	}
	return i.MethodAccess(local.Method())
}

func (i *EntryIndex) EntryAccess(e entry.Entry) (entry.AccessFlags, bool) {
	switch v := e.(type) {
	case entry.ClassEntry:
		return i.ClassAccess(v)
	case entry.FieldEntry:
		return i.FieldAccess(v)
	case entry.MethodEntry:
		return i.MethodAccess(v)
	case entry.LocalVariableEntry:
		return i.ParameterAccess(v)
	}
	return 0, false
}

// Definition returns the class as it was indexed.
func (i *EntryIndex) Definition(c entry.ClassEntry) (entry.ClassDef, bool) {
	def, ok := i.classes[c]
	return def, ok
}

func (i *EntryIndex) FieldDefinition(f entry.FieldEntry) (entry.FieldDef, bool) {
	def, ok := i.fields[f]
	return def, ok
}

func (i *EntryIndex) MethodDefinition(m entry.MethodEntry) (entry.MethodDef, bool) {
	def, ok := i.methods[m]
	return def, ok
}

// ValidateParameterIndex reports whether index can be a parameter slot of
// m: slot 0 holds "this" in instance methods.
func (i *EntryIndex) ValidateParameterIndex(local entry.LocalVariableEntry) bool {
	access, ok := i.MethodAccess(local.Method())
	if !ok {
		return false
	}
	if access.IsStatic() {
		return local.Index() >= 0
	}
	return local.Index() >= 1
}

func (i *EntryIndex) Classes() []entry.ClassEntry {
	return append([]entry.ClassEntry(nil), i.classOrder...)
}

func (i *EntryIndex) Fields() []entry.FieldEntry {
	return append([]entry.FieldEntry(nil), i.fieldOrder...)
}

func (i *EntryIndex) Methods() []entry.MethodEntry {
	return append([]entry.MethodEntry(nil), i.methodOrder...)
}
