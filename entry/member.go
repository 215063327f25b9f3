package entry

import "strconv"

type FieldEntry struct {
	owner ClassEntry
	name  string
	desc  TypeDescriptor
}

func NewField(owner ClassEntry, name string, desc TypeDescriptor) FieldEntry {
	return FieldEntry{owner: owner, name: name, desc: desc}
}

func (f FieldEntry) Kind() Kind                  { return KindField }
func (f FieldEntry) Owner() ClassEntry           { return f.owner }
func (f FieldEntry) Name() string                { return f.name }
func (f FieldEntry) Desc() TypeDescriptor        { return f.desc }
func (f FieldEntry) Parent() Entry               { return f.owner }
func (f FieldEntry) ContainingClass() ClassEntry { return f.owner }

func (f FieldEntry) FullName() string {
	return f.owner.FullName() + "." + f.name
}

func (f FieldEntry) WithName(name string) Entry {
	return NewField(f.owner, name, f.desc)
}

func (f FieldEntry) WithParent(parent Entry) Entry {
	owner, ok := parent.(ClassEntry)
	if !ok {
		return f
	}
	return NewField(owner, f.name, f.desc)
}

// CanConflictWith: two fields clash only when declared by the same class;
// a same-named field in another class hides rather than clashes.
func (f FieldEntry) CanConflictWith(other Entry) bool {
	o, ok := other.(FieldEntry)
	return ok && o.owner == f.owner
}

func (f FieldEntry) CanShadow(other Entry) bool {
	_, ok := other.(FieldEntry)
	return ok
}

func (f FieldEntry) String() string {
	return f.owner.FullName() + "." + f.name + ":" + f.desc.String()
}

type MethodEntry struct {
	owner ClassEntry
	name  string
	desc  MethodDescriptor
}

func NewMethod(owner ClassEntry, name string, desc MethodDescriptor) MethodEntry {
	return MethodEntry{owner: owner, name: name, desc: desc}
}

func (m MethodEntry) Kind() Kind                  { return KindMethod }
func (m MethodEntry) Owner() ClassEntry           { return m.owner }
func (m MethodEntry) Name() string                { return m.name }
func (m MethodEntry) Desc() MethodDescriptor      { return m.desc }
func (m MethodEntry) Parent() Entry               { return m.owner }
func (m MethodEntry) ContainingClass() ClassEntry { return m.owner }

func (m MethodEntry) IsZero() bool { return m.owner.IsZero() && m.name == "" }

func (m MethodEntry) IsConstructor() bool {
	return m.name == "<init>" || m.name == "<clinit>"
}

func (m MethodEntry) FullName() string {
	return m.owner.FullName() + "." + m.name
}

func (m MethodEntry) WithName(name string) Entry {
	return NewMethod(m.owner, name, m.desc)
}

func (m MethodEntry) WithOwner(owner ClassEntry) MethodEntry {
	return NewMethod(owner, m.name, m.desc)
}

func (m MethodEntry) WithParent(parent Entry) Entry {
	owner, ok := parent.(ClassEntry)
	if !ok {
		return m
	}
	return m.WithOwner(owner)
}

func (m MethodEntry) CanConflictWith(other Entry) bool {
	o, ok := other.(MethodEntry)
	return ok && m.desc.CanConflictWith(o.desc)
}

func (m MethodEntry) CanShadow(other Entry) bool {
	o, ok := other.(MethodEntry)
	return ok && m.desc.CanConflictWith(o.desc)
}

func (m MethodEntry) String() string {
	return m.owner.FullName() + "." + m.name + m.desc.String()
}

// LocalVariableEntry is a local variable slot of a method. Parameters are the
// slots covered by the method's arguments. The variable's name is not part of
// its identity; names are stored as mappings.
type LocalVariableEntry struct {
	method MethodEntry
	index  int
}

func NewLocalVariable(method MethodEntry, index int) LocalVariableEntry {
	return LocalVariableEntry{method: method, index: index}
}

func (l LocalVariableEntry) Kind() Kind                  { return KindLocalVariable }
func (l LocalVariableEntry) Method() MethodEntry         { return l.method }
func (l LocalVariableEntry) Index() int                  { return l.index }
func (l LocalVariableEntry) Name() string                { return "" }
func (l LocalVariableEntry) Parent() Entry               { return l.method }
func (l LocalVariableEntry) ContainingClass() ClassEntry { return l.method.owner }
func (l LocalVariableEntry) WithName(string) Entry       { return l }

func (l LocalVariableEntry) FullName() string {
	return l.method.FullName() + "#" + strconv.Itoa(l.index)
}

func (l LocalVariableEntry) WithParent(parent Entry) Entry {
	method, ok := parent.(MethodEntry)
	if !ok {
		return l
	}
	return NewLocalVariable(method, l.index)
}

func (l LocalVariableEntry) CanConflictWith(other Entry) bool {
	o, ok := other.(LocalVariableEntry)
	return ok && o.method == l.method
}

func (l LocalVariableEntry) CanShadow(Entry) bool { return false }

func (l LocalVariableEntry) String() string {
	return l.method.String() + "#" + strconv.Itoa(l.index)
}
