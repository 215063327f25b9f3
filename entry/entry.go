// Package entry models the structural references the indices are keyed by:
// classes, fields, methods and local variables of a compiled program.
//
// Every entry kind is a comparable value type, so entries can be used
// directly as map keys and two entries built from the same owner, name and
// descriptor are equal.
package entry

import (
	"fmt"
)

type Kind int

const (
	KindClass Kind = iota
	KindField
	KindMethod
	KindLocalVariable
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindLocalVariable:
		return "local"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entry is implemented by ClassEntry, FieldEntry, MethodEntry and
// LocalVariableEntry. Every non-class entry has exactly one parent and its
// ancestry chain ends at a ClassEntry.
type Entry interface {
	Kind() Kind

	// Name is the simple name of the entry. For top-level classes it is the
	// full internal name, for inner classes the part after the last '$'.
	Name() string
	FullName() string

	// Parent returns nil for top-level classes.
	Parent() Entry
	WithName(name string) Entry
	WithParent(parent Entry) Entry
	ContainingClass() ClassEntry

	// CanConflictWith reports whether the two entries share a name space in
	// which equal names are a compile error.
	CanConflictWith(other Entry) bool
	// CanShadow reports whether the entry hides other when both are visible
	// from the same scope.
	CanShadow(other Entry) bool

	String() string
}

// Ancestry returns the chain from the outermost class down to e, inclusive.
func Ancestry(e Entry) []Entry {
	var chain []Entry
	for cur := e; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// ReplaceAncestor rebuilds e with target replaced by replacement anywhere in
// its ancestry. Entries that do not have target as an ancestor are returned
// unchanged.
func ReplaceAncestor(e, target, replacement Entry) Entry {
	if e == target {
		return replacement
	}
	parent := e.Parent()
	if parent == nil {
		return e
	}
	replaced := ReplaceAncestor(parent, target, replacement)
	if replaced == parent {
		return e
	}
	return e.WithParent(replaced)
}

// FindMethod returns the closest method in the ancestry of e, e included.
func FindMethod(e Entry) (MethodEntry, bool) {
	for cur := e; cur != nil; cur = cur.Parent() {
		if m, ok := cur.(MethodEntry); ok {
			return m, true
		}
	}
	return MethodEntry{}, false
}

// ClassChild returns the entry in the ancestry of e whose parent is a class,
// i.e. the member through which e is inherited. Classes have no class child.
func ClassChild(e Entry) (Entry, bool) {
	if e == nil || e.Kind() == KindClass {
		return nil, false
	}
	for cur := e; cur != nil; cur = cur.Parent() {
		parent := cur.Parent()
		if parent != nil && parent.Kind() == KindClass {
			return cur, true
		}
	}
	return nil, false
}

// IsAncestor reports whether ancestor appears in the ancestry of e.
func IsAncestor(e, ancestor Entry) bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}
