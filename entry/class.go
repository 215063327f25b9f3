package entry

import "strings"

const ObjectName = "java/lang/Object"

// ClassEntry identifies a class by its internal name, e.g. "a/b/C$D".
type ClassEntry struct {
	name string
}

func NewClass(name string) ClassEntry {
	return ClassEntry{name: name}
}

var Object = NewClass(ObjectName)

func (c ClassEntry) Kind() Kind { return KindClass }

func (c ClassEntry) IsZero() bool { return c.name == "" }

func (c ClassEntry) FullName() string { return c.name }

func (c ClassEntry) Name() string {
	if i := c.innerIndex(); i >= 0 {
		return c.name[i+1:]
	}
	return c.name
}

// SimpleName drops the package of a top-level class.
func (c ClassEntry) SimpleName() string {
	name := c.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (c ClassEntry) innerIndex() int {
	slash := strings.LastIndexByte(c.name, '/')
	i := strings.LastIndexByte(c.name, '$')
	// "$" as first or last character of the simple name is part of the name.
	if i <= slash+1 || i == len(c.name)-1 {
		return -1
	}
	return i
}

func (c ClassEntry) IsInnerClass() bool { return c.innerIndex() >= 0 }

func (c ClassEntry) OuterClass() (ClassEntry, bool) {
	if i := c.innerIndex(); i >= 0 {
		return NewClass(c.name[:i]), true
	}
	return ClassEntry{}, false
}

func (c ClassEntry) OutermostClass() ClassEntry {
	cur := c
	for {
		outer, ok := cur.OuterClass()
		if !ok {
			return cur
		}
		cur = outer
	}
}

// Package returns the package of the outermost class, "" for the default
// package.
func (c ClassEntry) Package() string {
	return PackageOf(c.OutermostClass().name)
}

func PackageOf(className string) string {
	if i := strings.LastIndexByte(className, '/'); i >= 0 {
		return className[:i]
	}
	return ""
}

// IsJre reports whether the class belongs to the Java runtime.
func (c ClassEntry) IsJre() bool {
	pkg := c.Package()
	return pkg == "java" || pkg == "javax" ||
		strings.HasPrefix(pkg, "java/") || strings.HasPrefix(pkg, "javax/")
}

func (c ClassEntry) Parent() Entry {
	if outer, ok := c.OuterClass(); ok {
		return outer
	}
	return nil
}

func (c ClassEntry) WithName(name string) Entry {
	if outer, ok := c.OuterClass(); ok {
		return NewClass(outer.name + "$" + name)
	}
	return NewClass(name)
}

func (c ClassEntry) WithParent(parent Entry) Entry {
	outer, ok := parent.(ClassEntry)
	if !ok {
		return c
	}
	return NewClass(outer.name + "$" + c.Name())
}

func (c ClassEntry) ContainingClass() ClassEntry { return c }

func (c ClassEntry) CanConflictWith(other Entry) bool {
	return other != nil && other.Kind() == KindClass
}

func (c ClassEntry) CanShadow(Entry) bool { return false }

func (c ClassEntry) String() string { return c.name }
