package entry

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDescriptor = errors.New("invalid descriptor")

// TypeDescriptor is a JVM field descriptor such as "I", "Ljava/lang/String;"
// or "[[J".
type TypeDescriptor struct {
	desc string
}

func NewTypeDescriptor(desc string) TypeDescriptor {
	return TypeDescriptor{desc: desc}
}

// ParseTypeDescriptor validates desc before wrapping it.
func ParseTypeDescriptor(desc string) (TypeDescriptor, error) {
	n, err := typeLength(desc, 0)
	if err != nil {
		return TypeDescriptor{}, err
	}
	if n != len(desc) {
		return TypeDescriptor{}, fmt.Errorf("%w: trailing data in %q", ErrInvalidDescriptor, desc)
	}
	return TypeDescriptor{desc: desc}, nil
}

func (t TypeDescriptor) String() string { return t.desc }

func (t TypeDescriptor) IsVoid() bool { return t.desc == "V" }

func (t TypeDescriptor) IsPrimitive() bool {
	return len(t.desc) == 1 && strings.ContainsRune("ZBCSIJFDV", rune(t.desc[0]))
}

// IsType reports whether the descriptor names a class, "Lname;".
func (t TypeDescriptor) IsType() bool {
	return len(t.desc) > 2 && t.desc[0] == 'L' && t.desc[len(t.desc)-1] == ';'
}

func (t TypeDescriptor) IsArray() bool {
	return len(t.desc) > 1 && t.desc[0] == '['
}

func (t TypeDescriptor) ArrayDimension() int {
	n := 0
	for n < len(t.desc) && t.desc[n] == '[' {
		n++
	}
	return n
}

// ArrayType strips one array dimension.
func (t TypeDescriptor) ArrayType() TypeDescriptor {
	if !t.IsArray() {
		return t
	}
	return TypeDescriptor{desc: t.desc[1:]}
}

func (t TypeDescriptor) TypeEntry() ClassEntry {
	if !t.IsType() {
		return ClassEntry{}
	}
	return NewClass(t.desc[1 : len(t.desc)-1])
}

// ClassType returns the class named by the descriptor, looking through any
// array dimensions.
func (t TypeDescriptor) ClassType() (ClassEntry, bool) {
	elem := t
	for elem.IsArray() {
		elem = elem.ArrayType()
	}
	if !elem.IsType() {
		return ClassEntry{}, false
	}
	return elem.TypeEntry(), true
}

// Size is the number of local variable slots a value of this type uses.
func (t TypeDescriptor) Size() int {
	switch t.desc {
	case "J", "D":
		return 2
	case "V":
		return 0
	}
	return 1
}

// Remap rewrites every class name in the descriptor through fn.
func (t TypeDescriptor) Remap(fn func(className string) string) TypeDescriptor {
	elem := t
	for elem.IsArray() {
		elem = elem.ArrayType()
	}
	if !elem.IsType() {
		return t
	}
	dims := t.ArrayDimension()
	return TypeDescriptor{desc: strings.Repeat("[", dims) + "L" + fn(elem.TypeEntry().FullName()) + ";"}
}

// MethodDescriptor is a JVM method descriptor such as "(ILjava/lang/String;)V".
type MethodDescriptor struct {
	desc string
}

func NewMethodDescriptor(desc string) MethodDescriptor {
	return MethodDescriptor{desc: desc}
}

func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if len(desc) < 3 || desc[0] != '(' {
		return MethodDescriptor{}, fmt.Errorf("%w: %q", ErrInvalidDescriptor, desc)
	}
	pos := 1
	for pos < len(desc) && desc[pos] != ')' {
		n, err := typeLength(desc, pos)
		if err != nil {
			return MethodDescriptor{}, err
		}
		pos = n
	}
	if pos >= len(desc) {
		return MethodDescriptor{}, fmt.Errorf("%w: unterminated arguments in %q", ErrInvalidDescriptor, desc)
	}
	end, err := typeLength(desc, pos+1)
	if err != nil || end != len(desc) {
		return MethodDescriptor{}, fmt.Errorf("%w: bad return type in %q", ErrInvalidDescriptor, desc)
	}
	return MethodDescriptor{desc: desc}, nil
}

func (m MethodDescriptor) String() string { return m.desc }

func (m MethodDescriptor) argsEnd() int {
	return strings.IndexByte(m.desc, ')')
}

// ArgsDesc is the parenthesised argument part, e.g. "(IJ)".
func (m MethodDescriptor) ArgsDesc() string {
	end := m.argsEnd()
	if end < 0 {
		return m.desc
	}
	return m.desc[:end+1]
}

func (m MethodDescriptor) Args() []TypeDescriptor {
	end := m.argsEnd()
	var args []TypeDescriptor
	for pos := 1; pos < end; {
		n, err := typeLength(m.desc, pos)
		if err != nil {
			break
		}
		args = append(args, TypeDescriptor{desc: m.desc[pos:n]})
		pos = n
	}
	return args
}

func (m MethodDescriptor) Return() TypeDescriptor {
	end := m.argsEnd()
	if end < 0 {
		return TypeDescriptor{}
	}
	return TypeDescriptor{desc: m.desc[end+1:]}
}

// ArgsSize is the number of local slots occupied by the arguments.
func (m MethodDescriptor) ArgsSize() int {
	size := 0
	for _, arg := range m.Args() {
		size += arg.Size()
	}
	return size
}

// CanConflictWith ignores the return type: two methods with the same name
// and arguments cannot coexist in source.
func (m MethodDescriptor) CanConflictWith(other MethodDescriptor) bool {
	return m.ArgsDesc() == other.ArgsDesc()
}

// ClassTypes returns every class mentioned by the descriptor.
func (m MethodDescriptor) ClassTypes() []ClassEntry {
	var types []ClassEntry
	for _, t := range append(m.Args(), m.Return()) {
		if c, ok := t.ClassType(); ok {
			types = append(types, c)
		}
	}
	return types
}

func (m MethodDescriptor) Remap(fn func(className string) string) MethodDescriptor {
	var b strings.Builder
	b.WriteByte('(')
	for _, arg := range m.Args() {
		b.WriteString(arg.Remap(fn).desc)
	}
	b.WriteByte(')')
	b.WriteString(m.Return().Remap(fn).desc)
	return MethodDescriptor{desc: b.String()}
}

// typeLength returns the index just past the type starting at pos.
func typeLength(desc string, pos int) (int, error) {
	start := pos
	for pos < len(desc) && desc[pos] == '[' {
		pos++
	}
	if pos >= len(desc) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDescriptor, desc)
	}
	switch desc[pos] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		return pos + 1, nil
	case 'V':
		if pos != start {
			return 0, fmt.Errorf("%w: void array in %q", ErrInvalidDescriptor, desc)
		}
		return pos + 1, nil
	case 'L':
		end := strings.IndexByte(desc[pos:], ';')
		if end <= 1 {
			return 0, fmt.Errorf("%w: unterminated class type in %q", ErrInvalidDescriptor, desc)
		}
		return pos + end + 1, nil
	}
	return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidDescriptor, desc[pos], desc)
}
