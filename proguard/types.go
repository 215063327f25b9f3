package proguard

import (
	"strings"

	"github.com/swind/go-jdeobf/entry"
)

var primitives = map[string]string{
	"void":    "V",
	"boolean": "Z",
	"byte":    "B",
	"char":    "C",
	"short":   "S",
	"int":     "I",
	"long":    "J",
	"float":   "F",
	"double":  "D",
}

var primitiveNames = map[byte]string{
	'V': "void",
	'Z': "boolean",
	'B': "byte",
	'C': "char",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
}

// InternalName converts "com.example.Foo" to "com/example/Foo".
func InternalName(external string) string {
	return strings.ReplaceAll(external, ".", "/")
}

// ExternalName converts "com/example/Foo" to "com.example.Foo".
func ExternalName(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// TypeDescriptor converts an external type such as "java.lang.String[]"
// to a descriptor. rename maps the internal name of each class.
func TypeDescriptor(external string, rename func(string) string) string {
	external = strings.TrimSpace(external)
	var b strings.Builder
	for strings.HasSuffix(external, "[]") {
		b.WriteByte('[')
		external = strings.TrimSuffix(external, "[]")
	}
	if p, ok := primitives[external]; ok {
		b.WriteString(p)
		return b.String()
	}
	name := InternalName(external)
	if rename != nil {
		name = rename(name)
	}
	b.WriteByte('L')
	b.WriteString(name)
	b.WriteByte(';')
	return b.String()
}

// MethodDescriptor builds a descriptor from a return type and the comma
// separated argument types of a mapping line.
func MethodDescriptor(returnType, arguments string, rename func(string) string) string {
	var b strings.Builder
	b.WriteByte('(')
	if arguments = strings.TrimSpace(arguments); arguments != "" {
		for _, arg := range strings.Split(arguments, ",") {
			b.WriteString(TypeDescriptor(arg, rename))
		}
	}
	b.WriteByte(')')
	b.WriteString(TypeDescriptor(returnType, rename))
	return b.String()
}

// ExternalType is the inverse of TypeDescriptor without renaming, e.g.
// "[Ljava/lang/String;" becomes "java.lang.String[]".
func ExternalType(desc entry.TypeDescriptor) string {
	dims := desc.ArrayDimension()
	base := desc.String()[dims:]
	name, ok := "", false
	if len(base) == 1 {
		name, ok = primitiveNames[base[0]]
	}
	if !ok {
		name = ExternalName(strings.TrimSuffix(strings.TrimPrefix(base, "L"), ";"))
	}
	return name + strings.Repeat("[]", dims)
}

// ExternalArguments formats the arguments of desc the way mapping files and
// stack traces do: "int,java.lang.String".
func ExternalArguments(desc entry.MethodDescriptor) string {
	args := desc.Args()
	names := make([]string, len(args))
	for i, arg := range args {
		names[i] = ExternalType(arg)
	}
	return strings.Join(names, ",")
}
