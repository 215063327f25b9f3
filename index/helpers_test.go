package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
)

const (
	pub        = entry.AccPublic
	pubStatic  = entry.AccPublic | entry.AccStatic
	pubBridge  = entry.AccPublic | entry.AccSynthetic | entry.AccBridge
	privStatic = entry.AccPrivate | entry.AccStatic
)

func classNode(name, super string, interfaces ...string) *ClassNode {
	return &ClassNode{
		Name:       name,
		Access:     entry.AccPublic | entry.AccSuper,
		SuperName:  super,
		Interfaces: interfaces,
	}
}

func interfaceNode(name string, interfaces ...string) *ClassNode {
	node := classNode(name, entry.ObjectName, interfaces...)
	node.Access = entry.AccPublic | entry.AccInterface | entry.AccAbstract
	return node
}

func (n *ClassNode) field(access entry.AccessFlags, name, desc string) *ClassNode {
	n.Fields = append(n.Fields, FieldNode{Access: access, Name: name, Desc: desc})
	return n
}

func (n *ClassNode) method(access entry.AccessFlags, name, desc string, insns ...Instruction) *ClassNode {
	n.Methods = append(n.Methods, MethodNode{Access: access, Name: name, Desc: desc, Instructions: insns})
	return n
}

func invoke(owner, name, desc string, target ReferenceTargetType) Instruction {
	return Instruction{Kind: MethodInsn, Owner: owner, Name: name, Desc: desc, Target: target}
}

func getField(owner, name, desc string) Instruction {
	return Instruction{Kind: FieldInsn, Owner: owner, Name: name, Desc: desc, Target: ClassTarget(entry.NewClass(owner))}
}

func buildIndex(t *testing.T, nodes ...*ClassNode) *JarIndex {
	t.Helper()
	provider := NewMapClassProvider(nodes...)
	j := NewJarIndex(WithParallelism(2))
	require.NoError(t, j.IndexJar(context.Background(), provider.ClassNames(), provider, nil))
	return j
}

func method(owner, name, desc string) entry.MethodEntry {
	return entry.NewMethod(entry.NewClass(owner), name, entry.NewMethodDescriptor(desc))
}

func field(owner, name, desc string) entry.FieldEntry {
	return entry.NewField(entry.NewClass(owner), name, entry.NewTypeDescriptor(desc))
}

func classes(names ...string) []entry.ClassEntry {
	out := make([]entry.ClassEntry, len(names))
	for i, name := range names {
		out[i] = entry.NewClass(name)
	}
	return out
}

func entries[E entry.Entry](es ...E) []entry.Entry {
	out := make([]entry.Entry, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
