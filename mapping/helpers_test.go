package mapping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/validation"
)

type classBuilder struct {
	node *index.ClassNode
}

func class(name, super string, interfaces ...string) *classBuilder {
	return &classBuilder{node: &index.ClassNode{
		Name:       name,
		Access:     entry.AccPublic | entry.AccSuper,
		SuperName:  super,
		Interfaces: interfaces,
	}}
}

func (c *classBuilder) field(access entry.AccessFlags, name, desc string) *classBuilder {
	c.node.Fields = append(c.node.Fields, index.FieldNode{Access: access, Name: name, Desc: desc})
	return c
}

func (c *classBuilder) method(access entry.AccessFlags, name, desc string) *classBuilder {
	c.node.Methods = append(c.node.Methods, index.MethodNode{Access: access, Name: name, Desc: desc})
	return c
}

func newRemapper(t *testing.T, classes ...*classBuilder) *EntryRemapper {
	t.Helper()
	nodes := make([]*index.ClassNode, len(classes))
	for i, c := range classes {
		nodes[i] = c.node
	}
	provider := index.NewMapClassProvider(nodes...)
	idx := index.NewJarIndex(index.WithParallelism(1))
	require.NoError(t, idx.IndexJar(context.Background(), provider.ClassNames(), provider, nil))

	remapper, err := NewEntryRemapper(idx, nil)
	require.NoError(t, err)
	return remapper
}

func method(owner, name, desc string) entry.MethodEntry {
	return entry.NewMethod(entry.NewClass(owner), name, entry.NewMethodDescriptor(desc))
}

func field(owner, name, desc string) entry.FieldEntry {
	return entry.NewField(entry.NewClass(owner), name, entry.NewTypeDescriptor(desc))
}

// rename applies a user rename and returns the context it was validated in.
func rename(t *testing.T, r *EntryRemapper, e entry.Entry, name string) *validation.Context {
	t.Helper()
	vc := validation.NewContext(nil)
	require.NoError(t, r.PutMapping(vc, e, NewEntryMapping(name)))
	return vc
}

type acceptingNotifier struct {
	notified []validation.ParameterizedMessage
}

func (n *acceptingNotifier) Notify(msg validation.ParameterizedMessage) {
	n.notified = append(n.notified, msg)
}

func (n *acceptingNotifier) VerifyWarning(validation.ParameterizedMessage) bool { return true }
