package proguard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/mapping"
)

const fooMapping = `com.example.Foo -> a:
    java.lang.String name -> a
    com.example.Foo$Bar[] bars -> b
    int count -> count
    1:1:void <init>():10:10 -> <init>
    1:4:com.example.Foo$Bar find(java.lang.String,int):20:23 -> a
    5:5:void com.example.Util.log(java.lang.String):7:7 -> b
    5:5:void run():30 -> b
    6:6:void run():31 -> b
com.example.Foo$Bar -> a$a:
    long id -> a
com.example.Util -> b:
`

func obfMethod(owner, name, desc string) entry.MethodEntry {
	return entry.NewMethod(entry.NewClass(owner), name, entry.NewMethodDescriptor(desc))
}

func obfField(owner, name, desc string) entry.FieldEntry {
	return entry.NewField(entry.NewClass(owner), name, entry.NewTypeDescriptor(desc))
}

func TestMappingsTree(t *testing.T) {
	m, err := Read(strings.NewReader(fooMapping))
	require.NoError(t, err)
	assert.Len(t, m.Classes(), 3)
	assert.Len(t, m.Methods(), 5)

	tree := m.Tree()
	want := map[entry.Entry]string{
		entry.NewClass("a"):                               "com/example/Foo",
		entry.NewClass("a$a"):                             "Bar",
		entry.NewClass("b"):                               "com/example/Util",
		obfField("a", "a", "Ljava/lang/String;"):          "name",
		obfField("a", "b", "[La$a;"):                      "bars",
		obfField("a$a", "a", "J"):                         "id",
		obfMethod("a", "a", "(Ljava/lang/String;I)La$a;"): "find",
		obfMethod("a", "b", "()V"):                        "run",
	}
	assert.Equal(t, len(want), tree.Len())
	for e, name := range want {
		got, ok := tree.Get(e)
		if assert.True(t, ok, "missing %s", e) {
			assert.Equal(t, name, got.TargetName)
			assert.Equal(t, mapping.Deobfuscated, got.TokenType)
		}
	}
	assert.False(t, tree.Contains(obfField("a", "count", "I")))
	assert.False(t, tree.Contains(obfMethod("a", "<init>", "()V")))
}

func TestMappingsApply(t *testing.T) {
	provider := index.NewMapClassProvider(
		&index.ClassNode{
			Name:      "a",
			Access:    entry.AccPublic | entry.AccSuper,
			SuperName: entry.ObjectName,
			Fields: []index.FieldNode{
				{Access: entry.AccPrivate, Name: "a", Desc: "Ljava/lang/String;"},
				{Access: entry.AccPrivate, Name: "b", Desc: "[La$a;"},
			},
			Methods: []index.MethodNode{
				{Access: entry.AccPublic, Name: "<init>", Desc: "()V"},
				{Access: entry.AccPublic, Name: "a", Desc: "(Ljava/lang/String;I)La$a;"},
				{Access: entry.AccPublic, Name: "b", Desc: "()V"},
			},
		},
		&index.ClassNode{
			Name:      "a$a",
			Access:    entry.AccPublic | entry.AccSuper,
			SuperName: entry.ObjectName,
			Fields:    []index.FieldNode{{Access: entry.AccPublic, Name: "a", Desc: "J"}},
		},
		&index.ClassNode{Name: "b", Access: entry.AccPublic | entry.AccSuper, SuperName: entry.ObjectName},
	)
	idx := index.NewJarIndex(index.WithParallelism(1))
	require.NoError(t, idx.IndexJar(context.Background(), provider.ClassNames(), provider, nil))
	remapper, err := mapping.NewEntryRemapper(idx, nil)
	require.NoError(t, err)

	m, err := Read(strings.NewReader(fooMapping))
	require.NoError(t, err)
	n, err := m.Apply(remapper)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	assert.Equal(t, "com/example/Foo$Bar", remapper.DeobfuscateClass(entry.NewClass("a$a")).FullName())
	assert.Equal(t,
		obfMethod("com/example/Foo", "find", "(Ljava/lang/String;I)Lcom/example/Foo$Bar;"),
		remapper.Deobfuscate(obfMethod("a", "a", "(Ljava/lang/String;I)La$a;")))
	assert.Equal(t,
		obfField("com/example/Foo", "bars", "[Lcom/example/Foo$Bar;"),
		remapper.Deobfuscate(obfField("a", "b", "[La$a;")))
	assert.True(t, remapper.IsDirty())
}

func TestReadPropagatesErrors(t *testing.T) {
	_, err := Read(strings.NewReader("    int a -> b\n"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestTypeConversions(t *testing.T) {
	rename := func(name string) string {
		if name == "com/example/Foo" {
			return "a"
		}
		return name
	}

	tests := []struct {
		external string
		desc     string
	}{
		{"int", "I"},
		{"void", "V"},
		{"boolean[]", "[Z"},
		{"java.lang.String", "Ljava/lang/String;"},
		{"com.example.Foo[][]", "[[La;"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.desc, TypeDescriptor(tt.external, rename), tt.external)
	}

	assert.Equal(t, "(ILa;[J)V", MethodDescriptor("void", "int, com.example.Foo,long[]", rename))
	assert.Equal(t, "()Ljava/lang/Object;", MethodDescriptor("java.lang.Object", "", nil))

	assert.Equal(t, "java.lang.String[]", ExternalType(entry.NewTypeDescriptor("[Ljava/lang/String;")))
	assert.Equal(t, "double", ExternalType(entry.NewTypeDescriptor("D")))
	assert.Equal(t, "int,a.B[][]", ExternalArguments(entry.NewMethodDescriptor("(I[[La/B;)V")))
	assert.Empty(t, ExternalArguments(entry.NewMethodDescriptor("()V")))
}
