package mapping

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/validation"
)

const (
	pub        = entry.AccPublic
	pubStatic  = entry.AccPublic | entry.AccStatic
	privStatic = entry.AccPrivate | entry.AccStatic
	abstract   = entry.AccPublic | entry.AccAbstract
)

func iface(name string) *classBuilder {
	c := class(name, entry.ObjectName)
	c.node.Access = entry.AccPublic | entry.AccInterface | entry.AccAbstract
	return c
}

func TestRenamePropagatesToInheritedReference(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V"),
		class("b", "a"),
	)

	vc := rename(t, r, method("a", "x", "()V"), "foo")
	require.True(t, vc.CanProceed())

	inherited := method("b", "x", "()V")
	assert.Equal(t, "foo", r.TranslateName(inherited))
	assert.Equal(t, "foo", r.Deobfuscate(inherited).Name())
	assert.Equal(t, "foo", r.ResolvedMapping(inherited).TargetName)
	assert.True(t, r.DeobfMapping(inherited).IsDefault())
}

func TestRenameThroughOverrideStoresOnRoot(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V"),
		class("b", "a").method(pub, "x", "()V"),
	)

	rename(t, r, method("b", "x", "()V"), "foo")

	assert.Equal(t, "foo", r.DeobfMapping(method("a", "x", "()V")).TargetName)
	assert.True(t, r.DeobfMapping(method("b", "x", "()V")).IsDefault())
	assert.Equal(t, "foo", r.TranslateName(method("b", "x", "()V")))
}

func TestRenameShadowingStaticFieldIsRejected(t *testing.T) {
	r := newRemapper(t,
		class("b", entry.ObjectName).field(pubStatic, "f", "I"),
		class("a", "b").field(pub, "g", "I"),
	)
	vc := rename(t, r, field("b", "f", "I"), "A")
	require.True(t, vc.CanProceed())

	vc = rename(t, r, field("a", "g", "I"), "A")

	assert.True(t, vc.Has(validation.ShadowedNameClass))
	assert.False(t, vc.HasErrors())
	assert.False(t, vc.CanProceed())
	assert.True(t, r.DeobfMapping(field("a", "g", "I")).IsDefault())
	assert.Equal(t, "g", r.TranslateName(field("a", "g", "I")))
}

func TestRenameShadowingAcceptedByNotifier(t *testing.T) {
	r := newRemapper(t,
		class("b", entry.ObjectName).field(pubStatic, "f", "I"),
		class("a", "b").field(pub, "g", "I"),
	)
	rename(t, r, field("b", "f", "I"), "A")

	notifier := &acceptingNotifier{}
	vc := validation.NewContext(notifier)
	require.NoError(t, r.PutMapping(vc, field("a", "g", "I"), NewEntryMapping("A")))

	require.Len(t, notifier.notified, 1)
	assert.Equal(t, validation.ShadowedNameClass.Key, notifier.notified[0].Message.Key)
	assert.True(t, vc.CanProceed())
	assert.Equal(t, "A", r.DeobfMapping(field("a", "g", "I")).TargetName)
}

func TestRenameUnrelatedPrivateStaticHelpers(t *testing.T) {
	r := newRemapper(t,
		class("p", entry.ObjectName).method(privStatic, "helper", "()V"),
		class("q", entry.ObjectName).method(privStatic, "helper", "()V"),
	)

	first := rename(t, r, method("p", "helper", "()V"), "compute")
	second := rename(t, r, method("q", "helper", "()V"), "compute")

	assert.Empty(t, first.Messages())
	assert.Empty(t, second.Messages())
	assert.Equal(t, "compute", r.DeobfMapping(method("p", "helper", "()V")).TargetName)
	assert.Equal(t, "compute", r.DeobfMapping(method("q", "helper", "()V")).TargetName)
}

func TestRenameOverrideClusterIsAllOrNothing(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "m", "()V"),
		class("b", "a").method(pub, "m", "()V"),
		class("c", "b").method(pub, "m", "()V").method(pub, "n", "()V"),
	)
	cluster := []entry.MethodEntry{
		method("a", "m", "()V"),
		method("b", "m", "()V"),
		method("c", "m", "()V"),
	}

	vc := rename(t, r, cluster[0], "n")

	assert.True(t, vc.Has(validation.NonUniqueNameClass))
	assert.False(t, vc.CanProceed())
	for _, m := range cluster {
		assert.True(t, r.DeobfMapping(m).IsDefault(), m.String())
		assert.True(t, r.ResolvedMapping(m).IsDefault(), m.String())
	}
	assert.Empty(t, r.ObfEntries())
	assert.False(t, r.IsDirty())
}

func TestRenameIsIdempotent(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V").field(pub, "f", "I"),
		class("b", "a").method(pub, "x", "()V"),
	)
	apply := func() {
		rename(t, r, method("b", "x", "()V"), "foo")
		rename(t, r, field("a", "f", "I"), "count")
		rename(t, r, entry.NewClass("b"), "Child")
	}
	snapshot := func() map[entry.Entry]EntryMapping {
		out := make(map[entry.Entry]EntryMapping)
		for _, e := range r.ObfEntries() {
			out[e] = r.DeobfMapping(e)
		}
		return out
	}

	apply()
	first := snapshot()
	apply()

	assert.Equal(t, first, snapshot())
	assert.Len(t, first, 3)
}

func TestRenameToDefaultRemovesMapping(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName).method(pub, "x", "()V"))
	x := method("a", "x", "()V")
	rename(t, r, x, "foo")

	vc := validation.NewContext(nil)
	require.NoError(t, r.PutMapping(vc, x, Default))

	assert.Empty(t, r.ObfEntries())
	assert.Equal(t, "x", r.TranslateName(x))
}

func TestJavadocEditStaysOnEntry(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V"),
		class("b", "a").method(pub, "x", "()V"),
	)
	vc := validation.NewContext(nil)
	require.NoError(t, r.PutMapping(vc, method("b", "x", "()V"), Default.WithJavadoc("Runs x.")))

	assert.Equal(t, "Runs x.", r.DeobfMapping(method("b", "x", "()V")).Javadoc)
	assert.True(t, r.DeobfMapping(method("a", "x", "()V")).IsDefault())
}

func TestJavadocWithCommentEndIsRejected(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName).method(pub, "x", "()V"))
	vc := validation.NewContext(nil)
	require.NoError(t, r.PutMapping(vc, method("a", "x", "()V"), Default.WithJavadoc("ends */ early")))

	assert.True(t, vc.Has(validation.IllegalDocCommentEnd))
	assert.Empty(t, r.ObfEntries())
}

func TestRenameRejectsIllegalIdentifier(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName).field(pub, "f", "I"))
	vc := rename(t, r, field("a", "f", "I"), "1st")

	assert.True(t, vc.Has(validation.IllegalIdentifier))
	assert.Empty(t, r.ObfEntries())
}

func TestPutMappingRejectsMalformedMapping(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName))
	err := r.PutMapping(validation.NewContext(nil), entry.NewClass("a"), EntryMapping{TargetName: "b"})
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestValidatePutMappingDoesNotWrite(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V").method(pub, "y", "()V"),
	)
	ok := validation.NewContext(nil)
	require.NoError(t, r.ValidatePutMapping(ok, method("a", "x", "()V"), NewEntryMapping("run")))
	assert.True(t, ok.CanProceed())

	clash := validation.NewContext(nil)
	require.NoError(t, r.ValidatePutMapping(clash, method("a", "x", "()V"), NewEntryMapping("y")))
	assert.True(t, clash.Has(validation.NonUniqueNameClass))

	assert.Empty(t, r.ObfEntries())
	assert.False(t, r.IsDirty())
}

func TestRenameMethodOverloadsByArguments(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "(I)V").method(pub, "y", "(J)V").method(pub, "z", "(I)I"),
	)

	overload := rename(t, r, method("a", "x", "(I)V"), "y")
	assert.Empty(t, overload.Messages())

	clash := rename(t, r, method("a", "x", "(I)V"), "z")
	assert.True(t, clash.Has(validation.NonUniqueNameClass))
	assert.Equal(t, "y", r.TranslateName(method("a", "x", "(I)V")))
}

func TestRenameInstanceMethodOntoInheritedName(t *testing.T) {
	r := newRemapper(t,
		class("s", entry.ObjectName).method(pub, "create", "()V"),
		class("r", "s").method(pub, "make", "()V"),
	)
	vc := rename(t, r, method("r", "make", "()V"), "create")

	assert.True(t, vc.Has(validation.NonUniqueNameClass))
	assert.True(t, r.DeobfMapping(method("r", "make", "()V")).IsDefault())
}

func TestRenameStaticMethodHidingInheritedStatic(t *testing.T) {
	r := newRemapper(t,
		class("s", entry.ObjectName).method(pubStatic, "create", "()V"),
		class("r", "s").method(pubStatic, "make", "()V"),
	)

	vc := rename(t, r, method("r", "make", "()V"), "create")
	assert.False(t, vc.HasErrors())
	assert.True(t, vc.Has(validation.ShadowedNameClass))

	notifier := &acceptingNotifier{}
	accepted := validation.NewContext(notifier)
	require.NoError(t, r.PutMapping(accepted, method("r", "make", "()V"), NewEntryMapping("create")))
	assert.Equal(t, "create", r.DeobfMapping(method("r", "make", "()V")).TargetName)
}

func TestRenameParameters(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName).method(pub, "m", "(IJI)V"))
	m := method("a", "m", "(IJI)V")
	first, second, third := entry.NewLocalVariable(m, 1), entry.NewLocalVariable(m, 2), entry.NewLocalVariable(m, 4)

	rename(t, r, first, "count")
	rename(t, r, second, "total")
	assert.Equal(t, "count", r.TranslateName(first))

	vc := rename(t, r, third, "count")
	assert.True(t, vc.Has(validation.NonUniqueNameClass))
	assert.True(t, r.DeobfMapping(third).IsDefault())

	again := rename(t, r, first, "count")
	assert.Empty(t, again.Messages())

	reserved := rename(t, r, third, "class")
	assert.True(t, reserved.Has(validation.ReservedIdentifier))
}

func TestRenameClasses(t *testing.T) {
	r := newRemapper(t,
		class("p/Outer", entry.ObjectName),
		class("p/Outer$Inner", entry.ObjectName),
		class("p/Other", entry.ObjectName),
	)

	vc := rename(t, r, entry.NewClass("p/Outer"), "p/Renamed")
	require.True(t, vc.CanProceed())
	assert.Equal(t, entry.NewClass("p/Renamed$Inner"), r.DeobfuscateClass(entry.NewClass("p/Outer$Inner")))

	rename(t, r, entry.NewClass("p/Outer$Inner"), "Nested")
	assert.Equal(t, entry.NewClass("p/Renamed$Nested"), r.Deobfuscate(entry.NewClass("p/Outer$Inner")))

	clash := rename(t, r, entry.NewClass("p/Other"), "p/Renamed")
	assert.True(t, clash.Has(validation.NonUniqueName))

	inner := rename(t, r, entry.NewClass("p/Outer$Inner"), "q/Nested")
	assert.True(t, inner.Has(validation.IllegalInnerName))
	assert.Equal(t, "Nested", r.TranslateName(entry.NewClass("p/Outer$Inner")))
}

func TestRenameInnerClassOntoInheritedMemberClass(t *testing.T) {
	r := newRemapper(t,
		class("p/Base", entry.ObjectName),
		class("p/Base$Inner", entry.ObjectName),
		class("p/Outer", "p/Base"),
		class("p/Outer$a", entry.ObjectName),
		class("p/Holder", entry.ObjectName),
		class("p/Holder$b", "p/Base"),
	)

	clash := rename(t, r, entry.NewClass("p/Outer$a"), "Inner")
	assert.True(t, clash.Has(validation.NonUniqueNameClass))
	assert.Equal(t, "a", r.TranslateName(entry.NewClass("p/Outer$a")))

	// the member class is inherited by the renamed class itself
	own := rename(t, r, entry.NewClass("p/Holder$b"), "Inner")
	assert.True(t, own.Has(validation.NonUniqueNameClass))

	vc := rename(t, r, entry.NewClass("p/Outer$a"), "Nested")
	require.True(t, vc.CanProceed())
	assert.Equal(t, "Nested", r.TranslateName(entry.NewClass("p/Outer$a")))
}

func TestRenameClassIntoNewPackage(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName))
	a := entry.NewClass("a")

	declined := rename(t, r, a, "com/example/Foo")
	assert.True(t, declined.Has(validation.NewPackage))
	assert.True(t, r.DeobfMapping(a).IsDefault())

	accepted := validation.NewContext(&acceptingNotifier{})
	require.NoError(t, r.PutMapping(accepted, a, NewEntryMapping("com/example/Foo")))
	assert.Equal(t, entry.NewClass("com/example/Foo"), r.DeobfuscateClass(a))

	desc := r.DeobfuscateMethodDescriptor(entry.NewMethodDescriptor("(La;[La;)La;"))
	assert.Equal(t, "(Lcom/example/Foo;[Lcom/example/Foo;)Lcom/example/Foo;", desc.String())
}

func TestRenameKeepsDiamondRootsInSync(t *testing.T) {
	r := newRemapper(t,
		iface("i1").method(abstract, "m", "()V"),
		iface("i2").method(abstract, "m", "()V"),
		class("c", entry.ObjectName, "i1", "i2").method(pub, "m", "()V"),
	)

	vc := rename(t, r, method("i1", "m", "()V"), "run")
	require.True(t, vc.CanProceed())

	assert.Equal(t, "run", r.DeobfMapping(method("i1", "m", "()V")).TargetName)
	assert.Equal(t, "run", r.DeobfMapping(method("i2", "m", "()V")).TargetName)
	assert.Equal(t, "run", r.Deobfuscate(method("c", "m", "()V")).Name())
}

func TestInsertedProposalIsResolved(t *testing.T) {
	r := newRemapper(t,
		class("a", entry.ObjectName).method(pub, "x", "()V"),
		class("b", "a"),
	)
	proposed, err := NewProposedMapping("proposed", JarProposed, "names")
	require.NoError(t, err)
	require.NoError(t, r.Insert(method("a", "x", "()V"), proposed))

	assert.Equal(t, proposed, r.ResolvedMapping(method("b", "x", "()V")))
	assert.ErrorIs(t, r.Insert(method("a", "x", "()V"), EntryMapping{TokenType: JarProposed}), ErrInvalidMapping)
}

func TestTakeMappingDelta(t *testing.T) {
	r := newRemapper(t, class("a", entry.ObjectName).method(pub, "x", "()V").field(pub, "f", "I"))
	rename(t, r, method("a", "x", "()V"), "foo")
	require.True(t, r.IsDirty())

	delta := r.TakeMappingDelta()
	assert.Equal(t, []entry.Entry{method("a", "x", "()V")}, delta.ChangedEntries())
	assert.True(t, delta.Base.IsEmpty())
	assert.False(t, r.IsDirty())

	rename(t, r, field("a", "f", "I"), "count")
	next := r.TakeMappingDelta()
	assert.Equal(t, []entry.Entry{field("a", "f", "I")}, next.ChangedEntries())
	assert.True(t, next.Base.Contains(method("a", "x", "()V")))
}

func TestNewEntryRemapperKeepsExistingTree(t *testing.T) {
	provider := index.NewMapClassProvider(class("a", entry.ObjectName).method(pub, "x", "()V").node)
	idx := index.NewJarIndex()
	require.NoError(t, idx.IndexJar(context.Background(), provider.ClassNames(), provider, nil))

	tree := NewHashEntryTree[EntryMapping]()
	tree.Insert(method("a", "x", "()V"), NewEntryMapping("run"))

	r, err := NewEntryRemapper(idx, tree)
	require.NoError(t, err)
	assert.Equal(t, "run", r.TranslateName(method("a", "x", "()V")))
	assert.False(t, r.IsDirty())
	assert.Same(t, idx, r.JarIndex())
}

func TestNewEntryRemapperRejectsBrokenIndex(t *testing.T) {
	provider := index.NewMapClassProvider(class("x", entry.ObjectName, "x").node)
	idx := index.NewJarIndex()
	require.Error(t, idx.IndexJar(context.Background(), provider.ClassNames(), provider, nil))

	_, err := NewEntryRemapper(idx, nil)
	assert.ErrorIs(t, err, index.ErrIndexUnusable)
}

func TestConcurrentRenamesAndQueries(t *testing.T) {
	const n = 8
	classes := make([]*classBuilder, n)
	for i := range classes {
		classes[i] = class(fmt.Sprintf("c%d", i), entry.ObjectName).method(pub, "m", "()V")
	}
	r := newRemapper(t, classes...)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		m := method(fmt.Sprintf("c%d", i), "m", "()V")
		go func(i int) {
			defer wg.Done()
			vc := validation.NewContext(nil)
			assert.NoError(t, r.PutMapping(vc, m, NewEntryMapping(fmt.Sprintf("run%d", i))))
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Deobfuscate(m)
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.Equal(t, fmt.Sprintf("run%d", i), r.TranslateName(method(fmt.Sprintf("c%d", i), "m", "()V")))
	}
}
