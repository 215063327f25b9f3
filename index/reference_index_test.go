package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
)

func TestReferencesCanonicalizedToDeclaration(t *testing.T) {
	j := buildIndex(t,
		classNode("a", entry.ObjectName).method(pub, "x", "()V").field(pub, "f", "I"),
		classNode("b", "a"),
		classNode("user", entry.ObjectName).method(pub, "run", "()V",
			invoke("b", "x", "()V", ClassTarget(entry.NewClass("b"))),
			getField("b", "f", "I"),
			invoke("b", "<init>", "()V", UninitializedTarget()),
		),
	)
	refs := j.ReferenceIndex()
	run := method("user", "run", "()V")

	toX := refs.ReferencesToMethod(method("a", "x", "()V"))
	require.Len(t, toX, 1)
	assert.Equal(t, method("a", "x", "()V"), toX[0].Entry)
	assert.Equal(t, run, toX[0].Context)
	assert.Equal(t, ClassTarget(entry.NewClass("b")), toX[0].TargetType)
	assert.Empty(t, refs.ReferencesToMethod(method("b", "x", "()V")))

	toF := refs.ReferencesToField(field("a", "f", "I"))
	require.Len(t, toF, 1)
	assert.Equal(t, field("a", "f", "I"), toF[0].Entry)

	toB := refs.ReferencesToClass(entry.NewClass("b"))
	require.Len(t, toB, 1)
	assert.Equal(t, UninitializedTarget(), toB[0].TargetType)

	assert.ElementsMatch(t, []entry.MethodEntry{method("a", "x", "()V"), method("b", "<init>", "()V")},
		refs.MethodsReferencedBy(run))
}

func TestDescriptorTypeReferences(t *testing.T) {
	refs := buildIndex(t,
		classNode("p/Type", entry.ObjectName),
		classNode("p/Holder", entry.ObjectName).
			field(pub, "values", "[[Lp/Type;").
			field(pub, "count", "I").
			method(pub, "make", "(ILp/Type;)Lp/Type;"),
	).ReferenceIndex()

	fieldRefs := refs.FieldTypeReferencesToClass(entry.NewClass("p/Type"))
	require.Len(t, fieldRefs, 1)
	assert.Equal(t, field("p/Holder", "values", "[[Lp/Type;"), fieldRefs[0].Context)

	methodRefs := refs.MethodTypeReferencesToClass(entry.NewClass("p/Type"))
	require.Len(t, methodRefs, 1)
	assert.Equal(t, method("p/Holder", "make", "(ILp/Type;)Lp/Type;"), methodRefs[0].Context)
}

func TestLambdaReferences(t *testing.T) {
	lambda := Instruction{
		Kind: LambdaInsn,
		Lambda: &LambdaNode{
			InvokedName:            "apply",
			InvokedType:            "()Lp/Fn;",
			SamMethodType:          "(Ljava/lang/Object;)Ljava/lang/Object;",
			Impl:                   Handle{Tag: HandleInvokeStatic, Owner: "p/User", Name: "lambda$run$0", Desc: "(Lp/Arg;)Lp/Res;"},
			InstantiatedMethodType: "(Lp/Arg;)Lp/Res;",
		},
		Target: NoTarget(),
	}
	j := buildIndex(t,
		interfaceNode("p/Fn").method(pub|entry.AccAbstract, "apply", "(Ljava/lang/Object;)Ljava/lang/Object;"),
		classNode("p/User", entry.ObjectName).
			method(pub, "run", "()V", lambda).
			method(entry.AccPrivate|entry.AccStatic|entry.AccSynthetic, "lambda$run$0", "(Lp/Arg;)Lp/Res;"),
	)
	refs := j.ReferenceIndex()

	impl := refs.ReferencesToMethod(method("p/User", "lambda$run$0", "(Lp/Arg;)Lp/Res;"))
	require.Len(t, impl, 1)
	assert.Equal(t, method("p/User", "run", "()V"), impl[0].Context)

	// the instantiated signature is a type reference of the caller
	argRefs := refs.MethodTypeReferencesToClass(entry.NewClass("p/Arg"))
	contexts := make([]entry.Entry, 0, len(argRefs))
	for _, ref := range argRefs {
		contexts = append(contexts, ref.Context)
	}
	assert.Contains(t, contexts, entry.Entry(method("p/User", "run", "()V")))
}

func TestArrayReceiversSkipped(t *testing.T) {
	refs := buildIndex(t,
		classNode("a", entry.ObjectName).method(pub, "run", "()V",
			invoke("[I", "clone", "()Ljava/lang/Object;", NoTarget())),
	).ReferenceIndex()

	assert.Empty(t, refs.MethodsReferencedBy(method("a", "run", "()V")))
}
