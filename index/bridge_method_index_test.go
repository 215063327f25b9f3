package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swind/go-jdeobf/entry"
)

func TestBridgeMethodPairs(t *testing.T) {
	bridges := genericBox(t).BridgeMethodIndex()

	bridge := method("IntBox", "get", "()Ljava/lang/Object;")
	specialized := method("IntBox", "get", "()Ljava/lang/Integer;")

	assert.True(t, bridges.IsBridgeMethod(bridge))
	assert.True(t, bridges.IsSpecializedMethod(specialized))
	assert.False(t, bridges.IsBridgeMethod(specialized))

	got, ok := bridges.SpecializedFromBridge(bridge)
	require.True(t, ok)
	assert.Equal(t, specialized, got)

	got, ok = bridges.BridgeFromSpecialized(specialized)
	require.True(t, ok)
	assert.Equal(t, bridge, got)
	assert.Equal(t, 1, bridges.Len())
}

func TestPotentialBridgeWithoutFlag(t *testing.T) {
	// obfuscators strip ACC_BRIDGE but keep the synthetic forwarder
	bridges := buildIndex(t,
		classNode("Base", entry.ObjectName).method(pub, "a", "()Ljava/lang/Object;"),
		classNode("Impl", "Base").
			method(pub, "b", "()Ljava/lang/String;").
			method(entry.AccPublic|entry.AccSynthetic, "a", "()Ljava/lang/Object;",
				invoke("Impl", "b", "()Ljava/lang/String;", ClassTarget(entry.NewClass("Impl")))),
	).BridgeMethodIndex()

	bridge := method("Impl", "a", "()Ljava/lang/Object;")
	specialized := method("Impl", "b", "()Ljava/lang/String;")
	got, ok := bridges.BridgeFromSpecialized(specialized)
	require.True(t, ok)
	assert.Equal(t, bridge, got)

	// the specialized method is also found under the bridge's name
	got, ok = bridges.BridgeFromSpecialized(method("Impl", "a", "()Ljava/lang/String;"))
	require.True(t, ok)
	assert.Equal(t, bridge, got)
}

func TestSyntheticAccessorIsNotBridge(t *testing.T) {
	bridges := buildIndex(t,
		classNode("Outer", entry.ObjectName).
			method(entry.AccPrivate, "secret", "()I").
			method(entry.AccStatic|entry.AccSynthetic, "access$000", "(LOuter;)I",
				invoke("Outer", "secret", "()I", ClassTarget(entry.NewClass("Outer")))),
	).BridgeMethodIndex()

	assert.False(t, bridges.IsBridgeMethod(method("Outer", "access$000", "(LOuter;)I")))
	assert.Zero(t, bridges.Len())
}

func TestSyntheticCallingTwoMethodsIsNotBridge(t *testing.T) {
	bridges := buildIndex(t,
		classNode("a", entry.ObjectName).
			method(pub, "x", "()V").
			method(pub, "y", "()V").
			method(pubBridge, "z", "()V",
				invoke("a", "x", "()V", NoTarget()),
				invoke("a", "y", "()V", NoTarget())),
	).BridgeMethodIndex()

	assert.Zero(t, bridges.Len())
}

// withBridgeToS adds a bridge get()Object that forwards to S.get()Integer.
func withBridgeToS(n *ClassNode) *ClassNode {
	return n.method(pubBridge, "get", "()Ljava/lang/Object;",
		invoke("S", "get", "()Ljava/lang/Integer;", ClassTarget(entry.NewClass("S"))))
}

func TestUnrelatedBridgesKeepFirst(t *testing.T) {
	bridges := buildIndex(t,
		withBridgeToS(classNode("A", entry.ObjectName)),
		withBridgeToS(classNode("B", entry.ObjectName)),
		classNode("S", entry.ObjectName).method(pub, "get", "()Ljava/lang/Integer;"),
	).BridgeMethodIndex()

	assert.True(t, bridges.IsBridgeMethod(method("A", "get", "()Ljava/lang/Object;")))
	assert.True(t, bridges.IsBridgeMethod(method("B", "get", "()Ljava/lang/Object;")))

	got, ok := bridges.BridgeFromSpecialized(method("S", "get", "()Ljava/lang/Integer;"))
	require.True(t, ok)
	assert.Equal(t, method("A", "get", "()Ljava/lang/Object;"), got)
}

func TestHigherBridgeReplacesLower(t *testing.T) {
	bridges := buildIndex(t,
		withBridgeToS(classNode("A", "Z")),
		classNode("S", entry.ObjectName).method(pub, "get", "()Ljava/lang/Integer;"),
		withBridgeToS(classNode("Z", entry.ObjectName)),
	).BridgeMethodIndex()

	got, ok := bridges.BridgeFromSpecialized(method("S", "get", "()Ljava/lang/Integer;"))
	require.True(t, ok)
	assert.Equal(t, method("Z", "get", "()Ljava/lang/Object;"), got)
}
