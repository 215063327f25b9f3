package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryMappingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mapping EntryMapping
		valid   bool
	}{
		{"default", Default, true},
		{"javadoc only", Default.WithJavadoc("doc"), true},
		{"user name", EntryMapping{TargetName: "foo", TokenType: Deobfuscated}, true},
		{"proposed", EntryMapping{TargetName: "foo", TokenType: JarProposed, SourcePluginID: "plugin"}, true},
		{"named obfuscated", EntryMapping{TargetName: "foo"}, false},
		{"unnamed deobfuscated", EntryMapping{TokenType: Deobfuscated}, false},
		{"user name with plugin", EntryMapping{TargetName: "foo", TokenType: Deobfuscated, SourcePluginID: "plugin"}, false},
		{"proposed without plugin", EntryMapping{TargetName: "foo", TokenType: DynamicProposed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mapping.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidMapping)
			}
		})
	}
}

func TestEntryMappingWithName(t *testing.T) {
	m := NewEntryMapping("  foo ")
	assert.Equal(t, "foo", m.TargetName)
	assert.Equal(t, Deobfuscated, m.TokenType)
	assert.NoError(t, m.Validate())

	proposed, err := NewProposedMapping("bar", JarProposed, "plugin")
	require.NoError(t, err)
	renamed := proposed.WithJavadoc("doc").WithName("baz")
	assert.Equal(t, EntryMapping{TargetName: "baz", Javadoc: "doc", TokenType: Deobfuscated}, renamed)

	cleared := renamed.WithName("  ")
	assert.Equal(t, Obfuscated, cleared.TokenType)
	assert.False(t, cleared.HasName())
	assert.Equal(t, "doc", cleared.Javadoc)
	assert.NoError(t, cleared.Validate())

	assert.True(t, NewEntryMapping("").IsDefault())
}

func TestNewProposedMappingRejectsMissingPlugin(t *testing.T) {
	_, err := NewProposedMapping("foo", DynamicProposed, "")
	assert.ErrorIs(t, err, ErrInvalidMapping)
}

func TestEntryMappingMerge(t *testing.T) {
	proposed := EntryMapping{TargetName: "proposed", TokenType: JarProposed, SourcePluginID: "plugin", Javadoc: "from plugin"}

	merged := Default.WithJavadoc("mine").Merge(proposed)
	assert.Equal(t, EntryMapping{TargetName: "proposed", TokenType: JarProposed, SourcePluginID: "plugin", Javadoc: "mine"}, merged)
	assert.NoError(t, merged.Validate())

	kept := NewEntryMapping("user").Merge(proposed)
	assert.Equal(t, "user", kept.TargetName)
	assert.Equal(t, Deobfuscated, kept.TokenType)
	assert.Equal(t, "from plugin", kept.Javadoc)
}

func TestEntryMappingString(t *testing.T) {
	assert.Equal(t, "obfuscated", Default.String())
	assert.Equal(t, "foo (deobfuscated)", NewEntryMapping("foo").String())
}
