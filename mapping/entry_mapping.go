package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidMapping = errors.New("invalid entry mapping")

// TokenType tells where the name of a mapping came from.
type TokenType int

const (
	Obfuscated TokenType = iota
	Deobfuscated
	JarProposed
	DynamicProposed
	Debug
)

func (t TokenType) String() string {
	switch t {
	case Deobfuscated:
		return "deobfuscated"
	case JarProposed:
		return "jar_proposed"
	case DynamicProposed:
		return "dynamic_proposed"
	case Debug:
		return "debug"
	}
	return "obfuscated"
}

// IsProposed reports whether names of this type are suggested by a plugin
// rather than chosen by a user.
func (t TokenType) IsProposed() bool {
	return t == JarProposed || t == DynamicProposed
}

// EntryMapping is the deobfuscated state of one entry. Empty strings stand
// for absent values, so the zero value is the default mapping: obfuscated,
// with neither a name nor a comment.
type EntryMapping struct {
	TargetName     string
	Javadoc        string
	TokenType      TokenType
	SourcePluginID string
}

// Default is the mapping of every entry that has none stored.
var Default = EntryMapping{}

// NewEntryMapping returns a user mapping for name, or Default when the
// trimmed name is empty.
func NewEntryMapping(name string) EntryMapping {
	return Default.WithName(name)
}

// NewProposedMapping returns a mapping suggested by the plugin pluginID.
func NewProposedMapping(name string, tokenType TokenType, pluginID string) (EntryMapping, error) {
	m := EntryMapping{
		TargetName:     strings.TrimSpace(name),
		TokenType:      tokenType,
		SourcePluginID: pluginID,
	}
	if err := m.Validate(); err != nil {
		return EntryMapping{}, err
	}
	return m, nil
}

// Validate checks the invariants tying the token type to the name and the
// plugin id.
func (m EntryMapping) Validate() error {
	switch {
	case m.TokenType == Obfuscated && m.TargetName != "":
		return fmt.Errorf("%w: named mapping with an obfuscated token type", ErrInvalidMapping)
	case m.TokenType != Obfuscated && m.TargetName == "":
		return fmt.Errorf("%w: %s mapping without a name", ErrInvalidMapping, m.TokenType)
	case !m.TokenType.IsProposed() && m.SourcePluginID != "":
		return fmt.Errorf("%w: %s mapping with a source plugin", ErrInvalidMapping, m.TokenType)
	case m.TokenType.IsProposed() && m.SourcePluginID == "":
		return fmt.Errorf("%w: proposed mapping without a source plugin", ErrInvalidMapping)
	}
	return nil
}

func (m EntryMapping) HasName() bool    { return m.TargetName != "" }
func (m EntryMapping) HasJavadoc() bool { return m.Javadoc != "" }
func (m EntryMapping) IsDefault() bool  { return m == Default }

// WithName renames the mapping as a user edit. An empty name makes the
// mapping obfuscated again but keeps its javadoc.
func (m EntryMapping) WithName(name string) EntryMapping {
	m.TargetName = strings.TrimSpace(name)
	m.SourcePluginID = ""
	if m.TargetName == "" {
		m.TokenType = Obfuscated
	} else {
		m.TokenType = Deobfuscated
	}
	return m
}

func (m EntryMapping) WithJavadoc(javadoc string) EntryMapping {
	m.Javadoc = javadoc
	return m
}

// WithTokenType changes the origin of the name. pluginID is only kept for
// proposed token types.
func (m EntryMapping) WithTokenType(tokenType TokenType, pluginID string) EntryMapping {
	m.TokenType = tokenType
	m.SourcePluginID = ""
	if tokenType.IsProposed() {
		m.SourcePluginID = pluginID
	}
	return m
}

// Merge fills the values missing from m with those of other. A name taken
// from other brings its token type and plugin id along.
func (m EntryMapping) Merge(other EntryMapping) EntryMapping {
	merged := m
	if m.TargetName == "" && other.TargetName != "" {
		merged.TargetName = other.TargetName
		merged.TokenType = other.TokenType
		merged.SourcePluginID = other.SourcePluginID
	}
	if m.Javadoc == "" && other.Javadoc != "" {
		merged.Javadoc = other.Javadoc
	}
	return merged
}

func (m EntryMapping) String() string {
	if m.TargetName == "" {
		return m.TokenType.String()
	}
	return fmt.Sprintf("%s (%s)", m.TargetName, m.TokenType)
}
