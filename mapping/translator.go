package mapping

import (
	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
)

// Translator turns obfuscated entries into their deobfuscated form. Member
// mappings are looked up on the declaration ROOT resolution picks, so every
// override and reference shares the name stored on the root.
type Translator struct {
	mappings EntryTree[EntryMapping]
	resolver *index.EntryResolver
}

func NewTranslator(mappings EntryTree[EntryMapping], resolver *index.EntryResolver) *Translator {
	return &Translator{mappings: mappings, resolver: resolver}
}

// Mapping returns the mapping in effect for e, or Default.
func (t *Translator) Mapping(e entry.Entry) EntryMapping {
	if e == nil {
		return Default
	}
	if t.resolver != nil {
		for _, resolved := range t.resolver.ResolveEntry(e, index.ResolveRoot) {
			if m, ok := t.mappings.Get(resolved); ok {
				return m
			}
		}
	}
	if m, ok := t.mappings.Get(e); ok {
		return m
	}
	return Default
}

// TranslateName returns the deobfuscated simple name of e. Local variables
// without a mapping have no name.
func (t *Translator) TranslateName(e entry.Entry) string {
	if m := t.Mapping(e); m.HasName() {
		return m.TargetName
	}
	return e.Name()
}

func (t *Translator) TranslateClass(c entry.ClassEntry) entry.ClassEntry {
	if c.IsZero() {
		return c
	}
	name := t.TranslateName(c)
	if outer, ok := c.OuterClass(); ok {
		return entry.NewClass(t.TranslateClass(outer).FullName() + "$" + name)
	}
	return entry.NewClass(name)
}

func (t *Translator) translateClassName(name string) string {
	return t.TranslateClass(entry.NewClass(name)).FullName()
}

func (t *Translator) TranslateTypeDescriptor(desc entry.TypeDescriptor) entry.TypeDescriptor {
	return desc.Remap(t.translateClassName)
}

func (t *Translator) TranslateMethodDescriptor(desc entry.MethodDescriptor) entry.MethodDescriptor {
	return desc.Remap(t.translateClassName)
}

func (t *Translator) TranslateField(f entry.FieldEntry) entry.FieldEntry {
	return entry.NewField(t.TranslateClass(f.Owner()), t.TranslateName(f), t.TranslateTypeDescriptor(f.Desc()))
}

func (t *Translator) TranslateMethod(m entry.MethodEntry) entry.MethodEntry {
	name := m.Name()
	if !m.IsConstructor() {
		name = t.TranslateName(m)
	}
	return entry.NewMethod(t.TranslateClass(m.Owner()), name, t.TranslateMethodDescriptor(m.Desc()))
}

// Translate returns the deobfuscated form of e. The name of a local
// variable is not part of the entry; use TranslateName for it.
func (t *Translator) Translate(e entry.Entry) entry.Entry {
	switch v := e.(type) {
	case entry.ClassEntry:
		return t.TranslateClass(v)
	case entry.FieldEntry:
		return t.TranslateField(v)
	case entry.MethodEntry:
		return t.TranslateMethod(v)
	case entry.LocalVariableEntry:
		return entry.NewLocalVariable(t.TranslateMethod(v.Method()), v.Index())
	}
	return e
}
