package proguard

import (
	"io"
	"strings"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/mapping"
)

// Mappings holds a mapping file keyed by obfuscated entries. The file maps
// original names to obfuscated ones; the index only knows the latter.
type Mappings struct {
	classes []ClassMapping
	fields  []FieldMapping
	methods []MethodMapping

	obfuscatedClass map[string]string
}

// Read loads a whole mapping file. Member descriptors can only be built once
// every class is known, so nothing is converted until later.
func Read(r io.Reader) (*Mappings, error) {
	m := &Mappings{obfuscatedClass: make(map[string]string)}
	if err := NewReader(r).Pump(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mappings) ProcessClass(c ClassMapping) bool {
	m.classes = append(m.classes, c)
	m.obfuscatedClass[InternalName(c.Original)] = InternalName(c.Obfuscated)
	return true
}

func (m *Mappings) ProcessField(f FieldMapping) {
	m.fields = append(m.fields, f)
}

func (m *Mappings) ProcessMethod(mm MethodMapping) {
	m.methods = append(m.methods, mm)
}

// obfuscate maps an original internal class name to its obfuscated name.
// Classes the file does not mention were not renamed.
func (m *Mappings) obfuscate(internal string) string {
	if obf, ok := m.obfuscatedClass[internal]; ok {
		return obf
	}
	return internal
}

func classMappingName(c entry.ClassEntry, original string) string {
	if c.IsInnerClass() {
		if i := strings.LastIndexByte(original, '$'); i >= 0 {
			return original[i+1:]
		}
		return entry.NewClass(original).SimpleName()
	}
	return original
}

// Entries calls fn for each obfuscated entry whose name the file changes,
// with its original name. Inlined frames and constructors are skipped.
func (m *Mappings) Entries(fn func(e entry.Entry, name string) error) error {
	for _, c := range m.classes {
		class := entry.NewClass(InternalName(c.Obfuscated))
		name := classMappingName(class, InternalName(c.Original))
		if name == class.Name() {
			continue
		}
		if err := fn(class, name); err != nil {
			return err
		}
	}

	for _, f := range m.fields {
		if f.Original == f.Obfuscated {
			continue
		}
		owner := entry.NewClass(InternalName(f.Class.Obfuscated))
		desc := entry.NewTypeDescriptor(TypeDescriptor(f.Type, m.obfuscate))
		if err := fn(entry.NewField(owner, f.Obfuscated, desc), f.Original); err != nil {
			return err
		}
	}

	seen := make(map[entry.MethodEntry]bool)
	for _, mm := range m.methods {
		if mm.Inlined() || mm.Original == mm.Obfuscated || strings.HasPrefix(mm.Original, "<") {
			continue
		}
		owner := entry.NewClass(InternalName(mm.Class.Obfuscated))
		desc := entry.NewMethodDescriptor(MethodDescriptor(mm.ReturnType, mm.Arguments, m.obfuscate))
		method := entry.NewMethod(owner, mm.Obfuscated, desc)
		if seen[method] {
			continue
		}
		seen[method] = true
		if err := fn(method, mm.Original); err != nil {
			return err
		}
	}
	return nil
}

// Tree converts the file into a mapping tree.
func (m *Mappings) Tree() *mapping.HashEntryTree[mapping.EntryMapping] {
	tree := mapping.NewHashEntryTree[mapping.EntryMapping]()
	_ = m.Entries(func(e entry.Entry, name string) error {
		tree.Insert(e, mapping.NewEntryMapping(name))
		return nil
	})
	return tree
}

// Apply stores the file's names in a remapper without validation and
// returns how many entries it named.
func (m *Mappings) Apply(r *mapping.EntryRemapper) (int, error) {
	n := 0
	err := m.Entries(func(e entry.Entry, name string) error {
		if err := r.Insert(e, mapping.NewEntryMapping(name)); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func (m *Mappings) Classes() []ClassMapping { return m.classes }
func (m *Mappings) Methods() []MethodMapping { return m.methods }
