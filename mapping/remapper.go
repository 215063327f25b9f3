package mapping

import (
	"fmt"
	"sync"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/validation"
)

// EntryRemapper owns the obfuscated to deobfuscated mappings of a session.
// Renames are validated and committed under an exclusive lock, so at most
// one rename is in flight; queries share a read lock.
type EntryRemapper struct {
	mu sync.RWMutex

	index      *index.JarIndex
	resolver   *index.EntryResolver
	mappings   *DeltaTrackingTree[EntryMapping]
	translator *Translator
	validator  *MappingValidator
}

// NewEntryRemapper starts a session over idx. A nil tree starts without
// mappings; otherwise the tree is used, and mutated, in place.
func NewEntryRemapper(idx *index.JarIndex, mappings EntryTree[EntryMapping]) (*EntryRemapper, error) {
	if err := idx.Err(); err != nil {
		return nil, fmt.Errorf("new remapper: %w", err)
	}
	tracked := NewDeltaTrackingTree(mappings)
	translator := NewTranslator(tracked, idx.Resolver())
	return &EntryRemapper{
		index:      idx,
		resolver:   idx.Resolver(),
		mappings:   tracked,
		translator: translator,
		validator:  NewMappingValidator(idx, translator),
	}, nil
}

// PutMapping validates and commits m for e. Problems are raised on vc; when
// vc cannot proceed nothing is written. The error is only set for a
// malformed mapping.
func (r *EntryRemapper) PutMapping(vc *validation.Context, e entry.Entry, m EntryMapping) error {
	return r.putMapping(vc, e, m, false)
}

// ValidatePutMapping raises the problems PutMapping would, without writing.
func (r *EntryRemapper) ValidatePutMapping(vc *validation.Context, e entry.Entry, m EntryMapping) error {
	return r.putMapping(vc, e, m, true)
}

func (r *EntryRemapper) putMapping(vc *validation.Context, e entry.Entry, m EntryMapping, validateOnly bool) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old := r.translator.Mapping(e)
	if old == m {
		return nil
	}
	renaming := old.TargetName != m.TargetName

	var targets []entry.Entry
	if renaming {
		targets = r.resolveAllRoots(e)
	} else {
		targets = r.resolver.ResolveEntry(e, index.ResolveClosest)
	}

	if renaming && m.HasName() {
		for _, target := range targets {
			r.validator.ValidateRename(vc, target, m.TargetName)
		}
	}
	if m.HasJavadoc() && m.Javadoc != old.Javadoc {
		entry.ValidateJavadoc(vc, m.Javadoc)
	}

	if validateOnly || !vc.CanProceed() {
		return nil
	}
	for _, target := range targets {
		r.write(target, m)
	}
	return nil
}

func (r *EntryRemapper) write(e entry.Entry, m EntryMapping) {
	if m.IsDefault() {
		r.mappings.Remove(e)
		return
	}
	r.mappings.Insert(e, m)
}

// resolveAllRoots extends ROOT resolution of a method with the roots
// reached through descendants that join it with another hierarchy: a class
// implementing two interfaces that declare the same method keeps both in
// sync.
func (r *EntryRemapper) resolveAllRoots(e entry.Entry) []entry.Entry {
	resolved := r.resolver.ResolveEntry(e, index.ResolveRoot)
	m, ok := e.(entry.MethodEntry)
	if !ok {
		return resolved
	}

	inheritance := r.index.InheritanceIndex()
	owner := m.Owner()
	descendants := make(map[entry.ClassEntry]bool)
	ordered := inheritance.Descendants(owner)
	for _, d := range ordered {
		descendants[d] = true
	}
	known := make(map[entry.ClassEntry]bool)
	for _, p := range inheritance.Parents(owner) {
		known[p] = true
	}

	out := make([]entry.Entry, 0, len(resolved))
	seen := make(map[entry.Entry]bool)
	add := func(es []entry.Entry) {
		for _, x := range es {
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		}
	}
	add(resolved)

	for _, d := range ordered {
		parents := inheritance.Parents(d)
		if len(parents) < 2 {
			continue
		}
		joins := false
		for _, p := range parents {
			if p == owner || descendants[p] || known[p] {
				continue
			}
			known[p] = true
			joins = true
		}
		if joins {
			add(r.resolver.ResolveEntry(m.WithOwner(d), index.ResolveRoot))
		}
	}
	return out
}

// Insert stores m for e without validation, for mapping readers.
func (r *EntryRemapper) Insert(e entry.Entry, m EntryMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.write(e, m)
	return nil
}

// DeobfMapping returns the mapping stored for e itself, or Default.
func (r *EntryRemapper) DeobfMapping(e entry.Entry) EntryMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.mappings.Get(e); ok {
		return m
	}
	return Default
}

// ResolvedMapping returns the mapping in effect for e after resolution.
func (r *EntryRemapper) ResolvedMapping(e entry.Entry) EntryMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translator.Mapping(e)
}

func (r *EntryRemapper) Deobfuscate(e entry.Entry) entry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translator.Translate(e)
}

func (r *EntryRemapper) DeobfuscateClass(c entry.ClassEntry) entry.ClassEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translator.TranslateClass(c)
}

func (r *EntryRemapper) DeobfuscateMethodDescriptor(desc entry.MethodDescriptor) entry.MethodDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translator.TranslateMethodDescriptor(desc)
}

func (r *EntryRemapper) TranslateName(e entry.Entry) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translator.TranslateName(e)
}

// ObfEntries lists the entries that hold a mapping.
func (r *EntryRemapper) ObfEntries() []entry.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mappings.AllEntries()
}

func (r *EntryRemapper) TakeMappingDelta() MappingDelta[EntryMapping] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mappings.TakeDelta()
}

func (r *EntryRemapper) IsDirty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mappings.IsDirty()
}

// Mappings returns the underlying tree. Callers must not write to it while
// the remapper is in use.
func (r *EntryRemapper) Mappings() EntryTree[EntryMapping] { return r.mappings }

func (r *EntryRemapper) JarIndex() *index.JarIndex { return r.index }
