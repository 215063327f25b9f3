package mapping

import (
	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
	"github.com/swind/go-jdeobf/validation"
)

// MappingValidator checks proposed names against the names already in use
// around an entry.
type MappingValidator struct {
	index      *index.JarIndex
	translator *Translator
}

func NewMappingValidator(idx *index.JarIndex, translator *Translator) *MappingValidator {
	return &MappingValidator{index: idx, translator: translator}
}

// ValidateRename raises every problem with renaming e to name. Only the
// first uniqueness problem among the equivalent entries is reported.
func (v *MappingValidator) ValidateRename(vc *validation.Context, e entry.Entry, name string) {
	if _, ok := e.(entry.ClassEntry); ok {
		if pkg := entry.PackageOf(name); pkg != "" && !v.knownPackages()[pkg] {
			vc.Raise(validation.NewPackage, pkg)
		}
	}

	uniquenessIssue := false
	for _, eq := range v.index.Resolver().ResolveEquivalentEntries(e) {
		entry.ValidateName(vc, eq, name)
		if !uniquenessIssue {
			uniquenessIssue = v.validateUnique(vc, eq, name)
		}
	}
}

// knownPackages collects the packages of the obfuscated and deobfuscated
// class names.
func (v *MappingValidator) knownPackages() map[string]bool {
	packages := make(map[string]bool)
	for _, c := range v.index.EntryIndex().Classes() {
		packages[c.Package()] = true
		packages[v.translator.TranslateClass(c).Package()] = true
	}
	return packages
}

type sibling struct {
	obf   entry.Entry
	deobf entry.Entry
}

func (v *MappingValidator) siblings(e entry.Entry) []sibling {
	var candidates []entry.Entry
	if c, ok := e.(entry.ClassEntry); ok {
		if outer, ok := c.OuterClass(); ok {
			candidates = v.index.ChildrenOf(outer)
			// member classes inherited by the outer class or by c itself
			inheritance := v.index.InheritanceIndex()
			ancestors := append(inheritance.Ancestors(outer), inheritance.Ancestors(c)...)
			for _, ancestor := range ancestors {
				candidates = append(candidates, memberClasses(v.index.ChildrenOf(ancestor))...)
			}
		} else {
			for _, other := range v.index.EntryIndex().Classes() {
				if !other.IsInnerClass() && other.Package() == c.Package() {
					candidates = append(candidates, other)
				}
			}
		}
	} else {
		containing := e.ContainingClass()
		candidates = append(candidates, v.index.ChildrenOf(containing)...)
		for _, ancestor := range v.index.InheritanceIndex().Ancestors(containing) {
			candidates = append(candidates, v.index.ChildrenOf(ancestor)...)
		}
	}

	exclude := make(map[entry.Entry]bool)
	for _, eq := range v.index.Resolver().ResolveEquivalentEntries(e) {
		exclude[eq] = true
	}
	exclude[e] = true

	out := make([]sibling, 0, len(candidates))
	for _, s := range candidates {
		if exclude[s] {
			continue
		}
		exclude[s] = true
		out = append(out, sibling{obf: s, deobf: v.translator.Translate(s)})
	}
	return out
}

func memberClasses(children []entry.Entry) []entry.Entry {
	var out []entry.Entry
	for _, child := range children {
		if _, ok := child.(entry.ClassEntry); ok {
			out = append(out, child)
		}
	}
	return out
}

// validateUnique reports whether an error or warning was raised.
func (v *MappingValidator) validateUnique(vc *validation.Context, e entry.Entry, name string) bool {
	if local, ok := e.(entry.LocalVariableEntry); ok {
		return v.validateParameterUnique(vc, local, name)
	}

	translated := v.translator.Translate(e)
	siblings := v.siblings(e)

	if conflict, ok := v.findConflict(translated, e, siblings, name); ok {
		raiseConflict(vc, conflict.deobf.Parent(), name, false)
		return true
	}
	if shadowed, ok := v.findShadowed(translated, e, siblings, name); ok {
		raiseConflict(vc, shadowed.deobf.Parent(), name, true)
		return true
	}
	return false
}

// validateParameterUnique compares name with the names of the other
// parameters of the same method.
func (v *MappingValidator) validateParameterUnique(vc *validation.Context, local entry.LocalVariableEntry, name string) bool {
	def, ok := v.index.EntryIndex().MethodDefinition(local.Method())
	if !ok {
		return false
	}
	for _, param := range def.Parameters() {
		if param == local {
			continue
		}
		if v.translator.TranslateName(param) == name {
			raiseConflict(vc, v.translator.Translate(local.Method()), name, false)
			return true
		}
	}
	return false
}

func raiseConflict(vc *validation.Context, parent entry.Entry, name string, shadow bool) {
	switch {
	case parent != nil && shadow:
		vc.Raise(validation.ShadowedNameClass, name, parent)
	case parent != nil:
		vc.Raise(validation.NonUniqueNameClass, name, parent)
	case shadow:
		vc.Raise(validation.ShadowedName, name)
	default:
		vc.Raise(validation.NonUniqueName, name)
	}
}

func doesNotMatch(translated, obf, deobfSibling, obfSibling entry.Entry) bool {
	return translated != obfSibling && translated != deobfSibling && obf != deobfSibling && obf != obfSibling
}

func (v *MappingValidator) findConflict(translated, obf entry.Entry, siblings []sibling, name string) (sibling, bool) {
	for _, s := range siblings {
		clash := (translated.CanConflictWith(s.deobf) && s.deobf.Name() == name && doesNotMatch(translated, obf, s.deobf, s.obf)) ||
			(translated.CanConflictWith(s.obf) && s.obf.Name() == name && doesNotMatch(translated, obf, s.obf, s.obf))
		if !clash {
			continue
		}
		if obf.Kind() == entry.KindMethod && v.exemptMethods(translated, obf, s) {
			continue
		}
		return s, true
	}
	return sibling{}, false
}

// exemptMethods: methods of different classes that are both static or both
// private never clash.
func (v *MappingValidator) exemptMethods(translated, obf entry.Entry, s sibling) bool {
	if translated.Parent() == s.deobf.Parent() || obf.Parent() == s.obf.Parent() {
		return false
	}
	entries := v.index.EntryIndex()
	access, ok := entries.EntryAccess(obf)
	siblingAccess, siblingOK := entries.EntryAccess(s.obf)
	if !ok || !siblingOK {
		return false
	}
	return (access.IsStatic() && siblingAccess.IsStatic()) || (access.IsPrivate() && siblingAccess.IsPrivate())
}

// findShadowed looks for a static, non-private member of an ancestor that
// the renamed entry would hide. Fields hide regardless of their own
// staticness; methods only hide when static themselves.
func (v *MappingValidator) findShadowed(translated, obf entry.Entry, siblings []sibling, name string) (sibling, bool) {
	ancestors := make(map[entry.ClassEntry]bool)
	for _, ancestor := range v.index.InheritanceIndex().Ancestors(obf.ContainingClass()) {
		ancestors[ancestor] = true
		ancestors[v.translator.TranslateClass(ancestor)] = true
	}

	entries := v.index.EntryIndex()
	access, hasAccess := entries.EntryAccess(obf)
	if obf.Kind() == entry.KindMethod && hasAccess && !access.IsStatic() {
		return sibling{}, false
	}

	for _, s := range siblings {
		if !translated.CanShadow(s.deobf) && !translated.CanShadow(s.obf) {
			continue
		}
		if !ancestors[s.obf.ContainingClass()] && !ancestors[s.deobf.ContainingClass()] {
			continue
		}
		if siblingAccess, ok := entries.EntryAccess(s.obf); ok && (siblingAccess.IsPrivate() || !siblingAccess.IsStatic()) {
			continue
		}
		if s.deobf.Name() == name || s.obf.Name() == name {
			return s, true
		}
	}
	return sibling{}, false
}
