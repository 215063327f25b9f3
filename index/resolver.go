package index

import (
	"fmt"

	"github.com/swind/go-jdeobf/entry"
)

// ResolutionStrategy selects which declaration an inherited member reference
// resolves to.
type ResolutionStrategy int

const (
	// ResolveRoot climbs to the topmost declaration that the member
	// overrides.
	ResolveRoot ResolutionStrategy = iota
	// ResolveClosest stops at the nearest declaration at or above the
	// member's owner.
	ResolveClosest
)

func (s ResolutionStrategy) String() string {
	if s == ResolveClosest {
		return "closest"
	}
	return "root"
}

// EntryResolver maps references onto declarations using the indices of a
// JarIndex. It is safe for concurrent use once the index is built.
type EntryResolver struct {
	index *JarIndex
}

func NewEntryResolver(index *JarIndex) *EntryResolver {
	return &EntryResolver{index: index}
}

// ResolveEntry returns the declarations e resolves to. The result is never
// empty: an entry that cannot be resolved resolves to itself.
func (r *EntryResolver) ResolveEntry(e entry.Entry, strategy ResolutionStrategy) []entry.Entry {
	if e == nil {
		return nil
	}
	child, ok := entry.ClassChild(e)
	if !ok {
		return []entry.Entry{e}
	}

	access, exists := r.index.EntryIndex().EntryAccess(child)
	if exists {
		if strategy == ResolveClosest {
			return []entry.Entry{e}
		}
		if access.IsPrivate() || access.IsStatic() || child.Kind() == entry.KindField {
			return []entry.Entry{e}
		}
	}

	w := &ancestryWalk{
		resolver:   r,
		strategy:   strategy,
		skipStatic: exists,
		memo:       make(map[entry.Entry][]entry.Entry),
	}
	resolved := w.resolve(child)
	if len(resolved) == 0 {
		return []entry.Entry{e}
	}
	if child == e {
		return resolved
	}
	out := newOrderedSet[entry.Entry]()
	for _, rc := range resolved {
		out.Add(entry.ReplaceAncestor(e, child, rc))
	}
	return out.Values()
}

// ResolveFirstEntry returns the first declaration e resolves to, or e.
func (r *EntryResolver) ResolveFirstEntry(e entry.Entry, strategy ResolutionStrategy) entry.Entry {
	resolved := r.ResolveEntry(e, strategy)
	if len(resolved) == 0 {
		return e
	}
	return resolved[0]
}

// ResolveFirstReference resolves both the referenced entry and its context.
func (r *EntryResolver) ResolveFirstReference(ref EntryReference, strategy ResolutionStrategy) EntryReference {
	out := ref
	out.Entry = r.ResolveFirstEntry(ref.Entry, strategy)
	if ref.Context != nil {
		out.Context = r.ResolveFirstEntry(ref.Context, strategy)
	}
	return out
}

// ancestryWalk climbs the hierarchy above one class child. Results are
// memoized per entry; an entry whose walk is still in progress resolves to
// nothing, which breaks inheritance cycles.
type ancestryWalk struct {
	resolver   *EntryResolver
	strategy   ResolutionStrategy
	skipStatic bool
	memo       map[entry.Entry][]entry.Entry
}

func (w *ancestryWalk) resolve(child entry.Entry) []entry.Entry {
	if resolved, done := w.memo[child]; done {
		return resolved
	}
	w.memo[child] = nil
	resolved := w.climb(child)
	w.memo[child] = resolved
	return resolved
}

func (w *ancestryWalk) climb(child entry.Entry) []entry.Entry {
	index := w.resolver.index
	owner := child.ContainingClass()

	if m, ok := child.(entry.MethodEntry); ok {
		bridge, ok := index.BridgeMethodIndex().BridgeFromSpecialized(m)
		if ok && bridge != m && bridge.Owner() == owner {
			if resolved := w.resolve(bridge); len(resolved) > 0 {
				return resolved
			}
			return []entry.Entry{bridge}
		}
	}

	out := newOrderedSet[entry.Entry]()
	for _, parent := range index.InheritanceIndex().Parents(owner) {
		parentEntry := child.WithParent(parent)
		if w.strategy == ResolveClosest {
			out.Add(w.closest(parentEntry)...)
		} else {
			out.Add(w.root(parentEntry)...)
		}
	}
	return out.Values()
}

func (w *ancestryWalk) root(parentEntry entry.Entry) []entry.Entry {
	resolved := w.resolve(parentEntry)
	if len(resolved) > 0 {
		return resolved
	}
	access, ok := w.resolver.index.EntryIndex().EntryAccess(parentEntry)
	if ok && !access.IsPrivate() && !(w.skipStatic && access.IsStatic()) {
		return []entry.Entry{parentEntry}
	}
	return nil
}

func (w *ancestryWalk) closest(parentEntry entry.Entry) []entry.Entry {
	access, ok := w.resolver.index.EntryIndex().EntryAccess(parentEntry)
	if ok && !access.IsPrivate() {
		return []entry.Entry{parentEntry}
	}
	return w.resolve(parentEntry)
}

// ResolveEquivalentEntries returns every entry that has to be renamed along
// with e: for members of a method, the same member of each equivalent
// method. Other entries are only equivalent to themselves.
func (r *EntryResolver) ResolveEquivalentEntries(e entry.Entry) []entry.Entry {
	m, ok := entry.FindMethod(e)
	if !ok || !r.index.EntryIndex().HasMethod(m) {
		return []entry.Entry{e}
	}
	methods, err := r.ResolveEquivalentMethods(m)
	if err != nil || len(methods) == 0 {
		return []entry.Entry{e}
	}
	out := newOrderedSet[entry.Entry]()
	for _, eq := range methods {
		out.Add(entry.ReplaceAncestor(e, m, eq))
	}
	return out.Values()
}

// ResolveEquivalentMethods returns the methods that must share m's name:
// the overrides above and below it, the implementations reachable from
// them, and their bridges.
func (r *EntryResolver) ResolveEquivalentMethods(m entry.MethodEntry) ([]entry.MethodEntry, error) {
	if err := r.index.Err(); err != nil {
		return nil, err
	}
	access, ok := r.index.EntryIndex().MethodAccess(m)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, m)
	}
	if !canInherit(m, access) {
		return []entry.MethodEntry{m}, nil
	}
	w := &equivalenceWalk{
		resolver:       r,
		result:         newOrderedSet[entry.MethodEntry](),
		inherited:      make(map[entry.MethodEntry]bool),
		implementation: make(map[entry.MethodEntry]bool),
	}
	w.walkInheritance(r.BuildMethodInheritance(m), 0)
	return w.result.Values(), nil
}

func canInherit(m entry.MethodEntry, access entry.AccessFlags) bool {
	return !m.IsConstructor() && !access.IsPrivate() && !access.IsStatic() && !access.IsFinal()
}

type equivalenceWalk struct {
	resolver       *EntryResolver
	result         *orderedSet[entry.MethodEntry]
	inherited      map[entry.MethodEntry]bool
	implementation map[entry.MethodEntry]bool
}

func (w *equivalenceWalk) method(m entry.MethodEntry) {
	access, ok := w.resolver.index.EntryIndex().MethodAccess(m)
	if !ok {
		return
	}
	if !canInherit(m, access) {
		w.result.Add(m)
		return
	}
	w.walkInheritance(w.resolver.BuildMethodInheritance(m), 0)
}

func (w *equivalenceWalk) walkInheritance(tree *MethodTree, id int) {
	node := tree.Nodes[id]
	m := node.Method
	if w.inherited[m] {
		return
	}
	w.inherited[m] = true

	if access, ok := w.resolver.index.EntryIndex().MethodAccess(m); ok && canInherit(m, access) {
		w.result.Add(m)
	}
	w.followBridges(m)
	for _, impl := range w.resolver.BuildMethodImplementations(m) {
		w.walkImplementations(impl, 0)
	}
	for _, child := range node.Children {
		w.walkInheritance(tree, child)
	}
}

func (w *equivalenceWalk) walkImplementations(tree *MethodTree, id int) {
	node := tree.Nodes[id]
	m := node.Method
	if w.implementation[m] {
		return
	}
	w.implementation[m] = true

	if access, ok := w.resolver.index.EntryIndex().MethodAccess(m); ok && !access.IsPrivate() && !access.IsStatic() {
		w.result.Add(m)
		w.followBridges(m)
	}
	for _, child := range node.Children {
		w.walkImplementations(tree, child)
	}
}

func (w *equivalenceWalk) followBridges(m entry.MethodEntry) {
	bridges := w.resolver.index.BridgeMethodIndex()
	seen := map[entry.MethodEntry]bool{m: true}
	for bridge, ok := bridges.BridgeFromSpecialized(m); ok && !seen[bridge]; bridge, ok = bridges.BridgeFromSpecialized(bridge) {
		seen[bridge] = true
		w.method(bridge)
	}
}
