package index

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/swind/go-jdeobf/entry"
)

var DefaultLibraryPrefixes = []string{"java/", "javax/"}

// JarIndex builds and owns the indices of one input.
type JarIndex struct {
	entryIndex             *EntryIndex
	inheritanceIndex       *InheritanceIndex
	referenceIndex         *ReferenceIndex
	bridgeMethodIndex      *BridgeMethodIndex
	packageVisibilityIndex *PackageVisibilityIndex
	enclosingMethodIndex   *EnclosingMethodIndex
	indexers               []Indexer
	resolver               *EntryResolver

	libraryPrefixes []string
	parallelism     int
	logger          *log.Logger

	inputClasses          map[string]struct{}
	indexedClasses        map[string]struct{}
	childrenByClass       *listMultimap[entry.ClassEntry, entry.Entry]
	methodImplementations *listMultimap[string, entry.MethodEntry]

	built bool
	fault error
}

type Option func(*JarIndex)

// WithLibraryPrefixes sets the package prefixes whose classes are never
// indexed even when present in the input.
func WithLibraryPrefixes(prefixes ...string) Option {
	return func(j *JarIndex) { j.libraryPrefixes = prefixes }
}

// WithParallelism bounds the goroutines reading and scanning classes.
func WithParallelism(n int) Option {
	return func(j *JarIndex) {
		if n > 0 {
			j.parallelism = n
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(j *JarIndex) { j.logger = logger }
}

func NewJarIndex(opts ...Option) *JarIndex {
	entryIndex := NewEntryIndex()
	inheritanceIndex := NewInheritanceIndex(entryIndex)
	referenceIndex := NewReferenceIndex()
	bridgeMethodIndex := NewBridgeMethodIndex(entryIndex, inheritanceIndex, referenceIndex)
	packageVisibilityIndex := NewPackageVisibilityIndex()
	enclosingMethodIndex := NewEnclosingMethodIndex()

	j := &JarIndex{
		entryIndex:             entryIndex,
		inheritanceIndex:       inheritanceIndex,
		referenceIndex:         referenceIndex,
		bridgeMethodIndex:      bridgeMethodIndex,
		packageVisibilityIndex: packageVisibilityIndex,
		enclosingMethodIndex:   enclosingMethodIndex,
		indexers: []Indexer{
			entryIndex,
			inheritanceIndex,
			referenceIndex,
			bridgeMethodIndex,
			packageVisibilityIndex,
			enclosingMethodIndex,
		},
		libraryPrefixes:       DefaultLibraryPrefixes,
		parallelism:           runtime.GOMAXPROCS(0),
		logger:                log.Default(),
		inputClasses:          make(map[string]struct{}),
		indexedClasses:        make(map[string]struct{}),
		childrenByClass:       newListMultimap[entry.ClassEntry, entry.Entry](),
		methodImplementations: newListMultimap[string, entry.MethodEntry](),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.resolver = NewEntryResolver(j)
	return j
}

// IndexJar reads every named class from provider and builds the indices in
// four stages. A failure aborts the build and leaves the index unusable.
func (j *JarIndex) IndexJar(ctx context.Context, classNames []string, provider ClassProvider, progress ProgressListener) error {
	if j.built || j.fault != nil {
		return fmt.Errorf("index already built")
	}
	if progress == nil {
		progress = noProgress{}
	}
	for _, name := range classNames {
		j.inputClasses[name] = struct{}{}
	}

	progress.Init(4, "Indexing jar")

	progress.Step(1, "Entries")
	nodes, err := j.readClasses(ctx, classNames, provider)
	if err != nil {
		return j.abort(&IndexingError{Stage: "entries", Err: err})
	}
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if err := j.indexClassNode(node); err != nil {
			return j.abort(&IndexingError{Stage: "entries", Class: node.Name, Err: err})
		}
	}

	progress.Step(2, "References")
	visits, err := j.scanReferences(ctx, nodes)
	if err != nil {
		return j.abort(&IndexingError{Stage: "references", Err: err})
	}
	for _, visit := range visits {
		visit.apply(j)
	}

	progress.Step(3, "Bridge methods")
	j.bridgeMethodIndex.FindBridgeMethods()

	progress.Step(4, "Processing")
	for _, indexer := range j.indexers {
		indexer.ProcessIndex(j)
	}

	j.built = true
	j.logger.Debug("indexed jar",
		"classes", len(j.indexedClasses),
		"references", j.referenceIndex.Len(),
		"bridges", j.bridgeMethodIndex.Len())
	return nil
}

func (j *JarIndex) abort(err error) error {
	j.fault = err
	j.logger.Error("index build aborted", "err", err)
	return err
}

// readClasses fetches the class nodes concurrently, keeping input order.
// Library classes are skipped and left nil.
func (j *JarIndex) readClasses(ctx context.Context, classNames []string, provider ClassProvider) ([]*ClassNode, error) {
	nodes := make([]*ClassNode, len(classNames))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(j.parallelism)
	for n, name := range classNames {
		if j.isLibrary(name) {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			node, err := provider.Class(name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			nodes[n] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (j *JarIndex) isLibrary(className string) bool {
	if _, ok := j.inputClasses[className]; !ok {
		return true
	}
	for _, prefix := range j.libraryPrefixes {
		if strings.HasPrefix(className, prefix) {
			return true
		}
	}
	return false
}

func classDefOf(node *ClassNode) entry.ClassDef {
	def := entry.ClassDef{
		Entry:     entry.NewClass(node.Name),
		Access:    node.Access,
		Signature: node.Signature,
	}
	if node.SuperName != "" {
		def.SuperClass = entry.NewClass(node.SuperName)
	}
	for _, iface := range node.Interfaces {
		def.Interfaces = append(def.Interfaces, entry.NewClass(iface))
	}
	return def
}

func (j *JarIndex) indexClassNode(node *ClassNode) error {
	def := classDefOf(node)
	for _, indexer := range j.indexers {
		if err := indexer.IndexClass(def); err != nil {
			return err
		}
	}
	class := def.Entry
	j.indexedClasses[class.FullName()] = struct{}{}

	if outer, ok := class.OuterClass(); ok && !def.Access.IsSynthetic() {
		j.childrenByClass.Put(outer, class)
	}

	if em := node.EnclosingMethod; em != nil {
		data := EnclosingMethodData{Owner: entry.NewClass(em.Owner)}
		if em.Name != "" {
			data.Method = entry.NewMethod(data.Owner, em.Name, entry.NewMethodDescriptor(em.Desc))
		}
		for _, indexer := range j.indexers {
			indexer.IndexEnclosingMethod(def, data)
		}
	}

	for _, f := range node.Fields {
		fieldDef := entry.FieldDef{
			Entry:     entry.NewField(class, f.Name, entry.NewTypeDescriptor(f.Desc)),
			Access:    f.Access,
			Signature: f.Signature,
		}
		for _, indexer := range j.indexers {
			indexer.IndexField(fieldDef)
		}
		if !f.Access.IsSynthetic() {
			j.childrenByClass.Put(class, fieldDef.Entry)
		}
	}

	for _, m := range node.Methods {
		methodDef := entry.MethodDef{
			Entry:     entry.NewMethod(class, m.Name, entry.NewMethodDescriptor(m.Desc)),
			Access:    m.Access,
			Signature: m.Signature,
		}
		for _, indexer := range j.indexers {
			indexer.IndexMethod(methodDef)
		}
		if !m.Access.IsSynthetic() && m.Name != "<clinit>" {
			j.childrenByClass.Put(class, methodDef.Entry)
		}
		if !methodDef.Entry.IsConstructor() {
			j.methodImplementations.Put(class.FullName(), methodDef.Entry)
		}
	}
	return nil
}

// IsIndexed reports whether the named class went through the entry stage.
func (j *JarIndex) IsIndexed(className string) bool {
	if j.fault != nil {
		return false
	}
	_, ok := j.indexedClasses[className]
	return ok
}

// Err returns the fault that aborted the build, wrapped in ErrIndexUnusable.
func (j *JarIndex) Err() error {
	if j.fault != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnusable, j.fault)
	}
	return nil
}

// ChildrenOf lists the non-synthetic members and inner classes of c in
// declaration order. A failed build has no children.
func (j *JarIndex) ChildrenOf(c entry.ClassEntry) []entry.Entry {
	if j.fault != nil {
		return nil
	}
	return j.childrenByClass.Get(c)
}

// MethodImplementations lists the non-constructor methods declared by the
// named class.
func (j *JarIndex) MethodImplementations(className string) []entry.MethodEntry {
	if j.fault != nil {
		return nil
	}
	return j.methodImplementations.Get(className)
}

func (j *JarIndex) EntryIndex() *EntryIndex                         { return j.entryIndex }
func (j *JarIndex) InheritanceIndex() *InheritanceIndex             { return j.inheritanceIndex }
func (j *JarIndex) ReferenceIndex() *ReferenceIndex                 { return j.referenceIndex }
func (j *JarIndex) BridgeMethodIndex() *BridgeMethodIndex           { return j.bridgeMethodIndex }
func (j *JarIndex) PackageVisibilityIndex() *PackageVisibilityIndex { return j.packageVisibilityIndex }
func (j *JarIndex) EnclosingMethodIndex() *EnclosingMethodIndex     { return j.enclosingMethodIndex }
func (j *JarIndex) Resolver() *EntryResolver                        { return j.resolver }
