package index

import (
	"errors"
	"fmt"

	"github.com/swind/go-jdeobf/entry"
)

var (
	// ErrSelfInterface marks corrupt input: a class listing itself as one of
	// its own interfaces.
	ErrSelfInterface = errors.New("class cannot be its own interface")
	// ErrIndexUnusable is returned by queries on a JarIndex whose build was
	// aborted.
	ErrIndexUnusable = errors.New("index is unusable after a failed build")
	ErrUnknownMethod = errors.New("method is not indexed")
)

// IndexingError is a fatal fault raised while building the index.
type IndexingError struct {
	Stage string
	Class string
	Err   error
}

func (e *IndexingError) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("indexing %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("indexing %s of %s: %v", e.Stage, e.Class, e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// Indexer receives the facts of every indexed class in a fixed stage order.
// Embed BaseIndexer to get no-op hooks for the stages an indexer ignores.
type Indexer interface {
	IndexClass(def entry.ClassDef) error
	IndexField(def entry.FieldDef)
	IndexMethod(def entry.MethodDef)
	IndexEnclosingMethod(def entry.ClassDef, data EnclosingMethodData)

	IndexMethodReference(caller entry.MethodDef, ref entry.MethodEntry, target ReferenceTargetType)
	IndexFieldReference(caller entry.MethodDef, ref entry.FieldEntry, target ReferenceTargetType)
	IndexClassReference(caller entry.MethodDef, ref entry.ClassEntry, target ReferenceTargetType)
	IndexLambda(caller entry.MethodDef, lambda Lambda, target ReferenceTargetType)

	// ProcessIndex runs once every class has been visited.
	ProcessIndex(index *JarIndex)
}

type BaseIndexer struct{}

func (BaseIndexer) IndexClass(entry.ClassDef) error                         { return nil }
func (BaseIndexer) IndexField(entry.FieldDef)                               {}
func (BaseIndexer) IndexMethod(entry.MethodDef)                             {}
func (BaseIndexer) IndexEnclosingMethod(entry.ClassDef, EnclosingMethodData) {}

func (BaseIndexer) IndexMethodReference(entry.MethodDef, entry.MethodEntry, ReferenceTargetType) {}
func (BaseIndexer) IndexFieldReference(entry.MethodDef, entry.FieldEntry, ReferenceTargetType)   {}
func (BaseIndexer) IndexClassReference(entry.MethodDef, entry.ClassEntry, ReferenceTargetType)   {}
func (BaseIndexer) IndexLambda(entry.MethodDef, Lambda, ReferenceTargetType)                     {}

func (BaseIndexer) ProcessIndex(*JarIndex) {}

// ProgressListener is told about the named steps of a long running build.
type ProgressListener interface {
	Init(total int, title string)
	Step(n int, message string)
}

type noProgress struct{}

func (noProgress) Init(int, string) {}
func (noProgress) Step(int, string) {}
