package index

import (
	"github.com/swind/go-jdeobf/entry"
)

// EnclosingMethodData locates a local or anonymous class. Method is zero
// when the class is declared in an initializer.
type EnclosingMethodData struct {
	Owner  entry.ClassEntry
	Method entry.MethodEntry
}

func (d EnclosingMethodData) HasMethod() bool { return !d.Method.IsZero() }

type EnclosingMethodIndex struct {
	BaseIndexer

	enclosing map[entry.ClassEntry]EnclosingMethodData
}

func NewEnclosingMethodIndex() *EnclosingMethodIndex {
	return &EnclosingMethodIndex{enclosing: make(map[entry.ClassEntry]EnclosingMethodData)}
}

func (i *EnclosingMethodIndex) IndexEnclosingMethod(def entry.ClassDef, data EnclosingMethodData) {
	i.enclosing[def.Entry] = data
}

func (i *EnclosingMethodIndex) EnclosingMethod(c entry.ClassEntry) (EnclosingMethodData, bool) {
	data, ok := i.enclosing[c]
	return data, ok
}

func (i *EnclosingMethodIndex) HasEnclosingMethod(c entry.ClassEntry) bool {
	_, ok := i.enclosing[c]
	return ok
}
