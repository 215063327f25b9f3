package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/swind/go-jdeobf/entry"
)

var ErrClassNotFound = errors.New("class not found")

// ClassProvider supplies the structural facts of a class by internal name.
// Implementations must be safe for concurrent use: IndexJar reads classes
// from several goroutines.
type ClassProvider interface {
	Class(name string) (*ClassNode, error)
}

// ClassNode holds everything the indexers need to know about one class.
// Method bodies are reduced to the member and type references they contain.
type ClassNode struct {
	Name            string
	Access          entry.AccessFlags
	Signature       string
	SuperName       string
	Interfaces      []string
	Fields          []FieldNode
	Methods         []MethodNode
	InnerClasses    []InnerClassNode
	EnclosingMethod *EnclosingMethodNode
}

type FieldNode struct {
	Access    entry.AccessFlags
	Name      string
	Desc      string
	Signature string
}

type MethodNode struct {
	Access       entry.AccessFlags
	Name         string
	Desc         string
	Signature    string
	Instructions []Instruction
}

type InnerClassNode struct {
	Name      string
	OuterName string
	InnerName string
	Access    entry.AccessFlags
}

type EnclosingMethodNode struct {
	Owner string
	// Name and Desc are empty when the class is enclosed by an initializer.
	Name string
	Desc string
}

type InstructionKind int

const (
	FieldInsn InstructionKind = iota
	MethodInsn
	TypeInsn
	LambdaInsn
)

// Instruction is a reference made by a method body. Target describes the
// receiver the reference is made through.
type Instruction struct {
	Kind   InstructionKind
	Owner  string
	Name   string
	Desc   string
	Target ReferenceTargetType
	Lambda *LambdaNode
}

// Handle kinds, as used by CONSTANT_MethodHandle.
const (
	HandleGetField         = 1
	HandleGetStatic        = 2
	HandlePutField         = 3
	HandlePutStatic        = 4
	HandleInvokeVirtual    = 5
	HandleInvokeStatic     = 6
	HandleInvokeSpecial    = 7
	HandleNewInvokeSpecial = 8
	HandleInvokeInterface  = 9
)

type Handle struct {
	Tag   int
	Owner string
	Name  string
	Desc  string
}

func (h Handle) IsField() bool { return h.Tag >= HandleGetField && h.Tag <= HandlePutStatic }

// LambdaNode describes an invokedynamic call bootstrapped by the lambda
// metafactory.
type LambdaNode struct {
	InvokedName            string
	InvokedType            string
	SamMethodType          string
	Impl                   Handle
	InstantiatedMethodType string
}

// MapClassProvider serves class nodes from memory.
type MapClassProvider map[string]*ClassNode

func NewMapClassProvider(nodes ...*ClassNode) MapClassProvider {
	p := make(MapClassProvider, len(nodes))
	for _, node := range nodes {
		p[node.Name] = node
	}
	return p
}

func (p MapClassProvider) Class(name string) (*ClassNode, error) {
	node, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return node, nil
}

func (p MapClassProvider) ClassNames() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
