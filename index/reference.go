package index

import (
	"github.com/swind/go-jdeobf/entry"
)

type TargetKind int

const (
	// TargetNone is used for static references.
	TargetNone TargetKind = iota
	// TargetUninitialized is a constructor call on a freshly allocated object.
	TargetUninitialized
	// TargetClassType is a reference through a receiver of a known class.
	TargetClassType
)

// ReferenceTargetType classifies the receiver a reference is made through.
type ReferenceTargetType struct {
	Kind  TargetKind
	Class entry.ClassEntry
}

func NoTarget() ReferenceTargetType { return ReferenceTargetType{Kind: TargetNone} }

func UninitializedTarget() ReferenceTargetType {
	return ReferenceTargetType{Kind: TargetUninitialized}
}

func ClassTarget(class entry.ClassEntry) ReferenceTargetType {
	return ReferenceTargetType{Kind: TargetClassType, Class: class}
}

func (t ReferenceTargetType) String() string {
	switch t.Kind {
	case TargetUninitialized:
		return "uninitialized"
	case TargetClassType:
		return t.Class.FullName()
	}
	return "none"
}

// EntryReference is a use of Entry from inside Context, which is the method
// or field whose code or descriptor makes the reference.
type EntryReference struct {
	Entry      entry.Entry
	Context    entry.Entry
	TargetType ReferenceTargetType
}

func (r EntryReference) String() string {
	if r.Context == nil {
		return r.Entry.String()
	}
	return r.Entry.String() + " <- " + r.Context.String()
}

// Lambda is a decoded lambda metafactory call site. Impl is the method or
// field the functional object forwards to.
type Lambda struct {
	InvokedName            string
	InvokedType            entry.MethodDescriptor
	SamMethodType          entry.MethodDescriptor
	Impl                   entry.Entry
	InstantiatedMethodType entry.MethodDescriptor
}
