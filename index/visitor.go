package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/swind/go-jdeobf/entry"
)

type referenceEvent struct {
	caller entry.MethodDef
	insn   Instruction
}

// classVisit holds the decoded references of one class until the reference
// stage applies them to the indexers.
type classVisit struct {
	events []referenceEvent
}

func (j *JarIndex) scanReferences(ctx context.Context, nodes []*ClassNode) ([]*classVisit, error) {
	visits := make([]*classVisit, len(nodes))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(j.parallelism)
	for n, node := range nodes {
		if node == nil {
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			visits[n] = visitClass(node)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return visits, nil
}

func visitClass(node *ClassNode) *classVisit {
	class := entry.NewClass(node.Name)
	visit := &classVisit{}
	for _, m := range node.Methods {
		caller := entry.MethodDef{
			Entry:     entry.NewMethod(class, m.Name, entry.NewMethodDescriptor(m.Desc)),
			Access:    m.Access,
			Signature: m.Signature,
		}
		for _, insn := range m.Instructions {
			// array receivers (clone, length) have no declaring class
			if insn.Kind != LambdaInsn && (insn.Owner == "" || insn.Owner[0] == '[') {
				continue
			}
			visit.events = append(visit.events, referenceEvent{caller: caller, insn: insn})
		}
	}
	return visit
}

func (v *classVisit) apply(j *JarIndex) {
	if v == nil {
		return
	}
	for _, ev := range v.events {
		insn := ev.insn
		owner := entry.NewClass(insn.Owner)
		switch insn.Kind {
		case FieldInsn:
			ref := entry.NewField(owner, insn.Name, entry.NewTypeDescriptor(insn.Desc))
			for _, indexer := range j.indexers {
				indexer.IndexFieldReference(ev.caller, ref, insn.Target)
			}
		case MethodInsn:
			ref := entry.NewMethod(owner, insn.Name, entry.NewMethodDescriptor(insn.Desc))
			for _, indexer := range j.indexers {
				indexer.IndexMethodReference(ev.caller, ref, insn.Target)
			}
		case TypeInsn:
			for _, indexer := range j.indexers {
				indexer.IndexClassReference(ev.caller, owner, insn.Target)
			}
		case LambdaInsn:
			if insn.Lambda == nil {
				continue
			}
			lambda := decodeLambda(insn.Lambda)
			for _, indexer := range j.indexers {
				indexer.IndexLambda(ev.caller, lambda, insn.Target)
			}
		}
	}
}

func decodeLambda(node *LambdaNode) Lambda {
	implOwner := entry.NewClass(node.Impl.Owner)
	var impl entry.Entry
	if node.Impl.IsField() {
		impl = entry.NewField(implOwner, node.Impl.Name, entry.NewTypeDescriptor(node.Impl.Desc))
	} else {
		impl = entry.NewMethod(implOwner, node.Impl.Name, entry.NewMethodDescriptor(node.Impl.Desc))
	}
	return Lambda{
		InvokedName:            node.InvokedName,
		InvokedType:            entry.NewMethodDescriptor(node.InvokedType),
		SamMethodType:          entry.NewMethodDescriptor(node.SamMethodType),
		Impl:                   impl,
		InstantiatedMethodType: entry.NewMethodDescriptor(node.InstantiatedMethodType),
	}
}
