package classfile

import (
	"encoding/binary"
	"fmt"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
)

const (
	opTableSwitch     = 0xaa
	opLookupSwitch    = 0xab
	opGetStatic       = 0xb2
	opPutStatic       = 0xb3
	opGetField        = 0xb4
	opPutField        = 0xb5
	opInvokeVirtual   = 0xb6
	opInvokeSpecial   = 0xb7
	opInvokeStatic    = 0xb8
	opInvokeInterface = 0xb9
	opInvokeDynamic   = 0xba
	opNew             = 0xbb
	opANewArray       = 0xbd
	opCheckCast       = 0xc0
	opInstanceOf      = 0xc1
	opWide            = 0xc4
	opIinc            = 0x84
)

const lambdaMetafactory = "java/lang/invoke/LambdaMetafactory"

// insnLength returns the size of the instruction at pc, operands included.
func insnLength(code []byte, pc int) (int, error) {
	op := code[pc]
	switch {
	case op <= 0x0f:
		return 1, nil
	case op == 0x10, op == 0x12: // bipush, ldc
		return 2, nil
	case op == 0x11, op == 0x13, op == 0x14: // sipush, ldc_w, ldc2_w
		return 3, nil
	case op >= 0x15 && op <= 0x19: // loads with an index
		return 2, nil
	case op >= 0x1a && op <= 0x35:
		return 1, nil
	case op >= 0x36 && op <= 0x3a: // stores with an index
		return 2, nil
	case op >= 0x3b && op <= 0x83:
		return 1, nil
	case op == opIinc:
		return 3, nil
	case op >= 0x85 && op <= 0x98:
		return 1, nil
	case op >= 0x99 && op <= 0xa8: // branches, goto, jsr
		return 3, nil
	case op == 0xa9: // ret
		return 2, nil
	case op == opTableSwitch:
		base := pc + 1 + (4-(pc+1)%4)%4
		if base+12 > len(code) {
			break
		}
		low := int32(binary.BigEndian.Uint32(code[base+4:]))
		high := int32(binary.BigEndian.Uint32(code[base+8:]))
		if high < low {
			break
		}
		return base - pc + 12 + 4*int(high-low+1), nil
	case op == opLookupSwitch:
		base := pc + 1 + (4-(pc+1)%4)%4
		if base+8 > len(code) {
			break
		}
		pairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if pairs < 0 {
			break
		}
		return base - pc + 8 + 8*int(pairs), nil
	case op >= 0xac && op <= 0xb1: // returns
		return 1, nil
	case op >= opGetStatic && op <= opInvokeStatic:
		return 3, nil
	case op == opInvokeInterface, op == opInvokeDynamic:
		return 5, nil
	case op == opNew, op == opANewArray, op == opCheckCast, op == opInstanceOf:
		return 3, nil
	case op == 0xbc: // newarray
		return 2, nil
	case op == 0xbe, op == 0xbf, op == 0xc2, op == 0xc3:
		return 1, nil
	case op == opWide:
		if pc+1 < len(code) && code[pc+1] == opIinc {
			return 6, nil
		}
		return 4, nil
	case op == 0xc5: // multianewarray
		return 4, nil
	case op == 0xc6, op == 0xc7: // ifnull, ifnonnull
		return 3, nil
	case op == 0xc8, op == 0xc9: // goto_w, jsr_w
		return 5, nil
	}
	return 0, fmt.Errorf("%w: bad opcode %#x at %d", ErrMalformedClass, op, pc)
}

// decodeCode extracts the references made by one method body.
func (cr *classReader) decodeCode(code []byte) ([]index.Instruction, error) {
	var insns []index.Instruction
	for pc := 0; pc < len(code); {
		n, err := insnLength(code, pc)
		if err != nil {
			return nil, err
		}
		if pc+n > len(code) {
			return nil, fmt.Errorf("%w: instruction at %d runs past the code", ErrMalformedClass, pc)
		}
		insn, ok, err := cr.decodeInsn(code[pc:pc+n])
		if err != nil {
			return nil, err
		}
		if ok {
			insns = append(insns, insn)
		}
		pc += n
	}
	return insns, nil
}

func (cr *classReader) decodeInsn(insn []byte) (index.Instruction, bool, error) {
	op := insn[0]
	switch op {
	case opGetStatic, opPutStatic, opGetField, opPutField:
		owner, name, desc, err := cr.pool.memberRef(binary.BigEndian.Uint16(insn[1:]))
		if err != nil {
			return index.Instruction{}, false, err
		}
		target := index.NoTarget()
		if op == opGetField || op == opPutField {
			target = index.ClassTarget(entry.NewClass(owner))
		}
		return index.Instruction{Kind: index.FieldInsn, Owner: owner, Name: name, Desc: desc, Target: target}, true, nil

	case opInvokeVirtual, opInvokeSpecial, opInvokeStatic, opInvokeInterface:
		owner, name, desc, err := cr.pool.memberRef(binary.BigEndian.Uint16(insn[1:]))
		if err != nil {
			return index.Instruction{}, false, err
		}
		var target index.ReferenceTargetType
		switch {
		case op == opInvokeStatic:
			target = index.NoTarget()
		case op == opInvokeSpecial && name == "<init>":
			target = index.UninitializedTarget()
		case op == opInvokeSpecial:
			target = index.ClassTarget(entry.NewClass(cr.name))
		default:
			target = index.ClassTarget(entry.NewClass(owner))
		}
		return index.Instruction{Kind: index.MethodInsn, Owner: owner, Name: name, Desc: desc, Target: target}, true, nil

	case opNew, opANewArray, opCheckCast, opInstanceOf:
		class, err := cr.pool.className(binary.BigEndian.Uint16(insn[1:]))
		if err != nil {
			return index.Instruction{}, false, err
		}
		return index.Instruction{Kind: index.TypeInsn, Owner: class, Target: index.NoTarget()}, true, nil

	case opInvokeDynamic:
		return cr.decodeLambda(binary.BigEndian.Uint16(insn[1:]))
	}
	return index.Instruction{}, false, nil
}

// decodeLambda turns an invokedynamic bootstrapped by the lambda
// metafactory into a lambda reference. Other call sites are ignored.
func (cr *classReader) decodeLambda(i uint16) (index.Instruction, bool, error) {
	c, err := cr.pool.get(i, tagInvokeDynamic)
	if err != nil {
		return index.Instruction{}, false, err
	}
	if int(c.a) >= len(cr.bootstraps) {
		return index.Instruction{}, false, fmt.Errorf("%w: bootstrap method %d out of range", ErrMalformedClass, c.a)
	}
	bsm := cr.bootstraps[c.a]
	handle, err := cr.pool.methodHandle(bsm.ref)
	if err != nil {
		return index.Instruction{}, false, err
	}
	if handle.Owner != lambdaMetafactory || len(bsm.args) < 3 {
		return index.Instruction{}, false, nil
	}

	invokedName, invokedType, err := cr.pool.nameAndType(c.b)
	if err != nil {
		return index.Instruction{}, false, err
	}
	sam, err := cr.pool.methodType(bsm.args[0])
	if err != nil {
		return index.Instruction{}, false, err
	}
	impl, err := cr.pool.methodHandle(bsm.args[1])
	if err != nil {
		return index.Instruction{}, false, err
	}
	instantiated, err := cr.pool.methodType(bsm.args[2])
	if err != nil {
		return index.Instruction{}, false, err
	}

	target := index.NoTarget()
	if impl.Tag != index.HandleInvokeStatic {
		if args := entry.NewMethodDescriptor(invokedType).Args(); len(args) > 0 {
			if class, ok := args[0].ClassType(); ok {
				target = index.ClassTarget(class)
			}
		}
	}
	return index.Instruction{
		Kind:   index.LambdaInsn,
		Target: target,
		Lambda: &index.LambdaNode{
			InvokedName:            invokedName,
			InvokedType:            invokedType,
			SamMethodType:          sam,
			Impl:                   impl,
			InstantiatedMethodType: instantiated,
		},
	}, true, nil
}
