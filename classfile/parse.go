// Package classfile reads compiled classes into the structural form the
// index consumes.
package classfile

import (
	"errors"
	"fmt"

	"github.com/swind/go-jdeobf/entry"
	"github.com/swind/go-jdeobf/index"
)

var ErrMalformedClass = errors.New("malformed class file")

const magic = 0xCAFEBABE

type bootstrapMethod struct {
	ref  uint16
	args []uint16
}

type classReader struct {
	r          *reader
	pool       pool
	name       string
	bootstraps []bootstrapMethod
}

// Parse decodes a class file. Method bodies are reduced to the field,
// method, type and lambda references they make.
func Parse(data []byte) (*index.ClassNode, error) {
	r := newReader(data)
	if m := r.u4(); m != magic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, fmt.Errorf("%w: bad magic %#x", ErrMalformedClass, m)
	}
	r.skip(4) // minor and major version

	p, err := readPool(r)
	if err != nil {
		return nil, err
	}
	cr := &classReader{r: r, pool: p}
	node, codes, err := cr.readClass()
	if err != nil {
		return nil, err
	}

	for i, code := range codes {
		if code == nil {
			continue
		}
		insns, err := cr.decodeCode(code)
		if err != nil {
			return nil, fmt.Errorf("%s.%s%s: %w", node.Name, node.Methods[i].Name, node.Methods[i].Desc, err)
		}
		node.Methods[i].Instructions = insns
	}
	return node, nil
}

// readClass reads everything after the constant pool. Code attributes are
// returned raw: decoding lambdas needs the BootstrapMethods attribute, which
// follows the methods.
func (cr *classReader) readClass() (*index.ClassNode, [][]byte, error) {
	r := cr.r
	node := &index.ClassNode{Access: entry.AccessFlags(r.u2())}

	var err error
	if node.Name, err = cr.pool.className(r.u2()); err != nil {
		return nil, nil, err
	}
	cr.name = node.Name
	if node.SuperName, err = cr.pool.optionalClassName(r.u2()); err != nil {
		return nil, nil, err
	}
	for n := r.u2(); n > 0; n-- {
		iface, err := cr.pool.className(r.u2())
		if err != nil {
			return nil, nil, err
		}
		node.Interfaces = append(node.Interfaces, iface)
	}

	for n := r.u2(); n > 0 && r.err == nil; n-- {
		f, err := cr.readField()
		if err != nil {
			return nil, nil, err
		}
		node.Fields = append(node.Fields, f)
	}

	var codes [][]byte
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		m, code, err := cr.readMethod()
		if err != nil {
			return nil, nil, err
		}
		node.Methods = append(node.Methods, m)
		codes = append(codes, code)
	}

	err = cr.readAttributes(func(name string, body *reader) error {
		var err error
		switch name {
		case "Signature":
			node.Signature, err = cr.pool.utf8(body.u2())
		case "InnerClasses":
			node.InnerClasses, err = cr.readInnerClasses(body)
		case "EnclosingMethod":
			node.EnclosingMethod, err = cr.readEnclosingMethod(body)
		case "BootstrapMethods":
			cr.bootstraps = readBootstrapMethods(body)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return node, codes, r.err
}

func (cr *classReader) readMember() (access entry.AccessFlags, name, desc string, err error) {
	r := cr.r
	access = entry.AccessFlags(r.u2())
	if name, err = cr.pool.utf8(r.u2()); err != nil {
		return 0, "", "", err
	}
	desc, err = cr.pool.utf8(r.u2())
	return access, name, desc, err
}

func (cr *classReader) readField() (index.FieldNode, error) {
	access, name, desc, err := cr.readMember()
	if err != nil {
		return index.FieldNode{}, err
	}
	f := index.FieldNode{Access: access, Name: name, Desc: desc}
	err = cr.readAttributes(func(attr string, body *reader) error {
		if attr != "Signature" {
			return nil
		}
		var err error
		f.Signature, err = cr.pool.utf8(body.u2())
		return err
	})
	return f, err
}

func (cr *classReader) readMethod() (index.MethodNode, []byte, error) {
	access, name, desc, err := cr.readMember()
	if err != nil {
		return index.MethodNode{}, nil, err
	}
	m := index.MethodNode{Access: access, Name: name, Desc: desc}
	var code []byte
	err = cr.readAttributes(func(attr string, body *reader) error {
		switch attr {
		case "Signature":
			var err error
			m.Signature, err = cr.pool.utf8(body.u2())
			return err
		case "Code":
			body.skip(4) // max_stack, max_locals
			code = body.bytes(int(body.u4()))
			return body.err
		}
		return nil
	})
	return m, code, err
}

// readAttributes hands the body of each attribute to fn as its own reader,
// so fn may stop reading early.
func (cr *classReader) readAttributes(fn func(name string, body *reader) error) error {
	r := cr.r
	for n := r.u2(); n > 0 && r.err == nil; n-- {
		name, err := cr.pool.utf8(r.u2())
		if err != nil {
			return err
		}
		data := r.bytes(int(r.u4()))
		if r.err != nil {
			return r.err
		}
		body := newReader(data)
		if err := fn(name, body); err != nil {
			return err
		}
		if body.err != nil {
			return fmt.Errorf("attribute %s: %w", name, body.err)
		}
	}
	return r.err
}

func (cr *classReader) readInnerClasses(body *reader) ([]index.InnerClassNode, error) {
	var out []index.InnerClassNode
	for n := body.u2(); n > 0 && body.err == nil; n-- {
		inner, err := cr.pool.className(body.u2())
		if err != nil {
			return nil, err
		}
		outer, err := cr.pool.optionalClassName(body.u2())
		if err != nil {
			return nil, err
		}
		simple, err := cr.pool.optionalUtf8(body.u2())
		if err != nil {
			return nil, err
		}
		out = append(out, index.InnerClassNode{
			Name:      inner,
			OuterName: outer,
			InnerName: simple,
			Access:    entry.AccessFlags(body.u2()),
		})
	}
	return out, nil
}

func (cr *classReader) readEnclosingMethod(body *reader) (*index.EnclosingMethodNode, error) {
	owner, err := cr.pool.className(body.u2())
	if err != nil {
		return nil, err
	}
	em := &index.EnclosingMethodNode{Owner: owner}
	if nat := body.u2(); nat != 0 {
		if em.Name, em.Desc, err = cr.pool.nameAndType(nat); err != nil {
			return nil, err
		}
	}
	return em, nil
}

func readBootstrapMethods(body *reader) []bootstrapMethod {
	var out []bootstrapMethod
	for n := body.u2(); n > 0 && body.err == nil; n-- {
		bm := bootstrapMethod{ref: body.u2()}
		for a := body.u2(); a > 0 && body.err == nil; a-- {
			bm.args = append(bm.args, body.u2())
		}
		out = append(out, bm)
	}
	return out
}
