package classfile

import (
	"fmt"
	"unicode/utf16"

	"github.com/swind/go-jdeobf/index"
)

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// constant is one constant pool slot. a and b hold the indices a tag
// refers to; kind is the reference kind of a method handle.
type constant struct {
	tag  uint8
	a, b uint16
	kind uint8
	text string
}

// pool is 1-indexed; slot 0 and the slot after a long or double stay
// empty.
type pool []constant

func readPool(r *reader) (pool, error) {
	count := int(r.u2())
	p := make(pool, count)
	for i := 1; i < count; i++ {
		c := constant{tag: r.u1()}
		switch c.tag {
		case tagUtf8:
			text, err := decodeModifiedUTF8(r.bytes(int(r.u2())))
			if err != nil {
				return nil, err
			}
			c.text = text
		case tagInteger, tagFloat:
			r.skip(4)
		case tagLong, tagDouble:
			r.skip(8)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.a = r.u2()
		case tagFieldref, tagMethodref, tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			c.a, c.b = r.u2(), r.u2()
		case tagMethodHandle:
			c.kind = r.u1()
			c.a = r.u2()
		default:
			if r.err != nil {
				return nil, r.err
			}
			return nil, fmt.Errorf("%w: unknown constant tag %d at index %d", ErrMalformedClass, c.tag, i)
		}
		p[i] = c
		if c.tag == tagLong || c.tag == tagDouble {
			i++
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return p, nil
}

func (p pool) get(i uint16, tag uint8) (constant, error) {
	if i == 0 || int(i) >= len(p) {
		return constant{}, fmt.Errorf("%w: constant index %d out of range", ErrMalformedClass, i)
	}
	c := p[i]
	if c.tag != tag {
		return constant{}, fmt.Errorf("%w: constant %d has tag %d, want %d", ErrMalformedClass, i, c.tag, tag)
	}
	return c, nil
}

func (p pool) utf8(i uint16) (string, error) {
	c, err := p.get(i, tagUtf8)
	return c.text, err
}

// optionalUtf8 returns "" for index 0.
func (p pool) optionalUtf8(i uint16) (string, error) {
	if i == 0 {
		return "", nil
	}
	return p.utf8(i)
}

func (p pool) className(i uint16) (string, error) {
	c, err := p.get(i, tagClass)
	if err != nil {
		return "", err
	}
	return p.utf8(c.a)
}

func (p pool) optionalClassName(i uint16) (string, error) {
	if i == 0 {
		return "", nil
	}
	return p.className(i)
}

func (p pool) nameAndType(i uint16) (name, desc string, err error) {
	c, err := p.get(i, tagNameAndType)
	if err != nil {
		return "", "", err
	}
	if name, err = p.utf8(c.a); err != nil {
		return "", "", err
	}
	desc, err = p.utf8(c.b)
	return name, desc, err
}

// memberRef decodes a field, method or interface method reference.
func (p pool) memberRef(i uint16) (owner, name, desc string, err error) {
	if i == 0 || int(i) >= len(p) {
		return "", "", "", fmt.Errorf("%w: constant index %d out of range", ErrMalformedClass, i)
	}
	c := p[i]
	switch c.tag {
	case tagFieldref, tagMethodref, tagInterfaceMethodref:
	default:
		return "", "", "", fmt.Errorf("%w: constant %d is not a member reference", ErrMalformedClass, i)
	}
	if owner, err = p.className(c.a); err != nil {
		return "", "", "", err
	}
	name, desc, err = p.nameAndType(c.b)
	return owner, name, desc, err
}

func (p pool) methodHandle(i uint16) (index.Handle, error) {
	c, err := p.get(i, tagMethodHandle)
	if err != nil {
		return index.Handle{}, err
	}
	owner, name, desc, err := p.memberRef(c.a)
	if err != nil {
		return index.Handle{}, err
	}
	return index.Handle{Tag: int(c.kind), Owner: owner, Name: name, Desc: desc}, nil
}

func (p pool) methodType(i uint16) (string, error) {
	c, err := p.get(i, tagMethodType)
	if err != nil {
		return "", err
	}
	return p.utf8(c.a)
}

// decodeModifiedUTF8 decodes the class file flavour of UTF-8: NUL is two
// bytes and supplementary characters are encoded as surrogate pairs.
func decodeModifiedUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}

	units := make([]uint16, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c != 0 && c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xe0 == 0xc0 && i+1 < len(b):
			units = append(units, uint16(c&0x1f)<<6|uint16(b[i+1]&0x3f))
			i += 2
		case c&0xf0 == 0xe0 && i+2 < len(b):
			units = append(units, uint16(c&0x0f)<<12|uint16(b[i+1]&0x3f)<<6|uint16(b[i+2]&0x3f))
			i += 3
		default:
			return "", fmt.Errorf("%w: bad utf8 byte %#x", ErrMalformedClass, c)
		}
	}
	return string(utf16.Decode(units)), nil
}
