package classfile

import (
	"bytes"
	"encoding/binary"
)

// classBuilder assembles class files for tests.
type classBuilder struct {
	pool   bytes.Buffer
	next   uint16
	utf8s  map[string]uint16
	access uint16
	this   uint16
	super  uint16
	ifaces []uint16
	fields []member
	methds []member
	attrs  []attribute
	bsms   []bootstrapMethod
}

type attribute struct {
	name uint16
	body []byte
}

type member struct {
	access uint16
	name   uint16
	desc   uint16
	attrs  []attribute
}

func newClassBuilder(name, super string, interfaces ...string) *classBuilder {
	b := &classBuilder{next: 1, utf8s: make(map[string]uint16), access: 0x0021}
	b.this = b.class(name)
	if super != "" {
		b.super = b.class(super)
	}
	for _, iface := range interfaces {
		b.ifaces = append(b.ifaces, b.class(iface))
	}
	return b
}

func u2(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u4(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func (b *classBuilder) add(tag byte, body ...[]byte) uint16 {
	i := b.next
	b.next++
	b.pool.WriteByte(tag)
	for _, part := range body {
		b.pool.Write(part)
	}
	return i
}

func (b *classBuilder) utf8(s string) uint16 {
	if i, ok := b.utf8s[s]; ok {
		return i
	}
	i := b.add(tagUtf8, u2(uint16(len(s))), []byte(s))
	b.utf8s[s] = i
	return i
}

func (b *classBuilder) rawUtf8(data []byte) uint16 {
	return b.add(tagUtf8, u2(uint16(len(data))), data)
}

func (b *classBuilder) class(name string) uint16 {
	return b.add(tagClass, u2(b.utf8(name)))
}

func (b *classBuilder) nameAndType(name, desc string) uint16 {
	return b.add(tagNameAndType, u2(b.utf8(name)), u2(b.utf8(desc)))
}

func (b *classBuilder) ref(tag byte, owner, name, desc string) uint16 {
	return b.add(tag, u2(b.class(owner)), u2(b.nameAndType(name, desc)))
}

func (b *classBuilder) fieldRef(owner, name, desc string) uint16 {
	return b.ref(tagFieldref, owner, name, desc)
}

func (b *classBuilder) methodRef(owner, name, desc string) uint16 {
	return b.ref(tagMethodref, owner, name, desc)
}

func (b *classBuilder) long(v uint64) uint16 {
	i := b.add(tagLong, u4(uint32(v>>32)), u4(uint32(v)))
	b.next++
	return i
}

func (b *classBuilder) methodHandle(kind byte, ref uint16) uint16 {
	return b.add(tagMethodHandle, []byte{kind}, u2(ref))
}

func (b *classBuilder) methodType(desc string) uint16 {
	return b.add(tagMethodType, u2(b.utf8(desc)))
}

// bootstrap registers a bootstrap method and returns its index.
func (b *classBuilder) bootstrap(handle uint16, args ...uint16) uint16 {
	b.bsms = append(b.bsms, bootstrapMethod{ref: handle, args: args})
	return uint16(len(b.bsms) - 1)
}

func (b *classBuilder) invokeDynamic(bsm uint16, name, desc string) uint16 {
	return b.add(tagInvokeDynamic, u2(bsm), u2(b.nameAndType(name, desc)))
}

func (b *classBuilder) attr(name string, body []byte) attribute {
	return attribute{name: b.utf8(name), body: body}
}

func (b *classBuilder) signature(sig string) attribute {
	return b.attr("Signature", u2(b.utf8(sig)))
}

func (b *classBuilder) code(code ...byte) attribute {
	var body bytes.Buffer
	body.Write(u2(4))
	body.Write(u2(4))
	body.Write(u4(uint32(len(code))))
	body.Write(code)
	body.Write(u2(0)) // exception table
	body.Write(u2(0)) // attributes
	return b.attr("Code", body.Bytes())
}

func (b *classBuilder) field(access uint16, name, desc string, attrs ...attribute) {
	b.fields = append(b.fields, member{access: access, name: b.utf8(name), desc: b.utf8(desc), attrs: attrs})
}

func (b *classBuilder) method(access uint16, name, desc string, attrs ...attribute) {
	b.methds = append(b.methds, member{access: access, name: b.utf8(name), desc: b.utf8(desc), attrs: attrs})
}

func writeAttributes(out *bytes.Buffer, attrs []attribute) {
	out.Write(u2(uint16(len(attrs))))
	for _, a := range attrs {
		out.Write(u2(a.name))
		out.Write(u4(uint32(len(a.body))))
		out.Write(a.body)
	}
}

func (b *classBuilder) bytes() []byte {
	attrs := b.attrs
	if len(b.bsms) > 0 {
		var body bytes.Buffer
		body.Write(u2(uint16(len(b.bsms))))
		for _, bsm := range b.bsms {
			body.Write(u2(bsm.ref))
			body.Write(u2(uint16(len(bsm.args))))
			for _, arg := range bsm.args {
				body.Write(u2(arg))
			}
		}
		attrs = append(attrs, b.attr("BootstrapMethods", body.Bytes()))
	}

	var out bytes.Buffer
	out.Write(u4(magic))
	out.Write(u2(0))
	out.Write(u2(52))
	out.Write(u2(b.next))
	out.Write(b.pool.Bytes())
	out.Write(u2(b.access))
	out.Write(u2(b.this))
	out.Write(u2(b.super))
	out.Write(u2(uint16(len(b.ifaces))))
	for _, i := range b.ifaces {
		out.Write(u2(i))
	}
	for _, members := range [][]member{b.fields, b.methds} {
		out.Write(u2(uint16(len(members))))
		for _, m := range members {
			out.Write(u2(m.access))
			out.Write(u2(m.name))
			out.Write(u2(m.desc))
			writeAttributes(&out, m.attrs)
		}
	}
	writeAttributes(&out, attrs)
	return out.Bytes()
}

// op encodes an instruction with a constant pool operand.
func op(code byte, i uint16) []byte {
	return append([]byte{code}, u2(i)...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
