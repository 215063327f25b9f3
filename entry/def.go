package entry

// ClassDef is the indexed definition of a class.
type ClassDef struct {
	Entry      ClassEntry
	Access     AccessFlags
	Signature  string
	SuperClass ClassEntry // zero for java/lang/Object and module-info
	Interfaces []ClassEntry
}

func (d ClassDef) HasSuperClass() bool { return !d.SuperClass.IsZero() }

type FieldDef struct {
	Entry     FieldEntry
	Access    AccessFlags
	Signature string
}

type MethodDef struct {
	Entry     MethodEntry
	Access    AccessFlags
	Signature string
}

// Parameters lists the local variable slots that hold the method's
// arguments. Instance methods start at slot 1; long and double arguments
// take two slots.
func (d MethodDef) Parameters() []LocalVariableEntry {
	index := 0
	if !d.Access.IsStatic() {
		index = 1
	}
	args := d.Entry.Desc().Args()
	params := make([]LocalVariableEntry, 0, len(args))
	for _, arg := range args {
		params = append(params, NewLocalVariable(d.Entry, index))
		index += arg.Size()
	}
	return params
}
