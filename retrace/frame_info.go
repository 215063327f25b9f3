package retrace

// FrameInfo is what a FramePattern captured from one line. Class and type
// names are external, e.g. "com.example.Foo$Bar". LineNumber is 0 when the
// line carries none.
type FrameInfo struct {
	ClassName  string
	SourceFile string
	LineNumber int
	Type       string
	FieldName  string
	MethodName string
	Arguments  string
}
