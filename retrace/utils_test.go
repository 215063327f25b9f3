package retrace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsFuncWithDelims(t *testing.T) {
	s := "java.lang.NullPointerException: Attempt to invoke virtual method 'java.lang.String java.lang.Object.toString()' on a null object reference"
	expected := []string{
		"java.lang.NullPointerException:",
		" ",
		"Attempt",
		" ",
		"to",
		" ",
		"invoke",
		" ",
		"virtual",
		" ",
		"method",
		" ",
		"'java.lang.String",
		" ",
		"java.lang.Object.toString()'",
		" ",
		"on",
		" ",
		"a",
		" ",
		"null",
		" ",
		"object",
		" ",
		"reference",
	}

	actual := FieldsFuncWithDelims(s, func(r rune) bool {
		return r == ' '
	})

	assert.Equal(t, expected, actual)
}

func TestFieldsFuncWithDelimsRoundTrip(t *testing.T) {
	s := "(a.b:c) x"
	tokens := FieldsFuncWithDelims(s, isTokenDelim)
	assert.Equal(t, []string{"(", "a.b", ":", "c", ")", " ", "x"}, tokens)
	assert.Equal(t, s, strings.Join(tokens, ""))
	assert.Empty(t, FieldsFuncWithDelims("", isTokenDelim))
}

func TestSourceFileName(t *testing.T) {
	assert.Equal(t, "Foo.java", sourceFileName("com.example.Foo"))
	assert.Equal(t, "Foo.java", sourceFileName("com.example.Foo$Bar$1"))
	assert.Equal(t, "Top.java", sourceFileName("Top"))
	assert.Empty(t, sourceFileName(""))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "      xyz", trim("at a.bxyz", "at a.bc"))
	assert.Equal(t, "   ", trim("abc", "abc"))
}
