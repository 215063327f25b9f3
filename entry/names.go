package entry

import (
	"strings"
	"unicode"

	"github.com/swind/go-jdeobf/validation"
)

var reservedWords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {}, "synchronized": {},
	"this": {}, "throw": {}, "throws": {}, "transient": {}, "try": {}, "void": {},
	"volatile": {}, "while": {}, "true": {}, "false": {}, "null": {}, "_": {},
}

func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

// IsIdentifier reports whether name is a legal, non-reserved Java identifier.
func IsIdentifier(name string) bool {
	if name == "" || IsReserved(name) {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentifierStart(r) || !isIdentifierPart(r) {
			return false
		}
	}
	return true
}

// ValidateName checks that name is usable as the new name of e.
func ValidateName(vc *validation.Context, e Entry, name string) {
	if c, ok := e.(ClassEntry); ok {
		if c.IsInnerClass() {
			if strings.ContainsRune(name, '/') {
				vc.Raise(validation.IllegalInnerName, name)
				return
			}
			validateIdentifier(vc, name)
			return
		}
		validateClassName(vc, name)
		return
	}
	validateIdentifier(vc, name)
}

func validateClassName(vc *validation.Context, name string) {
	if name == "" {
		vc.Raise(validation.EmptyName)
		return
	}
	parts := strings.Split(name, "/")
	for _, pkg := range parts[:len(parts)-1] {
		if !IsIdentifier(pkg) {
			vc.Raise(validation.InvalidPackageName, PackageOf(name))
			return
		}
	}
	validateIdentifier(vc, parts[len(parts)-1])
}

func validateIdentifier(vc *validation.Context, name string) {
	if name == "" {
		vc.Raise(validation.EmptyName)
		return
	}
	for i, r := range name {
		if i == 0 && !isIdentifierStart(r) || !isIdentifierPart(r) {
			vc.Raise(validation.IllegalIdentifier, name, string(r), i)
			return
		}
	}
	if IsReserved(name) {
		vc.Raise(validation.ReservedIdentifier, name)
	}
}

// ValidateJavadoc rejects documentation that would terminate the comment
// it is emitted into.
func ValidateJavadoc(vc *validation.Context, javadoc string) {
	if strings.Contains(javadoc, "*/") {
		vc.Raise(validation.IllegalDocCommentEnd)
	}
}
