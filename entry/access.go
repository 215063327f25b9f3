package entry

import "strings"

// AccessFlags is the raw JVM access_flags bitset of a class or member.
type AccessFlags uint16

const (
	AccPublic     AccessFlags = 0x0001
	AccPrivate    AccessFlags = 0x0002
	AccProtected  AccessFlags = 0x0004
	AccStatic     AccessFlags = 0x0008
	AccFinal      AccessFlags = 0x0010
	AccSuper      AccessFlags = 0x0020
	AccBridge     AccessFlags = 0x0040
	AccVarargs    AccessFlags = 0x0080
	AccNative     AccessFlags = 0x0100
	AccInterface  AccessFlags = 0x0200
	AccAbstract   AccessFlags = 0x0400
	AccStrict     AccessFlags = 0x0800
	AccSynthetic  AccessFlags = 0x1000
	AccAnnotation AccessFlags = 0x2000
	AccEnum       AccessFlags = 0x4000

	visibilityMask = AccPublic | AccPrivate | AccProtected
)

func (a AccessFlags) Has(flag AccessFlags) bool { return a&flag != 0 }

func (a AccessFlags) IsPublic() bool    { return a.Has(AccPublic) }
func (a AccessFlags) IsPrivate() bool   { return a.Has(AccPrivate) }
func (a AccessFlags) IsProtected() bool { return a.Has(AccProtected) }
func (a AccessFlags) IsPackage() bool   { return a&visibilityMask == 0 }
func (a AccessFlags) IsStatic() bool    { return a.Has(AccStatic) }
func (a AccessFlags) IsFinal() bool     { return a.Has(AccFinal) }
func (a AccessFlags) IsSynthetic() bool { return a.Has(AccSynthetic) }
func (a AccessFlags) IsBridge() bool    { return a.Has(AccBridge) }
func (a AccessFlags) IsInterface() bool { return a.Has(AccInterface) }
func (a AccessFlags) IsAbstract() bool  { return a.Has(AccAbstract) }
func (a AccessFlags) IsEnum() bool      { return a.Has(AccEnum) }

// WithVisibility replaces the visibility bits.
func (a AccessFlags) WithVisibility(visibility AccessFlags) AccessFlags {
	return a&^visibilityMask | visibility&visibilityMask
}

func (a AccessFlags) String() string {
	var parts []string
	switch {
	case a.IsPublic():
		parts = append(parts, "public")
	case a.IsProtected():
		parts = append(parts, "protected")
	case a.IsPrivate():
		parts = append(parts, "private")
	default:
		parts = append(parts, "package")
	}
	if a.IsStatic() {
		parts = append(parts, "static")
	}
	if a.IsFinal() {
		parts = append(parts, "final")
	}
	if a.IsAbstract() {
		parts = append(parts, "abstract")
	}
	if a.IsSynthetic() {
		parts = append(parts, "synthetic")
	}
	return strings.Join(parts, " ")
}
