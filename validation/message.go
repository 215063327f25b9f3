// Package validation collects the diagnostics produced while checking a
// proposed mapping change.
package validation

import (
	"fmt"
)

type Severity int

const (
	// Error blocks the change.
	Error Severity = iota
	// Warning is advisory; the change proceeds only if the notifier agrees.
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

type Message struct {
	Severity Severity
	Key      string
	Format   string
}

var (
	NonUniqueName        = Message{Error, "non_unique_name", "name %q is already used"}
	NonUniqueNameClass   = Message{Error, "non_unique_name_class", "name %q is already used in %s"}
	EmptyName            = Message{Error, "empty_name", "name must not be empty"}
	IllegalIdentifier    = Message{Error, "illegal_identifier", "%q is not a valid identifier: unexpected %q at index %d"}
	ReservedIdentifier   = Message{Error, "reserved_identifier", "%q is a reserved word"}
	IllegalDocCommentEnd = Message{Error, "illegal_doc_comment_end", "documentation must not contain \"*/\""}
	InvalidPackageName   = Message{Error, "invalid_package_name", "%q is not a valid package name"}
	IllegalInnerName     = Message{Error, "illegal_inner_name", "inner class name %q must not contain a package"}

	ShadowedName      = Message{Warning, "shadowed_name", "name %q shadows an inherited member"}
	ShadowedNameClass = Message{Warning, "shadowed_name_class", "name %q shadows a member of %s"}
	NewPackage        = Message{Warning, "new_package", "package %q does not exist yet and will be created"}
)

// ParameterizedMessage is a Message bound to its format arguments.
type ParameterizedMessage struct {
	Message Message
	Args    []any
}

func (m ParameterizedMessage) Severity() Severity { return m.Message.Severity }

func (m ParameterizedMessage) Text() string {
	return fmt.Sprintf(m.Message.Format, m.Args...)
}

func (m ParameterizedMessage) String() string {
	return m.Message.Severity.String() + ": " + m.Text()
}
