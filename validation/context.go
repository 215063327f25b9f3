package validation

import (
	"errors"
	"strings"
)

// ErrRejected is returned by Context.Err when the raised messages prevent a
// change from being applied.
var ErrRejected = errors.New("change rejected")

// Notifier receives every raised message and decides whether advisory
// messages may be ignored.
type Notifier interface {
	Notify(msg ParameterizedMessage)
	VerifyWarning(msg ParameterizedMessage) bool
}

// Context accumulates the messages raised while validating one change.
// A Context is not safe for concurrent use.
type Context struct {
	notifier Notifier
	messages []ParameterizedMessage
	seen     map[string]struct{}
}

func NewContext(notifier Notifier) *Context {
	if notifier == nil {
		notifier = DiscardNotifier{}
	}
	return &Context{
		notifier: notifier,
		seen:     make(map[string]struct{}),
	}
}

// Raise records msg unless an identical message was already raised.
func (c *Context) Raise(msg Message, args ...any) {
	pm := ParameterizedMessage{Message: msg, Args: args}
	key := msg.Key + "\x00" + pm.Text()
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.messages = append(c.messages, pm)
	c.notifier.Notify(pm)
}

// CanProceed is false when an error was raised or when the notifier refuses
// any of the warnings.
func (c *Context) CanProceed() bool {
	proceed := true
	for _, m := range c.messages {
		switch m.Severity() {
		case Error:
			proceed = false
		case Warning:
			if !c.notifier.VerifyWarning(m) {
				proceed = false
			}
		}
	}
	return proceed
}

func (c *Context) Messages() []ParameterizedMessage {
	out := make([]ParameterizedMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Context) HasErrors() bool {
	for _, m := range c.messages {
		if m.Severity() == Error {
			return true
		}
	}
	return false
}

// Has reports whether a message with the same key was raised.
func (c *Context) Has(msg Message) bool {
	for _, m := range c.messages {
		if m.Message.Key == msg.Key {
			return true
		}
	}
	return false
}

// Err wraps ErrRejected with the blocking messages, or returns nil if the
// change can proceed.
func (c *Context) Err() error {
	if c.CanProceed() {
		return nil
	}
	var texts []string
	for _, m := range c.messages {
		if m.Severity() != Info {
			texts = append(texts, m.String())
		}
	}
	return &RejectedError{Reasons: texts}
}

func (c *Context) Reset() {
	c.messages = nil
	c.seen = make(map[string]struct{})
}

type RejectedError struct {
	Reasons []string
}

func (e *RejectedError) Error() string {
	return ErrRejected.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *RejectedError) Unwrap() error { return ErrRejected }
