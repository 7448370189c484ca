package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCommand is matched (via errors.Is) by every error that is
	// caused by a command being declared incorrectly, whether that is a bad
	// template or a handler whose parameters do not fit the template.
	ErrInvalidCommand = errors.New("command is not defined correctly")

	// ErrInvalidScope is matched (via errors.Is) by every error caused by a
	// malformed scope value.
	ErrInvalidScope = errors.New("scope is not valid")

	// ErrQuit is returned by the builtin quit command. Whatever is running the
	// read loop should stop when it sees it.
	ErrQuit = errors.New("quit requested")
)

// CompileError is returned when a template cannot be compiled into a Pattern.
// It holds the template that was given as well as a human-readable reason
// that explains which rule was broken.
type CompileError struct {
	// Template is the original template text.
	Template string

	// Token is the offending word in the template, if the problem is with a
	// specific word. It is empty otherwise.
	Token string

	// Reason is the human-readable explanation of the rule that was violated.
	Reason string

	wrap error
}

func (e *CompileError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("invalid command %q: word %q: %s", e.Template, e.Token, e.Reason)
	}
	return fmt.Sprintf("invalid command %q: %s", e.Template, e.Reason)
}

// Unwrap gives the errors that the CompileError wraps. ErrInvalidCommand is
// always one of them.
func (e *CompileError) Unwrap() []error {
	if e.wrap != nil {
		return []error{ErrInvalidCommand, e.wrap}
	}
	return []error{ErrInvalidCommand}
}

// RegistrationError is returned when a handler is registered against a pattern
// whose required arguments do not exactly equal the parameters that the
// handler declares.
type RegistrationError struct {
	// Template is the original template text of the pattern being registered.
	Template string

	// Expected is the parameter list the handler should have declared:
	// placeholder names in template order followed by bound argument names in
	// sorted order.
	Expected []string

	// Declared is the parameter list the handler actually declared.
	Declared []string

	// Reason is a human-readable explanation of what is wrong.
	Reason string
}

func (e *RegistrationError) Error() string {
	msg := fmt.Sprintf("handler has the wrong signature for %q: %s", e.Template, e.Reason)
	msg += fmt.Sprintf("\n\nThe handler parameters should be (%s)", strings.Join(e.Expected, ", "))
	return msg
}

// Unwrap returns ErrInvalidCommand so that errors.Is can be used to check for
// any kind of bad command definition.
func (e *RegistrationError) Unwrap() error {
	return ErrInvalidCommand
}

// ValidationError is returned when a scope value is rejected.
type ValidationError struct {
	// Value is the scope that was rejected.
	Value string

	// Reason is a human-readable explanation of why.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid scope %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidScope.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidScope
}
