// Package serr has the errors the Verbly server's service layer returns.
// Callers tell them apart with errors.Is against the sentinel values here.
package serr

import (
	"errors"
	"strings"
)

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occurred with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrSessionOver    = errors.New("the game session has ended")
)

// Error is a message with any number of causes. errors.Is matches it against
// each cause. Create one with New or WrapDB.
type Error struct {
	msg   string
	cause []error
}

// Error gives the message joined to the message of the first cause.
func (e Error) Error() string {
	parts := make([]string, 0, 2)
	if e.msg != "" {
		parts = append(parts, e.msg)
	}
	if len(e.cause) > 0 {
		parts = append(parts, e.cause[0].Error())
	}
	return strings.Join(parts, ": ")
}

func (e Error) Unwrap() []error {
	if len(e.cause) == 0 {
		return nil
	}
	return e.cause
}

// New creates an Error. Nil causes are left out.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	for _, c := range causes {
		if c != nil {
			e.cause = append(e.cause, c)
		}
	}
	return e
}

// WrapDB is New with err and ErrDB as the causes. msg may be empty.
func WrapDB(msg string, err error) Error {
	return New(msg, err, ErrDB)
}
