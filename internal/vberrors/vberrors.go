// Package vberrors has errors that carry a message meant for the player as
// well as a technical message meant for logs.
package vberrors

import (
	"errors"
	"fmt"
)

// playerError is an error caused by the player asking for something that
// cannot be done right now. It holds both the text to show the player and a
// technical description.
type playerError struct {
	msg   string
	human string
	wrap  error
}

func (e *playerError) Error() string {
	return e.msg
}

// GameMessage gives the message to display in-game.
func (e *playerError) GameMessage() string {
	return e.human
}

func (e *playerError) Unwrap() error {
	return e.wrap
}

// Refusal returns an error that tells the player game why their command was
// refused. If technical is empty, one is generated from game.
func Refusal(game, technical string) error {
	return WrapRefusal(nil, game, technical)
}

// Refusalf is like Refusal but builds the player message from a format string.
func Refusalf(gameFormat string, a ...interface{}) error {
	return Refusal(fmt.Sprintf(gameFormat, a...), "")
}

// WrapRefusal is like Refusal but the returned error also wraps e.
func WrapRefusal(e error, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("command refused: %q", game)
	}
	return &playerError{
		msg:   technical,
		human: game,
		wrap:  e,
	}
}

// IsRefusal returns whether err is or wraps an error created by one of the
// Refusal functions.
func IsRefusal(err error) bool {
	var pe *playerError
	return errors.As(err, &pe)
}

// GameMessage gets the message to display to the player for err. If err is
// or wraps a refusal, its player message is given; otherwise err.Error() is.
func GameMessage(err error) string {
	var pe *playerError
	if errors.As(err, &pe) {
		return pe.GameMessage()
	}
	return err.Error()
}
