package vberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GameMessage(t *testing.T) {
	cause := errors.New("no such item")

	testCases := []struct {
		name          string
		err           error
		expect        string
		expectRefusal bool
	}{
		{
			name:          "refusal",
			err:           Refusal("You can't do that.", ""),
			expect:        "You can't do that.",
			expectRefusal: true,
		},
		{
			name:          "formatted refusal",
			err:           Refusalf("You do not have a %s.", "lamp"),
			expect:        "You do not have a lamp.",
			expectRefusal: true,
		},
		{
			name:          "wrapped in another error",
			err:           fmt.Errorf("handler: %w", WrapRefusal(cause, "There is no lamp here.", "lamp missing")),
			expect:        "There is no lamp here.",
			expectRefusal: true,
		},
		{
			name:   "plain error",
			err:    cause,
			expect: "no such item",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, GameMessage(tc.err))
			assert.Equal(tc.expectRefusal, IsRefusal(tc.err))
		})
	}
}

func Test_WrapRefusal_unwraps(t *testing.T) {
	assert := assert.New(t)
	cause := errors.New("cause")

	err := WrapRefusal(cause, "No.", "")

	assert.ErrorIs(err, cause)
	assert.Equal(`command refused: "No."`, err.Error())
}
