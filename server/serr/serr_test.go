package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		expectMsg string
		expectIs  []error
		expectNot []error
	}{
		{
			name:      "message only",
			err:       New("bad thing"),
			expectMsg: "bad thing",
			expectNot: []error{ErrNotFound},
		},
		{
			name:      "message and cause",
			err:       New("no such session", ErrNotFound),
			expectMsg: "no such session: " + ErrNotFound.Error(),
			expectIs:  []error{ErrNotFound},
			expectNot: []error{ErrDB},
		},
		{
			name:      "nil causes dropped",
			err:       New("password cannot be blank", nil, ErrBadArgument),
			expectMsg: "password cannot be blank: " + ErrBadArgument.Error(),
			expectIs:  []error{ErrBadArgument},
		},
		{
			name:      "wrapped DB error",
			err:       WrapDB("", errors.New("disk full")),
			expectMsg: "disk full",
			expectIs:  []error{ErrDB},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expectMsg, tc.err.Error())
			for _, target := range tc.expectIs {
				assert.ErrorIs(tc.err, target)
			}
			for _, target := range tc.expectNot {
				assert.NotErrorIs(tc.err, target)
			}
		})
	}
}
