package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ValidateScope(t *testing.T) {
	testCases := []struct {
		name      string
		scope     string
		expectErr bool
	}{
		{name: "single level", scope: "cave"},
		{name: "nested", scope: "cave.pool.bottom"},
		{name: "empty", scope: "", expectErr: true},
		{name: "leading separator", scope: ".cave", expectErr: true},
		{name: "trailing separator", scope: "cave.", expectErr: true},
		{name: "double separator", scope: "cave..pool", expectErr: true},
		{name: "only separator", scope: ".", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := ValidateScope(tc.scope)

			if tc.expectErr {
				assert.ErrorIs(err, ErrInvalidScope)
				return
			}
			assert.NoError(err)
		})
	}
}

func Test_IsActive(t *testing.T) {
	testCases := []struct {
		name         string
		patternScope string
		current      string
		expect       bool
	}{
		{name: "unscoped, no current", patternScope: "", current: "", expect: true},
		{name: "unscoped, any current", patternScope: "", current: "a.b", expect: true},
		{name: "same", patternScope: "a", current: "a", expect: true},
		{name: "child", patternScope: "a", current: "a.b", expect: true},
		{name: "grandchild", patternScope: "a", current: "a.b.c", expect: true},
		{name: "no current", patternScope: "a", current: "", expect: false},
		{name: "sibling", patternScope: "a", current: "b", expect: false},
		{name: "string prefix only", patternScope: "a", current: "ab", expect: false},
		{name: "reversed", patternScope: "a", current: "b.a", expect: false},
		{name: "parent of pattern", patternScope: "a.b", current: "a", expect: false},
		{name: "nested pattern", patternScope: "a.b", current: "a.b.c", expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, IsActive(tc.patternScope, tc.current))
		})
	}
}

func Test_Depth(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, Depth(""))
	assert.Equal(1, Depth("a"))
	assert.Equal(2, Depth("a.b"))
	assert.Equal(3, Depth("a.b.c"))
}

func Test_Scope(t *testing.T) {
	assert := assert.New(t)
	var sc Scope

	cur, ok := sc.Get()
	assert.False(ok)
	assert.Equal("", cur)
	assert.Equal(0, sc.Depth())

	assert.NoError(sc.Set("ship.cabin"))
	cur, ok = sc.Get()
	assert.True(ok)
	assert.Equal("ship.cabin", cur)
	assert.Equal(2, sc.Depth())

	// rejected values leave the prior scope in place
	err := sc.Set("ship..deck")
	assert.ErrorIs(err, ErrInvalidScope)
	assert.Equal("ship.cabin", sc.Current())

	sc.Clear()
	_, ok = sc.Get()
	assert.False(ok)
	assert.Equal("(none)", sc.String())
}

func Test_NewScope(t *testing.T) {
	assert := assert.New(t)

	sc, err := NewScope("")
	assert.NoError(err)
	assert.Equal("", sc.Current())

	sc, err = NewScope("hall")
	assert.NoError(err)
	assert.Equal("hall", sc.Current())

	_, err = NewScope("hall.")
	assert.ErrorIs(err, ErrInvalidScope)

	var nilScope *Scope
	assert.Equal("", nilScope.Current())
}
