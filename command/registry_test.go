package command

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Registry_Register_signature(t *testing.T) {
	testCases := []struct {
		name      string
		template  string
		params    []string
		bound     Args
		expectErr bool
	}{
		{
			name:     "placeholders and bound args",
			template: "hit TARGET with WEAPON",
			params:   []string{"target", "weapon", "verb"},
			bound:    Args{"verb": "hit"},
		},
		{
			name:     "order of params does not matter",
			template: "hit TARGET with WEAPON",
			params:   []string{"verb", "weapon", "target"},
			bound:    Args{"verb": "hit"},
		},
		{
			name:     "no args at all",
			template: "look",
		},
		{
			name:      "missing bound arg",
			template:  "hit TARGET with WEAPON",
			params:    []string{"target", "weapon"},
			bound:     Args{"verb": "hit"},
			expectErr: true,
		},
		{
			name:      "extra param",
			template:  "hit TARGET with WEAPON",
			params:    []string{"target", "weapon", "verb", "force"},
			bound:     Args{"verb": "hit"},
			expectErr: true,
		},
		{
			name:      "missing placeholder",
			template:  "hit TARGET with WEAPON",
			params:    []string{"target", "verb"},
			bound:     Args{"verb": "hit"},
			expectErr: true,
		},
		{
			name:      "duplicate param",
			template:  "take ITEM",
			params:    []string{"item", "item"},
			expectErr: true,
		},
		{
			name:      "bound arg shadows placeholder",
			template:  "take ITEM",
			params:    []string{"item"},
			bound:     Args{"item": "lamp"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			r := NewRegistry(Options{})
			startLen := r.Len()
			h := Func(tc.params, func(*Scope, Args) error { return nil })

			err := r.When(tc.template, "", h, tc.bound)

			if tc.expectErr {
				assert.ErrorIs(err, ErrInvalidCommand)
				var regErr *RegistrationError
				if assert.True(errors.As(err, &regErr)) {
					assert.Equal(tc.template, regErr.Template)
				}
				assert.Equal(startLen, r.Len())
				return
			}
			assert.NoError(err)
			assert.Equal(startLen+1, r.Len())
		})
	}
}

func Test_RegistrationError_listsExpectedParams(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry(Options{})
	h := Func([]string{"target"}, func(*Scope, Args) error { return nil })

	err := r.When("hit TARGET with WEAPON", "", h, Args{"verb": "hit"})

	assert.ErrorContains(err, `"hit TARGET with WEAPON"`)
	assert.ErrorContains(err, "(target, weapon, verb)")
}

func Test_Registry_Register_rejectsBadInput(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry(Options{})

	assert.ErrorIs(r.Register(Pattern{}, Func(nil, nil), nil), ErrInvalidCommand)
	assert.ErrorIs(r.Register(MustCompile("look", ""), nil, nil), ErrInvalidCommand)
	assert.ErrorIs(r.When("Look", "", Func(nil, nil), nil), ErrInvalidCommand)
	assert.ErrorIs(r.When("look", "a.", Func(nil, nil), nil), ErrInvalidScope)
}

// recorder registers handlers that note which registration ran.
type recorder struct {
	ran  string
	args Args
}

func (rec *recorder) handler(name string, params ...string) Handler {
	return Func(params, func(_ *Scope, args Args) error {
		rec.ran = name
		rec.args = args
		return nil
	})
}

func Test_Registry_Dispatch_scopeShadowing(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(Options{})
	require.NoError(t, r.When("north", "", rec.handler("plain", "dir"), Args{"dir": "north"}))
	require.NoError(t, r.When("north", "confused", rec.handler("confused", "dir"), Args{"dir": "south"}))
	require.NoError(t, r.When("north", "confused.really", rec.handler("really", "dir"), Args{"dir": "cauliflower"}))

	testCases := []struct {
		name      string
		scope     string
		expectRan string
		expectDir string
	}{
		{name: "no scope", scope: "", expectRan: "plain", expectDir: "north"},
		{name: "confused", scope: "confused", expectRan: "confused", expectDir: "south"},
		{name: "really confused", scope: "confused.really", expectRan: "really", expectDir: "cauliflower"},
		{name: "unrelated scope", scope: "calm", expectRan: "plain", expectDir: "north"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			sc, err := NewScope(tc.scope)
			require.NoError(t, err)
			*rec = recorder{}

			out, err := r.Dispatch(sc, "north")

			assert.NoError(err)
			assert.True(out.Matched)
			assert.Equal(tc.expectRan, rec.ran)
			assert.Equal(Args{"dir": tc.expectDir}, rec.args)
			assert.Equal(Args{"dir": tc.expectDir}, out.Args)
		})
	}
}

func Test_Registry_Dispatch_registrationOrderAmongEqualDepth(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	r := NewRegistry(Options{})
	assert.NoError(r.When("take ITEM", "", rec.handler("first", "item"), nil))
	assert.NoError(r.When("take ITEM", "", rec.handler("second", "item"), nil))

	out, err := r.Dispatch(&Scope{}, "Take the LAMP")

	assert.NoError(err)
	assert.Equal("first", rec.ran)
	assert.Equal(Args{"item": "the lamp"}, rec.args)
	assert.Equal("take ITEM", out.Pattern.Original())
}

func Test_Registry_Dispatch_mergesBoundArgs(t *testing.T) {
	assert := assert.New(t)
	rec := &recorder{}
	r := NewRegistry(Options{})
	assert.NoError(r.When("hit TARGET with WEAPON", "", rec.handler("hit", "target", "weapon", "verb"), Args{"verb": "hit"}))

	_, err := r.Dispatch(nil, "hit the troll with a rubber chicken")

	assert.NoError(err)
	assert.Equal(Args{"target": "the troll", "weapon": "a rubber chicken", "verb": "hit"}, rec.args)
}

func Test_Registry_Dispatch_noMatch(t *testing.T) {
	assert := assert.New(t)
	var unmatched []string
	r := NewRegistry(Options{
		NoMatch: func(line string) error {
			unmatched = append(unmatched, line)
			return nil
		},
	})
	assert.NoError(r.When("dance", "ballroom", Func(nil, func(*Scope, Args) error { return nil }), nil))

	out, err := r.Dispatch(&Scope{}, "Dance  wildly")
	assert.NoError(err)
	assert.False(out.Matched)

	out, err = r.Dispatch(&Scope{}, "dance")
	assert.NoError(err)
	assert.False(out.Matched)

	assert.Equal([]string{"Dance  wildly", "dance"}, unmatched)
}

func Test_Registry_Dispatch_blankLineIgnored(t *testing.T) {
	assert := assert.New(t)
	called := false
	r := NewRegistry(Options{NoMatch: func(string) error { called = true; return nil }})

	out, err := r.Dispatch(&Scope{}, "   ")

	assert.NoError(err)
	assert.False(out.Matched)
	assert.False(called)
}

func Test_Registry_Dispatch_handlerErrorPropagates(t *testing.T) {
	assert := assert.New(t)
	boom := errors.New("boom")
	r := NewRegistry(Options{})
	assert.NoError(r.When("explode", "", Func(nil, func(*Scope, Args) error { return boom }), nil))

	out, err := r.Dispatch(&Scope{}, "explode")

	assert.Same(boom, err)
	assert.True(out.Matched)
}

func Test_Registry_Dispatch_handlerCanChangeScope(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry(Options{})
	assert.NoError(r.When("enter", "", Func(nil, func(sc *Scope, _ Args) error { return sc.Set("inside") }), nil))
	assert.NoError(r.When("leave", "inside", Func(nil, func(sc *Scope, _ Args) error { sc.Clear(); return nil }), nil))
	sc := &Scope{}

	out, _ := r.Dispatch(sc, "leave")
	assert.False(out.Matched)

	_, err := r.Dispatch(sc, "enter")
	assert.NoError(err)
	assert.Equal("inside", sc.Current())

	out, err = r.Dispatch(sc, "leave")
	assert.NoError(err)
	assert.True(out.Matched)
	assert.Equal("", sc.Current())
}

func Test_Registry_quit(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry(Options{})

	out, err := r.Dispatch(&Scope{}, "QUIT")

	assert.ErrorIs(err, ErrQuit)
	assert.True(out.Matched)
}

func Test_Registry_help(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		scope  string
		expect string
	}{
		{
			name:  "help word",
			input: "help",
			expect: "Here is a list of the commands you can give:\n" +
				"?\nhelp\nlook\nlook\nquit\ntake ITEM\n",
		},
		{
			name:  "glyph alias",
			input: "?",
			expect: "Here is a list of the commands you can give:\n" +
				"?\nhelp\nlook\nlook\nquit\ntake ITEM\n",
		},
		{
			name:  "scoped commands appear in scope",
			input: "help",
			scope: "cave.pool",
			expect: "Here is a list of the commands you can give:\n" +
				"?\nhelp\nlook\nlook\nquit\nswim\ntake ITEM\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var buf bytes.Buffer
			r := NewRegistry(Options{Help: true, Output: &buf})
			noop := Func([]string{"item"}, func(*Scope, Args) error { return nil })
			assert.NoError(r.When("take ITEM", "", noop, nil))
			assert.NoError(r.When("look", "", Func(nil, func(*Scope, Args) error { return nil }), nil))
			assert.NoError(r.When("look", "", Func(nil, func(*Scope, Args) error { return nil }), nil))
			assert.NoError(r.When("swim", "cave", Func(nil, func(*Scope, Args) error { return nil }), nil))
			sc, err := NewScope(tc.scope)
			assert.NoError(err)

			out, err := r.Dispatch(sc, tc.input)

			assert.NoError(err)
			assert.True(out.Matched)
			assert.Equal(tc.expect, buf.String())
		})
	}
}

func Test_Registry_ActiveTemplates(t *testing.T) {
	testCases := []struct {
		name   string
		scope  string
		expect []string
	}{
		{name: "no scope", expect: []string{"look", "quit"}},
		{name: "scoped copy also listed", scope: "x", expect: []string{"look", "look", "quit"}},
		{name: "nested scope", scope: "x.y", expect: []string{"look", "look", "quit"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			r := NewRegistry(Options{})
			noop := Func(nil, func(*Scope, Args) error { return nil })
			assert.NoError(r.When("look", "", noop, nil))
			assert.NoError(r.When("look", "x", noop, nil))
			sc, err := NewScope(tc.scope)
			assert.NoError(err)

			assert.Equal(tc.expect, r.ActiveTemplates(sc))
		})
	}
}

func Test_Registry_EnableHelp_once(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry(Options{Help: true})
	n := r.Len()

	r.EnableHelp()

	assert.Equal(n, r.Len())
	assert.Equal(3, n)
}
