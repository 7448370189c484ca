package script

import (
	"strings"
	"testing"
	"time"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/vberrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnv struct {
	said  []string
	room  string
	inv   map[string]bool
	floor map[string]bool
	vars  map[string]string
	exits map[string]string
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		room:  "hall",
		inv:   map[string]bool{},
		floor: map[string]bool{"lamp": true},
		vars:  map[string]string{},
		exits: map[string]string{"north": "kitchen"},
	}
}

func (fe *fakeEnv) Say(text string) error {
	fe.said = append(fe.said, text)
	return nil
}

func (fe *fakeEnv) Room() string { return fe.room }


func (fe *fakeEnv) Go(dir string) (bool, error) {
	dest, ok := fe.exits[dir]
	if ok {
		fe.room = dest
	}
	return ok, nil
}
func (fe *fakeEnv) Has(name string) bool { return fe.inv[name] }
func (fe *fakeEnv) Give(name string)     { fe.inv[name] = true }
func (fe *fakeEnv) Take(name string) bool {
	if !fe.floor[name] {
		return false
	}
	delete(fe.floor, name)
	fe.inv[name] = true
	return true
}
func (fe *fakeEnv) Drop(name string) bool {
	if !fe.inv[name] {
		return false
	}
	delete(fe.inv, name)
	fe.floor[name] = true
	return true
}
func (fe *fakeEnv) Remove(name string) bool {
	had := fe.inv[name]
	delete(fe.inv, name)
	return had
}
func (fe *fakeEnv) Var(name string) (string, bool) {
	v, ok := fe.vars[name]
	return v, ok
}

func (fe *fakeEnv) SetVar(name, value string) { fe.vars[name] = value }

func Test_Handler_Invoke(t *testing.T) {
	testCases := []struct {
		name        string
		source      string
		params      []string
		args        command.Args
		scope       string
		expectSaid  []string
		expectScope string
		expectVars  map[string]string
		expectRoom  string
	}{
		{
			name:       "say with args",
			source:     `say("You wave at " .. args.person .. ".")`,
			params:     []string{"person"},
			args:       command.Args{"person": "the old man"},
			expectSaid: []string{"You wave at the old man."},
			expectVars: map[string]string{},
			expectRoom: "hall",
		},
		{
			name: "context functions",
			source: `
				if context() == nil then say("nowhere") end
				set_context("ship.deck")
				say(context())
			`,
			expectSaid:  []string{"nowhere", "ship.deck"},
			expectScope: "ship.deck",
			expectVars:  map[string]string{},
			expectRoom:  "hall",
		},
		{
			name:       "clear context",
			source:     `clear_context()`,
			scope:      "cave",
			expectVars: map[string]string{},
			expectRoom: "hall",
		},
		{
			name: "movement and items",
			source: `
				if take("lamp") then say("got lamp") end
				if not take("sword") then say("no sword") end
				if go("north") then say("now in " .. room()) end
				if not go("up") then say("can't go up") end
			`,
			expectSaid: []string{"got lamp", "no sword", "now in kitchen", "can't go up"},
			expectVars: map[string]string{},
			expectRoom: "kitchen",
		},
		{
			name: "vars",
			source: `
				local n = tonumber(var("count") or "0")
				set_var("count", tostring(n + 1))
				if var("missing") == nil then say("missing is nil") end
			`,
			expectSaid: []string{"missing is nil"},
			expectVars: map[string]string{"count": "1"},
			expectRoom: "hall",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			env := newFakeEnv()
			host := NewHost(env)
			defer host.Close()
			sc, err := command.NewScope(tc.scope)
			require.NoError(t, err)

			h, err := host.Compile(tc.name, tc.source, tc.params)
			require.NoError(t, err)

			err = h.Invoke(sc, tc.args)

			assert.NoError(err)
			assert.Equal(tc.expectSaid, env.said)
			assert.Equal(tc.expectScope, sc.Current())
			assert.Equal(tc.expectVars, env.vars)
			assert.Equal(tc.expectRoom, env.room)
		})
	}
}

func Test_Handler_Invoke_refuse(t *testing.T) {
	assert := assert.New(t)
	env := newFakeEnv()
	host := NewHost(env)
	defer host.Close()

	h, err := host.Compile("unlock", `
		if not has("key") then refuse("You have no key.") end
		say("unlocked")
	`, nil)
	require.NoError(t, err)

	err = h.Invoke(&command.Scope{}, nil)
	assert.True(vberrors.IsRefusal(err))
	assert.Equal("You have no key.", vberrors.GameMessage(err))
	assert.Empty(env.said)

	env.Give("key")
	err = h.Invoke(&command.Scope{}, nil)
	assert.NoError(err)
	assert.Equal([]string{"unlocked"}, env.said)
}

func Test_Handler_Invoke_refuseCaughtByPcall(t *testing.T) {
	assert := assert.New(t)
	env := newFakeEnv()
	host := NewHost(env)
	defer host.Close()

	h, err := host.Compile("stubborn", `
		local ok = pcall(refuse, "no")
		if not ok then say("went ahead") end
	`, nil)
	require.NoError(t, err)

	err = h.Invoke(&command.Scope{}, nil)

	assert.NoError(err)
	assert.Equal([]string{"went ahead"}, env.said)
}

func Test_Handler_Invoke_runtimeError(t *testing.T) {
	assert := assert.New(t)
	host := NewHost(newFakeEnv())
	defer host.Close()

	h, err := host.Compile("broken", `local x = nil; x.y = 1`, nil)
	require.NoError(t, err)

	err = h.Invoke(&command.Scope{}, nil)

	assert.Error(err)
	assert.False(vberrors.IsRefusal(err))
	assert.True(strings.HasPrefix(err.Error(), "script broken:"))
}

func Test_Handler_Invoke_badScope(t *testing.T) {
	assert := assert.New(t)
	host := NewHost(newFakeEnv())
	defer host.Close()
	sc, _ := command.NewScope("ok")

	h, err := host.Compile("badscope", `set_context("a..b")`, nil)
	require.NoError(t, err)

	err = h.Invoke(sc, nil)

	assert.Error(err)
	assert.Equal("ok", sc.Current())
}

func Test_Handler_Invoke_timeout(t *testing.T) {
	assert := assert.New(t)
	host := NewHost(newFakeEnv())
	defer host.Close()
	host.SetTimeout(50 * time.Millisecond)

	h, err := host.Compile("spin", `while true do end`, nil)
	require.NoError(t, err)

	err = h.Invoke(&command.Scope{}, nil)

	assert.Error(err)
}

func Test_sandbox(t *testing.T) {
	assert := assert.New(t)
	host := NewHost(newFakeEnv())
	defer host.Close()

	h, err := host.Compile("escape", `
		if dofile == nil and load == nil and io == nil and os == nil then
			say("sandboxed")
		end
	`, nil)
	require.NoError(t, err)

	assert.NoError(h.Invoke(&command.Scope{}, nil))
	assert.Equal([]string{"sandboxed"}, host.env.(*fakeEnv).said)
}

func Test_Check(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(Check("good", `say("hi")`))
	assert.Error(Check("bad", `say("hi"`))
}
