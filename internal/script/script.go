// Package script runs command handlers written in Lua.
//
// Scripts run in a sandboxed state with only the base, table, string, and math
// libraries opened. They act on the game through a small set of global
// functions backed by an Env:
//
//	say(text)              show text to the player
//	set_context(s)         change the current scope
//	clear_context()        unset the current scope
//	context()              current scope, or nil
//	room()                 label of the current room
//	go(dir)                move the player; true if there was an exit
//	has(name)              whether the player carries an item
//	give(name)             put a new item in the inventory
//	take(name)             pick up an item from the room; true on success
//	drop(name)             put down a carried item; true on success
//	remove(name)           destroy a carried item; true on success
//	var(name)              a stored variable, or nil
//	set_var(name, value)   store a variable
//	refuse(msg)            stop the command and tell the player why
//
// The captured placeholders and bound arguments are in the global table args.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/vberrors"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// DefaultTimeout is how long a single handler may run before it is stopped.
const DefaultTimeout = 2 * time.Second

// Env is the game that scripts act on.
type Env interface {
	Say(text string) error
	Room() string
	Go(dir string) (bool, error)
	Has(name string) bool
	Give(name string)
	Take(name string) bool
	Drop(name string) bool
	Remove(name string) bool
	Var(name string) (string, bool)
	SetVar(name, value string)
}

var errRefused = errors.New("script refused command")

// Host owns the Lua state that handlers run in. It is not safe for concurrent
// use.
type Host struct {
	L       *lua.LState
	env     Env
	timeout time.Duration

	// set only while a handler runs
	scope   *command.Scope
	refusal string

	// raised by refuse so a refusal can be told apart from other errors
	refused *lua.LUserData
}

// NewHost creates a sandboxed Lua state whose API functions act on env.
func NewHost(env Env) *Host {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	h := &Host{L: L, env: env, timeout: DefaultTimeout, refused: L.NewUserData()}
	h.install()
	return h
}

// SetTimeout changes how long a handler may run. Zero or less disables the
// limit.
func (h *Host) SetTimeout(d time.Duration) {
	h.timeout = d
}

// Close releases the Lua state.
func (h *Host) Close() {
	h.L.Close()
}

// Handler is a compiled Lua command handler. It implements command.Handler.
type Handler struct {
	name   string
	proto  *lua.FunctionProto
	params []string
	host   *Host
}

// Compile compiles source into a Handler that runs in h and accepts the given
// argument names.
func (h *Host) Compile(name, source string, params []string) (*Handler, error) {
	proto, err := compile(name, source)
	if err != nil {
		return nil, err
	}
	return &Handler{
		name:   name,
		proto:  proto,
		params: append([]string(nil), params...),
		host:   h,
	}, nil
}

// Check reports whether source is syntactically valid Lua.
func Check(name, source string) error {
	_, err := compile(name, source)
	return err
}

func compile(name, source string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parse script %s: %w", name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", name, err)
	}
	return proto, nil
}

// Params returns the argument names the Handler accepts.
func (hd *Handler) Params() []string {
	return hd.params
}

// Invoke runs the script with args in the global table args. If the script
// calls refuse, the returned error is a refusal carrying the message for the
// player. Any other Lua error is returned as-is.
func (hd *Handler) Invoke(sc *command.Scope, args command.Args) error {
	h := hd.host
	L := h.L

	h.scope = sc
	h.refusal = ""
	defer func() { h.scope = nil }()

	tbl := L.NewTable()
	for k, v := range args {
		tbl.RawSetString(k, lua.LString(v))
	}
	L.SetGlobal("args", tbl)

	if h.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	L.Push(L.NewFunctionFromProto(hd.proto))
	err := L.PCall(0, 0, nil)
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object == h.refused {
		return vberrors.WrapRefusal(errRefused, h.refusal, fmt.Sprintf("script %s refused: %s", hd.name, h.refusal))
	}
	if err != nil {
		return fmt.Errorf("script %s: %w", hd.name, err)
	}
	return nil
}

func (h *Host) install() {
	fns := map[string]lua.LGFunction{
		"say": func(L *lua.LState) int {
			if err := h.env.Say(L.CheckString(1)); err != nil {
				L.RaiseError("say: %s", err.Error())
			}
			return 0
		},
		"set_context": func(L *lua.LState) int {
			if err := h.currentScope(L).Set(L.CheckString(1)); err != nil {
				L.ArgError(1, err.Error())
			}
			return 0
		},
		"clear_context": func(L *lua.LState) int {
			h.currentScope(L).Clear()
			return 0
		},
		"context": func(L *lua.LState) int {
			if cur, ok := h.currentScope(L).Get(); ok {
				L.Push(lua.LString(cur))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},
		"room": func(L *lua.LState) int {
			L.Push(lua.LString(h.env.Room()))
			return 1
		},
		"go": func(L *lua.LState) int {
			moved, err := h.env.Go(L.CheckString(1))
			if err != nil {
				L.RaiseError("go: %s", err.Error())
			}
			L.Push(lua.LBool(moved))
			return 1
		},
		"has": func(L *lua.LState) int {
			L.Push(lua.LBool(h.env.Has(L.CheckString(1))))
			return 1
		},
		"give": func(L *lua.LState) int {
			h.env.Give(L.CheckString(1))
			return 0
		},
		"take": func(L *lua.LState) int {
			L.Push(lua.LBool(h.env.Take(L.CheckString(1))))
			return 1
		},
		"drop": func(L *lua.LState) int {
			L.Push(lua.LBool(h.env.Drop(L.CheckString(1))))
			return 1
		},
		"remove": func(L *lua.LState) int {
			L.Push(lua.LBool(h.env.Remove(L.CheckString(1))))
			return 1
		},
		"var": func(L *lua.LState) int {
			if v, ok := h.env.Var(L.CheckString(1)); ok {
				L.Push(lua.LString(v))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},
		"set_var": func(L *lua.LState) int {
			h.env.SetVar(L.CheckString(1), L.CheckString(2))
			return 0
		},
		"refuse": func(L *lua.LState) int {
			msg := L.CheckString(1)
			if msg == "" {
				msg = "You can't do that."
			}
			h.refusal = msg
			L.Error(h.refused, 1)
			return 0
		},
	}

	for name, fn := range fns {
		h.L.SetGlobal(name, h.L.NewFunction(fn))
	}
}

func (h *Host) currentScope(L *lua.LState) *command.Scope {
	if h.scope == nil {
		L.RaiseError("no command is running")
	}
	return h.scope
}
