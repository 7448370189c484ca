package command

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Args are the named arguments given to a Handler. They are made up of the
// text captured by each placeholder of the matched Pattern along with any
// arguments that were bound to the Handler when it was registered.
type Args map[string]string

// Handler is something that can be run in response to a command. Params
// declares the exact names of the arguments the Handler accepts; Register
// checks them against the Pattern and the bound arguments once, so Invoke can
// rely on every declared name being present in args.
type Handler interface {
	Params() []string
	Invoke(sc *Scope, args Args) error
}

// Func creates a Handler from a function and the names of the arguments it
// accepts.
func Func(params []string, fn func(sc *Scope, args Args) error) Handler {
	return funcHandler{params: append([]string(nil), params...), fn: fn}
}

type funcHandler struct {
	params []string
	fn     func(sc *Scope, args Args) error
}

func (fh funcHandler) Params() []string {
	return fh.params
}

func (fh funcHandler) Invoke(sc *Scope, args Args) error {
	return fh.fn(sc, args)
}

// Options changes how a Registry behaves. The zero value gives a Registry with
// only the quit builtin and no fallback for unmatched input.
type Options struct {
	// Help adds the "help" and "?" builtins, which list the templates of all
	// commands active in the current scope.
	Help bool

	// Output is where builtins write their output. If nil, output is
	// discarded.
	Output io.Writer

	// NoMatch is called with the raw line when Dispatch finds no command that
	// matches it. Whatever it returns is returned from Dispatch.
	NoMatch func(line string) error
}

// Outcome is the result of a call to Dispatch.
type Outcome struct {
	// Matched is whether any command matched the input.
	Matched bool

	// Pattern is the Pattern that matched. It is the zero Pattern if Matched
	// is false.
	Pattern Pattern

	// Args are the arguments the Handler was invoked with.
	Args Args
}

type registration struct {
	pattern Pattern
	handler Handler
	bound   Args
}

// Registry holds registered commands in the order they were registered and
// dispatches input lines to them.
//
// Registry is not safe for concurrent use. Registration is expected to happen
// during setup, before any call to Dispatch.
type Registry struct {
	regs   []registration
	opts   Options
	helpOn bool
}

// NewRegistry creates a Registry with the builtin quit command, which makes
// Dispatch return ErrQuit, and with help builtins if opts.Help is set.
func NewRegistry(opts Options) *Registry {
	r := &Registry{opts: opts}
	if r.opts.Output == nil {
		r.opts.Output = io.Discard
	}

	quit := Func(nil, func(*Scope, Args) error { return ErrQuit })
	r.regs = append(r.regs, registration{pattern: MustCompile("quit", ""), handler: quit})

	if opts.Help {
		r.EnableHelp()
	}
	return r
}

// EnableHelp adds the "?" and "help" builtins to the front of the Registry.
// Calling it more than once has no further effect.
func (r *Registry) EnableHelp() {
	if r.helpOn {
		return
	}
	r.helpOn = true

	help := Func(nil, func(sc *Scope, _ Args) error {
		var sb strings.Builder
		sb.WriteString("Here is a list of the commands you can give:\n")
		for _, t := range r.ActiveTemplates(sc) {
			sb.WriteString(t)
			sb.WriteRune('\n')
		}
		_, err := io.WriteString(r.opts.Output, sb.String())
		return err
	})

	builtins := []registration{
		{pattern: literalPattern("?"), handler: help},
		{pattern: MustCompile("help", ""), handler: help},
	}
	r.regs = append(builtins, r.regs...)
}

// Register adds a command that runs h whenever input matches p. The bound
// arguments are passed to h on every invocation alongside the captured
// placeholder text.
//
// The names h declares in Params must be exactly the placeholder names of p
// plus the keys of bound. If they are not, a *RegistrationError is returned
// and nothing is registered.
func (r *Registry) Register(p Pattern, h Handler, bound Args) error {
	if p.original == "" {
		return &CompileError{Template: p.original, Reason: "pattern was never compiled"}
	}
	if h == nil {
		return &RegistrationError{Template: p.original, Expected: expectedParams(p, bound), Reason: "handler is nil"}
	}

	if err := checkParams(p, h.Params(), bound); err != nil {
		return err
	}

	r.regs = append(r.regs, registration{
		pattern: p,
		handler: h,
		bound:   maps.Clone(bound),
	})
	return nil
}

// When compiles template in the given scope and registers h for it. It is
// shorthand for calling Compile followed by Register.
func (r *Registry) When(template string, scope string, h Handler, bound Args) error {
	p, err := Compile(template, scope)
	if err != nil {
		return err
	}
	return r.Register(p, h, bound)
}

// Len returns the number of registered commands, builtins included.
func (r *Registry) Len() int {
	return len(r.regs)
}

// Dispatch tokenizes line and runs the first command that matches it.
//
// Only commands active in the current scope of sc are considered. They are
// tried from most deeply scoped to least, and in registration order among
// commands of equal depth. Errors returned by the handler are returned as-is.
//
// A line with no words is ignored. If nothing matches, Options.NoMatch is
// called with the line.
func (r *Registry) Dispatch(sc *Scope, line string) (Outcome, error) {
	words := Tokenize(line)
	if len(words) == 0 {
		return Outcome{}, nil
	}

	for _, reg := range r.candidates(sc) {
		captures, ok := reg.pattern.Match(words)
		if !ok {
			continue
		}

		args := make(Args, len(captures)+len(reg.bound))
		maps.Copy(args, reg.bound)
		maps.Copy(args, captures)

		out := Outcome{Matched: true, Pattern: reg.pattern, Args: args}
		return out, reg.handler.Invoke(sc, maps.Clone(args))
	}

	if r.opts.NoMatch != nil {
		return Outcome{}, r.opts.NoMatch(line)
	}
	return Outcome{}, nil
}

// ActiveTemplates gives the templates of every command active in the current
// scope of sc, sorted. A template registered more than once is listed once per
// active registration.
func (r *Registry) ActiveTemplates(sc *Scope) []string {
	var templates []string
	for _, reg := range r.regs {
		if IsActive(reg.pattern.scope, sc.Current()) {
			templates = append(templates, reg.pattern.original)
		}
	}
	slices.Sort(templates)
	return templates
}

// candidates gives the registrations active under sc, most deeply scoped
// first.
func (r *Registry) candidates(sc *Scope) []registration {
	current := sc.Current()

	var active []registration
	for _, reg := range r.regs {
		if IsActive(reg.pattern.scope, current) {
			active = append(active, reg)
		}
	}

	slices.SortStableFunc(active, func(a, b registration) int {
		return Depth(b.pattern.scope) - Depth(a.pattern.scope)
	})
	return active
}

// expectedParams gives the placeholders of p in template order followed by the
// bound argument names in sorted order.
func expectedParams(p Pattern, bound Args) []string {
	expected := p.Placeholders()
	return append(expected, slices.Sorted(maps.Keys(bound))...)
}

func checkParams(p Pattern, declared []string, bound Args) error {
	expected := expectedParams(p, bound)
	regErr := func(reason string) error {
		return &RegistrationError{
			Template: p.original,
			Expected: expected,
			Declared: append([]string(nil), declared...),
			Reason:   reason,
		}
	}

	for _, name := range p.placeholders {
		if _, ok := bound[name]; ok {
			return regErr(fmt.Sprintf("bound argument %q has the same name as a placeholder", name))
		}
	}

	want := map[string]bool{}
	for _, name := range expected {
		want[name] = true
	}

	got := map[string]bool{}
	var extra []string
	for _, name := range declared {
		if got[name] {
			return regErr(fmt.Sprintf("parameter %q is declared more than once", name))
		}
		got[name] = true
		if !want[name] {
			extra = append(extra, name)
		}
	}

	var missing []string
	for _, name := range expected {
		if !got[name] {
			missing = append(missing, name)
		}
	}

	switch {
	case len(missing) > 0 && len(extra) > 0:
		return regErr(fmt.Sprintf("missing parameters (%s) and unexpected parameters (%s)", strings.Join(missing, ", "), strings.Join(extra, ", ")))
	case len(missing) > 0:
		return regErr(fmt.Sprintf("missing parameters (%s)", strings.Join(missing, ", ")))
	case len(extra) > 0:
		return regErr(fmt.Sprintf("unexpected parameters (%s)", strings.Join(extra, ", ")))
	}
	return nil
}
