// Package game connects a world to the command registry. It registers the
// standard movement and item commands along with every command declared by
// the world, then feeds player input to the registry one line at a time.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/script"
	"github.com/dekarrin/verbly/internal/util"
	"github.com/dekarrin/verbly/internal/vberrors"
	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/internal/world"
	"go.uber.org/zap"
)

var textFormatOptions = rosed.Options{
	NoTrailingLineSeparators: true,
}

// IODevice is where the game sends output.
type IODevice struct {
	// The width of each line of output. Values under 2 are treated as 80.
	Width int

	// Output sends text to the player.
	Output func(s string, a ...interface{}) error
}

// Options changes how a Game is set up.
type Options struct {
	// Help enables the "help" and "?" commands.
	Help bool

	// Logger receives a debug entry for every line of input. If nil, nothing
	// is logged.
	Logger *zap.Logger
}

// Game is a world being played. It is not safe for concurrent use.
type Game struct {
	World *world.World
	State *world.State

	scope   *command.Scope
	reg     *command.Registry
	io      IODevice
	log     *zap.Logger
	scripts *script.Host
}

// New creates a Game that plays w starting from st. The standard commands
// are registered first, followed by cmds in order.
func New(w *world.World, st *world.State, cmds []vbw.CommandDef, ioDev IODevice, opts Options) (*Game, error) {
	if ioDev.Width < 2 {
		ioDev.Width = 80
	}
	if ioDev.Output == nil {
		return nil, fmt.Errorf("io device must define an Output function")
	}
	if _, ok := w.Rooms[st.Room]; !ok {
		return nil, fmt.Errorf("current room %q does not exist", st.Room)
	}
	if st.RoomItems == nil {
		st.RoomItems = map[string]world.Bag{}
	}
	if st.Vars == nil {
		st.Vars = map[string]string{}
	}

	sc, err := command.NewScope(st.Scope)
	if err != nil {
		return nil, fmt.Errorf("restore scope: %w", err)
	}

	g := &Game{
		World: w,
		State: st,
		scope: sc,
		io:    ioDev,
		log:   opts.Logger,
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}

	g.reg = command.NewRegistry(command.Options{
		Help:   opts.Help,
		Output: outputWriter{g},
		NoMatch: func(line string) error {
			return g.Say(fmt.Sprintf("I don't understand '%s'.", line))
		},
	})

	if err := g.registerStandard(); err != nil {
		return nil, err
	}
	for _, def := range cmds {
		if err := g.registerDef(def); err != nil {
			g.Close()
			return nil, fmt.Errorf("%s: %w", def.Origin, err)
		}
	}

	return g, nil
}

// Close releases the script host, if one was started.
func (g *Game) Close() {
	if g.scripts != nil {
		g.scripts.Close()
		g.scripts = nil
	}
}

// Registry gives the registry commands are dispatched through, so more can be
// registered.
func (g *Game) Registry() *command.Registry {
	return g.reg
}

// Scope gives the current command scope.
func (g *Game) Scope() *command.Scope {
	return g.scope
}

// Input runs one line of player input. Blank lines are ignored. Refusals are
// shown to the player rather than returned. command.ErrQuit is returned when
// the player quits.
func (g *Game) Input(line string) error {
	_, err := g.Exec(line)
	return err
}

// Exec is like Input but also gives the outcome of the dispatch.
func (g *Game) Exec(line string) (command.Outcome, error) {
	if strings.TrimSpace(line) == "" {
		return command.Outcome{}, nil
	}

	out, err := g.reg.Dispatch(g.scope, line)
	g.State.Scope = g.scope.Current()

	g.log.Debug("dispatched input",
		zap.String("input", line),
		zap.Bool("matched", out.Matched),
		zap.String("template", out.Pattern.Original()),
		zap.String("scope", g.scope.Current()),
		zap.Error(err),
	)

	if err != nil {
		if errors.Is(err, command.ErrQuit) {
			return out, err
		}
		if vberrors.IsRefusal(err) {
			return out, g.Say(vberrors.GameMessage(err))
		}
		return out, err
	}
	return out, nil
}

// Intro shows the world's introduction followed by the starting room.
func (g *Game) Intro() error {
	if g.World.Intro != "" {
		if err := g.Say(g.World.Intro); err != nil {
			return err
		}
	}
	return g.Look()
}

// Look describes the current room and what is lying in it.
func (g *Game) Look() error {
	room := g.World.Rooms[g.State.Room]
	desc := room.Description

	items := g.State.RoomItems[room.Label]
	if len(items) > 0 {
		desc += "\n\nYou can see " + util.MakeTextList(items.Names(), true) + " here."
	}
	return g.Say(desc)
}

// Say shows msg to the player. Leading and trailing space on each line is
// removed, and each paragraph is wrapped separately to the width of the
// output.
func (g *Game) Say(msg string) error {
	lines := strings.Split(msg, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var paragraphs []string
	var cur []string
	for _, line := range lines {
		if line == "" {
			if len(cur) > 0 {
				paragraphs = append(paragraphs, strings.Join(cur, " "))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		paragraphs = append(paragraphs, strings.Join(cur, " "))
	}

	for i := range paragraphs {
		wrapped := rosed.Edit(paragraphs[i]).WithOptions(textFormatOptions).Wrap(g.io.Width).String()
		paragraphs[i] = strings.TrimRight(wrapped, "\n")
	}

	return g.io.Output("%s\n", strings.Join(paragraphs, "\n\n"))
}

// enter puts the player in the room with the given label and takes on its
// scope.
func (g *Game) enter(label string) {
	g.State.Room = label
	if scope := g.World.Rooms[label].Scope; scope != "" {
		// room scopes are checked when the world is loaded
		_ = g.scope.Set(scope)
	} else {
		g.scope.Clear()
	}
	g.State.Scope = g.scope.Current()
}

type outputWriter struct {
	g *Game
}

func (ow outputWriter) Write(p []byte) (int, error) {
	if err := ow.g.io.Output("%s", string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
