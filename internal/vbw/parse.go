package vbw

import (
	"fmt"
	"strings"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/script"
	"github.com/dekarrin/verbly/internal/world"
)

// parseWorldData checks everything unmarshaled and converts it into a World
// and its commands.
func parseWorldData(vbw topLevelWorldData) (WorldData, error) {
	w := world.New()
	w.Intro = strings.TrimSpace(vbw.World.Intro)

	for i, d := range vbw.Directions {
		if err := w.Directions.Add(d.Forward, d.Reverse); err != nil {
			return WorldData{}, fmt.Errorf("direction[%d]: %w", i, err)
		}
	}

	for _, r := range vbw.Rooms {
		if err := validateRoomDef(r); err != nil {
			return WorldData{}, fmt.Errorf("room[%q]: %w", r.Label, err)
		}
		if err := w.AddRoom(r.toWorldRoom()); err != nil {
			return WorldData{}, fmt.Errorf("room[%q]: %w", r.Label, err)
		}
	}

	// exits are linked only once every room exists
	for _, r := range vbw.Rooms {
		if err := linkExits(w, r); err != nil {
			return WorldData{}, fmt.Errorf("room[%q]: %w", r.Label, err)
		}
	}

	if vbw.World.Start == "" {
		return WorldData{}, fmt.Errorf("world: start: must be set")
	}
	if _, ok := w.Rooms[vbw.World.Start]; !ok {
		return WorldData{}, fmt.Errorf("world: start: no room with label %q exists", vbw.World.Start)
	}
	w.Start = vbw.World.Start

	if err := w.Validate(); err != nil {
		return WorldData{}, err
	}

	data := WorldData{World: w}
	for i, cd := range vbw.Commands {
		def := cd.toCommandDef()
		if def.Origin == "" {
			def.Origin = fmt.Sprintf("command[%d]", i)
		}
		if err := validateCommandDef(def, w); err != nil {
			return WorldData{}, fmt.Errorf("%s: %w", def.Origin, err)
		}
		data.Commands = append(data.Commands, def)
	}

	return data, nil
}

func (r room) toWorldRoom() *world.Room {
	wr := &world.Room{
		Label:       r.Label,
		Description: strings.TrimSpace(r.Description),
		Scope:       r.Context,
		Exits:       map[string]string{},
	}
	for _, it := range r.Items {
		wr.Items.Add(world.NewItem(it.Name, it.Aliases...))
	}
	return wr
}

func validateRoomDef(r room) error {
	if r.Label == "" {
		return fmt.Errorf("label: must not be empty")
	}
	if r.Context != "" {
		if err := command.ValidateScope(r.Context); err != nil {
			return fmt.Errorf("context: %w", err)
		}
	}

	seen := map[string]bool{}
	for i, it := range r.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("item[%d]: name: must not be empty", i)
		}
		if seen[strings.ToLower(it.Name)] {
			return fmt.Errorf("item[%d]: duplicate item %q", i, it.Name)
		}
		seen[strings.ToLower(it.Name)] = true
	}
	return nil
}

// linkExits links every exit of r both ways. An exit that conflicts with one
// already made from the other side is an error.
func linkExits(w *world.World, r room) error {
	for dir, dest := range r.Exits {
		rev, ok := w.Directions.Reverse(dir)
		if !ok {
			return fmt.Errorf("exits: %w: %q", world.ErrInvalidDirection, dir)
		}
		destRoom, ok := w.Rooms[dest]
		if !ok {
			return fmt.Errorf("exits: %s: no room with label %q exists", dir, dest)
		}
		if back := destRoom.Exit(rev); back != "" && back != r.Label {
			return fmt.Errorf("exits: %s: room %q already leads %s to %q", dir, dest, rev, back)
		}
		if there := w.Rooms[r.Label].Exit(dir); there != "" && there != dest {
			return fmt.Errorf("exits: %s: already leads to %q", dir, there)
		}

		if err := w.Link(r.Label, dir, dest); err != nil {
			return fmt.Errorf("exits: %w", err)
		}
	}
	return nil
}

func validateCommandDef(cd CommandDef, w *world.World) error {
	p, err := command.Compile(cd.Template, cd.Context)
	if err != nil {
		return err
	}

	switch {
	case cd.Scripted() && cd.hasDeclarative():
		return fmt.Errorf("lua cannot be combined with declarative actions")
	case !cd.Scripted() && !cd.hasDeclarative():
		return fmt.Errorf("must have lua or at least one action")
	case cd.ClearContext && cd.SetContext != "":
		return fmt.Errorf("set_context and clear_context cannot both be given")
	}

	// a trial registration catches bind keys that clash with placeholders
	trial := command.NewRegistry(command.Options{})
	noop := command.Func(cd.Params(p.Placeholders()), func(*command.Scope, command.Args) error { return nil })
	if err := trial.Register(p, noop, cd.Bind); err != nil {
		return err
	}

	if cd.Scripted() {
		return script.Check(cd.Origin, cd.Lua)
	}

	names := map[string]bool{}
	for _, name := range cd.Params(p.Placeholders()) {
		names[name] = true
	}
	for field, val := range map[string]string{
		"say":         cd.Say,
		"give":        cd.Give,
		"take":        cd.Take,
		"move":        cd.Move,
		"set_context": cd.SetContext,
	} {
		if err := checkRefs(val, names); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	if cd.Move != "" && !strings.Contains(cd.Move, "{") {
		if _, ok := w.Rooms[cd.Move]; !ok {
			return fmt.Errorf("move: no room with label %q exists", cd.Move)
		}
	}
	if cd.SetContext != "" && !strings.Contains(cd.SetContext, "{") {
		if err := command.ValidateScope(cd.SetContext); err != nil {
			return fmt.Errorf("set_context: %w", err)
		}
	}
	return nil
}

// checkRefs makes sure every {name} in s is a known argument.
func checkRefs(s string, names map[string]bool) error {
	for {
		start := strings.IndexByte(s, '{')
		if start < 0 {
			return nil
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			return fmt.Errorf("unclosed '{'")
		}
		ref := s[start+1 : start+end]
		if !names[ref] {
			return fmt.Errorf("{%s} does not name a placeholder or bound argument", ref)
		}
		s = s[start+end+1:]
	}
}

// Expand replaces every {name} in s with the matching argument.
func Expand(s string, args command.Args) string {
	if !strings.Contains(s, "{") {
		return s
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
