package game

import (
	"fmt"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/script"
	"github.com/dekarrin/verbly/internal/util"
	"github.com/dekarrin/verbly/internal/vberrors"
	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/internal/world"
)

func noArgs(fn func() error) command.Handler {
	return command.Func(nil, func(*command.Scope, command.Args) error {
		return fn()
	})
}

func oneArg(name string, fn func(string) error) command.Handler {
	return command.Func([]string{name}, func(_ *command.Scope, args command.Args) error {
		return fn(args[name])
	})
}

// registerStandard adds the movement and item commands every world has.
func (g *Game) registerStandard() error {
	walk := oneArg("direction", g.walk)

	for _, dir := range g.World.Directions.Names() {
		if err := g.reg.When(dir, "", walk, command.Args{"direction": dir}); err != nil {
			return fmt.Errorf("direction %q: %w", dir, err)
		}
	}

	std := []struct {
		template string
		handler  command.Handler
	}{
		{"go DIRECTION", walk},
		{"look", noArgs(g.Look)},
		{"look at ITEM", oneArg("item", g.lookAt)},
		{"take ITEM", oneArg("item", g.pickUp)},
		{"drop THING", oneArg("thing", g.putDown)},
		{"inventory", noArgs(g.showInventory)},
		{"exits", noArgs(g.showExits)},
	}
	for _, c := range std {
		if err := g.reg.When(c.template, "", c.handler, nil); err != nil {
			return err
		}
	}
	return nil
}

// registerDef adds a command declared by the world.
func (g *Game) registerDef(def vbw.CommandDef) error {
	p, err := command.Compile(def.Template, def.Context)
	if err != nil {
		return err
	}
	params := def.Params(p.Placeholders())

	var h command.Handler
	if def.Scripted() {
		if g.scripts == nil {
			g.scripts = script.NewHost(g)
		}
		h, err = g.scripts.Compile(def.Origin, def.Lua, params)
		if err != nil {
			return err
		}
	} else {
		h = g.declarative(def, params)
	}

	return g.reg.Register(p, h, def.Bind)
}

// declarative builds a handler that carries out the actions a command
// declares, in a fixed order: take, give, say, move, then the scope change.
func (g *Game) declarative(def vbw.CommandDef, params []string) command.Handler {
	return command.Func(params, func(sc *command.Scope, args command.Args) error {
		if def.Take != "" {
			name := vbw.Expand(def.Take, args)
			if !g.Remove(name) {
				return vberrors.Refusalf("You do not have %s.", withArticle(name, false))
			}
		}
		if def.Give != "" {
			g.Give(vbw.Expand(def.Give, args))
		}
		if def.Say != "" {
			if err := g.Say(vbw.Expand(def.Say, args)); err != nil {
				return err
			}
		}
		if def.Move != "" {
			label := vbw.Expand(def.Move, args)
			if _, ok := g.World.Rooms[label]; !ok {
				return fmt.Errorf("%s: move to unknown room %q", def.Origin, label)
			}
			g.enter(label)
			if err := g.Look(); err != nil {
				return err
			}
		}
		if def.ClearContext {
			sc.Clear()
		}
		if def.SetContext != "" {
			if err := sc.Set(vbw.Expand(def.SetContext, args)); err != nil {
				return fmt.Errorf("%s: %w", def.Origin, err)
			}
		}
		return nil
	})
}

func (g *Game) walk(dir string) error {
	if !g.World.Directions.Has(dir) {
		return vberrors.Refusalf("%q is not a direction I know.", dir)
	}
	moved, err := g.Go(dir)
	if err != nil {
		return err
	}
	if !moved {
		return vberrors.Refusalf("You can't go %s from here.", dir)
	}
	return nil
}

func (g *Game) lookAt(name string) error {
	if it, ok := g.State.Inventory.Find(name); ok {
		return g.Say(fmt.Sprintf("You are holding %s.", withArticle(it.Name, true)))
	}
	if it, ok := g.State.RoomItems[g.State.Room].Find(name); ok {
		return g.Say(fmt.Sprintf("You see %s lying here.", withArticle(it.Name, false)))
	}
	return vberrors.Refusalf("You don't see any %s here.", name)
}

func (g *Game) pickUp(name string) error {
	items := g.State.RoomItems[g.State.Room]
	it, ok := items.Take(name)
	if !ok {
		return vberrors.Refusalf("There is no %s here.", name)
	}
	g.State.RoomItems[g.State.Room] = items
	g.State.Inventory.Add(it)
	return g.Say(fmt.Sprintf("You take %s.", withArticle(it.Name, true)))
}

func (g *Game) putDown(name string) error {
	it, ok := g.State.Inventory.Take(name)
	if !ok {
		return vberrors.Refusalf("You do not have %s.", withArticle(name, false))
	}
	items := g.State.RoomItems[g.State.Room]
	items.Add(it)
	g.State.RoomItems[g.State.Room] = items
	return g.Say(fmt.Sprintf("You drop %s.", withArticle(it.Name, true)))
}

func (g *Game) showInventory() error {
	if len(g.State.Inventory) == 0 {
		return g.Say("You have nothing.")
	}
	return g.Say("You have " + util.MakeTextList(g.State.Inventory.Names(), true) + ".")
}

func (g *Game) showExits() error {
	exits := g.World.Rooms[g.State.Room].ExitList()
	if len(exits) == 0 {
		return g.Say("There is no way out of here.")
	}
	return g.Say("You can go " + util.MakeTextList(exits, false) + ".")
}

// Room gives the label of the room the player is in.
func (g *Game) Room() string {
	return g.State.Room
}

// Go moves the player through the exit in the given direction and describes
// the new room. It returns false if there is no such exit.
func (g *Game) Go(dir string) (bool, error) {
	dest := g.World.Rooms[g.State.Room].Exit(dir)
	if dest == "" {
		return false, nil
	}
	g.enter(dest)
	if err := g.Say(fmt.Sprintf("You go %s.", dir)); err != nil {
		return true, err
	}
	return true, g.Look()
}

// Has returns whether the player carries an item called name.
func (g *Game) Has(name string) bool {
	return g.State.Inventory.Contains(name)
}

// Give puts a new item called name in the player's inventory.
func (g *Game) Give(name string) {
	g.State.Inventory.Add(world.NewItem(name))
}

// Take moves the item called name from the current room to the inventory.
func (g *Game) Take(name string) bool {
	items := g.State.RoomItems[g.State.Room]
	it, ok := items.Take(name)
	if !ok {
		return false
	}
	g.State.RoomItems[g.State.Room] = items
	g.State.Inventory.Add(it)
	return true
}

// Drop moves the carried item called name into the current room.
func (g *Game) Drop(name string) bool {
	it, ok := g.State.Inventory.Take(name)
	if !ok {
		return false
	}
	items := g.State.RoomItems[g.State.Room]
	items.Add(it)
	g.State.RoomItems[g.State.Room] = items
	return true
}

// Remove destroys the carried item called name.
func (g *Game) Remove(name string) bool {
	_, ok := g.State.Inventory.Take(name)
	return ok
}

// Var gives the value of a stored variable.
func (g *Game) Var(name string) (string, bool) {
	v, ok := g.State.Vars[name]
	return v, ok
}

// SetVar stores a variable.
func (g *Game) SetVar(name, value string) {
	g.State.Vars[name] = value
}

var _ script.Env = (*Game)(nil)

func withArticle(name string, definite bool) string {
	return util.ArticleFor(name, definite) + " " + name
}
