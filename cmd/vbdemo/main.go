/*
Vbdemo runs a small demonstration game built entirely with the Go API.

Two rooms are linked north to south. A rusty mallet lies in the valley, and a
few commands beyond the standard ones are registered directly on the game's
command registry, including some that are only available in a scope.

Usage:

	vbdemo [flags]

The flags are:

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines.

	--debug
		Log every dispatched command to stderr.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/verbly"
	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/game"
	"github.com/dekarrin/verbly/internal/vberrors"
	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/internal/world"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagDebug  = pflag.Bool("debug", false, "Log every dispatched command to stderr.")
)

func main() {
	pflag.Parse()

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if *flagDebug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	w, err := demoWorld()
	if err != nil {
		return err
	}

	eng, err := verbly.NewWithWorld(os.Stdin, os.Stdout, vbw.WorldData{World: w}, *flagDirect, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := addDemoCommands(eng.Game()); err != nil {
		return err
	}

	return eng.RunUntilQuit()
}

func demoWorld() (*world.World, error) {
	w := world.New()
	w.Intro = "You wake up with a headache."

	if err := w.AddRoom(&world.Room{
		Label:       "dark",
		Description: "You are in a dark room.",
	}); err != nil {
		return nil, err
	}
	if err := w.AddRoom(&world.Room{
		Label:       "valley",
		Description: "You are in a beautiful valley. A boulder blocks the path east.",
		Scope:       "valley",
		Items:       world.Bag{world.NewItem("rusty mallet", "mallet")},
	}); err != nil {
		return nil, err
	}
	if err := w.Link("dark", "north", "valley"); err != nil {
		return nil, err
	}

	w.Start = "dark"
	return w, w.Validate()
}

func addDemoCommands(g *game.Game) error {
	reg := g.Registry()

	smash := command.Func([]string{"thing"}, func(sc *command.Scope, args command.Args) error {
		if args["thing"] != "boulder" {
			return vberrors.Refusalf("You can't smash the %s.", args["thing"])
		}
		if !g.Has("mallet") {
			return vberrors.Refusal("You would need something heavy for that.", "smash without mallet")
		}
		g.SetVar("boulder", "smashed")
		return g.Say("You swing the mallet and the boulder crumbles to dust.")
	})
	if err := reg.When("smash THING", "valley", smash, nil); err != nil {
		return err
	}

	sit := command.Func(nil, func(sc *command.Scope, _ command.Args) error {
		if err := sc.Set("valley.resting"); err != nil {
			return err
		}
		return g.Say("You sit down on the grass.")
	})
	if err := reg.When("sit", "valley", sit, nil); err != nil {
		return err
	}

	stand := command.Func(nil, func(sc *command.Scope, _ command.Args) error {
		if err := sc.Set("valley"); err != nil {
			return err
		}
		return g.Say("You stand up.")
	})
	if err := reg.When("stand", "valley.resting", stand, nil); err != nil {
		return err
	}

	// more specific scope shadows the standard movement command
	restless := command.Func([]string{"direction"}, func(*command.Scope, command.Args) error {
		return g.Say("You would have to stand up first.")
	})
	for _, dir := range g.World.Directions.Names() {
		if err := reg.When(dir, "valley.resting", restless, command.Args{"direction": dir}); err != nil {
			return err
		}
	}

	return nil
}
