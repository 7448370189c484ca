// Package verbly contains a CLI-driven engine for reading commands and
// dispatching them to a game until the user quits.
package verbly

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/verbly/command"
	"github.com/dekarrin/verbly/internal/game"
	"github.com/dekarrin/verbly/internal/input"
	"github.com/dekarrin/verbly/internal/vbw"
	"go.uber.org/zap"
)

// Engine contains the things needed to run a game from an interactive shell
// attached to an input stream and an output stream.
type Engine struct {
	g           *game.Game
	in          input.LineReader
	out         *bufio.Writer
	log         *zap.Logger
	forceDirect bool
	running     bool
}

const consoleOutputWidth = 80

// New creates a new engine that plays the world in the VBW file or manifest at
// worldFilePath, reading from inputStream and writing to outputStream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. Readline is only used when both are the
// standard streams and forceDirectInput is false. A nil logger logs nothing.
func New(inputStream io.Reader, outputStream io.Writer, worldFilePath string, forceDirectInput bool, logger *zap.Logger) (*Engine, error) {
	worldData, err := vbw.LoadResourceBundle(worldFilePath)
	if err != nil {
		return nil, err
	}
	return NewWithWorld(inputStream, outputStream, worldData, forceDirectInput, logger)
}

// NewWithWorld is like New but plays an already loaded world.
func NewWithWorld(inputStream io.Reader, outputStream io.Writer, worldData vbw.WorldData, forceDirectInput bool, logger *zap.Logger) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		log:         logger,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		ir, err := input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		eng.in = ir
	} else {
		var promptTo io.Writer
		if !forceDirectInput {
			promptTo = eng.out
		}
		eng.in = input.NewDirectReader(inputStream, promptTo)
	}

	ioDev := game.IODevice{
		Width:  consoleOutputWidth,
		Output: eng.write,
	}

	w := worldData.World
	g, err := game.New(w, w.NewState(), worldData.Commands, ioDev, game.Options{
		Help:   true,
		Logger: logger.Named("game"),
	})
	if err != nil {
		eng.in.Close()
		return nil, fmt.Errorf("initializing game: %w", err)
	}
	eng.g = g

	return eng, nil
}

// Game gives the game the engine is running, so more commands can be added
// before RunUntilQuit is called.
func (eng *Engine) Game() *game.Game {
	return eng.g
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running game engine")
	}

	eng.g.Close()

	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close input reader: %w", err)
	}

	return nil
}

// RunUntilQuit shows the introduction and then reads commands from the
// streams and gives them to the game until the player quits or the input
// ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Welcome to Verbly\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "=================\n"
	introMsg += "\n"

	if err := eng.write("%s", introMsg); err != nil {
		return err
	}
	if err := eng.g.Intro(); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		if err := eng.write("\n"); err != nil {
			return err
		}

		line, err := eng.in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		err = eng.g.Input(line)
		if errors.Is(err, command.ErrQuit) {
			break
		}
		if err != nil {
			eng.log.Error("command failed", zap.String("input", line), zap.Error(err))
			if err := eng.write("Something went wrong: %s\n", err.Error()); err != nil {
				return err
			}
		}
	}

	return eng.write("Goodbye\n")
}

func (eng *Engine) write(s string, a ...interface{}) error {
	if _, err := fmt.Fprintf(eng.out, s, a...); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
