/*
Vbi starts an interactive Verbly engine session.

It reads in a world file and starts the game in the world's starting room. The
interpreter will then print what is happening in the game to stdout and read
user input from stdin until the "quit" command is given or input ends.

Usage:

	vbi [flags]

The flags are:

	-v, --version
		Give the current version of Verbly and then exit.

	-w, --world FILE
		Use the provided VBW resource file for the world. Defaults to the file
		"world.vbw" in the current working directory.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

	--debug
		Log every dispatched command to stderr.

Once a session has started, type "help" for a list of the commands that can be
given. To exit the interpreter, type "quit".
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/verbly"
	"github.com/dekarrin/verbly/internal/version"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGameError indicates an unsuccessful program execution due to a
	// problem during the game.
	ExitGameError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of Verbly and then exit.")
	flagWorld   = pflag.StringP("world", "w", "world.vbw", "The VBW world data or manifest file that contains the definition of the world.")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagDebug   = pflag.Bool("debug", false, "Log every dispatched command to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	logger, err := newLogger(*flagDebug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer logger.Sync()

	gameEng, initErr := verbly.New(os.Stdin, os.Stdout, *flagWorld, *flagDirect, logger)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer gameEng.Close()

	if err := gameEng.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGameError
		return
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
