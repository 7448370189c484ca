// Package input reads lines of player input from a terminal or from any other
// stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each line of input is read.
const DefaultPrompt = "> "

// LineReader gives lines of player input one at a time.
type LineReader interface {
	// ReadLine blocks until a line with non-space characters is read and
	// returns it with surrounding whitespace removed. At end of input it
	// returns io.EOF.
	ReadLine() (string, error)

	// SetPrompt changes the prompt shown before reading a line.
	SetPrompt(p string)

	Close() error
}

// DirectReader reads lines from a generic stream. It does not interpret
// editing escape sequences, so it is best used for piped or scripted input.
//
// Create one with [NewDirectReader].
type DirectReader struct {
	r      *bufio.Reader
	echo   io.Writer
	prompt string
}

// NewDirectReader opens a buffered reader on r. If promptTo is not nil the
// prompt is written to it before each read.
func NewDirectReader(r io.Reader, promptTo io.Writer) *DirectReader {
	return &DirectReader{
		r:      bufio.NewReader(r),
		echo:   promptTo,
		prompt: DefaultPrompt,
	}
}

// ReadLine reads the next non-blank line.
func (dr *DirectReader) ReadLine() (string, error) {
	for {
		if dr.echo != nil && dr.prompt != "" {
			if _, err := io.WriteString(dr.echo, dr.prompt); err != nil {
				return "", fmt.Errorf("write prompt: %w", err)
			}
		}

		line, err := dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
}

// SetPrompt updates the prompt. An empty prompt disables it.
func (dr *DirectReader) SetPrompt(p string) {
	dr.prompt = p
}

// Close does nothing; it exists so DirectReader is a LineReader.
func (dr *DirectReader) Close() error {
	return nil
}

// InteractiveReader reads lines from stdin using a Go implementation of GNU
// readline, which gives line editing and history. It should generally only be
// used when stdin and stdout are a TTY.
//
// Create one with [NewInteractiveReader] and call Close when done.
type InteractiveReader struct {
	rl *readline.Instance
}

// NewInteractiveReader initializes readline.
func NewInteractiveReader() (*InteractiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: DefaultPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveReader{rl: rl}, nil
}

// ReadLine reads the next non-blank line. Ctrl-C on an empty line is treated
// the same as end of input.
func (ir *InteractiveReader) ReadLine() (string, error) {
	for {
		line, err := ir.rl.Readline()
		if err == readline.ErrInterrupt {
			if line == "" {
				return "", io.EOF
			}
			continue
		}
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

// SetPrompt updates the prompt.
func (ir *InteractiveReader) SetPrompt(p string) {
	ir.rl.SetPrompt(p)
}

// Close tears down readline.
func (ir *InteractiveReader) Close() error {
	return ir.rl.Close()
}
