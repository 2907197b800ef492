package lineread

import (
	"io"

	"github.com/abiosoft/readline"
)

// Readline is a LineReader with line editing and history for terminals.
//
// TODO: the editor keeps a read pending on the terminal while a program
// runs, so a program reading the terminal can lose its first keystroke.
type Readline struct {
	instance *readline.Instance
}

var _ LineReader = (*Readline)(nil)

// NewReadline creates a line editor reading from opts.Stdin.
func NewReadline(opts Options) (*Readline, error) {
	cfg := &readline.Config{
		Stdin:           readline.NewCancelableStdin(opts.Stdin),
		Stdout:          opts.Stdout,
		Stderr:          opts.Stderr,
		HistoryFile:     opts.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &Readline{instance: instance}, nil
}

// SetPrompt implements LineReader.SetPrompt.
func (r *Readline) SetPrompt(prompt string) {
	r.instance.SetPrompt(prompt)
}

// ReadLine implements LineReader.ReadLine.
func (r *Readline) ReadLine() (string, error) {
	line, err := r.instance.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Interrupt clears the line.
		return "", ErrInterrupted
	case err == io.EOF:
		return line, io.EOF
	default:
		return line, err
	}
}

// Close implements io.Closer.
func (r *Readline) Close() error {
	return r.instance.Close()
}
