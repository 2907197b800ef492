package commands

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/josephlewis42/ash/core/config"
	"github.com/josephlewis42/ash/core/lineread"
	"github.com/josephlewis42/ash/core/logger"
	"github.com/josephlewis42/ash/core/shell"
	"github.com/josephlewis42/ash/core/vos"
)

const (
	DefaultPrompt = `\u@\h:\w\$ `
)

// State is the state of the dispatch loop.
type State int

const (
	// Running reads and executes commands.
	Running State = iota
	// Terminated has stopped for good.
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Shell is the interpreter: it reads lines, runs builtins, and launches
// programs until a builtin tells it to stop or input ends.
type Shell struct {
	// Env holds the working directory and variables launched programs get.
	Env *vos.Environment
	// Builtins is consulted before launching a program.
	Builtins *Registry
	// Reader supplies lines of input.
	Reader lineread.LineReader
	// Events records what the interpreter does.
	Events logger.EventRecorder

	// Stdout and Stderr receive builtin output and diagnostics.
	Stdout io.Writer
	Stderr io.Writer
	// Files are given to launched programs as their standard input, output,
	// and error. If nil, the interpreter's own are used.
	Files []*os.File

	// Prompt is the template rendered before each read.
	Prompt   string
	User     string
	Hostname string
	UID      int
	Color    *ColorPrinter

	state      State
	lastStatus *vos.ProcessState
}

// NewShell creates a running interpreter reading from reader with the
// environment env.
func NewShell(reader lineread.LineReader, env *vos.Environment, builtins *Registry) *Shell {
	return &Shell{
		Env:      env,
		Builtins: builtins,
		Reader:   reader,
		Events:   logger.NopRecorder{},
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Prompt:   DefaultPrompt,
		UID:      os.Geteuid(),
		Color:    NewColorPrinter(config.ColorNever, nil),
		state:    Running,
	}
}

// State gets the dispatch loop state.
func (s *Shell) State() State {
	return s.state
}

// LastStatus gets the termination status of the last launched program, nil
// if none has run.
func (s *Shell) LastStatus() *vos.ProcessState {
	return s.lastStatus
}

// Run reads and executes lines until the shell terminates. It returns nil
// when the interpreter stopped normally, or an error if it couldn't
// continue.
func (s *Shell) Run() error {
	s.record(&logger.SessionStart{
		User:        s.User,
		Dir:         s.Env.Getwd(),
		Interactive: lineread.IsTerminal(s.Stdout),
	})

	reason := "exit"
	defer func() {
		s.record(&logger.SessionEnd{Reason: reason})
	}()

	for s.state == Running {
		s.Reader.SetPrompt(s.prompt())
		line, err := s.Reader.ReadLine()

		switch {
		case err == nil:
			s.RunLine(line)

		case errors.Is(err, lineread.ErrInterrupted):
			// Interrupt clears line.
			continue

		case errors.Is(err, lineread.ErrAllocation):
			reason = "fatal"
			return err

		default:
			if err != io.EOF {
				log.Printf("Error reading input: %v", err)
			}
			// Input closed, run whatever came before it then quit.
			s.RunLine(line)
			if s.state == Running {
				reason = "end of input"
				s.state = Terminated
			}
		}
	}

	return nil
}

// RunLine tokenizes and executes a single line.
func (s *Shell) RunLine(line string) Outcome {
	return s.Execute(shell.Split(line))
}

// Execute runs a builtin or program. An empty command does nothing.
func (s *Shell) Execute(args shell.Tokens) Outcome {
	if args.Empty() {
		return Outcome{Status: Continue}
	}

	var outcome Outcome
	if builtin, ok := s.Builtins.Lookup(args.Name()); ok {
		outcome = builtin.Main(s, args)

		event := &logger.RunBuiltin{
			Command:   args,
			Terminate: outcome.Status == Terminate,
		}
		if outcome.Diagnostic != nil {
			event.Error = outcome.Diagnostic.Error()
		}
		s.record(event)
	} else {
		outcome = s.launch(args)
	}

	if outcome.Diagnostic != nil {
		fmt.Fprintf(s.Stderr, "%s %v\n", s.Color.Sprintf(ColorBoldRed, "ash:"), outcome.Diagnostic)
	}
	if outcome.Status == Terminate {
		s.state = Terminated
	}

	return outcome
}

func (s *Shell) record(event logger.LogType) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Record(event); err != nil {
		log.Printf("Error recording event: %v", err)
	}
}

func (s *Shell) prompt() string {
	prompt := s.Prompt
	if prompt == "" {
		return ""
	}

	prompt = strings.ReplaceAll(prompt, `\u`, s.Color.Sprintf(ColorBoldGreen, "%s", s.User))
	prompt = strings.ReplaceAll(prompt, `\h`, s.Color.Sprintf(ColorBoldGreen, "%s", s.Hostname))

	pwd := s.Env.Getwd()
	home := s.Env.Getenv(vos.EnvHome)
	if home != "" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, s.Color.Sprintf(ColorBoldBlue, "%s", pwd))

	if s.UID == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}
