package commands

import (
	"errors"
	"fmt"
)

// Status tells the interpreter whether to keep reading commands.
type Status int

const (
	// Continue keeps the interpreter running.
	Continue Status = iota
	// Terminate stops the interpreter.
	Terminate
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Terminate:
		return "terminate"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of running a command.
type Outcome struct {
	Status Status
	// Diagnostic is reported to the operator if set, it never stops the
	// interpreter by itself.
	Diagnostic error
}

// BuiltinFunc is the handler for a builtin, args[0] is the builtin name.
type BuiltinFunc func(s *Shell, args []string) Outcome

// Builtin is a command implemented by the interpreter itself.
type Builtin struct {
	Name string
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the builtin.
	Short string

	Main BuiltinFunc
}

var (
	ErrDuplicateBuiltin = errors.New("duplicate builtin")
	ErrInvalidBuiltin   = errors.New("invalid builtin")
)

// Registry is an immutable, ordered list of builtins.
type Registry struct {
	builtins []Builtin
}

// NewRegistry creates a registry holding builtins in the given order.
func NewRegistry(builtins ...Builtin) (*Registry, error) {
	seen := make(map[string]bool)
	for _, b := range builtins {
		switch {
		case b.Name == "" || b.Main == nil:
			return nil, fmt.Errorf("%w: %q", ErrInvalidBuiltin, b.Name)
		case seen[b.Name]:
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBuiltin, b.Name)
		}
		seen[b.Name] = true
	}

	return &Registry{builtins: append([]Builtin(nil), builtins...)}, nil
}

// Lookup finds the builtin with the given name.
func (r *Registry) Lookup(name string) (Builtin, bool) {
	for _, b := range r.builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}

// Names lists the registered builtin names in order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.builtins))
	for _, b := range r.builtins {
		out = append(out, b.Name)
	}
	return out
}

// Builtins returns a copy of the registered builtins.
func (r *Registry) Builtins() []Builtin {
	return append([]Builtin(nil), r.builtins...)
}

// DefaultBuiltins holds every builtin of the interpreter in help order.
func DefaultBuiltins() []Builtin {
	return []Builtin{
		{Name: "cd", Use: "cd <path>", Short: "Change the working directory.", Main: Cd},
		{Name: "help", Use: "help", Short: "Show this help.", Main: Help},
		{Name: "exit", Use: "exit", Short: "Exit the interpreter.", Main: Exit},
	}
}

// DefaultRegistry creates a registry of DefaultBuiltins.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(DefaultBuiltins()...)
	if err != nil {
		// The default set is static, this can only be a programming error.
		panic(err)
	}
	return registry
}

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) Outcome {
	if len(args) < 2 {
		return Outcome{
			Status:     Continue,
			Diagnostic: fmt.Errorf("%s: expected argument, usage: cd <path>", args[0]),
		}
	}

	if err := s.Env.Chdir(args[1]); err != nil {
		return Outcome{Status: Continue, Diagnostic: fmt.Errorf("%s: %w", args[0], err)}
	}
	return Outcome{Status: Continue}
}

// Help prints the builtins.
func Help(s *Shell, args []string) Outcome {
	w := s.Stdout
	fmt.Fprintln(w, "ash, a minimal command interpreter.")
	fmt.Fprintln(w, "Type a program name and its arguments, then hit enter.")
	fmt.Fprintln(w, "The following commands are built in:")
	for _, name := range s.Builtins.Names() {
		fmt.Fprintf(w, "   %s\n", name)
	}
	fmt.Fprintln(w, "Use the man command for information on other programs.")

	return Outcome{Status: Continue}
}

// Exit quits the shell
func Exit(s *Shell, args []string) Outcome {
	return Outcome{Status: Terminate}
}
