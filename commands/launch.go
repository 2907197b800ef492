package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/josephlewis42/ash/core/logger"
	"github.com/josephlewis42/ash/core/shell"
	"github.com/josephlewis42/ash/core/vos"
)

// launch runs the program named by args[0] and waits for it to terminate.
// The interpreter keeps running regardless of how the program ends.
func (s *Shell) launch(args shell.Tokens) Outcome {
	name := args.Name()

	path, err := vos.LookPath(s.Env, name)
	switch {
	case errors.Is(err, vos.ErrNotFound):
		return s.unknownCommand(args, logger.StatusNotFound, err, fmt.Errorf("%s: command not found", name))
	case errors.Is(err, fs.ErrPermission):
		return s.unknownCommand(args, logger.StatusPermissionDenied, err, fmt.Errorf("%s: permission denied", name))
	case err != nil:
		return s.unknownCommand(args, logger.StatusNotFound, err, fmt.Errorf("%s: %w", name, err))
	}

	// Keyboard signals go to the whole foreground process group, the program
	// decides what to do with them while the interpreter waits.
	keyboard := make(chan os.Signal, 1)
	signal.Notify(keyboard, os.Interrupt, syscall.SIGQUIT)
	defer signal.Stop(keyboard)

	dir := s.Env.Getwd()
	proc, err := vos.StartProcess(path, args, &vos.ProcAttr{
		Dir:   dir,
		Env:   s.Env.Environ(),
		Files: s.Files,
	})
	if err != nil {
		return s.unknownCommand(args, logger.StatusStartFailed, err, fmt.Errorf("%s: %w", name, err))
	}

	state, err := proc.Wait()
	if err != nil {
		return s.unknownCommand(args, logger.StatusWaitFailed, err, fmt.Errorf("%s: %w", name, err))
	}
	s.lastStatus = state

	s.record(&logger.RunCommand{
		Command:      args,
		ResolvedPath: path,
		Dir:          dir,
		Pid:          state.Pid,
		Status:       state.String(),
		ExitCode:     state.Status(),
		Stops:        state.Stops,
	})

	return Outcome{Status: Continue}
}

func (s *Shell) unknownCommand(args shell.Tokens, status logger.UnknownCommandStatus, cause, diagnostic error) Outcome {
	s.record(&logger.UnknownCommand{
		Command:      args,
		Status:       status,
		ErrorMessage: cause.Error(),
	})

	return Outcome{Status: Continue, Diagnostic: diagnostic}
}
