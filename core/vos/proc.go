package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrNotFound is the error resulting if a path search failed to find an executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(file string) error {
	d, err := os.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named by
// the PATH variable of env. If file contains a slash, it is tried directly
// and the PATH is not consulted. Relative paths are resolved against the
// working directory of env, the result is always absolute.
//
// If a match was found but none were executable the error is
// fs.ErrPermission, otherwise it's ErrNotFound.
func LookPath(env *Environment, file string) (string, error) {
	if strings.Contains(file, "/") {
		path := env.Abs(file)
		if err := findExecutable(path); err != nil {
			return "", err
		}
		return path, nil
	}

	var permErr error
	for _, dir := range filepath.SplitList(env.Getenv(EnvPath)) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := env.Abs(filepath.Join(dir, file))
		err := findExecutable(path)
		switch {
		case err == nil:
			return path, nil
		case errors.Is(err, fs.ErrPermission) && permErr == nil:
			permErr = err
		}
	}
	if permErr != nil {
		return "", permErr
	}
	return "", ErrNotFound
}

// ProcAttr holds the attributes that will be applied to a new process.
type ProcAttr struct {
	// Dir is the working directory of the new process.
	Dir string
	// Env gives the environment variables for the new process in the form
	// returned by Environ.
	Env []string
	// Files specifies the open files inherited by the new process: standard
	// input, output, and error. If nil, the interpreter's own are used.
	Files []*os.File
}

// Process is a launched program that hasn't been waited on yet.
type Process struct {
	Pid int

	proc *os.Process
}

// StartProcess runs the program image at name with the argument vector
// argv, argv[0] is conventionally the command name as typed. No shell
// expansion is done.
func StartProcess(name string, argv []string, attr *ProcAttr) (*Process, error) {
	files := attr.Files
	if files == nil {
		files = []*os.File{os.Stdin, os.Stdout, os.Stderr}
	}

	proc, err := os.StartProcess(name, argv, &os.ProcAttr{
		Dir:   attr.Dir,
		Env:   attr.Env,
		Files: files,
	})
	if err != nil {
		return nil, err
	}

	return &Process{Pid: proc.Pid, proc: proc}, nil
}

// Wait blocks until the process exits or is killed by a signal. A process
// that is merely stopped is still running, so Wait keeps waiting on it.
func (p *Process) Wait() (*ProcessState, error) {
	state := &ProcessState{Pid: p.Pid}

	for {
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(p.Pid, &ws, unix.WUNTRACED, nil)
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return nil, os.NewSyscallError("wait4", err)
		case wpid != p.Pid:
			continue
		}

		switch {
		case ws.Exited():
			state.Exited = true
			state.ExitCode = ws.ExitStatus()
		case ws.Signaled():
			state.Signal = ws.Signal()
			state.CoreDump = ws.CoreDump()
		case ws.Stopped():
			state.Stops++
			continue
		default:
			continue
		}

		// The pid is reaped, the handle is no longer needed.
		p.proc.Release()
		return state, nil
	}
}

// ProcessState is the termination status of a waited-on process.
type ProcessState struct {
	Pid int

	// Exited is true if the process called exit, ExitCode holds its status.
	Exited   bool
	ExitCode int

	// Signal is the signal that killed the process if it didn't exit.
	Signal   syscall.Signal
	CoreDump bool

	// Stops counts the times the process was stopped before terminating.
	Stops int
}

// Success reports whether the program exited with status 0.
func (s *ProcessState) Success() bool {
	return s.Exited && s.ExitCode == 0
}

// Status gets the status in the shell convention: the exit code, or 128
// plus the signal number for a killed process.
func (s *ProcessState) Status() int {
	if s.Exited {
		return s.ExitCode
	}
	return 128 + int(s.Signal)
}

func (s *ProcessState) String() string {
	if s.Exited {
		return fmt.Sprintf("exit status %d", s.ExitCode)
	}

	out := fmt.Sprintf("signal: %v", s.Signal)
	if s.CoreDump {
		out += " (core dumped)"
	}
	return out
}
