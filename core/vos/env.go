package vos

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	EnvPath   = "PATH"
	EnvPWD    = "PWD"
	EnvOldPWD = "OLDPWD"
	EnvHome   = "HOME"
)

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment from a list of "key=value"
// strings like the one returned by os.Environ.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Setenv(key, value)
	}

	return out
}

// MapEnv implemnts an in-memory set of environment variables.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

// Unsetenv unsets a single environment variable.
func (m *MapEnv) Unsetenv(key string) {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
}

// Setenv sets the value of the environment variable named by the key.
func (m *MapEnv) Setenv(key, value string) {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
}

// LookupEnv retrieves the value of the environment variable named by the key
// and whether it was present.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv retrieves the value of the environment variable named by the key.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ returns a sorted copy of the variables in "key=value" form.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}

// Environment is the state inherited by every launched program: a working
// directory and a set of environment variables. Only Chdir changes the
// working directory, the interpreter never changes its own.
type Environment struct {
	*MapEnv
	dir string
}

// NewEnvironment creates an Environment rooted at dir. PWD is set to match.
func NewEnvironment(dir string, environ []string) *Environment {
	env := &Environment{
		MapEnv: NewMapEnvFromEnvList(environ),
		dir:    filepath.Clean(dir),
	}
	env.Setenv(EnvPWD, env.dir)
	return env
}

// Getwd returns the working directory.
func (e *Environment) Getwd() string {
	return e.dir
}

// Abs resolves p against the working directory.
func (e *Environment) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(e.dir, p)
}

// Chdir changes the working directory. The target must be an existing
// directory the user can search. Errors are prefixed with dir and wrap the
// underlying cause.
func (e *Environment) Chdir(dir string) error {
	target := e.Abs(dir)

	info, err := os.Stat(target)
	switch {
	case err != nil:
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return fmt.Errorf("%s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("%s: %w", dir, syscall.ENOTDIR)
	}

	if err := unix.Access(target, unix.X_OK); err != nil {
		return fmt.Errorf("%s: %w", dir, err)
	}

	e.Setenv(EnvOldPWD, e.dir)
	e.dir = target
	e.Setenv(EnvPWD, target)
	return nil
}
