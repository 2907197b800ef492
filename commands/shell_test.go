package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/fatih/color"
	"github.com/josephlewis42/ash/core/config"
	"github.com/josephlewis42/ash/core/lineread"
	"github.com/josephlewis42/ash/core/logger"
	"github.com/josephlewis42/ash/core/vos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventCollector struct {
	events []logger.LogType
}

func (c *eventCollector) Record(event logger.LogType) error {
	c.events = append(c.events, event)
	return nil
}

type testShell struct {
	*Shell

	dir    string
	prompt *bytes.Buffer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	child  string
	events *eventCollector
}

// childOutput gets everything launched programs wrote.
func (ts *testShell) childOutput(t *testing.T) string {
	t.Helper()
	out, err := os.ReadFile(ts.child)
	require.NoError(t, err)
	return string(out)
}

func newTestShell(t *testing.T, input string) *testShell {
	t.Helper()

	dir := t.TempDir()
	ts := &testShell{
		dir:    dir,
		prompt: &bytes.Buffer{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		child:  filepath.Join(t.TempDir(), "child-output"),
		events: &eventCollector{},
	}

	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })

	childOut, err := os.Create(ts.child)
	require.NoError(t, err)
	t.Cleanup(func() { childOut.Close() })

	env := vos.NewEnvironment(dir, []string{"PATH=/usr/bin:/bin", "HOME=/nonexistent"})
	reader := lineread.NewReader(strings.NewReader(input), ts.prompt)

	ts.Shell = NewShell(reader, env, DefaultRegistry())
	ts.Prompt = "$ "
	ts.Stdout = ts.stdout
	ts.Stderr = ts.stderr
	ts.Files = []*os.File{devNull, childOut, childOut}
	ts.Events = ts.events

	return ts
}

func TestShell_Run(t *testing.T) {
	cases := map[string]struct {
		input string

		expectedPrompt string
		expectedStdout string
		expectedStderr string
		expectedChild  string
	}{
		"exit": {
			input:          "exit\n",
			expectedPrompt: "$ ",
		},
		"exit-ignores-args": {
			input:          "exit 1 2 3\necho unreachable\n",
			expectedPrompt: "$ ",
		},
		"empty-lines": {
			input:          "\n   \n\t\nexit\n",
			expectedPrompt: "$ $ $ $ ",
		},
		"not-found": {
			input:          "lsdkf\nexit\n",
			expectedPrompt: "$ $ ",
			expectedStderr: "ash: lsdkf: command not found\n",
		},
		"program": {
			input:          "echo hello   world\nexit\n",
			expectedPrompt: "$ $ ",
			expectedChild:  "hello world\n",
		},
		"no-quoting": {
			input:          `echo "a b" c\\d` + "\nexit\n",
			expectedPrompt: "$ $ ",
			expectedChild:  `"a b" c\\d` + "\n",
		},
		"failure-continues": {
			input:          "false\necho after\nexit\n",
			expectedPrompt: "$ $ $ ",
			expectedChild:  "after\n",
		},
		"eof-terminates": {
			input:          "echo one\n",
			expectedPrompt: "$ $ ",
			expectedChild:  "one\n",
		},
		"eof-runs-partial-line": {
			input:          "echo partial",
			expectedPrompt: "$ ",
			expectedChild:  "partial\n",
		},
		"eof-after-exit-is-unread": {
			input:          "exit\nexit\n",
			expectedPrompt: "$ ",
		},
		"cd-no-argument": {
			input:          "cd\nexit\n",
			expectedPrompt: "$ $ ",
			expectedStderr: "ash: cd: expected argument, usage: cd <path>\n",
		},
		"cd-missing": {
			input:          "cd does-not-exist\nexit\n",
			expectedPrompt: "$ $ ",
			expectedStderr: "ash: cd: does-not-exist: no such file or directory\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell(t, tc.input)

			require.NoError(t, ts.Run())

			assert.Equal(t, Terminated, ts.State())
			assert.Equal(t, tc.expectedPrompt, ts.prompt.String())
			assert.Equal(t, tc.expectedStdout, ts.stdout.String())
			assert.Equal(t, tc.expectedStderr, ts.stderr.String())
			assert.Equal(t, tc.expectedChild, ts.childOutput(t))
		})
	}
}

func TestShell_CdInheritedByPrograms(t *testing.T) {
	ts := newTestShell(t, "")
	sub := filepath.Join(ts.dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	ts.RunLine("cd sub")
	assert.Equal(t, sub, ts.Env.Getwd())

	ts.RunLine("pwd")
	assert.Equal(t, sub+"\n", ts.childOutput(t))

	ts.RunLine("cd ..")
	assert.Equal(t, ts.dir, ts.Env.Getwd())
	assert.Empty(t, ts.stderr.String())

	// The interpreter's own directory never changes.
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.NotEqual(t, ts.dir, wd)
}

func TestShell_CdFailureKeepsDirectory(t *testing.T) {
	ts := newTestShell(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(ts.dir, "file"), nil, 0644))

	for _, line := range []string{"cd", "cd does-not-exist", "cd file"} {
		outcome := ts.RunLine(line)
		assert.Equal(t, Continue, outcome.Status, line)
		assert.Error(t, outcome.Diagnostic, line)
		assert.Equal(t, ts.dir, ts.Env.Getwd(), line)
	}
}

func TestShell_LastStatus(t *testing.T) {
	ts := newTestShell(t, "")
	assert.Nil(t, ts.LastStatus())

	// Quotes aren't special, sh is handed an unterminated string.
	ts.RunLine(`sh -c "exit 3"`)
	require.NotNil(t, ts.LastStatus())
	assert.False(t, ts.LastStatus().Success())

	ts.RunLine("true")
	require.NotNil(t, ts.LastStatus())
	assert.True(t, ts.LastStatus().Success())

	script := filepath.Join(ts.dir, "terminate")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nkill -TERM $$\n"), 0755))
	outcome := ts.RunLine("./terminate")
	assert.Equal(t, Continue, outcome.Status)
	require.NotNil(t, ts.LastStatus())
	assert.False(t, ts.LastStatus().Exited)
	assert.Equal(t, syscall.SIGTERM, ts.LastStatus().Signal)
	assert.Equal(t, Running, ts.State())
}

func TestShell_PermissionDenied(t *testing.T) {
	ts := newTestShell(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(ts.dir, "data"), []byte("#!/bin/sh\n"), 0644))

	outcome := ts.RunLine("./data")

	assert.Equal(t, Continue, outcome.Status)
	assert.Equal(t, "ash: ./data: permission denied\n", ts.stderr.String())
	assert.Nil(t, ts.LastStatus())
}

type fakeLineReader struct {
	lines []string
	errs  []error
	reads int
}

func (f *fakeLineReader) SetPrompt(string) {}

func (f *fakeLineReader) ReadLine() (string, error) {
	if f.reads >= len(f.lines) {
		return "", io.EOF
	}
	i := f.reads
	f.reads++
	return f.lines[i], f.errs[i]
}

func (f *fakeLineReader) Close() error {
	return nil
}

func TestShell_ReadErrors(t *testing.T) {
	t.Run("allocation-is-fatal", func(t *testing.T) {
		ts := newTestShell(t, "")
		ts.Reader = &fakeLineReader{
			lines: []string{"", "exit"},
			errs:  []error{lineread.ErrAllocation, nil},
		}

		err := ts.Run()

		assert.True(t, errors.Is(err, lineread.ErrAllocation))
		assert.Equal(t, 1, ts.Reader.(*fakeLineReader).reads)
	})

	t.Run("interrupt-is-ignored", func(t *testing.T) {
		ts := newTestShell(t, "")
		ts.Reader = &fakeLineReader{
			lines: []string{"echo discarded", "echo kept"},
			errs:  []error{lineread.ErrInterrupted, nil},
		}

		require.NoError(t, ts.Run())

		assert.Equal(t, "kept\n", ts.childOutput(t))
		assert.Equal(t, Terminated, ts.State())
	})

	t.Run("other-errors-end-input", func(t *testing.T) {
		ts := newTestShell(t, "")
		ts.Reader = &fakeLineReader{
			lines: []string{"echo last", "echo never"},
			errs:  []error{errors.New("i/o error"), nil},
		}

		require.NoError(t, ts.Run())

		assert.Equal(t, "last\n", ts.childOutput(t))
		assert.Equal(t, 1, ts.Reader.(*fakeLineReader).reads)
	})
}

func TestShell_Events(t *testing.T) {
	ts := newTestShell(t, "help\nlsdkf\ntrue\n")
	ts.User = "ash"

	require.NoError(t, ts.Run())

	events := ts.events.events
	require.Len(t, events, 5)

	assert.Equal(t, &logger.SessionStart{User: "ash", Dir: ts.dir}, events[0])
	assert.Equal(t, &logger.RunBuiltin{Command: []string{"help"}}, events[1])

	unknown, ok := events[2].(*logger.UnknownCommand)
	require.True(t, ok, "expected UnknownCommand, got %T", events[2])
	assert.Equal(t, []string{"lsdkf"}, unknown.Command)
	assert.Equal(t, logger.StatusNotFound, unknown.Status)

	run, ok := events[3].(*logger.RunCommand)
	require.True(t, ok, "expected RunCommand, got %T", events[3])
	assert.Equal(t, []string{"true"}, run.Command)
	assert.Equal(t, ts.dir, run.Dir)
	assert.Equal(t, "exit status 0", run.Status)
	assert.Equal(t, 0, run.ExitCode)

	assert.Equal(t, &logger.SessionEnd{Reason: "end of input"}, events[4])
}

func TestShell_prompt(t *testing.T) {
	cases := map[string]struct {
		template string
		dir      string
		home     string
		uid      int
		expected string
	}{
		"default-user": {
			template: DefaultPrompt,
			dir:      "/tmp",
			home:     "/home/ash",
			uid:      1000,
			expected: "ash@box:/tmp$ ",
		},
		"default-root": {
			template: DefaultPrompt,
			dir:      "/root",
			home:     "/root",
			uid:      0,
			expected: "ash@box:~# ",
		},
		"home-subdir": {
			template: `\w`,
			dir:      "/home/ash/src",
			home:     "/home/ash",
			expected: "~/src",
		},
		"home-prefix-only": {
			template: `\w`,
			dir:      "/home/ashley",
			home:     "/home/ash",
			expected: "/home/ashley",
		},
		"no-home": {
			template: `\w`,
			dir:      "/home/ash",
			expected: "/home/ash",
		},
		"literal": {
			template: "> ",
			dir:      "/",
			expected: "> ",
		},
		"blank": {
			template: "",
			dir:      "/",
			expected: "",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			env := vos.NewEnvironment(tc.dir, []string{"HOME=" + tc.home})
			s := NewShell(nil, env, DefaultRegistry())
			s.Prompt = tc.template
			s.User = "ash"
			s.Hostname = "box"
			s.UID = tc.uid

			assert.Equal(t, tc.expected, s.prompt())
		})
	}
}

func TestShell_promptColor(t *testing.T) {
	env := vos.NewEnvironment("/tmp", nil)
	s := NewShell(nil, env, DefaultRegistry())
	s.Prompt = `\w`
	s.Color = NewColorPrinter(config.ColorAlways, nil)

	expected := color.New(color.FgBlue, color.Bold)
	expected.EnableColor()
	assert.Equal(t, expected.Sprint("/tmp"), s.prompt())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "terminated", Terminated.String())
	assert.Equal(t, "State(7)", State(7).String())
}
