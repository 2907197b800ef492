package logger

// LogEntry is a single recorded event, exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	RunBuiltin     *RunBuiltin     `json:"run_builtin,omitempty"`
	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	SessionEnd     *SessionEnd     `json:"session_end,omitempty"`
}

// GetLogType returns the event held by the entry, or nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.RunBuiltin != nil:
		return le.RunBuiltin
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.SessionEnd != nil:
		return le.SessionEnd
	default:
		return nil
	}
}

func (le *LogEntry) setLogType(event LogType) {
	switch event := event.(type) {
	case *SessionStart:
		le.SessionStart = event
	case *RunBuiltin:
		le.RunBuiltin = event
	case *RunCommand:
		le.RunCommand = event
	case *UnknownCommand:
		le.UnknownCommand = event
	case *SessionEnd:
		le.SessionEnd = event
	}
}

// LogType is implemented by every event that can be recorded.
type LogType interface {
	isLogType()
}

// SessionStart is recorded when the interpreter starts reading input.
type SessionStart struct {
	User        string `json:"user,omitempty"`
	Dir         string `json:"dir"`
	Interactive bool   `json:"interactive"`
}

// RunBuiltin is recorded after a builtin runs.
type RunBuiltin struct {
	Command   []string `json:"command"`
	Terminate bool     `json:"terminate,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// RunCommand is recorded after a launched program terminates.
type RunCommand struct {
	Command      []string `json:"command"`
	ResolvedPath string   `json:"resolved_path"`
	Dir          string   `json:"dir"`
	Pid          int      `json:"pid"`
	// Status is the termination status e.g. "exit status 1".
	Status   string `json:"status"`
	ExitCode int    `json:"exit_code"`
	Stops    int    `json:"stops,omitempty"`
}

// UnknownCommandStatus describes why a command couldn't be launched.
type UnknownCommandStatus string

const (
	StatusNotFound         UnknownCommandStatus = "NOT_FOUND"
	StatusPermissionDenied UnknownCommandStatus = "PERMISSION_DENIED"
	StatusStartFailed      UnknownCommandStatus = "START_FAILED"
	StatusWaitFailed       UnknownCommandStatus = "WAIT_FAILED"
)

// UnknownCommand is recorded when a program couldn't be launched.
type UnknownCommand struct {
	Command      []string             `json:"command"`
	Status       UnknownCommandStatus `json:"status"`
	ErrorMessage string               `json:"error_message,omitempty"`
}

// SessionEnd is recorded when the interpreter stops.
type SessionEnd struct {
	Reason string `json:"reason"`
}

func (*SessionStart) isLogType()   {}
func (*RunBuiltin) isLogType()     {}
func (*RunCommand) isLogType()     {}
func (*UnknownCommand) isLogType() {}
func (*SessionEnd) isLogType()     {}
