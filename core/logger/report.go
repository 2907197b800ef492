package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{
		UnknownCommands: NewPathCounter("command", "status"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries"`
	Sessions       int        `json:"sessions"`

	// Builtins counts the builtins that were run.
	Builtins StrCounter `json:"builtins"`
	// CommandNames counts launched programs by the name they were invoked as.
	CommandNames StrCounter `json:"command_names"`
	// ResolvedCommandPaths counts launched programs by their resolved path.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Statuses counts termination statuses of launched programs.
	Statuses StrCounter `json:"statuses"`
	// UnknownCommands counts commands that couldn't be launched.
	UnknownCommands *PathCounter `json:"unknown_commands"`
	// EndReasons counts why sessions ended.
	EndReasons StrCounter `json:"end_reasons"`
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Sessions++
	case *RunBuiltin:
		r.Builtins.Increment(commandName(event.Command))
	case *RunCommand:
		r.CommandNames.Increment(commandName(event.Command))
		r.ResolvedCommandPaths.Increment(event.ResolvedPath)
		r.Statuses.Increment(event.Status)
	case *UnknownCommand:
		r.UnknownCommands.Increment(commandName(event.Command), string(event.Status))
	case *SessionEnd:
		r.EndReasons.Increment(event.Reason)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

func commandName(command []string) string {
	if len(command) == 0 {
		return ""
	}
	return command[0]
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

// NewPathCounter creates a counter keyed on the given columns.
func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the given key.
func (ctr *PathCounter) Get(key ...string) int {
	return ctr.internal[toKey(key...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.NewDecoder(strings.NewReader(key)).Decode(&out)
	return
}
