package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	Prompt      string `json:"prompt"`
	Color       string `json:"color" validate:"oneof=always auto never"`
	HistoryFile string `json:"history_file" validate:"omitempty,excludesall=/"`
	EventLog    string `json:"event_log" validate:"omitempty,excludesall=/"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		// Configurations without a backing directory can't persist anything.
		c.configFs = afero.NewReadOnlyFs(afero.NewMemMapFs())
	}
	return c.configFs
}

// Dir gets the directory the configuration was loaded from, blank if it
// wasn't loaded from disk.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// HistoryPath returns the absolute path of the interactive history file,
// or blank if history isn't persisted.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" || c.configurationDir == "" {
		return ""
	}
	return filepath.Join(c.configurationDir, c.HistoryFile)
}

// HasEventLog is true if command events should be recorded.
func (c *Configuration) HasEventLog() bool {
	return c.EventLog != "" && c.configurationDir != ""
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration, it isn't backed by a
// directory so history and events aren't persisted.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
