package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration to dir if it doesn't already
// have one.
func Initialize(dir string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs writes the default configuration to dir in fs.
func InitializeFs(configFs afero.Fs, dir string, logger *log.Logger) error {
	if err := configFs.MkdirAll(dir, 0700); err != nil {
		return err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := configFs.Stat(configPath); {
	case err == nil:
		logger.Printf("Configuration %q already exists, skipping\n", configPath)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	logger.Printf("Writing configuration to %q\n", configPath)
	return afero.WriteFile(configFs, configPath, defaultConfigData, 0600)
}
