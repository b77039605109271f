// Package config stores the desktop demo settings as JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const fileName = "config.json"

// Store reads and writes one config file.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for path. A nil fs uses the OS filesystem.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs, path: path}
}

// DefaultPath returns config.json in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "emvdp", fileName), nil
}

// Path returns the file the store uses.
func (s *Store) Path() string {
	return s.path
}

// Load loads the configuration.
// If the file doesn't exist, it returns default configuration.
// If the file is corrupted, it returns an error.
func (s *Store) Load() (*Config, error) {
	if _, err := s.fs.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	config := &Config{}
	if err := s.readJSON(config); err != nil {
		return nil, err
	}

	return migrateConfig(config), nil
}

// Save writes the configuration atomically
func (s *Store) Save(config *Config) error {
	config.Version = CurrentVersion
	return s.atomicWriteJSON(config)
}

// CreateIfMissing writes a default config if none exists
func (s *Store) CreateIfMissing() error {
	if _, err := s.fs.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return s.Save(DefaultConfig())
	}
	return nil
}

// Delete removes the config file
func (s *Store) Delete() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) readJSON(v any) error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	return nil
}

// atomicWriteJSON writes to a temp file and renames it over the target.
func (s *Store) atomicWriteJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	return nil
}

// migrateConfig handles any necessary migrations from older config versions
func migrateConfig(config *Config) *Config {
	// Version 1 had no backend field and always used the software renderer
	if config.Version <= 1 {
		if config.Backend == "" {
			config.Backend = BackendSoftware
		}
		config.Version = CurrentVersion
	}

	// Ensure defaults for any missing fields
	switch config.Backend {
	case BackendKage, BackendSoftware:
	default:
		config.Backend = BackendKage
	}
	if config.Video.Filter == "" {
		config.Video.Filter = "nearest"
	}
	if config.Window.Width == 0 {
		config.Window.Width = 960
	}
	if config.Window.Height == 0 {
		config.Window.Height = 672
	}
	if config.Scene.Region == "" {
		config.Scene.Region = "ntsc"
	}

	return config
}
