// Package prefs persists user display preferences between runs.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kuponqurban/kupon/internal/atomicfile"
)

// FileName is the preferences file inside the application config directory.
const FileName = "preferences.yaml"

// Preferences holds the persisted settings.
type Preferences struct {
	DarkMode bool `yaml:"darkMode"`
}

// Defaults returns the preferences used when nothing has been saved yet.
func Defaults() Preferences {
	return Preferences{DarkMode: true}
}

// Store reads and writes preferences in a YAML file.
type Store struct {
	path   string
	mu     sync.Mutex
	prefs  Preferences
	Logger *slog.Logger
}

// DefaultPath returns the preferences file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "kupon", FileName), nil
}

// NewStore creates a store backed by path holding the defaults.
// Call Load to read the saved state.
func NewStore(path string) *Store {
	return &Store{path: path, prefs: Defaults()}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads the file. A missing file keeps the defaults silently; an
// unreadable or corrupt one keeps the defaults and logs a warning.
func (s *Store) Load() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = Defaults()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.prefs
	}
	if err != nil {
		s.logger().Warn("failed to read preferences, using defaults", "path", s.path, "error", err)
		return s.prefs
	}

	// Start from the defaults so keys absent from the file keep them.
	p := Defaults()
	if err := yaml.Unmarshal(data, &p); err != nil {
		s.logger().Warn("corrupt preferences file, using defaults", "path", s.path, "error", err)
		return s.prefs
	}
	s.prefs = p
	return s.prefs
}

// Get returns the current preferences
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Set replaces the preferences and writes them out.
func (s *Store) Set(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(p); err != nil {
		return err
	}
	s.prefs = p
	return nil
}

// ToggleDarkMode flips the theme, saves it and returns the new value.
func (s *Store) ToggleDarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	p.DarkMode = !p.DarkMode
	if err := s.save(p); err != nil {
		return s.prefs.DarkMode, err
	}
	s.prefs = p
	return p.DarkMode, nil
}

func (s *Store) save(p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	err = atomicfile.Write(s.path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
