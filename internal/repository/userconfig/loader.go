// Package userconfig loads the user-to-algorithm mapping from a JSONC document.
package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/fantom/internal/domain"
	"github.com/kailas-cloud/fantom/internal/domain/users"
)

// DefaultPath is the users document location relative to the working directory.
const DefaultPath = "config/fantom.users.jsonc"

// LoadError reports a users document that is missing, unreadable or malformed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load user configuration %s: %v", e.Path, e.Err)
}

// Unwrap exposes both domain.ErrConfigLoad and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{domain.ErrConfigLoad, e.Err} }

// Loader reads the users document on every Load call. Nothing is cached.
type Loader struct {
	path string
}

// New creates a Loader for path; empty path means DefaultPath.
func New(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path}
}

// Path returns the document location.
func (l *Loader) Path() string { return l.path }

// Load reads and parses the document.
func (l *Loader) Load() (users.Config, error) {
	return LoadFile(l.path)
}

type document struct {
	Users []users.Entry `json:"users"`
}

// LoadFile reads, strips comments from, and parses the users document at path.
func LoadFile(path string) (users.Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return users.Config{}, &LoadError{Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		return users.Config{}, &LoadError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes a JSONC users document.
func Parse(data []byte) (users.Config, error) {
	var doc document
	// Unmarshal rejects anything after the top-level value.
	if err := json.Unmarshal(StripComments(data), &doc); err != nil {
		return users.Config{}, fmt.Errorf("parse: %w", err)
	}
	return users.NewConfig(doc.Users), nil
}
