// Package manifest reads and validates wups.toml plugin manifests.
//
// The manifest carries the metadata the host displays for a loaded plugin
// (name, description, version, author, license) plus optional sections for
// persistent storage and log output. Only the metadata fields are required.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file name expected at the project root.
const FileName = "wups.toml"

// Manifest describes a plugin project.
type Manifest struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Version     string `toml:"version"`
	Author      string `toml:"author"`
	License     string `toml:"license"`

	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where the plugin's persistent store lives.
type StorageConfig struct {
	// Dir is the directory for the plugin's YAML store. Empty means the
	// host default.
	Dir string `toml:"dir"`
}

// LogConfig selects the plugin's log sink.
type LogConfig struct {
	// Sink is one of "none", "console" or "udp". Empty means "none".
	Sink string `toml:"sink"`
	// Target is the UDP address for the "udp" sink. Empty means the
	// framework default broadcast target.
	Target string `toml:"target"`
}

var (
	nameRe    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9 _-]*$`)
	versionRe = regexp.MustCompile(`^v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", path, err)
	}
	return &m, nil
}

// LoadOptional reads the manifest from dir if one exists. A missing file is
// not an error; found reports whether the manifest was present.
func LoadOptional(dir string) (m *Manifest, found bool, err error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Manifest{}, false, nil
	}
	m, err = Load(path)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Validate checks that all required fields are present and well formed.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !nameRe.MatchString(m.Name) {
		return fmt.Errorf("name %q must start with a letter and contain only letters, numbers, spaces, hyphens, and underscores", m.Name)
	}
	if m.Description == "" {
		return fmt.Errorf("description is required")
	}
	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if !versionRe.MatchString(m.Version) {
		return fmt.Errorf("version %q must look like MAJOR.MINOR.PATCH", m.Version)
	}
	if m.Author == "" {
		return fmt.Errorf("author is required")
	}
	if m.License == "" {
		return fmt.Errorf("license is required")
	}
	switch m.Log.Sink {
	case "", "none", "console", "udp":
	default:
		return fmt.Errorf("log sink %q must be one of none, console, udp", m.Log.Sink)
	}
	if m.Log.Target != "" && m.Log.Sink != "udp" {
		return fmt.Errorf("log target is only valid with the udp sink")
	}
	return nil
}
