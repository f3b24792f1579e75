// Package config resolves a plugin project from its go.mod and wups.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/go-wups/wupf/cmd/wupf/internal/manifest"
	"github.com/go-wups/wupf/pkg/logger"
)

// DefaultStorageDir is where a plugin's YAML store lives when the manifest
// does not say otherwise, relative to the project root.
const DefaultStorageDir = "storage"

// Resolved contains resolved project values.
type Resolved struct {
	Root       string
	ModulePath string
	PluginName string
	Version    string
	StorageDir string
	LogSink    string
	LogTarget  string

	Manifest    *manifest.Manifest
	HasManifest bool
}

// Resolve loads wups.toml (if present) and resolves defaults from go.mod.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}
	if err := module.CheckImportPath(modulePath); err != nil {
		return nil, fmt.Errorf("invalid module path in go.mod: %w", err)
	}

	m, found, err := manifest.LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	pluginName := strings.TrimSpace(m.Name)
	if pluginName == "" {
		pluginName = defaultPluginName(modulePath, dir)
	}
	if err := validatePluginName(pluginName); err != nil {
		return nil, err
	}

	storageDir := strings.TrimSpace(m.Storage.Dir)
	if storageDir == "" {
		storageDir = DefaultStorageDir
	}
	if !filepath.IsAbs(storageDir) {
		storageDir = filepath.Join(dir, storageDir)
	}

	logSink := strings.TrimSpace(m.Log.Sink)
	if logSink == "" {
		logSink = "none"
	}
	logTarget := strings.TrimSpace(m.Log.Target)
	if logSink == "udp" && logTarget == "" {
		logTarget = logger.DefaultUDPTarget
	}

	return &Resolved{
		Root:        dir,
		ModulePath:  modulePath,
		PluginName:  pluginName,
		Version:     strings.TrimSpace(m.Version),
		StorageDir:  storageDir,
		LogSink:     logSink,
		LogTarget:   logTarget,
		Manifest:    m,
		HasManifest: found,
	}, nil
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultPluginName(modulePath, dir string) string {
	base := filepath.Base(dir)
	modName, _, ok := module.SplitPathVersion(modulePath)
	if ok {
		parts := strings.Split(modName, "/")
		if len(parts) > 0 {
			base = parts[len(parts)-1]
		}
	}
	if base == "" {
		return "wupf_plugin"
	}
	return base
}

func validatePluginName(name string) error {
	if name == "" {
		return fmt.Errorf("plugin name is empty")
	}
	first := name[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return fmt.Errorf("plugin name must start with a letter (got %q)", name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '_', r == '-':
		default:
			return fmt.Errorf("plugin name contains invalid character %q (got %q)", r, name)
		}
	}
	return nil
}
