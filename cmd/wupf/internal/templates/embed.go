// Package templates provides embedded template files for plugin project
// creation.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed init/*.tmpl
var templateFS embed.FS

// ReadFile reads a template file by its path within the embedded filesystem.
func ReadFile(path string) ([]byte, error) {
	return templateFS.ReadFile(path)
}

// InitFiles lists the init template paths in the embedded filesystem.
func InitFiles() ([]string, error) {
	return fs.Glob(templateFS, "init/*.tmpl")
}
