package cmd

import (
	"fmt"

	"github.com/go-wups/wupf/cmd/wupf/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "validate",
		Short: "Validate the plugin manifest",
		Long: `Validate the wups.toml manifest of a plugin project.

Checks that the project is a Go module, that wups.toml is present, and
that every required manifest field is well formed. With no argument the
project root is found by walking up from the current directory.

Examples:
  wupf validate
  wupf validate ./plugins/swap-buttons`,
		Usage: "wupf validate [directory]",
		Run:   runValidate,
	})
}

func runValidate(args []string) error {
	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	res, err := config.Resolve(dir)
	if err != nil {
		return err
	}

	if !res.HasManifest {
		return fmt.Errorf("no wups.toml found in %s (run \"wupf init\" to create a project)", dir)
	}
	if err := res.Manifest.Validate(); err != nil {
		return fmt.Errorf("wups.toml: %w", err)
	}

	fmt.Printf("wups.toml is valid\n")
	fmt.Printf("  plugin: %s %s\n", res.PluginName, res.Version)
	fmt.Printf("  module: %s\n", res.ModulePath)
	return nil
}

// projectDir resolves the directory a command operates on: the first argument
// if given, the enclosing Go module otherwise.
func projectDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return config.FindProjectRoot()
}
