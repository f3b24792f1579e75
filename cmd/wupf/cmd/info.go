package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-wups/wupf/cmd/wupf/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "info",
		Short: "Print the resolved project configuration",
		Long: `Print the resolved configuration of a plugin project as YAML.

Shows the values the framework would use after applying manifest
settings and defaults: plugin name, module path, storage directory and
log sink. With no argument the project root is found by walking up from
the current directory.

Examples:
  wupf info
  wupf info ./plugins/swap-buttons`,
		Usage: "wupf info [directory]",
		Run:   runInfo,
	})
}

// projectInfo is the YAML shape printed by "wupf info".
type projectInfo struct {
	Plugin      string `yaml:"plugin"`
	Version     string `yaml:"version,omitempty"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	License     string `yaml:"license,omitempty"`
	Module      string `yaml:"module"`
	Root        string `yaml:"root"`
	StorageDir  string `yaml:"storage_dir"`
	LogSink     string `yaml:"log_sink"`
	LogTarget   string `yaml:"log_target,omitempty"`
	Manifest    bool   `yaml:"manifest"`
}

func runInfo(args []string) error {
	dir, err := projectDir(args)
	if err != nil {
		return err
	}

	res, err := config.Resolve(dir)
	if err != nil {
		return err
	}

	info := projectInfo{
		Plugin:      res.PluginName,
		Version:     res.Version,
		Description: res.Manifest.Description,
		Author:      res.Manifest.Author,
		License:     res.Manifest.License,
		Module:      res.ModulePath,
		Root:        res.Root,
		StorageDir:  res.StorageDir,
		LogSink:     res.LogSink,
		LogTarget:   res.LogTarget,
		Manifest:    res.HasManifest,
	}

	out, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to render project info: %w", err)
	}
	os.Stdout.Write(out)
	return nil
}
