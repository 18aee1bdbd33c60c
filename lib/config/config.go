// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/monofile-dev/monofile/lib/container"
)

const (
	// EnvironmentVariable names a configuration file to load when no
	// --config flag is given.
	EnvironmentVariable = "MONOFILE_CONFIG"

	// FileName is the configuration file looked for next to the
	// executable.
	FileName = "monofile.yaml"
)

// Source describes where a loaded configuration came from.
type Source string

const (
	SourceFlag        Source = "flag"
	SourceEnvironment Source = "environment"
	SourceExecutable  Source = "executable"
	SourceDefaults    Source = "defaults"
)

// Config is the effective monofile configuration.
type Config struct {
	// CheckStaleness makes run compare the stored fingerprint against
	// the current manifest, source, and platform and rebuild on a
	// mismatch.
	CheckStaleness bool `yaml:"check_staleness" json:"check_staleness"`

	// Encoding is the payload encoding used when edit packs a
	// container.
	Encoding container.Encoding `yaml:"encoding" json:"encoding"`

	BuildTree BuildTreeConfig `yaml:"build_tree" json:"build_tree"`

	// Editor is an editor command line or preset name. Empty falls
	// back to $VISUAL, $EDITOR, then nano.
	Editor string `yaml:"editor" json:"editor"`

	Toolchain ToolchainConfig `yaml:"toolchain" json:"toolchain"`

	// Path is the file this configuration was read from. Empty for
	// built-in defaults.
	Path string `yaml:"-" json:"path,omitempty"`

	// Source records how Path was found.
	Source Source `yaml:"-" json:"source"`
}

// BuildTreeConfig controls where build trees are generated.
type BuildTreeConfig struct {
	// SeparateDirectory places the tree in <dir>/<base name>/ instead of
	// next to the container.
	SeparateDirectory bool `yaml:"separate_directory" json:"separate_directory"`
}

// ToolchainConfig controls how build trees are compiled.
type ToolchainConfig struct {
	// Go is the go binary (a path or a name on PATH). Empty resolves
	// "go" on PATH, then $GOROOT/bin/go.
	Go string `yaml:"go" json:"go"`

	// Tidy runs "go mod tidy" before every build.
	Tidy bool `yaml:"tidy" json:"tidy"`

	// Flags are passed to "go build".
	Flags []string `yaml:"flags" json:"flags"`

	// Env entries ("KEY=value") are added to the toolchain environment.
	Env []string `yaml:"env" json:"env"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CheckStaleness: false,
		Encoding:       container.Raw,
		BuildTree: BuildTreeConfig{
			SeparateDirectory: true,
		},
		Toolchain: ToolchainConfig{
			Tidy:  true,
			Flags: []string{"-trimpath"},
			Env:   []string{},
		},
		Source: SourceDefaults,
	}
}

// Load resolves the configuration file and loads it. flagPath is the
// value of the --config flag, empty when not given.
func Load(flagPath string) (*Config, error) {
	executableDirectory := ""
	if executable, err := os.Executable(); err == nil {
		executableDirectory = filepath.Dir(executable)
	}
	return load(flagPath, os.Getenv(EnvironmentVariable), executableDirectory)
}

// ExecutablePath returns where the configuration file beside the
// running executable is looked for, whether or not it exists.
func ExecutablePath() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Join(filepath.Dir(executable), FileName), nil
}

func load(flagPath, environmentPath, executableDirectory string) (*Config, error) {
	path, source := resolve(flagPath, environmentPath, executableDirectory)
	if path == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if source == SourceEnvironment {
			return nil, fmt.Errorf("%s: %w", EnvironmentVariable, err)
		}
		return nil, err
	}
	cfg.Source = source
	return cfg, nil
}

// resolve picks the configuration file. The file beside the executable
// is used only when it exists.
func resolve(flagPath, environmentPath, executableDirectory string) (string, Source) {
	if flagPath != "" {
		return flagPath, SourceFlag
	}
	if environmentPath != "" {
		return environmentPath, SourceEnvironment
	}
	if executableDirectory != "" {
		candidate := filepath.Join(executableDirectory, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, SourceExecutable
		}
	}
	return "", SourceDefaults
}

// LoadFile loads configuration from path on top of the defaults and
// validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		absolute = path
	}
	cfg.Path = absolute
	cfg.Source = SourceFlag
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty file decodes to io.EOF and leaves the defaults alone.
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return nil
}

// expandVariables expands ${VAR} references in fields that hold paths
// or command lines.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	if c.Path != "" {
		vars["MONOFILE_CONFIG_DIR"] = filepath.Dir(c.Path)
	}

	c.Editor = expandVars(c.Editor, vars)
	c.Toolchain.Go = expandVars(c.Toolchain.Go, vars)
	for i, entry := range c.Toolchain.Env {
		c.Toolchain.Env[i] = expandVars(entry, vars)
	}
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default} in s. Values in vars
// take precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Encoding != container.Raw && c.Encoding != container.Text {
		errs = append(errs, fmt.Errorf("encoding: unsupported value %q", c.Encoding.String()))
	}

	for i, flag := range c.Toolchain.Flags {
		if strings.TrimSpace(flag) == "" {
			errs = append(errs, fmt.Errorf("toolchain.flags[%d]: empty entry", i))
		}
	}

	for i, entry := range c.Toolchain.Env {
		if key, _, ok := strings.Cut(entry, "="); !ok || key == "" {
			errs = append(errs, fmt.Errorf("toolchain.env[%d]: %q is not KEY=value", i, entry))
		}
	}

	return errors.Join(errs...)
}
