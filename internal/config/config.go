package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/universe-sidecar/internal/domain/triple"
)

// Build styles decide how the output location is passed to the build command.
const (
	// BuildStyleGo passes `-o <file> <entry>` (go build).
	BuildStyleGo = "go"
	// BuildStylePyInstaller passes `--onefile --name <base> --distpath <dir> <entry>`.
	BuildStylePyInstaller = "pyinstaller"
)

const (
	// DefaultConfigFilename is the default filename for packager settings.
	DefaultConfigFilename = "sidecar-packager.yaml"

	// DefaultManifestFilename is the default publish manifest, relative to the project directory.
	DefaultManifestFilename = "sidecar-manifest.yaml"

	// ManifestDisabled turns off the publish manifest when used as ManifestPath.
	ManifestDisabled = "-"

	// DefaultBaseName is the sidecar name the host shell looks up.
	DefaultBaseName = "universe-sidecar"

	// DefaultOutputDir is where the host shell discovers sidecar binaries.
	DefaultOutputDir = "../src-tauri/binaries"

	// DefaultToolchainCommand reports the host triple of the installed Rust toolchain.
	DefaultToolchainCommand = "rustc -vV"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Config holds the packager settings.
type Config struct {
	// ProjectDir is the directory build commands run in. Relative paths below are resolved against it.
	ProjectDir string `yaml:"project_dir"`
	// EntryPoint is the package or script handed to the build tool.
	EntryPoint string `yaml:"entry_point"`
	// BaseName is the fixed working name of the executable.
	BaseName string `yaml:"base_name"`
	// OutputDir is the binaries directory owned by the host shell.
	OutputDir string `yaml:"output_dir"`
	// BuildStyle is one of BuildStyleGo or BuildStylePyInstaller.
	BuildStyle string `yaml:"build_style"`
	// BuildCommand is the build tool invocation without output arguments.
	BuildCommand string `yaml:"build_command"`
	// DependencyCommands run in order before the build. An explicit empty list disables them.
	DependencyCommands []string `yaml:"dependency_commands"`
	// ToolchainCommand prints a `host: <triple>` line.
	ToolchainCommand string `yaml:"toolchain_command"`
	// FallbackTable overrides the built-in OS/machine table.
	FallbackTable triple.FallbackTable `yaml:"fallback_table,omitempty"`
	// ManifestPath is the publish manifest location, or ManifestDisabled.
	ManifestPath string `yaml:"manifest_path"`
	// TerminateRunning kills processes still running a stale published artifact.
	TerminateRunning bool `yaml:"terminate_running"`
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownBuildStyle is returned for an unsupported build style.
	errUnknownBuildStyle = errors.New("unknown build style")
	// errInvalidBaseName is returned when the base name is empty or contains a path.
	errInvalidBaseName = errors.New("base name must be a plain file name")
	// errEmptyCommand is returned when a configured command has no words.
	errEmptyCommand = errors.New("command is empty")
	// ErrConfigExists is returned by Save callers that refuse to overwrite.
	ErrConfigExists = errors.New("configuration file already exists")
)

// Default returns the settings for the given build style with every default applied.
func Default(style string) *Config {
	cfg := &Config{
		BuildStyle: style,
	}

	// Defaults never fail validation for a known style.
	_ = Validate(cfg) //nolint:errcheck // See above.

	return cfg
}

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but returns Go defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)

	switch {
	case err == nil:
		return cfg, true, nil
	case errors.Is(err, os.ErrNotExist):
		return Default(BuildStyleGo), false, nil
	default:
		return nil, false, err
	}
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and checks the settings.
//
//nolint:cyclop // A flat list of defaults reads better than helpers.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.BuildStyle == "" {
		cfg.BuildStyle = BuildStyleGo
	}

	cfg.BuildStyle = strings.ToLower(strings.TrimSpace(cfg.BuildStyle))

	switch cfg.BuildStyle {
	case BuildStyleGo:
		setDefault(&cfg.EntryPoint, "./cmd/universe-sidecar")
		setDefault(&cfg.BuildCommand, "go build -trimpath")

		if cfg.DependencyCommands == nil {
			cfg.DependencyCommands = []string{"go mod download", "go mod verify"}
		}
	case BuildStylePyInstaller:
		setDefault(&cfg.EntryPoint, "main.py")
		setDefault(&cfg.BuildCommand, "uv run pyinstaller")

		if cfg.DependencyCommands == nil {
			cfg.DependencyCommands = []string{"uv sync", "uv add --dev pyinstaller"}
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownBuildStyle, cfg.BuildStyle)
	}

	setDefault(&cfg.ProjectDir, ".")
	setDefault(&cfg.BaseName, DefaultBaseName)
	setDefault(&cfg.OutputDir, DefaultOutputDir)
	setDefault(&cfg.ToolchainCommand, DefaultToolchainCommand)
	setDefault(&cfg.ManifestPath, DefaultManifestFilename)

	if cfg.BaseName == "." || cfg.BaseName == ".." || strings.ContainsAny(cfg.BaseName, `/\`) {
		return fmt.Errorf("%w: %q", errInvalidBaseName, cfg.BaseName)
	}

	commands := append([]string{cfg.BuildCommand, cfg.ToolchainCommand}, cfg.DependencyCommands...)
	for _, command := range commands {
		if _, err := SplitCommand(command); err != nil {
			return err
		}
	}

	return nil
}

// SplitCommand splits a configured command line into words using shell quoting rules.
func SplitCommand(command string) ([]string, error) {
	words, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("%w: %q", errEmptyCommand, command)
	}

	return words, nil
}

// Resolve returns path joined to the project directory unless it is absolute.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(c.ProjectDir, path)
}

// ManifestEnabled reports whether the publish manifest should be written.
func (c *Config) ManifestEnabled() bool {
	return c.ManifestPath != ManifestDisabled
}

func setDefault(value *string, fallback string) {
	if strings.TrimSpace(*value) == "" {
		*value = fallback
	}
}
