package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
)

// Config is the complete invocation configuration of one compilation run.
// Fields tagged with yaml may come from a configuration file; the rest are
// supplied by the command line.
type Config struct {
	// Source is the Guppy program to compile. Mutually exclusive with HugrInput.
	Source string `yaml:"-"`
	// HugrInput is a serialized HUGR package used instead of a Guppy program.
	HugrInput string `yaml:"-"`
	// Entrypoint names the function used as root for dead function removal
	// and symbol mangling. Empty means no entrypoint.
	Entrypoint string `yaml:"-"`

	OptLevel OptLevel        `yaml:"opt_level"`
	Guppy    FrontendVersion `yaml:"guppy"`
	Frontend FrontendConfig  `yaml:"frontend"`
	LLVM     LLVMConfig      `yaml:"llvm"`
	Output   OutputRequest   `yaml:"-"`

	// MetricsFile, when set, receives the run's metrics in Prometheus text format.
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// FrontendConfig controls how the frontend process is spawned.
type FrontendConfig struct {
	UV      string `yaml:"uv"`      // uv executable
	Python  string `yaml:"python"`  // interpreter name passed to `uv run`
	Package string `yaml:"package"` // frontend package the version locator applies to
}

// LLVMConfig names the LLVM command line tools used by the low-level stage.
type LLVMConfig struct {
	Opt    string `yaml:"opt"`
	LLVMAs string `yaml:"llvm_as"`
}

// EntrypointSpec reports the configured entrypoint and whether one was given.
func (c *Config) EntrypointSpec() (string, bool) {
	return c.Entrypoint, c.Entrypoint != ""
}

// New returns a configuration with all defaults applied.
func New() *Config {
	cfg := &Config{OptLevel: DefaultOptLevel}
	applyDefaults(cfg)
	return cfg
}

// Load reads an optional YAML configuration file, expands environment
// variables in it, applies defaults and environment overrides. An empty path
// yields the defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := &Config{OptLevel: DefaultOptLevel}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, ferrors.ConfigError("failed to read config file").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, ferrors.ConfigError("failed to parse config file").
				WithCause(err).
				WithContext("path", configPath).
				Build()
		}
	}

	applyDefaults(cfg)
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(New())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
