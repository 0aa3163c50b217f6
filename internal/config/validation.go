package config

import (
	"os"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
)

// Validate checks the configuration before any pipeline work begins.
func (c *Config) Validate() error {
	return newConfigurationValidator(c).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.config.Guppy.Validate(); err != nil {
		return err
	}
	if err := cv.validateInput(); err != nil {
		return err
	}
	return cv.validateOptLevel()
}

func (cv *configurationValidator) validateInput() error {
	c := cv.config
	switch {
	case c.Source != "" && c.HugrInput != "":
		return ferrors.ConfigError("a guppy program and a HUGR input cannot both be given").
			WithContext("input", c.Source).
			WithContext("hugr_input", c.HugrInput).
			Build()
	case c.Source == "" && c.HugrInput == "":
		return ferrors.ConfigError("no input file specified").Build()
	}

	path := c.Source
	if path == "" {
		path = c.HugrInput
	}
	if _, err := os.Stat(path); err != nil {
		return ferrors.ConfigError("input file is not accessible").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateOptLevel() error {
	if !cv.config.OptLevel.Valid() {
		return ferrors.ConfigError("optimisation level out of range").
			WithContext("opt_level", int(cv.config.OptLevel)).
			Build()
	}
	return nil
}
