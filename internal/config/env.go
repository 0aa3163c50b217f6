package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
)

// Environment variables consulted after the configuration file.
const (
	EnvUV       = "GUPPYC_UV"
	EnvOpt      = "GUPPYC_OPT"
	EnvLLVMAs   = "GUPPYC_LLVM_AS"
	EnvOptLevel = "GUPPYC_OPT_LEVEL"
	EnvLogLevel = "GUPPYC_LOG_LEVEL"
)

// loadEnvFiles loads .env and .env.local when present. Variables already set
// in the process environment are not overwritten.
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", "path", p, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", p)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvUV); v != "" {
		cfg.Frontend.UV = v
	}
	if v := os.Getenv(EnvOpt); v != "" {
		cfg.LLVM.Opt = v
	}
	if v := os.Getenv(EnvLLVMAs); v != "" {
		cfg.LLVM.LLVMAs = v
	}
	if v := os.Getenv(EnvOptLevel); v != "" {
		if err := cfg.OptLevel.UnmarshalText([]byte(v)); err != nil {
			return ferrors.ConfigError("invalid optimisation level in environment").
				WithCause(err).
				WithContext("variable", EnvOptLevel).
				Build()
		}
	}
	return nil
}

// LogLevel derives the slog level from the verbosity flags, falling back to
// GUPPYC_LOG_LEVEL when neither flag is given.
func LogLevel(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	}
	var level slog.Level
	if v := os.Getenv(EnvLogLevel); v != "" && level.UnmarshalText([]byte(v)) == nil {
		return level
	}
	return slog.LevelInfo
}
