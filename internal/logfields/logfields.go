package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyTarget     = "target_stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyArtifact   = "artifact"
	KeyEntrypoint = "entrypoint"
	KeySymbol     = "symbol"
	KeyLocator    = "locator"
	KeyTool       = "tool"
	KeyOptLevel   = "opt_level"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr       { return slog.String(KeyStage, name) }
func Target(name string) slog.Attr      { return slog.String(KeyTarget, name) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Artifact(kind string) slog.Attr    { return slog.String(KeyArtifact, kind) }
func Entrypoint(name string) slog.Attr  { return slog.String(KeyEntrypoint, name) }
func Symbol(name string) slog.Attr      { return slog.String(KeySymbol, name) }
func Locator(l string) slog.Attr        { return slog.String(KeyLocator, l) }
func Tool(name string) slog.Attr        { return slog.String(KeyTool, name) }
func OptLevel(level int) slog.Attr      { return slog.Int(KeyOptLevel, level) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
