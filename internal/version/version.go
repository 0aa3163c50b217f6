package version

// Version contains the guppyc version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/guppyc/internal/version.Version=v0.3.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by `guppyc version`.
func String() string {
	return "guppyc " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
