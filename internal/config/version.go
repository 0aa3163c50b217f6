package config

import (
	"strings"

	"golang.org/x/mod/semver"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
)

// CanonicalGuppyRepo is the repository used when only a git ref is given.
const CanonicalGuppyRepo = "https://github.com/cqcl/guppylang"

// FrontendVersion selects which release or revision of the frontend package
// runs the source stage. Version is exclusive with Git and Ref; all empty
// means the latest published release.
type FrontendVersion struct {
	Version string `yaml:"version,omitempty"`
	Git     string `yaml:"git,omitempty"`
	Ref     string `yaml:"ref,omitempty"`
}

// IsGit reports whether a repository or ref override is set.
func (v FrontendVersion) IsGit() bool {
	return v.Git != "" || v.Ref != ""
}

// Validate checks that no incompatible options are set and that an exact
// version is a full semantic version.
func (v FrontendVersion) Validate() error {
	if v.Version != "" && v.IsGit() {
		return ferrors.ConfigError("cannot specify both `guppy_version` and `guppy_git` or `guppy_ref`").
			WithContext("guppy_version", v.Version).
			WithContext("guppy_git", v.Git).
			WithContext("guppy_ref", v.Ref).
			Build()
	}
	if v.Version != "" && !isFullSemver(v.Version) {
		return ferrors.ConfigError("invalid `guppy_version`, expected MAJOR.MINOR.PATCH").
			WithContext("guppy_version", v.Version).
			Build()
	}
	return nil
}

func isFullSemver(s string) bool {
	vs := "v" + s
	if !semver.IsValid(vs) {
		return false
	}
	core, _, _ := strings.Cut(vs, "+")
	return semver.Canonical(vs) == core
}

// Locator renders the version suffix appended to the frontend package name.
// It assumes Validate succeeded.
func (v FrontendVersion) Locator() string {
	switch {
	case v.Version != "":
		return "==" + v.Version
	case v.Git != "" && v.Ref != "":
		return "@git+" + v.Git + "@" + v.Ref
	case v.Git != "":
		return "@git+" + v.Git
	case v.Ref != "":
		return "@git+" + CanonicalGuppyRepo + "@" + v.Ref
	default:
		return ""
	}
}

// Requirement prefixes the locator with the frontend package name, e.g.
// "guppylang==0.14.0".
func (v FrontendVersion) Requirement(pkg string) string {
	return pkg + v.Locator()
}

// Repository returns the repository a git locator points at.
func (v FrontendVersion) Repository() string {
	if v.Git != "" {
		return v.Git
	}
	return CanonicalGuppyRepo
}
