package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/guppyc/internal/foundation/errors"
)

func TestFrontendVersionLocator(t *testing.T) {
	tests := []struct {
		name    string
		version FrontendVersion
		want    string
	}{
		{"exact version", FrontendVersion{Version: "0.14.0"}, "==0.14.0"},
		{"repository only", FrontendVersion{Git: "R"}, "@git+R"},
		{"ref only", FrontendVersion{Ref: "x"}, "@git+https://github.com/cqcl/guppylang@x"},
		{"repository and ref", FrontendVersion{Git: "https://example.com/g.git", Ref: "main"}, "@git+https://example.com/g.git@main"},
		{"latest", FrontendVersion{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.version.Validate())
			assert.Equal(t, tt.want, tt.version.Locator())
			assert.Equal(t, "guppylang"+tt.want, tt.version.Requirement("guppylang"))
		})
	}
}

func TestFrontendVersionConflicts(t *testing.T) {
	for _, v := range []FrontendVersion{
		{Version: "0.14.0", Git: "R"},
		{Version: "0.14.0", Ref: "main"},
		{Version: "0.14.0", Git: "R", Ref: "main"},
	} {
		err := v.Validate()
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	}
}

func TestFrontendVersionRejectsPartialSemver(t *testing.T) {
	for _, s := range []string{"1", "1.2", "latest", "v1.2.3"} {
		err := FrontendVersion{Version: s}.Validate()
		assert.Error(t, err, s)
	}
	assert.NoError(t, FrontendVersion{Version: "1.2.3-rc.1"}.Validate())
	assert.NoError(t, FrontendVersion{Version: "1.2.3+build.5"}.Validate())
}

func TestFrontendVersionRepository(t *testing.T) {
	assert.Equal(t, CanonicalGuppyRepo, FrontendVersion{Ref: "x"}.Repository())
	assert.Equal(t, "R", FrontendVersion{Git: "R"}.Repository())
}
