package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if !strings.Contains(Version, ".") {
		t.Errorf("Version %q does not look semantic", Version)
	}
}

func TestFullAppendsCommit(t *testing.T) {
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()

	GitCommit = ""
	if Full() != Version {
		t.Errorf("Full() = %q without a commit, want %q", Full(), Version)
	}
	GitCommit = "abc123d"
	if !strings.HasSuffix(Full(), "+abc123d") {
		t.Errorf("Full() = %q, want commit suffix", Full())
	}
}

func TestBuildMetadataOverride(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() {
		GitCommit, BuildDate = origCommit, origDate
	}()

	GitCommit = "abc123def456"
	BuildDate = "2026-08-25T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2026-08-25T10:30:00Z" {
		t.Errorf("ldflags-style override failed: %q %q", GitCommit, BuildDate)
	}
}
