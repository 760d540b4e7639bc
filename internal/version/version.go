package version

import "github.com/fatih/color"

// Build fingerprints for the strata CLI, overridable at build time via
// -ldflags.

var (
	majorColor = color.New(color.FgCyan, color.Bold)
	minorColor = color.New(color.FgMagenta, color.Bold)
	patchColor = color.New(color.FgGreen, color.Bold)

	// Version is the semantic version of the CLI.
	Version = majorColor.Sprint("0") + "." + minorColor.Sprint("1") + "." + patchColor.Sprint("0") + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Full returns the version together with the commit hash when one was
// recorded at build time.
func Full() string {
	if GitCommit == "" {
		return Version
	}
	return Version + "+" + GitCommit
}
