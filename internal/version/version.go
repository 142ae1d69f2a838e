// Package version provides build information and version details.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// These are set via ldflags at build time:
//
//	-ldflags "-X walletdash/internal/version.Version=v1.2.0 -X walletdash/internal/version.BuildTime=..."
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Info contains version and build information
type Info struct {
	Version     string `json:"version"`
	BuildTime   string `json:"build_time"`
	GoVersion   string `json:"go_version"`
	VCSRevision string `json:"vcs_revision,omitempty"`
	VCSTime     string `json:"vcs_time,omitempty"`
	VCSModified bool   `json:"vcs_modified"`
}

// Get returns the current version and build information
func Get() Info {
	info := Info{
		Version:   Version,
		BuildTime: BuildTime,
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion

		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.VCSRevision = setting.Value
			case "vcs.time":
				info.VCSTime = setting.Value
			case "vcs.modified":
				info.VCSModified = setting.Value == "true"
			}
		}
	}

	return info
}

// ShortRevision returns the first 8 characters of the commit, marked when
// the tree was dirty
func (i Info) ShortRevision() string {
	rev := i.VCSRevision
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if rev != "" && i.VCSModified {
		rev += "-dirty"
	}
	return rev
}

// Short returns "version (revision)" for CLI --version output
func (i Info) Short() string {
	if rev := i.ShortRevision(); rev != "" {
		return fmt.Sprintf("%s (%s)", i.Version, rev)
	}
	return i.Version
}

// String returns a human-readable version string
func (i Info) String() string {
	parts := []string{fmt.Sprintf("Version: %s", i.Version)}

	if i.BuildTime != "unknown" {
		parts = append(parts, fmt.Sprintf("Built: %s", i.BuildTime))
	}
	parts = append(parts, fmt.Sprintf("Go: %s", i.GoVersion))
	if rev := i.ShortRevision(); rev != "" {
		parts = append(parts, fmt.Sprintf("Commit: %s", rev))
	}
	if i.VCSTime != "" {
		parts = append(parts, fmt.Sprintf("Committed: %s", i.VCSTime))
	}

	return strings.Join(parts, ", ")
}

// Warning returns a startup warning for development or dirty builds, or
// an empty string
func (i Info) Warning() string {
	if i.VCSModified {
		return "binary built from modified source tree"
	}
	if i.VCSRevision == "" && i.Version == "dev" {
		return "no version control information available (development build)"
	}
	return ""
}
