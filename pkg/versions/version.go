// Package versions provides version information for the upsun-mcp binary.
package versions

import (
	"fmt"
	"runtime"
	"time"
)

const unknownStr = "unknown"

// Version information set by build using -ldflags
var (
	// Version is the current version of upsun-mcp
	Version = "dev"
	// Commit is the git commit hash of the build
	Commit = unknownStr
	// BuildDate is the date when the binary was built
	BuildDate = unknownStr
)

// VersionInfo represents the version information
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information
func GetVersionInfo() VersionInfo {
	version := Version
	if version == "dev" {
		// Development builds are named after the commit they were built from.
		short := Commit
		if len(short) > 8 {
			short = short[:8]
		}
		version = "build-" + short
	}

	return VersionInfo{
		Version:   version,
		Commit:    Commit,
		BuildDate: formatBuildDate(BuildDate),
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// formatBuildDate reformats an RFC3339 build date into a human readable
// form. Dates that do not parse are returned unchanged.
func formatBuildDate(date string) string {
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return date
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
