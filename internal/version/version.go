package version

import (
	"runtime"
	"time"
)

var (
	// Version is the version of the server
	Version = "dev"
	// BuildTime is the time when the server was built
	BuildTime = "unknown"
	// CommitID is the git commit ID of the server
	CommitID = "unknown"
)

// Info is build and runtime metadata
type Info struct {
	Version       string `json:"version"`
	GoVersion     string `json:"goVersion"`
	GitCommit     string `json:"gitCommit"`
	BuildTime     string `json:"buildTime"`
	FormattedTime string `json:"formattedTime"`
	OS            string `json:"os"`
	Arch          string `json:"arch"`
}

// formatBuildTime formats the build time to a readable string
func formatBuildTime() string {
	if BuildTime == "unknown" {
		return BuildTime
	}

	t, err := time.Parse(time.RFC3339, BuildTime)
	if err != nil {
		return BuildTime
	}

	return t.Format("Mon Jan 2 15:04:05 2006")
}

// Get returns the server version information
func Get() Info {
	return Info{
		Version:       Version,
		GoVersion:     runtime.Version(),
		GitCommit:     CommitID,
		BuildTime:     BuildTime,
		FormattedTime: formatBuildTime(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}
}
