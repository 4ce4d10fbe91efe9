package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at release time:
//
//	go build -ldflags="-X github.com/mcompass/compass-cfg/internal/version.Version=v0.4.0 \
//	                   -X github.com/mcompass/compass-cfg/internal/version.Commit=abc123" ./cmd/compass-cfg
//
// Otherwise they come from the VCS stamp in the build info, and finally
// from a "dev-" timestamp.
var (
	// Version is the release tag of compass-cfg
	Version = ""
	// Commit is the short git hash
	Commit = ""
)

// UserAgent identifies compass-cfg in requests to the device.
func UserAgent() string {
	return "compass-cfg/" + Version
}

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// populateFromBuildInfo fills Version and Commit from the VCS settings Go
// embeds when building inside a git checkout.
func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	var vcsRevision, vcsModified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsRevision = setting.Value
		case "vcs.modified":
			vcsModified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if Commit == "" && vcsRevision != "" {
		Commit = shortRevision(vcsRevision, vcsModified == "true")
	}

	// Tags are not in the build info; date the dev build by its commit.
	if Version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

func shortRevision(rev string, dirty bool) string {
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}

// Full returns "version (commit: hash)" for `compass-cfg version`.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
