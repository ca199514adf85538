// Package version reports build information for nescore binaries.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const unknown = "unknown"

// Set at build time via -ldflags "-X nescore/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = unknown
	BuildTime = unknown
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	Modified  bool   `json:"modified"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo merges the ldflags values with the VCS stamp the Go
// toolchain embeds. ldflags win when both are present.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == unknown {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

// GetVersion returns a short version string such as "v1.2.0" or "dev-abc1234"
func GetVersion() string {
	info := GetBuildInfo()
	if info.Version == "dev" && info.GitCommit != unknown {
		return "dev-" + shortCommit(info.GitCommit)
	}
	return info.Version
}

func (b BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "nescore %s", b.Version)
	if b.GitCommit != unknown {
		fmt.Fprintf(&sb, " (commit %s", shortCommit(b.GitCommit))
		if b.Modified {
			sb.WriteString(", modified")
		}
		sb.WriteString(")")
	}
	if b.BuildTime != unknown {
		if t, err := time.Parse(time.RFC3339, b.BuildTime); err == nil {
			fmt.Fprintf(&sb, " built %s", t.UTC().Format("2006-01-02 15:04:05"))
		} else {
			fmt.Fprintf(&sb, " built %s", b.BuildTime)
		}
	}
	fmt.Fprintf(&sb, " with %s for %s", b.GoVersion, b.Platform)
	return sb.String()
}

// PrintBuildInfo writes the build information, one field per line
func PrintBuildInfo(w io.Writer) {
	b := GetBuildInfo()
	fmt.Fprintf(w, "nescore - NES emulator core\n")
	fmt.Fprintf(w, "Version:    %s\n", b.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", b.GitCommit)
	fmt.Fprintf(w, "Build Time: %s\n", b.BuildTime)
	fmt.Fprintf(w, "Modified:   %t\n", b.Modified)
	fmt.Fprintf(w, "Go Version: %s\n", b.GoVersion)
	fmt.Fprintf(w, "Platform:   %s\n", b.Platform)
}
