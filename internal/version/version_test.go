package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildInfoString(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			"release",
			BuildInfo{Version: "v1.0.0", GitCommit: "0123456789abcdef", BuildTime: "2024-05-01T10:00:00Z", GoVersion: "go1.23.4", Platform: "linux/amd64"},
			"nescore v1.0.0 (commit 0123456) built 2024-05-01 10:00:00 with go1.23.4 for linux/amd64",
		},
		{
			"dirty dev build",
			BuildInfo{Version: "dev", GitCommit: "abc", BuildTime: unknown, Modified: true, GoVersion: "go1.23.4", Platform: "darwin/arm64"},
			"nescore dev (commit abc, modified) with go1.23.4 for darwin/arm64",
		},
		{
			"no vcs",
			BuildInfo{Version: "dev", GitCommit: unknown, BuildTime: "yesterday", GoVersion: "go1.23.4", Platform: "linux/arm64"},
			"nescore dev built yesterday with go1.23.4 for linux/arm64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGetVersionFromLdflags(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()

	Version = "v9.9.9"
	if got := GetVersion(); got != "v9.9.9" {
		t.Errorf("Expected v9.9.9, got %s", got)
	}
}

func TestPrintBuildInfo(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildInfo(&buf)
	if !strings.Contains(buf.String(), "Version:") || !strings.Contains(buf.String(), "Platform:") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}
