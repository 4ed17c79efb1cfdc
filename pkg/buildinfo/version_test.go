package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	old := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = old })
}

func setVars(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestGet(t *testing.T) {
	embedded := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}
	tests := []struct {
		name                  string
		version, commit, date string
		bi                    *debug.BuildInfo
		want                  Info
	}{
		{"ldflags win", "v1.2.3", "deadbeef", "2026-05-01", embedded,
			Info{"v1.2.3", "deadbeef", "2026-05-01"}},
		{"go install", "dev", "none", "unknown", embedded,
			Info{"v0.4.0", "abc123", "2026-01-02T03:04:05Z"}},
		{"devel build", "dev", "none", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			Info{"dev", "none", "unknown"}},
		{"no build info", "dev", "none", "unknown", nil,
			Info{"dev", "none", "unknown"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVars(t, tt.version, tt.commit, tt.date)
			stubBuildInfo(t, tt.bi)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatting(t *testing.T) {
	setVars(t, "v1.2.3", "deadbeef", "2026-05-01")
	stubBuildInfo(t, nil)

	if ServerHeader() != "modlaunch/v1.2.3" {
		t.Errorf("ServerHeader() = %q", ServerHeader())
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if String() != "version: v1.2.3\ncommit: deadbeef\nbuilt: 2026-05-01" {
		t.Errorf("String() = %q", String())
	}
}
