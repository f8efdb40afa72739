package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	t.Parallel()

	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	var info Info
	fromBuildInfo(&info, bi)
	want := Info{Version: "v0.3.1", Commit: "0123456789abcdef0123", BuildTime: "20260102T030405Z", Modified: true}
	if info != want {
		t.Fatalf("got %+v, want %+v", info, want)
	}

	info = Info{Version: "v9", Commit: "c"}
	fromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if info.Version != "v9" || info.Commit != "c" {
		t.Fatalf("ldflags values should win, got %+v", info)
	}
}

func TestShortCommit(t *testing.T) {
	t.Parallel()

	if got := shortCommit("0123456789abcdef"); got != "0123456789ab" {
		t.Fatalf("got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerator(t *testing.T) {
	t.Parallel()

	if g := Generator(); !strings.HasPrefix(g, "codeprep ") || Resolve().Version == "" {
		t.Fatalf("got %q", g)
	}
}
