package version

import (
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime, origGoVersion :=
		Version, GitCommit, GitBranch, BuildTime, GoVersion
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
		GoVersion = origGoVersion
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime, GoVersion = "dev", "", "", "", ""

	info := GetVersionInfo()

	if info.Version != "dev" {
		t.Errorf("expected dev, got %s", info.Version)
	}
	if info.IsRelease {
		t.Error("dev builds are not releases")
	}
	if info.BuildDate.IsZero() {
		t.Error("expected BuildDate to be filled in")
	}
	if info.BuildTime == "" {
		t.Error("expected BuildTime to be filled in")
	}
}

func TestGetVersionInfoLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0"
	GitCommit = "abc1234"
	GitBranch = "release/1.4"
	BuildTime = "2025-06-01T12:00:00Z"
	GoVersion = "go1.26"

	info := GetVersionInfo()

	if info.Version != "1.4.0" || info.GitCommit != "abc1234" || info.GitBranch != "release/1.4" {
		t.Errorf("ldflags values not carried through: %+v", info)
	}
	if !info.IsRelease {
		t.Error("expected a tagged build to be a release")
	}
	want := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected BuildDate %v, got %v", want, info.BuildDate)
	}
}

func TestDirtyVersionIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0-dirty"

	if GetVersionInfo().IsRelease {
		t.Error("dirty builds are not releases")
	}
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		rev  string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"abcdefg", "abcdefg"},
		{"abcdefg123456789", "abcdefg"},
	}
	for _, tt := range tests {
		if got := shortCommit(tt.rev); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.rev, got, tt.want)
		}
	}
}
