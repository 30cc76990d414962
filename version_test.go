package lingoq

import (
	"strings"
	"testing"
)

func TestFullVersion(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version = "1.2.3"
	GitCommit = "unknown"
	if got := FullVersion(); got != "1.2.3" {
		t.Errorf("expected plain version, got %q", got)
	}

	GitCommit = "0123456789abcdef"
	if got := FullVersion(); got != "1.2.3+0123456" {
		t.Errorf("expected short commit suffix, got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if ua := UserAgent(); !strings.HasPrefix(ua, "lingoq/") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
