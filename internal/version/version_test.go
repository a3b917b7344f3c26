package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfoString(t *testing.T) {
	got := Info{Version: "v1.2.0", Commit: "abc123", BuildDate: "2026-01-02", GoVersion: "go1.25.3"}.String()
	if got != "sdmxctl v1.2.0 (abc123, 2026-01-02) go1.25.3" {
		t.Fatalf("String=%q", got)
	}
	if got := (Info{Version: "dev", GoVersion: "go1.25.3"}).String(); got != "sdmxctl dev go1.25.3" {
		t.Fatalf("String=%q", got)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.GoVersion != runtime.Version() {
		t.Fatalf("info=%+v", info)
	}
	if !strings.HasPrefix(info.String(), "sdmxctl ") {
		t.Fatalf("String=%q", info.String())
	}
}
