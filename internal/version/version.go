package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/r9s-ai/sdmxrest/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

func (i Info) String() string {
	s := "sdmxctl " + i.Version
	if i.Commit != "" {
		s += " (" + i.Commit
		if i.BuildDate != "" {
			s += ", " + i.BuildDate
		}
		s += ")"
	}
	return fmt.Sprintf("%s %s", s, i.GoVersion)
}

func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
	if info.Commit != "" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 12 {
				info.Commit = s.Value[:12]
			}
		}
	}
	return info
}
