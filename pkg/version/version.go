package version

import (
	"fmt"
	"runtime"
)

// These variables are set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary returns the version with a short commit, e.g. "1.2.0 (abc1234)".
// It is used in the gateway User-Agent.
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" && Commit != "none" {
		short := Commit
		if len(short) > 7 {
			short = short[:7]
		}
		return fmt.Sprintf("%s (%s)", v, short)
	}
	return v
}

// Info returns the multi-line build report printed by "netsight version".
func Info() string {
	return fmt.Sprintf("netsight version %s\n  commit: %s\n  built: %s\n  go: %s\n  platform: %s",
		Summary(), Commit, Date, GoVersion, Platform())
}
