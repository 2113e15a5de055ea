/*
Copyright © 2025 Cistack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Populated via -ldflags at release time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

func init() {
	applyBuildInfo()
}

// applyBuildInfo fills values that ldflags left unset from the module build
// info, which `go install` records
func applyBuildInfo() {
	info, ok := readBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if GitCommit == "unknown" && len(setting.Value) >= 7 {
				GitCommit = setting.Value[:7]
			}
		case "vcs.time":
			if BuildDate == "unknown" && setting.Value != "" {
				BuildDate = setting.Value
			}
		}
	}
}

// Info returns formatted version information for display to users
func Info() string {
	return fmt.Sprintf(`cistack %s
  Git commit: %s
  Build date: %s
  Go version: %s
  Platform:   %s`, Version, GitCommit, BuildDate, GoVersion, Platform)
}

// Short returns just the version string
func Short() string {
	return Version
}
