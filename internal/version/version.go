// Package version reports the build identity of nasctl binaries.
package version

import (
	"runtime/debug"
	"strings"
)

// String formats a single version line from ldflags-injected values, falling
// back to Go module build info when they were not set at link time.
func String(version, commit string) string {
	v := strings.TrimSpace(version)
	c := strings.TrimSpace(commit)

	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "" || v == "dev" || v == "(devel)" {
			if mv := strings.TrimSpace(info.Main.Version); mv != "" && mv != "(devel)" {
				v = mv
			}
		}
		if c == "" || c == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
					break
				}
			}
		}
	}

	if v == "" {
		v = "dev"
	}
	if c != "" && c != "unknown" {
		if len(c) > 12 {
			c = c[:12]
		}
		return v + " (" + c + ")"
	}
	return v
}
