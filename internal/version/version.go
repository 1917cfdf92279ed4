// Package version holds the daemon's own version. PROTOCOLINFO and GETINFO
// version report the raw Current string; Parsed and Recommended give a
// blang/semver-validated form of it.
package version

import "github.com/blang/semver"

// Current is set at build time via -ldflags; "0.0.0-dev" is the fallback
// for a plain `go build`.
var Current = "0.0.0-dev"

// Parsed returns Current as a semver.Version, or the zero version if
// Current is not valid semver (e.g. a VCS-derived dev string).
func Parsed() semver.Version {
	v, err := semver.Parse(Current)
	if err != nil {
		return semver.Version{}
	}
	return v
}

// Recommended reports whether Current meets or exceeds the minimum
// supported version a directory/authority might advertise.
func Recommended(minimum string) bool {
	min, err := semver.Parse(minimum)
	if err != nil {
		return true
	}
	return Parsed().GTE(min)
}
