package core

import (
	"runtime/debug"
	"strings"
)

// Version identifies this build of the bridge. Resolved once at startup:
// tagged releases report the module version, local builds report the short
// commit hash with a -dirty marker when the tree has uncommitted changes.
var Version string

func init() {
	Version = resolveVersion()
}

func resolveVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}

	// A real tag only shows up via go install; pseudo-versions mean this is
	// an untagged build, identified by its commit below.
	if v := info.Main.Version; v != "" && v != "(devel)" && !isPseudoVersion(v) {
		return v
	}

	var commit string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if commit == "" {
		return "devel"
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	if dirty {
		return "devel-" + commit + "-dirty"
	}
	return "devel-" + commit
}

// FormatVersion strips the module "v" prefix for display. Devel versions
// pass through unchanged.
func FormatVersion(v string) string {
	return strings.TrimPrefix(v, "v")
}

// isPseudoVersion reports whether v is a Go module pseudo-version, i.e. it
// ends in a 12-character hex commit hash such as
// v0.0.0-20260812093045-4f2a91c03be7.
func isPseudoVersion(v string) bool {
	// Build metadata (+dirty, +incompatible) is not part of the hash
	if i := strings.Index(v, "+"); i >= 0 {
		v = v[:i]
	}

	i := strings.LastIndex(v, "-")
	if i < 0 {
		return false
	}
	hash := v[i+1:]
	if len(hash) != 12 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
