package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden at link time with -X.
var (
	version   = "v0.1.0"
	gitCommit = ""
)

func GetVersion() string {
	return version
}

// BuildInfo describes the compiled time information.
type BuildInfo struct {
	Version   string `json:"version,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("archstrap %s (commit %s, %s)", b.Version, b.GitCommit, b.GoVersion)
}

// Get returns build info. Without a linked commit the vcs revision stamped
// by the go toolchain is used.
func Get() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		GitCommit: commit(),
		GoVersion: runtime.Version(),
	}
}

func commit() string {
	if gitCommit != "" {
		return gitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "none"
	}
	rev, dirty := "", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return "none"
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}
