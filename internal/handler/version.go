package handler

import (
	"cmp"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X .../internal/handler.Version=..." at release time.
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo is the /version body
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// HandleVersion reports the running build
// @Summary Build version
// @Tags health
// @Produce json
// @Success 200 {object} VersionInfo
// @Router /version [get]
func HandleVersion() http.HandlerFunc {
	info := buildInfo()
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

// buildInfo resolves once at route setup. ldflags win, then the VERSION
// env var, then whatever VCS stamping the toolchain embedded.
func buildInfo() VersionInfo {
	info := VersionInfo{GoVersion: runtime.Version(), BuildTime: BuildTime, GitCommit: GitCommit}
	if Version != "dev" {
		info.Version = Version
	}
	info.Version = cmp.Or(info.Version, os.Getenv("VERSION"), "dev")

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = cmp.Or(info.GitCommit, s.Value)
			case "vcs.time":
				info.BuildTime = cmp.Or(info.BuildTime, s.Value)
			}
		}
	}
	return info
}
