package main

import (
	"fmt"
	"runtime/debug"
)

// deriveVersion inspects build info for module version or vcs revision.
// preference order: module semantic version -> short commit hash -> "devel".
func deriveVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	return versionFrom(bi)
}

func versionFrom(bi *debug.BuildInfo) string {
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	var revision string
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			revision = s.Value
			break
		}
	}
	if len(revision) >= 12 { // short hash for readability
		return revision[:12]
	}
	if revision != "" {
		return revision
	}
	return "devel"
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run(e *env) error {
	_, err := fmt.Fprintln(e.stdout, "rowmapgen", deriveVersion())
	return err
}
