// Package vcs discovers git metadata for the working tree a suite runs in.
package vcs

import (
	"os/exec"
	"strings"
)

// Info holds discoverable VCS metadata. Fields are empty when the run
// happens outside a git checkout or git is not installed.
type Info struct {
	CommitSHA string
	Branch    string
}

// Discover shells out to git for the current commit and branch. Any
// failure (no git binary, not a repository) yields an empty field; VCS
// metadata is decoration, never a reason to fail a run.
func Discover() Info {
	return Info{
		CommitSHA: gitOutput("rev-parse", "HEAD"),
		Branch:    gitOutput("rev-parse", "--abbrev-ref", "HEAD"),
	}
}

func gitOutput(args ...string) string {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
