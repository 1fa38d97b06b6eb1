// Package vcs initializes version control for new templates.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// binGit is the git executable looked up on PATH.
var binGit = "git"

// Available reports whether git can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(binGit)
	return err == nil
}

// Init runs "git init" in dir.
func Init(ctx context.Context, dir string) error {
	cmd := exec.CommandContext(ctx, binGit, "init", "--quiet")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("git init: %w", err)
		}
		return fmt.Errorf("git init: %w: %s", err, msg)
	}
	return nil
}
