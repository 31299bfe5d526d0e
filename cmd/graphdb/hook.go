// Copyright 2026 The CodeGraph Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	internalerrors "github.com/codegraph/ingest/internal/errors"
)

const graphdbHookMarker = "# graphdb auto-ingest hook"

const postCommitHookContent = graphdbHookMarker + `
# Installed by: graphdb hook install
# Remove with: graphdb hook remove

graphdb ingest --incremental >/dev/null 2>&1 &
`

// runHook dispatches 'hook install' and 'hook remove'.
func runHook(args []string) error {
	if len(args) == 0 {
		return internalerrors.NewInputError("Missing hook subcommand", "", "Run: graphdb hook install  or  graphdb hook remove")
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "install":
		return runHookInstall(rest)
	case "remove":
		return runHookRemove()
	default:
		return internalerrors.NewInputError(fmt.Sprintf("Unknown hook subcommand %q", sub), "", "Use 'install' or 'remove'")
	}
}

func runHookInstall(args []string) error {
	fs := pflag.NewFlagSet("hook install", pflag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing non-graphdb hook")
	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse hook install flags", err.Error(), "Run: graphdb hook install --help")
	}

	gitDir, err := findGitDir()
	if err != nil {
		return internalerrors.NewConfigError("Cannot find .git directory", err.Error(), "Run this command inside a git repository")
	}
	hookPath := filepath.Join(gitDir, "hooks", "post-commit")

	if _, err := os.Stat(hookPath); err == nil {
		content, readErr := os.ReadFile(hookPath)
		if readErr == nil && strings.Contains(string(content), graphdbHookMarker) {
			fmt.Println("Hook already installed.")
			return nil
		}
		if !*force {
			return internalerrors.NewConfigError(
				fmt.Sprintf("A post-commit hook already exists at %s", hookPath),
				"",
				"Re-run with --force to overwrite it",
			)
		}
	}

	if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
		return internalerrors.NewPermissionError("Cannot create hooks directory", err.Error(), "", err)
	}
	if err := os.WriteFile(hookPath, []byte(postCommitHookContent), 0o755); err != nil {
		return internalerrors.NewPermissionError("Cannot write hook", err.Error(), "", err)
	}

	fmt.Printf("Hook installed: %s\n", hookPath)
	return nil
}

func runHookRemove() error {
	gitDir, err := findGitDir()
	if err != nil {
		return internalerrors.NewConfigError("Cannot find .git directory", err.Error(), "Run this command inside a git repository")
	}
	hookPath := filepath.Join(gitDir, "hooks", "post-commit")

	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return internalerrors.NewNotFoundError(fmt.Sprintf("No hook found at %s", hookPath), "", "")
		}
		return internalerrors.NewPermissionError("Cannot read hook", err.Error(), "", err)
	}
	if !strings.Contains(string(content), graphdbHookMarker) {
		return internalerrors.NewConfigError(
			fmt.Sprintf("Hook at %s was not installed by graphdb", hookPath),
			"",
			"Remove it manually if that is intended",
		)
	}
	if err := os.Remove(hookPath); err != nil {
		return internalerrors.NewPermissionError("Cannot remove hook", err.Error(), "", err)
	}

	fmt.Println("Hook removed.")
	return nil
}

// findGitDir walks upward from the current directory looking for .git,
// handling both the directory and worktree-file forms.
func findGitDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		gitPath := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return gitPath, nil
			}
			content, err := os.ReadFile(gitPath)
			if err != nil {
				return "", fmt.Errorf("cannot read .git file: %w", err)
			}
			var gitdir string
			if _, err := fmt.Sscanf(string(content), "gitdir: %s", &gitdir); err == nil {
				if filepath.IsAbs(gitdir) {
					return gitdir, nil
				}
				return filepath.Join(dir, gitdir), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("not a git repository (or any of the parent directories)")
}
