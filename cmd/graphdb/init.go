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
	"runtime"
	"strings"

	"github.com/spf13/pflag"

	"github.com/codegraph/ingest/internal/config"
	internalerrors "github.com/codegraph/ingest/internal/errors"
)

// runInit executes the 'init' command, writing a .graphdb.yml configuration
// file for the current directory.
//
// Flags:
//   - --force: overwrite an existing configuration
//   - --project-id: project identifier (default: directory name)
//   - --threads: default thread count for ingest (default: NumCPU)
func runInit(args []string) error {
	fs := pflag.NewFlagSet("init", pflag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")
	projectID := fs.String("project-id", "", "Project identifier (default: directory name)")
	threads := fs.Int("threads", runtime.NumCPU(), "Default thread count for ingest")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse init flags", err.Error(), "Run: graphdb init --help")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return internalerrors.NewInternalError("Cannot determine current directory", err.Error(), "", err)
	}

	path := config.ConfigPath(cwd)
	if _, err := os.Stat(path); err == nil && !*force {
		return internalerrors.NewConfigError(
			fmt.Sprintf("%s already exists", path),
			"",
			"Use --force to overwrite",
		)
	}

	pid := *projectID
	if pid == "" {
		pid = filepath.Base(cwd)
	}

	cfg := &config.ProjectConfig{
		ProjectID:   pid,
		DBPath:      config.DefaultDBPath(cwd),
		ProjectPath: cwd,
		ThreadCount: *threads,
	}

	if err := config.SaveConfig(cwd, cfg); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	addToGitignore(cwd)

	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. graphdb ingest        Build the graph")
	fmt.Println("  2. graphdb status        Verify node and edge counts")
	fmt.Println("  3. graphdb hook install  Auto-refresh the graph on each commit (optional)")
	return nil
}

// addToGitignore appends .graphdb/ to the project's .gitignore if present
// and not already listed.
func addToGitignore(dir string) {
	gitignorePath := filepath.Join(dir, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(content), "\n") {
		switch strings.TrimSpace(line) {
		case ".graphdb/", ".graphdb", "/.graphdb/", "/.graphdb":
			return
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && content[len(content)-1] != '\n' {
		_, _ = f.WriteString("\n")
	}
	_, _ = f.WriteString("\n# graphdb store\n.graphdb/\n")
	fmt.Println("Added .graphdb/ to .gitignore")
}
