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
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/codegraph/ingest/internal/config"
	internalerrors "github.com/codegraph/ingest/internal/errors"
	"github.com/codegraph/ingest/pkg/ingestion"
	"github.com/codegraph/ingest/pkg/storage"
)

// runIngest executes the 'ingest' command: parses the project and builds
// or refreshes the graph.
//
// Flags:
//   - --threads: worker count for the parallel parse phase (default:
//     thread_count from .graphdb.yml when set, else NumCPU)
//   - --clean: clear the store before ingesting
//   - --incremental: attempt a git-diff-driven delta ingest, falling back
//     to a full rebuild when incremental selection is unavailable
//   - --debug: enable debug-level logging
func runIngest(args []string) error {
	fs := pflag.NewFlagSet("ingest", pflag.ContinueOnError)
	threads := fs.Int("threads", runtime.NumCPU(), "Parallel parse worker count")
	clean := fs.Bool("clean", false, "Clear the store before ingesting")
	incremental := fs.Bool("incremental", false, "Attempt an incremental (git-diff-driven) ingest")
	debug := fs.Bool("debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse ingest flags", err.Error(), "Run: graphdb ingest --help")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return internalerrors.NewInternalError("Cannot determine current directory", err.Error(), "", err)
	}

	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With("run_id", runID)

	store, err := storage.NewEmbeddedStore(storage.EmbeddedConfig{DataDir: cfg.DBPath, ProjectID: cfg.ProjectID})
	if err != nil {
		return internalerrors.NewDatabaseError(
			fmt.Sprintf("Cannot open graph store at %s", cfg.DBPath),
			err.Error(),
			"Check that no other graphdb process holds the store, or run: graphdb reset --yes",
			err,
		)
	}
	defer store.Close()

	threadCount := *threads
	if !fs.Changed("threads") && cfg.ThreadCount > 0 {
		threadCount = cfg.ThreadCount
	}

	coordinator := ingestion.NewCoordinator(store, logger)
	stats, err := coordinator.Ingest(context.Background(), ingestion.Config{
		ProjectPath: cfg.ProjectPath,
		ThreadCount: threadCount,
		Clean:       *clean,
		Incremental: *incremental,
	})
	if err != nil {
		return translateIngestError("ingest", err)
	}

	fmt.Println("Ingestion complete.")
	fmt.Printf("  Files processed: %d\n", stats.FilesProcessed)
	fmt.Printf("  Symbols created: %d\n", stats.SymbolsCreated)
	fmt.Printf("  Edges created:   %d\n", stats.EdgesCreated)
	if stats.HadErrors {
		fmt.Println("  Warning: one or more files failed to persist; see logs above.")
	}

	return nil
}
