// Copyright 2026 The CodeGraph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/codegraph/ingest/internal/config"
	internalerrors "github.com/codegraph/ingest/internal/errors"
	"github.com/codegraph/ingest/pkg/query"
	"github.com/codegraph/ingest/pkg/storage"
)

// runFind dispatches 'find symbol <pattern>' and 'find callers <symbol>'.
//
// Examples:
//
//	graphdb find symbol handleAuth
//	graphdb find symbol '^handle' --limit 5
//	graphdb find callers handleAuth
func runFind(args []string) error {
	if len(args) == 0 {
		return internalerrors.NewInputError(
			"Missing find subcommand",
			"",
			"Run: graphdb find symbol <pattern>  or  graphdb find callers <symbol>",
		)
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "symbol":
		return runFindSymbol(rest)
	case "callers":
		return runFindCallers(rest)
	default:
		return internalerrors.NewInputError(
			fmt.Sprintf("Unknown find subcommand %q", sub),
			"",
			"Use 'symbol' or 'callers'",
		)
	}
}

func openStore() (*storage.EmbeddedStore, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, internalerrors.NewInternalError("Cannot determine current directory", err.Error(), "", err)
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return nil, err
	}
	store, err := storage.NewEmbeddedStore(storage.EmbeddedConfig{DataDir: cfg.DBPath, ProjectID: cfg.ProjectID})
	if err != nil {
		return nil, internalerrors.NewDatabaseError(
			fmt.Sprintf("Cannot open graph store at %s", cfg.DBPath),
			err.Error(),
			"Run: graphdb ingest",
			err,
		)
	}
	return store, nil
}

func runFindSymbol(args []string) error {
	fs := pflag.NewFlagSet("find symbol", pflag.ContinueOnError)
	limit := fs.Int("limit", 20, "Maximum results (0 = no limit)")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse find symbol flags", err.Error(), "Run: graphdb find symbol --help")
	}
	if fs.NArg() == 0 {
		return internalerrors.NewInputError("Missing pattern argument", "", "Run: graphdb find symbol <pattern>")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	nodes, err := query.FindSymbol(context.Background(), store, fs.Arg(0), *limit)
	if err != nil {
		return internalerrors.NewInputError("Search failed", err.Error(), "Check the pattern is a valid regular expression")
	}

	if len(nodes) == 0 {
		fmt.Println("No matches")
		return nil
	}
	for _, n := range nodes {
		fmt.Printf("%s  %-10s %s\n", n.ID, n.NodeType, n.Name)
		if n.File != "" {
			fmt.Printf("    %s\n", formatLocation(n.File, n.StartLine, n.EndLine))
		}
	}
	return nil
}

func runFindCallers(args []string) error {
	if len(args) == 0 {
		return internalerrors.NewInputError("Missing symbol argument", "", "Run: graphdb find callers <symbol>")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	callers, err := query.FindCallers(context.Background(), store, args[0])
	if err != nil {
		return internalerrors.NewInternalError("Caller lookup failed", err.Error(), "", err)
	}

	if len(callers) == 0 {
		fmt.Println("No callers found")
		return nil
	}
	for _, c := range callers {
		fmt.Printf("%s calls %s (%s)\n", c.Caller.Name, c.CalleeName, formatLocation(c.Caller.File, c.Caller.StartLine, c.Caller.EndLine))
	}
	return nil
}

func formatLocation(file string, start, end *int) string {
	if file == "" {
		return ""
	}
	if start == nil || end == nil {
		return file
	}
	return fmt.Sprintf("%s:%d-%d", file, *start, *end)
}
