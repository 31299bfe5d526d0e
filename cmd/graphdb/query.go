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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/codegraph/ingest/internal/config"
	internalerrors "github.com/codegraph/ingest/internal/errors"
	"github.com/codegraph/ingest/pkg/storage"
)

// runQuery executes the 'query' command: runs an arbitrary Cypher
// statement against the project's graph store.
//
// Examples:
//
//	graphdb query "MATCH (n:Node {node_type: 'Function'}) RETURN n.name LIMIT 10"
//	graphdb query --json "MATCH (n:Node) RETURN count(n)"
func runQuery(args []string) error {
	fs := pflag.NewFlagSet("query", pflag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	timeout := fs.Duration("timeout", 30*time.Second, "Query timeout")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse query flags", err.Error(), "Run: graphdb query --help")
	}
	if fs.NArg() == 0 {
		return internalerrors.NewInputError("Missing query argument", "", `Run: graphdb query "MATCH (n:Node) RETURN n LIMIT 10"`)
	}
	cypher := fs.Arg(0)

	cwd, err := os.Getwd()
	if err != nil {
		return internalerrors.NewInternalError("Cannot determine current directory", err.Error(), "", err)
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil {
		return err
	}

	store, err := storage.NewEmbeddedStore(storage.EmbeddedConfig{DataDir: cfg.DBPath, ProjectID: cfg.ProjectID})
	if err != nil {
		return internalerrors.NewDatabaseError(
			fmt.Sprintf("Cannot open graph store at %s", cfg.DBPath),
			err.Error(),
			"Run: graphdb ingest",
			err,
		)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := store.Query(ctx, cypher)
	if err != nil {
		return internalerrors.NewInputError("Query failed", err.Error(), "Check the Cypher syntax")
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"headers": result.Headers,
			"rows":    result.Rows,
			"count":   len(result.Rows),
		})
	}

	printQueryResult(result)
	return nil
}

func printQueryResult(result *storage.QueryResult) {
	if len(result.Rows) == 0 {
		fmt.Println("No results")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, h := range result.Headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, strings.ToUpper(h))
	}
	fmt.Fprintln(w)

	for i := range result.Headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, "---")
	}
	fmt.Fprintln(w)

	for _, row := range result.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, formatCell(cell))
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	fmt.Printf("\n(%d rows)\n", len(result.Rows))
}

func formatCell(v any) string {
	switch val := v.(type) {
	case string:
		if len(val) > 60 {
			return val[:57] + "..."
		}
		return val
	case nil:
		return "<null>"
	default:
		s := fmt.Sprintf("%v", val)
		if len(s) > 60 {
			return s[:57] + "..."
		}
		return s
	}
}
