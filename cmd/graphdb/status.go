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

	"github.com/spf13/pflag"

	internalerrors "github.com/codegraph/ingest/internal/errors"
)

var statusNodeKinds = []string{"Repository", "Language", "File", "Function", "Class", "Interface", "Import"}
var statusEdgeKinds = []string{"Contains", "Calls", "Imports", "Implements"}

// statusResult is the --json rendering of 'status'.
type statusResult struct {
	Nodes      map[string]int64 `json:"nodes"`
	Edges      map[string]int64 `json:"edges"`
	LastCommit string           `json:"last_commit,omitempty"`
}

// runStatus prints per-kind node/edge counts and the last ingested commit.
func runStatus(args []string) error {
	fs := pflag.NewFlagSet("status", pflag.ContinueOnError)
	jsonOutput := fs.Bool("json", false, "Output as JSON")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse status flags", err.Error(), "Run: graphdb status --help")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	result := statusResult{Nodes: map[string]int64{}, Edges: map[string]int64{}}

	for _, kind := range statusNodeKinds {
		count, err := store.CountNodesByType(ctx, kind)
		if err != nil {
			return internalerrors.NewDatabaseError("Cannot read node counts", err.Error(), "", err)
		}
		result.Nodes[kind] = count
	}
	for _, kind := range statusEdgeKinds {
		count, err := store.CountEdgesByType(ctx, kind)
		if err != nil {
			return internalerrors.NewDatabaseError("Cannot read edge counts", err.Error(), "", err)
		}
		result.Edges[kind] = count
	}
	if commit, ok, err := store.GetMetadata(ctx, "last_commit"); err == nil && ok {
		result.LastCommit = commit
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printStatus(result)
	return nil
}

func printStatus(r statusResult) {
	fmt.Println("Nodes:")
	for _, kind := range statusNodeKinds {
		fmt.Printf("  %-12s %d\n", kind, r.Nodes[kind])
	}
	fmt.Println("Edges:")
	for _, kind := range statusEdgeKinds {
		fmt.Printf("  %-12s %d\n", kind, r.Edges[kind])
	}
	if r.LastCommit != "" {
		fmt.Printf("Last ingested commit: %s\n", r.LastCommit)
	} else {
		fmt.Println("Last ingested commit: (none — full rebuild only)")
	}
}
