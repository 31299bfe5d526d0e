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

	"github.com/spf13/pflag"

	internalerrors "github.com/codegraph/ingest/internal/errors"
)

// runReset clears all graph data via EmbeddedStore.Clear. Requires --yes to
// avoid accidental data loss.
func runReset(args []string) error {
	fs := pflag.NewFlagSet("reset", pflag.ContinueOnError)
	confirm := fs.Bool("yes", false, "Confirm the reset (required)")

	if err := fs.Parse(args); err != nil {
		return internalerrors.NewInputError("Cannot parse reset flags", err.Error(), "Run: graphdb reset --help")
	}
	if !*confirm {
		return internalerrors.NewInputError(
			"Refusing to reset without confirmation",
			"This deletes all indexed nodes and edges",
			"Re-run with --yes",
		)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return internalerrors.NewDatabaseError("Reset failed", err.Error(), "", err)
	}

	fmt.Println("Graph data cleared.")
	fmt.Println("Run: graphdb ingest --clean")
	return nil
}
