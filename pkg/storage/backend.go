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

// Package storage defines the graph store contract used by the ingestion
// coordinator and query surface, and an embedded implementation backed by
// Kuzu, an openCypher-queryable graph database.
package storage

import (
	"context"
	"strings"
)

// Backend is the interface the rest of this module programs against. It
// is deliberately narrow: the coordinator and query surface only ever
// need to run a Cypher statement and read back rows.
type Backend interface {
	// Query executes a read-only Cypher statement and returns its rows.
	Query(ctx context.Context, cypher string) (*QueryResult, error)

	// Execute runs a Cypher statement for its side effects (CREATE,
	// DETACH DELETE, ...). Returns no rows.
	Execute(ctx context.Context, cypher string) error

	// Close releases the underlying database handle.
	Close() error
}

// QueryResult is a decoded, in-memory view of a Cypher result set.
type QueryResult struct {
	Headers []string
	Rows    [][]any
}

// EscapeString escapes a value for interpolation into a Cypher string
// literal. strings.Replacer applies all replacements in a single pass over
// the input, so a backslash introduced by one replacement is never
// escaped again.
func EscapeString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}
