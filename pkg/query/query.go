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

// Package query implements the two read-only operations the CLI front end
// builds on top of the graph store: name-pattern search and reverse call
// lookup.
package query

import (
	"context"
	"fmt"
	"regexp"

	"github.com/codegraph/ingest/pkg/storage"
)

// Node mirrors the decoded projection of a Node row returned to callers.
type Node struct {
	ID        string
	NodeType  string
	Name      string
	File      string
	StartLine *int
	EndLine   *int
}

// CallerResult is one row of a FindCallers response.
type CallerResult struct {
	Caller     Node
	CalleeName string
}

// FindSymbol performs a case-insensitive regex containment match on
// Node.name, ordered by name ascending and optionally limited. The
// pattern is regex-escaped before interpolation, matching §4.7.
func FindSymbol(ctx context.Context, backend storage.Backend, pattern string, limit int) ([]Node, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	cypher := fmt.Sprintf(
		"MATCH (n:Node) WHERE n.name =~ '(?i).*%s.*' RETURN n.id, n.node_type, n.name, n.file, n.start_line, n.end_line ORDER BY n.name ASC",
		storage.EscapeString(pattern),
	)
	if limit > 0 {
		cypher = fmt.Sprintf("%s LIMIT %d", cypher, limit)
	}

	result, err := backend.Query(ctx, cypher)
	if err != nil {
		return nil, err
	}
	return decodeNodes(result.Rows), nil
}

// FindCallers matches callers via Calls edges where the callee's name or
// id equals symbol, returning (caller_node, callee_name) pairs ordered by
// caller name. Per §9, the escaping is unified on backslash escaping to
// match insert paths, resolving the spec's noted single-quote-doubling
// inconsistency.
func FindCallers(ctx context.Context, backend storage.Backend, symbol string) ([]CallerResult, error) {
	escaped := storage.EscapeString(symbol)
	cypher := fmt.Sprintf(
		"MATCH (caller:Node)-[e:Edge {edge_type: 'Calls'}]->(callee:Node) "+
			"WHERE callee.name = '%s' OR callee.id = '%s' "+
			"RETURN caller.id, caller.node_type, caller.name, caller.file, caller.start_line, caller.end_line, callee.name "+
			"ORDER BY caller.name ASC",
		escaped, escaped,
	)

	result, err := backend.Query(ctx, cypher)
	if err != nil {
		return nil, err
	}

	out := make([]CallerResult, 0, len(result.Rows))
	for _, row := range result.Rows {
		if len(row) < 7 {
			continue
		}
		out = append(out, CallerResult{
			Caller:     decodeNode(row[:6]),
			CalleeName: asString(row[6]),
		})
	}
	return out, nil
}

func decodeNodes(rows [][]any) []Node {
	nodes := make([]Node, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		nodes = append(nodes, decodeNode(row))
	}
	return nodes
}

func decodeNode(row []any) Node {
	n := Node{
		ID:       asString(row[0]),
		NodeType: asString(row[1]),
		Name:     asString(row[2]),
		File:     asString(row[3]),
	}
	if start := asInt(row[4]); start != -1 {
		s := start
		n.StartLine = &s
	}
	if end := asInt(row[5]); end != -1 {
		e := end
		n.EndLine = &e
	}
	return n
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return -1
	}
}
