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

// Package testing provides shared fixtures for exercising the graph store
// and ingestion pipeline in tests.
package testing

import (
	"context"
	"testing"

	"github.com/codegraph/ingest/pkg/storage"
)

// SetupTestStore creates a temp-directory-backed embedded store for
// testing. The store is closed automatically when the test finishes.
//
// Example:
//
//	store := testing.SetupTestStore(t)
//	testing.InsertTestFunction(t, store, "func1", "handleAuth", "auth.ts", 10, 20)
func SetupTestStore(t *testing.T) *storage.EmbeddedStore {
	t.Helper()

	store, err := storage.NewEmbeddedStore(storage.EmbeddedConfig{
		DataDir:   t.TempDir(),
		ProjectID: "test",
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// InsertTestFunction inserts a Function node with the given identity
// fields. Body and metadata are left empty.
func InsertTestFunction(t *testing.T, store *storage.EmbeddedStore, id, name, filePath string, startLine, endLine int) {
	t.Helper()

	rec := storage.NodeRecord{
		ID:        id,
		NodeType:  "Function",
		Name:      name,
		File:      filePath,
		StartLine: &startLine,
		EndLine:   &endLine,
	}
	if err := store.InsertNode(context.Background(), rec); err != nil {
		t.Fatalf("failed to insert test function: %v", err)
	}
}

// InsertTestClass inserts a Class node with the given identity fields.
func InsertTestClass(t *testing.T, store *storage.EmbeddedStore, id, name, filePath string, startLine, endLine int) {
	t.Helper()

	rec := storage.NodeRecord{
		ID:        id,
		NodeType:  "Class",
		Name:      name,
		File:      filePath,
		StartLine: &startLine,
		EndLine:   &endLine,
	}
	if err := store.InsertNode(context.Background(), rec); err != nil {
		t.Fatalf("failed to insert test class: %v", err)
	}
}

// InsertTestFile inserts a File node whose name equals its path, matching
// the identity convention used by the coordinator.
func InsertTestFile(t *testing.T, store *storage.EmbeddedStore, id, path string) {
	t.Helper()

	rec := storage.NodeRecord{
		ID:       id,
		NodeType: "File",
		Name:     path,
		File:     path,
	}
	if err := store.InsertNode(context.Background(), rec); err != nil {
		t.Fatalf("failed to insert test file: %v", err)
	}
}

// InsertTestContains inserts a Contains edge from parentID to childID.
func InsertTestContains(t *testing.T, store *storage.EmbeddedStore, parentID, childID string) {
	t.Helper()

	if err := store.InsertEdge(context.Background(), parentID, childID, "Contains"); err != nil {
		t.Fatalf("failed to insert contains edge: %v", err)
	}
}

// InsertTestCalls inserts a Calls edge from callerID to calleeID.
func InsertTestCalls(t *testing.T, store *storage.EmbeddedStore, callerID, calleeID string) {
	t.Helper()

	if err := store.InsertEdge(context.Background(), callerID, calleeID, "Calls"); err != nil {
		t.Fatalf("failed to insert calls edge: %v", err)
	}
}

// InsertTestImports inserts an Imports edge from fromFileID to toFileID.
func InsertTestImports(t *testing.T, store *storage.EmbeddedStore, fromFileID, toFileID string) {
	t.Helper()

	if err := store.InsertEdge(context.Background(), fromFileID, toFileID, "Imports"); err != nil {
		t.Fatalf("failed to insert imports edge: %v", err)
	}
}

// QueryAllNodes is a helper returning every Node row (id, node_type, name).
func QueryAllNodes(t *testing.T, store *storage.EmbeddedStore) *storage.QueryResult {
	t.Helper()

	result, err := store.Query(context.Background(), "MATCH (n:Node) RETURN n.id, n.node_type, n.name")
	if err != nil {
		t.Fatalf("failed to query nodes: %v", err)
	}
	return result
}
