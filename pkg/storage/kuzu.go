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

package storage

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	kuzu "github.com/kuzudb/go-kuzu"
)

// EmbeddedConfig configures the embedded Kuzu-backed store.
type EmbeddedConfig struct {
	// DataDir is the directory Kuzu stores its database files in. Created
	// if missing.
	DataDir string

	// ProjectID namespaces DataDir when callers share one parent directory
	// across projects.
	ProjectID string
}

// EmbeddedStore implements Backend on top of an embedded Kuzu database.
// A single connection is shared and guarded by a RWMutex: readers
// (Query) take the read lock, writers (Execute) take the write lock, the
// same shape as the mutex/closed-flag pattern used throughout this
// module's storage layer.
type EmbeddedStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection

	mu     sync.RWMutex
	closed bool
}

// NewEmbeddedStore opens (or creates) a Kuzu database at config.DataDir
// and ensures the schema described in §4.5 exists.
func NewEmbeddedStore(config EmbeddedConfig) (*EmbeddedStore, error) {
	dataDir := config.DataDir
	if config.ProjectID != "" {
		dataDir = dataDir + string(os.PathSeparator) + config.ProjectID
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := kuzu.OpenDatabase(dataDir, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("open kuzu database: %w", err)
	}

	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open kuzu connection: %w", err)
	}

	store := &EmbeddedStore{db: db, conn: conn}
	if err := store.EnsureSchema(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// Query runs a read-only Cypher statement and decodes every row.
func (s *EmbeddedStore) Query(ctx context.Context, cypher string) (*QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := s.conn.Query(cypher)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer result.Close()

	return decodeResult(result)
}

// Execute runs a Cypher statement for its side effects.
func (s *EmbeddedStore) Execute(ctx context.Context, cypher string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := s.conn.Query(cypher)
	if err != nil {
		return fmt.Errorf("execute failed: %w", err)
	}
	result.Close()
	return nil
}

// Close releases the connection and database handle.
func (s *EmbeddedStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// EnsureSchema creates the Node, Metadata, and Edge tables if they do not
// already exist, using the sentinel query described in §4.5 to detect a
// fresh database.
func (s *EmbeddedStore) EnsureSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Query("MATCH (n:Node) RETURN count(n) LIMIT 1"); err == nil {
		return nil
	}

	statements := []string{
		"CREATE NODE TABLE Node(id STRING, node_type STRING, name STRING, file STRING, body STRING, start_line INT32, end_line INT32, PRIMARY KEY(id))",
		"CREATE NODE TABLE Metadata(key STRING, value STRING, PRIMARY KEY(key))",
		"CREATE REL TABLE Edge(FROM Node TO Node, edge_type STRING)",
	}
	for _, stmt := range statements {
		result, err := s.conn.Query(stmt)
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("create schema: %w", err)
		}
		result.Close()
	}

	result, err := s.conn.Query("CREATE (:Metadata {key: 'schema_version', value: '1'})")
	if err != nil {
		return fmt.Errorf("seed schema_version: %w", err)
	}
	result.Close()
	return nil
}

// InsertNode creates one Node row. All string fields are escaped per §6;
// absent line numbers encode as -1.
func (s *EmbeddedStore) InsertNode(ctx context.Context, n NodeRecord) error {
	startLine, endLine := -1, -1
	if n.StartLine != nil {
		startLine = *n.StartLine
	}
	if n.EndLine != nil {
		endLine = *n.EndLine
	}

	cypher := fmt.Sprintf(
		"CREATE (:Node {id: '%s', node_type: '%s', name: '%s', file: '%s', body: '%s', start_line: %d, end_line: %d})",
		EscapeString(n.ID), EscapeString(n.NodeType), EscapeString(n.Name), EscapeString(n.File), EscapeString(n.Body),
		startLine, endLine,
	)
	return s.Execute(ctx, cypher)
}

// InsertEdge matches both endpoints by id and creates the Edge. If either
// endpoint is missing the MATCH binds nothing, so no edge is created and
// no error is returned; errors come only from executing the statement, and
// the caller decides whether those are fatal (see ingestion coordinator §4.6).
func (s *EmbeddedStore) InsertEdge(ctx context.Context, fromID, toID, edgeType string) error {
	cypher := fmt.Sprintf(
		"MATCH (a:Node {id: '%s'}), (b:Node {id: '%s'}) CREATE (a)-[:Edge {edge_type: '%s'}]->(b)",
		EscapeString(fromID), EscapeString(toID), EscapeString(edgeType),
	)
	return s.Execute(ctx, cypher)
}

// CountNodesByType returns the number of Node rows with the given type.
func (s *EmbeddedStore) CountNodesByType(ctx context.Context, nodeType string) (int64, error) {
	cypher := fmt.Sprintf("MATCH (n:Node {node_type: '%s'}) RETURN count(n)", EscapeString(nodeType))
	result, err := s.Query(ctx, cypher)
	if err != nil {
		return 0, err
	}
	return firstInt(result)
}

// CountEdgesByType returns the number of Edge rows with the given type.
func (s *EmbeddedStore) CountEdgesByType(ctx context.Context, edgeType string) (int64, error) {
	cypher := fmt.Sprintf("MATCH ()-[e:Edge {edge_type: '%s'}]->() RETURN count(e)", EscapeString(edgeType))
	result, err := s.Query(ctx, cypher)
	if err != nil {
		return 0, err
	}
	return firstInt(result)
}

// FindNodesByType projects every Node row of the given type into a
// NodeRecord.
func (s *EmbeddedStore) FindNodesByType(ctx context.Context, nodeType string) ([]NodeRecord, error) {
	cypher := fmt.Sprintf(
		"MATCH (n:Node {node_type: '%s'}) RETURN n.id, n.node_type, n.name, n.file, n.body, n.start_line, n.end_line",
		EscapeString(nodeType),
	)
	result, err := s.Query(ctx, cypher)
	if err != nil {
		return nil, err
	}
	return decodeNodeRows(result.Rows)
}

// Clear detach-deletes every Node row (and transitively every Edge
// incident to one, since Kuzu's DETACH DELETE drops incident rel rows).
func (s *EmbeddedStore) Clear(ctx context.Context) error {
	return s.Execute(ctx, "MATCH (n:Node) DETACH DELETE n")
}

// DeleteFileAndSymbols implements the two-step contains-only cascade of
// §4.5: first delete every node reachable from fileID via an outbound
// Contains edge, then delete fileID itself. The cascade must never follow
// Imports/Uses/Calls, or targets of imports would be destroyed along with
// the importer.
func (s *EmbeddedStore) DeleteFileAndSymbols(ctx context.Context, fileID string) error {
	cascade := fmt.Sprintf(
		"MATCH (f:Node {id: '%s'})-[:Edge {edge_type: 'Contains'}]->(child:Node) DETACH DELETE child",
		EscapeString(fileID),
	)
	if err := s.Execute(ctx, cascade); err != nil {
		return err
	}
	self := fmt.Sprintf("MATCH (f:Node {id: '%s'}) DETACH DELETE f", EscapeString(fileID))
	return s.Execute(ctx, self)
}

// GetMetadata reads one key from the Metadata side-table.
func (s *EmbeddedStore) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	cypher := fmt.Sprintf("MATCH (m:Metadata {key: '%s'}) RETURN m.value", EscapeString(key))
	result, err := s.Query(ctx, cypher)
	if err != nil {
		return "", false, err
	}
	if len(result.Rows) == 0 {
		return "", false, nil
	}
	value, _ := result.Rows[0][0].(string)
	return value, true, nil
}

// SetMetadata upserts one key in the Metadata side-table.
func (s *EmbeddedStore) SetMetadata(ctx context.Context, key, value string) error {
	cypher := fmt.Sprintf(
		"MERGE (m:Metadata {key: '%s'}) SET m.value = '%s'",
		EscapeString(key), EscapeString(value),
	)
	return s.Execute(ctx, cypher)
}

// NodeRecord is storage's own decoded view of a graph node row; the
// ingestion package's Node type maps onto this one at the store boundary.
type NodeRecord struct {
	ID        string
	NodeType  string
	Name      string
	File      string
	Body      string
	StartLine *int
	EndLine   *int
}

func decodeResult(result *kuzu.QueryResult) (*QueryResult, error) {
	headers, err := result.GetColumnNames()
	if err != nil {
		return nil, fmt.Errorf("read column names: %w", err)
	}

	var rows [][]any
	for result.HasNext() {
		tuple, err := result.Next()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]any, len(headers))
		for i := range headers {
			v, err := tuple.GetValue(uint64(i))
			if err != nil {
				return nil, fmt.Errorf("read column %d: %w", i, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return &QueryResult{Headers: headers, Rows: rows}, nil
}

func firstInt(result *QueryResult) (int64, error) {
	if len(result.Rows) == 0 || len(result.Rows[0]) == 0 {
		return 0, nil
	}
	switch v := result.Rows[0][0].(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse count: %w", err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected count type %T", v)
	}
}

func decodeNodeRows(rows [][]any) ([]NodeRecord, error) {
	records := make([]NodeRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		rec := NodeRecord{
			ID:       asString(row[0]),
			NodeType: asString(row[1]),
			Name:     asString(row[2]),
			File:     asString(row[3]),
			Body:     asString(row[4]),
		}
		if start := asInt(row[5]); start != -1 {
			s := start
			rec.StartLine = &s
		}
		if end := asInt(row[6]); end != -1 {
			e := end
			rec.EndLine = &e
		}
		records = append(records, rec)
	}
	return records, nil
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
