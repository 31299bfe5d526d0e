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

package ingestion

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/codegraph/ingest/pkg/storage"
)

const metadataLastCommit = "last_commit"

// Config is the ingestion coordinator's input, per §4.6.
type Config struct {
	ProjectPath string
	ThreadCount int
	Clean       bool
	Incremental bool
}

// Stats is the ingestion coordinator's output.
type Stats struct {
	FilesProcessed int
	SymbolsCreated int
	EdgesCreated   int
	HadErrors      bool
}

// Coordinator drives discovery, parallel parsing, cross-file resolution,
// and persistence against a graph store.
type Coordinator struct {
	store  *storage.EmbeddedStore
	logger *slog.Logger
}

// NewCoordinator builds a coordinator over an already-open store.
func NewCoordinator(store *storage.EmbeddedStore, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: store, logger: logger}
}

// Ingest runs the full ten-step sequence described in §4.6.
func (c *Coordinator) Ingest(ctx context.Context, cfg Config) (Stats, error) {
	stats := Stats{}
	ingMetrics.init()
	ingestStart := time.Now()
	defer func() { ingMetrics.totalDuration.Observe(time.Since(ingestStart).Seconds()) }()

	if cfg.Clean {
		if err := c.store.Clear(ctx); err != nil {
			return stats, &StoreError{Op: "clear", Err: err}
		}
	}

	root, err := DiscoverRoot(cfg.ProjectPath)
	if err != nil {
		return stats, err
	}

	vcs := NewVCS(root, c.logger)

	var toProcess []string
	var toDelete []string
	incrementalOK := false

	if cfg.Incremental && !cfg.Clean {
		deltaStart := time.Now()
		files, deletes, ok := c.selectIncremental(ctx, root, vcs)
		ingMetrics.deltaDuration.Observe(time.Since(deltaStart).Seconds())
		if ok {
			toProcess, toDelete, incrementalOK = files, deletes, true
		}
	}

	if !incrementalOK {
		all, err := DiscoverFiles(root)
		if err != nil {
			return stats, err
		}
		toProcess = all
	}

	for _, path := range toDelete {
		fileID := fileNodeID(path)
		if err := c.store.DeleteFileAndSymbols(ctx, fileID); err != nil {
			c.logger.Warn("coordinator.incremental.delete_failed", "path", path, "error", err)
		}
	}

	if err := c.synthesizeRepoAndLanguage(ctx, root); err != nil {
		return stats, err
	}

	parseStart := time.Now()
	parsed, readFailures := c.parseAll(ctx, toProcess, cfg.ThreadCount)
	ingMetrics.parseDuration.Observe(time.Since(parseStart).Seconds())
	for range readFailures {
		ingMetrics.init()
		ingMetrics.filesSkipped.Inc()
	}

	nodesByFile := make(map[string][]Node, len(parsed))
	var importTargets []ImportTarget
	var unresolvedCalls []UnresolvedCall
	for path, pf := range parsed {
		nodesByFile[path] = pf.Nodes
		importTargets = append(importTargets, pf.ImportTargets...)
		unresolvedCalls = append(unresolvedCalls, pf.UnresolvedCalls...)
	}

	resolver := NewCallResolver()
	resolver.BuildIndex(nodesByFile, importTargets)

	writeStart := time.Now()
	for path, pf := range parsed {
		hadErr := c.persistFile(ctx, path, pf, &stats)
		if hadErr {
			stats.HadErrors = true
		} else {
			stats.FilesProcessed++
		}
	}

	for _, target := range importTargets {
		fromID := fileNodeID(target.FromFile)
		toID := fileNodeID(target.ToFile)
		if err := c.store.InsertEdge(ctx, fromID, toID, EdgeImports.String()); err != nil {
			c.logger.Debug("coordinator.import_edge_failed", "from", target.FromFile, "to", target.ToFile, "error", err)
			ingMetrics.init()
			ingMetrics.importEdgeErrors.Inc()
			continue
		}
		stats.EdgesCreated++
	}

	for _, edge := range resolver.ResolveCalls(unresolvedCalls) {
		if err := c.store.InsertEdge(ctx, edge.FromID, edge.ToID, edge.Kind.String()); err != nil {
			c.logger.Debug("coordinator.cross_file_call_failed", "from", edge.FromID, "to", edge.ToID, "error", err)
			ingMetrics.init()
			ingMetrics.callEdgeErrors.Inc()
			continue
		}
		stats.EdgesCreated++
	}
	ingMetrics.writeDuration.Observe(time.Since(writeStart).Seconds())

	if !stats.HadErrors && vcs.IsRepository() {
		if rev, err := vcs.CurrentRevision(); err == nil {
			if err := c.store.SetMetadata(ctx, metadataLastCommit, rev); err != nil {
				c.logger.Warn("coordinator.metadata_update_failed", "error", err)
			}
		}
	}

	return stats, nil
}

// selectIncremental implements §4.6.a. The bool result reports whether
// incremental selection succeeded; on false the caller must fall back to
// a full discovery pass.
func (c *Coordinator) selectIncremental(ctx context.Context, root string, vcs *VCS) ([]string, []string, bool) {
	if !vcs.IsRepository() {
		return nil, nil, false
	}
	lastCommit, ok, err := c.store.GetMetadata(ctx, metadataLastCommit)
	if err != nil || !ok || lastCommit == "" {
		return nil, nil, false
	}

	current, err := vcs.CurrentRevision()
	if err != nil {
		return nil, nil, false
	}
	if current == lastCommit {
		return nil, nil, true
	}

	changes, err := vcs.FileChanges(lastCommit, current)
	if err != nil {
		return nil, nil, false
	}

	var toProcess, toDelete []string
	for _, ch := range changes {
		if !hasTSExtension(ch.Path) {
			continue
		}
		ingMetrics.init()
		switch ch.Kind {
		case ChangeAdded:
			ingMetrics.deltaAdded.Inc()
			toProcess = append(toProcess, ch.Path)
		case ChangeModified:
			ingMetrics.deltaModified.Inc()
			toProcess = append(toProcess, ch.Path)
		case ChangeDeleted:
			ingMetrics.deltaDeleted.Inc()
			toDelete = append(toDelete, ch.Path)
		case ChangeRenamed:
			ingMetrics.deltaRenamed.Inc()
			toDelete = append(toDelete, ch.OldPath)
			toProcess = append(toProcess, ch.Path)
		}
	}

	return toProcess, toDelete, true
}

func hasTSExtension(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return true
	}
	ext := filepath.Ext(path)
	return ext == ".ts" || ext == ".tsx"
}

// synthesizeRepoAndLanguage implements §4.6 step 4: cascade-delete any
// prior synthetic nodes under the same id, then insert fresh ones.
func (c *Coordinator) synthesizeRepoAndLanguage(ctx context.Context, root string) error {
	repoName := filepath.Base(root)
	repoID := GenerateNodeID(NodeRepository, repoName, "", nil, nil)
	langID := GenerateNodeID(NodeLanguage, "TypeScript", "", nil, nil)

	for _, id := range []string{repoID, langID} {
		if err := c.store.DeleteFileAndSymbols(ctx, id); err != nil {
			return &StoreError{Op: "synthesize.cascade_delete", Err: err}
		}
	}

	if err := c.store.InsertNode(ctx, storage.NodeRecord{ID: repoID, NodeType: NodeRepository.String(), Name: repoName}); err != nil {
		return &StoreError{Op: "synthesize.insert_repository", Err: err}
	}
	if err := c.store.InsertNode(ctx, storage.NodeRecord{ID: langID, NodeType: NodeLanguage.String(), Name: "TypeScript"}); err != nil {
		return &StoreError{Op: "synthesize.insert_language", Err: err}
	}
	return nil
}

// parseAll reads and parses every file in a bounded worker pool. Read and
// parse failures are contained: logged and excluded from the result, never
// aborting the batch.
func (c *Coordinator) parseAll(ctx context.Context, paths []string, threadCount int) (map[string]*ParsedFile, []string) {
	if threadCount <= 0 {
		threadCount = runtime.NumCPU()
	}

	results := make(map[string]*ParsedFile, len(paths))
	var failed []string
	var mu sync.Mutex

	sem := semaphore.NewWeighted(int64(threadCount))
	g, gctx := errgroup.WithContext(ctx)

	for _, path := range paths {
		path := path
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			content, err := os.ReadFile(path)
			if err != nil {
				c.logger.Warn("coordinator.parse.read_failed", "path", path, "error", err)
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
				return nil
			}

			parser := NewTreeSitterParser(c.logger)
			pf, err := parser.ParseFile(path, content)
			if err != nil {
				c.logger.Warn("coordinator.parse.failed", "path", path, "error", err)
				ingMetrics.init()
				ingMetrics.parseErrors.Inc()
				mu.Lock()
				failed = append(failed, path)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			results[path] = pf
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results, failed
}

// persistFile implements §4.6 step 7: cascade-delete any existing node for
// this path, insert the File node, then every entity node, Contains edge,
// and intra-file edge. Returns true if any insert failed (had_errors).
func (c *Coordinator) persistFile(ctx context.Context, path string, pf *ParsedFile, stats *Stats) bool {
	fileID := fileNodeID(path)

	if err := c.store.DeleteFileAndSymbols(ctx, fileID); err != nil {
		c.logger.Warn("coordinator.persist.cascade_delete_failed", "path", path, "error", err)
		ingMetrics.init()
		ingMetrics.fileWriteErrors.Inc()
		return true
	}

	if err := c.store.InsertNode(ctx, storage.NodeRecord{ID: fileID, NodeType: NodeFile.String(), Name: path, File: path}); err != nil {
		c.logger.Warn("coordinator.persist.file_insert_failed", "path", path, "error", err)
		ingMetrics.init()
		ingMetrics.fileWriteErrors.Inc()
		return true
	}

	hadErr := false
	for _, n := range pf.Nodes {
		if err := c.store.InsertNode(ctx, toNodeRecord(n)); err != nil {
			c.logger.Warn("coordinator.persist.entity_insert_failed", "path", path, "name", n.Name, "error", err)
			ingMetrics.init()
			ingMetrics.fileWriteErrors.Inc()
			hadErr = true
			continue
		}
		stats.SymbolsCreated++
		ingMetrics.init()
		ingMetrics.nodesCreated.Inc()

		if err := c.store.InsertEdge(ctx, fileID, n.ID, EdgeContains.String()); err != nil {
			c.logger.Warn("coordinator.persist.contains_edge_failed", "path", path, "name", n.Name, "error", err)
			hadErr = true
			continue
		}
		stats.EdgesCreated++
	}

	for _, e := range pf.Edges {
		if err := c.store.InsertEdge(ctx, e.FromID, e.ToID, e.Kind.String()); err != nil {
			c.logger.Warn("coordinator.persist.intra_file_edge_failed", "path", path, "kind", e.Kind.String(), "error", err)
			hadErr = true
			continue
		}
		stats.EdgesCreated++
		ingMetrics.init()
		ingMetrics.edgesCreated.Inc()
	}

	if hadErr {
		ingMetrics.init()
		ingMetrics.fileWriteErrors.Inc()
	} else {
		ingMetrics.init()
		ingMetrics.filesProcessed.Inc()
	}

	return hadErr
}

func fileNodeID(path string) string {
	return GenerateNodeID(NodeFile, path, path, nil, nil)
}

func toNodeRecord(n Node) storage.NodeRecord {
	return storage.NodeRecord{
		ID:        n.ID,
		NodeType:  n.Kind.String(),
		Name:      n.Name,
		File:      n.File,
		Body:      n.Body,
		StartLine: n.StartLine,
		EndLine:   n.EndLine,
	}
}
