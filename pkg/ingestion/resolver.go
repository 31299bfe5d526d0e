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

package ingestion

import (
	"runtime"
	"sync"
)

// symbolKey is the (name, file) composite key functions and classes are
// indexed under for cross-file resolution.
type symbolKey struct {
	name string
	file string
}

// CallResolver implements the cross-file call resolution slot declared in
// §4.4 and §4.6 step 9: a symbol map keyed by (name, file) and an import
// map keyed by (file, name) → source_file, built once over every parsed
// file before any unresolved call is resolved.
type CallResolver struct {
	symbolMap map[symbolKey]string            // (name, file) -> node id
	importMap map[string]map[string]string    // file -> imported_name -> source_file
}

// NewCallResolver returns an empty resolver ready for BuildIndex.
func NewCallResolver() *CallResolver {
	return &CallResolver{
		symbolMap: make(map[symbolKey]string),
		importMap: make(map[string]map[string]string),
	}
}

// BuildIndex populates the symbol map from every Function/Class node
// produced across all parsed files, and the import map from each file's
// resolved import targets (the imported name is approximated by the
// target file's base symbol namespace: since §4.4 only tracks resolved
// file targets, not named bindings, the import map here binds a file to
// every Function/Class node of the target file, exported or not, keyed by
// that symbol's own name).
func (r *CallResolver) BuildIndex(nodesByFile map[string][]Node, importTargets []ImportTarget) {
	for file, nodes := range nodesByFile {
		for _, n := range nodes {
			if n.Kind != NodeFunction && n.Kind != NodeClass {
				continue
			}
			r.symbolMap[symbolKey{name: n.Name, file: file}] = n.ID
		}
	}

	for _, t := range importTargets {
		if _, ok := r.importMap[t.FromFile]; !ok {
			r.importMap[t.FromFile] = make(map[string]string)
		}
		for _, n := range nodesByFile[t.ToFile] {
			if n.Kind != NodeFunction && n.Kind != NodeClass {
				continue
			}
			r.importMap[t.FromFile][n.Name] = t.ToFile
		}
	}
}

// ResolveCalls resolves each unresolved call against the import map then
// the symbol map: first find which file the callee name was imported
// from, then look up that (name, source_file) pair in the symbol map.
// Sequential for small batches; a bounded worker pool kicks in once the
// batch is large enough that goroutine overhead pays for itself, mirroring
// the same 1000-call threshold and 8-worker cap used elsewhere in this
// corpus for read-only index lookups.
func (r *CallResolver) ResolveCalls(unresolved []UnresolvedCall) []Edge {
	if len(unresolved) < 1000 {
		return r.resolveSequential(unresolved)
	}
	return r.resolveParallel(unresolved)
}

func (r *CallResolver) resolveSequential(unresolved []UnresolvedCall) []Edge {
	seen := make(map[string]bool)
	var edges []Edge
	for _, call := range unresolved {
		if calleeID := r.resolveCall(call); calleeID != "" {
			key := call.CallerID + "->" + calleeID
			if !seen[key] {
				seen[key] = true
				edges = append(edges, Edge{FromID: call.CallerID, ToID: calleeID, Kind: EdgeCalls})
			}
		}
	}
	return edges
}

func (r *CallResolver) resolveParallel(unresolved []UnresolvedCall) []Edge {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}

	jobs := make(chan int, len(unresolved))
	type result struct{ callerID, calleeID string }
	results := make(chan result, len(unresolved))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				call := unresolved[i]
				if calleeID := r.resolveCall(call); calleeID != "" {
					results <- result{callerID: call.CallerID, calleeID: calleeID}
				}
			}
		}()
	}

	for i := range unresolved {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make(map[string]bool)
	var edges []Edge
	for r := range results {
		key := r.callerID + "->" + r.calleeID
		if !seen[key] {
			seen[key] = true
			edges = append(edges, Edge{FromID: r.callerID, ToID: r.calleeID, Kind: EdgeCalls})
		}
	}
	return edges
}

func (r *CallResolver) resolveCall(call UnresolvedCall) string {
	fileImports, ok := r.importMap[call.File]
	if !ok {
		return ""
	}
	sourceFile, ok := fileImports[call.CalleeName]
	if !ok {
		return ""
	}
	return r.symbolMap[symbolKey{name: call.CalleeName, file: sourceFile}]
}

// Stats reports index sizes for logging/diagnostics.
func (r *CallResolver) Stats() (symbols, files int) {
	return len(r.symbolMap), len(r.importMap)
}
