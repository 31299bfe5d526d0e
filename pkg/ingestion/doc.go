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

// Package ingestion turns a TypeScript source tree into a persistent
// property graph of code entities and their relationships.
//
// # Pipeline overview
//
// A full or incremental run moves through five stages:
//
//  1. Discovery: walk the project root honoring ignore files, or diff two
//     VCS revisions to restrict the file set.
//  2. Parsing: run a tree-sitter TypeScript grammar over each file in
//     parallel, extracting functions, classes, interfaces, imports, and
//     intra-file edges.
//  3. Indexing: build an in-memory symbol map and import map over every
//     parsed file before any file's entities are written.
//  4. Persistence: delete-then-insert each file's entities and intra-file
//     edges, in the fixed order that keeps the graph's invariants intact.
//  5. Cross-file resolution: insert import edges and resolve cross-file
//     calls against the indices built in stage 3.
//
// # Identity
//
// Every node's ID is a deterministic hash of its kind, name, file, and
// line range (see GenerateNodeID). Re-parsing unchanged source reproduces
// identical IDs; this is what makes delete-then-reinsert safe and
// idempotent.
//
// # Incremental ingestion
//
// When the project is a git repository and a prior `last_commit` has been
// recorded, an ingest restricts itself to the files a diff against that
// commit touched. Any failure while computing the diff degrades to a full
// ingest rather than erroring.
package ingestion
