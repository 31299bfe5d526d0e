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

// Package storage implements the graph store: three tables (Node,
// Metadata, Edge) backed by an embedded Kuzu database, reachable either
// through the narrow Backend interface (Query/Execute/Close) or through
// EmbeddedStore's typed operations (InsertNode, InsertEdge,
// DeleteFileAndSymbols, ...) that the ingestion coordinator drives
// directly.
//
// Every string interpolated into a Cypher statement MUST go through
// EscapeString first; escaping backslashes together with quotes and
// whitespace controls, in one pass, is what keeps a value containing a
// backslash from corrupting the statement.
package storage
