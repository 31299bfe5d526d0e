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

import "fmt"

// NodeKind is a closed enumeration of the graph's node types. The core
// actively produces File, Function, Class, Interface, Import, Repository
// and Language; the remaining kinds are reserved so the schema stays
// forward-compatible with future producers.
type NodeKind int

const (
	NodeRepository NodeKind = iota
	NodeLanguage
	NodeFile
	NodeDirectory
	NodeFunction
	NodeClass
	NodeInterface
	NodeDataModel
	NodeTrait
	NodeVar
	NodeImport
	NodeLibrary
	NodeEndpoint
	NodeRequest
	NodePage
	NodeInstance
)

var nodeKindNames = map[NodeKind]string{
	NodeRepository: "Repository",
	NodeLanguage:   "Language",
	NodeFile:       "File",
	NodeDirectory:  "Directory",
	NodeFunction:   "Function",
	NodeClass:      "Class",
	NodeInterface:  "Interface",
	NodeDataModel:  "DataModel",
	NodeTrait:      "Trait",
	NodeVar:        "Var",
	NodeImport:     "Import",
	NodeLibrary:    "Library",
	NodeEndpoint:   "Endpoint",
	NodeRequest:    "Request",
	NodePage:       "Page",
	NodeInstance:   "Instance",
}

var nodeKindByName = func() map[string]NodeKind {
	m := make(map[string]NodeKind, len(nodeKindNames))
	for k, v := range nodeKindNames {
		m[v] = k
	}
	return m
}()

// String returns the canonical spelling stored in the graph.
func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseNodeKind decodes a canonical spelling back into a NodeKind.
// Decoding is exhaustive: any string outside the closed set fails with
// UnknownKind.
func ParseNodeKind(s string) (NodeKind, error) {
	if k, ok := nodeKindByName[s]; ok {
		return k, nil
	}
	return 0, &UnknownKindError{Value: s}
}

// EdgeKind is a closed enumeration of the graph's relationship types. The
// core actively produces Contains, Calls, Imports and Implements.
type EdgeKind int

const (
	EdgeContains EdgeKind = iota
	EdgeCalls
	EdgeImports
	EdgeHandler
	EdgeRenders
	EdgeImplements
	EdgeUses
	EdgeOf
	EdgeOperand
)

var edgeKindNames = map[EdgeKind]string{
	EdgeContains:   "Contains",
	EdgeCalls:      "Calls",
	EdgeImports:    "Imports",
	EdgeHandler:    "Handler",
	EdgeRenders:    "Renders",
	EdgeImplements: "Implements",
	EdgeUses:       "Uses",
	EdgeOf:         "Of",
	EdgeOperand:    "Operand",
}

var edgeKindByName = func() map[string]EdgeKind {
	m := make(map[string]EdgeKind, len(edgeKindNames))
	for k, v := range edgeKindNames {
		m[v] = k
	}
	return m
}()

// String returns the canonical spelling stored in the graph.
func (k EdgeKind) String() string {
	if name, ok := edgeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseEdgeKind decodes a canonical spelling back into an EdgeKind.
func ParseEdgeKind(s string) (EdgeKind, error) {
	if k, ok := edgeKindByName[s]; ok {
		return k, nil
	}
	return 0, &UnknownKindError{Value: s}
}

// UnknownKindError is returned when a string does not match any member of
// a closed node/edge kind enumeration.
type UnknownKindError struct {
	Value string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown kind: %q", e.Value)
}

// NoLine is the wire encoding for an absent start/end line.
const NoLine = -1

// Node is the record shape persisted for every graph vertex.
type Node struct {
	ID        string
	Kind      NodeKind
	Name      string
	File      string
	Body      string
	StartLine *int // nil encodes as NoLine on the wire
	EndLine   *int
	Meta      map[string]string
}

// Edge is the record shape persisted for every graph relationship. Both
// endpoints must already exist; inserting an edge whose endpoint is
// missing is the caller's responsibility to avoid (see store package).
type Edge struct {
	FromID string
	ToID   string
	Kind   EdgeKind
}
