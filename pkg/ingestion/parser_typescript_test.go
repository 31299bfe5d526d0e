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
	"testing"

	"github.com/stretchr/testify/require"
)

func nodesByKind(nodes []Node, kind NodeKind) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func findNode(t *testing.T, nodes []Node, kind NodeKind, name string) Node {
	t.Helper()
	for _, n := range nodes {
		if n.Kind == kind && n.Name == name {
			return n
		}
	}
	t.Fatalf("no %v node named %q among %d nodes", kind, name, len(nodes))
	return Node{}
}

func TestParseFile_ExtractsFunctionDeclaration(t *testing.T) {
	src := `
function add(a: number, b: number): number {
  return a + b;
}
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("math.ts", []byte(src))
	require.NoError(t, err)

	fns := nodesByKind(pf.Nodes, NodeFunction)
	require.Len(t, fns, 1)
	require.Equal(t, "add", fns[0].Name)
	require.Equal(t, "math.ts", fns[0].File)
	require.Contains(t, fns[0].Body, "return a + b;", "Body must hold the function's actual source text")
}

func TestParseFile_ExtractsArrowFunctionVariable(t *testing.T) {
	src := `
export const multiply = (a: number, b: number): number => {
  return a * b;
};
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("math.ts", []byte(src))
	require.NoError(t, err)

	fns := nodesByKind(pf.Nodes, NodeFunction)
	require.Len(t, fns, 1)
	require.Equal(t, "multiply", fns[0].Name)
}

func TestParseFile_ExtractsClassWithHeritage(t *testing.T) {
	src := `
interface Shape {
  area(): number;
}

class Base {}

class Circle extends Base implements Shape {
  area(): number {
    return 0;
  }
}
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("shapes.ts", []byte(src))
	require.NoError(t, err)

	classes := nodesByKind(pf.Nodes, NodeClass)
	require.Len(t, classes, 2)

	ifaces := nodesByKind(pf.Nodes, NodeInterface)
	require.Len(t, ifaces, 1)
	require.Equal(t, "Shape", ifaces[0].Name)
	require.Contains(t, ifaces[0].Body, "area(): number;", "Interface Body must hold its actual source text")

	circleBody := findNode(t, pf.Nodes, NodeClass, "Circle").Body
	require.Contains(t, circleBody, "class Circle extends Base implements Shape")
	require.Contains(t, circleBody, "return 0;")

	circle := findNode(t, pf.Nodes, NodeClass, "Circle")
	base := findNode(t, pf.Nodes, NodeClass, "Base")
	shape := ifaces[0]

	var implementsBase, implementsShape bool
	for _, e := range pf.Edges {
		if e.Kind != EdgeImplements || e.FromID != circle.ID {
			continue
		}
		if e.ToID == base.ID {
			implementsBase = true
		}
		if e.ToID == shape.ID {
			implementsShape = true
		}
	}
	require.True(t, implementsBase, "expected Circle -> Base Implements edge")
	require.True(t, implementsShape, "expected Circle -> Shape Implements edge")
}

func TestParseFile_ExtractsIntraFileCall(t *testing.T) {
	src := `
function helper(): number {
  return 1;
}

function caller(): number {
  return helper();
}
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("calls.ts", []byte(src))
	require.NoError(t, err)

	helper := findNode(t, pf.Nodes, NodeFunction, "helper")
	caller := findNode(t, pf.Nodes, NodeFunction, "caller")

	found := false
	for _, e := range pf.Edges {
		if e.Kind == EdgeCalls && e.FromID == caller.ID && e.ToID == helper.ID {
			found = true
		}
	}
	require.True(t, found, "expected caller -> helper Calls edge, got edges: %+v", pf.Edges)
	require.Empty(t, pf.UnresolvedCalls, "a purely intra-file call should not leave an unresolved call")
}

func TestParseFile_UnresolvedCallForUnknownCallee(t *testing.T) {
	src := `
function caller(): void {
  externalHelper();
}
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("calls.ts", []byte(src))
	require.NoError(t, err)

	caller := findNode(t, pf.Nodes, NodeFunction, "caller")
	require.Len(t, pf.UnresolvedCalls, 1)
	require.Equal(t, "externalHelper", pf.UnresolvedCalls[0].CalleeName)
	require.Equal(t, caller.ID, pf.UnresolvedCalls[0].CallerID)
}

func TestParseFile_UnresolvableRelativeImportYieldsNoTarget(t *testing.T) {
	src := `import { helper } from "./helper";`
	p := NewTreeSitterParser(nil)

	pf, err := p.ParseFile("/repo/src/index.ts", []byte(src))
	require.NoError(t, err)
	require.Empty(t, pf.ImportTargets, "no file exists on disk, so resolveRelativeImport should find nothing in this in-memory test")

	importNodes := nodesByKind(pf.Nodes, NodeImport)
	require.Len(t, importNodes, 1)
}

func TestParseFile_TSXDispatch(t *testing.T) {
	src := `
export function Button(): JSX.Element {
  return <button>Click</button>;
}
`
	p := NewTreeSitterParser(nil)
	pf, err := p.ParseFile("button.tsx", []byte(src))
	require.NoError(t, err)

	fns := nodesByKind(pf.Nodes, NodeFunction)
	require.Len(t, fns, 1)
	require.Equal(t, "Button", fns[0].Name)
}

func TestResolveRelativeImport_SuffixSearch(t *testing.T) {
	existing := map[string]bool{
		"/repo/src/helper.ts":       true,
		"/repo/src/components/index.tsx": true,
	}
	exists := func(p string) bool { return existing[p] }

	got := resolveRelativeImport("/repo/src/index.ts", "./helper", exists)
	require.Equal(t, "/repo/src/helper.ts", got)

	got = resolveRelativeImport("/repo/src/index.ts", "./components", exists)
	require.Equal(t, "/repo/src/components/index.tsx", got)

	got = resolveRelativeImport("/repo/src/index.ts", "./missing", exists)
	require.Equal(t, "", got)

	got = resolveRelativeImport("/repo/src/index.ts", "lodash", exists)
	require.Equal(t, "", got, "non-relative specifiers are never resolved")
}

func TestContainingFunction_InnermostWins(t *testing.T) {
	outer := intPtr(1)
	outerEnd := intPtr(20)
	inner := intPtr(5)
	innerEnd := intPtr(10)

	ri := &rangeIndex{ranges: []namedRange{
		{id: "outer", name: "outer", startLine: *outer, endLine: *outerEnd},
		{id: "inner", name: "inner", startLine: *inner, endLine: *innerEnd},
	}}

	match, ok := ri.containingFunction(7)
	require.True(t, ok)
	require.Equal(t, "inner", match.id, "the tightest enclosing range must win")

	match, ok = ri.containingFunction(15)
	require.True(t, ok)
	require.Equal(t, "outer", match.id)

	_, ok = ri.containingFunction(100)
	require.False(t, ok)
}
