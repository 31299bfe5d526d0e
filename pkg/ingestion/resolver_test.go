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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallResolver_ResolvesAcrossFiles(t *testing.T) {
	helperFn := Node{ID: "helper-id", Kind: NodeFunction, Name: "helper", File: "helper.ts"}
	callerFn := Node{ID: "caller-id", Kind: NodeFunction, Name: "caller", File: "index.ts"}

	nodesByFile := map[string][]Node{
		"helper.ts": {helperFn},
		"index.ts":  {callerFn},
	}
	importTargets := []ImportTarget{{FromFile: "index.ts", ToFile: "helper.ts"}}

	r := NewCallResolver()
	r.BuildIndex(nodesByFile, importTargets)

	symbols, files := r.Stats()
	require.Equal(t, 2, symbols)
	require.Equal(t, 1, files)

	unresolved := []UnresolvedCall{{CallerID: callerFn.ID, CalleeName: "helper", File: "index.ts"}}
	edges := r.ResolveCalls(unresolved)

	require.Len(t, edges, 1)
	require.Equal(t, callerFn.ID, edges[0].FromID)
	require.Equal(t, helperFn.ID, edges[0].ToID)
	require.Equal(t, EdgeCalls, edges[0].Kind)
}

func TestCallResolver_UnimportedCalleeIsUnresolved(t *testing.T) {
	r := NewCallResolver()
	r.BuildIndex(map[string][]Node{
		"index.ts": {{ID: "caller-id", Kind: NodeFunction, Name: "caller", File: "index.ts"}},
	}, nil)

	edges := r.ResolveCalls([]UnresolvedCall{{CallerID: "caller-id", CalleeName: "ghost", File: "index.ts"}})
	require.Empty(t, edges)
}

func TestCallResolver_DeduplicatesRepeatedCalls(t *testing.T) {
	helperFn := Node{ID: "helper-id", Kind: NodeFunction, Name: "helper", File: "helper.ts"}
	callerFn := Node{ID: "caller-id", Kind: NodeFunction, Name: "caller", File: "index.ts"}

	r := NewCallResolver()
	r.BuildIndex(map[string][]Node{
		"helper.ts": {helperFn},
		"index.ts":  {callerFn},
	}, []ImportTarget{{FromFile: "index.ts", ToFile: "helper.ts"}})

	calls := []UnresolvedCall{
		{CallerID: callerFn.ID, CalleeName: "helper", File: "index.ts"},
		{CallerID: callerFn.ID, CalleeName: "helper", File: "index.ts"},
		{CallerID: callerFn.ID, CalleeName: "helper", File: "index.ts"},
	}
	edges := r.ResolveCalls(calls)
	require.Len(t, edges, 1, "duplicate caller->callee pairs must collapse to one Calls edge")
}

func TestCallResolver_ParallelPathMatchesSequential(t *testing.T) {
	const n = 1500

	nodesByFile := map[string][]Node{}
	var importTargets []ImportTarget
	var unresolved []UnresolvedCall

	for i := 0; i < n; i++ {
		file := fmt.Sprintf("mod%d.ts", i)
		calleeName := fmt.Sprintf("fn%d", i)
		calleeID := fmt.Sprintf("callee-%d", i)
		callerID := fmt.Sprintf("caller-%d", i)

		nodesByFile[file] = []Node{{ID: calleeID, Kind: NodeFunction, Name: calleeName, File: file}}
		callerFile := fmt.Sprintf("caller%d.ts", i)
		nodesByFile[callerFile] = append(nodesByFile[callerFile], Node{ID: callerID, Kind: NodeFunction, Name: "caller", File: callerFile})
		importTargets = append(importTargets, ImportTarget{FromFile: callerFile, ToFile: file})
		unresolved = append(unresolved, UnresolvedCall{CallerID: callerID, CalleeName: calleeName, File: callerFile})
	}

	r := NewCallResolver()
	r.BuildIndex(nodesByFile, importTargets)

	// len(unresolved) == n == 1500 takes the parallel path (>= 1000).
	require.GreaterOrEqual(t, len(unresolved), 1000)
	edges := r.ResolveCalls(unresolved)
	require.Len(t, edges, n)

	seen := map[string]bool{}
	for _, e := range edges {
		require.Equal(t, EdgeCalls, e.Kind)
		key := e.FromID + "->" + e.ToID
		require.False(t, seen[key], "parallel resolution produced a duplicate edge")
		seen[key] = true
	}
}

func TestCallResolver_EmptyInputProducesNoEdges(t *testing.T) {
	r := NewCallResolver()
	r.BuildIndex(nil, nil)
	require.Empty(t, r.ResolveCalls(nil))
}
