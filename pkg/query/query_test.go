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

package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	internaltesting "github.com/codegraph/ingest/internal/testing"
)

func TestFindSymbol_CaseInsensitiveSubstring(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-1", "handleAuth", "auth.ts", 10, 20)
	internaltesting.InsertTestFunction(t, store, "fn-2", "HANDLEother", "other.ts", 1, 5)
	internaltesting.InsertTestClass(t, store, "cls-1", "UserService", "user.ts", 1, 40)

	nodes, err := FindSymbol(context.Background(), store, "handle", 0)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	names := map[string]bool{}
	for _, n := range nodes {
		names[n.Name] = true
	}
	require.True(t, names["handleAuth"])
	require.True(t, names["HANDLEother"])
}

func TestFindSymbol_RespectsLimit(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	for i := 0; i < 5; i++ {
		internaltesting.InsertTestFunction(t, store, "fn-"+string(rune('a'+i)), "handle"+string(rune('a'+i)), "a.ts", i, i+1)
	}

	nodes, err := FindSymbol(context.Background(), store, "handle", 2)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestFindSymbol_InvalidPatternRejected(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	_, err := FindSymbol(context.Background(), store, "(unterminated", 0)
	require.Error(t, err)
}

func TestFindSymbol_NoMatches(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-1", "handleAuth", "auth.ts", 10, 20)

	nodes, err := FindSymbol(context.Background(), store, "nonexistent", 0)
	require.NoError(t, err)
	require.Empty(t, nodes)
}

func TestFindSymbol_PopulatesLineNumbers(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-1", "handleAuth", "auth.ts", 10, 20)

	nodes, err := FindSymbol(context.Background(), store, "handleAuth", 0)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.NotNil(t, nodes[0].StartLine)
	require.Equal(t, 10, *nodes[0].StartLine)
	require.NotNil(t, nodes[0].EndLine)
	require.Equal(t, 20, *nodes[0].EndLine)
}

func TestFindCallers_MatchesByCalleeName(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-helper", "helper", "helper.ts", 1, 5)
	internaltesting.InsertTestFunction(t, store, "fn-caller", "caller", "index.ts", 1, 5)
	internaltesting.InsertTestCalls(t, store, "fn-caller", "fn-helper")

	results, err := FindCallers(context.Background(), store, "helper")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "caller", results[0].Caller.Name)
	require.Equal(t, "helper", results[0].CalleeName)
}

func TestFindCallers_MatchesByCalleeID(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-helper", "helper", "helper.ts", 1, 5)
	internaltesting.InsertTestFunction(t, store, "fn-caller", "caller", "index.ts", 1, 5)
	internaltesting.InsertTestCalls(t, store, "fn-caller", "fn-helper")

	results, err := FindCallers(context.Background(), store, "fn-helper")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "caller", results[0].Caller.Name)
}

func TestFindCallers_NoCallersReturnsEmpty(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-helper", "helper", "helper.ts", 1, 5)

	results, err := FindCallers(context.Background(), store, "helper")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestFindCallers_EscapesSymbolInput(t *testing.T) {
	store := internaltesting.SetupTestStore(t)
	internaltesting.InsertTestFunction(t, store, "fn-helper", "helper", "helper.ts", 1, 5)

	results, err := FindCallers(context.Background(), store, "it's a 'malicious' symbol")
	require.NoError(t, err)
	require.Empty(t, results)
}
