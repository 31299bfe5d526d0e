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

import "testing"

func TestGenerateNodeID_Deterministic(t *testing.T) {
	a := GenerateNodeID(NodeFunction, "handleAuth", "auth.ts", intPtr(10), intPtr(20))
	b := GenerateNodeID(NodeFunction, "handleAuth", "auth.ts", intPtr(10), intPtr(20))
	if a != b {
		t.Fatalf("expected identical IDs for identical input, got %q and %q", a, b)
	}
}

func TestGenerateNodeID_DiffersByField(t *testing.T) {
	base := GenerateNodeID(NodeFunction, "handleAuth", "auth.ts", intPtr(10), intPtr(20))

	cases := map[string]string{
		"name":       GenerateNodeID(NodeFunction, "handleOther", "auth.ts", intPtr(10), intPtr(20)),
		"file":       GenerateNodeID(NodeFunction, "handleAuth", "other.ts", intPtr(10), intPtr(20)),
		"kind":       GenerateNodeID(NodeClass, "handleAuth", "auth.ts", intPtr(10), intPtr(20)),
		"start_line": GenerateNodeID(NodeFunction, "handleAuth", "auth.ts", intPtr(11), intPtr(20)),
		"end_line":   GenerateNodeID(NodeFunction, "handleAuth", "auth.ts", intPtr(10), intPtr(21)),
	}

	for field, id := range cases {
		if id == base {
			t.Errorf("changing %s did not change the generated ID", field)
		}
	}
}

func TestGenerateNodeID_NilLinesUseSentinel(t *testing.T) {
	withNil := GenerateNodeID(NodeImport, "summary", "auth.ts", nil, nil)
	withSentinel := GenerateNodeID(NodeImport, "summary", "auth.ts", intPtr(NoLine), intPtr(NoLine))
	if withNil != withSentinel {
		t.Fatalf("nil line pointers should hash identically to explicit NoLine sentinels")
	}
}

func TestGenerateNodeID_HexLength(t *testing.T) {
	id := GenerateNodeID(NodeFile, "auth.ts", "auth.ts", nil, nil)
	if len(id) != 64 {
		t.Fatalf("expected a 64-character hex sha256 digest, got %d chars: %q", len(id), id)
	}
	for _, r := range id {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')) {
			t.Fatalf("ID contains non-hex character: %q", id)
		}
	}
}
