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
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// GenerateNodeID computes the content-addressed identity of a node:
//
//	id = hex(sha256(node_type_name || name || file || start_line?_le32 || end_line?_le32))
//
// Line numbers are encoded little-endian as int32; an absent line (nil)
// encodes as -1. The hash is a pure function of (kind, name, file, line
// range): re-parsing a file whose entities haven't moved lines reproduces
// identical IDs, while moving a function to a different line changes its
// ID, matching the identity scheme's intended instability across edits
// that shift line ranges.
func GenerateNodeID(kind NodeKind, name, file string, startLine, endLine *int) string {
	h := sha256.New()
	h.Write([]byte(kind.String()))
	h.Write([]byte(name))
	h.Write([]byte(file))

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(lineOrSentinel(startLine)))
	h.Write(buf[:])
	binary.LittleEndian.PutUint32(buf[:], uint32(lineOrSentinel(endLine)))
	h.Write(buf[:])

	return hex.EncodeToString(h.Sum(nil))
}

func lineOrSentinel(line *int) int32 {
	if line == nil {
		return NoLine
	}
	return int32(*line)
}

// intPtr is a small convenience for building optional-int fields inline.
func intPtr(v int) *int {
	return &v
}
