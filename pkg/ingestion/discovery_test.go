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
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDiscoverRoot_FindsGitDir(t *testing.T) {
	tmp := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmp, ".git"), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	nested := filepath.Join(tmp, "src", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	root, err := DiscoverRoot(nested)
	if err != nil {
		t.Fatalf("DiscoverRoot returned error: %v", err)
	}

	resolvedTmp, _ := filepath.EvalSymlinks(tmp)
	if root != resolvedTmp {
		t.Errorf("DiscoverRoot() = %q, want %q", root, resolvedTmp)
	}
}

func TestDiscoverRoot_NoGitFallsBackToPath(t *testing.T) {
	tmp := t.TempDir()

	root, err := DiscoverRoot(tmp)
	if err != nil {
		t.Fatalf("DiscoverRoot returned error: %v", err)
	}

	resolvedTmp, _ := filepath.EvalSymlinks(tmp)
	if root != resolvedTmp {
		t.Errorf("DiscoverRoot() = %q, want %q", root, resolvedTmp)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscoverFiles_FiltersExtensionsAndSkipDirs(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, filepath.Join(tmp, "src", "a.ts"), "export const a = 1;")
	writeFile(t, filepath.Join(tmp, "src", "b.tsx"), "export const B = () => null;")
	writeFile(t, filepath.Join(tmp, "src", "c.js"), "module.exports = {};")
	writeFile(t, filepath.Join(tmp, "node_modules", "pkg", "index.ts"), "export const ignored = 1;")
	writeFile(t, filepath.Join(tmp, "dist", "out.ts"), "export const ignored = 2;")
	writeFile(t, filepath.Join(tmp, ".hidden", "h.ts"), "export const ignored = 3;")

	files, err := DiscoverFiles(tmp)
	if err != nil {
		t.Fatalf("DiscoverFiles returned error: %v", err)
	}

	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(tmp, f)
		rel = append(rel, r)
	}
	sort.Strings(rel)

	want := []string{filepath.Join("src", "a.ts"), filepath.Join("src", "b.tsx")}
	sort.Strings(want)

	if len(rel) != len(want) {
		t.Fatalf("DiscoverFiles() = %v, want %v", rel, want)
	}
	for i := range want {
		if rel[i] != want[i] {
			t.Errorf("DiscoverFiles()[%d] = %q, want %q", i, rel[i], want[i])
		}
	}
}

func TestDiscoverFiles_HonorsGitignore(t *testing.T) {
	tmp := t.TempDir()

	writeFile(t, filepath.Join(tmp, "keep.ts"), "export const keep = 1;")
	writeFile(t, filepath.Join(tmp, "generated.ts"), "export const gen = 1;")
	writeFile(t, filepath.Join(tmp, ".gitignore"), "generated.ts\n")

	files, err := DiscoverFiles(tmp)
	if err != nil {
		t.Fatalf("DiscoverFiles returned error: %v", err)
	}

	for _, f := range files {
		if filepath.Base(f) == "generated.ts" {
			t.Errorf("DiscoverFiles() included a gitignored file: %v", f)
		}
	}
	found := false
	for _, f := range files {
		if filepath.Base(f) == "keep.ts" {
			found = true
		}
	}
	if !found {
		t.Errorf("DiscoverFiles() did not include keep.ts, got %v", files)
	}
}
