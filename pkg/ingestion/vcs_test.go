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
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, out)
	return string(out)
}

func commitFile(t *testing.T, dir, relPath, content, message string) string {
	t.Helper()
	full := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	runGit(t, dir, "add", relPath)
	runGit(t, dir, "commit", "-q", "-m", message)
	return currentHead(t, dir)
}

func currentHead(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out[:len(out)-1])
}

func TestVCS_IsRepository(t *testing.T) {
	repo := initTestRepo(t)
	vcs := NewVCS(repo, nil)
	require.True(t, vcs.IsRepository())

	notRepo := t.TempDir()
	require.False(t, NewVCS(notRepo, nil).IsRepository())
}

func TestVCS_CurrentRevision(t *testing.T) {
	repo := initTestRepo(t)
	wantSHA := commitFile(t, repo, "a.ts", "export const a = 1;", "initial")

	vcs := NewVCS(repo, nil)
	rev, err := vcs.CurrentRevision()
	require.NoError(t, err)
	require.Equal(t, wantSHA, rev)
}

func TestVCS_FileChanges_AddedModifiedDeleted(t *testing.T) {
	repo := initTestRepo(t)
	first := commitFile(t, repo, "keep.ts", "export const keep = 1;", "first")
	commitFile(t, repo, "modify.ts", "export const v = 1;", "add modify target")
	second := currentHead(t, repo)

	// Modify an existing file, delete another, and add a third.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "modify.ts"), []byte("export const v = 2;"), 0o644))
	runGit(t, repo, "add", "modify.ts")
	runGit(t, repo, "rm", "-q", "keep.ts")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "added.ts"), []byte("export const n = 1;"), 0o644))
	runGit(t, repo, "add", "added.ts")
	runGit(t, repo, "commit", "-q", "-m", "third")
	third := currentHead(t, repo)

	vcs := NewVCS(repo, nil)
	changes, err := vcs.FileChanges(second, third)
	require.NoError(t, err)

	byPath := map[string]FileChange{}
	for _, c := range changes {
		byPath[filepath.Base(c.Path)] = c
	}

	require.Contains(t, byPath, "modify.ts")
	require.Equal(t, ChangeModified, byPath["modify.ts"].Kind)

	require.Contains(t, byPath, "keep.ts")
	require.Equal(t, ChangeDeleted, byPath["keep.ts"].Kind)

	require.Contains(t, byPath, "added.ts")
	require.Equal(t, ChangeAdded, byPath["added.ts"].Kind)

	_ = first
}

func TestVCS_FileChanges_EmptyFromRevIsAllAdded(t *testing.T) {
	repo := initTestRepo(t)
	commitFile(t, repo, "a.ts", "export const a = 1;", "initial")
	head := currentHead(t, repo)

	vcs := NewVCS(repo, nil)
	changes, err := vcs.FileChanges("", head)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, ChangeAdded, changes[0].Kind)
}
