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
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs lists directory names never walked into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"coverage":     true,
}

// sourceExtensions are the file extensions discovery enumerates.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
}

// DiscoverRoot canonicalizes path and walks upward looking for a `.git`
// directory. The returned root is the directory containing `.git`, or the
// canonicalized input path if none is found between it and the filesystem
// root.
func DiscoverRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &IoError{Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The path may not exist yet in test fixtures; fall back to the
		// absolute form rather than failing discovery outright.
		resolved = abs
	}

	dir := resolved
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return resolved, nil
}

// DiscoverFiles walks root honoring the .gitignore at root and hidden-file
// conventions, returning every regular file whose extension is ts or tsx.
// Only root's own .gitignore is read; .gitignore files in subdirectories
// are not.
// No ordering is guaranteed; callers must not depend on one.
func DiscoverFiles(root string) ([]string, error) {
	var gitIgnore *ignore.GitIgnore
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		gi, err := ignore.CompileIgnoreFile(gitignorePath)
		if err != nil {
			return nil, &IoError{Path: gitignorePath, Err: err}
		}
		gitIgnore = gi
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if skipDirs[name] {
				return fs.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		ext := filepath.Ext(name)
		if !sourceExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gitIgnore != nil && gitIgnore.MatchesPath(relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, &IoError{Path: root, Err: err}
	}
	return files, nil
}
