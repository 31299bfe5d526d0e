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
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// CodeParser extracts entities and intra-file edges from one source file.
type CodeParser interface {
	ParseFile(filePath string, content []byte) (*ParsedFile, error)
}

// UnresolvedCall is a call site the intra-file pass could not bind to a
// local function; it carries enough information for cross-file resolution
// over the symbol map and import map (§4.4, §4.6 step 9).
type UnresolvedCall struct {
	CallerID   string
	CalleeName string
	File       string
}

// ImportTarget is one resolved relative import, ready to become an Imports
// edge once both file nodes exist.
type ImportTarget struct {
	FromFile string
	ToFile   string
}

// ParsedFile is the per-file output of the parser: the node list, the
// intra-file edge list, resolved file-to-file import targets, and any call
// sites left for cross-file resolution.
type ParsedFile struct {
	Nodes           []Node
	Edges           []Edge
	ImportTargets   []ImportTarget
	UnresolvedCalls []UnresolvedCall
}

// TreeSitterParser implements CodeParser for TypeScript and TSX source
// using the smacker/go-tree-sitter bindings. One instance is safe to reuse
// sequentially but not safe for concurrent ParseFile calls that share the
// embedded *sitter.Parser; callers running a worker pool should construct
// one TreeSitterParser per worker.
type TreeSitterParser struct {
	tsParser  *sitter.Parser
	tsxParser *sitter.Parser
	logger    *slog.Logger
}

// NewTreeSitterParser constructs parsers for both the TypeScript and TSX
// grammars.
func NewTreeSitterParser(logger *slog.Logger) *TreeSitterParser {
	if logger == nil {
		logger = slog.Default()
	}
	ts := sitter.NewParser()
	ts.SetLanguage(typescript.GetLanguage())

	tx := sitter.NewParser()
	tx.SetLanguage(tsx.GetLanguage())

	return &TreeSitterParser{tsParser: ts, tsxParser: tx, logger: logger}
}

var _ CodeParser = (*TreeSitterParser)(nil)

// ParseFile parses one file and runs every extractor in §4.4's table.
func (p *TreeSitterParser) ParseFile(filePath string, content []byte) (*ParsedFile, error) {
	parser := p.tsParser
	if strings.HasSuffix(filePath, ".tsx") {
		parser = p.tsxParser
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, &ParseError{Path: filePath, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &ParseError{Path: filePath}
	}

	if root.HasError() {
		if n := countErrors(root); n > 0 {
			p.logger.Warn("parser.treesitter.typescript.syntax_errors",
				"path", filePath,
				"error_count", n,
			)
		}
	}

	pf := &ParsedFile{}

	fns := extractFunctions(root, content, filePath)
	classes := extractClasses(root, content, filePath)
	interfaces := extractInterfaces(root, content, filePath)

	containing := newRangeIndex(fns)

	for _, fn := range fns {
		pf.Nodes = append(pf.Nodes, fn.node)
	}
	for _, c := range classes {
		pf.Nodes = append(pf.Nodes, c.node)
	}
	for _, i := range interfaces {
		pf.Nodes = append(pf.Nodes, i.node)
	}

	localFuncsByName := make(map[string]string, len(fns))
	for _, fn := range fns {
		localFuncsByName[fn.name] = fn.node.ID
	}
	localClassesByName := make(map[string]string, len(classes))
	for _, c := range classes {
		localClassesByName[c.name] = c.node.ID
	}

	calls, unresolved := extractCalls(root, content, filePath, containing, localFuncsByName)
	pf.Edges = append(pf.Edges, calls...)
	pf.UnresolvedCalls = append(pf.UnresolvedCalls, unresolved...)

	ctorCalls := extractConstructorCalls(root, content, filePath, containing, localClassesByName)
	pf.Edges = append(pf.Edges, ctorCalls...)

	pf.Edges = append(pf.Edges, extractHeritage(classes, interfaces)...)

	importCount, targets := extractImports(root, content, filePath)
	if importCount > 0 || true {
		pf.Nodes = append(pf.Nodes, buildImportSummaryNode(filePath, importCount))
	}
	pf.ImportTargets = targets

	return pf, nil
}

// countErrors counts ERROR nodes in a tree, used only to size a log line;
// tree-sitter itself remains usable even with syntax errors present.
func countErrors(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.IsError() || node.Type() == "ERROR" {
		count++
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		count += countErrors(node.Child(i))
	}
	return count
}

// namedRange pairs a function node ID and name with the line range it
// spans, used to resolve the containing function of a call site.
type namedRange struct {
	id         string
	name       string
	startLine  int
	endLine    int
}

type rangeIndex struct {
	ranges []namedRange
}

func newRangeIndex(fns []extractedFunc) *rangeIndex {
	ri := &rangeIndex{}
	for _, fn := range fns {
		ri.ranges = append(ri.ranges, namedRange{
			id:        fn.node.ID,
			name:      fn.name,
			startLine: *fn.node.StartLine,
			endLine:   *fn.node.EndLine,
		})
	}
	return ri
}

// containingFunction returns the innermost local function whose range
// contains line, per §4.4's resolution of the open question in §9: when
// multiple functions nest around a call site, the tightest match wins.
func (ri *rangeIndex) containingFunction(line int) (namedRange, bool) {
	best := namedRange{}
	found := false
	bestSpan := -1
	for _, r := range ri.ranges {
		if line < r.startLine || line > r.endLine {
			continue
		}
		span := r.endLine - r.startLine
		if !found || span < bestSpan {
			best = r
			bestSpan = span
			found = true
		}
	}
	return best, found
}

// resolveRelativeImport applies the suffix search of §4.4 and returns the
// resolved absolute path, or "" if nothing on disk matches.
func resolveRelativeImport(fromFile, specifier string, exists func(string) bool) string {
	if !strings.HasPrefix(specifier, ".") {
		return ""
	}
	dir := filepath.Dir(fromFile)
	base := filepath.Join(dir, specifier)

	suffixes := []string{"", ".ts", ".tsx", "/index.ts", "/index.tsx"}
	for _, suffix := range suffixes {
		candidate := base + suffix
		if exists(candidate) {
			return filepath.Clean(candidate)
		}
	}
	return ""
}

func buildImportSummaryNode(filePath string, count int) Node {
	name := formatImportSummary(count)
	id := GenerateNodeID(NodeImport, name, filePath, nil, nil)
	return Node{
		ID:   id,
		Kind: NodeImport,
		Name: name,
		File: filePath,
	}
}

func formatImportSummary(count int) string {
	var b strings.Builder
	b.WriteString(itoa(count))
	b.WriteString(" imports")
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// sortedKeys returns m's keys in ascending order, giving a deterministic
// iteration order over a map.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
