// Copyright 2026 The CodeGraph Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingestion

import (
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// extractedFunc pairs a built Function node with its plain name, used by
// the containing-function and call-resolution passes that run after the
// node list itself is built.
type extractedFunc struct {
	node Node
	name string
}

type extractedClass struct {
	node          Node
	name          string
	extends       string
	implementsT   []string
}

type extractedInterface struct {
	node    Node
	name    string
	extends []string
}

// extractFunctions walks the tree for function_declaration,
// method_definition, method_signature and function_signature nodes, and
// for variable declarators whose value is an arrow or function expression,
// per §4.4's Functions extractor row.
func extractFunctions(root *sitter.Node, content []byte, filePath string) []extractedFunc {
	var out []extractedFunc
	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_declaration":
			if fn, ok := buildFunctionNode(n, content, filePath); ok {
				out = append(out, fn)
			}
		case "variable_declarator":
			nameNode := n.ChildByFieldName("name")
			valueNode := n.ChildByFieldName("value")
			if nameNode == nil || valueNode == nil {
				return
			}
			switch valueNode.Type() {
			case "arrow_function", "function_expression", "function":
				name := nodeText(nameNode, content)
				fn := makeFunctionEntity(n, content, name, filePath)
				out = append(out, fn)
			}
		case "method_definition", "method_signature", "function_signature":
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				return
			}
			name := nodeText(nameNode, content)
			fn := makeFunctionEntity(n, content, name, filePath)
			out = append(out, fn)
		}
	})
	return out
}

func buildFunctionNode(n *sitter.Node, content []byte, filePath string) (extractedFunc, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return extractedFunc{}, false
	}
	name := nodeText(nameNode, content)
	return makeFunctionEntity(n, content, name, filePath), true
}

// makeFunctionEntity builds the Function node spanning n's full range,
// using its caller-supplied name (the declarator name for arrow/function
// expressions, the declaration name otherwise). Body is n's own source
// slice, per spec.md's "source slice, possibly large" requirement for
// real (non-synthetic) entities.
func makeFunctionEntity(n *sitter.Node, content []byte, name, filePath string) extractedFunc {
	start := int(n.StartPoint().Row)
	end := int(n.EndPoint().Row)
	id := GenerateNodeID(NodeFunction, name, filePath, intPtr(start), intPtr(end))
	return extractedFunc{
		node: Node{
			ID:        id,
			Kind:      NodeFunction,
			Name:      name,
			File:      filePath,
			Body:      nodeText(n, content),
			StartLine: intPtr(start),
			EndLine:   intPtr(end),
		},
		name: name,
	}
}

func extractClasses(root *sitter.Node, content []byte, filePath string) []extractedClass {
	var out []extractedClass
	walk(root, func(n *sitter.Node) {
		if n.Type() != "class_declaration" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		name := nodeText(nameNode, content)
		start := int(n.StartPoint().Row)
		end := int(n.EndPoint().Row)
		id := GenerateNodeID(NodeClass, name, filePath, intPtr(start), intPtr(end))

		extends, impls := classHeritage(n, content)

		out = append(out, extractedClass{
			node: Node{
				ID:        id,
				Kind:      NodeClass,
				Name:      name,
				File:      filePath,
				Body:      nodeText(n, content),
				StartLine: intPtr(start),
				EndLine:   intPtr(end),
			},
			name:        name,
			extends:     extends,
			implementsT: impls,
		})
	})
	return out
}

// classHeritage reads the class_heritage child, if present, splitting its
// extends_clause (single supertype) and implements_clause (zero or more
// interface names) into plain identifier strings.
func classHeritage(n *sitter.Node, content []byte) (extends string, implementsT []string) {
	heritage := firstChildOfType(n, "class_heritage")
	if heritage == nil {
		return "", nil
	}
	for i := 0; i < int(heritage.ChildCount()); i++ {
		child := heritage.Child(i)
		switch child.Type() {
		case "extends_clause":
			valueNode := child.ChildByFieldName("value")
			if valueNode == nil {
				valueNode = firstNamedChild(child)
			}
			if valueNode != nil {
				extends = nodeText(valueNode, content)
			}
		case "implements_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				t := child.Child(j)
				if t.Type() == "type_identifier" || t.Type() == "generic_type" {
					implementsT = append(implementsT, nodeText(t, content))
				}
			}
		}
	}
	return extends, implementsT
}

func extractInterfaces(root *sitter.Node, content []byte, filePath string) []extractedInterface {
	var out []extractedInterface
	walk(root, func(n *sitter.Node) {
		if n.Type() != "interface_declaration" {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		name := nodeText(nameNode, content)
		start := int(n.StartPoint().Row)
		end := int(n.EndPoint().Row)
		id := GenerateNodeID(NodeInterface, name, filePath, intPtr(start), intPtr(end))

		var extends []string
		if ext := firstChildOfType(n, "extends_type_clause"); ext != nil {
			for i := 0; i < int(ext.ChildCount()); i++ {
				t := ext.Child(i)
				if t.Type() == "type_identifier" || t.Type() == "generic_type" {
					extends = append(extends, nodeText(t, content))
				}
			}
		}

		out = append(out, extractedInterface{
			node: Node{
				ID:        id,
				Kind:      NodeInterface,
				Name:      name,
				File:      filePath,
				Body:      nodeText(n, content),
				StartLine: intPtr(start),
				EndLine:   intPtr(end),
			},
			name:    name,
			extends: extends,
		})
	})
	return out
}

// extractHeritage turns class extends/implements and interface extends
// into Implements edges, unifying both relationships under one edge kind
// per §4.4's Extends/Implements row.
func extractHeritage(classes []extractedClass, interfaces []extractedInterface) []Edge {
	byName := make(map[string]string, len(classes)+len(interfaces))
	for _, c := range classes {
		byName[c.name] = c.node.ID
	}
	for _, i := range interfaces {
		byName[i.name] = i.node.ID
	}

	var edges []Edge
	for _, c := range classes {
		if c.extends != "" {
			if toID, ok := byName[c.extends]; ok {
				edges = append(edges, Edge{FromID: c.node.ID, ToID: toID, Kind: EdgeImplements})
			}
		}
		for _, impl := range c.implementsT {
			if toID, ok := byName[impl]; ok {
				edges = append(edges, Edge{FromID: c.node.ID, ToID: toID, Kind: EdgeImplements})
			}
		}
	}
	for _, i := range interfaces {
		for _, ext := range i.extends {
			if toID, ok := byName[ext]; ok {
				edges = append(edges, Edge{FromID: i.node.ID, ToID: toID, Kind: EdgeImplements})
			}
		}
	}
	return edges
}

// extractCalls walks call_expression nodes with an identifier or
// member-expression callee, binding each to its containing local function
// and, when the callee name matches a local function, emitting a Calls
// edge; otherwise the call site is returned as unresolved for cross-file
// resolution (§4.4, §4.6 step 9).
func extractCalls(root *sitter.Node, content []byte, filePath string, containing *rangeIndex, localFuncs map[string]string) ([]Edge, []UnresolvedCall) {
	var edges []Edge
	var unresolved []UnresolvedCall

	walk(root, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fnNode := n.ChildByFieldName("function")
		if fnNode == nil {
			return
		}
		calleeName := calleeIdentifier(fnNode, content)
		if calleeName == "" {
			return
		}
		caller, ok := containing.containingFunction(int(n.StartPoint().Row))
		if !ok {
			return
		}
		if calleeID, ok := localFuncs[calleeName]; ok {
			edges = append(edges, Edge{FromID: caller.id, ToID: calleeID, Kind: EdgeCalls})
			return
		}
		unresolved = append(unresolved, UnresolvedCall{CallerID: caller.id, CalleeName: calleeName, File: filePath})
	})

	return edges, unresolved
}

// extractConstructorCalls walks new_expression nodes, binding each to its
// containing function and the locally declared class of the same name.
func extractConstructorCalls(root *sitter.Node, content []byte, filePath string, containing *rangeIndex, localClasses map[string]string) []Edge {
	var edges []Edge
	walk(root, func(n *sitter.Node) {
		if n.Type() != "new_expression" {
			return
		}
		ctorNode := n.ChildByFieldName("constructor")
		if ctorNode == nil {
			return
		}
		name := calleeIdentifier(ctorNode, content)
		if name == "" {
			return
		}
		classID, ok := localClasses[name]
		if !ok {
			return
		}
		caller, ok := containing.containingFunction(int(n.StartPoint().Row))
		if !ok {
			return
		}
		edges = append(edges, Edge{FromID: caller.id, ToID: classID, Kind: EdgeCalls})
	})
	return edges
}

// calleeIdentifier extracts the simple name off an identifier or a member
// expression's property (the method name in `obj.method()`).
func calleeIdentifier(n *sitter.Node, content []byte) string {
	switch n.Type() {
	case "identifier":
		return nodeText(n, content)
	case "member_expression":
		prop := n.ChildByFieldName("property")
		if prop == nil {
			return ""
		}
		return nodeText(prop, content)
	default:
		return ""
	}
}

// extractImports counts import_statement nodes with a string-literal
// source and returns the resolved relative targets among them.
func extractImports(root *sitter.Node, content []byte, filePath string) (int, []ImportTarget) {
	count := 0
	var targets []ImportTarget

	exists := func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	}

	walk(root, func(n *sitter.Node) {
		if n.Type() != "import_statement" {
			return
		}
		sourceNode := n.ChildByFieldName("source")
		if sourceNode == nil {
			sourceNode = firstChildOfType(n, "string")
		}
		if sourceNode == nil {
			return
		}
		count++
		specifier := strings.Trim(nodeText(sourceNode, content), "\"'")
		if resolved := resolveRelativeImport(filePath, specifier, exists); resolved != "" {
			targets = append(targets, ImportTarget{FromFile: filePath, ToFile: resolved})
		}
	})

	return count, targets
}

// walk visits every node in the tree in pre-order, including n itself.
func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func firstChildOfType(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == kind {
			return c
		}
	}
	return nil
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		return n.NamedChild(i)
	}
	return nil
}

func nodeText(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
