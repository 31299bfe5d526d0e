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

// Package main implements the graphdb CLI: a tree-sitter-backed code graph
// builder for TypeScript repositories.
//
// Usage:
//
//	graphdb init                        Create .graphdb.yml configuration
//	graphdb ingest [options]            Build or refresh the graph
//	graphdb status [--json]             Show graph statistics
//	graphdb query <cypher> [--json]     Run a Cypher query
//	graphdb find symbol <pattern>       Search nodes by name
//	graphdb find callers <symbol>       List callers of a symbol
//	graphdb reset --yes                 Clear all graph data
//	graphdb hook install|remove         Manage the git post-commit hook
package main

import (
	"fmt"
	"os"

	"github.com/codegraph/ingest/internal/errors"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `graphdb - TypeScript code graph CLI

Usage:
  graphdb <command> [options]

Commands:
  init          Create .graphdb.yml configuration
  ingest        Parse the project and build or refresh the graph
  status        Show graph statistics
  query         Run a Cypher query against the graph
  find          Search symbols or find callers
  reset         Clear all graph data (destructive!)
  hook          Install or remove the git post-commit hook

Run 'graphdb <command> --help' for command-specific options.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if os.Args[1] == "--version" || os.Args[1] == "-v" {
		fmt.Printf("graphdb version %s (commit %s, built %s)\n", version, commit, date)
		return
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = runInit(args)
	case "ingest":
		err = runIngest(args)
	case "status":
		err = runStatus(args)
	case "query":
		err = runQuery(args)
	case "find":
		err = runFind(args)
	case "reset":
		err = runReset(args)
	case "hook":
		err = runHook(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		errors.FatalError(err, false)
	}
}
