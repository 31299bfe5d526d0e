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

package main

import (
	"errors"
	"fmt"

	internalerrors "github.com/codegraph/ingest/internal/errors"
	"github.com/codegraph/ingest/pkg/ingestion"
)

// translateIngestError maps the error taxonomy Ingest can return
// (StoreError, IoError, VcsError, ParseError, UnknownKindError — see
// pkg/ingestion/errors.go and model.go) onto the UserError exit-code
// categories, each with a fix tailored to that failure's actual cause
// rather than a single generic "ingestion failed" message. action names
// the command the caller was running, e.g. "ingest" or "status".
func translateIngestError(action string, err error) error {
	if err == nil {
		return nil
	}

	var storeErr *ingestion.StoreError
	if errors.As(err, &storeErr) {
		return internalerrors.NewDatabaseError(
			fmt.Sprintf("Graph store operation failed during %s (%s)", action, storeErr.Op),
			storeErr.Error(),
			"Check that no other graphdb process holds the store, or run: graphdb reset --yes",
			err,
		)
	}

	var ioErr *ingestion.IoError
	if errors.As(err, &ioErr) {
		return internalerrors.NewPermissionError(
			fmt.Sprintf("Cannot read %s", ioErr.Path),
			ioErr.Error(),
			"Check that the path exists and is readable by the current user",
			err,
		)
	}

	var vcsErr *ingestion.VcsError
	if errors.As(err, &vcsErr) {
		return internalerrors.NewInternalError(
			fmt.Sprintf("Git operation failed during %s", action),
			vcsErr.Error(),
			"Run without --incremental for a full rebuild, or check that git is installed and on PATH",
			err,
		)
	}

	var parseErr *ingestion.ParseError
	if errors.As(err, &parseErr) {
		return internalerrors.NewInputError(
			fmt.Sprintf("Cannot parse %s", parseErr.Path),
			parseErr.Error(),
			"Fix the syntax error and re-run graphdb ingest",
		)
	}

	var unkErr *ingestion.UnknownKindError
	if errors.As(err, &unkErr) {
		return internalerrors.NewInternalError(
			fmt.Sprintf("Unrecognized node or edge kind during %s", action),
			unkErr.Error(),
			"This indicates a graphdb/store schema mismatch; run: graphdb reset --yes && graphdb ingest --clean",
			err,
		)
	}

	return internalerrors.NewInternalError(
		fmt.Sprintf("%s failed", action),
		err.Error(),
		"",
		err,
	)
}
