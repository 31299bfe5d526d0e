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
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsIngestion holds the Prometheus metrics for one process. Registered
// lazily so importing this package never requires a running registry.
type metricsIngestion struct {
	once sync.Once

	deltaAdded    prometheus.Counter
	deltaModified prometheus.Counter
	deltaDeleted  prometheus.Counter
	deltaRenamed  prometheus.Counter

	filesProcessed prometheus.Counter
	filesSkipped   prometheus.Counter
	parseErrors    prometheus.Counter

	nodesCreated prometheus.Counter
	edgesCreated prometheus.Counter

	importEdgeErrors prometheus.Counter
	callEdgeErrors   prometheus.Counter
	fileWriteErrors  prometheus.Counter

	deltaDuration prometheus.Histogram
	parseDuration prometheus.Histogram
	writeDuration prometheus.Histogram
	totalDuration prometheus.Histogram
}

var ingMetrics metricsIngestion

func (m *metricsIngestion) init() {
	m.once.Do(func() {
		m.deltaAdded = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_delta_added_total", Help: "Files reported as added by the VCS diff"})
		m.deltaModified = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_delta_modified_total", Help: "Files reported as modified by the VCS diff"})
		m.deltaDeleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_delta_deleted_total", Help: "Files reported as deleted by the VCS diff"})
		m.deltaRenamed = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_delta_renamed_total", Help: "Files reported as renamed by the VCS diff"})

		m.filesProcessed = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_files_processed_total", Help: "Files successfully parsed and persisted"})
		m.filesSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_files_skipped_total", Help: "Files skipped due to read or parse failure"})
		m.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_parse_errors_total", Help: "Parse failures encountered during ingestion"})

		m.nodesCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_nodes_created_total", Help: "Node rows inserted"})
		m.edgesCreated = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_edges_created_total", Help: "Edge rows inserted"})

		m.importEdgeErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_import_edge_errors_total", Help: "Imports edge inserts that failed (non-fatal)"})
		m.callEdgeErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_call_edge_errors_total", Help: "Cross-file Calls edge inserts that failed (non-fatal)"})
		m.fileWriteErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "codegraph_file_write_errors_total", Help: "Per-file persistence failures that set had_errors"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.deltaDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "codegraph_delta_seconds", Help: "Time spent computing the VCS delta", Buckets: buckets})
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "codegraph_parse_seconds", Help: "Time spent in the parallel parse phase", Buckets: buckets})
		m.writeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "codegraph_write_seconds", Help: "Time spent persisting to the store", Buckets: buckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "codegraph_ingest_total_seconds", Help: "Total ingestion duration", Buckets: buckets})

		prometheus.MustRegister(
			m.deltaAdded, m.deltaModified, m.deltaDeleted, m.deltaRenamed,
			m.filesProcessed, m.filesSkipped, m.parseErrors,
			m.nodesCreated, m.edgesCreated,
			m.importEdgeErrors, m.callEdgeErrors, m.fileWriteErrors,
			m.deltaDuration, m.parseDuration, m.writeDuration, m.totalDuration,
		)
	})
}
