/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package metrics exposes pulseboard's Prometheus metrics on a private
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/humaidq/pulseboard/vitals"
)

const namespace = "pulseboard"

// Recorder holds the vitals pipeline and export metrics.
type Recorder struct {
	registry *prometheus.Registry

	recordsNormalized prometheus.Counter
	unresolvedDates   prometheus.Counter
	recordsExcluded   *prometheus.CounterVec
	pipelineLatency   prometheus.Histogram
	exportsGenerated  *prometheus.CounterVec
	exportRows        prometheus.Counter
}

// NewRecorder registers a fresh set of metrics on registry.
func NewRecorder(registry *prometheus.Registry) *Recorder {
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		recordsNormalized: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vitals",
			Name:      "records_normalized_total",
			Help:      "Vitals entries normalized into canonical records.",
		}),
		unresolvedDates: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vitals",
			Name:      "unresolved_dates_total",
			Help:      "Vitals entries whose date could not be read.",
		}),
		recordsExcluded: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vitals",
			Name:      "records_excluded_total",
			Help:      "Records dropped by a range window.",
		}, []string{"range"}),
		pipelineLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "vitals",
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent normalizing and projecting one patient's vitals.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		exportsGenerated: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "workbooks_total",
			Help:      "Spreadsheet exports generated.",
		}, []string{"layout"}),
		exportRows: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "rows_total",
			Help:      "Rows written to spreadsheet exports.",
		}),
	}
}

var defaultRecorder = NewRecorder(prometheus.NewRegistry())

// Default returns the process-wide recorder.
func Default() *Recorder {
	return defaultRecorder
}

// ObservePipeline records one pipeline run.
func (r *Recorder) ObservePipeline(rangeToken string, stats vitals.Stats, elapsed time.Duration) {
	r.recordsNormalized.Add(float64(stats.Total))
	r.unresolvedDates.Add(float64(stats.Unresolved))
	r.recordsExcluded.WithLabelValues(rangeToken).Add(float64(stats.Excluded))
	r.pipelineLatency.Observe(elapsed.Seconds())
}

// ObserveExport records one generated workbook.
func (r *Recorder) ObserveExport(layout string, rows int) {
	r.exportsGenerated.WithLabelValues(layout).Inc()
	r.exportRows.Add(float64(rows))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObservePipeline records a pipeline run on the default recorder.
func ObservePipeline(rangeToken string, stats vitals.Stats, elapsed time.Duration) {
	defaultRecorder.ObservePipeline(rangeToken, stats, elapsed)
}

// ObserveExport records an export on the default recorder.
func ObserveExport(layout string, rows int) {
	defaultRecorder.ObserveExport(layout, rows)
}

// Handler serves the default recorder.
func Handler() http.Handler {
	return defaultRecorder.Handler()
}
