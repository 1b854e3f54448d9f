// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/humaidq/pulseboard/vitals"
)

func TestObservePipeline(t *testing.T) {
	t.Parallel()

	r := NewRecorder(prometheus.NewRegistry())
	r.ObservePipeline("7d", vitals.Stats{Total: 5, Unresolved: 1, Excluded: 3}, 2*time.Millisecond)
	r.ObservePipeline("7d", vitals.Stats{Total: 2, Excluded: 1}, time.Millisecond)

	if got := testutil.ToFloat64(r.recordsNormalized); got != 7 {
		t.Fatalf("expected 7 normalized records, got %v", got)
	}

	if got := testutil.ToFloat64(r.unresolvedDates); got != 1 {
		t.Fatalf("expected 1 unresolved date, got %v", got)
	}

	if got := testutil.ToFloat64(r.recordsExcluded.WithLabelValues("7d")); got != 4 {
		t.Fatalf("expected 4 excluded records, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	t.Parallel()

	r := NewRecorder(prometheus.NewRegistry())
	r.ObserveExport("single", 12)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `pulseboard_export_workbooks_total{layout="single"} 1`) {
		t.Fatalf("expected export counter in output, got %q", body)
	}

	if !strings.Contains(body, "pulseboard_export_rows_total 12") {
		t.Fatalf("expected row counter in output, got %q", body)
	}
}
