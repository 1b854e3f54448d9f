// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package vitals

import "testing"

func TestClassifySystolicBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  Status
	}{
		{value: "120", want: NormalRange},
		{value: "80", want: NormalRange},
		{value: "121", want: AboveRange},
		{value: "79", want: BelowRange},
		{value: "120 mmHg", want: NormalRange},
		{value: "", want: NoReading},
		{value: "n/a", want: NoReading},
	}

	for _, tc := range tests {
		if got := Classify(Systolic, Reading{Value: tc.value}); got != tc.want {
			t.Fatalf("%q: expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestClassifyEveryBand(t *testing.T) {
	t.Parallel()

	for _, band := range ReferenceBands() {
		if got := ClassifyValue(band.Metric, band.Min); got != NormalRange {
			t.Fatalf("%s: expected min to be normal, got %s", band.Metric, got)
		}

		if got := ClassifyValue(band.Metric, band.Max+0.5); got != AboveRange {
			t.Fatalf("%s: expected above range, got %s", band.Metric, got)
		}

		if got := ClassifyValue(band.Metric, band.Min-0.5); got != BelowRange {
			t.Fatalf("%s: expected below range, got %s", band.Metric, got)
		}
	}
}

func TestClassifyUnknownMetric(t *testing.T) {
	t.Parallel()

	if got := Classify(Metric("temperature"), Reading{Value: "37"}); got != NoReading {
		t.Fatalf("expected NoReading, got %s", got)
	}
}

func TestReferenceBandsReturnsCopy(t *testing.T) {
	t.Parallel()

	bands := ReferenceBands()
	bands[0].Max = 1000

	band, ok := BandFor(Systolic)
	if !ok || band.Max != 120 {
		t.Fatalf("expected reference table to be unchanged, got %+v", band)
	}
}

func TestStatusLabels(t *testing.T) {
	t.Parallel()

	labels := map[Status]string{
		BelowRange:  "Lower than Average ▼",
		AboveRange:  "Higher than Average ▲",
		NormalRange: "Normal Range",
		NoReading:   "No reading",
	}

	for status, want := range labels {
		if got := status.Label(); got != want {
			t.Fatalf("%s: expected %q, got %q", status, want, got)
		}
	}
}
