/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

// Status is the clinical classification of one reading.
type Status string

// Reading statuses.
const (
	BelowRange  Status = "BelowRange"
	AboveRange  Status = "AboveRange"
	NormalRange Status = "NormalRange"
	NoReading   Status = "NoReading"
)

// Label returns the text shown next to a reading.
func (s Status) Label() string {
	switch s {
	case BelowRange:
		return "Lower than Average ▼"
	case AboveRange:
		return "Higher than Average ▲"
	case NormalRange:
		return "Normal Range"
	default:
		return "No reading"
	}
}

// Band is the inclusive normal range of one metric.
type Band struct {
	Metric Metric
	Min    float64
	Max    float64
}

// referenceBands is the only place normal ranges are defined.
var referenceBands = [...]Band{
	{Metric: Systolic, Min: 80, Max: 120},
	{Metric: Diastolic, Min: 60, Max: 80},
	{Metric: Pulse, Min: 60, Max: 90},
	{Metric: BloodSugar, Min: 70, Max: 100},
}

// ReferenceBands returns a copy of the normal range table.
func ReferenceBands() []Band {
	bands := make([]Band, len(referenceBands))
	copy(bands, referenceBands[:])

	return bands
}

// BandFor returns the normal range of m.
func BandFor(m Metric) (Band, bool) {
	for _, band := range referenceBands {
		if band.Metric == m {
			return band, true
		}
	}

	return Band{}, false
}

// Classify labels a reading of metric m against its normal range. Empty or
// non-numeric readings, and metrics without a band, are NoReading.
func Classify(m Metric, r Reading) Status {
	if r.Empty() {
		return NoReading
	}

	value, ok := r.Number()
	if !ok {
		return NoReading
	}

	return ClassifyValue(m, value)
}

// ClassifyValue labels a numeric value of metric m.
func ClassifyValue(m Metric, value float64) Status {
	band, ok := BandFor(m)
	if !ok {
		return NoReading
	}

	switch {
	case value < band.Min:
		return BelowRange
	case value > band.Max:
		return AboveRange
	default:
		return NormalRange
	}
}
