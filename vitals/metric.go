/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vitals turns loosely-typed vital-sign entries into canonical
// records and projects them into chart, table and export shapes.
package vitals

// Metric names one of the four tracked vital signs. The value is also the
// document key the metric is stored under.
type Metric string

// Tracked metrics.
const (
	Systolic   Metric = "systolic"
	Diastolic  Metric = "diastolic"
	Pulse      Metric = "pulse"
	BloodSugar Metric = "bloodSugar"
)

// Metrics lists every tracked metric in display order.
var Metrics = []Metric{Systolic, Diastolic, Pulse, BloodSugar}

// DefaultUnit returns the unit assumed when an entry does not carry one.
func (m Metric) DefaultUnit() string {
	switch m {
	case Systolic, Diastolic:
		return "mmHg"
	case Pulse:
		return "bpm"
	case BloodSugar:
		return "mg/dL"
	default:
		return ""
	}
}

// Label returns the human readable metric name.
func (m Metric) Label() string {
	switch m {
	case Systolic:
		return "Systolic"
	case Diastolic:
		return "Diastolic"
	case Pulse:
		return "Pulse"
	case BloodSugar:
		return "Blood Sugar"
	default:
		return string(m)
	}
}

// ParseMetric resolves a metric from its document key.
func ParseMetric(name string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == name {
			return m, true
		}
	}

	return "", false
}
