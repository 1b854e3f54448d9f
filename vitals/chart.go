/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "encoding/json"

// ChartPoint is one reading on the vitals timeline.
type ChartPoint struct {
	Label  string
	Record Record
}

// MarshalJSON encodes the point as its label and the numeric value of each
// metric, null where there is none.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label         string   `json:"label"`
		OriginalIndex int      `json:"originalIndex"`
		Systolic      *float64 `json:"systolic"`
		Diastolic     *float64 `json:"diastolic"`
		Pulse         *float64 `json:"pulse"`
		BloodSugar    *float64 `json:"bloodSugar"`
	}{
		Label:         p.Label,
		OriginalIndex: p.Record.OriginalIndex,
		Systolic:      p.Value(Systolic),
		Diastolic:     p.Value(Diastolic),
		Pulse:         p.Value(Pulse),
		BloodSugar:    p.Value(BloodSugar),
	})
}

// Value returns the numeric reading of m, or nil when there is none.
func (p ChartPoint) Value(m Metric) *float64 {
	value, ok := p.Record.Reading(m).Number()
	if !ok {
		return nil
	}

	return &value
}

// Cell returns the formatted reading of m, or Placeholder.
func (p ChartPoint) Cell(m Metric) string {
	if cell := FormatReading(p.Record.Reading(m)); cell != "" {
		return cell
	}

	return Placeholder
}

// Status classifies the reading of m.
func (p ChartPoint) Status(m Metric) Status {
	return Classify(m, p.Record.Reading(m))
}

// Chart is the timeline projection plus the snapshot shown beside it.
type Chart struct {
	Points []ChartPoint `json:"points"`
	// Current is the selected point, or the latest one. Nil when empty.
	Current *ChartPoint `json:"current,omitempty"`
	// Selected is true when Current was chosen by the caller.
	Selected bool `json:"selected"`
}

// NoSelection asks BuildChart for the latest point as the snapshot.
const NoSelection = -1

// BuildChart lays records out oldest first, dropping those without a
// resolved date. selected picks the snapshot point by position; any index
// outside the points falls back to the latest point.
func BuildChart(records []Record, selected int) Chart {
	resolved, _ := SplitUnresolved(records)
	sorted := Sort(resolved, Ascending)

	chart := Chart{Points: make([]ChartPoint, 0, len(sorted))}
	for _, record := range sorted {
		chart.Points = append(chart.Points, ChartPoint{
			Label:  record.Timestamp.Time().Format(ChartDateLayout),
			Record: record,
		})
	}

	if len(chart.Points) == 0 {
		return chart
	}

	if selected >= 0 && selected < len(chart.Points) {
		chart.Current = &chart.Points[selected]
		chart.Selected = true
	} else {
		chart.Current = &chart.Points[len(chart.Points)-1]
	}

	return chart
}

// Labels returns the x-axis labels.
func (c Chart) Labels() []string {
	labels := make([]string, len(c.Points))
	for i, p := range c.Points {
		labels[i] = p.Label
	}

	return labels
}

// Series returns the values of m in point order; missing readings are nil.
func (c Chart) Series(m Metric) []*float64 {
	series := make([]*float64, len(c.Points))
	for i, p := range c.Points {
		series[i] = p.Value(m)
	}

	return series
}
