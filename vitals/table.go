/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"sort"
	"strings"
)

// DateColumn is the table column key for the entry date. Metric columns use
// the metric key.
const DateColumn = "dateAdded"

// TableCell is one metric cell of a table row.
type TableCell struct {
	Value   *float64 `json:"value"`
	Raw     string   `json:"raw"`
	Unit    string   `json:"unit"`
	Display string   `json:"display"`
	Status  Status   `json:"status"`
}

// TableRow is one entry as shown in a vitals table.
type TableRow struct {
	OriginalIndex int       `json:"originalIndex"`
	Timestamp     Instant   `json:"timestamp"`
	DateLabel     string    `json:"dateLabel"`
	Systolic      TableCell `json:"systolic"`
	Diastolic     TableCell `json:"diastolic"`
	Pulse         TableCell `json:"pulse"`
	BloodSugar    TableCell `json:"bloodSugar"`
}

// Cell returns the cell for m.
func (r TableRow) Cell(m Metric) TableCell {
	switch m {
	case Systolic:
		return r.Systolic
	case Diastolic:
		return r.Diastolic
	case Pulse:
		return r.Pulse
	case BloodSugar:
		return r.BloodSugar
	default:
		return TableCell{Display: Placeholder, Status: NoReading}
	}
}

func newTableCell(m Metric, reading Reading) TableCell {
	cell := TableCell{
		Raw:     reading.Value,
		Unit:    reading.Unit,
		Display: FormatReading(reading),
		Status:  Classify(m, reading),
	}

	if value, ok := reading.Number(); ok {
		cell.Value = &value
	}

	if cell.Display == "" {
		cell.Display = Placeholder
	}

	return cell
}

// TableRows projects records into table rows, keeping their order.
func TableRows(records []Record) []TableRow {
	rows := make([]TableRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, TableRow{
			OriginalIndex: record.OriginalIndex,
			Timestamp:     record.Timestamp,
			DateLabel:     FormatDate(record, Placeholder),
			Systolic:      newTableCell(Systolic, record.Systolic),
			Diastolic:     newTableCell(Diastolic, record.Diastolic),
			Pulse:         newTableCell(Pulse, record.Pulse),
			BloodSugar:    newTableCell(BloodSugar, record.BloodSugar),
		})
	}

	return rows
}

// SortTable returns a copy of rows stably sorted by column. Rows without a
// date or value for the column always sort last. Unknown columns leave the
// order unchanged.
func SortTable(rows []TableRow, column string, desc bool) []TableRow {
	sorted := make([]TableRow, len(rows))
	copy(sorted, rows)

	if column == DateColumn {
		dir := Ascending
		if desc {
			dir = Descending
		}

		sort.SliceStable(sorted, func(i, j int) bool {
			return precedes(sorted[i].Timestamp, sorted[j].Timestamp, dir)
		})

		return sorted
	}

	m, ok := ParseMetric(column)
	if !ok {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a := sorted[i].Cell(m).Value
		b := sorted[j].Cell(m).Value

		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case desc:
			return *a > *b
		default:
			return *a < *b
		}
	})

	return sorted
}

// FilterTable keeps rows whose column text contains term, ignoring case.
// An empty term keeps every row.
func FilterTable(rows []TableRow, column, term string) []TableRow {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return rows
	}

	filtered := make([]TableRow, 0, len(rows))
	for _, row := range rows {
		var text string
		if column == DateColumn {
			text = row.DateLabel
		} else if m, ok := ParseMetric(column); ok {
			text = row.Cell(m).Display
		} else {
			continue
		}

		if strings.Contains(strings.ToLower(text), needle) {
			filtered = append(filtered, row)
		}
	}

	return filtered
}
