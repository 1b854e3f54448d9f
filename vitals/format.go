/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"regexp"
	"strings"
)

// Date layouts shared by every projection.
const (
	// ChartDateLayout labels chart points, e.g. "01 May, 2024".
	ChartDateLayout = "02 Jan, 2006"
	// StoredDateLayout is the composed local form written back to storage
	// and shown in tables and exports.
	StoredDateLayout = "2006-01-02 15:04:05"
)

// Placeholder is shown in place of a missing reading or date.
const Placeholder = "-"

var embeddedUnit = regexp.MustCompile(`\d+\s*[a-zA-Z%/]+`)

// FormatReading renders a reading as "<value> <unit>". Values that already
// carry a unit, such as "120 mmHg", are returned as stored. Empty readings
// render as an empty string.
func FormatReading(r Reading) string {
	value := strings.TrimSpace(r.Value)
	if value == "" {
		return ""
	}

	if embeddedUnit.MatchString(value) {
		return value
	}

	if n, ok := r.Number(); ok {
		value = formatNumber(n)
	}

	if r.Unit == "" {
		return value
	}

	return value + " " + r.Unit
}

// FormatDate renders a record's date in the stored layout. Unresolved dates
// fall back to the stored text, then to placeholder.
func FormatDate(r Record, placeholder string) string {
	if r.Timestamp.Resolved() {
		return r.Timestamp.Time().Format(StoredDateLayout)
	}

	if r.DateText != "" {
		return r.DateText
	}

	return placeholder
}
