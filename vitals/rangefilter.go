/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RangeKind distinguishes how a Range selects records.
type RangeKind int

// Range kinds.
const (
	// RangeAll keeps every record.
	RangeAll RangeKind = iota
	// RangeRecent keeps records at or after now minus the window.
	RangeRecent
	// RangeOlderThan keeps records strictly before now minus the window.
	RangeOlderThan
	// RangeAbsolute keeps records between From and To, both inclusive.
	RangeAbsolute
)

// Range is a named or absolute time window. Relative windows are measured
// back from a caller supplied now.
type Range struct {
	Kind   RangeKind
	Days   int
	Months int
	From   time.Time
	To     time.Time
}

// All is the identity range.
var All = Range{Kind: RangeAll}

// LastDays keeps the trailing n days.
func LastDays(n int) Range {
	return Range{Kind: RangeRecent, Days: n}
}

// LastMonths keeps the trailing n calendar months.
func LastMonths(n int) Range {
	return Range{Kind: RangeRecent, Months: n}
}

// OlderThanDays keeps records dated more than n days before now.
func OlderThanDays(n int) Range {
	return Range{Kind: RangeOlderThan, Days: n}
}

// Between keeps records from from to to, both inclusive.
func Between(from, to time.Time) Range {
	return Range{Kind: RangeAbsolute, From: from, To: to}
}

// RangePreset is a selectable range option.
type RangePreset struct {
	Value string
	Label string
}

// DefaultRange is used when no range is selected.
const DefaultRange = "all"

// ChartRangePresets are the windows offered next to the vitals chart.
var ChartRangePresets = []RangePreset{
	{Value: "7d", Label: "Last 7 Days"},
	{Value: "30d", Label: "Last 30 Days"},
	{Value: "6m", Label: "Last 6 Months"},
	{Value: "12m", Label: "Last 12 Months"},
	{Value: "all", Label: "All Data"},
}

// ExportRangePresets are the windows offered for bulk export.
var ExportRangePresets = []RangePreset{
	{Value: "7d", Label: "Last 7 Days"},
	{Value: "30d", Label: "Last 30 Days"},
	{Value: "90d", Label: "Last 90 Days"},
	{Value: "120d", Label: "Last 120 Days"},
	{Value: "over120d", Label: "Over 120 Days"},
	{Value: "all", Label: "All Data"},
}

var relativeRangePattern = regexp.MustCompile(`^(over)?(\d+)([dm]?)$`)

// ParseRange reads a range token: "all", "<n>d", "<n>m", "over<n>d",
// "over<n>m", or an absolute "<from>..<to>". A bare number counts days.
// Absolute bounds are read with the normalizer; a date-only upper bound
// covers that whole day.
func (n *Normalizer) ParseRange(token string) (Range, error) {
	trimmed := strings.TrimSpace(token)
	if from, to, ok := strings.Cut(trimmed, ".."); ok {
		return n.parseAbsoluteRange(token, from, to)
	}

	normalized := strings.ToLower(trimmed)
	if normalized == "" || normalized == DefaultRange {
		return All, nil
	}

	match := relativeRangePattern.FindStringSubmatch(normalized)
	if match == nil {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownRange, token)
	}

	count, err := strconv.Atoi(match[2])
	if err != nil || count <= 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownRange, token)
	}

	r := Range{Kind: RangeRecent}
	if match[1] == "over" {
		r.Kind = RangeOlderThan
	}

	if match[3] == "m" {
		r.Months = count
	} else {
		r.Days = count
	}

	return r, nil
}

func (n *Normalizer) parseAbsoluteRange(token, rawFrom, rawTo string) (Range, error) {
	rawFrom = strings.TrimSpace(rawFrom)
	rawTo = strings.TrimSpace(rawTo)

	from := n.ParseDate(rawFrom)
	to := n.ParseDate(rawTo)
	if !from.Resolved() || !to.Resolved() {
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownRange, token)
	}

	end := to.Time()
	if isoDatePattern.MatchString(rawTo) || dayFirstDatePattern.MatchString(rawTo) {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if end.Before(from.Time()) {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRangeBounds, token)
	}

	return Between(from.Time(), end), nil
}

// Windowed reports whether the range restricts records by date.
func (r Range) Windowed() bool {
	return r.Kind != RangeAll
}

// Cutoff returns now minus the range's window.
func (r Range) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, -r.Months, -r.Days)
}

// Contains reports whether ts falls inside the range. Unresolved timestamps
// are only kept by All.
func (r Range) Contains(ts Instant, now time.Time) bool {
	if r.Kind == RangeAll {
		return true
	}

	if !ts.Resolved() {
		return false
	}

	t := ts.Time()

	switch r.Kind {
	case RangeRecent:
		return !t.Before(r.Cutoff(now))
	case RangeOlderThan:
		return t.Before(r.Cutoff(now))
	case RangeAbsolute:
		return !t.Before(r.From) && !t.After(r.To)
	default:
		return false
	}
}

// String returns the token that parses back to r.
func (r Range) String() string {
	switch r.Kind {
	case RangeRecent:
		return r.windowToken()
	case RangeOlderThan:
		return "over" + r.windowToken()
	case RangeAbsolute:
		return r.From.Format(time.RFC3339Nano) + ".." + r.To.Format(time.RFC3339Nano)
	default:
		return DefaultRange
	}
}

func (r Range) windowToken() string {
	if r.Months > 0 {
		return strconv.Itoa(r.Months) + "m"
	}

	return strconv.Itoa(r.Days) + "d"
}

// Label returns a human readable description of the range.
func (r Range) Label() string {
	token := r.String()
	for _, presets := range [][]RangePreset{ChartRangePresets, ExportRangePresets} {
		for _, preset := range presets {
			if preset.Value == token {
				return preset.Label
			}
		}
	}

	switch r.Kind {
	case RangeAbsolute:
		return r.From.Format("02 Jan 2006") + " to " + r.To.Format("02 Jan 2006")
	case RangeOlderThan:
		return "Older than " + r.windowToken()
	default:
		return "Last " + r.windowToken()
	}
}

// Filter returns the records inside r relative to now, in input order.
func Filter(records []Record, r Range, now time.Time) []Record {
	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if r.Contains(record.Timestamp, now) {
			filtered = append(filtered, record)
		}
	}

	return filtered
}
