/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// RawEntry is one stored vitals entry exactly as the document store holds it.
// Metrics may be bare numbers, strings, {value, unit} objects, or carried by
// flat "<metric>Value" / "<metric>Unit" keys.
type RawEntry map[string]json.RawMessage

// DateKey is the document key holding the entry date.
const DateKey = "dateAdded"

// legacyDateKey was used by early entries before dateAdded.
const legacyDateKey = "date"

// DecodeEntries decodes a JSON array of raw entries. Elements that are not
// objects become empty entries so positions stay aligned with the source.
func DecodeEntries(data []byte) ([]RawEntry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	entries := make([]RawEntry, len(items))
	for i, item := range items {
		var entry RawEntry
		if err := json.Unmarshal(item, &entry); err != nil || entry == nil {
			entry = RawEntry{}
		}
		entries[i] = entry
	}

	return entries, nil
}

// Reading is one metric slot of a canonical record. Value holds the stored
// value as text; it is empty when the entry has no reading.
type Reading struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

var numericWithSuffix = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*[A-Za-z%/]*$`)

// Empty reports whether the slot carries no value.
func (r Reading) Empty() bool {
	return strings.TrimSpace(r.Value) == ""
}

// Number returns the numeric reading. Values with a trailing unit such as
// "120 mmHg" are accepted; anything else is not a number.
func (r Reading) Number() (float64, bool) {
	match := numericWithSuffix.FindStringSubmatch(strings.TrimSpace(r.Value))
	if match == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// Record is the canonical form of one vitals entry.
type Record struct {
	Timestamp     Instant `json:"timestamp"`
	OriginalIndex int     `json:"originalIndex"`
	// DateText is the stored date as text, kept for display when the
	// timestamp is unresolved.
	DateText   string  `json:"dateText,omitempty"`
	Systolic   Reading `json:"systolic"`
	Diastolic  Reading `json:"diastolic"`
	Pulse      Reading `json:"pulse"`
	BloodSugar Reading `json:"bloodSugar"`
}

// Reading returns the slot for m.
func (r Record) Reading(m Metric) Reading {
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
		return Reading{}
	}
}

func (r *Record) setReading(m Metric, reading Reading) {
	switch m {
	case Systolic:
		r.Systolic = reading
	case Diastolic:
		r.Diastolic = reading
	case Pulse:
		r.Pulse = reading
	case BloodSugar:
		r.BloodSugar = reading
	}
}

type composite struct {
	Value json.RawMessage `json:"value"`
	Unit  json.RawMessage `json:"unit"`
}

// NormalizeEntry maps one raw entry at position index to a canonical record.
func (n *Normalizer) NormalizeEntry(entry RawEntry, index int) Record {
	dateRaw, ok := entry[DateKey]
	if !ok || isNull(dateRaw) {
		dateRaw = entry[legacyDateKey]
	}

	record := Record{
		Timestamp:     n.NormalizeDate(dateRaw),
		OriginalIndex: index,
		DateText:      dateText(dateRaw),
	}

	for _, m := range Metrics {
		record.setReading(m, readMetric(entry, m))
	}

	return record
}

// NormalizeEntries normalizes entries in source order.
func (n *Normalizer) NormalizeEntries(entries []RawEntry) []Record {
	records := make([]Record, 0, len(entries))
	for i, entry := range entries {
		records = append(records, n.NormalizeEntry(entry, i))
	}

	return records
}

func readMetric(entry RawEntry, m Metric) Reading {
	key := string(m)
	reading := Reading{Unit: m.DefaultUnit()}

	raw, hasRaw := entry[key]
	if hasRaw && isObject(raw) {
		var c composite
		if err := json.Unmarshal(raw, &c); err == nil {
			reading.Value = scalarText(c.Value)
			if unit := scalarText(c.Unit); unit != "" {
				reading.Unit = unit
			}

			return reading
		}
	}

	if flat, ok := entry[key+"Value"]; ok && !isNull(flat) {
		reading.Value = scalarText(flat)
	} else if hasRaw {
		reading.Value = scalarText(raw)
	}

	if unit := scalarText(entry[key+"Unit"]); unit != "" {
		reading.Unit = unit
	}

	return reading
}

// scalarText renders a JSON number or string as text. Numbers are printed
// in their shortest form so 120 and 120.0 read the same.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch {
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}

		return strings.TrimSpace(s)
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		f, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return ""
		}

		return formatNumber(f)
	default:
		return ""
	}
}

func dateText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return ""
	}

	return scalarText(trimmed)
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
