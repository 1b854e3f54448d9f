/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EntryInput is one vitals entry as submitted from a form. Date is
// "YYYY-MM-DD"; readings may be blank. Empty units take the metric default.
type EntryInput struct {
	Date       string
	Systolic   string
	Diastolic  string
	Pulse      string
	BloodSugar string
	Units      map[Metric]string
}

func (in EntryInput) value(m Metric) string {
	switch m {
	case Systolic:
		return in.Systolic
	case Diastolic:
		return in.Diastolic
	case Pulse:
		return in.Pulse
	case BloodSugar:
		return in.BloodSugar
	default:
		return ""
	}
}

func (in EntryInput) unit(m Metric) string {
	if unit := strings.TrimSpace(in.Units[m]); unit != "" {
		return unit
	}

	return m.DefaultUnit()
}

// InputFor fills a form from an existing record so it can be edited.
func InputFor(r Record) EntryInput {
	in := EntryInput{
		Systolic:   r.Systolic.Value,
		Diastolic:  r.Diastolic.Value,
		Pulse:      r.Pulse.Value,
		BloodSugar: r.BloodSugar.Value,
		Units:      make(map[Metric]string, len(Metrics)),
	}

	if r.Timestamp.Resolved() {
		in.Date = r.Timestamp.Time().Format("2006-01-02")
	}

	for _, m := range Metrics {
		in.Units[m] = r.Reading(m).Unit
	}

	return in
}

// ComposeDateAdded combines the chosen calendar date with the time of day of
// submitted, both read in loc, into the stored "YYYY-MM-DD HH:mm:ss" form.
func ComposeDateAdded(date string, submitted time.Time, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}

	date = strings.TrimSpace(date)
	if date == "" {
		return "", ErrMissingDate
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	clock := submitted.In(loc)
	composed := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc)

	return composed.Format(StoredDateLayout), nil
}

// NewEntry validates a submitted form and builds the raw entry to persist.
// Every reading must be blank or numeric.
func NewEntry(in EntryInput, submitted time.Time, loc *time.Location) (RawEntry, error) {
	dateAdded, err := ComposeDateAdded(in.Date, submitted, loc)
	if err != nil {
		return nil, err
	}

	entry := RawEntry{}
	if err := entry.setDate(dateAdded); err != nil {
		return nil, err
	}

	for _, m := range Metrics {
		reading := Reading{Value: strings.TrimSpace(in.value(m)), Unit: in.unit(m)}
		if err := entry.setChecked(m, reading); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// EditEntry applies an edited form to an existing record. The stored time of
// day is kept, or midnight when the stored date never resolved. Units the
// form leaves blank keep the stored unit. Readings the form leaves as stored
// are written back unchanged, even when they are not numeric.
func EditEntry(in EntryInput, original Record, loc *time.Location) (RawEntry, error) {
	if loc == nil {
		loc = time.Local
	}

	clock := time.Date(1, time.January, 1, 0, 0, 0, 0, loc)
	if original.Timestamp.Resolved() {
		clock = original.Timestamp.Time()
	}

	dateAdded, err := ComposeDateAdded(in.Date, clock, loc)
	if err != nil {
		return nil, err
	}

	entry, err := original.Serialize()
	if err != nil {
		return nil, err
	}

	if err := entry.setDate(dateAdded); err != nil {
		return nil, err
	}

	for _, m := range Metrics {
		stored := original.Reading(m)

		reading := Reading{Value: strings.TrimSpace(in.value(m)), Unit: strings.TrimSpace(in.Units[m])}
		if reading.Unit == "" {
			reading.Unit = stored.Unit
		}

		if reading.Unit == "" {
			reading.Unit = m.DefaultUnit()
		}

		if reading == stored {
			continue
		}

		if err := entry.setChecked(m, reading); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// Serialize renders a record back into the composite storage shape. The
// date keeps the stored text when it never resolved.
func (r Record) Serialize() (RawEntry, error) {
	entry := RawEntry{}

	if date := FormatDate(r, ""); date != "" {
		if err := entry.setDate(date); err != nil {
			return nil, err
		}
	} else {
		entry[DateKey] = json.RawMessage("null")
	}

	for _, m := range Metrics {
		if err := entry.setReading(m, r.Reading(m)); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

func (e RawEntry) setDate(date string) error {
	raw, err := json.Marshal(date)
	if err != nil {
		return err
	}

	e[DateKey] = raw

	return nil
}

func (e RawEntry) setChecked(m Metric, reading Reading) error {
	if !reading.Empty() {
		if _, ok := reading.Number(); !ok {
			return fmt.Errorf("%w: %s %q", ErrInvalidReading, m, reading.Value)
		}
	}

	return e.setReading(m, reading)
}

// setReading writes {value, unit}. Numeric text is stored as a JSON number,
// other text verbatim, and blank values as null.
func (e RawEntry) setReading(m Metric, reading Reading) error {
	var value any

	text := strings.TrimSpace(reading.Value)
	if text != "" {
		value = text
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			value = n
		}
	}

	raw, err := json.Marshal(struct {
		Value any    `json:"value"`
		Unit  string `json:"unit"`
	}{Value: value, Unit: reading.Unit})
	if err != nil {
		return err
	}

	e[string(m)] = raw

	return nil
}

// ReplaceAt returns a copy of entries with the entry at originalIndex
// replaced. The index is the record's position in the stored array, not its
// position in any sorted or filtered view.
func ReplaceAt(entries []RawEntry, originalIndex int, entry RawEntry) ([]RawEntry, error) {
	if originalIndex < 0 || originalIndex >= len(entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, originalIndex, len(entries))
	}

	replaced := make([]RawEntry, len(entries))
	copy(replaced, entries)
	replaced[originalIndex] = entry

	return replaced, nil
}
