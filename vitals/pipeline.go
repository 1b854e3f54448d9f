/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "time"

// Pipeline normalizes, orders and windows one patient's entries. Now is the
// reference instant for relative ranges and must be set by the caller; the
// pipeline never reads the clock.
type Pipeline struct {
	Normalizer *Normalizer
	Range      Range
	Now        time.Time
}

// Stats counts what happened to entries on the way through the pipeline.
type Stats struct {
	Total      int `json:"total"`
	Unresolved int `json:"unresolved"`
	Excluded   int `json:"excluded"`
}

// Result holds the windowed records and the projections built from them.
type Result struct {
	// Records are the windowed records, oldest first, unresolved last.
	Records []Record
	Stats   Stats
}

// Run builds a Result from raw entries. It does not modify entries.
func (p Pipeline) Run(entries []RawEntry) Result {
	normalizer := p.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}

	records := normalizer.NormalizeEntries(entries)
	_, unresolved := SplitUnresolved(records)
	windowed := Filter(Sort(records, Ascending), p.Range, p.Now)

	return Result{
		Records: windowed,
		Stats: Stats{
			Total:      len(records),
			Unresolved: len(unresolved),
			Excluded:   len(records) - len(windowed),
		},
	}
}

// Chart projects the windowed records onto the timeline.
func (r Result) Chart(selected int) Chart {
	return BuildChart(r.Records, selected)
}

// Table projects the windowed records into rows, newest first.
func (r Result) Table() []TableRow {
	return TableRows(Sort(r.Records, Descending))
}

// Export flattens the windowed records for patient.
func (r Result) Export(patient PatientInfo) []ExportRow {
	return ExportRowsFor(PatientRecords{Patient: patient, Records: r.Records})
}

// Find returns the record stored at originalIndex, if it survived the window.
func (r Result) Find(originalIndex int) (Record, bool) {
	for _, record := range r.Records {
		if record.OriginalIndex == originalIndex {
			return record, true
		}
	}

	return Record{}, false
}
