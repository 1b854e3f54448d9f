/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "sort"

// Direction selects chronological order.
type Direction int

// Sort directions.
const (
	// Ascending orders oldest first, as chart timelines need.
	Ascending Direction = iota
	// Descending orders most recent first, as tables and lists need.
	Descending
)

// Sort returns a copy of records stably ordered by timestamp. Records with
// equal timestamps keep their input order. Unresolved timestamps sort last
// in both directions.
func Sort(records []Record, dir Direction) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return precedes(sorted[i].Timestamp, sorted[j].Timestamp, dir)
	})

	return sorted
}

func precedes(a, b Instant, dir Direction) bool {
	switch {
	case !a.resolved:
		return false
	case !b.resolved:
		return true
	case dir == Descending:
		return a.t.After(b.t)
	default:
		return a.t.Before(b.t)
	}
}

// SplitUnresolved separates records that can be placed on a timeline from
// those whose date could not be read. Both keep their input order.
func SplitUnresolved(records []Record) (resolved, unresolved []Record) {
	for _, r := range records {
		if r.Timestamp.resolved {
			resolved = append(resolved, r)
		} else {
			unresolved = append(unresolved, r)
		}
	}

	return resolved, unresolved
}
