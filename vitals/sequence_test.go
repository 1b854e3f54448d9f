// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package vitals

import (
	"testing"
	"time"
)

func recordAt(index int, ts Instant) Record {
	return Record{Timestamp: ts, OriginalIndex: index}
}

func day(year int, month time.Month, d int) Instant {
	return At(time.Date(year, month, d, 0, 0, 0, 0, time.UTC))
}

func indexes(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.OriginalIndex
	}

	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestSortOrdersAndKeepsTies(t *testing.T) {
	t.Parallel()

	records := []Record{
		recordAt(0, day(2024, 3, 1)),
		recordAt(1, Unresolved),
		recordAt(2, day(2024, 1, 1)),
		recordAt(3, day(2024, 3, 1)),
		recordAt(4, Unresolved),
		recordAt(5, day(2024, 2, 1)),
	}

	asc := indexes(Sort(records, Ascending))
	if want := []int{2, 5, 0, 3, 1, 4}; !equalInts(asc, want) {
		t.Fatalf("ascending: expected %v, got %v", want, asc)
	}

	desc := indexes(Sort(records, Descending))
	if want := []int{0, 3, 5, 2, 1, 4}; !equalInts(desc, want) {
		t.Fatalf("descending: expected %v, got %v", want, desc)
	}

	if records[0].OriginalIndex != 0 || records[1].OriginalIndex != 1 {
		t.Fatalf("expected input slice to be left untouched")
	}
}

func TestSplitUnresolved(t *testing.T) {
	t.Parallel()

	resolved, unresolved := SplitUnresolved([]Record{
		recordAt(0, Unresolved),
		recordAt(1, day(2024, 1, 1)),
		recordAt(2, Unresolved),
	})

	if !equalInts(indexes(resolved), []int{1}) {
		t.Fatalf("unexpected resolved %v", indexes(resolved))
	}

	if !equalInts(indexes(unresolved), []int{0, 2}) {
		t.Fatalf("unexpected unresolved %v", indexes(unresolved))
	}
}
