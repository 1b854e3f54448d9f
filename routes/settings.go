/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"time"

	"github.com/humaidq/pulseboard/metrics"
	"github.com/humaidq/pulseboard/vitals"
)

// Settings carries runtime configuration into handlers. It is mapped into
// the injector once at startup.
type Settings struct {
	// Location reads wall-clock dates and composes submitted ones.
	Location *time.Location
	// Passwords maps an access tier to the password that unlocks it.
	Passwords map[int]string
	Metrics   *metrics.Recorder
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (s *Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func (s *Settings) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}

	return s.Location
}

// Normalizer reads dates in Location.
func (s *Settings) Normalizer() *vitals.Normalizer {
	return vitals.NewNormalizer(s.location())
}

func (s *Settings) recorder() *metrics.Recorder {
	if s.Metrics == nil {
		return metrics.Default()
	}

	return s.Metrics
}

// pipeline runs entries through the vitals pipeline for r and records the
// run.
func (s *Settings) pipeline(entries []vitals.RawEntry, r vitals.Range) vitals.Result {
	start := time.Now()

	result := vitals.Pipeline{
		Normalizer: s.Normalizer(),
		Range:      r,
		Now:        s.now(),
	}.Run(entries)

	s.recorder().ObservePipeline(r.String(), result.Stats, time.Since(start))

	return result
}
