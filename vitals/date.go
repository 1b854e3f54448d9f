/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Instant is a resolved point in time, or Unresolved when the stored date
// could not be read. The zero value is Unresolved.
type Instant struct {
	t        time.Time
	resolved bool
}

// Unresolved marks a date that could not be parsed.
var Unresolved = Instant{}

// At wraps a known time.
func At(t time.Time) Instant {
	return Instant{t: t, resolved: true}
}

// Resolved reports whether the instant holds a real time.
func (i Instant) Resolved() bool {
	return i.resolved
}

// Time returns the wrapped time. It is the zero time when unresolved.
func (i Instant) Time() time.Time {
	return i.t
}

// Equal reports whether both instants are resolved to the same time, or both
// are unresolved.
func (i Instant) Equal(o Instant) bool {
	if !i.resolved || !o.resolved {
		return i.resolved == o.resolved
	}

	return i.t.Equal(o.t)
}

// Format formats a resolved instant, returning placeholder when unresolved.
func (i Instant) Format(layout, placeholder string) string {
	if !i.resolved {
		return placeholder
	}

	return i.t.Format(layout)
}

// MarshalJSON encodes the instant as RFC3339 or null.
func (i Instant) MarshalJSON() ([]byte, error) {
	if !i.resolved {
		return []byte("null"), nil
	}

	return json.Marshal(i.t.Format(time.RFC3339))
}

var (
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
	dayFirstDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	fourDigitYear       = regexp.MustCompile(`\d{4}`)
)

// storeTimestamp is the document store's native timestamp object as it
// appears in JSON exports.
type storeTimestamp struct {
	Seconds    *int64 `json:"seconds"`
	AltSeconds *int64 `json:"_seconds"`
}

// Normalizer resolves stored dates in a fixed location. Wall-clock strings
// without an offset are read in Location.
type Normalizer struct {
	Location *time.Location
}

// NewNormalizer returns a Normalizer for loc, defaulting to time.Local.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}

	return &Normalizer{Location: loc}
}

func (n *Normalizer) location() *time.Location {
	if n == nil || n.Location == nil {
		return time.Local
	}

	return n.Location
}

// NormalizeDate resolves a raw JSON date value: a store timestamp object or
// a string. Anything else, including null, is Unresolved.
func (n *Normalizer) NormalizeDate(raw json.RawMessage) Instant {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Unresolved
	}

	switch trimmed[0] {
	case '{':
		var ts storeTimestamp
		if err := json.Unmarshal(trimmed, &ts); err != nil {
			return Unresolved
		}

		seconds := ts.Seconds
		if seconds == nil {
			seconds = ts.AltSeconds
		}

		if seconds == nil {
			return Unresolved
		}

		return At(time.Unix(*seconds, 0).In(n.location()))
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Unresolved
		}

		return n.ParseDate(s)
	default:
		return Unresolved
	}
}

// ParseDate resolves a date string. The first matching form wins:
// YYYY-MM-DD, YYYY-MM-DDTHH:mm, DD-MM-YYYY, then a free-form parse.
func (n *Normalizer) ParseDate(value string) Instant {
	s := strings.TrimSpace(value)
	if s == "" {
		return Unresolved
	}

	loc := n.location()

	switch {
	case isoDatePattern.MatchString(s):
		return parseInLocation("2006-01-02", s, loc)
	case isoDateTimePattern.MatchString(s):
		return parseInLocation("2006-01-02T15:04", s, loc)
	case dayFirstDatePattern.MatchString(s):
		parts := dayFirstDatePattern.FindStringSubmatch(s)
		return parseInLocation("2006-01-02", parts[3]+"-"+parts[2]+"-"+parts[1], loc)
	}

	// Two-digit years are ambiguous; the free-form parser would guess a century.
	if !fourDigitYear.MatchString(s) {
		return Unresolved
	}

	parsed, err := dateparse.ParseIn(s, loc)
	if err != nil || parsed.IsZero() {
		return Unresolved
	}

	return At(parsed)
}

func parseInLocation(layout, value string, loc *time.Location) Instant {
	parsed, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return Unresolved
	}

	return At(parsed)
}
