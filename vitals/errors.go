/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "errors"

var (
	// ErrUnknownRange is returned for a range token that is not recognised.
	ErrUnknownRange = errors.New("unknown range")
	// ErrInvalidRangeBounds is returned when an absolute range ends before it starts.
	ErrInvalidRangeBounds = errors.New("range ends before it starts")
	// ErrIndexOutOfRange is returned when replacing an entry that does not exist.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrInvalidReading is returned when a submitted reading is not a number.
	ErrInvalidReading = errors.New("reading is not a number")
	// ErrMissingDate is returned when a submitted entry has no date.
	ErrMissingDate = errors.New("missing date")
	// ErrInvalidDate is returned when a submitted date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)
