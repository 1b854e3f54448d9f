/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"encoding/gob"
	"errors"

	"github.com/flamego/session"

	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/export"
	"github.com/humaidq/pulseboard/vitals"
)

// FlashType represents the type of flash message
type FlashType string

const (
	FlashError   FlashType = "error"
	FlashSuccess FlashType = "success"
	FlashWarning FlashType = "warning"
	FlashInfo    FlashType = "info"
)

// FlashMessage represents a flash message to be displayed to the user
type FlashMessage struct {
	Type    FlashType
	Message string
}

func init() {
	gob.Register(FlashMessage{})
}

// SetErrorFlash sets an error flash message in the session
func SetErrorFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{Type: FlashError, Message: message})
}

// SetSuccessFlash sets a success flash message in the session
func SetSuccessFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{Type: FlashSuccess, Message: message})
}

// SetWarningFlash sets a warning flash message in the session
func SetWarningFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{Type: FlashWarning, Message: message})
}

// SetInfoFlash sets an info flash message in the session
func SetInfoFlash(s session.Session, message string) {
	s.SetFlash(FlashMessage{Type: FlashInfo, Message: message})
}

// userMessage turns known errors into text fit for a flash message.
func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, db.ErrPatientNotFound), errors.Is(err, db.ErrInvalidPatientID):
		return "Patient not found"
	case errors.Is(err, db.ErrFirstNameRequired):
		return "First name is required"
	case errors.Is(err, vitals.ErrMissingDate):
		return "Date is required"
	case errors.Is(err, vitals.ErrInvalidDate):
		return "Date must be in YYYY-MM-DD form"
	case errors.Is(err, vitals.ErrInvalidReading):
		return "Readings must be numbers"
	case errors.Is(err, vitals.ErrIndexOutOfRange), errors.Is(err, errInvalidIndex):
		return "That entry no longer exists"
	case errors.Is(err, errNoEntries):
		return "Enter at least one reading"
	case errors.Is(err, vitals.ErrUnknownRange), errors.Is(err, vitals.ErrInvalidRangeBounds):
		return "Unknown date range"
	case errors.Is(err, export.ErrUnknownLayout):
		return "Unknown export layout"
	default:
		return fallback
	}
}
