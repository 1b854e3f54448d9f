// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/humaidq/pulseboard/vitals"
)

func testContext() context.Context {
	return context.Background()
}

func mustCreatePatient(t *testing.T, input PatientInput) string {
	t.Helper()

	id, err := CreatePatient(testContext(), input)
	if err != nil {
		t.Fatalf("failed to create patient: %v", err)
	}

	return id
}

func mustEntries(t *testing.T, data string) []vitals.RawEntry {
	t.Helper()

	entries, err := vitals.DecodeEntries([]byte(data))
	if err != nil {
		t.Fatalf("failed to decode entries: %v", err)
	}

	return entries
}

func mustStoredVitals(t *testing.T, id string) string {
	t.Helper()

	var raw json.RawMessage
	if err := pool.QueryRow(testContext(), `SELECT vitals FROM patients WHERE id = $1`, id).Scan(&raw); err != nil {
		t.Fatalf("failed to read vitals: %v", err)
	}

	return string(raw)
}
