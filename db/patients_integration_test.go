// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/humaidq/pulseboard/vitals"
)

func TestPatientLifecycle(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	if _, err := CreatePatient(ctx, PatientInput{FirstName: " "}); !errors.Is(err, ErrFirstNameRequired) {
		t.Fatalf("expected ErrFirstNameRequired, got %v", err)
	}

	id := mustCreatePatient(t, PatientInput{FirstName: "aisha", LastName: "khan", Gender: "female"})

	patient, err := GetPatient(ctx, id)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}

	if patient.FullName() != "Aisha Khan" || patient.Gender != "Female" || patient.HasVitals() {
		t.Fatalf("unexpected patient %+v", patient)
	}

	if err := UpdatePatient(ctx, id, PatientInput{FirstName: "Aisha", LastName: "Khan", Phone: "555"}); err != nil {
		t.Fatalf("UpdatePatient failed: %v", err)
	}

	patient, err = GetPatient(ctx, id)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}

	if patient.Phone != "555" {
		t.Fatalf("expected updated phone, got %q", patient.Phone)
	}

	if err := DeletePatient(ctx, id); err != nil {
		t.Fatalf("DeletePatient failed: %v", err)
	}

	if _, err := GetPatient(ctx, id); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}

	if err := DeletePatient(ctx, id); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound on second delete, got %v", err)
	}

	if _, err := GetPatient(ctx, "not-a-uuid"); !errors.Is(err, ErrInvalidPatientID) {
		t.Fatalf("expected ErrInvalidPatientID, got %v", err)
	}
}

func TestListAndSearchPatients(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	withVitals := mustCreatePatient(t, PatientInput{FirstName: "Omar", LastName: "Saleh"})
	mustCreatePatient(t, PatientInput{FirstName: "Aisha", LastName: "Khan", Phone: "+971 (50) 123-4567"})
	mustCreatePatient(t, PatientInput{FirstName: "Lina", LastName: "50%"})

	if err := AppendVitals(ctx, withVitals, mustEntries(t, `[{"dateAdded": "2024-05-01", "pulse": 70}]`)); err != nil {
		t.Fatalf("AppendVitals failed: %v", err)
	}

	all, err := ListPatients(ctx)
	if err != nil {
		t.Fatalf("ListPatients failed: %v", err)
	}

	if len(all) != 3 || all[0].FirstName != "Aisha" || all[2].FirstName != "Omar" {
		t.Fatalf("expected patients ordered by name, got %+v", all)
	}

	recorded, err := ListPatientsWithVitals(ctx)
	if err != nil || len(recorded) != 1 || recorded[0].ID.String() != withVitals {
		t.Fatalf("unexpected patients with vitals %+v (%v)", recorded, err)
	}

	pending, err := ListPendingPatients(ctx)
	if err != nil || len(pending) != 2 {
		t.Fatalf("unexpected pending patients %+v (%v)", pending, err)
	}

	counts, err := CountPatients(ctx)
	if err != nil {
		t.Fatalf("CountPatients failed: %v", err)
	}

	if counts != (PatientCounts{Total: 3, WithVitals: 1, Pending: 2}) {
		t.Fatalf("unexpected counts %+v", counts)
	}

	found, err := SearchPatients(ctx, "aisha k")
	if err != nil || len(found) != 1 || found[0].LastName != "Khan" {
		t.Fatalf("unexpected search result %+v (%v)", found, err)
	}

	byPhone, err := SearchPatients(ctx, "050 1234567")
	if err != nil || len(byPhone) != 0 {
		t.Fatalf("expected leading zero to miss, got %+v (%v)", byPhone, err)
	}

	byPhone, err = SearchPatients(ctx, "50-123-4567")
	if err != nil || len(byPhone) != 1 || byPhone[0].FirstName != "Aisha" {
		t.Fatalf("expected phone search to match Aisha, got %+v (%v)", byPhone, err)
	}

	literal, err := SearchPatients(ctx, "%")
	if err != nil || len(literal) != 1 || literal[0].FirstName != "Lina" {
		t.Fatalf("expected percent to match literally, got %+v (%v)", literal, err)
	}

	blank, err := SearchPatients(ctx, "  ")
	if err != nil || len(blank) != 3 {
		t.Fatalf("expected blank search to list all, got %d (%v)", len(blank), err)
	}
}

func TestAppendAndEditVitals(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	id := mustCreatePatient(t, PatientInput{FirstName: "Sara"})

	if err := AppendVitals(ctx, id, mustEntries(t, `[
		{"dateAdded": "01-05-2024", "pulseValue": 70},
		{"dateAdded": "2024-05-02", "pulse": {"value": 80, "unit": "bpm"}}
	]`)); err != nil {
		t.Fatalf("AppendVitals failed: %v", err)
	}

	replacement := vitals.RawEntry{
		vitals.DateKey: json.RawMessage(`"2024-05-03 09:00:00"`),
		"pulse":        json.RawMessage(`{"value":75,"unit":"bpm"}`),
	}

	replace := func(vitals.RawEntry) (vitals.RawEntry, error) {
		return replacement, nil
	}

	if err := EditVital(ctx, id, 1, replace); err != nil {
		t.Fatalf("EditVital failed: %v", err)
	}

	patient, err := GetPatient(ctx, id)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}

	if len(patient.Vitals) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(patient.Vitals))
	}

	if got := string(patient.Vitals[0]["pulseValue"]); got != "70" {
		t.Fatalf("expected untouched first entry, got %s", got)
	}

	records := vitals.NewNormalizer(nil).NormalizeEntries(patient.Vitals)
	if records[1].Pulse.Value != "75" {
		t.Fatalf("expected replaced pulse, got %+v", records[1].Pulse)
	}

	if err := EditVital(ctx, id, 5, replace); !errors.Is(err, vitals.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	if got := mustStoredVitals(t, id); got == "[]" {
		t.Fatalf("expected vitals to remain stored")
	}

	errRejected := errors.New("rejected")
	if err := EditVital(ctx, id, 0, func(vitals.RawEntry) (vitals.RawEntry, error) {
		return nil, errRejected
	}); !errors.Is(err, errRejected) {
		t.Fatalf("expected edit error, got %v", err)
	}

	err = EditVital(ctx, id, 0, func(stored vitals.RawEntry) (vitals.RawEntry, error) {
		if got := string(stored["pulseValue"]); got != "70" {
			t.Fatalf("expected stored entry, got %s", got)
		}

		stored["pulseValue"] = json.RawMessage("72")

		return stored, nil
	})
	if err != nil {
		t.Fatalf("EditVital failed: %v", err)
	}

	patient, err = GetPatient(ctx, id)
	if err != nil {
		t.Fatalf("GetPatient failed: %v", err)
	}

	if got := string(patient.Vitals[0]["pulseValue"]); got != "72" {
		t.Fatalf("expected edited first entry, got %s", got)
	}
}

func TestImportPatientsUpserts(t *testing.T) {
	resetDatabase(t)
	ctx := testContext()

	docs, err := ParsePatientDocuments([]byte(`[
		{"id": "doc-1", "firstName": "hana", "age": 30, "vitals": [{"dateAdded": "2024-05-01", "systolic": 120}]},
		{"id": "doc-2", "firstName": "Yusuf"}
	]`))
	if err != nil {
		t.Fatalf("ParsePatientDocuments failed: %v", err)
	}

	imported, err := ImportPatients(ctx, docs)
	if err != nil || imported != 2 {
		t.Fatalf("expected 2 imported, got %d (%v)", imported, err)
	}

	docs[0].Age = "31"

	if _, err := ImportPatients(ctx, docs[:1]); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	patients, err := ListPatients(ctx)
	if err != nil {
		t.Fatalf("ListPatients failed: %v", err)
	}

	if len(patients) != 2 {
		t.Fatalf("expected upsert to keep 2 patients, got %d", len(patients))
	}

	if patients[0].FirstName != "Hana" || patients[0].Age != "31" || len(patients[0].Vitals) != 1 {
		t.Fatalf("unexpected imported patient %+v", patients[0])
	}

	bad := []PatientDocument{{ID: "doc-3", FirstName: "Bad", Vitals: json.RawMessage(`{"x": 1}`)}}
	if _, err := ImportPatients(ctx, bad); !errors.Is(err, ErrVitalsNotArray) {
		t.Fatalf("expected ErrVitalsNotArray, got %v", err)
	}
}
