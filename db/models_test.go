// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"errors"
	"testing"
	"time"

	"github.com/humaidq/pulseboard/vitals"
)

func TestPatientInputNormalized(t *testing.T) {
	t.Parallel()

	got := PatientInput{
		FirstName: "  aisha ",
		LastName:  "al KHAN",
		Gender:    "female",
		Phone:     " 555 ",
	}.normalized()

	if got.FirstName != "Aisha" || got.LastName != "Al Khan" || got.Gender != "Female" || got.Phone != "555" {
		t.Fatalf("unexpected normalized input %+v", got)
	}

	if empty := (PatientInput{FirstName: "   "}).normalized(); empty.FirstName != "" {
		t.Fatalf("expected blank name to stay empty, got %q", empty.FirstName)
	}
}

func TestPatientAge(t *testing.T) {
	t.Parallel()

	n := vitals.NewNormalizer(time.UTC)
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	p := Patient{DOB: "1990-03-02"}
	if age := p.AgeAt(n, now); age == nil || *age != 34 {
		t.Fatalf("expected 34, got %v", age)
	}

	if got := p.DisplayAge(n, now); got != "34" {
		t.Fatalf("expected computed age, got %q", got)
	}

	p.Age = "40"
	if got := p.DisplayAge(n, now); got != "40" {
		t.Fatalf("expected stored age, got %q", got)
	}

	unknown := Patient{DOB: "sometime"}
	if age := unknown.AgeAt(n, now); age != nil {
		t.Fatalf("expected nil age, got %d", *age)
	}
}

func TestPatientInfoAndName(t *testing.T) {
	t.Parallel()

	p := Patient{FirstName: "Omar", LastName: "Saleh", Phone: "123"}

	if got := p.FullName(); got != "Omar Saleh" {
		t.Fatalf("unexpected name %q", got)
	}

	if info := p.Info(); info.Phone != "123" || info.FirstName != "Omar" {
		t.Fatalf("unexpected info %+v", info)
	}

	if p.HasVitals() {
		t.Fatalf("expected no vitals")
	}
}

func TestParsePatientDocuments(t *testing.T) {
	t.Parallel()

	docs, err := ParsePatientDocuments([]byte(`[
		{"id": "abc", "firstName": "sara", "age": 41, "weight": "60", "vitals": [{"dateAdded": "2024-05-01", "pulse": 70}]},
		{"id": "def", "firstName": "Lina", "vitals": null},
		{"id": "ghi", "firstName": "Noor", "vitals": {"pulse": 70}}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	input := docs[0].Input()
	if input.Age != "41" || input.Weight != "60" || input.FirstName != "sara" {
		t.Fatalf("unexpected input %+v", input)
	}

	raw, err := docs[0].RawVitals()
	if err != nil || string(raw) != `[{"dateAdded": "2024-05-01", "pulse": 70}]` {
		t.Fatalf("expected vitals kept verbatim, got %s (%v)", raw, err)
	}

	if raw, err := docs[1].RawVitals(); err != nil || string(raw) != "[]" {
		t.Fatalf("expected empty array, got %s (%v)", raw, err)
	}

	if _, err := docs[2].RawVitals(); !errors.Is(err, ErrVitalsNotArray) {
		t.Fatalf("expected ErrVitalsNotArray, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape %q", got)
	}
}
