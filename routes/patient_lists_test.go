// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
)

var errPatientListUnavailable = errors.New("unavailable")

type patientListTemplateStub struct {
	called bool
	status int
	name   string
}

func (s *patientListTemplateStub) HTML(status int, name string) {
	s.called = true
	s.status = status
	s.name = name
}

func newPatientListTestApp(t template.Template, data template.Data) *flamego.Flame {
	f := flamego.New()
	f.Use(func(c flamego.Context) {
		c.MapTo(t, (*template.Template)(nil))
		c.Map(data)
		c.Next()
	})

	f.Get("/patients/pending", PendingPatients)
	f.Get("/patients/recorded", RecordedPatients)

	return f
}

//nolint:paralleltest // Overrides package-level DB function variables.
func TestRecordedPatientsListsPatientsWithVitals(t *testing.T) {
	originalRecordedFn := listRecordedPatientsFn

	t.Cleanup(func() {
		listRecordedPatientsFn = originalRecordedFn
	})

	listRecordedPatientsFn = func(context.Context) ([]db.Patient, error) {
		return []db.Patient{{
			FirstName: "Aisha",
			Vitals:    mustDecodeEntries(t, `[{"dateAdded": "2025-01-07", "pulse": 72}]`),
		}}, nil
	}

	tpl := &patientListTemplateStub{}
	data := template.Data{}
	f := newPatientListTestApp(tpl, data)

	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/recorded", nil))

	if !tpl.called || tpl.status != http.StatusOK || tpl.name != "patients" {
		t.Fatalf("expected patients template with 200, got called=%v status=%d name=%q", tpl.called, tpl.status, tpl.name)
	}

	patients, ok := data["Patients"].([]db.Patient)
	if !ok || len(patients) != 1 || patients[0].FirstName != "Aisha" {
		t.Fatalf("unexpected patients %#v", data["Patients"])
	}

	if data["IsRecorded"] != true || data["PageTitle"] != "Vitals Recorded" {
		t.Fatalf("unexpected page data %#v", data)
	}

	if _, ok := data["IsPending"]; ok {
		t.Fatal("recorded list should not be marked pending")
	}
}

//nolint:paralleltest // Overrides package-level DB function variables.
func TestPatientListsReportLoadFailure(t *testing.T) {
	originalPendingFn := listPendingPatientsFn
	originalRecordedFn := listRecordedPatientsFn

	t.Cleanup(func() {
		listPendingPatientsFn = originalPendingFn
		listRecordedPatientsFn = originalRecordedFn
	})

	failing := func(context.Context) ([]db.Patient, error) {
		return nil, errPatientListUnavailable
	}
	listPendingPatientsFn = failing
	listRecordedPatientsFn = failing

	for _, path := range []string{"/patients/pending", "/patients/recorded"} {
		tpl := &patientListTemplateStub{}
		data := template.Data{}
		f := newPatientListTestApp(tpl, data)

		rec := httptest.NewRecorder()
		f.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if tpl.name != "patients" {
			t.Fatalf("%s: expected patients template, got %q", path, tpl.name)
		}

		if data["Error"] != "Failed to load patients" {
			t.Fatalf("%s: expected load error, got %#v", path, data["Error"])
		}

		if _, ok := data["Patients"]; ok {
			t.Fatalf("%s: expected no patients on failure", path)
		}
	}
}
