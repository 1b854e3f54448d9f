/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/vitals"
)

var bloodSugarUnits = []string{"mg/dL", "mmol/L"}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrPatientNotFound) || errors.Is(err, db.ErrInvalidPatientID)
}

func parseEntryIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidIndex, raw)
	}

	return index, nil
}

func entryInputFromForm(c flamego.Context) vitals.EntryInput {
	return entryInputFromValues(c.Request().Form)
}

// entryInputFromValues reads the vitals form. Each reading may carry its
// unit in "<field>_unit"; a missing unit is left blank.
func entryInputFromValues(form url.Values) vitals.EntryInput {
	return vitals.EntryInput{
		Date:       form.Get("date"),
		Systolic:   form.Get("systolic"),
		Diastolic:  form.Get("diastolic"),
		Pulse:      form.Get("pulse"),
		BloodSugar: form.Get("blood_sugar"),
		Units: map[vitals.Metric]string{
			vitals.Systolic:   form.Get("systolic_unit"),
			vitals.Diastolic:  form.Get("diastolic_unit"),
			vitals.Pulse:      form.Get("pulse_unit"),
			vitals.BloodSugar: form.Get("blood_sugar_unit"),
		},
	}
}

// unitOptions lists the selectable units, with the stored unit first when it
// is not one of them.
func unitOptions(options []string, stored string) []string {
	if stored == "" || slices.Contains(options, stored) {
		return options
	}

	return append([]string{stored}, options...)
}

// editEntry builds the replacement for the entry stored at index.
func (s *Settings) editEntry(in vitals.EntryInput, index int) func(vitals.RawEntry) (vitals.RawEntry, error) {
	return func(stored vitals.RawEntry) (vitals.RawEntry, error) {
		record := s.Normalizer().NormalizeEntry(stored, index)

		return vitals.EditEntry(in, record, s.location())
	}
}

func isEntryInvalid(err error) bool {
	return errors.Is(err, vitals.ErrInvalidReading) ||
		errors.Is(err, vitals.ErrMissingDate) ||
		errors.Is(err, vitals.ErrInvalidDate)
}

func hasReadings(in vitals.EntryInput) bool {
	for _, value := range []string{in.Systolic, in.Diastolic, in.Pulse, in.BloodSugar} {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}

	return false
}

// AddVitals appends one entry from the vitals form.
func AddVitals(c flamego.Context, s session.Session, settings *Settings) {
	id := c.Param("id")
	back := "/patients/" + id

	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	in := entryInputFromForm(c)
	if !hasReadings(in) {
		SetErrorFlash(s, userMessage(errNoEntries, "Enter at least one reading"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	entry, err := vitals.NewEntry(in, settings.now(), settings.location())
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Invalid vitals entry"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	if err := db.AppendVitals(c.Request().Context(), id, []vitals.RawEntry{entry}); err != nil {
		logger.Error("Error appending vitals", "patient", id, "error", err)
		SetErrorFlash(s, userMessage(err, "Failed to save vitals"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	SetSuccessFlash(s, "Vitals saved")
	c.Redirect(back, http.StatusSeeOther)
}

// EditVitalForm renders the form for the entry stored at {index}.
func EditVitalForm(c flamego.Context, s session.Session, settings *Settings, t template.Template, data template.Data) {
	id := c.Param("id")
	back := "/patients/" + id

	index, err := parseEntryIndex(c.Param("index"))
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Invalid entry"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	patient, err := db.GetPatient(c.Request().Context(), id)
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Failed to load patient"))
		c.Redirect("/patients", http.StatusSeeOther)

		return
	}

	record, ok := settings.pipeline(patient.Vitals, vitals.All).Find(index)
	if !ok {
		SetErrorFlash(s, userMessage(vitals.ErrIndexOutOfRange, "Invalid entry"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	data["Patient"] = patient
	data["Index"] = index
	data["Record"] = record
	input := vitals.InputFor(record)

	data["Input"] = input
	data["SystolicUnit"] = input.Units[vitals.Systolic]
	data["DiastolicUnit"] = input.Units[vitals.Diastolic]
	data["PulseUnit"] = input.Units[vitals.Pulse]
	data["BloodSugarUnit"] = input.Units[vitals.BloodSugar]
	data["DateLabel"] = vitals.FormatDate(record, vitals.Placeholder)
	data["BloodSugarUnits"] = unitOptions(bloodSugarUnits, input.Units[vitals.BloodSugar])
	data["IsPatients"] = true
	data["PageTitle"] = "Edit Vitals"
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(id, patient.FullName(), false),
		currentBreadcrumb("Edit Vitals"),
	}

	t.HTML(http.StatusOK, "vital_form")
}

// ReplaceVital overwrites the entry stored at {index}. Entries are addressed
// by their stored position, never by their position in a sorted view. The
// stored time of day and units carry over to the replacement.
func ReplaceVital(c flamego.Context, s session.Session, settings *Settings) {
	id := c.Param("id")
	back := "/patients/" + id

	index, err := parseEntryIndex(c.Param("index"))
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Invalid entry"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	editURL := fmt.Sprintf("%s/vitals/%d/edit", back, index)

	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(editURL, http.StatusSeeOther)

		return
	}

	in := entryInputFromForm(c)
	if _, err := vitals.ComposeDateAdded(in.Date, settings.now(), settings.location()); err != nil {
		SetErrorFlash(s, userMessage(err, "Invalid vitals entry"))
		c.Redirect(editURL, http.StatusSeeOther)

		return
	}

	if err := db.EditVital(c.Request().Context(), id, index, settings.editEntry(in, index)); err != nil {
		if isEntryInvalid(err) {
			SetErrorFlash(s, userMessage(err, "Invalid vitals entry"))
			c.Redirect(editURL, http.StatusSeeOther)

			return
		}

		if !errors.Is(err, vitals.ErrIndexOutOfRange) && !isNotFound(err) {
			logger.Error("Error replacing vitals entry", "patient", id, "index", index, "error", err)
		}

		SetErrorFlash(s, userMessage(err, "Failed to save vitals"))
		c.Redirect(back, http.StatusSeeOther)

		return
	}

	SetSuccessFlash(s, "Vitals updated")
	c.Redirect(back, http.StatusSeeOther)
}

// VitalsResponse is the JSON projection of one patient's vitals.
type VitalsResponse struct {
	PatientID string             `json:"patientId"`
	Range     string             `json:"range"`
	Stats     vitals.Stats       `json:"stats"`
	Records   []vitals.Record    `json:"records"`
	Table     []vitals.TableRow  `json:"table"`
	Chart     vitals.Chart       `json:"chart"`
	Export    []vitals.ExportRow `json:"export"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// VitalsJSON serves the canonical records and projections as JSON.
func VitalsJSON(c flamego.Context, settings *Settings) {
	id := c.Param("id")

	patient, err := db.GetPatient(c.Request().Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		} else {
			logger.Error("Error fetching patient", "patient", id, "error", err)
		}

		writeJSON(c, status, errorResponse{Error: userMessage(err, "Failed to load patient")})

		return
	}

	r, err := settings.Normalizer().ParseRange(c.Query("range"))
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result := settings.pipeline(patient.Vitals, r)

	writeJSON(c, http.StatusOK, VitalsResponse{
		PatientID: patient.ID.String(),
		Range:     r.String(),
		Stats:     result.Stats,
		Records:   result.Records,
		Table:     result.Table(),
		Chart:     result.Chart(parsePoint(c.Query("point"))),
		Export:    result.Export(patient.Info()),
	})
}
