/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	htmltemplate "html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/vitals"
)

// TableColumn is a sortable and filterable vitals table column.
type TableColumn struct {
	Key   string
	Label string
}

var tableColumns = []TableColumn{
	{Key: vitals.DateColumn, Label: "Date"},
	{Key: string(vitals.Systolic), Label: vitals.Systolic.Label()},
	{Key: string(vitals.Diastolic), Label: vitals.Diastolic.Label()},
	{Key: string(vitals.Pulse), Label: vitals.Pulse.Label()},
	{Key: string(vitals.BloodSugar), Label: vitals.BloodSugar.Label()},
}

// SnapshotCell is one metric of the latest or selected reading.
type SnapshotCell struct {
	Label  string
	Value  string
	Status vitals.Status
}

// TableQuery holds the table controls of the patient page.
type TableQuery struct {
	Sort      string
	Desc      bool
	FilterCol string
	Filter    string
}

func parseTableQuery(c flamego.Context) TableQuery {
	q := TableQuery{
		Sort:      strings.TrimSpace(c.Query("sort")),
		FilterCol: strings.TrimSpace(c.Query("filter_col")),
		Filter:    c.Query("filter"),
	}

	switch strings.ToLower(strings.TrimSpace(c.Query("desc"))) {
	case "1", "true", "yes", "on":
		q.Desc = true
	}

	if q.FilterCol == "" {
		q.FilterCol = vitals.DateColumn
	}

	return q
}

// Apply sorts and filters rows. Without a sort column rows keep their
// newest-first order.
func (q TableQuery) Apply(rows []vitals.TableRow) []vitals.TableRow {
	if q.Sort != "" {
		rows = vitals.SortTable(rows, q.Sort, q.Desc)
	}

	return vitals.FilterTable(rows, q.FilterCol, q.Filter)
}

func parsePoint(raw string) int {
	point, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return vitals.NoSelection
	}

	return point
}

func snapshotCells(point *vitals.ChartPoint) []SnapshotCell {
	if point == nil {
		return nil
	}

	cells := make([]SnapshotCell, 0, len(vitals.Metrics))
	for _, m := range vitals.Metrics {
		cells = append(cells, SnapshotCell{
			Label:  m.Label(),
			Value:  point.Cell(m),
			Status: point.Status(m),
		})
	}

	return cells
}

func patientInputFromForm(c flamego.Context) db.PatientInput {
	form := c.Request().Form

	return db.PatientInput{
		FirstName:  form.Get("first_name"),
		MiddleName: form.Get("middle_name"),
		LastName:   form.Get("last_name"),
		Gender:     form.Get("gender"),
		DOB:        form.Get("dob"),
		Age:        form.Get("age"),
		Weight:     form.Get("weight"),
		Height:     form.Get("height"),
		Phone:      form.Get("phone"),
		Email:      form.Get("email"),
	}
}

// ListPatients renders every patient, or those matching ?q=.
func ListPatients(c flamego.Context, t template.Template, data template.Data) {
	query := strings.TrimSpace(c.Query("q"))

	patients, err := db.SearchPatients(c.Request().Context(), query)
	if err != nil {
		logger.Error("Error fetching patients", "error", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	data["Query"] = query
	data["IsPatients"] = true
	data["PageTitle"] = "Patients"
	data["Breadcrumbs"] = []BreadcrumbItem{patientsBreadcrumb(true)}
	t.HTML(http.StatusOK, "patients")
}

var (
	listPendingPatientsFn  = db.ListPendingPatients
	listRecordedPatientsFn = db.ListPatientsWithVitals
)

// PendingPatients renders patients without any vitals.
func PendingPatients(c flamego.Context, t template.Template, data template.Data) {
	patients, err := listPendingPatientsFn(c.Request().Context())
	if err != nil {
		logger.Error("Error fetching pending patients", "error", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	data["IsPending"] = true
	data["PageTitle"] = "Pending Vitals"
	data["Breadcrumbs"] = []BreadcrumbItem{patientsBreadcrumb(false), currentBreadcrumb("Pending Vitals")}
	t.HTML(http.StatusOK, "patients")
}

// RecordedPatients renders patients with at least one vitals entry.
func RecordedPatients(c flamego.Context, t template.Template, data template.Data) {
	patients, err := listRecordedPatientsFn(c.Request().Context())
	if err != nil {
		logger.Error("Error fetching patients with vitals", "error", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	data["IsRecorded"] = true
	data["PageTitle"] = "Vitals Recorded"
	data["Breadcrumbs"] = []BreadcrumbItem{patientsBreadcrumb(false), currentBreadcrumb("Vitals Recorded")}
	t.HTML(http.StatusOK, "patients")
}

// NewPatientForm renders the registration form
func NewPatientForm(t template.Template, data template.Data) {
	data["IsPatients"] = true
	data["PageTitle"] = "Register Patient"
	data["FormAction"] = "/patients/new"
	data["Genders"] = []string{db.GenderMale, db.GenderFemale}
	data["Breadcrumbs"] = []BreadcrumbItem{patientsBreadcrumb(false), currentBreadcrumb("Register")}
	t.HTML(http.StatusOK, "patient_form")
}

// CreatePatient handles patient registration
func CreatePatient(c flamego.Context, s session.Session) {
	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/patients/new", http.StatusSeeOther)

		return
	}

	id, err := db.CreatePatient(c.Request().Context(), patientInputFromForm(c))
	if err != nil {
		logger.Error("Error creating patient", "error", err)
		SetErrorFlash(s, userMessage(err, "Failed to register patient"))
		c.Redirect("/patients/new", http.StatusSeeOther)

		return
	}

	SetSuccessFlash(s, "Patient registered")
	c.Redirect("/patients/"+id, http.StatusSeeOther)
}

// EditPatientForm renders the profile form filled with stored values.
func EditPatientForm(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	id := c.Param("id")

	patient, err := db.GetPatient(c.Request().Context(), id)
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Failed to load patient"))
		c.Redirect("/patients", http.StatusSeeOther)

		return
	}

	data["Patient"] = patient
	data["IsPatients"] = true
	data["PageTitle"] = "Edit " + patient.FullName()
	data["FormAction"] = "/patients/" + id + "/edit"
	data["Genders"] = []string{db.GenderMale, db.GenderFemale}
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(id, patient.FullName(), false),
		currentBreadcrumb("Edit"),
	}
	t.HTML(http.StatusOK, "patient_form")
}

// UpdatePatient saves the profile form.
func UpdatePatient(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := c.Request().ParseForm(); err != nil {
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/patients/"+id+"/edit", http.StatusSeeOther)

		return
	}

	if err := db.UpdatePatient(c.Request().Context(), id, patientInputFromForm(c)); err != nil {
		logger.Error("Error updating patient", "patient", id, "error", err)
		SetErrorFlash(s, userMessage(err, "Failed to update patient"))
		c.Redirect("/patients/"+id+"/edit", http.StatusSeeOther)

		return
	}

	SetSuccessFlash(s, "Patient updated")
	c.Redirect("/patients/"+id, http.StatusSeeOther)
}

// DeletePatient removes a patient and their vitals.
func DeletePatient(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := db.DeletePatient(c.Request().Context(), id); err != nil {
		logger.Error("Error deleting patient", "patient", id, "error", err)
		SetErrorFlash(s, userMessage(err, "Failed to delete patient"))
		c.Redirect("/patients/"+id, http.StatusSeeOther)

		return
	}

	logger.Info("Patient deleted", "patient", id)
	SetSuccessFlash(s, "Patient deleted")
	c.Redirect("/patients", http.StatusSeeOther)
}

// ViewPatient renders a profile with its vitals chart, snapshot and table.
func ViewPatient(c flamego.Context, s session.Session, settings *Settings, t template.Template, data template.Data) {
	id := c.Param("id")

	patient, err := db.GetPatient(c.Request().Context(), id)
	if err != nil {
		if !isNotFound(err) {
			logger.Error("Error fetching patient", "patient", id, "error", err)
		}

		SetErrorFlash(s, userMessage(err, "Failed to load patient"))
		c.Redirect("/patients", http.StatusSeeOther)

		return
	}

	normalizer := settings.Normalizer()

	r, err := normalizer.ParseRange(c.Query("range"))
	if err != nil {
		data["Error"] = userMessage(err, "Unknown date range")
		r = vitals.All
	}

	result := settings.pipeline(patient.Vitals, r)
	if result.Stats.Unresolved > 0 {
		logger.Warn("Vitals entries without a readable date", "patient", id, "count", result.Stats.Unresolved)
	}

	chart := result.Chart(parsePoint(c.Query("point")))
	query := parseTableQuery(c)

	charts, err := renderVitalsCharts(chart)
	if err != nil {
		logger.Error("Error rendering vitals charts", "patient", id, "error", err)
		charts = []htmltemplate.HTML{}
	}

	now := settings.now().In(settings.location())

	data["Patient"] = patient
	data["Age"] = patient.DisplayAge(normalizer, now)
	data["Range"] = r.String()
	data["RangeLabel"] = r.Label()
	data["RangePresets"] = vitals.ChartRangePresets
	data["Stats"] = result.Stats
	data["Chart"] = chart
	data["Charts"] = charts
	data["Snapshot"] = snapshotCells(chart.Current)
	data["Rows"] = query.Apply(result.Table())
	data["Table"] = query
	data["Columns"] = tableColumns
	data["Today"] = now.Format("2006-01-02")
	data["BloodSugarUnits"] = bloodSugarUnits
	data["IsPatients"] = true
	data["PageTitle"] = patient.FullName()
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(id, patient.FullName(), true),
	}

	t.HTML(http.StatusOK, "patient")
}
