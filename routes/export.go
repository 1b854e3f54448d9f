/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulseboard/db"
	"github.com/humaidq/pulseboard/export"
	"github.com/humaidq/pulseboard/vitals"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportLayoutOption is a selectable workbook layout.
type ExportLayoutOption struct {
	Value string
	Label string
}

var exportLayouts = []ExportLayoutOption{
	{Value: string(export.LayoutSingle), Label: "All patients on one sheet"},
	{Value: string(export.LayoutPerPatient), Label: "One sheet per patient"},
}

// ExportForm renders the bulk export options.
func ExportForm(t template.Template, data template.Data) {
	data["RangePresets"] = vitals.ExportRangePresets
	data["Layouts"] = exportLayouts
	data["IsExport"] = true
	data["PageTitle"] = "Export"
	data["Breadcrumbs"] = []BreadcrumbItem{currentBreadcrumb("Export")}
	t.HTML(http.StatusOK, "export")
}

// BuildExport windows every patient's vitals with r and pairs them with
// their profiles, in patient list order.
func BuildExport(patients []db.Patient, settings *Settings, r vitals.Range) []vitals.PatientRecords {
	out := make([]vitals.PatientRecords, 0, len(patients))

	for i := range patients {
		result := settings.pipeline(patients[i].Vitals, r)
		out = append(out, vitals.PatientRecords{
			Patient: patients[i].Info(),
			Records: result.Records,
		})
	}

	return out
}

// ExportWorkbook streams an xlsx workbook of every patient's vitals.
func ExportWorkbook(c flamego.Context, s session.Session, settings *Settings) {
	r, err := settings.Normalizer().ParseRange(c.Query("range"))
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Unknown date range"))
		c.Redirect("/export", http.StatusSeeOther)

		return
	}

	layout, err := export.ParseLayout(c.Query("layout"))
	if err != nil {
		SetErrorFlash(s, userMessage(err, "Unknown export layout"))
		c.Redirect("/export", http.StatusSeeOther)

		return
	}

	patients, err := db.ListPatients(c.Request().Context())
	if err != nil {
		logger.Error("Error fetching patients for export", "error", err)
		SetErrorFlash(s, "Failed to load patients")
		c.Redirect("/export", http.StatusSeeOther)

		return
	}

	var buf bytes.Buffer

	rows, err := export.Write(&buf, layout, BuildExport(patients, settings, r))
	if err != nil {
		logger.Error("Error building export workbook", "error", err)
		SetErrorFlash(s, "Failed to build export")
		c.Redirect("/export", http.StatusSeeOther)

		return
	}

	settings.recorder().ObserveExport(string(layout), rows)

	header := c.ResponseWriter().Header()
	header.Set("Content-Type", xlsxContentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", layout.FileName()))
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	header.Set("Last-Modified", settings.now().UTC().Format(http.TimeFormat))
	c.ResponseWriter().WriteHeader(http.StatusOK)

	if _, err := c.ResponseWriter().Write(buf.Bytes()); err != nil {
		logger.Warn("Failed to send export", "error", err)
	}
}

// Metrics serves the Prometheus exposition.
func Metrics(c flamego.Context, settings *Settings) {
	settings.recorder().Handler().ServeHTTP(c.ResponseWriter(), c.Request().Request)
}
