/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "strings"

// ExportColumns is the fixed column order of an export row.
var ExportColumns = []string{
	"Name",
	"Gender",
	"DOB",
	"Age",
	"Weight",
	"Height",
	"Phone",
	"DateAdded",
	"Systolic",
	"Diastolic",
	"Pulse",
	"BloodSugar",
}

// NoDataLabel fills the DateAdded cell of a patient's placeholder row.
const NoDataLabel = "No data"

// PatientInfo is the profile part of an export row.
type PatientInfo struct {
	FirstName  string
	MiddleName string
	LastName   string
	Gender     string
	DOB        string
	Age        string
	Weight     string
	Height     string
	Phone      string
}

// Name joins the non-empty name parts.
func (p PatientInfo) Name() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.FirstName, p.MiddleName, p.LastName} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return strings.Join(parts, " ")
}

// PatientRecords pairs a patient with their windowed records.
type PatientRecords struct {
	Patient PatientInfo
	Records []Record
}

// ExportRow is one flattened row in ExportColumns order.
type ExportRow struct {
	Name       string
	Gender     string
	DOB        string
	Age        string
	Weight     string
	Height     string
	Phone      string
	DateAdded  string
	Systolic   string
	Diastolic  string
	Pulse      string
	BloodSugar string
}

// Values returns the cells in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{
		r.Name, r.Gender, r.DOB, r.Age, r.Weight, r.Height, r.Phone,
		r.DateAdded, r.Systolic, r.Diastolic, r.Pulse, r.BloodSugar,
	}
}

// ExportRowsFor flattens one patient's records, or returns a single
// placeholder row when there are none.
func ExportRowsFor(p PatientRecords) []ExportRow {
	base := ExportRow{
		Name:   p.Patient.Name(),
		Gender: p.Patient.Gender,
		DOB:    p.Patient.DOB,
		Age:    p.Patient.Age,
		Weight: p.Patient.Weight,
		Height: p.Patient.Height,
		Phone:  p.Patient.Phone,
	}

	if len(p.Records) == 0 {
		base.DateAdded = NoDataLabel
		return []ExportRow{base}
	}

	rows := make([]ExportRow, 0, len(p.Records))
	for _, record := range p.Records {
		row := base
		row.DateAdded = FormatDate(record, "")
		row.Systolic = FormatReading(record.Systolic)
		row.Diastolic = FormatReading(record.Diastolic)
		row.Pulse = FormatReading(record.Pulse)
		row.BloodSugar = FormatReading(record.BloodSugar)
		rows = append(rows, row)
	}

	return rows
}

// ExportRows flattens every patient in order.
func ExportRows(patients []PatientRecords) []ExportRow {
	var rows []ExportRow
	for _, p := range patients {
		rows = append(rows, ExportRowsFor(p)...)
	}

	return rows
}
