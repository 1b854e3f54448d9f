/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package export writes flattened vitals rows to xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/humaidq/pulseboard/logging"
	"github.com/humaidq/pulseboard/vitals"
)

var logger = logging.Logger(logging.SourceExport)

// Layout selects how patients are spread over sheets.
type Layout string

// Workbook layouts.
const (
	// LayoutSingle puts every patient on one sheet.
	LayoutSingle Layout = "single"
	// LayoutPerPatient gives each patient a sheet of their own.
	LayoutPerPatient Layout = "per-patient"
)

// SingleSheetName names the only sheet of a LayoutSingle workbook.
const SingleSheetName = "All_Users"

const (
	maxSheetName  = 31
	sheetNameBase = 28
)

// columnWidths follow vitals.ExportColumns.
var columnWidths = []float64{40, 8, 12, 6, 8, 8, 16, 20, 12, 12, 10, 14}

var unsafeSheetChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ParseLayout reads a layout name. An empty name is LayoutSingle.
func ParseLayout(name string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(name))) {
	case "", LayoutSingle:
		return LayoutSingle, nil
	case LayoutPerPatient:
		return LayoutPerPatient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

// FileName is the download name for a layout.
func (l Layout) FileName() string {
	if l == LayoutPerPatient {
		return "Users_By_Sheet.xlsx"
	}

	return "All_Users_Data.xlsx"
}

// Sheet is one worksheet worth of rows.
type Sheet struct {
	Name string
	Rows []vitals.ExportRow
}

// Sheets splits patients into worksheets for layout. Without patients there
// is still one, header-only, sheet.
func Sheets(layout Layout, patients []vitals.PatientRecords) []Sheet {
	if layout != LayoutPerPatient || len(patients) == 0 {
		return []Sheet{{Name: SingleSheetName, Rows: vitals.ExportRows(patients)}}
	}

	sheets := make([]Sheet, 0, len(patients))
	for i, p := range patients {
		sheets = append(sheets, Sheet{
			Name: SheetName(p.Patient, i+1),
			Rows: vitals.ExportRowsFor(p),
		})
	}

	return sheets
}

// SheetName builds the sheet name of the n-th patient: "<First>_<Last>"
// with anything but letters, digits and underscores replaced, cut to fit
// Excel's limit, then suffixed with "_<n>".
func SheetName(p vitals.PatientInfo, n int) string {
	first := strings.TrimSpace(p.FirstName)
	if first == "" {
		first = "User"
	}

	base := unsafeSheetChars.ReplaceAllString(first+"_"+strings.TrimSpace(p.LastName), "_")
	suffix := "_" + strconv.Itoa(n)

	limit := sheetNameBase
	if len(base) > limit {
		base = base[:limit]
	}

	if len(base)+len(suffix) > maxSheetName {
		base = base[:maxSheetName-len(suffix)]
	}

	return base + suffix
}

// Build creates the workbook. The caller closes the returned file.
func Build(layout Layout, patients []vitals.PatientRecords) (*excelize.File, int, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := Sheets(layout, patients)

	rows := 0
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			_ = f.Close()
			return nil, 0, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, headerStyle); err != nil {
			_ = f.Close()
			return nil, 0, err
		}

		rows += len(sheet.Rows)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if index, err := f.GetSheetIndex(sheets[0].Name); err == nil && index >= 0 {
		f.SetActiveSheet(index)
	}

	return f, rows, nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]any, len(vitals.ExportColumns))
	for i, column := range vitals.ExportColumns {
		header[i] = column
	}

	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet.Name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}

	if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}

		if err := f.SetColWidth(sheet.Name, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}

		values := row.Values()
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet.Name, err)
		}
	}

	if err := f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header of %s: %w", sheet.Name, err)
	}

	return nil
}

// Write builds the workbook for layout and writes it to w. It returns the
// number of data rows written.
func Write(w io.Writer, layout Layout, patients []vitals.PatientRecords) (int, error) {
	f, rows, err := Build(layout, patients)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Workbook written", "layout", string(layout), "patients", len(patients), "rows", rows)

	return rows, nil
}
