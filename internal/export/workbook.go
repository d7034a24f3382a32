package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"autosales-dashboard/internal/models"
)

const (
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	summarySheet = "Summary"
)

func SheetName(index int) string {
	return fmt.Sprintf("Chart %d", index+1)
}

// Filename builds the download name for a selection.
func Filename(sel models.Selection) string {
	switch sel.Report {
	case models.ReportRecession:
		return "automobile-sales-recession.xlsx"
	case models.ReportYearly:
		if sel.Year.Valid {
			return fmt.Sprintf("automobile-sales-%d.xlsx", sel.Year.Year)
		}
	}
	return "automobile-sales.xlsx"
}

// WriteWorkbook writes a summary sheet plus one sheet per chart.
func WriteWorkbook(w io.Writer, sel models.Selection, charts []models.ChartSpec, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	report := string(sel.Report)
	if report == "" {
		report = "(none)"
	}
	summary := [][]any{
		{"Report", report},
		{"Year", sel.Year.String()},
		{"Charts", len(charts)},
		{"Generated", now.UTC().Format(time.RFC3339)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	for i, spec := range charts {
		if err := writeChartSheet(f, SheetName(i), spec, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeChartSheet(f *excelize.File, sheet string, spec models.ChartSpec, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	labelField, valueField := spec.XField, spec.YField
	if spec.Kind == models.ChartPie {
		labelField, valueField = spec.NamesField, spec.ValuesField
	}

	if err := f.SetCellValue(sheet, "A1", spec.Title); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A2", string(spec.Kind)); err != nil {
		return err
	}
	header := []any{labelField, valueField}
	if err := f.SetSheetRow(sheet, "A4", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "B4", bold); err != nil {
		return err
	}

	for i, p := range spec.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+5)
		if err != nil {
			return err
		}
		row := []any{p.Label, p.Value}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}

	return f.SetColWidth(sheet, "A", "B", 22)
}
