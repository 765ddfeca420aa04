// Package export renders normalized medical reports as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/occhealth/occhealth/internal/domain/medicalreport"
	"github.com/occhealth/occhealth/internal/platform/rules"
)

// Sheet names of the executive workbook, in order.
const (
	SheetSummary      = "Summary"
	SheetRiskPanel    = "Risk Panel"
	SheetExaminations = "Examinations"
)

var (
	riskHeader = []string{"Factor", "Recorded Value", "Status"}
	examHeader = []string{"Category", "Test", "Result", "Status"}
)

// workbook wraps an excelize file with the shared styles.
type workbook struct {
	f        *excelize.File
	header   int
	label    int
	severity map[medicalreport.SeverityTier]int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	wb := &workbook{f: f, severity: make(map[medicalreport.SeverityTier]int)}

	var err error
	wb.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	wb.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create label style: %w", err)
	}
	for tier, colors := range medicalreport.SeverityPalette {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: colors.Text},
			Fill: excelize.Fill{Type: "pattern", Color: []string{colors.Fill}, Pattern: 1},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create %s style: %w", tier, err)
		}
		wb.severity[tier] = id
	}
	return wb, nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

func (wb *workbook) row(sheet string, row int, values ...interface{}) error {
	return wb.f.SetSheetRow(sheet, cellName(1, row), &values)
}

func (wb *workbook) headerRow(sheet string, row int, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := wb.row(sheet, row, values...); err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cellName(1, row), cellName(len(headers), row), wb.header)
}

func (wb *workbook) tint(sheet string, col, row int, tier medicalreport.SeverityTier) error {
	style, ok := wb.severity[tier]
	if !ok {
		style = wb.severity[medicalreport.SeverityNeutral]
	}
	cell := cellName(col, row)
	return wb.f.SetCellStyle(sheet, cell, cell, style)
}

func (wb *workbook) widths(sheet string, widths ...float64) error {
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) freezeHeader(sheet string, row int) error {
	return wb.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: cellName(1, row+1),
		ActivePane:  "bottomLeft",
	})
}

// ExecutiveWorkbook renders report as an .xlsx document with a summary
// sheet, the risk panel and the examination results. Status cells are filled
// with the severity palette.
func ExecutiveWorkbook(report *medicalreport.NormalizedReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}
	wb, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	defer wb.f.Close()

	if err := wb.f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetRiskPanel, SheetExaminations} {
		if _, err := wb.f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	if err := wb.writeSummary(report); err != nil {
		return nil, fmt.Errorf("write %s: %w", SheetSummary, err)
	}
	if err := wb.writeRiskPanel(report); err != nil {
		return nil, fmt.Errorf("write %s: %w", SheetRiskPanel, err)
	}
	if err := wb.writeExaminations(report); err != nil {
		return nil, fmt.Errorf("write %s: %w", SheetExaminations, err)
	}
	wb.f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := wb.f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (wb *workbook) writeSummary(report *medicalreport.NormalizedReport) error {
	sheet := SheetSummary
	row := 1

	block := func(title string, s medicalreport.Section) error {
		if len(s) == 0 {
			return nil
		}
		if err := wb.headerRow(sheet, row, []string{title, ""}); err != nil {
			return err
		}
		row++
		for _, k := range s.Keys() {
			if err := wb.row(sheet, row, rules.Humanize(k), s[k].String()); err != nil {
				return err
			}
			if err := wb.f.SetCellStyle(sheet, cellName(1, row), cellName(1, row), wb.label); err != nil {
				return err
			}
			row++
		}
		row++
		return nil
	}

	if err := block("Report", report.ReportHeading); err != nil {
		return err
	}
	if err := block("Personal Details", report.PersonalDetails.Fields); err != nil {
		return err
	}

	pd := report.PersonalDetails
	if err := wb.headerRow(sheet, row, []string{"Biometrics", "Value", "Status"}); err != nil {
		return err
	}
	row++
	biometrics := []struct {
		label  string
		value  float64
		status string
	}{
		{"BMI", pd.BMI, string(pd.BMIStatus)},
		{"Waist-to-Height Ratio (%)", pd.WHtRPercent, string(pd.WHtRStatus)},
	}
	for _, b := range biometrics {
		value := interface{}(b.value)
		if b.status == "" {
			value = "Not recorded"
		}
		if err := wb.row(sheet, row, b.label, value, b.status); err != nil {
			return err
		}
		if b.status != "" {
			if err := wb.tint(sheet, 3, row, biometricSeverity(b.status)); err != nil {
				return err
			}
		}
		row++
	}
	row++

	if report.Sections.ExecutiveSummary {
		if err := block("Overview", report.Overview); err != nil {
			return err
		}
	}
	if report.Sections.Recommendations {
		if err := block("Recommendations", report.NotesRecommendations); err != nil {
			return err
		}
	}
	return wb.widths(sheet, 32, 48, 18)
}

// biometricSeverity maps a biometric band onto a tier. BMI bands other than
// Normal are cautions, except Obese.
func biometricSeverity(band string) medicalreport.SeverityTier {
	switch band {
	case string(medicalreport.BMINormal):
		return medicalreport.SeveritySuccess
	case string(medicalreport.BMIObese):
		return medicalreport.SeverityDanger
	case string(medicalreport.BMIUnderweight), string(medicalreport.BMIOverweight):
		return medicalreport.SeverityCaution
	}
	return medicalreport.ClassifySeverity(medicalreport.Text(band))
}

func (wb *workbook) writeRiskPanel(report *medicalreport.NormalizedReport) error {
	sheet := SheetRiskPanel
	if err := wb.headerRow(sheet, 1, riskHeader); err != nil {
		return err
	}
	row := 2
	for _, f := range report.RiskFactors {
		if err := wb.row(sheet, row, f.Label, f.RawValue, string(f.Status)); err != nil {
			return err
		}
		if err := wb.tint(sheet, 3, row, f.Severity); err != nil {
			return err
		}
		row++
	}

	row++
	if err := wb.headerRow(sheet, row, []string{"Tier", "Count", "Percentage"}); err != nil {
		return err
	}
	row++
	for _, d := range report.RiskDistribution {
		if err := wb.row(sheet, row, string(d.Tier), d.Count, strconv.Itoa(d.Percentage)+"%"); err != nil {
			return err
		}
		if err := wb.tint(sheet, 1, row, medicalreport.ClassifySeverity(medicalreport.Text(d.Tier))); err != nil {
			return err
		}
		row++
	}

	if err := wb.widths(sheet, 32, 36, 16); err != nil {
		return err
	}
	return wb.freezeHeader(sheet, 1)
}

func (wb *workbook) writeExaminations(report *medicalreport.NormalizedReport) error {
	sheet := SheetExaminations
	if err := wb.headerRow(sheet, 1, examHeader); err != nil {
		return err
	}
	row := 2

	groups := []struct {
		category string
		results  []medicalreport.ExamResult
	}{
		{"Laboratory", report.LabResults},
		{"Clinical", report.ClinicalResults},
		{"Special Investigation", report.SpecialResults},
	}
	for _, g := range groups {
		for _, r := range g.results {
			if err := wb.row(sheet, row, g.category, r.Label, r.RawValue, string(r.Status)); err != nil {
				return err
			}
			if err := wb.tint(sheet, 4, row, r.Severity); err != nil {
				return err
			}
			row++
		}
	}
	for _, m := range report.MentalHealthLevels {
		if err := wb.row(sheet, row, "Mental Health", m.Label, m.RawValue, string(m.Level)); err != nil {
			return err
		}
		if err := wb.tint(sheet, 4, row, m.Severity); err != nil {
			return err
		}
		row++
	}
	for _, s := range report.GenderScreenings {
		if err := wb.row(sheet, row, "Screening", s.Label, s.Value, ""); err != nil {
			return err
		}
		row++
	}

	if err := wb.widths(sheet, 22, 32, 36, 26); err != nil {
		return err
	}
	return wb.freezeHeader(sheet, 1)
}
