// Package report renders a printable income summary.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/format"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/tax"
	"github.com/jung-kurt/gofpdf"
)

var columnWidths = []float64{18, 26, 30, 26, 22, 22, 23}

// Render writes a one page A4 summary of rows and totals to w.
func Render(w io.Writer, rows []income.Row, summary tax.Summary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252, the euro sign needs translating.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Income summary")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 9)
	headers := []string{"Year", "Kind", "Monthly salary", "Hourly rate", "Hours/day", "Days/year", "Gross"}
	for i, header := range headers {
		pdf.CellFormat(columnWidths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		gross, _ := tax.RowTotals(row)
		cells := []string{strconv.Itoa(row.Year), row.Kind.String(), "", "", "", "", tr(format.Euro(gross))}
		switch row.Kind {
		case income.KindSalaried:
			cells[2] = tr(format.Euro(row.MonthlySalary))
		case income.KindFreelance:
			cells[3] = tr(format.Euro(row.HourlyRate))
			cells[4] = strconv.FormatFloat(row.HoursPerDay, 'f', -1, 64)
			cells[5] = strconv.FormatFloat(row.DaysPerYear, 'f', -1, 64)
		}
		for i, cell := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(columnWidths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Salaried: %s (rate %.0f%%)", format.Euro(summary.Permanent), constants.PermanentTaxRate*100),
		fmt.Sprintf("Freelance: %s (rate %.0f%%)", format.Euro(summary.Freelance), constants.FreelanceTaxRate*100),
		fmt.Sprintf("Gross: %s", format.Euro(summary.Total)),
		fmt.Sprintf("Taxes: %s", format.Euro(summary.Taxes)),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, tr(line))
		pdf.Ln(7)
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Net: %s", format.Euro(summary.TotalAfterTaxes))))

	return pdf.Output(w)
}

// WritePDF renders the summary into the file at path, creating its directory.
func WritePDF(path string, rows []income.Row, summary tax.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := Render(file, rows, summary); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return file.Close()
}
