// Package output provides utilities for formatting and displaying income totals.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/mathutil"
	"github.com/iwvelando/tax-calculator/pkg/tax"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, rows []income.Row, years []tax.YearSummary, summary tax.Summary) {
	// Years go through strconv so the printer does not group their digits.
	p := message.NewPrinter(language.English)

	_, _ = fmt.Fprintf(w, "--- Income rows ---\n")
	_, _ = fmt.Fprintf(w, "Year | Kind      | Monthly salary | Hourly rate | Hours/day | Days/year | Gross         | After taxes\n")
	_, _ = fmt.Fprintf(w, "____ | _________ | ______________ | ___________ | _________ | _________ | _____________ | ___________\n")
	for _, row := range rows {
		gross, net := tax.RowTotals(row)
		switch row.Kind {
		case income.KindSalaried:
			_, _ = p.Fprintf(w, "%s | %-9s | %.2f | - | - | - | %.2f %s | %.2f %s\n",
				strconv.Itoa(row.Year), row.Kind, row.MonthlySalary, gross, constants.CurrencySymbol, net, constants.CurrencySymbol)
		default:
			_, _ = p.Fprintf(w, "%s | %-9s | - | %.2f | %.2f | %.2f | %.2f %s | %.2f %s\n",
				strconv.Itoa(row.Year), row.Kind, row.HourlyRate, row.HoursPerDay, row.DaysPerYear, gross, constants.CurrencySymbol, net, constants.CurrencySymbol)
		}
	}

	if len(years) > 1 {
		_, _ = fmt.Fprintf(w, "\n--- Totals by year ---\n")
		_, _ = fmt.Fprintf(w, "Year | Total         | After taxes\n")
		_, _ = fmt.Fprintf(w, "____ | _____________ | ___________\n")
		for _, year := range years {
			_, _ = p.Fprintf(w, "%s | %.2f %s | %.2f %s\n",
				strconv.Itoa(year.Year), year.Total, constants.CurrencySymbol, year.TotalAfterTaxes, constants.CurrencySymbol)
		}
	}

	_, _ = fmt.Fprintf(w, "\n--- Totals ---\n")
	_, _ = p.Fprintf(w, "Salaried    : %.2f %s (after taxes %.2f %s)\n",
		summary.Permanent, constants.CurrencySymbol, summary.PermanentAfterTaxes, constants.CurrencySymbol)
	_, _ = p.Fprintf(w, "Freelance   : %.2f %s (after taxes %.2f %s)\n",
		summary.Freelance, constants.CurrencySymbol, summary.FreelanceAfterTaxes, constants.CurrencySymbol)
	_, _ = p.Fprintf(w, "Total       : %.2f %s\n", summary.Total, constants.CurrencySymbol)
	_, _ = p.Fprintf(w, "Total after taxes : %.2f %s\n", summary.TotalAfterTaxes, constants.CurrencySymbol)
	_, _ = p.Fprintf(w, "Taxes       : %.2f %s (%.1f%%)\n",
		summary.Taxes, constants.CurrencySymbol, mathutil.CalculatePercentage(summary.Taxes, summary.Total))
}

// CsvFormat writes rows and totals in comma-separated value format.
func CsvFormat(w io.Writer, rows []income.Row, summary tax.Summary) {
	_, _ = fmt.Fprintf(w, `"year","kind","monthlySalary","hourlyRate","hoursPerDay","daysPerYear","gross","afterTaxes"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, row := range rows {
		gross, net := tax.RowTotals(row)
		_, _ = fmt.Fprintf(w, `"%d","%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f"`,
			row.Year, row.Kind, row.MonthlySalary, row.HourlyRate, row.HoursPerDay, row.DaysPerYear, gross, net)
		_, _ = fmt.Fprintf(w, "\n")
	}
	_, _ = fmt.Fprintf(w, `"total","","","","","","%.2f","%.2f"`, summary.Total, summary.TotalAfterTaxes)
	_, _ = fmt.Fprintf(w, "\n")
}

// CsvString returns the CSV rendering as a string.
func CsvString(rows []income.Row, summary tax.Summary) string {
	var b strings.Builder
	CsvFormat(&b, rows, summary)
	return b.String()
}
