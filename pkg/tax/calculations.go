// Package tax computes annualized and after-tax income totals from income rows
// using the flat rates in the constants package.
package tax

import (
	"sort"

	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/income"
)

// AnnualizedMonthlySalary converts a monthly amount into a yearly one.
func AnnualizedMonthlySalary(amount float64) float64 {
	return amount * constants.MonthsPerYear
}

// FreelancerYearlyRevenue returns the gross yearly revenue of a freelance row.
func FreelancerYearlyRevenue(row income.FreelanceRow) float64 {
	return row.HourlyRate * row.HoursPerDay * row.DaysPerYear
}

// FreelancerYearlyRevenueAfterTaxes returns the yearly revenue of a freelance
// row once the freelance rate has been removed.
func FreelancerYearlyRevenueAfterTaxes(row income.FreelanceRow) float64 {
	return FreelancerYearlyRevenue(row) * (1 - constants.FreelanceTaxRate)
}

// PermanentTotal sums the annualized salaries of the given rows.
func PermanentTotal(rows []income.SalariedRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += AnnualizedMonthlySalary(row.MonthlySalary)
	}
	return total
}

// PermanentTotalAfterTaxes sums the annualized salaries net of the permanent rate.
func PermanentTotalAfterTaxes(rows []income.SalariedRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += AnnualizedMonthlySalary(row.MonthlySalary) * (1 - constants.PermanentTaxRate)
	}
	return total
}

// FreelancerTotal sums the yearly revenue of the given rows.
func FreelancerTotal(rows []income.FreelanceRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += FreelancerYearlyRevenue(row)
	}
	return total
}

// FreelancerTotalAfterTaxes sums the yearly revenue net of the freelance rate.
func FreelancerTotalAfterTaxes(rows []income.FreelanceRow) float64 {
	total := 0.0
	for _, row := range rows {
		total += FreelancerYearlyRevenueAfterTaxes(row)
	}
	return total
}

// GrandTotal partitions rows by kind and adds the salaried and freelance totals.
func GrandTotal(rows []income.Row) float64 {
	salaried, freelance := income.Partition(rows)
	return PermanentTotal(salaried) + FreelancerTotal(freelance)
}

// GrandTotalAfterTaxes is GrandTotal net of the flat rates.
func GrandTotalAfterTaxes(rows []income.Row) float64 {
	salaried, freelance := income.Partition(rows)
	return PermanentTotalAfterTaxes(salaried) + FreelancerTotalAfterTaxes(freelance)
}

// Summary holds every aggregate derived from a row collection.
type Summary struct {
	Permanent           float64 `json:"permanent"`
	PermanentAfterTaxes float64 `json:"permanentAfterTaxes"`
	Freelance           float64 `json:"freelance"`
	FreelanceAfterTaxes float64 `json:"freelanceAfterTaxes"`
	Total               float64 `json:"total"`
	TotalAfterTaxes     float64 `json:"totalAfterTaxes"`
	Taxes               float64 `json:"taxes"`
	SalariedRows        int     `json:"salariedRows"`
	FreelanceRows       int     `json:"freelanceRows"`
}

// YearSummary is a Summary restricted to the rows of one year.
type YearSummary struct {
	Year int `json:"year"`
	Summary
}

// Summarize computes the before and after tax totals of rows.
func Summarize(rows []income.Row) Summary {
	salaried, freelance := income.Partition(rows)
	return summarizePartitions(salaried, freelance)
}

func summarizePartitions(salaried []income.SalariedRow, freelance []income.FreelanceRow) Summary {
	s := Summary{
		Permanent:           PermanentTotal(salaried),
		PermanentAfterTaxes: PermanentTotalAfterTaxes(salaried),
		Freelance:           FreelancerTotal(freelance),
		FreelanceAfterTaxes: FreelancerTotalAfterTaxes(freelance),
		SalariedRows:        len(salaried),
		FreelanceRows:       len(freelance),
	}
	s.Total = s.Permanent + s.Freelance
	s.TotalAfterTaxes = s.PermanentAfterTaxes + s.FreelanceAfterTaxes
	s.Taxes = s.Total - s.TotalAfterTaxes
	return s
}

// SummarizeByYear groups rows by year and summarizes each group. The result is
// ordered by ascending year.
func SummarizeByYear(rows []income.Row) []YearSummary {
	salariedByYear := make(map[int][]income.SalariedRow)
	freelanceByYear := make(map[int][]income.FreelanceRow)
	years := make(map[int]struct{})

	salaried, freelance := income.Partition(rows)
	for _, row := range salaried {
		salariedByYear[row.Year] = append(salariedByYear[row.Year], row)
		years[row.Year] = struct{}{}
	}
	for _, row := range freelance {
		freelanceByYear[row.Year] = append(freelanceByYear[row.Year], row)
		years[row.Year] = struct{}{}
	}

	ordered := make([]int, 0, len(years))
	for year := range years {
		ordered = append(ordered, year)
	}
	sort.Ints(ordered)

	result := make([]YearSummary, 0, len(ordered))
	for _, year := range ordered {
		result = append(result, YearSummary{
			Year:    year,
			Summary: summarizePartitions(salariedByYear[year], freelanceByYear[year]),
		})
	}
	return result
}

// RowTotals returns the gross and after-tax yearly amounts of a single row.
// Rows of an unknown kind yield zero.
func RowTotals(row income.Row) (float64, float64) {
	if s, ok := row.Salaried(); ok {
		gross := AnnualizedMonthlySalary(s.MonthlySalary)
		return gross, gross * (1 - constants.PermanentTaxRate)
	}
	if f, ok := row.Freelance(); ok {
		return FreelancerYearlyRevenue(f), FreelancerYearlyRevenueAfterTaxes(f)
	}
	return 0, 0
}
