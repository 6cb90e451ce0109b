// Package income defines the income row model shared by the calculator,
// the configuration loader and the worksheet.
package income

import (
	"fmt"
	"strings"

	"github.com/iwvelando/tax-calculator/pkg/constants"
)

// Kind discriminates the two income row variants.
type Kind string

const (
	// KindSalaried is a row defined by a monthly salary.
	KindSalaried Kind = "salaried"

	// KindFreelance is a row defined by an hourly rate and a workload.
	KindFreelance Kind = "freelance"
)

// ParseKind maps a user supplied label onto a Kind. "permanent" and "cdi"
// are accepted as aliases of salaried.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "salaried", "salary", "permanent", "cdi":
		return KindSalaried, nil
	case "freelance", "freelancer":
		return KindFreelance, nil
	default:
		return "", fmt.Errorf("unknown income kind %q", value)
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindSalaried || k == KindFreelance
}

func (k Kind) String() string {
	return string(k)
}

// Row is one income entry. Only the fields belonging to Kind are meaningful.
type Row struct {
	ID            string  `json:"id,omitempty" yaml:"id,omitempty"`
	Kind          Kind    `json:"kind" yaml:"kind"`
	Year          int     `json:"year" yaml:"year"`
	MonthlySalary float64 `json:"monthlySalary" yaml:"monthlySalary,omitempty"`
	HourlyRate    float64 `json:"hourlyRate" yaml:"hourlyRate,omitempty"`
	HoursPerDay   float64 `json:"hoursPerDay" yaml:"hoursPerDay,omitempty"`
	DaysPerYear   float64 `json:"daysPerYear" yaml:"daysPerYear,omitempty"`
}

// SalariedRow is the salaried view of a Row.
type SalariedRow struct {
	Year          int
	MonthlySalary float64
}

// FreelanceRow is the freelance view of a Row.
type FreelanceRow struct {
	Year        int
	HourlyRate  float64
	HoursPerDay float64
	DaysPerYear float64
}

// NewSalariedRow returns a salaried row with the form defaults.
func NewSalariedRow() Row {
	return Row{
		Kind: KindSalaried,
		Year: constants.DefaultYear,
	}
}

// NewFreelanceRow returns a freelance row with the form defaults.
func NewFreelanceRow() Row {
	return Row{
		Kind:        KindFreelance,
		Year:        constants.DefaultYear,
		HoursPerDay: constants.DefaultHoursPerDay,
		DaysPerYear: constants.DefaultDaysPerYear,
	}
}

// NewRow returns a default row of the given kind.
func NewRow(kind Kind) (Row, error) {
	switch kind {
	case KindSalaried:
		return NewSalariedRow(), nil
	case KindFreelance:
		return NewFreelanceRow(), nil
	default:
		return Row{}, fmt.Errorf("unknown income kind %q", kind)
	}
}

// Salaried returns the salaried view of the row, ok is false for any other kind.
func (r Row) Salaried() (SalariedRow, bool) {
	if r.Kind != KindSalaried {
		return SalariedRow{}, false
	}
	return SalariedRow{Year: r.Year, MonthlySalary: r.MonthlySalary}, true
}

// Freelance returns the freelance view of the row, ok is false for any other kind.
func (r Row) Freelance() (FreelanceRow, bool) {
	if r.Kind != KindFreelance {
		return FreelanceRow{}, false
	}
	return FreelanceRow{
		Year:        r.Year,
		HourlyRate:  r.HourlyRate,
		HoursPerDay: r.HoursPerDay,
		DaysPerYear: r.DaysPerYear,
	}, true
}

// Normalize clears the fields that do not belong to the row's kind.
func (r Row) Normalize() Row {
	switch r.Kind {
	case KindSalaried:
		r.HourlyRate, r.HoursPerDay, r.DaysPerYear = 0, 0, 0
	case KindFreelance:
		r.MonthlySalary = 0
	}
	return r
}

// Partition splits rows by kind, preserving order. Rows of an unknown kind
// belong to neither side.
func Partition(rows []Row) ([]SalariedRow, []FreelanceRow) {
	var salaried []SalariedRow
	var freelance []FreelanceRow
	for _, row := range rows {
		if s, ok := row.Salaried(); ok {
			salaried = append(salaried, s)
			continue
		}
		if f, ok := row.Freelance(); ok {
			freelance = append(freelance, f)
		}
	}
	return salaried, freelance
}
