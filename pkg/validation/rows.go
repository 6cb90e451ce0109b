package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/mathutil"
)

// ErrYearOutOfRange is returned for years outside [constants.MinYear, constants.MaxYear].
var ErrYearOutOfRange = errors.New("year out of range")

// ErrUnknownKind is returned for rows that are neither salaried nor freelance.
var ErrUnknownKind = errors.New("unknown income kind")

// ValidateYear checks that year lies within the supported range.
func ValidateYear(year int) error {
	if year < constants.MinYear || year > constants.MaxYear {
		return fmt.Errorf("%w: %d is not between %d and %d", ErrYearOutOfRange, year, constants.MinYear, constants.MaxYear)
	}
	return nil
}

// ValidateRow checks the discriminant and the year of a row. Amounts are not
// range checked: zero and negative values are computed literally.
func ValidateRow(row income.Row) error {
	if !row.Kind.Valid() {
		return fmt.Errorf("%w %q", ErrUnknownKind, row.Kind)
	}
	return ValidateYear(row.Year)
}

// ValidateRows returns the first invalid row, identified by its index.
func ValidateRows(rows []income.Row) error {
	for i, row := range rows {
		if err := ValidateRow(row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// RowWarnings reports rows that are valid but probably not what the user meant.
func RowWarnings(rows []income.Row) []string {
	var warnings []string
	for i, row := range rows {
		switch row.Kind {
		case income.KindSalaried:
			if mathutil.IsNegative(row.MonthlySalary) {
				warnings = append(warnings, fmt.Sprintf("Row %d (%d): negative monthly salary %.2f", i, row.Year, row.MonthlySalary))
			} else if mathutil.IsZero(row.MonthlySalary) {
				warnings = append(warnings, fmt.Sprintf("Row %d (%d): monthly salary is zero", i, row.Year))
			}
		case income.KindFreelance:
			if mathutil.IsNegative(row.HourlyRate) || mathutil.IsNegative(row.HoursPerDay) || mathutil.IsNegative(row.DaysPerYear) {
				warnings = append(warnings, fmt.Sprintf("Row %d (%d): negative freelance input", i, row.Year))
			} else if mathutil.IsZero(row.HourlyRate) || mathutil.IsZero(row.HoursPerDay) || mathutil.IsZero(row.DaysPerYear) {
				warnings = append(warnings, fmt.Sprintf("Row %d (%d): freelance revenue is zero", i, row.Year))
			}
		}
	}
	return warnings
}
