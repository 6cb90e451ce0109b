// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/tax-calculator/pkg/tax"
)

// FindYear finds the summary of a year in the results slice.
// Returns a pointer to the summary if found, nil otherwise.
func FindYear(years []tax.YearSummary, year int) *tax.YearSummary {
	for i := range years {
		if years[i].Year == year {
			return &years[i]
		}
	}
	return nil
}
