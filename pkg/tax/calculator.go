package tax

import (
	"github.com/iwvelando/tax-calculator/pkg/income"
	"go.uber.org/zap"
)

// Calculator runs the pure calculations and reports what it computed to a logger.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator creates a new calculator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// Summarize computes the totals of rows.
func (c *Calculator) Summarize(rows []income.Row) Summary {
	summary := Summarize(rows)
	c.logger.Debug("income summarized",
		zap.String("op", "tax.Summarize"),
		zap.Int("salariedRows", summary.SalariedRows),
		zap.Int("freelanceRows", summary.FreelanceRows),
		zap.Float64("total", summary.Total),
		zap.Float64("totalAfterTaxes", summary.TotalAfterTaxes),
	)
	if skipped := len(rows) - summary.SalariedRows - summary.FreelanceRows; skipped > 0 {
		c.logger.Warn("rows of unknown kind were ignored",
			zap.String("op", "tax.Summarize"),
			zap.Int("skipped", skipped),
		)
	}
	return summary
}

// SummarizeByYear computes per-year totals of rows.
func (c *Calculator) SummarizeByYear(rows []income.Row) []YearSummary {
	years := SummarizeByYear(rows)
	c.logger.Debug("income summarized by year",
		zap.String("op", "tax.SummarizeByYear"),
		zap.Int("years", len(years)),
	)
	return years
}
