// Package constants provides shared constants for the tax-calculator application.
package constants

// Flat tax rates, expressed as the fraction of gross income removed as tax.
const (
	// PermanentTaxRate applies to salaried (permanent contract) income.
	PermanentTaxRate = 0.22

	// FreelanceTaxRate applies to freelance revenue.
	FreelanceTaxRate = 0.25
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// CurrencySymbol is appended to formatted amounts.
	CurrencySymbol = "€"
)

// Row constants
const (
	// MinYear is the earliest year accepted for an income row.
	MinYear = 1900

	// MaxYear is the latest year accepted for an income row.
	MaxYear = 2100

	// DefaultYear is the year assigned to freshly appended rows.
	DefaultYear = MinYear

	// DefaultHoursPerDay is the working day length assumed for new freelance rows.
	DefaultHoursPerDay = 8.0

	// DefaultDaysPerYear is the number of billable days assumed for new freelance rows.
	DefaultDaysPerYear = 220.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatPDF renders a printable summary to a file
	OutputFormatPDF = "pdf"

	// DefaultPDFOutputFile is used when the pdf format is selected without a file.
	DefaultPDFOutputFile = "income-summary.pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// EnvServerAddress overrides the configured listen address.
	EnvServerAddress = "TAX_CALCULATOR_ADDRESS"

	// EnvMaxBodySize overrides the configured maximum request body size.
	EnvMaxBodySize = "TAX_CALCULATOR_MAX_BODY_SIZE"
)
