package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/validation"
)

func intPtr(v int) *int {
	return &v
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}

	if conf.Logging.Format != "console" {
		t.Errorf("expected console logging, got %q", conf.Logging.Format)
	}
	if conf.Output.Format != "pretty" {
		t.Errorf("expected pretty output, got %q", conf.Output.Format)
	}

	rows, err := conf.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// The last row omits its workload and must receive the defaults.
	last := rows[2]
	if last.Kind != income.KindFreelance || last.HoursPerDay != 8 || last.DaysPerYear != 220 {
		t.Errorf("unexpected defaulted row %+v", last)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	configYAML := `
rows:
  - kind: permanent
    year: 2024
    monthlySalary: 3000
    hourlyRate: 12
  - kind: freelance
    year: 2024
    hourlyRate: 50
    hoursPerDay: 0
    daysPerYear: 220
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(configYAML))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader failed: %v", err)
	}

	rows, err := conf.IncomeRows()
	if err != nil {
		t.Fatalf("IncomeRows failed: %v", err)
	}

	if rows[0].Kind != income.KindSalaried || rows[0].MonthlySalary != 3000 {
		t.Errorf("unexpected salaried row %+v", rows[0])
	}
	if rows[0].HourlyRate != 0 {
		t.Errorf("salaried row must not carry freelance fields, got %+v", rows[0])
	}
	if rows[1].HoursPerDay != 0 {
		t.Errorf("explicit zero hours must be kept, got %v", rows[1].HoursPerDay)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("rows: ["))
	if err == nil {
		t.Fatal("expected error for invalid yaml")
	}
	if !strings.Contains(err.Error(), "error reading config data") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoadConfigurationRejectsFractionalYear(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectError bool
	}{
		{"Fractional year", "rows:\n  - kind: salaried\n    year: 2024.7\n    monthlySalary: 3000\n", true},
		{"Whole float year", "rows:\n  - kind: salaried\n    year: 2024.0\n    monthlySalary: 3000\n", false},
		{"Integer year", "rows:\n  - kind: salaried\n    year: 2024\n    monthlySalary: 3000\n", false},
		{"Fractional salary is fine", "rows:\n  - kind: salaried\n    year: 2024\n    monthlySalary: 3000.5\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected an error, got rows %+v", conf.Rows)
				}
				if !strings.Contains(err.Error(), "expected an integer") {
					t.Errorf("unexpected error message %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader failed: %v", err)
			}
			rows, err := conf.Validate()
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if rows[0].Year != 2024 {
				t.Errorf("expected year 2024, got %d", rows[0].Year)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		rows        []RowConfig
		expectErr   bool
		expectedErr error
	}{
		{
			name: "Valid rows",
			rows: []RowConfig{
				{Kind: "salaried", Year: intPtr(2024), MonthlySalary: 3000},
				{Kind: "freelance", Year: intPtr(2100), HourlyRate: 50},
			},
		},
		{
			name:      "Missing kind",
			rows:      []RowConfig{{Year: intPtr(2024), MonthlySalary: 3000}},
			expectErr: true,
		},
		{
			name:        "Year out of range",
			rows:        []RowConfig{{Kind: "salaried", Year: intPtr(1899)}},
			expectErr:   true,
			expectedErr: validation.ErrYearOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Configuration{Rows: tt.rows}
			rows, err := conf.Validate()
			if tt.expectErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if tt.expectedErr != nil && !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if len(rows) != len(tt.rows) {
				t.Errorf("expected %d rows, got %d", len(tt.rows), len(rows))
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name            string
		conf            Configuration
		expectWarnCount int
	}{
		{
			name:            "No rows",
			conf:            Configuration{},
			expectWarnCount: 1,
		},
		{
			name: "Zero salary and ignored output file",
			conf: Configuration{
				Rows:   []RowConfig{{Kind: "salaried", Year: intPtr(2024)}},
				Output: OutputConfig{Format: "csv", File: "out.pdf"},
			},
			expectWarnCount: 2,
		},
		{
			name: "Healthy configuration",
			conf: Configuration{
				Rows:   []RowConfig{{Kind: "salaried", Year: intPtr(2024), MonthlySalary: 2500}},
				Output: OutputConfig{Format: "pdf", File: "out.pdf"},
			},
			expectWarnCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			if len(warnings) != tt.expectWarnCount {
				t.Errorf("ValidateConfiguration() returned %d warnings, expected %d: %v",
					len(warnings), tt.expectWarnCount, warnings)
			}
		})
	}
}

func TestRowDefaultsWhenOmitted(t *testing.T) {
	row, err := RowConfig{Kind: "freelance", HourlyRate: 45}.ToRow()
	if err != nil {
		t.Fatalf("ToRow failed: %v", err)
	}
	if row.Year != 1900 || row.HoursPerDay != 8 || row.DaysPerYear != 220 {
		t.Errorf("expected new-row defaults, got %+v", row)
	}
}

func TestFromRowsRoundTrip(t *testing.T) {
	rows := []income.Row{
		{Kind: income.KindSalaried, Year: 2024, MonthlySalary: 3000},
		{Kind: income.KindFreelance, Year: 2025, HourlyRate: 50, HoursPerDay: 0, DaysPerYear: 200},
	}

	conf := FromRows(rows)
	converted, err := conf.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for i := range rows {
		if converted[i] != rows[i] {
			t.Errorf("row %d = %+v, expected %+v", i, converted[i], rows[i])
		}
	}
}

func TestKindOnly(t *testing.T) {
	year := 2024
	hours := 6.0
	tests := []struct {
		name     string
		rc       RowConfig
		expected bool
	}{
		{"Kind alone", RowConfig{Kind: "salaried"}, true},
		{"With year", RowConfig{Kind: "salaried", Year: &year}, false},
		{"With salary", RowConfig{Kind: "salaried", MonthlySalary: 1}, false},
		{"With hours", RowConfig{Kind: "freelance", HoursPerDay: &hours}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rc.KindOnly(); got != tt.expected {
				t.Errorf("KindOnly() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
