// Package config defines the data structures of the calculator input file and
// includes functions for loading it and turning it into income rows.
package config

import (
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for tax-calculator.
type Configuration struct {
	Rows    []RowConfig   `yaml:"rows"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, pdf
	File   string `yaml:"file,omitempty"`   // destination of the pdf format
}

// RowConfig is one income row as written in the configuration file or sent
// to the API. Year and workload are pointers so that an omitted value can
// fall back to the default of a new row.
type RowConfig struct {
	Kind          string   `yaml:"kind" json:"kind"`
	Year          *int     `yaml:"year,omitempty" json:"year,omitempty"`
	MonthlySalary float64  `yaml:"monthlySalary,omitempty" json:"monthlySalary,omitempty"`
	HourlyRate    float64  `yaml:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	HoursPerDay   *float64 `yaml:"hoursPerDay,omitempty" json:"hoursPerDay,omitempty"`
	DaysPerYear   *float64 `yaml:"daysPerYear,omitempty" json:"daysPerYear,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		rejectFractionalInts(),
	))
	if err := v.Unmarshal(&configuration, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// rejectFractionalInts stops mapstructure from truncating a value such as
// 2024.7 when it lands in an integer field.
func rejectFractionalInts() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		default:
			return data, nil
		}
		if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
			return data, nil
		}
		if f := reflect.ValueOf(data).Float(); f != math.Trunc(f) {
			return nil, fmt.Errorf("expected an integer, got %v", data)
		}
		return data, nil
	}
}

// ToRow converts the configured row into an income.Row, applying the
// defaults of a new row where values were omitted.
func (rc RowConfig) ToRow() (income.Row, error) {
	kind, err := income.ParseKind(rc.Kind)
	if err != nil {
		return income.Row{}, err
	}

	row, err := income.NewRow(kind)
	if err != nil {
		return income.Row{}, err
	}
	if rc.Year != nil {
		row.Year = *rc.Year
	}

	switch kind {
	case income.KindSalaried:
		row.MonthlySalary = rc.MonthlySalary
	case income.KindFreelance:
		row.HourlyRate = rc.HourlyRate
		if rc.HoursPerDay != nil {
			row.HoursPerDay = *rc.HoursPerDay
		}
		if rc.DaysPerYear != nil {
			row.DaysPerYear = *rc.DaysPerYear
		}
	}
	return row, nil
}

// KindOnly reports whether only the kind was given, i.e. the row should be
// created with every default.
func (rc RowConfig) KindOnly() bool {
	return rc.Year == nil && rc.MonthlySalary == 0 && rc.HourlyRate == 0 &&
		rc.HoursPerDay == nil && rc.DaysPerYear == nil
}

// FromRow converts an income.Row back into its configuration form.
func FromRow(row income.Row) RowConfig {
	year := row.Year
	rc := RowConfig{Kind: row.Kind.String(), Year: &year}
	switch row.Kind {
	case income.KindSalaried:
		rc.MonthlySalary = row.MonthlySalary
	case income.KindFreelance:
		hours, days := row.HoursPerDay, row.DaysPerYear
		rc.HourlyRate = row.HourlyRate
		rc.HoursPerDay = &hours
		rc.DaysPerYear = &days
	}
	return rc
}

// FromRows converts rows into a configuration holding them.
func FromRows(rows []income.Row) Configuration {
	conf := Configuration{Rows: make([]RowConfig, 0, len(rows))}
	for _, row := range rows {
		conf.Rows = append(conf.Rows, FromRow(row))
	}
	return conf
}

// IncomeRows converts every configured row, stopping at the first invalid kind.
func (conf *Configuration) IncomeRows() ([]income.Row, error) {
	rows := make([]income.Row, 0, len(conf.Rows))
	for i, rc := range conf.Rows {
		row, err := rc.ToRow()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Validate converts the configured rows and checks them, returning the rows
// ready for calculation.
func (conf *Configuration) Validate() ([]income.Row, error) {
	rows, err := conf.IncomeRows()
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if len(conf.Rows) == 0 {
		warnings = append(warnings, "no income rows configured, totals will be zero")
	}

	if conf.Output.File != "" && conf.Output.Format != "" && conf.Output.Format != constants.OutputFormatPDF {
		warnings = append(warnings, fmt.Sprintf("output file %s is ignored by the %s format", conf.Output.File, conf.Output.Format))
	}

	rows, err := conf.IncomeRows()
	if err != nil {
		return warnings
	}
	return append(warnings, validation.RowWarnings(rows)...)
}
