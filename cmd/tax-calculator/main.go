package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/tax-calculator/internal/config"
	"github.com/iwvelando/tax-calculator/pkg/constants"
	"github.com/iwvelando/tax-calculator/pkg/output"
	"github.com/iwvelando/tax-calculator/pkg/report"
	"github.com/iwvelando/tax-calculator/pkg/tax"
	"github.com/iwvelando/tax-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, pdf")
	outputFileFlag := flag.String("output-file", "", "destination of the pdf report")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := conf.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over the config file
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	rows, err := conf.Validate()
	if err != nil {
		logger.Fatal("invalid income rows",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	calculator := tax.NewCalculator(logger)
	summary := calculator.Summarize(rows)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, rows, calculator.SummarizeByYear(rows), summary)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, rows, summary)
	case constants.OutputFormatPDF:
		outputFile := conf.Output.File
		if *outputFileFlag != "" {
			outputFile = *outputFileFlag
		}
		if outputFile == "" {
			outputFile = constants.DefaultPDFOutputFile
		}
		if err := report.WritePDF(outputFile, rows, summary); err != nil {
			logger.Fatal("failed to write pdf report",
				zap.String("op", "main"),
				zap.String("file", outputFile),
				zap.Error(err),
			)
		}
		logger.Info("pdf report written",
			zap.String("op", "main"),
			zap.String("file", outputFile),
		)
	}
}
