// Command prepare ingests the student-performance dataset, splits it, fits
// the preprocessor on the training partition and writes every artifact to the
// artifact directory.
//
// Usage:
//
//	prepare [config.yaml]
package main

import (
	"fmt"
	"os"

	"github.com/ezoic/scoreprep/internal/config"
	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/internal/ingestion"
	"github.com/ezoic/scoreprep/internal/report"
	"github.com/ezoic/scoreprep/internal/transformation"
	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "prepare: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 1 {
		return errors.New("usage: prepare [config.yaml]")
	}

	cfg := config.Default()
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return err
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := log.NewRunLogger(cfg.LogDir, log.ToLogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	trainPath, testPath, err := ingestion.New(cfg, logger).Run()
	if err != nil {
		return err
	}

	res, err := transformation.New(cfg, logger).Run(trainPath, testPath)
	if err != nil {
		return err
	}

	trainRows, width := res.Train.Dims()
	testRows, _ := res.Test.Dims()
	logger.Info("Data preparation finished",
		"train.shape", fmt.Sprintf("%dx%d", trainRows, width),
		"test.shape", fmt.Sprintf("%dx%d", testRows, width),
		log.PathKey, res.PreprocessorPath,
	)
	fmt.Printf("train %dx%d, test %dx%d, preprocessor %s\n", trainRows, width, testRows, width, res.PreprocessorPath)

	if cfg.ReportPath != "" {
		if err := writeReport(cfg, trainPath, testPath); err != nil {
			logger.Error("Report failed", log.ErrorKey, err.Error())
			return err
		}
		logger.Info("Report written", log.PathKey, cfg.ReportPath)
	}
	return nil
}

func writeReport(cfg *config.Config, trainPath, testPath string) error {
	train, err := dataset.ReadCSV(trainPath)
	if err != nil {
		return err
	}
	test, err := dataset.ReadCSV(testPath)
	if err != nil {
		return err
	}
	return report.PlotNumericDistributions(train, test, cfg.Schema.Numeric, cfg.ReportPath)
}
