// Package ingestion copies the source dataset into the artifact directory and
// splits it into train and test partitions.
package ingestion

import (
	"os"
	"time"

	"github.com/ezoic/scoreprep/internal/config"
	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
	"github.com/ezoic/scoreprep/sklearn/model_selection"
)

// Ingestor runs the ingestion stage.
type Ingestor struct {
	cfg    *config.Config
	logger log.Logger
}

// New creates an Ingestor. A nil logger discards output.
func New(cfg *config.Config, logger log.Logger) *Ingestor {
	if logger == nil {
		logger = log.Nop()
	}
	return &Ingestor{
		cfg:    cfg,
		logger: logger.With(log.PhaseKey, log.PhaseIngestion),
	}
}

// Run reads the source CSV, writes the raw copy and both partitions, and
// returns the train and test paths. Existing artifacts are overwritten.
func (in *Ingestor) Run() (trainPath, testPath string, err error) {
	start := time.Now()
	in.logger.Info("Entered the data ingestion stage", log.PathKey, in.cfg.SourcePath)

	df, err := dataset.ReadCSV(in.cfg.SourcePath)
	if err != nil {
		return "", "", in.fail(in.cfg.SourcePath, err)
	}
	in.logger.Info("Read the dataset",
		log.SamplesKey, df.Nrow(),
		log.ColumnsKey, df.Ncol(),
	)

	if err := os.MkdirAll(in.cfg.ArtifactDir, 0o755); err != nil {
		return "", "", in.fail(in.cfg.ArtifactDir, errors.Wrap(err, "failed to create artifact directory"))
	}

	if err := dataset.WriteCSV(df, in.cfg.RawPath); err != nil {
		return "", "", in.fail(in.cfg.RawPath, err)
	}

	trainIdx, testIdx, err := model_selection.TrainTestSplit(df.Nrow(), in.cfg.Split.TestSize, in.cfg.Split.Seed)
	if err != nil {
		return "", "", in.fail(in.cfg.SourcePath, err)
	}
	in.logger.Info("Train test split initiated",
		log.OperationKey, log.OperationSplit,
		"split.train", len(trainIdx),
		"split.test", len(testIdx),
		"split.seed", in.cfg.Split.Seed,
	)

	train, err := dataset.Subset(df, trainIdx)
	if err != nil {
		return "", "", in.fail(in.cfg.TrainPath, err)
	}
	if err := dataset.WriteCSV(train, in.cfg.TrainPath); err != nil {
		return "", "", in.fail(in.cfg.TrainPath, err)
	}

	test, err := dataset.Subset(df, testIdx)
	if err != nil {
		return "", "", in.fail(in.cfg.TestPath, err)
	}
	if err := dataset.WriteCSV(test, in.cfg.TestPath); err != nil {
		return "", "", in.fail(in.cfg.TestPath, err)
	}

	in.logger.Info("Ingestion of the data is completed",
		log.OperationKey, log.OperationIngest,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return in.cfg.TrainPath, in.cfg.TestPath, nil
}

func (in *Ingestor) fail(path string, cause error) error {
	err := errors.NewIngestionError(path, cause)
	in.logger.Error("Data ingestion failed",
		log.StageKey, errors.StageIngestion,
		log.PathKey, path,
		log.ErrorKey, err.Error(),
	)
	return err
}
