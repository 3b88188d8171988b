package ingestion_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/scoreprep/internal/config"
	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/internal/ingestion"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
	"github.com/ezoic/scoreprep/pkg/log"
)

func writeSource(t *testing.T, dir string, rows int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,score\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, 50+i)
	}
	path := filepath.Join(dir, "stud.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T, rows int) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default().WithArtifactDir(filepath.Join(dir, "artifacts"))
	cfg.SourcePath = writeSource(t, dir, rows)
	return cfg
}

func TestRunWritesPartitions(t *testing.T) {
	cfg := testConfig(t, 10)

	trainPath, testPath, err := ingestion.New(cfg, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, cfg.TrainPath, trainPath)
	assert.Equal(t, cfg.TestPath, testPath)

	raw, err := dataset.ReadCSV(cfg.RawPath)
	require.NoError(t, err)
	assert.Equal(t, 10, raw.Nrow())

	train, err := dataset.ReadCSV(trainPath)
	require.NoError(t, err)
	test, err := dataset.ReadCSV(testPath)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Nrow())
	assert.Equal(t, 2, test.Nrow())

	ids := append(train.Col("id").Records(), test.Col("id").Records()...)
	assert.ElementsMatch(t, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, ids)
}

func TestRunIsRepeatable(t *testing.T) {
	cfg := testConfig(t, 25)

	_, testPath, err := ingestion.New(cfg, nil).Run()
	require.NoError(t, err)
	first, err := os.ReadFile(testPath)
	require.NoError(t, err)

	_, _, err = ingestion.New(cfg, nil).Run()
	require.NoError(t, err)
	second, err := os.ReadFile(testPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunMissingSource(t *testing.T) {
	cfg := testConfig(t, 10)
	cfg.SourcePath = filepath.Join(t.TempDir(), "absent.csv")

	var buf bytes.Buffer
	_, _, err := ingestion.New(cfg, log.NewJSONLogger(&buf, log.ToLogLevel("info"))).Run()

	var ingErr *prepErrors.IngestionError
	require.True(t, errors.As(err, &ingErr))
	assert.Equal(t, prepErrors.StageIngestion, ingErr.Context.Stage)
	assert.Equal(t, cfg.SourcePath, ingErr.Context.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "absent.csv")
}

func TestRunTooFewRows(t *testing.T) {
	cfg := testConfig(t, 1)

	_, _, err := ingestion.New(cfg, nil).Run()
	var ingErr *prepErrors.IngestionError
	require.True(t, errors.As(err, &ingErr))
	assert.True(t, errors.Is(err, prepErrors.ErrInvalidValue))
}
