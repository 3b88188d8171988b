package dataset_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/scoreprep/internal/dataset"
	prepErrors "github.com/ezoic/scoreprep/pkg/errors"
)

const sample = `gender,lunch,reading_score,math_score
female,standard,72,71
male,,NA,69
female,free/reduced,90,
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadCSV(t *testing.T) {
	df, err := dataset.ReadCSV(writeFile(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 3, df.Nrow())
	assert.Equal(t, []string{"gender", "lunch", "reading_score", "math_score"}, df.Names())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := dataset.ReadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = dataset.ReadCSV(writeFile(t, "a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestFloat64Column(t *testing.T) {
	df, err := dataset.ReadCSV(writeFile(t, sample))
	require.NoError(t, err)

	reading, err := dataset.Float64Column(df, "reading_score")
	require.NoError(t, err)
	assert.Equal(t, 72.0, reading[0])
	assert.True(t, math.IsNaN(reading[1]))
	assert.Equal(t, 90.0, reading[2])

	_, err = dataset.Float64Column(df, "gender")
	var schemaErr *prepErrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, 0, schemaErr.Row)

	_, err = dataset.Float64Column(df, "writing_score")
	assert.True(t, errors.Is(err, prepErrors.ErrMissingColumn))
}

func TestStringColumns(t *testing.T) {
	df, err := dataset.ReadCSV(writeFile(t, sample))
	require.NoError(t, err)

	rows, err := dataset.StringColumns(df, []string{"lunch", "gender"})
	require.NoError(t, err)

	want := [][]string{
		{"standard", "female"},
		{"", "male"},
		{"free/reduced", "female"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("StringColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestRequireColumnsNamesAllMissing(t *testing.T) {
	df, err := dataset.ReadCSV(writeFile(t, sample))
	require.NoError(t, err)

	err = dataset.RequireColumns(df, "gender", "race_ethnicity", "writing_score")
	var schemaErr *prepErrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"race_ethnicity", "writing_score"}, schemaErr.Columns)

	assert.NoError(t, dataset.RequireColumns(df, "gender", "lunch"))
}

func TestWriteCSVSubsetRoundTrip(t *testing.T) {
	df, err := dataset.ReadCSV(writeFile(t, sample))
	require.NoError(t, err)

	sub, err := dataset.Subset(df, []int{2, 0})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, dataset.WriteCSV(sub, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "gender,lunch,reading_score,math_score\n"+
		"female,free/reduced,90,\n"+
		"female,standard,72,71\n", string(data))

	// overwrite
	require.NoError(t, dataset.WriteCSV(df, out))
	again, err := dataset.ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Nrow())
}

func TestFloat64ColumnRejectsInfinity(t *testing.T) {
	for _, tok := range []string{"Inf", "-inf", "+Infinity"} {
		df, err := dataset.ReadCSV(writeFile(t, "reading_score\n10\n"+tok+"\n30\n"))
		require.NoError(t, err)

		_, err = dataset.Float64Column(df, "reading_score")
		var schemaErr *prepErrors.SchemaError
		require.True(t, errors.As(err, &schemaErr), tok)
		assert.Equal(t, 1, schemaErr.Row)
		assert.Contains(t, schemaErr.Reason, "infinite")
	}
}
