// Package dataset reads and writes the pipeline's CSV tables and converts
// their columns into the shapes the transformers consume.
//
// Tables are gota DataFrames loaded without type detection, so every cell is
// a string and the file's contents never change how a column is parsed.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/ezoic/scoreprep/pkg/errors"
)

// MissingTokens are the cell values treated as missing.
var MissingTokens = []string{"", "NA", "NaN", "nan", "<nil>", "null"}

// ReadCSV loads a CSV file with a header row.
func ReadCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "failed to parse %s", path)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.Wrapf(errors.ErrEmptyData, "%s has no rows", path)
	}
	return df, nil
}

// WriteCSV writes df with a header row, creating parent directories and
// overwriting an existing file. Missing cells are written empty.
func WriteCSV(df dataframe.DataFrame, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", path)
		}
	}()

	names := df.Names()
	cols := make([]series.Series, len(names))
	for j, name := range names {
		cols[j] = df.Col(name)
	}

	w := csv.NewWriter(f)
	if err := w.Write(names); err != nil {
		return errors.Wrapf(err, "failed to write header to %s", path)
	}
	record := make([]string, len(names))
	for i := 0; i < df.Nrow(); i++ {
		for j, col := range cols {
			record[j] = cell(col, i)
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "failed to write row %d to %s", i, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "failed to flush %s", path)
	}
	return nil
}

// Subset returns the rows of df at idx, in that order.
func Subset(df dataframe.DataFrame, idx []int) (dataframe.DataFrame, error) {
	out := df.Subset(idx)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(out.Err, "failed to subset rows")
	}
	return out, nil
}

// RequireColumns returns a SchemaError naming every column of cols absent
// from df.
func RequireColumns(df dataframe.DataFrame, cols ...string) error {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var missing []string
	for _, col := range cols {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingColumnsError(missing...)
	}
	return nil
}

// Float64Column parses col as numbers. Missing cells become NaN; infinite or
// unparsable cells are a SchemaError.
func Float64Column(df dataframe.DataFrame, col string) ([]float64, error) {
	if err := RequireColumns(df, col); err != nil {
		return nil, err
	}

	s := df.Col(col)
	out := make([]float64, s.Len())
	for i := range out {
		v := cell(s, i)
		if isMissing(v) {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, errors.NewCellError(col, i, fmt.Sprintf("non-numeric value %q", v))
		}
		if math.IsInf(f, 0) {
			return nil, errors.NewCellError(col, i, fmt.Sprintf("infinite value %q", v))
		}
		out[i] = f
	}
	return out, nil
}

// StringColumns returns the row-major cells of cols. Missing cells are "".
func StringColumns(df dataframe.DataFrame, cols []string) ([][]string, error) {
	if err := RequireColumns(df, cols...); err != nil {
		return nil, err
	}

	columns := make([]series.Series, len(cols))
	for j, col := range cols {
		columns[j] = df.Col(col)
	}

	out := make([][]string, df.Nrow())
	for i := range out {
		row := make([]string, len(cols))
		for j, s := range columns {
			if v := cell(s, i); !isMissing(v) {
				row[j] = v
			}
		}
		out[i] = row
	}
	return out, nil
}

func cell(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}

func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	for _, tok := range MissingTokens {
		if v == tok {
			return true
		}
	}
	return false
}
