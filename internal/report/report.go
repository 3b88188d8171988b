// Package report draws summary plots of the ingested partitions.
package report

import (
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/ezoic/scoreprep/internal/dataset"
	"github.com/ezoic/scoreprep/pkg/errors"
)

const bins = 16

var (
	trainColor = color.NRGBA{R: 31, G: 119, B: 180, A: 140}
	testColor  = color.NRGBA{R: 255, G: 127, B: 14, A: 140}
)

// PlotNumericDistributions writes a PNG to path with one histogram panel per
// column, the train and test partitions overlaid.
func PlotNumericDistributions(train, test dataframe.DataFrame, columns []string, path string) error {
	if len(columns) == 0 {
		return errors.NewValueError("PlotNumericDistributions", "no columns to plot")
	}

	panels := make([]*plot.Plot, len(columns))
	for i, col := range columns {
		p, err := histogram(train, test, col)
		if err != nil {
			return err
		}
		panels[i] = p
	}

	width := vg.Length(len(columns)) * 4 * vg.Inch
	img := vgimg.New(width, 4*vg.Inch)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(columns),
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align([][]*plot.Plot{panels}, tiles, dc)
	for j, p := range panels {
		p.Draw(canvases[0][j])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer func() { _ = f.Close() }()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func histogram(train, test dataframe.DataFrame, col string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = col
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"

	for _, part := range []struct {
		name  string
		df    dataframe.DataFrame
		color color.Color
	}{
		{"train", train, trainColor},
		{"test", test, testColor},
	} {
		values, err := observed(part.df, col)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}
		h, err := plotter.NewHist(values, bins)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s histogram of %s", part.name, col)
		}
		h.FillColor = part.color
		h.LineStyle.Width = vg.Points(0.5)
		p.Add(h)
		p.Legend.Add(part.name, h)
	}
	p.Legend.Top = true
	return p, nil
}

func observed(df dataframe.DataFrame, col string) (plotter.Values, error) {
	raw, err := dataset.Float64Column(df, col)
	if err != nil {
		return nil, err
	}
	values := make(plotter.Values, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	return values, nil
}
