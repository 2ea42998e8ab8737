package plotpng

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/internal/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func figures() []*chart.Figure {
	box := chart.BoxStats{Label: "Price", N: 6, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 40,
		LowerWhisker: 1, UpperWhisker: 5, Outliers: []float64{40}, Values: []float64{1, 2, 3, 4, 5, 40}}
	return []*chart.Figure{
		{ID: chart.PriceHistogram, Kind: chart.KindHistogram, Title: "Price Distribution", XLabel: "Price", YLabel: "Count",
			Histogram: &chart.Histogram{Edges: []float64{0, 10, 20, 30, 40}, Counts: []float64{4, 1, 0, 1}, Margin: &box}},
		{ID: chart.PriceBySubCategoryBox, Kind: chart.KindBox, Title: "Boxes",
			Boxes: []chart.BoxStats{box, {Label: "Rugs", N: 1, Min: 7, Q1: 7, Median: 7, Q3: 7, Max: 7, LowerWhisker: 7, UpperWhisker: 7}}},
		{ID: chart.PriceVsRatingScatter, Kind: chart.KindScatter, Title: "Scatter",
			Scatter: &chart.Scatter{SizeBy: "Reviews", MaxSize: 100, Series: []chart.ScatterSeries{
				{Name: "Home", Points: []chart.ScatterPoint{{X: 1, Y: 2, Size: 100}, {X: 3, Y: 4, Size: 1}}},
				{Name: "Garden", Points: []chart.ScatterPoint{{X: 2, Y: 3, Size: 50}}},
			}}},
		{ID: chart.TopProductsByReviews, Kind: chart.KindBar, Title: "Bars",
			Bars: []chart.Bar{{Label: "Rug", Value: 3}, {Label: "Lamp", Value: 9}}},
		{ID: chart.CorrelationHeatmap, Kind: chart.KindHeatmap, Title: "Heatmap",
			Matrix: &chart.Matrix{Labels: []string{"Price", "Rating"}, Values: [][]float64{{1, -0.5}, {-0.5, math.NaN()}}}},
		{ID: chart.CategoryTreemap, Kind: chart.KindTreemap, Title: "Treemap",
			Tree: []chart.TreeNode{
				{Name: "Home", Value: 3, Children: []chart.TreeNode{{Name: "Lamps", Value: 2}, {Name: "Rugs", Value: 1}}},
				{Name: "Garden", Value: 1, Children: []chart.TreeNode{{Name: "Tools", Value: 1}}},
			}},
	}
}

func TestExport_EveryKind(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(1, nil)
	defer e.Close()

	for _, fig := range figures() {
		t.Run(string(fig.Kind), func(t *testing.T) {
			path := filepath.Join(dir, fig.ID.PNGFile())
			require.NoError(t, e.Export(context.Background(), fig, "", path))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(raw, pngMagic))

			cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.InDelta(t, 1000, cfg.Width, 1)
			assert.InDelta(t, 600, cfg.Height, 1)
		})
	}
}

func TestExport_Scale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.png")
	require.NoError(t, NewExporter(2, nil).Export(context.Background(), figures()[3], "", path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.InDelta(t, 2000, cfg.Width, 2)
}

func TestExport_EmptyPayloads(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(1, nil)
	empty := []*chart.Figure{
		{ID: chart.PriceHistogram, Kind: chart.KindHistogram, Histogram: &chart.Histogram{}},
		{ID: chart.PriceBySubCategoryBox, Kind: chart.KindBox},
		{ID: chart.TopProductsByReviews, Kind: chart.KindBar},
		{ID: chart.CategoryTreemap, Kind: chart.KindTreemap},
	}
	for _, fig := range empty {
		assert.NoError(t, e.Export(context.Background(), fig, "", filepath.Join(dir, fig.ID.PNGFile())), fig.ID)
	}
}

func TestExport_Errors(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(dir, "cancelled.png")
	assert.ErrorIs(t, e.Export(ctx, figures()[0], "", path), context.Canceled)
	assert.NoFileExists(t, path)

	err := e.Export(context.Background(), &chart.Figure{ID: "x", Kind: "pie"}, "", filepath.Join(dir, "x.png"))
	assert.ErrorIs(t, err, core.ErrUnsupportedFigure)
	assert.Equal(t, errors.CodeRenderError, errors.GetCode(err))
}

func TestName(t *testing.T) {
	assert.Equal(t, "plot", NewExporter(2, nil).Name())
}

func TestExport_PanicBecomesRenderError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heatmap.png")
	ragged := &chart.Figure{ID: chart.CorrelationHeatmap, Kind: chart.KindHeatmap, Title: "Heatmap",
		Matrix: &chart.Matrix{Labels: []string{"Price", "Rating"}, Values: [][]float64{{1}}}}

	var err error
	require.NotPanics(t, func() {
		err = NewExporter(1, nil).Export(context.Background(), ragged, "", path)
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderError, errors.GetCode(err))
	assert.NoFileExists(t, path)
}

func TestExport_DegenerateScale(t *testing.T) {
	for _, scale := range []float64{0.004, math.NaN(), math.Inf(1), -2} {
		e := NewExporter(scale, nil)
		assert.GreaterOrEqual(t, e.dpi(), 1, "scale %v", scale)

		path := filepath.Join(t.TempDir(), "bars.png")
		require.NotPanics(t, func() {
			err := e.Export(context.Background(), figures()[3], "", path)
			if err != nil {
				assert.Equal(t, errors.CodeRenderError, errors.GetCode(err))
			}
		}, "scale %v", scale)
	}
	assert.Equal(t, 96, NewExporter(math.NaN(), nil).dpi())
}
