package echarts

import (
	stderrors "errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/internal/errors"
)

const testHost = "https://assets.example.test/"

func sampleFigures() []*chart.Figure {
	box := chart.BoxStats{Label: "Price", N: 5, Min: 1, Q1: 2, Median: 3, Q3: 4, Max: 50,
		LowerWhisker: 1, UpperWhisker: 5, Outliers: []float64{50}}
	return []*chart.Figure{
		{ID: chart.PriceHistogram, Kind: chart.KindHistogram, Title: "Histogram Page",
			Histogram: &chart.Histogram{Edges: []float64{0, 1, 2}, Counts: []float64{3, 4}, Margin: &box}},
		{ID: chart.PriceBySubCategoryBox, Kind: chart.KindBox, Title: "Box Page",
			Boxes: []chart.BoxStats{box}},
		{ID: chart.PriceVsRatingScatter, Kind: chart.KindScatter, Title: "Scatter Page",
			Scatter: &chart.Scatter{SizeBy: "Reviews", MaxSize: 100, Series: []chart.ScatterSeries{
				{Name: "Home", Points: []chart.ScatterPoint{{X: 1, Y: 2, Size: 100, Label: "Lamp"}}},
			}}},
		{ID: chart.TopProductsByReviews, Kind: chart.KindBar, Title: "Bar Page",
			Bars: []chart.Bar{{Label: "Rug", Value: 3}, {Label: "Lamp", Value: 9}}},
		{ID: chart.CorrelationHeatmap, Kind: chart.KindHeatmap, Title: "Heatmap Page",
			Matrix: &chart.Matrix{Labels: []string{"Price", "Rating"}, Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}}}},
		{ID: chart.CategoryTreemap, Kind: chart.KindTreemap, Title: "Treemap Page",
			Tree: []chart.TreeNode{{Name: "Home", Value: 2, Children: []chart.TreeNode{{Name: "Lamps", Value: 2}}}}},
	}
}

func TestRender_EveryKind(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(testHost, nil)

	for _, fig := range sampleFigures() {
		t.Run(string(fig.Kind), func(t *testing.T) {
			path := filepath.Join(dir, fig.ID.HTMLFile())
			require.NoError(t, r.Render(fig, path))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			html := string(raw)
			assert.Contains(t, html, "<title>"+fig.Title+"</title>")
			assert.Contains(t, html, testHost+"echarts.min.js")
			assert.Contains(t, html, string(fig.ID)+"_main")
		})
	}
}

func TestRender_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 100000)), 0o644))

	fig := sampleFigures()[3]
	r := NewRenderer(testHost, nil)
	require.NoError(t, r.Render(fig, path))
	require.NoError(t, r.Render(fig, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "stale")
	assert.Equal(t, 1, strings.Count(string(raw), "<!DOCTYPE html>"))
}

func TestRender_HistogramWithMarginHasTwoCharts(t *testing.T) {
	page, err := NewRenderer(testHost, nil).Page(sampleFigures()[0])
	require.NoError(t, err)
	assert.Len(t, page.Charts, 2)
}

func TestRender_UnsupportedKind(t *testing.T) {
	fig := &chart.Figure{ID: "07_pie", Kind: "pie", Title: "Pie"}
	err := NewRenderer(testHost, nil).Render(fig, filepath.Join(t.TempDir(), "x.html"))

	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderError, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrUnsupportedFigure))
}

func TestRender_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "chart.html")
	err := NewRenderer(testHost, nil).Render(sampleFigures()[1], path)
	assert.Equal(t, errors.CodeRenderError, errors.GetCode(err))
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, "-", cellValue(math.NaN()))
	assert.Equal(t, 0.12, cellValue(0.1234))
	assert.Equal(t, -1.0, cellValue(-1))
}
