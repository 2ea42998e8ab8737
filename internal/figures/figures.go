// Package figures turns a cleaned dataset into renderer-neutral chart figures.
// Each builder is independent of the others; a builder whose columns are absent
// returns an error matching core.IsSkipError.
package figures

import (
	"math"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
)

// Builder produces one figure from a cleaned dataset
type Builder func(ds *dataset.Dataset) (*chart.Figure, error)

// Step pairs a chart with the builder that produces it
type Step struct {
	ID    chart.ChartID
	Build Builder
}

// Steps returns every chart step in output order
func Steps() []Step {
	return []Step{
		{ID: chart.PriceHistogram, Build: BuildPriceHistogram},
		{ID: chart.PriceBySubCategoryBox, Build: BuildPriceBySubCategory},
		{ID: chart.PriceVsRatingScatter, Build: BuildPriceVsRating},
		{ID: chart.TopProductsByReviews, Build: BuildTopProductsByReviews},
		{ID: chart.CorrelationHeatmap, Build: BuildCorrelationHeatmap},
		{ID: chart.CategoryTreemap, Build: BuildCategoryTreemap},
	}
}

func requireColumns(ds *dataset.Dataset, names ...string) error {
	if missing := ds.MissingColumns(names...); len(missing) > 0 {
		return core.NewMissingColumnError(missing...)
	}
	return nil
}

// floatsOf returns a numeric column, or an all-missing column when the
// column exists but is not numeric.
func floatsOf(ds *dataset.Dataset, name string) []float64 {
	if values := ds.Floats(name); values != nil {
		return values
	}
	values := make([]float64, ds.NumRows())
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
