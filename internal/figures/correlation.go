package figures

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
)

// BuildCorrelationHeatmap computes pairwise Pearson correlation over every numeric column
func BuildCorrelationHeatmap(ds *dataset.Dataset) (*chart.Figure, error) {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("%d numeric column(s), need at least 2", len(numeric)))
	}

	columns := make([][]float64, len(numeric))
	for i, name := range numeric {
		columns[i] = ds.Floats(name)
	}

	values := make([][]float64, len(numeric))
	for i := range values {
		values[i] = make([]float64, len(numeric))
	}
	for i := range numeric {
		for j := i; j < len(numeric); j++ {
			r := pairwiseCorrelation(columns[i], columns[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			values[i][j], values[j][i] = r, r
		}
	}

	return &chart.Figure{
		ID:    chart.CorrelationHeatmap,
		Kind:  chart.KindHeatmap,
		Title: "Numeric Feature Correlation",
		Matrix: &chart.Matrix{
			Labels: numeric,
			Values: values,
		},
	}, nil
}

// pairwiseCorrelation uses only rows where both values are present.
// It is NaN with fewer than two such rows or when either side is constant.
func pairwiseCorrelation(x, y []float64) float64 {
	var xs, ys []float64
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		xs = append(xs, x[k])
		ys = append(ys, y[k])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
