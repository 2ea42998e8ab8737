package figures

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pricecharts/domain/chart"
	"pricecharts/domain/dataset"
)

// HistogramBins is the number of equal-width price bins
const HistogramBins = 40

// BuildPriceHistogram bins Price into HistogramBins buckets with a box-plot margin
func BuildPriceHistogram(ds *dataset.Dataset) (*chart.Figure, error) {
	if err := requireColumns(ds, dataset.ColumnPrice); err != nil {
		return nil, err
	}

	prices := present(floatsOf(ds, dataset.ColumnPrice))
	fig := &chart.Figure{
		ID:        chart.PriceHistogram,
		Kind:      chart.KindHistogram,
		Title:     "Price Distribution",
		XLabel:    "Price (GBP)",
		YLabel:    "Count",
		Histogram: &chart.Histogram{},
	}
	if len(prices) == 0 {
		return fig, nil
	}

	fig.Histogram.Edges, fig.Histogram.Counts = equalWidthHistogram(prices, HistogramBins)

	margin, err := summarize(dataset.ColumnPrice, prices)
	if err != nil {
		return nil, err
	}
	fig.Histogram.Margin = &margin

	return fig, nil
}

// equalWidthHistogram returns bins+1 edges spanning [min, max] and the count per bin.
// The maximum value lands in the last bin.
func equalWidthHistogram(values []float64, bins int) (edges, counts []float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges = floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram treats the last divider as exclusive.
	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	return edges, counts
}
