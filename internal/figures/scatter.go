package figures

import (
	"math"

	"pricecharts/domain/chart"
	"pricecharts/domain/dataset"
)

// BuildPriceVsRating plots Price against Rating. Reviews, Main Category and
// Product Name map to marker size, colour group and hover label when present.
func BuildPriceVsRating(ds *dataset.Dataset) (*chart.Figure, error) {
	if err := requireColumns(ds, dataset.ColumnPrice, dataset.ColumnRating); err != nil {
		return nil, err
	}

	prices := floatsOf(ds, dataset.ColumnPrice)
	ratings := floatsOf(ds, dataset.ColumnRating)

	scatter := &chart.Scatter{}
	var sizes []float64
	if ds.HasColumn(dataset.ColumnReviews) {
		scatter.SizeBy = dataset.ColumnReviews
		sizes = floatsOf(ds, dataset.ColumnReviews)
	}
	var groups []string
	if ds.HasColumn(dataset.ColumnMainCategory) {
		scatter.ColorBy = dataset.ColumnMainCategory
		groups = ds.Strings(dataset.ColumnMainCategory)
	}
	var labels []string
	if ds.HasColumn(dataset.ColumnProductName) {
		scatter.HoverBy = dataset.ColumnProductName
		labels = ds.Strings(dataset.ColumnProductName)
	}

	seriesIndex := make(map[string]int)
	for i := range prices {
		if math.IsNaN(prices[i]) || math.IsNaN(ratings[i]) {
			continue
		}
		point := chart.ScatterPoint{X: prices[i], Y: ratings[i]}

		if sizes != nil {
			if math.IsNaN(sizes[i]) {
				continue
			}
			point.Size = sizes[i]
			scatter.MaxSize = math.Max(scatter.MaxSize, sizes[i])
		}

		group := "Products"
		if groups != nil {
			if groups[i] == "" {
				continue
			}
			group = groups[i]
		}

		if labels != nil {
			point.Label = labels[i]
		}

		idx, ok := seriesIndex[group]
		if !ok {
			idx = len(scatter.Series)
			seriesIndex[group] = idx
			scatter.Series = append(scatter.Series, chart.ScatterSeries{Name: group})
		}
		scatter.Series[idx].Points = append(scatter.Series[idx].Points, point)
	}

	return &chart.Figure{
		ID:      chart.PriceVsRatingScatter,
		Kind:    chart.KindScatter,
		Title:   "Price vs Rating (size=Reviews)",
		XLabel:  "Price (GBP)",
		YLabel:  "Rating",
		Scatter: scatter,
	}, nil
}
