package figures

import (
	"math"
	"sort"

	"pricecharts/domain/chart"
	"pricecharts/domain/dataset"
)

// TopReviewedProducts is how many rows are taken before de-duplication
const TopReviewedProducts = 15

// BuildTopProductsByReviews ranks rows by Reviews, keeps the top 15, drops
// repeated (Product Name, Reviews) pairs and orders the bars ascending so a
// horizontal chart shows the largest value at the top.
func BuildTopProductsByReviews(ds *dataset.Dataset) (*chart.Figure, error) {
	if err := requireColumns(ds, dataset.ColumnReviews, dataset.ColumnProductName); err != nil {
		return nil, err
	}

	reviews := floatsOf(ds, dataset.ColumnReviews)
	names := ds.Strings(dataset.ColumnProductName)

	var ranked []chart.Bar
	for i := range reviews {
		if math.IsNaN(reviews[i]) || names[i] == "" {
			continue
		}
		ranked = append(ranked, chart.Bar{Label: names[i], Value: reviews[i]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Value > ranked[j].Value
	})
	if len(ranked) > TopReviewedProducts {
		ranked = ranked[:TopReviewedProducts]
	}

	seen := make(map[chart.Bar]bool, len(ranked))
	bars := make([]chart.Bar, 0, len(ranked))
	for _, bar := range ranked {
		if seen[bar] {
			continue
		}
		seen[bar] = true
		bars = append(bars, bar)
	}

	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	return &chart.Figure{
		ID:     chart.TopProductsByReviews,
		Kind:   chart.KindBar,
		Title:  "Top 15 Products by Reviews",
		XLabel: "Reviews",
		YLabel: "Product Name",
		Bars:   bars,
	}, nil
}
