package figures

import (
	"math"
	"sort"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
)

// TopSubCategories is how many of the most frequent sub categories get a box
const TopSubCategories = 10

// BuildPriceBySubCategory draws one price box per frequent sub category
func BuildPriceBySubCategory(ds *dataset.Dataset) (*chart.Figure, error) {
	if err := requireColumns(ds, dataset.ColumnSubCategory, dataset.ColumnPrice); err != nil {
		return nil, err
	}

	subs := ds.Strings(dataset.ColumnSubCategory)
	prices := floatsOf(ds, dataset.ColumnPrice)
	top := topValues(subs, TopSubCategories)

	byGroup := make(map[string][]float64, len(top))
	for i, sub := range subs {
		if !math.IsNaN(prices[i]) {
			byGroup[sub] = append(byGroup[sub], prices[i])
		}
	}

	fig := &chart.Figure{
		ID:     chart.PriceBySubCategoryBox,
		Kind:   chart.KindBox,
		Title:  "Price by Sub Category (top 10)",
		XLabel: "Sub Category",
		YLabel: "Price (GBP)",
	}
	for _, sub := range top {
		box, err := summarize(sub, byGroup[sub])
		if core.IsSkipError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		fig.Boxes = append(fig.Boxes, box)
	}

	return fig, nil
}

// topValues returns up to n distinct non-empty values by descending frequency.
// Equal counts keep the order in which the values first appear.
func topValues(values []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}
