package figures

import (
	"sort"

	"pricecharts/domain/chart"
	"pricecharts/domain/dataset"
)

// BuildCategoryTreemap counts rows per Main Category, then per Sub Category within it
func BuildCategoryTreemap(ds *dataset.Dataset) (*chart.Figure, error) {
	if err := requireColumns(ds, dataset.ColumnMainCategory, dataset.ColumnSubCategory); err != nil {
		return nil, err
	}

	mains := ds.Strings(dataset.ColumnMainCategory)
	subs := ds.Strings(dataset.ColumnSubCategory)

	counts := make(map[string]map[string]int)
	for i := range mains {
		if mains[i] == "" || subs[i] == "" {
			continue
		}
		if counts[mains[i]] == nil {
			counts[mains[i]] = make(map[string]int)
		}
		counts[mains[i]][subs[i]]++
	}

	tree := make([]chart.TreeNode, 0, len(counts))
	for main, children := range counts {
		node := chart.TreeNode{Name: main}
		for sub, n := range children {
			node.Children = append(node.Children, chart.TreeNode{Name: sub, Value: n})
			node.Value += n
		}
		sortNodes(node.Children)
		tree = append(tree, node)
	}
	sortNodes(tree)

	return &chart.Figure{
		ID:    chart.CategoryTreemap,
		Kind:  chart.KindTreemap,
		Title: "Category Breakdown (treemap)",
		Tree:  tree,
	}, nil
}

// sortNodes orders by count descending, then name
func sortNodes(nodes []chart.TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Value != nodes[j].Value {
			return nodes[i].Value > nodes[j].Value
		}
		return nodes[i].Name < nodes[j].Name
	})
}
