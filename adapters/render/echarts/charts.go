package echarts

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pricecharts/domain/chart"
)

// heatmap colour ramp from -1 (blue) through 0 (white) to 1 (red)
var divergingColors = []string{"#2166ac", "#67a9cf", "#f7f7f7", "#ef8a62", "#b2182b"}

// init sizes the chart and turns animation off so a page is fully drawn once loaded
func (r *Renderer) init(fig *chart.Figure, part, height string) charts.GlobalOpts {
	initialization := charts.WithInitializationOpts(opts.Initialization{
		PageTitle:  fig.Title,
		Width:      pageWidth,
		Height:     height,
		AssetsHost: r.assetsHost,
		ChartID:    fmt.Sprintf("%s_%s", fig.ID, part),
	})
	return func(bc *charts.BaseConfiguration) {
		initialization(bc)
		charts.WithAnimation(false)(bc)
	}
}

func title(text string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{Title: text})
}

func (r *Renderer) histogram(fig *chart.Figure) *charts.Bar {
	h := fig.Histogram
	labels := make([]string, len(h.Counts))
	data := make([]opts.BarData, len(h.Counts))
	for i, count := range h.Counts {
		labels[i] = fmt.Sprintf("%.2f–%.2f", h.Edges[i], h.Edges[i+1])
		data[i] = opts.BarData{Value: count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(titleUnlessMargin(fig)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel, NameLocation: "middle", NameGap: 30, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.YLabel}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(fig.YLabel, data, charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}))
	return bar
}

func titleUnlessMargin(fig *chart.Figure) string {
	if fig.Histogram.Margin != nil {
		return ""
	}
	return fig.Title
}

// histogramMargin is the horizontal box plot drawn above the histogram
func (r *Renderer) histogramMargin(fig *chart.Figure) *charts.BoxPlot {
	m := fig.Histogram.Margin
	lo, hi := fig.Histogram.Edges[0], fig.Histogram.Edges[len(fig.Histogram.Edges)-1]

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		r.init(fig, "margin", marginHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: lo, Max: hi}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: []string{m.Label}}),
	)
	box.AddSeries(m.Label, []opts.BoxPlotData{boxData(*m)})

	if len(m.Outliers) > 0 {
		outliers := make([]opts.ScatterData, len(m.Outliers))
		for i, v := range m.Outliers {
			outliers[i] = opts.ScatterData{Value: []interface{}{v, 0}, SymbolSize: 5}
		}
		scatter := charts.NewScatter()
		scatter.AddSeries("outliers", outliers)
		box.Overlap(scatter)
	}
	return box
}

func boxData(b chart.BoxStats) opts.BoxPlotData {
	return opts.BoxPlotData{
		Name:  b.Label,
		Value: []float64{b.LowerWhisker, b.Q1, b.Median, b.Q3, b.UpperWhisker},
	}
}

func (r *Renderer) boxPlot(fig *chart.Figure) *charts.BoxPlot {
	labels := make([]string, len(fig.Boxes))
	data := make([]opts.BoxPlotData, len(fig.Boxes))
	var outliers []opts.ScatterData
	for i, b := range fig.Boxes {
		labels[i] = b.Label
		data[i] = boxData(b)
		for _, v := range b.Outliers {
			outliers = append(outliers, opts.ScatterData{Value: []interface{}{i, v}, SymbolSize: 5})
		}
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      fig.XLabel,
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.YLabel}),
		charts.WithGridOpts(opts.Grid{ContainLabel: opts.Bool(true)}),
	)
	box.SetXAxis(labels)
	box.AddSeries(fig.YLabel, data)

	if len(outliers) > 0 {
		scatter := charts.NewScatter()
		scatter.AddSeries("outliers", outliers)
		box.Overlap(scatter)
	}
	return box
}

const scatterTooltip = `function (p) {
	var head = p.name ? p.name + '<br/>' : '';
	return head + p.seriesName + '<br/>x: ' + p.value[0] + '<br/>y: ' + p.value[1] +
		(p.value.length > 2 ? '<br/>size: ' + p.value[2] : '');
}`

func (r *Renderer) scatter(fig *chart.Figure) *charts.Scatter {
	s := fig.Scatter

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: opts.FuncOpts(scatterTooltip)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(s.Series) > 1), Type: "scroll", Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel, NameLocation: "middle", NameGap: 30, Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: fig.YLabel, Type: "value", Scale: opts.Bool(true)}),
	)

	for _, series := range s.Series {
		data := make([]opts.ScatterData, len(series.Points))
		for i, p := range series.Points {
			value := []float64{p.X, p.Y}
			if s.SizeBy != "" {
				value = append(value, p.Size)
			}
			data[i] = opts.ScatterData{
				Name:       p.Label,
				Value:      value,
				SymbolSize: int(math.Round(s.MarkerDiameter(p))),
			}
		}
		sc.AddSeries(series.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Opacity: opts.Float(0.7)}))
	}
	return sc
}

func (r *Renderer) horizontalBar(fig *chart.Figure) *charts.Bar {
	labels := make([]string, len(fig.Bars))
	data := make([]opts.BarData, len(fig.Bars))
	for i, b := range fig.Bars {
		labels[i] = b.Label
		data[i] = opts.BarData{Name: b.Label, Value: b.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: fig.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category"}),
		charts.WithGridOpts(opts.Grid{ContainLabel: opts.Bool(true), Left: "2%"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(fig.XLabel, data)
	bar.XYReversal()
	return bar
}

func (r *Renderer) heatmap(fig *chart.Figure) *charts.HeatMap {
	m := fig.Matrix
	var data []opts.HeatMapData
	for i := range m.Labels {
		for j := range m.Labels {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, cellValue(m.Values[i][j])}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Labels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Labels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: divergingColors},
		}),
	)
	hm.AddSeries("correlation", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return hm
}

// cellValue rounds to two places; "-" is echarts' marker for an empty cell
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return "-"
	}
	return math.Round(v*100) / 100
}

func (r *Renderer) treemap(fig *chart.Figure) *charts.TreeMap {
	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		r.init(fig, "main", pageHeight),
		title(fig.Title),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	tm.AddSeries("All", treeNodes(fig.Tree),
		charts.WithTreeMapOpts(opts.TreeMapChart{
			Roam:       opts.Bool(false),
			UpperLabel: &opts.UpperLabel{Show: opts.Bool(true)},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return tm
}

func treeNodes(nodes []chart.TreeNode) []opts.TreeMapNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]opts.TreeMapNode, len(nodes))
	for i, n := range nodes {
		out[i] = opts.TreeMapNode{Name: n.Name, Value: n.Value, Children: treeNodes(n.Children)}
	}
	return out
}
