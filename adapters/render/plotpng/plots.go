package plotpng

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
)

// marginShare is the fraction of the canvas height given to the histogram's box margin
const marginShare = 0.2

var (
	barColor  = color.RGBA{R: 99, G: 110, B: 250, A: 255}
	nanColor  = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	textColor = color.Black
)

func drawFigure(fig *chart.Figure, dc draw.Canvas) error {
	switch fig.Kind {
	case chart.KindHistogram:
		if fig.Histogram == nil {
			return fmt.Errorf("%w: histogram payload missing", core.ErrUnsupportedFigure)
		}
		return drawHistogram(fig, dc)
	case chart.KindBox:
		return drawSingle(dc, func() (*plot.Plot, error) { return boxPlot(fig) })
	case chart.KindScatter:
		if fig.Scatter == nil {
			return fmt.Errorf("%w: scatter payload missing", core.ErrUnsupportedFigure)
		}
		return drawSingle(dc, func() (*plot.Plot, error) { return scatterPlot(fig) })
	case chart.KindBar:
		return drawSingle(dc, func() (*plot.Plot, error) { return barPlot(fig) })
	case chart.KindHeatmap:
		if fig.Matrix == nil {
			return fmt.Errorf("%w: matrix payload missing", core.ErrUnsupportedFigure)
		}
		return drawSingle(dc, func() (*plot.Plot, error) { return heatmapPlot(fig) })
	case chart.KindTreemap:
		return drawSingle(dc, func() (*plot.Plot, error) { return treemapPlot(fig) })
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedFigure, fig.Kind)
	}
}

func drawSingle(dc draw.Canvas, build func() (*plot.Plot, error)) error {
	p, err := build()
	if err != nil {
		return err
	}
	p.Draw(dc)
	return nil
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func drawHistogram(fig *chart.Figure, dc draw.Canvas) error {
	h := fig.Histogram

	p := newPlot(fig.Title, fig.XLabel, fig.YLabel)
	p.Add(plotter.NewGrid())
	if len(h.Counts) > 0 {
		bins := make([]plotter.HistogramBin, len(h.Counts))
		for i, count := range h.Counts {
			bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: count}
		}
		p.Add(&plotter.Histogram{
			Bins:      bins,
			Width:     h.Edges[1] - h.Edges[0],
			FillColor: barColor,
			LineStyle: plotter.DefaultLineStyle,
		})
	}

	if h.Margin == nil {
		p.Draw(dc)
		return nil
	}

	margin := newPlot("", "", "")
	box, err := boxFromStats(*h.Margin, 0, vg.Points(20))
	if err != nil {
		return err
	}
	box.Horizontal = true
	box.FillColor = barColor
	margin.Add(box)
	margin.NominalY(h.Margin.Label)
	margin.X.Min, margin.X.Max = h.Edges[0], h.Edges[len(h.Edges)-1]
	margin.Title.Text = fig.Title
	p.Title.Text = ""

	split := (dc.Max.Y - dc.Min.Y) * marginShare
	margin.Draw(draw.Crop(dc, 0, 0, dc.Max.Y-dc.Min.Y-split, 0))
	p.Draw(draw.Crop(dc, 0, 0, 0, -split))
	return nil
}

// boxFromStats builds a gonum box plot carrying precomputed statistics
func boxFromStats(stats chart.BoxStats, loc float64, width vg.Length) (*plotter.BoxPlot, error) {
	values := stats.Values
	if len(values) == 0 {
		values = append([]float64{stats.LowerWhisker, stats.Q1, stats.Median, stats.Q3, stats.UpperWhisker}, stats.Outliers...)
	}
	box, err := plotter.NewBoxPlot(width, loc, plotter.Values(values))
	if err != nil {
		return nil, err
	}
	box.Median = stats.Median
	box.Quartile1, box.Quartile3 = stats.Q1, stats.Q3
	box.AdjLow, box.AdjHigh = stats.LowerWhisker, stats.UpperWhisker
	box.Outside = box.Outside[:0]
	for i, v := range box.Values {
		if v < stats.LowerWhisker || v > stats.UpperWhisker {
			box.Outside = append(box.Outside, i)
		}
	}
	return box, nil
}

func boxPlot(fig *chart.Figure) (*plot.Plot, error) {
	p := newPlot(fig.Title, fig.XLabel, fig.YLabel)
	p.Add(plotter.NewGrid())

	names := make([]string, len(fig.Boxes))
	for i, stats := range fig.Boxes {
		box, err := boxFromStats(stats, float64(i), vg.Points(30))
		if err != nil {
			return nil, err
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
		names[i] = stats.Label
	}
	if len(names) > 0 {
		p.NominalX(names...)
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
	}
	return p, nil
}

func scatterPlot(fig *chart.Figure) (*plot.Plot, error) {
	s := fig.Scatter
	p := newPlot(fig.Title, fig.XLabel, fig.YLabel)
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, series := range s.Series {
		if len(series.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(series.Points))
		radii := make([]vg.Length, len(series.Points))
		for j, pt := range series.Points {
			xys[j] = plotter.XY{X: pt.X, Y: pt.Y}
			radii[j] = pixels(s.MarkerDiameter(pt) / 2)
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, err
		}
		c := plotutil.Color(i)
		sc.GlyphStyle.Color = c
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyleFunc = func(k int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: c, Radius: radii[k], Shape: draw.CircleGlyph{}}
		}
		p.Add(sc)
		if len(s.Series) > 1 {
			p.Legend.Add(series.Name, sc)
		}
	}
	return p, nil
}

func barPlot(fig *chart.Figure) (*plot.Plot, error) {
	p := newPlot(fig.Title, fig.XLabel, "")
	p.Add(plotter.NewGrid())
	if len(fig.Bars) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(fig.Bars))
	names := make([]string, len(fig.Bars))
	for i, b := range fig.Bars {
		values[i] = b.Value
		names[i] = b.Label
	}
	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

// grid adapts a correlation matrix to plotter.GridXYZ; column c, row r is Values[r][c]
type grid struct {
	m *chart.Matrix
}

func (g grid) Dims() (c, r int)   { return len(g.m.Labels), len(g.m.Labels) }
func (g grid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

func heatmapPlot(fig *chart.Figure) (*plot.Plot, error) {
	m := fig.Matrix
	p := newPlot(fig.Title, "", "")
	if len(m.Labels) == 0 {
		return p, nil
	}

	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)
	hm := plotter.NewHeatMap(grid{m: m}, colors.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = nanColor
	p.Add(hm)

	var xys plotter.XYs
	var texts []string
	for r := range m.Labels {
		for c := range m.Labels {
			v := m.Values[r][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			texts = append(texts, fmt.Sprintf("%.2f", v))
		}
	}
	if len(xys) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	p.NominalX(m.Labels...)
	p.NominalY(m.Labels...)
	return p, nil
}

// treemapPlot lays the tree out slice-and-dice: top-level nodes split the
// width by count, children split their parent's height.
func treemapPlot(fig *chart.Figure) (*plot.Plot, error) {
	p := newPlot(fig.Title, "", "")
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	total := 0
	for _, n := range fig.Tree {
		total += n.Value
	}
	if total == 0 {
		return p, nil
	}

	var centers plotter.XYs
	var texts []string
	x := 0.0
	for i, parent := range fig.Tree {
		w := float64(parent.Value) / float64(total)
		fill := plotutil.Color(i)

		y := 0.0
		for _, child := range parent.Children {
			h := float64(child.Value) / float64(parent.Value)
			cell, err := rect(x, y, w, h, fill)
			if err != nil {
				return nil, err
			}
			p.Add(cell)
			if w*h > 0.004 {
				centers = append(centers, plotter.XY{X: x + w/2, Y: y + h/2})
				texts = append(texts, fmt.Sprintf("%s\n%s (%d)", parent.Name, child.Name, child.Value))
			}
			y += h
		}
		x += w
	}

	if len(centers) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: centers, Labels: texts})
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = textColor
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}
	return p, nil
}

func rect(x, y, w, h float64, fill color.Color) (*plotter.Polygon, error) {
	poly, err := plotter.NewPolygon(plotter.XYs{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	})
	if err != nil {
		return nil, err
	}
	poly.Color = fill
	poly.LineStyle.Color = color.White
	poly.LineStyle.Width = vg.Points(1)
	return poly, nil
}
