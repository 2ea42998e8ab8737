package chart

import (
	"math"
)

// ChartID names a chart and the files it is saved under
type ChartID string

const (
	PriceHistogram        ChartID = "01_price_histogram"
	PriceBySubCategoryBox ChartID = "02_price_by_subcategory_box"
	PriceVsRatingScatter  ChartID = "03_price_vs_rating_scatter"
	TopProductsByReviews  ChartID = "04_top_products_by_reviews"
	CorrelationHeatmap    ChartID = "05_correlation_heatmap"
	CategoryTreemap       ChartID = "06_category_treemap"
)

// AllCharts lists every chart in output order
var AllCharts = []ChartID{
	PriceHistogram,
	PriceBySubCategoryBox,
	PriceVsRatingScatter,
	TopProductsByReviews,
	CorrelationHeatmap,
	CategoryTreemap,
}

func (id ChartID) String() string { return string(id) }

// HTMLFile is the file name of the interactive export
func (id ChartID) HTMLFile() string { return string(id) + ".html" }

// PNGFile is the file name of the raster export
func (id ChartID) PNGFile() string { return string(id) + ".png" }

// Kind selects which payload of a Figure is populated
type Kind string

const (
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindScatter   Kind = "scatter"
	KindBar       Kind = "bar"
	KindHeatmap   Kind = "heatmap"
	KindTreemap   Kind = "treemap"
)

// Figure is a renderer-neutral chart: what to draw, not how.
// Exactly one payload field matching Kind is set.
type Figure struct {
	ID     ChartID
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	Histogram *Histogram
	Boxes     []BoxStats
	Scatter   *Scatter
	Bars      []Bar
	Matrix    *Matrix
	Tree      []TreeNode
}

// Histogram holds equal-width bins: len(Edges) == len(Counts)+1
type Histogram struct {
	Edges  []float64
	Counts []float64
	Margin *BoxStats
}

// BoxStats summarizes one group of values for a box plot.
// LowerWhisker/UpperWhisker are the furthest values within 1.5 IQR of the box.
type BoxStats struct {
	Label        string
	N            int
	Min          float64
	Q1           float64
	Median       float64
	Q3           float64
	Max          float64
	LowerWhisker float64
	UpperWhisker float64
	Outliers     []float64
	Values       []float64
}

// IQR is the interquartile range
func (b BoxStats) IQR() float64 {
	return b.Q3 - b.Q1
}

// ScatterPoint is one marker. Size is the raw value mapped to marker area.
type ScatterPoint struct {
	X     float64
	Y     float64
	Size  float64
	Label string
}

// ScatterSeries is one colour group
type ScatterSeries struct {
	Name   string
	Points []ScatterPoint
}

// Scatter holds colour groups plus the shared size scale
type Scatter struct {
	Series  []ScatterSeries
	SizeBy  string
	MaxSize float64
	ColorBy string
	HoverBy string
}

// MaxMarkerDiameter is the diameter in pixels of the largest sized marker
const MaxMarkerDiameter = 20.0

// defaultMarkerDiameter is used when no size column is mapped
const defaultMarkerDiameter = 8.0

// MarkerDiameter maps a size value to a diameter so that marker area is
// proportional to the value, with the largest value drawn at MaxMarkerDiameter.
func (s *Scatter) MarkerDiameter(p ScatterPoint) float64 {
	if s.SizeBy == "" || s.MaxSize <= 0 {
		return defaultMarkerDiameter
	}
	if p.Size <= 0 {
		return 2
	}
	return math.Max(2, MaxMarkerDiameter*math.Sqrt(p.Size/s.MaxSize))
}

// Bar is one labelled bar
type Bar struct {
	Label string
	Value float64
}

// Matrix is a square labelled matrix; NaN marks an undefined cell
type Matrix struct {
	Labels []string
	Values [][]float64
}

// TreeNode is one rectangle of a treemap; Value of a parent is the sum of its children
type TreeNode struct {
	Name     string
	Value    int
	Children []TreeNode
}
