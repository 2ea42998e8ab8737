// Package echarts renders chart figures as standalone interactive HTML pages
// using go-echarts.
package echarts

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/components"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/internal"
	"pricecharts/internal/errors"
)

const (
	pageWidth    = "1000px"
	pageHeight   = "600px"
	marginHeight = "180px"
)

// Renderer writes one HTML page per figure
type Renderer struct {
	assetsHost string
	logger     *internal.Logger
}

// NewRenderer creates a renderer that loads echarts from assetsHost
func NewRenderer(assetsHost string, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Renderer{assetsHost: assetsHost, logger: logger}
}

// Render writes fig to path, replacing any existing file
func (r *Renderer) Render(fig *chart.Figure, path string) error {
	page, err := r.Page(fig)
	if err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}
	if err := page.Render(file); err != nil {
		file.Close()
		return errors.RenderError(fig.ID.String(), err)
	}
	if err := file.Close(); err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	r.logger.Debug("Rendered %s to %s", fig.ID, path)
	return nil
}

// Page builds the go-echarts page for a figure without writing it
func (r *Renderer) Page(fig *chart.Figure) (*components.Page, error) {
	var charters []components.Charter

	switch fig.Kind {
	case chart.KindHistogram:
		if fig.Histogram == nil {
			return nil, fmt.Errorf("%w: histogram payload missing", core.ErrUnsupportedFigure)
		}
		if fig.Histogram.Margin != nil {
			charters = append(charters, r.histogramMargin(fig))
		}
		charters = append(charters, r.histogram(fig))
	case chart.KindBox:
		charters = append(charters, r.boxPlot(fig))
	case chart.KindScatter:
		if fig.Scatter == nil {
			return nil, fmt.Errorf("%w: scatter payload missing", core.ErrUnsupportedFigure)
		}
		charters = append(charters, r.scatter(fig))
	case chart.KindBar:
		charters = append(charters, r.horizontalBar(fig))
	case chart.KindHeatmap:
		if fig.Matrix == nil {
			return nil, fmt.Errorf("%w: matrix payload missing", core.ErrUnsupportedFigure)
		}
		charters = append(charters, r.heatmap(fig))
	case chart.KindTreemap:
		charters = append(charters, r.treemap(fig))
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFigure, fig.Kind)
	}

	page := components.NewPage()
	page.SetPageTitle(fig.Title)
	page.SetAssetsHost(r.assetsHost)
	page.AddCharts(charters...)
	return page, nil
}
