package ports

import (
	"context"

	"pricecharts/domain/chart"
	"pricecharts/domain/dataset"
)

// DatasetSource loads the raw (uncleaned) table the report is built from
type DatasetSource interface {
	Load() (*dataset.Dataset, error)
}

// HTMLRenderer writes the interactive, self-contained page for one figure.
// An existing file at path is replaced.
type HTMLRenderer interface {
	Render(fig *chart.Figure, path string) error
}

// ImageExporter produces a static PNG copy of a figure.
//
// Export receives both the figure and the HTML page already written for it;
// an exporter may draw from either. Exporters that cannot run at all return
// an error matching core.ErrExporterUnavailable so the caller can stop trying.
type ImageExporter interface {
	Name() string
	Export(ctx context.Context, fig *chart.Figure, htmlPath, pngPath string) error
	Close() error
}
