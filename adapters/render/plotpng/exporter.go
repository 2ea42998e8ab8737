// Package plotpng draws chart figures as PNG images with gonum/plot.
// It needs no browser and is the default image exporter.
package plotpng

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"pricecharts/domain/chart"
	"pricecharts/internal"
	"pricecharts/internal/errors"
)

// Name is the exporter name used in configuration
const Name = "plot"

// Image size in CSS pixels at scale 1; matches the HTML chart size.
const (
	widthPx  = 1000
	heightPx = 600
	basePPI  = 96
)

// Exporter renders figures directly, ignoring the HTML page
type Exporter struct {
	scale  float64
	logger *internal.Logger
}

// NewExporter creates an exporter producing images scale times the base size.
// A scale that is not positive or finite falls back to 1.
func NewExporter(scale float64, logger *internal.Logger) *Exporter {
	if !(scale > 0) || math.IsInf(scale, 0) {
		scale = 1
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Exporter{scale: scale, logger: logger}
}

// Name returns the exporter name
func (e *Exporter) Name() string {
	return Name
}

// Export draws fig and writes it to pngPath. A panic inside gonum/plot is
// returned as a render error.
func (e *Exporter) Export(ctx context.Context, fig *chart.Figure, htmlPath, pngPath string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			os.Remove(pngPath)
			err = errors.RenderError(fig.ID.String(), fmt.Errorf("plot panicked: %v", r))
		}
	}()

	canvas := vgimg.NewWith(
		vgimg.UseWH(pixels(widthPx), pixels(heightPx)),
		vgimg.UseDPI(e.dpi()),
		vgimg.UseBackgroundColor(color.White),
	)
	if err := drawFigure(fig, draw.New(canvas)); err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	file, err := os.Create(pngPath)
	if err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(file); err != nil {
		file.Close()
		os.Remove(pngPath)
		return errors.RenderError(fig.ID.String(), err)
	}
	if err := file.Close(); err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	e.logger.Debug("Exported %s to %s (scale %.1f)", fig.ID, pngPath, e.scale)
	return nil
}

// dpi is never below 1 so tiny scales still produce an image
func (e *Exporter) dpi() int {
	return max(1, int(math.Round(basePPI*e.scale)))
}

// Close is a no-op; the exporter holds no resources
func (e *Exporter) Close() error {
	return nil
}

// pixels converts CSS pixels to points
func pixels(px float64) vg.Length {
	return vg.Length(px) * vg.Inch / basePPI
}
