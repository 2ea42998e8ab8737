package container

import (
	"context"
	"fmt"
	"io"

	"pricecharts/adapters/datareadiness/coercer"
	"pricecharts/adapters/excel"
	"pricecharts/adapters/render/browser"
	"pricecharts/adapters/render/echarts"
	"pricecharts/adapters/render/plotpng"
	"pricecharts/app"
	"pricecharts/internal"
	"pricecharts/internal/config"
	"pricecharts/ports"
)

// Container holds the report pipeline's dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Source   ports.DatasetSource
	Cleaner  *app.CleaningService
	Renderer ports.HTMLRenderer
	// Exporter is nil when PNG export is disabled
	Exporter ports.ImageExporter

	Report *app.ReportService
}

// New wires every component from configuration. stdout receives the
// user-facing summary lines.
func New(cfg *config.Config, logger *internal.Logger, stdout io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	coercionConfig := coercer.DefaultCoercionConfig()
	if cfg.Input.CurrencySymbol != "" {
		coercionConfig.CurrencySymbols = []string{cfg.Input.CurrencySymbol}
	}

	c.Source = excel.NewDataReader(cfg.Input.Path, logger)
	c.Cleaner = app.NewCleaningService(coercer.NewTypeCoercer(coercionConfig), logger)
	c.Renderer = echarts.NewRenderer(cfg.Charts.AssetsHost, logger)
	c.Exporter = newExporter(cfg, logger)

	c.Report = app.NewReportService(c.Source, c.Cleaner, c.Renderer, c.Exporter, stdout, logger)
	return c, nil
}

func newExporter(cfg *config.Config, logger *internal.Logger) ports.ImageExporter {
	if !cfg.PNGEnabled() {
		return nil
	}
	switch cfg.Images.Exporter {
	case config.ExporterBrowser:
		return browser.NewExporter(browser.Options{
			Bin:     cfg.Images.BrowserBin,
			Scale:   cfg.Images.Scale,
			Timeout: cfg.Images.BrowserTimeout,
		}, logger)
	default:
		return plotpng.NewExporter(cfg.Images.Scale, logger)
	}
}

// ReportOptions derives the run options from configuration
func (c *Container) ReportOptions() app.ReportOptions {
	return app.ReportOptions{
		OutputDir:     c.Config.Output.Dir,
		WriteIndex:    c.Config.Output.WriteIndex,
		WriteManifest: c.Config.Output.WriteManifest,
		Scale:         c.Config.Images.Scale,
	}
}

// Shutdown releases the exporter's resources (a headless browser, if one was started)
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Exporter != nil {
		if err := c.Exporter.Close(); err != nil {
			c.Logger.Warn("Failed to close %s exporter: %v", c.Exporter.Name(), err)
			return err
		}
	}
	return nil
}
