// Package browser screenshots rendered HTML charts in headless Chromium via go-rod.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/internal"
	"pricecharts/internal/errors"
)

// Name is the exporter name used in configuration
const Name = "browser"

const (
	viewportWidth  = 1020
	viewportHeight = 620
)

// Options configures the headless browser
type Options struct {
	// Bin is the browser executable; empty means search the usual install locations.
	Bin     string
	Scale   float64
	Timeout time.Duration
}

// Exporter launches one browser on first use and reuses it for every chart
type Exporter struct {
	opts   Options
	logger *internal.Logger

	mu        sync.Mutex
	launcher  *launcher.Launcher
	browser   *rod.Browser
	launchErr error
}

// NewExporter creates an exporter; no browser is started until the first Export
func NewExporter(opts Options, logger *internal.Logger) *Exporter {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Exporter{opts: opts, logger: logger}
}

// Name returns the exporter name
func (e *Exporter) Name() string {
	return Name
}

// Export loads htmlPath in a fresh tab and saves a full-page screenshot to pngPath
func (e *Exporter) Export(ctx context.Context, fig *chart.Figure, htmlPath, pngPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	browser, err := e.ensureBrowser()
	if err != nil {
		return err
	}

	target, err := fileURL(htmlPath)
	if err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return errors.ExternalServiceError(Name, err)
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(e.opts.Timeout)
	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: e.opts.Scale,
	}); err != nil {
		return errors.ExternalServiceError(Name, err)
	}
	if err := p.Navigate(target); err != nil {
		return errors.ExternalServiceError(Name, err)
	}
	if err := p.WaitLoad(); err != nil {
		return errors.ExternalServiceError(Name, err)
	}

	png, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return errors.ExternalServiceError(Name, err)
	}
	if err := os.WriteFile(pngPath, png, 0o644); err != nil {
		return errors.RenderError(fig.ID.String(), err)
	}

	e.logger.Debug("Screenshot of %s saved to %s", htmlPath, pngPath)
	return nil
}

// Close shuts the browser down if one was started
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.browser != nil {
		err = e.browser.Close()
		e.browser = nil
	}
	if e.launcher != nil {
		e.launcher.Kill()
		e.launcher.Cleanup()
		e.launcher = nil
	}
	return err
}

func (e *Exporter) ensureBrowser() (*rod.Browser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser != nil {
		return e.browser, nil
	}
	if e.launchErr != nil {
		return nil, e.launchErr
	}

	bin, err := resolveBinary(e.opts.Bin)
	if err != nil {
		e.launchErr = err
		return nil, err
	}

	l := launcher.New().Bin(bin).Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		e.launchErr = fmt.Errorf("%w: launch %s: %v", core.ErrExporterUnavailable, bin, err)
		return nil, e.launchErr
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		e.launchErr = fmt.Errorf("%w: connect to %s: %v", core.ErrExporterUnavailable, bin, err)
		return nil, e.launchErr
	}

	e.logger.Info("Started headless browser %s", bin)
	e.launcher = l
	e.browser = browser
	return browser, nil
}

// resolveBinary returns the configured browser, or the first installed one
func resolveBinary(configured string) (string, error) {
	if configured != "" {
		info, err := os.Stat(configured)
		if err != nil || info.IsDir() {
			return "", fmt.Errorf("%w: browser binary %s not found", core.ErrExporterUnavailable, configured)
		}
		return configured, nil
	}
	if found, ok := launcher.LookPath(); ok {
		return found, nil
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium installation found (set BROWSER_BIN or use IMAGE_EXPORTER=plot)", core.ErrExporterUnavailable)
}

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
