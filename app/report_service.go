package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/run"
	"pricecharts/internal"
	"pricecharts/internal/errors"
	"pricecharts/internal/figures"
	"pricecharts/internal/profiling"
	"pricecharts/internal/report"
	"pricecharts/ports"
)

// ReportOptions controls where a report goes and which extras are written
type ReportOptions struct {
	OutputDir     string
	WriteIndex    bool
	WriteManifest bool
	// Scale is recorded in the run fingerprint; the exporter applies it.
	Scale float64
}

// ReportService runs the whole report: load, clean, build, render, export, summarize
type ReportService struct {
	source   ports.DatasetSource
	cleaner  *CleaningService
	profiler *profiling.DataProfiler
	renderer ports.HTMLRenderer
	exporter ports.ImageExporter
	steps    []figures.Step
	stdout   io.Writer
	logger   *internal.Logger
}

// NewReportService wires a report service. exporter may be nil to skip images.
func NewReportService(
	source ports.DatasetSource,
	cleaner *CleaningService,
	renderer ports.HTMLRenderer,
	exporter ports.ImageExporter,
	stdout io.Writer,
	logger *internal.Logger,
) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &ReportService{
		source:   source,
		cleaner:  cleaner,
		profiler: profiling.NewDataProfiler(),
		renderer: renderer,
		exporter: exporter,
		steps:    figures.Steps(),
		stdout:   stdout,
		logger:   logger,
	}
}

// Generate produces every chart the dataset supports and returns the run manifest.
// Missing columns skip a chart; image export failures are recorded but never fatal.
func (s *ReportService) Generate(ctx context.Context, opts ReportOptions) (*run.Manifest, error) {
	dir := filepath.Clean(opts.OutputDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	raw, err := s.source.Load()
	if err != nil {
		return nil, err
	}
	ds, cleaning, err := s.cleaner.Clean(raw)
	if err != nil {
		return nil, err
	}
	for _, name := range cleaning.Inferred {
		s.logger.Debug("Column %s inferred as numeric", name)
	}

	manifest := run.NewManifest(ds.Source(), dir)
	manifest.Rows = ds.NumRows()
	manifest.Columns = ds.Columns()
	if manifest.Profiles, err = s.profiler.ProfileDataset(ds); err != nil {
		s.logger.Warn("Column profiling failed: %v", err)
	}
	fmt.Fprintln(s.stdout, ds.Summary())

	exporter := s.exporter
	for _, step := range s.steps {
		fig, err := step.Build(ds)
		if core.IsSkipError(err) {
			s.logger.Info("Skipping %s: %v", step.ID, err)
			manifest.Skip(step.ID, err)
			continue
		}
		if err != nil {
			return nil, errors.RenderError(step.ID.String(), err)
		}

		artifact, err := s.writeChart(fig, dir)
		if err != nil {
			return nil, err
		}

		pngPath := filepath.Join(dir, fig.ID.PNGFile())
		if s.exporter != nil {
			// A PNG left by an earlier run must not sit next to this run's HTML
			if err := os.Remove(pngPath); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("Could not remove stale %s: %v", pngPath, err)
			}
		}
		if exporter != nil {
			err := s.export(ctx, exporter, fig, filepath.Join(dir, artifact.HTML), pngPath)
			switch {
			case err == nil:
				artifact.PNG = fig.ID.PNGFile()
			case stderrors.Is(err, core.ErrExporterUnavailable), ctx.Err() != nil:
				s.logger.Warn("PNG export disabled (%s): %v", exporter.Name(), err)
				manifest.RecordFailure(fig.ID, exporter.Name(), err)
				exporter = nil
			default:
				s.logger.Warn("PNG export failed for %s: %v", fig.ID, err)
				manifest.RecordFailure(fig.ID, exporter.Name(), err)
			}
		}

		manifest.AddArtifact(artifact)
	}

	s.fingerprint(manifest, ds.Source(), opts.Scale)
	manifest.Finish()

	if opts.WriteManifest {
		if err := manifest.WriteFile(filepath.Join(dir, run.ManifestFile)); err != nil {
			return nil, errors.Wrap(err, "failed to write run manifest")
		}
	}
	if opts.WriteIndex {
		if err := report.WriteIndex(filepath.Join(dir, report.IndexFile), manifest); err != nil {
			return nil, errors.Wrap(err, "failed to write index page")
		}
	}

	if n := len(manifest.Failures); n > 0 {
		fmt.Fprintf(s.stdout, "Warning: %d PNG export(s) failed; HTML files are unaffected (see log).\n", n)
	}
	fmt.Fprintf(s.stdout, "Plots written to %s/ — open the HTML files in a browser.\n", strings.TrimSuffix(dir, string(filepath.Separator)))

	return manifest, nil
}

// export runs one image export; a panicking exporter yields an error instead
func (s *ReportService) export(ctx context.Context, exporter ports.ImageExporter, fig *chart.Figure, htmlPath, pngPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.RenderError(fig.ID.String(), fmt.Errorf("%s exporter panicked: %v", exporter.Name(), r))
		}
	}()
	return exporter.Export(ctx, fig, htmlPath, pngPath)
}

func (s *ReportService) writeChart(fig *chart.Figure, dir string) (run.Artifact, error) {
	path := filepath.Join(dir, fig.ID.HTMLFile())
	if err := s.renderer.Render(fig, path); err != nil {
		return run.Artifact{}, err
	}
	s.logger.Info("Wrote %s", path)
	return run.Artifact{Chart: fig.ID, Title: fig.Title, HTML: fig.ID.HTMLFile()}, nil
}

func (s *ReportService) fingerprint(m *run.Manifest, input string, scale float64) {
	digest, err := run.DigestFile(input)
	if err != nil {
		s.logger.Debug("Could not digest %s: %v", input, err)
		return
	}
	name := "none"
	if s.exporter != nil {
		name = s.exporter.Name()
	}
	m.Fingerprint = run.NewFingerprint(digest, name, scale)
}
