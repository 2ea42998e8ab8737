package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
)

// ManifestFile is the manifest's file name inside the output directory
const ManifestFile = "manifest.json"

// Manifest records what one report run read and wrote
type Manifest struct {
	RunID       core.RunID              `json:"run_id"`
	Input       string                  `json:"input"`
	OutputDir   string                  `json:"output_dir"`
	Rows        int                     `json:"rows"`
	Columns     []string                `json:"columns"`
	Profiles    []dataset.ColumnProfile `json:"profiles,omitempty"`
	Fingerprint Fingerprint             `json:"fingerprint"`
	Artifacts   []Artifact              `json:"artifacts"`
	Skipped     []SkippedChart          `json:"skipped"`
	Failures    []ExportFailure         `json:"export_failures"`
	StartedAt   core.Timestamp          `json:"started_at"`
	FinishedAt  core.Timestamp          `json:"finished_at"`
}

// Artifact is one chart written by the run
type Artifact struct {
	Chart chart.ChartID `json:"chart"`
	Title string        `json:"title"`
	HTML  string        `json:"html"`
	PNG   string        `json:"png,omitempty"`
}

// SkippedChart is a chart that was not produced and why
type SkippedChart struct {
	Chart  chart.ChartID `json:"chart"`
	Reason string        `json:"reason"`
}

// ExportFailure is an image export that failed; the HTML artifact still exists
type ExportFailure struct {
	Chart    chart.ChartID `json:"chart"`
	Exporter string        `json:"exporter"`
	Error    string        `json:"error"`
}

// NewManifest starts a manifest for a run reading input and writing to outputDir
func NewManifest(input, outputDir string) *Manifest {
	return &Manifest{
		RunID:     core.NewRunID(),
		Input:     input,
		OutputDir: outputDir,
		Artifacts: []Artifact{},
		Skipped:   []SkippedChart{},
		Failures:  []ExportFailure{},
		StartedAt: core.Now(),
	}
}

// AddArtifact records a written chart
func (m *Manifest) AddArtifact(a Artifact) {
	m.Artifacts = append(m.Artifacts, a)
}

// Skip records a chart that was not produced
func (m *Manifest) Skip(id chart.ChartID, reason error) {
	m.Skipped = append(m.Skipped, SkippedChart{Chart: id, Reason: reason.Error()})
}

// RecordFailure records a failed image export
func (m *Manifest) RecordFailure(id chart.ChartID, exporter string, err error) {
	m.Failures = append(m.Failures, ExportFailure{Chart: id, Exporter: exporter, Error: err.Error()})
}

// Finish stamps the completion time
func (m *Manifest) Finish() {
	m.FinishedAt = core.Now()
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if _, err := core.ParseRunID(m.RunID.String()); err != nil {
		return fmt.Errorf("run manifest: %w", err)
	}
	if m.Input == "" {
		return errors.New("run manifest: input cannot be empty")
	}
	if m.OutputDir == "" {
		return errors.New("run manifest: output_dir cannot be empty")
	}
	if m.StartedAt.IsZero() {
		return errors.New("run manifest: started_at cannot be zero")
	}
	for _, a := range m.Artifacts {
		if a.HTML == "" {
			return fmt.Errorf("run manifest: artifact %s has no html file", a.Chart)
		}
	}
	return nil
}

// WriteFile validates the manifest and writes it as indented JSON
func (m *Manifest) WriteFile(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadManifest loads a manifest written by WriteFile
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode run manifest %s: %w", path, err)
	}
	return &m, nil
}
