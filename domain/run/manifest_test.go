package run

import (
	"os"
	"path/filepath"
	"testing"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
)

func TestFingerprint_Deterministic(t *testing.T) {
	// Same inputs produce identical fingerprints
	fp1 := NewFingerprint("abc123", "plot", 2)
	fp2 := NewFingerprint("abc123", "PLOT", 2)

	if fp1.Fingerprint != fp2.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1.Fingerprint, fp2.Fingerprint)
	}
	if fp1.InputDigest != "abc123" {
		t.Errorf("InputDigest mismatch: %s", fp1.InputDigest)
	}
	if len(fp1.Fingerprint) != 64 {
		t.Errorf("Expected a hex SHA-256, got %q", fp1.Fingerprint)
	}
}

func TestFingerprint_Unique(t *testing.T) {
	base := NewFingerprint("abc123", "plot", 2)
	variants := []Fingerprint{
		NewFingerprint("abc124", "plot", 2),
		NewFingerprint("abc123", "browser", 2),
		NewFingerprint("abc123", "plot", 1),
	}
	for i, v := range variants {
		if v.Fingerprint == base.Fingerprint {
			t.Errorf("Variant %d should differ from base fingerprint", i)
		}
	}
}

func TestDigestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Price\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	d1, err := DigestFile(path)
	if err != nil {
		t.Fatalf("DigestFile failed: %v", err)
	}
	d2, _ := DigestFile(path)
	if d1 != d2 {
		t.Errorf("Digest not stable: %s vs %s", d1, d2)
	}

	if _, err := DigestFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestManifest_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest("data.csv", dir)
	m.Rows = 3
	m.Columns = []string{"Price", "Rating"}
	m.AddArtifact(Artifact{Chart: chart.PriceHistogram, Title: "Price Distribution", HTML: "01_price_histogram.html", PNG: "01_price_histogram.png"})
	m.Skip(chart.CategoryTreemap, core.NewMissingColumnError("Main Category"))
	m.RecordFailure(chart.PriceHistogram, "browser", core.ErrExporterUnavailable)
	m.Finish()

	path := filepath.Join(dir, ManifestFile)
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if got.RunID != m.RunID {
		t.Errorf("RunID mismatch: %s vs %s", got.RunID, m.RunID)
	}
	if got.Rows != 3 || len(got.Columns) != 2 {
		t.Errorf("Shape mismatch: %d rows, %v", got.Rows, got.Columns)
	}
	if len(got.Artifacts) != 1 || got.Artifacts[0].PNG != "01_price_histogram.png" {
		t.Errorf("Artifacts not preserved: %+v", got.Artifacts)
	}
	if len(got.Skipped) != 1 || got.Skipped[0].Chart != chart.CategoryTreemap {
		t.Errorf("Skipped not preserved: %+v", got.Skipped)
	}
	if len(got.Failures) != 1 || got.Failures[0].Exporter != "browser" {
		t.Errorf("Failures not preserved: %+v", got.Failures)
	}
	if got.FinishedAt.Sub(got.StartedAt) < 0 {
		t.Error("FinishedAt before StartedAt")
	}
}

func TestManifest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"empty run id", func(m *Manifest) { m.RunID = "" }},
		{"run id not a uuid", func(m *Manifest) { m.RunID = "run-1" }},
		{"empty input", func(m *Manifest) { m.Input = "" }},
		{"empty output", func(m *Manifest) { m.OutputDir = "" }},
		{"artifact without html", func(m *Manifest) { m.AddArtifact(Artifact{Chart: chart.PriceHistogram}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManifest("data.csv", "plots")
			tt.mutate(m)
			if err := m.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	if err := NewManifest("data.csv", "plots").Validate(); err != nil {
		t.Errorf("Fresh manifest should be valid: %v", err)
	}
}
