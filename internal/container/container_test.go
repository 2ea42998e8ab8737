package container

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/internal"
	"pricecharts/internal/config"
)

func TestNew_SelectsExporter(t *testing.T) {
	tests := []struct {
		name     string
		exporter string
		enabled  bool
		want     string
	}{
		{"plot", config.ExporterPlot, true, "plot"},
		{"browser", config.ExporterBrowser, true, "browser"},
		{"none", config.ExporterNone, true, ""},
		{"disabled", config.ExporterPlot, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Images.Exporter = tt.exporter
			cfg.Images.Enabled = tt.enabled

			c, err := New(cfg, internal.NewNopLogger(), &bytes.Buffer{})
			require.NoError(t, err)
			require.NotNil(t, c.Report)

			if tt.want == "" {
				assert.Nil(t, c.Exporter)
			} else {
				require.NotNil(t, c.Exporter)
				assert.Equal(t, tt.want, c.Exporter.Name())
			}
			assert.NoError(t, c.Shutdown(context.Background()))
		})
	}
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil, nil)
	assert.Error(t, err)
}

func TestReportOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = "out"
	cfg.Output.WriteIndex = true
	cfg.Images.Scale = 3

	c, err := New(cfg, internal.NewNopLogger(), &bytes.Buffer{})
	require.NoError(t, err)

	opts := c.ReportOptions()
	assert.Equal(t, "out", opts.OutputDir)
	assert.True(t, opts.WriteIndex)
	assert.False(t, opts.WriteManifest)
	assert.Equal(t, 3.0, opts.Scale)
}
