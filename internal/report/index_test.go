package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
	"pricecharts/domain/dataset"
	"pricecharts/domain/run"
)

func sampleManifest() *run.Manifest {
	m := run.NewManifest("/data/CleanedData.csv", "plots")
	m.Rows = 42
	m.Columns = []string{"Price", "Sub_Category"}
	m.AddArtifact(run.Artifact{Chart: chart.PriceHistogram, Title: "Price Distribution",
		HTML: "01_price_histogram.html", PNG: "01_price_histogram.png"})
	m.AddArtifact(run.Artifact{Chart: chart.TopProductsByReviews, Title: "Top 15 Products by Reviews",
		HTML: "04_top_products_by_reviews.html"})
	m.Skip(chart.CategoryTreemap, core.NewMissingColumnError("Main Category"))
	m.Finish()
	return m
}

func TestMarkdown(t *testing.T) {
	md := string(Markdown(sampleManifest()))

	assert.Contains(t, md, "`CleanedData.csv` with 42 rows and 2 columns")
	assert.Contains(t, md, `Sub\_Category`)
	assert.Contains(t, md, "[01_price_histogram.html](01_price_histogram.html)")
	assert.Contains(t, md, "## Skipped")
	assert.Contains(t, md, "`06_category_treemap`")
	assert.NotContains(t, md, "Image export failures")
}

func TestRenderIndex_CompletePage(t *testing.T) {
	page := string(RenderIndex(sampleManifest()))

	assert.Contains(t, page, "<title>"+pageTitle+"</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, `href="01_price_histogram.html"`)
	assert.Contains(t, page, `href="01_price_histogram.png"`)
	assert.Contains(t, page, "Sub_Category")
}

func TestWriteIndex_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFile)
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteIndex(path, sampleManifest()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "old")
	assert.Contains(t, string(raw), "Price Distribution")
}

func TestMarkdown_NoCharts(t *testing.T) {
	m := run.NewManifest("empty.csv", "plots")
	m.RecordFailure(chart.PriceHistogram, "browser", core.ErrExporterUnavailable)

	md := string(Markdown(m))
	assert.Contains(t, md, "No charts were produced.")
	assert.Contains(t, md, "## Image export failures")
}

func TestMarkdown_NumericColumns(t *testing.T) {
	m := sampleManifest()
	md := string(Markdown(m))
	assert.NotContains(t, md, "## Numeric columns")

	m.Profiles = []dataset.ColumnProfile{{Name: "Price", Count: 40, Missing: 2, Mean: 12.345, Max: 99, Outliers: 3}}
	md = string(Markdown(m))
	assert.Contains(t, md, "## Numeric columns")
	assert.Contains(t, md, "| Price | 40 | 2 | 12.35 | 0.00 | 0.00 | 0.00 | 99.00 | 3 |")
}
