package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := New("sample.csv",
		[]string{"Product Name", "Price", "Rating", ""},
		[][]string{
			{"Kettle", "£14.70", "4.5", "x"},
			{" Toaster ", "£1,234.50"},
			{"Mug", "N/A", "3", "y", "extra"},
		})
	require.NoError(t, err)
	return ds
}

func TestNew_ShapeAndPadding(t *testing.T) {
	ds := sampleDataset(t)

	assert.Equal(t, 3, ds.NumRows())
	assert.Equal(t, 4, ds.NumCols())
	assert.Equal(t, []string{"Product Name", "Price", "Rating", "Unnamed: 3"}, ds.Columns())
	assert.Equal(t, []string{"Kettle", "Toaster", "Mug"}, ds.Strings(ColumnProductName))
	assert.Equal(t, []string{"4.5", "", "3"}, ds.Strings(ColumnRating))
	assert.Equal(t, "sample.csv", ds.Source())
}

func TestNew_RequiresColumns(t *testing.T) {
	_, err := New("empty.csv", nil, nil)
	assert.Error(t, err)
}

func TestUniqueColumnNames(t *testing.T) {
	got := uniqueColumnNames([]string{"\ufeffPrice", "Price", "Price", " ", "Rating"})
	assert.Equal(t, []string{"Price", "Price.1", "Price.2", "Unnamed: 3", "Rating"}, got)
}

func TestColumnPresence(t *testing.T) {
	ds := sampleDataset(t)

	assert.True(t, ds.HasColumn(ColumnPrice))
	assert.False(t, ds.HasColumn(ColumnSubCategory))
	assert.Equal(t, []string{ColumnSubCategory, ColumnReviews},
		ds.MissingColumns(ColumnPrice, ColumnSubCategory, ColumnReviews))
	assert.Nil(t, ds.Strings(ColumnSubCategory))
}

func TestWithFloats(t *testing.T) {
	ds := sampleDataset(t)
	assert.Empty(t, ds.NumericColumns())
	assert.Nil(t, ds.Floats(ColumnPrice))

	cleaned, err := ds.WithFloats(ColumnPrice, []float64{14.70, 1234.50, math.NaN()})
	require.NoError(t, err)

	prices := cleaned.Floats(ColumnPrice)
	require.Len(t, prices, 3)
	assert.InDelta(t, 14.70, prices[0], 1e-9)
	assert.InDelta(t, 1234.50, prices[1], 1e-9)
	assert.True(t, math.IsNaN(prices[2]))
	assert.Equal(t, []string{ColumnPrice}, cleaned.NumericColumns())
	assert.Equal(t, ds.Columns(), cleaned.Columns(), "column order is kept")

	// The original is untouched.
	assert.False(t, ds.IsNumeric(ColumnPrice))
}

func TestWithFloats_Errors(t *testing.T) {
	ds := sampleDataset(t)

	_, err := ds.WithFloats(ColumnReviews, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = ds.WithFloats(ColumnPrice, []float64{1})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	ds := sampleDataset(t)
	assert.Equal(t, "Rows: 3, columns: ['Product Name', 'Price', 'Rating', 'Unnamed: 3']", ds.Summary())
}
