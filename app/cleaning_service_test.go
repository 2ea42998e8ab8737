package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecharts/adapters/datareadiness/coercer"
	"pricecharts/domain/dataset"
	"pricecharts/internal"
)

func newCleaner() *CleaningService {
	return NewCleaningService(coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()), internal.NewNopLogger())
}

func TestClean_ConvertsKnownColumns(t *testing.T) {
	ds, err := dataset.New("t.csv",
		[]string{"Product Name", "Price", "Rating", "Reviews", "Stock", "Sub Category"},
		[][]string{
			{"Kettle", "£14.70", "4.5", "120", "3", "Kettles"},
			{"Toaster", "£1,234.50", "bad", "", "", "Toasters"},
			{"Mug", "N/A", "3", "7", "10", "Mugs"},
		})
	require.NoError(t, err)

	cleaned, report, err := newCleaner().Clean(ds)
	require.NoError(t, err)

	prices := cleaned.Floats(dataset.ColumnPrice)
	require.Len(t, prices, 3)
	assert.InDelta(t, 14.70, prices[0], 1e-9)
	assert.InDelta(t, 1234.50, prices[1], 1e-9)
	assert.True(t, math.IsNaN(prices[2]))

	ratings := cleaned.Floats(dataset.ColumnRating)
	assert.True(t, math.IsNaN(ratings[1]))
	assert.Equal(t, 3.0, ratings[2])

	assert.Equal(t, []string{"Price", "Rating", "Reviews", "Stock"}, cleaned.NumericColumns())
	assert.Equal(t, []string{"Stock"}, report.Inferred)
	assert.Equal(t, 1, report.Columns[dataset.ColumnPrice].Failed)
	assert.Equal(t, 1, report.Columns[dataset.ColumnRating].Failed)
	assert.Equal(t, 1, report.Columns[dataset.ColumnReviews].Empty)

	assert.False(t, cleaned.IsNumeric(dataset.ColumnSubCategory))
	assert.Equal(t, 3, cleaned.NumRows(), "rows are never dropped")
}

func TestClean_TextRatingStaysNumericButMissing(t *testing.T) {
	ds, err := dataset.New("t.csv", []string{"Rating"}, [][]string{{"great"}, {"poor"}})
	require.NoError(t, err)

	cleaned, _, err := newCleaner().Clean(ds)
	require.NoError(t, err)

	assert.True(t, cleaned.IsNumeric(dataset.ColumnRating))
	for _, v := range cleaned.Floats(dataset.ColumnRating) {
		assert.True(t, math.IsNaN(v))
	}
}

func TestClean_NoKnownColumns(t *testing.T) {
	ds, err := dataset.New("t.csv", []string{"Name"}, [][]string{{"a"}})
	require.NoError(t, err)

	cleaned, report, err := newCleaner().Clean(ds)
	require.NoError(t, err)
	assert.Empty(t, cleaned.NumericColumns())
	assert.Empty(t, report.Columns)
}
