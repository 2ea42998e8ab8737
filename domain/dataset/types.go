package dataset

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names the report knows about. Every one of them is optional.
const (
	ColumnPrice        = "Price"
	ColumnRating       = "Rating"
	ColumnReviews      = "Reviews"
	ColumnSubCategory  = "Sub Category"
	ColumnMainCategory = "Main Category"
	ColumnProductName  = "Product Name"
)

// Dataset is an in-memory table backed by a gota DataFrame.
// Cleaned numeric columns are series.Float with NaN for missing values;
// every other column is series.String with "" for missing values.
// A Dataset is never modified in place: WithFloats returns a new value.
type Dataset struct {
	source string
	frame  dataframe.DataFrame
}

// New builds a dataset of string columns from a header row and data rows.
// Short rows are padded with missing values and extra cells are dropped.
func New(source string, headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("dataset %s has no columns", source)
	}

	names := uniqueColumnNames(headers)
	columns := make([]series.Series, len(names))
	for j, name := range names {
		values := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				values[i] = strings.TrimSpace(row[j])
			}
		}
		columns[j] = series.New(values, series.String, name)
	}

	frame := dataframe.New(columns...)
	if frame.Err != nil {
		return nil, fmt.Errorf("failed to build dataset %s: %w", source, frame.Err)
	}
	return &Dataset{source: source, frame: frame}, nil
}

// uniqueColumnNames names blank headers "Unnamed: i" and suffixes repeats ".1", ".2", ...
func uniqueColumnNames(headers []string) []string {
	names := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// Source returns where the dataset was loaded from
func (d *Dataset) Source() string {
	return d.source
}

// Columns returns the column names in file order
func (d *Dataset) Columns() []string {
	return d.frame.Names()
}

// NumRows returns the number of data rows
func (d *Dataset) NumRows() int {
	return d.frame.Nrow()
}

// NumCols returns the number of columns
func (d *Dataset) NumCols() int {
	return d.frame.Ncol()
}

// HasColumn reports whether the named column exists
func (d *Dataset) HasColumn(name string) bool {
	for _, n := range d.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of names that are not columns of the dataset
func (d *Dataset) MissingColumns(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !d.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// IsNumeric reports whether the named column holds float values
func (d *Dataset) IsNumeric(name string) bool {
	if !d.HasColumn(name) {
		return false
	}
	return d.frame.Col(name).Type() == series.Float
}

// NumericColumns lists the numeric columns in file order
func (d *Dataset) NumericColumns() []string {
	var numeric []string
	for _, name := range d.frame.Names() {
		if d.IsNumeric(name) {
			numeric = append(numeric, name)
		}
	}
	return numeric
}

// Strings returns the column as text with "" for missing values, or nil if absent.
// Numeric columns are formatted back to text.
func (d *Dataset) Strings(name string) []string {
	if !d.HasColumn(name) {
		return nil
	}
	col := d.frame.Col(name)
	values := make([]string, col.Len())
	for i := range values {
		elem := col.Elem(i)
		if elem.IsNA() {
			continue
		}
		values[i] = elem.String()
	}
	return values
}

// Floats returns a numeric column with NaN for missing values,
// or nil if the column is absent or not numeric.
func (d *Dataset) Floats(name string) []float64 {
	if !d.IsNumeric(name) {
		return nil
	}
	return d.frame.Col(name).Float()
}

// WithFloats returns a copy of the dataset whose named column is replaced by values
func (d *Dataset) WithFloats(name string, values []float64) (*Dataset, error) {
	if !d.HasColumn(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if len(values) != d.NumRows() {
		return nil, fmt.Errorf("column %q: got %d values for %d rows", name, len(values), d.NumRows())
	}
	frame := d.frame.Mutate(series.New(values, series.Float, name))
	if frame.Err != nil {
		return nil, fmt.Errorf("failed to replace column %q: %w", name, frame.Err)
	}
	return &Dataset{source: d.source, frame: frame}, nil
}

// Summary renders the shape line printed at the start of a run
func (d *Dataset) Summary() string {
	quoted := make([]string, 0, d.NumCols())
	for _, name := range d.Columns() {
		quoted = append(quoted, "'"+name+"'")
	}
	return fmt.Sprintf("Rows: %d, columns: [%s]", d.NumRows(), strings.Join(quoted, ", "))
}
