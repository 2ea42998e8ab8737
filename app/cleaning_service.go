package app

import (
	"pricecharts/adapters/datareadiness/coercer"
	"pricecharts/domain/dataset"
	"pricecharts/internal"
	"pricecharts/internal/errors"
)

// CleaningService normalizes the raw text dataset into typed columns
type CleaningService struct {
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// CleaningReport records what coercion did to each converted column
type CleaningReport struct {
	Columns map[string]coercer.CoercionStats `json:"columns"`
	// Inferred lists columns that became numeric because every value parsed
	Inferred []string `json:"inferred,omitempty"`
}

// NewCleaningService creates a cleaning service
func NewCleaningService(typeCoercer *coercer.TypeCoercer, logger *internal.Logger) *CleaningService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CleaningService{coercer: typeCoercer, logger: logger}
}

// Clean converts Price (currency text), Rating and Reviews to numbers and
// infers numeric type for any other column whose values are all numbers.
// Values that fail to parse become missing; Clean never drops rows.
func (s *CleaningService) Clean(ds *dataset.Dataset) (*dataset.Dataset, *CleaningReport, error) {
	report := &CleaningReport{Columns: make(map[string]coercer.CoercionStats)}
	cleaned := ds

	explicit := map[string]bool{
		dataset.ColumnPrice:   true,
		dataset.ColumnRating:  true,
		dataset.ColumnReviews: true,
	}

	for _, name := range ds.Columns() {
		raw := ds.Strings(name)

		var values []float64
		var stats coercer.CoercionStats
		switch {
		case name == dataset.ColumnPrice:
			values, stats = s.coercer.CoercePrices(raw)
		case explicit[name]:
			values, stats = s.coercer.CoerceNumeric(raw)
		default:
			if !s.coercer.AnalyzeTypeDistribution(raw).IsNumeric {
				continue
			}
			values, stats = s.coercer.CoerceNumeric(raw)
			report.Inferred = append(report.Inferred, name)
		}

		next, err := cleaned.WithFloats(name, values)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to clean column %s", name)
		}
		cleaned = next
		report.Columns[name] = stats

		if stats.Failed > 0 {
			s.logger.Debug("column %s: %d of %d values could not be parsed and are missing", name, stats.Failed, stats.Total)
		}
	}

	return cleaned, report, nil
}
