// Package profiling describes the numeric columns of a cleaned dataset.
package profiling

import (
	"pricecharts/domain/dataset"
)

// DataProfiler computes per-column summaries
type DataProfiler struct {
	analyzer *DistributionAnalyzer
}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{analyzer: NewDistributionAnalyzer()}
}

// ProfileColumn summarizes one column; NaN entries count as missing
func (dp *DataProfiler) ProfileColumn(name string, values []float64) (dataset.ColumnProfile, error) {
	data := present(values)
	profile := dataset.ColumnProfile{
		Name:    name,
		Count:   len(data),
		Missing: len(values) - len(data),
	}
	if len(data) == 0 {
		return profile, nil
	}

	s, err := dp.analyzer.AnalyzeDistribution(data)
	if err != nil {
		return profile, err
	}
	profile.Mean = s.Mean
	profile.StdDev = s.StdDev
	profile.Min = s.Min
	profile.Q25 = s.Q25
	profile.Median = s.Median
	profile.Q75 = s.Q75
	profile.Max = s.Max
	profile.Skewness = s.Skewness
	profile.Outliers = s.Outliers
	return profile, nil
}

// ProfileDataset profiles every numeric column in column order
func (dp *DataProfiler) ProfileDataset(ds *dataset.Dataset) ([]dataset.ColumnProfile, error) {
	names := ds.NumericColumns()
	profiles := make([]dataset.ColumnProfile, 0, len(names))
	for _, name := range names {
		profile, err := dp.ProfileColumn(name, ds.Floats(name))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}
