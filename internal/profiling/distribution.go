package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary holds distribution statistics of a sample
type Summary struct {
	Mean     float64
	StdDev   float64
	Min      float64
	Q25      float64
	Median   float64
	Q75      float64
	Max      float64
	Skewness float64
	Outliers int
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// AnalyzeDistribution summarizes data, which must be non-empty and free of NaN
func (da *DistributionAnalyzer) AnalyzeDistribution(data []float64) (Summary, error) {
	var summary Summary

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	// Sample standard deviation, matching what a describe() table shows
	stdDev := 0.0
	if len(data) > 1 {
		if stdDev, err = stats.StandardDeviationSample(data); err != nil {
			return summary, err
		}
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}

	q25, median, q75, err := quartiles(data)
	if err != nil {
		return summary, err
	}

	summary = Summary{
		Mean:     mean,
		StdDev:   stdDev,
		Min:      min,
		Q25:      q25,
		Median:   median,
		Q75:      q75,
		Max:      max,
		Skewness: calculateSkewness(data, mean, stdDev),
		Outliers: detectOutliers(data, q25, q75),
	}
	return summary, nil
}

// quartiles uses the medians of the lower and upper halves, as the box plots do
func quartiles(data []float64) (q25, median, q75 float64, err error) {
	if len(data) == 1 {
		return data[0], data[0], data[0], nil
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	q, err := stats.Quartile(stats.Float64Data(sorted))
	if err != nil {
		return 0, 0, 0, err
	}
	return q.Q1, q.Q2, q.Q3, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// detectOutliers counts values outside the 1.5 IQR fences
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
