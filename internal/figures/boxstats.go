package figures

import (
	"sort"

	"github.com/montanaflynn/stats"

	"pricecharts/domain/chart"
	"pricecharts/domain/core"
)

// summarize computes Tukey box statistics for the non-missing values.
// Quartiles are the medians of the lower and upper halves (montanaflynn/stats).
func summarize(label string, values []float64) (chart.BoxStats, error) {
	data := present(values)
	if len(data) == 0 {
		return chart.BoxStats{}, core.NewInsufficientDataError("no values for " + label)
	}
	sort.Float64s(data)

	box := chart.BoxStats{
		Label:  label,
		N:      len(data),
		Min:    data[0],
		Max:    data[len(data)-1],
		Values: data,
	}

	if len(data) == 1 {
		box.Q1, box.Median, box.Q3 = data[0], data[0], data[0]
	} else {
		quartiles, err := stats.Quartile(stats.Float64Data(data))
		if err != nil {
			return chart.BoxStats{}, err
		}
		box.Q1, box.Median, box.Q3 = quartiles.Q1, quartiles.Q2, quartiles.Q3
	}

	lowFence := box.Q1 - 1.5*box.IQR()
	highFence := box.Q3 + 1.5*box.IQR()
	box.LowerWhisker, box.UpperWhisker = box.Q1, box.Q3
	for _, v := range data {
		if v < lowFence || v > highFence {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.LowerWhisker {
			box.LowerWhisker = v
		}
		if v > box.UpperWhisker {
			box.UpperWhisker = v
		}
	}

	return box, nil
}
