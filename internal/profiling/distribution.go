package profiling

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// NumericSummary holds the summary statistics of a numeric column
type NumericSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes summary statistics; it fails on empty input
func Summarize(data []float64) (NumericSummary, error) {
	summary := NumericSummary{Count: len(data)}

	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	summary.Min = floats.Min(data)
	summary.Max = floats.Max(data)
	summary.Mean = stat.Mean(data, nil)
	summary.Median = median
	return summary, nil
}
