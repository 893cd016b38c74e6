package imagestats

import "gonum.org/v1/gonum/stat"

// Summary describes a population for reporting.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes count, mean, sample standard deviation and range of an
// ascending population.
func Summarize(sorted []float64) Summary {
	if len(sorted) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) == 1 {
		s.Mean = sorted[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	return s
}
