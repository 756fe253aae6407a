package clean

import (
	"math"
	"sort"
	"strconv"
)

// asFloat extracts a numeric value from a cell. Strings are parsed; filled
// medians arrive as float64. Non-numeric cells report false.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// median returns the median of vs. vs must be non-empty; it is not modified.
func median(vs []float64) float64 {
	s := append([]float64(nil), vs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// meanStddev returns the mean and sample standard deviation of vs.
// The deviation is 0 when fewer than two values are present.
func meanStddev(vs []float64) (mean, sd float64) {
	n := float64(len(vs))
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	mean = sum / n
	if len(vs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}
