package temporal

import "tally/domain/stats"

// Accumulate walks buckets in order keeping a running total and a running
// mean of the bucket totals seen so far.
func Accumulate(buckets []stats.Bucket) []stats.CumulativeBucket {
	out := make([]stats.CumulativeBucket, len(buckets))

	var runningTotal int64
	for i, b := range buckets {
		runningTotal += b.Total
		runningCount := i + 1
		out[i] = stats.CumulativeBucket{
			Bucket:            b,
			CumulativeTotal:   runningTotal,
			CumulativeAverage: Round2(float64(runningTotal) / float64(runningCount)),
		}
	}

	return out
}
