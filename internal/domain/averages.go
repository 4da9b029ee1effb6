package domain

import "math"

// NextRunningAverage folds one new sample into a running average whose
// previous value covered oldCount samples, rounding to the nearest whole
// number. With oldCount zero the sample becomes the average.
func NextRunningAverage(oldAverage int, oldCount int, sample int) int {
	if oldCount <= 0 {
		return sample
	}
	return int(math.Round(float64(oldAverage*oldCount+sample) / float64(oldCount+1)))
}

// NextSuccessRate folds one success/failure outcome into a whole-percent
// success rate that previously covered oldCount samples. The previous
// success tally is reconstructed from the rounded rate, matching how the
// statistic has always been maintained.
func NextSuccessRate(oldRate int, oldCount int, success bool) int {
	successes := int(math.Round(float64(oldRate*oldCount) / 100))
	if success {
		successes++
	}
	return int(math.Round(float64(successes) / float64(oldCount+1) * 100))
}
