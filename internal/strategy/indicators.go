package strategy

import "math"

// SMA computes the simple moving average series using a sliding window sum.
// The result has len(data)-period+1 entries; it is empty when the input is
// shorter than the period.
func SMA(data []float64, period int) []float64 {
	if period <= 0 || len(data) < period {
		return nil
	}

	result := make([]float64, 0, len(data)-period+1)

	sum := 0.0
	for _, v := range data[:period] {
		sum += v
	}
	result = append(result, sum/float64(period))

	for i := period; i < len(data); i++ {
		sum += data[i] - data[i-period]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA computes the exponential moving average series. The first value is
// seeded with the simple average of the initial window.
func EMA(data []float64, period int) []float64 {
	if period <= 0 || len(data) == 0 {
		return nil
	}

	result := make([]float64, 0, len(data))
	multiplier := 2.0 / float64(period+1)

	seed := period
	if seed > len(data) {
		seed = len(data)
	}
	ema := 0.0
	for _, v := range data[:seed] {
		ema += v
	}
	ema /= float64(seed)
	result = append(result, ema)

	for i := 1; i < len(data); i++ {
		ema = (data[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

// StdDev computes the population standard deviation of data.
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	variance := 0.0
	for _, v := range data {
		diff := v - mean
		variance += diff * diff
	}

	return math.Sqrt(variance / float64(len(data)))
}

// BollingerBands computes the upper, middle, and lower bands over data with
// the given period and standard deviation multiplier. The middle band is the
// SMA; all three slices have the same length.
func BollingerBands(data []float64, period int, multiplier float64) (upper, middle, lower []float64) {
	middle = SMA(data, period)
	if len(middle) == 0 {
		return nil, nil, nil
	}

	upper = make([]float64, 0, len(middle))
	lower = make([]float64, 0, len(middle))

	for i := range middle {
		sd := StdDev(data[i : i+period])
		upper = append(upper, middle[i]+multiplier*sd)
		lower = append(lower, middle[i]-multiplier*sd)
	}

	return upper, middle, lower
}
