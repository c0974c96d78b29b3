// Package indicator provides pure technical-indicator functions over close
// price slices. Every *Series function returns a slice aligned to the input
// index; entries before the warmup window are NaN.
package indicator

import "math"

// SMASeries computes the rolling arithmetic mean over `window` values.
// The first window-1 entries are undefined.
func SMASeries(values []float64, window int) []float64 {
	out := undefinedSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// LatestSMA returns the most recent simple moving average, or NaN when the
// series is shorter than the window.
func LatestSMA(values []float64, window int) float64 {
	sma := SMASeries(values, window)
	if len(sma) == 0 {
		return math.NaN()
	}
	return sma[len(sma)-1]
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
