package indicator

import "math"

// RSISeries computes the Relative Strength Index over `period` bars using
// simple rolling means of gains and losses. The value at index i requires
// period deltas ending at i, so the first `period` entries are undefined.
// When the average loss over the window is zero the RSI is pinned to 100
// (fully overbought, no losses) instead of overflowing.
func RSISeries(closes []float64, period int) []float64 {
	out := undefinedSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}
		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// LatestRSI returns the most recent RSI value, or NaN when the series has
// fewer than period+1 bars.
func LatestRSI(closes []float64, period int) float64 {
	rsi := RSISeries(closes, period)
	if len(rsi) == 0 {
		return math.NaN()
	}
	return rsi[len(rsi)-1]
}
