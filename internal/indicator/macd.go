package indicator

import (
	"math"

	"QuantTerminal/internal/model"
)

// EMASeries computes the exponential moving average with smoothing factor
// α = 2/(period+1), seeded with the simple mean of the first `period`
// defined values. Leading NaN entries in the input are preserved and the
// warmup starts at the first defined value, so the function composes with
// other *Series outputs.
func EMASeries(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}

	start := 0
	for start < len(values) && math.IsNaN(values[start]) {
		start++
	}
	if len(values)-start < period {
		return out
	}

	alpha := 2.0 / float64(period+1)
	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += values[i]
	}
	out[start+period-1] = sum / float64(period)
	for i := start + period; i < len(values); i++ {
		out[i] = values[i]*alpha + out[i-1]*(1-alpha)
	}
	return out
}

// MACD holds the MACD line, its signal line, and the histogram, all aligned
// to the close series they were computed from.
type MACD struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// ComputeMACD computes macd_line = EMA(fast) − EMA(slow) and
// signal_line = EMA(macd_line, signal).
func ComputeMACD(closes []float64, fast, slow, signal int) MACD {
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)

	line := undefinedSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			line[i] = fastEMA[i] - slowEMA[i]
		}
	}

	sig := EMASeries(line, signal)
	hist := undefinedSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(line[i]) && !math.IsNaN(sig[i]) {
			hist[i] = line[i] - sig[i]
		}
	}
	return MACD{Line: line, Signal: sig, Histogram: hist}
}

// CrossAt reports a crossover at bar i, evaluated strictly on the two
// consecutive bars i-1 and i. A bullish cross is macd ≤ signal at i-1 and
// macd > signal at i; bearish is the mirror. Bars where either line is
// undefined never cross.
func (m MACD) CrossAt(i int) model.Cross {
	if i < 1 || i >= len(m.Line) {
		return model.CrossNone
	}
	prevLine, prevSig := m.Line[i-1], m.Signal[i-1]
	curLine, curSig := m.Line[i], m.Signal[i]
	if math.IsNaN(prevLine) || math.IsNaN(prevSig) || math.IsNaN(curLine) || math.IsNaN(curSig) {
		return model.CrossNone
	}
	if prevLine <= prevSig && curLine > curSig {
		return model.CrossBullish
	}
	if prevLine >= prevSig && curLine < curSig {
		return model.CrossBearish
	}
	return model.CrossNone
}

// LatestCross returns the crossover state at the most recent bar.
func (m MACD) LatestCross() model.Cross {
	return m.CrossAt(len(m.Line) - 1)
}
