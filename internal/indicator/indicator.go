// Package indicator provides pure numeric functions over price series.
// Positions without enough trailing data hold NaN; callers must treat NaN as
// "condition not met" and never feed it into a score.
package indicator

import (
	"math"

	"StockPulse/internal/domain/models"
)

// MovingAverage returns the trailing arithmetic mean over period for every
// position. The first period-1 positions are NaN. Values are rounded to two
// decimals.
func MovingAverage(series []float64, period int) []float64 {
	out := nanSlice(len(series))
	if period <= 0 || len(series) < period {
		return out
	}
	sum := 0.0
	for i, v := range series {
		sum += v
		if i >= period {
			sum -= series[i-period]
		}
		if i >= period-1 {
			out[i] = round2(sum / float64(period))
		}
	}
	return out
}

// RSI returns the Wilder-smoothed relative strength index. The first period
// positions are NaN. When the running average loss is exactly zero the value
// is 100.
func RSI(series []float64, period int) []float64 {
	out := nanSlice(len(series))
	if period <= 0 || len(series) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}

// ATR returns the Wilder-smoothed average true range. True range per bar is
// max(high-low, |high-prevClose|, |low-prevClose|); the first bar has no
// previous close and uses high-low alone. The first period positions are NaN.
func ATR(candles []models.Candle, period int) []float64 {
	out := nanSlice(len(candles))
	if period <= 0 || len(candles) < period+1 {
		return out
	}

	tr := make([]float64, len(candles))
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		prevClose := candles[i-1].Close
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - prevClose)
		lc := math.Abs(candles[i].Low - prevClose)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	running := 0.0
	for i := 0; i < period; i++ {
		running += tr[i]
	}
	running /= float64(period)

	for i := period; i < len(candles); i++ {
		running = (running*float64(period-1) + tr[i]) / float64(period)
		out[i] = round2(running)
	}
	return out
}

// Defined reports whether v carries a computed value.
func Defined(v float64) bool { return !math.IsNaN(v) }

// Last returns the final value of series, or NaN for an empty series.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
