package scoring

import (
	"math"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicator"
)

// Risk scores volatility (ATR as percent of the last close) and market beta.
// It also returns the raw ATR percentage, NaN when it cannot be computed, so
// callers can filter on volatility numerically.
func Risk(f models.Fundamentals, history []models.Candle) (SubScore, float64) {
	sub := SubScore{Score: 50}
	atrPct := math.NaN()

	atr := indicator.Last(indicator.ATR(history, 14))
	if indicator.Defined(atr) && len(history) > 0 {
		lastClose := history[len(history)-1].Close
		if lastClose != 0 {
			atrPct = atr / lastClose * 100
			switch {
			case atrPct < 2.5:
				sub.add(15, FactorLowVolatility, CategoryRisk)
			case atrPct > 5:
				sub.add(-10, FactorHighVolatility, CategoryRisk)
			}
		}
	}

	if f.Beta < 1 {
		sub.add(10, "beta below 1", CategoryRisk)
	} else if f.Beta > 1.3 {
		sub.add(-10, "beta above 1.3", CategoryRisk)
	}

	sub.Score = clamp(sub.Score)
	return sub, atrPct
}
