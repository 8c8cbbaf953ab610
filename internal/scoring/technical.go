package scoring

import (
	"StockPulse/internal/domain/models"
	"StockPulse/internal/indicator"
)

// Factor labels shared with the ranking filters.
const (
	FactorLowVolatility  = "low volatility"
	FactorHighVolatility = "high volatility"
)

// Technical scores price action against trailing moving averages and RSI.
// An empty or short history leaves the score at its neutral baseline.
func Technical(history []models.Candle) SubScore {
	sub := SubScore{Score: 50}
	if len(history) == 0 {
		return sub
	}

	closes := make([]float64, len(history))
	for i, c := range history {
		closes[i] = c.Close
	}
	last := closes[len(closes)-1]

	ma20 := indicator.Last(indicator.MovingAverage(closes, 20))
	ma50 := indicator.Last(indicator.MovingAverage(closes, 50))
	ma200 := indicator.Last(indicator.MovingAverage(closes, 200))

	if indicator.Defined(ma20) && last > ma20 {
		sub.add(10, "price above MA20", CategoryTechnical)
	}
	if indicator.Defined(ma50) && last > ma50 {
		sub.add(15, "price above MA50", CategoryTechnical)
	}
	if indicator.Defined(ma200) && last > ma200 {
		sub.add(20, "price above MA200", CategoryTechnical)
	}

	rsi := indicator.Last(indicator.RSI(closes, 14))
	if indicator.Defined(rsi) {
		switch {
		case rsi > 70:
			sub.add(-15, "overbought (RSI > 70)", CategoryTechnical)
		case rsi < 30:
			sub.add(10, "oversold (RSI < 30)", CategoryTechnical)
		}
	}

	sub.Score = clamp(sub.Score)
	return sub
}
