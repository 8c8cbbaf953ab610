package scoring

import (
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func flatCandles(n int, close float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Open: close, High: close + 0.5, Low: close - 0.5, Close: close}
	}
	return out
}

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Open: c, High: c + 0.5, Low: c - 0.5, Close: c}
	}
	return out
}

func TestTechnicalEmptyHistory(t *testing.T) {
	sub := Technical(nil)
	if sub.Score != 50 {
		t.Fatalf("expected neutral 50 for empty history, got %v", sub.Score)
	}
	if len(sub.Factors) != 0 {
		t.Fatalf("expected no factors, got %v", sub.Factors)
	}
}

func TestTechnicalDowntrendOversold(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 130 - float64(i)
	}
	sub := Technical(candlesFromCloses(closes))
	// below MA20, RSI 0 -> oversold +10
	if sub.Score != 60 {
		t.Fatalf("expected 60, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestTechnicalUptrendOverbought(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 0.5*float64(i)
	}
	sub := Technical(candlesFromCloses(closes))
	// +10 +15 +20 above all MAs, -15 overbought (RSI 100)
	if sub.Score != 80 {
		t.Fatalf("expected 80, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestTechnicalNeutralRSIAddsNothing(t *testing.T) {
	closes := make([]float64, 21)
	closes[0] = 100
	for i := 1; i <= 20; i++ {
		if i%4 == 0 {
			closes[i] = closes[i-1] - 2
		} else {
			closes[i] = closes[i-1] + 1
		}
	}
	sub := Technical(candlesFromCloses(closes))
	// above MA20 only; RSI stays inside (30,70)
	if sub.Score != 60 {
		t.Fatalf("expected 60, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestFundamentalAgainstPeers(t *testing.T) {
	f := models.Fundamentals{PE: 10, ROE: 20, Growth5Y: 12, ProfitMargin: 20, DividendYield: 3}
	sub := Fundamental(f, SectorStats{MedianPE: 15, MedianROE: 15, HasPeers: true})
	// +10 +15 +10 +10 +5 = 100 clamped
	if sub.Score != 100 {
		t.Fatalf("expected 100, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestFundamentalFallbackThresholds(t *testing.T) {
	f := models.Fundamentals{PE: 10, ROE: 20}
	sub := Fundamental(f, SectorStats{})
	// pe < pe*1.2 and roe > 15
	if sub.Score != 75 {
		t.Fatalf("expected 75, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestFundamentalHighDebtPenalty(t *testing.T) {
	f := models.Fundamentals{PE: 40, ROE: 5, DebtToEquity: 1.2}
	sub := Fundamental(f, SectorStats{MedianPE: 15, MedianROE: 15, HasPeers: true})
	if sub.Score != 40 {
		t.Fatalf("expected 40, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestFundamentalZeroSnapshotSkipsPeerComparisons(t *testing.T) {
	sub := Fundamental(models.Fundamentals{}, SectorStats{MedianPE: 15, MedianROE: 15, HasPeers: true})
	if sub.Score != 50 {
		t.Fatalf("expected neutral 50 for zero snapshot, got %v (factors %v)", sub.Score, sub.Factors)
	}
}

func TestRiskLowVolatilityLowBeta(t *testing.T) {
	sub, atrPct := Risk(models.Fundamentals{Beta: 0.9}, flatCandles(20, 100))
	if sub.Score != 75 {
		t.Fatalf("expected 75, got %v (factors %v)", sub.Score, sub.Factors)
	}
	if atrPct >= 2.5 || math.IsNaN(atrPct) {
		t.Fatalf("expected low atr pct, got %v", atrPct)
	}
}

func TestRiskHighVolatilityHighBeta(t *testing.T) {
	candles := make([]models.Candle, 20)
	for i := range candles {
		candles[i] = models.Candle{Open: 100, High: 110, Low: 90, Close: 100}
	}
	sub, atrPct := Risk(models.Fundamentals{Beta: 1.4}, candles)
	if sub.Score != 30 {
		t.Fatalf("expected 30, got %v (factors %v)", sub.Score, sub.Factors)
	}
	if atrPct <= 5 {
		t.Fatalf("expected high atr pct, got %v", atrPct)
	}
}

func TestRiskEmptyHistory(t *testing.T) {
	sub, atrPct := Risk(models.Fundamentals{Beta: 1.1}, nil)
	if sub.Score != 50 {
		t.Fatalf("expected neutral 50, got %v", sub.Score)
	}
	if !math.IsNaN(atrPct) {
		t.Fatalf("expected NaN atr pct for empty history, got %v", atrPct)
	}
}

func TestCompositeWeightsAndSignals(t *testing.T) {
	score, signal, _ := Composite(SubScore{Score: 95}, SubScore{Score: 75}, SubScore{Score: 75})
	// 0.45*95 + 0.40*75 + 0.15*75 = 84
	if score != 84 || signal != models.SignalBuy {
		t.Fatalf("expected 84/BUY, got %d/%s", score, signal)
	}

	score, signal, _ = Composite(SubScore{Score: 50}, SubScore{Score: 50}, SubScore{Score: 50})
	if score != 50 || signal != models.SignalHold {
		t.Fatalf("expected 50/HOLD, got %d/%s", score, signal)
	}

	score, signal, _ = Composite(SubScore{Score: 30}, SubScore{Score: 40}, SubScore{Score: 50})
	// 13.5 + 16 + 7.5 = 37
	if score != 37 || signal != models.SignalSell {
		t.Fatalf("expected 37/SELL, got %d/%s", score, signal)
	}
}

func TestCompositeBounds(t *testing.T) {
	for _, s := range []float64{0, 100} {
		score, _, _ := Composite(SubScore{Score: s}, SubScore{Score: s}, SubScore{Score: s})
		if score < 0 || score > 100 {
			t.Fatalf("composite %d out of bounds", score)
		}
	}
}

func TestTopFactorsDeterministicOrder(t *testing.T) {
	tech := SubScore{Score: 80, Factors: []Factor{
		{Label: "price above MA200", Contribution: 20, Category: CategoryTechnical},
		{Label: "price above MA50", Contribution: 15, Category: CategoryTechnical},
	}}
	fund := SubScore{Score: 60, Factors: []Factor{
		{Label: "P/E below sector median", Contribution: 10, Category: CategoryFundamental},
	}}
	risk := SubScore{Score: 65, Factors: []Factor{
		{Label: FactorLowVolatility, Contribution: 15, Category: CategoryRisk},
		{Label: "beta below 1", Contribution: 10, Category: CategoryRisk},
	}}
	_, _, factors := Composite(tech, fund, risk)
	want := []string{"price above MA200", "price above MA50", FactorLowVolatility}
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %v", factors)
	}
	for i, w := range want {
		if factors[i] != w {
			t.Fatalf("factor[%d] = %q, want %q (all %v)", i, factors[i], w, factors)
		}
	}
}
