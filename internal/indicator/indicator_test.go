package indicator

import (
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	if len(got) != 5 {
		t.Fatalf("expected same-length output, got %d", len(got))
	}
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected NaN before period-1, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if got[i+2] != w {
			t.Errorf("ma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestMovingAverageShortSeries(t *testing.T) {
	got := MovingAverage([]float64{1, 2}, 5)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Errorf("expected NaN at %d for short series, got %v", i, v)
		}
	}
}

func TestRSIWilderSmoothing(t *testing.T) {
	got := RSI([]float64{1, 2, 3, 2, 3}, 2)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected NaN for first period entries")
	}
	if got[2] != 100 {
		t.Errorf("rsi[2] = %v, want 100 (zero average loss)", got[2])
	}
	if got[3] != 50 {
		t.Errorf("rsi[3] = %v, want 50", got[3])
	}
	if got[4] != 75 {
		t.Errorf("rsi[4] = %v, want 75", got[4])
	}
}

func TestRSIBounds(t *testing.T) {
	series := make([]float64, 120)
	for i := range series {
		series[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i%7)
	}
	for i, v := range RSI(series, 14) {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %v out of [0,100]", i, v)
		}
	}
}

func TestATR(t *testing.T) {
	candles := []models.Candle{
		{High: 2, Low: 1, Close: 1.5},
		{High: 3, Low: 2, Close: 2.5},
		{High: 2.5, Low: 1.5, Close: 2},
	}
	got := ATR(candles, 2)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected NaN for first period bars")
	}
	// tr = [1, 1.5, 1]; seed (1+1.5)/2 = 1.25; (1.25*1+1)/2 = 1.125
	if got[2] != 1.13 {
		t.Errorf("atr[2] = %v, want 1.13", got[2])
	}
}

func TestATREmptyHistory(t *testing.T) {
	if got := ATR(nil, 14); len(got) != 0 {
		t.Fatalf("expected empty output for empty input, got %d values", len(got))
	}
}

func TestIndicatorsDeterministic(t *testing.T) {
	series := make([]float64, 60)
	candles := make([]models.Candle, 60)
	for i := range series {
		v := 50 + 5*math.Sin(float64(i)/5)
		series[i] = v
		candles[i] = models.Candle{Open: v, High: v * 1.01, Low: v * 0.99, Close: v}
	}
	a1, a2 := MovingAverage(series, 20), MovingAverage(series, 20)
	r1, r2 := RSI(series, 14), RSI(series, 14)
	t1, t2 := ATR(candles, 14), ATR(candles, 14)
	for i := range series {
		if !equalNaN(a1[i], a2[i]) || !equalNaN(r1[i], r2[i]) || !equalNaN(t1[i], t2[i]) {
			t.Fatalf("non-deterministic output at index %d", i)
		}
	}
}

func equalNaN(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
