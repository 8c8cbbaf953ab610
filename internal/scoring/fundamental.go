package scoring

import "StockPulse/internal/domain/models"

// Fundamental scores valuation and quality ratios against the instrument's
// sector peers. Snapshots with no data at all skip the peer comparisons so a
// missing P/E cannot read as a bargain.
func Fundamental(f models.Fundamentals, sector SectorStats) SubScore {
	sub := SubScore{Score: 50}

	if !f.IsZero() {
		peThreshold := f.PE * 1.2
		if sector.HasPeers {
			peThreshold = sector.MedianPE
		}
		if f.PE < peThreshold {
			sub.add(10, "P/E below sector median", CategoryFundamental)
		}

		roeThreshold := 15.0
		if sector.HasPeers {
			roeThreshold = sector.MedianROE
		}
		if f.ROE > roeThreshold {
			sub.add(15, "ROE above sector median", CategoryFundamental)
		}
	}

	if f.Growth5Y > 10 {
		sub.add(10, "5y growth above 10%", CategoryFundamental)
	}
	if f.ProfitMargin > 15 {
		sub.add(10, "profit margin above 15%", CategoryFundamental)
	}
	if f.DividendYield >= 3 {
		sub.add(5, "dividend yield at least 3%", CategoryFundamental)
	}
	if f.DebtToEquity > 0.8 {
		sub.add(-10, "high debt to equity", CategoryFundamental)
	}

	sub.Score = clamp(sub.Score)
	return sub
}
