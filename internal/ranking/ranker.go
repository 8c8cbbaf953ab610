// Package ranking turns a batch of instrument snapshots into a sorted,
// filtered list of recommendations.
package ranking

import (
	"math"
	"sort"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/scoring"
)

// Options narrows the result set. Zero values disable a filter.
type Options struct {
	// Sectors keeps only recommendations whose sector is in the set.
	Sectors []string
	// MinScore drops recommendations scoring below it.
	MinScore int
	// MaxVolatility drops recommendations whose ATR percent of price exceeds
	// it. Instruments with unknown volatility pass.
	MaxVolatility float64
}

// BuildRecommendations scores every input against its sector peers, applies
// the option filters, and sorts by score descending with symbol as the tie
// break. It is a pure function of its inputs.
func BuildRecommendations(inputs []models.RankingInput, opts Options) []models.Recommendation {
	stats := sectorStats(inputs)

	recs := make([]models.Recommendation, 0, len(inputs))
	for _, in := range inputs {
		technical := scoring.Technical(in.History)
		fundamental := scoring.Fundamental(in.Fundamentals, stats[in.Quote.Sector])
		risk, atrPct := scoring.Risk(in.Fundamentals, in.History)

		score, signal, factors := scoring.Composite(technical, fundamental, risk)
		recs = append(recs, models.Recommendation{
			Symbol:     in.Quote.Symbol,
			Name:       in.Quote.Name,
			Sector:     in.Quote.Sector,
			Score:      score,
			Signal:     signal,
			Price:      in.Quote.Price,
			ChangePct:  in.Quote.ChangePct,
			Factors:    factors,
			ATRPercent: sanitize(atrPct),
		})
	}

	recs = applyFilters(recs, opts)

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Symbol < recs[j].Symbol
	})
	return recs
}

func applyFilters(recs []models.Recommendation, opts Options) []models.Recommendation {
	if len(opts.Sectors) > 0 {
		allowed := make(map[string]struct{}, len(opts.Sectors))
		for _, s := range opts.Sectors {
			allowed[s] = struct{}{}
		}
		recs = keep(recs, func(r models.Recommendation) bool {
			_, ok := allowed[r.Sector]
			return ok
		})
	}
	if opts.MinScore > 0 {
		recs = keep(recs, func(r models.Recommendation) bool {
			return r.Score >= opts.MinScore
		})
	}
	if opts.MaxVolatility > 0 {
		recs = keep(recs, func(r models.Recommendation) bool {
			return r.ATRPercent == 0 || r.ATRPercent <= opts.MaxVolatility
		})
	}
	return recs
}

func keep(recs []models.Recommendation, pred func(models.Recommendation) bool) []models.Recommendation {
	out := recs[:0]
	for _, r := range recs {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// sectorStats computes the per-sector median P/E and ROE once per batch.
// Instruments without a sector tag form no peer group.
func sectorStats(inputs []models.RankingInput) map[string]scoring.SectorStats {
	pes := make(map[string][]float64)
	roes := make(map[string][]float64)
	for _, in := range inputs {
		sector := in.Quote.Sector
		if sector == "" {
			continue
		}
		pes[sector] = append(pes[sector], in.Fundamentals.PE)
		roes[sector] = append(roes[sector], in.Fundamentals.ROE)
	}

	stats := make(map[string]scoring.SectorStats, len(pes))
	for sector, values := range pes {
		stats[sector] = scoring.SectorStats{
			MedianPE:  median(values),
			MedianROE: median(roes[sector]),
			HasPeers:  true,
		}
	}
	return stats
}

// median returns the element at floor(n/2) of the ascending-sorted values.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Round(v*100) / 100
}
