// Package scoring turns one instrument's market data into technical,
// fundamental and risk sub-scores and a weighted composite.
package scoring

import (
	"math"
	"sort"

	"StockPulse/internal/domain/models"
)

const (
	weightTechnical   = 0.45
	weightFundamental = 0.40
	weightRisk        = 0.15

	buyThreshold  = 70
	sellThreshold = 45

	maxFactors = 3
)

// Category orders factor ties deterministically: technical before
// fundamental before risk.
type Category int

const (
	CategoryTechnical Category = iota
	CategoryFundamental
	CategoryRisk
)

// Factor is one triggered scoring condition with its signed contribution.
type Factor struct {
	Label        string
	Contribution float64
	Category     Category
}

// SubScore is the result of one sub-scorer, clamped to [0,100].
type SubScore struct {
	Score   float64
	Factors []Factor
}

func (s *SubScore) add(points float64, label string, cat Category) {
	s.Score += points
	s.Factors = append(s.Factors, Factor{Label: label, Contribution: points, Category: cat})
}

// SectorStats carries the peer-relative baselines for one sector, computed
// once per batch and reused for every member.
type SectorStats struct {
	MedianPE  float64
	MedianROE float64
	HasPeers  bool
}

// Composite folds the three sub-scores into a 0-100 integer score, the
// derived signal, and the top explanatory factors.
func Composite(technical, fundamental, risk SubScore) (int, models.Signal, []string) {
	weighted := weightTechnical*technical.Score +
		weightFundamental*fundamental.Score +
		weightRisk*risk.Score
	score := int(math.Round(clamp(weighted)))

	signal := models.SignalHold
	switch {
	case score >= buyThreshold:
		signal = models.SignalBuy
	case score <= sellThreshold:
		signal = models.SignalSell
	}

	all := make([]Factor, 0, len(technical.Factors)+len(fundamental.Factors)+len(risk.Factors))
	all = append(all, technical.Factors...)
	all = append(all, fundamental.Factors...)
	all = append(all, risk.Factors...)

	return score, signal, topFactors(all, maxFactors)
}

// topFactors ranks factors by absolute contribution, largest first. Ties
// break by category order, then label, so output is reproducible.
func topFactors(factors []Factor, n int) []string {
	sort.SliceStable(factors, func(i, j int) bool {
		ai, aj := math.Abs(factors[i].Contribution), math.Abs(factors[j].Contribution)
		if ai != aj {
			return ai > aj
		}
		if factors[i].Category != factors[j].Category {
			return factors[i].Category < factors[j].Category
		}
		return factors[i].Label < factors[j].Label
	})
	if len(factors) > n {
		factors = factors[:n]
	}
	labels := make([]string, 0, len(factors))
	for _, f := range factors {
		labels = append(labels, f.Label)
	}
	return labels
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
