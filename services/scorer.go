package services

import (
	"sort"

	"ozon-radar/models"
)

// Profitability axis tiers, keyed on ROI percent (inclusive).
const (
	ROITierHigh = 50.0
	ROITierMid  = 30.0
	ROITierLow  = 15.0
	ProfitMax   = 40
	ProfitMid   = 30
	ProfitLow   = 15
)

// Demand axis tiers, keyed on review count (exclusive).
const (
	ReviewTierHigh = 1000
	ReviewTierMid  = 300
	ReviewTierLow  = 50
	DemandMax      = 30
	DemandMid      = 20
	DemandLow      = 10
)

// Competitive-opening axis: ratings inside [RatingBandLow, RatingBandHigh]
// mark an improvable product; below the band competition is weak but risky;
// above it an incumbent is entrenched.
const (
	RatingBandLow     = 3.8
	RatingBandHigh    = 4.5
	OpeningMax        = 30
	OpeningWeak       = 15
	OpeningEntrenched = 5
)

// Verdict thresholds (inclusive lower bounds).
const (
	VerdictStrongMin   = 80
	VerdictWorthTryMin = 60
	VerdictMediocreMin = 40
)

// Score is the breakdown of one listing's opportunity score.
type Score struct {
	Profitability int
	Demand        int
	Opening       int
	Total         int
	Verdict       models.Verdict
}

// ScoreListing sums the three axes independently, so a weak axis never
// zeroes the others, and clamps the total to [0,100].
func ScoreListing(l *models.Listing) Score {
	s := Score{
		Profitability: profitabilityScore(l.ROIPercent),
		Demand:        demandScore(l.ReviewCount),
		Opening:       openingScore(l.Rating),
	}
	s.Total = min(max(s.Profitability+s.Demand+s.Opening, 0), 100)
	s.Verdict = VerdictFor(s.Total)
	return s
}

func profitabilityScore(roi float64) int {
	switch {
	case roi >= ROITierHigh:
		return ProfitMax
	case roi >= ROITierMid:
		return ProfitMid
	case roi >= ROITierLow:
		return ProfitLow
	default:
		return 0
	}
}

func demandScore(reviews int) int {
	switch {
	case reviews > ReviewTierHigh:
		return DemandMax
	case reviews > ReviewTierMid:
		return DemandMid
	case reviews > ReviewTierLow:
		return DemandLow
	default:
		return 0
	}
}

func openingScore(rating float64) int {
	switch {
	case rating > RatingBandHigh:
		return OpeningEntrenched
	case rating >= RatingBandLow:
		return OpeningMax
	default:
		return OpeningWeak
	}
}

// VerdictFor maps a score to its label.
func VerdictFor(score int) models.Verdict {
	switch {
	case score >= VerdictStrongMin:
		return models.VerdictStrong
	case score >= VerdictWorthTryMin:
		return models.VerdictWorthTry
	case score >= VerdictMediocreMin:
		return models.VerdictMediocre
	default:
		return models.VerdictAvoid
	}
}

// Rank orders listings by descending score, then descending review count.
// Remaining ties keep input order.
func Rank(listings []*models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].OpportunityScore != listings[j].OpportunityScore {
			return listings[i].OpportunityScore > listings[j].OpportunityScore
		}
		return listings[i].ReviewCount > listings[j].ReviewCount
	})
}

// FilterByMinROI keeps listings with ROIPercent >= minROI, preserving order.
func FilterByMinROI(listings []*models.Listing, minROI float64) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ROIPercent >= minROI {
			out = append(out, l)
		}
	}
	return out
}
