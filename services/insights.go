package services

import (
	"math"

	"ozon-radar/models"
	"ozon-radar/utils"
)

// HistogramBins is the number of equal-width source price bins.
const HistogramBins = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarizes a ranked batch. The first listing is taken as the top
// opportunity, so callers rank before generating.
func (s *InsightService) Generate(listings []*models.Listing) *models.MarketInsights {
	report := &models.MarketInsights{
		VerdictCounts: make(map[models.Verdict]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)
	report.TopOpportunity = listings[0]

	var totalPrice, totalROI float64
	profitable := 0

	for _, l := range listings {
		totalPrice += l.PriceMinor
		totalROI += l.ROIPercent
		report.TotalGMV += l.EstimatedGMV
		if l.NetProfit > 0 {
			profitable++
		}
		if l.ReviewCount > report.MaxReviews {
			report.MaxReviews = l.ReviewCount
		}
		report.VerdictCounts[l.Verdict]++
	}

	n := float64(len(listings))
	report.AveragePrice = round2(totalPrice / n)
	report.AverageROI = round2(totalROI / n)
	report.ProfitableShare = round2(float64(profitable) / n * 100)
	report.TotalGMV = round2(report.TotalGMV)
	report.PriceHistogram = priceHistogram(listings, HistogramBins)

	s.logger.Debug("[insights] %d listings, avg price %.2f, avg ROI %.2f%%, %.0f%% profitable",
		report.TotalListings, report.AveragePrice, report.AverageROI, report.ProfitableShare)
	return report
}

// priceHistogram splits [min, max] source price into equal-width bins. The
// last bin is closed so the maximum lands in it; a flat batch is one bin.
func priceHistogram(listings []*models.Listing, bins int) []models.PriceBucket {
	if len(listings) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range listings {
		lo = math.Min(lo, l.PriceMinor)
		hi = math.Max(hi, l.PriceMinor)
	}
	if hi == lo {
		return []models.PriceBucket{{Low: lo, High: hi, Count: len(listings)}}
	}

	width := (hi - lo) / float64(bins)
	buckets := make([]models.PriceBucket, bins)
	for i := range buckets {
		buckets[i].Low = round2(lo + float64(i)*width)
		buckets[i].High = round2(lo + float64(i+1)*width)
	}
	buckets[bins-1].High = hi

	for _, l := range listings {
		idx := int((l.PriceMinor - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		buckets[idx].Count++
	}
	return buckets
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
