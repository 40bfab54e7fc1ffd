package services

const (
	// SalesPerReviewPercent is the share of reviews converted to sales.
	SalesPerReviewPercent = 15
	// SalesBaseline is added to every estimate so unreviewed listings still sell.
	SalesBaseline = 10
	// SalesCap bounds outliers before they reach aggregate figures.
	SalesCap = 2000

	// saturatingReviews is the largest count still estimated below SalesCap.
	saturatingReviews = (SalesCap - SalesBaseline) * 100 / SalesPerReviewPercent
)

// EstimateSales derives unit sales from a review count. It is a coarse proxy,
// not measured volume.
func EstimateSales(reviewCount int) int {
	if reviewCount < 0 {
		reviewCount = 0
	}
	if reviewCount > saturatingReviews {
		return SalesCap
	}
	// integer division floors exactly where 0.15 as a float would not
	est := reviewCount*SalesPerReviewPercent/100 + SalesBaseline
	return min(est, SalesCap)
}

// EstimateGMV is the value of the estimated sales at the local price.
func EstimateGMV(estimatedSales int, priceLocal float64) float64 {
	return float64(estimatedSales) * priceLocal
}
