package services

import (
	"github.com/shopspring/decimal"

	"ozon-radar/models"
)

var hundred = decimal.NewFromInt(100)

// Profit is the per-listing output of the financial model.
type Profit struct {
	PriceLocal float64
	NetProfit  float64
	ROIPercent float64
}

// ComputeProfit converts a source price to the local currency, applies the
// platform fee and unit cost, and derives ROI. Arithmetic runs in decimal so
// configured rates like 0.075 are exact. rc must have passed Validate; a
// non-positive unit cost is reported as a ConfigurationError.
func ComputeProfit(priceMinor float64, rc models.RunConfig) (Profit, error) {
	if rc.UnitCost <= 0 {
		return Profit{}, models.NewError(models.KindConfiguration, "UnitCost must be greater than 0")
	}

	cost := decimal.NewFromFloat(rc.UnitCost)
	local := decimal.NewFromFloat(priceMinor).Mul(decimal.NewFromFloat(rc.ExchangeRate))
	afterFee := local.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(rc.FeeRate)))
	net := afterFee.Sub(cost)
	roi := net.Div(cost).Mul(hundred)

	return Profit{
		PriceLocal: local.InexactFloat64(),
		NetProfit:  net.InexactFloat64(),
		ROIPercent: roi.InexactFloat64(),
	}, nil
}
