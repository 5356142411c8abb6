package service

import "github.com/shopspring/decimal"

const (
	MaxTermMonths = 480 // 40 years
	MinTermMonths = 1
	MaxUnits      = 4

	// calcPrecision is the number of decimal places kept for rates, growth
	// factors and balances between periods.
	calcPrecision int32 = 28

	monthsPerYear = 12

	DefaultTermMonths = 360
	DefaultFICO       = 760

	MaxLiensPerPayoff = 4
	// MaxPayoffMonths stops a payoff simulation that never converges.
	MaxPayoffMonths = 1200
)

var (
	MaxPurchasePrice = decimal.NewFromInt(1_000_000_000)
	MaxAnnualRate    = decimal.NewFromInt(100)

	// SecondLienRateSpread is added to the first-lien rate when a second lien
	// carries no rate of its own.
	SecondLienRateSpread = decimal.NewFromInt(1)

	// Annual escrow estimates as a share of the purchase price.
	DefaultPropertyTaxRate = decimal.RequireFromString("0.0065")
	DefaultInsuranceRate   = decimal.RequireFromString("0.002")

	// CLTV thresholds for advisory warnings.
	cltvDPAThreshold = decimal.NewFromInt(1)
	cltvMaxTypical   = decimal.RequireFromString("1.05")

	hundred       = decimal.NewFromInt(100)
	twelve        = decimal.NewFromInt(monthsPerYear)
	twelveHundred = decimal.NewFromInt(1200)
)
