package domain

import "github.com/shopspring/decimal"

// Currency describes the unit every amount in a calculation is denominated in.
type Currency struct {
	Code       string `json:"code"`
	MinorUnits int32  `json:"minorUnits"`
}

// USD is the only currency the engine quotes in.
var USD = Currency{Code: "USD", MinorUnits: 2}

// RoundMinor rounds an amount to the currency's minor unit (cents for USD).
func (c Currency) RoundMinor(d decimal.Decimal) decimal.Decimal {
	return d.Round(c.MinorUnits)
}

// AmountOrPercent holds either a dollar amount or a share of the purchase
// price. Percent is expressed in percentage points (3.5 means 3.5%).
type AmountOrPercent struct {
	Amount    decimal.Decimal `json:"amount"`
	Percent   decimal.Decimal `json:"percent"`
	IsPercent bool            `json:"isPercent"`
}

// Dollars builds a fixed dollar AmountOrPercent.
func Dollars(d decimal.Decimal) AmountOrPercent {
	return AmountOrPercent{Amount: d}
}

// PercentOfPrice builds an AmountOrPercent that resolves against a price.
func PercentOfPrice(p decimal.Decimal) AmountOrPercent {
	return AmountOrPercent{Percent: p, IsPercent: true}
}

// Warning is an advisory condition attached to a successful result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
