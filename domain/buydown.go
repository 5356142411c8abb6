package domain

import "github.com/shopspring/decimal"

// BuydownPlan is a temporary rate ramp. Reductions are positive magnitudes in
// percentage points, one per discounted year, largest first. A plan with no
// reductions is no buydown.
type BuydownPlan struct {
	Name       string            `json:"name,omitempty"`
	Reductions []decimal.Decimal `json:"reductions"`
	// FloorYear is the first year at the note rate; zero means
	// len(Reductions)+1.
	FloorYear int `json:"floorYear,omitempty"`
}

// IsNone reports whether the plan discounts nothing.
func (p BuydownPlan) IsNone() bool {
	return len(p.Reductions) == 0
}

// BuydownYear is the payment picture for one year of a ramp. The final entry
// of a generated sequence covers every year from the floor year to maturity.
type BuydownYear struct {
	Year            int             `json:"year"`
	ThroughYear     int             `json:"throughYear"`
	EffectiveRate   decimal.Decimal `json:"effectiveRate"`
	Payment         decimal.Decimal `json:"payment"`
	NoteRatePayment decimal.Decimal `json:"noteRatePayment"`
	MonthlySubsidy  decimal.Decimal `json:"monthlySubsidy"`
	AnnualSubsidy   decimal.Decimal `json:"annualSubsidy"`
	// Schedule holds the note-rate amortization periods the entry covers.
	Schedule []Period `json:"schedule"`
}

// BuydownOption is one plan evaluated side by side with the others.
type BuydownOption struct {
	Plan         BuydownPlan     `json:"plan"`
	Years        []BuydownYear   `json:"years"`
	TotalSubsidy decimal.Decimal `json:"totalSubsidy"`
}

type BuydownComparison struct {
	NoteRate        decimal.Decimal `json:"noteRate"`
	StandardPayment decimal.Decimal `json:"standardPayment"`
	Options         []BuydownOption `json:"options"`
}
