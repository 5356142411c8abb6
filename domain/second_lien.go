package domain

import "github.com/shopspring/decimal"

type LienType string

const (
	LienFullyAmortized LienType = "fully_amortized"
	LienInterestOnly   LienType = "interest_only"
)

// SecondLienTerms describes subordinate financing. A nil AnnualRate means the
// first-lien rate plus SecondLienRateSpread.
type SecondLienTerms struct {
	Amount     AmountOrPercent  `json:"amount"`
	Type       LienType         `json:"type"`
	AnnualRate *decimal.Decimal `json:"annualRate,omitempty"`
	TermMonths int              `json:"termMonths"`
	// InterestOnlyMonths bounds the interest-only period; zero means the
	// whole term.
	InterestOnlyMonths int `json:"interestOnlyMonths,omitempty"`
}

// CombinedMetrics is the first plus second lien picture at origination.
type CombinedMetrics struct {
	FirstLienPrincipal  decimal.Decimal `json:"firstLienPrincipal"`
	SecondLienPrincipal decimal.Decimal `json:"secondLienPrincipal"`
	FirstLienLTV        decimal.Decimal `json:"firstLienLtv"`
	SecondLienShare     decimal.Decimal `json:"secondLienShare"`
	CLTV                decimal.Decimal `json:"cltv"`
	FirstLienPayment    decimal.Decimal `json:"firstLienPayment"`
	SecondLienPayment   decimal.Decimal `json:"secondLienPayment"`
	CombinedPayment     decimal.Decimal `json:"combinedPayment"`
}

type SecondLienResult struct {
	Amount     decimal.Decimal      `json:"amount"`
	Type       LienType             `json:"type"`
	AnnualRate decimal.Decimal      `json:"annualRate"`
	TermMonths int                  `json:"termMonths"`
	Schedule   AmortizationSchedule `json:"schedule"`
	Combined   CombinedMetrics      `json:"combined"`
	Warnings   []Warning            `json:"warnings,omitempty"`
}
