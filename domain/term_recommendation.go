package domain

import "github.com/shopspring/decimal"

type TermPreference string

const (
	PreferMinimizeInterest TermPreference = "minimize_interest"
	PreferMinimizePayment  TermPreference = "minimize_payment"
	PreferBalanced         TermPreference = "balanced"
)

type TermRecommendationInput struct {
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annualRate"`
	MinTermMonths int             `json:"minTermMonths"`
	MaxTermMonths int             `json:"maxTermMonths"`
	// StepMonths spaces the candidate terms; zero means one year.
	StepMonths int `json:"stepMonths,omitempty"`
	// MaxMonthlyPayment filters out terms whose payment is higher; zero
	// disables the filter.
	MaxMonthlyPayment decimal.Decimal `json:"maxMonthlyPayment"`
	Preference        TermPreference  `json:"preference"`
}

type TermRecommendation struct {
	TermMonths     int             `json:"termMonths"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	Score          decimal.Decimal `json:"score"`
	Reason         string          `json:"reason"`
}

type TermRecommendationResult struct {
	RecommendedTerm int                  `json:"recommendedTerm"`
	Recommendations []TermRecommendation `json:"recommendations"`
}
