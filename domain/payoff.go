package domain

import "github.com/shopspring/decimal"

type PayoffStrategy string

const (
	// PayoffAvalanche sends extra principal to the highest rate first.
	PayoffAvalanche PayoffStrategy = "avalanche"
	// PayoffSnowball sends extra principal to the smallest balance first.
	PayoffSnowball PayoffStrategy = "snowball"
	// PayoffCompare runs both and keeps the cheaper one.
	PayoffCompare PayoffStrategy = "compare"
)

// Lien is an outstanding loan with its scheduled monthly payment.
type Lien struct {
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	AnnualRate     decimal.Decimal `json:"annualRate"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
}

type PayoffInput struct {
	Liens []Lien `json:"liens"`
	// ExtraMonthly is paid on top of the scheduled payments.
	ExtraMonthly decimal.Decimal `json:"extraMonthly"`
	Strategy     PayoffStrategy  `json:"strategy"`
}

type LienPayment struct {
	Name             string          `json:"name"`
	Payment          decimal.Decimal `json:"payment"`
	Interest         decimal.Decimal `json:"interest"`
	Principal        decimal.Decimal `json:"principal"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

type PayoffMonth struct {
	Month     int             `json:"month"`
	Payments  []LienPayment   `json:"payments"`
	TotalPaid decimal.Decimal `json:"totalPaid"`
}

type PayoffSummary struct {
	TotalInterestPaid decimal.Decimal `json:"totalInterestPaid"`
	MonthsToPayoff    int             `json:"monthsToPayoff"`
}

type PayoffComparison struct {
	Snowball      PayoffSummary   `json:"snowball"`
	Avalanche     PayoffSummary   `json:"avalanche"`
	InterestSaved decimal.Decimal `json:"interestSaved"`
	MonthsSaved   int             `json:"monthsSaved"`
}

type PayoffResult struct {
	Strategy          PayoffStrategy  `json:"strategy"`
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	TotalInterestPaid decimal.Decimal `json:"totalInterestPaid"`
	MonthsToPayoff    int             `json:"monthsToPayoff"`
	// PaidOffMonth maps each lien to the month its balance reached zero.
	PaidOffMonth map[string]int `json:"paidOffMonth"`
	// Baseline is the cost of making only the scheduled payments.
	Baseline      PayoffSummary     `json:"baseline"`
	InterestSaved decimal.Decimal   `json:"interestSaved"`
	MonthsSaved   int               `json:"monthsSaved"`
	Months        []PayoffMonth     `json:"months"`
	Comparison    *PayoffComparison `json:"comparison,omitempty"`
}
