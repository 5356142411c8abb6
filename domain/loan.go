package domain

import "github.com/shopspring/decimal"

// LoanTerms describes a fixed-rate, fixed-term note. AnnualRate is in
// percentage points (7 means 7.00%).
type LoanTerms struct {
	Principal  decimal.Decimal `json:"principal"`
	AnnualRate decimal.Decimal `json:"annualRate"`
	TermMonths int             `json:"termMonths"`
	Program    ProgramID       `json:"program,omitempty"`
}

// Period is one row of an amortization schedule. Principal, Interest and
// Balance are carried at full precision; Payment is the cent-rounded amount
// due, except in the final period where it absorbs the residual.
type Period struct {
	Index     int             `json:"index"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Balance   decimal.Decimal `json:"balance"`
}

type AmortizationSchedule struct {
	Principal     decimal.Decimal `json:"principal"`
	AnnualRate    decimal.Decimal `json:"annualRate"`
	TermMonths    int             `json:"termMonths"`
	Payment       decimal.Decimal `json:"payment"`
	InterestOnly  bool            `json:"interestOnly"`
	TotalInterest decimal.Decimal `json:"totalInterest"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	Periods       []Period        `json:"periods"`
}

// FinalBalance returns the balance after the last period.
func (s AmortizationSchedule) FinalBalance() decimal.Decimal {
	if len(s.Periods) == 0 {
		return s.Principal
	}
	return s.Periods[len(s.Periods)-1].Balance
}

// BalanceAfter returns the balance after the given 1-indexed period; 0
// yields the original principal.
func (s AmortizationSchedule) BalanceAfter(period int) decimal.Decimal {
	if period <= 0 {
		return s.Principal
	}
	if period > len(s.Periods) {
		return s.FinalBalance()
	}
	return s.Periods[period-1].Balance
}
