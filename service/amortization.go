package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

var one = decimal.NewFromInt(1)

// ComputeSchedule builds a fully amortized schedule. The level payment is
// rounded to cents while interest and balances keep full precision; the last
// period pays whatever balance remains, so the schedule always ends at zero.
// When the rounded payment overshoots on a small loan the schedule retires
// early and has fewer periods than termMonths.
func ComputeSchedule(principal, annualRate decimal.Decimal, termMonths int) (domain.AmortizationSchedule, error) {
	if err := validateLoanInputs(principal, annualRate, termMonths); err != nil {
		return domain.AmortizationSchedule{}, err
	}

	payment := domain.USD.RoundMinor(levelPayment(principal, monthlyRate(annualRate), termMonths))

	sched := domain.AmortizationSchedule{
		Principal:     principal,
		AnnualRate:    annualRate,
		TermMonths:    termMonths,
		Payment:       payment,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
		Periods:       make([]domain.Period, 0, termMonths),
	}

	balance := principal
	for i := 1; i <= termMonths; i++ {
		interest := periodInterest(balance, annualRate)
		due := payment
		principalPart := due.Sub(interest)
		if i == termMonths || principalPart.GreaterThanOrEqual(balance) {
			principalPart = balance
			due = balance.Add(interest)
		}
		balance = balance.Sub(principalPart)

		sched.Periods = append(sched.Periods, domain.Period{
			Index:     i,
			Payment:   due,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
		sched.TotalInterest = sched.TotalInterest.Add(interest)
		sched.TotalPaid = sched.TotalPaid.Add(due)
		if balance.IsZero() {
			break
		}
	}
	return sched, nil
}

// InterestOnlySchedule charges one month of interest per period and never
// touches the balance.
func InterestOnlySchedule(principal, annualRate decimal.Decimal, months int) (domain.AmortizationSchedule, error) {
	if err := validateLoanInputs(principal, annualRate, months); err != nil {
		return domain.AmortizationSchedule{}, err
	}

	payment := domain.USD.RoundMinor(periodInterest(principal, annualRate))
	sched := domain.AmortizationSchedule{
		Principal:     principal,
		AnnualRate:    annualRate,
		TermMonths:    months,
		Payment:       payment,
		InterestOnly:  true,
		TotalInterest: payment.Mul(decimal.NewFromInt(int64(months))),
		Periods:       make([]domain.Period, months),
	}
	sched.TotalPaid = sched.TotalInterest
	for i := range sched.Periods {
		sched.Periods[i] = domain.Period{
			Index:     i + 1,
			Payment:   payment,
			Principal: decimal.Zero,
			Interest:  payment,
			Balance:   principal,
		}
	}
	return sched, nil
}

// MonthlyPayment returns the cent-rounded level payment without building the
// schedule.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if err := validateLoanInputs(principal, annualRate, termMonths); err != nil {
		return decimal.Zero, err
	}
	return domain.USD.RoundMinor(levelPayment(principal, monthlyRate(annualRate), termMonths)), nil
}

func validateLoanInputs(principal, annualRate decimal.Decimal, termMonths int) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%w: principal must be greater than zero, got %s", domain.ErrInvalidAmount, principal.String())
	}
	if annualRate.IsNegative() || annualRate.GreaterThan(MaxAnnualRate) {
		return fmt.Errorf("%w: %s%% is outside 0-%s%%", domain.ErrInvalidRate, annualRate.String(), MaxAnnualRate.String())
	}
	if termMonths < MinTermMonths || termMonths > MaxTermMonths {
		return fmt.Errorf("%w: %d months is outside %d-%d", domain.ErrInvalidTerm, termMonths, MinTermMonths, MaxTermMonths)
	}
	return nil
}

// periodInterest is one month of interest on balance, taken from the annual
// rate directly so round figures stay round.
func periodInterest(balance, annualRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRate).DivRound(twelveHundred, calcPrecision)
}

func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(twelveHundred, calcPrecision)
}

// levelPayment is the unrounded annuity payment P*r*g/(g-1), g = (1+r)^n.
func levelPayment(principal, r decimal.Decimal, n int) decimal.Decimal {
	if r.IsZero() {
		return principal.DivRound(decimal.NewFromInt(int64(n)), calcPrecision)
	}
	g := powInt(one.Add(r), n)
	return principal.Mul(r).Mul(g).DivRound(g.Sub(one), calcPrecision)
}

// powInt raises base to a non-negative integer power by repeated squaring,
// rounding each product to keep operand sizes bounded.
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	const guard = calcPrecision + 4
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(guard)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base).Round(guard)
		}
	}
	return result
}
