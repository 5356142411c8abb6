package service

import (
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

type LienPayoffService struct{}

func NewLienPayoffService() *LienPayoffService {
	return &LienPayoffService{}
}

// CalculatePayoffPlan simulates paying the liens down month by month. The
// scheduled payments are always made; the extra amount, plus the payments of
// liens already retired, goes to the first open lien in strategy order.
func (s *LienPayoffService) CalculatePayoffPlan(
	input domain.PayoffInput,
) (domain.PayoffResult, error) {

	if err := validatePayoffInput(input); err != nil {
		return domain.PayoffResult{}, err
	}

	baseline := simulatePayoff(input.Liens, decimal.Zero, false)

	var result domain.PayoffResult
	if input.Strategy == domain.PayoffCompare {
		snowball := runStrategy(input, domain.PayoffSnowball)
		avalanche := runStrategy(input, domain.PayoffAvalanche)

		if avalanche.TotalInterestPaid.LessThan(snowball.TotalInterestPaid) {
			result = avalanche
		} else {
			result = snowball
		}
		result.Comparison = &domain.PayoffComparison{
			Snowball:      summaryOf(snowball),
			Avalanche:     summaryOf(avalanche),
			InterestSaved: decimal.Max(decimal.Zero, snowball.TotalInterestPaid.Sub(avalanche.TotalInterestPaid)),
			MonthsSaved:   snowball.MonthsToPayoff - avalanche.MonthsToPayoff,
		}
	} else {
		result = runStrategy(input, input.Strategy)
	}

	result.Baseline = domain.PayoffSummary{
		TotalInterestPaid: baseline.totalInterest,
		MonthsToPayoff:    len(baseline.months),
	}
	result.InterestSaved = baseline.totalInterest.Sub(result.TotalInterestPaid)
	result.MonthsSaved = len(baseline.months) - result.MonthsToPayoff

	return result, nil
}

func validatePayoffInput(input domain.PayoffInput) error {
	if len(input.Liens) == 0 {
		return fmt.Errorf("%w: no liens provided", domain.ErrInvalidAmount)
	}
	if len(input.Liens) > MaxLiensPerPayoff {
		return fmt.Errorf("%w: at most %d liens are supported", domain.ErrInvalidAmount, MaxLiensPerPayoff)
	}
	if input.ExtraMonthly.IsNegative() {
		return fmt.Errorf("%w: extra payment %s", domain.ErrNegativeAmount, input.ExtraMonthly.String())
	}
	switch input.Strategy {
	case domain.PayoffSnowball, domain.PayoffAvalanche, domain.PayoffCompare:
	default:
		return fmt.Errorf("%w: unknown payoff strategy %q", domain.ErrInvalidPreference, input.Strategy)
	}

	names := make(map[string]bool, len(input.Liens))
	for _, l := range input.Liens {
		if l.Name == "" {
			return fmt.Errorf("%w: lien name must not be empty", domain.ErrInvalidAmount)
		}
		if names[l.Name] {
			return fmt.Errorf("%w: duplicate lien name %s", domain.ErrInvalidAmount, l.Name)
		}
		names[l.Name] = true

		if !l.Balance.IsPositive() {
			return fmt.Errorf("%w: balance of %s must be greater than zero", domain.ErrInvalidAmount, l.Name)
		}
		if l.AnnualRate.IsNegative() || l.AnnualRate.GreaterThan(MaxAnnualRate) {
			return fmt.Errorf("%w: %s%% on %s", domain.ErrInvalidRate, l.AnnualRate.String(), l.Name)
		}
		// A payment at or below the first month's interest never retires the lien.
		interest := domain.USD.RoundMinor(periodInterest(l.Balance, l.AnnualRate))
		if !l.MonthlyPayment.GreaterThan(interest) {
			return fmt.Errorf("%w: payment of %s (%s) does not cover its monthly interest (%s)",
				domain.ErrInvalidAmount, l.Name, l.MonthlyPayment.StringFixed(2), interest.StringFixed(2))
		}
	}
	return nil
}

// orderLiens returns a copy of liens in the order surplus principal is
// applied.
func orderLiens(liens []domain.Lien, strategy domain.PayoffStrategy) []domain.Lien {
	ordered := make([]domain.Lien, len(liens))
	copy(ordered, liens)

	if strategy == domain.PayoffSnowball {
		sort.SliceStable(ordered, func(i, j int) bool {
			if !ordered[i].Balance.Equal(ordered[j].Balance) {
				return ordered[i].Balance.LessThan(ordered[j].Balance)
			}
			return ordered[i].AnnualRate.GreaterThan(ordered[j].AnnualRate)
		})
	} else {
		sort.SliceStable(ordered, func(i, j int) bool {
			if !ordered[i].AnnualRate.Equal(ordered[j].AnnualRate) {
				return ordered[i].AnnualRate.GreaterThan(ordered[j].AnnualRate)
			}
			return ordered[i].Balance.LessThan(ordered[j].Balance)
		})
	}
	return ordered
}

func runStrategy(input domain.PayoffInput, strategy domain.PayoffStrategy) domain.PayoffResult {
	liens := orderLiens(input.Liens, strategy)
	run := simulatePayoff(liens, input.ExtraMonthly, true)

	total := decimal.Zero
	for _, l := range liens {
		total = total.Add(l.Balance)
	}

	return domain.PayoffResult{
		Strategy:          strategy,
		TotalBalance:      total,
		TotalInterestPaid: run.totalInterest,
		MonthsToPayoff:    len(run.months),
		PaidOffMonth:      run.paidOff,
		Months:            run.months,
	}
}

func summaryOf(r domain.PayoffResult) domain.PayoffSummary {
	return domain.PayoffSummary{
		TotalInterestPaid: r.TotalInterestPaid,
		MonthsToPayoff:    r.MonthsToPayoff,
	}
}

type payoffRun struct {
	months        []domain.PayoffMonth
	totalInterest decimal.Decimal
	paidOff       map[string]int
}

// simulatePayoff charges cent-rounded interest on each open lien, makes the
// scheduled payments, then spends the surplus on liens in slice order. With
// rollover the payments of retired liens join the surplus.
func simulatePayoff(liens []domain.Lien, extra decimal.Decimal, rollover bool) payoffRun {
	balances := make([]decimal.Decimal, len(liens))
	for i, l := range liens {
		balances[i] = l.Balance
	}

	run := payoffRun{
		totalInterest: decimal.Zero,
		paidOff:       make(map[string]int, len(liens)),
	}

	for month := 1; ; month++ {
		available := extra
		if rollover {
			for _, l := range liens {
				available = available.Add(l.MonthlyPayment)
			}
		}

		rows := make([]domain.LienPayment, 0, len(liens))
		slot := make([]int, len(liens))
		for i, l := range liens {
			slot[i] = -1
			if !balances[i].IsPositive() {
				continue
			}
			interest := domain.USD.RoundMinor(periodInterest(balances[i], l.AnnualRate))
			payment := decimal.Min(l.MonthlyPayment, balances[i].Add(interest))
			principal := payment.Sub(interest)
			balances[i] = balances[i].Sub(principal)
			if rollover {
				available = available.Sub(payment)
			}
			run.totalInterest = run.totalInterest.Add(interest)

			slot[i] = len(rows)
			rows = append(rows, domain.LienPayment{
				Name:             l.Name,
				Payment:          payment,
				Interest:         interest,
				Principal:        principal,
				RemainingBalance: balances[i],
			})
		}

		for i := range liens {
			if !available.IsPositive() {
				break
			}
			if slot[i] < 0 || !balances[i].IsPositive() {
				continue
			}
			applied := decimal.Min(available, balances[i])
			balances[i] = balances[i].Sub(applied)
			available = available.Sub(applied)

			row := &rows[slot[i]]
			row.Payment = row.Payment.Add(applied)
			row.Principal = row.Principal.Add(applied)
			row.RemainingBalance = balances[i]
		}

		paid := decimal.Zero
		for _, r := range rows {
			paid = paid.Add(r.Payment)
		}
		run.months = append(run.months, domain.PayoffMonth{
			Month:     month,
			Payments:  rows,
			TotalPaid: paid,
		})

		open := false
		for i, l := range liens {
			if balances[i].IsPositive() {
				open = true
				continue
			}
			if _, ok := run.paidOff[l.Name]; !ok {
				run.paidOff[l.Name] = month
			}
		}
		if !open {
			return run
		}

		if month >= MaxPayoffMonths {
			log.Printf("Warning: lien payoff reached the maximum of %d months", MaxPayoffMonths)
			return run
		}
	}
}
