package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

// Named temporary buydowns. Reductions are percentage points off the note
// rate for years 1, 2, 3.
var (
	Buydown31 = domain.BuydownPlan{Name: "3/1", Reductions: []decimal.Decimal{decimal.NewFromInt(3), decimal.NewFromInt(2), decimal.NewFromInt(1)}}
	Buydown21 = domain.BuydownPlan{Name: "2/1", Reductions: []decimal.Decimal{decimal.NewFromInt(2), decimal.NewFromInt(1)}}
	Buydown11 = domain.BuydownPlan{Name: "1/1", Reductions: []decimal.Decimal{decimal.NewFromInt(1)}}
)

// NamedBuydownPlans lists the plans CompareBuydowns evaluates, deepest first.
func NamedBuydownPlans() []domain.BuydownPlan {
	return []domain.BuydownPlan{Buydown31, Buydown21, Buydown11}
}

var buydownAliases = map[string]domain.BuydownPlan{
	"3/1":   Buydown31,
	"3-1":   Buydown31,
	"3-2-1": Buydown31,
	"2/1":   Buydown21,
	"2-1":   Buydown21,
	"1/1":   Buydown11,
	"1-1":   Buydown11,
	"1-0":   Buydown11,
}

// ParseBuydownPlan resolves a plan by name. "", "none" and "standard" yield
// the zero plan.
func ParseBuydownPlan(name string) (domain.BuydownPlan, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, " buydown")
	switch key {
	case "", "none", "standard":
		return domain.BuydownPlan{}, nil
	}
	plan, ok := buydownAliases[key]
	if !ok {
		return domain.BuydownPlan{}, fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidBuydownPlan, name)
	}
	return plan, nil
}

// ApplyBuydown returns one entry per discounted year plus a final entry at
// the note rate running to maturity.
//
// Each discounted year shows the level payment at the reduced rate over the
// full original term; the loan itself keeps amortizing at the note rate and
// the difference is the seller or lender subsidy for that year.
func ApplyBuydown(baseAnnualRate decimal.Decimal, plan domain.BuydownPlan, principal decimal.Decimal, termMonths int) ([]domain.BuydownYear, error) {
	note, err := ComputeSchedule(principal, baseAnnualRate, termMonths)
	if err != nil {
		return nil, err
	}
	if err := validateBuydownPlan(plan, baseAnnualRate, termMonths); err != nil {
		return nil, err
	}

	years := make([]domain.BuydownYear, 0, len(plan.Reductions)+1)
	for i, reduction := range plan.Reductions {
		effective := baseAnnualRate.Sub(reduction)
		payment, err := MonthlyPayment(principal, effective, termMonths)
		if err != nil {
			return nil, err
		}
		monthly := note.Payment.Sub(payment)
		years = append(years, domain.BuydownYear{
			Year:            i + 1,
			ThroughYear:     i + 1,
			EffectiveRate:   effective,
			Payment:         payment,
			NoteRatePayment: note.Payment,
			MonthlySubsidy:  monthly,
			AnnualSubsidy:   monthly.Mul(twelve),
			Schedule:        yearPeriods(note.Periods, i+1, i+1),
		})
	}

	floor := len(plan.Reductions) + 1
	last := loanYears(termMonths)
	years = append(years, domain.BuydownYear{
		Year:            floor,
		ThroughYear:     last,
		EffectiveRate:   baseAnnualRate,
		Payment:         note.Payment,
		NoteRatePayment: note.Payment,
		MonthlySubsidy:  decimal.Zero,
		AnnualSubsidy:   decimal.Zero,
		Schedule:        yearPeriods(note.Periods, floor, last),
	})
	return years, nil
}

// TotalSubsidy is the upfront cost of a ramp: the sum of its annual subsidies.
func TotalSubsidy(years []domain.BuydownYear) decimal.Decimal {
	total := decimal.Zero
	for _, y := range years {
		total = total.Add(y.AnnualSubsidy)
	}
	return total
}

// CompareBuydowns evaluates the standard payment next to every named plan.
// Plans that cannot apply at this rate or term are left out.
func CompareBuydowns(principal, baseAnnualRate decimal.Decimal, termMonths int) (domain.BuydownComparison, error) {
	standard, err := MonthlyPayment(principal, baseAnnualRate, termMonths)
	if err != nil {
		return domain.BuydownComparison{}, err
	}

	cmp := domain.BuydownComparison{
		NoteRate:        baseAnnualRate,
		StandardPayment: standard,
		Options:         []domain.BuydownOption{},
	}
	for _, plan := range NamedBuydownPlans() {
		years, err := ApplyBuydown(baseAnnualRate, plan, principal, termMonths)
		if errors.Is(err, domain.ErrInvalidBuydownPlan) {
			continue
		}
		if err != nil {
			return domain.BuydownComparison{}, err
		}
		cmp.Options = append(cmp.Options, domain.BuydownOption{
			Plan:         plan,
			Years:        years,
			TotalSubsidy: TotalSubsidy(years),
		})
	}
	return cmp, nil
}

// BuydownRateForYear returns the rate in force during a 1-indexed loan year.
func BuydownRateForYear(years []domain.BuydownYear, year int) (domain.BuydownYear, bool) {
	for _, y := range years {
		if year >= y.Year && year <= y.ThroughYear {
			return y, true
		}
	}
	return domain.BuydownYear{}, false
}

func validateBuydownPlan(plan domain.BuydownPlan, baseAnnualRate decimal.Decimal, termMonths int) error {
	if plan.IsNone() {
		return fmt.Errorf("%w: plan has no discounted years", domain.ErrInvalidBuydownPlan)
	}
	for i, r := range plan.Reductions {
		if !r.IsPositive() {
			return fmt.Errorf("%w: year %d reduction %s must be positive", domain.ErrInvalidBuydownPlan, i+1, r.String())
		}
		if r.GreaterThan(baseAnnualRate) {
			return fmt.Errorf("%w: year %d reduction %s exceeds the note rate %s", domain.ErrInvalidBuydownPlan, i+1, r.String(), baseAnnualRate.String())
		}
		if i > 0 && !r.LessThan(plan.Reductions[i-1]) {
			return fmt.Errorf("%w: reductions must strictly decrease, year %d is %s after %s", domain.ErrInvalidBuydownPlan, i+1, r.String(), plan.Reductions[i-1].String())
		}
	}

	floor := len(plan.Reductions) + 1
	if plan.FloorYear != 0 && plan.FloorYear != floor {
		return fmt.Errorf("%w: floor year %d does not follow a %d-year ramp", domain.ErrInvalidBuydownPlan, plan.FloorYear, len(plan.Reductions))
	}
	if floor > termMonths/monthsPerYear {
		return fmt.Errorf("%w: floor year %d is beyond a %d-month term", domain.ErrInvalidBuydownPlan, floor, termMonths)
	}
	return nil
}

// loanYears is the number of loan years a term spans, counting a partial
// final year.
func loanYears(termMonths int) int {
	return (termMonths + monthsPerYear - 1) / monthsPerYear
}

// yearPeriods slices the periods belonging to loan years from..through.
func yearPeriods(periods []domain.Period, from, through int) []domain.Period {
	start := (from - 1) * monthsPerYear
	end := through * monthsPerYear
	if start > len(periods) {
		start = len(periods)
	}
	if end > len(periods) {
		end = len(periods)
	}
	return periods[start:end]
}
