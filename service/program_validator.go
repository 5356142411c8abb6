package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
)

// ProgramValidator judges a first lien against its program's rules.
type ProgramValidator struct {
	programs repository.ProgramRepository
}

func NewProgramValidator(programs repository.ProgramRepository) *ProgramValidator {
	return &ProgramValidator{programs: programs}
}

var defaultValidator = NewProgramValidator(repository.DefaultProgramCatalog())

// ValidateProgram validates against the built-in program catalog.
func ValidateProgram(in domain.ProgramInput) (domain.ProgramValidation, error) {
	return defaultValidator.Validate(in)
}

// Validate computes LTV, enforces the loan limit and prices mortgage
// insurance and upfront fees. Exceeding the program's LTV ceiling or FICO
// floor is reported through Approved and Warnings, never as an error.
func (v *ProgramValidator) Validate(in domain.ProgramInput) (domain.ProgramValidation, error) {
	if !in.PurchasePrice.IsPositive() {
		return domain.ProgramValidation{}, fmt.Errorf("%w: purchase price must be greater than zero", domain.ErrInvalidAmount)
	}
	if in.DownPayment.IsNegative() {
		return domain.ProgramValidation{}, fmt.Errorf("%w: down payment %s", domain.ErrNegativeAmount, in.DownPayment.String())
	}
	if !in.DownPayment.LessThan(in.PurchasePrice) {
		return domain.ProgramValidation{}, fmt.Errorf("%w: down payment %s leaves nothing to finance", domain.ErrInvalidAmount, in.DownPayment.String())
	}

	program, err := v.programs.FindByID(in.Program)
	if err != nil {
		return domain.ProgramValidation{}, err
	}

	units := in.Units
	if units == 0 {
		units = 1
	}
	if units < 1 || units > MaxUnits {
		return domain.ProgramValidation{}, fmt.Errorf("%w: %d units, expected 1-%d", domain.ErrInvalidUnits, in.Units, MaxUnits)
	}
	term := in.TermMonths
	if term == 0 {
		term = DefaultTermMonths
	}

	base := in.PurchasePrice.Sub(in.DownPayment)
	if err := validateLoanInputs(base, in.AnnualRate, term); err != nil {
		return domain.ProgramValidation{}, err
	}

	res := domain.ProgramValidation{
		Program:        program.ID,
		LTV:            ratio(base, in.PurchasePrice),
		MaxLTV:         program.MaxLTV,
		BaseLoanAmount: base,
	}

	if limit, ok := program.LoanLimit(units); ok {
		res.LoanLimit = &limit
		if base.GreaterThan(limit) {
			return domain.ProgramValidation{}, fmt.Errorf("%w: %s loan of %s exceeds the %d-unit limit of %s",
				domain.ErrLoanLimitExceeded, program.Name, base.StringFixed(2), units, limit.StringFixed(2))
		}
	}

	res.Approved = res.LTV.LessThanOrEqual(program.MaxLTV)
	if !res.Approved {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code: "ltv_exceeds_program_max",
			Message: fmt.Sprintf("LTV %s%% exceeds the %s maximum of %s%%",
				percentString(res.LTV), program.Name, percentString(program.MaxLTV)),
		})
		if w, ok := v.fallbackWarning(program, res.LTV); ok {
			res.Warnings = append(res.Warnings, w)
		}
	}

	sched, err := ComputeSchedule(base, in.AnnualRate, term)
	if err != nil {
		return domain.ProgramValidation{}, err
	}
	mi := mortgageInsurance(program.MortgageInsurance, res.LTV, base, in.PurchasePrice, sched)
	mi.UpfrontFee = upfrontFee(program.UpfrontFee, base, in)
	res.MortgageInsurance = mi
	if mi.Required {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code: "mortgage_insurance_required",
			Message: fmt.Sprintf("%s mortgage insurance of %s/mo at LTV %s%%",
				program.Name, mi.MonthlyPremium.StringFixed(2), percentString(res.LTV)),
		})
	}

	fico := in.FICO
	if fico == 0 {
		fico = DefaultFICO
	}
	if program.MinFICO > 0 && fico < program.MinFICO {
		res.Warnings = append(res.Warnings, domain.Warning{
			Code:    "fico_below_program_minimum",
			Message: fmt.Sprintf("FICO %d is below the %s minimum of %d", fico, program.Name, program.MinFICO),
		})
	}

	return res, nil
}

// Program resolves a program ID or alias against the catalog.
func (v *ProgramValidator) Program(id domain.ProgramID) (domain.LoanProgram, error) {
	return v.programs.FindByID(id)
}

// Programs lists the catalog for display.
func (v *ProgramValidator) Programs() []domain.LoanProgram {
	return v.programs.List()
}

func (v *ProgramValidator) fallbackWarning(program domain.LoanProgram, ltv decimal.Decimal) (domain.Warning, bool) {
	if program.Fallback == "" {
		return domain.Warning{}, false
	}
	alt, err := v.programs.FindByID(program.Fallback)
	if err != nil || ltv.GreaterThan(alt.MaxLTV) {
		return domain.Warning{}, false
	}
	return domain.Warning{
		Code:    "consider_" + string(alt.ID),
		Message: fmt.Sprintf("%s allows up to %s%% LTV", alt.Name, percentString(alt.MaxLTV)),
	}, true
}

func mortgageInsurance(rules domain.MortgageInsuranceRules, ltv, base, price decimal.Decimal, sched domain.AmortizationSchedule) domain.MortgageInsurance {
	mi := domain.MortgageInsurance{
		Kind:           rules.Kind,
		AnnualRate:     decimal.Zero,
		MonthlyPremium: decimal.Zero,
	}

	switch rules.Kind {
	case domain.MITiered:
		if ltv.LessThanOrEqual(rules.FreeMaxLTV) {
			mi.Kind = domain.MINone
			return mi
		}
		mi.AnnualRate = tierRate(rules.Tiers, ltv)
		mi.MonthlyPremium = domain.USD.RoundMinor(base.Mul(mi.AnnualRate).Div(twelve))
		mi.DurationMonths = monthsUntilBalance(sched, price.Mul(rules.CancelAtLTV))
		mi.YearlyPremiums = yearlyPremiums(sched.TermMonths, mi.DurationMonths, func(int) decimal.Decimal {
			return mi.MonthlyPremium
		})

	case domain.MIAnnualFHA:
		longTerm := sched.TermMonths > rules.LongTermMonths
		highAmount := base.GreaterThan(rules.HighAmountThreshold)
		mi.AnnualRate = fhaRate(rules.FHATable, longTerm, highAmount, ltv)
		mi.DurationMonths = sched.TermMonths
		if rules.ShortDurationMonths > 0 && ltv.LessThanOrEqual(rules.ShortDurationMaxLTV) && rules.ShortDurationMonths < sched.TermMonths {
			mi.DurationMonths = rules.ShortDurationMonths
		}
		rate := mi.AnnualRate
		mi.YearlyPremiums = yearlyPremiums(sched.TermMonths, mi.DurationMonths, func(year int) decimal.Decimal {
			return domain.USD.RoundMinor(averageBalance(sched, year).Mul(rate).Div(twelve))
		})
		if len(mi.YearlyPremiums) > 0 {
			mi.MonthlyPremium = mi.YearlyPremiums[0]
		}

	default:
		mi.Kind = domain.MINone
		return mi
	}

	mi.Required = mi.AnnualRate.IsPositive()
	return mi
}

func tierRate(tiers []domain.MITier, ltv decimal.Decimal) decimal.Decimal {
	for _, t := range tiers {
		if ltv.LessThanOrEqual(t.MaxLTV) {
			return t.AnnualRate
		}
	}
	return tiers[len(tiers)-1].AnnualRate
}

func fhaRate(table []domain.FHAMIPRow, longTerm, highAmount bool, ltv decimal.Decimal) decimal.Decimal {
	var last decimal.Decimal
	for _, row := range table {
		if row.LongTerm != longTerm || row.HighAmount != highAmount {
			continue
		}
		last = row.AnnualRate
		if ltv.LessThanOrEqual(row.MaxLTV) {
			return row.AnnualRate
		}
	}
	return last
}

// upfrontFee prices the fee financed at closing: a flat rate, or for VA the
// funding-fee tier matching usage and down payment share.
func upfrontFee(rules domain.UpfrontFeeRules, base decimal.Decimal, in domain.ProgramInput) decimal.Decimal {
	table := rules.FirstUse
	if in.VASubsequentUse {
		table = rules.SubsequentUse
	}
	if len(table) == 0 {
		return domain.USD.RoundMinor(base.Mul(rules.Rate))
	}
	if in.VAExempt {
		return decimal.Zero
	}
	downShare := ratio(in.DownPayment, in.PurchasePrice)
	for _, tier := range table {
		if downShare.GreaterThanOrEqual(tier.MinDown) {
			return domain.USD.RoundMinor(base.Mul(tier.Rate))
		}
	}
	return decimal.Zero
}

// monthsUntilBalance returns the first period whose closing balance is at or
// below target.
func monthsUntilBalance(sched domain.AmortizationSchedule, target decimal.Decimal) int {
	for _, p := range sched.Periods {
		if p.Balance.LessThanOrEqual(target) {
			return p.Index
		}
	}
	return sched.TermMonths
}

// averageBalance is the mean opening balance over the months of a loan year.
func averageBalance(sched domain.AmortizationSchedule, year int) decimal.Decimal {
	first := (year - 1) * monthsPerYear
	last := min(year*monthsPerYear, sched.TermMonths)
	if first >= last {
		return decimal.Zero
	}
	sum := decimal.Zero
	for k := first; k < last; k++ {
		sum = sum.Add(sched.BalanceAfter(k))
	}
	return sum.DivRound(decimal.NewFromInt(int64(last-first)), calcPrecision)
}

// yearlyPremiums charges a year's premium when the policy is still in force
// on the first month of that year.
func yearlyPremiums(termMonths, durationMonths int, premium func(year int) decimal.Decimal) []decimal.Decimal {
	years := loanYears(termMonths)
	out := make([]decimal.Decimal, years)
	for y := 1; y <= years; y++ {
		if (y-1)*monthsPerYear < durationMonths {
			out[y-1] = premium(y)
		} else {
			out[y-1] = decimal.Zero
		}
	}
	return out
}

func ratio(part, whole decimal.Decimal) decimal.Decimal {
	return part.DivRound(whole, calcPrecision)
}

// percentString renders a fraction as percentage points with at most two
// decimals, e.g. 0.965 -> "96.5".
func percentString(fraction decimal.Decimal) string {
	return fraction.Mul(hundred).Round(2).String()
}
