package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
)

type ScenarioService struct {
	validator *ProgramValidator
	cache     repository.CacheRepository
	cacheTTL  time.Duration
}

// NewScenarioService creates a ScenarioService. cache may be nil.
func NewScenarioService(programs repository.ProgramRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
) *ScenarioService {
	return &ScenarioService{
		validator: NewProgramValidator(programs),
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

// Validator exposes the program validator backing the service.
func (s *ScenarioService) Validator() *ProgramValidator {
	return s.validator
}

// Evaluate prices a complete deal. Errors short-circuit; warnings from every
// step accumulate on the result in the order they are found.
func (s *ScenarioService) Evaluate(
	ctx context.Context,
	sc domain.Scenario,
) (domain.ScenarioResult, error) {

	if err := ctx.Err(); err != nil {
		return domain.ScenarioResult{}, err
	}

	key, keyErr := scenarioKey(sc)
	if keyErr == nil {
		if res, ok := s.cached(ctx, key); ok {
			return res, nil
		}
	}

	res, err := s.evaluate(sc)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	res.ID = uuid.NewString()

	// Cache failures are logged, never returned.
	if keyErr == nil {
		s.store(ctx, key, res)
	}

	return res, nil
}

func (s *ScenarioService) evaluate(sc domain.Scenario) (domain.ScenarioResult, error) {
	price := sc.PurchasePrice
	if !price.IsPositive() {
		return domain.ScenarioResult{}, fmt.Errorf("%w: purchase price must be greater than zero", domain.ErrInvalidAmount)
	}
	if price.GreaterThan(MaxPurchasePrice) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: purchase price exceeds %s", domain.ErrInvalidAmount, MaxPurchasePrice.StringFixed(2))
	}

	programID := sc.Program
	if programID == "" {
		programID = domain.ProgramConventional
	}
	program, err := s.validator.Program(programID)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	term := sc.TermMonths
	if term == 0 {
		term = DefaultTermMonths
	}

	secondAmount := decimal.Zero
	if sc.SecondLien != nil {
		amount, err := ResolveAmount(sc.SecondLien.Amount, price)
		if err != nil {
			return domain.ScenarioResult{}, fmt.Errorf("second lien: %w", err)
		}
		secondAmount = amount
	}

	var warnings []domain.Warning
	var down decimal.Decimal
	if sc.DownPayment != nil {
		down = *sc.DownPayment
	} else {
		down = decimal.Max(decimal.Zero, domain.USD.RoundMinor(price.Mul(program.DefaultDownPayment)).Sub(secondAmount))
		warnings = append(warnings, domain.Warning{
			Code:    "down_payment_assumed",
			Message: fmt.Sprintf("No down payment given; assumed %s%% of price for %s, %s after any second lien",
				percentString(program.DefaultDownPayment), program.Name, down.StringFixed(2)),
		})
	}
	if down.IsNegative() {
		return domain.ScenarioResult{}, fmt.Errorf("%w: down payment %s", domain.ErrNegativeAmount, down.String())
	}
	if !down.LessThan(price) {
		return domain.ScenarioResult{}, fmt.Errorf("%w: down payment must be less than the purchase price", domain.ErrInvalidAmount)
	}

	base := price.Sub(down).Sub(secondAmount)
	if sc.FirstLienAmount != nil {
		base = *sc.FirstLienAmount
	}
	if !base.IsPositive() {
		return domain.ScenarioResult{}, fmt.Errorf("%w: down payment and second lien leave no first lien", domain.ErrInvalidAmount)
	}

	validation, err := s.validator.Validate(domain.ProgramInput{
		PurchasePrice:   price,
		DownPayment:     price.Sub(base),
		Program:         program.ID,
		Units:           sc.Units,
		TermMonths:      term,
		AnnualRate:      sc.AnnualRate,
		FICO:            sc.FICO,
		VASubsequentUse: sc.VASubsequentUse,
		VAExempt:        sc.VAExempt,
	})
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	note := base.Add(validation.MortgageInsurance.UpfrontFee)
	firstSched, err := ComputeSchedule(note, sc.AnnualRate, term)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	res := domain.ScenarioResult{
		PurchasePrice: price,
		DownPayment:   down,
		FirstLien: domain.LoanTerms{
			Principal:  note,
			AnnualRate: sc.AnnualRate,
			TermMonths: term,
			Program:    validation.Program,
		},
		FirstLienBase:     base,
		FirstLienSchedule: firstSched,
		Validation:        validation,
		BuydownSubsidy:    decimal.Zero,
		LTV:               validation.LTV,
		CLTV:              validation.LTV,
	}
	res.Warnings = append(warnings, validation.Warnings...)

	if sc.Buydown != nil && !sc.Buydown.IsNone() {
		years, err := ApplyBuydown(sc.AnnualRate, *sc.Buydown, note, term)
		if err != nil {
			return domain.ScenarioResult{}, err
		}
		res.Buydown = years
		res.BuydownSubsidy = TotalSubsidy(years)
	}

	if sc.SecondLien != nil {
		terms := *sc.SecondLien
		terms.Amount = domain.Dollars(secondAmount)
		second, err := ComputeSecondLien(price, terms, domain.LoanTerms{
			Principal:  base,
			AnnualRate: sc.AnnualRate,
			TermMonths: term,
		})
		if err != nil {
			return domain.ScenarioResult{}, err
		}
		second.Combined = CombineLiens(price, base, secondAmount, firstLienPaymentForYear(res, 1), second.Schedule.Payment)
		res.SecondLien = &second
		res.CLTV = second.Combined.CLTV
		res.Warnings = append(res.Warnings, second.Warnings...)
		if w, ok := interestOnlyEndWarning(second, term); ok {
			res.Warnings = append(res.Warnings, w)
		}
	}

	if sc.Escrow != nil {
		escrow, estimated := EstimateEscrow(price, *sc.Escrow)
		res.Escrow = &escrow
		if estimated {
			res.Warnings = append(res.Warnings, domain.Warning{
				Code:    "escrow_estimated",
				Message: "Property tax or insurance not given; estimated from the purchase price",
			})
		}
	}

	res.YearlyPayments = yearlyPayments(res)
	return res, nil
}

// EstimateEscrow fills a missing property tax or insurance figure with its
// default share of the purchase price and reports whether it did.
func EstimateEscrow(purchasePrice decimal.Decimal, e domain.Escrow) (domain.Escrow, bool) {
	estimated := false
	if e.AnnualPropertyTax == nil {
		tax := domain.USD.RoundMinor(purchasePrice.Mul(DefaultPropertyTaxRate))
		e.AnnualPropertyTax = &tax
		estimated = true
	}
	if e.AnnualInsurance == nil {
		insurance := domain.USD.RoundMinor(purchasePrice.Mul(DefaultInsuranceRate))
		e.AnnualInsurance = &insurance
		estimated = true
	}
	return e, estimated
}

// interestOnlyEndWarning flags an interest-only second lien whose
// interest-only months end before the first lien does; its payment drops out
// of the yearly figures while the balance is still owed.
func interestOnlyEndWarning(second domain.SecondLienResult, firstTermMonths int) (domain.Warning, bool) {
	months := len(second.Schedule.Periods)
	if !second.Schedule.InterestOnly || months >= firstTermMonths {
		return domain.Warning{}, false
	}
	return domain.Warning{
		Code:    "interest_only_period_ends",
		Message: fmt.Sprintf("Second lien is interest-only for %d months; its %s balance is still owed afterwards and is not in the yearly payments",
			months, second.Schedule.FinalBalance().StringFixed(2)),
	}, true
}

func firstLienPaymentForYear(res domain.ScenarioResult, year int) decimal.Decimal {
	if y, ok := BuydownRateForYear(res.Buydown, year); ok {
		return y.Payment
	}
	return res.FirstLienSchedule.Payment
}

func firstLienRateForYear(res domain.ScenarioResult, year int) decimal.Decimal {
	if y, ok := BuydownRateForYear(res.Buydown, year); ok {
		return y.EffectiveRate
	}
	return res.FirstLien.AnnualRate
}

// secondLienPaymentForYear is the payment in force on the first month of the
// year; an interest-only lien pays nothing once its interest-only months end
// unless it is explicitly converted.
func secondLienPaymentForYear(second *domain.SecondLienResult, year int) decimal.Decimal {
	if second == nil {
		return decimal.Zero
	}
	if (year-1)*monthsPerYear >= len(second.Schedule.Periods) {
		return decimal.Zero
	}
	return second.Schedule.Payment
}

func yearlyPayments(res domain.ScenarioResult) []domain.YearlyPayment {
	monthlyEscrow := decimal.Zero
	if res.Escrow != nil {
		monthlyEscrow = domain.USD.RoundMinor(res.Escrow.Monthly())
	}
	premiums := res.Validation.MortgageInsurance.YearlyPremiums

	years := loanYears(res.FirstLien.TermMonths)
	out := make([]domain.YearlyPayment, 0, years)
	for y := 1; y <= years; y++ {
		mi := decimal.Zero
		if y <= len(premiums) {
			mi = premiums[y-1]
		}
		first := firstLienPaymentForYear(res, y)
		second := secondLienPaymentForYear(res.SecondLien, y)
		combined := first.Add(second)
		out = append(out, domain.YearlyPayment{
			Year:              y,
			FirstLienRate:     firstLienRateForYear(res, y),
			FirstLienPayment:  first,
			MortgageInsurance: mi,
			SecondLienPayment: second,
			CombinedPayment:   combined,
			Escrow:            monthlyEscrow,
			TotalPayment:      combined.Add(mi).Add(monthlyEscrow),
		})
	}
	return out
}

func (s *ScenarioService) cached(ctx context.Context, key string) (domain.ScenarioResult, bool) {
	if s.cache == nil {
		return domain.ScenarioResult{}, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return domain.ScenarioResult{}, false
	}
	var res domain.ScenarioResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		log.Printf("Warning: discarding unreadable cached scenario %s: %v", key, err)
		return domain.ScenarioResult{}, false
	}
	return res, true
}

func (s *ScenarioService) store(ctx context.Context, key string, res domain.ScenarioResult) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(res)
	if err != nil {
		log.Printf("Warning: failed to encode scenario %s: %v", res.ID, err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		log.Printf("Warning: failed to cache scenario %s: %v", res.ID, err)
	}
}

// scenarioKey digests the request so equal scenarios share a cache entry.
func scenarioKey(sc domain.Scenario) (string, error) {
	raw, err := json.Marshal(sc)
	if err != nil {
		return "", err
	}
	return "scenario:" + strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}
