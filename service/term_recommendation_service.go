package service

import (
	"fmt"
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

type TermRecommendationService struct{}

func NewTermRecommendationService() *TermRecommendationService {
	return &TermRecommendationService{}
}

var (
	ten             = decimal.NewFromInt(10)
	weightPrimary   = decimal.RequireFromString("0.6")
	weightSecondary = decimal.RequireFromString("0.2")
	weightBalanced  = decimal.RequireFromString("0.4")
)

// RecommendTerm prices every candidate term and ranks the ones that fit the
// payment cap by the borrower's preference.
func (s *TermRecommendationService) RecommendTerm(
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {

	if !input.Principal.IsPositive() {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: principal must be greater than zero", domain.ErrInvalidAmount)
	}
	if input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: term bounds must be positive", domain.ErrInvalidTerm)
	}
	if input.MinTermMonths > input.MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: minimum term %d is above maximum %d", domain.ErrInvalidTerm, input.MinTermMonths, input.MaxTermMonths)
	}
	if input.MaxTermMonths > MaxTermMonths {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum term exceeds %d months", domain.ErrInvalidTerm, MaxTermMonths)
	}
	if input.MaxMonthlyPayment.IsNegative() {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: payment cap %s", domain.ErrNegativeAmount, input.MaxMonthlyPayment.String())
	}
	switch input.Preference {
	case domain.PreferMinimizeInterest, domain.PreferMinimizePayment, domain.PreferBalanced:
	default:
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidPreference, input.Preference)
	}
	step := input.StepMonths
	if step <= 0 {
		step = monthsPerYear
	}

	bounds, err := newTermBounds(input)
	if err != nil {
		return domain.TermRecommendationResult{}, err
	}

	recommendations := []domain.TermRecommendation{}
	for term := input.MinTermMonths; term <= input.MaxTermMonths; term += step {
		sched, err := ComputeSchedule(input.Principal, input.AnnualRate, term)
		if err != nil {
			log.Printf("Warning: failed to price term %d: %v", term, err)
			continue
		}

		if input.MaxMonthlyPayment.IsPositive() && sched.Payment.GreaterThan(input.MaxMonthlyPayment) {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: sched.Payment,
			TotalInterest:  domain.USD.RoundMinor(sched.TotalInterest),
			Score:          bounds.score(sched, input.Preference),
			Reason:         termReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: no term between %d and %d months keeps the payment at or below %s",
			domain.ErrNoFeasibleOption, input.MinTermMonths, input.MaxTermMonths, input.MaxMonthlyPayment.StringFixed(2))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score.GreaterThan(recommendations[j].Score)
	})

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

// termBounds holds the extremes each score component is normalized against.
type termBounds struct {
	minTerm, maxTerm         int
	minInterest, maxInterest decimal.Decimal
	minPayment, maxPayment   decimal.Decimal
}

func newTermBounds(input domain.TermRecommendationInput) (termBounds, error) {
	short, err := ComputeSchedule(input.Principal, input.AnnualRate, input.MinTermMonths)
	if err != nil {
		return termBounds{}, err
	}
	long, err := ComputeSchedule(input.Principal, input.AnnualRate, input.MaxTermMonths)
	if err != nil {
		return termBounds{}, err
	}
	return termBounds{
		minTerm:     input.MinTermMonths,
		maxTerm:     input.MaxTermMonths,
		minInterest: short.TotalInterest,
		maxInterest: long.TotalInterest,
		minPayment:  long.Payment,
		maxPayment:  short.Payment,
	}, nil
}

// score rates a term from 0 to 10.
func (b termBounds) score(sched domain.AmortizationSchedule, pref domain.TermPreference) decimal.Decimal {
	interestScore := normalizedScore(sched.TotalInterest, b.minInterest, b.maxInterest)
	paymentScore := normalizedScore(sched.Payment, b.minPayment, b.maxPayment)
	termScore := normalizedScore(decimal.NewFromInt(int64(sched.TermMonths)),
		decimal.NewFromInt(int64(b.minTerm)), decimal.NewFromInt(int64(b.maxTerm)))

	var score decimal.Decimal
	switch pref {
	case domain.PreferMinimizeInterest:
		score = weightPrimary.Mul(interestScore).Add(weightSecondary.Mul(paymentScore)).Add(weightSecondary.Mul(termScore))
	case domain.PreferMinimizePayment:
		score = weightSecondary.Mul(interestScore).Add(weightPrimary.Mul(paymentScore)).Add(weightSecondary.Mul(termScore))
	default:
		score = weightBalanced.Mul(interestScore).Add(weightBalanced.Mul(paymentScore)).Add(weightSecondary.Mul(termScore))
	}
	return score.Round(2)
}

// normalizedScore maps v in [lo, hi] to 10..0; a degenerate range scores 10.
func normalizedScore(v, lo, hi decimal.Decimal) decimal.Decimal {
	span := hi.Sub(lo)
	if !span.IsPositive() {
		return ten
	}
	return ten.Mul(one.Sub(v.Sub(lo).DivRound(span, calcPrecision)))
}

func termReason(pref domain.TermPreference) string {
	switch pref {
	case domain.PreferMinimizeInterest:
		return "Term chosen to minimize total interest cost"
	case domain.PreferMinimizePayment:
		return "Term chosen to minimize the monthly payment"
	case domain.PreferBalanced:
		return "Best balance between monthly payment and total cost"
	}
	return "Recommendation based on the requested parameters"
}
