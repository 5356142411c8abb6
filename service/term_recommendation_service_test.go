package service

import (
	"errors"
	"testing"

	"mortgage-engine/domain"
)

func termInput(pref domain.TermPreference) domain.TermRecommendationInput {
	return domain.TermRecommendationInput{
		Principal:     dec("100000"),
		AnnualRate:    dec("6"),
		MinTermMonths: 120,
		MaxTermMonths: 360,
		StepMonths:    120,
		Preference:    pref,
	}
}

func TestRecommendTerm_Preferences(t *testing.T) {

	svc := NewTermRecommendationService()

	cases := []struct {
		pref      domain.TermPreference
		wantTerm  int
		wantScore string
	}{
		{domain.PreferMinimizeInterest, 120, "8"},
		{domain.PreferMinimizePayment, 240, "6.69"},
		{domain.PreferBalanced, 240, "6.21"},
	}

	for _, tc := range cases {
		t.Run(string(tc.pref), func(t *testing.T) {
			res, err := svc.RecommendTerm(termInput(tc.pref))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.RecommendedTerm != tc.wantTerm {
				t.Errorf("expected %d months, got %d", tc.wantTerm, res.RecommendedTerm)
			}
			if len(res.Recommendations) != 3 {
				t.Fatalf("expected 3 candidates, got %d", len(res.Recommendations))
			}
			assertDecimal(t, "top score", dec(tc.wantScore), res.Recommendations[0].Score)
			for i := 1; i < len(res.Recommendations); i++ {
				if res.Recommendations[i].Score.GreaterThan(res.Recommendations[i-1].Score) {
					t.Errorf("recommendations not sorted by score: %+v", res.Recommendations)
				}
			}
		})
	}
}

func TestRecommendTerm_PaymentCap(t *testing.T) {

	svc := NewTermRecommendationService()
	in := termInput(domain.PreferMinimizeInterest)
	in.MaxMonthlyPayment = dec("700")

	res, err := svc.RecommendTerm(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Recommendations) != 1 || res.RecommendedTerm != 360 {
		t.Fatalf("expected only the 30-year term to fit, got %+v", res.Recommendations)
	}
	assertDecimal(t, "payment", dec("599.55"), res.Recommendations[0].MonthlyPayment)

	in.MaxMonthlyPayment = dec("500")
	if _, err := svc.RecommendTerm(in); !errors.Is(err, domain.ErrNoFeasibleOption) {
		t.Errorf("expected ErrNoFeasibleOption, got %v", err)
	}
}

func TestRecommendTerm_DefaultStep(t *testing.T) {

	svc := NewTermRecommendationService()
	in := termInput(domain.PreferBalanced)
	in.StepMonths = 0

	res, err := svc.RecommendTerm(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Recommendations) != 21 {
		t.Errorf("expected yearly candidates from 10 to 30 years, got %d", len(res.Recommendations))
	}
}

func TestRecommendTerm_InvalidInput(t *testing.T) {

	svc := NewTermRecommendationService()

	cases := []struct {
		name   string
		mutate func(*domain.TermRecommendationInput)
		want   error
	}{
		{"zero principal", func(in *domain.TermRecommendationInput) { in.Principal = dec("0") }, domain.ErrInvalidAmount},
		{"min above max", func(in *domain.TermRecommendationInput) { in.MinTermMonths = 400 }, domain.ErrInvalidTerm},
		{"max above limit", func(in *domain.TermRecommendationInput) { in.MaxTermMonths = 600 }, domain.ErrInvalidTerm},
		{"zero min", func(in *domain.TermRecommendationInput) { in.MinTermMonths = 0 }, domain.ErrInvalidTerm},
		{"negative cap", func(in *domain.TermRecommendationInput) { in.MaxMonthlyPayment = dec("-1") }, domain.ErrNegativeAmount},
		{"bad preference", func(in *domain.TermRecommendationInput) { in.Preference = "cheapest" }, domain.ErrInvalidPreference},
		{"bad rate", func(in *domain.TermRecommendationInput) { in.AnnualRate = dec("-1") }, domain.ErrInvalidRate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := termInput(domain.PreferBalanced)
			tc.mutate(&in)
			if _, err := svc.RecommendTerm(in); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
