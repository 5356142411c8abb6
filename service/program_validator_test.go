package service

import (
	"errors"
	"testing"

	"mortgage-engine/domain"
)

func hasWarning(warnings []domain.Warning, code string) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestValidateProgram_ConventionalFivePercentDown(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("400000"),
		DownPayment:   dec("20000"),
		Program:       domain.ProgramConventional,
		AnnualRate:    dec("6.85"),
		TermMonths:    360,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Approved {
		t.Errorf("expected 95%% LTV to be approved")
	}
	assertDecimal(t, "ltv", dec("0.95"), res.LTV)
	assertDecimal(t, "base loan", dec("380000"), res.BaseLoanAmount)
	if res.LoanLimit == nil {
		t.Fatalf("expected a conventional loan limit")
	}
	assertDecimal(t, "loan limit", dec("806500"), *res.LoanLimit)

	mi := res.MortgageInsurance
	if !mi.Required || mi.Kind != domain.MITiered {
		t.Fatalf("expected tiered MI, got %+v", mi)
	}
	assertDecimal(t, "mi rate", dec("0.003"), mi.AnnualRate)
	assertDecimal(t, "mi monthly", dec("95"), mi.MonthlyPremium)
	if mi.DurationMonths != 140 {
		t.Errorf("expected MI to cancel at month 140, got %d", mi.DurationMonths)
	}
	if len(mi.YearlyPremiums) != 30 {
		t.Fatalf("expected 30 yearly premiums, got %d", len(mi.YearlyPremiums))
	}
	assertDecimal(t, "year 12 premium", dec("95"), mi.YearlyPremiums[11])
	assertDecimal(t, "year 13 premium", dec("0"), mi.YearlyPremiums[12])
	if !mi.UpfrontFee.IsZero() {
		t.Errorf("expected no upfront fee, got %s", mi.UpfrontFee)
	}
	if !hasWarning(res.Warnings, "mortgage_insurance_required") {
		t.Errorf("expected mortgage_insurance_required warning, got %+v", res.Warnings)
	}
}

func TestValidateProgram_ConventionalTwentyPercentDownHasNoMI(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("600000"),
		DownPayment:   dec("120000"),
		Program:       domain.ProgramConventional,
		AnnualRate:    dec("7"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MortgageInsurance.Required {
		t.Errorf("expected no MI at 80%% LTV, got %+v", res.MortgageInsurance)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", res.Warnings)
	}
}

func TestValidateProgram_ConventionalAboveMaxSuggestsFHA(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("435000"),
		DownPayment:   dec("15225"),
		Program:       domain.ProgramConventional,
		AnnualRate:    dec("7"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Approved {
		t.Errorf("expected 96.5%% LTV to exceed the conventional maximum")
	}
	if !hasWarning(res.Warnings, "ltv_exceeds_program_max") || !hasWarning(res.Warnings, "consider_fha") {
		t.Errorf("expected LTV and FHA warnings, got %+v", res.Warnings)
	}
	assertDecimal(t, "mi rate", dec("0.0043"), res.MortgageInsurance.AnnualRate)
}

func TestValidateProgram_FHAHighLTV(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("435000"),
		DownPayment:   dec("15225"),
		Program:       domain.ProgramFHA,
		AnnualRate:    dec("6.5"),
		TermMonths:    360,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Approved {
		t.Errorf("expected 96.5%% LTV to be approved for FHA")
	}
	assertDecimal(t, "ltv", dec("0.965"), res.LTV)

	mi := res.MortgageInsurance
	assertDecimal(t, "mip rate", dec("0.0055"), mi.AnnualRate)
	assertDecimal(t, "ufmip", dec("7346.06"), mi.UpfrontFee)
	if mi.DurationMonths != 360 {
		t.Errorf("expected life-of-loan MIP, got %d months", mi.DurationMonths)
	}
	assertDecimal(t, "year 1 premium", dec("191.42"), mi.MonthlyPremium)
	assertDecimal(t, "year 2 premium", dec("189.21"), mi.YearlyPremiums[1])
	assertDecimal(t, "year 12 premium", dec("157.01"), mi.YearlyPremiums[11])
}

func TestValidateProgram_FHAShortTermElevenYears(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("400000"),
		DownPayment:   dec("60000"),
		Program:       domain.ProgramFHA,
		AnnualRate:    dec("6"),
		TermMonths:    180,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mi := res.MortgageInsurance
	assertDecimal(t, "mip rate", dec("0.0015"), mi.AnnualRate)
	if mi.DurationMonths != 132 {
		t.Errorf("expected 132 months of MIP, got %d", mi.DurationMonths)
	}
	assertDecimal(t, "year 1 premium", dec("41.68"), mi.YearlyPremiums[0])
	assertDecimal(t, "year 11 premium", dec("17.06"), mi.YearlyPremiums[10])
	assertDecimal(t, "year 12 premium", dec("0"), mi.YearlyPremiums[11])
}

func TestValidateProgram_FHARateTable(t *testing.T) {

	cases := []struct {
		name  string
		price string
		down  string
		term  int
		want  string
	}{
		{"long term low ltv", "500000", "50000", 360, "0.005"},
		{"long term high amount", "800000", "28000", 360, "0.0075"},
		{"long term high amount low ltv", "800000", "60000", 360, "0.007"},
		{"short term high amount 78", "1000000", "250000", 180, "0.0015"},
		{"short term high amount 90", "850000", "85000", 180, "0.004"},
		{"short term low amount 95", "400000", "20000", 180, "0.004"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ValidateProgram(domain.ProgramInput{
				PurchasePrice: dec(tc.price),
				DownPayment:   dec(tc.down),
				Program:       domain.ProgramFHA,
				Units:         2,
				AnnualRate:    dec("6"),
				TermMonths:    tc.term,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertDecimal(t, "mip rate", dec(tc.want), res.MortgageInsurance.AnnualRate)
		})
	}
}

func TestValidateProgram_VAFundingFee(t *testing.T) {

	cases := []struct {
		name       string
		down       string
		subsequent bool
		exempt     bool
		want       string
	}{
		{"first use no down", "0", false, false, "6450"},
		{"first use five percent", "15000", false, false, "4275"},
		{"first use ten percent", "30000", false, false, "3375"},
		{"subsequent use no down", "0", true, false, "9900"},
		{"subsequent use five percent", "15000", true, false, "4275"},
		{"exempt", "0", false, true, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ValidateProgram(domain.ProgramInput{
				PurchasePrice:   dec("300000"),
				DownPayment:     dec(tc.down),
				Program:         domain.ProgramVA,
				AnnualRate:      dec("6"),
				VASubsequentUse: tc.subsequent,
				VAExempt:        tc.exempt,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.MortgageInsurance.Required {
				t.Errorf("VA loans carry no monthly MI")
			}
			if res.LoanLimit != nil {
				t.Errorf("VA loans have no limit, got %s", res.LoanLimit)
			}
			assertDecimal(t, "funding fee", dec(tc.want), res.MortgageInsurance.UpfrontFee)
		})
	}
}

func TestValidateProgram_JumboAndFICO(t *testing.T) {

	res, err := ValidateProgram(domain.ProgramInput{
		PurchasePrice: dec("2000000"),
		DownPayment:   dec("160000"),
		Program:       domain.ProgramJumbo,
		AnnualRate:    dec("7.25"),
		FICO:          680,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Approved {
		t.Errorf("expected 92%% LTV to exceed the jumbo maximum")
	}
	if hasWarning(res.Warnings, "consider_fha") {
		t.Errorf("jumbo has no fallback program")
	}
	if !hasWarning(res.Warnings, "fico_below_program_minimum") {
		t.Errorf("expected FICO warning, got %+v", res.Warnings)
	}
}

func TestValidateProgram_LoanLimit(t *testing.T) {

	in := domain.ProgramInput{
		PurchasePrice: dec("1000000"),
		DownPayment:   dec("193499"),
		Program:       domain.ProgramConventional,
		AnnualRate:    dec("7"),
	}

	_, err := ValidateProgram(in)
	if !errors.Is(err, domain.ErrLoanLimitExceeded) {
		t.Fatalf("expected ErrLoanLimitExceeded, got %v", err)
	}

	in.Units = 2
	res, err := ValidateProgram(in)
	if err != nil {
		t.Fatalf("unexpected error for 2 units: %v", err)
	}
	assertDecimal(t, "2-unit limit", dec("1032650"), *res.LoanLimit)

	in.DownPayment = dec("193500")
	in.Units = 1
	if _, err := ValidateProgram(in); err != nil {
		t.Errorf("expected a loan exactly at the limit to pass, got %v", err)
	}
}

func TestValidateProgram_Errors(t *testing.T) {

	base := domain.ProgramInput{
		PurchasePrice: dec("400000"),
		DownPayment:   dec("40000"),
		Program:       domain.ProgramConventional,
		AnnualRate:    dec("7"),
	}

	cases := []struct {
		name   string
		modify func(*domain.ProgramInput)
		want   error
	}{
		{"zero price", func(in *domain.ProgramInput) { in.PurchasePrice = dec("0") }, domain.ErrInvalidAmount},
		{"negative down", func(in *domain.ProgramInput) { in.DownPayment = dec("-1") }, domain.ErrNegativeAmount},
		{"down equals price", func(in *domain.ProgramInput) { in.DownPayment = dec("400000") }, domain.ErrInvalidAmount},
		{"unknown program", func(in *domain.ProgramInput) { in.Program = "usda" }, domain.ErrUnknownProgram},
		{"five units", func(in *domain.ProgramInput) { in.Units = 5 }, domain.ErrInvalidUnits},
		{"negative units", func(in *domain.ProgramInput) { in.Units = -1 }, domain.ErrInvalidUnits},
		{"bad rate", func(in *domain.ProgramInput) { in.AnnualRate = dec("-1") }, domain.ErrInvalidRate},
		{"bad term", func(in *domain.ProgramInput) { in.TermMonths = 600 }, domain.ErrInvalidTerm},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.modify(&in)
			_, err := ValidateProgram(in)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
