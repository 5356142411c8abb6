package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

// ComputeSecondLien resolves the subordinate lien amount against the price
// and builds its schedule. first supplies the default rate and the first-lien
// side of the combined metrics; a zero first principal leaves that side empty.
func ComputeSecondLien(purchasePrice decimal.Decimal, terms domain.SecondLienTerms, first domain.LoanTerms) (domain.SecondLienResult, error) {
	if !purchasePrice.IsPositive() && !terms.Amount.IsPercent {
		return domain.SecondLienResult{}, fmt.Errorf("%w: purchase price must be greater than zero", domain.ErrInvalidAmount)
	}
	amount, err := ResolveAmount(terms.Amount, purchasePrice)
	if err != nil {
		return domain.SecondLienResult{}, err
	}

	rate := SecondLienRate(terms, first.AnnualRate)
	term := terms.TermMonths
	if term == 0 {
		term = DefaultTermMonths
	}
	lienType, err := NormalizeLienType(string(terms.Type))
	if err != nil {
		return domain.SecondLienResult{}, err
	}

	var sched domain.AmortizationSchedule
	switch lienType {
	case domain.LienFullyAmortized:
		sched, err = ComputeSchedule(amount, rate, term)
	case domain.LienInterestOnly:
		months := terms.InterestOnlyMonths
		if months == 0 {
			months = term
		}
		if months > term {
			return domain.SecondLienResult{}, fmt.Errorf("%w: %d interest-only months exceed the %d-month term", domain.ErrInvalidTerm, months, term)
		}
		sched, err = InterestOnlySchedule(amount, rate, months)
	}
	if err != nil {
		return domain.SecondLienResult{}, fmt.Errorf("second lien: %w", err)
	}

	firstPayment := decimal.Zero
	if first.Principal.IsPositive() {
		firstPayment, err = MonthlyPayment(first.Principal, first.AnnualRate, first.TermMonths)
		if err != nil {
			return domain.SecondLienResult{}, fmt.Errorf("first lien: %w", err)
		}
	}

	combined := CombineLiens(purchasePrice, first.Principal, amount, firstPayment, sched.Payment)
	return domain.SecondLienResult{
		Amount:     amount,
		Type:       lienType,
		AnnualRate: rate,
		TermMonths: term,
		Schedule:   sched,
		Combined:   combined,
		Warnings:   cltvWarnings(combined.CLTV),
	}, nil
}

// SecondLienRate is the lien's own rate, or the first-lien rate plus
// SecondLienRateSpread.
func SecondLienRate(terms domain.SecondLienTerms, firstRate decimal.Decimal) decimal.Decimal {
	if terms.AnnualRate != nil {
		return *terms.AnnualRate
	}
	return firstRate.Add(SecondLienRateSpread)
}

// CombineLiens reports both liens against the price. CLTV is the sum of the
// two ratios so it always equals LTV plus the second lien's share.
func CombineLiens(purchasePrice, firstPrincipal, secondPrincipal, firstPayment, secondPayment decimal.Decimal) domain.CombinedMetrics {
	firstLTV := ratio(firstPrincipal, purchasePrice)
	share := ratio(secondPrincipal, purchasePrice)
	return domain.CombinedMetrics{
		FirstLienPrincipal:  firstPrincipal,
		SecondLienPrincipal: secondPrincipal,
		FirstLienLTV:        firstLTV,
		SecondLienShare:     share,
		CLTV:                firstLTV.Add(share),
		FirstLienPayment:    firstPayment,
		SecondLienPayment:   secondPayment,
		CombinedPayment:     firstPayment.Add(secondPayment),
	}
}

// ConvertToAmortizing re-amortizes a balance over what is left of the term,
// as when an interest-only second lien starts paying down principal.
func ConvertToAmortizing(balance, annualRate decimal.Decimal, elapsedMonths, totalTermMonths int) (domain.AmortizationSchedule, error) {
	if elapsedMonths < 0 {
		return domain.AmortizationSchedule{}, fmt.Errorf("%w: elapsed months %d", domain.ErrInvalidTerm, elapsedMonths)
	}
	remaining := totalTermMonths - elapsedMonths
	if remaining <= 0 {
		return domain.AmortizationSchedule{}, fmt.Errorf("%w: no term left after %d of %d months", domain.ErrInvalidTerm, elapsedMonths, totalTermMonths)
	}
	return ComputeSchedule(balance, annualRate, remaining)
}

func cltvWarnings(cltv decimal.Decimal) []domain.Warning {
	var out []domain.Warning
	if cltv.GreaterThan(cltvDPAThreshold) {
		out = append(out, domain.Warning{
			Code:    "cltv_above_100",
			Message: fmt.Sprintf("CLTV %s%% exceeds 100%%; only down payment assistance programs allow this", percentString(cltv)),
		})
	}
	if cltv.GreaterThan(cltvMaxTypical) {
		out = append(out, domain.Warning{
			Code:    "cltv_above_105",
			Message: fmt.Sprintf("CLTV %s%% exceeds the 105%% most programs accept", percentString(cltv)),
		})
	}
	return out
}
