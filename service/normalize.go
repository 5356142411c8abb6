package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
)

// NormalizeAmount converts an already-structured numeric input into an exact
// decimal amount. Strings may carry a leading "$" and thousands separators;
// shorthand such as "20k" is rejected.
func NormalizeAmount(v any) (decimal.Decimal, error) {
	d, isPercent, err := parseNumeric(v)
	if err != nil {
		return decimal.Zero, err
	}
	if isPercent {
		return decimal.Zero, fmt.Errorf("%w: %v is a percentage, expected an amount", domain.ErrInvalidAmount, v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNegativeAmount, d.String())
	}
	return d, nil
}

// NormalizeRate converts a rate given as a bare number or a "%" string into
// percentage points: 7, "7", "7%" and "7.00 %" all yield 7.
func NormalizeRate(v any) (decimal.Decimal, error) {
	d, _, err := parseNumeric(v)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNegativeAmount, d.String())
	}
	return d, nil
}

// NormalizeAmountOrPercent keeps "%" inputs as a share of price to be resolved
// later and everything else as dollars.
func NormalizeAmountOrPercent(v any) (domain.AmountOrPercent, error) {
	if ap, ok := v.(domain.AmountOrPercent); ok {
		if ap.Amount.IsNegative() || ap.Percent.IsNegative() {
			return domain.AmountOrPercent{}, fmt.Errorf("%w: amount or percent below zero", domain.ErrNegativeAmount)
		}
		return ap, nil
	}
	d, isPercent, err := parseNumeric(v)
	if err != nil {
		return domain.AmountOrPercent{}, err
	}
	if d.IsNegative() {
		return domain.AmountOrPercent{}, fmt.Errorf("%w: %s", domain.ErrNegativeAmount, d.String())
	}
	if isPercent {
		return domain.PercentOfPrice(d), nil
	}
	return domain.Dollars(d), nil
}

// ResolveAmount turns an AmountOrPercent into dollars, rounded to cents.
func ResolveAmount(ap domain.AmountOrPercent, purchasePrice decimal.Decimal) (decimal.Decimal, error) {
	if !ap.IsPercent {
		if ap.Amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNegativeAmount, ap.Amount.String())
		}
		return ap.Amount, nil
	}
	if ap.Percent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s%%", domain.ErrNegativeAmount, ap.Percent.String())
	}
	if !purchasePrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s%% of a missing purchase price", domain.ErrUnresolvedPercentage, ap.Percent.String())
	}
	return domain.USD.RoundMinor(purchasePrice.Mul(ap.Percent).Div(hundred)), nil
}

// NormalizeLienType maps the accepted spellings of a second-lien type onto a
// LienType. An empty value means interest-only.
func NormalizeLienType(s string) (domain.LienType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interest_only", "interest only", "io":
		return domain.LienInterestOnly, nil
	case "fully_amortized", "fully amortized", "amortized", "amortizing":
		return domain.LienFullyAmortized, nil
	}
	return "", fmt.Errorf("%w: unknown lien type %q", domain.ErrInvalidTerm, s)
}

func parseNumeric(v any) (d decimal.Decimal, isPercent bool, err error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, false, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, false, fmt.Errorf("%w: nil value", domain.ErrInvalidAmount)
		}
		return *x, false, nil
	case int:
		return decimal.NewFromInt(int64(x)), false, nil
	case int32:
		return decimal.NewFromInt32(x), false, nil
	case int64:
		return decimal.NewFromInt(x), false, nil
	case uint:
		return decimal.NewFromUint64(uint64(x)), false, nil
	case uint64:
		return decimal.NewFromUint64(x), false, nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return decimal.Zero, false, fmt.Errorf("%w: %v is not a finite number", domain.ErrInvalidAmount, x)
		}
		return decimal.NewFromFloat32(x), false, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false, fmt.Errorf("%w: %v is not a finite number", domain.ErrInvalidAmount, x)
		}
		return decimal.NewFromFloat(x), false, nil
	case json.Number:
		return parseNumericString(x.String())
	case string:
		return parseNumericString(x)
	case nil:
		return decimal.Zero, false, fmt.Errorf("%w: missing value", domain.ErrInvalidAmount)
	}
	return decimal.Zero, false, fmt.Errorf("%w: unsupported type %T", domain.ErrInvalidAmount, v)
}

func parseNumericString(raw string) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw)
	isPercent := false
	if strings.HasSuffix(s, "%") {
		isPercent = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}
	if !isPercent {
		s = strings.TrimPrefix(s, "$")
	}
	if !validGrouping(s) {
		return decimal.Zero, false, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, raw)
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, raw)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, false, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, raw)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, raw)
	}
	if neg {
		d = d.Neg()
	}
	return d, isPercent, nil
}

// validGrouping accepts "480000", "480,000" and "1,234,567.89" but not
// misplaced separators such as "48,00".
func validGrouping(s string) bool {
	if !strings.Contains(s, ",") {
		return true
	}
	intPart := s
	if i := strings.Index(s, "."); i >= 0 {
		intPart = s[:i]
	}
	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
