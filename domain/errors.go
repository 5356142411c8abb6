package domain

import "errors"

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrNegativeAmount       = errors.New("negative amount")
	ErrInvalidRate          = errors.New("invalid rate")
	ErrInvalidTerm          = errors.New("invalid term")
	ErrInvalidUnits         = errors.New("invalid unit count")
	ErrUnknownProgram       = errors.New("unknown loan program")
	ErrLoanLimitExceeded    = errors.New("loan limit exceeded")
	ErrInvalidBuydownPlan   = errors.New("invalid buydown plan")
	ErrUnresolvedPercentage = errors.New("unresolved percentage")
	ErrInvalidPreference    = errors.New("invalid preference")
	ErrNoFeasibleOption     = errors.New("no feasible option")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidAmount, "invalid_amount"},
	{ErrNegativeAmount, "negative_amount"},
	{ErrInvalidRate, "invalid_rate"},
	{ErrInvalidTerm, "invalid_term"},
	{ErrInvalidUnits, "invalid_units"},
	{ErrUnknownProgram, "unknown_program"},
	{ErrLoanLimitExceeded, "loan_limit_exceeded"},
	{ErrInvalidBuydownPlan, "invalid_buydown_plan"},
	{ErrUnresolvedPercentage, "unresolved_percentage"},
	{ErrInvalidPreference, "invalid_preference"},
	{ErrNoFeasibleOption, "no_feasible_option"},
}

// ErrorCode returns the stable code for an engine error, or "" when err is not
// one of the sentinel errors above.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}
