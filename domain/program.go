package domain

import "github.com/shopspring/decimal"

type ProgramID string

const (
	ProgramConventional ProgramID = "conventional"
	ProgramFHA          ProgramID = "fha"
	ProgramVA           ProgramID = "va"
	ProgramJumbo        ProgramID = "jumbo"
)

// MIKind selects how a program charges mortgage insurance.
type MIKind string

const (
	MINone      MIKind = "none"
	MITiered    MIKind = "tiered"
	MIAnnualFHA MIKind = "fha_annual"
)

// MITier applies AnnualRate (fraction, 0.003 = 0.30%) while LTV <= MaxLTV.
type MITier struct {
	MaxLTV     decimal.Decimal `yaml:"max_ltv" json:"maxLtv"`
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annualRate"`
}

// FHAMIPRow is one line of the FHA annual premium table. A row matches when
// the term is within its bounds, the base loan amount is on the right side of
// the amount threshold and LTV <= MaxLTV.
type FHAMIPRow struct {
	LongTerm   bool            `yaml:"long_term" json:"longTerm"`
	HighAmount bool            `yaml:"high_amount" json:"highAmount"`
	MaxLTV     decimal.Decimal `yaml:"max_ltv" json:"maxLtv"`
	AnnualRate decimal.Decimal `yaml:"annual_rate" json:"annualRate"`
}

// MortgageInsuranceRules carries the program's MI constants.
type MortgageInsuranceRules struct {
	Kind MIKind `yaml:"kind" json:"kind"`

	// Tiered (conventional PMI).
	Tiers       []MITier        `yaml:"tiers,omitempty" json:"tiers,omitempty"`
	FreeMaxLTV  decimal.Decimal `yaml:"free_max_ltv" json:"freeMaxLtv"`
	CancelAtLTV decimal.Decimal `yaml:"cancel_at_ltv" json:"cancelAtLtv"`

	// FHA annual MIP.
	FHATable            []FHAMIPRow     `yaml:"fha_table,omitempty" json:"fhaTable,omitempty"`
	LongTermMonths      int             `yaml:"long_term_months" json:"longTermMonths"`
	HighAmountThreshold decimal.Decimal `yaml:"high_amount_threshold" json:"highAmountThreshold"`
	ShortDurationMaxLTV decimal.Decimal `yaml:"short_duration_max_ltv" json:"shortDurationMaxLtv"`
	ShortDurationMonths int             `yaml:"short_duration_months" json:"shortDurationMonths"`
}

// FundingFeeTier applies Rate when the down payment share is >= MinDown.
type FundingFeeTier struct {
	MinDown decimal.Decimal `yaml:"min_down" json:"minDown"`
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
}

// UpfrontFeeRules describes fees financed into the first lien at closing.
type UpfrontFeeRules struct {
	// Rate is a flat fraction of the base loan (FHA UFMIP).
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
	// FirstUse and SubsequentUse are VA funding-fee tables, highest MinDown first.
	FirstUse      []FundingFeeTier `yaml:"first_use,omitempty" json:"firstUse,omitempty"`
	SubsequentUse []FundingFeeTier `yaml:"subsequent_use,omitempty" json:"subsequentUse,omitempty"`
}

// LoanProgram is one entry of the program catalog. Programs differ only by
// data; there is no per-program code path outside the MI kind switch.
type LoanProgram struct {
	ID                ProgramID              `yaml:"id" json:"id"`
	Name              string                 `yaml:"name" json:"name"`
	MaxLTV            decimal.Decimal        `yaml:"max_ltv" json:"maxLtv"`
	LoanLimits        []decimal.Decimal      `yaml:"loan_limits,omitempty" json:"loanLimits,omitempty"`
	MortgageInsurance MortgageInsuranceRules `yaml:"mortgage_insurance" json:"mortgageInsurance"`
	UpfrontFee        UpfrontFeeRules        `yaml:"upfront_fee" json:"upfrontFee"`
	MinFICO           int                    `yaml:"min_fico" json:"minFico"`
	// DefaultDownPayment is the down payment share assumed when a scenario
	// gives none.
	DefaultDownPayment decimal.Decimal `yaml:"default_down_payment" json:"defaultDownPayment"`
	// Aliases are other names the catalog resolves to this program.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// Fallback names a program to suggest when LTV exceeds MaxLTV but stays
	// within the fallback's own ceiling.
	Fallback ProgramID `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// LoanLimit returns the cap for the unit count and whether one applies.
func (p LoanProgram) LoanLimit(units int) (decimal.Decimal, bool) {
	if len(p.LoanLimits) == 0 || units < 1 || units > len(p.LoanLimits) {
		return decimal.Zero, false
	}
	return p.LoanLimits[units-1], true
}

// ProgramInput is what the validator needs to judge a first lien.
type ProgramInput struct {
	PurchasePrice decimal.Decimal
	// DownPayment is the equity ahead of the first lien; with a second lien
	// it is price minus first-lien principal.
	DownPayment decimal.Decimal
	Program     ProgramID
	Units       int
	TermMonths  int
	AnnualRate  decimal.Decimal
	FICO        int
	// VASubsequentUse selects the repeat-use funding fee table.
	VASubsequentUse bool
	VAExempt        bool
}

// MortgageInsurance is the MI picture for a validated first lien.
type MortgageInsurance struct {
	Required bool   `json:"required"`
	Kind     MIKind `json:"kind"`
	// AnnualRate is a fraction (0.0055 = 0.55%).
	AnnualRate decimal.Decimal `json:"annualRate"`
	// MonthlyPremium is the first-year monthly charge.
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	// UpfrontFee is financed into the note amount.
	UpfrontFee decimal.Decimal `json:"upfrontFee"`
	// DurationMonths is how many months the premium is charged.
	DurationMonths int `json:"durationMonths"`
	// YearlyPremiums is the monthly premium in force for each loan year.
	YearlyPremiums []decimal.Decimal `json:"yearlyPremiums,omitempty"`
}

// ProgramValidation is the validator's verdict.
type ProgramValidation struct {
	Program           ProgramID         `json:"program"`
	Approved          bool              `json:"approved"`
	LTV               decimal.Decimal   `json:"ltv"`
	MaxLTV            decimal.Decimal   `json:"maxLtv"`
	BaseLoanAmount    decimal.Decimal   `json:"baseLoanAmount"`
	LoanLimit         *decimal.Decimal  `json:"loanLimit,omitempty"`
	MortgageInsurance MortgageInsurance `json:"mortgageInsurance"`
	Warnings          []Warning         `json:"warnings,omitempty"`
}
