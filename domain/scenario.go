package domain

import "github.com/shopspring/decimal"

// Escrow holds the non-loan housing costs folded into the total payment.
// A nil tax or insurance figure is estimated from the purchase price.
type Escrow struct {
	AnnualPropertyTax *decimal.Decimal `json:"annualPropertyTax,omitempty"`
	AnnualInsurance   *decimal.Decimal `json:"annualInsurance,omitempty"`
	MonthlyHOA        decimal.Decimal  `json:"monthlyHoa"`
}

// Monthly returns the escrow charge per month; missing figures count as zero.
func (e Escrow) Monthly() decimal.Decimal {
	annual := decimal.Zero
	if e.AnnualPropertyTax != nil {
		annual = annual.Add(*e.AnnualPropertyTax)
	}
	if e.AnnualInsurance != nil {
		annual = annual.Add(*e.AnnualInsurance)
	}
	return annual.DivRound(decimal.NewFromInt(12), 28).Add(e.MonthlyHOA)
}

// Scenario is a complete deal: first lien plus optional second lien and
// optional buydown.
type Scenario struct {
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	// DownPayment nil means the program's default share of price, less any
	// second lien.
	DownPayment *decimal.Decimal `json:"downPayment,omitempty"`
	// FirstLienAmount overrides price - down - second when set.
	FirstLienAmount *decimal.Decimal `json:"firstLienAmount,omitempty"`
	Program         ProgramID        `json:"program"`
	AnnualRate      decimal.Decimal  `json:"annualRate"`
	TermMonths      int              `json:"termMonths"`
	Units           int              `json:"units"`
	FICO            int              `json:"fico"`
	VASubsequentUse bool             `json:"vaSubsequentUse"`
	VAExempt        bool             `json:"vaExempt"`
	SecondLien      *SecondLienTerms `json:"secondLien,omitempty"`
	Buydown         *BuydownPlan     `json:"buydown,omitempty"`
	Escrow          *Escrow          `json:"escrow,omitempty"`
}

// YearlyPayment is the monthly payment picture for one loan year.
type YearlyPayment struct {
	Year              int             `json:"year"`
	FirstLienRate     decimal.Decimal `json:"firstLienRate"`
	FirstLienPayment  decimal.Decimal `json:"firstLienPayment"`
	MortgageInsurance decimal.Decimal `json:"mortgageInsurance"`
	SecondLienPayment decimal.Decimal `json:"secondLienPayment"`
	// CombinedPayment is first-lien P&I plus second-lien payment.
	CombinedPayment decimal.Decimal `json:"combinedPayment"`
	Escrow          decimal.Decimal `json:"escrow"`
	TotalPayment    decimal.Decimal `json:"totalPayment"`
}

type ScenarioResult struct {
	ID                string               `json:"id"`
	PurchasePrice     decimal.Decimal      `json:"purchasePrice"`
	DownPayment       decimal.Decimal      `json:"downPayment"`
	FirstLien         LoanTerms            `json:"firstLien"`
	FirstLienBase     decimal.Decimal      `json:"firstLienBase"`
	FirstLienSchedule AmortizationSchedule `json:"firstLienSchedule"`
	Validation        ProgramValidation    `json:"validation"`
	Buydown           []BuydownYear        `json:"buydown,omitempty"`
	BuydownSubsidy    decimal.Decimal      `json:"buydownSubsidy"`
	SecondLien        *SecondLienResult    `json:"secondLien,omitempty"`
	Escrow            *Escrow              `json:"escrow,omitempty"`
	YearlyPayments    []YearlyPayment      `json:"yearlyPayments"`
	LTV               decimal.Decimal      `json:"ltv"`
	CLTV              decimal.Decimal      `json:"cltv"`
	Warnings          []Warning            `json:"warnings,omitempty"`
}
