package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

// Decimal fields are typed any so clients can send 480000, "480000",
// "$480,000" or, where a share of price is allowed, "3.5%".

type loanRequest struct {
	Principal  any `json:"principal" validate:"required"`
	AnnualRate any `json:"annualRate" validate:"required"`
	TermMonths int `json:"termMonths" validate:"omitempty,min=1,max=480"`
}

type scheduleRequest struct {
	loanRequest
	InterestOnly bool `json:"interestOnly"`
}

type buydownRequest struct {
	loanRequest
	Plan       string `json:"plan" validate:"required_without=Reductions"`
	Reductions []any  `json:"reductions" validate:"omitempty,max=10,dive,required"`
}

type programRequest struct {
	PurchasePrice   any    `json:"purchasePrice" validate:"required"`
	DownPayment     any    `json:"downPayment"`
	Program         string `json:"program" validate:"required"`
	Units           int    `json:"units" validate:"omitempty,min=1,max=4"`
	TermMonths      int    `json:"termMonths" validate:"omitempty,min=1,max=480"`
	AnnualRate      any    `json:"annualRate" validate:"required"`
	FICO            int    `json:"fico" validate:"omitempty,min=300,max=850"`
	VASubsequentUse bool   `json:"vaSubsequentUse"`
	VAExempt        bool   `json:"vaExempt"`
}

type secondLienTermsRequest struct {
	Amount             any    `json:"amount" validate:"required"`
	Type               string `json:"type" validate:"omitempty,max=32"`
	AnnualRate         any    `json:"annualRate"`
	TermMonths         int    `json:"termMonths" validate:"omitempty,min=1,max=480"`
	InterestOnlyMonths int    `json:"interestOnlyMonths" validate:"omitempty,min=1,max=480"`
}

type secondLienRequest struct {
	PurchasePrice any                    `json:"purchasePrice" validate:"required"`
	FirstLien     loanRequest            `json:"firstLien"`
	SecondLien    secondLienTermsRequest `json:"secondLien"`
}

type convertRequest struct {
	Balance         any `json:"balance" validate:"required"`
	AnnualRate      any `json:"annualRate" validate:"required"`
	ElapsedMonths   int `json:"elapsedMonths" validate:"min=0"`
	TotalTermMonths int `json:"totalTermMonths" validate:"required,min=1,max=480"`
}

type escrowRequest struct {
	AnnualPropertyTax any `json:"annualPropertyTax"`
	AnnualInsurance   any `json:"annualInsurance"`
	MonthlyHOA        any `json:"monthlyHoa"`
}

type scenarioRequest struct {
	PurchasePrice     any                     `json:"purchasePrice" validate:"required"`
	DownPayment       any                     `json:"downPayment"`
	FirstLienAmount   any                     `json:"firstLienAmount"`
	Program           string                  `json:"program"`
	AnnualRate        any                     `json:"annualRate" validate:"required"`
	TermMonths        int                     `json:"termMonths" validate:"omitempty,min=1,max=480"`
	Units             int                     `json:"units" validate:"omitempty,min=1,max=4"`
	FICO              int                     `json:"fico" validate:"omitempty,min=300,max=850"`
	VASubsequentUse   bool                    `json:"vaSubsequentUse"`
	VAExempt          bool                    `json:"vaExempt"`
	SecondLien        *secondLienTermsRequest `json:"secondLien" validate:"omitempty"`
	Buydown           string                  `json:"buydown"`
	BuydownReductions []any                   `json:"buydownReductions" validate:"omitempty,max=10,dive,required"`
	Escrow            *escrowRequest          `json:"escrow" validate:"omitempty"`
}

type termRecommendationRequest struct {
	Principal         any    `json:"principal" validate:"required"`
	AnnualRate        any    `json:"annualRate" validate:"required"`
	MinTermMonths     int    `json:"minTermMonths" validate:"required,min=1,max=480"`
	MaxTermMonths     int    `json:"maxTermMonths" validate:"required,min=1,max=480,gtefield=MinTermMonths"`
	StepMonths        int    `json:"stepMonths" validate:"omitempty,min=1"`
	MaxMonthlyPayment any    `json:"maxMonthlyPayment"`
	Preference        string `json:"preference" validate:"omitempty,oneof=minimize_interest minimize_payment balanced"`
}

type lienRequest struct {
	Name           string `json:"name" validate:"required,max=64"`
	Balance        any    `json:"balance" validate:"required"`
	AnnualRate     any    `json:"annualRate" validate:"required"`
	MonthlyPayment any    `json:"monthlyPayment" validate:"required"`
}

type payoffRequest struct {
	Liens        []lienRequest `json:"liens" validate:"required,min=1,max=4,dive"`
	ExtraMonthly any           `json:"extraMonthly"`
	Strategy     string        `json:"strategy" validate:"omitempty,oneof=snowball avalanche compare"`
}

func fieldAmount(name string, v any) (decimal.Decimal, error) {
	d, err := service.NormalizeAmount(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// optionalAmount treats a missing field as zero.
func optionalAmount(name string, v any) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	return fieldAmount(name, v)
}

// amountRef keeps a missing field nil so the engine can apply its default.
func amountRef(name string, v any) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := fieldAmount(name, v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func fieldRate(name string, v any) (decimal.Decimal, error) {
	d, err := service.NormalizeRate(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func termOrDefault(months int) int {
	if months == 0 {
		return service.DefaultTermMonths
	}
	return months
}

func (req loanRequest) toDomain() (domain.LoanTerms, error) {
	principal, err := fieldAmount("principal", req.Principal)
	if err != nil {
		return domain.LoanTerms{}, err
	}
	rate, err := fieldRate("annualRate", req.AnnualRate)
	if err != nil {
		return domain.LoanTerms{}, err
	}
	return domain.LoanTerms{
		Principal:  principal,
		AnnualRate: rate,
		TermMonths: termOrDefault(req.TermMonths),
	}, nil
}

// buydownPlan resolves a named plan, or builds a custom one from explicit
// reductions when no name is given.
func buydownPlan(name string, reductions []any) (domain.BuydownPlan, error) {
	if name != "" || len(reductions) == 0 {
		return service.ParseBuydownPlan(name)
	}
	plan := domain.BuydownPlan{Name: "custom", Reductions: make([]decimal.Decimal, 0, len(reductions))}
	for i, r := range reductions {
		d, err := fieldRate(fmt.Sprintf("reductions[%d]", i), r)
		if err != nil {
			return domain.BuydownPlan{}, err
		}
		plan.Reductions = append(plan.Reductions, d)
	}
	return plan, nil
}

func (req programRequest) toDomain() (domain.ProgramInput, error) {
	price, err := fieldAmount("purchasePrice", req.PurchasePrice)
	if err != nil {
		return domain.ProgramInput{}, err
	}
	down, err := optionalAmount("downPayment", req.DownPayment)
	if err != nil {
		return domain.ProgramInput{}, err
	}
	rate, err := fieldRate("annualRate", req.AnnualRate)
	if err != nil {
		return domain.ProgramInput{}, err
	}
	return domain.ProgramInput{
		PurchasePrice:   price,
		DownPayment:     down,
		Program:         domain.ProgramID(req.Program),
		Units:           req.Units,
		TermMonths:      req.TermMonths,
		AnnualRate:      rate,
		FICO:            req.FICO,
		VASubsequentUse: req.VASubsequentUse,
		VAExempt:        req.VAExempt,
	}, nil
}

func (req secondLienTermsRequest) toDomain() (domain.SecondLienTerms, error) {
	amount, err := service.NormalizeAmountOrPercent(req.Amount)
	if err != nil {
		return domain.SecondLienTerms{}, fmt.Errorf("secondLien.amount: %w", err)
	}
	lienType, err := service.NormalizeLienType(req.Type)
	if err != nil {
		return domain.SecondLienTerms{}, fmt.Errorf("secondLien.type: %w", err)
	}
	terms := domain.SecondLienTerms{
		Amount:             amount,
		Type:               lienType,
		TermMonths:         req.TermMonths,
		InterestOnlyMonths: req.InterestOnlyMonths,
	}
	if req.AnnualRate != nil {
		rate, err := fieldRate("secondLien.annualRate", req.AnnualRate)
		if err != nil {
			return domain.SecondLienTerms{}, err
		}
		terms.AnnualRate = &rate
	}
	return terms, nil
}

// toDomain leaves a missing tax or insurance figure nil so the engine
// estimates it.
func (req escrowRequest) toDomain() (domain.Escrow, error) {
	tax, err := amountRef("escrow.annualPropertyTax", req.AnnualPropertyTax)
	if err != nil {
		return domain.Escrow{}, err
	}
	insurance, err := amountRef("escrow.annualInsurance", req.AnnualInsurance)
	if err != nil {
		return domain.Escrow{}, err
	}
	hoa, err := optionalAmount("escrow.monthlyHoa", req.MonthlyHOA)
	if err != nil {
		return domain.Escrow{}, err
	}
	return domain.Escrow{AnnualPropertyTax: tax, AnnualInsurance: insurance, MonthlyHOA: hoa}, nil
}

func (req scenarioRequest) toDomain() (domain.Scenario, error) {
	price, err := fieldAmount("purchasePrice", req.PurchasePrice)
	if err != nil {
		return domain.Scenario{}, err
	}
	down, err := amountRef("downPayment", req.DownPayment)
	if err != nil {
		return domain.Scenario{}, err
	}
	rate, err := fieldRate("annualRate", req.AnnualRate)
	if err != nil {
		return domain.Scenario{}, err
	}

	sc := domain.Scenario{
		PurchasePrice:   price,
		DownPayment:     down,
		Program:         domain.ProgramID(req.Program),
		AnnualRate:      rate,
		TermMonths:      req.TermMonths,
		Units:           req.Units,
		FICO:            req.FICO,
		VASubsequentUse: req.VASubsequentUse,
		VAExempt:        req.VAExempt,
	}

	if req.FirstLienAmount != nil {
		first, err := fieldAmount("firstLienAmount", req.FirstLienAmount)
		if err != nil {
			return domain.Scenario{}, err
		}
		sc.FirstLienAmount = &first
	}
	if req.SecondLien != nil {
		terms, err := req.SecondLien.toDomain()
		if err != nil {
			return domain.Scenario{}, err
		}
		sc.SecondLien = &terms
	}
	plan, err := buydownPlan(req.Buydown, req.BuydownReductions)
	if err != nil {
		return domain.Scenario{}, err
	}
	if !plan.IsNone() {
		sc.Buydown = &plan
	}
	if req.Escrow != nil {
		escrow, err := req.Escrow.toDomain()
		if err != nil {
			return domain.Scenario{}, err
		}
		sc.Escrow = &escrow
	}
	return sc, nil
}

func (req termRecommendationRequest) toDomain() (domain.TermRecommendationInput, error) {
	principal, err := fieldAmount("principal", req.Principal)
	if err != nil {
		return domain.TermRecommendationInput{}, err
	}
	rate, err := fieldRate("annualRate", req.AnnualRate)
	if err != nil {
		return domain.TermRecommendationInput{}, err
	}
	maxPayment, err := optionalAmount("maxMonthlyPayment", req.MaxMonthlyPayment)
	if err != nil {
		return domain.TermRecommendationInput{}, err
	}
	pref := domain.TermPreference(req.Preference)
	if pref == "" {
		pref = domain.PreferBalanced
	}
	return domain.TermRecommendationInput{
		Principal:         principal,
		AnnualRate:        rate,
		MinTermMonths:     req.MinTermMonths,
		MaxTermMonths:     req.MaxTermMonths,
		StepMonths:        req.StepMonths,
		MaxMonthlyPayment: maxPayment,
		Preference:        pref,
	}, nil
}

func (req payoffRequest) toDomain() (domain.PayoffInput, error) {
	extra, err := optionalAmount("extraMonthly", req.ExtraMonthly)
	if err != nil {
		return domain.PayoffInput{}, err
	}
	strategy := domain.PayoffStrategy(req.Strategy)
	if strategy == "" {
		strategy = domain.PayoffCompare
	}

	in := domain.PayoffInput{
		Liens:        make([]domain.Lien, 0, len(req.Liens)),
		ExtraMonthly: extra,
		Strategy:     strategy,
	}
	for _, l := range req.Liens {
		balance, err := fieldAmount(l.Name+".balance", l.Balance)
		if err != nil {
			return domain.PayoffInput{}, err
		}
		rate, err := fieldRate(l.Name+".annualRate", l.AnnualRate)
		if err != nil {
			return domain.PayoffInput{}, err
		}
		payment, err := fieldAmount(l.Name+".monthlyPayment", l.MonthlyPayment)
		if err != nil {
			return domain.PayoffInput{}, err
		}
		in.Liens = append(in.Liens, domain.Lien{
			Name:           l.Name,
			Balance:        balance,
			AnnualRate:     rate,
			MonthlyPayment: payment,
		})
	}
	return in, nil
}
