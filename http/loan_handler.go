package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
	"mortgage-engine/service"
)

// LoanHandler exposes the stateless calculators: schedules, buydowns and
// second liens.
type LoanHandler struct{}

func NewLoanHandler() *LoanHandler {
	return &LoanHandler{}
}

func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {

	var req scheduleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	loan, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	var sched domain.AmortizationSchedule
	if req.InterestOnly {
		sched, err = service.InterestOnlySchedule(loan.Principal, loan.AnnualRate, loan.TermMonths)
	} else {
		sched, err = service.ComputeSchedule(loan.Principal, loan.AnnualRate, loan.TermMonths)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sched)
}

type buydownResponse struct {
	Plan         domain.BuydownPlan   `json:"plan"`
	Years        []domain.BuydownYear `json:"years"`
	TotalSubsidy decimal.Decimal      `json:"totalSubsidy"`
}

func (h *LoanHandler) Buydown(w http.ResponseWriter, r *http.Request) {

	var req buydownRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	loan, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := buydownPlan(req.Plan, req.Reductions)
	if err != nil {
		writeError(w, err)
		return
	}

	years, err := service.ApplyBuydown(loan.AnnualRate, plan, loan.Principal, loan.TermMonths)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buydownResponse{
		Plan:         plan,
		Years:        years,
		TotalSubsidy: service.TotalSubsidy(years),
	})
}

func (h *LoanHandler) CompareBuydowns(w http.ResponseWriter, r *http.Request) {

	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	loan, err := req.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	cmp, err := service.CompareBuydowns(loan.Principal, loan.AnnualRate, loan.TermMonths)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

func (h *LoanHandler) SecondLien(w http.ResponseWriter, r *http.Request) {

	var req secondLienRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	price, err := fieldAmount("purchasePrice", req.PurchasePrice)
	if err != nil {
		writeError(w, err)
		return
	}
	first, err := req.FirstLien.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}
	terms, err := req.SecondLien.toDomain()
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := service.ComputeSecondLien(price, terms, first)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *LoanHandler) ConvertSecondLien(w http.ResponseWriter, r *http.Request) {

	var req convertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	balance, err := fieldAmount("balance", req.Balance)
	if err != nil {
		writeError(w, err)
		return
	}
	rate, err := fieldRate("annualRate", req.AnnualRate)
	if err != nil {
		writeError(w, err)
		return
	}

	sched, err := service.ConvertToAmortizing(balance, rate, req.ElapsedMonths, req.TotalTermMonths)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sched)
}
