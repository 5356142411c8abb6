package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"mortgage-engine/domain"
	"mortgage-engine/repository"
	"mortgage-engine/service"
)

func newTestRouter(limiter *RateLimiter) http.Handler {
	return NewRouter(Services{
		Scenarios: service.NewScenarioService(repository.DefaultProgramCatalog(), repository.NewMemoryCache(), time.Minute),
		Terms:     service.NewTermRecommendationService(),
		Payoff:    service.NewLienPayoffService(),
		Limiter:   limiter,
	})
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var resp errorResponse
	decodeBody(t, w, &resp)
	if resp.Error != code || resp.StatusCode != status {
		t.Errorf("expected error %s/%d, got %+v", code, status, resp)
	}
}

func TestScheduleHandler_OK(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/schedule", `{
		"principal": "$480,000",
		"annualRate": "7%",
		"termMonths": 360
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sched domain.AmortizationSchedule
	decodeBody(t, w, &sched)
	if !sched.Payment.Equal(decimal.RequireFromString("3193.45")) {
		t.Errorf("expected payment 3193.45, got %s", sched.Payment)
	}
	if len(sched.Periods) != 360 || !sched.FinalBalance().IsZero() {
		t.Errorf("expected 360 periods ending at zero, got %d ending at %s", len(sched.Periods), sched.FinalBalance())
	}
}

func TestScheduleHandler_InterestOnly(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/schedule", `{"principal": 90000, "annualRate": 8, "termMonths": 120, "interestOnly": true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sched domain.AmortizationSchedule
	decodeBody(t, w, &sched)
	if !sched.InterestOnly || !sched.Payment.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected an interest-only payment of 600, got %+v", sched.Payment)
	}
}

func TestScheduleHandler_BadRequests(t *testing.T) {

	router := newTestRouter(nil)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"invalid json", `{invalid-json}`, http.StatusBadRequest, "invalid_request"},
		{"missing rate", `{"principal": 100000, "termMonths": 360}`, http.StatusBadRequest, "invalid_request"},
		{"term too long", `{"principal": 100000, "annualRate": 6, "termMonths": 600}`, http.StatusBadRequest, "invalid_request"},
		{"unknown field", `{"principal": 100000, "annualRate": 6, "monto": 1}`, http.StatusBadRequest, "invalid_request"},
		{"shorthand amount", `{"principal": "20k", "annualRate": 6}`, http.StatusBadRequest, "invalid_amount"},
		{"negative principal", `{"principal": -5, "annualRate": 6}`, http.StatusBadRequest, "negative_amount"},
		{"rate above range", `{"principal": 100000, "annualRate": 101}`, http.StatusBadRequest, "invalid_rate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertError(t, postJSON(t, router, "/v1/schedule", tc.body), tc.status, tc.code)
		})
	}
}

func TestScheduleHandler_ContentType(t *testing.T) {

	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/schedule", bytes.NewBufferString(`{"principal": 1, "annualRate": 1}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assertError(t, w, http.StatusBadRequest, "invalid_request")
}

func TestScheduleHandler_MethodNotAllowed(t *testing.T) {

	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestBuydownHandler(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/buydown", `{"principal": 380000, "annualRate": 6.85, "termMonths": 360, "plan": "3-2-1 buydown"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp buydownResponse
	decodeBody(t, w, &resp)
	if len(resp.Years) != 4 {
		t.Fatalf("expected 3 ramp years plus the floor, got %d", len(resp.Years))
	}
	if !resp.TotalSubsidy.Equal(decimal.RequireFromString("17297.88")) {
		t.Errorf("expected subsidy 17297.88, got %s", resp.TotalSubsidy)
	}

	w = postJSON(t, router, "/v1/buydown", `{"principal": 380000, "annualRate": 6.85, "reductions": [1, 2]}`)
	assertError(t, w, http.StatusBadRequest, "invalid_buydown_plan")

	w = postJSON(t, router, "/v1/buydown", `{"principal": 380000, "annualRate": 6.85}`)
	assertError(t, w, http.StatusBadRequest, "invalid_request")
}

func TestBuydownCompareHandler(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/buydown/compare", `{"principal": 480000, "annualRate": 7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var cmp domain.BuydownComparison
	decodeBody(t, w, &cmp)
	if len(cmp.Options) != 3 {
		t.Errorf("expected three plans, got %d", len(cmp.Options))
	}
	if !cmp.StandardPayment.Equal(decimal.RequireFromString("3193.45")) {
		t.Errorf("expected standard payment 3193.45, got %s", cmp.StandardPayment)
	}
}

func TestProgramHandlers(t *testing.T) {

	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/programs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list map[string][]domain.LoanProgram
	decodeBody(t, w, &list)
	if len(list["programs"]) != 4 {
		t.Errorf("expected 4 programs, got %d", len(list["programs"]))
	}

	w = postJSON(t, router, "/v1/programs/validate", `{
		"purchasePrice": 435000,
		"downPayment": "3.5%",
		"program": "fha",
		"annualRate": 6.5
	}`)
	assertError(t, w, http.StatusBadRequest, "invalid_amount")

	w = postJSON(t, router, "/v1/programs/validate", `{
		"purchasePrice": 435000,
		"downPayment": 15225,
		"program": "fha",
		"annualRate": 6.5
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var v domain.ProgramValidation
	decodeBody(t, w, &v)
	if !v.Approved || !v.MortgageInsurance.UpfrontFee.Equal(decimal.RequireFromString("7346.06")) {
		t.Errorf("unexpected FHA validation: %+v", v)
	}

	w = postJSON(t, router, "/v1/programs/validate", `{
		"purchasePrice": 1000000,
		"downPayment": 100000,
		"program": "conventional",
		"annualRate": 7
	}`)
	assertError(t, w, http.StatusUnprocessableEntity, "loan_limit_exceeded")
}

func TestSecondLienHandlers(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/second-lien", `{
		"purchasePrice": 600000,
		"firstLien": {"principal": 480000, "annualRate": 7, "termMonths": 360},
		"secondLien": {"amount": "15%", "type": "interest_only", "annualRate": 8}
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.SecondLienResult
	decodeBody(t, w, &res)
	if !res.Amount.Equal(decimal.NewFromInt(90000)) || !res.Schedule.Payment.Equal(decimal.NewFromInt(600)) {
		t.Errorf("unexpected second lien %s paying %s", res.Amount, res.Schedule.Payment)
	}
	if !res.Combined.CLTV.Equal(decimal.RequireFromString("0.95")) {
		t.Errorf("expected CLTV 0.95, got %s", res.Combined.CLTV)
	}

	w = postJSON(t, router, "/v1/second-lien", `{
		"purchasePrice": 600000,
		"firstLien": {"principal": 480000, "annualRate": 7},
		"secondLien": {"amount": "15%", "type": "balloon"}
	}`)
	assertError(t, w, http.StatusBadRequest, "invalid_term")

	w = postJSON(t, router, "/v1/second-lien/convert", `{"balance": 90000, "annualRate": 8, "elapsedMonths": 120, "totalTermMonths": 360}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sched domain.AmortizationSchedule
	decodeBody(t, w, &sched)
	if sched.TermMonths != 240 || !sched.Payment.Equal(decimal.RequireFromString("752.80")) {
		t.Errorf("expected 240 payments of 752.80, got %d of %s", sched.TermMonths, sched.Payment)
	}
}

func TestScenarioHandler(t *testing.T) {

	router := newTestRouter(nil)
	body := `{
		"purchasePrice": "$600,000",
		"downPayment": 30000,
		"program": "conventional",
		"annualRate": 7,
		"termMonths": 360,
		"secondLien": {"amount": "15%", "type": "interest_only", "annualRate": "8%"},
		"escrow": {"annualPropertyTax": 7200, "annualInsurance": 1800}
	}`

	w := postJSON(t, router, "/v1/scenarios", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.ScenarioResult
	decodeBody(t, w, &res)
	if res.ID == "" {
		t.Errorf("expected a scenario ID")
	}
	if !res.SecondLien.Combined.CombinedPayment.Equal(decimal.RequireFromString("3793.45")) {
		t.Errorf("expected combined payment 3793.45, got %s", res.SecondLien.Combined.CombinedPayment)
	}
	if !res.YearlyPayments[0].TotalPayment.Equal(decimal.RequireFromString("4543.45")) {
		t.Errorf("expected year 1 total 4543.45, got %s", res.YearlyPayments[0].TotalPayment)
	}

	again := postJSON(t, router, "/v1/scenarios", body)
	var cached domain.ScenarioResult
	decodeBody(t, again, &cached)
	if cached.ID != res.ID {
		t.Errorf("expected the cached scenario %s, got %s", res.ID, cached.ID)
	}

	w = postJSON(t, router, "/v1/scenarios", `{"purchasePrice": 300000, "annualRate": 7, "buydown": "4/1"}`)
	assertError(t, w, http.StatusBadRequest, "invalid_buydown_plan")
}

func TestDebugProfilerOnlyInDebugMode(t *testing.T) {

	get := func(h http.Handler) int {
		req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	if code := get(newTestRouter(nil)); code != http.StatusNotFound {
		t.Errorf("expected 404 without debug, got %d", code)
	}

	debugRouter := NewRouter(Services{
		Scenarios: service.NewScenarioService(repository.DefaultProgramCatalog(), nil, 0),
		Terms:     service.NewTermRecommendationService(),
		Payoff:    service.NewLienPayoffService(),
		Debug:     true,
	})
	if code := get(debugRouter); code != http.StatusOK {
		t.Errorf("expected 200 in debug mode, got %d", code)
	}
}

func TestScenarioHandler_Defaults(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/scenarios", `{
		"purchasePrice": 400000,
		"program": "conv",
		"annualRate": 7,
		"secondLien": {"amount": "10%", "type": "io"},
		"escrow": {}
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.ScenarioResult
	decodeBody(t, w, &res)

	if res.FirstLien.Program != domain.ProgramConventional {
		t.Errorf("expected conventional, got %s", res.FirstLien.Program)
	}
	if !res.DownPayment.Equal(decimal.NewFromInt(40000)) {
		t.Errorf("expected 20%% down less the second lien (40000), got %s", res.DownPayment)
	}
	if !res.LTV.Equal(decimal.RequireFromString("0.8")) || !res.CLTV.Equal(decimal.RequireFromString("0.9")) {
		t.Errorf("expected 80/90 LTV/CLTV, got %s/%s", res.LTV, res.CLTV)
	}
	if res.SecondLien.Type != domain.LienInterestOnly || !res.SecondLien.Schedule.Payment.Equal(decimal.RequireFromString("266.67")) {
		t.Errorf("expected interest-only second paying 266.67, got %s paying %s", res.SecondLien.Type, res.SecondLien.Schedule.Payment)
	}
	if !res.YearlyPayments[0].Escrow.Equal(decimal.RequireFromString("283.33")) {
		t.Errorf("expected estimated escrow 283.33, got %s", res.YearlyPayments[0].Escrow)
	}
}

func TestTermRecommendationHandler(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/terms/recommend", `{
		"principal": 100000,
		"annualRate": 6,
		"minTermMonths": 120,
		"maxTermMonths": 360,
		"stepMonths": 120,
		"preference": "minimize_interest"
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.TermRecommendationResult
	decodeBody(t, w, &res)
	if res.RecommendedTerm != 120 {
		t.Errorf("expected 120 months, got %d", res.RecommendedTerm)
	}

	w = postJSON(t, router, "/v1/terms/recommend", `{"principal": 100000, "annualRate": 6, "minTermMonths": 360, "maxTermMonths": 120}`)
	assertError(t, w, http.StatusBadRequest, "invalid_request")

	w = postJSON(t, router, "/v1/terms/recommend", `{"principal": 100000, "annualRate": 6, "minTermMonths": 120, "maxTermMonths": 360, "maxMonthlyPayment": 100}`)
	assertError(t, w, http.StatusBadRequest, "no_feasible_option")
}

func TestPayoffHandler(t *testing.T) {

	router := newTestRouter(nil)

	w := postJSON(t, router, "/v1/payoff", `{
		"liens": [
			{"name": "card", "balance": 1000, "annualRate": 12, "monthlyPayment": 100},
			{"name": "heloc", "balance": 2000, "annualRate": 24, "monthlyPayment": 100}
		],
		"extraMonthly": 50
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res domain.PayoffResult
	decodeBody(t, w, &res)
	if res.Strategy != domain.PayoffAvalanche || res.Comparison == nil {
		t.Fatalf("expected a comparison won by avalanche, got %s", res.Strategy)
	}
	if !res.Comparison.InterestSaved.Equal(decimal.RequireFromString("21.79")) {
		t.Errorf("expected 21.79 saved, got %s", res.Comparison.InterestSaved)
	}

	w = postJSON(t, router, "/v1/payoff", `{"liens": [], "strategy": "snowball"}`)
	assertError(t, w, http.StatusBadRequest, "invalid_request")
}

func TestHealth(t *testing.T) {

	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["status"] != "ok" || resp["version"] == nil {
		t.Errorf("unexpected health response %+v", resp)
	}
}

func TestRouter_RateLimited(t *testing.T) {

	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(limiter)

	body := `{"principal": 100000, "annualRate": 6}`
	for i := 0; i < 2; i++ {
		if w := postJSON(t, router, "/v1/schedule", body); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	limited := postJSON(t, router, "/v1/schedule", body)
	if limited.Header().Get("Retry-After") == "" {
		t.Errorf("expected a Retry-After header")
	}
	assertError(t, limited, http.StatusTooManyRequests, "rate_limited")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected health to bypass the limiter, got %d", w.Code)
	}
}
