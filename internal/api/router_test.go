package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-financing/internal/api/models"
	"property-financing/internal/cache"
	"property-financing/internal/config"
	"property-financing/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *store.StateStore
	cache  *cache.ResultCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewStateStore(store.NewMemory(), nil)
	c := cache.NewResultCache(time.Minute)
	return &testServer{
		router: NewRouter(Options{Store: st, Cache: c}),
		store:  st,
		cache:  c,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestEvaluate(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{
		Scenario: config.DefaultScenarioB(),
		Options:  models.EvaluateOptions{IncludeYears: true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.ScenarioResponse](t, w)
	assert.Equal(t, "Abu Dhabi Cash (Lower Fees)", resp.Label)
	assert.Equal(t, "cash", resp.Mode)
	assert.Equal(t, 7, resp.HoldYears)
	assert.Len(t, resp.Cashflows, 8)
	assert.Len(t, resp.Years, 7)
	require.NotNil(t, resp.IRR)
	require.NotNil(t, resp.NetYield)
	assert.Greater(t, *resp.IRR, 0.0)
	assert.Zero(t, resp.DebtServiceYear1Ref)
	assert.Equal(t, "IRR (7 Yr)", resp.Display.IRRLabel)
	assert.Contains(t, resp.Display.PurchasePrice, "750,000 AED")
	assert.Empty(t, resp.LoanSchedule)
	assert.Equal(t, 1, s.cache.Len())

	// include_years is not part of the cache key; the label is.
	w = s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{Scenario: config.DefaultScenarioB()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, s.cache.Len())
	w = s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{Scenario: config.DefaultScenarioB(), Label: "B"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.cache.Len())
}

func TestEvaluateLabel(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{
		Scenario: config.DefaultScenarioA(),
		Label:    "Renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.ScenarioResponse](t, w)
	assert.Equal(t, "Renamed", resp.Label)
	assert.Equal(t, "local_mortgage", resp.Mode)
	assert.Greater(t, resp.DebtServiceYear1Ref, 0.0)
}

func TestEvaluateLoanSchedule(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{
		Scenario: config.DefaultScenarioA(),
		Options:  models.EvaluateOptions{IncludeYears: true},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.ScenarioResponse](t, w)

	// 25-year mortgage on 75% of 800,000 AED at 4 AED/EUR.
	require.Len(t, resp.LoanSchedule, 25)
	first := resp.LoanSchedule[0]
	assert.Equal(t, 1, first.Year)
	assert.Greater(t, first.Interest, 0.0)
	assert.InDelta(t, resp.DebtServiceYear1Ref, first.Payment, 1e-6)
	assert.InDelta(t, 150000-first.Principal, first.ClosingBalance, 1e-6)
	assert.InDelta(t, resp.Exit.PayoffRef, resp.LoanSchedule[resp.HoldYears-1].ClosingBalance, 1e-6)
	assert.InDelta(t, 0, resp.LoanSchedule[24].ClosingBalance, 1e-6)

	w = s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{Scenario: config.DefaultScenarioA()})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "loan_schedule")
}

func TestEvaluateUnsolvableMetricsAreNull(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/evaluate", `{"scenario": {"hold_years": 3, "financing": {"mode": "cash"}}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Nil(t, raw["irr"])
	assert.Nil(t, raw["net_yield"])
	assert.Nil(t, raw["cash_on_cash"])

	resp := decode[models.ScenarioResponse](t, w)
	assert.Equal(t, "n/a", resp.Display.IRR)
	assert.Equal(t, "n/a", resp.Display.NetYield)
}

func TestEvaluateRejectsInvalid(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/evaluate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[models.ErrorResponse](t, w).Error.Code)

	bad := config.DefaultScenarioA()
	bad.HoldYears = 0
	bad.VacancyPct = 150
	w = s.do(t, http.MethodPost, "/api/v1/evaluate", models.EvaluateRequest{Scenario: bad})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INVALID_SCENARIO", e.Error.Code)
	assert.Len(t, e.Error.Details["errors"], 2)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/compare", models.CompareRequest{
		Scenarios: config.DefaultState().Scenarios,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.CompareResponse](t, w)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "A", resp.Results["A"].Key)
	assert.Equal(t, []string{"A", "B"}, resp.Table.Keys)
	assert.Len(t, resp.Table.Rows, 9)
	assert.Len(t, resp.Series.Series, 2)
	assert.Len(t, resp.Series.Years, 7)

	// The cash purchase has no debt service, the mortgage one is cheaper up front.
	assert.Equal(t, []string{"B"}, resp.Best["monthly_cashflow"])
	assert.Equal(t, []string{"A"}, resp.Best["cash_invested"])
}

func TestCompareRequiresScenarios(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/compare", `{"scenarios": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDefaultsAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/defaults", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[config.State](t, w)
	assert.Equal(t, config.DefaultState(), st)

	w = s.do(t, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Metrics []models.MetricInfo `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Metrics, 6)
}

func TestStateLifecycle(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	w := s.do(t, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.DefaultState(), decode[config.State](t, w))

	w = s.do(t, http.MethodPost, "/api/v1/state/copy", models.CopyRequest{From: "A", To: "B"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, config.CopyOfAName, decode[config.State](t, w).Scenarios["B"].Name)
	assert.Equal(t, config.CopyOfAName, s.store.Load(ctx).Scenarios["B"].Name)

	w = s.do(t, http.MethodPost, "/api/v1/state/copy", models.CopyRequest{From: "Z", To: "B"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/state/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.DefaultState(), s.store.Load(ctx))
}

func TestPutStateAcceptsLegacy(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPut, "/api/v1/state", `{"A": {"name": "Legacy", "financingMode": "Cash"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	st := s.store.Load(context.Background())
	assert.Equal(t, "Legacy", st.Scenarios["A"].Name)
	assert.Equal(t, "cash", st.Scenarios["A"].Financing.Mode)
	assert.Contains(t, st.Scenarios, "B")
}

func TestPutStateRejectsGarbage(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPut, "/api/v1/state", `[1, 2, 3]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATE", decode[models.ErrorResponse](t, w).Error.Code)
	assert.Equal(t, config.DefaultState(), s.store.Load(context.Background()))
}

func TestChangeEmirate(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/state/scenarios/A/emirate", `{"emirate": "Abu Dhabi"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sc := decode[config.Scenario](t, w)
	assert.Equal(t, config.EmirateAbuDhabi, sc.Emirate)
	assert.Equal(t, config.DefaultRegistrationFeePct(config.EmirateAbuDhabi), sc.Upfront.RegistrationFeePct)
	assert.Equal(t, sc, s.store.Load(context.Background()).Scenarios["A"])

	w = s.do(t, http.MethodPost, "/api/v1/state/scenarios/Z/emirate", `{"emirate": "Dubai"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareState(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/state/compare", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.CompareResponse](t, w)
	assert.Equal(t, "Dubai Investment (Mortgage)", resp.Results["A"].Label)
	assert.Equal(t, 2, s.cache.Len())
}

func TestExportState(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/state/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="property-financing-scenarios-`)

	var p store.ExportPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, config.CurrentSchemaVersion, p.SchemaVersion)

	// An export can be uploaded back as the state.
	w = s.do(t, http.MethodPut, "/api/v1/state", w.Body.String())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCashflowsCSV(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/scenarios/B/cashflows.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 9) // header + year 0 + 7 years
	assert.True(t, strings.HasPrefix(lines[0], "year,"))
	assert.True(t, strings.HasPrefix(lines[1], "0,"))

	w = s.do(t, http.MethodGet, "/api/v1/scenarios/Z/cashflows.csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/convert", models.ConvertRequest{
		Amount:  200000,
		From:    "EUR",
		Targets: []string{"aed", "USD"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.ConvertResponse](t, w)
	assert.InDelta(t, 800000.0, resp.Amounts["AED"], 1e-6)
	assert.InDelta(t, 800000/3.6725, resp.Amounts["USD"], 1e-6)
	assert.True(t, strings.HasPrefix(resp.Hint, "≈ 800,000 AED · "))

	w = s.do(t, http.MethodPost, "/api/v1/convert", models.ConvertRequest{Amount: 1, From: "EUR", Targets: []string{"GBP"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_CURRENCY", decode[models.ErrorResponse](t, w).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/evaluate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/boom", func(*gin.Context) { panic("boom") })

	w := s.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "INTERNAL_ERROR", e.Error.Code)
	assert.Equal(t, "boom", e.Error.Message)
}
