package server

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/vorsorge/depotvergleich/internal/calculation"
	"github.com/vorsorge/depotvergleich/internal/domain"
	"github.com/vorsorge/depotvergleich/internal/reference"
	"github.com/vorsorge/depotvergleich/internal/store"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	catalog, err := reference.Embedded()
	require.NoError(t, err)
	engine := calculation.NewProjectionEngine(calculation.WithTariffSource(catalog))
	return New(engine, catalog, store.NewMemoryStore(), opts...)
}

func do(s *Server, method, uri, body string, headers ...string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		ctx.Request.Header.Set(headers[i], headers[i+1])
	}
	s.Handler()(&ctx)
	return &ctx
}

const simulateBody = `{
  "scenario": {
    "name": "API",
    "age": 40,
    "retirement_age_base": 67,
    "retirement_age_policy": 67,
    "monthly_contribution": 300,
    "gross_return_pa": 0.05,
    "equity_fund": true,
    "glidepath": [{"year": 0, "equity_share": 1}],
    "policy_tariff_id": "fp-netto-basis",
    "payout": {"target_net_withdrawal_monthly": 800, "end_age": 85, "payout_mode": "capital_withdrawal_plan"}
  }
}`

func TestHealthz(t *testing.T) {
	ctx := do(newTestServer(t), fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "ok", string(ctx.Response.Body()))
}

func TestSimulate(t *testing.T) {
	ctx := do(newTestServer(t), fasthttp.MethodPost, "/api/v1/simulate", simulateBody)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var resp SimulateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Len(t, resp.CalculationID, 36)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Summary.PolicyCostsPaid.IsPositive())
	assert.Equal(t, 0, resp.Result.Timeline[0].Month)
}

func TestSimulate_BadRequests(t *testing.T) {
	s := newTestServer(t)

	ctx := do(s, fasthttp.MethodPost, "/api/v1/simulate", `{not json`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	unknownTariff := strings.Replace(simulateBody, "fp-netto-basis", "nope", 1)
	ctx = do(s, fasthttp.MethodPost, "/api/v1/simulate", unknownTariff)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(s, fasthttp.MethodGet, "/api/v1/simulate", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = do(s, fasthttp.MethodGet, "/api/v1/unknown", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestTariffs(t *testing.T) {
	ctx := do(newTestServer(t), fasthttp.MethodGet, "/api/v1/tariffs", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var tariffs []domain.TariffRecord
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &tariffs))
	require.NotEmpty(t, tariffs)
	assert.Equal(t, "fp-netto-basis", tariffs[0].ID)
}

func TestCustomerFlow(t *testing.T) {
	s := newTestServer(t)
	s.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	ctx := do(s, fasthttp.MethodPost, "/api/v1/customers", `{"name":"Erika Musterfrau","age":45,"church_tax_enabled":true}`)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var created domain.Customer
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &created))
	require.NotZero(t, created.ID)

	ctx = do(s, fasthttp.MethodPost, "/api/v1/customers", `{"name":"","age":45}`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(s, fasthttp.MethodGet, "/api/v1/customers", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var list []domain.Customer
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &list))
	assert.Len(t, list, 1)

	base := "/api/v1/customers/" + strconv.FormatInt(created.ID, 10)

	ctx = do(s, fasthttp.MethodGet, base+"/scenario", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var scen ScenarioResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &scen))
	assert.Equal(t, "Erika Musterfrau", scen.Input.Name)
	assert.Equal(t, 45, scen.Input.Age)
	assert.True(t, scen.Input.ChurchTaxEnabled)
	assert.Equal(t, "fp-netto-basis", scen.Input.TariffID())

	scen.Input.MonthlyContribution = decimal.NewFromInt(650)
	update, err := json.Marshal(scen.Input)
	require.NoError(t, err)
	ctx = do(s, fasthttp.MethodPut, base+"/scenario", string(update))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var updated ScenarioResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &updated))
	assert.True(t, updated.Record.MonthlyContribution.Equal(decimal.NewFromInt(650)))
	assert.Equal(t, scen.Record.ID, updated.Record.ID)

	ctx = do(s, fasthttp.MethodGet, base+"/simulation", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var sim SimulateResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &sim))
	assert.True(t, sim.Result.Summary.DepotValueAtRetirement.IsPositive())

	ctx = do(s, fasthttp.MethodGet, base+"/simulation?format=csv", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.True(t, strings.HasPrefix(string(ctx.Response.Body()), "Customer,Scenario,Tariff"))

	ctx = do(s, fasthttp.MethodGet, base+"/simulation?format=pdf", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/pdf", string(ctx.Response.Header.ContentType()))

	ctx = do(s, fasthttp.MethodGet, base+"/simulation?format=yaml", "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	ctx = do(s, fasthttp.MethodGet, "/api/v1/customers/999", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = do(s, fasthttp.MethodGet, "/api/v1/customers/abc", "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestAuth(t *testing.T) {
	secret := "test-secret"
	s := newTestServer(t, WithJWTSecret(secret))

	ctx := do(s, fasthttp.MethodGet, "/api/v1/tariffs", "")
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	token, err := SignJWT("berater-1", time.Hour, []byte(secret))
	require.NoError(t, err)
	ctx = do(s, fasthttp.MethodGet, "/api/v1/tariffs", "", "Authorization", "Bearer "+token)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	wrong, err := SignJWT("berater-1", time.Hour, []byte("other"))
	require.NoError(t, err)
	ctx = do(s, fasthttp.MethodGet, "/api/v1/tariffs", "", "Authorization", "Bearer "+wrong)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	// health stays open
	ctx = do(s, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestParseJWT(t *testing.T) {
	secret := []byte("s3cret")

	token, err := SignJWT("alice", time.Hour, secret)
	require.NoError(t, err)
	claims, err := ParseJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	expired, err := SignJWT("alice", -time.Hour, secret)
	require.NoError(t, err)
	_, err = ParseJWT(expired, secret)
	assert.Error(t, err)

	_, err = ParseJWT("", secret)
	assert.Error(t, err)
	_, err = ParseJWT(token, nil)
	assert.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}

func TestSimulate_RejectsOutOfRangeInput(t *testing.T) {
	s := newTestServer(t)

	farHorizon := strings.Replace(simulateBody, `"end_age": 85`, `"end_age": 1125899906842624`, 1)
	ctx := do(s, fasthttp.MethodPost, "/api/v1/simulate", farHorizon)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "end_age")

	badTax := strings.Replace(simulateBody, `"scenario": {`, `"tax_params": {"withholding_tax_rate": 3}, "scenario": {`, 1)
	ctx = do(s, fasthttp.MethodPost, "/api/v1/simulate", badTax)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "withholding_tax_rate")

	validTax := strings.Replace(simulateBody, `"scenario": {`, `"tax_params": {"withholding_tax_rate": 0.2}, "scenario": {`, 1)
	ctx = do(s, fasthttp.MethodPost, "/api/v1/simulate", validTax)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
}

func TestUpdateScenario_ValidatesAges(t *testing.T) {
	s := newTestServer(t)

	ctx := do(s, fasthttp.MethodPost, "/api/v1/customers", `{"name":"Max","age":40}`)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())
	var c domain.Customer
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &c))
	base := "/api/v1/customers/" + strconv.FormatInt(c.ID, 10)

	ctx = do(s, fasthttp.MethodGet, base+"/scenario", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var scen ScenarioResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &scen))

	for _, endAge := range []int{1 << 50, 121, 60} {
		in := scen.Input
		in.Payout.EndAge = endAge
		body, err := json.Marshal(in)
		require.NoError(t, err)
		ctx = do(s, fasthttp.MethodPut, base+"/scenario", string(body))
		assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode(), "end_age %d", endAge)
	}

	// Rejected updates leave the stored record untouched
	rec, err := s.store.GetScenarioByCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, 88, rec.PayoutEndAge)
}

func TestCustomerSimulation_RejectsStoredHorizon(t *testing.T) {
	s := newTestServer(t)
	bg := context.Background()

	c := &domain.Customer{Name: "Max", Age: 40}
	require.NoError(t, s.store.CreateCustomer(bg, c))
	rec, err := store.GetOrCreateScenario(bg, s.store, c.ID, "")
	require.NoError(t, err)
	rec.PayoutEndAge = 1 << 50
	require.NoError(t, s.store.UpdateScenario(bg, rec))

	ctx := do(s, fasthttp.MethodGet, "/api/v1/customers/"+strconv.FormatInt(c.ID, 10)+"/simulation", "")
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())
}

type brokenStore struct {
	store.Store
}

func TestHandler_RecoversPanic(t *testing.T) {
	catalog, err := reference.Embedded()
	require.NoError(t, err)
	s := New(calculation.NewProjectionEngine(), catalog, brokenStore{})

	var ctx *fasthttp.RequestCtx
	require.NotPanics(t, func() { ctx = do(s, fasthttp.MethodGet, "/api/v1/customers", "") })
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "internal error")

	// The server keeps answering afterwards
	ctx = do(s, fasthttp.MethodGet, "/healthz", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}
