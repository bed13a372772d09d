package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-planner-service/internal/api/auth"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubPlanner struct {
	res     *domain.PlannerResult
	err     error
	panics  bool
	gotReq  domain.PlannerRequest
	offline bool
	calls   int
}

func (s *stubPlanner) BuildPlans(_ context.Context, req domain.PlannerRequest, skip bool) (*domain.PlannerResult, error) {
	if s.panics {
		panic("boom")
	}
	s.calls++
	s.gotReq = req
	s.offline = skip
	return s.res, s.err
}

func threePlans() *domain.PlannerResult {
	origin := domain.GeoLocation{Lat: 46.0569, Lng: 14.5058, Name: "Ljubljana", Provider: domain.ProviderCurated}
	res := &domain.PlannerResult{Origin: origin}
	for _, tier := range domain.Tiers {
		res.Plans = append(res.Plans, domain.TripPlan{Tier: tier, Destination: "Zagreb", Days: 2})
	}
	return res
}

const planBody = `{
	"origin": "Ljubljana",
	"destinations": ["Zagreb"],
	"trip_type": "multi_day",
	"departure_date": "2026-05-04",
	"return_date": "2026-05-05",
	"students": 14,
	"transport": "bus"
}`

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{}})

	rec := do(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{}})

	rec := do(t, h, http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestPlansReturnsThreePlans(t *testing.T) {
	planner := &stubPlanner{res: threePlans()}
	h := NewRouter(RouterConfig{Planner: planner})

	rec := do(t, h, http.MethodPost, "/api/v1/plans?offline=true", planBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Plans, 3)
	assert.Equal(t, domain.TierBudget, res.Plans[0].Tier)
	assert.Equal(t, "Ljubljana", res.Origin.Name)

	assert.True(t, planner.offline)
	assert.Equal(t, 14, planner.gotReq.Students)
	assert.Equal(t, domain.TransportBus, planner.gotReq.Transport)
	assert.Equal(t, domain.TripTypeMultiDay, planner.gotReq.TripType)
	assert.Equal(t, []string{"Zagreb"}, planner.gotReq.Destinations)
}

func TestPlansRejectsBadBodies(t *testing.T) {
	planner := &stubPlanner{res: threePlans()}
	h := NewRouter(RouterConfig{Planner: planner})

	cases := map[string]string{
		"malformed":     `{"students":`,
		"unknown field": `{"students": 3, "bus_count": 2}`,
		"two objects":   `{"students": 3}{"students": 4}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/plans", body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := do(t, h, http.MethodPost, "/api/v1/plans?offline=maybe", planBody, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, planner.calls)
}

func TestPlansErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"input", &domain.InputError{Field: "students", Reason: "at least one student is required"}, http.StatusBadRequest},
		{"infeasible", &domain.InfeasibleError{RoundTripHours: 40, AvailableHours: 9}, http.StatusUnprocessableEntity},
		{"deadline", fmt.Errorf("build plans: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewRouter(RouterConfig{Planner: &stubPlanner{err: c.err}})
			rec := do(t, h, http.MethodPost, "/api/v1/plans", planBody, nil)
			assert.Equal(t, c.want, rec.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}

	h := NewRouter(RouterConfig{Planner: &stubPlanner{err: &domain.InputError{Field: "students", Reason: "x"}}})
	rec := do(t, h, http.MethodPost, "/api/v1/plans", planBody, nil)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "students", body.Field)
}

func TestPlansMethodNotAllowed(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{}})

	rec := do(t, h, http.MethodGet, "/api/v1/plans", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPanicIsRecovered(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{panics: true}})

	rec := do(t, h, http.MethodPost, "/api/v1/plans", planBody, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTokenFlow(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	planner := &stubPlanner{res: threePlans()}
	h := NewRouter(RouterConfig{
		Planner: planner,
		Auth:    auth.New("signing-key", "school-portal", string(hash)),
	})

	rec := do(t, h, http.MethodPost, "/api/v1/plans", planBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/plans", planBody, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, planner.calls)

	rec = do(t, h, http.MethodPost, "/api/v1/token", `{"client_id":"school-portal","client_secret":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/token", `{"client_id":"school-portal","client_secret":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	assert.Equal(t, "Bearer", tok.TokenType)

	rec = do(t, h, http.MethodPost, "/api/v1/plans", planBody, map[string]string{"Authorization": "Bearer " + tok.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, planner.calls)
}

func TestTokenDisabledWithoutSigningKey(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{}})

	rec := do(t, h, http.MethodPost, "/api/v1/token", `{"client_id":"a","client_secret":"b"}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(RouterConfig{Planner: &stubPlanner{}, AllowedOrigins: []string{"https://school.example"}})

	rec := do(t, h, http.MethodOptions, "/api/v1/plans", "", map[string]string{
		"Origin":                        "https://school.example",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "https://school.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
