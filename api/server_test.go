package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sierra/core"
	"sierra/internal/memstore"
	"sierra/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countingRecords counts calls reaching the record store.
type countingRecords struct {
	*memstore.Store
	calls int
	err   error
}

func (c *countingRecords) QueryByTicker(ctx context.Context, ticker string) ([]models.ESGRecord, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.QueryByTicker(ctx, ticker)
}

func (c *countingRecords) ScanPage(ctx context.Context, filter models.Filter, cursor *models.Cursor, limit int) ([]models.ESGRecord, *models.Cursor, error) {
	c.calls++
	if c.err != nil {
		return nil, nil, c.err
	}
	return c.Store.ScanPage(ctx, filter, cursor, limit)
}

type fixture struct {
	engine  *gin.Engine
	records *countingRecords
}

func testConfig() *core.Config {
	return &core.Config{
		Environment:  "development",
		StoreDriver:  core.StoreMemory,
		JWTSecret:    "test_secret",
		TokenExpiry:  time.Hour,
		CORSOrigin:   "*",
		ScanPageSize: 2,
	}
}

func newFixture(t *testing.T, cfg *core.Config) *fixture {
	t.Helper()

	store := memstore.New()
	for _, r := range []models.ESGRecord{
		{Ticker: "luv", CompanyName: "Southwest Airlines", Timestamp: "2023-05-01", TotalScore: 1100, EnvironmentScore: 400, Rating: "B", TotalLevel: "Medium"},
		{Ticker: "luv", CompanyName: "Southwest Airlines", Timestamp: "2024-05-01T10:00:00Z", TotalScore: 1250, EnvironmentScore: 480, Rating: "A", TotalLevel: "High"},
		{Ticker: "ko", CompanyName: "Coca-Cola Company", Timestamp: "2024-02-01", TotalScore: 1300, EnvironmentScore: 510, Rating: "A", TotalLevel: "High"},
		{Ticker: "dis", CompanyName: "Walt Disney Co", Timestamp: "2024-03-01", TotalScore: 900, EnvironmentScore: 300, Rating: "C", TotalLevel: "Low"},
		{Ticker: "zzz", CompanyName: "Acme Widgets", Timestamp: "2024-01-01", TotalScore: 700, Rating: "D", TotalLevel: "Low"},
	} {
		r := r
		_, err := store.Put(context.Background(), &r)
		require.NoError(t, err)
	}

	records := &countingRecords{Store: store}
	stores := StoresFromMemory(store)
	stores.Records = records

	return &fixture{
		engine:  NewEngine(cfg, zap.NewNop().Sugar(), stores),
		records: records,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = f.do(t, http.MethodGet, "/api/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsStoreFailure(t *testing.T) {
	stores := StoresFromMemory(memstore.New())
	stores.Ping = func() error { return errors.New("connection refused") }
	engine := NewEngine(testConfig(), zap.NewNop().Sugar(), stores)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/esg/LUV", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "luv", body["ticker"])

	ratings := body["historical_ratings"].([]any)
	require.Len(t, ratings, 2)
	assert.Equal(t, "2024-05-01T10:00:00Z", ratings[0].(map[string]any)["timestamp"])

	rec, body = f.do(t, http.MethodGet, "/esg/unknown", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No ESG data found for ticker: unknown", body["message"])
}

func TestRecentAndAll(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/esg/recent/luv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", body["rating"])

	rec, body = f.do(t, http.MethodGet, "/api/esg/all", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 5)
}

func TestSearchByRating(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/search/level/total_level/A", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", body["rating"])

	companies := body["companies"].([]any)
	require.Len(t, companies, 2)
	assert.Equal(t, "ko", companies[0].(map[string]any)["ticker"])
	assert.Equal(t, "luv", companies[1].(map[string]any)["ticker"])
}

func TestSearchValidationSkipsStore(t *testing.T) {
	f := newFixture(t, testConfig())

	cases := []struct {
		path    string
		message string
	}{
		{"/search/level/total_level/F", "Invalid total level. Choose from: A to E."},
		{"/search/level/social_level/Extreme", "Invalid social level. Choose from: High, Medium, Low."},
		{"/search/score/greater/market_cap/10", "Invalid score type. Choose from: total_score, environmental_score, social_score, governance_score."},
		{"/search/score/lesser/total_score/-1", "Invalid score value, must be greater than or equal to 0."},
		{"/search/score/total_score/90/80", "Invalid score range, low must be less than or equal to high."},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec, body := f.do(t, http.MethodGet, tc.path, nil, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, body["message"])
		})
	}

	assert.Zero(t, f.records.calls)
}

func TestSearchByScore(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/search/score/greater/total_score/1200", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["validCompanies"], 2)

	rec, body = f.do(t, http.MethodGet, "/search/score/environmental_score/400/480", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "environmental_score", body["scoreType"])
	assert.Len(t, body["validCompanies"], 2)

	rec, body = f.do(t, http.MethodGet, "/search/score/lesser/total_score/100", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No companies found with total_score less than 100.", body["message"])
}

func TestSearchByCompany(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/search/company/southwest", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "luv", body["ticker"])
	assert.Equal(t, "2024-05-01T10:00:00Z", body["company"].(map[string]any)["timestamp"])

	rec, body = f.do(t, http.MethodGet, "/search/company/acme", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["suggested"])
	assert.Len(t, body["companies"], 1)

	rec, body = f.do(t, http.MethodGet, "/search/company/initech", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company not found", body["message"])
}

func TestStoreErrorsRedactedInProduction(t *testing.T) {
	dev := newFixture(t, testConfig())
	dev.records.err = errors.New("connection reset")

	rec, body := dev.do(t, http.MethodGet, "/esg/ko", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error fetching ESG data", body["message"])
	assert.Equal(t, "connection reset", body["error"])

	cfg := testConfig()
	cfg.Environment = "production"
	prod := newFixture(t, cfg)
	prod.records.err = errors.New("connection reset")

	rec, body = prod.do(t, http.MethodGet, "/esg/ko", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body, "error")
}

func TestAccountRoundTrip(t *testing.T) {
	f := newFixture(t, testConfig())
	creds := map[string]string{"email": "ada@example.com", "password": "hunter22", "name": "Ada"}

	rec, body := f.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, body = f.do(t, http.MethodPost, "/auth/register", creds, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists", body["message"])

	rec, body = f.do(t, http.MethodPost, "/api/login", map[string]string{"email": "ada@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", body["message"])

	rec, body = f.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "hunter22"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["token"].(string)
	assert.Equal(t, "Ada", body["user"].(map[string]any)["name"])

	rec, body = f.do(t, http.MethodGet, "/tickers", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No saved tickers found", body["message"])
	assert.Equal(t, float64(0), body["count"])

	rec, body = f.do(t, http.MethodPost, "/auth/tickers", map[string]string{"ticker": "luv"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ticker saved successfully", body["message"])

	rec, body = f.do(t, http.MethodGet, "/api/tickers", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "luv", body["tickers"].([]any)[0].(map[string]any)["ticker"])
}

func TestAuthFailures(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/tickers", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization token required", body["message"])

	rec, body = f.do(t, http.MethodGet, "/tickers", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", body["message"])

	rec, body = f.do(t, http.MethodPost, "/register", map[string]string{"email": "a@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email, password, and name are required", body["message"])
}

func TestQuestionnaireRoundTrip(t *testing.T) {
	f := newFixture(t, testConfig())

	rec, body := f.do(t, http.MethodGet, "/questionnaire/questions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["questions"], 3)

	rec, body = f.do(t, http.MethodPut, "/questionnaire/1/submitAnswer", map[string]string{"answerId": "1"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authorization token required", body["message"])

	rec, body = f.do(t, http.MethodPost, "/register", map[string]string{"email": "grace@example.com", "password": "hunter22", "name": "Grace"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token := body["token"].(string)

	rec, body = f.do(t, http.MethodGet, "/api/questionnaire/completed", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Questionnaire is not complete", body["message"])

	rec, body = f.do(t, http.MethodPut, "/questionnaire/2/submitAnswer", map[string]string{"answerId": "7"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid answer for question 2", body["message"])

	rec, body = f.do(t, http.MethodPut, "/questionnaire/9/submitAnswer", map[string]string{"answerId": "1"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Question not found", body["message"])

	for _, step := range []struct{ question, answer string }{{"1", "1"}, {"2", "1"}, {"3", "4"}} {
		rec, body = f.do(t, http.MethodPut, "/auth/questionnaire/"+step.question+"/submitAnswer", map[string]string{"answerId": step.answer}, token)
		require.Equal(t, http.StatusOK, rec.Code, body)
	}
	assert.Equal(t, map[string]any{"1": "1", "2": "1", "3": "4"}, body["submittedAnswers"])

	rec, body = f.do(t, http.MethodGet, "/questionnaire/completed", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "environment_score", body["scoreType"])
	assert.Equal(t, "Food and Hospitality", body["sector"])
	assert.Equal(t, []any{"luv", "ko"}, body["recommendedTickers"])
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/esg/ko", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
