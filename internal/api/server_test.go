package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boxline/boxline-data/internal/api/handler"
	"github.com/boxline/boxline-data/internal/catalogue/memstats"
	"github.com/boxline/boxline-data/internal/config"
	"github.com/boxline/boxline-data/internal/dispatch"
	"github.com/boxline/boxline-data/internal/factview"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	view := &factview.View{
		Rows: []factview.Row{
			{
				GameID:     1,
				PlayerName: "Alpha",
				TeamName:   "New York Knicks",
				PTS:        factview.Stat{Val: 30, Valid: true},
				League:     "NBA",
				IsRegular:  true,
				Played:     true,
			},
		},
		HasAges: true,
	}
	handle := factview.NewStaticHandle(view)
	dispatcher := dispatch.New(memstats.New(handle), nil, nil)

	cfg := &config.Config{
		Backend:          config.BackendMemory,
		Environment:      "test",
		CORSAllowOrigins: []string{"*"},
	}
	h := handler.New(dispatcher, nil, nil, handle, nil, cfg)
	return NewRouter(h, cfg)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var root map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, "boxline-data", root["service"])
	assert.Equal(t, "memory", root["backend"])

	rec = doRequest(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "memory backend has no database")
}

func TestQueryEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/query",
		`{"function": "get_ranking_by_age", "params": {"label": "PTS"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Operation string `json:"operation"`
		Status    string `json:"status"`
		Result    struct {
			Columns []string `json:"columns"`
			Rows    [][]any  `json:"rows"`
		} `json:"result"`
		ValueColumn string `json:"value_column"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "get_ranking_by_age", resp.Operation)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"playerName", "PTS", "Games"}, resp.Result.Columns)
	require.Len(t, resp.Result.Rows, 1)
	assert.Equal(t, "Alpha", resp.Result.Rows[0][0])
	assert.Equal(t, "PTS", resp.ValueColumn)
}

func TestQueryEndpointValidation(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/query", `{"params": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/query", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryEndpointFailedOperation(t *testing.T) {
	router := testRouter(t)

	// Backend rejection surfaces as a structured outcome, not an HTTP error.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/query",
		`{"function": "get_ranking_by_age", "params": {"label": "NOPE"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp.Status)
	assert.Contains(t, resp.Message, "NOPE")
}

func TestAnalyzeWithoutInterpreter(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/analyze", `{"query": "who scores the most?"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOperationsEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/operations", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Operations []string `json:"operations"`
		Count      int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Count)
	assert.Contains(t, resp.Operations, "get_duel_ranking")
}

func TestHistoryWithoutStore(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRebuildEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/admin/rebuild", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rebuilt", resp["status"])
}

func TestTimingMiddleware(t *testing.T) {
	router := testRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}
