package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"loadestimator/internal/config"
	"loadestimator/internal/identity"
	"loadestimator/internal/logger"
	"loadestimator/internal/models"
	"loadestimator/internal/refdata"
	"loadestimator/internal/store"
)

const routeTestCSV = `building_type,load_level,refrigeration_per_area,occupancy_per_area,electrical_per_area,min_tons_per_area,max_tons_per_area
Office,Low,28,0.004,1.2,0.002,0.004
Office,Average,34,0.005,1.8,0.002,0.004
Office,High,42,0.0067,2.5,0.002,0.004
Retail,Low,30,0.006,1.5,0.0022,0.0042
Retail,Average,38,0.008,2.2,0.0022,0.0042
Retail,High,48,0.011,3.0,0.0022,0.0042
`

func newTestServer(t *testing.T) (http.Handler, *observer.ObservedLogs) {
	t.Helper()

	table, err := refdata.Parse(strings.NewReader(routeTestCSV))
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	provider := identity.NewLocalProvider("route-test-secret", time.Hour, zap.New(core))

	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	logr := &logger.Logger{Logger: zap.NewNop()}

	return NewRouter(table, provider, store.NewMemoryStore(), cfg, logr), logs
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// signUpAndSignIn runs the full registration flow against the local
// provider and returns a usable access token.
func signUpAndSignIn(t *testing.T, h http.Handler, logs *observer.ObservedLogs, username string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var code string
	for _, entry := range logs.FilterMessage("confirmation code issued").All() {
		if entry.ContextMap()["username"] == username {
			code, _ = entry.ContextMap()["code"].(string)
		}
	}
	require.NotEmpty(t, code)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/auth/confirm", "", map[string]string{
		"username": username, "code": code,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"username": username, "password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session identity.Session
	decodeBody(t, rec, &session)
	require.NotEmpty(t, session.AccessToken)
	return session.AccessToken
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestGetBuildingTypes(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/reference/building-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		BuildingTypes []string `json:"building_types"`
		Count         int      `json:"count"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, []string{"Office", "Retail"}, resp.BuildingTypes)
	assert.Equal(t, 2, resp.Count)
}

func TestEstimate(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/estimates/", "", map[string]any{
		"building_type": "Office", "floor_area_sq_ft": 7500,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var rr models.RangeResults
	decodeBody(t, rec, &rr)
	assert.InDelta(t, 21.25, rr.Average.RefrigerationTons, 1e-9) // 34*7500/12000
	assert.Equal(t, 38, rr.Average.OccupancyCount)               // round(0.005*7500)
	assert.InDelta(t, 13.5, rr.Average.ElectricalKW, 1e-9)       // 1.8*7500/1000
}

func TestEstimateErrors(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/estimates/", "", map[string]any{
		"building_type": "Office", "floor_area_sq_ft": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "INVALID_INPUT", resp["code"])

	rec = doJSON(t, h, http.MethodPost, "/api/v1/estimates/", "", map[string]any{
		"building_type": "Warehouse", "floor_area_sq_ft": 1000,
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, "DATA_INTEGRITY", resp["code"])
}

func TestCompare(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/estimates/compare?types=Office,Retail&area=7500", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var cmp models.Comparison
	decodeBody(t, rec, &cmp)
	assert.Len(t, cmp.Results, 2)
	assert.Empty(t, cmp.Skipped)
}

func TestReportPDF(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/estimates/report", "", map[string]any{
		"building_type": "Office", "floor_area_sq_ft": 7500,
		"compare_types": []string{"Office", "Retail"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestProjectsRequireAuth(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/projects/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	h, logs := newTestServer(t)
	token := signUpAndSignIn(t, h, logs, "alice")

	cfg := map[string]any{
		"selected_building_types": []string{"Office", "Retail"},
		"current_building_type":   "Office",
		"floor_area_sq_ft":        7500,
		"range_results":           map[string]any{},
	}

	// save
	rec := doJSON(t, h, http.MethodPut, "/api/v1/projects/hq-retrofit", token, cfg)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// list
	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	decodeBody(t, rec, &list)
	assert.Equal(t, 1, list.Count)

	// load restores the saved inputs
	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/hq-retrofit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loaded models.ProjectConfig
	decodeBody(t, rec, &loaded)
	assert.Equal(t, []string{"Office", "Retail"}, loaded.SelectedBuildingTypes)
	assert.Equal(t, "Office", loaded.CurrentBuildingType)
	assert.InDelta(t, 7500, loaded.FloorAreaSqFt, 0)

	// delete is a two-step gate
	rec = doJSON(t, h, http.MethodDelete, "/api/v1/projects/hq-retrofit", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var gate struct {
		ConfirmToken string `json:"confirm_token"`
	}
	decodeBody(t, rec, &gate)
	require.NotEmpty(t, gate.ConfirmToken)

	// record still there until confirmed
	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/hq-retrofit", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/projects/hq-retrofit?confirm="+gate.ConfirmToken, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/hq-retrofit", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCancelOverHTTP(t *testing.T) {
	h, logs := newTestServer(t)
	token := signUpAndSignIn(t, h, logs, "bob")

	cfg := map[string]any{
		"current_building_type": "Office",
		"floor_area_sq_ft":      5000,
	}
	rec := doJSON(t, h, http.MethodPut, "/api/v1/projects/depot", token, cfg)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/projects/depot", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	var gate struct {
		ConfirmToken string `json:"confirm_token"`
	}
	decodeBody(t, rec, &gate)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/projects/depot/delete-cancel", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// cancelled token no longer deletes
	rec = doJSON(t, h, http.MethodDelete, "/api/v1/projects/depot?confirm="+gate.ConfirmToken, token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/projects/depot", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
