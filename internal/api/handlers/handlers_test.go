package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/stockalert/internal/api"
	"github.com/andresuchdata/stockalert/internal/api/handlers"
	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/forecast"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/notify"
	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*gin.Engine, *monitor.AlertRegister) {
	gin.SetMode(gin.TestMode)

	provider := square.NewDemoProvider()
	forecaster := forecast.NewForecaster(7, 7)
	thresholds := domain.Thresholds{LowPct: 20.0, CriticalPct: 5.0}
	monitorSvc := monitor.NewService(provider, forecaster, nil, thresholds, 100)
	register := monitor.NewAlertRegister(0)
	sms := notify.NewTwilioNotifier(config.TwilioConfig{}, true)
	slack := notify.NewSlackNotifier(config.SlackConfig{}, true)

	router := api.NewRouter(&api.Services{
		Inventory: handlers.NewInventoryHandler(monitorSvc),
		Alerts:    handlers.NewAlertHandler(monitorSvc, register, sms, slack),
		Locations: handlers.NewLocationHandler(provider),
	}, nil)

	return router, register
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGetStockLevels(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/api/v1/inventory/stock-levels?location_id=loc_001", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var snapshots []domain.StockSnapshot
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &snapshots))
	require.Len(t, snapshots, 5)

	byID := make(map[string]domain.StockSnapshot, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.ProductID] = snap
	}
	assert.Equal(t, domain.StatusHealthy, byID["item_001"].Status)
	assert.Equal(t, domain.StatusLow, byID["item_002"].Status)
	assert.Equal(t, domain.StatusCritical, byID["item_004"].Status)
	assert.Equal(t, domain.StatusOutOfStock, byID["item_005"].Status)
}

func TestGetStockLevelsRequiresLocation(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/api/v1/inventory/stock-levels", "")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetLowStock(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/api/v1/inventory/low-stock?location_id=loc_001", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var snapshots []domain.StockSnapshot
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &snapshots))
	require.Len(t, snapshots, 3)
	for _, snap := range snapshots {
		assert.True(t, snap.Status.NeedsAttention())
	}
}

func TestGetSummary(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/api/v1/inventory/summary?location_id=loc_001", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var summary domain.InventorySummary
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &summary))
	assert.Equal(t, 5, summary.TotalProducts)
	assert.Equal(t, 2, summary.Healthy)
	assert.Equal(t, 3, summary.NeedsAttention)
}

func TestGetOptimalLevels(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet,
		"/api/v1/inventory/optimal-levels?location_id=loc_001&product_id=item_001", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var levels domain.OptimalStockLevels
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &levels))
	// item_001 sells 3/day: max stock is a month of demand.
	assert.Equal(t, 90, levels.MaxStock)

	resp = doRequest(t, router, http.MethodGet, "/api/v1/inventory/optimal-levels?location_id=loc_001", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCheckAndAlertFlow(t *testing.T) {
	router, register := newTestRouter()

	resp := doRequest(t, router, http.MethodPost, "/api/v1/alerts/check?location_id=loc_001", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var result struct {
		ProductsChecked int            `json:"products_checked"`
		Alerts          []domain.Alert `json:"alerts"`
		SlackResult     struct {
			Success int `json:"success_count"`
		} `json:"slack_result"`
		SMSResult struct {
			Success int `json:"success_count"`
		} `json:"sms_result"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))

	assert.Equal(t, 5, result.ProductsChecked)
	require.Len(t, result.Alerts, 3)
	// Slack on by default, SMS off by default.
	assert.Equal(t, 3, result.SlackResult.Success)
	assert.Equal(t, 0, result.SMSResult.Success)

	// The pass recorded its alerts for later listing.
	assert.Len(t, register.List(monitor.AlertFilter{}), 3)
}

func TestGetAlertsFilters(t *testing.T) {
	router, _ := newTestRouter()

	doRequest(t, router, http.MethodPost, "/api/v1/alerts/check?location_id=loc_001", "")

	resp := doRequest(t, router, http.MethodGet, "/api/v1/alerts?severity=critical", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var listing struct {
		Alerts []domain.Alert `json:"alerts"`
		Count  int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	// Critical stock plus out of stock.
	assert.Equal(t, 2, listing.Count)
	for _, alert := range listing.Alerts {
		assert.Equal(t, domain.SeverityCritical, alert.Severity)
	}

	resp = doRequest(t, router, http.MethodGet, "/api/v1/alerts?severity=bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAcknowledgeAlert(t *testing.T) {
	router, register := newTestRouter()

	doRequest(t, router, http.MethodPost, "/api/v1/alerts/check?location_id=loc_001", "")
	alerts := register.List(monitor.AlertFilter{})
	require.NotEmpty(t, alerts)

	resp := doRequest(t, router, http.MethodPost,
		"/api/v1/alerts/"+alerts[0].ID+"/acknowledge", `{"acknowledged_by":"sarah"}`)

	require.Equal(t, http.StatusOK, resp.Code)

	var acknowledged domain.Alert
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &acknowledged))
	assert.True(t, acknowledged.Acknowledged)
	assert.Equal(t, "sarah", acknowledged.AcknowledgedBy)

	resp = doRequest(t, router, http.MethodPost,
		"/api/v1/alerts/missing/acknowledge", `{"acknowledged_by":"sarah"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = doRequest(t, router, http.MethodPost,
		"/api/v1/alerts/"+alerts[0].ID+"/acknowledge", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLocations(t *testing.T) {
	router, _ := newTestRouter()

	resp := doRequest(t, router, http.MethodGet, "/api/v1/locations", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var listing struct {
		Locations []domain.Location `json:"locations"`
		Count     int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 3, listing.Count)

	resp = doRequest(t, router, http.MethodGet, "/api/v1/locations/loc_002", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var location domain.Location
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &location))
	assert.Equal(t, "Capitol Hill Store", location.Name)

	resp = doRequest(t, router, http.MethodGet, "/api/v1/locations/loc_999", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
