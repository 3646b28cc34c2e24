package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackDemoModeSkipsNetwork(t *testing.T) {
	n := NewSlackNotifier(config.SlackConfig{}, true)

	require.NoError(t, n.SendAlert(context.Background(), domain.Alert{Message: "test"}))
	require.NoError(t, n.SendDailySummary(context.Background(), domain.DailySummary{}))

	result := n.SendBatch(context.Background(), makeAlerts(domain.SeverityWarning))
	assert.Equal(t, BatchResult{Success: 1}, result)
}

func TestSlackSendBatchGroupsBySeverity(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(config.SlackConfig{WebhookURL: server.URL}, false)

	alerts := makeAlerts(
		domain.SeverityInfo,
		domain.SeverityCritical,
		domain.SeverityWarning,
		domain.SeverityCritical,
	)

	result := n.SendBatch(context.Background(), alerts)

	assert.Equal(t, BatchResult{Success: 4}, result)

	text, _ := payload["text"].(string)
	assert.Contains(t, text, "4 items need attention")
	assert.Contains(t, text, "*Critical (2)*")
	assert.Contains(t, text, "*Warnings (1)*")
	assert.Contains(t, text, "*Info (1)*")

	// Severity groups appear in priority order.
	assert.Less(t, strings.Index(text, "Critical"), strings.Index(text, "Warnings"))
	assert.Less(t, strings.Index(text, "Warnings"), strings.Index(text, "Info"))
}

func TestSlackBatchTextOverflow(t *testing.T) {
	n := NewSlackNotifier(config.SlackConfig{}, false)

	alerts := makeAlerts(
		domain.SeverityCritical, domain.SeverityCritical,
		domain.SeverityCritical, domain.SeverityCritical,
		domain.SeverityCritical,
	)

	text := n.batchText(alerts)

	assert.Contains(t, text, "*Critical (5)*")
	assert.Contains(t, text, "...and 2 more items")
}

func TestSlackSendAlertPayload(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewSlackNotifier(config.SlackConfig{WebhookURL: server.URL}, false)

	alert := domain.Alert{
		AlertType:       domain.AlertCriticalStock,
		Severity:        domain.SeverityCritical,
		Message:         "Vanilla Syrup is at CRITICAL stock level (2 units, 2.0%)",
		CurrentStock:    2,
		SuggestedAction: "Reorder 30 units immediately",
	}

	require.NoError(t, n.SendAlert(context.Background(), alert))

	attachments, ok := payload["attachments"].([]any)
	require.True(t, ok)
	require.Len(t, attachments, 1)

	attachment := attachments[0].(map[string]any)
	assert.Equal(t, "#DC143C", attachment["color"])
	assert.Equal(t, "StockAlert - critical_stock", attachment["title"])
	assert.Equal(t, alert.Message, attachment["text"])
}

func TestSlackMissingWebhookFails(t *testing.T) {
	n := NewSlackNotifier(config.SlackConfig{}, false)

	err := n.SendAlert(context.Background(), domain.Alert{})
	assert.Error(t, err)

	result := n.SendBatch(context.Background(), makeAlerts(domain.SeverityWarning))
	assert.Equal(t, BatchResult{Failed: 1}, result)
}
