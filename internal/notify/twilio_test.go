package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioDemoModeSkipsNetwork(t *testing.T) {
	n := NewTwilioNotifier(config.TwilioConfig{}, true)
	n.apiBase = "http://invalid.example" // would fail if reached

	err := n.SendAlert(context.Background(), domain.Alert{Message: "test"})
	require.NoError(t, err)

	result := n.SendBatch(context.Background(), makeAlerts(domain.SeverityCritical, domain.SeverityInfo))
	assert.Equal(t, BatchResult{Success: 2}, result)
}

func TestTwilioSendBatch(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		bodies = append(bodies, r.FormValue("Body"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	n := NewTwilioNotifier(config.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "token",
		FromNumber: "+15550001111",
		ToNumbers:  []string{"+15550002222"},
	}, false)
	n.apiBase = server.URL

	alerts := makeAlerts(
		domain.SeverityCritical,
		domain.SeverityWarning,
		domain.SeverityInfo,
	)

	result := n.SendBatch(context.Background(), alerts)

	assert.Equal(t, BatchResult{Success: 3}, result)

	// One SMS per critical alert plus one summary for the rest.
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "alert a")
	assert.Contains(t, bodies[1], "2 items need attention")
	assert.Contains(t, bodies[1], "alert b")
	assert.Contains(t, bodies[1], "alert c")
}

func TestTwilioSummaryOverflow(t *testing.T) {
	n := NewTwilioNotifier(config.TwilioConfig{}, false)

	alerts := makeAlerts(
		domain.SeverityInfo, domain.SeverityInfo, domain.SeverityInfo,
		domain.SeverityInfo, domain.SeverityInfo, domain.SeverityInfo,
		domain.SeverityInfo,
	)

	summary := n.formatSummary(alerts)

	assert.Contains(t, summary, "7 items need attention")
	assert.Contains(t, summary, "...and 2 more")
	assert.Equal(t, smsPreviewLimit, strings.Count(summary, "• "))
}

func TestTwilioSendFailureCounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewTwilioNotifier(config.TwilioConfig{
		AccountSID: "AC123",
		ToNumbers:  []string{"+15550002222"},
	}, false)
	n.apiBase = server.URL

	result := n.SendBatch(context.Background(), makeAlerts(domain.SeverityCritical, domain.SeverityInfo))

	assert.Equal(t, BatchResult{Failed: 2}, result)
}
