// internal/notify/slack.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/rs/zerolog/log"
)

// Slack batch preview caps per severity group
const (
	slackCriticalPreview = 3
	slackWarningPreview  = 3
	slackInfoPreview     = 2
)

// SlackNotifier posts alerts to an incoming-webhook URL. In demo mode
// sends are logged and reported as successful without any network call.
type SlackNotifier struct {
	cfg        config.SlackConfig
	demoMode   bool
	httpClient *http.Client
}

func NewSlackNotifier(cfg config.SlackConfig, demoMode bool) *SlackNotifier {
	return &SlackNotifier{
		cfg:        cfg,
		demoMode:   demoMode,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *SlackNotifier) Name() string { return "slack" }

// SendAlert posts one alert as a colored attachment.
func (n *SlackNotifier) SendAlert(ctx context.Context, alert domain.Alert) error {
	if n.demoMode {
		log.Info().Str("channel", n.Name()).Str("message", alert.Message).
			Msg("demo mode: would send Slack alert")
		return nil
	}

	return n.post(ctx, n.alertPayload(alert))
}

// SendBatch posts all alerts as one summary message grouped by
// severity, with per-group previews plus overflow counts.
func (n *SlackNotifier) SendBatch(ctx context.Context, alerts []domain.Alert) BatchResult {
	if len(alerts) == 0 {
		return BatchResult{}
	}

	if n.demoMode {
		log.Info().Str("channel", n.Name()).Int("count", len(alerts)).
			Msg("demo mode: would send Slack alerts")
		return BatchResult{Success: len(alerts)}
	}

	if err := n.post(ctx, map[string]any{"text": n.batchText(alerts)}); err != nil {
		log.Error().Err(err).Msg("slack: batch send failed")
		return BatchResult{Failed: len(alerts)}
	}

	return BatchResult{Success: len(alerts)}
}

// SendDailySummary posts the aggregate daily report.
func (n *SlackNotifier) SendDailySummary(ctx context.Context, summary domain.DailySummary) error {
	if n.demoMode {
		log.Info().Str("channel", n.Name()).Msg("demo mode: would send daily Slack summary")
		return nil
	}

	return n.post(ctx, n.summaryPayload(summary))
}

func (n *SlackNotifier) alertPayload(alert domain.Alert) map[string]any {
	action := alert.SuggestedAction
	if action == "" {
		action = "No action suggested"
	}

	return map[string]any{
		"attachments": []map[string]any{
			{
				"color": severityColor(alert.Severity),
				"title": formatAlertTitle(alert),
				"text":  alert.Message,
				"fields": []map[string]any{
					{"title": "Current Stock", "value": fmt.Sprintf("%d", alert.CurrentStock), "short": true},
					{"title": "Severity", "value": strings.ToUpper(alert.Severity.String()), "short": true},
					{"title": "Suggested Action", "value": action, "short": false},
				},
				"footer": "StockAlert Monitoring System",
				"ts":     alert.CreatedAt.Unix(),
			},
		},
	}
}

func (n *SlackNotifier) batchText(alerts []domain.Alert) string {
	groups := BySeverity(alerts)

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Stock Alert Summary* - %d items need attention\n\n", len(alerts))

	writeGroup := func(severity domain.Severity, label string, previewLimit int) {
		group := groups[severity]
		if len(group) == 0 {
			return
		}

		fmt.Fprintf(&sb, "%s *%s (%d)*\n", severityEmoji(severity), label, len(group))
		previews, overflow := Preview(group, previewLimit)
		for _, message := range previews {
			fmt.Fprintf(&sb, "• %s\n", message)
		}
		if overflow > 0 {
			fmt.Fprintf(&sb, "• ...and %d more items\n", overflow)
		}
		sb.WriteString("\n")
	}

	writeGroup(domain.SeverityCritical, "Critical", slackCriticalPreview)
	writeGroup(domain.SeverityWarning, "Warnings", slackWarningPreview)
	writeGroup(domain.SeverityInfo, "Info", slackInfoPreview)

	return strings.TrimRight(sb.String(), "\n")
}

func (n *SlackNotifier) summaryPayload(summary domain.DailySummary) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			{
				"type": "header",
				"text": map[string]any{"type": "plain_text", "text": "📊 Daily Inventory Summary"},
			},
			{
				"type": "section",
				"fields": []map[string]any{
					{"type": "mrkdwn", "text": fmt.Sprintf("*Total Products:*\n%d", summary.TotalProducts)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Healthy Stock:*\n%d", summary.Healthy)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Low Stock:*\n%d", summary.LowStock)},
					{"type": "mrkdwn", "text": fmt.Sprintf("*Critical/Out:*\n%d", summary.Critical)},
				},
			},
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": fmt.Sprintf("*Alerts Generated:* %d\n*Reorders Suggested:* %d",
						summary.AlertsGenerated, summary.ReordersSuggested),
				},
			},
		},
	}
}

func (n *SlackNotifier) post(ctx context.Context, payload any) error {
	if n.cfg.WebhookURL == "" {
		return fmt.Errorf("no Slack webhook URL configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("slack webhook status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
