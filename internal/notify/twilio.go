// internal/notify/twilio.go
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/rs/zerolog/log"
)

// SMS preview cap: keep summary messages short
const smsPreviewLimit = 5

// TwilioNotifier sends SMS alerts through the Twilio Messages API. In
// demo mode sends are logged and reported as successful without any
// network call.
type TwilioNotifier struct {
	cfg        config.TwilioConfig
	demoMode   bool
	httpClient *http.Client
	apiBase    string
}

func NewTwilioNotifier(cfg config.TwilioConfig, demoMode bool) *TwilioNotifier {
	return &TwilioNotifier{
		cfg:        cfg,
		demoMode:   demoMode,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    "https://api.twilio.com",
	}
}

func (n *TwilioNotifier) Name() string { return "twilio" }

// SendAlert sends one alert as an SMS to every configured number.
func (n *TwilioNotifier) SendAlert(ctx context.Context, alert domain.Alert) error {
	if n.demoMode {
		log.Info().Str("channel", n.Name()).Str("message", alert.Message).
			Msg("demo mode: would send SMS alert")
		return nil
	}

	if len(n.cfg.ToNumbers) == 0 {
		return fmt.Errorf("no phone numbers configured for SMS alerts")
	}

	return n.sendMessage(ctx, n.formatAlert(alert))
}

// SendBatch applies the batching policy: critical alerts are sent
// individually, everything else is folded into one summary SMS.
func (n *TwilioNotifier) SendBatch(ctx context.Context, alerts []domain.Alert) BatchResult {
	if len(alerts) == 0 {
		return BatchResult{}
	}

	if n.demoMode {
		log.Info().Str("channel", n.Name()).Int("count", len(alerts)).
			Msg("demo mode: would send SMS alerts")
		return BatchResult{Success: len(alerts)}
	}

	critical, summarizable := Partition(alerts)

	var result BatchResult
	for _, alert := range critical {
		if err := n.SendAlert(ctx, alert); err != nil {
			log.Error().Err(err).Str("alert_id", alert.ID).Msg("twilio: alert send failed")
			result.Failed++
			continue
		}
		result.Success++
	}

	if len(summarizable) > 0 {
		if err := n.sendMessage(ctx, n.formatSummary(summarizable)); err != nil {
			log.Error().Err(err).Msg("twilio: summary send failed")
			result.Failed += len(summarizable)
		} else {
			result.Success += len(summarizable)
		}
	}

	return result
}

func (n *TwilioNotifier) formatAlert(alert domain.Alert) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s StockAlert - %s\n\n", severityEmoji(alert.Severity), strings.ToUpper(string(alert.AlertType)))
	sb.WriteString(alert.Message)
	sb.WriteString("\n")
	if alert.SuggestedAction != "" {
		fmt.Fprintf(&sb, "\nAction: %s", alert.SuggestedAction)
	}

	return sb.String()
}

func (n *TwilioNotifier) formatSummary(alerts []domain.Alert) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 StockAlert Summary - %d items need attention:\n\n", len(alerts))

	previews, overflow := Preview(alerts, smsPreviewLimit)
	for _, message := range previews {
		fmt.Fprintf(&sb, "• %s\n", message)
	}
	if overflow > 0 {
		fmt.Fprintf(&sb, "\n...and %d more. Check dashboard for details.", overflow)
	}

	return sb.String()
}

// sendMessage delivers one SMS body to all configured numbers. A
// partial failure is reported as an error after all numbers were tried.
func (n *TwilioNotifier) sendMessage(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.apiBase, n.cfg.AccountSID)

	var failed []string
	for _, toNumber := range n.cfg.ToNumbers {
		form := url.Values{}
		form.Set("From", n.cfg.FromNumber)
		form.Set("To", toNumber)
		form.Set("Body", body)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("build twilio request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(n.cfg.AccountSID, n.cfg.AuthToken)

		resp, err := n.httpClient.Do(req)
		if err != nil {
			log.Error().Err(err).Str("to", toNumber).Msg("twilio: request failed")
			failed = append(failed, toNumber)
			continue
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.Error().Int("status", resp.StatusCode).Str("to", toNumber).
				Str("response", string(data)).Msg("twilio: send rejected")
			failed = append(failed, toNumber)
			continue
		}

		log.Info().Str("to", toNumber).Msg("twilio: SMS sent")
	}

	if len(failed) > 0 {
		return fmt.Errorf("SMS delivery failed for %s", strings.Join(failed, ", "))
	}

	return nil
}
