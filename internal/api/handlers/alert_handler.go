package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/andresuchdata/stockalert/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AlertHandler struct {
	service  *monitor.Service
	register *monitor.AlertRegister
	sms      notify.Notifier
	slack    *notify.SlackNotifier
}

func NewAlertHandler(service *monitor.Service, register *monitor.AlertRegister, sms notify.Notifier, slack *notify.SlackNotifier) *AlertHandler {
	return &AlertHandler{
		service:  service,
		register: register,
		sms:      sms,
		slack:    slack,
	}
}

// GetAlerts lists recorded alerts, newest first, with optional
// location_id, severity and acknowledged filters.
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	filter := monitor.AlertFilter{
		LocationID: strings.TrimSpace(c.Query("location_id")),
	}

	if raw := strings.TrimSpace(c.Query("severity")); raw != "" {
		severity, ok := domain.ParseSeverity(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid severity: " + raw})
			return
		}
		filter.Severity = &severity
	}

	if raw := strings.TrimSpace(c.Query("acknowledged")); raw != "" {
		acknowledged, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid acknowledged flag: " + raw})
			return
		}
		filter.Acknowledged = &acknowledged
	}

	alerts := h.register.List(filter)

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// CheckAndAlert runs an on-demand monitoring pass for a location and
// delivers the generated alerts. SMS delivery is opt-in via send_sms;
// Slack delivery is on unless send_slack=false.
func (h *AlertHandler) CheckAndAlert(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	sendSMS := boolQuery(c, "send_sms", false)
	sendSlack := boolQuery(c, "send_slack", true)

	snapshots := h.service.CheckStockLevels(c.Request.Context(), locationID)
	drafts := monitor.GenerateAlerts(snapshots, h.service.Thresholds())
	alerts := monitor.StampAlerts(drafts)
	h.register.Record(alerts)

	smsResult := notify.BatchResult{}
	slackResult := notify.BatchResult{}

	if len(alerts) > 0 {
		if sendSMS {
			critical, _ := notify.Partition(alerts)
			if len(critical) > 0 {
				smsResult = h.sms.SendBatch(c.Request.Context(), critical)
			}
		}
		if sendSlack {
			slackResult = h.slack.SendBatch(c.Request.Context(), alerts)
		}
	}

	log.Info().Str("location_id", locationID).Int("alerts", len(alerts)).
		Msg("api: on-demand check completed")

	c.JSON(http.StatusOK, gin.H{
		"location_id":      locationID,
		"products_checked": len(snapshots),
		"alerts":           alerts,
		"sms_result":       smsResult,
		"slack_result":     slackResult,
	})
}

// AcknowledgeAlert marks one alert as handled by an operator.
func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("id")

	var req struct {
		AcknowledgedBy string `json:"acknowledged_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.AcknowledgedBy) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "acknowledged_by is required"})
		return
	}

	alert, err := h.register.Acknowledge(alertID, req.AcknowledgedBy)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alert)
}

func boolQuery(c *gin.Context, name string, fallback bool) bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return parsed
}
