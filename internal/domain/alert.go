// internal/domain/alert.go
package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AlertType identifies the rule that produced an alert
type AlertType string

const (
	AlertLowStock         AlertType = "low_stock"
	AlertCriticalStock    AlertType = "critical_stock"
	AlertOutOfStock       AlertType = "out_of_stock"
	AlertReorderSuggested AlertType = "reorder_suggested"
	AlertVelocityAnomaly  AlertType = "velocity_anomaly"
)

// Severity ranks alerts. The ordering info < warning < critical is part
// of the contract: channels filter on it, so it is an ordered integer,
// not a compared string.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityCritical: "critical",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}

	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity returns the severity for a given name (case-insensitive).
func ParseSeverity(value string) (Severity, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for sev, name := range severityNames {
		if name == normalized {
			return sev, true
		}
	}

	return SeverityInfo, false
}

func (s Severity) MarshalJSON() ([]byte, error) {
	name, ok := severityNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return json.Marshal(name)
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	sev, ok := ParseSeverity(name)
	if !ok {
		return fmt.Errorf("unknown severity %q", name)
	}
	*s = sev

	return nil
}

// AlertDraft is an alert as produced by the generator: no ID and no
// creation timestamp yet. The monitoring pass stamps drafts before they
// reach a notification channel.
type AlertDraft struct {
	ProductID       string    `json:"product_id"`
	LocationID      string    `json:"location_id"`
	AlertType       AlertType `json:"alert_type"`
	Severity        Severity  `json:"severity"`
	Message         string    `json:"message"`
	CurrentStock    int       `json:"current_stock"`
	SuggestedAction string    `json:"suggested_action,omitempty"`
}

// Alert is a stamped alert ready for delivery and acknowledgment
type Alert struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	LocationID      string     `json:"location_id"`
	AlertType       AlertType  `json:"alert_type"`
	Severity        Severity   `json:"severity"`
	Message         string     `json:"message"`
	CurrentStock    int        `json:"current_stock"`
	SuggestedAction string     `json:"suggested_action,omitempty"`
	Acknowledged    bool       `json:"acknowledged"`
	AcknowledgedBy  string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
