// internal/monitor/register.go
package monitor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
)

// AlertRegister keeps stamped alerts in memory so they can be listed and
// acknowledged. There is no durable store: the register is bounded and
// evicts the oldest alerts once full, and contents are lost on restart.
type AlertRegister struct {
	mu       sync.RWMutex
	alerts   map[string]domain.Alert
	order    []string
	capacity int
}

// AlertFilter narrows List results. Zero values match everything.
type AlertFilter struct {
	LocationID   string
	Severity     *domain.Severity
	Acknowledged *bool
}

func NewAlertRegister(capacity int) *AlertRegister {
	if capacity <= 0 {
		capacity = 1000
	}

	return &AlertRegister{
		alerts:   make(map[string]domain.Alert),
		capacity: capacity,
	}
}

// Record stores stamped alerts, evicting the oldest entries when the
// register is at capacity.
func (r *AlertRegister) Record(alerts []domain.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, alert := range alerts {
		if _, exists := r.alerts[alert.ID]; !exists {
			r.order = append(r.order, alert.ID)
		}
		r.alerts[alert.ID] = alert
	}

	for len(r.order) > r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.alerts, oldest)
	}
}

// List returns alerts matching the filter, newest first.
func (r *AlertRegister) List(filter AlertFilter) []domain.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]domain.Alert, 0)
	for _, alert := range r.alerts {
		if filter.LocationID != "" && alert.LocationID != filter.LocationID {
			continue
		}
		if filter.Severity != nil && alert.Severity != *filter.Severity {
			continue
		}
		if filter.Acknowledged != nil && alert.Acknowledged != *filter.Acknowledged {
			continue
		}
		results = append(results, alert)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results
}

// Acknowledge marks an alert as acknowledged by the given operator.
func (r *AlertRegister) Acknowledge(alertID, acknowledgedBy string) (domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[alertID]
	if !ok {
		return domain.Alert{}, fmt.Errorf("alert %s not found", alertID)
	}

	now := time.Now()
	alert.Acknowledged = true
	alert.AcknowledgedBy = acknowledgedBy
	alert.AcknowledgedAt = &now
	r.alerts[alertID] = alert

	return alert, nil
}
