package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stampedAlert(id, locationID string, severity domain.Severity, createdAt time.Time) domain.Alert {
	return domain.Alert{
		ID:         id,
		ProductID:  "item_001",
		LocationID: locationID,
		AlertType:  domain.AlertLowStock,
		Severity:   severity,
		Message:    "test alert " + id,
		CreatedAt:  createdAt,
	}
}

func TestAlertRegisterListFilters(t *testing.T) {
	register := NewAlertRegister(10)
	now := time.Now()

	register.Record([]domain.Alert{
		stampedAlert("a1", "loc_001", domain.SeverityCritical, now.Add(-2*time.Minute)),
		stampedAlert("a2", "loc_001", domain.SeverityWarning, now.Add(-time.Minute)),
		stampedAlert("a3", "loc_002", domain.SeverityCritical, now),
	})

	t.Run("empty filter matches everything, newest first", func(t *testing.T) {
		alerts := register.List(AlertFilter{})

		require.Len(t, alerts, 3)
		assert.Equal(t, "a3", alerts[0].ID)
		assert.Equal(t, "a2", alerts[1].ID)
		assert.Equal(t, "a1", alerts[2].ID)
	})

	t.Run("filter by location", func(t *testing.T) {
		alerts := register.List(AlertFilter{LocationID: "loc_002"})

		require.Len(t, alerts, 1)
		assert.Equal(t, "a3", alerts[0].ID)
	})

	t.Run("filter by severity", func(t *testing.T) {
		critical := domain.SeverityCritical
		alerts := register.List(AlertFilter{Severity: &critical})

		require.Len(t, alerts, 2)
	})

	t.Run("filter by acknowledged", func(t *testing.T) {
		acknowledged := true
		assert.Empty(t, register.List(AlertFilter{Acknowledged: &acknowledged}))

		unacknowledged := false
		assert.Len(t, register.List(AlertFilter{Acknowledged: &unacknowledged}), 3)
	})
}

func TestAlertRegisterAcknowledge(t *testing.T) {
	register := NewAlertRegister(10)
	register.Record([]domain.Alert{
		stampedAlert("a1", "loc_001", domain.SeverityWarning, time.Now()),
	})

	alert, err := register.Acknowledge("a1", "sarah")

	require.NoError(t, err)
	assert.True(t, alert.Acknowledged)
	assert.Equal(t, "sarah", alert.AcknowledgedBy)
	require.NotNil(t, alert.AcknowledgedAt)

	// Acknowledgment persists in subsequent listings.
	listed := register.List(AlertFilter{})
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Acknowledged)

	_, err = register.Acknowledge("missing", "sarah")
	assert.Error(t, err)
}

func TestAlertRegisterEvictsOldest(t *testing.T) {
	register := NewAlertRegister(3)
	now := time.Now()

	for i := 0; i < 5; i++ {
		register.Record([]domain.Alert{
			stampedAlert(fmt.Sprintf("a%d", i), "loc_001", domain.SeverityInfo, now.Add(time.Duration(i)*time.Second)),
		})
	}

	alerts := register.List(AlertFilter{})

	require.Len(t, alerts, 3)
	assert.Equal(t, "a4", alerts[0].ID)
	assert.Equal(t, "a2", alerts[2].ID)
}
