package storage

import (
	"context"

	"github.com/andresuchdata/stockalert/internal/domain"
)

// ReportArchive persists daily summary reports to object storage so
// operators keep a history even though the monitoring core itself has
// no durable store.
type ReportArchive interface {
	StoreDailySummary(ctx context.Context, summary domain.DailySummary) error
}
