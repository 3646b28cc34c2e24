// internal/storage/minio.go
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/stockalert/internal/config"
	"github.com/andresuchdata/stockalert/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioArchive stores reports in an S3-compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

// NewReportArchive returns a minio-backed archive, or nil when
// archiving is disabled.
func NewReportArchive(cfg config.ArchiveConfig) (ReportArchive, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &MinioArchive{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// StoreDailySummary uploads the report as JSON under
// summaries/<date>.json.
func (a *MinioArchive) StoreDailySummary(ctx context.Context, summary domain.DailySummary) error {
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode daily summary: %w", err)
	}

	key := fmt.Sprintf("summaries/%s.json", summary.Date)

	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload daily summary: %w", err)
	}

	log.Info().Str("bucket", a.bucket).Str("key", key).Msg("storage: daily summary archived")

	return nil
}
