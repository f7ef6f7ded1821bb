package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"recipe-pipeline/core/storage"
	"recipe-pipeline/feature/recipes/bulk"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const (
	uploadsPrefix = "uploads/"
	reportsPrefix = "reports/"
)

var (
	// ErrArchiveDisabled is returned by archive reads when no storage is configured.
	ErrArchiveDisabled = errors.New("archive storage is not configured")
	// ErrNotArchived is returned for an unknown report id or object key.
	ErrNotArchived = errors.New("archived object not found")
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Archiver keeps uploaded CSV files and bulk update reports in object
// storage. A nil client disables it: writes become no-ops and reads fail
// with ErrArchiveDisabled.
type Archiver struct {
	client storage.Client
	bucket string
}

// NewArchiver creates an archiver on bucket.
func NewArchiver(client storage.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Enabled reports whether a storage client is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.client != nil
}

// Prepare creates the bucket when missing.
func (a *Archiver) Prepare(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	return storage.EnsureBucket(ctx, a.client, a.bucket)
}

// SaveUpload stores a raw CSV upload and returns its key.
func (a *Archiver) SaveUpload(ctx context.Context, filename string, data []byte, now time.Time) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	name := unsafeKeyChars.ReplaceAllString(path.Base(filename), "_")
	if name == "" || name == "." || name == "_" {
		name = "upload.csv"
	}
	key := fmt.Sprintf("%s%s/%s-%s", uploadsPrefix, now.UTC().Format("2006/01/02"), uuid.NewString()[:8], name)
	if err := storage.PutBytes(ctx, a.client, a.bucket, key, data, "text/csv"); err != nil {
		return "", err
	}
	return key, nil
}

// SaveReport stores report as JSON under its batch id.
func (a *Archiver) SaveReport(ctx context.Context, report *bulk.Report) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	key := reportsPrefix + report.BatchID + ".json"
	if err := storage.PutBytes(ctx, a.client, a.bucket, key, data, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// ListReports returns the batch ids of archived reports, sorted.
func (a *Archiver) ListReports(ctx context.Context) ([]string, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	keys, err := storage.ListKeys(ctx, a.client, a.bucket, reportsPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(k, reportsPrefix), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// LoadReport reads one archived report.
func (a *Archiver) LoadReport(ctx context.Context, batchID string) (*bulk.Report, error) {
	if uuid.Validate(batchID) != nil {
		return nil, ErrNotArchived
	}
	data, err := a.Load(ctx, reportsPrefix+batchID+".json")
	if err != nil {
		return nil, err
	}
	var report bulk.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", batchID, err)
	}
	return &report, nil
}

// Load reads any archived object, for example an earlier CSV upload.
func (a *Archiver) Load(ctx context.Context, key string) ([]byte, error) {
	if !a.Enabled() {
		return nil, ErrArchiveDisabled
	}
	data, err := storage.ReadAll(ctx, a.client, a.bucket, key)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, ErrNotArchived
		}
		return nil, err
	}
	return data, nil
}
