package recipes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"recipe-pipeline/core/storage/mocks"
	"recipe-pipeline/feature/recipes/bulk"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchiver_Disabled(t *testing.T) {
	ctx := context.Background()
	for name, a := range map[string]*Archiver{"Nil": nil, "No Client": NewArchiver(nil, "b")} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, a.Enabled())
			assert.NoError(t, a.Prepare(ctx))

			key, err := a.SaveUpload(ctx, "x.csv", []byte("uuid\n1\n"), time.Now())
			assert.NoError(t, err)
			assert.Empty(t, key)

			_, err = a.ListReports(ctx)
			assert.ErrorIs(t, err, ErrArchiveDisabled)
			_, err = a.Load(ctx, "uploads/x.csv")
			assert.ErrorIs(t, err, ErrArchiveDisabled)
		})
	}
}

func TestArchiver_SaveUpload(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	var stored []byte
	m.On("PutObject", ctx, "b", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "uploads/2026/03/09/") && strings.HasSuffix(key, "-my_fixes_.csv")
	}), mock.Anything, int64(7), minio.PutObjectOptions{ContentType: "text/csv"}).
		Run(func(args mock.Arguments) {
			stored, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	a := NewArchiver(m, "b")
	key, err := a.SaveUpload(ctx, "../tmp/my fixes!.csv", []byte("uuid\n1\n"), time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, key, "uploads/2026/03/09/")
	assert.Equal(t, "uuid\n1\n", string(stored))
	m.AssertExpectations(t)
}

func TestArchiver_ReportRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	report := &bulk.Report{BatchID: "5d2c8f47-1e2b-4f6a-9b0e-3c4d5e6f7a8b", Source: "json", Summary: bulk.Summary{Total: 1, Success: 1}}
	key := "reports/" + report.BatchID + ".json"

	var stored bytes.Buffer
	m.On("PutObject", ctx, "b", key, mock.Anything, mock.Anything, minio.PutObjectOptions{ContentType: "application/json"}).
		Run(func(args mock.Arguments) {
			_, _ = io.Copy(&stored, args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{}, nil)

	a := NewArchiver(m, "b")
	got, err := a.SaveReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, key, got)

	m.On("GetObject", ctx, "b", key, minio.GetObjectOptions{}).
		Return(io.NopCloser(bytes.NewReader(stored.Bytes())), nil)
	loaded, err := a.LoadReport(ctx, report.BatchID)
	require.NoError(t, err)
	assert.Equal(t, report.Summary, loaded.Summary)
	assert.Equal(t, "json", loaded.Source)
}

func TestArchiver_LoadMissing(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("GetObject", ctx, "b", "uploads/gone.csv", minio.GetObjectOptions{}).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})
	m.On("GetObject", ctx, "b", "uploads/broken.csv", minio.GetObjectOptions{}).
		Return(nil, errors.New("connection reset"))

	a := NewArchiver(m, "b")
	_, err := a.Load(ctx, "uploads/gone.csv")
	assert.ErrorIs(t, err, ErrNotArchived)

	_, err = a.Load(ctx, "uploads/broken.csv")
	assert.ErrorContains(t, err, "connection reset")
	assert.NotErrorIs(t, err, ErrNotArchived)

	_, err = a.LoadReport(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotArchived)
}

func TestArchiver_ListReports(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "reports/b.json"}
	ch <- minio.ObjectInfo{Key: "reports/a.json"}
	ch <- minio.ObjectInfo{Key: "reports/notes.txt"}
	close(ch)
	m.On("ListObjects", ctx, "b", minio.ListObjectsOptions{Prefix: "reports/", Recursive: true}).
		Return((<-chan minio.ObjectInfo)(ch))

	ids, err := NewArchiver(m, "b").ListReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}
