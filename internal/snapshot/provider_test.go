package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644))
}

func TestFileProviderLoad(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "prod-2026-01-15", `{
		"name": "prod-2026-01-15",
		"account_id": "111122223333",
		"created_at": "2026-01-15T08:00:00Z",
		"resources": [
			{
				"arn": "arn:aws:s3:::data-bucket",
				"type": "AWS::S3::Bucket",
				"name": "data-bucket",
				"region": "us-east-1",
				"created_at": "2026-01-10T00:00:00Z",
				"tags": {"env": "prod"}
			}
		]
	}`)

	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	snap, err := p.Load(context.Background(), "prod-2026-01-15")
	require.NoError(t, err)

	want := &domain.Snapshot{
		Name:      "prod-2026-01-15",
		AccountID: "111122223333",
		CreatedAt: time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
		Resources: []domain.Resource{{
			ARN:       "arn:aws:s3:::data-bucket",
			Type:      domain.TypeS3Bucket,
			Name:      "data-bucket",
			Region:    "us-east-1",
			CreatedAt: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			Tags:      map[string]string{"env": "prod"},
		}},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestFileProviderLoadDefaultsNameFromFile(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "unnamed", `{"account_id": "1", "resources": []}`)

	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	snap, err := p.Load(context.Background(), "unnamed")
	require.NoError(t, err)
	assert.Equal(t, "unnamed", snap.Name)
}

func TestFileProviderLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "truncated", `{"account_id": "1", "resour`)
	writeSnapshot(t, dir, "no-account", `{"name": "no-account", "resources": []}`)
	writeSnapshot(t, dir, "dup-arn", `{
		"account_id": "1",
		"resources": [
			{"arn": "arn:aws:s3:::b", "type": "AWS::S3::Bucket", "name": "b", "region": "us-east-1"},
			{"arn": "arn:aws:s3:::b", "type": "AWS::S3::Bucket", "name": "b", "region": "us-east-1"}
		]
	}`)

	p, err := NewFileProvider(dir)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name     string
		snapshot string
		code     errors.Code
	}{
		{"missing file", "nope", errors.CodeSnapshotNotFound},
		{"empty name", "", errors.CodeSnapshotNotFound},
		{"path separator", "../etc/passwd", errors.CodeSnapshotInvalid},
		{"invalid json", "truncated", errors.CodeSnapshotParseError},
		{"missing account", "no-account", errors.CodeSnapshotInvalid},
		{"duplicate arn", "dup-arn", errors.CodeSnapshotInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Load(ctx, tt.snapshot)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "expected %s, got %v", tt.code, err)
		})
	}
}

func TestFileProviderList(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "beta", `{"account_id": "1"}`)
	writeSnapshot(t, dir, "alpha", `{"account_id": "1"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	names, err := p.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestNewFileProviderValidation(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
	})
	t.Run("file not directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := NewFileProvider(path)
		require.Error(t, err)
	})
}
