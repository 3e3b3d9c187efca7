package storage

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

type fakeBackend struct {
	name    string
	prefix  string
	failUp  bool
	deleted []string
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Upload(_ context.Context, _ []byte, path string, _ string) (string, error) {
	if f.failUp {
		return "", fmt.Errorf("%s is down", f.name)
	}
	return f.prefix + path, nil
}

func (f *fakeBackend) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeBackend) OwnsURL(url string) bool {
	return strings.HasPrefix(url, f.prefix)
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return log
}

func TestUploadUsesPrimary(t *testing.T) {
	primary := &fakeBackend{name: "gcs", prefix: "https://gcs.example/"}
	secondary := &fakeBackend{name: "azure", prefix: "https://azure.example/"}
	svc, err := NewWithBackends(testLog(t), primary, secondary)
	require.NoError(t, err)

	url, provider, err := svc.Upload(context.Background(), []byte("img"), "a/b.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://gcs.example/a/b.png", url)
	assert.Equal(t, "gcs", provider)
}

func TestUploadFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeBackend{name: "gcs", prefix: "https://gcs.example/", failUp: true}
	secondary := &fakeBackend{name: "azure", prefix: "https://azure.example/"}
	svc, err := NewWithBackends(testLog(t), primary, secondary)
	require.NoError(t, err)

	url, provider, err := svc.Upload(context.Background(), []byte("img"), "a/b.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://azure.example/a/b.png", url)
	assert.Equal(t, "azure", provider)

	// The fallback URL routes back to the backend that produced it.
	deleted, err := svc.Delete(context.Background(), url)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{url}, secondary.deleted)
	assert.Empty(t, primary.deleted)
}

func TestUploadAllBackendsFail(t *testing.T) {
	primary := &fakeBackend{name: "gcs", prefix: "https://gcs.example/", failUp: true}
	secondary := &fakeBackend{name: "azure", prefix: "https://azure.example/", failUp: true}
	svc, err := NewWithBackends(testLog(t), primary, secondary)
	require.NoError(t, err)

	_, _, err = svc.Upload(context.Background(), []byte("img"), "a/b.png", "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary gcs")
	assert.Contains(t, err.Error(), "gcs is down")
	assert.Contains(t, err.Error(), "azure is down")
}

func TestDeleteUnknownURLIsNoOp(t *testing.T) {
	primary := &fakeBackend{name: "gcs", prefix: "https://gcs.example/"}
	svc, err := NewWithBackends(testLog(t), primary)
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), "https://elsewhere.example/blob.png")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, primary.deleted)
}

func TestNewWithBackendsRequiresOne(t *testing.T) {
	_, err := NewWithBackends(testLog(t))
	assert.Error(t, err)
}
