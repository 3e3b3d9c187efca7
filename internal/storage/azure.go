package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// azureBackend talks to Azure Blob Storage over its REST surface with a
// pre-issued SAS token, which keeps the dependency footprint to a plain HTTP
// client.
type azureBackend struct {
	log       *logger.Logger
	http      *resty.Client
	account   string
	container string
	sasToken  string
}

func NewAzureBackend(log *logger.Logger) (Backend, error) {
	account := strings.TrimSpace(os.Getenv("AZURE_STORAGE_ACCOUNT"))
	container := strings.TrimSpace(os.Getenv("AZURE_STORAGE_CONTAINER"))
	sasToken := strings.TrimSpace(os.Getenv("AZURE_STORAGE_SAS_TOKEN"))
	if account == "" || container == "" || sasToken == "" {
		return nil, fmt.Errorf("missing AZURE_STORAGE_ACCOUNT / AZURE_STORAGE_CONTAINER / AZURE_STORAGE_SAS_TOKEN")
	}
	sasToken = strings.TrimPrefix(sasToken, "?")

	client := resty.New().
		SetTimeout(2 * time.Minute).
		SetRetryCount(0)

	return &azureBackend{
		log:       log.With("backend", "azure"),
		http:      client,
		account:   account,
		container: container,
		sasToken:  sasToken,
	}, nil
}

func (b *azureBackend) Name() string { return "azure" }

func (b *azureBackend) blobURL(path string) string {
	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", b.account, b.container, path)
}

func (b *azureBackend) Upload(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	url := b.blobURL(path)
	req := b.http.R().
		SetContext(ctx).
		SetHeader("x-ms-blob-type", "BlockBlob").
		SetHeader("x-ms-version", "2021-12-02").
		SetBody(data)
	if contentType != "" {
		req.SetHeader("Content-Type", contentType)
	}
	resp, err := req.Put(url + "?" + b.sasToken)
	if err != nil {
		return "", fmt.Errorf("put blob: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("put blob: http %d: %s", resp.StatusCode(), resp.String())
	}
	return url, nil
}

func (b *azureBackend) OwnsURL(url string) bool {
	prefix := fmt.Sprintf("https://%s.blob.core.windows.net/%s/", b.account, b.container)
	return strings.HasPrefix(url, prefix)
}

func (b *azureBackend) Delete(ctx context.Context, url string) error {
	resp, err := b.http.R().
		SetContext(ctx).
		SetHeader("x-ms-version", "2021-12-02").
		Delete(url + "?" + b.sasToken)
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete blob: http %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
