package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lms/config"
	"lms/services"

	"github.com/go-resty/resty/v2"
)

// BlobStorage stores byte buffers either through the remote storage API or,
// when no STORAGE_BASE_URL is configured, on local disk under UPLOAD_DIR.
type BlobStorage struct {
	client *resty.Client
}

func NewBlobStorage() *BlobStorage {
	return &BlobStorage{client: resty.New()}
}

// Store implements services.BlobStore
func (s *BlobStorage) Store(ctx context.Context, data []byte, name, mimeType, folder string) (services.StoredFile, error) {
	if config.AppConfig.StorageBaseURL == "" {
		return s.storeLocal(data, name, folder)
	}

	var uploadResp struct {
		URL string `json:"url"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+config.AppConfig.StorageAPIKey).
		SetFileReader("file", name, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"bucket":       config.AppConfig.StorageBucket,
			"folder":       folder,
			"content_type": mimeType,
		}).
		SetResult(&uploadResp).
		Post(config.AppConfig.StorageBaseURL + "/objects")
	if err != nil {
		return services.StoredFile{}, fmt.Errorf("storage upload failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return services.StoredFile{}, fmt.Errorf("storage API error: %s", resp.String())
	}

	return services.StoredFile{URL: uploadResp.URL, Provider: "remote"}, nil
}

// storeLocal writes to disk with a unique filename under the upload dir,
// served from /uploads.
func (s *BlobStorage) storeLocal(data []byte, name, folder string) (services.StoredFile, error) {
	destDir := filepath.Join(config.AppConfig.UploadDir, folder)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return services.StoredFile{}, err
	}

	ext := filepath.Ext(name)
	newFilename := time.Now().Format("20060102150405") + "-" + name[:len(name)-len(ext)] + ext
	filePath := filepath.Join(destDir, newFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return services.StoredFile{}, err
	}

	return services.StoredFile{
		URL:      "/uploads/" + folder + "/" + newFilename,
		Provider: "local",
	}, nil
}
