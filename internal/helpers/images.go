package helpers

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

const ReferenceImageFolder = "bookings"

const (
	uploadTimeout = 30 * time.Second
	uploadDelay   = 300 * time.Millisecond
)

var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg);base64,(.+)$`)

// UploadStrategy is one way of getting image bytes to a public URL.
// Strategies are tried in order until one succeeds.
type UploadStrategy interface {
	Name() string
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// SupabaseStorageStrategy uploads to Supabase storage, trying the configured
// buckets in sequence.
type SupabaseStorageStrategy struct {
	client  *storage.Client
	buckets []string
}

func NewSupabaseStorageStrategy(client *storage.Client, buckets []string) *SupabaseStorageStrategy {
	return &SupabaseStorageStrategy{client: client, buckets: buckets}
}

func (s *SupabaseStorageStrategy) Name() string { return "supabase-storage" }

func (s *SupabaseStorageStrategy) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	var lastErr error
	for _, bucket := range s.buckets {
		_, err := s.client.UploadFile(bucket, path, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
		})
		if err != nil {
			lastErr = fmt.Errorf("bucket %s: %v", bucket, err)
			continue
		}
		return s.client.GetPublicUrl(bucket, path).SignedURL, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no storage buckets configured")
	}
	return "", lastErr
}

// CloudinaryStrategy is the secondary store.
type CloudinaryStrategy struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStrategy(cld *cloudinary.Cloudinary) *CloudinaryStrategy {
	return &CloudinaryStrategy{cld: cld}
}

func (c *CloudinaryStrategy) Name() string { return "cloudinary" }

func (c *CloudinaryStrategy) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	publicID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   ReferenceImageFolder,
		PublicID: publicID,
		Tags:     []string{"utsav-app"},
	})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL for %s", path)
	}
	return result.SecureURL, nil
}

// LocalDiskStrategy writes under the uploads dir and returns a relative URL.
// Development only.
type LocalDiskStrategy struct {
	dir string
}

func NewLocalDiskStrategy(dir string) *LocalDiskStrategy {
	return &LocalDiskStrategy{dir: dir}
}

func (l *LocalDiskStrategy) Name() string { return "local-disk" }

func (l *LocalDiskStrategy) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	fullPath := filepath.Join(l.dir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads dir: %v", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %v", fullPath, err)
	}
	return "/" + filepath.ToSlash(filepath.Join(l.dir, path)), nil
}

// Ingestor decodes base64 reference images and uploads each through the
// strategy list, best-effort. A per-image failure drops that image only.
type Ingestor struct {
	strategies []UploadStrategy
	timeout    time.Duration
	delay      time.Duration
	logger     *slog.Logger
}

func NewIngestor(strategies []UploadStrategy, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		strategies: strategies,
		timeout:    uploadTimeout,
		delay:      uploadDelay,
		logger:     logger,
	}
}

// Ingest returns the public URLs of the images that uploaded successfully.
// The result never contains empty entries; malformed payloads and failed
// uploads are skipped and logged.
func (ing *Ingestor) Ingest(ctx context.Context, images []string) []string {
	urls := []string{}
	for i, raw := range images {
		if i > 0 {
			// Throttle successive uploads to stay under provider rate limits.
			time.Sleep(ing.delay)
		}

		match := dataURIPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if match == nil {
			ing.logger.Warn("skipping malformed image payload", "operation", "Ingest", "index", i)
			continue
		}

		data, err := base64.StdEncoding.DecodeString(match[2])
		if err != nil {
			ing.logger.Warn("skipping undecodable image payload", "operation", "Ingest", "index", i, "error", err)
			continue
		}

		ext := match[1]
		if ext == "jpeg" {
			ext = "jpg"
		}
		path := fmt.Sprintf("%s/%s.%s", ReferenceImageFolder, uuid.New().String(), ext)
		contentType := "image/" + match[1]

		if url := ing.uploadWithFallback(ctx, path, data, contentType); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

type uploadResult struct {
	url string
	err error
}

func (ing *Ingestor) uploadWithFallback(ctx context.Context, path string, data []byte, contentType string) string {
	for _, strategy := range ing.strategies {
		resultChan := make(chan uploadResult, 1)
		go func(strategy UploadStrategy) {
			url, err := strategy.Upload(ctx, path, data, contentType)
			resultChan <- uploadResult{url: url, err: err}
		}(strategy)

		select {
		case result := <-resultChan:
			if result.err == nil {
				return result.url
			}
			ing.logger.Warn("image upload failed",
				"operation", "uploadWithFallback",
				"strategy", strategy.Name(),
				"path", path,
				"error", result.err,
			)
		case <-time.After(ing.timeout):
			ing.logger.Warn("image upload timed out",
				"operation", "uploadWithFallback",
				"strategy", strategy.Name(),
				"path", path,
			)
		}
	}
	return ""
}
