// Package uploader pushes product and category images to an external
// image host and returns their public display URLs. Drivers: imgbb
// (default), cloudinary, s3 — selected by UPLOAD_DRIVER.
package uploader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/pkg/logger"
	"github.com/allmart/storefront/pkg/metrics"
	"github.com/allmart/storefront/pkg/workerpool"
)

// File is one image to upload.
type File struct {
	Name    string
	Content []byte
}

// Uploader pushes one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
	Name() string
}

// ─── Manager ──────────────────────────────────────────────────────────────────

var (
	managerMu sync.RWMutex
	drivers   = map[string]Uploader{}
)

// Connect boots the configured upload drivers. Call once at startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	// imgbb is always registered; with no API key the host rejects the
	// upload, which surfaces as a normal upload error.
	drivers["imgbb"] = newImgbb()
	if config.CloudinaryURL() != "" {
		d, err := newCloudinary()
		if err != nil {
			logger.Warn("uploader: cloudinary disabled", "error", err)
		} else {
			drivers["cloudinary"] = d
		}
	}
	if config.StorageS3Bucket() != "" {
		d, err := newS3()
		if err != nil {
			logger.Warn("uploader: s3 disabled", "error", err)
		} else {
			drivers["s3"] = d
		}
	}
}

// Register plugs in a custom driver (tests use this).
func Register(name string, u Uploader) {
	managerMu.Lock()
	drivers[name] = u
	managerMu.Unlock()
}

// Default returns the driver named by UPLOAD_DRIVER.
func Default() (Uploader, error) {
	return Use(config.UploadDriver())
}

// Use returns a named driver.
func Use(name string) (Uploader, error) {
	managerMu.RLock()
	defer managerMu.RUnlock()

	u, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("uploader: driver %q is not configured", name)
	}
	return u, nil
}

// ─── Batch upload ─────────────────────────────────────────────────────────────

// Batch uploads files concurrently on the pool and returns their URLs in
// input order. All-or-nothing: any failure makes the whole batch fail
// and no partial results are returned.
func Batch(ctx context.Context, pool *workerpool.Pool, u Uploader, files []File) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	wg.Add(len(files))

	for i, f := range files {
		i, f := i, f
		if err := pool.SubmitWait(func() {
			defer wg.Done()
			urls[i], errs[i] = upload(ctx, u, f)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("uploader: batch failed on %q: %w", files[i].Name, err)
		}
	}
	return urls, nil
}

func upload(ctx context.Context, u Uploader, f File) (string, error) {
	start := time.Now()
	url, err := u.Upload(ctx, f)

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordUpload(u.Name(), status, start)

	return url, err
}
