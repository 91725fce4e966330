package uploader

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/allmart/storefront/config"
	"github.com/allmart/storefront/pkg/httpclient"
)

// imgbb uploads via the imgbb REST API. The API key travels in the
// query string; the image goes as a multipart "image" part.
type imgbb struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
}

func newImgbb() *imgbb {
	return &imgbb{
		endpoint: config.ImgbbEndpoint(),
		apiKey:   config.ImgbbAPIKey(),
		timeout:  30 * time.Second,
	}
}

func (u *imgbb) Name() string { return "imgbb" }

// imgbbResponse is the subset of the API response we read.
type imgbbResponse struct {
	Data struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

func (u *imgbb) Upload(ctx context.Context, f File) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", f.Name)
	if err != nil {
		return "", fmt.Errorf("imgbb: build form: %w", err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return "", fmt.Errorf("imgbb: write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imgbb: close form: %w", err)
	}

	resp, err := httpclient.Post(u.endpoint+"?key="+url.QueryEscape(u.apiKey)).
		WithContext(ctx).
		Timeout(u.timeout).
		Stream(&body, mw.FormDataContentType()).
		Send()
	if err != nil {
		return "", fmt.Errorf("imgbb: upload: %w", err)
	}
	if err := resp.Throw(); err != nil {
		return "", err
	}

	var out imgbbResponse
	if err := resp.JSON(&out); err != nil {
		return "", err
	}
	if !out.Success || out.Data.DisplayURL == "" {
		return "", fmt.Errorf("imgbb: upload rejected (status %d)", out.Status)
	}
	return out.Data.DisplayURL, nil
}
