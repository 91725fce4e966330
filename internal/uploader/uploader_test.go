package uploader_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/allmart/storefront/internal/uploader"
	"github.com/allmart/storefront/pkg/httpclient"
	"github.com/allmart/storefront/pkg/testkit"
	"github.com/allmart/storefront/pkg/workerpool"
)

// fakeDriver counts uploads and fails on names containing "bad".
type fakeDriver struct {
	calls atomic.Int64
}

func (f *fakeDriver) Name() string { return "fake" }

func (f *fakeDriver) Upload(_ context.Context, file uploader.File) (string, error) {
	f.calls.Add(1)
	if strings.Contains(file.Name, "bad") {
		return "", errors.New("host rejected file")
	}
	return "https://img.test/" + file.Name, nil
}

func TestBatch_PreservesOrder(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	files := []uploader.File{
		{Name: "one.jpg", Content: []byte("1")},
		{Name: "two.jpg", Content: []byte("2")},
		{Name: "three.jpg", Content: []byte("3")},
	}

	urls, err := uploader.Batch(context.Background(), pool, &fakeDriver{}, files)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	want := []string{
		"https://img.test/one.jpg",
		"https://img.test/two.jpg",
		"https://img.test/three.jpg",
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestBatch_AllOrNothing(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	files := []uploader.File{
		{Name: "good.jpg"},
		{Name: "bad.jpg"},
		{Name: "fine.jpg"},
	}

	urls, err := uploader.Batch(context.Background(), pool, &fakeDriver{}, files)
	if err == nil {
		t.Fatal("expected batch error")
	}
	if urls != nil {
		t.Errorf("expected no partial results, got %v", urls)
	}
}

func TestImgbb_ParsesDisplayURL(t *testing.T) {
	t.Setenv("IMGBB_ENDPOINT", "https://imgbb.test/upload")
	t.Setenv("IMGBB_API_KEY", "k1")

	mt := testkit.NewMockTransport().
		Stub(http.MethodPost, "https://imgbb.test/upload?key=k1", 200,
			`{"data":{"url":"https://i.ibb.co/x/raw.jpg","display_url":"https://i.ibb.co/x/shirt.jpg"},"success":true,"status":200}`)
	httpclient.DefaultClient.Transport = mt
	t.Cleanup(httpclient.ResetTransport)

	uploader.Connect()
	drv, err := uploader.Use("imgbb")
	if err != nil {
		t.Fatalf("Use(imgbb): %v", err)
	}

	url, err := drv.Upload(context.Background(), uploader.File{Name: "shirt.jpg", Content: []byte("jpg")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://i.ibb.co/x/shirt.jpg" {
		t.Errorf("url = %q, want display_url", url)
	}
}

func TestImgbb_RejectionIsError(t *testing.T) {
	t.Setenv("IMGBB_ENDPOINT", "https://imgbb.test/upload")
	t.Setenv("IMGBB_API_KEY", "k1")

	mt := testkit.NewMockTransport().
		Stub(http.MethodPost, "https://imgbb.test/upload?key=k1", 200,
			`{"success":false,"status":400}`)
	httpclient.DefaultClient.Transport = mt
	t.Cleanup(httpclient.ResetTransport)

	uploader.Connect()
	drv, err := uploader.Use("imgbb")
	if err != nil {
		t.Fatalf("Use(imgbb): %v", err)
	}

	if _, err := drv.Upload(context.Background(), uploader.File{Name: "a.jpg"}); err == nil {
		t.Error("expected error on rejected upload")
	}
}
