package stream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
)

type fakeBin struct {
	getFn        func(ctx context.Context, id string) (*assets.Asset, error)
	localPathFn  func(ctx context.Context, id string) (string, error)
	refreshURLFn func(ctx context.Context, id string) (*assets.Asset, error)
}

func (f *fakeBin) Get(ctx context.Context, id string) (*assets.Asset, error) {
	return f.getFn(ctx, id)
}

func (f *fakeBin) LocalPath(ctx context.Context, id string) (string, error) {
	return f.localPathFn(ctx, id)
}

func (f *fakeBin) RefreshURL(ctx context.Context, id string) (*assets.Asset, error) {
	return f.refreshURLFn(ctx, id)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func localBin(t *testing.T, content string) (*fakeBin, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return &fakeBin{
		getFn: func(ctx context.Context, id string) (*assets.Asset, error) {
			return &assets.Asset{ID: id, ContentType: "video/mp4"}, nil
		},
		localPathFn: func(ctx context.Context, id string) (string, error) {
			return path, nil
		},
		refreshURLFn: func(ctx context.Context, id string) (*assets.Asset, error) {
			t.Fatal("RefreshURL called for local asset")
			return nil, nil
		},
	}, path
}

func serve(t *testing.T, bin Bin, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(bin, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/stream/abc", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	w := httptest.NewRecorder()
	if err := srv.ServeAsset(w, req, "abc"); err != nil {
		t.Fatalf("ServeAsset: %v", err)
	}
	return w
}

func TestServeLocalFull(t *testing.T) {
	bin, _ := localBin(t, "0123456789")

	w := serve(t, bin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "0123456789" {
		t.Errorf("body = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q", ct)
	}
	if ar := w.Header().Get("Accept-Ranges"); ar != "bytes" {
		t.Errorf("Accept-Ranges = %q", ar)
	}
}

func TestServeLocalPartial(t *testing.T) {
	bin, _ := localBin(t, "0123456789")

	w := serve(t, bin, "bytes=2-5")
	if w.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want 206", w.Code)
	}
	if got := w.Body.String(); got != "2345" {
		t.Errorf("body = %q, want 2345", got)
	}
	if cr := w.Header().Get("Content-Range"); cr != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", cr)
	}
	if cl := w.Header().Get("Content-Length"); cl != "4" {
		t.Errorf("Content-Length = %q", cl)
	}
}

func TestServeLocalUnsatisfiable(t *testing.T) {
	bin, _ := localBin(t, "0123456789")

	w := serve(t, bin, "bytes=100-")
	if w.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want 416", w.Code)
	}
	if cr := w.Header().Get("Content-Range"); cr != "bytes */10" {
		t.Errorf("Content-Range = %q", cr)
	}
}

func TestServeLocalInvalidRangeFallsBack(t *testing.T) {
	bin, _ := localBin(t, "0123456789")

	w := serve(t, bin, "chars=0-5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 full body for malformed range", w.Code)
	}
	if got := w.Body.String(); got != "0123456789" {
		t.Errorf("body = %q", got)
	}
}

func TestServeRemoteRedirects(t *testing.T) {
	bin := &fakeBin{
		getFn: func(ctx context.Context, id string) (*assets.Asset, error) {
			return &assets.Asset{ID: id, ContentType: "video/mp4"}, nil
		},
		localPathFn: func(ctx context.Context, id string) (string, error) {
			return "", assets.ErrNotLocal
		},
		refreshURLFn: func(ctx context.Context, id string) (*assets.Asset, error) {
			return &assets.Asset{ID: id, URL: "https://signed.example/clip.mp4"}, nil
		},
	}

	w := serve(t, bin, "")
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://signed.example/clip.mp4" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeUnknownAsset(t *testing.T) {
	bin := &fakeBin{
		getFn: func(ctx context.Context, id string) (*assets.Asset, error) {
			return nil, assets.ErrNotFound
		},
	}

	w := serve(t, bin, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestServeVanishedFile(t *testing.T) {
	bin, path := localBin(t, "0123456789")
	os.Remove(path)

	w := serve(t, bin, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for vanished file", w.Code)
	}
}
