package stream

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipforge/clipforge-agent/internal/media"
)

func writeTestMedia(t *testing.T, content string) *media.Item {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return &media.Item{
		ID:        "m1",
		Type:      media.TypeVideo,
		URL:       "file://" + path,
		Duration:  10,
		Name:      "Clip",
		CreatedAt: time.Now().UTC(),
	}
}

func TestServeMedia_FullFile(t *testing.T) {
	srv := NewServer(nil)
	item := writeTestMedia(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "0123456789" {
		t.Errorf("body = %q, want full content", rec.Body.String())
	}
	if rec.Header().Get("Accept-Ranges") != "bytes" {
		t.Error("Accept-Ranges header missing")
	}
	if rec.Header().Get("Content-Type") != "video/mp4" {
		t.Errorf("Content-Type = %s, want video/mp4", rec.Header().Get("Content-Type"))
	}
}

func TestServeMedia_PartialContent(t *testing.T) {
	srv := NewServer(nil)
	item := writeTestMedia(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusPartialContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusPartialContent)
	}
	if rec.Body.String() != "2345" {
		t.Errorf("body = %q, want 2345", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %s, want bytes 2-5/10", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "4" {
		t.Errorf("Content-Length = %s, want 4", got)
	}
}

func TestServeMedia_UnsatisfiableRange(t *testing.T) {
	srv := NewServer(nil)
	item := writeTestMedia(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	req.Header.Set("Range", "bytes=100-")
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestedRangeNotSatisfiable)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes */10" {
		t.Errorf("Content-Range = %s, want bytes */10", got)
	}
}

func TestServeMedia_MalformedRangeFallsBackToFull(t *testing.T) {
	srv := NewServer(nil)
	item := writeTestMedia(t, "0123456789")

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	req.Header.Set("Range", "chars=0-5")
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "0123456789" {
		t.Errorf("body = %q, want full content", rec.Body.String())
	}
}

func TestServeMedia_MissingFile(t *testing.T) {
	srv := NewServer(nil)
	item := &media.Item{ID: "m1", Type: media.TypeVideo, URL: "file:///nonexistent/clip.mp4"}

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeMedia_RemoteRedirect(t *testing.T) {
	srv := NewServer(nil)
	item := &media.Item{ID: "m1", Type: media.TypeVideo, URL: "https://cdn.example.com/clip.mp4"}

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()

	if err := srv.ServeMedia(rec, req, item); err != nil {
		t.Fatalf("ServeMedia() error = %v", err)
	}

	if rec.Code != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	if got := rec.Header().Get("Location"); got != item.URL {
		t.Errorf("Location = %s, want %s", got, item.URL)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantPath   string
		wantRemote bool
	}{
		{"file url", "file:///videos/a.mp4", "/videos/a.mp4", false},
		{"absolute path", "/videos/a.mp4", "/videos/a.mp4", false},
		{"https url", "https://cdn.example.com/a.mp4", "", true},
		{"http url", "http://cdn.example.com/a.mp4", "", true},
		{"relative path", "videos/a.mp4", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, remote := resolveURL(tt.raw)
			if path != tt.wantPath || remote != tt.wantRemote {
				t.Errorf("resolveURL(%s) = (%q, %v), want (%q, %v)", tt.raw, path, remote, tt.wantPath, tt.wantRemote)
			}
		})
	}
}
