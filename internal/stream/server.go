// Package stream serves registered media over HTTP with Range support, so
// the editor's video element can seek without downloading whole files.
package stream

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge-agent/internal/media"
)

type MediaStreamer interface {
	ServeMedia(w http.ResponseWriter, r *http.Request, item *media.Item) error
}

type Server struct {
	logger *slog.Logger
}

func NewServer(logger *slog.Logger) *Server {
	return &Server{logger: logger}
}

// ServeMedia streams a registered media item. Local files are served with
// byte-range support; remote URLs are redirected to their source.
func (s *Server) ServeMedia(w http.ResponseWriter, r *http.Request, item *media.Item) error {
	path, remote := resolveURL(item.URL)
	if remote {
		http.Redirect(w, r, item.URL, http.StatusTemporaryRedirect)
		return nil
	}
	if path == "" {
		http.Error(w, "media has no servable location", http.StatusUnprocessableEntity)
		return nil
	}
	return s.serveFile(w, r, path)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "file not found", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	span, err := ParseRange(r.Header.Get("Range"), size)

	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if err != nil && err != ErrInvalidRange {
		return err
	}

	// Malformed Range headers fall through to a full response, matching
	// what net/http does.
	if span == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", span.Length()))
	w.Header().Set("Content-Range", span.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(span.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	io.CopyN(w, file, span.Length())
	return nil
}

// resolveURL maps a registered media URL to a local filesystem path.
// Returns remote=true for http(s) URLs, which cannot be range-served here.
func resolveURL(raw string) (path string, remote bool) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return "", true
	}
	if strings.HasPrefix(raw, "file://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		return u.Path, false
	}
	if filepath.IsAbs(raw) {
		return raw, false
	}
	return "", false
}
