package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/reelsmith/reelsmith-agent/internal/assets"
)

// Bin is the slice of the asset service the stream server reads.
type Bin interface {
	Get(ctx context.Context, id string) (*assets.Asset, error)
	LocalPath(ctx context.Context, id string) (string, error)
	RefreshURL(ctx context.Context, id string) (*assets.Asset, error)
}

// Server streams bin assets. Local assets are range-served off disk;
// remote assets redirect to a freshly presigned URL so the player pulls
// straight from object storage.
type Server struct {
	bin    Bin
	logger *slog.Logger
}

func NewServer(bin Bin, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{bin: bin, logger: logger}
}

// ServeAsset handles one stream request for the asset id.
func (s *Server) ServeAsset(w http.ResponseWriter, r *http.Request, id string) error {
	asset, err := s.bin.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return nil
		}
		return err
	}

	path, err := s.bin.LocalPath(r.Context(), id)
	switch {
	case err == nil:
		return s.serveFile(w, r, path, asset.ContentType)
	case errors.Is(err, assets.ErrNotLocal):
		return s.redirectRemote(w, r, id)
	case errors.Is(err, assets.ErrNotFound):
		http.Error(w, "media file missing", http.StatusNotFound)
		return nil
	default:
		return err
	}
}

func (s *Server) redirectRemote(w http.ResponseWriter, r *http.Request, id string) error {
	asset, err := s.bin.RefreshURL(r.Context(), id)
	if err != nil {
		return fmt.Errorf("refresh url: %w", err)
	}
	if asset.URL == "" {
		http.Error(w, "asset has no streamable location", http.StatusNotFound)
		return nil
	}
	http.Redirect(w, r, asset.URL, http.StatusTemporaryRedirect)
	return nil
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "media file missing", http.StatusNotFound)
			return nil
		}
		return fmt.Errorf("open media: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat media: %w", err)
	}
	size := stat.Size()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	br, err := ParseRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	// A malformed Range header degrades to a full-body response.
	if err != nil && err != ErrInvalidRange {
		return err
	}

	if br == nil {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
		w.WriteHeader(http.StatusOK)
		io.Copy(w, file)
		return nil
	}

	w.Header().Set("Content-Length", fmt.Sprintf("%d", br.ContentLength()))
	w.Header().Set("Content-Range", br.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(br.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seek media: %w", err)
	}
	io.CopyN(w, file, br.ContentLength())
	return nil
}
