package share

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/export"
)

// UploadError is a non-2xx response from the share endpoint.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("artifact share failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx) and network errors.
// Client errors (4xx) are considered permanent.
func (e *UploadError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// sharePayload is the wire form of one artifact delivery.
type sharePayload struct {
	Filename  string `json:"filename"`
	Format    string `json:"format"`
	ClipCount int    `json:"clip_count"`
	SizeBytes int64  `json:"size_bytes"`
	Content   []byte `json:"content"`
}

type shareResponse struct {
	ArtifactID string `json:"artifact_id"`
	URL        string `json:"url"`
}

// HTTPClient POSTs artifacts to a share endpoint with a bearer token.
type HTTPClient struct {
	baseURL    string
	token      string
	deviceID   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(baseURL, token string, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

func (c *HTTPClient) SetDeviceID(id string) {
	c.deviceID = id
}

func (c *HTTPClient) ShareArtifact(ctx context.Context, result *export.Result, data []byte) error {
	body, err := json.Marshal(sharePayload{
		Filename:  filepath.Base(result.OutputPath),
		Format:    result.Format,
		ClipCount: result.ClipCount,
		SizeBytes: result.SizeBytes,
		Content:   data,
	})
	if err != nil {
		return fmt.Errorf("marshal share payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/artifacts", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Reelsmith-Request-Id", generateRequestID())
	if c.deviceID != "" {
		req.Header.Set("X-Reelsmith-Device-Id", c.deviceID)
	}

	c.logger.Info("sharing artifact",
		"url", url,
		"format", result.Format,
		"body_bytes", len(body),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out shareResponse
		if err := json.Unmarshal(respBody, &out); err == nil && out.ArtifactID != "" {
			c.logger.Info("artifact shared",
				"artifact_id", out.ArtifactID,
				"url", out.URL,
			)
		}
		return nil
	}

	return &UploadError{StatusCode: resp.StatusCode, Body: string(respBody)}
}

func generateRequestID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:])
}
