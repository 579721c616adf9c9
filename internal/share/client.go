// Package share delivers export artifacts to a configured endpoint. The
// agent's responsibility ends at the handoff: delivery is fire-and-forget
// from the editor's point of view.
package share

import (
	"context"
	"log/slog"

	"github.com/reelsmith/reelsmith-agent/internal/export"
)

// Client ships one export artifact.
type Client interface {
	ShareArtifact(ctx context.Context, result *export.Result, data []byte) error
}

// StubClient is the client used when no share endpoint is configured. It
// logs the handoff and declares success.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubClient{logger: logger}
}

func (c *StubClient) ShareArtifact(ctx context.Context, result *export.Result, data []byte) error {
	c.logger.Info("share stub: artifact handoff requested",
		"format", result.Format, "path", result.OutputPath, "bytes", len(data))
	return nil
}
