package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

const maxNameLen = 64

// Exporter writes artifacts under a default directory, overridable per
// request.
type Exporter struct {
	defaultDir string
	frameRate  float64
	logger     *slog.Logger
	now        func() time.Time
}

func NewExporter(defaultDir string, frameRate float64, logger *slog.Logger) *Exporter {
	if frameRate <= 0 {
		frameRate = 30
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		defaultDir: defaultDir,
		frameRate:  frameRate,
		logger:     logger,
		now:        time.Now,
	}
}

// Export renders the snapshot in the requested format and writes it to
// disk. The snapshot is a detached copy; nothing here reaches the store.
func (e *Exporter) Export(snap timeline.ProjectSnapshot, req Request) (*Result, error) {
	dir := req.OutputDir
	if dir == "" {
		dir = e.defaultDir
	}
	if err := ValidateOutputDir(dir); err != nil {
		return nil, err
	}

	name := SanitizeName(req.ProjectName, maxNameLen)
	if name == "" {
		name = "untitled"
	}
	title := name

	var data []byte
	var ext string
	switch req.Format {
	case FormatEDL:
		data = []byte(GenerateEDL(snap, title, e.frameRate))
		ext = "edl"
	case FormatJSON:
		var err error
		data, err = GenerateJSON(snap, title, e.frameRate)
		if err != nil {
			return nil, err
		}
		ext = "json"
	default:
		return nil, fmt.Errorf("unknown export format %q", req.Format)
	}

	filename := fmt.Sprintf("%s_%s.%s", name, e.now().UTC().Format("20060102_150405"), ext)
	outPath := filepath.Join(dir, filename)
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	e.logger.Info("export written",
		"format", req.Format, "path", outPath, "clips", len(snap.Clips))

	return &Result{
		Format:     req.Format,
		OutputPath: outPath,
		ClipCount:  len(snap.Clips),
		SizeBytes:  int64(len(data)),
	}, nil
}
