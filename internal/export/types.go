// Package export turns a project snapshot into one-way artifacts: a CMX
// 3600 EDL for conforming in an NLE, or an indented JSON document of the
// project. Artifacts are never read back.
package export

// Artifact formats.
const (
	FormatEDL  = "edl"
	FormatJSON = "json"
)

// Request describes one export.
type Request struct {
	ProjectName string `json:"project_name"`
	Format      string `json:"format"`
	OutputDir   string `json:"output_dir,omitempty"`
}

// Result reports where the artifact landed.
type Result struct {
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	ClipCount  int    `json:"clip_count"`
	SizeBytes  int64  `json:"size_bytes"`
}
