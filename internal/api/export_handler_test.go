package api

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/reelsmith/reelsmith-agent/internal/timeline"
)

func TestExportEDL(t *testing.T) {
	h := newHarness(t)
	h.store.AddMedia(timeline.AssetRef{Key: "a.mp4", Name: "Clip A", ContentType: "video/mp4"})

	rr := h.request(t, http.MethodPost, "/api/v1/export",
		strings.NewReader(`{"project_name":"My Reel","format":"edl"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	if body["format"] != "edl" {
		t.Errorf("format = %v", body["format"])
	}
	outputPath, _ := body["output_path"].(string)
	if outputPath == "" {
		t.Fatal("output_path missing")
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(data), "TITLE: My Reel") {
		t.Errorf("artifact missing title: %q", data)
	}
}

func TestExportJSON(t *testing.T) {
	h := newHarness(t)
	h.store.AddText()

	rr := h.request(t, http.MethodPost, "/api/v1/export",
		strings.NewReader(`{"project_name":"Doc","format":"json"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	body := decodeJSONBody(t, rr)
	if got := body["clip_count"].(float64); got != 1 {
		t.Errorf("clip_count = %v, want 1", got)
	}
}

func TestExportEmptyTimeline(t *testing.T) {
	h := newHarness(t)

	rr := h.request(t, http.MethodPost, "/api/v1/export",
		strings.NewReader(`{"project_name":"Empty","format":"edl"}`))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 for empty timeline", rr.Code)
	}
	body := decodeJSONBody(t, rr)
	if body["code"] != "EMPTY_TIMELINE" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestExportBadFormat(t *testing.T) {
	h := newHarness(t)
	h.store.AddText()

	rr := h.request(t, http.MethodPost, "/api/v1/export",
		strings.NewReader(`{"project_name":"X","format":"xml"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown format", rr.Code)
	}
}

func TestExportBadBody(t *testing.T) {
	h := newHarness(t)

	rr := h.request(t, http.MethodPost, "/api/v1/export", strings.NewReader("{not json"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for malformed body", rr.Code)
	}
}

func TestExportWithShare(t *testing.T) {
	h := newHarness(t)
	h.store.AddText()

	rr := h.request(t, http.MethodPost, "/api/v1/export",
		strings.NewReader(`{"project_name":"Shared","format":"edl","share":true}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	body := decodeJSONBody(t, rr)
	if shared, _ := body["shared"].(bool); !shared {
		t.Errorf("shared = %v, want true via stub client", body["shared"])
	}
}
