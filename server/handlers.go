// ABOUTME: REST handlers for the run lifecycle: start, list, snapshot, cancel,
// ABOUTME: artifact download, and Markdown preview rendering via goldmark.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/2389-research/qaforge/runner"
	"github.com/2389-research/qaforge/store"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

// maxScriptBytes bounds uploaded test scripts.
const maxScriptBytes = 1 << 20

type startRunRequest struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
}

type runSummary struct {
	RunID      string    `json:"run_id"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	Complexity int       `json:"complexity"`
	Coverage   float64   `json:"coverage,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxScriptBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}
	if len(body) > maxScriptBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "script too large")
		return
	}

	var req startRunRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Filename == "" {
		req.Filename = "test_script.js"
	}

	runID := runner.NewRunID()
	// Open the stream before starting so no events are missed.
	s.broker.Open(runID)
	if err := s.runner.Start(runID, req.Code, req.Filename); err != nil {
		if errors.Is(err, runner.ErrDuplicateRun) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		log.Printf("starting run %s: %v", runID, err)
		writeError(w, http.StatusInternalServerError, "failed to start run")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID,
		"status": string(runner.StatusQueued),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries := make([]runSummary, 0)
	seen := make(map[string]bool)

	for _, snap := range s.runner.List() {
		sum := runSummary{
			RunID:     snap.RunID,
			Filename:  snap.Filename,
			Status:    string(snap.Status),
			CreatedAt: snap.CreatedAt,
		}
		if snap.Analysis != nil {
			sum.Complexity = snap.Analysis.ComplexityScore
		}
		summaries = append(summaries, sum)
		seen[snap.RunID] = true
	}

	// Runs from earlier processes live only in the index.
	recs, err := s.index.ListRuns()
	if err != nil {
		log.Printf("listing indexed runs: %v", err)
	}
	for _, rec := range recs {
		if seen[rec.RunID] {
			continue
		}
		summaries = append(summaries, indexSummary(rec))
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

func indexSummary(rec store.RunRecord) runSummary {
	return runSummary{
		RunID:      rec.RunID,
		Filename:   rec.Filename,
		Status:     rec.Status,
		Complexity: rec.Complexity,
		Coverage:   rec.Coverage,
		CreatedAt:  rec.CreatedAt,
	}
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	snap, ok := s.runner.Get(runID)
	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if s.runner.Cancel(runID) {
		writeJSON(w, http.StatusOK, map[string]string{"run_id": runID, "status": "cancelling"})
		return
	}
	if _, ok := s.runner.Get(runID); !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeError(w, http.StatusConflict, "run already finished")
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	name := chi.URLParam(r, "name")

	path, status, msg := s.artifactPath(runID, name)
	if path == "" {
		writeError(w, status, msg)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("reading artifact %s for %s: %v", name, runID, err)
		writeError(w, http.StatusInternalServerError, "failed to read artifact")
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// previewPage wraps rendered Markdown in a minimal HTML shell.
var previewPage = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>{{.Body}}</body>
</html>
`))

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	name := chi.URLParam(r, "name")

	if !strings.HasSuffix(name, ".md") {
		writeError(w, http.StatusBadRequest, "preview supports Markdown artifacts only")
		return
	}

	path, status, msg := s.artifactPath(runID, name)
	if path == "" {
		writeError(w, status, msg)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("reading artifact %s for %s: %v", name, runID, err)
		writeError(w, http.StatusInternalServerError, "failed to read artifact")
		return
	}

	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert(data, &buf); err != nil {
		log.Printf("rendering %s for %s: %v", name, runID, err)
		writeError(w, http.StatusInternalServerError, "failed to render artifact")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = previewPage.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: name, Body: template.HTML(buf.String())})
}

// artifactPath resolves an artifact name to its saved path for a run.
// Returns an empty path with an HTTP status and message on failure.
func (s *Server) artifactPath(runID, name string) (string, int, string) {
	snap, ok := s.runner.Get(runID)
	if !ok {
		return "", http.StatusNotFound, "run not found"
	}
	path, ok := snap.Artifacts[name]
	if !ok {
		return "", http.StatusNotFound, fmt.Sprintf("artifact %q not found", name)
	}
	return path, 0, ""
}

func contentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".md"):
		return "text/markdown; charset=utf-8"
	case strings.HasSuffix(name, ".js"):
		return "text/javascript; charset=utf-8"
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
