// ABOUTME: RunDirectory manages the per-run directory layout for analysis runs.
// ABOUTME: Routes each artifact into a category subdirectory and is the single persistence sink.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// artifact category subdirectories created for every run.
var runSubdirs = []string{"features", "tests", "reports", "coverage", "execution_logs"}

// RunDirectory represents the directory structure for a single run.
type RunDirectory struct {
	BaseDir string
	RunID   string
}

// NewRunDirectory creates the run directory structure at baseDir/runID.
func NewRunDirectory(baseDir, runID string) (*RunDirectory, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir must not be empty")
	}
	if runID == "" {
		return nil, fmt.Errorf("runID must not be empty")
	}

	rd := &RunDirectory{
		BaseDir: filepath.Join(baseDir, runID),
		RunID:   runID,
	}

	for _, sub := range runSubdirs {
		if err := os.MkdirAll(filepath.Join(rd.BaseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating run directory structure: %w", err)
		}
	}

	return rd, nil
}

// subdirFor maps an artifact filename to its category subdirectory.
func subdirFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".feature"):
		return "features"
	case strings.HasSuffix(name, ".spec.js"), strings.HasSuffix(name, ".test.js"):
		return "tests"
	case strings.HasPrefix(name, "coverage"):
		return "coverage"
	case strings.HasPrefix(name, "execution"):
		return "execution_logs"
	default:
		return "reports"
	}
}

// sanitizeArtifactName strips path separators so artifact names cannot
// escape the run directory.
func sanitizeArtifactName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return r.Replace(name)
}

// SaveArtifact writes an artifact into its category subdirectory and
// returns the path it was written to.
func (rd *RunDirectory) SaveArtifact(name string, content []byte) (string, error) {
	if name == "" {
		return "", fmt.Errorf("artifact name must not be empty")
	}
	safe := sanitizeArtifactName(name)
	path := filepath.Join(rd.BaseDir, subdirFor(safe), safe)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact %s: %w", safe, err)
	}
	return path, nil
}

// ReadArtifact reads a previously saved artifact by name.
func (rd *RunDirectory) ReadArtifact(name string) ([]byte, error) {
	safe := sanitizeArtifactName(name)
	data, err := os.ReadFile(filepath.Join(rd.BaseDir, subdirFor(safe), safe))
	if err != nil {
		return nil, fmt.Errorf("reading artifact %s: %w", safe, err)
	}
	return data, nil
}

// ListArtifacts returns the names of all saved artifacts across categories.
func (rd *RunDirectory) ListArtifacts() ([]string, error) {
	var names []string
	for _, sub := range runSubdirs {
		entries, err := os.ReadDir(filepath.Join(rd.BaseDir, sub))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
	}
	return names, nil
}
