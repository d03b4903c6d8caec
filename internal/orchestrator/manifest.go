package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/module"
)

const (
	statusPrepared  = "prepared"
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Manifest is the run.json record kept next to the engine output.
type Manifest struct {
	Status    string          `json:"status"`
	UpdatedAt string          `json:"updatedAt"`
	Protease  string          `json:"protease"`
	Missed    int             `json:"missedCleavages"`
	Artifacts []manifestEntry `json:"artifacts"`
	Command   []string        `json:"command,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type manifestEntry struct {
	Module string `json:"module"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

func writeManifest(run *Run, status string, cause error) error {
	manifest := Manifest{
		Status:    status,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Protease:  run.Digestion.ProteaseName,
		Missed:    run.Digestion.MissedCleavages,
	}
	manifest.Artifacts = make([]manifestEntry, 0, len(run.Results))
	for _, res := range run.Results {
		manifest.Artifacts = append(manifest.Artifacts, manifestEntry{
			Module: res.ModuleID,
			Status: string(res.Status),
			Path:   res.Path,
		})
	}
	if run.Invocation != nil {
		manifest.Command = append([]string(nil), run.Invocation.Args...)
	}
	if cause != nil {
		manifest.Error = cause.Error()
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(run.Store.Path(artifact.RunManifest), append(data, '\n'), 0o644)
}

// ReadManifest loads the run.json of a working directory.
func ReadManifest(workDir string) (Manifest, error) {
	path := artifact.RunManifest.Path(artifact.Layout{WorkDir: workDir})
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("orchestrator: parse %s: %w", path, err)
	}
	return manifest, nil
}

// Completed reports whether every generator finished.
func (m Manifest) Completed() bool {
	for _, entry := range m.Artifacts {
		if entry.Status != string(module.StatusCompleted) {
			return false
		}
	}
	return len(m.Artifacts) > 0
}
