package module

import (
	"fmt"

	"github.com/kingrea/searchbridge/internal/artifact"
)

// Info describes a generator's identity.
type Info struct {
	ID          string
	Name        string
	Description string
	Version     string
}

// Validate ensures the info block is well-formed.
func (i Info) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("module: id is required")
	}
	if i.Name == "" {
		return fmt.Errorf("module: name is required for %s", i.ID)
	}
	if i.Version == "" {
		return fmt.Errorf("module: version is required for %s", i.ID)
	}
	return nil
}

// Result captures the outcome of one generator run.
type Result struct {
	ModuleID string
	Status   Status
	Path     string
	Err      error
}

// Status enumerates generator run outcomes.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Module is implemented by every artifact generator.
type Module interface {
	Info() Info
	Outputs() []artifact.ArtifactRef
	Run(ctx *Context) (Result, error)
}
