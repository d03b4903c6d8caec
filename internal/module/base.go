package module

import "github.com/kingrea/searchbridge/internal/artifact"

// Base provides common plumbing for modules (identity + output contract).
type Base struct {
	info    Info
	outputs []artifact.ArtifactRef
}

// NewBase seeds the helper with module info.
func NewBase(info Info) Base {
	return Base{info: info}
}

// SetOutputs declares the produced artifacts.
func (b *Base) SetOutputs(refs ...artifact.ArtifactRef) {
	b.outputs = append([]artifact.ArtifactRef{}, refs...)
}

// Info implements Module.Info.
func (b *Base) Info() Info {
	return b.info
}

// Outputs implements Module.Outputs.
func (b *Base) Outputs() []artifact.ArtifactRef {
	return append([]artifact.ArtifactRef{}, b.outputs...)
}

// Completed builds a successful result for this module.
func (b *Base) Completed(path string) Result {
	return Result{ModuleID: b.info.ID, Status: StatusCompleted, Path: path}
}

// Failed builds a failed result carrying err.
func (b *Base) Failed(path string, err error) (Result, error) {
	return Result{ModuleID: b.info.ID, Status: StatusFailed, Path: path, Err: err}, err
}
