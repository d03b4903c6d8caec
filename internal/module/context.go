package module

import (
	"fmt"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/logbook"
)

// Context carries the shared plumbing of one search run into every
// generator. Inputs (search parameters, catalog) are bound when the
// generators are built.
type Context struct {
	Artifacts *artifact.Store
	Logbook   *logbook.Logbook
}

// NewContext builds a Context for a run.
func NewContext(store *artifact.Store, lb *logbook.Logbook) *Context {
	return &Context{Artifacts: store, Logbook: lb}
}

// Validate ensures generators receive a usable context.
func (ctx *Context) Validate(moduleID string) error {
	if ctx == nil {
		return fmt.Errorf("%s: context is nil", moduleID)
	}
	if ctx.Artifacts == nil {
		return fmt.Errorf("%s: artifact store is required", moduleID)
	}
	return nil
}
