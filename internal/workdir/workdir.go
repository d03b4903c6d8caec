// Package workdir resolves the engine's temporary working directory.
//
// A Resolver computes <installDir>/temp on its first call and returns that
// same path for the rest of its life, whatever installation directory later
// calls pass. Callers own one Resolver per search run and hand it (or the
// resolved path) to every generator and to the command assembler, so the
// path cannot drift between artifacts of one run.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TempSubFolder is the name of the working directory under the install folder.
const TempSubFolder = "temp"

// Resolver caches the working directory of one search run.
type Resolver struct {
	mu   sync.Mutex
	path string
}

// New returns an empty resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the cached working directory, computing it from installDir
// on first use, and makes sure it exists on disk.
func (r *Resolver) Resolve(installDir string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.path == "" {
		abs, err := filepath.Abs(installDir)
		if err != nil {
			return "", fmt.Errorf("workdir: resolve %s: %w", installDir, err)
		}
		r.path = filepath.Join(abs, TempSubFolder)
	}
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("workdir: create %s: %w", r.path, err)
	}
	return r.path, nil
}

// Path returns the cached path, or "" before the first Resolve.
func (r *Resolver) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}
