package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Store manages artifact IO rooted at one layout.
type Store struct {
	layout Layout
}

// NewStore builds a store for a layout.
func NewStore(layout Layout) *Store {
	return &Store{layout: layout}
}

// Layout returns the roots this store resolves against.
func (s *Store) Layout() Layout {
	return s.layout
}

// Path resolves ref against the store's layout.
func (s *Store) Path(ref ArtifactRef) string {
	return ref.Path(s.layout)
}

// Write creates (or truncates) the artifact file and streams render into it.
// The file is closed on every path; a partially written file is left in
// place when render fails.
func (s *Store) Write(ref ArtifactRef, render func(w io.Writer) error) (path string, err error) {
	path = ref.Path(s.layout)
	if path == "" {
		return "", fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
	}
	if ref.Kind == KindDirectory {
		return path, os.MkdirAll(path, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, err
	}
	file, err := os.Create(path)
	if err != nil {
		return path, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	bw := bufio.NewWriter(file)
	if err := render(bw); err != nil {
		_ = bw.Flush()
		return path, err
	}
	return path, bw.Flush()
}

// Check inspects the artifact on disk and returns its status.
func (s *Store) Check(ref ArtifactRef) (CheckResult, error) {
	path := ref.Path(s.layout)
	if path == "" {
		err := fmt.Errorf("artifact: %s path could not be resolved", ref.ID)
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{Ref: ref, Path: path, State: StateMissing}, nil
		}
		return CheckResult{Ref: ref, Path: path, State: StateError, Err: err}, err
	}
	result := CheckResult{Ref: ref, Path: path, Size: info.Size(), ModTime: info.ModTime()}
	switch ref.Kind {
	case KindDirectory:
		if !info.IsDir() {
			return invalidResult(result, fmt.Errorf("artifact: expected directory"))
		}
	default:
		if info.IsDir() {
			return invalidResult(result, fmt.Errorf("artifact: expected file got directory"))
		}
	}
	result.State = StateReady
	return result, nil
}

// RequireReady fails unless every ref is present and well-formed.
func (s *Store) RequireReady(refs ...ArtifactRef) error {
	var missing []string
	for _, ref := range refs {
		res, err := s.Check(ref)
		if err != nil {
			return err
		}
		if res.State != StateReady {
			missing = append(missing, fmt.Sprintf("%s (%s)", ref.ID, res.Path))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("artifact: not ready: %s", strings.Join(missing, ", "))
	}
	return nil
}

func invalidResult(result CheckResult, err error) (CheckResult, error) {
	result.State = StateInvalid
	result.Err = err
	return result, err
}
