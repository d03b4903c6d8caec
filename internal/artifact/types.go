// Package artifact defines the files a search run hands to the engine. Each
// artifact has a stable identifier, kind, and a resolver that maps it to a
// path under the engine installation folder or the run's working directory.

package artifact

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// Kind captures the on-disk shape of an artifact.
type Kind string

const (
	// KindTOML is a TOML-style parameter document.
	KindTOML Kind = "toml"
	// KindTSV is a tab-separated table with a header row.
	KindTSV Kind = "tsv"
	// KindRecords is a flat-file of tagged records separated by "//" lines.
	KindRecords Kind = "records"
	// KindJSON is a JSON document.
	KindJSON Kind = "json"
	// KindLog is an append-only text log.
	KindLog Kind = "log"
	// KindDirectory represents a directory that must exist.
	KindDirectory Kind = "directory"
)

// Layout names the two roots artifact paths are resolved against.
type Layout struct {
	InstallDir string
	WorkDir    string
}

// PathResolver returns the fully-qualified path to an artifact for a layout.
type PathResolver func(Layout) string

// InInstallDir resolves relative to the engine installation folder.
func InInstallDir(parts ...string) PathResolver {
	return func(l Layout) string {
		if l.InstallDir == "" {
			return ""
		}
		return filepath.Join(append([]string{l.InstallDir}, parts...)...)
	}
}

// InWorkDir resolves relative to the run's working directory.
func InWorkDir(parts ...string) PathResolver {
	return func(l Layout) string {
		if l.WorkDir == "" {
			return ""
		}
		return filepath.Join(append([]string{l.WorkDir}, parts...)...)
	}
}

// ArtifactRef declares a stable identifier and metadata for an artifact.
type ArtifactRef struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	path        PathResolver
}

// NewRef builds a reference.
func NewRef(id, name, desc string, kind Kind, resolver PathResolver) ArtifactRef {
	return ArtifactRef{ID: id, Name: name, Description: desc, Kind: kind, path: resolver}
}

// Path resolves the artifact path for the provided layout.
func (r ArtifactRef) Path(l Layout) string {
	if r.path == nil {
		return ""
	}
	p := r.path(l)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// Validate ensures the reference is well-formed.
func (r ArtifactRef) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("artifact: id is required")
	}
	if r.Kind == "" {
		return fmt.Errorf("artifact: kind is required for %s", r.ID)
	}
	if r.path == nil {
		return fmt.Errorf("artifact: path resolver missing for %s", r.ID)
	}
	return nil
}

// State captures the readiness of an artifact on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
	StateError   State = "error"
)

// CheckResult captures Store.Check results.
type CheckResult struct {
	Ref     ArtifactRef
	Path    string
	State   State
	Size    int64
	ModTime time.Time
	Err     error
}

// helper to register global references
func register(ref ArtifactRef) ArtifactRef {
	if refs == nil {
		refs = map[string]ArtifactRef{}
	}
	refs[ref.ID] = ref
	return ref
}

var refs map[string]ArtifactRef

// Lookup returns a registered artifact reference by ID.
func Lookup(id string) (ArtifactRef, bool) {
	ref, ok := refs[id]
	return ref, ok
}

// IDs returns the registered artifact identifiers, sorted.
func IDs() []string {
	ids := make([]string, 0, len(refs))
	for id := range refs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Canonical artifacts of a MetaMorpheus search run.
var (
	ModificationsFile = register(NewRef("metamorpheus-mods", "Custom Modifications",
		"Mods/CustomModifications.txt listing every referenced modification", KindRecords,
		InInstallDir("Mods", "CustomModifications.txt")))
	ProteasesFile = register(NewRef("metamorpheus-proteases", "Protease Table",
		"ProteolyticDigestion/proteases.tsv describing the digestion rule", KindTSV,
		InInstallDir("ProteolyticDigestion", "proteases.tsv")))
	SearchTaskFile = register(NewRef("metamorpheus-task", "Search Task",
		"SearchTask.toml with the full search configuration", KindTOML,
		InWorkDir("SearchTask.toml")))

	WorkDirectory = register(NewRef("work-dir", "Working Directory",
		"temp folder under the install dir receiving engine output", KindDirectory,
		InWorkDir()))
	RunJournal = register(NewRef("run-journal", "Run Journal",
		"searchbridge.log recording what each step wrote", KindLog,
		InWorkDir("searchbridge.log")))
	EngineLog = register(NewRef("engine-log", "Engine Output",
		"metamorpheus.log capturing the engine's merged stdout/stderr", KindLog,
		InWorkDir("metamorpheus.log")))
	RunManifest = register(NewRef("run-manifest", "Run Manifest",
		"run.json recording the artifacts, command and status of the run", KindJSON,
		InWorkDir("run.json")))
)
