package metamorpheus

import (
	"errors"
	"io"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/model"
	"github.com/kingrea/searchbridge/internal/module"
)

// Version is reported by every generator module.
const Version = "1.0.0"

// Generator renders the engine's input files for one search.
type Generator struct {
	params    model.SearchParameters
	lookup    model.ModificationLookup
	digestion Digestion
}

// New resolves the digestion rule and returns a Generator. Settings the
// engine cannot express fail here with ErrUnsupportedConfiguration, so no
// file is written for them.
func New(params model.SearchParameters, lookup model.ModificationLookup) (*Generator, error) {
	d, err := ResolveDigestion(params.Digestion)
	if err != nil {
		return nil, err
	}
	return &Generator{params: params, lookup: lookup, digestion: d}, nil
}

// Digestion returns the resolved protease choice.
func (g *Generator) Digestion() Digestion {
	return g.digestion
}

// WriteModifications writes the modification records.
func (g *Generator) WriteModifications(store *artifact.Store) (string, error) {
	return write(store, artifact.ModificationsFile, "modification file", func(w io.Writer) error {
		return WriteModifications(w, g.params, g.lookup)
	})
}

// WriteProteases writes the protease table.
func (g *Generator) WriteProteases(store *artifact.Store) (string, error) {
	return write(store, artifact.ProteasesFile, "protease table", func(w io.Writer) error {
		return WriteProteases(w, g.digestion)
	})
}

// WriteSearchTask writes the search task document.
func (g *Generator) WriteSearchTask(store *artifact.Store) (string, error) {
	return write(store, artifact.SearchTaskFile, "search task", func(w io.Writer) error {
		return WriteSearchTask(w, g.params, g.lookup, g.digestion)
	})
}

// Modules exposes the three writers as modules, in generation order.
func (g *Generator) Modules() []module.Module {
	return []module.Module{
		newFileModule(module.Info{
			ID:          "metamorpheus-mods",
			Name:        "Modification records",
			Description: "Writes fixed and variable modifications as engine records.",
			Version:     Version,
		}, artifact.ModificationsFile, g.WriteModifications),
		newFileModule(module.Info{
			ID:          "metamorpheus-proteases",
			Name:        "Protease table",
			Description: "Writes the protease table for the resolved digestion.",
			Version:     Version,
		}, artifact.ProteasesFile, g.WriteProteases),
		newFileModule(module.Info{
			ID:          "metamorpheus-task",
			Name:        "Search task",
			Description: "Writes the search task document.",
			Version:     Version,
		}, artifact.SearchTaskFile, g.WriteSearchTask),
	}
}

type fileModule struct {
	module.Base
	write func(*artifact.Store) (string, error)
}

func newFileModule(info module.Info, output artifact.ArtifactRef, write func(*artifact.Store) (string, error)) *fileModule {
	m := &fileModule{Base: module.NewBase(info), write: write}
	m.SetOutputs(output)
	return m
}

func (m *fileModule) Run(ctx *module.Context) (module.Result, error) {
	path, err := m.write(ctx.Artifacts)
	if err != nil {
		return m.Failed(path, err)
	}
	return m.Completed(path), nil
}

// errWriter remembers the first write failure so it can be told apart from
// rendering errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}

// write streams render into the artifact. Rendering errors are returned as
// they are; anything that went wrong with the file itself is ErrIO.
func write(store *artifact.Store, ref artifact.ArtifactRef, what string, render func(io.Writer) error) (string, error) {
	var renderErr error
	var sink *errWriter
	path, err := store.Write(ref, func(w io.Writer) error {
		sink = &errWriter{w: w}
		renderErr = render(sink)
		return renderErr
	})
	if err == nil {
		return path, nil
	}
	if renderErr != nil && (sink == nil || sink.err == nil) && !errors.Is(renderErr, ErrIO) {
		return path, renderErr
	}
	return path, ioFailure(what, path, err)
}
