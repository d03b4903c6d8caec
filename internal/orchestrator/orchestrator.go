// Package orchestrator drives one search run: it writes the engine inputs,
// assembles the command and runs the engine.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/config"
	"github.com/kingrea/searchbridge/internal/launch"
	"github.com/kingrea/searchbridge/internal/logbook"
	"github.com/kingrea/searchbridge/internal/logging"
	"github.com/kingrea/searchbridge/internal/metamorpheus"
	"github.com/kingrea/searchbridge/internal/model"
	"github.com/kingrea/searchbridge/internal/module"
	"github.com/kingrea/searchbridge/internal/observability"
	"github.com/kingrea/searchbridge/internal/workdir"
)

// Inputs are the per-run files.
type Inputs struct {
	Spectrum string
	Fasta    string
}

// Orchestrator owns the working directory of one search run.
type Orchestrator struct {
	config   *config.Config
	catalog  model.ModificationLookup
	resolver *workdir.Resolver
}

// New returns an orchestrator for cfg. The working directory is resolved
// once for the orchestrator's lifetime.
func New(cfg *config.Config, catalog model.ModificationLookup) *Orchestrator {
	return &Orchestrator{config: cfg, catalog: catalog, resolver: workdir.New()}
}

// Run is a prepared search: all inputs are written and the command is ready.
type Run struct {
	WorkDir    string
	Store      *artifact.Store
	Digestion  metamorpheus.Digestion
	Results    []module.Result
	Invocation *launch.Invocation
	Logbook    *logbook.Logbook
}

// Prepare writes the three engine inputs and assembles the command line.
// Digestion settings the engine cannot express are rejected before
// anything is written, the working directory included.
func (o *Orchestrator) Prepare(in Inputs) (run *Run, err error) {
	started := time.Now()
	defer func() {
		if err != nil {
			observability.GenerationFailures.WithLabelValues(metamorpheus.FailureKind(err)).Inc()
			return
		}
		observability.PrepareDuration.Observe(time.Since(started).Seconds())
	}()

	gen, err := metamorpheus.New(o.config.Search, o.catalog)
	if err != nil {
		return nil, err
	}
	installDir := o.config.Engine.InstallDir
	dir, err := o.resolver.Resolve(installDir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w: %w", metamorpheus.ErrIO, err)
	}
	store := artifact.NewStore(artifact.Layout{InstallDir: installDir, WorkDir: dir})
	lb, err := logbook.New(store.Path(artifact.RunJournal))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open run journal: %w: %w", metamorpheus.ErrIO, err)
	}
	run = &Run{WorkDir: dir, Store: store, Digestion: gen.Digestion(), Logbook: lb}
	lb.Info("preparing %s search of %s (protease %s, %d missed cleavages)",
		launch.EngineType, in.Spectrum, run.Digestion.ProteaseName, run.Digestion.MissedCleavages)

	registry := module.NewRegistry()
	for _, m := range gen.Modules() {
		if err := registry.Register(m); err != nil {
			return nil, err
		}
	}
	results, err := registry.RunAll(module.NewContext(store, lb))
	run.Results = results
	for _, res := range results {
		if res.Status == module.StatusCompleted {
			observability.ArtifactsWritten.WithLabelValues(res.ModuleID).Inc()
		}
	}
	if err != nil {
		o.recordManifest(run, statusFailed, err)
		return nil, err
	}
	if err := o.requireInputs(run, registry.Outputs()); err != nil {
		return nil, err
	}

	inv, err := launch.Assemble(launch.Options{
		InstallDir:  installDir,
		WorkDir:     dir,
		Spectrum:    in.Spectrum,
		Fasta:       in.Fasta,
		TaskFile:    store.Path(artifact.SearchTaskFile),
		Platform:    o.config.Engine.Platform,
		Interpreter: o.config.Engine.Interpreter,
	}, lb)
	if err != nil {
		lb.Error("assemble command: %v", err)
		o.recordManifest(run, statusFailed, err)
		return nil, err
	}
	run.Invocation = inv
	o.recordManifest(run, statusPrepared, nil)
	return run, nil
}

// Execute runs the engine of a prepared search. Every output line goes to
// the engine log and, when set, to onLine. The engine's exit status is
// returned as is.
func (o *Orchestrator) Execute(ctx context.Context, run *Run, onLine func(string)) error {
	if run == nil || run.Invocation == nil {
		return fmt.Errorf("orchestrator: run is not prepared")
	}
	out, err := logging.New(run.Store.Path(artifact.EngineLog))
	if err != nil {
		err = fmt.Errorf("orchestrator: open engine log: %w: %w", metamorpheus.ErrIO, err)
		run.Logbook.Error("%v", err)
		o.recordManifest(run, statusFailed, err)
		return err
	}
	out.Printf("$ %s", run.Invocation.String())
	out.OnLine(onLine)
	o.recordManifest(run, statusRunning, nil)
	run.Logbook.Info("starting %s on %s", run.Invocation.Type(), run.Invocation.CurrentFile())

	started := time.Now()
	runErr := run.Invocation.Run(ctx, out)
	if cerr := out.Close(); cerr != nil {
		run.Logbook.Warn("close engine log: %v", cerr)
	}
	observability.ObserveEngineRun(started, runErr)
	if runErr != nil {
		run.Logbook.Error("%s exited: %v", run.Invocation.Type(), runErr)
		o.recordManifest(run, statusFailed, runErr)
		return runErr
	}
	run.Logbook.Info("%s finished in %s", run.Invocation.Type(), time.Since(started).Round(time.Second))
	o.recordManifest(run, statusCompleted, nil)
	return nil
}

// requireInputs checks that every generated input is on disk before the
// command is assembled.
func (o *Orchestrator) requireInputs(run *Run, refs []artifact.ArtifactRef) error {
	if err := run.Store.RequireReady(refs...); err != nil {
		err = fmt.Errorf("orchestrator: %w", err)
		run.Logbook.Error("%v", err)
		o.recordManifest(run, statusFailed, err)
		return err
	}
	return nil
}

func (o *Orchestrator) recordManifest(run *Run, status string, cause error) {
	if err := writeManifest(run, status, cause); err != nil {
		run.Logbook.Warn("write run manifest: %v", err)
	}
}
