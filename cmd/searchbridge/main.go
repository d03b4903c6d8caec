package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/config"
	"github.com/kingrea/searchbridge/internal/model"
	"github.com/kingrea/searchbridge/internal/observability"
	"github.com/kingrea/searchbridge/internal/orchestrator"
	"github.com/kingrea/searchbridge/internal/tui"
	"github.com/kingrea/searchbridge/internal/workdir"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `usage: searchbridge <command> [flags]

commands:
  init       write a starter searchbridge.yaml
  prepare    write the engine inputs and print the command
  run        prepare, then run the engine
  catalog    list the modification catalog
  artifacts  show the state of every run artifact
  version    print the version
`

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "init":
		err = runInit(args)
	case "prepare":
		err = runPrepare(args, false)
	case "run":
		err = runPrepare(args, true)
	case "catalog":
		err = runCatalog(args)
	case "artifacts":
		err = runArtifacts(args)
	case "version":
		fmt.Println("searchbridge", version)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		err = usageError{fmt.Sprintf("unknown command %q\n\n%s", cmd, usage)}
	}
	if err != nil {
		var uerr usageError
		if errors.As(err, &uerr) || errors.Is(err, flag.ErrHelp) {
			if uerr.msg != "" {
				fmt.Fprintln(os.Stderr, uerr.msg)
			}
			os.Exit(2)
		}
		die("%v", err)
	}
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parse reports flag errors as usage errors; the flag set has already
// printed them.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{}
	}
	if fs.NArg() > 0 {
		return usageError{fmt.Sprintf("%s: unexpected arguments %q", fs.Name(), fs.Args())}
	}
	return nil
}

func runInit(args []string) error {
	fs := newFlagSet("init")
	path := fs.String("config", config.DefaultFileName, "where to write the configuration")
	if err := parse(fs, args); err != nil {
		return err
	}
	wrote, err := config.WriteDefault(*path)
	if err != nil {
		return err
	}
	if !wrote {
		fmt.Printf("%s already exists, left unchanged.\n", *path)
		return nil
	}
	fmt.Printf("Wrote %s. Set engine.install_dir before running a search.\n", *path)
	return nil
}

func runPrepare(args []string, launch bool) error {
	name := "prepare"
	if launch {
		name = "run"
	}
	fs := newFlagSet(name)
	configPath := fs.String("config", "", "configuration file (defaults to $SEARCHBRIDGE_CONFIG or ./searchbridge.yaml)")
	spectrum := fs.String("spectrum", "", "spectrum file to search (overrides inputs.spectrum)")
	fasta := fs.String("fasta", "", "protein database (overrides inputs.fasta)")
	plain := fs.Bool("plain", false, "run without the terminal UI, streaming engine output to stdout")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	in := orchestrator.Inputs{Spectrum: cfg.Inputs.Spectrum, Fasta: cfg.Inputs.Fasta}
	if *spectrum != "" {
		in.Spectrum = cfg.ResolveInput(*spectrum)
	}
	if *fasta != "" {
		in.Fasta = cfg.ResolveInput(*fasta)
	}
	if in.Spectrum == "" || in.Fasta == "" {
		return usageError{"both -spectrum and -fasta are required (or inputs.spectrum / inputs.fasta in the configuration)"}
	}
	catalog, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	orch := orchestrator.New(cfg, catalog)
	run, err := orch.Prepare(in)
	defer writeMetrics(cfg)
	if err != nil {
		return err
	}
	fmt.Println(renderPrepared(run))
	if !launch {
		return nil
	}

	if *plain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return orch.Execute(ctx, run, printLine(os.Stdout))
	}
	return tui.Run(tui.Session{
		Engine:  run.Invocation.Type(),
		File:    run.Invocation.CurrentFile(),
		Command: run.Invocation.String(),
		Logbook: run.Logbook,
	}, func(ctx context.Context, onLine func(string)) error {
		return orch.Execute(ctx, run, onLine)
	})
}

func printLine(w io.Writer) func(string) {
	return func(line string) {
		fmt.Fprintln(w, line)
	}
}

func writeMetrics(cfg *config.Config) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := observability.WriteTextfile(cfg.MetricsFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func runCatalog(args []string) error {
	fs := newFlagSet("catalog")
	configPath := fs.String("config", "", "configuration file naming the catalog")
	catalogPath := fs.String("catalog", "", "catalog YAML file (overrides the configuration)")
	if err := parse(fs, args); err != nil {
		return err
	}
	var (
		catalog *model.Catalog
		err     error
	)
	switch {
	case *catalogPath != "":
		catalog, err = model.LoadCatalog(*catalogPath)
	case *configPath != "":
		var cfg *config.Config
		if cfg, err = config.Load(*configPath); err == nil {
			catalog, err = cfg.LoadCatalog()
		}
	default:
		catalog = model.DefaultCatalog()
	}
	if err != nil {
		return err
	}
	fmt.Println(renderCatalog(catalog))
	return nil
}

func runArtifacts(args []string) error {
	fs := newFlagSet("artifacts")
	configPath := fs.String("config", "", "configuration file")
	if err := parse(fs, args); err != nil {
		return err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	store := artifact.NewStore(artifact.Layout{
		InstallDir: cfg.Engine.InstallDir,
		WorkDir:    filepath.Join(cfg.Engine.InstallDir, workdir.TempSubFolder),
	})
	var results []artifact.CheckResult
	for _, id := range artifact.IDs() {
		ref, _ := artifact.Lookup(id)
		res, _ := store.Check(ref)
		results = append(results, res)
	}
	fmt.Println(renderArtifacts(results))
	if manifest, err := orchestrator.ReadManifest(store.Layout().WorkDir); err == nil {
		fmt.Printf("Last run: %s (%s)", manifest.Status, manifest.UpdatedAt)
		if manifest.Error != "" {
			fmt.Printf(": %s", strings.TrimSpace(manifest.Error))
		}
		fmt.Println()
	}
	return nil
}
