package main

import (
	"flag"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/config"
	"github.com/kingrea/searchbridge/internal/model"
	"github.com/kingrea/searchbridge/internal/orchestrator"
)

func TestParseReportsUsageErrors(t *testing.T) {
	fs := newFlagSet("prepare")
	fs.SetOutput(io.Discard)
	fs.String("config", "", "")
	if err := parse(fs, []string{"-nope"}); err == nil {
		t.Fatalf("expected usage error")
	} else if _, ok := err.(usageError); !ok {
		t.Fatalf("err = %T, want usageError", err)
	}
	fs = newFlagSet("prepare")
	if err := parse(fs, []string{"extra"}); err == nil || !strings.Contains(err.Error(), "unexpected arguments") {
		t.Fatalf("err = %v", err)
	}
	fs = newFlagSet("prepare")
	fs.SetOutput(io.Discard)
	if err := parse(fs, []string{"-h"}); err != flag.ErrHelp {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
}

func TestRenderCatalogSanitizesNames(t *testing.T) {
	out := renderCatalog(model.DefaultCatalog())
	for _, want := range []string{"Modifications (", "Oxidation off M", "Anywhere.", "Peptide N-terminal."} {
		if !strings.Contains(out, want) {
			t.Fatalf("catalog output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPrepared(t *testing.T) {
	cfg := config.Defaults()
	cfg.Engine.InstallDir = t.TempDir()
	cfg.Engine.Platform = "linux"
	cfg.Search.Digestion = model.DigestionParameters{Mode: model.CleavageWholeProtein}
	data := t.TempDir()
	run, err := orchestrator.New(&cfg, model.DefaultCatalog()).Prepare(orchestrator.Inputs{
		Spectrum: filepath.Join(data, "run01.mgf"),
		Fasta:    filepath.Join(data, "db.fasta"),
	})
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	out := renderPrepared(run)
	for _, want := range []string{"MetaMorpheus · run01.mgf", "Whole Protein (0 missed cleavages)", "proteases", "dotnet"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderArtifacts(t *testing.T) {
	out := renderArtifacts([]artifact.CheckResult{
		{Ref: artifact.SearchTaskFile, Path: "/opt/mm/temp/SearchTask.toml", State: artifact.StateReady},
		{Ref: artifact.ProteasesFile, Path: "/opt/mm/ProteolyticDigestion/proteases.tsv", State: artifact.StateMissing},
	})
	for _, want := range []string{"metamorpheus-task", "ready", "missing"} {
		if !strings.Contains(out, want) {
			t.Fatalf("artifacts output missing %q:\n%s", want, out)
		}
	}
}
