package module

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/searchbridge/internal/artifact"
	"github.com/kingrea/searchbridge/internal/logbook"
)

type stubModule struct {
	Base
	err  error
	runs *[]string
}

func newStub(id string, err error, runs *[]string, outputs ...artifact.ArtifactRef) *stubModule {
	m := &stubModule{Base: NewBase(Info{ID: id, Name: id, Version: "1.0.0"}), err: err, runs: runs}
	m.SetOutputs(outputs...)
	return m
}

func (m *stubModule) Run(ctx *Context) (Result, error) {
	*m.runs = append(*m.runs, m.Info().ID)
	if m.err != nil {
		return m.Failed("", m.err)
	}
	return m.Completed("/tmp/" + m.Info().ID), nil
}

func TestInfoValidate(t *testing.T) {
	cases := []struct {
		info Info
		ok   bool
	}{
		{Info{ID: "a", Name: "A", Version: "1"}, true},
		{Info{Name: "A", Version: "1"}, false},
		{Info{ID: "a", Version: "1"}, false},
		{Info{ID: "a", Name: "A"}, false},
	}
	for _, tc := range cases {
		if err := tc.info.Validate(); (err == nil) != tc.ok {
			t.Fatalf("Validate(%+v) err = %v, want ok=%v", tc.info, err, tc.ok)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	var runs []string
	reg := NewRegistry()
	if err := reg.Register(newStub("mods", nil, &runs)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(newStub("mods", nil, &runs)); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.Resolve("missing"); err == nil {
		t.Fatalf("expected unknown id error")
	}
}

func TestRunAllKeepsOrderAndStopsAtFailure(t *testing.T) {
	var runs []string
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.MustRegister(newStub("mods", nil, &runs))
	reg.MustRegister(newStub("proteases", boom, &runs))
	reg.MustRegister(newStub("task", nil, &runs))

	dir := t.TempDir()
	book, err := logbook.New(filepath.Join(dir, "run.log"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(artifact.NewStore(artifact.Layout{InstallDir: dir}), book)
	results, err := reg.RunAll(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if strings.Join(runs, ",") != "mods,proteases" {
		t.Fatalf("runs = %v", runs)
	}
	if len(results) != 2 || results[0].Status != StatusCompleted || results[1].Status != StatusFailed {
		t.Fatalf("results = %+v", results)
	}
	lines, _ := book.Tail(10)
	if len(lines) != 2 || !strings.Contains(lines[1], "ERROR proteases failed: boom") {
		t.Fatalf("journal = %v", lines)
	}
}

func TestOutputsFollowRegistrationOrder(t *testing.T) {
	var runs []string
	reg := NewRegistry()
	reg.MustRegister(newStub("task", nil, &runs, artifact.SearchTaskFile, artifact.WorkDirectory))
	reg.MustRegister(newStub("mods", nil, &runs, artifact.ModificationsFile, artifact.WorkDirectory))
	reg.MustRegister(newStub("noop", nil, &runs))

	var ids []string
	for _, ref := range reg.Outputs() {
		ids = append(ids, ref.ID)
	}
	want := strings.Join([]string{artifact.SearchTaskFile.ID, artifact.WorkDirectory.ID, artifact.ModificationsFile.ID}, ",")
	if got := strings.Join(ids, ","); got != want {
		t.Fatalf("outputs = %s, want %s", got, want)
	}
	if len(runs) != 0 {
		t.Fatalf("Outputs must not run modules")
	}
}

func TestRunAllRequiresStore(t *testing.T) {
	var runs []string
	reg := NewRegistry()
	reg.MustRegister(newStub("mods", nil, &runs))
	if _, err := reg.RunAll(&Context{}); err == nil {
		t.Fatalf("expected missing store error")
	}
	if len(runs) != 0 {
		t.Fatalf("module ran without a store")
	}
}
