package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCanonicalRefsResolve(t *testing.T) {
	layout := Layout{InstallDir: "/opt/mm", WorkDir: "/opt/mm/temp"}
	cases := []struct {
		ref  ArtifactRef
		want string
	}{
		{ModificationsFile, "/opt/mm/Mods/CustomModifications.txt"},
		{ProteasesFile, "/opt/mm/ProteolyticDigestion/proteases.tsv"},
		{SearchTaskFile, "/opt/mm/temp/SearchTask.toml"},
		{WorkDirectory, "/opt/mm/temp"},
	}
	for _, tc := range cases {
		ref, want := tc.ref, tc.want
		if err := ref.Validate(); err != nil {
			t.Fatalf("%s: %v", ref.ID, err)
		}
		if got := ref.Path(layout); got != filepath.FromSlash(want) {
			t.Fatalf("%s path = %s, want %s", ref.ID, got, want)
		}
	}
	if _, ok := Lookup("metamorpheus-task"); !ok {
		t.Fatalf("task artifact not registered")
	}
	if got := SearchTaskFile.Path(Layout{InstallDir: "/opt/mm"}); got != "" {
		t.Fatalf("expected empty path without a work dir, got %s", got)
	}
}

func TestWriteCreatesParentsAndReportsReady(t *testing.T) {
	install := t.TempDir()
	store := NewStore(Layout{InstallDir: install, WorkDir: filepath.Join(install, "temp")})
	path, err := store.Write(ProteasesFile, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "Name")
		return err
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Name\n" {
		t.Fatalf("content = %q", data)
	}
	res, err := store.Check(ProteasesFile)
	if err != nil || res.State != StateReady {
		t.Fatalf("check = %+v, err = %v", res, err)
	}
	if err := store.RequireReady(ProteasesFile, ModificationsFile); err == nil || !strings.Contains(err.Error(), ModificationsFile.ID) {
		t.Fatalf("expected missing modifications artifact, got %v", err)
	}
}

func TestWriteKeepsPartialOutputOnRenderError(t *testing.T) {
	install := t.TempDir()
	store := NewStore(Layout{InstallDir: install})
	boom := errors.New("boom")
	path, err := store.Write(ModificationsFile, func(w io.Writer) error {
		_, _ = io.WriteString(w, "ID   partial\n")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("partial file should exist: %v", readErr)
	}
	if string(data) != "ID   partial\n" {
		t.Fatalf("partial content = %q", data)
	}
}

func TestCheckFlagsDirectoryWhereFileExpected(t *testing.T) {
	install := t.TempDir()
	store := NewStore(Layout{InstallDir: install, WorkDir: filepath.Join(install, "temp")})
	if err := os.MkdirAll(store.Path(SearchTaskFile), 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := store.Check(SearchTaskFile)
	if err == nil || res.State != StateInvalid {
		t.Fatalf("expected invalid state, got %+v (err=%v)", res, err)
	}
}
