package launch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kingrea/searchbridge/internal/logbook"
)

func fixture(t *testing.T, platform string) (Options, *logbook.Logbook) {
	t.Helper()
	install := t.TempDir()
	work := filepath.Join(install, "temp")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	entry := filepath.Join(install, EntryPointName(platform))
	if err := os.WriteFile(entry, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
	book, err := logbook.New(filepath.Join(work, "searchbridge.log"))
	if err != nil {
		t.Fatal(err)
	}
	return Options{
		InstallDir: install,
		WorkDir:    work,
		Spectrum:   filepath.Join(install, "data", "run01.mgf"),
		Fasta:      filepath.Join(install, "data", "human.fasta"),
		TaskFile:   filepath.Join(work, "SearchTask.toml"),
		Platform:   platform,
	}, book
}

func TestIsWindows(t *testing.T) {
	cases := map[string]bool{
		"windows":    true,
		"Windows 11": true,
		"linux":      false,
		"darwin":     false,
		"":           false,
	}
	for platform, want := range cases {
		if got := IsWindows(platform); got != want {
			t.Fatalf("IsWindows(%q) = %v, want %v", platform, got, want)
		}
	}
}

func TestAssembleLinux(t *testing.T) {
	opts, book := fixture(t, "linux")
	inv, err := Assemble(opts, book)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []string{
		"dotnet",
		filepath.Join(opts.InstallDir, "CMD.dll"),
		"-d", opts.Fasta,
		"-s", opts.Spectrum,
		"-t", opts.TaskFile,
		"-o", opts.WorkDir,
	}
	if strings.Join(inv.Args, "\n") != strings.Join(want, "\n") {
		t.Fatalf("args = %q\nwant %q", inv.Args, want)
	}
	if inv.Dir != opts.InstallDir {
		t.Fatalf("dir = %s, want %s", inv.Dir, opts.InstallDir)
	}
	if inv.Type() != "MetaMorpheus" || inv.CurrentFile() != "run01.mgf" {
		t.Fatalf("type/current = %s/%s", inv.Type(), inv.CurrentFile())
	}
	lines, _ := book.Tail(5)
	if len(lines) == 0 || !strings.Contains(lines[len(lines)-1], "MetaMorpheus command: "+inv.String()) {
		t.Fatalf("command not journaled: %v", lines)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(inv.Args[1])
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0o111 != 0o111 {
			t.Fatalf("entry point mode = %v, want executable", info.Mode())
		}
	}
}

func TestAssembleWindowsHasNoInterpreter(t *testing.T) {
	opts, book := fixture(t, "Windows 10")
	inv, err := Assemble(opts, book)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if inv.Args[0] != filepath.Join(opts.InstallDir, "CMD.exe") {
		t.Fatalf("first arg = %s", inv.Args[0])
	}
	if len(inv.Args) != 9 {
		t.Fatalf("len(args) = %d, want 9", len(inv.Args))
	}
}

func TestAssembleCustomInterpreter(t *testing.T) {
	opts, book := fixture(t, "darwin")
	opts.Interpreter = "/usr/local/share/dotnet/dotnet"
	inv, err := Assemble(opts, book)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if inv.Args[0] != opts.Interpreter {
		t.Fatalf("interpreter = %s", inv.Args[0])
	}
}

func TestAssembleMissingEntryPointWarns(t *testing.T) {
	opts, book := fixture(t, "linux")
	if err := os.Remove(filepath.Join(opts.InstallDir, "CMD.dll")); err != nil {
		t.Fatal(err)
	}
	if _, err := Assemble(opts, book); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	lines, _ := book.Tail(5)
	if !strings.Contains(strings.Join(lines, "\n"), "WARN  entry point") {
		t.Fatalf("expected warning, got %v", lines)
	}
}

func TestAssembleRequiresPaths(t *testing.T) {
	opts, book := fixture(t, "linux")
	opts.Fasta = ""
	if _, err := Assemble(opts, book); err == nil || !strings.Contains(err.Error(), "fasta") {
		t.Fatalf("err = %v", err)
	}
}

func TestCommandMergesStreams(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	dir := t.TempDir()
	inv := &Invocation{Args: []string{"sh", "-c", "pwd; echo oops 1>&2"}, Dir: dir}
	var out bytes.Buffer
	if err := inv.Run(context.Background(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	resolved, _ := filepath.EvalSymlinks(dir)
	if !strings.Contains(got, "oops") || !(strings.Contains(got, dir) || strings.Contains(got, resolved)) {
		t.Fatalf("output = %q", got)
	}
	cmd := inv.Command(context.Background(), &out)
	if cmd.Stdout != cmd.Stderr || cmd.Dir != dir {
		t.Fatalf("command not configured for merged output")
	}
}
