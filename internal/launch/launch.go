// Package launch assembles the MetaMorpheus command line and runs it.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kingrea/searchbridge/internal/logbook"
)

// EngineType names the engine in progress reports.
const EngineType = "MetaMorpheus"

// DefaultInterpreter hosts the engine's entry point outside windows.
const DefaultInterpreter = "dotnet"

// Options are the inputs of one invocation. Relative paths are resolved
// against the current directory.
type Options struct {
	InstallDir  string
	WorkDir     string
	Spectrum    string
	Fasta       string
	TaskFile    string
	Platform    string // defaults to runtime.GOOS
	Interpreter string // defaults to DefaultInterpreter
}

// IsWindows reports whether platform belongs to the windows family.
func IsWindows(platform string) bool {
	return strings.Contains(strings.ToLower(platform), "windows")
}

// EntryPointName is the file the engine is started from.
func EntryPointName(platform string) string {
	if IsWindows(platform) {
		return "CMD.exe"
	}
	return "CMD.dll"
}

// Invocation is an assembled engine command.
type Invocation struct {
	Args     []string
	Dir      string
	spectrum string
}

// Assemble builds the argument vector:
//
//	[interpreter] <install>/<entry point> -d <fasta> -s <spectrum> -t <task> -o <workdir>
//
// The entry point is marked executable and the vector is written to the
// logbook before it is returned.
func Assemble(opts Options, lb *logbook.Logbook) (*Invocation, error) {
	platform := opts.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	install, err := absolute("install dir", opts.InstallDir)
	if err != nil {
		return nil, err
	}
	fasta, err := absolute("fasta file", opts.Fasta)
	if err != nil {
		return nil, err
	}
	spectrum, err := absolute("spectrum file", opts.Spectrum)
	if err != nil {
		return nil, err
	}
	task, err := absolute("task file", opts.TaskFile)
	if err != nil {
		return nil, err
	}
	workDir, err := absolute("work dir", opts.WorkDir)
	if err != nil {
		return nil, err
	}

	entry := filepath.Join(install, EntryPointName(platform))
	if err := markExecutable(entry); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("launch: mark %s executable: %w", entry, err)
		}
		lb.Warn("entry point %s not found", entry)
	}

	var args []string
	if !IsWindows(platform) {
		interpreter := opts.Interpreter
		if interpreter == "" {
			interpreter = DefaultInterpreter
		}
		args = append(args, interpreter)
	}
	args = append(args,
		entry,
		"-d", fasta,
		"-s", spectrum,
		"-t", task,
		"-o", workDir,
	)
	lb.Info("%s command: %s", EngineType, strings.Join(args, " "))
	return &Invocation{Args: args, Dir: install, spectrum: spectrum}, nil
}

func absolute(what, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("launch: %s is required", what)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("launch: %s: %w", what, err)
	}
	return abs, nil
}

func markExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm()|0o111)
}

// Type returns the engine name.
func (inv *Invocation) Type() string {
	return EngineType
}

// CurrentFile returns the base name of the spectrum file being searched.
func (inv *Invocation) CurrentFile() string {
	return filepath.Base(inv.spectrum)
}

// String renders the argument vector the way it is logged.
func (inv *Invocation) String() string {
	return strings.Join(inv.Args, " ")
}

// Command builds the process: working directory is the install dir, stdout
// and stderr both go to w.
func (inv *Invocation) Command(ctx context.Context, w io.Writer) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...)
	cmd.Dir = inv.Dir
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd
}

// Run starts the engine and waits for it. The exit status is not
// interpreted.
func (inv *Invocation) Run(ctx context.Context, w io.Writer) error {
	return inv.Command(ctx, w).Run()
}
