// internal/config/config.go
//
// This package loads the searchbridge configuration: where the engine is
// installed, which modification catalog to use and the search parameters.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/searchbridge/internal/model"
)

const (
	// DefaultFileName is looked up in the current directory when no path is given.
	DefaultFileName = "searchbridge.yaml"

	EnvConfig      = "SEARCHBRIDGE_CONFIG"
	EnvEngineDir   = "SEARCHBRIDGE_ENGINE_DIR"
	EnvPlatform    = "SEARCHBRIDGE_PLATFORM"
	EnvCatalog     = "SEARCHBRIDGE_CATALOG"
	EnvMetricsFile = "SEARCHBRIDGE_METRICS_FILE"
)

const defaultConfigYAML = `# searchbridge configuration
version: 1

engine:
  # Folder holding CMD.exe (windows) or CMD.dll (run through dotnet elsewhere).
  install_dir: /opt/metamorpheus
  # platform: windows
  # interpreter: dotnet

# Modification catalog. Leave empty for the built-in catalog.
# catalog: ./modifications.yaml

inputs:
  fasta: ./database.fasta
  spectrum: ./spectra.mgf

search:
  fragment_tolerance: {value: 0.02, unit: absolute}
  precursor_tolerance: {value: 10, unit: ppm}
  fixed_modifications:
    - Carbamidomethylation of C
  variable_modifications:
    - Oxidation of M
  digestion:
    mode: enzyme
    enzymes:
      - name: Trypsin
        before: KR
        restriction_after: P
        cv: {accession: "MS:1001251", name: Trypsin}
    missed_cleavages: {Trypsin: 2}
    specificity: {Trypsin: full}
`

// EngineConfig locates the engine.
type EngineConfig struct {
	InstallDir  string `yaml:"install_dir"`
	Platform    string `yaml:"platform,omitempty"`
	Interpreter string `yaml:"interpreter,omitempty"`
}

// InputConfig names the default input files; command-line flags override them.
type InputConfig struct {
	Fasta    string `yaml:"fasta,omitempty"`
	Spectrum string `yaml:"spectrum,omitempty"`
}

// Config models searchbridge.yaml.
type Config struct {
	Version     int                    `yaml:"version"`
	Engine      EngineConfig           `yaml:"engine"`
	Catalog     string                 `yaml:"catalog,omitempty"`
	MetricsFile string                 `yaml:"metrics_file,omitempty"`
	Inputs      InputConfig            `yaml:"inputs,omitempty"`
	Search      model.SearchParameters `yaml:"search"`

	// Source is the file the configuration was read from, empty when none.
	Source string `yaml:"-"`
}

// Defaults returns the configuration used before any file is read.
func Defaults() Config {
	return Config{
		Version: 1,
		Search: model.SearchParameters{
			FragmentTolerance:  model.Tolerance{Value: 0.02, Unit: model.UnitAbsolute},
			PrecursorTolerance: model.Tolerance{Value: 10, Unit: model.UnitPPM},
			Digestion:          model.DigestionParameters{Mode: model.CleavageEnzyme},
		},
	}
}

// Load builds the configuration from, in order: defaults, the YAML file
// (explicit path, SEARCHBRIDGE_CONFIG, ./searchbridge.yaml), environment
// overrides. The result is normalized and validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if source := discover(path); source != "" {
		if err := cfg.loadFile(source); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func discover(path string) string {
	if path = strings.TrimSpace(path); path != "" {
		return path
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	return ""
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.Source = abs
	return nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
		path   bool
	}{
		{EnvEngineDir, &c.Engine.InstallDir, true},
		{EnvPlatform, &c.Engine.Platform, false},
		{EnvCatalog, &c.Catalog, true},
		{EnvMetricsFile, &c.MetricsFile, true},
	}
	for _, o := range overrides {
		v, ok := os.LookupEnv(o.env)
		if !ok {
			continue
		}
		if o.path {
			v = resolvePath(workingDir(), v)
		}
		*o.target = v
	}
}

// baseDir anchors relative paths read from the config file: the file's
// folder, else the current directory.
func (c *Config) baseDir() string {
	if c.Source != "" {
		return filepath.Dir(c.Source)
	}
	return workingDir()
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	base := c.baseDir()
	c.Engine.InstallDir = resolvePath(base, c.Engine.InstallDir)
	c.Engine.Platform = strings.ToLower(strings.TrimSpace(c.Engine.Platform))
	c.Engine.Interpreter = strings.TrimSpace(c.Engine.Interpreter)
	c.Catalog = resolvePath(base, c.Catalog)
	c.MetricsFile = resolvePath(base, c.MetricsFile)
	c.Inputs.Fasta = resolvePath(base, c.Inputs.Fasta)
	c.Inputs.Spectrum = resolvePath(base, c.Inputs.Spectrum)
	c.Search.Normalize()
}

func (c *Config) validate() error {
	if c.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if c.Engine.InstallDir == "" {
		return fmt.Errorf("engine.install_dir is required (or set %s)", EnvEngineDir)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

// LoadCatalog returns the configured modification catalog, or the built-in
// one when none is configured.
func (c *Config) LoadCatalog() (*model.Catalog, error) {
	if c.Catalog == "" {
		return model.DefaultCatalog(), nil
	}
	catalog, err := model.LoadCatalog(c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("config: catalog: %w", err)
	}
	return catalog, nil
}

// ResolveInput makes a command-line path absolute against the current
// directory. Only paths written in the config file follow its folder.
func (c *Config) ResolveInput(path string) string {
	return resolvePath(workingDir(), path)
}

// WriteDefault writes a starter configuration at path unless a file is
// already there. It reports whether a file was written.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("config: stat %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("config: ensure dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return false, fmt.Errorf("config: write %s: %w", path, err)
	}
	return true, nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
