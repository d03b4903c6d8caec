package model

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModificationLookup resolves a modification by its catalog name.
type ModificationLookup interface {
	Lookup(name string) (Modification, bool)
}

// Catalog is the global name -> Modification table.
type Catalog struct {
	byName map[string]Modification
	order  []string
}

type catalogFile struct {
	Modifications []Modification `yaml:"modifications"`
}

const defaultCatalogYAML = `# built-in modification catalog
modifications:
  - name: Carbamidomethylation of C
    type: anywhere
    targets: C
    composition: C2 H3 N1 O1
    unimod: {accession: "UNIMOD:4", name: Carbamidomethyl}
  - name: Oxidation of M
    type: anywhere
    targets: M
    composition: O1
    neutral_losses: ["C1 H4 O1 S1"]
    unimod: {accession: "UNIMOD:35", name: Oxidation}
  - name: Phosphorylation of S
    type: anywhere
    targets: S
    composition: H1 O3 P1
    neutral_losses: ["H3 O4 P1"]
    unimod: {accession: "UNIMOD:21", name: Phospho}
  - name: Phosphorylation of T
    type: anywhere
    targets: T
    composition: H1 O3 P1
    neutral_losses: ["H3 O4 P1"]
    unimod: {accession: "UNIMOD:21", name: Phospho}
  - name: Phosphorylation of Y
    type: anywhere
    targets: Y
    composition: H1 O3 P1
    reporter_ions: ["C8 H10 N1 O4 P1"]
    unimod: {accession: "UNIMOD:21", name: Phospho}
  - name: Acetylation of protein N-term
    type: protein-n-term
    composition: C2 H2 O1
    unimod: {accession: "UNIMOD:1", name: Acetyl}
  - name: Acetylation of peptide N-term
    type: peptide-n-term
    composition: C2 H2 O1
    unimod: {accession: "UNIMOD:1", name: Acetyl}
  - name: Amidation of the peptide C-term
    type: peptide-c-term
    composition: H1 N1 O-1
    unimod: {accession: "UNIMOD:2", name: Amidated}
  - name: Deamidation of N
    type: anywhere
    targets: N
    composition: H-1 N-1 O1
    unimod: {accession: "UNIMOD:7", name: Deamidated}
  - name: Deamidation of Q
    type: anywhere
    targets: Q
    composition: H-1 N-1 O1
    unimod: {accession: "UNIMOD:7", name: Deamidated}
  - name: Pyrolidone from Q
    type: peptide-n-term-residue
    targets: Q
    composition: H-3 N-1
    unimod: {accession: "UNIMOD:28", name: Gln->pyro-Glu}
  - name: TMT 6-plex of K
    type: anywhere
    targets: K
    composition: C8 13C4 H20 N1 15N1 O2
    reporter_ions:
      - C8 H16 N1
      - C8 H16 15N1
      - C6 13C2 H16 N1
      - C6 13C2 H16 15N1
      - C4 13C4 H16 N1
      - C4 13C4 H16 15N1
    unimod: {accession: "UNIMOD:737", name: TMT6plex}
  - name: TMT 6-plex of peptide N-term
    type: peptide-n-term
    composition: C8 13C4 H20 N1 15N1 O2
    unimod: {accession: "UNIMOD:737", name: TMT6plex}
`

// NewCatalog builds a catalog, rejecting invalid entries and duplicate names.
func NewCatalog(mods ...Modification) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Modification, len(mods))}
	for i := range mods {
		mod := mods[i]
		mod.normalize()
		if err := mod.Validate(); err != nil {
			return nil, fmt.Errorf("modifications[%d]: %w", i, err)
		}
		if _, exists := c.byName[mod.Name]; exists {
			return nil, fmt.Errorf("model: duplicate modification %q", mod.Name)
		}
		c.byName[mod.Name] = mod
		c.order = append(c.order, mod.Name)
	}
	return c, nil
}

// ParseCatalogYAML decodes a catalog document.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("model: catalog payload is empty")
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("model: decode catalog: %w", err)
	}
	return NewCatalog(file.Modifications...)
}

// LoadCatalog reads a catalog YAML file from disk.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: read catalog %s: %w", path, err)
	}
	c, err := ParseCatalogYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog of common modifications.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalogYAML([]byte(defaultCatalogYAML))
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup implements ModificationLookup.
func (c *Catalog) Lookup(name string) (Modification, bool) {
	if c == nil {
		return Modification{}, false
	}
	mod, ok := c.byName[name]
	return mod, ok
}

// Names returns catalog names in declaration order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// SortedNames returns catalog names alphabetically.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Len returns the number of modifications.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
