// Package model holds the engine-agnostic search configuration: modifications,
// enzymes, digestion and tolerance settings. Values are read-only once loaded;
// the MetaMorpheus generators only ever read them.
package model

import (
	"fmt"
	"strings"
)

// ModificationType says where on a protein or peptide a modification may sit.
// The residue-anchored variants additionally require a target residue at that
// terminus.
type ModificationType string

const (
	ModAnywhere            ModificationType = "anywhere"
	ModProteinNTerm        ModificationType = "protein-n-term"
	ModProteinNTermResidue ModificationType = "protein-n-term-residue"
	ModProteinCTerm        ModificationType = "protein-c-term"
	ModProteinCTermResidue ModificationType = "protein-c-term-residue"
	ModPeptideNTerm        ModificationType = "peptide-n-term"
	ModPeptideNTermResidue ModificationType = "peptide-n-term-residue"
	ModPeptideCTerm        ModificationType = "peptide-c-term"
	ModPeptideCTermResidue ModificationType = "peptide-c-term-residue"
)

// ModificationTypes lists every known type.
func ModificationTypes() []ModificationType {
	return []ModificationType{
		ModAnywhere,
		ModProteinNTerm,
		ModProteinNTermResidue,
		ModProteinCTerm,
		ModProteinCTermResidue,
		ModPeptideNTerm,
		ModPeptideNTermResidue,
		ModPeptideCTerm,
		ModPeptideCTermResidue,
	}
}

// CvTerm is a controlled-vocabulary cross-reference, e.g. UNIMOD:21 or MS:1001251.
type CvTerm struct {
	Ontology  string `yaml:"ontology,omitempty"`
	Accession string `yaml:"accession"`
	Name      string `yaml:"name"`
}

// Modification is one entry of the modification catalog.
type Modification struct {
	Name          string           `yaml:"name"`
	Type          ModificationType `yaml:"type"`
	Targets       ResidueSet       `yaml:"targets,omitempty"`
	Composition   Composition      `yaml:"composition"`
	NeutralLosses []Composition    `yaml:"neutral_losses,omitempty"`
	ReporterIons  []Composition    `yaml:"reporter_ions,omitempty"`
	Unimod        *CvTerm          `yaml:"unimod,omitempty"`
}

func (m *Modification) normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Type = ModificationType(strings.ToLower(strings.TrimSpace(string(m.Type))))
	if m.Unimod != nil && strings.TrimSpace(m.Unimod.Accession) == "" {
		m.Unimod = nil
	}
}

// Validate checks the fields every generator relies on. The type must be
// set, but unknown types are accepted here; the engine-specific writers
// decide which ones they support.
func (m Modification) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model: modification name is required")
	}
	if m.Type == "" {
		return fmt.Errorf("model: modification %q has no type", m.Name)
	}
	if m.Composition.Empty() {
		return fmt.Errorf("model: modification %q has no composition", m.Name)
	}
	return nil
}
