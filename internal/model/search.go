package model

import (
	"fmt"
	"strings"
)

// CleavageMode selects how proteins are digested in silico.
type CleavageMode string

const (
	CleavageEnzyme       CleavageMode = "enzyme"
	CleavageWholeProtein CleavageMode = "whole-protein"
	CleavageUnspecific   CleavageMode = "unspecific"
)

// Specificity says whether the enzyme rule must hold at both peptide termini.
type Specificity string

const (
	SpecificityFull Specificity = "full"
	SpecificitySemi Specificity = "semi"
)

// MassUnit is the unit of a mass tolerance.
type MassUnit string

const (
	UnitPPM      MassUnit = "ppm"
	UnitAbsolute MassUnit = "absolute"
)

const (
	DefaultMinPeptideLength = 6
	DefaultMaxPeptideLength = 30
	DefaultMissedCleavages  = 2
)

// Enzyme describes a cleavage rule. Enzymes are defined from one side: either
// Before (cleave after these residues) or After (cleave before these residues).
type Enzyme struct {
	Name              string     `yaml:"name"`
	Before            ResidueSet `yaml:"before,omitempty"`
	After             ResidueSet `yaml:"after,omitempty"`
	RestrictionBefore ResidueSet `yaml:"restriction_before,omitempty"`
	RestrictionAfter  ResidueSet `yaml:"restriction_after,omitempty"`
	CV                *CvTerm    `yaml:"cv,omitempty"`
}

// DigestionParameters holds the cleavage mode and the per-enzyme settings.
type DigestionParameters struct {
	Mode            CleavageMode           `yaml:"mode"`
	Enzymes         []Enzyme               `yaml:"enzymes,omitempty"`
	MissedCleavages map[string]int         `yaml:"missed_cleavages,omitempty"`
	Specificity     map[string]Specificity `yaml:"specificity,omitempty"`
}

// MissedCleavagesFor returns the allowance configured for the named enzyme.
func (d DigestionParameters) MissedCleavagesFor(enzyme string) int {
	if n, ok := d.MissedCleavages[enzyme]; ok {
		return n
	}
	return DefaultMissedCleavages
}

// SpecificityFor returns the specificity configured for the named enzyme,
// full when none is set.
func (d DigestionParameters) SpecificityFor(enzyme string) Specificity {
	if s, ok := d.Specificity[enzyme]; ok && s != "" {
		return s
	}
	return SpecificityFull
}

// Tolerance is a mass tolerance window.
type Tolerance struct {
	Value float64  `yaml:"value"`
	Unit  MassUnit `yaml:"unit"`
}

// AdvancedSettings carries engine-specific knobs. Nil fields fall back to the
// package defaults.
type AdvancedSettings struct {
	MinPeptideLength *int `yaml:"min_peptide_length,omitempty"`
	MaxPeptideLength *int `yaml:"max_peptide_length,omitempty"`
}

// PeptideLengths returns the effective minimum and maximum peptide length.
func (a AdvancedSettings) PeptideLengths() (int, int) {
	minLen, maxLen := DefaultMinPeptideLength, DefaultMaxPeptideLength
	if a.MinPeptideLength != nil {
		minLen = *a.MinPeptideLength
	}
	if a.MaxPeptideLength != nil {
		maxLen = *a.MaxPeptideLength
	}
	return minLen, maxLen
}

// SearchParameters is the canonical search configuration.
type SearchParameters struct {
	FragmentTolerance     Tolerance           `yaml:"fragment_tolerance"`
	PrecursorTolerance    Tolerance           `yaml:"precursor_tolerance"`
	FixedModifications    []string            `yaml:"fixed_modifications,omitempty"`
	VariableModifications []string            `yaml:"variable_modifications,omitempty"`
	Digestion             DigestionParameters `yaml:"digestion"`
	Advanced              AdvancedSettings    `yaml:"advanced,omitempty"`
}

// Modifications returns the fixed list followed by the variable list.
func (p SearchParameters) Modifications() []string {
	out := make([]string, 0, len(p.FixedModifications)+len(p.VariableModifications))
	out = append(out, p.FixedModifications...)
	return append(out, p.VariableModifications...)
}

// Normalize trims names and lower-cases enum values in place.
func (p *SearchParameters) Normalize() {
	p.FragmentTolerance.Unit = MassUnit(strings.ToLower(strings.TrimSpace(string(p.FragmentTolerance.Unit))))
	p.PrecursorTolerance.Unit = MassUnit(strings.ToLower(strings.TrimSpace(string(p.PrecursorTolerance.Unit))))
	p.FixedModifications = trimAll(p.FixedModifications)
	p.VariableModifications = trimAll(p.VariableModifications)
	p.Digestion.Mode = CleavageMode(strings.ToLower(strings.TrimSpace(string(p.Digestion.Mode))))
	if p.Digestion.Mode == "" {
		p.Digestion.Mode = CleavageEnzyme
	}
	for i := range p.Digestion.Enzymes {
		p.Digestion.Enzymes[i].Name = strings.TrimSpace(p.Digestion.Enzymes[i].Name)
	}
	for name, s := range p.Digestion.Specificity {
		p.Digestion.Specificity[name] = Specificity(strings.ToLower(strings.TrimSpace(string(s))))
	}
}

// Validate rejects values no engine could use. The number of enzymes is left
// to the engine writers, which know what they support.
func (p SearchParameters) Validate() error {
	if err := p.FragmentTolerance.validate("fragment_tolerance"); err != nil {
		return err
	}
	if err := p.PrecursorTolerance.validate("precursor_tolerance"); err != nil {
		return err
	}
	switch p.Digestion.Mode {
	case CleavageEnzyme, CleavageWholeProtein, CleavageUnspecific:
	default:
		return fmt.Errorf("model: unknown digestion mode %q", p.Digestion.Mode)
	}
	for name, s := range p.Digestion.Specificity {
		if s != SpecificityFull && s != SpecificitySemi {
			return fmt.Errorf("model: specificity for %s must be full or semi, got %q", name, s)
		}
	}
	for i, e := range p.Digestion.Enzymes {
		if e.Name == "" {
			return fmt.Errorf("model: digestion.enzymes[%d]: name is required", i)
		}
	}
	minLen, maxLen := p.Advanced.PeptideLengths()
	if minLen < 1 || maxLen < minLen {
		return fmt.Errorf("model: peptide length range %d-%d is invalid", minLen, maxLen)
	}
	return nil
}

func (t Tolerance) validate(field string) error {
	if t.Value < 0 {
		return fmt.Errorf("model: %s must be >= 0", field)
	}
	switch t.Unit {
	case UnitPPM, UnitAbsolute:
		return nil
	default:
		return fmt.Errorf("model: %s unit must be ppm or absolute, got %q", field, t.Unit)
	}
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
