package metamorpheus

import (
	"fmt"
	"io"
	"strings"

	"github.com/kingrea/searchbridge/internal/model"
)

// SourceTag is written as every record's MT line and prefixes each entry of
// the task document's modification lists; the engine matches the two.
const SourceTag = "SearchBridge"

const modificationsTitle = "Custom Modifications"

// positions maps every modification type to the engine's PP literal.
var positions = map[model.ModificationType]string{
	model.ModAnywhere:            "Anywhere.",
	model.ModProteinNTerm:        "N-terminal.",
	model.ModProteinNTermResidue: "N-terminal.",
	model.ModProteinCTerm:        "C-terminal.",
	model.ModProteinCTermResidue: "C-terminal.",
	model.ModPeptideNTerm:        "Peptide N-terminal.",
	model.ModPeptideNTermResidue: "Peptide N-terminal.",
	model.ModPeptideCTerm:        "Peptide C-terminal.",
	model.ModPeptideCTermResidue: "Peptide C-terminal.",
}

func init() {
	for _, t := range model.ModificationTypes() {
		if _, ok := positions[t]; !ok {
			panic(fmt.Sprintf("metamorpheus: no position literal for modification type %q", t))
		}
	}
}

// Position returns the PP literal for a modification type.
func Position(t model.ModificationType) (string, error) {
	if pos, ok := positions[t]; ok {
		return pos, nil
	}
	return "", fmt.Errorf("metamorpheus: modification type %q: %w", t, ErrUnsupportedModificationType)
}

// FormatModification renders one record, terminated by its "//" line.
//
//	ID   Phosphorylation off Y
//	TG   Y
//	PP   Anywhere.
//	MT   SearchBridge
//	CF   H1 O3 P1
//	DI   C8 H10 N1 O4 P1
//	DR   Unimod; 21.
//	//
func FormatModification(mod model.Modification) (string, error) {
	position, err := Position(mod.Type)
	if err != nil {
		return "", fmt.Errorf("%s: %w", mod.Name, err)
	}
	var b strings.Builder
	field := func(tag, value string) {
		b.WriteString(tag)
		b.WriteString("   ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	field("ID", SanitizeName(mod.Name))
	field("TG", targetList(mod.Targets))
	field("PP", position)
	for _, loss := range mod.NeutralLosses {
		field("NL", loss.String())
	}
	field("MT", SourceTag)
	field("CF", mod.Composition.String())
	for _, ion := range mod.ReporterIons {
		field("DI", ion.String())
	}
	if mod.Unimod != nil && mod.Unimod.Accession != "" {
		field("DR", "Unimod; "+unimodNumber(mod.Unimod.Accession)+".")
	}
	b.WriteString("//\n")
	return b.String(), nil
}

// WriteModifications writes the title line and one record per fixed, then
// variable, modification.
func WriteModifications(w io.Writer, params model.SearchParameters, lookup model.ModificationLookup) error {
	if _, err := io.WriteString(w, modificationsTitle+"\n"); err != nil {
		return err
	}
	for _, name := range params.Modifications() {
		mod, err := lookupModification(lookup, name)
		if err != nil {
			return err
		}
		record, err := FormatModification(mod)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, record); err != nil {
			return err
		}
	}
	return nil
}

func targetList(targets model.ResidueSet) string {
	if targets.Empty() {
		return "X"
	}
	return strings.Join(targets.Residues(), " or ")
}

// unimodNumber strips the "UNIMOD:" prefix from an accession.
func unimodNumber(accession string) string {
	const prefix = "UNIMOD:"
	if len(accession) > len(prefix) && strings.EqualFold(accession[:len(prefix)], prefix) {
		return accession[len(prefix):]
	}
	return accession
}

func lookupModification(lookup model.ModificationLookup, name string) (model.Modification, error) {
	if lookup == nil {
		return model.Modification{}, fmt.Errorf("metamorpheus: no modification catalog")
	}
	mod, ok := lookup.Lookup(name)
	if !ok {
		return model.Modification{}, fmt.Errorf("metamorpheus: modification %q not found in catalog", name)
	}
	return mod, nil
}
