package metamorpheus

import (
	"fmt"

	"github.com/kingrea/searchbridge/internal/model"
)

const (
	// WholeProteinName is the engine's protease name for undigested proteins.
	WholeProteinName = "Whole Protein"
	// UnspecificName is the engine's protease name for unspecific cleavage.
	UnspecificName = "Unspecific"
	// UnspecificMissedCleavages is the allowance written for unspecific
	// cleavage. Kept as the literal the engine was validated with.
	UnspecificMissedCleavages = 24
)

// Digestion is the resolved protease choice shared by the protease table and
// the task document.
type Digestion struct {
	Mode            model.CleavageMode
	ProteaseName    string
	MissedCleavages int
	Specificity     model.Specificity
	// Enzyme is set in enzyme mode only.
	Enzyme *model.Enzyme
}

// ResolveDigestion picks the protease name and missed-cleavage count for the
// configured mode. Enzyme mode must name exactly one enzyme.
func ResolveDigestion(d model.DigestionParameters) (Digestion, error) {
	switch d.Mode {
	case model.CleavageWholeProtein:
		return Digestion{Mode: d.Mode, ProteaseName: WholeProteinName, MissedCleavages: 0}, nil
	case model.CleavageUnspecific:
		return Digestion{Mode: d.Mode, ProteaseName: UnspecificName, MissedCleavages: UnspecificMissedCleavages}, nil
	case model.CleavageEnzyme, "":
		switch n := len(d.Enzymes); {
		case n > 1:
			return Digestion{}, fmt.Errorf("metamorpheus: multiple enzymes not supported (%d configured): %w", n, ErrUnsupportedConfiguration)
		case n == 0:
			return Digestion{}, fmt.Errorf("metamorpheus: enzyme digestion without an enzyme: %w", ErrUnsupportedConfiguration)
		}
		enzyme := d.Enzymes[0]
		return Digestion{
			Mode:            model.CleavageEnzyme,
			ProteaseName:    enzyme.Name,
			MissedCleavages: d.MissedCleavagesFor(enzyme.Name),
			Specificity:     d.SpecificityFor(enzyme.Name),
			Enzyme:          &enzyme,
		}, nil
	default:
		return Digestion{}, fmt.Errorf("metamorpheus: digestion mode %q: %w", d.Mode, ErrUnsupportedConfiguration)
	}
}
