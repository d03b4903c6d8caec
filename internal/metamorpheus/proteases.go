package metamorpheus

import (
	"io"
	"strings"

	"github.com/kingrea/searchbridge/internal/model"
)

var proteaseColumns = []string{
	"Name",
	"Sequences Inducing Cleavage",
	"Sequences Preventing Cleavage",
	"Cleavage Terminus",
	"Cleavage Specificity",
	"PSI-MS Accession Number",
	"PSI-MS Name",
	"Site Regular Expression",
	"Notes",
}

// Fixed rows, written byte for byte. The engine refuses to start unless the
// table carries a trypsin entry, whatever protease the search uses, so
// baselineRow is always written first.
const (
	baselineRow     = "trypsin\tK|,R|\t\t\tfull\tMS:1001313\tTrypsin/P\t(?<=[KR])"
	wholeProteinRow = "Whole Protein\t\t\t\tnone\tMS:1001955\tno cleavage"
	unspecificRow   = "Unspecific\tX|\t\t\tfull\tMS:1001956\tunspecific cleavage"
)

// CleavageSite renders the "Sequences Inducing Cleavage" expression of an
// enzyme: "K|,R|" or "K|[P]" when the enzyme cleaves after residues, "|D"
// or "[E]|D" when it cleaves before them.
func CleavageSite(e model.Enzyme) string {
	var terms []string
	if !e.Before.Empty() {
		for _, residue := range e.Before.Residues() {
			if e.RestrictionAfter.Empty() {
				terms = append(terms, residue+"|")
				continue
			}
			for _, restriction := range e.RestrictionAfter.Residues() {
				terms = append(terms, residue+"|["+restriction+"]")
			}
		}
	} else {
		for _, residue := range e.After.Residues() {
			if e.RestrictionBefore.Empty() {
				terms = append(terms, "|"+residue)
				continue
			}
			for _, restriction := range e.RestrictionBefore.Residues() {
				terms = append(terms, "["+restriction+"]|"+residue)
			}
		}
	}
	return strings.Join(terms, ",")
}

// ProteaseRow renders the data row for the resolved digestion.
func ProteaseRow(d Digestion) string {
	switch d.Mode {
	case model.CleavageWholeProtein:
		return wholeProteinRow
	case model.CleavageUnspecific:
		return unspecificRow
	}
	e := d.Enzyme
	if e == nil {
		e = &model.Enzyme{Name: d.ProteaseName}
	}
	specificity := "semi"
	if d.Specificity == model.SpecificityFull {
		specificity = "full"
	}
	var accession, cvName string
	if e.CV != nil {
		accession, cvName = e.CV.Accession, e.CV.Name
	}
	cols := []string{
		e.Name,
		CleavageSite(*e),
		"", // sequences preventing cleavage: folded into the site expression
		"", // cleavage terminus
		specificity,
		accession,
		cvName,
		"", // site regular expression
		"", // notes
	}
	return strings.Join(cols, "\t")
}

// WriteProteases writes the header, the baseline row and the data row.
func WriteProteases(w io.Writer, d Digestion) error {
	lines := []string{
		strings.Join(proteaseColumns, "\t"),
		baselineRow,
		ProteaseRow(d),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
