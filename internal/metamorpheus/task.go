package metamorpheus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kingrea/searchbridge/internal/model"
)

// ThreadsPerFile is the thread budget written to every task document.
const ThreadsPerFile = 3

// tolerancePrefix precedes every tolerance value in the task document.
const tolerancePrefix = "±"

type setting struct {
	key   string
	value string
}

// Literal settings. Keys and values are the engine's own spelling.
var (
	searchSettings = []setting{
		{"DisposeOfFileWhenDone", "true"},
		{"DoParsimony", "true"}, // the mzid output is only written with parsimony on
		{"ModPeptidesAreDifferent", "false"},
		{"NoOneHitWonders", "false"},
		{"MatchBetweenRuns", "false"},
		{"Normalize", "false"},
		{"QuantifyPpmTol", "5.0"},
		{"DoHistogramAnalysis", "false"},
		{"SearchTarget", "true"},
		{"DecoyType", `"None"`},
		{"MassDiffAcceptorType", `"OneMM"`},
		{"WritePrunedDatabase", "false"},
		{"KeepAllUniprotMods", "true"},
		{"DoLocalizationAnalysis", "true"},
		{"DoQuantification", "false"},
		{"SearchType", `"Classic"`},
		{"LocalFdrCategories", `["FullySpecific"]`},
		{"MaxFragmentSize", "30000.0"},
		{"HistogramBinTolInDaltons", "0.003"},
		{"MaximumMassThatFragmentIonScoreIsDoubled", "0.0"},
		{"WriteMzId", "true"},
		{"WritePepXml", "false"},
		{"WriteDecoys", "true"},
		{"WriteContaminants", "true"},
	}

	modsToWrite = []setting{
		{"'N-linked glycosylation'", "3"},
		{"'O-linked glycosylation'", "3"},
		{"'Other glycosylation'", "3"},
		{"'Common Biological'", "3"},
		{"'Less Common'", "3"},
		{"Metal", "3"},
		{"'2+ nucleotide substitution'", "3"},
		{"'1 nucleotide substitution'", "3"},
		{"UniProt", "2"},
	}

	deconvolutionSettings = []setting{
		{"DoPrecursorDeconvolution", "true"},
		{"UseProvidedPrecursorInfo", "true"},
		{"DeconvolutionIntensityRatio", "3.0"},
		{"DeconvolutionMaxAssumedChargeState", "12"},
		{"DeconvolutionMassTolerance", `"±4.0000 PPM"`},
		{"TotalPartitions", "1"},
	}

	scoringSettings = []setting{
		{"AddCompIons", "false"},
		{"ScoreCutoff", "5.0"},
		{"ReportAllAmbiguity", "true"},
		{"NumberOfPeaksToKeepPerWindow", "200"},
		{"MinimumAllowedIntensityRatioToBasePeak", "0.01"},
		{"NormalizePeaksAccrossAllWindows", "false"},
		{"TrimMs1Peaks", "false"},
		{"TrimMsMsPeaks", "true"},
		{"UseDeltaScore", "false"},
		{"QValueOutputFilter", "1.0"},
		{"CustomIons", "[]"},
		{"AssumeOrphanPeaksAreZ1Fragments", "true"},
		{"MaxHeterozygousVariants", "4"},
		{"MinVariantDepth", "1"},
		{"DissociationType", `"HCD"`},
		{"ChildScanDissociationType", `"Unknown"`},
	}
)

// Digestion literals.
const (
	InitiatorMethionineBehavior = "Variable"
	MaxModificationIsoforms     = 1024
	MaxModsForPeptide           = 2
	SearchModeType              = "Full"
	FragmentationTerminus       = "Both"
)

// ModificationList renders a fixed or variable list: one
// "<SourceTag>\t<name> on <residue>" entry per target residue ("X" when the
// modification has none), entries joined by a double tab.
func ModificationList(names []string, lookup model.ModificationLookup) (string, error) {
	var entries []string
	for _, name := range names {
		mod, err := lookupModification(lookup, name)
		if err != nil {
			return "", err
		}
		sanitized := SanitizeName(mod.Name)
		residues := mod.Targets.Residues()
		if len(residues) == 0 {
			residues = []string{"X"}
		}
		for _, residue := range residues {
			entries = append(entries, SourceTag+"\t"+sanitized+" on "+residue)
		}
	}
	return strings.Join(entries, "\t\t"), nil
}

// FormatTolerance renders e.g. "±10.0 PPM" or "±0.02 Absolute".
func FormatTolerance(t model.Tolerance) string {
	unit := "Absolute"
	if t.Unit == model.UnitPPM {
		unit = "PPM"
	}
	return tolerancePrefix + formatDecimal(t.Value) + " " + unit
}

// formatDecimal prints the shortest representation, always with a decimal
// point ("10.0", "0.02").
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// basicString quotes s as a TOML basic string. Tabs stay literal, which TOML
// allows and the engine's own task files use.
func basicString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

type taskWriter struct {
	b strings.Builder
}

func (t *taskWriter) line(s string) {
	t.b.WriteString(s)
	t.b.WriteByte('\n')
}

func (t *taskWriter) section(name string) {
	t.line("[" + name + "]")
}

func (t *taskWriter) set(key, value string) {
	t.line(key + " = " + value)
}

func (t *taskWriter) settings(list []setting) {
	for _, s := range list {
		t.set(s.key, s.value)
	}
}

// RenderSearchTask builds the task document for the resolved digestion.
func RenderSearchTask(params model.SearchParameters, lookup model.ModificationLookup, d Digestion) (string, error) {
	fixed, err := ModificationList(params.FixedModifications, lookup)
	if err != nil {
		return "", fmt.Errorf("fixed modifications: %w", err)
	}
	variable, err := ModificationList(params.VariableModifications, lookup)
	if err != nil {
		return "", fmt.Errorf("variable modifications: %w", err)
	}
	minLen, maxLen := params.Advanced.PeptideLengths()

	var t taskWriter
	t.set("TaskType", `"Search"`)
	t.line("")

	t.section("SearchParameters")
	t.settings(searchSettings)
	t.line("")

	t.section("SearchParameters.ModsToWriteSelection")
	t.settings(modsToWrite)
	t.line("")

	t.section("CommonParameters")
	t.set("MaxThreadsToUsePerFile", strconv.Itoa(ThreadsPerFile))
	t.set("ListOfModsFixed", basicString(fixed))
	t.set("ListOfModsVariable", basicString(variable))
	t.settings(deconvolutionSettings)
	t.set("ProductMassTolerance", basicString(FormatTolerance(params.FragmentTolerance)))
	t.set("PrecursorMassTolerance", basicString(FormatTolerance(params.PrecursorTolerance)))
	t.settings(scoringSettings)
	t.line("")

	t.section("CommonParameters.DigestionParams")
	t.set("MaxMissedCleavages", strconv.Itoa(d.MissedCleavages))
	t.set("InitiatorMethionineBehavior", basicString(InitiatorMethionineBehavior))
	t.set("MinPeptideLength", strconv.Itoa(minLen))
	t.set("MaxPeptideLength", strconv.Itoa(maxLen))
	t.set("MaxModificationIsoforms", strconv.Itoa(MaxModificationIsoforms))
	t.set("MaxModsForPeptide", strconv.Itoa(MaxModsForPeptide))
	t.set("Protease", basicString(d.ProteaseName))
	t.set("SearchModeType", basicString(SearchModeType))
	t.set("FragmentationTerminus", basicString(FragmentationTerminus))
	t.set("SpecificProtease", basicString(d.ProteaseName))
	t.set("GeneratehUnlabeledProteinsForSilac", "true")
	return t.b.String(), nil
}

// WriteSearchTask renders the task document into w.
func WriteSearchTask(w io.Writer, params model.SearchParameters, lookup model.ModificationLookup, d Digestion) error {
	doc, err := RenderSearchTask(params, lookup, d)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}
