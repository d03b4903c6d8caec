package model

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ResidueSet is an ordered set of single-letter amino acid codes. The empty
// set means "any residue".
type ResidueSet string

// NewResidueSet normalizes the given residues: upper case, duplicates and
// separators dropped, first-seen order kept.
func NewResidueSet(residues ...string) ResidueSet {
	var b strings.Builder
	seen := map[rune]bool{}
	for _, chunk := range residues {
		for _, r := range chunk {
			if !unicode.IsLetter(r) {
				continue
			}
			r = unicode.ToUpper(r)
			if seen[r] {
				continue
			}
			seen[r] = true
			b.WriteRune(r)
		}
	}
	return ResidueSet(b.String())
}

// Residues returns each residue as its own string, in declared order.
func (s ResidueSet) Residues() []string {
	out := make([]string, 0, len(s))
	for _, r := range string(s) {
		out = append(out, string(r))
	}
	return out
}

// Empty reports whether the set names no explicit residue.
func (s ResidueSet) Empty() bool {
	return len(s) == 0
}

// UnmarshalYAML accepts either a scalar ("KR") or a sequence ([K, R]).
func (s *ResidueSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = NewResidueSet(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*s = NewResidueSet(items...)
		return nil
	default:
		return fmt.Errorf("model: residues must be a string or a list, line %d", node.Line)
	}
}

// MarshalYAML writes the set back as a plain string.
func (s ResidueSet) MarshalYAML() (any, error) {
	return string(s), nil
}
