package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Atom is one element (optionally isotope-labelled, e.g. "13C") and its
// signed count inside a composition.
type Atom struct {
	Symbol string
	Count  int
}

// Composition is an ordered chemical formula such as "C2 H3 N1 O1".
type Composition []Atom

var atomPattern = regexp.MustCompile(`^(\d*[A-Z][a-z]?)(-?\d+)?$`)

// ParseComposition reads the space separated "<symbol><count>" notation.
// A missing count means one; zero counts are dropped.
func ParseComposition(value string) (Composition, error) {
	var out Composition
	for _, token := range strings.Fields(value) {
		match := atomPattern.FindStringSubmatch(token)
		if match == nil {
			return nil, fmt.Errorf("model: invalid composition token %q in %q", token, value)
		}
		count := 1
		if match[2] != "" {
			n, err := strconv.Atoi(match[2])
			if err != nil {
				return nil, fmt.Errorf("model: invalid count in %q: %w", token, err)
			}
			count = n
		}
		if count == 0 {
			continue
		}
		out = append(out, Atom{Symbol: match[1], Count: count})
	}
	return out, nil
}

// MustParseComposition is ParseComposition for literals known to be valid.
func MustParseComposition(value string) Composition {
	c, err := ParseComposition(value)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the composition the way the engine reads it: every count is
// printed, atoms keep their declared order.
func (c Composition) String() string {
	parts := make([]string, 0, len(c))
	for _, atom := range c {
		parts = append(parts, atom.Symbol+strconv.Itoa(atom.Count))
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the composition has no atoms.
func (c Composition) Empty() bool {
	return len(c) == 0
}

// UnmarshalYAML decodes a composition from its string notation.
func (c *Composition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("model: composition must be a string, line %d", node.Line)
	}
	parsed, err := ParseComposition(node.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the composition as its string notation.
func (c Composition) MarshalYAML() (any, error) {
	return c.String(), nil
}
