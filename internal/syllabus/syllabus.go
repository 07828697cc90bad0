// Package syllabus holds the Primary 5 sub-strand and topic table used to
// steer problem generation.
package syllabus

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// FallbackTopic is used when no sub-strand is requested or the requested
// one is unknown.
const FallbackTopic = "general Primary 5 mathematics"

// SubStrand is one entry of the syllabus table.
type SubStrand struct {
	Name   string   `json:"subStrand"`
	Topics []string `json:"topics"`
}

// table holds the sub-strands with a case-insensitive name index.
type table struct {
	subStrands []SubStrand
	byName     map[string]*SubStrand
}

// t is the package-level table, set by init() in data.go.
var t *table

func buildTable(subs []SubStrand) *table {
	tb := &table{
		subStrands: subs,
		byName:     make(map[string]*SubStrand, len(subs)),
	}
	for i := range tb.subStrands {
		tb.byName[normalize(tb.subStrands[i].Name)] = &tb.subStrands[i]
	}
	return tb
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SubStrands returns a copy of all sub-strands in syllabus order.
func SubStrands() []SubStrand {
	out := make([]SubStrand, len(t.subStrands))
	for i, s := range t.subStrands {
		out[i] = SubStrand{Name: s.Name, Topics: append([]string(nil), s.Topics...)}
	}
	return out
}

// Names returns the sub-strand names in syllabus order.
func Names() []string {
	names := make([]string, len(t.subStrands))
	for i, s := range t.subStrands {
		names[i] = s.Name
	}
	return names
}

// Lookup finds a sub-strand by name, ignoring case and surrounding space.
func Lookup(name string) (SubStrand, bool) {
	s, ok := t.byName[normalize(name)]
	if !ok {
		return SubStrand{}, false
	}
	return SubStrand{Name: s.Name, Topics: append([]string(nil), s.Topics...)}, true
}

// RandomTopic picks a topic of the named sub-strand uniformly at random.
// It returns FallbackTopic and false when the name is empty, unknown or has
// no topics. A nil rng uses the global source.
func RandomTopic(name string, rng *rand.Rand) (string, bool) {
	s, ok := t.byName[normalize(name)]
	if !ok || len(s.Topics) == 0 {
		return FallbackTopic, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(s.Topics))
	} else {
		i = rand.IntN(len(s.Topics))
	}
	return s.Topics[i], true
}

// Validate checks the built-in table for structural problems.
func Validate() error {
	return validateSubStrands(t.subStrands)
}

func validateSubStrands(subs []SubStrand) error {
	var errs []string
	seen := make(map[string]bool, len(subs))
	for _, s := range subs {
		key := normalize(s.Name)
		if key == "" {
			errs = append(errs, "sub-strand with empty name")
			continue
		}
		if seen[key] {
			errs = append(errs, fmt.Sprintf("duplicate sub-strand: %q", s.Name))
		}
		seen[key] = true
		if len(s.Topics) == 0 {
			errs = append(errs, fmt.Sprintf("sub-strand %q has no topics", s.Name))
		}
		for i, topic := range s.Topics {
			if strings.TrimSpace(topic) == "" {
				errs = append(errs, fmt.Sprintf("sub-strand %q topic %d is empty", s.Name, i))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("syllabus validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
