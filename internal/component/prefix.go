package component

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrNoPrefixes is returned when a prefix set would be empty.
var ErrNoPrefixes = errors.New("at least one component prefix is required")

// PrefixSet is an ordered, immutable collection of upper-case alphabetic
// prefixes together with the compiled full-match pattern
// ^(?:P1|P2|...)[0-9]+$ used to recognise identifiers.
type PrefixSet struct {
	prefixes []string
	pattern  *regexp.Regexp
}

// NewPrefixSet validates and upper-cases the given prefixes. Duplicates are
// dropped, first occurrence wins. Every prefix must be non-empty and consist
// of ASCII letters only.
func NewPrefixSet(prefixes []string) (*PrefixSet, error) {
	seen := make(map[string]bool, len(prefixes))
	cleaned := make([]string, 0, len(prefixes))

	for _, raw := range prefixes {
		p := strings.ToUpper(strings.TrimSpace(raw))
		if p == "" {
			return nil, fmt.Errorf("invalid prefix %q: prefix cannot be empty", raw)
		}
		for i := 0; i < len(p); i++ {
			if p[i] < 'A' || p[i] > 'Z' {
				return nil, fmt.Errorf("invalid prefix %q: only letters are allowed", raw)
			}
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		cleaned = append(cleaned, p)
	}

	if len(cleaned) == 0 {
		return nil, ErrNoPrefixes
	}

	// Longest alternatives first so the alternation reads naturally; the
	// anchors make the order irrelevant to the result.
	alternatives := make([]string, len(cleaned))
	copy(alternatives, cleaned)
	sort.SliceStable(alternatives, func(i, j int) bool {
		return len(alternatives[i]) > len(alternatives[j])
	})
	for i, p := range alternatives {
		alternatives[i] = regexp.QuoteMeta(p)
	}

	pattern, err := regexp.Compile(`^(?:` + strings.Join(alternatives, "|") + `)[0-9]+$`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile prefix pattern: %w", err)
	}

	return &PrefixSet{prefixes: cleaned, pattern: pattern}, nil
}

// MustPrefixSet is like NewPrefixSet but panics on error.
func MustPrefixSet(prefixes ...string) *PrefixSet {
	ps, err := NewPrefixSet(prefixes)
	if err != nil {
		panic(err)
	}
	return ps
}

// Prefixes returns the prefixes in configuration order.
func (p *PrefixSet) Prefixes() []string {
	out := make([]string, len(p.prefixes))
	copy(out, p.prefixes)
	return out
}

// SingleLetter returns the one-letter prefixes in configuration order.
func (p *PrefixSet) SingleLetter() []string {
	var out []string
	for _, prefix := range p.prefixes {
		if len(prefix) == 1 {
			out = append(out, prefix)
		}
	}
	return out
}

// MultiLetter returns the prefixes longer than one letter in configuration order.
func (p *PrefixSet) MultiLetter() []string {
	var out []string
	for _, prefix := range p.prefixes {
		if len(prefix) > 1 {
			out = append(out, prefix)
		}
	}
	return out
}

// HasKnownPrefix reports whether candidate starts with any configured prefix.
// It is a cheap pre-filter only; it does not make candidate an identifier.
func (p *PrefixSet) HasKnownPrefix(candidate string) bool {
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(candidate, prefix) {
			return true
		}
	}
	return false
}

// IsValidIdentifier reports whether candidate is exactly one configured
// prefix followed by one or more decimal digits. candidate must already be
// in canonical form.
func (p *PrefixSet) IsValidIdentifier(candidate string) bool {
	if !p.HasKnownPrefix(candidate) {
		return false
	}
	return p.pattern.MatchString(candidate)
}

// String returns the prefixes joined with commas.
func (p *PrefixSet) String() string {
	return strings.Join(p.prefixes, ",")
}
