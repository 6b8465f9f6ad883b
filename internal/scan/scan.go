// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan finds question-start markers in extracted page text.
//
// A line starts a question when, after optional leading whitespace, it begins
// with one or more decimal digits of any script (at most MaxDigits), a
// period, optional whitespace and then any remainder. With the default
// two-digit bound, "103. Foo" and "12a. Foo" do not match.
package scan

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/qextract/pkg/types"
)

// space covers ASCII whitespace, the C0/C1 separators \v, \x1c-\x1f and
// \x85, and Unicode separators such as the no-break space PDF text layers
// often emit.
const space = `[\s\v\x1c-\x1f\x85\p{Z}]`

// Scanner applies the marker rule to page text.
type Scanner struct {
	re        *regexp.Regexp
	normalize types.Normalization
}

// New builds a Scanner from cfg. cfg is validated (and defaulted) first.
func New(cfg types.ScanConfig) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pattern := fmt.Sprintf(`^%s*(\p{Nd}{1,%d})\.%s*(.*)`, space, cfg.MaxDigits, space)
	return &Scanner{
		re:        regexp.MustCompile(pattern),
		normalize: cfg.Normalize,
	}, nil
}

// MatchLine applies the marker rule to a single line.
func (s *Scanner) MatchLine(line string) (id int, raw string, ok bool) {
	m := s.re.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	id, ok = parseDigits(m[1])
	if !ok {
		return 0, "", false
	}
	return id, s.clean(m[2]), true
}

// parseDigits parses a run of decimal digits from any script, so "١٢" and
// "１２" both read as 12.
func parseDigits(digits string) (int, bool) {
	n := 0
	for _, r := range digits {
		d, ok := digitValue(r)
		if !ok {
			return 0, false
		}
		n = n*10 + d
	}
	return n, true
}

// digitValue returns the value of a decimal digit rune. Unicode encodes every
// Nd digit set as ten consecutive code points starting at zero, and the
// ranges of unicode.Digit start on a zero and hold whole sets.
func digitValue(r rune) (int, bool) {
	for _, rng := range unicode.Digit.R16 {
		if r >= rune(rng.Lo) && r <= rune(rng.Hi) {
			return int(r-rune(rng.Lo)) % 10, true
		}
	}
	for _, rng := range unicode.Digit.R32 {
		if r >= rune(rng.Lo) && r <= rune(rng.Hi) {
			return int(r-rune(rng.Lo)) % 10, true
		}
	}
	return 0, false
}

// ScanPage returns the records found in one page of text, in line order.
// Empty text yields no records.
func (s *Scanner) ScanPage(page int, text string) []types.Question {
	if text == "" {
		return nil
	}
	var out []types.Question
	for _, line := range strings.Split(text, "\n") {
		id, raw, ok := s.MatchLine(line)
		if !ok {
			continue
		}
		out = append(out, types.Question{ID: id, Page: page, Raw: raw})
	}
	return out
}

func (s *Scanner) clean(raw string) string {
	switch s.normalize {
	case types.NormalizeNFC:
		return norm.NFC.String(raw)
	case types.NormalizeNFKC:
		return norm.NFKC.String(raw)
	default:
		return raw
	}
}
