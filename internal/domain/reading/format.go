package reading

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOrdinal is returned by ToRoman for zero or negative input.
var ErrInvalidOrdinal = errors.New("ordinal must be a positive integer")

// MalformedRangeText is the fallback cell text used when a reading's verse
// references cannot be parsed. A bad record degrades to this string instead of
// aborting the report it appears in.
const MalformedRangeText = "Error formatting verse range"

var romanSymbols = []struct {
	Symbol string
	Value  int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

// ToRoman converts a positive integer to its Roman numeral display label.
func ToRoman(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidOrdinal, n)
	}
	var b strings.Builder
	for _, s := range romanSymbols {
		for n >= s.Value {
			b.WriteString(s.Symbol)
			n -= s.Value
		}
	}
	return b.String(), nil
}

// FormatVerseRange renders an aliyah as "Book startCh:startV-endV" when both
// references share a chapter, or "Book startCh:startV-endCh:endV" otherwise,
// with the verse count appended in parentheses when present. Malformed
// references yield MalformedRangeText.
func FormatVerseRange(a Aliyah) string {
	startCh, startV, ok := splitRef(a.Begin)
	if !ok || a.Book == "" {
		return MalformedRangeText
	}
	endCh, endV, ok := splitRef(a.End)
	if !ok {
		return MalformedRangeText
	}

	var span string
	if startCh == endCh {
		span = fmt.Sprintf("%s:%s-%s", startCh, startV, endV)
	} else {
		span = fmt.Sprintf("%s:%s-%s:%s", startCh, startV, endCh, endV)
	}

	if a.Verses != nil {
		return fmt.Sprintf("%s %s (%d)", a.Book, span, *a.Verses)
	}
	return fmt.Sprintf("%s %s", a.Book, span)
}

// FormatMultiPartRange renders a Haftarah that spans multiple disjoint ranges:
// each part's raw "start-end" joined with commas, prefixed with the first
// part's book name, with the summed verse count appended.
func FormatMultiPartRange(parts []Aliyah) string {
	if len(parts) == 0 {
		return MalformedRangeText
	}

	spans := make([]string, 0, len(parts))
	total := 0
	for _, p := range parts {
		spans = append(spans, fmt.Sprintf("%s-%s", p.Begin, p.End))
		if p.Verses != nil {
			total += *p.Verses
		}
	}
	return fmt.Sprintf("%s %s (%d)", parts[0].Book, strings.Join(spans, ", "), total)
}

// splitRef parses a "chapter:verse" reference. Both parts must be non-empty
// and numeric.
func splitRef(ref string) (chapter, verse string, ok bool) {
	chapter, verse, found := strings.Cut(ref, ":")
	if !found || !isNumeric(chapter) || !isNumeric(verse) {
		return "", "", false
	}
	return chapter, verse, true
}
