package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Keep word characters, whitespace and the Arabic block; everything else
// (punctuation, symbols) becomes a space before collapsing.
var nonWordRe = regexp.MustCompile(`[^\w\s` + "؀-ۿ" + `]+`)

var spaceRe = regexp.MustCompile(`\s+`)

// stripMarks decomposes the text (NFKD) and drops combining marks, so
// "café" and "cafe" normalize to the same string.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize canonicalizes free text for lexical matching: lowercase,
// diacritics stripped, punctuation removed (Arabic letters are preserved),
// whitespace collapsed. Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}
	text = nonWordRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Score compares two already-normalized strings and returns a similarity in
// [0,1]: 1.0 for equality, 0.9 when one contains the other, otherwise the
// Jaccard similarity of their whitespace token sets. Symmetric.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	aTokens := tokenSet(a)
	bTokens := tokenSet(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range aTokens {
		if _, ok := bTokens[tok]; ok {
			intersection++
		}
	}
	union := len(aTokens) + len(bTokens) - intersection
	return float64(intersection) / float64(union)
}

// ScoreNormalized normalizes both inputs before scoring. Convenience for
// callers holding raw user text.
func ScoreNormalized(a, b string) float64 {
	return Score(Normalize(a), Normalize(b))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
