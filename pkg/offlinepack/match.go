package offlinepack

import (
	"event-kiosk-be/pkg/textnorm"
)

// Match scans every question variant for the language and returns the
// entry with the highest lexical score. A nil entry with score 0 means
// the pack has nothing for that language.
func (c *Cache) Match(query, lang string) (*Entry, float64) {
	items := c.ByLang(lang)
	if len(items) == 0 {
		return nil, 0.0
	}

	nq := textnorm.Normalize(query)
	var best *Entry
	bestScore := 0.0
	for i := range items {
		for _, variant := range items[i].QuestionVariants {
			s := textnorm.Score(nq, textnorm.Normalize(variant))
			if s > bestScore {
				bestScore = s
				best = &items[i]
			}
		}
	}
	return best, bestScore
}

// pickBestVariant returns the variant with the highest lexical score
// against the query, falling back to the first variant.
func pickBestVariant(query string, variants []string) (string, float64) {
	if len(variants) == 0 {
		return "", 0.0
	}
	nq := textnorm.Normalize(query)
	bestText := variants[0]
	bestScore := -1.0
	for _, variant := range variants {
		s := textnorm.Score(nq, textnorm.Normalize(variant))
		if s > bestScore {
			bestScore = s
			bestText = variant
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return bestText, bestScore
}
