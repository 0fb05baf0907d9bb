package offlinepack

import (
	"sort"
	"strings"

	"event-kiosk-be/pkg/textnorm"
)

// ChipConfidenceThreshold is the minimum grounding score a retrieved
// source must carry before its pack entry may be offered as a chip.
const ChipConfidenceThreshold = 0.65

var mapTerms = []string{
	"map",
	"venue map",
	"floor plan",
	"hall map",
	"plan du lieu",
	"lieu",
	"venue",
	"خريطة",
	"مخطط",
	"المكان",
}

var mapSourceIDKeywords = []string{
	"floor_plan",
	"venue_map",
	"map",
}

var nonMapFallbacks = map[string][]string{
	"EN": {
		"What sessions are happening today?",
		"How do I register for a workshop?",
		"Who are today's speakers?",
		"What time does the event start?",
	},
	"AR": {
		"ما الجلسات المقامة اليوم؟",
		"كيف أسجّل في ورشة عمل؟",
		"من هم المتحدثون اليوم؟",
		"متى تبدأ الفعالية؟",
	},
	"FR": {
		"Quelles sessions ont lieu aujourd'hui ?",
		"Comment s'inscrire a un atelier ?",
		"Qui sont les intervenants d'aujourd'hui ?",
		"A quelle heure commence l'evenement ?",
	},
}

// SourceScore pairs a retrieval source id with its grounding score.
type SourceScore struct {
	SourceID string
	Score    float64
}

func containsMapTerm(text string) bool {
	nt := textnorm.Normalize(text)
	for _, term := range mapTerms {
		if strings.Contains(nt, term) {
			return true
		}
	}
	return false
}

// isMapRelated reports whether an entry points at map or venue-plan
// material through its source ids, tags, variants, or direct answer.
// Map content is rendered by the kiosk shell, never suggested as a chip.
func isMapRelated(entry *Entry) bool {
	for _, sourceID := range entry.SourceIDs {
		sid := textnorm.Normalize(sourceID)
		for _, keyword := range mapSourceIDKeywords {
			if strings.Contains(sid, keyword) {
				return true
			}
		}
	}
	for _, tag := range entry.Tags {
		nt := textnorm.Normalize(tag)
		for _, term := range mapTerms {
			if strings.Contains(nt, term) {
				return true
			}
		}
	}
	for _, variant := range entry.QuestionVariants {
		if containsMapTerm(variant) {
			return true
		}
	}
	return containsMapTerm(entry.Answer.Direct)
}

func entryTags(entry *Entry) []string {
	var tags []string
	for _, t := range entry.Tags {
		if strings.TrimSpace(t) == "" {
			continue
		}
		tags = append(tags, textnorm.Normalize(t))
	}
	return tags
}

func entryVariants(entry *Entry) []string {
	var variants []string
	for _, v := range entry.QuestionVariants {
		v = strings.TrimSpace(v)
		if v != "" {
			variants = append(variants, v)
		}
	}
	return variants
}

// appendFallbackChips pads the chip list with the language's curated
// fallback questions, skipping duplicates and map-related text.
func appendFallbackChips(current []string, lang string, limit int) []string {
	if len(current) >= limit {
		return current[:limit]
	}
	seen := make(map[string]struct{}, len(current))
	for _, x := range current {
		seen[textnorm.Normalize(x)] = struct{}{}
	}
	pool, ok := nonMapFallbacks[lang]
	if !ok {
		pool = nonMapFallbacks["EN"]
	}
	for _, chip := range pool {
		nc := textnorm.Normalize(chip)
		if _, dup := seen[nc]; dup {
			continue
		}
		if containsMapTerm(chip) {
			continue
		}
		current = append(current, chip)
		seen[nc] = struct{}{}
		if len(current) >= limit {
			break
		}
	}
	if len(current) > limit {
		return current[:limit]
	}
	return current
}

// Suggestions ranks non-map pack variants lexically against the query,
// boosting entries whose tags appear in the query, and pads the result
// with fallback chips up to limit.
func (c *Cache) Suggestions(query, lang string, limit int) []string {
	items := c.ByLang(lang)
	if len(items) == 0 {
		return appendFallbackChips(nil, lang, limit)
	}

	nq := textnorm.Normalize(query)

	type candidate struct {
		text  string
		score float64
	}
	var candidates []candidate
	for i := range items {
		entry := &items[i]
		if isMapRelated(entry) {
			continue
		}
		tagHit := false
		for _, t := range entryTags(entry) {
			if t != "" && strings.Contains(nq, t) {
				tagHit = true
				break
			}
		}
		for _, variant := range entryVariants(entry) {
			if containsMapTerm(variant) {
				continue
			}
			s := textnorm.Score(nq, textnorm.Normalize(variant))
			if tagHit {
				s += 0.15
			}
			candidates = append(candidates, candidate{text: variant, score: s})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{})
	var results []string
	for _, cand := range candidates {
		if cand.score <= 0 {
			continue
		}
		nt := textnorm.Normalize(cand.text)
		if _, dup := seen[nt]; dup {
			continue
		}
		seen[nt] = struct{}{}
		results = append(results, cand.text)
		if len(results) >= limit {
			break
		}
	}

	return appendFallbackChips(results, lang, limit)
}

// ConfidentSuggestions offers chips only for entries whose source ids
// were actually retrieved with a score at or above minConfidence. Chips
// are ordered by grounding confidence, then lexical closeness.
func (c *Cache) ConfidentSuggestions(query, lang string, sources []SourceScore, limit int, minConfidence float64) []string {
	sourceScores := make(map[string]float64, len(sources))
	for _, src := range sources {
		id := strings.TrimSpace(src.SourceID)
		if id == "" {
			continue
		}
		if src.Score > sourceScores[id] {
			sourceScores[id] = src.Score
		}
	}

	type candidate struct {
		text    string
		conf    float64
		lexical float64
	}
	var candidates []candidate
	entries := c.Entries()
	for i := range entries {
		entry := &entries[i]
		if entry.Lang != lang {
			continue
		}
		if isMapRelated(entry) {
			continue
		}

		entryConf := -1.0
		for _, sid := range entry.SourceIDs {
			if s, ok := sourceScores[sid]; ok && s > entryConf {
				entryConf = s
			}
		}
		if entryConf < 0 || entryConf < minConfidence {
			continue
		}

		text, lexical := pickBestVariant(query, entryVariants(entry))
		if text == "" || containsMapTerm(text) {
			continue
		}
		candidates = append(candidates, candidate{text: text, conf: entryConf, lexical: lexical})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].conf != candidates[j].conf {
			return candidates[i].conf > candidates[j].conf
		}
		return candidates[i].lexical > candidates[j].lexical
	})

	seen := make(map[string]struct{})
	var results []string
	for _, cand := range candidates {
		nt := textnorm.Normalize(cand.text)
		if _, dup := seen[nt]; dup {
			continue
		}
		seen[nt] = struct{}{}
		results = append(results, cand.text)
		if len(results) >= limit {
			break
		}
	}

	return appendFallbackChips(results, lang, limit)
}
