// Package retrieval defines the document retrieval contract the routing
// engine depends on, plus the scoring helpers applied to retrieved sources.
package retrieval

import (
	"sort"
)

// Source is one retrieved document snippet with its grounding score.
type Source struct {
	SourceID  string  `json:"source_id"`
	Title     string  `json:"title"`
	URLOrPath string  `json:"url_or_path"`
	Snippet   string  `json:"snippet"`
	Score     float64 `json:"score"`
	Relevance string  `json:"relevance"`
	Page      *int    `json:"page,omitempty"`
	PageLabel *string `json:"page_label,omitempty"`
	PageStart *int    `json:"page_start,omitempty"`
	PageEnd   *int    `json:"page_end,omitempty"`
}

// MinSourceScore is the floor below which a retrieved source does not
// count as grounding evidence.
const MinSourceScore = 0.2

// Strong returns the sources at or above minScore, order preserved.
func Strong(sources []Source, minScore float64) []Source {
	var out []Source
	for _, s := range sources {
		if s.Score >= minScore {
			out = append(out, s)
		}
	}
	return out
}

// ConfidenceFromSources derives retrieval confidence as the mean score
// of the top three strong sources, clamped to [0,1]. No strong source
// means zero confidence.
func ConfidenceFromSources(sources []Source) float64 {
	strong := Strong(sources, MinSourceScore)
	if len(strong) == 0 {
		return 0.0
	}
	scores := make([]float64, len(strong))
	for i, s := range strong {
		scores[i] = s.Score
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if len(scores) > 3 {
		scores = scores[:3]
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	conf := sum / float64(len(scores))
	if conf < 0 {
		return 0.0
	}
	if conf > 1 {
		return 1.0
	}
	return conf
}

// FilterByIDs keeps sources whose id is in ids and whose score clears
// minScore.
func FilterByIDs(sources []Source, ids []string, minScore float64) []Source {
	idSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			idSet[id] = struct{}{}
		}
	}
	var out []Source
	for _, s := range sources {
		if _, ok := idSet[s.SourceID]; !ok {
			continue
		}
		if s.Score < minScore {
			continue
		}
		out = append(out, s)
	}
	return out
}
