package offlinepack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePack(t *testing.T, entries []Entry) string {
	t.Helper()
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "offline_pack.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func testEntries() []Entry {
	return []Entry{
		{
			ID:   "schedule-today",
			Lang: "EN",
			QuestionVariants: []string{
				"What sessions are happening today?",
				"Today's schedule",
			},
			Tags:      []string{"schedule"},
			SourceIDs: []string{"agenda_v2"},
			Answer: Answer{
				Direct: "Sessions run from 9:00 AM in Halls A and B.",
				Steps:  []string{"Open the agenda screen", "Pick a track"},
			},
		},
		{
			ID:               "venue-map",
			Lang:             "EN",
			QuestionVariants: []string{"Where is the venue map?"},
			SourceIDs:        []string{"floor_plan_l2"},
			Answer:           Answer{Direct: "The floor plan is on the kiosk home screen."},
		},
		{
			ID:               "register-workshop",
			Lang:             "EN",
			QuestionVariants: []string{"How do I register for a workshop?"},
			Tags:             []string{"registration"},
			SourceIDs:        []string{"workshops"},
			Answer:           Answer{Direct: "Use the registration desk near the entrance."},
		},
		{
			ID:               "horaires",
			Lang:             "FR",
			QuestionVariants: []string{"A quelle heure commence l'evenement ?"},
			SourceIDs:        []string{"agenda_v2"},
			Answer:           Answer{Direct: "L'evenement commence a 9h00."},
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	entries, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadWrappedDocument(t *testing.T) {
	raw := []byte(`{"entries":[{"id":"a","lang":"EN","question_variants":["hi"]}]}`)
	path := filepath.Join(t.TempDir(), "pack.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	entries, err := Load(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
}

func TestCacheReload(t *testing.T) {
	path := writePack(t, testEntries()[:1])
	cache := NewCache(path)
	assert.Len(t, cache.Entries(), 1)

	raw, err := json.Marshal(testEntries())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	// Snapshot is stable until an explicit reload.
	assert.Len(t, cache.Entries(), 1)
	require.NoError(t, cache.Reload())
	assert.Len(t, cache.Entries(), 4)
}

func TestMatch(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))

	tests := []struct {
		name     string
		query    string
		lang     string
		wantID   string
		minScore float64
	}{
		{
			name:     "exact variant",
			query:    "What sessions are happening today?",
			lang:     "EN",
			wantID:   "schedule-today",
			minScore: 1.0,
		},
		{
			name:     "substring variant",
			query:    "sessions are happening today",
			lang:     "EN",
			wantID:   "schedule-today",
			minScore: 0.9,
		},
		{
			name:     "french pack isolated",
			query:    "A quelle heure commence l'evenement ?",
			lang:     "FR",
			wantID:   "horaires",
			minScore: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, score := cache.Match(tt.query, tt.lang)
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantID, entry.ID)
			assert.GreaterOrEqual(t, score, tt.minScore)
		})
	}
}

func TestMatchUnknownLanguage(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))
	entry, score := cache.Match("anything", "DE")
	assert.Nil(t, entry)
	assert.Zero(t, score)
}

func TestSuggestionsExcludeMapEntries(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))

	chips := cache.Suggestions("where is the venue map", "EN", 3)
	require.Len(t, chips, 3)
	for _, chip := range chips {
		assert.False(t, containsMapTerm(chip), "map chip leaked: %s", chip)
	}
}

func TestSuggestionsTagBoost(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))

	chips := cache.Suggestions("help with registration please", "EN", 3)
	require.NotEmpty(t, chips)
	assert.Equal(t, "How do I register for a workshop?", chips[0])
}

func TestSuggestionsFallbackPadding(t *testing.T) {
	cache := NewCache(writePack(t, nil))

	chips := cache.Suggestions("anything at all", "AR", 3)
	assert.Len(t, chips, 3)
	assert.Subset(t, nonMapFallbacks["AR"], chips)
}

func TestConfidentSuggestions(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))

	sources := []SourceScore{
		{SourceID: "agenda_v2", Score: 0.8},
		{SourceID: "workshops", Score: 0.4},
	}
	chips := cache.ConfidentSuggestions("schedule", "EN", sources, 3, ChipConfidenceThreshold)
	require.NotEmpty(t, chips)

	// Only the strongly grounded entry may lead; the weak one is padded
	// out by fallbacks, not promoted on its own score.
	assert.Equal(t, "Today's schedule", chips[0])
	assert.Len(t, chips, 3)
}

func TestConfidentSuggestionsNoSources(t *testing.T) {
	cache := NewCache(writePack(t, testEntries()))
	chips := cache.ConfidentSuggestions("schedule", "EN", nil, 3, ChipConfidenceThreshold)
	assert.Len(t, chips, 3)
	assert.Subset(t, nonMapFallbacks["EN"], chips)
}
