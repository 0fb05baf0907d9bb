package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrong(t *testing.T) {
	sources := []Source{
		{SourceID: "a", Score: 0.9},
		{SourceID: "b", Score: 0.19},
		{SourceID: "c", Score: 0.2},
	}
	strong := Strong(sources, MinSourceScore)
	require.Len(t, strong, 2)
	assert.Equal(t, "a", strong[0].SourceID)
	assert.Equal(t, "c", strong[1].SourceID)
}

func TestConfidenceFromSources(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		want    float64
	}{
		{
			name: "mean of top three strong",
			sources: []Source{
				{Score: 0.9},
				{Score: 0.6},
				{Score: 0.3},
				{Score: 0.1},
			},
			want: 0.6,
		},
		{
			name:    "single strong source",
			sources: []Source{{Score: 0.5}},
			want:    0.5,
		},
		{
			name:    "all weak",
			sources: []Source{{Score: 0.1}, {Score: 0.05}},
			want:    0.0,
		},
		{
			name:    "empty",
			sources: nil,
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceFromSources(tt.sources), 1e-9)
		})
	}
}

func TestFilterByIDs(t *testing.T) {
	sources := []Source{
		{SourceID: "agenda", Score: 0.8},
		{SourceID: "agenda", Score: 0.1},
		{SourceID: "other", Score: 0.9},
	}
	filtered := FilterByIDs(sources, []string{"agenda"}, MinSourceScore)
	require.Len(t, filtered, 1)
	assert.Equal(t, 0.8, filtered[0].Score)
}

func TestFilterForQuery(t *testing.T) {
	sources := []Source{
		{SourceID: "agenda_v2", Score: 0.8},
		{SourceID: "city_landmarks", Score: 0.7},
	}

	eventOnly := FilterForQuery("what time does the keynote start", sources)
	require.Len(t, eventOnly, 1)
	assert.Equal(t, "agenda_v2", eventOnly[0].SourceID)

	landmarksOnly := FilterForQuery("which landmarks can I visit nearby", sources)
	require.Len(t, landmarksOnly, 1)
	assert.Equal(t, "city_landmarks", landmarksOnly[0].SourceID)
}

func TestHTTPRetriever(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/retrieve", r.URL.Path)
		var req retrieveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "keynote time", req.Query)
		assert.Equal(t, 8, req.TopK)

		json.NewEncoder(w).Encode(retrieveResponse{
			Sources:    []Source{{SourceID: "agenda_v2", Title: "Agenda", Score: 0.72}},
			Confidence: 0.72,
		})
	}))
	defer srv.Close()

	retriever := NewHTTPRetriever(srv.URL)
	sources, conf, err := retriever.Retrieve(context.Background(), "keynote time", "EN", 8)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "agenda_v2", sources[0].SourceID)
	assert.Equal(t, 0.72, conf)
}

func TestHTTPRetrieverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	retriever := NewHTTPRetriever(srv.URL)
	_, _, err := retriever.Retrieve(context.Background(), "q", "EN", 5)
	assert.Error(t, err)
}
