package retrieval

import (
	"strings"

	"event-kiosk-be/pkg/textnorm"
)

var landmarkQueryTerms = []string{
	"landmark",
	"landmarks",
	"attraction",
	"attractions",
	"monument",
	"museum",
	"historic site",
	"sightseeing",
	"visit in the city",
	"choses a voir",
	"monuments",
	"معالم",
	"المعالم",
	"اماكن سياحية",
}

// IsLandmarksQuery reports whether the query is about city landmarks
// rather than the event itself.
func IsLandmarksQuery(query string) bool {
	nq := textnorm.Normalize(query)
	for _, term := range landmarkQueryTerms {
		if strings.Contains(nq, term) {
			return true
		}
	}
	return false
}

// IsLandmarksSourceID reports whether a source id points at the
// landmarks corpus.
func IsLandmarksSourceID(sourceID string) bool {
	return strings.Contains(textnorm.Normalize(sourceID), "landmark")
}

// FilterForQuery drops sources whose corpus does not match the query's
// landmark intent: event questions never ground on landmark documents,
// and landmark questions prefer landmark documents when any were found.
func FilterForQuery(query string, sources []Source) []Source {
	wantLandmarks := IsLandmarksQuery(query)

	if !wantLandmarks {
		var out []Source
		for _, s := range sources {
			if IsLandmarksSourceID(s.SourceID) {
				continue
			}
			out = append(out, s)
		}
		return out
	}

	var landmarks []Source
	for _, s := range sources {
		if IsLandmarksSourceID(s.SourceID) {
			landmarks = append(landmarks, s)
		}
	}
	if len(landmarks) > 0 {
		return landmarks
	}
	return sources
}
