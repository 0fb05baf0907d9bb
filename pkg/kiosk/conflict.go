package kiosk

import (
	"event-kiosk-be/pkg/retrieval"
)

// OfflineIntentConflict reports when a pack match points at the
// landmarks corpus while the query is about the event, or the reverse.
// A conflicted match must not short-circuit retrieval.
func OfflineIntentConflict(query string, sourceIDs []string) bool {
	if len(sourceIDs) == 0 {
		return false
	}
	landmarksMatch := false
	for _, sid := range sourceIDs {
		if retrieval.IsLandmarksSourceID(sid) {
			landmarksMatch = true
			break
		}
	}
	return landmarksMatch != retrieval.IsLandmarksQuery(query)
}
