package youtube

import (
	"sort"
	"strings"

	"tubelens/internal/models"
)

// tokenMatchWeight is the flat score added for every query token found in
// a title. There is no normalization by title length or token count; the
// ranking is a deliberate containment heuristic, not full-text search.
const tokenMatchWeight = 15

// RelevanceScore measures how many query tokens appear in the video
// title. The channel title is deliberately not scored.
func RelevanceScore(video models.Video, query string) int {
	title := strings.ToLower(video.Title)

	score := 0
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(title, token) {
			score += tokenMatchWeight
		}
	}
	return score
}

// FilterAndSort drops videos below the view-count floor, attaches a
// relevance score to every survivor, and orders them by descending score.
// The sort is stable: equal scores keep their pre-sort relative order.
func FilterAndSort(videos []models.Video, query string, minViewCount int64) []models.Video {
	filtered := make([]models.Video, 0, len(videos))
	for _, video := range videos {
		if video.ViewCount < minViewCount {
			continue
		}
		video.RelevanceScore = RelevanceScore(video, query)
		filtered = append(filtered, video)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RelevanceScore > filtered[j].RelevanceScore
	})

	return filtered
}
