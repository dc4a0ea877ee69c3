// Package recommend ranks suggested techniques, activities and resources
// from the summarizer output, the latest sentiment and the user profile.
// Recommendations are ephemeral and regenerated per request.
package recommend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

// Recommendation is one ranked suggestion.
type Recommendation struct {
	Type          string   `json:"type"` // resource | technique | activity | professional | social
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      float64  `json:"priority"`
	Tags          []string `json:"tags"`
	TimeRequired  string   `json:"timeRequired,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Effectiveness float64  `json:"effectiveness,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	FollowUp      string   `json:"followUp,omitempty"`
}

const maxRecommendations = 5

// Ranker generates and prioritizes recommendations.
type Ranker struct {
	resources *index.Index
}

// NewRanker wires the ranker to the resource corpus.
func NewRanker(resources *index.Index) *Ranker {
	return &Ranker{resources: resources}
}

// Rank merges the four candidate families, adjusts priorities against the
// profile and returns at most five recommendations, stably sorted by
// priority. Titles the user already completed are dropped.
func (r *Ranker) Rank(conv summary.Summary, latest sentiment.Result, prof profile.Profile) []Recommendation {
	candidates := make([]Recommendation, 0, 16)
	candidates = append(candidates, moodCandidates(latest)...)
	candidates = append(candidates, progressCandidates(conv, prof)...)
	candidates = append(candidates, r.resourceCandidates(conv, latest)...)
	candidates = append(candidates, profileCandidates(prof)...)

	completed := make(map[string]bool, len(prof.Progress.CompletedActivities))
	for _, title := range prof.Progress.CompletedActivities {
		completed[title] = true
	}

	ranked := make([]Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		if completed[candidate.Title] {
			continue
		}
		candidate.Priority = adjustPriority(candidate, prof)
		ranked = append(ranked, candidate)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}
	return ranked
}

// adjustPriority applies the profile multipliers and clamps to 1.
func adjustPriority(rec Recommendation, prof profile.Profile) float64 {
	priority := rec.Priority

	if intersects(rec.Tags, prof.Interests) {
		priority *= 1.2
	}
	if intersects(rec.Tags, prof.Challenges) {
		priority *= 1.3
	}
	if prof.Preferences.TimeAvailable == "limited" && estimatedMinutes(rec.TimeRequired) > 15 {
		priority *= 0.7
	}
	if rec.Difficulty == "advanced" && len(prof.Progress.CompletedActivities) < 5 {
		priority *= 0.8
	}

	if priority > 1 {
		priority = 1
	}
	return priority
}

func intersects(a, b []string) bool {
	for _, itemA := range a {
		for _, itemB := range b {
			if strings.EqualFold(itemA, itemB) {
				return true
			}
		}
	}
	return false
}

// estimatedMinutes parses "N-M minutes" strings to their midpoint, or "N
// minutes" to N. Unparseable strings estimate to 0 (no time penalty).
func estimatedMinutes(timeRequired string) float64 {
	fields := strings.Fields(strings.ToLower(timeRequired))
	if len(fields) == 0 {
		return 0
	}

	bounds := strings.SplitN(fields[0], "-", 2)
	low, err := strconv.ParseFloat(bounds[0], 64)
	if err != nil {
		return 0
	}
	if len(bounds) == 1 {
		return low
	}
	high, err := strconv.ParseFloat(bounds[1], 64)
	if err != nil {
		return low
	}
	return (low + high) / 2
}
