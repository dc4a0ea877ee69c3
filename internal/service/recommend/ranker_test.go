package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func anxiousSentiment() sentiment.Result {
	result := sentiment.Neutral()
	result.Emotions[sentiment.Fear] = 0.6
	result.Emotions[sentiment.Sadness] = 0.4
	result.Score = -1.0
	result.Magnitude = 1.0
	result.Topics = []sentiment.TopicMention{{Name: "anxiety", Sentiment: -1, Confidence: 0.5}}
	return result
}

func TestRankNeverExceedsFive(t *testing.T) {
	corpus := index.New()
	require.NoError(t, corpus.Initialize())
	ranker := NewRanker(corpus)

	conv := summary.Summary{Topics: []summary.TopicAggregate{
		{Name: "sleep", Mentions: 3, Sentiment: -0.4},
		{Name: "work", Mentions: 2, Sentiment: -0.2},
	}}
	prof := profile.Profile{Preferences: profile.Preferences{
		TimeAvailable:    "limited",
		ActivityLevel:    "low",
		SocialPreference: "community",
		LearningStyle:    "guided",
	}}

	ranked := ranker.Rank(conv, anxiousSentiment(), prof)
	assert.LessOrEqual(t, len(ranked), 5)
	require.NotEmpty(t, ranked)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Priority, ranked[i].Priority, "ranked order broken at %d", i)
	}
}

func TestRankDropsCompletedActivities(t *testing.T) {
	ranker := NewRanker(nil)
	prof := profile.Profile{Progress: profile.Progress{
		CompletedActivities: []string{"Box breathing reset"},
	}}

	ranked := ranker.Rank(summary.Summary{}, anxiousSentiment(), prof)
	for _, rec := range ranked {
		assert.NotEqual(t, "Box breathing reset", rec.Title)
	}
}

func TestRankPrioritiesStayClamped(t *testing.T) {
	ranker := NewRanker(nil)
	prof := profile.Profile{
		Interests:  []string{"anxiety"},
		Challenges: []string{"calm"},
	}

	ranked := ranker.Rank(summary.Summary{}, anxiousSentiment(), prof)
	require.NotEmpty(t, ranked)
	for _, rec := range ranked {
		assert.LessOrEqual(t, rec.Priority, 1.0)
		assert.GreaterOrEqual(t, rec.Priority, 0.0)
	}
}

func TestProgressCandidatesSplitRevisitVsLearn(t *testing.T) {
	conv := summary.Summary{Topics: []summary.TopicAggregate{
		{Name: "sleep", Mentions: 3, Sentiment: -0.5},
		{Name: "work", Mentions: 2, Sentiment: -0.3},
		{Name: "family", Mentions: 1, Sentiment: -0.9}, // mentioned once, skipped
	}}
	prof := profile.Profile{Progress: profile.Progress{
		EffectiveStrategies: []string{"sleep wind-down routine"},
	}}

	candidates := progressCandidates(conv, prof)
	require.Len(t, candidates, 2)
	assert.Equal(t, "Revisit: sleep wind-down routine", candidates[0].Title)
	assert.Equal(t, "Learn a new strategy for work", candidates[1].Title)
}

func TestTimeLimitedProfilePenalizesLongActivities(t *testing.T) {
	rec := Recommendation{Priority: 0.8, TimeRequired: "20-40 minutes"}
	prof := profile.Profile{Preferences: profile.Preferences{TimeAvailable: "limited"}}
	assert.InDelta(t, 0.8*0.7, adjustPriority(rec, prof), 1e-9)

	short := Recommendation{Priority: 0.8, TimeRequired: "5-10 minutes"}
	assert.InDelta(t, 0.8, adjustPriority(short, prof), 1e-9)
}

func TestAdvancedPenaltyForNewUsers(t *testing.T) {
	rec := Recommendation{Priority: 0.5, Difficulty: "advanced"}
	assert.InDelta(t, 0.4, adjustPriority(rec, profile.Profile{}), 1e-9)

	seasoned := profile.Profile{Progress: profile.Progress{
		CompletedActivities: []string{"a", "b", "c", "d", "e"},
	}}
	assert.InDelta(t, 0.5, adjustPriority(rec, seasoned), 1e-9)
}

func TestEstimatedMinutes(t *testing.T) {
	assert.InDelta(t, 12.5, estimatedMinutes("10-15 minutes"), 1e-9)
	assert.InDelta(t, 30, estimatedMinutes("30 minutes"), 1e-9)
	assert.Zero(t, estimatedMinutes("a while"))
	assert.Zero(t, estimatedMinutes(""))
}

func TestResourceCandidatesComeFromCorpus(t *testing.T) {
	corpus := index.New()
	require.NoError(t, corpus.Initialize())
	ranker := NewRanker(corpus)

	conv := summary.Summary{Topics: []summary.TopicAggregate{
		{Name: "sleep", Mentions: 4, Sentiment: -0.4},
	}}
	candidates := ranker.resourceCandidates(conv, sentiment.Neutral())
	require.NotEmpty(t, candidates)
	for _, rec := range candidates {
		assert.Equal(t, "resource", rec.Type)
		assert.NotEmpty(t, rec.Description)
	}
}
