package summary

import (
	"math"
	"strings"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/model/chat"
)

// Mood describes the user's current emotional state over the recent window.
type Mood struct {
	Current   string  `json:"current"`
	Trend     string  `json:"trend"` // improving | declining | stable
	Intensity float64 `json:"intensity"`
}

// ProgressNotes holds message excerpts grouped by what they signal.
type ProgressNotes struct {
	Insights     []string `json:"insights"`
	Challenges   []string `json:"challenges"`
	Achievements []string `json:"achievements"`
}

// EngagementMetrics are the bounded-window participation measures.
type EngagementMetrics struct {
	Participation   float64 `json:"participation"`
	ResponseQuality float64 `json:"responseQuality"`
	FollowUpRate    float64 `json:"followUpRate"`
}

// ConversationInsights is recomputed per call from the recent window; it is
// not cumulative state.
type ConversationInsights struct {
	Mood       Mood              `json:"mood"`
	Topics     []string          `json:"topics"`
	Concerns   []string          `json:"concerns"`
	Progress   ProgressNotes     `json:"progress"`
	Engagement EngagementMetrics `json:"engagement"`
}

var (
	insightMarkers     = []string{"i realized", "i learned", "it helps when", "i noticed"}
	challengeMarkers   = []string{"struggling", "hard for me", "can't seem to", "keep failing", "difficult"}
	achievementMarkers = []string{"i managed", "proud of", "i finally", "went well", "i did it"}
)

// Insights analyzes the trailing window of messages. An empty history
// returns a fully populated neutral result.
func (s *Service) Insights(messages []chat.Message) ConversationInsights {
	start := len(messages) - s.insightsWindow
	if start < 0 {
		start = 0
	}
	window := messages[start:]

	insights := ConversationInsights{
		Mood:     Mood{Current: "neutral", Trend: "stable"},
		Topics:   []string{},
		Concerns: []string{},
		Progress: ProgressNotes{Insights: []string{}, Challenges: []string{}, Achievements: []string{}},
	}
	if len(window) == 0 {
		return insights
	}

	segments := buildSegments(window)

	insights.Mood = windowMood(segments)
	for _, topic := range aggregateTopics(segments) {
		insights.Topics = append(insights.Topics, topic.Name)
		if topic.Sentiment < 0 {
			insights.Concerns = append(insights.Concerns, topic.Name)
		}
	}
	insights.Progress = collectProgress(window)
	insights.Engagement = windowEngagement(segments)

	return insights
}

func windowMood(segments []Segment) Mood {
	current := "neutral"
	// Most recent user segment with a non-zero emotion vector wins.
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Sender != "user" && segments[i].Sender != "" {
			continue
		}
		if dominant := sentiment.Dominant(segments[i].Emotions); dominant != "" {
			current = string(dominant)
			break
		}
	}

	var intensity float64
	for _, segment := range segments {
		intensity += segment.Magnitude
	}
	intensity = math.Min(intensity/float64(len(segments)), 1)

	return Mood{Current: current, Trend: moodTrend(segments), Intensity: intensity}
}

// moodTrend compares mean sentiment between the two halves of the window.
func moodTrend(segments []Segment) string {
	if len(segments) < 2 {
		return "stable"
	}

	half := len(segments) / 2
	first := meanScore(segments[:half])
	second := meanScore(segments[half:])

	switch {
	case second-first > 0.1:
		return "improving"
	case first-second > 0.1:
		return "declining"
	default:
		return "stable"
	}
}

func meanScore(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	sum := 0.0
	for _, segment := range segments {
		sum += segment.Score
	}
	return sum / float64(len(segments))
}

// collectProgress pulls short excerpts from user messages that match the
// marker phrases.
func collectProgress(window []chat.Message) ProgressNotes {
	notes := ProgressNotes{Insights: []string{}, Challenges: []string{}, Achievements: []string{}}
	for _, msg := range window {
		if msg.Sender == "assistant" {
			continue
		}
		lowered := strings.ToLower(msg.Content)
		excerpt := truncate(msg.Content, 120)

		if containsAny(lowered, insightMarkers) {
			notes.Insights = append(notes.Insights, excerpt)
		}
		if containsAny(lowered, challengeMarkers) {
			notes.Challenges = append(notes.Challenges, excerpt)
		}
		if containsAny(lowered, achievementMarkers) {
			notes.Achievements = append(notes.Achievements, excerpt)
		}
	}
	return notes
}

func windowEngagement(segments []Segment) EngagementMetrics {
	var userCount, questionCount int
	var userChars float64
	for _, segment := range segments {
		if segment.Sender == "assistant" {
			continue
		}
		userCount++
		userChars += float64(len(segment.Content))
		if strings.Contains(segment.Content, "?") {
			questionCount++
		}
	}
	if userCount == 0 {
		return EngagementMetrics{}
	}

	return EngagementMetrics{
		Participation:   float64(userCount) / float64(len(segments)),
		ResponseQuality: math.Min(userChars/float64(userCount)/100, 1),
		FollowUpRate:    float64(questionCount) / float64(userCount),
	}
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "…"
}
