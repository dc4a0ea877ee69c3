// Package summary computes conversation summaries and bounded-window
// insights. Everything is a pure recomputation over the message snapshot
// passed in; the only suspension point is the optional completion call for
// the narrative overview, which always has a deterministic fallback.
package summary

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/model/chat"
	"github.com/havenlabs/haven/backend/internal/service/ai"
)

// Segment is one message annotated with its sentiment and topics, the unit
// of summarization.
type Segment struct {
	Content   string
	Score     float64
	Magnitude float64
	Emotions  map[sentiment.Emotion]float64
	Topics    []string
	Timestamp time.Time
	Sender    string
}

// TopicAggregate groups segment sentiment per topic.
type TopicAggregate struct {
	Name      string  `json:"name"`
	Mentions  int     `json:"mentions"`
	Sentiment float64 `json:"sentiment"`
}

// JourneyPhase is one third of the conversation mapped to a tone bucket.
type JourneyPhase struct {
	Phase     string  `json:"phase"`
	Tone      string  `json:"tone"`
	Sentiment float64 `json:"sentiment"`
}

// Engagement is the weighted composite of the three sub-scores.
type Engagement struct {
	Score           float64 `json:"score"`
	ResponseTime    float64 `json:"responseTime"`
	MessageLength   float64 `json:"messageLength"`
	TopicContinuity float64 `json:"topicContinuity"`
}

// Summary is the full-history summarization result. Overview is never empty.
type Summary struct {
	Overview         string           `json:"overview"`
	KeyPoints        []string         `json:"keyPoints"`
	Topics           []TopicAggregate `json:"topics"`
	EmotionalJourney []JourneyPhase   `json:"emotionalJourney"`
	Engagement       Engagement       `json:"engagement"`
	Insights         []string         `json:"insights"`
	Suggestions      []string         `json:"suggestions"`
	ProgressMarkers  []string         `json:"progressMarkers"`
	SegmentCount     int              `json:"segmentCount"`
}

// Service produces summaries and insights.
type Service struct {
	completion     *ai.Service
	insightsWindow int
}

// NewService wires the summarizer. completion may be disabled.
func NewService(completion *ai.Service, insightsWindow int) *Service {
	if insightsWindow < 1 {
		insightsWindow = 10
	}
	return &Service{completion: completion, insightsWindow: insightsWindow}
}

// Outline recomputes the summary for the entire history using only local
// heuristics. An empty history yields a fully populated neutral summary
// rather than an error.
func (s *Service) Outline(messages []chat.Message) Summary {
	segments := buildSegments(messages)
	if len(segments) == 0 {
		return Summary{
			Overview:         "No messages yet; the conversation has not started.",
			KeyPoints:        []string{},
			Topics:           []TopicAggregate{},
			EmotionalJourney: []JourneyPhase{},
			Insights:         []string{},
			Suggestions:      []string{},
			ProgressMarkers:  []string{},
		}
	}

	topics := aggregateTopics(segments)
	journey := emotionalJourney(segments)
	slope := linearSlope(segmentScores(segments))

	summary := Summary{
		Topics:           topics,
		EmotionalJourney: journey,
		Engagement:       scoreEngagement(segments),
		Insights:         trendInsights(slope, topics),
		Suggestions:      topicSuggestions(topics),
		ProgressMarkers:  progressMarkers(slope, topics, segments),
		SegmentCount:     len(segments),
	}
	summary.Overview = templateOverview(summary)
	summary.KeyPoints = templateKeyPoints(summary)
	return summary
}

// Summarize is Outline plus the narrated overview from the completion
// service when it is available.
func (s *Service) Summarize(ctx context.Context, messages []chat.Message) Summary {
	summary := s.Outline(messages)
	if summary.SegmentCount == 0 {
		return summary
	}

	summary.Overview, summary.KeyPoints = s.narrate(ctx, summary)
	return summary
}

func buildSegments(messages []chat.Message) []Segment {
	segments := make([]Segment, 0, len(messages))
	for _, msg := range messages {
		result := sentiment.Score(msg.Content)
		names := make([]string, 0, len(result.Topics))
		for _, topic := range result.Topics {
			names = append(names, topic.Name)
		}
		segments = append(segments, Segment{
			Content:   msg.Content,
			Score:     result.Score,
			Magnitude: result.Magnitude,
			Emotions:  result.Emotions,
			Topics:    names,
			Timestamp: msg.CreatedAt,
			Sender:    msg.Sender,
		})
	}
	return segments
}

func aggregateTopics(segments []Segment) []TopicAggregate {
	order := make([]string, 0, 8)
	mentions := make(map[string]int)
	sums := make(map[string]float64)

	for _, segment := range segments {
		for _, name := range segment.Topics {
			if mentions[name] == 0 {
				order = append(order, name)
			}
			mentions[name]++
			sums[name] += segment.Score
		}
	}

	aggregates := make([]TopicAggregate, 0, len(order))
	for _, name := range order {
		aggregates = append(aggregates, TopicAggregate{
			Name:      name,
			Mentions:  mentions[name],
			Sentiment: sums[name] / float64(mentions[name]),
		})
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].Mentions > aggregates[j].Mentions
	})
	return aggregates
}

// emotionalJourney splits segments into three contiguous thirds by index and
// maps each third's mean sentiment to a tone bucket.
func emotionalJourney(segments []Segment) []JourneyPhase {
	phases := []string{"beginning", "middle", "recent"}
	journey := make([]JourneyPhase, 0, 3)

	for i, phase := range phases {
		start := i * len(segments) / 3
		end := (i + 1) * len(segments) / 3
		if i == 2 {
			end = len(segments)
		}
		if start >= end {
			continue
		}

		sum := 0.0
		for _, segment := range segments[start:end] {
			sum += segment.Score
		}
		mean := sum / float64(end-start)
		journey = append(journey, JourneyPhase{Phase: phase, Tone: toneBucket(mean), Sentiment: mean})
	}
	return journey
}

func toneBucket(mean float64) string {
	switch {
	case mean > 0.5:
		return "very positive"
	case mean > 0.2:
		return "somewhat positive"
	case mean > -0.2:
		return "neutral"
	case mean > -0.5:
		return "somewhat negative"
	default:
		return "very negative"
	}
}

func scoreEngagement(segments []Segment) Engagement {
	responseTime := 1.0
	if len(segments) > 1 {
		var totalGap float64
		gaps := 0
		for i := 1; i < len(segments); i++ {
			gap := segments[i].Timestamp.Sub(segments[i-1].Timestamp)
			if gap > 0 {
				totalGap += float64(gap.Milliseconds())
				gaps++
			}
		}
		if gaps > 0 {
			meanGap := totalGap / float64(gaps)
			responseTime = math.Min(30000/meanGap, 1)
		}
	}

	var totalChars float64
	for _, segment := range segments {
		totalChars += float64(len(segment.Content))
	}
	messageLength := math.Min(totalChars/float64(len(segments))/100, 1)

	continuity := topicContinuity(segments)

	return Engagement{
		Score:           0.3*responseTime + 0.3*messageLength + 0.4*continuity,
		ResponseTime:    responseTime,
		MessageLength:   messageLength,
		TopicContinuity: continuity,
	}
}

// topicContinuity is the fraction of consecutive pairs sharing a topic.
func topicContinuity(segments []Segment) float64 {
	if len(segments) < 2 {
		return 0
	}

	shared := 0
	for i := 1; i < len(segments); i++ {
		if shareTopic(segments[i-1].Topics, segments[i].Topics) {
			shared++
		}
	}
	return float64(shared) / float64(len(segments)-1)
}

func shareTopic(a, b []string) bool {
	for _, topicA := range a {
		for _, topicB := range b {
			if topicA == topicB {
				return true
			}
		}
	}
	return false
}

func segmentScores(segments []Segment) []float64 {
	scores := make([]float64, len(segments))
	for i, segment := range segments {
		scores[i] = segment.Score
	}
	return scores
}

// linearSlope fits sentiment against segment index by least squares.
func linearSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

func trendInsights(slope float64, topics []TopicAggregate) []string {
	insights := make([]string, 0, 2)
	switch {
	case slope > 0.1:
		insights = append(insights, "mood has been improving over the conversation")
	case slope < -0.1:
		insights = append(insights, "mood has been declining over the conversation")
	default:
		insights = append(insights, "mood has stayed fairly steady")
	}
	if len(topics) > 0 {
		insights = append(insights, fmt.Sprintf("%s has been the main focus", topics[0].Name))
	}
	return insights
}

var suggestionByTopic = map[string]string{
	"sleep":        "a wind-down routine before bed could help with the sleep struggles mentioned",
	"work":         "setting one boundary at work this week may reduce the pressure that keeps coming up",
	"anxiety":      "a short daily breathing practice could take the edge off the anxiety that recurs here",
	"relationship": "naming one need directly to the other person often shifts recurring relationship friction",
	"family":       "a brief, planned check-in can make the recurring family topic feel less charged",
	"loneliness":   "one small social step, even a text, tends to chip at the loneliness that keeps surfacing",
}

func topicSuggestions(topics []TopicAggregate) []string {
	suggestions := make([]string, 0, 2)
	for _, topic := range topics {
		if topic.Sentiment >= 0 {
			continue
		}
		if keyed, ok := suggestionByTopic[topic.Name]; ok {
			suggestions = append(suggestions, keyed)
			continue
		}
		suggestions = append(suggestions, fmt.Sprintf("it may help to spend focused time on %s, which carries a negative tone here", topic.Name))
	}
	return suggestions
}

func progressMarkers(slope float64, topics []TopicAggregate, segments []Segment) []string {
	markers := make([]string, 0, 3)
	if slope > 0.2 {
		markers = append(markers, "sentiment is trending clearly upward")
	}
	if len(topics) > 3 {
		markers = append(markers, "the conversation is exploring a wider range of topics")
	}
	if len(segments) > 10 {
		markers = append(markers, "engagement has been sustained across a long conversation")
	}
	return markers
}

// narrate upgrades the templated overview and key points via the completion
// service. The template result stands whenever the upstream call fails, so
// the overview is non-empty under all conditions.
func (s *Service) narrate(ctx context.Context, summary Summary) (string, []string) {
	if !s.completion.Enabled() {
		return summary.Overview, summary.KeyPoints
	}

	text, err := s.completion.Complete(ctx, narrativePrompt(summary), ai.Options{System: narrativeSystemPrompt})
	if err != nil {
		log.Printf("[summary] overview generation unavailable, using template: %v", err)
		return summary.Overview, summary.KeyPoints
	}

	overview, keyPoints := parseNarrative(text)
	if overview == "" {
		overview = summary.Overview
	}
	if len(keyPoints) == 0 {
		keyPoints = summary.KeyPoints
	}
	return overview, keyPoints
}

const narrativeSystemPrompt = "You summarize wellbeing conversations. First write a two-sentence overview, " +
	"then up to three key points, each on its own line starting with '- '."

func narrativePrompt(summary Summary) string {
	names := make([]string, 0, len(summary.Topics))
	for _, topic := range summary.Topics {
		names = append(names, topic.Name)
	}

	var tones []string
	for _, phase := range summary.EmotionalJourney {
		tones = append(tones, fmt.Sprintf("%s: %s", phase.Phase, phase.Tone))
	}

	return fmt.Sprintf(
		"A conversation of %d messages covered topics [%s] with emotional journey [%s]. Summarize it.",
		summary.SegmentCount, strings.Join(names, ", "), strings.Join(tones, "; "))
}

func parseNarrative(text string) (string, []string) {
	var overviewLines, keyPoints []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			point := strings.TrimSpace(strings.TrimLeft(trimmed, "-* "))
			if point != "" && len(keyPoints) < 3 {
				keyPoints = append(keyPoints, point)
			}
			continue
		}
		overviewLines = append(overviewLines, trimmed)
	}
	return strings.Join(overviewLines, " "), keyPoints
}

func templateOverview(summary Summary) string {
	if len(summary.Topics) == 0 {
		return fmt.Sprintf("A conversation of %d messages without a clear recurring topic.", summary.SegmentCount)
	}

	names := make([]string, 0, len(summary.Topics))
	for _, topic := range summary.Topics {
		names = append(names, topic.Name)
	}
	return fmt.Sprintf("A conversation of %d messages centered on %s.",
		summary.SegmentCount, strings.Join(names, ", "))
}

func templateKeyPoints(summary Summary) []string {
	points := make([]string, 0, 3)
	for _, topic := range summary.Topics {
		points = append(points, fmt.Sprintf("%s came up %d time(s)", topic.Name, topic.Mentions))
		if len(points) == 3 {
			break
		}
	}
	if len(points) == 0 {
		points = append(points, "no recurring topics detected yet")
	}
	return points
}
