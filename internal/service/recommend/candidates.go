package recommend

import (
	"fmt"
	"strings"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

// moodCandidates keys off the latest emotion weights and magnitude.
func moodCandidates(latest sentiment.Result) []Recommendation {
	candidates := make([]Recommendation, 0, 3)

	if latest.Emotions[sentiment.Fear] > 0.3 {
		candidates = append(candidates, Recommendation{
			Type:         "technique",
			Title:        "Box breathing reset",
			Description:  "Four counts in, four held, four out, four held; three minutes settles an anxious nervous system.",
			Priority:     0.8,
			Tags:         []string{"anxiety", "calm"},
			TimeRequired: "3-5 minutes",
			Difficulty:   "beginner",
		})
	}
	if latest.Emotions[sentiment.Sadness] > 0.3 {
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "One small pleasant activity",
			Description:  "Pick one small thing you used to enjoy and do it today, regardless of motivation.",
			Priority:     0.75,
			Tags:         []string{"mood", "depression"},
			TimeRequired: "15-30 minutes",
			Difficulty:   "beginner",
			FollowUp:     "note how your mood shifted afterwards",
		})
	}
	if latest.Magnitude > 0.6 {
		candidates = append(candidates, Recommendation{
			Type:         "technique",
			Title:        "Five-senses grounding",
			Description:  "Name five things you see, four you touch, three you hear, two you smell, one you taste.",
			Priority:     0.7,
			Tags:         []string{"grounding", "calm"},
			TimeRequired: "2-3 minutes",
			Difficulty:   "beginner",
		})
	}
	if latest.Emotions[sentiment.Joy]+latest.Emotions[sentiment.Love] > 0.5 {
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "Capture what went right",
			Description:  "Write down what made today good while it is fresh; it becomes fuel for harder days.",
			Priority:     0.5,
			Tags:         []string{"gratitude", "journaling"},
			TimeRequired: "5-10 minutes",
			Difficulty:   "beginner",
		})
	}

	return candidates
}

// progressCandidates targets recurring negative topics. A topic the profile
// already has an effective strategy for becomes a "revisit" suggestion;
// otherwise the user is pointed at learning something new.
func progressCandidates(conv summary.Summary, prof profile.Profile) []Recommendation {
	candidates := make([]Recommendation, 0, 4)
	for _, topic := range conv.Topics {
		if topic.Sentiment >= 0 || topic.Mentions <= 1 {
			continue
		}

		if strategy := matchingStrategy(prof.Progress.EffectiveStrategies, topic.Name); strategy != "" {
			candidates = append(candidates, Recommendation{
				Type:        "technique",
				Title:       fmt.Sprintf("Revisit: %s", strategy),
				Description: fmt.Sprintf("%s worked for you before and %s keeps coming up; try it again this week.", strategy, topic.Name),
				Priority:    0.7,
				Tags:        []string{topic.Name},
			})
			continue
		}

		candidates = append(candidates, Recommendation{
			Type:        "resource",
			Title:       fmt.Sprintf("Learn a new strategy for %s", topic.Name),
			Description: fmt.Sprintf("%s has come up %d times with a negative tone; a new approach may help.", topic.Name, topic.Mentions),
			Priority:    0.6,
			Tags:        []string{topic.Name},
		})
	}
	return candidates
}

func matchingStrategy(strategies []string, topic string) string {
	for _, strategy := range strategies {
		if strings.Contains(strings.ToLower(strategy), topic) {
			return strategy
		}
	}
	return ""
}

// resourceCandidates maps top corpus hits one-to-one into recommendations.
func (r *Ranker) resourceCandidates(conv summary.Summary, latest sentiment.Result) []Recommendation {
	if r.resources == nil {
		return nil
	}

	terms := make([]string, 0, 6)
	for _, topic := range conv.Topics {
		terms = append(terms, topic.Name)
	}
	for _, topic := range latest.Topics {
		terms = append(terms, topic.Name)
	}
	if len(terms) == 0 {
		return nil
	}

	candidates := make([]Recommendation, 0, 3)
	for _, match := range r.resources.Search(strings.Join(terms, " "), 3) {
		if match.Score <= 0 {
			continue
		}
		doc := match.Document
		topic := "wellbeing"
		if len(doc.Metadata.Topics) > 0 {
			topic = doc.Metadata.Topics[0]
		}
		candidates = append(candidates, Recommendation{
			Type:          "resource",
			Title:         fmt.Sprintf("%s %s from the library", capitalize(topic), doc.Metadata.Type),
			Description:   firstSentence(doc.Content),
			Priority:      0.4 + 0.4*match.Score,
			Tags:          doc.Metadata.Topics,
			Difficulty:    doc.Metadata.Difficulty,
			Effectiveness: doc.Metadata.Effectiveness,
		})
	}
	return candidates
}

// profileCandidates keys off the preference enums alone.
func profileCandidates(prof profile.Profile) []Recommendation {
	candidates := make([]Recommendation, 0, 4)

	switch prof.Preferences.TimeAvailable {
	case "limited":
		candidates = append(candidates, Recommendation{
			Type:         "technique",
			Title:        "Two-minute breathing break",
			Description:  "A reset short enough to fit between meetings.",
			Priority:     0.55,
			Tags:         []string{"calm", "quick"},
			TimeRequired: "2-3 minutes",
			Difficulty:   "beginner",
		})
	case "flexible":
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "Unhurried nature walk",
			Description:  "A longer walk without a destination, phone on silent.",
			Priority:     0.5,
			Tags:         []string{"exercise", "mindfulness"},
			TimeRequired: "30-45 minutes",
		})
	}

	switch prof.Preferences.ActivityLevel {
	case "high":
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "Run it out",
			Description:  "A hard run or workout converts restless energy into recovery.",
			Priority:     0.5,
			Tags:         []string{"exercise"},
			TimeRequired: "20-40 minutes",
		})
	case "low":
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "Gentle stretching",
			Description:  "Ten minutes of slow stretching, matched to your breath.",
			Priority:     0.5,
			Tags:         []string{"exercise", "calm"},
			TimeRequired: "10-15 minutes",
			Difficulty:   "beginner",
		})
	}

	switch prof.Preferences.SocialPreference {
	case "community", "small-group":
		candidates = append(candidates, Recommendation{
			Type:        "social",
			Title:       "Find a peer support group",
			Description: "A regular group keeps connection on the calendar, not just in intentions.",
			Priority:    0.45,
			Tags:        []string{"social", "support"},
		})
	case "solo":
		candidates = append(candidates, Recommendation{
			Type:         "activity",
			Title:        "Private journaling session",
			Description:  "Unfiltered writing for your eyes only; burn or keep afterwards.",
			Priority:     0.45,
			Tags:         []string{"journaling", "reflection"},
			TimeRequired: "10-20 minutes",
		})
	}

	switch prof.Preferences.LearningStyle {
	case "reading":
		candidates = append(candidates, Recommendation{
			Type:        "resource",
			Title:       "Curated reading on your current themes",
			Description: "Short evidence-based reads matched to what keeps coming up.",
			Priority:    0.4,
			Tags:        []string{"reading"},
		})
	case "guided":
		candidates = append(candidates, Recommendation{
			Type:        "professional",
			Title:       "Guided session with a counselor",
			Description: "A professional can pace the work with you instead of you pacing it alone.",
			Priority:    0.5,
			Tags:        []string{"professional", "support"},
		})
	}

	return candidates
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "."); idx > 0 {
		return text[:idx+1]
	}
	return text
}
