// Package sentiment scores free text into an emotion vector, topic tags and
// linguistic-style metrics using fixed keyword lexicons. All functions are
// pure and safe for any input, including the empty string.
package sentiment

import (
	"math"
	"strings"
)

// TopicMention records one detected conversation theme.
type TopicMention struct {
	Name       string  `json:"name"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

// StyleScores captures linguistic register on three axes, each in [0,1].
type StyleScores struct {
	Formality float64 `json:"formality"`
	Certainty float64 `json:"certainty"`
	Urgency   float64 `json:"urgency"`
}

// Result is the full scoring output for one text.
type Result struct {
	Score     float64             `json:"score"`
	Magnitude float64             `json:"magnitude"`
	Emotions  map[Emotion]float64 `json:"emotions"`
	Topics    []TopicMention      `json:"topics"`
	Language  StyleScores         `json:"language"`
}

// Neutral returns the zero result used for empty or unmatchable input.
func Neutral() Result {
	return Result{
		Emotions: zeroEmotions(),
		Topics:   []TopicMention{},
		Language: StyleScores{Formality: 0.5, Certainty: 0.5, Urgency: 0.5},
	}
}

// Score analyzes text and returns sentiment, emotion weights, topics and
// style scores. Emotion weights sum to 1 when any keyword triggered,
// otherwise they are all zero.
func Score(text string) Result {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Neutral()
	}

	emotions := zeroEmotions()
	total := 0.0
	for _, emotion := range emotionOrder {
		for keyword, weight := range emotionKeywords[emotion] {
			for _, token := range tokens {
				if token == keyword || strings.Contains(token, keyword) {
					emotions[emotion] += weight
					total += weight
				}
			}
		}
	}

	// Zero total keeps the whole vector at zero rather than dividing.
	if total > 0 {
		for _, emotion := range emotionOrder {
			emotions[emotion] /= total
		}
	}

	score := (emotions[Joy] + emotions[Love]) - (emotions[Sadness] + emotions[Anger] + emotions[Fear])

	return Result{
		Score:     score,
		Magnitude: math.Abs(score),
		Emotions:  emotions,
		Topics:    detectTopics(tokens),
		Language:  scoreStyle(tokens),
	}
}

// Dominant picks the heaviest emotion, first-max-wins on ties. Returns the
// empty string when the vector is all zero.
func Dominant(emotions map[Emotion]float64) Emotion {
	var best Emotion
	bestWeight := 0.0
	for _, emotion := range emotionOrder {
		if emotions[emotion] > bestWeight {
			bestWeight = emotions[emotion]
			best = emotion
		}
	}
	return best
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(text)))
}

func zeroEmotions() map[Emotion]float64 {
	emotions := make(map[Emotion]float64, len(emotionOrder))
	for _, emotion := range emotionOrder {
		emotions[emotion] = 0
	}
	return emotions
}

// detectTopics flags vocabulary topics present in the token stream and
// scores each one from a ±5 token window around its occurrences.
func detectTopics(tokens []string) []TopicMention {
	mentions := make([]TopicMention, 0, 4)
	for _, topic := range topicVocabulary {
		matchCount := 0
		windowSentiment := 0.0
		for i, token := range tokens {
			if !strings.Contains(token, topic) {
				continue
			}
			matchCount++
			windowSentiment += windowScore(tokens, i)
		}
		if matchCount == 0 {
			continue
		}

		confidence := math.Min(float64(matchCount)/float64(len(tokens))*3, 1)
		mentions = append(mentions, TopicMention{
			Name:       topic,
			Sentiment:  windowSentiment,
			Confidence: confidence,
		})
	}
	return mentions
}

// windowScore sums signed emotion weights in the ±5 tokens around index.
func windowScore(tokens []string, index int) float64 {
	start := index - 5
	if start < 0 {
		start = 0
	}
	end := index + 5
	if end >= len(tokens) {
		end = len(tokens) - 1
	}

	sum := 0.0
	for i := start; i <= end; i++ {
		for _, emotion := range emotionOrder {
			for keyword, weight := range emotionKeywords[emotion] {
				if tokens[i] != keyword && !strings.Contains(tokens[i], keyword) {
					continue
				}
				switch {
				case positiveEmotions[emotion]:
					sum += weight
				case negativeEmotions[emotion]:
					sum -= weight
				}
			}
		}
	}
	return sum
}

func scoreStyle(tokens []string) StyleScores {
	values := map[string]float64{}
	for axis, poles := range stylePoles {
		positive, negative := 0, 0
		for _, token := range tokens {
			for _, word := range poles[0] {
				if token == word {
					positive++
				}
			}
			for _, word := range poles[1] {
				if token == word {
					negative++
				}
			}
		}
		if positive+negative == 0 {
			values[axis] = 0.5
			continue
		}
		values[axis] = float64(positive) / float64(positive+negative)
	}

	return StyleScores{
		Formality: values["formality"],
		Certainty: values["certainty"],
		Urgency:   values["urgency"],
	}
}
