package sentiment

import (
	"math"
	"testing"
)

func TestScoreGratefulTextIsPositive(t *testing.T) {
	result := Score("I am grateful and happy today")
	if result.Score <= 0 {
		t.Fatalf("expected positive score, got %f", result.Score)
	}
	if dominant := Dominant(result.Emotions); dominant != Joy {
		t.Fatalf("expected joy to dominate, got %s", dominant)
	}
}

func TestScoreEmptyInputIsNeutral(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		result := Score(text)
		if result.Score != 0 || result.Magnitude != 0 {
			t.Fatalf("expected zero score for %q, got %f/%f", text, result.Score, result.Magnitude)
		}
		if len(result.Topics) != 0 {
			t.Fatalf("expected no topics for %q", text)
		}
	}
}

func TestEmotionWeightsSumToOneOrZero(t *testing.T) {
	inputs := []string{
		"I feel sad and lonely and afraid",
		"what a wonderful surprise, I love it",
		"the quarterly report is on the desk",
		"",
	}
	for _, text := range inputs {
		result := Score(text)
		sum := 0.0
		for emotion, weight := range result.Emotions {
			if weight < 0 || math.IsNaN(weight) {
				t.Fatalf("emotion %s has invalid weight %f for %q", emotion, weight, text)
			}
			sum += weight
		}
		if sum != 0 && math.Abs(sum-1) > 1e-9 {
			t.Fatalf("weights for %q sum to %f, want 0 or 1", text, sum)
		}
	}
}

func TestDetectTopicsFindsSleep(t *testing.T) {
	result := Score("my sleep has been terrible and work is stressful")
	var foundSleep, foundWork bool
	for _, topic := range result.Topics {
		switch topic.Name {
		case "sleep":
			foundSleep = true
		case "work":
			foundWork = true
		}
		if topic.Confidence < 0 || topic.Confidence > 1 {
			t.Fatalf("topic %s confidence out of range: %f", topic.Name, topic.Confidence)
		}
	}
	if !foundSleep || !foundWork {
		t.Fatalf("expected sleep and work topics, got %+v", result.Topics)
	}
}

func TestTopicWindowSentimentIsNegativeNearFear(t *testing.T) {
	result := Score("I am anxious and scared about work every day")
	for _, topic := range result.Topics {
		if topic.Name == "work" && topic.Sentiment >= 0 {
			t.Fatalf("expected negative window sentiment for work, got %f", topic.Sentiment)
		}
	}
}

func TestStyleDefaultsToMiddle(t *testing.T) {
	result := Score("the cat sat on the mat")
	if result.Language.Formality != 0.5 || result.Language.Certainty != 0.5 || result.Language.Urgency != 0.5 {
		t.Fatalf("expected neutral style, got %+v", result.Language)
	}
}

func TestStyleUrgencyDetected(t *testing.T) {
	result := Score("I need help now, this is urgent")
	if result.Language.Urgency != 1.0 {
		t.Fatalf("expected full urgency, got %f", result.Language.Urgency)
	}
}

func TestDominantTieKeepsFirstMax(t *testing.T) {
	emotions := zeroEmotions()
	emotions[Sadness] = 0.5
	emotions[Fear] = 0.5
	if dominant := Dominant(emotions); dominant != Sadness {
		t.Fatalf("expected first max (sadness) to win the tie, got %s", dominant)
	}
}
