// Package crisis implements single-shot crisis-risk assessment over the
// recent conversation window. Each call is independent; there is no
// persistent crisis state. The assessor must never go silent: any internal
// failure degrades to a maximally cautious default instead of an error.
package crisis

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/chat"
	"github.com/havenlabs/haven/backend/internal/service/ai"
)

// Severity is the ordered crisis classification.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	SeveritySevere Severity = "severe"
)

var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
	SeveritySevere: 4,
}

// AtLeast reports whether s is at or above other in the severity order.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Assessment is the full output of one crisis evaluation. Confidence may
// exceed 1 (up to 1.5) after contextual adjustment; clamp for display.
type Assessment struct {
	Severity             Severity    `json:"severity"`
	Confidence           float64     `json:"confidence"`
	Triggers             []string    `json:"triggers"`
	RiskFactors          []string    `json:"riskFactors"`
	RecommendedActions   []string    `json:"recommendedActions"`
	Urgency              bool        `json:"urgency"`
	RequiresProfessional bool        `json:"requiresProfessional"`
	SafetyPlan           *SafetyPlan `json:"safetyPlan,omitempty"`
}

// Assessor scores conversation windows against the phrase tables.
type Assessor struct {
	resources  *index.Index
	completion *ai.Service
	window     int
}

// NewAssessor wires the assessor to its collaborators. completion may be a
// disabled service; the assessor functions fully without it.
func NewAssessor(resources *index.Index, completion *ai.Service, window int) *Assessor {
	if window < 1 {
		window = 5
	}
	return &Assessor{resources: resources, completion: completion, window: window}
}

// Assess evaluates the last few messages plus the newest message's sentiment
// and an optional conversation overview. It never returns an error; see
// failSafe for the degraded result.
func (a *Assessor) Assess(ctx context.Context, messages []chat.Message, latest sentiment.Result, overview string) (assessment Assessment) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[crisis] assessment panicked, returning fail-safe result: %v", r)
			assessment = failSafe()
		}
	}()

	text := windowText(messages, a.window)

	triggers, explicitCount, implicitCount := scanIndicators(text)
	riskFactors, protectiveHits, reasonsToLive := scanFactors(text)

	score := len(triggers)*2 + len(riskFactors) - protectiveHits
	severity := severityFromScore(score)

	confidence := math.Min(
		float64(explicitCount)*0.4+float64(implicitCount)*0.2+math.Abs(latest.Score)*0.4, 1)

	// Contextual augmentation from the conversation overview.
	riskFactors = append(riskFactors, contextTags(overview)...)
	confidence *= contextConfidenceFactor(overview)

	urgency := severity.AtLeast(SeverityHigh) || explicitCount > 0
	requiresProfessional := severity.AtLeast(SeverityHigh) || len(riskFactors) >= 3

	actions := append([]string(nil), actionsBySeverity[severity]...)
	actions = mergeActions(actions, a.augmentActions(ctx, severity, triggers, riskFactors))

	assessment = Assessment{
		Severity:             severity,
		Confidence:           confidence,
		Triggers:             triggers,
		RiskFactors:          riskFactors,
		RecommendedActions:   actions,
		Urgency:              urgency,
		RequiresProfessional: requiresProfessional,
	}

	if severity.AtLeast(SeverityMedium) {
		assessment.SafetyPlan = a.buildSafetyPlan(triggers, reasonsToLive)
	}

	return assessment
}

// failSafe is the cautious default used when assessment itself breaks.
func failSafe() Assessment {
	return Assessment{
		Severity:             SeverityNone,
		RequiresProfessional: true,
		Triggers:             []string{},
		RiskFactors:          []string{},
		RecommendedActions:   []string{"seek professional help if in immediate danger"},
	}
}

// windowText concatenates the lower-cased content of the trailing window.
func windowText(messages []chat.Message, window int) string {
	start := len(messages) - window
	if start < 0 {
		start = 0
	}

	var builder strings.Builder
	for _, msg := range messages[start:] {
		builder.WriteString(strings.ToLower(msg.Content))
		builder.WriteString(" ")
	}
	return builder.String()
}

func scanIndicators(text string) (triggers []string, explicitCount, implicitCount int) {
	triggers = []string{}
	for _, family := range []string{"suicidal", "self-harm", "harm"} {
		categories := indicatorFamilies[family]
		for _, category := range []string{"explicit", "implicit", "behavioral"} {
			for _, phrase := range categories[category] {
				if !strings.Contains(text, phrase) {
					continue
				}
				triggers = append(triggers, fmt.Sprintf("%s:%s:%s", family, category, phrase))
				switch category {
				case "explicit":
					explicitCount++
				case "implicit":
					implicitCount++
				}
			}
		}
	}
	return triggers, explicitCount, implicitCount
}

func scanFactors(text string) (riskFactors []string, protectiveHits int, reasonsToLive []string) {
	riskFactors = []string{}
	for _, group := range []string{"personal", "situational", "behavioral"} {
		for _, phrase := range riskFactorGroups[group] {
			if strings.Contains(text, phrase) {
				riskFactors = append(riskFactors, fmt.Sprintf("%s:%s", group, phrase))
			}
		}
	}

	for _, group := range []string{"social", "personal", "resources"} {
		for _, phrase := range protectiveFactorGroups[group] {
			if !strings.Contains(text, phrase) {
				continue
			}
			protectiveHits++
			if group == "personal" {
				reasonsToLive = append(reasonsToLive, phrase)
			}
		}
	}
	return riskFactors, protectiveHits, reasonsToLive
}

// severityFromScore buckets the composite score. Monotone in the score.
func severityFromScore(score int) Severity {
	switch {
	case score <= 0:
		return SeverityNone
	case score <= 2:
		return SeverityLow
	case score <= 4:
		return SeverityMedium
	case score <= 6:
		return SeverityHigh
	default:
		return SeveritySevere
	}
}

func contextTags(overview string) []string {
	lowered := strings.ToLower(overview)
	tags := make([]string, 0, len(contextTerms))
	for _, theme := range []string{"isolation", "hopelessness", "loss"} {
		for _, term := range contextTerms[theme] {
			if strings.Contains(lowered, term) {
				tags = append(tags, "context:"+theme)
				break
			}
		}
	}
	return tags
}

// contextConfidenceFactor scales confidence by how much context the overview
// provides and whether it reads as unclear. The 1.2/0.8 constants and the
// [0.5, 1.5] clamp are deliberate contract values, not tuned quantities.
func contextConfidenceFactor(overview string) float64 {
	factor := 1.0
	switch {
	case len(overview) >= 160:
		factor = 1.2
	case len(overview) > 0 && len(overview) < 40:
		factor = 0.8
	}

	lowered := strings.ToLower(overview)
	if strings.Contains(lowered, "unclear") || strings.Contains(lowered, "inconsistent") {
		factor -= 0.3
	}

	return math.Min(1.5, math.Max(0.5, factor))
}

// augmentActions asks the completion service for additional recommendations.
// Any failure yields nil; the fixed per-severity list always stands alone.
func (a *Assessor) augmentActions(ctx context.Context, severity Severity, triggers, riskFactors []string) []string {
	if !a.completion.Enabled() || severity == SeverityNone {
		return nil
	}

	prompt := fmt.Sprintf(
		"A wellbeing check flagged severity %q with signals %s and risk factors %s. "+
			"Suggest up to three short, concrete next actions, one per line, no numbering.",
		severity, strings.Join(triggers, "; "), strings.Join(riskFactors, "; "))

	text, err := a.completion.Complete(ctx, prompt, ai.Options{})
	if err != nil {
		log.Printf("[crisis] action augmentation unavailable: %v", err)
		return nil
	}

	lines := make([]string, 0, 3)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789. "))
		if line == "" {
			continue
		}
		lines = append(lines, strings.ToLower(line))
		if len(lines) == 3 {
			break
		}
	}
	return lines
}

// mergeActions appends extras not already present, preserving order.
func mergeActions(base, extras []string) []string {
	seen := make(map[string]bool, len(base))
	for _, action := range base {
		seen[action] = true
	}
	for _, action := range extras {
		if !seen[action] {
			base = append(base, action)
			seen[action] = true
		}
	}
	return base
}
