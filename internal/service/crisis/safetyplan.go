package crisis

import (
	"strings"

	"github.com/havenlabs/haven/backend/internal/index"
)

// SupportContact is one person or line the user can reach out to.
type SupportContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Contact      string `json:"contact"`
}

// ProfessionalResource is a clinical or crisis service entry.
type ProfessionalResource struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Contact string `json:"contact"`
	Hours   string `json:"hours"`
}

// SafetyPlan is the structured bundle generated for medium or higher
// severity.
type SafetyPlan struct {
	WarningSignals        []string               `json:"warningSignals"`
	CopingStrategies      []string               `json:"copingStrategies"`
	SupportContacts       []SupportContact       `json:"supportContacts"`
	ProfessionalResources []ProfessionalResource `json:"professionalResources"`
	SafeEnvironment       []string               `json:"safeEnvironment"`
	ReasonsToLive         []string               `json:"reasonsToLive"`
}

// buildSafetyPlan assembles the plan from matched triggers, the fixed
// directories and, when available, coping techniques retrieved from the
// resource corpus.
func (a *Assessor) buildSafetyPlan(triggers, reasonsToLive []string) *SafetyPlan {
	warningSignals := make([]string, 0, len(triggers))
	for _, trigger := range triggers {
		// Keep only the phrase fragment of family:category:phrase.
		if idx := strings.LastIndex(trigger, ":"); idx >= 0 {
			warningSignals = append(warningSignals, trigger[idx+1:])
		}
	}

	strategies := append([]string(nil), copingStrategies...)
	if a.resources != nil {
		for _, doc := range a.resources.SearchByMetadata(index.Filter{Type: "technique", Difficulty: "beginner"}, 2) {
			if line := firstSentence(doc.Content); line != "" {
				strategies = append(strategies, line)
			}
		}
	}

	if reasonsToLive == nil {
		reasonsToLive = []string{}
	}

	return &SafetyPlan{
		WarningSignals:        warningSignals,
		CopingStrategies:      strategies,
		SupportContacts:       append([]SupportContact(nil), defaultSupportContacts...),
		ProfessionalResources: append([]ProfessionalResource(nil), defaultProfessionalResources...),
		SafeEnvironment:       append([]string(nil), safeEnvironmentChecklist...),
		ReasonsToLive:         reasonsToLive,
	}
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "."); idx > 0 {
		return text[:idx+1]
	}
	return text
}
