// Package profile defines the user profile record supplied by the caller.
// The analytics core only ever reads it; ownership and persistence stay with
// the presentation layer.
package profile

// Preferences describe how the user likes to engage with suggestions.
type Preferences struct {
	TimeAvailable    string `json:"timeAvailable"`    // "limited" | "moderate" | "flexible"
	ActivityLevel    string `json:"activityLevel"`    // "low" | "moderate" | "high"
	SocialPreference string `json:"socialPreference"` // "solo" | "small-group" | "community"
	LearningStyle    string `json:"learningStyle"`    // "reading" | "practice" | "guided"
}

// Progress tracks what the user has already tried.
type Progress struct {
	CompletedActivities []string `json:"completedActivities"`
	EffectiveStrategies []string `json:"effectiveStrategies"`
	ChallengingAreas    []string `json:"challengingAreas"`
}

// Profile is the caller-owned user record consumed by the recommender.
type Profile struct {
	Interests   []string    `json:"interests"`
	Challenges  []string    `json:"challenges"`
	Preferences Preferences `json:"preferences"`
	Progress    Progress    `json:"progress"`
}
