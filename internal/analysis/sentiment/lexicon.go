package sentiment

// Emotion is one of the fixed emotion categories tracked by the scorer.
type Emotion string

const (
	Joy      Emotion = "joy"
	Sadness  Emotion = "sadness"
	Anger    Emotion = "anger"
	Fear     Emotion = "fear"
	Surprise Emotion = "surprise"
	Love     Emotion = "love"
)

// emotionOrder fixes iteration order so ties resolve deterministically.
var emotionOrder = []Emotion{Joy, Sadness, Anger, Fear, Surprise, Love}

var emotionKeywords = map[Emotion]map[string]float64{
	Joy: {
		"happy": 1.0, "joy": 1.2, "glad": 0.8, "grateful": 1.0, "excited": 0.9,
		"wonderful": 0.9, "great": 0.7, "amazing": 0.9, "smile": 0.7, "laugh": 0.8,
		"proud": 0.8, "hopeful": 0.8, "fun": 0.7, "cheerful": 0.9, "delighted": 1.0,
	},
	Sadness: {
		"sad": 1.0, "depressed": 1.2, "unhappy": 0.9, "cry": 0.9, "crying": 0.9,
		"lonely": 1.0, "miserable": 1.1, "empty": 0.8, "grief": 1.1, "hurt": 0.7,
		"hopeless": 1.2, "worthless": 1.1, "heartbroken": 1.1, "down": 0.6, "lost": 0.6,
	},
	Anger: {
		"angry": 1.0, "mad": 0.9, "furious": 1.2, "annoyed": 0.7, "frustrated": 0.9,
		"hate": 1.0, "rage": 1.2, "irritated": 0.7, "resent": 0.8, "unfair": 0.6,
		"outraged": 1.1,
	},
	Fear: {
		"afraid": 1.0, "scared": 1.0, "anxious": 1.1, "worried": 0.9, "nervous": 0.8,
		"panic": 1.2, "terrified": 1.2, "dread": 1.0, "overwhelmed": 0.9,
		"stressed": 0.9, "stress": 0.8, "uneasy": 0.7,
	},
	Surprise: {
		"surprised": 1.0, "shocked": 1.1, "unexpected": 0.8, "sudden": 0.6,
		"unbelievable": 0.9, "startled": 0.9, "wow": 0.7,
	},
	Love: {
		"love": 1.0, "caring": 0.8, "affection": 0.9, "cherish": 0.9, "adore": 1.0,
		"warmth": 0.7, "supportive": 0.7, "appreciate": 0.8, "connected": 0.6,
	},
}

// positiveEmotions and negativeEmotions give each category a sign when a
// topic window is scored. Surprise carries no sign.
var (
	positiveEmotions = map[Emotion]bool{Joy: true, Love: true}
	negativeEmotions = map[Emotion]bool{Sadness: true, Anger: true, Fear: true}
)

// topicVocabulary lists the conversation themes the scorer tags. A token
// containing the topic string as a substring counts as a mention.
var topicVocabulary = []string{
	"work", "family", "relationship", "health", "sleep", "anxiety",
	"school", "money", "friend", "future", "therapy", "exercise",
	"loneliness", "motivation",
}

// Style pole word lists. The style value is positive/(positive+negative)
// with a 0.5 default when neither pole matches.
var stylePoles = map[string][2][]string{
	"formality": {
		{"therefore", "however", "furthermore", "regarding", "moreover", "hence", "shall", "consequently"},
		{"gonna", "wanna", "yeah", "kinda", "dunno", "nah", "stuff", "cool"},
	},
	"certainty": {
		{"definitely", "certainly", "always", "never", "absolutely", "sure", "know", "must"},
		{"maybe", "perhaps", "possibly", "might", "guess", "unsure", "probably", "somewhat"},
	},
	"urgency": {
		{"now", "immediately", "urgent", "urgently", "asap", "quickly", "emergency", "tonight"},
		{"later", "eventually", "someday", "whenever", "sometime", "slowly"},
	},
}
