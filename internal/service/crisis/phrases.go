package crisis

// Indicator phrase tables. Matches are recorded as family:category:phrase so
// downstream consumers can tell explicit signals from implicit ones.
var indicatorFamilies = map[string]map[string][]string{
	"suicidal": {
		"explicit": {
			"kill myself", "want to die", "end my life", "suicide",
			"better off dead", "no reason to live", "end it all",
		},
		"implicit": {
			"hopeless", "can't go on", "no way out", "tired of living",
			"what's the point", "everyone would be better without me",
			"give up on everything",
		},
		"behavioral": {
			"saying goodbye", "giving away my things", "getting my affairs in order",
			"wrote a note", "researching ways",
		},
	},
	"self-harm": {
		"explicit": {
			"cut myself", "hurt myself", "self-harm", "self harm",
			"burning myself", "hitting myself",
		},
		"implicit": {
			"deserve pain", "punish myself", "feel something real",
			"scratching until",
		},
	},
	"harm": {
		"explicit": {
			"hurt someone", "kill them", "make them pay", "they hurt me",
			"hits me", "beats me",
		},
		"implicit": {
			"afraid of them", "not safe at home", "they will find me",
			"lose control and",
		},
	},
}

// Risk-factor phrases raise the assessed score by one each.
var riskFactorGroups = map[string][]string{
	"personal": {
		"no one cares", "completely alone", "worthless", "burden to everyone",
		"hate myself", "never get better",
	},
	"situational": {
		"lost my job", "broke up", "divorce", "eviction", "failed",
		"someone died", "passed away", "debt",
	},
	"behavioral": {
		"drinking every", "stopped eating", "can't sleep at all", "using again",
		"stopped taking my meds", "skipping therapy",
	},
}

// Protective-factor phrases lower the score by one each. Matches from the
// personal group also seed the safety plan's reasons to live.
var protectiveFactorGroups = map[string][]string{
	"social": {
		"my friends", "my family", "my partner", "people who care",
		"someone to talk to",
	},
	"personal": {
		"my kids", "my children", "my dog", "my cat", "my faith",
		"things i still want", "looking forward to",
	},
	"resources": {
		"my therapist", "my counselor", "my doctor", "support group",
		"crisis line", "medication helps",
	},
}

// contextTerms drive the contextual augmentation pass over the conversation
// overview. Each hit appends a synthetic risk tag.
var contextTerms = map[string][]string{
	"isolation":    {"alone", "isolated", "no one", "nobody", "withdrawn"},
	"hopelessness": {"hopeless", "pointless", "no future", "trapped", "stuck"},
	"loss":         {"loss", "grief", "died", "passed away", "breakup"},
}

var actionsBySeverity = map[Severity][]string{
	SeverityNone: {
		"continue regular check-ins",
	},
	SeverityLow: {
		"practice a grounding or relaxation technique",
		"share how you are feeling with someone you trust",
	},
	SeverityMedium: {
		"reach out to a counselor or therapist this week",
		"use the coping strategies from your safety plan",
		"share how you are feeling with someone you trust",
	},
	SeverityHigh: {
		"contact a mental health professional today",
		"call or text a crisis line if distress increases",
		"stay with or near someone you trust",
	},
	SeveritySevere: {
		"call emergency services or a crisis line now",
		"do not stay alone right now",
		"remove access to anything you could use to harm yourself",
	},
}

var copingStrategies = []string{
	"box breathing: in for four, hold for four, out for four",
	"hold ice cubes or splash cold water on your face",
	"step outside and name five things you can see",
	"call or text one person from your support contacts",
	"play a playlist you made for hard moments",
}

var safeEnvironmentChecklist = []string{
	"remove or lock away anything you could use to hurt yourself",
	"ask someone to hold onto medications for now",
	"stay in shared spaces rather than alone in your room",
	"keep your phone charged and crisis numbers saved",
}

// Static contact directories. Data, not logic; the presentation layer may
// localize or replace them.
var defaultSupportContacts = []SupportContact{
	{Name: "Trusted friend or family member", Relationship: "personal", Contact: "fill in together with the user"},
	{Name: "Peer support warmline", Relationship: "peer", Contact: "1-855-845-7415"},
}

var defaultProfessionalResources = []ProfessionalResource{
	{Name: "988 Suicide & Crisis Lifeline", Type: "crisis-line", Contact: "call or text 988", Hours: "24/7"},
	{Name: "Crisis Text Line", Type: "crisis-line", Contact: "text HOME to 741741", Hours: "24/7"},
	{Name: "SAMHSA treatment locator", Type: "referral", Contact: "1-800-662-4357", Hours: "24/7"},
}
