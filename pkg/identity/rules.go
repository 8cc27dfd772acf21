// Package identity enforces that generated dialogue matches a fixed
// character profile. Validation is pattern-based: a denylist of generic
// phrasing, required signature markers in substantial dialogue, grounding
// checks on narration, and negative-space rules for things the character
// would never do.
package identity

// PatternRule pairs a regular expression (uncompiled, case-insensitive)
// with the violation description reported when it matches.
type PatternRule struct {
	Pattern     string `yaml:"pattern"`
	Description string `yaml:"description"`
}

// MarkerRule is a named presence check: dialogue of meaningful length must
// match at least one marker in the set.
type MarkerRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// NegativeSpaceRule detects behaviour outside the character's identity.
// Pattern is required; Requires, when set, must also match for the rule to
// trigger (used for phrasing that is only suspicious in context).
type NegativeSpaceRule struct {
	Rule     string `yaml:"rule"`
	Pattern  string `yaml:"pattern"`
	Requires string `yaml:"requires,omitempty"`
}

// RuleSet is the full validation profile for one character. Rule sets are
// plain data so they can be tuned without code changes; LoadRuleSet reads
// one from YAML.
type RuleSet struct {
	CharacterID string `yaml:"character_id"`
	DisplayName string `yaml:"display_name"`

	// DenyPatterns reject generic/out-of-character phrasing anywhere in the
	// output.
	DenyPatterns []PatternRule `yaml:"deny_patterns"`

	// DialogueMinLength gates the signature-marker requirement: dialogue
	// shorter than this is exempt.
	DialogueMinLength int          `yaml:"dialogue_min_length"`
	SignatureMarkers  []MarkerRule `yaml:"signature_markers"`

	// DialogueDenyPatterns apply only to the extracted dialogue portion.
	DialogueDenyPatterns []PatternRule `yaml:"dialogue_deny_patterns"`

	// NarrationMinLength gates the grounding requirement on the
	// narration-only portion (dialogue removed).
	NarrationMinLength int    `yaml:"narration_min_length"`
	GroundingPattern   string `yaml:"grounding_pattern"`

	NegativeSpace []NegativeSpaceRule `yaml:"negative_space"`
}

// DefaultRebeccaRules is the built-in validation profile for Rebecca.
func DefaultRebeccaRules() RuleSet {
	return RuleSet{
		CharacterID: "rebecca",
		DisplayName: "Rebecca",
		DenyPatterns: []PatternRule{
			{Pattern: `it feels like home already`, Description: `generic "feels like home"`},
			{Pattern: `what's on your mind\??`, Description: `generic therapy-speak "what's on your mind"`},
			{Pattern: `what is on your mind\??`, Description: `generic therapy-speak`},
			{Pattern: `i'm here for you`, Description: `generic reassurance "I'm here for you"`},
			{Pattern: `i am here for you`, Description: `generic reassurance`},
			{Pattern: `anything you want to talk about\??`, Description: `generic therapy prompt`},
			{Pattern: `how are you feeling\??$`, Description: `generic check-in question`},
			{Pattern: `tell me more about that`, Description: `generic therapy prompt`},
			{Pattern: `whenever you're ready`, Description: `generic patience statement`},
			{Pattern: `whenever you are ready`, Description: `generic patience statement`},
			{Pattern: `take your time`, Description: `generic patience statement`},
			{Pattern: `i understand how you feel`, Description: `generic empathy statement`},
			{Pattern: `that must be hard`, Description: `generic empathy statement`},
			{Pattern: `i can only imagine`, Description: `generic empathy statement`},
			{Pattern: `you're so brave`, Description: `generic reassurance`},
			{Pattern: `you are so brave`, Description: `generic reassurance`},
			{Pattern: `like secret agents`, Description: `generic rom-com trope`},
			{Pattern: `oversized sunglasses and hat`, Description: `generic celebrity cliche`},
			{Pattern: `your wish is my command`, Description: `generic romance-bot`},
			{Pattern: `anything for you`, Description: `generic romance-bot`},
		},
		DialogueMinLength: 20,
		SignatureMarkers: []MarkerRule{
			{Name: "humour", Pattern: `squint|brow|corner of.*mouth|teasing|wry|dry|bloody|fucking|damn|christ|god\s|bollocks|arse|ridiculous`},
			{Name: "directness", Pattern: `look,|here's the|the thing is|actually,|honestly,|truth is|right,|fine\.|okay\.`},
			{Name: "self_interruption", Pattern: `wait,|no—|actually—|—|i mean,`},
			{Name: "bluntness", Pattern: `you know|that's|that is|not going to|won't|can't|shouldn't|don't|do not`},
		},
		DialogueDenyPatterns: []PatternRule{
			{Pattern: `i appreciate that`, Description: "PR-speak in dialogue"},
			{Pattern: `thank you for sharing`, Description: "PR-speak in dialogue"},
			{Pattern: `that sounds wonderful`, Description: "PR-speak in dialogue"},
			{Pattern: `how lovely`, Description: "PR-speak in dialogue"},
			{Pattern: `that's so sweet`, Description: "PR-speak in dialogue"},
			{Pattern: `that is so sweet`, Description: "PR-speak in dialogue"},
			{Pattern: `you're too kind`, Description: "PR-speak in dialogue"},
			{Pattern: `you are too kind`, Description: "PR-speak in dialogue"},
		},
		NarrationMinLength: 100,
		GroundingPattern:   `lean|step|bump|touch|hand|shoulder|hip|mug|coffee|kitchen|window|counter|chair|sofa|couch|door|walk|stand|sit|move|turn|glance|look`,
		NegativeSpace: []NegativeSpaceRule{
			{Rule: "No cruelty or manipulative humour", Pattern: `humiliat|mock|demean|belittl|cruel`},
			{Rule: "No corporate PR-speak", Pattern: `synergy|leverage|optimize|circle back|touch base|moving forward`},
			{Rule: "No emotional dishonesty", Pattern: `everything is fine|nothing is wrong|i'm fine|don't worry about`, Requires: `clearly|obviously|visibly`},
		},
	}
}

// GenericRules is the fallback profile for characters without a registered
// rule set: denylist and negative space only, no signature requirements.
func GenericRules(characterID string) RuleSet {
	base := DefaultRebeccaRules()
	return RuleSet{
		CharacterID:   characterID,
		DisplayName:   "",
		DenyPatterns:  base.DenyPatterns,
		NegativeSpace: base.NegativeSpace,
	}
}
