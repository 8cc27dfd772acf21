// Package character models Rebecca's internal state: a purely categorical
// mood/trust/intimacy profile evolved once per turn by an ordered rule
// sequence. No field is numeric; every value is a label from a small fixed
// enumeration.
package character

import "encoding/json"

type Mood string

const (
	MoodCalm        Mood = "calm"
	MoodPlayful     Mood = "playful"
	MoodTired       Mood = "tired"
	MoodStressed    Mood = "stressed"
	MoodAnnoyed     Mood = "annoyed"
	MoodVulnerable  Mood = "vulnerable"
	MoodFocused     Mood = "focused"
	MoodOverwhelmed Mood = "overwhelmed"
)

type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

type Trust string

const (
	TrustGrowing   Trust = "growing"
	TrustSteady    Trust = "steady"
	TrustStrained  Trust = "strained"
	TrustRepairing Trust = "repairing"
)

type Comfort string

const (
	ComfortSafe          Comfort = "safe"
	ComfortOnGuard       Comfort = "slightly_on_guard"
	ComfortAlert         Comfort = "alert"
	ComfortUncomfortable Comfort = "uncomfortable"
)

type Intimacy string

const (
	IntimacyOrdinary Intimacy = "ordinary"
	IntimacyWarm     Intimacy = "warm"
	IntimacyIntimate Intimacy = "intimate"
	IntimacyPost     Intimacy = "post_intimacy"
)

type SocialContext string

const (
	SocialAloneTogether  SocialContext = "alone_together"
	SocialPublicLowNoise SocialContext = "public_low_noise"
	SocialPublicBusy     SocialContext = "public_busy"
	SocialGroupSmall     SocialContext = "group_small"
	SocialGroupLarge     SocialContext = "group_large"
)

type CognitiveLoad string

const (
	LoadLight    CognitiveLoad = "light"
	LoadModerate CognitiveLoad = "moderate"
	LoadHeavy    CognitiveLoad = "heavy"
)

type HumourChannel string

const (
	HumourOff     HumourChannel = "off"
	HumourLight   HumourChannel = "light"
	HumourPlayful HumourChannel = "playful"
	HumourChaotic HumourChannel = "chaotic"
)

type FearChannel string

const (
	FearIdle       FearChannel = "idle"
	FearBackground FearChannel = "background"
	FearActive     FearChannel = "active"
)

type Claustrophobia string

const (
	ClaustroNone      Claustrophobia = "none"
	ClaustroSubtle    Claustrophobia = "subtle"
	ClaustroTriggered Claustrophobia = "triggered"
)

// RecentEventLimit caps the recent-event tag list.
const RecentEventLimit = 10

// State is Rebecca's categorical internal state. Values are never mutated in
// place; each turn produces a new State.
type State struct {
	Mood            Mood           `json:"mood_label"`
	Energy          Energy         `json:"energy_label"`
	Trust           Trust          `json:"trust_with_you"`
	Comfort         Comfort        `json:"comfort_with_context"`
	Intimacy        Intimacy       `json:"intimacy_band"`
	SocialContext   SocialContext  `json:"social_context"`
	CognitiveLoad   CognitiveLoad  `json:"cognitive_load"`
	Humour          HumourChannel  `json:"humour_channel"`
	RecentEventTags []string       `json:"recent_event_tags"`
	PhysicalState   []string       `json:"physical_state"`
	Fear            FearChannel    `json:"fear_channel"`
	Claustrophobia  Claustrophobia `json:"claustrophobia_flag"`
}

// DefaultState is the fixed state a character starts from, and the fallback
// whenever a persisted state cannot be trusted.
func DefaultState() State {
	return State{
		Mood:            MoodCalm,
		Energy:          EnergyMedium,
		Trust:           TrustSteady,
		Comfort:         ComfortSafe,
		Intimacy:        IntimacyWarm,
		SocialContext:   SocialAloneTogether,
		CognitiveLoad:   LoadLight,
		Humour:          HumourLight,
		RecentEventTags: []string{},
		PhysicalState:   []string{"well_rested"},
		Fear:            FearIdle,
		Claustrophobia:  ClaustroNone,
	}
}

var (
	validMoods = map[Mood]bool{
		MoodCalm: true, MoodPlayful: true, MoodTired: true, MoodStressed: true,
		MoodAnnoyed: true, MoodVulnerable: true, MoodFocused: true, MoodOverwhelmed: true,
	}
	validEnergies = map[Energy]bool{EnergyLow: true, EnergyMedium: true, EnergyHigh: true}
	validTrusts   = map[Trust]bool{
		TrustGrowing: true, TrustSteady: true, TrustStrained: true, TrustRepairing: true,
	}
	validComforts = map[Comfort]bool{
		ComfortSafe: true, ComfortOnGuard: true, ComfortAlert: true, ComfortUncomfortable: true,
	}
	validIntimacies = map[Intimacy]bool{
		IntimacyOrdinary: true, IntimacyWarm: true, IntimacyIntimate: true, IntimacyPost: true,
	}
	validSocialContexts = map[SocialContext]bool{
		SocialAloneTogether: true, SocialPublicLowNoise: true, SocialPublicBusy: true,
		SocialGroupSmall: true, SocialGroupLarge: true,
	}
	validLoads   = map[CognitiveLoad]bool{LoadLight: true, LoadModerate: true, LoadHeavy: true}
	validHumours = map[HumourChannel]bool{
		HumourOff: true, HumourLight: true, HumourPlayful: true, HumourChaotic: true,
	}
	validFears    = map[FearChannel]bool{FearIdle: true, FearBackground: true, FearActive: true}
	validClaustro = map[Claustrophobia]bool{
		ClaustroNone: true, ClaustroSubtle: true, ClaustroTriggered: true,
	}
)

// Valid reports whether every field belongs to its declared enumeration.
func (s State) Valid() bool {
	return validMoods[s.Mood] &&
		validEnergies[s.Energy] &&
		validTrusts[s.Trust] &&
		validComforts[s.Comfort] &&
		validIntimacies[s.Intimacy] &&
		validSocialContexts[s.SocialContext] &&
		validLoads[s.CognitiveLoad] &&
		validHumours[s.Humour] &&
		validFears[s.Fear] &&
		validClaustro[s.Claustrophobia]
}

// Serialize encodes the state for storage inside the world-state document.
func Serialize(s State) string {
	data, err := json.Marshal(s)
	if err != nil {
		// State contains only strings and string slices; this cannot happen.
		return ""
	}
	return string(data)
}

// Deserialize decodes a stored state string. Empty input, malformed JSON, or
// any field outside its enumeration yields the full default state. A partial
// or invalid state never escapes.
func Deserialize(raw string) State {
	if raw == "" {
		return DefaultState()
	}

	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultState()
	}
	if !s.Valid() {
		return DefaultState()
	}

	if s.RecentEventTags == nil {
		s.RecentEventTags = []string{}
	}
	if s.PhysicalState == nil {
		s.PhysicalState = []string{}
	}
	return s
}
