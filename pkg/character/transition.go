package character

import (
	"strings"

	"github.com/virlife/worldsim/pkg/world"
)

// TurnContext is everything one transition inspects: the user's utterance,
// the generated reply, and the scene Rebecca is in.
type TurnContext struct {
	UserInput string
	Reply     string
	Location  world.Location
	TimeOfDay world.TimeOfDay
}

// draft is the evolving state a transition's rules operate on. Rules both
// read and write it, so later rules can override earlier ones; the rule
// order below is load-bearing.
type draft struct {
	state    State
	input    string // lower-cased user utterance
	reply    string // lower-cased generated reply
	location world.Location
	bucket   world.TimeOfDay
	tags     []string
}

func (d *draft) tag(name string) {
	d.tags = append(d.tags, name)
}

func (d *draft) inputHas(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(d.input, kw) {
			return true
		}
	}
	return false
}

func (d *draft) replyHas(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(d.reply, kw) {
			return true
		}
	}
	return false
}

// rule is one named step of the transition sequence.
type rule struct {
	name  string
	apply func(d *draft)
}

// transitionRules is the ordered rule sequence. Order matters: rules share
// the draft, and a later rule's write wins over an earlier one's (dismissive
// input overrides same-turn warmth on trust/mood/comfort; late-night energy
// decay can force mood after everything before it). Do not reorder.
var transitionRules = []rule{
	{
		name: "shared_laughter",
		apply: func(d *draft) {
			if d.replyHas("laugh", "chuckle", "grin") || d.inputHas("haha", "lol", "funny") {
				d.tag("shared_laughter")
				// escalate only; laughter never downgrades the channel
				if d.state.Humour == HumourOff || d.state.Humour == HumourLight {
					d.state.Humour = HumourPlayful
				}
			}
		},
	},
	{
		name: "sincere_disclosure",
		apply: func(d *draft) {
			if d.inputHas("i love you", "love you") || d.replyHas("i love you", "love you") {
				d.tag("sincere_disclosure")
				// strained trust is sticky against declarations alone
				if d.state.Trust != TrustStrained {
					d.state.Trust = TrustSteady
				}
				if d.state.Intimacy == IntimacyOrdinary || d.state.Intimacy == IntimacyWarm {
					d.state.Intimacy = IntimacyWarm
				}
			}
		},
	},
	{
		name: "physical_intimacy",
		apply: func(d *draft) {
			if d.inputHas("kiss", "hug", "hold", "touch") || d.replyHas("leans", "brushes", "reaches", "kisses") {
				d.tag("physical_intimacy")
				if d.state.Comfort == ComfortSafe {
					d.state.Intimacy = IntimacyIntimate
				}
			}
		},
	},
	{
		name: "dismissive_input",
		apply: func(d *draft) {
			if d.inputHas("shut up", "whatever", "i don't care", "leave me alone") {
				d.tag("dismissive_input")
				d.state.Trust = TrustStrained
				d.state.Mood = MoodAnnoyed
				d.state.Comfort = ComfortOnGuard
			}
		},
	},
	{
		name: "reconciliation",
		apply: func(d *draft) {
			if d.inputHas("sorry", "apologize", "my fault", "forgive") {
				if d.state.Trust == TrustStrained {
					d.state.Trust = TrustRepairing
					d.state.Mood = MoodCalm
				}
				d.tag("reconciliation")
			}
		},
	},
	{
		name: "supportive_response",
		apply: func(d *draft) {
			if d.inputHas("it's okay", "i understand", "i'm here", "take your time") {
				d.tag("supportive_response")
				if d.state.Mood == MoodStressed || d.state.Mood == MoodVulnerable {
					d.state.CognitiveLoad = LoadModerate
				}
			}
		},
	},
	{
		name: "claustrophobic_trigger",
		apply: func(d *draft) {
			// the bathroom clause binds tighter than the keyword alternatives
			bathroomClose := strings.Contains(string(d.location), "bathroom") && d.inputHas("close")
			if bathroomClose || d.inputHas("lift", "elevator", "confined", "stuck") {
				d.tag("claustrophobic_trigger")
				d.state.Fear = FearActive
				d.state.Claustrophobia = ClaustroSubtle
			}
		},
	},
	{
		name: "location_context",
		apply: func(d *draft) {
			loc := string(d.location)
			switch {
			case strings.Contains(loc, "house:"):
				d.state.SocialContext = SocialAloneTogether
				d.state.Comfort = ComfortSafe
			case strings.Contains(loc, "outside:park"):
				d.state.SocialContext = SocialPublicLowNoise
			case strings.Contains(loc, "outside:cafe"), strings.Contains(loc, "outside:shop"):
				d.state.SocialContext = SocialPublicBusy
				// more reserved in busy public places
				if d.state.Mood == MoodPlayful {
					d.state.Humour = HumourLight
				}
			}
		},
	},
	{
		name: "time_energy_decay",
		apply: func(d *draft) {
			if d.bucket != world.LateNight && d.bucket != world.EarlyMorning {
				return
			}
			switch d.state.Energy {
			case EnergyHigh:
				d.state.Energy = EnergyMedium
			case EnergyMedium:
				d.state.Energy = EnergyLow
			}
			if d.state.Energy == EnergyLow {
				d.state.Mood = MoodTired
			}
		},
	},
	{
		name: "playful_moment",
		apply: func(d *draft) {
			if d.inputHas("tease", "joke", "play", "silly") || d.replyHas("teasing", "winks", "mischief") {
				d.tag("playful_moment")
				if d.state.Comfort == ComfortSafe {
					d.state.Mood = MoodPlayful
					d.state.Humour = HumourPlayful
				}
			}
		},
	},
}

// Transition applies the full rule sequence to a state, producing the next
// state. It is pure, deterministic, and total: inputs that match nothing
// leave every field unchanged.
func Transition(current State, ctx TurnContext) State {
	d := &draft{
		state:    current,
		input:    strings.ToLower(ctx.UserInput),
		reply:    strings.ToLower(ctx.Reply),
		location: ctx.Location,
		bucket:   ctx.TimeOfDay,
	}

	for _, r := range transitionRules {
		r.apply(d)
	}

	// Newest tags go in front; the combined list stays bounded.
	tags := append(append([]string{}, d.tags...), current.RecentEventTags...)
	if len(tags) > RecentEventLimit {
		tags = tags[:RecentEventLimit]
	}
	d.state.RecentEventTags = tags

	return d.state
}

// RuleNames exposes the evaluation order for inspection and tests.
func RuleNames() []string {
	names := make([]string, len(transitionRules))
	for i, r := range transitionRules {
		names[i] = r.name
	}
	return names
}
