package character

import (
	"reflect"
	"testing"

	"github.com/virlife/worldsim/pkg/world"
)

// ctxAt is shorthand for a turn happening at home in the afternoon, the
// quietest slot: no energy decay and the house comfort baseline applies.
func ctxAt(input, reply string) TurnContext {
	return TurnContext{
		UserInput: input,
		Reply:     reply,
		Location:  world.LocLounge,
		TimeOfDay: world.Afternoon,
	}
}

func TestTransition_NoMatchLeavesStateUnchanged(t *testing.T) {
	current := DefaultState()
	next := Transition(current, ctxAt("what should we have for dinner?", `Rebecca: "Pasta, obviously."`))

	if next.Mood != current.Mood || next.Trust != current.Trust || next.Comfort != current.Comfort {
		t.Error("Neutral input should not change mood, trust, or comfort")
	}
	if len(next.RecentEventTags) != 0 {
		t.Errorf("Expected no event tags, got %v", next.RecentEventTags)
	}
}

func TestTransition_IsPure(t *testing.T) {
	current := DefaultState()
	current.RecentEventTags = []string{"existing"}
	_ = Transition(current, ctxAt("haha that's so funny", ""))

	if current.Humour != HumourLight {
		t.Error("Transition must not mutate its input")
	}
	if !reflect.DeepEqual(current.RecentEventTags, []string{"existing"}) {
		t.Error("Transition must not mutate the input's tag list")
	}
}

func TestTransition_SharedLaughter(t *testing.T) {
	next := Transition(DefaultState(), ctxAt("haha, you're funny", ""))
	if next.Humour != HumourPlayful {
		t.Errorf("Expected humour escalated to playful, got %s", next.Humour)
	}
	if next.RecentEventTags[0] != "shared_laughter" {
		t.Errorf("Expected shared_laughter tag, got %v", next.RecentEventTags)
	}

	// Laughter never downgrades an already-chaotic channel.
	chaotic := DefaultState()
	chaotic.Humour = HumourChaotic
	next = Transition(chaotic, ctxAt("lol", ""))
	if next.Humour != HumourChaotic {
		t.Errorf("Expected chaotic humour preserved, got %s", next.Humour)
	}
}

func TestTransition_SincereDisclosure(t *testing.T) {
	next := Transition(DefaultState(), ctxAt("I love you", ""))
	if next.Trust != TrustSteady || next.Intimacy != IntimacyWarm {
		t.Errorf("Expected steady trust and warm intimacy, got %s/%s", next.Trust, next.Intimacy)
	}

	// Strained trust is sticky against declarations alone.
	strained := DefaultState()
	strained.Trust = TrustStrained
	next = Transition(strained, ctxAt("I love you", ""))
	if next.Trust != TrustStrained {
		t.Errorf("Expected strained trust to survive a declaration, got %s", next.Trust)
	}
}

func TestTransition_PhysicalIntimacy(t *testing.T) {
	next := Transition(DefaultState(), ctxAt("come here for a hug", ""))
	if next.Intimacy != IntimacyIntimate {
		t.Errorf("Expected intimate band when comfortable, got %s", next.Intimacy)
	}

	// Not when on guard.
	guarded := DefaultState()
	guarded.Comfort = ComfortOnGuard
	next = Transition(guarded, ctxAt("come here for a hug", ""))
	if next.Intimacy == IntimacyIntimate {
		t.Error("Physical intimacy should not escalate while on guard")
	}
}

func TestTransition_DismissiveInput(t *testing.T) {
	next := Transition(DefaultState(), ctxAt("whatever, forget it", ""))
	if next.Trust != TrustStrained {
		t.Errorf("Expected strained trust, got %s", next.Trust)
	}
	if next.Mood != MoodAnnoyed {
		t.Errorf("Expected annoyed mood, got %s", next.Mood)
	}
	// The house context restores baseline comfort after the dismissal.
	if next.Comfort != ComfortSafe {
		t.Errorf("Expected house comfort baseline, got %s", next.Comfort)
	}
	if next.RecentEventTags[0] != "dismissive_input" {
		t.Errorf("Expected dismissive_input tag, got %v", next.RecentEventTags)
	}
}

func TestTransition_DismissiveInPublicStaysOnGuard(t *testing.T) {
	ctx := TurnContext{
		UserInput: "shut up",
		Location:  world.LocCafe,
		TimeOfDay: world.Afternoon,
	}
	next := Transition(DefaultState(), ctx)
	if next.Comfort != ComfortOnGuard {
		t.Errorf("Expected on guard outside the house, got %s", next.Comfort)
	}
	if next.SocialContext != SocialPublicBusy {
		t.Errorf("Expected public_busy at the cafe, got %s", next.SocialContext)
	}
}

func TestTransition_Reconciliation(t *testing.T) {
	strained := DefaultState()
	strained.Trust = TrustStrained
	strained.Mood = MoodAnnoyed

	next := Transition(strained, ctxAt("I'm sorry, that came out wrong", ""))
	if next.Trust != TrustRepairing {
		t.Errorf("Expected trust repairing, got %s", next.Trust)
	}
	if next.Mood != MoodCalm {
		t.Errorf("Expected calm mood, got %s", next.Mood)
	}

	// An apology with nothing to repair only tags.
	next = Transition(DefaultState(), ctxAt("sorry I'm late", ""))
	if next.Trust != TrustSteady {
		t.Errorf("Expected steady trust untouched, got %s", next.Trust)
	}
	if next.RecentEventTags[0] != "reconciliation" {
		t.Errorf("Expected reconciliation tag, got %v", next.RecentEventTags)
	}
}

func TestTransition_SupportiveResponse(t *testing.T) {
	stressed := DefaultState()
	stressed.Mood = MoodStressed
	stressed.CognitiveLoad = LoadHeavy

	next := Transition(stressed, ctxAt("take your time, there's no rush", ""))
	if next.CognitiveLoad != LoadModerate {
		t.Errorf("Expected load eased to moderate, got %s", next.CognitiveLoad)
	}
}

func TestTransition_ClaustrophobicTrigger(t *testing.T) {
	ctx := TurnContext{
		UserInput: "I'll just close the door",
		Location:  world.LocBathroom,
		TimeOfDay: world.Afternoon,
	}
	next := Transition(DefaultState(), ctx)
	if next.Fear != FearActive {
		t.Errorf("Expected active fear, got %s", next.Fear)
	}
	if next.Claustrophobia != ClaustroSubtle {
		t.Errorf("Expected subtle claustrophobia, got %s", next.Claustrophobia)
	}

	// "close" alone, away from the bathroom, does not trigger.
	next = Transition(DefaultState(), ctxAt("close the curtains?", ""))
	if next.Fear != FearIdle {
		t.Errorf("Expected idle fear outside the bathroom clause, got %s", next.Fear)
	}

	// The lift keyword triggers anywhere.
	next = Transition(DefaultState(), ctxAt("we got stuck in the lift once", ""))
	if next.Fear != FearActive {
		t.Errorf("Expected lift keyword to trigger, got %s", next.Fear)
	}
}

func TestTransition_TimeEnergyDecay(t *testing.T) {
	ctx := TurnContext{
		UserInput: "still awake?",
		Location:  world.LocBedroom,
		TimeOfDay: world.LateNight,
	}

	next := Transition(DefaultState(), ctx) // medium energy
	if next.Energy != EnergyLow {
		t.Errorf("Expected energy decayed to low, got %s", next.Energy)
	}
	if next.Mood != MoodTired {
		t.Errorf("Expected tired mood at low energy, got %s", next.Mood)
	}

	high := DefaultState()
	high.Energy = EnergyHigh
	next = Transition(high, ctx)
	if next.Energy != EnergyMedium {
		t.Errorf("Expected high energy decayed to medium, got %s", next.Energy)
	}
	if next.Mood == MoodTired {
		t.Error("Medium energy should not force a tired mood")
	}

	// No decay outside the early and late buckets.
	next = Transition(DefaultState(), ctxAt("afternoon slump", ""))
	if next.Energy != EnergyMedium {
		t.Errorf("Expected no decay in the afternoon, got %s", next.Energy)
	}
}

func TestTransition_PlayfulGatedByComfort(t *testing.T) {
	next := Transition(DefaultState(), ctxAt("stop teasing me", ""))
	if next.Mood != MoodPlayful || next.Humour != HumourPlayful {
		t.Errorf("Expected playful mood and humour at home, got %s/%s", next.Mood, next.Humour)
	}

	// A dismissal in public holds comfort on guard, which blocks playfulness.
	ctx := TurnContext{
		UserInput: "whatever. tease me then",
		Location:  world.LocCafe,
		TimeOfDay: world.Afternoon,
	}
	next = Transition(DefaultState(), ctx)
	if next.Mood == MoodPlayful {
		t.Error("Playfulness should not land while on guard")
	}
}

func TestTransition_TagOrderingAndCap(t *testing.T) {
	current := DefaultState()
	current.RecentEventTags = []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9", "t10"}

	next := Transition(current, ctxAt("haha, I'm sorry", ""))
	if len(next.RecentEventTags) != RecentEventLimit {
		t.Errorf("Expected tag list capped at %d, got %d", RecentEventLimit, len(next.RecentEventTags))
	}
	if next.RecentEventTags[0] != "shared_laughter" || next.RecentEventTags[1] != "reconciliation" {
		t.Errorf("Expected this turn's tags in front, got %v", next.RecentEventTags[:2])
	}
	if next.RecentEventTags[2] != "t1" {
		t.Errorf("Expected prior tags to follow, got %v", next.RecentEventTags)
	}
}

func TestRuleNames_Order(t *testing.T) {
	want := []string{
		"shared_laughter",
		"sincere_disclosure",
		"physical_intimacy",
		"dismissive_input",
		"reconciliation",
		"supportive_response",
		"claustrophobic_trigger",
		"location_context",
		"time_energy_decay",
		"playful_moment",
	}
	if got := RuleNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rule order changed: %v", got)
	}
}
