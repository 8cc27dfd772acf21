package character

import (
	"strings"
	"testing"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if !s.Valid() {
		t.Fatal("Default state must pass its own validation")
	}
	if s.Mood != MoodCalm || s.Trust != TrustSteady || s.Comfort != ComfortSafe {
		t.Error("Default state has unexpected values")
	}
	if s.RecentEventTags == nil || s.PhysicalState == nil {
		t.Error("Default state lists must be initialized")
	}
}

func TestState_Valid(t *testing.T) {
	s := DefaultState()
	if !s.Valid() {
		t.Error("Expected default state to be valid")
	}

	s.Mood = Mood("ecstatic")
	if s.Valid() {
		t.Error("Unknown mood should fail validation")
	}

	s = DefaultState()
	s.Trust = Trust("absolute")
	if s.Valid() {
		t.Error("Unknown trust should fail validation")
	}
}

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	s := DefaultState()
	s.Mood = MoodPlayful
	s.Humour = HumourChaotic
	s.RecentEventTags = []string{"shared_laughter"}

	raw := Serialize(s)
	if !strings.Contains(raw, `"mood_label":"playful"`) {
		t.Errorf("Expected serialized mood, got %s", raw)
	}

	got := Deserialize(raw)
	if got.Mood != MoodPlayful || got.Humour != HumourChaotic {
		t.Error("Round trip lost field values")
	}
	if len(got.RecentEventTags) != 1 || got.RecentEventTags[0] != "shared_laughter" {
		t.Error("Round trip lost event tags")
	}
}

func TestDeserialize_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ""},
		{"malformed json", `{"mood_label": `},
		{"unknown enum value", `{"mood_label":"euphoric","energy_label":"medium","trust_with_you":"steady","comfort_with_context":"safe","intimacy_band":"warm","social_context":"alone_together","cognitive_load":"light","humour_channel":"light","fear_channel":"idle","claustrophobia_flag":"none"}`},
		{"missing fields", `{"mood_label":"calm"}`},
	}
	want := DefaultState()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deserialize(tt.raw)
			if got.Mood != want.Mood || got.Trust != want.Trust || got.Comfort != want.Comfort {
				t.Errorf("Expected full default state, got %+v", got)
			}
			if got.RecentEventTags == nil || got.PhysicalState == nil {
				t.Error("Fallback state lists must be initialized")
			}
		})
	}
}

func TestDeserialize_NilListsBecomeEmpty(t *testing.T) {
	raw := `{"mood_label":"calm","energy_label":"medium","trust_with_you":"steady","comfort_with_context":"safe","intimacy_band":"warm","social_context":"alone_together","cognitive_load":"light","humour_channel":"light","fear_channel":"idle","claustrophobia_flag":"none"}`
	got := Deserialize(raw)
	if got.RecentEventTags == nil {
		t.Error("Expected nil tags replaced with an empty slice")
	}
	if got.PhysicalState == nil {
		t.Error("Expected nil physical state replaced with an empty slice")
	}
	if got.Mood != MoodCalm {
		t.Errorf("Expected valid state to survive, got mood %s", got.Mood)
	}
}
