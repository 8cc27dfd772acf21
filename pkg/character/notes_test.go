package character

import (
	"strings"
	"testing"
)

func TestSummary_Defaults(t *testing.T) {
	got := Summary(DefaultState())

	for _, want := range []string{
		"mood: calm",
		"energy: medium",
		"trust with George: steady",
		"comfort: safe",
		"intimacy band: warm",
		"physical: well_rested",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q, got: %s", want, got)
		}
	}

	// Idle channels and empty lists are omitted.
	if strings.Contains(got, "fear channel") {
		t.Error("Idle fear channel should be omitted")
	}
	if strings.Contains(got, "claustrophobia") {
		t.Error("Absent claustrophobia should be omitted")
	}
	if strings.Contains(got, "recent events") {
		t.Error("Empty tag list should be omitted")
	}
}

func TestSummary_ActiveChannelsAndTagWindow(t *testing.T) {
	s := DefaultState()
	s.Fear = FearActive
	s.Claustrophobia = ClaustroSubtle
	s.PhysicalState = nil
	s.RecentEventTags = []string{"a", "b", "c", "d", "e"}

	got := Summary(s)
	if !strings.Contains(got, "fear channel: active") {
		t.Errorf("Expected active fear in summary, got: %s", got)
	}
	if !strings.Contains(got, "claustrophobia: subtle") {
		t.Errorf("Expected claustrophobia in summary, got: %s", got)
	}
	if strings.Contains(got, "physical:") {
		t.Error("Empty physical state should be omitted")
	}
	if !strings.Contains(got, "recent events: a, b, c") {
		t.Errorf("Expected only the 3 newest tags, got: %s", got)
	}
	if strings.Contains(got, "recent events: a, b, c, d") {
		t.Error("Older tags should be cut from the summary")
	}
}

func TestExpressionNote(t *testing.T) {
	got := ExpressionNote(DefaultState())
	if !strings.Contains(got, "Rebecca's Expression Engine") {
		t.Errorf("Expected expression framing, got: %s", got)
	}
	if !strings.Contains(got, "mood: calm") {
		t.Error("Expected the state summary embedded in the note")
	}
	if !strings.Contains(got, "without explaining the state") {
		t.Error("Expected the no-explaining instruction")
	}
}

func TestNarratorNote(t *testing.T) {
	got := NarratorNote(DefaultState())
	if !strings.Contains(got, "not to be narrated") {
		t.Errorf("Expected narrator framing, got: %s", got)
	}
	if !strings.Contains(got, "observable behaviours") {
		t.Error("Expected the observable-behaviours instruction")
	}
}
