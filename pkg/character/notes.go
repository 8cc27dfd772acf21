package character

import (
	"fmt"
	"strings"
)

// Summary renders a short semicolon-joined description of the state for
// prompt injection. Channels resting at their idle defaults are omitted, as
// are empty lists; only the 3 most recent event tags appear.
func Summary(s State) string {
	parts := []string{
		fmt.Sprintf("mood: %s", s.Mood),
		fmt.Sprintf("energy: %s", s.Energy),
		fmt.Sprintf("trust with George: %s", s.Trust),
		fmt.Sprintf("comfort: %s", s.Comfort),
		fmt.Sprintf("intimacy band: %s", s.Intimacy),
		fmt.Sprintf("social context: %s", s.SocialContext),
		fmt.Sprintf("cognitive load: %s", s.CognitiveLoad),
		fmt.Sprintf("humour channel: %s", s.Humour),
	}

	if s.Fear != FearIdle {
		parts = append(parts, fmt.Sprintf("fear channel: %s", s.Fear))
	}
	if s.Claustrophobia != ClaustroNone {
		parts = append(parts, fmt.Sprintf("claustrophobia: %s", s.Claustrophobia))
	}
	if len(s.PhysicalState) > 0 {
		parts = append(parts, fmt.Sprintf("physical: %s", strings.Join(s.PhysicalState, ", ")))
	}
	if len(s.RecentEventTags) > 0 {
		recent := s.RecentEventTags
		if len(recent) > 3 {
			recent = recent[:3]
		}
		parts = append(parts, fmt.Sprintf("recent events: %s", strings.Join(recent, ", ")))
	}

	return strings.Join(parts, "; ")
}

// ExpressionNote phrases the state summary as a system note for the
// expression engine: it shapes tone and rhythm without being narrated.
func ExpressionNote(s State) string {
	return fmt.Sprintf(`System note for Rebecca's Expression Engine:
Rebecca currently feels/behaves in a way consistent with: %s.
Adjust tone, humour, and rhythm accordingly, without explaining the state.`, Summary(s))
}

// NarratorNote phrases the state summary for indirect, observational use:
// the narrator picks which observable behaviours to highlight, but never
// states feelings as facts.
func NarratorNote(s State) string {
	return fmt.Sprintf(`System note (not to be narrated):
Rebecca's current state: %s.
Use this only to decide which observable behaviours to highlight, not to state feelings as facts.`, Summary(s))
}
