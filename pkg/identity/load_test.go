package identity

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleRuleSetYAML = `
character_id: rebecca
display_name: Rebecca
deny_patterns:
  - pattern: "it feels like home already"
    description: generic phrasing
dialogue_min_length: 20
signature_markers:
  - name: directness
    pattern: "honestly,|look,"
dialogue_deny_patterns:
  - pattern: "how lovely"
    description: PR-speak in dialogue
narration_min_length: 100
grounding_pattern: "mug|counter|kitchen"
negative_space:
  - rule: No corporate PR-speak
    pattern: "synergy|circle back"
  - rule: No emotional dishonesty
    pattern: "i'm fine"
    requires: "clearly"
`

func TestParseRuleSet(t *testing.T) {
	set, err := ParseRuleSet([]byte(sampleRuleSetYAML))
	if err != nil {
		t.Fatalf("Failed to parse rule set: %v", err)
	}

	if set.CharacterID != "rebecca" || set.DisplayName != "Rebecca" {
		t.Errorf("Unexpected identity fields: %s/%s", set.CharacterID, set.DisplayName)
	}
	if len(set.DenyPatterns) != 1 || set.DenyPatterns[0].Description != "generic phrasing" {
		t.Errorf("Unexpected deny patterns: %+v", set.DenyPatterns)
	}
	if set.DialogueMinLength != 20 || set.NarrationMinLength != 100 {
		t.Errorf("Unexpected thresholds: %d/%d", set.DialogueMinLength, set.NarrationMinLength)
	}
	if len(set.NegativeSpace) != 2 || set.NegativeSpace[1].Requires != "clearly" {
		t.Errorf("Unexpected negative space rules: %+v", set.NegativeSpace)
	}
}

func TestParseRuleSet_LoadedRulesValidate(t *testing.T) {
	set, err := ParseRuleSet([]byte(sampleRuleSetYAML))
	if err != nil {
		t.Fatalf("Failed to parse rule set: %v", err)
	}
	v, err := NewValidator(set)
	if err != nil {
		t.Fatalf("Failed to compile loaded rule set: %v", err)
	}

	result := v.Validate("rebecca", "It feels like home already.")
	if result.Valid {
		t.Error("Expected loaded deny pattern to fire")
	}

	result = v.Validate("rebecca", `Rebecca: "Honestly, the kettle is on."`)
	if !result.Valid {
		t.Errorf("Expected marked dialogue to pass, got: %v", result.Issues)
	}
}

func TestParseRuleSet_MissingCharacterID(t *testing.T) {
	_, err := ParseRuleSet([]byte(`display_name: Rebecca`))
	if err == nil {
		t.Error("Expected an error for a rule set without character_id")
	}
}

func TestParseRuleSet_BadPatternFailsAtLoad(t *testing.T) {
	_, err := ParseRuleSet([]byte("character_id: x\ndeny_patterns:\n  - pattern: \"([unclosed\"\n    description: bad\n"))
	if err == nil {
		t.Error("Expected a malformed pattern to fail at load time")
	}
}

func TestLoadRuleSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleRuleSetYAML), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	set, err := LoadRuleSet(path)
	if err != nil {
		t.Fatalf("Failed to load rule set: %v", err)
	}
	if set.CharacterID != "rebecca" {
		t.Errorf("Unexpected character id %q", set.CharacterID)
	}

	if _, err := LoadRuleSet(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
