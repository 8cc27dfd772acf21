package identity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRuleSet reads a RuleSet from a YAML file. Patterns are verified by
// compiling a throwaway validator, so a bad file fails at load time instead
// of the first turn.
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read rule set: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet decodes and verifies a YAML rule set.
func ParseRuleSet(data []byte) (RuleSet, error) {
	var set RuleSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return RuleSet{}, fmt.Errorf("parse rule set: %w", err)
	}
	if set.CharacterID == "" {
		return RuleSet{}, fmt.Errorf("rule set missing character_id")
	}
	if _, err := compileRuleSet(set); err != nil {
		return RuleSet{}, err
	}
	return set, nil
}
