package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// Result is the outcome of validating one generated output.
type Result struct {
	Valid  bool
	Issues []string
}

// compiledRules is a RuleSet with every pattern compiled once.
type compiledRules struct {
	set           RuleSet
	dialogueRe    *regexp.Regexp // extracts DisplayName: "..." lines
	deny          []compiledPattern
	markers       []compiledMarker
	dialogueDeny  []compiledPattern
	grounding     *regexp.Regexp
	negativeSpace []compiledNegative
}

type compiledPattern struct {
	re          *regexp.Regexp
	description string
}

type compiledMarker struct {
	name string
	re   *regexp.Regexp
}

type compiledNegative struct {
	rule     string
	re       *regexp.Regexp
	requires *regexp.Regexp
}

// Validator classifies generated text against per-character rule sets.
// Validation is pure and deterministic; Validate never fails for well-formed
// string input.
type Validator struct {
	characters map[string]*compiledRules
}

// NewValidator compiles the given rule sets. An error means a malformed
// pattern, which is a configuration bug, not a runtime condition.
func NewValidator(sets ...RuleSet) (*Validator, error) {
	v := &Validator{characters: make(map[string]*compiledRules)}
	for _, set := range sets {
		compiled, err := compileRuleSet(set)
		if err != nil {
			return nil, fmt.Errorf("rule set %q: %w", set.CharacterID, err)
		}
		v.characters[strings.ToLower(set.CharacterID)] = compiled
	}
	return v, nil
}

// NewDefaultValidator compiles the built-in rule sets.
func NewDefaultValidator() *Validator {
	v, err := NewValidator(DefaultRebeccaRules())
	if err != nil {
		// built-in patterns are covered by tests; this cannot happen
		panic(err)
	}
	return v
}

func compileRuleSet(set RuleSet) (*compiledRules, error) {
	c := &compiledRules{set: set}

	if set.DisplayName != "" {
		re, err := regexp.Compile(regexp.QuoteMeta(set.DisplayName) + `:\s*"([^"]+)"`)
		if err != nil {
			return nil, fmt.Errorf("dialogue extractor: %w", err)
		}
		c.dialogueRe = re
	}

	for _, p := range set.DenyPatterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("deny pattern %q: %w", p.Pattern, err)
		}
		c.deny = append(c.deny, compiledPattern{re: re, description: p.Description})
	}

	for _, m := range set.SignatureMarkers {
		re, err := regexp.Compile(`(?i)` + m.Pattern)
		if err != nil {
			return nil, fmt.Errorf("signature marker %q: %w", m.Name, err)
		}
		c.markers = append(c.markers, compiledMarker{name: m.Name, re: re})
	}

	for _, p := range set.DialogueDenyPatterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("dialogue deny pattern %q: %w", p.Pattern, err)
		}
		c.dialogueDeny = append(c.dialogueDeny, compiledPattern{re: re, description: p.Description})
	}

	if set.GroundingPattern != "" {
		re, err := regexp.Compile(`(?i)` + set.GroundingPattern)
		if err != nil {
			return nil, fmt.Errorf("grounding pattern: %w", err)
		}
		c.grounding = re
	}

	for _, n := range set.NegativeSpace {
		re, err := regexp.Compile(`(?i)` + n.Pattern)
		if err != nil {
			return nil, fmt.Errorf("negative-space pattern %q: %w", n.Pattern, err)
		}
		cn := compiledNegative{rule: n.Rule, re: re}
		if n.Requires != "" {
			req, err := regexp.Compile(`(?i)` + n.Requires)
			if err != nil {
				return nil, fmt.Errorf("negative-space requires %q: %w", n.Requires, err)
			}
			cn.requires = req
		}
		c.negativeSpace = append(c.negativeSpace, cn)
	}

	return c, nil
}

// Validate checks generated text against the rule set registered for
// characterID. Unregistered characters get the generic rules. Issues come
// back in rule-family order: denylist, signature markers, dialogue denylist,
// grounding, negative space.
func (v *Validator) Validate(characterID, text string) Result {
	rules, ok := v.characters[strings.ToLower(characterID)]
	if !ok {
		compiled, err := compileRuleSet(GenericRules(characterID))
		if err != nil {
			return Result{Valid: false, Issues: []string{"no rule set for character: " + characterID}}
		}
		rules = compiled
	}

	var issues []string

	for _, p := range rules.deny {
		if p.re.MatchString(text) {
			issues = append(issues, "Contains generic pattern: "+p.description)
		}
	}

	dialogue := ""
	if rules.dialogueRe != nil {
		dialogue = strings.Join(rules.dialogueRe.FindAllString(text, -1), " ")
	}

	if len(dialogue) > rules.set.DialogueMinLength && len(rules.markers) > 0 {
		found := false
		for _, m := range rules.markers {
			if m.re.MatchString(dialogue) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, rules.set.DisplayName+" dialogue lacks signature markers (humour, directness, self-interruption, or bluntness)")
		}

		for _, p := range rules.dialogueDeny {
			if p.re.MatchString(dialogue) {
				issues = append(issues, rules.set.DisplayName+" dialogue contains PR-speak, violating her blunt style")
			}
		}
	}

	if rules.grounding != nil && rules.dialogueRe != nil {
		narration := rules.dialogueRe.ReplaceAllString(text, "")
		if len(narration) > rules.set.NarrationMinLength && !rules.grounding.MatchString(narration) {
			issues = append(issues, "Output lacks physical grounding in narration")
		}
	}

	for _, n := range rules.negativeSpace {
		if !n.re.MatchString(text) {
			continue
		}
		if n.requires != nil && !n.requires.MatchString(text) {
			continue
		}
		issues = append(issues, "Violates negative space: "+n.rule)
	}

	return Result{Valid: len(issues) == 0, Issues: issues}
}
