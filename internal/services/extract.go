package services

import "strings"

// ExtractJSONPayload cleans a model reply down to the JSON object it should
// contain. Models wrap JSON in markdown fences, prepend narrative text, or
// scatter stray backticks; the cleaning runs in three passes so each failure
// mode is handled independently. The result is not guaranteed to parse; the
// caller decides what a failure means.
func ExtractJSONPayload(raw string) string {
	mTxt := strings.TrimSpace(raw)

	// Strategy 1: Remove markdown code blocks if present
	if strings.HasPrefix(mTxt, "```") {
		lines := strings.Split(mTxt, "\n")
		startIdx := 0
		for i, line := range lines {
			if strings.HasPrefix(line, "```") && i == 0 {
				startIdx = 1
				break
			}
		}

		endIdx := len(lines)
		for i := len(lines) - 1; i >= 0; i-- {
			if strings.HasPrefix(lines[i], "```") && i > 0 {
				endIdx = i
				break
			}
		}

		if startIdx < endIdx {
			mTxt = strings.Join(lines[startIdx:endIdx], "\n")
		}
	}

	// Strategy 2: Look for JSON object if we have mixed content
	if !strings.HasPrefix(strings.TrimSpace(mTxt), "{") {
		jsonStart := strings.Index(mTxt, "{")
		if jsonStart >= 0 {
			mTxt = mTxt[jsonStart:]
		}
	}

	// Strategy 3: Clean up any remaining artifacts
	mTxt = strings.ReplaceAll(mTxt, "`", "")

	// Remove standalone "json" lines that might appear
	lines := strings.Split(mTxt, "\n")
	var cleanLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "json" && trimmed != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	mTxt = strings.Join(cleanLines, "\n")

	return strings.TrimSpace(mTxt)
}
