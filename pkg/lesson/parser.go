package lesson

import "strings"

// ExtractObjective pulls a candidate objective statement out of generated
// text: the first line containing the word "objective" (with any leading
// label stripped), else the first non-empty line. Returns "" when the text
// yields nothing usable.
//
// This is a heuristic, not a contract with the dispatch service; a
// structured response field would make it unnecessary.
func ExtractObjective(text string) string {
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if idx := strings.Index(lower, "objective"); idx >= 0 {
			candidate := trimmed[idx+len("objective"):]
			candidate = strings.TrimLeft(candidate, " :.-–")
			if candidate != "" {
				return candidate
			}
			return trimmed
		}
	}

	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
