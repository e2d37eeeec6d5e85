package tasks

import "strings"

// normalizeJSONText strips code fences and prose around the JSON document an
// LLM was asked for, returning the innermost object/array candidate.
func normalizeJSONText(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		// drop possible language hint, e.g. json
		if idx := strings.IndexByte(t, '\n'); idx != -1 {
			t = t[idx+1:]
		}
		if j := strings.LastIndex(t, "```"); j != -1 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return t
	}
	if obj := extractDelimited(t, '{', '}'); obj != "" {
		return obj
	}
	if arr := extractDelimited(t, '[', ']'); arr != "" {
		return arr
	}
	return t
}

// extractDelimited returns the first balanced open..close span in s.
func extractDelimited(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
