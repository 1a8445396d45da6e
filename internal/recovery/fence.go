package recovery

import "strings"

// StripFences removes a surrounding Markdown code fence (```json ... ``` or ``` ... ```).
// Text before an opening fence is dropped as well, since models often preface the block.
func StripFences(text string) string {
	text = strings.TrimSpace(text)

	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}

	body := text[open+3:]
	// Skip a language identifier on the fence line
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			body = body[idx+1:]
		}
	} else {
		body = strings.TrimPrefix(body, "json")
	}

	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
