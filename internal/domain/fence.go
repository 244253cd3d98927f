package domain

import "strings"

const codeFence = "```"

// StripCodeFence removes a markdown code fence wrapped around generated text:
// the opening fence line and everything from the last closing fence onward.
// Text that does not start with a fence is returned unchanged.
func StripCodeFence(text string) string {
	if !strings.HasPrefix(text, codeFence) {
		return text
	}

	newline := strings.Index(text, "\n")
	if newline < 0 {
		return ""
	}

	body := text[newline+1:]
	if closing := strings.LastIndex(body, codeFence); closing >= 0 {
		body = body[:closing]
	}

	return strings.TrimSpace(body)
}
