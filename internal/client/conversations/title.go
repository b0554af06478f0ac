package conversations

import "strings"

// DefaultTitle is the placeholder used until a first user message arrives or
// the user renames the conversation explicitly.
const DefaultTitle = "New conversation"

const (
	maxTitleRunes = 50
	// Backing up to a word boundary only makes sense when enough of the
	// text survives; below this cutoff the hard truncation stands.
	minWordBoundary = 20
)

// DeriveTitle turns the first user message into a conversation title: strip
// markdown control characters, trim, cut at 50 characters preferring a word
// boundary, and mark the cut with an ellipsis. Empty input (after stripping)
// falls back to DefaultTitle.
func DeriveTitle(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '`', '_', '~', '[', ']':
			return -1
		}
		return r
	}, text)
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return DefaultTitle
	}

	runes := []rune(cleaned)
	if len(runes) <= maxTitleRunes {
		return cleaned
	}

	truncated := string(runes[:maxTitleRunes])
	if i := strings.LastIndex(truncated, " "); i > minWordBoundary {
		truncated = truncated[:i]
	}

	return strings.TrimRight(truncated, " ") + "..."
}
