package pipeline

import "strings"

const (
	// fallbackTopic is reported when no topic can be derived, including
	// runs that fail before any content exists.
	fallbackTopic = "Contenido técnico"

	// maxTopicLen caps the topic label for notifications and logs.
	maxTopicLen = 60
)

// ExtractTopic derives a short human-readable label from the generated
// post text: the first non-empty line, truncated to maxTopicLen with a
// trailing ellipsis. Purely cosmetic; never affects control flow.
func ExtractTopic(postText string) string {
	var line string
	for _, l := range strings.Split(postText, "\n") {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			line = trimmed
			break
		}
	}
	if line == "" {
		return fallbackTopic
	}

	runes := []rune(line)
	if len(runes) <= maxTopicLen {
		return line
	}
	return strings.TrimRight(string(runes[:maxTopicLen-3]), " \t") + "..."
}
