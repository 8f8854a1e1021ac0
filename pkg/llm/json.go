package llm

import (
	"errors"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object in model reply")

// ExtractJSON returns the outermost JSON object from a model reply, tolerating
// markdown fences and chatter around it.
func ExtractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
