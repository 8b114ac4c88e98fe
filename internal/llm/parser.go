package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/model"
)

// cleanMarkdownWrapper strips a ``` or ```json fence around a reply.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// parseCategories decodes a `{"Card Name": ["label", ...]}` reply. Unknown
// labels are dropped; a card left without labels is omitted.
func parseCategories(content string) (map[string][]model.Category, error) {
	content = cleanMarkdownWrapper(content)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start > 0 && end > start {
		content = content[start : end+1]
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	out := make(map[string][]model.Category, len(raw))
	for name, value := range raw {
		var labels []string
		if err := json.Unmarshal(value, &labels); err != nil {
			var single string
			if json.Unmarshal(value, &single) != nil {
				continue
			}
			labels = []string{single}
		}

		var cats []model.Category
		for _, l := range labels {
			if c, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(l))); ok {
				cats = append(cats, c)
			}
		}
		if len(cats) > 0 {
			out[strings.TrimSpace(name)] = categorize.Sort(cats)
		}
	}
	return out, nil
}
