package categorize

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Veraticus/deckstat/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrUnknownCategory is returned for labels outside model.Categories.
var ErrUnknownCategory = errors.New("unknown category")

// ParseLabels validates category names, drops duplicates and returns them
// in display order.
func ParseLabels(labels []string) ([]model.Category, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no categories given", ErrUnknownCategory)
	}
	cats := make([]model.Category, 0, len(labels))
	for _, label := range labels {
		c, ok := model.ParseCategory(strings.ToLower(strings.TrimSpace(label)))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
		}
		cats = append(cats, c)
	}
	return Sort(cats), nil
}

// ReadOverrides decodes a YAML document mapping card names to category
// lists:
//
//	Sol Ring: [ramp]
//	Rhystic Study: [draw]
func ReadOverrides(r io.Reader) (model.CategoryMap, error) {
	var raw map[string][]string
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return model.CategoryMap{}, nil
		}
		return nil, fmt.Errorf("failed to decode overrides: %w", err)
	}

	out := make(model.CategoryMap, len(raw))
	for name, labels := range raw {
		cats, err := ParseLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", name, err)
		}
		out[strings.TrimSpace(name)] = cats
	}
	return out, nil
}

// WriteOverrides encodes cards in the ReadOverrides format, sorted by name.
func WriteOverrides(w io.Writer, cards []model.CardCategories) error {
	sorted := make([]model.CardCategories, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range sorted {
		labels := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, cat := range c.Categories {
			labels.Content = append(labels.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: string(cat)})
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c.Name}, labels)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode overrides: %w", err)
	}
	return enc.Close()
}
