package data

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

//go:embed mock_problems.json
var catalogFS embed.FS

// MockProblem is a catalog entry used to fill interviews when the
// problem store cannot satisfy a request.
type MockProblem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Template    string `json:"template"`
}

// topicLabels maps catalog keys to display names used in generated
// problem text and feedback.
var topicLabels = map[string]string{
	"arrays":       "Arrays",
	"strings":      "Strings",
	"linked_lists": "Linked Lists",
	"trees":        "Trees",
	"graphs":       "Graphs",
}

// Catalog holds the embedded mock problem bank, keyed by topic.
type Catalog struct {
	problems map[string][]MockProblem
}

// NewCatalog parses the embedded problem bank. The embed is part of the
// binary, so a parse failure is a build defect and surfaces at startup.
func NewCatalog() (*Catalog, error) {
	raw, err := catalogFS.ReadFile("mock_problems.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded catalog: %w", err)
	}
	var problems map[string][]MockProblem
	if err := json.Unmarshal(raw, &problems); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	return &Catalog{problems: problems}, nil
}

// TopicKey normalizes a topic display name to its catalog key:
// "Linked Lists" -> "linked_lists". Keys never contain dashes so they
// can be embedded in dash-delimited interview identifiers.
func TopicKey(name string) string {
	return strings.ReplaceAll(slug.Make(name), "-", "_")
}

// TopicLabel returns the display name for a catalog key, falling back
// to a title-cased rendering of the key itself.
func TopicLabel(key string) string {
	if label, ok := topicLabels[key]; ok {
		return label
	}
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Lookup returns the curated entry for a topic key at the given position,
// cycling through the topic's entries. It reports false when the topic has
// no curated entries; callers synthesize a problem in that case.
func (c *Catalog) Lookup(key string, index int) (MockProblem, bool) {
	problems, ok := c.problems[key]
	if !ok || len(problems) == 0 {
		return MockProblem{}, false
	}
	return problems[index%len(problems)], true
}

// Topics lists the catalog keys with curated entries.
func (c *Catalog) Topics() []string {
	keys := make([]string, 0, len(c.problems))
	for key := range c.problems {
		keys = append(keys, key)
	}
	return keys
}
