package index

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var corpusYAML []byte

type corpusFile struct {
	Resources []struct {
		Type          string   `yaml:"type"`
		Topics        []string `yaml:"topics"`
		Difficulty    string   `yaml:"difficulty"`
		Effectiveness float64  `yaml:"effectiveness"`
		Source        string   `yaml:"source"`
		Content       string   `yaml:"content"`
	} `yaml:"resources"`
}

// Initialize rebuilds the corpus wholesale from the embedded resource list,
// then synthesizes one "combined" document per topic with at least two base
// documents. Re-running it is idempotent. Not safe to run concurrently with
// queries; complete it before first use.
func (x *Index) Initialize() error {
	var file corpusFile
	if err := yaml.Unmarshal(corpusYAML, &file); err != nil {
		return fmt.Errorf("failed to parse resource corpus: %w", err)
	}
	if len(file.Resources) == 0 {
		return fmt.Errorf("resource corpus is empty")
	}

	x.mu.Lock()
	x.docs = x.docs[:0]
	x.mu.Unlock()

	// Preserve declaration order so topic grouping is deterministic.
	topicOrder := make([]string, 0, 8)
	byTopic := make(map[string][]string)

	for _, res := range file.Resources {
		content := strings.TrimSpace(res.Content)
		x.AddDocument(content, Metadata{
			Type:          res.Type,
			Topics:        res.Topics,
			Difficulty:    res.Difficulty,
			Effectiveness: res.Effectiveness,
			Source:        res.Source,
		})

		for _, topic := range res.Topics {
			if _, seen := byTopic[topic]; !seen {
				topicOrder = append(topicOrder, topic)
			}
			byTopic[topic] = append(byTopic[topic], content)
		}
	}

	for _, topic := range topicOrder {
		contents := byTopic[topic]
		if len(contents) < 2 {
			continue
		}
		x.AddDocument(strings.Join(contents, "\n\n"), Metadata{
			Type:   "combined",
			Topics: []string{topic, "comprehensive"},
			Source: "synthesized",
		})
	}

	return nil
}
