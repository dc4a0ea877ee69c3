package index

// Metadata describes a corpus document for filtered retrieval.
type Metadata struct {
	Type          string   `json:"type"`
	Topics        []string `json:"topics"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Effectiveness float64  `json:"effectiveness,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// Document is one advisory entry in the in-memory corpus. The embedding is a
// bag-of-words count vector in token first-occurrence order; it approximates
// topical similarity, not exact lexical similarity.
type Document struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Metadata  Metadata  `json:"metadata"`
	Embedding []float64 `json:"-"`
}

// Match pairs a retrieved document with its query similarity.
type Match struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// Filter selects documents by metadata. Zero-valued fields match anything.
type Filter struct {
	Type       string
	Topic      string
	Difficulty string
}

func (f Filter) matches(doc Document) bool {
	if f.Type != "" && doc.Metadata.Type != f.Type {
		return false
	}
	if f.Difficulty != "" && doc.Metadata.Difficulty != f.Difficulty {
		return false
	}
	if f.Topic != "" {
		found := false
		for _, topic := range doc.Metadata.Topics {
			if topic == f.Topic {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
