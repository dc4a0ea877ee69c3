// Package index implements the in-memory advisory resource corpus with
// bag-of-words embeddings and cosine top-K retrieval.
package index

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Index holds the document corpus. It is read-mostly after Initialize;
// the mutex only guards against construction racing early queries.
type Index struct {
	mu   sync.RWMutex
	docs []Document
}

// New returns an empty index.
func New() *Index {
	return &Index{docs: make([]Document, 0, 32)}
}

// AddDocument embeds and stores a document, returning the stored copy.
func (x *Index) AddDocument(content string, meta Metadata) Document {
	doc := Document{
		ID:        uuid.NewString(),
		Content:   content,
		Metadata:  meta,
		Embedding: embed(content),
	}

	x.mu.Lock()
	x.docs = append(x.docs, doc)
	x.mu.Unlock()
	return doc
}

// Search returns the top-k documents ranked by cosine similarity against the
// query embedding. Ties keep insertion order.
func (x *Index) Search(query string, k int) []Match {
	queryVec := embed(query)

	x.mu.RLock()
	matches := make([]Match, 0, len(x.docs))
	for _, doc := range x.docs {
		matches = append(matches, Match{Document: doc, Score: cosineSimilarity(queryVec, doc.Embedding)})
	}
	x.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// SearchByMetadata returns documents matching the filter, insertion order,
// up to limit (0 means unlimited).
func (x *Index) SearchByMetadata(filter Filter, limit int) []Document {
	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]Document, 0, 8)
	for _, doc := range x.docs {
		if !filter.matches(doc) {
			continue
		}
		results = append(results, doc)
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results
}

// Len reports the number of stored documents.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

// embed builds a term-count vector for tokens longer than two characters,
// ordered by first occurrence. Two texts with the same word-count multiset
// embed identically; this is a deliberate simplification.
func embed(text string) []float64 {
	tokens := strings.Fields(strings.ToLower(text))
	positions := make(map[string]int)
	counts := make([]float64, 0, len(tokens))

	for _, token := range tokens {
		if len(token) <= 2 {
			continue
		}
		if pos, seen := positions[token]; seen {
			counts[pos]++
			continue
		}
		positions[token] = len(counts)
		counts = append(counts, 1)
	}
	return counts
}

// cosineSimilarity zero-pads the shorter vector; a zero-magnitude side
// yields 0 rather than dividing by zero.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) < len(b) {
		a = append(append([]float64(nil), a...), make([]float64, len(b)-len(a))...)
	} else if len(b) < len(a) {
		b = append(append([]float64(nil), b...), make([]float64, len(a)-len(b))...)
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
