package index

import (
	"math"
	"testing"
)

func TestCosineSimilarityProperties(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{3, 1, 0, 2}

	if got, want := cosineSimilarity(a, b), cosineSimilarity(b, a); got != want {
		t.Fatalf("similarity not symmetric: %f vs %f", got, want)
	}
	if got := cosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Fatalf("self similarity should be 1, got %f", got)
	}
	if got := cosineSimilarity(a, []float64{0, 0, 0}); got != 0 {
		t.Fatalf("zero vector should yield 0, got %f", got)
	}
	if got := cosineSimilarity(nil, nil); got != 0 {
		t.Fatalf("empty vectors should yield 0, got %f", got)
	}
}

func TestEmbedCountsTokensOverTwoChars(t *testing.T) {
	vec := embed("go to the gym, to the gym")
	// "go" and "to" are dropped; "the" x2, "gym," "gym" differ by punctuation.
	if len(vec) == 0 {
		t.Fatal("expected non-empty embedding")
	}
	total := 0.0
	for _, count := range vec {
		total += count
	}
	if total != 4 {
		t.Fatalf("expected 4 counted tokens, got %f", total)
	}
}

func TestSearchRanksRelevantDocumentFirst(t *testing.T) {
	x := New()
	x.AddDocument("sleep hygiene fixed wake time bedroom dark sleep", Metadata{Type: "article", Topics: []string{"sleep"}})
	x.AddDocument("box breathing anxiety nervous system", Metadata{Type: "article", Topics: []string{"anxiety"}})

	matches := x.Search("trouble with sleep and wake time", 2)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Score < matches[1].Score {
		t.Fatal("matches not sorted by descending similarity")
	}
}

func TestSearchTopKBounds(t *testing.T) {
	x := New()
	for i := 0; i < 5; i++ {
		x.AddDocument("calming breathing exercise for stress", Metadata{Type: "technique"})
	}
	if got := len(x.Search("breathing", 3)); got != 3 {
		t.Fatalf("expected 3 results, got %d", got)
	}
}

func TestSearchByMetadata(t *testing.T) {
	x := New()
	x.AddDocument("a", Metadata{Type: "article", Topics: []string{"sleep"}, Difficulty: "beginner"})
	x.AddDocument("b", Metadata{Type: "technique", Topics: []string{"sleep"}, Difficulty: "advanced"})
	x.AddDocument("c", Metadata{Type: "article", Topics: []string{"anxiety"}, Difficulty: "beginner"})

	docs := x.SearchByMetadata(Filter{Topic: "sleep"}, 0)
	if len(docs) != 2 {
		t.Fatalf("expected 2 sleep docs, got %d", len(docs))
	}
	docs = x.SearchByMetadata(Filter{Type: "article", Difficulty: "beginner"}, 1)
	if len(docs) != 1 || docs[0].Content != "a" {
		t.Fatalf("unexpected filtered result: %+v", docs)
	}
}

func TestInitializeSynthesizesCombinedDocuments(t *testing.T) {
	x := New()
	if err := x.Initialize(); err != nil {
		t.Fatalf("Initialize err: %v", err)
	}

	combined := x.SearchByMetadata(Filter{Type: "combined", Topic: "depression"}, 0)
	if len(combined) != 1 {
		t.Fatalf("expected exactly one combined depression doc, got %d", len(combined))
	}
	var comprehensive bool
	for _, topic := range combined[0].Metadata.Topics {
		if topic == "comprehensive" {
			comprehensive = true
		}
	}
	if !comprehensive {
		t.Fatalf("combined doc missing comprehensive tag: %+v", combined[0].Metadata.Topics)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	x := New()
	if err := x.Initialize(); err != nil {
		t.Fatalf("first Initialize err: %v", err)
	}
	first := x.Len()
	if err := x.Initialize(); err != nil {
		t.Fatalf("second Initialize err: %v", err)
	}
	if x.Len() != first {
		t.Fatalf("corpus size changed across rebuilds: %d vs %d", first, x.Len())
	}
}
