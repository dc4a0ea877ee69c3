package chat_test

import (
	"context"
	"testing"

	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	chat "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func newPipeline(t *testing.T) (*chat.Pipeline, *chat.Service) {
	t.Helper()

	corpus := index.New()
	if err := corpus.Initialize(); err != nil {
		t.Fatalf("corpus init err: %v", err)
	}

	chatSvc := chat.NewService()
	pipeline := chat.NewPipeline(
		chatSvc,
		crisis.NewAssessor(corpus, nil, 5),
		summary.NewService(nil, 10),
		recommend.NewRanker(corpus),
	)
	return pipeline, chatSvc
}

func TestAnalyzeMessageReturnsCompleteResult(t *testing.T) {
	pipeline, chatSvc := newPipeline(t)
	ctx := context.Background()
	session, _ := chatSvc.CreateSession(ctx)

	result, err := pipeline.AnalyzeMessage(ctx, session.ID, "user", "work has me anxious and my sleep is awful", profile.Profile{})
	if err != nil {
		t.Fatalf("AnalyzeMessage err: %v", err)
	}

	if result.Message.ID == "" {
		t.Fatal("expected stored message in result")
	}
	if result.Message.Sentiment == nil {
		t.Fatal("expected sentiment annotation on the message")
	}
	if result.Sentiment.Score >= 0 {
		t.Fatalf("expected negative sentiment, got %f", result.Sentiment.Score)
	}
	if result.Crisis.Severity != crisis.SeverityNone {
		t.Fatalf("anxious but non-crisis text should classify none, got %s", result.Crisis.Severity)
	}
	if result.Insights.Topics == nil || result.Recommendations == nil {
		t.Fatal("analysis lists must be present, empty or not")
	}
	if len(result.Recommendations) > 5 {
		t.Fatalf("too many recommendations: %d", len(result.Recommendations))
	}
}

func TestAnalyzeMessageSurfacesCrisis(t *testing.T) {
	pipeline, chatSvc := newPipeline(t)
	ctx := context.Background()
	session, _ := chatSvc.CreateSession(ctx)

	result, err := pipeline.AnalyzeMessage(ctx, session.ID, "user", "I feel hopeless and want to die", profile.Profile{})
	if err != nil {
		t.Fatalf("AnalyzeMessage err: %v", err)
	}

	if !result.Crisis.Severity.AtLeast(crisis.SeverityMedium) {
		t.Fatalf("expected severity >= medium, got %s", result.Crisis.Severity)
	}
	if !result.Crisis.Urgency {
		t.Fatal("expected urgency for explicit crisis language")
	}
	if result.Crisis.SafetyPlan == nil {
		t.Fatal("expected safety plan")
	}
}

func TestAnalyzeMessageUnknownSession(t *testing.T) {
	pipeline, _ := newPipeline(t)
	if _, err := pipeline.AnalyzeMessage(context.Background(), "missing", "user", "hello", profile.Profile{}); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestSummarizeThroughPipeline(t *testing.T) {
	pipeline, chatSvc := newPipeline(t)
	ctx := context.Background()
	session, _ := chatSvc.CreateSession(ctx)

	for _, content := range []string{"my sleep is bad", "sleep again tonight", "still no sleep"} {
		if _, err := pipeline.AnalyzeMessage(ctx, session.ID, "user", content, profile.Profile{}); err != nil {
			t.Fatalf("AnalyzeMessage err: %v", err)
		}
	}

	conv, err := pipeline.Summarize(ctx, session.ID)
	if err != nil {
		t.Fatalf("Summarize err: %v", err)
	}
	if conv.Overview == "" {
		t.Fatal("overview must never be empty")
	}
	if conv.SegmentCount != 3 {
		t.Fatalf("expected 3 segments, got %d", conv.SegmentCount)
	}
}
