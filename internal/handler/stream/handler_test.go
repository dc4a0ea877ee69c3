package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	chatservice "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func setupHandler(t *testing.T) (*Handler, *chatservice.Service) {
	t.Helper()

	corpus := index.New()
	if err := corpus.Initialize(); err != nil {
		t.Fatalf("corpus init err: %v", err)
	}

	chatSvc := chatservice.NewService()
	pipeline := chatservice.NewPipeline(
		chatSvc,
		crisis.NewAssessor(corpus, nil, 5),
		summary.NewService(nil, 10),
		recommend.NewRanker(corpus),
	)
	return New(pipeline), chatSvc
}

func TestHandleStreamRequestEmitsStages(t *testing.T) {
	handler, chatSvc := setupHandler(t)
	ctx := context.Background()
	session, _ := chatSvc.CreateSession(ctx)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(ctx, resp, session.ID, "I feel anxious about work", profile.Profile{}); err != nil {
		t.Fatalf("HandleStreamRequest err: %v", err)
	}

	body := resp.Body.String()
	for _, event := range []string{"start", "message", "sentiment", "crisis", "insights", "recommendations", "end"} {
		if !strings.Contains(body, "event: "+event+"\n") {
			t.Fatalf("missing %q event in stream:\n%s", event, body)
		}
	}

	if got := resp.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", got)
	}
}

func TestHandleStreamRequestUnknownSession(t *testing.T) {
	handler, _ := setupHandler(t)

	resp := httptest.NewRecorder()
	if err := handler.HandleStreamRequest(context.Background(), resp, "missing", "hello", profile.Profile{}); err == nil {
		t.Fatal("expected error for unknown session")
	}

	if !strings.Contains(resp.Body.String(), "event: error") {
		t.Fatal("expected error event in stream body")
	}
}
