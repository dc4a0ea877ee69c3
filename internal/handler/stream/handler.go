package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/havenlabs/haven/backend/internal/model/profile"
	chatService "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/pkg/utils"
)

// Handler streams analysis stages for a message over Server-Sent Events,
// so the client can render sentiment before the heavier stages finish.
type Handler struct {
	pipeline *chatService.Pipeline
}

// New creates the stream handler.
func New(pipeline *chatService.Pipeline) *Handler {
	return &Handler{pipeline: pipeline}
}

// HandleStreamRequest analyzes one message and emits each stage as a
// separate SSE event: start, message, sentiment, crisis, insights,
// recommendations, end.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string, prof profile.Profile) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	utils.SendSSEEvent(w, flusher, "start", map[string]string{
		"sessionId": sessionID,
	})

	result, err := h.pipeline.AnalyzeMessage(ctx, sessionID, "user", userMessage, prof)
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	utils.SendSSEEvent(w, flusher, "message", result.Message)
	utils.SendSSEEvent(w, flusher, "sentiment", result.Sentiment)
	utils.SendSSEEvent(w, flusher, "crisis", result.Crisis)
	utils.SendSSEEvent(w, flusher, "insights", result.Insights)
	utils.SendSSEEvent(w, flusher, "recommendations", result.Recommendations)

	utils.SendSSEEvent(w, flusher, "end", map[string]any{
		"sessionId": sessionID,
		"finished":  true,
	})

	log.Printf("[stream] completed analysis for session=%s severity=%s", sessionID, result.Crisis.Severity)
	return nil
}
