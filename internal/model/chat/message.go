package chat

import (
	"time"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
)

// Message persists individual conversation turns. Content is immutable once
// created; the sentiment annotation is attached once by the analysis pipeline.
type Message struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"sessionId"`
	Sender       string            `json:"sender"`
	Content      string            `json:"content"`
	ResponseType string            `json:"responseType,omitempty"`
	ReplyTo      string            `json:"replyTo,omitempty"`
	Bookmarked   bool              `json:"bookmarked,omitempty"`
	Sentiment    *sentiment.Result `json:"sentiment,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}
