package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/havenlabs/haven/backend/internal/analysis/sentiment"
	"github.com/havenlabs/haven/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidSender   = errors.New("sender must be user or assistant")
)

// Service encapsulates conversation state management.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]chat.Session
	messages map[string][]chat.Message
}

// NewService bootstraps the in-memory chat service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]chat.Session),
		messages: make(map[string][]chat.Message),
	}
}

// CreateSession provisions an anonymous conversation.
func (s *Service) CreateSession(_ context.Context) (chat.Session, error) {
	session := chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = make([]chat.Message, 0, 16)
	s.mu.Unlock()

	return session, nil
}

// SaveMessage appends a message to the session history and returns the
// stored copy with its assigned identifier.
func (s *Service) SaveMessage(_ context.Context, message chat.Message) (chat.Message, error) {
	if message.SessionID == "" {
		return chat.Message{}, ErrSessionNotFound
	}
	if message.Sender != "user" && message.Sender != "assistant" {
		return chat.Message{}, ErrInvalidSender
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[message.SessionID]; !ok {
		return chat.Message{}, ErrSessionNotFound
	}

	message.ID = uuid.NewString()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	s.messages[message.SessionID] = append(s.messages[message.SessionID], message)
	return message, nil
}

// Annotate attaches the sentiment result to a stored message. The
// annotation is written once; later calls for the same message are no-ops.
func (s *Service) Annotate(_ context.Context, sessionID, messageID string, result *sentiment.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	for i := range messages {
		if messages[i].ID != messageID {
			continue
		}
		if messages[i].Sentiment == nil {
			messages[i].Sentiment = result
		}
		return nil
	}
	return ErrMessageNotFound
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// LoadTranscript returns a copy of the stored messages for the session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Message, len(messages))
	copy(copied, messages)
	return copied, nil
}
