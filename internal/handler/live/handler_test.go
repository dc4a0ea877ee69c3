package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/havenlabs/haven/backend/internal/index"
	chatservice "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func setupServer(t *testing.T) (*httptest.Server, *chatservice.Service) {
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
	handler := New(chatSvc, pipeline)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, chatSvc
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) outgoingMessage {
	t.Helper()

	var msg outgoingMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read err: %v", err)
	}
	return msg
}

func eventType(msg outgoingMessage) string {
	data, ok := msg.Data.(map[string]any)
	if !ok {
		return ""
	}
	kind, _ := data["type"].(string)
	return kind
}

func TestWebSocketAnalyzesMessages(t *testing.T) {
	server, chatSvc := setupServer(t)
	session, _ := chatSvc.CreateSession(context.Background())
	conn := dial(t, server, session.ID)

	if got := eventType(readEvent(t, conn)); got != "connected" {
		t.Fatalf("expected connected event, got %q", got)
	}

	err := conn.WriteJSON(inboundMessage{
		Type:      "message",
		SessionID: session.ID,
		Data:      []byte(`{"content":"I feel anxious about work"}`),
	})
	if err != nil {
		t.Fatalf("write err: %v", err)
	}

	wantOrder := []string{"message", "analysis", "recommendations"}
	for _, want := range wantOrder {
		if got := eventType(readEvent(t, conn)); got != want {
			t.Fatalf("expected %q event, got %q", want, got)
		}
	}

	transcript, _ := chatSvc.LoadTranscript(context.Background(), session.ID)
	if len(transcript) != 1 {
		t.Fatalf("expected message persisted via websocket, got %d", len(transcript))
	}
}

func TestWebSocketProfileUpdate(t *testing.T) {
	server, chatSvc := setupServer(t)
	session, _ := chatSvc.CreateSession(context.Background())
	conn := dial(t, server, session.ID)

	readEvent(t, conn) // connected

	err := conn.WriteJSON(inboundMessage{
		Type:      "profile",
		SessionID: session.ID,
		Data:      []byte(`{"interests":["mindfulness"],"challenges":["anxiety"]}`),
	})
	if err != nil {
		t.Fatalf("write err: %v", err)
	}

	if got := eventType(readEvent(t, conn)); got != "profile" {
		t.Fatalf("expected profile ack, got %q", got)
	}
}

func TestWebSocketRejectsSessionMismatch(t *testing.T) {
	server, chatSvc := setupServer(t)
	session, _ := chatSvc.CreateSession(context.Background())
	conn := dial(t, server, session.ID)

	readEvent(t, conn) // connected

	err := conn.WriteJSON(inboundMessage{
		Type:      "message",
		SessionID: "other",
		Data:      []byte(`{"content":"hello"}`),
	})
	if err != nil {
		t.Fatalf("write err: %v", err)
	}

	msg := readEvent(t, conn)
	if msg.Type != "error" {
		t.Fatalf("expected error message, got %q", msg.Type)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	server, _ := setupServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/missing"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected dial failure for unknown session")
	}
}
