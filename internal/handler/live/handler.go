package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/havenlabs/haven/backend/internal/model/profile"
	chatService "github.com/havenlabs/haven/backend/internal/service/chat"
)

// Handler drives a live analysis channel over WebSocket. Each user message
// sent on the socket is analyzed through the pipeline and the stages come
// back as typed events on the same connection.
type Handler struct {
	chatSvc  *chatService.Service
	pipeline *chatService.Pipeline
	upgrader websocket.Upgrader
}

// New creates the live WebSocket handler.
func New(chatSvc *chatService.Service, pipeline *chatService.Pipeline) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		pipeline: pipeline,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// ChatMessage carries one utterance to analyze. Sender defaults to "user".
type ChatMessage struct {
	Content string `json:"content"`
	Sender  string `json:"sender,omitempty"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type connectionState struct {
	sessionID string
	profile   profile.Profile
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	state := &connectionState{sessionID: sessionID}

	h.sendInfo(conn, sessionID, map[string]any{
		"type": "connected",
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(conn, "session mismatch")
				continue
			}

			h.handleMessage(ctx, conn, state, &msg)
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, msg *inboundMessage) {
	switch msg.Type {
	case "message":
		h.handleChatMessage(ctx, conn, state, msg.Data)
	case "profile":
		h.handleProfileMessage(conn, state, msg.Data)
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type)
	}
}

func (h *Handler) handleChatMessage(ctx context.Context, conn *websocket.Conn, state *connectionState, raw json.RawMessage) {
	var chatMsg ChatMessage
	if err := json.Unmarshal(raw, &chatMsg); err != nil {
		h.sendError(conn, "invalid message payload")
		return
	}
	if chatMsg.Content == "" {
		return
	}
	if chatMsg.Sender == "" {
		chatMsg.Sender = "user"
	}

	result, err := h.pipeline.AnalyzeMessage(ctx, state.sessionID, chatMsg.Sender, chatMsg.Content, state.profile)
	if err != nil {
		h.sendError(conn, err.Error())
		return
	}

	h.sendInfo(conn, state.sessionID, map[string]any{
		"type":    "message",
		"message": result.Message,
	})
	h.sendInfo(conn, state.sessionID, map[string]any{
		"type":      "analysis",
		"sentiment": result.Sentiment,
		"insights":  result.Insights,
		"crisis":    result.Crisis,
	})
	h.sendInfo(conn, state.sessionID, map[string]any{
		"type":            "recommendations",
		"recommendations": result.Recommendations,
	})
}

func (h *Handler) handleProfileMessage(conn *websocket.Conn, state *connectionState, raw json.RawMessage) {
	var prof profile.Profile
	if err := json.Unmarshal(raw, &prof); err != nil {
		h.sendError(conn, "invalid profile payload")
		return
	}

	state.profile = prof
	log.Printf("[websocket] profile applied session=%s interests=%d challenges=%d",
		state.sessionID, len(prof.Interests), len(prof.Challenges))

	h.sendInfo(conn, state.sessionID, map[string]any{
		"type": "profile",
	})
}

func (h *Handler) sendInfo(conn *websocket.Conn, sessionID string, data map[string]any) {
	msg := outgoingMessage{
		Type:      "result",
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write info failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write error failed: %v", err)
	}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
