package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/havenlabs/haven/backend/internal/index"
	chatservice "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/internal/service/crisis"
	"github.com/havenlabs/haven/backend/internal/service/recommend"
	"github.com/havenlabs/haven/backend/internal/service/summary"
)

func setupRouter(t *testing.T) (*chi.Mux, *chatservice.Service) {
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
	return r, chatSvc
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/session", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session err: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected session ID in response")
	}
}

func TestSaveMessageReturnsAnalysis(t *testing.T) {
	r, chatSvc := setupRouter(t)
	session, _ := chatSvc.CreateSession(httptest.NewRequest(http.MethodGet, "/", nil).Context())

	body := map[string]string{
		"sessionId": session.ID,
		"sender":    "user",
		"content":   "I feel anxious about work lately",
	}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var result struct {
		Message struct {
			ID string `json:"id"`
		} `json:"message"`
		Crisis struct {
			Severity string `json:"severity"`
		} `json:"crisis"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result err: %v", err)
	}
	if result.Message.ID == "" {
		t.Fatal("expected stored message in analysis result")
	}
	if result.Crisis.Severity == "" {
		t.Fatal("expected crisis severity in analysis result")
	}
}

func TestSaveMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter(t)

	body := map[string]string{"sessionId": "missing", "sender": "user", "content": "hello"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSaveMessageInvalidSender(t *testing.T) {
	r, chatSvc := setupRouter(t)
	session, _ := chatSvc.CreateSession(httptest.NewRequest(http.MethodGet, "/", nil).Context())

	body := map[string]string{"sessionId": session.ID, "sender": "robot", "content": "hello"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestTranscriptMissingSession(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/session/missing/messages", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
