package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/havenlabs/haven/backend/internal/model/profile"
	chatService "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/pkg/utils"
)

// Handler exposes session and message endpoints.
type Handler struct {
	chatSvc  *chatService.Service
	pipeline *chatService.Pipeline
}

// New creates the chat handler.
func New(chatSvc *chatService.Service, pipeline *chatService.Pipeline) *Handler {
	return &Handler{
		chatSvc:  chatSvc,
		pipeline: pipeline,
	}
}

// RegisterRoutes registers session and message routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Post("/messages", h.handleSaveMessage)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.CreateSession(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSaveMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string          `json:"sessionId"`
		Sender    string          `json:"sender"`
		Content   string          `json:"content"`
		Profile   profile.Profile `json:"profile"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	result, err := h.pipeline.AnalyzeMessage(r.Context(), payload.SessionID, payload.Sender, payload.Content, payload.Profile)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	transcript, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"messages":  transcript,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound), errors.Is(err, chatService.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatService.ErrInvalidSender):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
