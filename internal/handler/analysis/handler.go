package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/havenlabs/haven/backend/internal/index"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	aiService "github.com/havenlabs/haven/backend/internal/service/ai"
	chatService "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/pkg/utils"
)

const defaultSearchLimit = 3

// Handler exposes the analysis surface: summaries, insights, crisis
// assessments, recommendations, affirmations, and resource search.
type Handler struct {
	pipeline   *chatService.Pipeline
	resources  *index.Index
	completion *aiService.Service
}

// New creates the analysis handler. completion may be nil.
func New(pipeline *chatService.Pipeline, resources *index.Index, completion *aiService.Service) *Handler {
	return &Handler{
		pipeline:   pipeline,
		resources:  resources,
		completion: completion,
	}
}

// RegisterRoutes registers analysis routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/{sessionID}/summary", h.handleSummary)
	r.Get("/session/{sessionID}/insights", h.handleInsights)
	r.Get("/session/{sessionID}/crisis", h.handleCrisis)
	r.Post("/session/{sessionID}/recommendations", h.handleRecommendations)
	r.Post("/affirmations/expand", h.handleExpandAffirmation)
	r.Get("/resources/search", h.handleResourceSearch)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conv, err := h.pipeline.Summarize(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, conv)
}

func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	insights, err := h.pipeline.Insights(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, insights)
}

func (h *Handler) handleCrisis(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	assessment, err := h.pipeline.AssessCrisis(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, assessment)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var prof profile.Profile
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid profile payload")
			return
		}
	}

	recommendations, err := h.pipeline.Recommend(r.Context(), sessionID, prof)
	if err != nil {
		utils.RespondError(w, statusForError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId":       sessionID,
		"recommendations": recommendations,
	})
}

func (h *Handler) handleExpandAffirmation(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"original": payload.Text,
		"expanded": h.completion.Expand(r.Context(), payload.Text),
	})
}

func (h *Handler) handleResourceSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		limit = parsed
	}

	matches := h.resources.Search(query, limit)
	if wanted := r.URL.Query().Get("type"); wanted != "" {
		filtered := matches[:0]
		for _, match := range matches {
			if match.Document.Metadata.Type == wanted {
				filtered = append(filtered, match)
			}
		}
		matches = filtered
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"matches": matches,
	})
}

func statusForError(err error) int {
	if errors.Is(err, chatService.ErrSessionNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
