package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/havenlabs/haven/backend/internal/handler/analysis"
	"github.com/havenlabs/haven/backend/internal/handler/chat"
	"github.com/havenlabs/haven/backend/internal/handler/live"
	"github.com/havenlabs/haven/backend/internal/handler/stream"
	"github.com/havenlabs/haven/backend/internal/index"
	middlewarePkg "github.com/havenlabs/haven/backend/internal/middleware"
	"github.com/havenlabs/haven/backend/internal/model/profile"
	aiService "github.com/havenlabs/haven/backend/internal/service/ai"
	chatService "github.com/havenlabs/haven/backend/internal/service/chat"
	"github.com/havenlabs/haven/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, pipeline *chatService.Pipeline, resources *index.Index, completion *aiService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(chatSvc, pipeline)
	analysisHandler := analysis.New(pipeline, resources, completion)
	streamHandler := stream.New(pipeline)
	liveHandler := live.New(chatSvc, pipeline)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		analysisHandler.RegisterRoutes(api)
		liveHandler.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage, profile.Profile{}); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
