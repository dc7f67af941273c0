package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	assistantHandler "github.com/sitewright/backend/internal/handler/assistant"
	websiteHandler "github.com/sitewright/backend/internal/handler/website"
	"github.com/sitewright/backend/internal/middleware"
	"github.com/sitewright/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(website *websiteHandler.Handler, assistant *assistantHandler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"service": "SiteWright API",
			"endpoints": []string{
				"POST /api/generate",
				"GET /api/generate/stream",
				"POST /api/clear-session",
				"GET /api/health",
				"GET /api/stats",
				"GET /assistant",
				"POST /assistant",
			},
		})
	})

	r.Route("/api", func(api chi.Router) {
		website.RegisterRoutes(api)
	})

	assistant.RegisterRoutes(r)

	return r
}
