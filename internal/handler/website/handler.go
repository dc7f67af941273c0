package website

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/sitewright/backend/internal/config"
	"github.com/sitewright/backend/internal/handler/session"
	"github.com/sitewright/backend/internal/service/ai"
	"github.com/sitewright/backend/internal/service/conversation"
	"github.com/sitewright/backend/pkg/utils"
)

const serviceName = "SiteWright Website Generator API"

// Generator is the slice of the AI service this handler needs.
type Generator interface {
	Generate(ctx context.Context, sessionID, prompt string) (*ai.Result, error)
	GenerateStream(ctx context.Context, sessionID, prompt string, onChunk func(content string)) (*ai.Result, error)
	StreamingEnabled() bool
}

// Handler serves the website-generation endpoints.
type Handler struct {
	generator Generator
	store     *conversation.Store
	cfg       config.AIConfig
}

// New creates the website handler.
func New(generator Generator, store *conversation.Store, cfg config.AIConfig) *Handler {
	return &Handler{generator: generator, store: store, cfg: cfg}
}

// RegisterRoutes mounts the generation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
	r.Get("/generate/stream", h.handleGenerateStream)
	r.Post("/clear-session", h.handleClearSession)
	r.Get("/health", h.handleHealth)
	r.Get("/stats", h.handleStats)
}

// GenerateResponse is the payload returned by the generate operation.
type GenerateResponse struct {
	Success   bool           `json:"success"`
	HTML      string         `json:"html,omitempty"`
	Error     string         `json:"error,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt    string `json:"prompt"`
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt cannot be empty")
		return
	}

	sessionID := session.Resolve(w, r, payload.SessionID)
	log.Printf("[website] generating for session=%s prompt=%q", sessionID, truncate(prompt, 100))

	result, err := h.generator.Generate(r.Context(), sessionID, prompt)
	if err != nil {
		log.Printf("[website] generation failed for session=%s: %v", sessionID, err)
		utils.RespondJSON(w, http.StatusInternalServerError, GenerateResponse{
			Success:   false,
			Error:     err.Error(),
			SessionID: sessionID,
		})
		return
	}

	utils.RespondJSON(w, http.StatusOK, GenerateResponse{
		Success:   true,
		HTML:      result.HTML,
		SessionID: sessionID,
		Metadata:  metadata(result, sessionID, prompt),
	})
}

func (h *Handler) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	if !h.generator.StreamingEnabled() {
		utils.RespondError(w, http.StatusServiceUnavailable, "streaming disabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	prompt := strings.TrimSpace(r.URL.Query().Get("prompt"))
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt query parameter is required")
		return
	}
	sessionID := session.Resolve(w, r, r.URL.Query().Get("session_id"))

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"session_id": sessionID})

	result, err := h.generator.GenerateStream(r.Context(), sessionID, prompt, func(content string) {
		utils.SendSSEEvent(w, flusher, "chunk", map[string]string{"content": content})
	})
	if err != nil {
		log.Printf("[website] streaming generation failed for session=%s: %v", sessionID, err)
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	utils.SendSSEEvent(w, flusher, "done", map[string]any{
		"html":     result.HTML,
		"metadata": metadata(result, sessionID, prompt),
	})
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}
	// Body is optional; the cookie is the fallback.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	sessionID := strings.TrimSpace(payload.SessionID)
	if sessionID == "" {
		sessionID = session.FromCookie(r)
	}
	if sessionID == "" {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"success": false, "message": "no active session found"})
		return
	}

	if cleared := h.store.Clear(sessionID); !cleared {
		utils.RespondJSON(w, http.StatusOK, map[string]any{"success": false, "message": "no active session found"})
		return
	}

	log.Printf("[website] cleared conversation history for session=%s", sessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "message": "session cleared successfully"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"service":     serviceName,
		"version":     "1.0.0",
		"model":       h.cfg.Model,
		"max_tokens":  h.cfg.MaxTokens,
		"temperature": h.cfg.Temperature,
		"status":      "operational",
	})
}

func metadata(result *ai.Result, sessionID, prompt string) map[string]any {
	return map[string]any{
		"generated_at":        result.GeneratedAt.Format(time.RFC3339),
		"request_id":          result.RequestID,
		"user_prompt":         prompt,
		"model":               result.Model,
		"intent":              string(result.Intent),
		"session_id":          sessionID,
		"conversation_length": result.ConversationLength,
		// Token accounting is not surfaced by the generation chain.
		"tokens_used": 0,
	}
}

// truncate shortens s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
