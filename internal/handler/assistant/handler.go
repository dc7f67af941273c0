package assistant

import (
	"embed"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sitewright/backend/internal/handler/session"
	"github.com/sitewright/backend/internal/model/upload"
	"github.com/sitewright/backend/internal/render"
	assistantService "github.com/sitewright/backend/internal/service/assistant"
	"github.com/sitewright/backend/pkg/utils"
)

//go:embed page.html
var pageFS embed.FS

// maxMultipartMemory bounds how much of a multipart body stays in memory
// before spilling to disk.
const maxMultipartMemory = 32 << 20

// Handler serves the assistant chat page and its form submissions.
type Handler struct {
	svc          *assistantService.Service
	maxFileBytes int64
	page         *template.Template
}

// New creates the assistant handler.
func New(svc *assistantService.Service, maxFileBytes int64) *Handler {
	if maxFileBytes <= 0 {
		maxFileBytes = upload.MaxFileBytes
	}
	return &Handler{
		svc:          svc,
		maxFileBytes: maxFileBytes,
		page:         template.Must(template.ParseFS(pageFS, "page.html")),
	}
}

// RegisterRoutes mounts the assistant routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assistant", h.handleGet)
	r.Post("/assistant", h.handlePost)
}

type turnView struct {
	Query  string
	Answer template.HTML
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := session.Resolve(w, r, "")
	h.renderPage(w, sessionID)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "query is required")
		return
	}

	sessionID := session.Resolve(w, r, "")

	files, err := h.collectFiles(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.svc.Chat(r.Context(), sessionID, query, files); err != nil {
		// The failure is already persisted as a visible error turn; the
		// page render below shows it.
		log.Printf("[assistant] chat failed for session=%s: %v", sessionID, err)
	}

	h.renderPage(w, sessionID)
}

// collectFiles reads the uploaded parts. Files over the ceiling are passed
// through with their size but without content, so the pipeline rejects
// them at the boundary instead of buffering their bytes.
func (h *Handler) collectFiles(r *http.Request) ([]upload.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []upload.File
	for _, header := range r.MultipartForm.File["files"] {
		if header.Filename == "" {
			continue
		}

		if header.Size > h.maxFileBytes {
			files = append(files, upload.File{Filename: header.Filename, Size: header.Size})
			continue
		}

		part, err := header.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, upload.File{Filename: header.Filename, Content: content, Size: header.Size})
	}
	return files, nil
}

func (h *Handler) renderPage(w http.ResponseWriter, sessionID string) {
	turns := h.svc.History(sessionID)
	views := make([]turnView, 0, len(turns))
	for _, turn := range turns {
		views = append(views, turnView{Query: turn.UserPrompt, Answer: render.Markdown(turn.AIResponse)})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, map[string]any{"History": views}); err != nil {
		log.Printf("[assistant] failed to render page: %v", err)
	}
}
