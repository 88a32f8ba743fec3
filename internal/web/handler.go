package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/onbo-ai/onbo/internal/configdoc"
	"github.com/onbo-ai/onbo/internal/store"
)

const maxDocumentSize = 1 << 20

// Handler serves the configuration-document API consumed by the editing
// surface and the CLI, plus the stateless mock chat route.
type Handler struct {
	store store.Store
}

func NewHandler(st store.Store) *Handler {
	return &Handler{store: st}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/config/{name}", h.getDocument)
	r.Put("/api/config/{name}", h.putDocument)
	r.Post("/api/chat/mock", h.mockChat)

	return r
}

// getDocument returns the stored document, seeding embedded defaults on
// first read.
func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validDocName(name) {
		writeError(w, http.StatusNotFound, "unknown document")
		return
	}

	data, err := h.store.GetDocument(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		data = defaultDocument(name)
		if err := h.store.PutDocument(name, data); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// putDocument replaces the document wholesale.
func (h *Handler) putDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validDocName(name) {
		writeError(w, http.StatusNotFound, "unknown document")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	if err := validateDocument(name, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.PutDocument(name, body); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mockChat is a stateless echo used by the chat UI in development.
func (h *Handler) mockChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp := map[string]any{
		"id":      uuid.NewString(),
		"role":    "assistant",
		"content": fmt.Sprintf("(mock) you said: %s", req.Message),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func validDocName(name string) bool {
	return name == configdoc.AgentDocName || name == configdoc.OnboardingDocName
}

func defaultDocument(name string) []byte {
	var doc any
	switch name {
	case configdoc.AgentDocName:
		doc = configdoc.DefaultAgentConfig()
	case configdoc.OnboardingDocName:
		doc = configdoc.DefaultOnboardingSchema()
	}
	data, _ := json.Marshal(doc)
	return data
}

// validateDocument rejects payloads that do not decode into the document's
// schema; the store only ever holds well-formed documents.
func validateDocument(name string, body []byte) error {
	switch name {
	case configdoc.AgentDocName:
		var cfg configdoc.AgentConfig
		if err := json.Unmarshal(body, &cfg); err != nil {
			return fmt.Errorf("invalid agent config: %w", err)
		}
	case configdoc.OnboardingDocName:
		var schema configdoc.OnboardingSchema
		if err := json.Unmarshal(body, &schema); err != nil {
			return fmt.Errorf("invalid onboarding schema: %w", err)
		}
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
