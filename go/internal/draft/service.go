package draft

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Service exposes draft operations over HTTP/JSON
type Service struct {
	app *App
}

// NewService creates a new draft HTTP service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers draft routes on the router
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Route("/api/drafts", func(r chi.Router) {
		r.Post("/", s.handleCreateDraft)
		r.Get("/active", s.handleGetActiveDraft)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", s.handleGetDraft)
			r.Delete("/", s.handleDeleteDraft)
			r.Post("/toggle-active", s.handleToggleActive)
			r.Post("/reset", s.handleResetDraft)
			r.Post("/rounds", s.handleAddRound)
			r.Delete("/rounds", s.handleRemoveRound)
			r.Get("/picks/current", s.handleGetCurrentPick)
			r.Get("/picks/next", s.handleGetNextPick)
			r.Put("/picks/state", s.handleUpdatePickState)
			r.Post("/picks/complete", s.handleMarkPickComplete)
			r.Post("/picks/clear", s.handleClearPickSelection)
		})
	})
}

func (s *Service) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := s.app.CreateDraft(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, draft)
}

func (s *Service) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	draft, err := s.app.GetDraft(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleGetActiveDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.app.GetActiveDraft(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleToggleActive(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	draft, err := s.app.ToggleActive(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	if err := s.app.DeleteDraft(r.Context(), draftID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleGetCurrentPick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	pick, err := s.app.GetCurrentPick(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if pick == nil {
		// Cursor is past the end of the board
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, pick)
}

func (s *Service) handleGetNextPick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	fromOverall := 0
	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid from parameter", http.StatusBadRequest)
			return
		}
		fromOverall = v
	}
	skipCompleted := r.URL.Query().Get("skip_completed") == "true"

	pick, err := s.app.GetNextPick(r.Context(), draftID, fromOverall, skipCompleted)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if pick == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, pick)
}

func (s *Service) handleUpdatePickState(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	var req UpdatePickStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := s.app.UpdatePickState(r.Context(), draftID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleMarkPickComplete(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	var req MarkPickCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := s.app.MarkPickComplete(r.Context(), draftID, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleClearPickSelection(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	var req ClearPickSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	draft, err := s.app.ClearPickSelection(r.Context(), draftID, req.OverallPick)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleAddRound(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	draft, err := s.app.AddRound(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleRemoveRound(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	draft, err := s.app.RemoveRound(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) handleResetDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := s.draftID(w, r)
	if !ok {
		return
	}

	draft, err := s.app.ResetDraft(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, draft)
}

func (s *Service) draftID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	var conflict *StateConflictError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoActiveDraft):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &conflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("draft request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
