package trade

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tgrail/draftroom/go/internal/draft"
)

// Service exposes trade operations over HTTP/JSON
type Service struct {
	app *App
}

// NewService creates a new trade HTTP service
func NewService(app *App) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers trade routes on the router
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Route("/api/trades", func(r chi.Router) {
		r.Post("/", s.handleCreateTrade)
		r.Get("/", s.handleGetTrades)
		r.Route("/{tradeID}", func(r chi.Router) {
			r.Get("/", s.handleGetTrade)
			r.Delete("/", s.handleDeleteTrade)
			r.Get("/can-cancel", s.handleCanCancelTrade)
			r.Post("/cancel", s.handleCancelTrade)
		})
	})
}

func (s *Service) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var req CreateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	trade, err := s.app.CreateTrade(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, trade)
}

func (s *Service) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := s.app.GetTrades(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Service) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := s.tradeID(w, r)
	if !ok {
		return
	}

	trade, err := s.app.GetTrade(r.Context(), tradeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Service) handleCanCancelTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := s.tradeID(w, r)
	if !ok {
		return
	}

	cancellable, err := s.app.CanCancelTrade(r.Context(), tradeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"can_cancel": cancellable})
}

func (s *Service) handleCancelTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := s.tradeID(w, r)
	if !ok {
		return
	}

	trade, err := s.app.CancelTrade(r.Context(), tradeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

func (s *Service) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	tradeID, ok := s.tradeID(w, r)
	if !ok {
		return
	}

	if err := s.app.DeleteTrade(r.Context(), tradeID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) tradeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tradeID"))
	if err != nil {
		http.Error(w, "invalid trade id", http.StatusBadRequest)
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
	var (
		validation   *ValidationError
		distribution *DistributionError
		ownership    *OwnershipError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &distribution):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &ownership):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrCancelBlocked), errors.Is(err, ErrNotCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, draft.ErrNoActiveDraft):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, draft.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("trade request failed: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
