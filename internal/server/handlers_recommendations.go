package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/db"
	"github.com/jonathan/career-recommender/internal/server/middleware"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------
// Saved recommendation handlers (authenticated)
// ---------------------------------------------------------------------

// authenticatedUser returns the user set by the auth middleware, writing a
// 401 when there is none.
func (s *Server) authenticatedUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized personnel")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) handleSaveRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	var req types.SaveRecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if req.CareerID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Career ID is required")
		return
	}
	careerID, err := uuid.Parse(req.CareerID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid career ID")
		return
	}

	rec, err := s.store.SaveRecommendation(r.Context(), userID, careerID)
	switch {
	case errors.Is(err, db.ErrCareerNotFound):
		s.errorResponse(w, http.StatusNotFound, "Career not found")
		return
	case errors.Is(err, db.ErrRecommendationExists):
		s.errorResponse(w, http.StatusBadRequest, "Recommendation already saved")
		return
	case err != nil:
		s.logger.Error("failed to save recommendation", zap.Stringer("user", userID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":        "Recommendation saved successfully",
		"recommendation": rec,
	})
}

func (s *Server) handleListSavedRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	recs, err := s.store.ListSavedRecommendations(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to list saved recommendations", zap.Stringer("user", userID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if recs == nil {
		recs = []types.Recommendation{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (s *Server) handleClearRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.ClearRecommendations(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to clear recommendations", zap.Stringer("user", userID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Recommendations cleared successfully",
		"deleted": deleted,
	})
}
