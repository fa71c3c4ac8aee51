package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

func (s *Server) handleListCareers(w http.ResponseWriter, r *http.Request) {
	careers, err := s.store.ListCareers(r.Context())
	if err != nil {
		s.logger.Error("failed to list careers", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if careers == nil {
		careers = []types.Career{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"careers": careers,
		"total":   len(careers),
	})
}

func (s *Server) handleGetCareer(w http.ResponseWriter, r *http.Request) {
	careerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid career ID")
		return
	}

	career, err := s.store.GetCareer(r.Context(), careerID)
	if err != nil {
		s.logger.Error("failed to get career", zap.Stringer("career", careerID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if career == nil {
		s.errorResponse(w, http.StatusNotFound, "Career not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, career)
}
