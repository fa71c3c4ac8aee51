package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------
// Account handlers (authenticated)
// ---------------------------------------------------------------------

func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	var req types.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.IsEmpty() {
		s.errorResponse(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := s.userService.UpdateAccount(r.Context(), userID, &req)
	if err != nil {
		if HTTPStatus(err) == http.StatusInternalServerError {
			s.logger.Error("failed to update account", zap.Stringer("user", userID), zap.Error(err))
		}
		serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Account updated successfully",
		"user":    user,
	})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.authenticatedUser(w, r)
	if !ok {
		return
	}

	if err := s.userService.DeleteAccount(r.Context(), userID); err != nil {
		if HTTPStatus(err) == http.StatusInternalServerError {
			s.logger.Error("failed to delete account", zap.Stringer("user", userID), zap.Error(err))
		}
		serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
