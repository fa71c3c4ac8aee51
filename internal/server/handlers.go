package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-recommender/internal/parsing"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// Error messages of the recommendation endpoints.
const (
	msgSkillsNotArray    = "Skills must be an array of strings."
	msgInterestsNotArray = "Interests must be an array of strings."
	msgGenerateFailed    = "Failed to generate recommendations"
	msgInternal          = "Internal Server Error"
	msgInvalidBody       = "Invalid request body"
)

var requestValidator = validator.New()

// generateRequest keeps the raw fields so their JSON types can be checked.
type generateRequest struct {
	Skills    json.RawMessage `json:"skills"`
	Interests json.RawMessage `json:"interests"`
}

// stringArray decodes raw as a JSON array of strings. Absent and null values
// are reported as not present.
func stringArray(raw json.RawMessage) (values []string, present bool, ok bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false, true
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, true, false
	}
	return values, true, true
}

// handleGenerateRecommendations scores the catalog against explicit skill and
// interest lists.
func (s *Server) handleGenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgSkillsNotArray)
		return
	}

	skills, present, ok := stringArray(req.Skills)
	if !present || !ok {
		s.errorResponse(w, http.StatusBadRequest, msgSkillsNotArray)
		return
	}
	interests, _, ok := stringArray(req.Interests)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, msgInterestsNotArray)
		return
	}

	query := types.Query{
		Skills:    parsing.NormalizeTerms(skills),
		Interests: parsing.NormalizeTerms(interests),
	}

	recommendations, err := s.engine.Recommend(r.Context(), query)
	if err != nil {
		s.logger.Error("failed to generate recommendations", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgGenerateFailed)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.RecommendResponse{Recommendations: recommendations})
}

// handleWebhook is the NLU fulfillment endpoint.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req types.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	resp, err := s.webhook.Handle(r.Context(), req)
	if err != nil {
		s.logger.Error("webhook failed", zap.String("session", req.Session), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleChat sends a user message to the NLU agent and answers it the same
// way the fulfillment webhook would.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.nlu == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.nlu.DetectIntent(r.Context(), req.SessionID, req.Message)
	if err == nil && result == nil {
		err = errors.New("empty query result")
	}
	if err != nil {
		s.logger.Error("intent detection failed", zap.String("session", req.SessionID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	resp, err := s.webhook.Handle(r.Context(), types.WebhookRequest{
		Session:     req.SessionID,
		QueryResult: *result,
	})
	if err != nil {
		s.logger.Error("chat failed", zap.String("session", req.SessionID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
