package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-recommender/internal/types"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Signup creates an account and returns a session token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, "Signup successful", user)
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, "Login successful", user)
}

// decode reads and validates a JSON body. It writes a 400 and returns false
// when the body is unusable.
func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": extractValidationErrors(err)})
		return false
	}
	return true
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, message string, user *types.User) {
	token, err := h.jwtService.GenerateToken(user.ID)
	if err != nil {
		_ = writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	// The response is already committed if encoding fails.
	_ = writeJSON(w, status, types.LoginResponse{
		Message: message,
		User:    user,
		Token:   token,
	})
}

// serviceError maps a service error to its status. Internal failures get an
// opaque message.
func serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal Server Error"
	}
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// extractValidationErrors describes the first failed validation rule.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
