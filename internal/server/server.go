// Package server provides the HTTP REST API for the career recommender.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/config"
	"github.com/jonathan/career-recommender/internal/conversation"
	"github.com/jonathan/career-recommender/internal/nlu"
	"github.com/jonathan/career-recommender/internal/server/middleware"
	"github.com/jonathan/career-recommender/internal/server/ratelimit"
	"github.com/jonathan/career-recommender/internal/types"
	"go.uber.org/zap"
)

// DefaultFrontendURL is the CORS origin used when none is configured.
const DefaultFrontendURL = "http://localhost:3000"

const shutdownTimeout = 30 * time.Second

// Store is the persistence the API needs: accounts, the catalog and saved
// recommendations.
type Store interface {
	DBClient
	Ping(ctx context.Context) error
	ListCareers(ctx context.Context) ([]types.Career, error)
	GetCareer(ctx context.Context, id uuid.UUID) (*types.Career, error)
	SaveRecommendation(ctx context.Context, userID, careerID uuid.UUID) (*types.Recommendation, error)
	ListSavedRecommendations(ctx context.Context, userID uuid.UUID) ([]types.Recommendation, error)
	ClearRecommendations(ctx context.Context, userID uuid.UUID) (int64, error)
}

// WebhookHandler answers NLU fulfillment requests.
type WebhookHandler interface {
	Handle(ctx context.Context, req types.WebhookRequest) (types.WebhookResponse, error)
}

// Config holds server configuration
type Config struct {
	Port        int
	FrontendURL string
	RateLimit   *ratelimit.Config
	JWT         *config.JWTConfig
	Password    *config.PasswordConfig
}

// Dependencies are the collaborators the server routes requests to. NLU is
// optional; without it POST /dialogflow/chat answers 503.
type Dependencies struct {
	Store   Store
	Engine  conversation.Recommender
	Webhook WebhookHandler
	NLU     nlu.Client
	Logger  *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	engine      conversation.Recommender
	webhook     WebhookHandler
	nlu         nlu.Client
	logger      *zap.Logger
	frontendURL string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Engine == nil {
		return nil, errors.New("server: recommendation engine is required")
	}
	if deps.Webhook == nil {
		return nil, errors.New("server: webhook handler is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	jwtConfig := cfg.JWT
	if jwtConfig == nil {
		var err error
		if jwtConfig, err = config.NewJWTConfig(); err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
	}
	passwordConfig := cfg.Password
	if passwordConfig == nil {
		var err error
		if passwordConfig, err = config.NewPasswordConfig(); err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
	}

	s := &Server{
		store:       deps.Store,
		engine:      deps.Engine,
		webhook:     deps.Webhook,
		nlu:         deps.NLU,
		logger:      deps.Logger,
		frontendURL: cfg.FrontendURL,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:  NewJWTService(jwtConfig),
	}
	if s.frontendURL == "" {
		s.frontendURL = DefaultFrontendURL
	}
	s.userService = NewUserService(deps.Store, passwordConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Recommendations
	mux.HandleFunc("POST /recommendations/generate", s.handleGenerateRecommendations)
	mux.Handle("POST /recommendations/save", authed(s.handleSaveRecommendation))
	mux.Handle("GET /recommendations/saved", authed(s.handleListSavedRecommendations))
	mux.Handle("DELETE /recommendations/clear", authed(s.handleClearRecommendations))

	// Conversational entry points
	mux.HandleFunc("POST /dialogflow/webhook", s.handleWebhook)
	mux.HandleFunc("POST /dialogflow/chat", s.handleChat)

	// Accounts
	mux.HandleFunc("POST /auth/signup", s.authHandler.Signup)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /users/edit", authed(s.handleEditAccount))
	mux.Handle("DELETE /users/delete", authed(s.handleDeleteAccount))

	// Catalog
	mux.HandleFunc("GET /careers", s.handleListCareers)
	mux.HandleFunc("GET /careers/{id}", s.handleGetCareer)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS allows the configured frontend origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.frontendURL)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth reports whether the server and its database are reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes data as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the client by the IP in RemoteAddr.
// X-Forwarded-For is ignored because proxies are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets the X-RateLimit headers when a limit applies.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit <= 0 {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
