// Copyright 2026 Coursetta Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursetta/coursetta/answer"
	"github.com/coursetta/coursetta/search"
	"github.com/coursetta/coursetta/storage"
)

// DefaultRequestTimeout bounds a single question end to end, including
// retrieval and answer generation.
const DefaultRequestTimeout = 60 * time.Second

// Answerer produces an answer with citations for a student question.
// Satisfied by answer.Assembler.
type Answerer interface {
	Answer(ctx context.Context, question, imageData string) (*answer.Response, error)
}

// Server is the HTTP front end for the virtual teaching assistant.
type Server struct {
	answerer    Answerer
	documents   storage.DocumentRepository
	router      *gin.Engine
	timeout     time.Duration
	diagnostics bool
	logger      *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithRequestTimeout sets the per-request deadline. Default is 60s.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout <= 0 {
			return errors.New("request timeout must be positive")
		}
		s.timeout = timeout
		return nil
	}
}

// WithDiagnostics includes the inferred question category and the
// degraded-mode flag in answer responses. Off by default; the student
// client only needs the answer and its links.
func WithDiagnostics(enabled bool) Option {
	return func(s *Server) error {
		s.diagnostics = enabled
		return nil
	}
}

// WithLogger sets the logger used for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the API server.
func NewServer(answerer Answerer, documents storage.DocumentRepository, opts ...Option) (*Server, error) {
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if documents == nil {
		return nil, ErrRepositoryRequired
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		answerer:  answerer,
		documents: documents,
		router:    gin.New(),
		timeout:   DefaultRequestTimeout,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(corsMiddleware())

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/stats", s.handleStats)

	api := s.router.Group("/api")
	{
		api.POST("/", s.handleAsk)
	}
}

// Handler returns the underlying HTTP handler. Used by tests and by
// callers that manage their own http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting API server", "addr", addr)
	return s.router.Run(addr)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware tags each request so log lines from one question
// can be correlated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// handleHealth reports liveness and store reachability.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "ok"
	count, err := s.documents.CountDocuments(ctx)
	if err != nil {
		storeStatus = "error: " + err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"store":     storeStatus,
		"documents": count,
	})
}

// AskRequest is a student question, optionally with a base64-encoded
// screenshot attached.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
	Image    string `json:"image"`
}

// handleAsk answers a student question with citations.
func (s *Server) handleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requestID := c.GetString("request_id")
	logger := s.logger.With("request_id", requestID)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.answerer.Answer(ctx, req.Question, req.Image)
	if err != nil {
		logger.Error("failed to answer question", "error", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	logger.Info("answered question",
		"category", resp.Category.String(),
		"links", len(resp.Links),
		"degraded", resp.Degraded,
		"elapsed", time.Since(start))

	if s.diagnostics {
		c.JSON(http.StatusOK, gin.H{
			"answer":   resp.Answer,
			"links":    resp.Links,
			"category": resp.Category.String(),
			"degraded": resp.Degraded,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleStats reports corpus composition.
func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.documents.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	byCategory := make(map[string]int, len(stats.ByCategory))
	for category, count := range stats.ByCategory {
		byCategory[category.String()] = count
	}
	bySource := make(map[string]int, len(stats.BySource))
	for source, count := range stats.BySource {
		bySource[source.String()] = count
	}

	c.JSON(http.StatusOK, gin.H{
		"documents":   stats.Documents,
		"by_category": byCategory,
		"by_source":   bySource,
	})
}

// statusForError maps retrieval and assembly failures to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, answer.ErrEmptyQuestion), errors.Is(err, search.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, search.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
