package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loopcrm/loopcrm/internal/core"
)

// ownerHeader carries the authenticated tenant id resolved by the upstream
// gateway. This layer trusts it and only maps transport concerns.
const ownerHeader = "X-User-ID"

const shutdownTimeout = 10 * time.Second

// Server is the HTTP transport over the engagement service. It owns no
// business rules: it parses requests, resolves the tenant header, invokes
// the core operation and translates the outcome to a status code.
type Server struct {
	service    *core.EngagementService
	logger     *zap.Logger
	listenAddr string
	srv        *http.Server
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(service *core.EngagementService, logger *zap.Logger, listenAddr string) *Server {
	s := &Server{
		service:    service,
		logger:     logger,
		listenAddr: listenAddr,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1", s.requireOwner)
	api.POST("/contacts/rescore", s.handleRescore)
	api.GET("/analytics/summary", s.handleAnalytics)
	api.POST("/content/generate", s.handleGenerate)
	api.POST("/campaigns/:id/test-send", s.handleTestSend)

	s.srv = &http.Server{
		Addr:    listenAddr,
		Handler: engine,
	}

	return s
}

// Start begins serving in the background.
func (s *Server) Start() error {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	s.logger.Info("HTTP server listening", zap.String("address", s.listenAddr))
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) requireOwner(c *gin.Context) {
	if c.GetHeader(ownerHeader) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing tenant header"})
		return
	}
	c.Next()
}

func (s *Server) handleRescore(c *gin.Context) {
	var req core.RescoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	report, err := s.service.Rescore(c.Request.Context(), c.GetHeader(ownerHeader), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleAnalytics(c *gin.Context) {
	summary, err := s.service.Aggregate(c.Request.Context(), c.GetHeader(ownerHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req core.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	content, err := s.service.GenerateContent(c.Request.Context(), c.GetHeader(ownerHeader), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (s *Server) handleTestSend(c *gin.Context) {
	var req struct {
		ContactID string `json:"contactId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	err := s.service.SendCampaignTest(c.Request.Context(), c.GetHeader(ownerHeader), c.Param("id"), req.ContactID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, core.ErrSuppressed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream failure"})
	}
}
