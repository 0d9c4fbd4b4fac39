// Package server exposes the layout engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/piwi3910/PalletLoad/internal/engine"
	"github.com/piwi3910/PalletLoad/internal/model"
)

// Server wraps a gin router around the planner. Every request plans on its
// own copy of the settings; nothing is shared between requests.
type Server struct {
	settings model.Settings
	logger   *log.Logger
	router   *gin.Engine
}

// New builds a server whose requests start from the given settings.
func New(settings model.Settings, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{settings: settings, logger: logger}

	r := gin.New()
	r.Use(RequestID(), Logger(logger), gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api/v1")
	{
		api.GET("/containers", s.handleContainers)
		api.POST("/layout", s.handleLayout)
		api.POST("/compare", s.handleCompare)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// LayoutRequest is the body of /layout and /compare. Clearance and
// Stacking fall back to the server defaults when omitted.
type LayoutRequest struct {
	Container string             `json:"container"`
	Clearance *float64           `json:"clearance"`
	Stacking  *bool              `json:"stacking"`
	Catalog   []model.PalletType `json:"catalog" binding:"required"`
	Deleted   []string           `json:"deleted"`
}

// CompareResponse is the body returned by /compare.
type CompareResponse struct {
	Scenarios []engine.ComparisonResult `json:"scenarios"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleContainers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"containers": model.ContainerClasses})
}

func (s *Server) handleLayout(c *gin.Context) {
	settings, req, err := s.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engine.New(settings, s.logger).Compute(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCompare(c *gin.Context) {
	settings, req, err := s.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := engine.CompareScenarios(c.Request.Context(), engine.BuildDefaultScenarios(settings), req, s.logger)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, CompareResponse{Scenarios: results})
}

// parseRequest binds and validates the body and resolves it into planner
// settings and an engine request.
func (s *Server) parseRequest(c *gin.Context) (model.Settings, engine.Request, error) {
	var body LayoutRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		return model.Settings{}, engine.Request{}, fmt.Errorf("invalid request body: %w", err)
	}

	name := body.Container
	if name == "" {
		name = model.DefaultContainerName
	}
	container, ok := model.GetContainer(name)
	if !ok {
		return model.Settings{}, engine.Request{}, fmt.Errorf("unknown container class %q", name)
	}

	settings := s.settings
	if body.Clearance != nil {
		if *body.Clearance < 0 {
			return model.Settings{}, engine.Request{}, fmt.Errorf("clearance must not be negative")
		}
		settings.Clearance = *body.Clearance
	}
	if body.Stacking != nil {
		settings.StackingEnabled = *body.Stacking
	}

	catalog := make([]model.PalletType, len(body.Catalog))
	copy(catalog, body.Catalog)
	for i := range catalog {
		if catalog[i].ID == "" {
			catalog[i].ID = uuid.New().String()[:8]
		}
	}
	if err := model.ValidateCatalog(catalog, settings.Limits); err != nil {
		return model.Settings{}, engine.Request{}, fmt.Errorf("invalid catalog: %w", err)
	}

	deleted := make([]model.InstanceKey, 0, len(body.Deleted))
	for _, raw := range body.Deleted {
		key, err := model.ParseInstanceKey(raw)
		if err != nil {
			return model.Settings{}, engine.Request{}, err
		}
		deleted = append(deleted, key)
	}

	return settings, engine.Request{Catalog: catalog, Container: container, Deleted: deleted}, nil
}
