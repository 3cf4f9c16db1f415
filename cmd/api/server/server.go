package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	ginhandler "user-resource-service/internal/adapter/gin/handler"
	"user-resource-service/internal/adapter/gin/middleware"
	"user-resource-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance. rateLimiter may be nil.
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, rateLimiter *middleware.RateLimiter) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, rateLimiter, cfg.App.Addr(), cfg.Logger.ServiceName, l),
	}
}

// Start binds the configured address and serves until Shutdown is called.
// A bind failure is returned as an error.
func (s *Server) Start() error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(context.Background(), "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Gin.Addr, err)
	}

	return s.serve(lis)
}

func (s *Server) serve(lis net.Listener) error {
	s.Logger.Info("HTTP server running", zap.String("address", lis.Addr().String()))

	if err := s.Gin.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
