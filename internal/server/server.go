// Package server exposes the read-only pipeline views over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/filtering"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

// Loader supplies candidate dossiers and the board.
type Loader interface {
	Dossier(ctx context.Context, candidateID int64) (*aggregate.Dossier, error)
	Board(ctx context.Context) ([]*aggregate.BoardEntry, error)
}

type Analytics interface {
	GetAnalyticsSummary(ctx context.Context) (*recruiting.AnalyticsSummary, error)
}

type Config struct {
	Addr        string
	CORSOrigins []string
	// Board holds the filters applied when a board request does not override them.
	Board           filtering.Config
	ShutdownTimeout time.Duration
}

type Server struct {
	cfg       Config
	loader    Loader
	analytics Analytics
	logger    *zap.Logger
	router    *gin.Engine
}

func New(cfg Config, loader Loader, analytics Analytics, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{cfg: cfg, loader: loader, analytics: analytics, logger: log}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(s.logger))
	r.Use(cors(s.cfg.CORSOrigins))

	r.GET("/healthz", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/candidates/:id/pipeline", s.pipelineView)
		v1.GET("/board", s.board)
		v1.GET("/analytics", s.analyticsSummary)
	}

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting the view server", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down the view server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
