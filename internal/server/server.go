package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/lowcodeminds/tms-api/internal/closure"
	"github.com/lowcodeminds/tms-api/internal/config"
	"github.com/lowcodeminds/tms-api/internal/dataset"
)

const livenessMessage = "Tower Management Azure app is running..."

// Gateway fetches closure data from the database.
type Gateway interface {
	FetchClosureData(ctx context.Context) ([]closure.Record, error)
}

// Server wraps application dependencies and the HTTP router.
type Server struct {
	cfg      config.Config
	router   *gin.Engine
	datasets *dataset.Store
	gateway  Gateway
	logger   *slog.Logger
}

// New creates a server with all dependencies wired.
func New(cfg config.Config, datasets *dataset.Store, gateway Gateway, logger *slog.Logger) *Server {
	r := gin.New()
	if cfg.Telemetry.Enabled() {
		r.Use(otelgin.Middleware("tms-api"))
	}

	s := &Server{cfg: cfg, router: r, datasets: datasets, gateway: gateway, logger: logger}
	r.Use(s.observe(), s.recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", s.handleRoot)
	s.router.GET("/closureData", s.handleClosureData)
	s.router.GET("/sunburstData", s.handleDataset("sunburst"))
	s.router.GET("/gridData", s.handleDataset("grid"))
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.Static("/data", s.cfg.Server.DataDir)

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

// Handler exposes the HTTP handler for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server until context cancellation.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Listen,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": livenessMessage})
}

func (s *Server) handleDataset(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.datasets.Read(name)
		if err != nil {
			if errors.Is(err, dataset.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
				return
			}
			s.internalError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

func (s *Server) handleClosureData(c *gin.Context) {
	records, err := s.gateway.FetchClosureData(c.Request.Context())
	if err != nil {
		if errors.Is(err, closure.ErrConnection) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection failed"})
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// internalError reports an unhandled failure and answers with a generic
// body. Internal detail never reaches the response.
func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("unhandled failure", "route", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}
