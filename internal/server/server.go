// Package server publishes a resolved document over HTTP
package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/output"
)

// Config holds configuration for the document server
type Config struct {
	// Addr is the address to listen on (default: ":8080")
	Addr string

	// EnableCORS enables CORS middleware (default: true)
	EnableCORS bool

	// EnableLogger enables request logging (default: true)
	EnableLogger bool

	// ShutdownTimeout is the timeout for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a server configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		EnableCORS:      true,
		EnableLogger:    true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the document as JSON and YAML
type Server struct {
	echo   *echo.Echo
	config *Config
	logger *zap.Logger

	mu       sync.RWMutex
	rendered map[output.Format][]byte
	doc      *output.Document
}

// New creates a server for doc
func New(doc *output.Document, config *Config, logger *zap.Logger) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	if config.EnableLogger {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:  true,
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
				logger.Info("request",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency))
				return nil
			},
		}))
	}
	if config.EnableCORS {
		e.Use(middleware.CORS())
	}

	s := &Server{echo: e, config: config, logger: logger}
	if err := s.SetDocument(doc); err != nil {
		return nil, err
	}

	e.GET("/swagger.json", s.serveDocument(output.FormatJSON))
	e.GET("/swagger.yaml", s.serveDocument(output.FormatYAML))
	e.GET("/operations", s.listOperations)
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	return s, nil
}

// Echo returns the underlying Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// SetDocument replaces the served document
func (s *Server) SetDocument(doc *output.Document) error {
	rendered := make(map[output.Format][]byte, 2)
	for _, format := range []output.Format{output.FormatJSON, output.FormatYAML} {
		data, err := output.Marshal(doc, format)
		if err != nil {
			return err
		}
		rendered[format] = data
	}

	s.mu.Lock()
	s.rendered = rendered
	s.doc = doc
	s.mu.Unlock()
	return nil
}

func (s *Server) serveDocument(format output.Format) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.RLock()
		data := s.rendered[format]
		s.mu.RUnlock()
		return c.Blob(http.StatusOK, format.ContentType(), data)
	}
}

// operationSummary is one entry of the /operations listing
type operationSummary struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (s *Server) listOperations(c echo.Context) error {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	ops := make([]operationSummary, 0, doc.Operations())
	for path, item := range doc.Paths {
		for method, op := range item {
			ops = append(ops, operationSummary{ID: op.OperationID, Method: method, Path: path})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Path != ops[j].Path {
			return ops[i].Path < ops[j].Path
		}
		return ops[i].Method < ops[j].Method
	})
	return c.JSON(http.StatusOK, ops)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting document server", zap.String("addr", s.config.Addr))
		if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down document server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
