// Package server serves the board's static bundle, collects beacon logs and
// relays host messages to connected boards.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/colonyops/taskboard/internal/relay"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front of the board.
type Server struct {
	opts   Options
	log    zerolog.Logger
	echo   *echo.Echo
	hub    *relay.Hub
	events *EventLog

	rc        *redis.Client
	backplane *relay.Backplane
}

// New validates opts and builds the routes. It fails in production mode when
// the serve directory is missing.
func New(opts Options, log zerolog.Logger) (*Server, error) {
	if opts.Production {
		if info, err := os.Stat(opts.ServeDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("serve directory does not exist: %s", opts.ServeDir)
		}
	}

	events, err := NewEventLog(filepath.Join(opts.LogDir, "events.jsonl"))
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   opts,
		log:    log,
		echo:   echo.New(),
		hub:    relay.NewHub(log.With().Str("cmp", "relay").Logger()),
		events: events,
	}

	if opts.WebSocket && opts.RedisAddr != "" {
		s.rc = redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		s.backplane = relay.NewBackplane(s.rc, opts.RedisChannel, s.hub, log.With().Str("cmp", "backplane").Logger())
	}

	s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Hub returns the relay hub.
func (s *Server) Hub() *relay.Hub { return s.hub }

// Backplane returns the Redis backplane, nil when disabled.
func (s *Server) Backplane() *relay.Backplane { return s.backplane }

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	e.POST("/api/log", s.handleLog)
	e.POST("/message", s.handleMessage)
	if s.opts.WebSocket {
		e.GET("/ws", echo.WrapHandler(s.hub))
	}
	e.Any("/*", s.handleFallback)
}

// Start listens on the configured port and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d in use", s.opts.Port)
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the server on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	bgCtx, cancelBg := context.WithCancel(ctx)
	defer func() {
		cancelBg()
		wg.Wait()
	}()

	if s.backplane != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.backplane.Run(bgCtx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server running")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.close()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) close() {
	s.hub.Close()
	if s.rc != nil {
		_ = s.rc.Close()
	}
}
