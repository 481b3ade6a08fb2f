// Package server answers schedule queries over HTTP against an immutable
// session snapshot. Regenerating a season swaps the snapshot; requests in
// flight keep the one they started with.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/derekprior/nflsched/internal/league"
	"github.com/derekprior/nflsched/internal/metrics"
	"github.com/derekprior/nflsched/internal/schedule"
)

type Server struct {
	lg      *league.League
	base    schedule.Options
	session atomic.Pointer[schedule.Session]
	log     zerolog.Logger
}

// New generates the first session from opts and serves it.
func New(lg *league.League, opts schedule.Options, log zerolog.Logger) (*Server, error) {
	s := &Server{lg: lg, base: opts, log: log}
	if _, err := s.Regenerate(opts.Year, opts.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the session being served.
func (s *Server) Current() *schedule.Session {
	return s.session.Load()
}

// Regenerate builds a new season with the server's strategy and replaces the
// served session. On error the current session is kept.
func (s *Server) Regenerate(year int, seed int64) (*schedule.Session, error) {
	opts := s.base
	opts.Year = year
	opts.Seed = seed
	opts.Logger = s.log

	start := time.Now()
	sess, err := schedule.Generate(s.lg, opts)
	metrics.RecordGeneration(opts.Strategy, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.session.Store(sess)
	metrics.SessionYear.Set(float64(sess.Year))
	s.log.Info().
		Str("session", sess.ID.String()).
		Int("year", sess.Year).
		Int64("seed", sess.Seed).
		Str("host", sess.Host).
		Str("strategy", sess.Strategy).
		Msg("session generated")
	return sess, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/session", s.handleSession)
	r.Post("/session", s.handleRegenerate)
	r.Get("/teams", s.handleTeams)
	r.Get("/teams/{code}/schedule", s.handleSchedule)
	r.Get("/standings", s.handleStandings)
	r.Get("/pairings", s.handlePairings)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		d := time.Since(start)
		metrics.RecordRequest(route, status, d)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", d).
			Msg("request")
	})
}
