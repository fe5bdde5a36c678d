// Package api exposes the query system over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	studyground "github.com/dsvdev/studyground"
	"github.com/dsvdev/studyground/ai"
)

// Service is what the handlers need from the query system.
type Service interface {
	Query(ctx context.Context, text, sessionID string) (*studyground.Answer, error)
	Analytics(ctx context.Context) (*studyground.Analytics, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Answer    string      `json:"answer"`
	Sources   []ai.Source `json:"sources"`
	SessionID string      `json:"session_id"`
}

type coursesResponse struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// NewRouter builds the HTTP API around svc.
func NewRouter(svc Service, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Post("/api/query", func(w http.ResponseWriter, req *http.Request) {
		var body queryRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Query) == "" {
			http.Error(w, "query is required", http.StatusBadRequest)
			return
		}

		answer, err := svc.Query(req.Context(), body.Query, body.SessionID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sources := answer.Sources
		if sources == nil {
			sources = []ai.Source{}
		}
		writeJSON(w, http.StatusOK, queryResponse{
			Answer:    answer.Text,
			Sources:   sources,
			SessionID: answer.SessionID,
		})
	})

	r.Get("/api/courses", func(w http.ResponseWriter, req *http.Request) {
		analytics, err := svc.Analytics(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		titles := analytics.CourseTitles
		if titles == nil {
			titles = []string{}
		}
		writeJSON(w, http.StatusOK, coursesResponse{
			TotalCourses: analytics.TotalCourses,
			CourseTitles: titles,
		})
	})

	r.Delete("/api/sessions/{sessionID}", func(w http.ResponseWriter, req *http.Request) {
		sessionID := chi.URLParam(req, "sessionID")
		if err := svc.ClearSession(req.Context(), sessionID); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
