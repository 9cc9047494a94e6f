// Package mock provides an in-process fake of the reqres.in users API.
package mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server serves the users API from memory.
type Server struct {
	port    int
	delay   time.Duration
	verbose bool
	logger  logrus.FieldLogger
	users   []User
	now     func() time.Time
	created atomic.Int64
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose logs every request at info level instead of debug.
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUsers replaces the served dataset.
func WithUsers(users []User) Option {
	return func(s *Server) {
		s.users = append([]User(nil), users...)
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		port:   3000,
		logger: logrus.StandardLogger(),
		users:  Users(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API, suitable for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.applyDelay)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, []byte(`{}`))
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/", s.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/", s.createUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", s.updateUser).Methods(http.MethodPut, http.MethodPatch)
	api.HandleFunc("/users/{id}", s.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)

	return r
}

// Start starts the mock server
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext serves until ctx is done, then shuts down gracefully.
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.WithFields(logrus.Fields{"users": len(s.users)}).
		Infof("Mock server starting on http://localhost:%d/api/users/", s.port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.RequestURI(),
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
		if s.verbose {
			entry.Info("mock request")
		} else {
			entry.Debug("mock request")
		}
	})
}

// applyDelay holds every response for the configured delay, or the
// per-request ?delay=<seconds> the real API supports.
func (s *Server) applyDelay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay := s.delay
		if d := strings.TrimSpace(r.URL.Query().Get("delay")); d != "" {
			if secs, err := time.ParseDuration(d + "s"); err == nil && secs > 0 {
				delay = secs
			}
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
