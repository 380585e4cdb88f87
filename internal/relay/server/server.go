// Package server implements the relay's HTTP API: share metadata and block
// storage gated by GitHub-backed session authentication.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nanum-dev/nanum/internal/logging"
	"github.com/nanum-dev/nanum/internal/metrics"
	"github.com/nanum-dev/nanum/internal/relay/auth"
	"github.com/nanum-dev/nanum/internal/relay/config"
	"github.com/nanum-dev/nanum/internal/shareid"
	"github.com/nanum-dev/nanum/internal/store"
)

// githubExchanger is the subset of *auth.GitHubClient the server needs,
// narrowed to an interface so tests can substitute a fake OAuth provider.
type githubExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (primaryEmail string, emails []string, err error)
}

// Server is the relay's HTTP API server.
type Server struct {
	cfg     *config.Config
	store   store.Store
	jwt     *auth.JWTService
	github  githubExchanger
	logger  *slog.Logger
	metrics *metrics.Metrics

	server   *http.Server
	listener net.Listener
	running  atomic.Bool
}

// New builds a relay Server. logger and m default to no-ops/the package
// singleton when nil, matching the teacher's optional-dependency style.
func New(cfg *config.Config, st store.Store, jwtService *auth.JWTService, githubClient githubExchanger, logger *slog.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if m == nil {
		m = metrics.Default()
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		jwt:     jwtService,
		github:  githubClient,
		logger:  logger,
		metrics: m,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/user", s.withSession(s.handleUser))
	mux.HandleFunc("GET /api/metadata/{id}", s.handleGetMetadata)
	mux.HandleFunc("POST /api/metadata", s.withSession(s.handleCreateMetadata))
	mux.HandleFunc("GET /api/file/{id}/{seq}", s.handleGetBlock)
	mux.HandleFunc("POST /api/file/{id}/{seq}", s.withSession(s.handlePutBlock))
	mux.HandleFunc("GET /auth/github", s.handleGitHubLogin)
	mux.HandleFunc("GET /auth/authorized", s.handleGitHubCallback)

	s.server = &http.Server{
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Start begins serving on cfg.ListenAddr in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.running.Store(true)

	go s.server.Serve(ln)
	return nil
}

// Shutdown gracefully stops the server, waiting up to the given context's
// deadline for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if !s.running.Swap(false) {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Addr returns the server's bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// withSession gates a handler behind a valid, allowlisted session cookie.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	wrapped := auth.RequireSession(s.jwt, s.cfg)(next)
	return wrapped.ServeHTTP
}

func randomShareID(n int) (string, error) {
	return shareid.New(n)
}
