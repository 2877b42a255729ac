package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	gateway "github.com/danilofalcao/coder-gateway/internal/api/gateway/v1"
	"github.com/danilofalcao/coder-gateway/internal/backend"
	"github.com/danilofalcao/coder-gateway/internal/backend/util"
	"github.com/danilofalcao/coder-gateway/internal/server/logger"
	"github.com/danilofalcao/coder-gateway/internal/server/middleware"
	logutils "github.com/danilofalcao/coder-gateway/internal/utils/logger"
	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

const defaultTimeout = 30 * time.Second

// Options configures the server
type Options struct {
	Port     string
	Backend  backend.Backend
	LogLevel string
	// Model is reported verbatim by /health
	Model   string
	Timeout string
	ExitCh  chan string
}

// Server represents the API server
type Server struct {
	ctx     context.Context
	port    string
	backend backend.Backend
	model   string
	timeout time.Duration
	exitCh  chan string
}

// New creates a new server instance
func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("backend is required")
	}

	// set up the server's logger
	lgr := logger.New(
		ctx,
		"server",
		logger.LevelFromString(opts.LogLevel),
		opts.ExitCh,
	)
	ctx = logutils.ContextWithLogger(ctx, lgr)

	timeout, err := time.ParseDuration(opts.Timeout)
	if err != nil || timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Server{
		ctx:     ctx,
		port:    opts.Port,
		backend: opts.Backend,
		model:   opts.Model,
		timeout: timeout,
		exitCh:  opts.ExitCh,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/v1/completions", s.handleCompletions)
	mux.HandleFunc("/health", s.handleHealth)

	return middleware.Wrap(s.ctx, mux, middleware.Params{
		Timeout: s.timeout,
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:        ":" + s.port,
		Handler:     s.Handler(),
		BaseContext: func(l net.Listener) context.Context { return s.ctx },
	}

	lgr := logutils.FromContext(s.ctx)

	// Enable HTTP/2 support
	if err := http2.ConfigureServer(srv, nil); err != nil {
		err = errors.Wrap(err, "error configuring HTTP/2")
		lgr.Fatal(s.ctx, err.Error())
		return err
	}

	lgr.Infof(s.ctx, "Starting server on port %s using backend %s", s.port, s.backend.Name())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		err = errors.Wrap(err, "error serving")
		lgr.Fatal(s.ctx, err.Error())
		return err
	}
	return nil
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lgr := logutils.FromContext(ctx)
	// Validate request method
	if r.Method != http.MethodPost {
		lgr.Infof(ctx, "Invalid method %s", r.Method)
		util.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Parse request
	var req gateway.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// malformed JSON and wrong field types are validation failures
		err = errors.Wrap(err, "error parsing request")
		lgr.Info(ctx, err.Error())
		util.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Prompt == "" {
		lgr.Info(ctx, "Rejected request without prompt")
		util.WriteError(w, http.StatusUnprocessableEntity, "prompt is required")
		return
	}

	resp, err := s.backend.Complete(ctx, &req)
	if err != nil {
		s.writeBackendError(ctx, w, err)
		return
	}

	if err := util.WriteJSON(w, http.StatusOK, resp); err != nil {
		err = errors.Wrap(err, "error encoding response")
		lgr.Error(ctx, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lgr := logutils.FromContext(ctx)
	// Validate request method
	if r.Method != http.MethodGet {
		lgr.Infof(ctx, "Invalid method %s", r.Method)
		util.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := s.backend.Health(ctx); err != nil {
		be := backend.AsError(err)
		detail := be.Error()
		if be.Kind == backend.KindStatus {
			detail = "backend unhealthy"
		}
		lgr.Warnf(ctx, "health check failed: %s", be.Error())
		util.WriteError(w, http.StatusServiceUnavailable, detail)
		return
	}

	if err := util.WriteJSON(w, http.StatusOK, gateway.HealthStatus{
		Status: gateway.StatusHealthy,
		Model:  s.model,
	}); err != nil {
		err = errors.Wrap(err, "error encoding response")
		lgr.Error(ctx, err.Error())
	}
}

// writeBackendError translates a backend failure into a status/detail pair.
// Internal failures are logged at error level before being reported.
func (s *Server) writeBackendError(ctx context.Context, w http.ResponseWriter, err error) {
	lgr := logutils.FromContext(ctx)
	be := backend.AsError(err)

	switch be.Kind {
	case backend.KindInternal:
		lgr.Errorf(ctx, "completion failed: %s", be.Error())
	default:
		lgr.Warnf(ctx, "completion failed (%s): %s", be.Kind, be.Error())
	}

	util.WriteError(w, be.HTTPStatus(), be.Detail())
}
