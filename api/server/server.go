package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/interfaces"
	"github.com/oneagent-tests/installer-server/metrics"
	"go.uber.org/atomic"
)

// State is the lifecycle position of a Server.
type State int32

const (
	StateIdle State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// RouteRegistrar is implemented by handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Server is a TLS listener serving the registered handlers. It moves from
// idle to listening on Start and to stopped on Shutdown or when serving
// fails; it cannot be restarted.
type Server struct {
	cfg     *api.HTTPServerConfig
	log     *slog.Logger
	state   atomic.Int32
	isReady atomic.Bool

	srv        *http.Server
	metricsSrv *metrics.MetricsServer

	// mu serialises binding in Start against shutdown; listener is only
	// set while holding it.
	mu       sync.Mutex
	listener net.Listener

	serveDone    chan struct{}
	serveErr     error
	shutdownOnce sync.Once
}

// New builds a server with its own router. Nothing is bound until Start.
func New(cfg *api.HTTPServerConfig, log *slog.Logger, m *metrics.Metrics, handlers ...RouteRegistrar) *Server {
	srv := &Server{
		cfg:       cfg,
		log:       log,
		serveDone: make(chan struct{}),
	}

	srv.srv = &http.Server{
		Handler:      srv.getRouter(handlers),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelWarn),
	}

	if cfg.MetricsAddr != "" {
		srv.metricsSrv = metrics.NewMetricsServer(m, cfg.MetricsAddr)
	}
	return srv
}

func (srv *Server) getRouter(handlers []RouteRegistrar) http.Handler {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Use(srv.httpLogger)

	for _, h := range handlers {
		h.RegisterRoutes(mux)
	}

	// Health and diagnostic endpoints
	mux.Get("/livez", srv.handleLivenessCheck)
	mux.Get("/readyz", srv.handleReadinessCheck)

	if srv.cfg.EnablePprof {
		srv.log.Info("pprof API enabled")
		mux.Mount("/debug", middleware.Profiler())
	}
	return mux
}

func (srv *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(srv.log, next)
}

func (srv *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"alive"}`))
}

func (srv *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !srv.isReady.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Start loads the server key pair from the configured work directory, binds
// the TLS listener and begins serving in the background. Errors are wrapped
// in interfaces.ErrBindFailed and leave nothing bound. The server only
// reports StateListening once the listener is bound.
func (srv *Server) Start() error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if state := srv.State(); state != StateIdle {
		return fmt.Errorf("%w: server is %s", interfaces.ErrBindFailed, state)
	}

	cert, err := tls.LoadX509KeyPair(srv.cfg.ServerCertPath(), srv.cfg.ServerKeyPath())
	if err != nil {
		srv.state.Store(int32(StateStopped))
		return fmt.Errorf("%w: %w", interfaces.ErrBindFailed, err)
	}

	addr := net.JoinHostPort(srv.cfg.BindAddress, strconv.Itoa(srv.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		srv.state.Store(int32(StateStopped))
		return fmt.Errorf("%w: %w", interfaces.ErrBindFailed, err)
	}

	listener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	srv.listener = listener
	srv.state.Store(int32(StateListening))
	srv.isReady.Store(true)

	if srv.metricsSrv != nil {
		go func() {
			srv.log.With("metricsAddress", srv.cfg.MetricsAddr).Info("Starting metrics server")
			err := srv.metricsSrv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				srv.log.Error("Metrics server failed", "err", err)
			}
		}()
	}

	go func() {
		defer close(srv.serveDone)
		srv.log.Info("Starting HTTPS server", "listenAddress", listener.Addr().String())
		err := srv.srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.log.Error("HTTPS server failed", "err", err)
			srv.serveErr = err
			srv.isReady.Store(false)
			srv.state.Store(int32(StateStopped))
		}
	}()

	return nil
}

// Addr is the bound listener address, nil before Start.
func (srv *Server) Addr() net.Addr {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.listener == nil {
		return nil
	}
	return srv.listener.Addr()
}

// State returns the current lifecycle state.
func (srv *Server) State() State {
	return State(srv.state.Load())
}

// Done is closed when the listener stops serving, whether through Shutdown
// or a serve error.
func (srv *Server) Done() <-chan struct{} {
	return srv.serveDone
}

// Err returns the error that terminated serving, if any. It is only
// meaningful after Done is closed.
func (srv *Server) Err() error {
	select {
	case <-srv.serveDone:
		return srv.serveErr
	default:
		return nil
	}
}

// Shutdown stops accepting connections, waits up to the configured graceful
// period for in-flight transfers and then closes the remaining ones. It
// returns once the listener is released. Repeated calls are no-ops.
func (srv *Server) Shutdown() {
	srv.shutdownOnce.Do(srv.shutdown)
}

func (srv *Server) shutdown() {
	srv.mu.Lock()
	srv.isReady.Store(false)
	srv.state.Store(int32(StateStopped))
	bound := srv.listener != nil
	srv.mu.Unlock()
	if !bound {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.srv.Shutdown(ctx); err != nil {
		srv.log.Error("Graceful HTTPS server shutdown failed", "err", err)
		srv.srv.Close()
	} else {
		srv.log.Info("HTTPS server gracefully stopped")
	}
	<-srv.serveDone

	if srv.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), srv.cfg.ShutdownTimeout())
		defer cancel()

		if err := srv.metricsSrv.Shutdown(ctx); err != nil {
			srv.log.Error("Graceful metrics server shutdown failed", "err", err)
		} else {
			srv.log.Info("Metrics server gracefully stopped")
		}
	}
}
