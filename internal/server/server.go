// Package server exposes the dashboard over HTTP: the /ws event stream, a
// health check, a status summary and the Prometheus diagnostics.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-dashboard/internal/config"
	"github.com/rxtech-lab/argo-dashboard/internal/logger"
	"github.com/rxtech-lab/argo-dashboard/internal/session"
	"github.com/rxtech-lab/argo-dashboard/internal/version"
	"github.com/rxtech-lab/argo-dashboard/pkg/errors"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	readLimit       = 512
)

// Server is the downstream HTTP surface.
type Server struct {
	cfg      config.ServerConfig
	session  *session.Session
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func NewServer(cfg config.ServerConfig, sess *session.Session, gatherer prometheus.Gatherer, log *logger.Logger) *Server {
	return &Server{
		cfg:      cfg,
		session:  sess,
		gatherer: gatherer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		log: log.Named("server"),
	}
}

// Handler returns the router with every route.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.OptionStatusCode(http.StatusNoContent),
	)

	return cors(router)
}

// Run listens on the configured address until ctx is cancelled. Open
// WebSocket connections are closed on the way out.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", s.cfg.Addr)
	}

	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.log.Info("HTTP server listening", zap.String("addr", listener.Addr().String()))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("HTTP server shutdown failed", zap.Error(err))
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	RunID     string    `json:"runId"`
	StartedAt time.Time `json:"startedAt"`
	Observers int       `json:"observers"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, statusResponse{
		Status:    "ok",
		Version:   version.GetVersion(),
		RunID:     s.session.RunID(),
		StartedAt: s.session.StartedAt(),
		Observers: s.session.Hub.Len(),
	})
}

// handleWebSocket registers the client with the hub until the connection
// fails or the server shuts down. Inbound frames are read and discarded.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("WebSocket upgrade failed", zap.Error(err))

		return
	}

	observer := newWSObserver(uuid.NewString(), conn, s.cfg.WriteTimeout)
	s.session.Hub.Add(observer)

	s.log.Info("Observer connected",
		zap.String("observer", observer.ID()),
		zap.String("remote", r.RemoteAddr),
	)

	done := make(chan struct{})
	go s.keepAlive(r.Context(), observer, done)

	s.readPump(conn)

	close(done)
	s.session.Hub.Remove(observer)
	observer.Close()

	s.log.Info("Observer disconnected", zap.String("observer", observer.ID()))
}

func (s *Server) readPump(conn *websocket.Conn) {
	idle := 2 * s.cfg.PingInterval

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(idle))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idle))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// keepAlive pings the client every PingInterval and closes the connection
// when ctx ends, which unblocks the read pump.
func (s *Server) keepAlive(ctx context.Context, observer *wsObserver, done <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			observer.Close()

			return
		case <-ticker.C:
			if err := observer.Ping(); err != nil {
				observer.Close()

				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
