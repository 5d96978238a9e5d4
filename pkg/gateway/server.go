package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
	"github.com/harper/lumi/pkg/lesson"
	"github.com/harper/lumi/pkg/planner"
)

// LessonGenerator produces lesson plans via the fallback chain.
type LessonGenerator interface {
	GenerateLessonPlan(ctx context.Context, req lesson.PlanRequest) *lesson.Plan
}

// SessionPlanner plans sessions via the workflow engine.
type SessionPlanner interface {
	PlanLearnerSession(ctx context.Context, req planner.SessionRequest) (*planner.SessionResult, error)
}

// Server is the inbound HTTP gateway.
type Server struct {
	port         int
	sharedSecret string
	server       *http.Server
	upgrader     websocket.Upgrader
	validator    *requestValidator
	observers    *ObserverRegistry
	broadcaster  *EventBroadcaster
	lessons      LessonGenerator
	sessions     SessionPlanner
	logger       zerolog.Logger

	isShuttingDown bool
	shutdownMu     sync.RWMutex
	inFlightReqs   sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	Port         int
	SharedSecret string
	Lessons      LessonGenerator
	Sessions     SessionPlanner
	Logger       zerolog.Logger
}

// NewServer creates a new gateway server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Lessons == nil {
		return nil, fmt.Errorf("lesson generator is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session planner is required")
	}

	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}

	observers := NewObserverRegistry()

	s := &Server{
		port:         cfg.Port,
		sharedSecret: cfg.SharedSecret,
		validator:    validator,
		observers:    observers,
		broadcaster:  NewEventBroadcaster(observers, cfg.Logger),
		lessons:      cfg.Lessons,
		sessions:     cfg.Sessions,
		logger:       cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	return s, nil
}

// Broadcaster exposes the event broadcaster so the daemon can wire it as
// the workflow engine's trace sink.
func (s *Server) Broadcaster() *EventBroadcaster {
	return s.broadcaster
}

// Start starts the gateway server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/lesson-plans", s.instrumented("/v1/lesson-plans", s.handleLessonPlan))
	mux.HandleFunc("/v1/session-plans", s.instrumented("/v1/session-plans", s.handleSessionPlan))
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", observability.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	s.logger.Info().Int("port", s.port).Msg("Starting gateway server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Gateway server error")
		}
	}()

	return nil
}

// Stop gracefully stops the gateway server, waiting for in-flight planning
// requests before closing observer connections.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("Shutting down gateway server")

	done := make(chan struct{})
	go func() {
		s.inFlightReqs.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		s.logger.Warn().Msg("Shutdown timeout reached, forcing close")
	}

	for _, client := range s.observers.all() {
		client.conn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

func (s *Server) shuttingDown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.isShuttingDown
}

// handleWebSocket upgrades observer connections. Observers are read-only;
// they receive planning events and send nothing.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	if s.sharedSecret != "" && r.Header.Get("X-Lumi-Secret") != s.sharedSecret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	clientID, _ := gonanoid.New()
	client := &observerClient{id: clientID, conn: conn}
	s.observers.add(client)

	s.logger.Info().
		Str("client_id", clientID).
		Str("ip", r.RemoteAddr).
		Msg("Observer connected")

	go func() {
		defer func() {
			conn.Close()
			s.observers.remove(clientID)
			s.logger.Info().Str("client_id", clientID).Msg("Observer disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// instrumented wraps a handler with in-flight tracking and HTTP metrics.
func (s *Server) instrumented(path string, handler func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.shuttingDown() {
			http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
			return
		}

		s.inFlightReqs.Add(1)
		defer s.inFlightReqs.Done()

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(recorder, r)
		observability.RecordHTTPRequest(path, fmt.Sprintf("%d", recorder.status), time.Since(start))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
