package host

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifx-skill/internal/application"
	"lifx-skill/internal/dialog"
	"lifx-skill/internal/domain"
)

type Handler interface {
	Handle(ctx context.Context, intent domain.Intent, speaker application.Speaker) error
}

type intentRequest struct {
	Intent string       `json:"intent"`
	Data   domain.Slots `json:"data"`
}

type intentResponse struct {
	ID         string   `json:"id"`
	Intent     string   `json:"intent"`
	Utterances []string `json:"utterances"`
	Error      string   `json:"error,omitempty"`
}

const defaultWriteTimeout = 60 * time.Second

// Options configures the intent server.
type Options struct {
	Addr               string
	AuthToken          string
	RateLimitPerMinute int

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers may name the client. Empty means the headers are ignored.
	TrustedProxies []netip.Prefix

	// WriteTimeout bounds a whole intent exchange, including every LIFX call
	// the handler makes. Zero means 60s.
	WriteTimeout time.Duration
}

// Server is the HTTP bridge between the host voice runtime and the skill.
type Server struct {
	addr         string
	authToken    string
	writeTimeout time.Duration
	handler      Handler
	renderer     *dialog.Renderer
	logger       *slog.Logger
	mux          *http.ServeMux
	rateLimiter  *RateLimiter

	// dispatch serializes intent handling
	dispatch sync.Mutex

	mu      sync.Mutex
	server  *http.Server
	running bool
}

func NewServer(opts Options, handler Handler, renderer *dialog.Renderer, logger *slog.Logger) *Server {
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}

	s := &Server{
		addr:         opts.Addr,
		authToken:    opts.AuthToken,
		writeTimeout: writeTimeout,
		handler:      handler,
		renderer:     renderer,
		logger:       logger,
		mux:          http.NewServeMux(),
		rateLimiter:  NewRateLimiter(opts.RateLimitPerMinute, time.Minute, opts.TrustedProxies),
	}
	s.mux.HandleFunc("GET /intents", s.handleRegistrations)
	s.mux.HandleFunc("POST /intents", s.rateLimiter.Middleware(s.handleIntent))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("intent server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("intent server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := s.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	s.running = false
	return nil
}

func (s *Server) authorized(r *http.Request) bool {
	if s.authToken == "" {
		return true
	}
	token := r.Header.Get("X-Auth-Token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	return token == s.authToken
}

func (s *Server) handleRegistrations(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, domain.Registrations())
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		s.logger.Warn("unauthorized intent request", "remote_addr", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req intentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	resp := intentResponse{ID: uuid.NewString(), Intent: req.Intent}
	logger := s.logger.With("request_id", resp.ID, "intent", req.Intent)
	ctx := r.Context()
	out := &transcript{renderer: s.renderer}

	intent, err := domain.ParseIntent(req.Intent, req.Data)
	if err != nil {
		logger.Warn("rejected intent", "error", err)
		s.speakFallback(ctx, out, dialog.Whoops, logger)
		resp.Utterances = out.lines
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	s.dispatch.Lock()
	start := time.Now()
	err = s.handler.Handle(ctx, intent, out)
	s.dispatch.Unlock()

	if err != nil {
		logger.Error("handling intent", "error", err, "duration", time.Since(start))
		out.lines = nil
		s.speakFallback(ctx, out, dialog.Error, logger)
		resp.Utterances = out.lines
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	logger.Info("handled intent", "utterances", len(out.lines), "duration", time.Since(start))
	resp.Utterances = out.lines
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) speakFallback(ctx context.Context, out *transcript, id string, logger *slog.Logger) {
	if err := out.SpeakDialog(ctx, id, nil); err != nil {
		logger.Error("speaking fallback dialog", "dialog", id, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK

	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, map[string]any{"status": status, "running": running})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
