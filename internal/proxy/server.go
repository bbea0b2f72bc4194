// Package proxy re-exposes the answer service to browser front-ends.
//
// Front-ends post the whole visible conversation; only the content of the
// last message is forwarded as the question, and the reply comes back as an
// assistant message.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/tidwall/gjson"

	"github.com/diogo/fitbot/internal/api"
	apierrors "github.com/diogo/fitbot/internal/errors"
	"github.com/diogo/fitbot/internal/models"
)

// Routes served by the proxy
const (
	ChatRoute      = "/api/chat"
	HealthRoute    = "/api/health"
	HeartbeatRoute = "/healthz"
)

const maxRequestBody = 1 << 20

// Server handles the proxy routes
type Server struct {
	client         api.AnswerClient
	logger         *slog.Logger
	allowedOrigins []string
	timeout        time.Duration
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request and failure logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins sets the CORS origins; "*" allows any origin
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithTimeout bounds each upstream call
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// New creates a proxy that forwards to client
func New(client api.AnswerClient, opts ...Option) *Server {
	s := &Server{
		client:         client,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		allowedOrigins: []string{"*"},
		timeout:        api.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the global middleware stack
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat(HeartbeatRoute))
	r.Use(CORS(s.allowedOrigins))

	r.Post(ChatRoute, s.handleChat)
	r.Get(HealthRoute, s.handleHealth)

	return r
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Upstream  string `json:"upstream"`
	Timestamp string `json:"timestamp,omitempty"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: chiMiddleware.GetReqID(r.Context()),
	})
}

// questionFromBody decodes a {messages:[...]} body and returns the last
// message content
func questionFromBody(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("invalid JSON body")
	}
	if !gjson.GetBytes(body, "messages").IsArray() {
		return "", errors.New("messages must be an array")
	}
	var req models.ProxyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", errors.New("messages must be a list of {role, content}")
	}
	return req.Question()
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return
	}

	question, err := questionFromBody(body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	answer, err := s.client.Ask(ctx, question)
	if err != nil {
		s.logger.Warn("upstream chat failed",
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"reason", string(apierrors.GetReason(err)),
			"status", apierrors.GetHTTPStatus(err),
			"error", err,
		)
		writeJSON(w, http.StatusBadGateway, models.ProxyResponse{
			Role:    models.RoleAssistant,
			Content: models.FallbackAnswer,
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ProxyResponse{
		Role:    models.RoleAssistant,
		Content: answer,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	upstream := s.client.BaseURL()
	status, err := s.client.Health(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "unreachable",
			Upstream: upstream,
			Error:    err.Error(),
		})
		return
	}

	resp := healthResponse{
		Status:    status.Status,
		Upstream:  upstream,
		Timestamp: status.Timestamp,
		LatencyMS: status.Latency.Milliseconds(),
	}
	if resp.Status == "" {
		resp.Status = "healthy"
	}

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// WriteTimeout is the response write deadline matching the upstream timeout
func (s *Server) WriteTimeout() time.Duration {
	return WriteTimeout(s.timeout)
}

func (s *Server) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
