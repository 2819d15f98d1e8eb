package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crimson-sun/triage/internal/engine"
	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/loader"
	"github.com/crimson-sun/triage/internal/logging"
	"github.com/crimson-sun/triage/internal/model"
)

// Response bodies.
const (
	msgWorking        = "Ticket classifier API is working"
	msgMissingText    = "Missing 'text' field"
	msgNotLoaded      = "Model not loaded"
	msgFailed         = "Classification failed"
	msgBodyTooLarge   = "Request body too large"
	defaultMaxBodyLen = 1 << 20
)

// Classifier is the classification service; *engine.Engine implements it.
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Prediction, error)
}

// Status reports model readiness; *loader.Loader implements it.
type Status interface {
	State() loader.State
	Device() classifier.Device
}

// Option configures a Server.
type Option func(*Server)

// WithStatus enables GET /status.
func WithStatus(s Status) Option {
	return func(srv *Server) { srv.status = s }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.log = l }
}

// WithMaxBodyBytes caps request bodies. Default: 1 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(srv *Server) {
		if n > 0 {
			srv.maxBody = n
		}
	}
}

// WithAllowOrigin sets the CORS allowed origin. Default: "*".
func WithAllowOrigin(origin string) Option {
	return func(srv *Server) { srv.allowOrigin = origin }
}

// Server is the HTTP surface of the classification service.
type Server struct {
	cls         Classifier
	status      Status
	log         *slog.Logger
	maxBody     int64
	allowOrigin string
}

// New creates a Server answering with cls.
func New(cls Classifier, opts ...Option) *Server {
	s := &Server{
		cls:     cls,
		log:     slog.Default(),
		maxBody: defaultMaxBodyLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, logged, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /classify", s.handleClassify)
	if s.status != nil {
		mux.HandleFunc("GET /status", s.handleStatus)
	}
	return requestLog(s.log, CORS{AllowOrigin: s.allowOrigin}.Wrap(mux))
}

type classifyRequest struct {
	Text *string `json:"text"`
}

type classifyResponse struct {
	Prediction model.Prediction `json:"prediction"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msgWorking})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	state := s.status.State()
	body := map[string]string{"state": state.String()}
	if state == loader.Ready {
		body["device"] = s.status.Device().String()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleClassify decodes leniently: a malformed body is treated as missing
// text so that readiness is still reported first.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgBodyTooLarge})
			return
		}
		logging.FromContext(r.Context(), s.log).Debug("undecodable classify body", "err", err)
	}
	text := ""
	if req.Text != nil {
		text = *req.Text
	}

	pred, err := s.cls.Classify(r.Context(), text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, classifyResponse{Prediction: pred})
	case errors.Is(err, engine.ErrServiceUnavailable):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgNotLoaded})
	case errors.Is(err, engine.ErrBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMissingText})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgFailed})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
