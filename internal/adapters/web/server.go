package web

import (
	"bedrockbot/internal/core/domain"
	"bedrockbot/internal/core/port"
	"bedrockbot/internal/core/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	MaxPromptChars = 1000

	ReadTimeout     = 15 * time.Second
	WriteTimeout    = 10 * time.Minute
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 10 * time.Second
)

type Params struct {
	Addr           string
	TextGenerator  port.TextGenerator
	ImageGenerator port.ImageGenerator
	Auditor        *service.Auditor
	Languages      []string
	Suggestions    []string
	Template       string
}

// Server exposes the chat front-end: text answers, image generation and a health check.
type Server struct {
	textGenerator  port.TextGenerator
	imageGenerator port.ImageGenerator
	auditor        *service.Auditor
	languages      []string
	suggestions    []string
	template       string

	server *http.Server
}

func NewServer(p Params) *Server {
	s := &Server{
		textGenerator:  p.TextGenerator,
		imageGenerator: p.ImageGenerator,
		auditor:        p.Auditor,
		languages:      p.Languages,
		suggestions:    p.Suggestions,
		template:       p.Template,
	}

	if len(s.languages) == 0 {
		s.languages = []string{"english"}
	}
	if s.template == "" {
		s.template = domain.DefaultTemplate
	}

	s.server = &http.Server{
		Addr:         p.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("POST /api/image", s.handleImage)

	return requestLogger(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("starting web server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type optionsResponse struct {
	Languages   []string `json:"languages"`
	Suggestions []string `json:"suggestions"`
	Template    string   `json:"template"`
}

func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Languages:   s.languages,
		Suggestions: s.suggestions,
		Template:    s.template,
	})
}

type askRequest struct {
	Language string `json:"language"`
	Prompt   string `json:"prompt"`
	Template string `json:"template,omitempty"`
}

type askResponse struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Language == "" {
		req.Language = s.languages[0]
	}

	if err := s.validate(req.Prompt, req.Language); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	template := req.Template
	if strings.TrimSpace(template) == "" {
		template = s.template
	}

	response, err := s.textGenerator.GenerateText(r.Context(), domain.TextPrompt{
		Language: req.Language,
		Text:     req.Prompt,
		Template: template,
	})
	if err != nil {
		l.Error().Err(err).Msg("failed to generate response")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to generate response"})
		return
	}

	s.auditor.Answered(r.Context(), req.Prompt, response)

	writeJSON(w, http.StatusOK, askResponse{Question: req.Prompt, Response: response})
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())

	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.validate(req.Prompt, s.languages[0]); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	image, err := s.imageGenerator.GenerateFromPrompt(r.Context(), req.Prompt)
	if err != nil {
		l.Error().Err(err).Msg("failed to generate image")
		s.auditor.ImageFailed(r.Context(), req.Prompt)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to generate image."})
		return
	}

	s.auditor.ImageGenerated(r.Context(), req.Prompt)

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		l.Warn().Err(err).Msg("failed to write image response")
	}
}

func (s *Server) validate(prompt, language string) error {
	if strings.TrimSpace(prompt) == "" {
		return domain.ErrEmptyPrompt
	}

	if utf8.RuneCountInString(prompt) > MaxPromptChars {
		return errors.New("prompt exceeds 1000 characters")
	}

	if !slices.Contains(s.languages, language) {
		return domain.ErrUnknownLanguage
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
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

// requestLogger attaches a request-scoped logger with a request id and logs every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			if id, err := uuid.NewV4(); err == nil {
				requestID = id.String()
			}
		}
		w.Header().Set("X-Request-ID", requestID)

		l := log.With().
			Str("requestId", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(l.WithContext(r.Context())))

		l.Debug().Int("status", rec.status).Dur("took", time.Since(start)).Msg("handled request")
	})
}
