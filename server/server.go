// Package server exposes the translation coordinator over JSON/HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ZaguanLabs/lingoq"
	"github.com/ZaguanLabs/lingoq/cache"
	"github.com/ZaguanLabs/lingoq/htmltext"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; pages larger than this are not UI text.
const maxBodyBytes = 2 << 20

// Coordinator is the part of *lingoq.Coordinator the server needs.
type Coordinator interface {
	Do(ctx context.Context, req lingoq.Request) (lingoq.Result, error)
	Stats() lingoq.Stats
}

// Server serves the translation API.
type Server struct {
	listen    string
	coord     Coordinator
	localizer *htmltext.Localizer
	store     cache.Maintainer
	logger    *zap.Logger
	mux       *http.ServeMux
}

// New creates a Server. store may be nil when cache stats are unavailable.
func New(listen string, coord Coordinator, localizer *htmltext.Localizer, store cache.Maintainer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		listen:    listen,
		coord:     coord,
		localizer: localizer,
		store:     store,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("/v1/translate", s.handleTranslate)
	s.mux.HandleFunc("/v1/localize", s.handleLocalize)
	s.mux.HandleFunc("/v1/stats", s.handleStats)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Translation API listening", zap.String("addr", s.listen))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type translateRequest struct {
	Texts      []string `json:"texts"`
	TargetLang string   `json:"targetLang"`
}

type translateResponse struct {
	Texts  []string            `json:"texts"`
	Source lingoq.ResultSource `json:"source"`
}

type localizeRequest struct {
	HTML       string `json:"html"`
	TargetLang string `json:"targetLang"`
}

type localizeResponse struct {
	HTML string `json:"html"`
}

type statsResponse struct {
	Queue lingoq.Stats `json:"queue"`
	Cache *cache.Stats `json:"cache,omitempty"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req translateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Texts) == 0 {
		writeJSONError(w, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if req.TargetLang == "" {
		writeJSONError(w, http.StatusBadRequest, "targetLang is required")
		return
	}

	res, err := s.coord.Do(r.Context(), lingoq.Request{Texts: req.Texts, TargetLang: req.TargetLang})
	if err != nil {
		s.logger.Debug("Translate request abandoned by client", zap.Error(err))
		writeJSONError(w, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{Texts: res.Texts, Source: res.Source})
}

func (s *Server) handleLocalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req localizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TargetLang == "" {
		writeJSONError(w, http.StatusBadRequest, "targetLang is required")
		return
	}

	out, err := s.localizer.Localize(r.Context(), req.HTML, req.TargetLang)
	if err != nil {
		if r.Context().Err() != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "request cancelled")
			return
		}
		s.logger.Warn("Localize failed", zap.String("target_lang", req.TargetLang), zap.Error(err))
		writeJSONError(w, http.StatusUnprocessableEntity, "could not localize document")
		return
	}

	writeJSON(w, http.StatusOK, localizeResponse{HTML: out})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := statsResponse{Queue: s.coord.Stats()}
	if s.store != nil {
		cs, err := s.store.Stats()
		if err != nil {
			s.logger.Warn("Cache stats unavailable", zap.Error(err))
		} else {
			resp.Cache = &cs
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"message": msg},
	})
}
