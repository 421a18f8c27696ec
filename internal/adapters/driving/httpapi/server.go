// Package httpapi exposes ingestion and question answering over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/docsage-labs/docsage/internal/core/domain"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
	"github.com/docsage-labs/docsage/internal/core/ports/driving"
	"github.com/docsage-labs/docsage/internal/logger"
)

// MaxUploadBytes caps PDF uploads at 32 MiB.
const MaxUploadBytes = 32 << 20

// Server handles the HTTP API. History recording is best-effort; a
// failure to record never fails the request.
type Server struct {
	ingestor driving.Ingestor
	answerer driving.Answerer
	history  driven.HistoryStore
	mux      *http.ServeMux
}

// NewServer creates an HTTP API server. history may be nil to disable
// exchange recording.
func NewServer(ingestor driving.Ingestor, answerer driving.Answerer, history driven.HistoryStore) *Server {
	s := &Server{
		ingestor: ingestor,
		answerer: answerer,
		history:  history,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /upload-pdf", s.handleUploadPDF)
	s.mux.HandleFunc("POST /query", s.handleQuery)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("HTTP API listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// healthResponse is the GET /health payload.
type healthResponse struct {
	Status string `json:"status"`
}

// uploadResponse is the POST /upload-pdf payload.
type uploadResponse struct {
	Filename  string `json:"filename"`
	NumChunks int    `json:"num_chunks"`
	Status    string `json:"status"`
}

// queryRequest is the POST /query body.
type queryRequest struct {
	Question string `json:"question"`
}

// queryResponse is the POST /query payload.
type queryResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, fmt.Errorf("only PDF files are accepted, got %q", header.Filename))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}

	receipt, err := s.ingestor.IngestPDF(r.Context(), header.Filename, data)
	if err != nil {
		logger.Warn("upload of %s failed: %v", header.Filename, err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Filename:  receipt.DocumentName,
		NumChunks: receipt.ChunksWritten,
		Status:    "uploaded",
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	answer, err := s.answerer.Ask(r.Context(), req.Question)
	if err != nil {
		logger.Warn("query failed: %v", err)
		writeError(w, statusFor(err), err)
		return
	}

	if s.history != nil {
		if err := s.history.SaveExchange(r.Context(), answer.Question, answer.Text, len(answer.Sources)); err != nil {
			logger.Warn("failed to record exchange: %v", err)
		}
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, queryResponse{
		Question: answer.Question,
		Answer:   answer.Text,
		Sources:  sources,
	})
}

// statusFor maps domain errors to HTTP status codes. Client mistakes
// are 400s; everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrExtraction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
