// Package server is the thin HTTP shell over the query-understanding
// pipeline: request decoding, validation, and status mapping only.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/querylens-ai/querylens/pkg/extract"
	"github.com/querylens-ai/querylens/pkg/llm"
	"github.com/querylens-ai/querylens/pkg/models"
	"github.com/querylens-ai/querylens/pkg/pipeline"
)

const (
	serviceName = "querylens"
	apiVersion  = "1.0.0"
)

// Server serves the query-understanding API.
type Server struct {
	pipe *pipeline.Pipeline
	mux  *http.ServeMux
}

// New creates a Server around the given pipeline.
func New(pipe *pipeline.Pipeline) *Server {
	s := &Server{
		pipe: pipe,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("/parse", s.handleParse)
	s.mux.HandleFunc("/inspect", s.handleInspect)
	s.mux.HandleFunc("/test", s.handleTest)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/", s.handleRoot)
	return s
}

// ServeHTTP implements http.Handler with request logging applied.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withRequestLog(s.mux).ServeHTTP(w, r)
}

// ListenAndServe starts the server with graceful shutdown support.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("querylens listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

// queryRequest is the body of /parse, /inspect, and /test.
type queryRequest struct {
	Query string `json:"query"`
}

// readQuery decodes the request body and validates the query. A written
// response means the caller should return immediately.
func readQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSONError(w, http.StatusBadRequest, "query cannot be empty")
		return "", false
	}
	return query, true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.pipe.Understand(r.Context(), query)
	if err != nil {
		var genErr *llm.GenerationError
		if errors.As(err, &genErr) {
			log.Printf("generation failed for query %q: %v", query, err)
			writeJSONError(w, http.StatusBadGateway, "language model generation failed")
			return
		}
		var extErr *extract.Error
		if errors.As(err, &extErr) {
			log.Printf("extraction failed for query %q: raw output %q", query, extErr.RawText)
			writeJSONError(w, http.StatusInternalServerError, "could not extract structured data from model output")
			return
		}
		log.Printf("pipeline error for query %q: %v", query, err)
		writeJSONError(w, http.StatusInternalServerError, "error processing query")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r)
	if !ok {
		return
	}

	result, err := s.pipe.Inspect(r.Context(), query)
	if err != nil {
		log.Printf("inspect failed for query %q: %v", query, err)
		writeJSONError(w, http.StatusBadGateway, "language model generation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleTest parses with keyword tables alone, so the API shape can be
// exercised without a running inference endpoint.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	query, ok := readQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	pq := pipeline.KeywordParse(query)
	writeJSON(w, http.StatusOK, &models.QueryResponse{
		Query:       query,
		ParsedQuery: pq,
		Cached:      false,
		TotalTime:   time.Since(start).Seconds(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": apiVersion,
		"endpoints": map[string]string{
			"/parse":   "Parse a search query into structured data",
			"/inspect": "Return the raw model output for a query",
			"/test":    "Parse with keyword rules only, no model",
			"/health":  "Health check",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
