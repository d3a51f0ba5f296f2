// Package api exposes the aggregated search over a small HTTP surface for
// the front-end video player.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/reelearn/shorts-api/internal/search"
	"github.com/reelearn/shorts-api/internal/video"
)

const apiVersion = "1.0.0"

const (
	defaultMaxResults = 50
	maxMaxResults     = 50

	embedWidth  = 315
	embedHeight = 560
)

// Searcher runs one aggregated search.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// Server is the HTTP facade over the aggregator.
type Server struct {
	searcher      Searcher
	geminiEnabled bool
	port          int
	logger        *slog.Logger
}

// NewServer creates the HTTP facade.
func NewServer(searcher Searcher, geminiEnabled bool, port int, logger *slog.Logger) *Server {
	return &Server{
		searcher:      searcher,
		geminiEnabled: geminiEnabled,
		port:          port,
		logger:        logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /embed/{video_id}", s.handleEmbed)
	mux.HandleFunc("POST /batch-embed", s.handleBatchEmbed)

	return withCORS(mux)
}

// Run serves HTTP until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting HTTP server", "addr", addr)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		if err := httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Error("failed to shut down HTTP server", "error", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"message":        "Shorts Video API is running",
		"version":        apiVersion,
		"gemini_enabled": s.geminiEnabled,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("query")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	maxResults := defaultMaxResults
	if raw := q.Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxMaxResults {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("max_results must be between 1 and %d", maxMaxResults))
			return
		}
		maxResults = n
	}

	optimize := true
	if raw := q.Get("optimize"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "optimize must be a boolean")
			return
		}
		optimize = b
	}

	var sources []string
	if raw := q.Get("sources"); raw != "" {
		sources = strings.Split(raw, ",")
	}

	result, err := s.searcher.Search(r.Context(), search.Request{
		Query:      query,
		MaxResults: maxResults,
		Optimize:   optimize,
		Sources:    sources,
	})
	switch {
	case errors.Is(err, search.ErrUnknownSource):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, search.ErrSourceNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.logger.Error("search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	videos := result.Videos
	if videos == nil {
		videos = []video.Video{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"videos":          videos,
		"count":           len(videos),
		"query":           query,
		"optimized_query": strings.Join(result.Phrases, ", "),
	})
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("video_id")
	if strings.TrimSpace(videoID) == "" {
		writeError(w, http.StatusBadRequest, "video_id parameter is required")
		return
	}

	embedURL := "https://www.youtube.com/embed/" + videoID
	writeJSON(w, http.StatusOK, map[string]any{
		"embed_url": embedURL,
		"video_id":  videoID,
		"title":     "Video " + videoID,
		"html":      video.EmbedHTML(videoID, embedWidth, embedHeight),
	})
}

func (s *Server) handleBatchEmbed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VideoIDs []string `json:"video_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.VideoIDs) == 0 {
		writeError(w, http.StatusBadRequest, "video_ids list cannot be empty")
		return
	}

	embeds := make([]map[string]string, 0, len(req.VideoIDs))
	for _, id := range req.VideoIDs {
		embeds = append(embeds, map[string]string{
			"video_id":  id,
			"embed_url": "https://www.youtube.com/embed/" + id,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"embeds": embeds,
		"count":  len(embeds),
	})
}

// withCORS allows the browser front end to call the API directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError mirrors the {"detail": ...} error shape the front end expects.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
