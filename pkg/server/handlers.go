package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jaspreet-dot-casa/ec2info/pkg/metadata"
	"github.com/jaspreet-dot-casa/ec2info/pkg/server/views"
)

// unavailableMessage is the only error detail exposed to clients.
const unavailableMessage = "instance metadata unavailable"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.fetch(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusBadGateway)
		if err := views.ErrorPage(unavailableMessage).Render(r.Context(), w); err != nil {
			s.logger.Error("render error page", zap.Error(err))
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := views.IndexPage(rec).Render(r.Context(), w); err != nil {
		s.logger.Error("render index page", zap.Error(err))
	}
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.fetch(r.Context())
	if !ok {
		writeError(w, http.StatusBadGateway, unavailableMessage)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// fetch performs the single upstream call for a request and records its outcome.
func (s *Server) fetch(ctx context.Context) (*metadata.Record, bool) {
	start := time.Now()
	rec, err := s.fetcher.Fetch(ctx)
	s.metrics.observeFetch(time.Since(start), err)

	if err != nil {
		s.logger.Error("metadata fetch failed",
			zap.String("request_id", requestIDFrom(ctx)),
			zap.Error(err))
		return nil, false
	}
	return rec, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
