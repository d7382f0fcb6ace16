package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kud/referrals/internal/board"
	"github.com/kud/referrals/internal/gateway"
	"github.com/kud/referrals/internal/models"
)

func (s *Server) renderError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmplFunc(w, "error.html", nil); err != nil {
		slog.Error("Failed to render error template", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (s *Server) HandleReferrals(w http.ResponseWriter, r *http.Request) {
	records, err := s.referrals.FetchReferrals(r.Context())
	if err != nil {
		var cfgErr *gateway.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Server configuration error"})
			return
		}
		slog.Error("Failed to fetch referrals", "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch referrals"})
		return
	}

	if records == nil {
		records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, models.ReferralsResponse{Items: records})
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	records, err := s.referrals.FetchReferrals(r.Context())
	if err != nil {
		slog.Error("Failed to load referrals", "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}

	selected := r.URL.Query().Get("type")
	if selected == "" {
		selected = board.AllCategories
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmplFunc(w, "index.html", indexPageData(records, selected)); err != nil {
		slog.Error("Failed to render index template", "error", err)
	}
}

func indexPageData(records []models.Record, selected string) models.IndexPageData {
	categories := board.Categories(records)
	data := models.IndexPageData{
		Selected:      selected,
		Total:         len(records),
		CategoryCount: len(categories) - 1,
	}
	for _, c := range categories {
		data.Categories = append(data.Categories, models.CategoryOption{
			Value:    c,
			Label:    board.DisplayCategory(c),
			Selected: c == selected,
		})
	}
	for _, e := range board.VisibleOrder(records, selected) {
		data.Cards = append(data.Cards, models.CardData{
			Key:         e.Key,
			Record:      e.Record,
			Interactive: e.Interactive,
		})
	}
	return data
}

func (s *Server) HandleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, FormatBuildVersion(s.version))
}

func (s *Server) serveFile(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := s.assets.Open(path)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer func() { _ = file.Close() }()
		_, _ = io.Copy(w, file)
	}
}

func (s *Server) cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set("Cache-Control", "public, max-age=86400")
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}
