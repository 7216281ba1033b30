package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/extractor"
	"github.com/BigLeagueAjay/Webscraper/models"
	"github.com/BigLeagueAjay/Webscraper/preparer"
)

// Fetcher downloads one page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Embedder maps texts to index-aligned vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Storage persists a record plus its embeddings.
type Storage interface {
	Save(ctx context.Context, content *models.ScrapedContent, texts models.PreparedTexts, embeddings models.EmbeddingSet) (*models.StorageResult, error)
}

// HistoryReader lists past saves.
type HistoryReader interface {
	RecentSaves(ctx context.Context, limit int) ([]models.HistoryEntry, error)
}

// Handler holds the pipeline collaborators behind the HTTP API.
type Handler struct {
	fetcher  Fetcher
	embedder Embedder
	store    Storage
	history  HistoryReader
	logger   zerolog.Logger
}

func NewHandler(fetcher Fetcher, embedder Embedder, store Storage, history HistoryReader, logger zerolog.Logger) *Handler {
	return &Handler{
		fetcher:  fetcher,
		embedder: embedder,
		store:    store,
		history:  history,
		logger:   logger,
	}
}

// handleScrape fetches one URL and extracts the enabled categories.
func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	rawHTML, err := h.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		h.logger.Warn().Str("url", req.URL).Err(err).Msg("scrape failed")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	content := extractor.Extract(rawHTML, req.URL, req.ContentTypes)
	writeJSON(w, http.StatusOK, models.ScrapeResponse{Success: true, Content: content})
}

// handleSave prepares, embeds and persists a previously scraped record.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	var req models.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Content.URL == "" {
		writeError(w, http.StatusBadRequest, "content with a url is required")
		return
	}

	texts := preparer.Prepare(&req.Content)

	embeddings := make(models.EmbeddingSet, 4)
	for _, textKey := range models.TextKeys() {
		vectors, err := h.embedder.EmbedBatch(r.Context(), texts[textKey])
		if err != nil {
			h.logger.Error().Str("category", textKey).Err(err).Msg("embedding failed")
			writeError(w, http.StatusInternalServerError, "embedding failed: "+err.Error())
			return
		}
		embeddings[textKey] = vectors
	}

	result, err := h.store.Save(r.Context(), &req.Content, texts, embeddings)
	if err != nil {
		h.logger.Error().Str("url", req.Content.URL).Err(err).Msg("save failed")
		writeError(w, http.StatusInternalServerError, "save failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.SaveResponse{Success: true, Result: result})
}

// handleHealth is a constant liveness probe with no side effects.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "webscraper",
	})
}

// handleHistory lists recent saves from the SQLite index.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.history.RecentSaves(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("history lookup failed")
		writeError(w, http.StatusInternalServerError, "history lookup failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saves":   entries,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError converts every failure into the uniform shape
// {success: false, error: message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}
