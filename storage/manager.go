// Package storage persists scraped content twice: the full record as
// an on-disk JSON file, and the per-category texts plus vectors in the
// vector store. The two writes are deliberately not transactional: the
// raw file always lands first, and a crash in between leaves a raw
// file without embeddings, never the reverse.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/models"
)

// VectorWriter is the slice of the vector store the manager needs.
type VectorWriter interface {
	UpsertCategory(ctx context.Context, contentID, textKey string, texts []string, vectors [][]float32) (int, error)
}

// SaveRecorder indexes completed saves. Optional; a nil recorder is
// skipped.
type SaveRecorder interface {
	RecordSave(ctx context.Context, result *models.StorageResult, content *models.ScrapedContent) error
}

// Manager composes the raw writer, the vector store and the history
// index into the one save operation the API exposes.
type Manager struct {
	raw     *RawStore
	vectors VectorWriter
	history SaveRecorder
	logger  zerolog.Logger
}

func NewManager(raw *RawStore, vectors VectorWriter, history SaveRecorder, logger zerolog.Logger) *Manager {
	return &Manager{
		raw:     raw,
		vectors: vectors,
		history: history,
		logger:  logger,
	}
}

// StoreEmbeddings upserts every category that has both texts and
// vectors. Categories missing from either side, or empty, report a
// stored count of 0 without error.
func (m *Manager) StoreEmbeddings(ctx context.Context, contentID string, texts models.PreparedTexts, embeddings models.EmbeddingSet) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, textKey := range models.TextKeys() {
		counts[textKey] = 0

		categoryTexts := texts[textKey]
		categoryVectors := embeddings[textKey]
		if len(categoryTexts) == 0 || len(categoryVectors) == 0 {
			continue
		}

		stored, err := m.vectors.UpsertCategory(ctx, contentID, textKey, categoryTexts, categoryVectors)
		if err != nil {
			return nil, fmt.Errorf("storing %s embeddings: %w", textKey, err)
		}
		counts[textKey] = stored
	}
	return counts, nil
}

// Save assigns a fresh content ID, writes the raw JSON file, then the
// embeddings, then records the save in the history index. The history
// write is best-effort: a failure there is logged, not surfaced, since
// both real stores already committed.
func (m *Manager) Save(ctx context.Context, content *models.ScrapedContent, texts models.PreparedTexts, embeddings models.EmbeddingSet) (*models.StorageResult, error) {
	contentID := uuid.New().String()
	content.ContentID = contentID

	rawPath, err := m.raw.Write(content)
	if err != nil {
		return nil, fmt.Errorf("raw write failed: %w", err)
	}

	counts, err := m.StoreEmbeddings(ctx, contentID, texts, embeddings)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	result := &models.StorageResult{
		ContentID:        contentID,
		RawFilepath:      rawPath,
		EmbeddingsStored: counts,
		TotalEmbeddings:  total,
	}

	if m.history != nil {
		if err := m.history.RecordSave(ctx, result, content); err != nil {
			m.logger.Warn().Err(err).Str("content_id", contentID).Msg("failed to index save in history")
		}
	}

	m.logger.Info().
		Str("content_id", contentID).
		Str("raw_filepath", rawPath).
		Int("total_embeddings", total).
		Msg("save complete")

	return result, nil
}
