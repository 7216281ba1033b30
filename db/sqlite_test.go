package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BigLeagueAjay/Webscraper/models"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open history db: %v", err)
	}
	t.Cleanup(func() { h.GracefulShutdown(time.Second) })
	return h
}

func TestHistoryRecordAndList(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	saves := []struct {
		contentID string
		url       string
		total     int
	}{
		{contentID: "cid-1", url: "http://example.com/a", total: 3},
		{contentID: "cid-2", url: "http://example.com/b", total: 5},
	}

	for _, s := range saves {
		result := &models.StorageResult{
			ContentID:       s.contentID,
			RawFilepath:     "/data/raw/" + s.contentID + ".json",
			TotalEmbeddings: s.total,
		}
		content := &models.ScrapedContent{URL: s.url, Title: "Title " + s.contentID}
		if err := h.RecordSave(ctx, result, content); err != nil {
			t.Fatalf("record save failed: %v", err)
		}
	}

	entries, err := h.RecentSaves(ctx, 10)
	if err != nil {
		t.Fatalf("recent saves failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// newest first
	if entries[0].ContentID != "cid-2" || entries[1].ContentID != "cid-1" {
		t.Errorf("unexpected ordering: %+v", entries)
	}
	if entries[0].TotalEmbeddings != 5 {
		t.Errorf("expected 5 embeddings on newest entry, got %d", entries[0].TotalEmbeddings)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result := &models.StorageResult{
			ContentID:   "cid-" + string(rune('a'+i)),
			RawFilepath: "/data/raw/x.json",
		}
		if err := h.RecordSave(ctx, result, &models.ScrapedContent{URL: "http://example.com"}); err != nil {
			t.Fatalf("record save failed: %v", err)
		}
	}

	entries, err := h.RecentSaves(ctx, 3)
	if err != nil {
		t.Fatalf("recent saves failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries with limit 3, got %d", len(entries))
	}
}

func TestHistoryDuplicateContentIDRejected(t *testing.T) {
	h := newTestHistory(t)
	ctx := context.Background()

	result := &models.StorageResult{ContentID: "cid-dup", RawFilepath: "/x.json"}
	content := &models.ScrapedContent{URL: "http://example.com"}

	if err := h.RecordSave(ctx, result, content); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := h.RecordSave(ctx, result, content); err == nil {
		t.Fatal("expected unique constraint violation for duplicate content id")
	}
}

func TestHistoryHealthCheck(t *testing.T) {
	h := newTestHistory(t)
	if err := h.HealthCheck(context.Background()); err != nil {
		t.Errorf("health check failed: %v", err)
	}

	var nilHistory *History
	if err := nilHistory.HealthCheck(context.Background()); err == nil {
		t.Error("nil history must fail its health check")
	}
}
