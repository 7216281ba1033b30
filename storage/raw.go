package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BigLeagueAjay/Webscraper/models"
	"github.com/BigLeagueAjay/Webscraper/utils"
)

// RawStore writes one indented JSON file per saved scrape under a
// fixed root directory.
type RawStore struct {
	rootDir string
}

// NewRawStore creates the raw-data root if it does not exist yet.
func NewRawStore(rootDir string) (*RawStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("can't create raw data directory: %w", err)
	}
	return &RawStore{rootDir: rootDir}, nil
}

// Write persists the full content record. The filename is the
// slugified title plus the content ID, so two saves can never collide
// even within the same second. ContentID must be set by the caller.
func (r *RawStore) Write(content *models.ScrapedContent) (string, error) {
	if content.ContentID == "" {
		return "", fmt.Errorf("content has no content_id assigned")
	}

	filename := fmt.Sprintf("%s_%s.json", utils.Slugify(content.Title), content.ContentID)
	fullPath := filepath.Join(r.rootDir, filename)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(content); err != nil {
		return "", fmt.Errorf("can't encode content: %w", err)
	}

	if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("can't write raw file: %w", err)
	}

	return fullPath, nil
}
