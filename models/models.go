package models

import "time"

// Content categories a scrape request can enable.
const (
	CategoryParagraphs = "paragraphs"
	CategoryHeadlines  = "headlines"
	CategoryImages     = "images"
	CategoryTables     = "tables"
)

// Keys used in prepared-text maps and embedding sets. The title key is
// separate from the request categories because the title is always
// extracted, and table contents are flattened under their own key.
const (
	TextKeyTitle      = "title"
	TextKeyParagraphs = "paragraphs"
	TextKeyHeadlines  = "headlines"
	TextKeyTableData  = "table_data"
)

// TextKeys returns the embedding categories in their fixed order.
func TextKeys() []string {
	return []string{TextKeyTitle, TextKeyParagraphs, TextKeyHeadlines, TextKeyTableData}
}

// RequestCategories returns the extractable categories in their fixed order.
func RequestCategories() []string {
	return []string{CategoryParagraphs, CategoryHeadlines, CategoryImages, CategoryTables}
}

// ImageData represents a single image found on a page.
type ImageData struct {
	Alt    string `json:"alt"`
	Src    string `json:"src"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// TableData represents a single table found on a page.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ContentMetadata holds per-category counts of what was extracted.
type ContentMetadata struct {
	NumParagraphs int `json:"num_paragraphs"`
	NumHeadlines  int `json:"num_headlines"`
	NumImages     int `json:"num_images"`
	NumTables     int `json:"num_tables"`
}

// ScrapedContent is the uniform record produced by a single scrape.
// Every category slice is always present (empty, never nil) and the
// Requested map records which categories the caller enabled, so an
// empty slice is unambiguous. ContentID stays empty until save time.
type ScrapedContent struct {
	URL        string          `json:"url"`
	Title      string          `json:"title"`
	Paragraphs []string        `json:"paragraphs"`
	Headlines  []string        `json:"headlines"`
	Images     []ImageData     `json:"images"`
	Tables     []TableData     `json:"tables"`
	Metadata   ContentMetadata `json:"metadata"`
	Requested  map[string]bool `json:"requested"`
	ContentID  string          `json:"content_id,omitempty"`
	ScrapedAt  time.Time       `json:"scraped_at"`
}

// PreparedTexts maps a text key to the ordered list of strings ready
// for embedding. All four keys are always present.
type PreparedTexts map[string][]string

// EmbeddingSet maps a text key to vectors index-aligned with the
// corresponding PreparedTexts list.
type EmbeddingSet map[string][][]float32

// StorageResult is returned after a successful save.
type StorageResult struct {
	ContentID        string         `json:"content_id"`
	RawFilepath      string         `json:"raw_filepath"`
	EmbeddingsStored map[string]int `json:"embeddings_stored"`
	TotalEmbeddings  int            `json:"total_embeddings"`
}

// HistoryEntry is one row of the save-history index.
type HistoryEntry struct {
	ContentID       string    `json:"content_id"`
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	RawFilepath     string    `json:"raw_filepath"`
	TotalEmbeddings int       `json:"total_embeddings"`
	SavedAt         time.Time `json:"saved_at"`
}

// ScrapeRequest is the body of POST /api/scrape.
type ScrapeRequest struct {
	URL          string          `json:"url"`
	ContentTypes map[string]bool `json:"content_types"`
}

// SaveRequest is the body of POST /api/save. ContentTypes is accepted
// for symmetry with the scrape request; the content record already
// carries its requested-category flags, so it is informational only.
type SaveRequest struct {
	Content      ScrapedContent  `json:"content"`
	ContentTypes map[string]bool `json:"content_types,omitempty"`
}

// ScrapeResponse wraps a successful scrape.
type ScrapeResponse struct {
	Success bool            `json:"success"`
	Content *ScrapedContent `json:"content"`
}

// SaveResponse wraps a successful save.
type SaveResponse struct {
	Success bool           `json:"success"`
	Result  *StorageResult `json:"result"`
}

// ErrorResponse is the uniform failure shape for every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
