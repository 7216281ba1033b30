// Package extractor walks a parsed HTML document and pulls out typed
// content per enabled category. Extraction never fails: malformed or
// empty markup simply yields empty results.
package extractor

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/BigLeagueAjay/Webscraper/models"
)

// UntitledPlaceholder is used when a page carries no <title>.
const UntitledPlaceholder = "Untitled Page"

// Extract builds a ScrapedContent record from raw HTML. Title is
// always extracted; other categories only when enabled. The result is
// a pure function of the markup and the category flags.
func Extract(rawHTML, pageURL string, categories map[string]bool) *models.ScrapedContent {
	content := &models.ScrapedContent{
		URL:        pageURL,
		Title:      UntitledPlaceholder,
		Paragraphs: []string{},
		Headlines:  []string{},
		Images:     []models.ImageData{},
		Tables:     []models.TableData{},
		Requested:  requestedFlags(categories),
		ScrapedAt:  time.Now().UTC(),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// goquery only fails on reader errors, never on bad markup
		return content
	}

	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		content.Title = title
	}

	if content.Requested[models.CategoryParagraphs] {
		content.Paragraphs = extractParagraphs(doc)
	}
	if content.Requested[models.CategoryHeadlines] {
		content.Headlines = extractHeadlines(doc)
	}
	if content.Requested[models.CategoryImages] {
		content.Images = extractImages(doc)
	}
	if content.Requested[models.CategoryTables] {
		content.Tables = extractTables(doc)
	}

	content.Metadata = models.ContentMetadata{
		NumParagraphs: len(content.Paragraphs),
		NumHeadlines:  len(content.Headlines),
		NumImages:     len(content.Images),
		NumTables:     len(content.Tables),
	}

	return content
}

func requestedFlags(categories map[string]bool) map[string]bool {
	flags := make(map[string]bool, 4)
	for _, category := range models.RequestCategories() {
		flags[category] = categories[category]
	}
	return flags
}

func extractParagraphs(doc *goquery.Document) []string {
	paragraphs := []string{}
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := cleanText(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

// extractHeadlines collects heading texts grouped by level: every h1
// before every h2 and so on, each level in document order. This is the
// established output ordering, kept as-is.
func extractHeadlines(doc *goquery.Document) []string {
	headlines := []string{}
	for level := 1; level <= 6; level++ {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			if text := cleanText(s.Text()); text != "" {
				headlines = append(headlines, text)
			}
		})
	}
	return headlines
}

func extractImages(doc *goquery.Document) []models.ImageData {
	images := []models.ImageData{}
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, exists := s.Attr("src")
		if !exists || src == "" {
			return
		}
		images = append(images, models.ImageData{
			Alt:    s.AttrOr("alt", ""),
			Src:    src,
			Width:  s.AttrOr("width", ""),
			Height: s.AttrOr("height", ""),
		})
	})
	return images
}

// extractTables reads headers from every th in the table and one rows
// entry per tr that holds at least one data cell. Rows made up purely
// of header cells feed the headers list instead.
func extractTables(doc *goquery.Document) []models.TableData {
	tables := []models.TableData{}
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		data := models.TableData{
			Headers: []string{},
			Rows:    [][]string{},
		}

		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			if text := cleanText(th.Text()); text != "" {
				data.Headers = append(data.Headers, text)
			}
		})

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.Find("td").Length() == 0 {
				return
			}
			cells := []string{}
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cleanText(cell.Text()))
			})
			if len(cells) > 0 {
				data.Rows = append(data.Rows, cells)
			}
		})

		tables = append(tables, data)
	})
	return tables
}

// cleanText trims and collapses internal whitespace runs to one space.
func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
