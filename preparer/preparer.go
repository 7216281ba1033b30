// Package preparer reshapes a scraped record into per-category text
// lists ready for embedding. Deterministic reshaping only.
package preparer

import (
	"strings"

	"github.com/BigLeagueAjay/Webscraper/models"
)

// cellSeparator joins table cells into one embeddable string per row.
const cellSeparator = " | "

// Prepare flattens a ScrapedContent into PreparedTexts. All four text
// keys are always present; categories with no content map to empty
// lists, never absent keys. Table data keeps the synthesis order:
// per table, the joined header row first, then each data row, tables
// in original order.
func Prepare(content *models.ScrapedContent) models.PreparedTexts {
	texts := models.PreparedTexts{
		models.TextKeyTitle:      {},
		models.TextKeyParagraphs: {},
		models.TextKeyHeadlines:  {},
		models.TextKeyTableData:  {},
	}
	if content == nil {
		return texts
	}

	if content.Title != "" {
		texts[models.TextKeyTitle] = []string{content.Title}
	}

	texts[models.TextKeyParagraphs] = append(texts[models.TextKeyParagraphs], content.Paragraphs...)
	texts[models.TextKeyHeadlines] = append(texts[models.TextKeyHeadlines], content.Headlines...)

	for _, table := range content.Tables {
		if len(table.Headers) > 0 {
			texts[models.TextKeyTableData] = append(texts[models.TextKeyTableData], strings.Join(table.Headers, cellSeparator))
		}
		for _, row := range table.Rows {
			texts[models.TextKeyTableData] = append(texts[models.TextKeyTableData], strings.Join(row, cellSeparator))
		}
	}

	return texts
}
