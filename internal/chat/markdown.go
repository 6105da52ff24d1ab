package chat

import (
	"fmt"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// ExtractedContent is the layout result reshaped into markdown sections
// ready to be embedded in a prompt.
type ExtractedContent struct {
	Paragraphs     string
	Tables         string
	SelectionMarks string
	PageCount      int
	ModelID        string
	TableCount     int
}

// FromLayout reshapes a layout analysis into markdown. Paragraph roles map to
// heading levels, tables become markdown grids, and selection marks become
// checkbox glyphs. Headers, footers, and page numbers are dropped.
func FromLayout(result *docintel.AnalyzeResult) *ExtractedContent {
	var paragraphs []string
	for _, p := range result.Paragraphs {
		content := strings.ReplaceAll(p.Content, "\n", " ")
		switch p.Role {
		case "pageHeader", "pageFooter", "pageNumber":
			continue
		case "title":
			paragraphs = append(paragraphs, "# "+content)
		case "sectionHeading":
			paragraphs = append(paragraphs, "## "+content)
		default:
			paragraphs = append(paragraphs, content)
		}
	}

	var tables []string
	for idx, table := range result.Tables {
		tables = append(tables, fmt.Sprintf("### Table %d\n%s", idx+1, tableMarkdown(table)))
	}

	var marks []string
	for _, page := range result.Pages {
		for _, m := range page.SelectionMarks {
			glyph := "☐"
			if m.Selected() {
				glyph = "☑"
			}
			marks = append(marks, fmt.Sprintf("%s (page %d)", glyph, page.PageNumber))
		}
	}
	marksText := "None"
	if len(marks) > 0 {
		marksText = strings.Join(marks, ", ")
	}

	return &ExtractedContent{
		Paragraphs:     strings.Join(paragraphs, "\n"),
		Tables:         strings.Join(tables, "\n\n"),
		SelectionMarks: marksText,
		PageCount:      len(result.Pages),
		ModelID:        result.ModelID,
		TableCount:     len(result.Tables),
	}
}

// tableMarkdown renders a table as a markdown grid with the first row treated
// as the header.
func tableMarkdown(table docintel.Table) string {
	grid := table.Grid()

	var rows []string
	for rowIdx, row := range grid {
		cleaned := make([]string, len(row))
		for i, cell := range row {
			cleaned[i] = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
		}
		rows = append(rows, "| "+strings.Join(cleaned, " | ")+" |")

		if rowIdx == 0 {
			separators := make([]string, len(row))
			for i := range separators {
				separators[i] = "---"
			}
			rows = append(rows, "| "+strings.Join(separators, " | ")+" |")
		}
	}
	return strings.Join(rows, "\n")
}
