package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// Layout renders a prebuilt-layout result: paragraphs with semantic roles,
// tables as grids, selection mark counts, and a summary.
func Layout(w io.Writer, result *docintel.AnalyzeResult) {
	section(w, "DOCUMENT STRUCTURE (Semantic Roles)")
	for _, p := range result.Paragraphs {
		content := strings.ReplaceAll(p.Content, "\n", " ")
		switch p.Role {
		case "pageHeader", "pageFooter", "pageNumber":
			continue
		case "title":
			fmt.Fprintf(w, "\n# %s\n%s\n", strings.ToUpper(content), strings.Repeat("=", len(content)+2))
		case "sectionHeading":
			fmt.Fprintf(w, "\n## %s\n", content)
		default:
			fmt.Fprintln(w, content)
		}
	}

	section(w, "TABLES")
	if len(result.Tables) == 0 {
		fmt.Fprintln(w, "No tables found.")
	}
	for _, table := range result.Tables {
		renderTableGrid(w, table)
	}

	section(w, "SELECTION MARKS (Checkboxes)")
	totalMarks := 0
	for _, page := range result.Pages {
		marks := page.SelectionMarks
		if len(marks) == 0 {
			continue
		}
		totalMarks += len(marks)
		selected := 0
		for _, m := range marks {
			if m.Selected() {
				selected++
			}
		}
		fmt.Fprintf(w, "  Page %d: %d checkbox(es) — %d checked, %d unchecked\n",
			page.PageNumber, len(marks), selected, len(marks)-selected)
	}
	if totalMarks == 0 {
		fmt.Fprintln(w, "  No selection marks found.")
	}

	section(w, "SUMMARY")
	fmt.Fprintf(w, "  Pages:            %d\n", len(result.Pages))
	fmt.Fprintf(w, "  Paragraphs:       %d\n", len(result.Paragraphs))
	fmt.Fprintf(w, "  Tables:           %d\n", len(result.Tables))
	fmt.Fprintf(w, "  Selection marks:  %d\n", totalMarks)
}

// renderTableGrid prints a table as a fixed-width grid with a header
// separator after the first row.
func renderTableGrid(w io.Writer, table docintel.Table) {
	fmt.Fprintf(w, "\n[Table: %d rows x %d columns]\n", table.RowCount, table.ColumnCount)

	for rowIdx, row := range table.Grid() {
		cells := make([]string, len(row))
		for i, cell := range row {
			clean := strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
			cells[i] = fmt.Sprintf("%-30s", truncate(clean, 30))
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))

		if rowIdx == 0 {
			separators := make([]string, table.ColumnCount)
			for i := range separators {
				separators[i] = strings.Repeat("-", 30)
			}
			fmt.Fprintf(w, "|-%s-|\n", strings.Join(separators, "-+-"))
		}
	}
	fmt.Fprintln(w)
}
