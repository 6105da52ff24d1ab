// Package render projects analysis results into human-readable terminal
// output. Each model kind gets its own renderer; all of them write to an
// io.Writer so output is testable.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// ConfidenceBar renders a score in [0,1] as a filled bar of the given width.
func ConfidenceBar(score float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	filled := int(score * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// section prints a dashed section header.
func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n--- %s ---\n\n", title)
}

// languageSummary aggregates detected languages by locale: span count and the
// best confidence seen.
type languageSummary struct {
	Locale        string
	Spans         int
	MaxConfidence float64
}

func summarizeLanguages(languages []docintel.Language) []languageSummary {
	byLocale := map[string]*languageSummary{}
	for _, lang := range languages {
		entry, ok := byLocale[lang.Locale]
		if !ok {
			entry = &languageSummary{Locale: lang.Locale}
			byLocale[lang.Locale] = entry
		}
		entry.Spans += len(lang.Spans)
		if lang.Confidence > entry.MaxConfidence {
			entry.MaxConfidence = lang.Confidence
		}
	}

	summaries := make([]languageSummary, 0, len(byLocale))
	for _, entry := range byLocale {
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Spans != summaries[j].Spans {
			return summaries[i].Spans > summaries[j].Spans
		}
		return summaries[i].Locale < summaries[j].Locale
	})
	return summaries
}

func renderLanguages(w io.Writer, languages []docintel.Language) {
	section(w, "DETECTED LANGUAGES")
	if len(languages) == 0 {
		fmt.Fprintln(w, "  No language information detected.")
		return
	}
	for _, s := range summarizeLanguages(languages) {
		fmt.Fprintf(w, "  %s: %d span(s), best confidence: %.0f%%\n", s.Locale, s.Spans, s.MaxConfidence*100)
	}
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
