package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// OCR renders a prebuilt-read result: handwriting vs printed detection,
// per-page word and line statistics, font styles, languages, the consolidated
// handwritten text, and a summary.
func OCR(w io.Writer, result *docintel.AnalyzeResult) {
	spanMap := NewHandwritingMap(result.Styles)

	renderHandwritingDetection(w, result, spanMap)

	section(w, fmt.Sprintf("PER-PAGE OCR RESULTS (%d pages)", len(result.Pages)))

	totalWords, totalHandwritten := 0, 0
	var confidenceSum float64
	var confidenceCount int

	for _, page := range result.Pages {
		words := page.Words
		totalWords += len(words)

		var hwWords, prWords, unknownWords int
		var pageConfidence float64
		for _, word := range words {
			confidenceSum += word.Confidence
			confidenceCount++
			pageConfidence += word.Confidence
			switch spanMap.ClassifyWord(word) {
			case ClassHandwritten:
				hwWords++
			case ClassPrinted:
				prWords++
			default:
				unknownWords++
			}
		}
		totalHandwritten += hwWords
		if len(words) > 0 {
			pageConfidence /= float64(len(words))
		}

		fmt.Fprintf(w, "  Page %d\n", page.PageNumber)
		fmt.Fprintf(w, "    Dimensions:  %g x %g %s\n", page.Width, page.Height, page.Unit)
		fmt.Fprintf(w, "    Lines:       %d\n", len(page.Lines))
		fmt.Fprintf(w, "    Words:       %d\n", len(words))
		fmt.Fprintf(w, "    Avg conf:    %.1f%%  %s\n", pageConfidence*100, ConfidenceBar(pageConfidence, 20))
		fmt.Fprintf(w, "    Handwritten: %d word(s)\n", hwWords)
		fmt.Fprintf(w, "    Printed:     %d word(s)\n", prWords)
		if unknownWords > 0 {
			fmt.Fprintf(w, "    Unclassified: %d word(s)\n", unknownWords)
		}

		renderPageLines(w, page, spanMap)
		fmt.Fprintln(w)
	}

	renderFontStyles(w, result.Styles)
	renderLanguages(w, result.Languages)
	renderHandwrittenText(w, result, spanMap)

	section(w, "SUMMARY")
	avgConfidence := 0.0
	if confidenceCount > 0 {
		avgConfidence = confidenceSum / float64(confidenceCount)
	}
	fmt.Fprintf(w, "  Pages:             %d\n", len(result.Pages))
	fmt.Fprintf(w, "  Total words:       %d\n", totalWords)
	fmt.Fprintf(w, "  Handwritten words: %d\n", totalHandwritten)
	fmt.Fprintf(w, "  Printed words:     %d\n", totalWords-totalHandwritten)
	fmt.Fprintf(w, "  Avg word conf:     %.1f%%  %s\n", avgConfidence*100, ConfidenceBar(avgConfidence, 20))
	fmt.Fprintf(w, "  Languages:         %d\n", len(summarizeLanguages(result.Languages)))
	fmt.Fprintf(w, "  Model:             %s (API %s)\n", result.ModelID, result.APIVersion)
}

func renderHandwritingDetection(w io.Writer, result *docintel.AnalyzeResult, spanMap *HandwritingMap) {
	section(w, "HANDWRITING vs. PRINTED DETECTION")

	if len(result.Styles) == 0 {
		fmt.Fprintln(w, "  No style information available (style detection not supported")
		fmt.Fprintln(w, "  for this file type or region).")
		return
	}

	hwRegions, prRegions := 0, 0
	for _, style := range result.Styles {
		if style.IsHandwritten == nil {
			continue
		}
		if *style.IsHandwritten {
			hwRegions++
		} else {
			prRegions++
		}
	}

	hwChars := spanMap.HandwrittenChars()
	prChars := spanMap.PrintedChars()
	totalChars := hwChars + prChars
	if totalChars == 0 {
		totalChars = 1
	}

	fmt.Fprintf(w, "  Handwritten regions: %d\n", hwRegions)
	fmt.Fprintf(w, "  Printed regions:     %d\n", prRegions)
	fmt.Fprintf(w, "  Handwritten chars:   %d (%.0f%%)\n", hwChars, float64(hwChars)/float64(totalChars)*100)
	fmt.Fprintf(w, "  Printed chars:       %d (%.0f%%)\n", prChars, float64(prChars)/float64(totalChars)*100)

	if hwChars > 0 {
		fmt.Fprintf(w, "\n  [ %s ]\n", center("HANDWRITING DETECTED", 40))
	} else {
		fmt.Fprintf(w, "\n  [ %s ]\n", center("NO HANDWRITING — all printed", 40))
	}
}

// renderPageLines prints each line with a handwriting tag and its average
// word confidence.
func renderPageLines(w io.Writer, page docintel.Page, spanMap *HandwritingMap) {
	if len(page.Lines) == 0 {
		return
	}

	fmt.Fprintf(w, "\n    --- Lines (page %d) ---\n\n", page.PageNumber)
	for _, line := range page.Lines {
		lineWords := wordsInLine(page.Words, line)

		hwCount := 0
		var lineConfidence float64
		for _, word := range lineWords {
			if spanMap.ClassifyWord(word) == ClassHandwritten {
				hwCount++
			}
			lineConfidence += word.Confidence
		}
		total := len(lineWords)
		if total > 0 {
			lineConfidence /= float64(total)
		} else {
			total = 1
		}

		tag := "  PR"
		if float64(hwCount)/float64(total) > 0.5 {
			tag = "✍ HW"
		}

		text := line.Content
		if len([]rune(text)) > 90 {
			text = string([]rune(text)[:90]) + " …"
		}
		fmt.Fprintf(w, "    %s %.0f%% │ %s\n", tag, lineConfidence*100, text)
	}
}

// wordsInLine selects the words whose span starts inside one of the line's
// spans.
func wordsInLine(words []docintel.Word, line docintel.Line) []docintel.Word {
	var result []docintel.Word
	for _, word := range words {
		for _, span := range line.Spans {
			if span.Contains(word.Span.Offset) {
				result = append(result, word)
				break
			}
		}
	}
	return result
}

func renderFontStyles(w io.Writer, styles []docintel.Style) {
	section(w, "FONT STYLE DETAILS")

	if len(styles) == 0 {
		fmt.Fprintln(w, "  No style data available.")
		return
	}

	type fontKey struct{ family, weight, style string }
	seen := map[fontKey]struct{}{}
	found := false

	for _, style := range styles {
		if style.FontStyle == "" && style.FontWeight == "" {
			continue
		}
		found = true

		family := style.SimilarFontFamily
		if family == "" {
			family = "unknown"
		}
		weight := style.FontWeight
		if weight == "" {
			weight = "normal"
		}
		fontStyle := style.FontStyle
		if fontStyle == "" {
			fontStyle = "normal"
		}

		key := fontKey{family, weight, fontStyle}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fmt.Fprintf(w, "  Font: %s, Weight: %s, Style: %s, Confidence: %.0f%%\n",
			family, weight, fontStyle, style.Confidence*100)
	}

	if !found {
		fmt.Fprintln(w, "  No detailed font styles detected.")
	}
}

// renderHandwrittenText reconstructs and word-wraps the handwritten words of
// each page.
func renderHandwrittenText(w io.Writer, result *docintel.AnalyzeResult, spanMap *HandwritingMap) {
	hasHandwriting := false
	for _, page := range result.Pages {
		for _, word := range page.Words {
			if spanMap.ClassifyWord(word) == ClassHandwritten {
				hasHandwriting = true
				break
			}
		}
	}
	if !hasHandwriting {
		return
	}

	section(w, "HANDWRITTEN TEXT (extracted)")
	fmt.Fprintln(w, "  The following text was identified as handwritten:")
	fmt.Fprintln(w)

	for _, page := range result.Pages {
		var hwWords []string
		var confidence float64
		for _, word := range page.Words {
			if spanMap.ClassifyWord(word) == ClassHandwritten {
				hwWords = append(hwWords, word.Content)
				confidence += word.Confidence
			}
		}
		if len(hwWords) == 0 {
			continue
		}
		confidence /= float64(len(hwWords))

		fmt.Fprintf(w, "  Page %d (%d words, avg confidence: %.0f%%):\n",
			page.PageNumber, len(hwWords), confidence*100)
		for _, line := range wrapWords(hwWords, 76) {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

// wrapWords greedily wraps words into lines of at most width characters.
func wrapWords(words []string, width int) []string {
	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
