package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// ocrResult builds a one-page read result where "signed here" is handwritten
// and the rest is printed. Content: "Inspection passed signed here".
func ocrResult() *docintel.AnalyzeResult {
	return &docintel.AnalyzeResult{
		ModelID:    docintel.ModelPrebuiltRead,
		APIVersion: "2024-11-30",
		Pages: []docintel.Page{
			{
				PageNumber: 1,
				Width:      8.5,
				Height:     11,
				Unit:       "inch",
				Words: []docintel.Word{
					{Content: "Inspection", Confidence: 0.99, Span: docintel.Span{Offset: 0, Length: 10}},
					{Content: "passed", Confidence: 0.98, Span: docintel.Span{Offset: 11, Length: 6}},
					{Content: "signed", Confidence: 0.82, Span: docintel.Span{Offset: 18, Length: 6}},
					{Content: "here", Confidence: 0.79, Span: docintel.Span{Offset: 25, Length: 4}},
				},
				Lines: []docintel.Line{
					{Content: "Inspection passed", Spans: []docintel.Span{{Offset: 0, Length: 17}}},
					{Content: "signed here", Spans: []docintel.Span{{Offset: 18, Length: 11}}},
				},
			},
		},
		Styles: []docintel.Style{
			{IsHandwritten: boolPtr(false), Confidence: 0.95, Spans: []docintel.Span{{Offset: 0, Length: 17}}},
			{
				IsHandwritten:     boolPtr(true),
				Confidence:        0.9,
				SimilarFontFamily: "Segoe Script",
				FontWeight:        "normal",
				FontStyle:         "italic",
				Spans:             []docintel.Span{{Offset: 18, Length: 11}},
			},
		},
		Languages: []docintel.Language{
			{Locale: "en", Confidence: 0.99, Spans: []docintel.Span{{Offset: 0, Length: 29}}},
		},
	}
}

func TestOCRRendering(t *testing.T) {
	var buf bytes.Buffer
	OCR(&buf, ocrResult())
	out := buf.String()

	assert.Contains(t, out, "Handwritten regions: 1")
	assert.Contains(t, out, "Printed regions:     1")
	assert.Contains(t, out, "HANDWRITING DETECTED")

	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Words:       4")
	assert.Contains(t, out, "Handwritten: 2 word(s)")
	assert.Contains(t, out, "Printed:     2 word(s)")

	// Line tags follow the majority classification of the line's words.
	assert.Contains(t, out, "✍ HW")
	assert.Contains(t, out, "signed here")

	assert.Contains(t, out, "Font: Segoe Script, Weight: normal, Style: italic")
	assert.Contains(t, out, "en: 1 span(s)")

	assert.Contains(t, out, "HANDWRITTEN TEXT (extracted)")
	assert.Contains(t, out, "Page 1 (2 words, avg confidence:")

	assert.Contains(t, out, "Total words:       4")
	assert.Contains(t, out, "Handwritten words: 2")
}

func TestOCRRenderingNoStyles(t *testing.T) {
	result := ocrResult()
	result.Styles = nil

	var buf bytes.Buffer
	OCR(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "No style information available")
	assert.NotContains(t, out, "HANDWRITTEN TEXT (extracted)")
}

func TestWrapWords(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta"}
	lines := wrapWords(words, 12)
	assert.Equal(t, []string{"alpha beta", "gamma delta"}, lines)

	assert.Empty(t, wrapWords(nil, 10))

	long := wrapWords([]string{strings.Repeat("x", 30)}, 10)
	assert.Equal(t, []string{strings.Repeat("x", 30)}, long)
}

func TestWordsInLine(t *testing.T) {
	words := []docintel.Word{
		{Content: "a", Span: docintel.Span{Offset: 0, Length: 1}},
		{Content: "b", Span: docintel.Span{Offset: 2, Length: 1}},
		{Content: "c", Span: docintel.Span{Offset: 10, Length: 1}},
	}
	line := docintel.Line{Spans: []docintel.Span{{Offset: 0, Length: 4}}}

	got := wordsInLine(words, line)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "b", got[1].Content)
}
