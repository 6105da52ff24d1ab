package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asqr-ai/docintel/internal/docintel"
)

func TestConfidenceBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10), ConfidenceBar(1.0, 10))
	assert.Equal(t, strings.Repeat("░", 10), ConfidenceBar(0, 10))
	assert.Equal(t, "█████░░░░░", ConfidenceBar(0.5, 10))

	// Out-of-range scores clamp instead of panicking.
	assert.Equal(t, strings.Repeat("█", 10), ConfidenceBar(1.7, 10))
	assert.Equal(t, strings.Repeat("░", 10), ConfidenceBar(-0.3, 10))

	assert.Len(t, []rune(ConfidenceBar(0.5, 0)), 20)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
	assert.Equal(t, "this is...", truncate("this is far too long", 10))
}

func TestSummarizeLanguages(t *testing.T) {
	languages := []docintel.Language{
		{Locale: "en", Confidence: 0.99, Spans: []docintel.Span{{}, {}, {}}},
		{Locale: "de", Confidence: 0.80, Spans: []docintel.Span{{}}},
		{Locale: "en", Confidence: 0.95, Spans: []docintel.Span{{}, {}}},
	}

	summaries := summarizeLanguages(languages)
	require.Len(t, summaries, 2)

	assert.Equal(t, "en", summaries[0].Locale)
	assert.Equal(t, 5, summaries[0].Spans)
	assert.Equal(t, 0.99, summaries[0].MaxConfidence)

	assert.Equal(t, "de", summaries[1].Locale)
	assert.Equal(t, 1, summaries[1].Spans)
}
