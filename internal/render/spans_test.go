package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asqr-ai/docintel/internal/docintel"
)

func boolPtr(b bool) *bool { return &b }

func TestHandwritingMapCounts(t *testing.T) {
	styles := []docintel.Style{
		{IsHandwritten: boolPtr(true), Spans: []docintel.Span{{Offset: 0, Length: 5}}},
		{IsHandwritten: boolPtr(false), Spans: []docintel.Span{{Offset: 10, Length: 3}}},
		{Spans: []docintel.Span{{Offset: 20, Length: 100}}}, // no handwriting signal
	}

	m := NewHandwritingMap(styles)
	assert.Equal(t, 5, m.HandwrittenChars())
	assert.Equal(t, 3, m.PrintedChars())
}

func TestClassifyWordMajority(t *testing.T) {
	m := NewHandwritingMap([]docintel.Style{
		{IsHandwritten: boolPtr(true), Spans: []docintel.Span{{Offset: 0, Length: 10}}},
		{IsHandwritten: boolPtr(false), Spans: []docintel.Span{{Offset: 10, Length: 10}}},
	})

	tests := []struct {
		name string
		word docintel.Word
		want WordClass
	}{
		{
			name: "fully handwritten",
			word: docintel.Word{Span: docintel.Span{Offset: 2, Length: 5}},
			want: ClassHandwritten,
		},
		{
			name: "fully printed",
			word: docintel.Word{Span: docintel.Span{Offset: 12, Length: 5}},
			want: ClassPrinted,
		},
		{
			name: "majority handwritten across the boundary",
			word: docintel.Word{Span: docintel.Span{Offset: 7, Length: 5}},
			want: ClassHandwritten,
		},
		{
			name: "majority printed across the boundary",
			word: docintel.Word{Span: docintel.Span{Offset: 8, Length: 5}},
			want: ClassPrinted,
		},
		{
			name: "outside any styled span",
			word: docintel.Word{Span: docintel.Span{Offset: 50, Length: 4}},
			want: ClassUnknown,
		},
		{
			name: "zero-length span",
			word: docintel.Word{Span: docintel.Span{Offset: 0, Length: 0}},
			want: ClassUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ClassifyWord(tt.word))
		})
	}
}
