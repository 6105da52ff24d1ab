package render

import "github.com/asqr-ai/docintel/internal/docintel"

// HandwritingMap holds the character offsets classified as handwritten or
// printed by the style detector.
type HandwritingMap struct {
	handwritten map[int]struct{}
	printed     map[int]struct{}
}

// NewHandwritingMap builds the offset sets from the styles array.
func NewHandwritingMap(styles []docintel.Style) *HandwritingMap {
	m := &HandwritingMap{
		handwritten: map[int]struct{}{},
		printed:     map[int]struct{}{},
	}
	for _, style := range styles {
		if style.IsHandwritten == nil {
			continue
		}
		target := m.printed
		if *style.IsHandwritten {
			target = m.handwritten
		}
		for _, span := range style.Spans {
			for offset := span.Offset; offset < span.Offset+span.Length; offset++ {
				target[offset] = struct{}{}
			}
		}
	}
	return m
}

// HandwrittenChars returns the number of characters classified as handwritten.
func (m *HandwritingMap) HandwrittenChars() int { return len(m.handwritten) }

// PrintedChars returns the number of characters classified as printed.
func (m *HandwritingMap) PrintedChars() int { return len(m.printed) }

// WordClass is the handwriting classification of a single word.
type WordClass int

const (
	ClassUnknown WordClass = iota
	ClassHandwritten
	ClassPrinted
)

// ClassifyWord decides whether a word falls inside a handwritten span by
// majority of its character offsets.
func (m *HandwritingMap) ClassifyWord(word docintel.Word) WordClass {
	if word.Span.Length == 0 {
		return ClassUnknown
	}
	hw, pr := 0, 0
	for offset := word.Span.Offset; offset < word.Span.Offset+word.Span.Length; offset++ {
		if _, ok := m.handwritten[offset]; ok {
			hw++
		}
		if _, ok := m.printed[offset]; ok {
			pr++
		}
	}
	switch {
	case hw > pr:
		return ClassHandwritten
	case pr > hw:
		return ClassPrinted
	default:
		return ClassUnknown
	}
}
