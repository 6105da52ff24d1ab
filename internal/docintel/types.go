// Package docintel is a client for the Azure Document Intelligence REST API.
// It submits documents for analysis, polls the returned operation until it
// reaches a terminal state, and projects the result payload into Go types.
package docintel

import "time"

// OperationStatus is the lifecycle state of a long-running analysis operation.
type OperationStatus string

const (
	StatusNotStarted OperationStatus = "notStarted"
	StatusRunning    OperationStatus = "running"
	StatusSucceeded  OperationStatus = "succeeded"
	StatusFailed     OperationStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s OperationStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Model identifiers for the prebuilt analyzers.
const (
	ModelPrebuiltLayout = "prebuilt-layout"
	ModelPrebuiltRead   = "prebuilt-read"
)

// Feature is an add-on analysis feature enabled at submit time.
type Feature string

const (
	FeatureKeyValuePairs Feature = "keyValuePairs"
	FeatureStyleFont     Feature = "styleFont"
	FeatureBarcodes      Feature = "barcodes"
	FeatureLanguages     Feature = "languages"
)

// operationEnvelope is the provider's poll response wrapper.
type operationEnvelope struct {
	Status              OperationStatus `json:"status"`
	CreatedDateTime     time.Time       `json:"createdDateTime"`
	LastUpdatedDateTime time.Time       `json:"lastUpdatedDateTime"`
	AnalyzeResult       *AnalyzeResult  `json:"analyzeResult,omitempty"`
	Error               *ErrorDetail    `json:"error,omitempty"`
}

// ErrorDetail is the provider's structured error body.
type ErrorDetail struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	InnerError *ErrorDetail  `json:"innererror,omitempty"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

type errorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// AnalyzeResult is the structured projection of a completed analysis.
// Which field classes are populated depends on the model that produced it:
// prebuilt-read fills pages and styles, prebuilt-layout adds paragraphs and
// tables, add-on features fill keyValuePairs, barcodes, and languages, and
// custom models and classifiers fill documents.
type AnalyzeResult struct {
	APIVersion      string         `json:"apiVersion"`
	ModelID         string         `json:"modelId"`
	StringIndexType string         `json:"stringIndexType,omitempty"`
	Content         string         `json:"content"`
	Pages           []Page         `json:"pages"`
	Paragraphs      []Paragraph    `json:"paragraphs,omitempty"`
	Tables          []Table        `json:"tables,omitempty"`
	KeyValuePairs   []KeyValuePair `json:"keyValuePairs,omitempty"`
	Styles          []Style        `json:"styles,omitempty"`
	Languages       []Language     `json:"languages,omitempty"`
	Documents       []Document     `json:"documents,omitempty"`
	ContentFormat   string         `json:"contentFormat,omitempty"`
}

// Page holds the per-page OCR output.
type Page struct {
	PageNumber     int             `json:"pageNumber"`
	Angle          float64         `json:"angle,omitempty"`
	Width          float64         `json:"width,omitempty"`
	Height         float64         `json:"height,omitempty"`
	Unit           string          `json:"unit,omitempty"`
	Words          []Word          `json:"words,omitempty"`
	Lines          []Line          `json:"lines,omitempty"`
	Spans          []Span          `json:"spans,omitempty"`
	SelectionMarks []SelectionMark `json:"selectionMarks,omitempty"`
	Barcodes       []Barcode       `json:"barcodes,omitempty"`
}

// Word is a single recognized word with its confidence.
type Word struct {
	Content    string    `json:"content"`
	Polygon    []float64 `json:"polygon,omitempty"`
	Confidence float64   `json:"confidence"`
	Span       Span      `json:"span"`
}

// Line is a recognized line of text.
type Line struct {
	Content string    `json:"content"`
	Polygon []float64 `json:"polygon,omitempty"`
	Spans   []Span    `json:"spans,omitempty"`
}

// Span locates content in the concatenated document text by offset and length.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Contains reports whether the character offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Offset && offset < s.Offset+s.Length
}

// SelectionMark is a checkbox or radio button detected on a page.
type SelectionMark struct {
	State      string    `json:"state"` // "selected" or "unselected"
	Polygon    []float64 `json:"polygon,omitempty"`
	Confidence float64   `json:"confidence"`
	Span       Span      `json:"span"`
}

// Selected reports whether the mark is checked.
func (m SelectionMark) Selected() bool { return m.State == "selected" }

// Barcode is a barcode or QR code detected on a page.
type Barcode struct {
	Kind       string    `json:"kind"`
	Value      string    `json:"value"`
	Polygon    []float64 `json:"polygon,omitempty"`
	Confidence float64   `json:"confidence"`
	Span       Span      `json:"span"`
}

// Paragraph is a logical text block with an optional semantic role
// (title, sectionHeading, pageHeader, pageFooter, pageNumber, footnote).
type Paragraph struct {
	Role            string           `json:"role,omitempty"`
	Content         string           `json:"content"`
	Spans           []Span           `json:"spans,omitempty"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
}

// BoundingRegion locates content on a specific page.
type BoundingRegion struct {
	PageNumber int       `json:"pageNumber"`
	Polygon    []float64 `json:"polygon,omitempty"`
}

// Table is a detected table with its cell grid.
type Table struct {
	RowCount        int              `json:"rowCount"`
	ColumnCount     int              `json:"columnCount"`
	Cells           []TableCell      `json:"cells"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
}

// TableCell is a single cell positioned by row and column index.
type TableCell struct {
	Kind        string `json:"kind,omitempty"`
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
	RowSpan     int    `json:"rowSpan,omitempty"`
	ColumnSpan  int    `json:"columnSpan,omitempty"`
	Content     string `json:"content"`
	Spans       []Span `json:"spans,omitempty"`
}

// Grid expands the sparse cell list into a dense rowCount x columnCount grid
// of cell contents.
func (t Table) Grid() [][]string {
	grid := make([][]string, t.RowCount)
	for i := range grid {
		grid[i] = make([]string, t.ColumnCount)
	}
	for _, cell := range t.Cells {
		if cell.RowIndex < t.RowCount && cell.ColumnIndex < t.ColumnCount {
			grid[cell.RowIndex][cell.ColumnIndex] = cell.Content
		}
	}
	return grid
}

// KeyValuePair is a detected form field.
type KeyValuePair struct {
	Key        *KeyValueElement `json:"key,omitempty"`
	Value      *KeyValueElement `json:"value,omitempty"`
	Confidence float64          `json:"confidence"`
}

// KeyValueElement is the key or value side of a form field.
type KeyValueElement struct {
	Content         string           `json:"content"`
	Spans           []Span           `json:"spans,omitempty"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
}

// Style describes a text region's appearance. IsHandwritten is a pointer
// because the service omits it when handwriting detection did not run.
type Style struct {
	IsHandwritten     *bool   `json:"isHandwritten,omitempty"`
	SimilarFontFamily string  `json:"similarFontFamily,omitempty"`
	FontStyle         string  `json:"fontStyle,omitempty"`
	FontWeight        string  `json:"fontWeight,omitempty"`
	Color             string  `json:"color,omitempty"`
	Spans             []Span  `json:"spans,omitempty"`
	Confidence        float64 `json:"confidence"`
}

// Language is a detected language with the spans it covers.
type Language struct {
	Locale     string  `json:"locale"`
	Spans      []Span  `json:"spans"`
	Confidence float64 `json:"confidence"`
}

// Document is a unit extracted by a custom model or classifier.
type Document struct {
	DocType         string           `json:"docType"`
	BoundingRegions []BoundingRegion `json:"boundingRegions,omitempty"`
	Spans           []Span           `json:"spans,omitempty"`
	Fields          map[string]Field `json:"fields,omitempty"`
	Confidence      float64          `json:"confidence"`
}

// Field is a value extracted by a custom model. The populated value slot
// depends on Type ("string", "number", "date", "array", "object", ...).
type Field struct {
	Type        string           `json:"type"`
	Content     string           `json:"content,omitempty"`
	ValueString string           `json:"valueString,omitempty"`
	ValueNumber float64          `json:"valueNumber,omitempty"`
	ValueDate   string           `json:"valueDate,omitempty"`
	ValueArray  []Field          `json:"valueArray,omitempty"`
	ValueObject map[string]Field `json:"valueObject,omitempty"`
	Confidence  float64          `json:"confidence,omitempty"`
}

// Text returns the best display value for the field.
func (f Field) Text() string {
	if f.Content != "" {
		return f.Content
	}
	if f.ValueString != "" {
		return f.ValueString
	}
	return ""
}

// FieldAbsentError reports access to a result field class the producing model
// does not emit.
type FieldAbsentError struct {
	ModelID string
	What    string
}

func (e *FieldAbsentError) Error() string {
	return "result from model " + e.ModelID + " carries no " + e.What
}

// TablesOrErr returns the detected tables, or a FieldAbsentError when the
// producing model does not emit tables at all.
func (r *AnalyzeResult) TablesOrErr() ([]Table, error) {
	if r.Tables == nil {
		return nil, &FieldAbsentError{ModelID: r.ModelID, What: "tables"}
	}
	return r.Tables, nil
}

// KeyValuePairsOrErr returns the form fields, or a FieldAbsentError when the
// keyValuePairs feature was not enabled for this analysis.
func (r *AnalyzeResult) KeyValuePairsOrErr() ([]KeyValuePair, error) {
	if r.KeyValuePairs == nil {
		return nil, &FieldAbsentError{ModelID: r.ModelID, What: "key-value pairs"}
	}
	return r.KeyValuePairs, nil
}

// DocumentsOrErr returns the extracted documents, or a FieldAbsentError when
// the result did not come from a custom model or classifier.
func (r *AnalyzeResult) DocumentsOrErr() ([]Document, error) {
	if r.Documents == nil {
		return nil, &FieldAbsentError{ModelID: r.ModelID, What: "documents"}
	}
	return r.Documents, nil
}
