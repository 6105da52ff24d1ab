package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asqr-ai/docintel/internal/docintel"
)

func TestDocumentRendering(t *testing.T) {
	result := &docintel.AnalyzeResult{
		ModelID:    docintel.ModelPrebuiltLayout,
		APIVersion: "2024-11-30",
		Pages: []docintel.Page{
			{
				PageNumber: 1,
				Barcodes: []docintel.Barcode{
					{Kind: "QRCode", Value: "SN-009-2231", Confidence: 0.99},
				},
			},
		},
		KeyValuePairs: []docintel.KeyValuePair{
			{
				Key:        &docintel.KeyValueElement{Content: "Part Number:"},
				Value:      &docintel.KeyValueElement{Content: "1234-A"},
				Confidence: 0.93,
			},
			{
				Key:        &docintel.KeyValueElement{Content: "Inspector:"},
				Confidence: 0.70,
			},
		},
		Styles: []docintel.Style{
			{IsHandwritten: boolPtr(true), Spans: []docintel.Span{{Offset: 0, Length: 4}}},
			{IsHandwritten: boolPtr(false), Spans: []docintel.Span{{Offset: 10, Length: 4}}},
		},
		Languages: []docintel.Language{
			{Locale: "en", Confidence: 0.98, Spans: []docintel.Span{{Offset: 0, Length: 14}}},
		},
	}

	features := []docintel.Feature{docintel.FeatureKeyValuePairs, docintel.FeatureBarcodes}

	var buf bytes.Buffer
	Document(&buf, result, features)
	out := buf.String()

	assert.Contains(t, out, "Part Number:: 1234-A  (93%)")
	assert.Contains(t, out, "Inspector:: (empty)")

	assert.Contains(t, out, "Handwritten: 1 region(s) detected")
	assert.Contains(t, out, "Printed:     1 region(s) detected")

	assert.Contains(t, out, "Page 1: [QRCode] SN-009-2231 (99%)")
	assert.Contains(t, out, "en: 1 span(s)")

	assert.Contains(t, out, "Key-value pairs:  2")
	assert.Contains(t, out, "Add-on features:  keyValuePairs, barcodes")
}

func TestDocumentRenderingEmpty(t *testing.T) {
	var buf bytes.Buffer
	Document(&buf, &docintel.AnalyzeResult{ModelID: docintel.ModelPrebuiltLayout}, nil)
	out := buf.String()

	assert.Contains(t, out, "No key-value pairs found.")
	assert.Contains(t, out, "No style information detected.")
	assert.Contains(t, out, "No barcodes found.")
	assert.Contains(t, out, "No language information detected.")
}
