package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// Document renders an add-on-features result: key-value pairs, handwriting
// vs printed styles, barcodes, detected languages, and a summary.
func Document(w io.Writer, result *docintel.AnalyzeResult, features []docintel.Feature) {
	section(w, "KEY-VALUE PAIRS (Form Fields)")
	if len(result.KeyValuePairs) == 0 {
		fmt.Fprintln(w, "  No key-value pairs found.")
	}
	for _, kv := range result.KeyValuePairs {
		keyText := "(no key)"
		if kv.Key != nil {
			keyText = strings.TrimSpace(kv.Key.Content)
		}
		valueText := "(empty)"
		if kv.Value != nil {
			valueText = strings.TrimSpace(kv.Value.Content)
		}
		fmt.Fprintf(w, "  %s: %s  (%.0f%%)\n", keyText, valueText, kv.Confidence*100)
	}

	section(w, "CONTENT STYLES")
	if len(result.Styles) == 0 {
		fmt.Fprintln(w, "  No style information detected.")
	} else {
		handwritten, printed := 0, 0
		for _, style := range result.Styles {
			if style.IsHandwritten == nil {
				continue
			}
			if *style.IsHandwritten {
				handwritten++
			} else {
				printed++
			}
		}
		if handwritten > 0 {
			fmt.Fprintf(w, "  Handwritten: %d region(s) detected\n", handwritten)
		}
		if printed > 0 {
			fmt.Fprintf(w, "  Printed:     %d region(s) detected\n", printed)
		}
		if handwritten == 0 && printed == 0 {
			fmt.Fprintln(w, "  No handwriting/print classification detected.")
		}
	}

	section(w, "BARCODES")
	totalBarcodes := 0
	for _, page := range result.Pages {
		for _, barcode := range page.Barcodes {
			totalBarcodes++
			fmt.Fprintf(w, "  Page %d: [%s] %s (%.0f%%)\n",
				page.PageNumber, barcode.Kind, barcode.Value, barcode.Confidence*100)
		}
	}
	if totalBarcodes == 0 {
		fmt.Fprintln(w, "  No barcodes found.")
	}

	renderLanguages(w, result.Languages)

	section(w, "SUMMARY")
	fmt.Fprintf(w, "  Pages:            %d\n", len(result.Pages))
	fmt.Fprintf(w, "  Key-value pairs:  %d\n", len(result.KeyValuePairs))
	fmt.Fprintf(w, "  Barcodes:         %d\n", totalBarcodes)
	fmt.Fprintf(w, "  Languages:        %d\n", len(summarizeLanguages(result.Languages)))
	fmt.Fprintf(w, "  Model:            %s (API %s)\n", result.ModelID, result.APIVersion)

	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	fmt.Fprintf(w, "  Add-on features:  %s\n", strings.Join(names, ", "))
}
