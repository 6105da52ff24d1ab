package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// Classification renders a custom classifier result: each classified segment
// with its type, confidence bar, page range, and spans, plus a summary.
func Classification(w io.Writer, result *docintel.AnalyzeResult, classifierID string) {
	section(w, "CLASSIFICATION RESULTS")

	if len(result.Documents) == 0 {
		fmt.Fprintln(w, "  No documents were classified.")
	}

	for idx, doc := range result.Documents {
		docType := doc.DocType
		if docType == "" {
			docType = "Unknown"
		}

		fmt.Fprintf(w, "  Document #%d\n", idx+1)
		fmt.Fprintf(w, "    Type:       %s\n", docType)
		fmt.Fprintf(w, "    Confidence: %.2f%%  [%s]\n", doc.Confidence*100, ConfidenceBar(doc.Confidence, 30))

		if pages := pageRange(doc.BoundingRegions); pages != "" {
			fmt.Fprintf(w, "    Pages:      %s\n", pages)
		}
		for _, span := range doc.Spans {
			fmt.Fprintf(w, "    Span:       offset=%d, length=%d\n", span.Offset, span.Length)
		}
		fmt.Fprintln(w)
	}

	section(w, "SUMMARY")
	fmt.Fprintf(w, "  Classifier:       %s\n", classifierID)
	fmt.Fprintf(w, "  Documents found:  %d\n", len(result.Documents))

	if len(result.Documents) > 0 {
		typeCounts := map[string]int{}
		var confidenceSum float64
		for _, doc := range result.Documents {
			docType := doc.DocType
			if docType == "" {
				docType = "Unknown"
			}
			typeCounts[docType]++
			confidenceSum += doc.Confidence
		}

		fmt.Fprintln(w, "  Document types:")
		types := make([]string, 0, len(typeCounts))
		for docType := range typeCounts {
			types = append(types, docType)
		}
		sort.Strings(types)
		for _, docType := range types {
			fmt.Fprintf(w, "    - %s: %d\n", docType, typeCounts[docType])
		}
		fmt.Fprintf(w, "  Avg confidence:   %.2f%%\n", confidenceSum/float64(len(result.Documents))*100)
	}

	fmt.Fprintf(w, "  Model:            %s (API %s)\n", result.ModelID, result.APIVersion)
}

// pageRange formats the distinct pages a document covers, collapsing
// consecutive coverage into "first–last".
func pageRange(regions []docintel.BoundingRegion) string {
	if len(regions) == 0 {
		return ""
	}

	seen := map[int]struct{}{}
	var pages []int
	for _, region := range regions {
		if _, ok := seen[region.PageNumber]; !ok {
			seen[region.PageNumber] = struct{}{}
			pages = append(pages, region.PageNumber)
		}
	}
	sort.Ints(pages)

	if len(pages) == 1 {
		return fmt.Sprintf("%d", pages[0])
	}
	return fmt.Sprintf("%d–%d (%d pages)", pages[0], pages[len(pages)-1], len(pages))
}
