package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/asqr-ai/docintel/internal/docintel"
)

// fieldCategories groups extracted fields for display. Fields whose name
// matches none of the keywords land in "Other Fields".
var fieldCategories = []struct {
	Name     string
	Keywords []string
}{
	{"Document Metadata", []string{
		"DocumentNumber", "Revision", "EffectiveDate", "Function", "Title", "Date", "Rev",
	}},
	{"Member Applicability", []string{
		"MemberName", "Abbreviation", "ChapterApplicability", "Member", "Applicability",
	}},
	{"Supplier Forms", []string{
		"FormNumber", "FormName", "SupplierForm",
	}},
}

// CustomFields renders the documents extracted by a custom model, grouping
// fields by category.
func CustomFields(w io.Writer, result *docintel.AnalyzeResult, modelID string) {
	if len(result.Documents) == 0 {
		fmt.Fprintln(w, "  No documents extracted. The model may not match this document.")
	}

	totalFields := 0
	for docIdx, doc := range result.Documents {
		section(w, fmt.Sprintf("DOCUMENT %d (type: %s, confidence: %.0f%%)",
			docIdx+1, doc.DocType, doc.Confidence*100))

		if len(doc.Fields) == 0 {
			fmt.Fprintln(w, "  No fields extracted.")
			continue
		}
		totalFields += len(doc.Fields)

		categorized := map[string][]string{}
		var uncategorized []string
		for name := range doc.Fields {
			category := categoryFor(name)
			if category == "" {
				uncategorized = append(uncategorized, name)
			} else {
				categorized[category] = append(categorized[category], name)
			}
		}

		for _, category := range fieldCategories {
			names := categorized[category.Name]
			if len(names) == 0 {
				continue
			}
			sort.Strings(names)
			fmt.Fprintf(w, "  [%s]\n", category.Name)
			for _, name := range names {
				renderField(w, name, doc.Fields[name], 4)
			}
			fmt.Fprintln(w)
		}

		if len(uncategorized) > 0 {
			sort.Strings(uncategorized)
			fmt.Fprintln(w, "  [Other Fields]")
			for _, name := range uncategorized {
				renderField(w, name, doc.Fields[name], 4)
			}
			fmt.Fprintln(w)
		}
	}

	section(w, "SUMMARY")
	fmt.Fprintf(w, "  Documents:   %d\n", len(result.Documents))
	fmt.Fprintf(w, "  Fields:      %d\n", totalFields)
	fmt.Fprintf(w, "  Model:       %s (API %s)\n", modelID, result.APIVersion)
}

func categoryFor(fieldName string) string {
	lower := strings.ToLower(fieldName)
	for _, category := range fieldCategories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				return category.Name
			}
		}
	}
	return ""
}

// renderField prints one extracted field, recursing into arrays and objects.
func renderField(w io.Writer, name string, field docintel.Field, indent int) {
	prefix := strings.Repeat(" ", indent)

	switch {
	case field.Type == "array" && len(field.ValueArray) > 0:
		fmt.Fprintf(w, "%s%s: (list, %d items, %.0f%%)\n", prefix, name, len(field.ValueArray), field.Confidence*100)
		for i, item := range field.ValueArray {
			if item.Type == "object" && len(item.ValueObject) > 0 {
				fmt.Fprintf(w, "%s  [%d]\n", prefix, i+1)
				renderObjectFields(w, item.ValueObject, indent+6)
			} else {
				value := item.Text()
				if value == "" {
					value = "(empty)"
				}
				fmt.Fprintf(w, "%s  [%d] %s\n", prefix, i+1, value)
			}
		}
	case field.Type == "object" && len(field.ValueObject) > 0:
		fmt.Fprintf(w, "%s%s: (object, %.0f%%)\n", prefix, name, field.Confidence*100)
		renderObjectFields(w, field.ValueObject, indent+2)
	default:
		value := field.Text()
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(w, "%s%s: %s  (%.0f%%)\n", prefix, name, value, field.Confidence*100)
	}
}

func renderObjectFields(w io.Writer, fields map[string]docintel.Field, indent int) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		renderField(w, name, fields[name], indent)
	}
}

// ModelInfo renders a model's metadata and per-doc-type field schema.
func ModelInfo(w io.Writer, model *docintel.ModelInfo) {
	section(w, "MODEL DETAILS")
	fmt.Fprintf(w, "  Model ID:    %s\n", model.ModelID)
	status := model.Status
	if status == "" {
		status = "N/A"
	}
	fmt.Fprintf(w, "  Status:      %s\n", status)
	fmt.Fprintf(w, "  Created:     %s\n", model.CreatedDateTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  API version: %s\n", model.APIVersion)
	description := model.Description
	if description == "" {
		description = "(none)"
	}
	fmt.Fprintf(w, "  Description: %s\n", description)

	if len(model.DocTypes) == 0 {
		fmt.Fprintln(w, "\n  No document types defined.")
		return
	}

	section(w, fmt.Sprintf("DOCUMENT TYPES (%d)", len(model.DocTypes)))
	typeNames := make([]string, 0, len(model.DocTypes))
	for name := range model.DocTypes {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, typeName := range typeNames {
		docType := model.DocTypes[typeName]
		fmt.Fprintf(w, "  Type: %s\n", typeName)
		if docType.BuildMode != "" {
			fmt.Fprintf(w, "  Build mode: %s\n", docType.BuildMode)
		}

		if len(docType.FieldSchema) > 0 {
			fmt.Fprintf(w, "  Fields (%d):\n", len(docType.FieldSchema))
			fieldNames := make([]string, 0, len(docType.FieldSchema))
			for name := range docType.FieldSchema {
				fieldNames = append(fieldNames, name)
			}
			sort.Strings(fieldNames)
			for _, name := range fieldNames {
				schema := docType.FieldSchema[name]
				line := fmt.Sprintf("    - %s (%s)", name, schema.Type)
				if schema.Description != "" {
					line += " — " + schema.Description
				}
				fmt.Fprintln(w, line)
			}
		}

		if len(docType.FieldConfidence) > 0 {
			fmt.Fprintln(w, "  Field confidence:")
			fieldNames := make([]string, 0, len(docType.FieldConfidence))
			for name := range docType.FieldConfidence {
				fieldNames = append(fieldNames, name)
			}
			sort.Strings(fieldNames)
			for _, name := range fieldNames {
				fmt.Fprintf(w, "    - %s: %.0f%%\n", name, docType.FieldConfidence[name]*100)
			}
		}
		fmt.Fprintln(w)
	}
}

// ModelList renders the custom models in the resource, skipping prebuilts.
func ModelList(w io.Writer, models []docintel.ModelInfo) {
	section(w, "CUSTOM MODELS")

	count := 0
	for _, model := range models {
		if strings.HasPrefix(model.ModelID, "prebuilt-") {
			continue
		}
		count++
		status := model.Status
		if status == "" {
			status = "N/A"
		}
		fmt.Fprintf(w, "  %d. %s\n", count, model.ModelID)
		fmt.Fprintf(w, "     Status:  %s\n", status)
		fmt.Fprintf(w, "     Created: %s\n", model.CreatedDateTime.Format("2006-01-02 15:04:05"))
		if model.Description != "" {
			fmt.Fprintf(w, "     Desc:    %s\n", model.Description)
		}
		fmt.Fprintln(w)
	}

	if count == 0 {
		fmt.Fprintln(w, "  No custom models found.")
	}

	section(w, "SUMMARY")
	fmt.Fprintf(w, "  Custom models: %d\n", count)
}
