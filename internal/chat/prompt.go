package chat

import "fmt"

const systemPrompt = "You are an expert document analyst. You receive structured text " +
	"extracted from a document via Azure Document Intelligence. " +
	"Provide clear, accurate, and well-organized analysis."

// summarizePrompt asks for a summary, key data points, and action items.
func summarizePrompt(extracted *ExtractedContent) string {
	return fmt.Sprintf(
		"Below is the structured content extracted from a document.\n\n"+
			"**Document text:**\n%s\n\n"+
			"**Tables:**\n%s\n\n"+
			"**Selection marks:** %s\n\n"+
			"Please provide:\n"+
			"1. A concise summary of the document (2-3 paragraphs).\n"+
			"2. Key data points or figures mentioned.\n"+
			"3. Any action items or important dates.\n",
		extracted.Paragraphs, extracted.Tables, extracted.SelectionMarks)
}

// questionPrompt asks a specific question grounded only in the document.
func questionPrompt(extracted *ExtractedContent, question string) string {
	return fmt.Sprintf(
		"Below is the structured content extracted from a document.\n\n"+
			"**Document text:**\n%s\n\n"+
			"**Tables:**\n%s\n\n"+
			"**Selection marks:** %s\n\n"+
			"**Question:** %s\n\n"+
			"Answer the question based only on the document content above. "+
			"If the answer is not in the document, say so.",
		extracted.Paragraphs, extracted.Tables, extracted.SelectionMarks, question)
}
