package services

import (
	"fmt"
	"strings"

	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// classificationPromptTemplate demands a single JSON object with exactly
// three string fields and no markdown fencing. The gateway's response
// parser depends on this contract verbatim.
const classificationPromptTemplate = `You are an AI issue classification assistant.
Your goal:
Read the issue description below and choose the *most relevant* category and subcategory
from the predefined list.

Predefined categories and subcategories:
%s

Issue description:
%s

Return your response as valid JSON only (no markdown, no explanations):
{
  "category": "<category name>",
  "subcategory": "<subcategory name>",
  "reason": "<short reasoning why you chose this category>"
}`

// FormatTaxonomy renders the taxonomy as a flat outline. Subcategories
// without a description render as a bare "  - Name" line, the rest as
// "  - Name: description".
func FormatTaxonomy(taxonomy []types.TaxonomyCategory) string {
	blocks := make([]string, 0, len(taxonomy))
	for _, cat := range taxonomy {
		lines := make([]string, 0, len(cat.Subcategories))
		for _, sub := range cat.Subcategories {
			if sub.Description == "" {
				lines = append(lines, fmt.Sprintf("  - %s", sub.Name))
			} else {
				lines = append(lines, fmt.Sprintf("  - %s: %s", sub.Name, sub.Description))
			}
		}
		description := "\n"
		if cat.Description != "" {
			description = "\n" + cat.Description + "\n"
		}
		blocks = append(blocks, fmt.Sprintf("%s:%s%s", cat.Category, description, strings.Join(lines, "\n")))
	}
	return strings.Join(blocks, "\n\n")
}

// BuildClassificationPrompt substitutes the rendered taxonomy and issue
// text into the instruction template.
func BuildClassificationPrompt(issueText string, taxonomy []types.TaxonomyCategory) string {
	return fmt.Sprintf(classificationPromptTemplate, FormatTaxonomy(taxonomy), issueText)
}
