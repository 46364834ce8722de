package services

import (
	"strings"
	"testing"

	"github.com/hrdesk/hrdesk-backend/internal/types"
)

func sampleTaxonomy() []types.TaxonomyCategory {
	return []types.TaxonomyCategory{
		{
			Category: "Payroll",
			Subcategories: []types.TaxonomySubcategory{
				{Name: "Salary deduction"},
				{Name: "Overtime payment"},
			},
		},
		{
			Category:    "System Access",
			Description: "Covers all issues related to accessing and using internal HR systems or apps.",
			Subcategories: []types.TaxonomySubcategory{
				{Name: "Password reset", Description: "Reset or unlock password for system account."},
			},
		},
	}
}

func TestFormatTaxonomy(t *testing.T) {
	got := FormatTaxonomy(sampleTaxonomy())

	want := "Payroll:\n" +
		"  - Salary deduction\n" +
		"  - Overtime payment\n" +
		"\n" +
		"System Access:\n" +
		"Covers all issues related to accessing and using internal HR systems or apps.\n" +
		"  - Password reset: Reset or unlock password for system account."
	if got != want {
		t.Fatalf("FormatTaxonomy() =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatTaxonomyEmpty(t *testing.T) {
	if got := FormatTaxonomy(nil); got != "" {
		t.Fatalf("FormatTaxonomy(nil) = %q, want empty", got)
	}
}

func TestBuildClassificationPrompt(t *testing.T) {
	issue := "I cannot log into GreatDay after resetting my password"
	got := BuildClassificationPrompt(issue, sampleTaxonomy())

	for _, fragment := range []string{
		issue,
		"Payroll:",
		"  - Password reset: Reset or unlock password for system account.",
		"Return your response as valid JSON only (no markdown, no explanations)",
		`"category": "<category name>"`,
		`"subcategory": "<subcategory name>"`,
		`"reason": "<short reasoning why you chose this category>"`,
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, got)
		}
	}
}
