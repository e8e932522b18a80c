package prompts

import (
	"strings"
	"testing"
)

func TestRenderAuditSummary(t *testing.T) {
	data := AuditSummaryData{
		URL:               "https://shop.example.com",
		GuidelinesName:    "Acme Brand",
		GuidelinesVersion: "2.1.0",
		ElementsChecked:   42,
		ComplianceScore:   "87.5%",
		TotalViolations:   3,
		ViolationsSummary: "COLOR VIOLATIONS (3):\n  - Element: el_7",
		ColorRules:        6,
		FontRules:         2,
		SpacingRules:      2,
	}

	result, err := RenderAuditSummary(data)
	if err != nil {
		t.Fatalf("RenderAuditSummary failed: %v", err)
	}

	if !strings.Contains(result, "Website: https://shop.example.com") {
		t.Error("Result should contain the audited URL")
	}

	if !strings.Contains(result, "Brand Guidelines: Acme Brand (v2.1.0)") {
		t.Error("Result should contain guideline name and version")
	}

	if !strings.Contains(result, "Compliance Score: 87.5%") {
		t.Error("Result should contain the formatted score")
	}

	if !strings.Contains(result, "COLOR VIOLATIONS (3)") {
		t.Error("Result should embed the violation summary")
	}

	if !strings.Contains(result, "Colors: 6 defined color rules") {
		t.Error("Result should describe the guideline context")
	}

	if !strings.Contains(result, "1. An executive summary of the overall compliance status") {
		t.Error("Result should end with reporting instructions when no query is set")
	}

	if strings.Contains(result, "USER QUESTION") {
		t.Error("Result should not contain a user question section")
	}
}

func TestRenderAuditSummaryWithQuery(t *testing.T) {
	data := AuditSummaryData{
		URL:       "https://shop.example.com",
		UserQuery: "Which elements use off-brand colors?",
	}

	result, err := RenderAuditSummary(data)
	if err != nil {
		t.Fatalf("RenderAuditSummary failed: %v", err)
	}

	if !strings.Contains(result, "USER QUESTION: Which elements use off-brand colors?") {
		t.Error("Result should contain the user question")
	}

	if strings.Contains(result, "1. An executive summary of the overall compliance status") {
		t.Error("Reporting instructions should be replaced by the question section")
	}
}

func TestRenderExecutiveSummary(t *testing.T) {
	overview := "Pages Audited: 3\nAverage Compliance: 81.0%"

	result, err := RenderExecutiveSummary(overview)
	if err != nil {
		t.Fatalf("RenderExecutiveSummary failed: %v", err)
	}

	if !strings.Contains(result, overview) {
		t.Error("Result should embed the page-by-page overview")
	}

	if !strings.Contains(result, "strategic insights") {
		t.Error("Result should keep the strategic framing")
	}
}
