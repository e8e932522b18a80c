package prompts_test

import (
	"strings"
	"testing"

	"github.com/chandrakanthm/skyvern/internal/infrastructure/prompts"
)

func TestEmbeddedPromptsRender(t *testing.T) {
	data := prompts.AuditSummaryData{
		URL:               "https://example.com",
		GuidelinesName:    "Sample Brand Guidelines",
		GuidelinesVersion: "1.0.0",
		ElementsChecked:   10,
		ComplianceScore:   "92.0%",
		ViolationsSummary: "No violations found - excellent compliance!",
	}

	prompt, err := prompts.RenderAuditSummary(data)
	if err != nil {
		t.Fatalf("Failed to render audit summary prompt: %v", err)
	}

	if len(prompt) < 100 {
		t.Error("Rendered prompt seems too short")
	}

	if !strings.Contains(prompt, "brand compliance expert") {
		t.Error("Prompt should carry the compliance expert framing")
	}
}
