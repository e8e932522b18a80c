package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/prompts"
)

// Summarizer turns audit results into natural-language summaries, through
// the LLM when one is wired and a deterministic fallback otherwise.
type Summarizer struct {
	llm output.LLMPort
	log output.LoggerPort
}

// NewSummarizer builds a summarizer. llm may be nil, which pins every
// summary to the fallback text.
func NewSummarizer(llm output.LLMPort, log output.LoggerPort) *Summarizer {
	return &Summarizer{llm: llm, log: log}
}

// Summarize describes one audit result in natural language. A non-empty
// query redirects the summary into answering that question. screenshot,
// when provided, is attached to the completion as a vision part so the
// model sees the annotated page it is describing. LLM failures fall back to
// BasicSummary.
func (s *Summarizer) Summarize(ctx context.Context, result *entity.AuditResult, query string, screenshot []byte) string {
	if s.llm == nil {
		s.log.Warn("No LLM handler configured, falling back to basic summary")
		return s.BasicSummary(result)
	}

	prompt, err := prompts.RenderAuditSummary(summaryData(result, query))
	if err != nil {
		s.log.Error("Failed to render summary prompt", "error", err)
		return s.BasicSummary(result)
	}

	req := output.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
	if screenshot != nil {
		req.Images = [][]byte{screenshot}
	}

	text, err := s.llm.Complete(ctx, req)
	if err != nil {
		s.log.Error("Failed to generate natural language summary", "error", err)
		return s.BasicSummary(result)
	}
	return strings.TrimSpace(text)
}

// ExecutiveSummary describes a multi-page run. With a single result it
// degrades to the single-page summary; with several it builds a page-by-page
// overview and asks the LLM for strategic insights, returning the overview
// itself when no LLM is wired or the call fails.
func (s *Summarizer) ExecutiveSummary(ctx context.Context, results []*entity.AuditResult) string {
	if len(results) == 0 {
		return "No audit results available for summary."
	}
	if len(results) == 1 {
		return s.Summarize(ctx, results[0], "", nil)
	}

	var totalElements, totalViolations int
	var scoreSum float64
	for _, r := range results {
		totalElements += r.TotalChecked
		totalViolations += len(r.Violations)
		scoreSum += r.Score
	}
	avgCompliance := scoreSum / float64(len(results))

	var b strings.Builder
	fmt.Fprintf(&b, `
Multi-Page Brand Compliance Executive Summary

Pages Audited: %d
Total Elements: %d
Average Compliance: %.1f%%
Total Violations: %d

Page-by-Page Results:
`, len(results), totalElements, avgCompliance*100, totalViolations)
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s: %.1f%% compliant (%d violations)\n", i+1, r.URL, r.Score*100, len(r.Violations))
	}
	overview := b.String()

	if s.llm == nil {
		return overview
	}

	prompt, err := prompts.RenderExecutiveSummary(overview)
	if err != nil {
		s.log.Error("Failed to render executive summary prompt", "error", err)
		return overview
	}

	text, err := s.llm.Complete(ctx, output.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0.3,
		MaxTokens:   800,
	})
	if err != nil {
		s.log.Error("Failed to generate executive summary with LLM", "error", err)
		return overview
	}
	return strings.TrimSpace(text)
}

// BasicSummary is the deterministic summary used when no LLM is available.
func (s *Summarizer) BasicSummary(result *entity.AuditResult) string {
	pct := result.Score * 100
	totalViolations := len(result.Violations)

	var b strings.Builder
	fmt.Fprintf(&b, `
Brand Compliance Summary for %s

Overall Status: %.1f%% Compliant
Elements Analyzed: %d
Violations Found: %d

`, result.URL, pct, result.TotalChecked, totalViolations)

	switch {
	case pct >= 90:
		b.WriteString("✅ EXCELLENT: Your website shows strong brand compliance with only minor issues to address.\n\n")
	case pct >= 70:
		b.WriteString("⚠️ GOOD: Your website has good brand compliance but some areas need attention.\n\n")
	case pct >= 50:
		b.WriteString("🔶 MODERATE: Your website has moderate compliance issues that should be addressed.\n\n")
	default:
		b.WriteString("🚨 NEEDS ATTENTION: Your website has significant brand compliance issues requiring immediate attention.\n\n")
	}

	if totalViolations > 0 {
		byType, typeOrder := countViolations(result.Violations, func(v entity.Violation) string { return v.Type })
		bySeverity, _ := countViolations(result.Violations, func(v entity.Violation) string { return string(v.Severity) })

		b.WriteString("Issue Breakdown:\n")
		for _, t := range typeOrder {
			fmt.Fprintf(&b, "  • %s: %d issues\n", titleCase(t), byType[t])
		}

		b.WriteString("\nPriority Levels:\n")
		for _, sev := range []string{"high", "medium", "low"} {
			if n := bySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "  • %s: %d issues\n", titleCase(sev), n)
			}
		}

		b.WriteString("\nRecommendations:\n")
		if bySeverity["high"] > 0 {
			b.WriteString("  1. Address high-priority violations first (colors, primary fonts)\n")
		}
		if bySeverity["medium"] > 0 {
			b.WriteString("  2. Review medium-priority issues (secondary fonts, borders)\n")
		}
		if bySeverity["low"] > 0 {
			b.WriteString("  3. Fine-tune low-priority spacing and layout issues\n")
		}
	}

	return b.String()
}

func summaryData(result *entity.AuditResult, query string) prompts.AuditSummaryData {
	data := prompts.AuditSummaryData{
		URL:               result.URL,
		ElementsChecked:   result.TotalChecked,
		ComplianceScore:   fmt.Sprintf("%.1f%%", result.Score*100),
		TotalViolations:   len(result.Violations),
		ViolationsSummary: formatViolationsForPrompt(result.Violations),
		UserQuery:         query,
	}
	if result.Guidelines != nil {
		data.GuidelinesName = result.Guidelines.Name
		data.GuidelinesVersion = result.Guidelines.Version
		data.ColorRules = len(result.Guidelines.Colors)
		data.FontRules = len(result.Guidelines.Fonts)
		data.SpacingRules = len(result.Guidelines.Spacing)
	}
	return data
}

// formatViolationsForPrompt groups violations by type and shows up to three
// examples per group, keeping the prompt bounded on violation-heavy pages.
func formatViolationsForPrompt(violations []entity.Violation) string {
	if len(violations) == 0 {
		return "No violations found - excellent compliance!"
	}

	groups := make(map[string][]entity.Violation)
	var order []string
	for _, v := range violations {
		if _, seen := groups[v.Type]; !seen {
			order = append(order, v.Type)
		}
		groups[v.Type] = append(groups[v.Type], v)
	}

	var b strings.Builder
	for _, t := range order {
		group := groups[t]
		fmt.Fprintf(&b, "\n%s VIOLATIONS (%d):\n", strings.ToUpper(t), len(group))

		shown := group
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, v := range shown {
			fmt.Fprintf(&b, "  - Element: %s\n", v.ElementID)
			fmt.Fprintf(&b, "    Issue: %s\n", v.Description)
			if v.Expected != "" {
				fmt.Fprintf(&b, "    Expected: %s\n", v.Expected)
			}
			if v.Actual != "" {
				fmt.Fprintf(&b, "    Actual: %s\n", v.Actual)
			}
			fmt.Fprintf(&b, "    Severity: %s\n\n", v.Severity)
		}

		if len(group) > 3 {
			fmt.Fprintf(&b, "  ... and %d more %s violations\n", len(group)-3, t)
		}
	}
	return b.String()
}
