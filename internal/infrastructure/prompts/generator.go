package prompts

import (
	lcprompts "github.com/tmc/langchaingo/prompts"
)

// AuditSummaryData feeds the single-page audit summary prompt.
type AuditSummaryData struct {
	URL               string
	GuidelinesName    string
	GuidelinesVersion string
	ElementsChecked   int
	ComplianceScore   string
	TotalViolations   int
	ViolationsSummary string
	ColorRules        int
	FontRules         int
	SpacingRules      int
	UserQuery         string
}

// RenderAuditSummary renders the single-page summary prompt. A non-empty
// UserQuery switches the tail of the prompt from reporting instructions to
// answering the question.
func RenderAuditSummary(data AuditSummaryData) (string, error) {
	tpl := lcprompts.PromptTemplate{
		Template: AuditSummaryPrompt,
		InputVariables: []string{
			"url", "guidelines_name", "guidelines_version", "elements_checked",
			"compliance_score", "total_violations", "violations_summary",
			"color_rules", "font_rules", "spacing_rules", "user_query",
		},
		TemplateFormat: lcprompts.TemplateFormatGoTemplate,
	}
	return tpl.Format(map[string]any{
		"url":                data.URL,
		"guidelines_name":    data.GuidelinesName,
		"guidelines_version": data.GuidelinesVersion,
		"elements_checked":   data.ElementsChecked,
		"compliance_score":   data.ComplianceScore,
		"total_violations":   data.TotalViolations,
		"violations_summary": data.ViolationsSummary,
		"color_rules":        data.ColorRules,
		"font_rules":         data.FontRules,
		"spacing_rules":      data.SpacingRules,
		"user_query":         data.UserQuery,
	})
}

// RenderExecutiveSummary renders the multi-page strategic prompt around a
// preformatted page-by-page overview.
func RenderExecutiveSummary(overview string) (string, error) {
	tpl := lcprompts.PromptTemplate{
		Template:       ExecutiveSummaryPrompt,
		InputVariables: []string{"multi_page_summary"},
		TemplateFormat: lcprompts.TemplateFormatGoTemplate,
	}
	return tpl.Format(map[string]any{
		"multi_page_summary": overview,
	})
}
