package prompts

import (
	_ "embed"
)

//go:embed audit_summary.txt
var AuditSummaryPrompt string

//go:embed executive_summary.txt
var ExecutiveSummaryPrompt string
