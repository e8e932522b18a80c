package input

import (
	"context"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// AuditRequest configures a single-page compliance audit. Guidelines wins
// over GuidelinesPath when both are set; when neither is set the runner
// audits against the built-in sample guidelines.
type AuditRequest struct {
	URL               string
	Guidelines        *entity.BrandGuidelines
	GuidelinesPath    string
	IncludeScreenshot bool
	GenerateReport    bool
	SkipSummary       bool
}

// MultiAuditRequest configures a sequential audit over several pages.
type MultiAuditRequest struct {
	URLs              []string
	Guidelines        *entity.BrandGuidelines
	GuidelinesPath    string
	IncludeScreenshot bool
	GenerateReport    bool
	SkipSummary       bool
}

type AuditRunner interface {
	RunSingle(ctx context.Context, req AuditRequest) (*entity.AuditResult, error)
	RunMultiple(ctx context.Context, req MultiAuditRequest) (*entity.MultiAuditResult, error)
	Get(auditID string) (*entity.AuditResult, bool)
	Query(ctx context.Context, auditID string, query string) (string, error)
}
