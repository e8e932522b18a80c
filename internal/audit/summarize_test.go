package audit

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
	"github.com/chandrakanthm/skyvern/internal/infrastructure/logger"
)

type stubLLM struct {
	reply    string
	err      error
	lastReq  output.CompletionRequest
	requests int
}

func (s *stubLLM) Complete(ctx context.Context, req output.CompletionRequest) (string, error) {
	s.lastReq = req
	s.requests++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func sampleResult() *entity.AuditResult {
	return &entity.AuditResult{
		AuditID:      "audit-1",
		URL:          "https://example.com",
		Score:        0.8,
		TotalChecked: 5,
		Violations: []entity.Violation{
			{ElementID: "el_1", Type: "color", Description: "off-brand text color", Severity: entity.SeverityHigh},
			{ElementID: "el_2", Type: "spacing", Description: "odd margin", Severity: entity.SeverityLow},
		},
	}
}

func TestSummarize_UsesLLM(t *testing.T) {
	llm := &stubLLM{reply: "  The page is mostly on brand.  "}
	s := NewSummarizer(llm, logger.NewNop())

	text := s.Summarize(context.Background(), sampleResult(), "", []byte("img"))
	assert.Equal(t, "The page is mostly on brand.", text)
	require.Equal(t, 1, llm.requests)
	assert.Contains(t, llm.lastReq.Prompt, "https://example.com")
	assert.Contains(t, llm.lastReq.Prompt, "off-brand text color")
	require.Len(t, llm.lastReq.Images, 1)
}

func TestSummarize_NoLLMFallsBack(t *testing.T) {
	s := NewSummarizer(nil, logger.NewNop())
	text := s.Summarize(context.Background(), sampleResult(), "", nil)
	assert.Equal(t, s.BasicSummary(sampleResult()), text)
}

func TestSummarize_LLMFailureFallsBack(t *testing.T) {
	llm := &stubLLM{err: fmt.Errorf("rate limited")}
	s := NewSummarizer(llm, logger.NewNop())
	text := s.Summarize(context.Background(), sampleResult(), "", nil)
	assert.Equal(t, s.BasicSummary(sampleResult()), text)
}

func TestBasicSummary_Deterministic(t *testing.T) {
	s := NewSummarizer(nil, logger.NewNop())
	result := sampleResult()

	first := s.BasicSummary(result)
	assert.Equal(t, first, s.BasicSummary(result))

	assert.Contains(t, first, "https://example.com")
	assert.Contains(t, first, "80.0% Compliant")
	assert.Contains(t, first, "Elements Analyzed: 5")
	assert.Contains(t, first, "Violations Found: 2")
	assert.Contains(t, first, "Color: 1 issues")
	assert.Contains(t, first, "Spacing: 1 issues")
	assert.Contains(t, first, "GOOD")
}

func TestBasicSummary_StatusBands(t *testing.T) {
	s := NewSummarizer(nil, logger.NewNop())
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, "EXCELLENT"},
		{0.75, "GOOD"},
		{0.55, "MODERATE"},
		{0.2, "NEEDS ATTENTION"},
	}
	for _, tt := range tests {
		got := s.BasicSummary(&entity.AuditResult{URL: "https://x.com", Score: tt.score})
		assert.Contains(t, got, tt.want, "score %v", tt.score)
	}
}

func TestExecutiveSummary(t *testing.T) {
	s := NewSummarizer(nil, logger.NewNop())

	assert.Equal(t, "No audit results available for summary.", s.ExecutiveSummary(context.Background(), nil))

	// one result degrades to the single-page summary
	one := s.ExecutiveSummary(context.Background(), []*entity.AuditResult{sampleResult()})
	assert.Contains(t, one, "Brand Compliance Summary")

	// several results without an LLM return the overview itself
	results := []*entity.AuditResult{
		{URL: "https://a.com", Score: 0.9, TotalChecked: 10},
		{URL: "https://b.com", Score: 0.7, TotalChecked: 10, Violations: []entity.Violation{{Type: "color"}}},
	}
	overview := s.ExecutiveSummary(context.Background(), results)
	assert.Contains(t, overview, "Pages Audited: 2")
	assert.Contains(t, overview, "Average Compliance: 80.0%")
	assert.Contains(t, overview, "1. https://a.com: 90.0% compliant (0 violations)")
	assert.Contains(t, overview, "2. https://b.com: 70.0% compliant (1 violations)")
}

func TestExecutiveSummary_WithLLM(t *testing.T) {
	llm := &stubLLM{reply: "Focus on color discipline."}
	s := NewSummarizer(llm, logger.NewNop())

	results := []*entity.AuditResult{
		{URL: "https://a.com", Score: 0.9},
		{URL: "https://b.com", Score: 0.7},
	}
	text := s.ExecutiveSummary(context.Background(), results)
	assert.Equal(t, "Focus on color discipline.", text)
	assert.Contains(t, llm.lastReq.Prompt, "https://a.com")
}

func TestFormatViolationsForPrompt_Bounded(t *testing.T) {
	var violations []entity.Violation
	for i := 0; i < 7; i++ {
		violations = append(violations, entity.Violation{
			ElementID:   fmt.Sprintf("el_%d", i),
			Type:        "color",
			Description: "off brand",
			Severity:    entity.SeverityHigh,
		})
	}

	text := formatViolationsForPrompt(violations)
	assert.Contains(t, text, "COLOR VIOLATIONS (7)")
	assert.Contains(t, text, "el_0")
	assert.Contains(t, text, "el_2")
	assert.NotContains(t, text, "el_3")
	assert.Contains(t, text, "... and 4 more color violations")

	assert.Equal(t, "No violations found - excellent compliance!", formatViolationsForPrompt(nil))
}
