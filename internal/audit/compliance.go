package audit

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// severityWeights orders violations for scoring. Severities outside the
// known set weigh 0.5.
var severityWeights = map[entity.Severity]float64{
	entity.SeverityHigh:   1.0,
	entity.SeverityMedium: 0.6,
	entity.SeverityLow:    0.3,
}

var (
	ignoredColorValues   = map[string]bool{"transparent": true, "inherit": true, "initial": true, "unset": true}
	ignoredSpacingValues = map[string]bool{"0": true, "auto": true, "inherit": true, "initial": true, "unset": true}
)

// Engine checks visual segments against one set of brand guidelines.
type Engine struct {
	guidelines *entity.BrandGuidelines
}

func NewEngine(guidelines *entity.BrandGuidelines) *Engine {
	return &Engine{guidelines: guidelines}
}

func (e *Engine) Guidelines() *entity.BrandGuidelines { return e.guidelines }

// Audit checks every segment against the guidelines and scores the page.
// Identifiers, summaries and artifact paths are left for the caller to fill.
func (e *Engine) Audit(segments []entity.VisualSegment, url string) *entity.AuditResult {
	violations := make([]entity.Violation, 0)
	for i := range segments {
		violations = append(violations, e.auditSegment(&segments[i])...)
	}
	return &entity.AuditResult{
		URL:          url,
		Guidelines:   e.guidelines,
		Score:        Score(violations, len(segments)),
		TotalChecked: len(segments),
		Violations:   violations,
	}
}

func (e *Engine) auditSegment(seg *entity.VisualSegment) []entity.Violation {
	var out []entity.Violation
	out = append(out, e.auditColors(seg)...)
	out = append(out, e.auditTypography(seg)...)
	out = append(out, e.auditSpacing(seg)...)
	return out
}

func (e *Engine) auditColors(seg *entity.VisualSegment) []entity.Violation {
	var out []entity.Violation
	for _, prop := range sortedKeys(seg.Colors) {
		value := seg.Colors[prop]
		if value == "" || ignoredColorValues[value] {
			continue
		}
		for _, msg := range validateColor(e.guidelines, value) {
			out = append(out, entity.Violation{
				ElementID:   seg.ElementID,
				Type:        "color",
				Description: fmt.Sprintf("%s: %s", prop, msg),
				Expected:    e.expectedColors(),
				Actual:      value,
				Severity:    colorSeverity(prop),
				Selector:    seg.Selector,
				Rect:        seg.Rect,
			})
		}
	}
	return out
}

func (e *Engine) auditTypography(seg *entity.VisualSegment) []entity.Violation {
	family := seg.Typography["font-family"]
	if family == "" {
		return nil
	}
	size := seg.Typography["font-size"]
	weight := seg.Typography["font-weight"]

	var out []entity.Violation
	for _, msg := range validateFont(e.guidelines, family, size, weight) {
		out = append(out, entity.Violation{
			ElementID:   seg.ElementID,
			Type:        "typography",
			Description: msg,
			Expected:    e.expectedFonts(),
			Actual:      fmt.Sprintf("font-family: %s, font-size: %s, font-weight: %s", family, size, weight),
			Severity:    entity.SeverityMedium,
			Selector:    seg.Selector,
			Rect:        seg.Rect,
		})
	}
	return out
}

func (e *Engine) auditSpacing(seg *entity.VisualSegment) []entity.Violation {
	var out []entity.Violation
	for _, prop := range sortedKeys(seg.Spacing) {
		value := seg.Spacing[prop]
		if value == "" || ignoredSpacingValues[value] {
			continue
		}
		for _, msg := range validateSpacing(e.guidelines, prop, value) {
			out = append(out, entity.Violation{
				ElementID:   seg.ElementID,
				Type:        "spacing",
				Description: msg,
				Expected:    e.expectedSpacing(prop),
				Actual:      value,
				Severity:    entity.SeverityLow,
				Selector:    seg.Selector,
				Rect:        seg.Rect,
			})
		}
	}
	return out
}

// Score computes the compliance score from violation weights, rounded to
// three decimals. The assumed worst case is one high-severity violation per
// element; a page with no elements scores a clean 1.0.
func Score(violations []entity.Violation, totalElements int) float64 {
	if totalElements == 0 {
		return 1.0
	}
	var weight float64
	for _, v := range violations {
		w, ok := severityWeights[v.Severity]
		if !ok {
			w = 0.5
		}
		weight += w
	}
	score := math.Max(0, 1-weight/float64(totalElements))
	return math.Round(score*1000) / 1000
}

func colorSeverity(property string) entity.Severity {
	switch property {
	case "color", "background-color":
		return entity.SeverityHigh
	case "border-color":
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}

func (e *Engine) expectedColors() string {
	names := make([]string, len(e.guidelines.Colors))
	for i, r := range e.guidelines.Colors {
		names[i] = r.Name
	}
	return "Expected colors: " + strings.Join(names, ", ")
}

func (e *Engine) expectedFonts() string {
	names := make([]string, len(e.guidelines.Fonts))
	for i, r := range e.guidelines.Fonts {
		names[i] = r.Name
	}
	return "Expected fonts: " + strings.Join(names, ", ")
}

func (e *Engine) expectedSpacing(property string) string {
	for _, rule := range e.guidelines.Spacing {
		if rule.Property == property {
			return "Allowed values: " + strings.Join(rule.AllowedValues, ", ")
		}
	}
	return "No specific spacing rules defined"
}

// SummaryReport renders the plain-text audit summary.
func (e *Engine) SummaryReport(result *entity.AuditResult) string {
	var b strings.Builder
	percentage := result.Score * 100

	fmt.Fprintf(&b, `
Brand Compliance Audit Report
=============================

URL: %s
Audit Date: %s
Brand Guidelines: %s (v%s)

Overall Compliance Score: %.1f%%
Total Elements Checked: %d
Total Violations Found: %d

Violation Breakdown:
`, result.URL, result.CompletedAt.Format(time.RFC3339), e.guidelines.Name, e.guidelines.Version,
		percentage, result.TotalChecked, len(result.Violations))

	byType, typeOrder := countViolations(result.Violations, func(v entity.Violation) string { return v.Type })
	bySeverity, severityOrder := countViolations(result.Violations, func(v entity.Violation) string { return string(v.Severity) })

	b.WriteString("\nBy Type:\n")
	for _, t := range typeOrder {
		fmt.Fprintf(&b, "  - %s: %d\n", titleCase(t), byType[t])
	}

	b.WriteString("\nBy Severity:\n")
	for _, s := range severityOrder {
		fmt.Fprintf(&b, "  - %s: %d\n", titleCase(s), bySeverity[s])
	}

	b.WriteString("\nRecommendations:\n")
	switch {
	case percentage >= 90:
		b.WriteString("  - Excellent compliance! Minor adjustments may further improve brand consistency.\n")
	case percentage >= 70:
		b.WriteString("  - Good compliance overall. Focus on addressing high-severity violations first.\n")
	case percentage >= 50:
		b.WriteString("  - Moderate compliance. Consider reviewing brand guidelines implementation.\n")
	default:
		b.WriteString("  - Low compliance detected. Comprehensive brand guidelines review recommended.\n")
	}
	return b.String()
}

// countViolations tallies violations by key, keeping first-seen key order so
// reports render deterministically.
func countViolations(violations []entity.Violation, key func(entity.Violation) string) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, v := range violations {
		k := key(v)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
