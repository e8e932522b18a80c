package entity

import "time"

// Severity ranks how strongly a violation breaks the guidelines.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rect is an element's bounding box in page coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// VisualSegment is one element's computed styles grouped by concern. Map keys
// are CSS property names, values are the computed values at capture time.
type VisualSegment struct {
	ElementID  string            `json:"element_id"`
	Selector   string            `json:"css_selector"`
	TagName    string            `json:"tag_name,omitempty"`
	Text       string            `json:"text_content,omitempty"`
	Rect       *Rect             `json:"rect,omitempty"`
	Colors     map[string]string `json:"colors,omitempty"`
	Typography map[string]string `json:"typography,omitempty"`
	Spacing    map[string]string `json:"spacing,omitempty"`
	Layout     map[string]string `json:"layout,omitempty"`
}

// Violation is one brand-guideline breach found on a page.
type Violation struct {
	ElementID   string   `json:"element_id"`
	Type        string   `json:"violation_type"`
	Description string   `json:"description"`
	Expected    string   `json:"expected_value,omitempty"`
	Actual      string   `json:"actual_value,omitempty"`
	Severity    Severity `json:"severity"`
	Selector    string   `json:"css_selector,omitempty"`
	Rect        *Rect    `json:"rect,omitempty"`
}

// PageStats aggregates what the visual analyzer saw on one page.
type PageStats struct {
	TotalElements  int `json:"total_elements"`
	DistinctColors int `json:"distinct_colors"`
	DistinctFonts  int `json:"distinct_fonts"`
}

// AuditResult is the outcome of auditing a single page.
type AuditResult struct {
	AuditID        string           `json:"audit_id"`
	URL            string           `json:"url"`
	Guidelines     *BrandGuidelines `json:"guidelines,omitempty"`
	Score          float64          `json:"compliance_score"`
	TotalChecked   int              `json:"total_elements_checked"`
	Violations     []Violation      `json:"violations"`
	Stats          PageStats        `json:"stats"`
	Summary        string           `json:"summary,omitempty"`
	ScreenshotPath string           `json:"screenshot_path,omitempty"`
	ReportPath     string           `json:"report_path,omitempty"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// ViolationsByType returns the violations of one violation type.
func (r *AuditResult) ViolationsByType(violationType string) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Type == violationType {
			out = append(out, v)
		}
	}
	return out
}

// ViolationsBySeverity returns the violations of one severity.
func (r *AuditResult) ViolationsBySeverity(severity Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == severity {
			out = append(out, v)
		}
	}
	return out
}

// MultiAuditResult aggregates a multi-page run. Failed maps a URL to the
// error that stopped its audit; the run itself continues past failures.
type MultiAuditResult struct {
	AuditID          string            `json:"audit_id"`
	Results          []*AuditResult    `json:"results"`
	Failed           map[string]string `json:"failed,omitempty"`
	AverageScore     float64           `json:"average_compliance_score"`
	TotalChecked     int               `json:"total_elements_checked"`
	TotalViolations  int               `json:"total_violations_found"`
	ExecutiveSummary string            `json:"executive_summary,omitempty"`
	StartedAt        time.Time         `json:"started_at"`
	CompletedAt      time.Time         `json:"completed_at"`
}
