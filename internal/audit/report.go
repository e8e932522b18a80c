package audit

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Brand Compliance Audit Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
        .header { background: #f4f4f4; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
        .compliance-score { font-size: 2em; font-weight: bold; color: {{.ScoreColor}}; }
        .violation-summary { display: flex; gap: 20px; margin: 20px 0; }
        .violation-card { background: #f8f9fa; padding: 15px; border-radius: 5px; flex: 1; }
        .violation-list { margin: 20px 0; }
        .violation-item { background: white; padding: 10px; margin: 5px 0; border-left: 4px solid #ccc; }
        .violation-high { border-left-color: #FF0000; }
        .violation-medium { border-left-color: #FF8C00; }
        .violation-low { border-left-color: #FFD700; }
        .screenshot { text-align: center; margin: 20px 0; }
        .screenshot img { max-width: 100%; border: 1px solid #ddd; }
        .recommendations { background: #e7f3ff; padding: 15px; border-radius: 5px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Brand Compliance Audit Report</h1>
        <p><strong>URL:</strong> {{.Result.URL}}</p>
        <p><strong>Audit Date:</strong> {{.AuditDate}}</p>
        <p><strong>Brand Guidelines:</strong> {{.GuidelinesName}} (v{{.GuidelinesVersion}})</p>
        <div class="compliance-score">{{.Percentage}}% Compliant</div>
    </div>

    <div class="violation-summary">
        <div class="violation-card">
            <h3>Elements Checked</h3>
            <div style="font-size: 1.5em; font-weight: bold;">{{.Result.TotalChecked}}</div>
        </div>
        <div class="violation-card">
            <h3>Violations Found</h3>
            <div style="font-size: 1.5em; font-weight: bold; color: #dc3545;">{{len .Result.Violations}}</div>
        </div>
        <div class="violation-card">
            <h3>High Priority</h3>
            <div style="font-size: 1.5em; font-weight: bold; color: #FF0000;">{{.HighCount}}</div>
        </div>
    </div>
{{if .ScreenshotRef}}
    <div class="screenshot">
        <h2>Annotated Screenshot</h2>
        <img src="{{.ScreenshotRef}}" alt="Annotated Screenshot showing brand violations">
        <p><em>Violations are highlighted with colored markers. Numbers correspond to the violation list below.</em></p>
    </div>
{{end}}
    <div class="violation-list">
        <h2>Detailed Violations</h2>
{{range $i, $v := .Result.Violations}}
        <div class="violation-item violation-{{$v.Severity}}">
            <h4>#{{inc $i}} - {{title $v.Type}} Violation ({{upper $v.Severity}})</h4>
            <p><strong>Element:</strong> {{$v.ElementID}}</p>
            <p><strong>Issue:</strong> {{$v.Description}}</p>
            {{if $v.Expected}}<p><strong>Expected:</strong> {{$v.Expected}}</p>{{end}}
            {{if $v.Actual}}<p><strong>Actual:</strong> {{$v.Actual}}</p>{{end}}
            {{if $v.Selector}}<p><strong>CSS Selector:</strong> {{$v.Selector}}</p>{{end}}
        </div>
{{end}}
    </div>

    <div class="recommendations">
        <h2>Recommendations</h2>
        <ul>
{{range .Recommendations}}            <li>{{.}}</li>
{{end}}        </ul>
    </div>

    <footer style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #ddd; color: #666;">
        <p>Generated by Skyvern Automated Brand Compliance Audit</p>
    </footer>
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":   func(i int) int { return i + 1 },
	"title": titleCase,
	"upper": func(s entity.Severity) string { return strings.ToUpper(string(s)) },
}).Parse(reportTemplate))

type reportData struct {
	Result            *entity.AuditResult
	AuditDate         string
	GuidelinesName    string
	GuidelinesVersion string
	Percentage        string
	ScoreColor        template.CSS
	HighCount         int
	ScreenshotRef     string
	Recommendations   []string
}

// RenderReport renders the standalone HTML audit report. screenshotRef is
// the image reference embedded in the page, usually the filename of the
// annotated screenshot sitting next to the report file; empty omits the
// screenshot section.
func (a *Annotator) RenderReport(result *entity.AuditResult, screenshotRef string) ([]byte, error) {
	pct := result.Score * 100

	counts := make(map[entity.Severity]int)
	for _, v := range result.Violations {
		counts[v.Severity]++
	}

	var recs []string
	if counts[entity.SeverityHigh] > 0 {
		recs = append(recs, "🚨 Address high-priority violations immediately (colors, primary fonts)")
	}
	if counts[entity.SeverityMedium] > 0 {
		recs = append(recs, "⚠️ Review medium-priority issues (secondary fonts, borders)")
	}
	if counts[entity.SeverityLow] > 0 {
		recs = append(recs, "💡 Fine-tune low-priority spacing and layout issues")
	}
	switch {
	case pct >= 90:
		recs = append(recs, "✅ Excellent compliance! Consider minor refinements for perfect brand consistency.")
	case pct >= 70:
		recs = append(recs, "👍 Good overall compliance. Focus on consistency across all elements.")
	default:
		recs = append(recs, "📋 Consider implementing a design system to enforce brand standards.")
	}

	name, version := "", ""
	if result.Guidelines != nil {
		name, version = result.Guidelines.Name, result.Guidelines.Version
	}

	data := reportData{
		Result:            result,
		AuditDate:         result.CompletedAt.Format(time.RFC3339),
		GuidelinesName:    name,
		GuidelinesVersion: version,
		Percentage:        fmt.Sprintf("%.1f", pct),
		ScoreColor:        scoreColor(pct),
		HighCount:         counts[entity.SeverityHigh],
		ScreenshotRef:     screenshotRef,
		Recommendations:   recs,
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render audit report: %w", err)
	}
	return buf.Bytes(), nil
}

func scoreColor(percentage float64) template.CSS {
	switch {
	case percentage >= 70:
		return "#28a745"
	case percentage < 50:
		return "#dc3545"
	default:
		return "#ffc107"
	}
}
