package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		violations []entity.Violation
		elements   int
		want       float64
	}{
		{"no elements", nil, 0, 1.0},
		{"no violations", nil, 10, 1.0},
		{"one high over ten", []entity.Violation{{Severity: entity.SeverityHigh}}, 10, 0.9},
		{"one medium over ten", []entity.Violation{{Severity: entity.SeverityMedium}}, 10, 0.94},
		{"one low over ten", []entity.Violation{{Severity: entity.SeverityLow}}, 10, 0.97},
		{"unknown severity weighs half", []entity.Violation{{Severity: "critical"}}, 10, 0.95},
		{
			"mixed severities",
			[]entity.Violation{
				{Severity: entity.SeverityHigh},
				{Severity: entity.SeverityMedium},
				{Severity: entity.SeverityLow},
			},
			10,
			0.81,
		},
		{
			"weights beyond element count floor at zero",
			[]entity.Violation{
				{Severity: entity.SeverityHigh},
				{Severity: entity.SeverityHigh},
				{Severity: entity.SeverityHigh},
			},
			2,
			0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.violations, tt.elements))
		})
	}
}

func TestEngineAudit_Colors(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())

	segments := []entity.VisualSegment{
		{
			ElementID: "el_1",
			Selector:  "[unique_id='el_1']",
			Colors: map[string]string{
				"color":            "#007bff",         // primary, ok
				"background-color": "rgb(40,167,69)",  // success, ok
				"border-color":     "rgb(17, 34, 51)", // off brand
			},
		},
	}

	result := engine.Audit(segments, "https://example.com")
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "color", v.Type)
	assert.Equal(t, "el_1", v.ElementID)
	assert.Contains(t, v.Description, "border-color")
	assert.Equal(t, entity.SeverityMedium, v.Severity)
	assert.Equal(t, 1, result.TotalChecked)
}

func TestEngineAudit_ColorSeverityByProperty(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())

	seg := entity.VisualSegment{
		ElementID: "el_1",
		Colors: map[string]string{
			"color":            "#111111",
			"background-color": "#222222",
			"border-color":     "#333333",
		},
	}
	violations := engine.auditSegment(&seg)
	require.Len(t, violations, 3)

	bySeverity := make(map[entity.Severity]int)
	for _, v := range violations {
		bySeverity[v.Severity]++
	}
	assert.Equal(t, 2, bySeverity[entity.SeverityHigh])   // color + background-color
	assert.Equal(t, 1, bySeverity[entity.SeverityMedium]) // border-color
}

func TestEngineAudit_IgnoredColorValues(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())
	seg := entity.VisualSegment{
		ElementID: "el_1",
		Colors:    map[string]string{"background-color": "transparent", "border-color": "inherit"},
	}
	assert.Empty(t, engine.auditSegment(&seg))
}

func TestEngineAudit_Typography(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())

	onBrand := entity.VisualSegment{
		ElementID:  "el_1",
		Typography: map[string]string{"font-family": "Arial, sans-serif", "font-size": "16px", "font-weight": "400"},
	}
	assert.Empty(t, engine.auditSegment(&onBrand))

	offFamily := entity.VisualSegment{
		ElementID:  "el_2",
		Typography: map[string]string{"font-family": "Comic Sans MS"},
	}
	violations := engine.auditSegment(&offFamily)
	require.Len(t, violations, 1)
	assert.Equal(t, "typography", violations[0].Type)
	assert.Equal(t, entity.SeverityMedium, violations[0].Severity)

	offSize := entity.VisualSegment{
		ElementID:  "el_3",
		Typography: map[string]string{"font-family": "Arial", "font-size": "13px"},
	}
	violations = engine.auditSegment(&offSize)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Actual, "font-size: 13px")
}

func TestEngineAudit_Spacing(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())

	seg := entity.VisualSegment{
		ElementID: "el_1",
		Spacing: map[string]string{
			"margin":  "17px", // not in the allowed scale
			"padding": "16px", // allowed
		},
	}
	violations := engine.auditSegment(&seg)
	require.Len(t, violations, 1)
	assert.Equal(t, "spacing", violations[0].Type)
	assert.Equal(t, entity.SeverityLow, violations[0].Severity)
	assert.Equal(t, "17px", violations[0].Actual)

	// values outside any rule's property pass untouched
	free := entity.VisualSegment{
		ElementID: "el_2",
		Spacing:   map[string]string{"margin-top": "123px"},
	}
	assert.Empty(t, engine.auditSegment(&free))
}

func TestSummaryReport(t *testing.T) {
	engine := NewEngine(DefaultGuidelines())
	result := &entity.AuditResult{
		URL:          "https://example.com",
		Score:        0.75,
		TotalChecked: 4,
		Violations: []entity.Violation{
			{Type: "color", Severity: entity.SeverityHigh},
			{Type: "color", Severity: entity.SeverityMedium},
			{Type: "spacing", Severity: entity.SeverityLow},
		},
	}

	report := engine.SummaryReport(result)
	assert.Contains(t, report, "https://example.com")
	assert.Contains(t, report, "75.0%")
	assert.Contains(t, report, "Color: 2")
	assert.Contains(t, report, "Spacing: 1")
	assert.Contains(t, report, "High: 1")
	assert.Contains(t, report, "Good compliance overall")
}
