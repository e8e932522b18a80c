package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// LoadGuidelines reads brand guidelines from a YAML or JSON file, picked by
// file extension.
func LoadGuidelines(path string) (*entity.BrandGuidelines, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidelines: %w", err)
	}
	return ParseGuidelines(raw, filepath.Ext(path))
}

// ParseGuidelines decodes guidelines from YAML or JSON. ext picks the
// decoder and must be ".yaml", ".yml" or ".json".
func ParseGuidelines(raw []byte, ext string) (*entity.BrandGuidelines, error) {
	var g entity.BrandGuidelines
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("parse yaml guidelines: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("parse json guidelines: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported guidelines format %q, want .yaml, .yml or .json", ext)
	}
	if g.Name == "" {
		g.Name = "Unnamed Guidelines"
	}
	if g.Version == "" {
		g.Version = "1.0.0"
	}
	return &g, nil
}

// DefaultGuidelines is the built-in sample rule set used when a caller
// provides none.
func DefaultGuidelines() *entity.BrandGuidelines {
	spacingValues := []string{"0", "4px", "8px", "12px", "16px", "20px", "24px", "32px", "48px"}
	return &entity.BrandGuidelines{
		Name:    "Sample Brand Guidelines",
		Version: "1.0.0",
		Colors: []entity.ColorRule{
			{Name: "primary", Value: "#007bff", Tolerance: 0.1},
			{Name: "secondary", Value: "#6c757d", Tolerance: 0.1},
			{Name: "success", Value: "#28a745", Tolerance: 0.1},
			{Name: "danger", Value: "#dc3545", Tolerance: 0.1},
			{Name: "warning", Value: "#ffc107", Tolerance: 0.1},
			{Name: "info", Value: "#17a2b8", Tolerance: 0.1},
		},
		Fonts: []entity.FontRule{
			{
				Name:           "primary",
				Family:         "Arial, sans-serif",
				AllowedSizes:   []string{"12px", "14px", "16px", "18px", "20px", "24px", "32px"},
				AllowedWeights: []string{"normal", "bold", "400", "700"},
			},
			{
				Name:           "heading",
				Family:         "Georgia, serif",
				AllowedSizes:   []string{"18px", "20px", "24px", "28px", "32px", "36px", "48px"},
				AllowedWeights: []string{"normal", "bold", "400", "700"},
			},
		},
		Spacing: []entity.SpacingRule{
			{Name: "margin", Property: "margin", AllowedValues: spacingValues},
			{Name: "padding", Property: "padding", AllowedValues: spacingValues},
		},
	}
}

// matchesFont reports whether the computed font settings satisfy one rule.
// Family comparison is a case-insensitive substring test in either
// direction, so a computed stack like "arial, helvetica, sans-serif" still
// matches an "Arial" rule. Size and weight are only constrained when the
// rule lists allowed values and the computed value is present.
func matchesFont(rule entity.FontRule, family, size, weight string) bool {
	want := normalizeFontFamily(rule.Family)
	got := normalizeFontFamily(family)
	if !strings.Contains(got, want) && !strings.Contains(want, got) {
		return false
	}
	if len(rule.AllowedSizes) > 0 && size != "" && !slices.Contains(rule.AllowedSizes, size) {
		return false
	}
	if len(rule.AllowedWeights) > 0 && weight != "" && !slices.Contains(rule.AllowedWeights, weight) {
		return false
	}
	return true
}

func normalizeFontFamily(family string) string {
	f := strings.ToLower(family)
	f = strings.ReplaceAll(f, `"`, "")
	return strings.ReplaceAll(f, "'", "")
}

// validateColor returns violation messages for a computed color value, empty
// when any color rule accepts it.
func validateColor(g *entity.BrandGuidelines, value string) []string {
	for _, rule := range g.Colors {
		if matchesColor(rule, value) {
			return nil
		}
	}
	return []string{fmt.Sprintf("Color '%s' does not match any brand guidelines", value)}
}

// validateFont returns violation messages for computed font settings, empty
// when any font rule accepts them.
func validateFont(g *entity.BrandGuidelines, family, size, weight string) []string {
	for _, rule := range g.Fonts {
		if matchesFont(rule, family, size, weight) {
			return nil
		}
	}
	return []string{fmt.Sprintf("Font '%s' does not match any brand guidelines", family)}
}

// validateSpacing returns violation messages for a computed spacing value,
// one per rule that constrains the property and rejects the value.
func validateSpacing(g *entity.BrandGuidelines, property, value string) []string {
	var out []string
	for _, rule := range g.Spacing {
		if rule.Property == property && !slices.Contains(rule.AllowedValues, value) {
			out = append(out, fmt.Sprintf("Spacing value '%s' for property '%s' violates brand guidelines", value, property))
		}
	}
	return out
}
