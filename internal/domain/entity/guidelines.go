package entity

// ColorRule names one brand color. Value may be any css color notation the
// normalizer understands (hex, rgb, rgba, hsl). Tolerance is the allowed
// fraction of the maximum RGB distance before a color counts as off-brand;
// zero demands an exact match.
type ColorRule struct {
	Name      string  `yaml:"name" json:"name"`
	Value     string  `yaml:"value" json:"value"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// FontRule constrains typography. Family matches by case-insensitive
// substring in either direction, so "Arial" accepts "Arial, sans-serif".
// Empty size or weight lists allow any value.
type FontRule struct {
	Name           string   `yaml:"name" json:"name"`
	Family         string   `yaml:"family" json:"family"`
	AllowedSizes   []string `yaml:"allowed_sizes" json:"allowedSizes,omitempty"`
	AllowedWeights []string `yaml:"allowed_weights" json:"allowedWeights,omitempty"`
}

// SpacingRule allows only the listed values for one spacing property.
type SpacingRule struct {
	Name          string   `yaml:"name" json:"name"`
	Property      string   `yaml:"property" json:"property"`
	AllowedValues []string `yaml:"allowed_values" json:"allowedValues"`
}

type BrandGuidelines struct {
	Name    string        `yaml:"name" json:"name"`
	Version string        `yaml:"version" json:"version"`
	Colors  []ColorRule   `yaml:"colors" json:"colors"`
	Fonts   []FontRule    `yaml:"fonts" json:"fonts"`
	Spacing []SpacingRule `yaml:"spacing" json:"spacing"`
}
