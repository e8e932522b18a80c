package audit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-rod/rod"

	"github.com/chandrakanthm/skyvern/internal/application/port/output"
	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// styleProperties is the computed-style surface captured per element.
var styleProperties = []string{
	"color",
	"background-color",
	"font-family",
	"font-size",
	"font-weight",
	"margin",
	"margin-top",
	"margin-right",
	"margin-bottom",
	"margin-left",
	"padding",
	"padding-top",
	"padding-right",
	"padding-bottom",
	"padding-left",
	"border-color",
	"border-width",
	"border-radius",
	"box-shadow",
	"text-align",
	"line-height",
	"letter-spacing",
}

var (
	colorProps      = []string{"color", "background-color", "border-color"}
	typographyProps = []string{"font-family", "font-size", "font-weight", "line-height", "letter-spacing", "text-align"}
	spacingProps    = []string{
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
	}
	layoutProps = []string{"border-width", "border-radius", "box-shadow", "_width", "_height"}
)

// extractStylesJS reads the computed style of one element. Pseudo keys
// prefixed with an underscore carry the bounding box and text content next
// to the real CSS properties. An empty string means the selector matched
// nothing.
const extractStylesJS = `(selector, properties) => {
	const element = document.querySelector(selector);
	if (!element) {
		return "";
	}

	const computed = window.getComputedStyle(element);
	const styles = {};
	for (const prop of properties) {
		const value = computed.getPropertyValue(prop);
		if (value && value !== 'initial' && value !== 'inherit') {
			styles[prop] = value.trim();
		}
	}

	const rect = element.getBoundingClientRect();
	styles['_width'] = rect.width + 'px';
	styles['_height'] = rect.height + 'px';
	styles['_x'] = rect.x + 'px';
	styles['_y'] = rect.y + 'px';
	styles['_text_content'] = element.textContent ? element.textContent.trim() : '';

	return JSON.stringify(styles);
}`

// Analyzer captures computed styles for the interactable elements of a
// scraped page and groups them into visual segments.
type Analyzer struct {
	log output.LoggerPort
}

func NewAnalyzer(log output.LoggerPort) *Analyzer {
	return &Analyzer{log: log}
}

// Analyze walks the scraped tree in document order and captures computed
// styles for every interactable element. Elements whose selector no longer
// matches the main document, iframe content included, are skipped.
func (a *Analyzer) Analyze(page *rod.Page, scrape *entity.ScrapedPage) []entity.VisualSegment {
	var segments []entity.VisualSegment

	var walk func(nodes []*entity.ElementMetadata)
	walk = func(nodes []*entity.ElementMetadata) {
		for _, node := range nodes {
			if node == nil {
				continue
			}
			if node.Interactable {
				if seg, ok := a.segmentFor(page, scrape, node); ok {
					segments = append(segments, seg)
				}
			}
			walk(node.Children)
		}
	}
	walk(scrape.Elements)

	return segments
}

func (a *Analyzer) segmentFor(page *rod.Page, scrape *entity.ScrapedPage, node *entity.ElementMetadata) (entity.VisualSegment, bool) {
	selector := scrape.IDToCSS[node.ID]
	if selector == "" {
		return entity.VisualSegment{}, false
	}

	styles, err := a.extractStyles(page, selector)
	if err != nil {
		a.log.Warn("Failed to extract styles for element", "elementId", node.ID, "error", err)
		return entity.VisualSegment{}, false
	}
	if styles == nil {
		return entity.VisualSegment{}, false
	}

	seg := entity.VisualSegment{
		ElementID: node.ID,
		Selector:  selector,
		TagName:   node.TagName,
		Text:      styles["_text_content"],
		Rect:      rectFrom(styles),
	}
	seg.Colors = pickProps(styles, colorProps)
	seg.Typography = pickProps(styles, typographyProps)
	seg.Spacing = pickProps(styles, spacingProps)
	seg.Layout = pickProps(styles, layoutProps)
	return seg, true
}

func (a *Analyzer) extractStyles(page *rod.Page, selector string) (map[string]string, error) {
	res, err := page.Eval(extractStylesJS, selector, styleProperties)
	if err != nil {
		return nil, err
	}
	raw := res.Value.Str()
	if raw == "" {
		return nil, nil
	}
	styles := make(map[string]string)
	if err := json.Unmarshal([]byte(raw), &styles); err != nil {
		return nil, fmt.Errorf("decode style payload: %w", err)
	}
	return styles, nil
}

// rectFrom rebuilds the bounding box from the pseudo keys the extraction
// script records. Any malformed value drops the whole box.
func rectFrom(styles map[string]string) *entity.Rect {
	px := func(key string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(styles[key], "px"), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	x, okX := px("_x")
	y, okY := px("_y")
	w, okW := px("_width")
	h, okH := px("_height")
	if !okX || !okY || !okW || !okH {
		return nil
	}
	return &entity.Rect{X: x, Y: y, Width: w, Height: h}
}

func pickProps(styles map[string]string, props []string) map[string]string {
	m := make(map[string]string)
	for _, p := range props {
		if v, ok := styles[p]; ok {
			m[p] = v
		}
	}
	return m
}

// DetectAnomalies flags page-wide patterns no single element is responsible
// for: more than five font families or more than fifteen distinct colors.
func (a *Analyzer) DetectAnomalies(segments []entity.VisualSegment) []entity.Violation {
	var out []entity.Violation

	fonts := distinctFonts(segments)
	if len(fonts) > 5 {
		out = append(out, entity.Violation{
			ElementID:   "page",
			Type:        "typography",
			Description: fmt.Sprintf("Too many different font families detected (%d). Consider consolidating fonts for better brand consistency.", len(fonts)),
			Severity:    entity.SeverityMedium,
		})
	}

	colors := distinctColors(segments)
	if len(colors) > 15 {
		out = append(out, entity.Violation{
			ElementID:   "page",
			Type:        "colors",
			Description: fmt.Sprintf("Large number of different colors detected (%d). Consider using a more consistent color palette.", len(colors)),
			Severity:    entity.SeverityLow,
		})
	}

	return out
}

// Stats summarizes the analyzed segments for reporting.
func (a *Analyzer) Stats(segments []entity.VisualSegment) entity.PageStats {
	return entity.PageStats{
		TotalElements:  len(segments),
		DistinctColors: len(distinctColors(segments)),
		DistinctFonts:  len(distinctFonts(segments)),
	}
}

func distinctFonts(segments []entity.VisualSegment) map[string]bool {
	fonts := make(map[string]bool)
	for _, seg := range segments {
		if f := seg.Typography["font-family"]; f != "" {
			fonts[f] = true
		}
	}
	return fonts
}

func distinctColors(segments []entity.VisualSegment) map[string]bool {
	colors := make(map[string]bool)
	for _, seg := range segments {
		for _, v := range seg.Colors {
			if v != "" && v != "transparent" && v != "inherit" && v != "initial" {
				colors[v] = true
			}
		}
	}
	return colors
}
