package audit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

var annotationColors = map[entity.Severity]color.RGBA{
	entity.SeverityHigh:   {R: 0xFF, A: 0xFF},          // #FF0000
	entity.SeverityMedium: {R: 0xFF, G: 0x8C, A: 0xFF}, // #FF8C00
	entity.SeverityLow:    {R: 0xFF, G: 0xD7, A: 0xFF}, // #FFD700
}

// Annotator draws violation markers onto page screenshots and renders the
// standalone HTML audit report.
type Annotator struct {
	face font.Face
}

func NewAnnotator() *Annotator {
	return &Annotator{face: basicfont.Face7x13}
}

// AnnotateScreenshot draws a marker and a numbered label for every violation
// that carries a bounding box, plus a severity legend in the top-right
// corner, and returns the annotated PNG. Label numbers count through the
// whole violation list so they line up with the report; page-level
// violations without a box keep their number but are not drawn.
func (a *Annotator) AnnotateScreenshot(screenshot []byte, violations []entity.Violation) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	img := imaging.Clone(src)
	bounds := img.Bounds()

	var placed []image.Point
	for i, v := range violations {
		if v.Rect == nil {
			continue
		}
		x1, y1 := int(v.Rect.X), int(v.Rect.Y)
		x2, y2 := int(v.Rect.X+v.Rect.Width), int(v.Rect.Y+v.Rect.Height)

		col, ok := annotationColors[v.Severity]
		if !ok {
			col = annotationColors[entity.SeverityHigh]
		}

		a.drawMarker(img, x1, y1, x2, y2, col, v.Severity)

		label := fmt.Sprintf("%d. %s", i+1, strings.ToUpper(v.Type))
		pt := a.labelPosition(x1, y1, x2, y2, label, bounds, placed)
		a.drawLabel(img, pt, label, col)
		placed = append(placed, pt)
	}

	a.drawLegend(img, bounds, violations)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode annotated screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (a *Annotator) drawMarker(dst draw.Image, x1, y1, x2, y2 int, c color.Color, severity entity.Severity) {
	thickness := 2
	switch severity {
	case entity.SeverityHigh:
		thickness = 4
	case entity.SeverityMedium:
		thickness = 3
	}
	for i := 0; i < thickness; i++ {
		outlineRect(dst, x1-i, y1-i, x2+i, y2+i, c)
	}

	// Corner ticks make small elements findable at a glance.
	const tick = 8
	fillRect(dst, x1-tick, y1-tick, x1, y1, c)
	fillRect(dst, x2, y1-tick, x2+tick, y1, c)
	fillRect(dst, x1-tick, y2, x1, y2+tick, c)
	fillRect(dst, x2, y2, x2+tick, y2+tick, c)
}

// labelPosition tries above, below, right then left of the element, keeping
// clear of image edges and labels already placed. When every candidate
// collides it settles for above the element, clamped to the top edge.
func (a *Annotator) labelPosition(x1, y1, x2, y2 int, text string, bounds image.Rectangle, placed []image.Point) image.Point {
	tw, th := a.measure(text)
	const pad = 5

	candidates := []image.Point{
		{X: x1, Y: y1 - th - pad},
		{X: x1, Y: y2 + pad},
		{X: x2 + pad, Y: y1},
		{X: x1 - tw - pad, Y: y1},
	}
	for _, pt := range candidates {
		if pt.X < 0 || pt.X > bounds.Dx()-tw || pt.Y < 0 || pt.Y > bounds.Dy()-th {
			continue
		}
		overlaps := false
		for _, ex := range placed {
			if abs(pt.X-ex.X) < tw+10 && abs(pt.Y-ex.Y) < th+5 {
				overlaps = true
				break
			}
		}
		if !overlaps {
			return pt
		}
	}
	return image.Point{X: x1, Y: max(0, y1-th-pad)}
}

func (a *Annotator) drawLabel(dst draw.Image, pt image.Point, text string, c color.Color) {
	tw, th := a.measure(text)
	const pad = 2
	fillRect(dst, pt.X-pad, pt.Y-pad, pt.X+tw+pad, pt.Y+th+pad, color.White)
	outlineRect(dst, pt.X-pad, pt.Y-pad, pt.X+tw+pad, pt.Y+th+pad, c)
	a.drawText(dst, pt.X, pt.Y, text, c)
}

func (a *Annotator) drawLegend(dst draw.Image, bounds image.Rectangle, violations []entity.Violation) {
	counts := make(map[entity.Severity]int)
	for _, v := range violations {
		counts[v.Severity]++
	}

	var items []string
	for _, sev := range []entity.Severity{entity.SeverityHigh, entity.SeverityMedium, entity.SeverityLow} {
		if counts[sev] > 0 {
			items = append(items, fmt.Sprintf("%s: %d", strings.ToUpper(string(sev)), counts[sev]))
		}
	}
	if len(items) == 0 {
		return
	}
	text := "VIOLATIONS - " + strings.Join(items, " | ")

	tw, th := a.measure(text)
	x := bounds.Dx() - tw - 20
	y := 20

	const pad = 8
	fillRect(dst, x-pad, y-pad, x+tw+pad, y+th+pad, color.White)
	outlineRect(dst, x-pad, y-pad, x+tw+pad, y+th+pad, color.Black)
	outlineRect(dst, x-pad+1, y-pad+1, x+tw+pad-1, y+th+pad-1, color.Black)
	a.drawText(dst, x, y, text, color.Black)
}

func (a *Annotator) measure(text string) (width, height int) {
	return font.MeasureString(a.face, text).Ceil(), a.face.Metrics().Height.Ceil()
}

// drawText paints text with its top-left corner at (x, y).
func (a *Annotator) drawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: a.face,
		Dot:  fixed.P(x, y+a.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

func fillRect(dst draw.Image, x1, y1, x2, y2 int, c color.Color) {
	draw.Draw(dst, image.Rect(x1, y1, x2, y2), image.NewUniform(c), image.Point{}, draw.Src)
}

func outlineRect(dst draw.Image, x1, y1, x2, y2 int, c color.Color) {
	fillRect(dst, x1, y1, x2, y1+1, c)
	fillRect(dst, x1, y2-1, x2, y2, c)
	fillRect(dst, x1, y1, x1+1, y2, c)
	fillRect(dst, x2-1, y1, x2, y2, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
