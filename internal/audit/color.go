package audit

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// rgb is a color in 8-bit channels.
type rgb struct {
	r, g, b int
}

var (
	rgbPattern = regexp.MustCompile(`rgba?\s*\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
	hslPattern = regexp.MustCompile(`hsl\s*\(\s*(\d+)\s*,\s*(\d+)%\s*,\s*(\d+)%\s*\)`)
)

// parseColor normalizes a CSS color value into 8-bit channels. Hex, rgb(),
// rgba() and hsl() forms are accepted; the alpha channel of rgba() is
// ignored. Anything else is reported as unparseable.
func parseColor(value string) (rgb, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if strings.HasPrefix(v, "#") {
		return parseHex(v)
	}
	if m := rgbPattern.FindStringSubmatch(v); m != nil {
		r, errR := strconv.Atoi(m[1])
		g, errG := strconv.Atoi(m[2])
		b, errB := strconv.Atoi(m[3])
		if errR != nil || errG != nil || errB != nil || r > 255 || g > 255 || b > 255 {
			return rgb{}, false
		}
		return rgb{r, g, b}, true
	}
	if m := hslPattern.FindStringSubmatch(v); m != nil {
		h, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		return hslToRGB(h, s, l), true
	}
	return rgb{}, false
}

func parseHex(v string) (rgb, bool) {
	hex := strings.TrimPrefix(v, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, false
	}
	r, errR := strconv.ParseUint(hex[0:2], 16, 8)
	g, errG := strconv.ParseUint(hex[2:4], 16, 8)
	b, errB := strconv.ParseUint(hex[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return rgb{}, false
	}
	return rgb{int(r), int(g), int(b)}, true
}

// hslToRGB converts hue in degrees plus saturation and lightness percentages.
func hslToRGB(h, s, l int) rgb {
	hf := float64(h)
	sf := float64(s) / 100
	lf := float64(l) / 100

	c := (1 - math.Abs(2*lf-1)) * sf
	x := c * (1 - math.Abs(math.Mod(hf/60, 2)-1))
	m := lf - c/2

	var rf, gf, bf float64
	switch {
	case hf < 60:
		rf, gf, bf = c, x, 0
	case hf < 120:
		rf, gf, bf = x, c, 0
	case hf < 180:
		rf, gf, bf = 0, c, x
	case hf < 240:
		rf, gf, bf = 0, x, c
	case hf < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}
	return rgb{int((rf + m) * 255), int((gf + m) * 255), int((bf + m) * 255)}
}

// colorDistance is the Euclidean distance between two colors in RGB space.
func colorDistance(a, b rgb) float64 {
	dr := float64(a.r - b.r)
	dg := float64(a.g - b.g)
	db := float64(a.b - b.b)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// matchesColor reports whether value is within the rule's tolerance of the
// rule color. Tolerance zero demands channel equality; unparseable values on
// either side never match.
func matchesColor(rule entity.ColorRule, value string) bool {
	want, ok := parseColor(rule.Value)
	if !ok {
		return false
	}
	got, ok := parseColor(value)
	if !ok {
		return false
	}
	if rule.Tolerance == 0 {
		return want == got
	}
	maxDistance := rule.Tolerance * math.Sqrt(3*255*255)
	return colorDistance(want, got) <= maxDistance
}
