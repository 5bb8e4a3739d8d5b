package brand

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/scraper"
)

var (
	rgbValuePattern = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
	hslValuePattern = regexp.MustCompile(`hsla?\(\s*(\d{1,3})\s*,\s*(\d{1,3})%?\s*,\s*(\d{1,3})%?`)
)

// NormalizeHex converts any supported CSS color token (3/6/8-digit hex,
// rgb/rgba, hsl/hsla) to canonical "#rrggbb" lowercase form. Unparseable
// tokens return "".
func NormalizeHex(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if strings.HasPrefix(value, "#") {
		switch len(value) {
		case 4:
			return strings.ToLower("#" + strings.Repeat(string(value[1]), 2) +
				strings.Repeat(string(value[2]), 2) + strings.Repeat(string(value[3]), 2))
		case 7:
			return strings.ToLower(value)
		case 9:
			// Strip alpha.
			return strings.ToLower(value[:7])
		default:
			return ""
		}
	}

	if m := rgbValuePattern.FindStringSubmatch(value); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			return ""
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}

	if m := hslValuePattern.FindStringSubmatch(value); m != nil {
		h, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		return hslToHex(float64(h)/360, float64(s)/100, float64(l)/100)
	}

	return ""
}

func hslToHex(h, s, l float64) string {
	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		hue2rgb := func(p, q, t float64) float64 {
			if t < 0 {
				t++
			}
			if t > 1 {
				t--
			}
			switch {
			case t < 1.0/6:
				return p + (q-p)*6*t
			case t < 1.0/2:
				return q
			case t < 2.0/3:
				return p + (q-p)*(2.0/3-t)*6
			}
			return p
		}
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hue2rgb(p, q, h+1.0/3)
		g = hue2rgb(p, q, h)
		b = hue2rgb(p, q, h-1.0/3)
	}
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(r*255)), int(math.Round(g*255)), int(math.Round(b*255)))
}

// IsNeutral reports whether a canonical hex color is a white, black, or grey
// unlikely to be a brand color.
func IsNeutral(hex string) bool {
	r, g, b, ok := splitHex(hex)
	if !ok {
		return false
	}

	if r > 230 && g > 230 && b > 230 {
		return true
	}
	if r < 25 && g < 25 && b < 25 {
		return true
	}

	max := maxInt(r, maxInt(g, b))
	min := minInt(r, minInt(g, b))
	if max-min < 20 && r > 50 && r < 210 {
		return true
	}
	return false
}

func splitHex(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseInt(hex[1:3], 16, 32)
	gv, err2 := strconv.ParseInt(hex[3:5], 16, 32)
	bv, err3 := strconv.ParseInt(hex[5:7], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}

func colorDistance(hex1, hex2 string) float64 {
	r1, g1, b1, _ := splitHex(hex1)
	r2, g2, b2, _ := splitHex(hex2)
	dr, dg, db := float64(r1-r2), float64(g1-g2), float64(b1-b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// clusterThreshold is the Euclidean RGB distance below which two colors are
// treated as the same brand color.
const clusterThreshold = 40

type colorCluster struct {
	representative string
	count          int
	totalPriority  int
}

func clusterColors(colors []normalizedColor) []colorCluster {
	var clusters []colorCluster
	for _, color := range colors {
		matched := false
		for i := range clusters {
			if colorDistance(color.hex, clusters[i].representative) < clusterThreshold {
				clusters[i].count++
				clusters[i].totalPriority += color.priority
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, colorCluster{
				representative: color.hex,
				count:          1,
				totalPriority:  color.priority,
			})
		}
	}
	return clusters
}

type normalizedColor struct {
	hex      string
	source   string
	priority int
}

// selectColors normalizes, filters, and clusters raw color signals into a
// palette. Explicit brand indicators (CSS custom properties, then the
// theme-color meta tag) override the cluster winner for primary.
func selectColors(raw []scraper.ColorSignal) record.BrandColors {
	if len(raw) == 0 {
		return record.BrandColors{}
	}

	var normalized []normalizedColor
	for _, c := range raw {
		hex := NormalizeHex(c.Value)
		if hex == "" {
			continue
		}
		priority := c.Priority
		if priority == 0 {
			priority = 5
		}
		normalized = append(normalized, normalizedColor{hex: hex, source: c.Source, priority: priority})
	}

	var nonNeutral []normalizedColor
	for _, c := range normalized {
		if !IsNeutral(c.hex) {
			nonNeutral = append(nonNeutral, c)
		}
	}

	clusters := clusterColors(nonNeutral)
	sortClusters(clusters)

	var themeHex, varHex string
	for _, c := range raw {
		if c.Source == "theme-color" && themeHex == "" {
			themeHex = NormalizeHex(c.Value)
		}
		if strings.Contains(c.Source, "-var") && varHex == "" {
			varHex = NormalizeHex(c.Value)
		}
	}

	var palette record.BrandColors
	switch {
	case varHex != "":
		palette.Primary = varHex
	case themeHex != "":
		palette.Primary = themeHex
	case len(clusters) > 0:
		palette.Primary = clusters[0].representative
	}
	if len(clusters) > 1 {
		palette.Secondary = clusters[1].representative
	}
	if len(clusters) > 2 {
		palette.Accent = clusters[2].representative
	}
	return palette
}

func sortClusters(clusters []colorCluster) {
	score := func(c colorCluster) int { return c.totalPriority + c.count*2 }
	// Insertion sort keeps first-seen order between equal scores.
	for i := 1; i < len(clusters); i++ {
		for j := i; j > 0 && score(clusters[j]) > score(clusters[j-1]); j-- {
			clusters[j], clusters[j-1] = clusters[j-1], clusters[j]
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
