package brand

import (
	"sort"
	"strings"

	"github.com/jonathan/talentpage/internal/record"
	"github.com/jonathan/talentpage/internal/scraper"
)

// systemFonts are generic families and OS defaults that never identify a
// brand; they are dropped before frequency counting.
var systemFonts = map[string]bool{
	"arial": true, "helvetica": true, "verdana": true, "georgia": true,
	"times new roman": true, "times": true, "courier new": true, "courier": true,
	"tahoma": true, "trebuchet ms": true, "impact": true,
	"sans-serif": true, "serif": true, "monospace": true, "cursive": true, "fantasy": true,
	"system-ui": true, "-apple-system": true, "blinkmacsystemfont": true, "segoe ui": true,
	"roboto": true, "oxygen": true, "ubuntu": true, "cantarell": true, "fira sans": true,
	"droid sans": true, "helvetica neue": true, "inherit": true, "initial": true, "unset": true,
}

// selectFonts picks heading/body fonts from raw signals: filter out system
// families, count occurrences, take the two most frequent. The first Google
// Fonts stylesheet URL is passed through unchanged so the renderer can inject
// the import.
func selectFonts(raw []scraper.FontSignal) record.BrandFonts {
	if len(raw) == 0 {
		return record.BrandFonts{}
	}

	var googleFontsURL string
	for _, f := range raw {
		if f.Kind == "url" && strings.Contains(f.Value, "fonts.googleapis.com") {
			googleFontsURL = f.Value
			break
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, f := range raw {
		if f.Kind != "name" && f.Kind != "declaration" {
			continue
		}
		// Declarations carry a stack; the first entry is the intended font.
		first := strings.TrimSpace(strings.SplitN(f.Value, ",", 2)[0])
		first = strings.Trim(first, `'"`)
		if first == "" || systemFonts[strings.ToLower(first)] {
			continue
		}
		if counts[first] == 0 {
			order = append(order, first)
		}
		counts[first]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	var fonts record.BrandFonts
	fonts.GoogleFontsURL = googleFontsURL
	if len(order) > 0 {
		fonts.Heading = order[0]
		fonts.Body = order[0]
	}
	if len(order) > 1 {
		fonts.Body = order[1]
	}
	return fonts
}
