package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	hexPattern = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b`)
	rgbPattern = regexp.MustCompile(`rgba?\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}(?:\s*,\s*[\d.]+)?\s*\)`)
	hslPattern = regexp.MustCompile(`hsla?\(\s*\d{1,3}\s*,\s*\d{1,3}%?\s*,\s*\d{1,3}%?(?:\s*,\s*[\d.]+)?\s*\)`)
	// CSS custom properties whose names suggest brand colors.
	varPattern = regexp.MustCompile(`--(?:primary|brand|main|accent|secondary)[\w-]*:\s*([^;]+)`)
)

// Signal priorities. Custom properties and theme-color meta tags are explicit
// brand declarations and outrank colors mined from general CSS.
const (
	priorityThemeColor = 10
	priorityCustomProp = 9
	priorityDataAttr   = 8
	priorityCSS        = 5
	priorityHSL        = 3
)

// Elements whose inline styles are most likely to carry brand colors.
var inlineColorSelectors = []string{
	"body", "header", "nav", ".header", ".navbar", "#header",
	"footer", "a", "button", ".btn", "h1", "h2",
}

// extractColors collects raw color signals from the homepage: theme-color
// meta, <style> blocks, inline styles on structurally significant elements,
// and brand-ish data attributes.
func extractColors(doc *goquery.Document) []ColorSignal {
	var colors []ColorSignal

	if themeColor, ok := doc.Find(`meta[name="theme-color"]`).Attr("content"); ok && themeColor != "" {
		colors = append(colors, ColorSignal{Value: themeColor, Source: "theme-color", Priority: priorityThemeColor})
	}

	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		colors = append(colors, colorsFromCSS(sel.Text(), "style-tag")...)
	})

	for _, selector := range inlineColorSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if style, ok := sel.Attr("style"); ok && style != "" {
				colors = append(colors, colorsFromCSS(style, "inline-"+selector)...)
			}
		})
	}

	doc.Find("[data-color], [data-primary-color], [data-brand-color]").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"data-color", "data-primary-color", "data-brand-color"} {
			if v, ok := sel.Attr(attr); ok && v != "" {
				colors = append(colors, ColorSignal{Value: v, Source: "data-attr", Priority: priorityDataAttr})
				break
			}
		}
	})

	return colors
}

// colorsFromCSS extracts color tokens from a block of CSS text.
func colorsFromCSS(css, source string) []ColorSignal {
	var colors []ColorSignal

	for _, m := range hexPattern.FindAllString(css, -1) {
		colors = append(colors, ColorSignal{Value: m, Source: source, Priority: priorityCSS})
	}
	for _, m := range rgbPattern.FindAllString(css, -1) {
		colors = append(colors, ColorSignal{Value: m, Source: source, Priority: priorityCSS})
	}
	for _, m := range hslPattern.FindAllString(css, -1) {
		colors = append(colors, ColorSignal{Value: m, Source: source, Priority: priorityHSL})
	}

	for _, m := range varPattern.FindAllStringSubmatch(css, -1) {
		value := strings.TrimSpace(m[1])
		if strings.HasPrefix(value, "#") || strings.HasPrefix(value, "rgb") || strings.HasPrefix(value, "hsl") {
			colors = append(colors, ColorSignal{Value: value, Source: source + "-var", Priority: priorityCustomProp})
		}
	}

	return colors
}
