package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	fontFamilyPattern = regexp.MustCompile(`font-family:\s*([^;}]+)`)
	fontImportPattern = regexp.MustCompile(`@import\s+url\(['"]?(https?://fonts\.googleapis\.com[^'")\s]+)['"]?\)`)
	familyParamRe     = regexp.MustCompile(`family=([^&]+)`)
)

// extractFonts collects raw font signals: Google Fonts stylesheet links and
// imports plus font-family declarations inside <style> blocks.
func extractFonts(doc *goquery.Document) []FontSignal {
	var fonts []FontSignal

	doc.Find(`link[href*="fonts.googleapis.com"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		fonts = append(fonts, FontSignal{Value: href, Source: "google-fonts-link", Kind: "url"})
		fonts = append(fonts, familiesFromGoogleFontsURL(href)...)
	})

	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		css := sel.Text()
		for _, m := range fontImportPattern.FindAllStringSubmatch(css, -1) {
			fonts = append(fonts, FontSignal{Value: m[1], Source: "google-fonts-import", Kind: "url"})
		}
		for _, m := range fontFamilyPattern.FindAllStringSubmatch(css, -1) {
			value := strings.ReplaceAll(strings.TrimSpace(m[1]), `"`, "")
			value = strings.ReplaceAll(value, "'", "")
			fonts = append(fonts, FontSignal{Value: value, Source: "css-declaration", Kind: "declaration"})
		}
	})

	return fonts
}

// familiesFromGoogleFontsURL parses font family names out of a Google Fonts
// stylesheet URL, e.g. ?family=Open+Sans:400|Lato.
func familiesFromGoogleFontsURL(href string) []FontSignal {
	m := familyParamRe.FindStringSubmatch(href)
	if m == nil {
		return nil
	}
	decoded, err := url.QueryUnescape(m[1])
	if err != nil {
		decoded = m[1]
	}
	var fonts []FontSignal
	for _, family := range strings.Split(decoded, "|") {
		name := strings.ReplaceAll(strings.SplitN(family, ":", 2)[0], "+", " ")
		if name != "" {
			fonts = append(fonts, FontSignal{Value: name, Source: "google-fonts-link", Kind: "name"})
		}
	}
	return fonts
}

// fontsFromCSS extracts font-family declarations from external stylesheet text.
func fontsFromCSS(css, source string) []FontSignal {
	var fonts []FontSignal
	for _, m := range fontFamilyPattern.FindAllStringSubmatch(css, -1) {
		value := strings.ReplaceAll(strings.TrimSpace(m[1]), `"`, "")
		value = strings.ReplaceAll(value, "'", "")
		fonts = append(fonts, FontSignal{Value: value, Source: source, Kind: "declaration"})
	}
	return fonts
}
