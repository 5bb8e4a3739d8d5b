package scraper

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/talentpage/internal/fetch"
)

// extractLogos collects logo candidates ordered by descending source
// priority. Header images with "logo" hints are the strongest signal;
// og:image is kept as a weak fallback since it is usually a promotional
// banner rather than the actual mark.
func extractLogos(doc *goquery.Document, origin string) []LogoCandidate {
	var logos []LogoCandidate

	seen := func(u string) bool {
		for _, l := range logos {
			if l.URL == u {
				return true
			}
		}
		return false
	}

	if ogImage, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && ogImage != "" {
		logos = append(logos, LogoCandidate{URL: fetch.ResolveURL(ogImage, origin), Source: "og:image", Priority: 4})
	}

	doc.Find(`link[rel="apple-touch-icon"], link[rel="apple-touch-icon-precomposed"]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			logos = append(logos, LogoCandidate{URL: fetch.ResolveURL(href, origin), Source: "apple-touch-icon", Priority: 7})
		}
	})

	doc.Find(`link[rel="icon"][type="image/png"], link[rel="shortcut icon"]`).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		sizes, _ := sel.Attr("sizes")
		size, _ := strconv.Atoi(strings.SplitN(sizes, "x", 2)[0])
		boost := float64(size) / 100
		if boost > 3 {
			boost = 3
		}
		logos = append(logos, LogoCandidate{URL: fetch.ResolveURL(href, origin), Source: "favicon", Priority: 3 + boost})
	})

	doc.Find("header img, nav img, .header img, .navbar img, #header img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		if hasLogoHint(sel, src) {
			logos = append(logos, LogoCandidate{URL: fetch.ResolveURL(src, origin), Source: "header-img", Priority: 10})
		}
	})

	// Inline SVG logos: many modern headers wrap an <svg> in the home link.
	// If the SVG embeds an <image>, that URL is usable.
	doc.Find("header svg, nav svg, .header svg, .navbar svg, #header svg").Each(func(_ int, sel *goquery.Selection) {
		cls := strings.ToLower(attrOr(sel, "class"))
		id := strings.ToLower(attrOr(sel, "id"))
		parentCls := strings.ToLower(attrOr(sel.Parent(), "class"))
		parentHref := attrOr(sel.Parent(), "href")

		if strings.Contains(cls, "logo") || strings.Contains(id, "logo") ||
			strings.Contains(parentCls, "logo") || parentHref == "/" || parentHref == origin {
			img := sel.Find("image").First()
			src := attrOr(img, "href")
			if src == "" {
				src = attrOr(img, "xlink:href")
			}
			if src != "" {
				logos = append(logos, LogoCandidate{URL: fetch.ResolveURL(src, origin), Source: "header-svg", Priority: 10})
			}
		}
	})

	doc.Find(`header a[href="/"] img, nav a[href="/"] img, .header a[href="/"] img`).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		resolved := fetch.ResolveURL(src, origin)
		if !seen(resolved) {
			logos = append(logos, LogoCandidate{URL: resolved, Source: "header-home-link", Priority: 9})
		}
	})

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		if hasLogoHint(sel, src) {
			resolved := fetch.ResolveURL(src, origin)
			if !seen(resolved) {
				logos = append(logos, LogoCandidate{URL: resolved, Source: "page-img", Priority: 6})
			}
		}
	})

	sort.SliceStable(logos, func(i, j int) bool {
		return logos[i].Priority > logos[j].Priority
	})

	return logos
}

// hasLogoHint reports whether an img element's alt/class/id/src suggests a logo.
func hasLogoHint(sel *goquery.Selection, src string) bool {
	alt := strings.ToLower(attrOr(sel, "alt"))
	cls := strings.ToLower(attrOr(sel, "class"))
	id := strings.ToLower(attrOr(sel, "id"))
	return strings.Contains(alt, "logo") || strings.Contains(cls, "logo") ||
		strings.Contains(id, "logo") || strings.Contains(strings.ToLower(src), "logo")
}

func attrOr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return v
}
